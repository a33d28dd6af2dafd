package workflow

import "errors"

// Domain errors returned by the signup workflow. Handlers map these onto
// HTTP statuses; everything else bubbles up as an internal error.
var (
	ErrAlreadySignedUp   = errors.New("already signed up for this position")
	ErrPositionFull      = errors.New("position has no remaining capacity")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidTimeRange  = errors.New("shift end must be after start")
	ErrNoPositions       = errors.New("shift requires at least one position")
	ErrInvalidHeadcount  = errors.New("required count must be at least 1")
	ErrPositionInUse     = errors.New("position is referenced by existing shifts")
	ErrShiftCancelled    = errors.New("shift is cancelled")
	ErrUnknownPosition   = errors.New("position does not belong to this group")
	ErrDuplicatePosition = errors.New("duplicate position in shift")
)
