package models

// ShiftStatus is the lifecycle state of a shift. CANCELLED is terminal;
// OPEN and FILLED flip back and forth as signups come and go.
type ShiftStatus string

const (
	ShiftOpen      ShiftStatus = "OPEN"
	ShiftFilled    ShiftStatus = "FILLED"
	ShiftCancelled ShiftStatus = "CANCELLED"
)

// Valid reports whether s is one of the known shift states.
func (s ShiftStatus) Valid() bool {
	switch s {
	case ShiftOpen, ShiftFilled, ShiftCancelled:
		return true
	}
	return false
}

// VolunteerStatus is the lifecycle state of a signup. The only legal
// transitions are PENDING→CONFIRMED, PENDING→CANCELLED and
// CONFIRMED→CANCELLED; nothing leaves CANCELLED.
type VolunteerStatus string

const (
	VolunteerPending   VolunteerStatus = "PENDING"
	VolunteerConfirmed VolunteerStatus = "CONFIRMED"
	VolunteerCancelled VolunteerStatus = "CANCELLED"
)

// Valid reports whether s is one of the known signup states.
func (s VolunteerStatus) Valid() bool {
	switch s {
	case VolunteerPending, VolunteerConfirmed, VolunteerCancelled:
		return true
	}
	return false
}

// Active reports whether the signup still occupies a slot.
func (s VolunteerStatus) Active() bool {
	return s == VolunteerPending || s == VolunteerConfirmed
}

// CanTransition reports whether a signup may move from s to next.
func (s VolunteerStatus) CanTransition(next VolunteerStatus) bool {
	switch s {
	case VolunteerPending:
		return next == VolunteerConfirmed || next == VolunteerCancelled
	case VolunteerConfirmed:
		return next == VolunteerCancelled
	case VolunteerCancelled:
		return false
	}
	return false
}
