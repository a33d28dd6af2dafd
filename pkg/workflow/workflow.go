// Package workflow implements the shift and signup state machine: shift
// creation and destructive replacement, the PENDING→CONFIRMED/CANCELLED
// assignment lifecycle, and the cached headcount bookkeeping. Every
// mutation runs in one transaction so the volunteers_count column never
// drifts from the signup rows it summarizes.
package workflow

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arnavshah/volunteer-hub-go/pkg/models"
)

// Service runs the signup workflow against a database.
type Service struct {
	DB *gorm.DB
}

// NewService creates a workflow service.
func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// PositionRequirement is one (position, headcount) entry of a shift.
type PositionRequirement struct {
	PositionID    uuid.UUID `json:"position_id" binding:"required"`
	RequiredCount int       `json:"required_count" binding:"required"`
}

// ShiftInput carries everything needed to create or replace a shift.
type ShiftInput struct {
	Title     string                `json:"title" binding:"max=100"`
	Start     time.Time             `json:"start" binding:"required"`
	End       time.Time             `json:"end" binding:"required"`
	Notes     string                `json:"notes" binding:"max=500"`
	Positions []PositionRequirement `json:"positions" binding:"required"`
}

func (in ShiftInput) validate() error {
	if !in.End.After(in.Start) {
		return ErrInvalidTimeRange
	}
	if len(in.Positions) == 0 {
		return ErrNoPositions
	}
	seen := make(map[uuid.UUID]bool, len(in.Positions))
	for _, p := range in.Positions {
		if p.RequiredCount < 1 {
			return ErrInvalidHeadcount
		}
		if seen[p.PositionID] {
			return ErrDuplicatePosition
		}
		seen[p.PositionID] = true
	}
	return nil
}

// lockForUpdate adds a row lock on engines that support it. SQLite
// serializes writers on its own, so the clause is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// CreateShift creates an OPEN shift plus one shift position per requested
// entry, each starting with zero volunteers.
func (s *Service) CreateShift(groupID uuid.UUID, in ShiftInput) (*models.Shift, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	shift := &models.Shift{
		GroupID: groupID,
		Title:   in.Title,
		Start:   in.Start,
		End:     in.End,
		Notes:   in.Notes,
		Status:  models.ShiftOpen,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, p := range in.Positions {
			var position models.Position
			if err := tx.First(&position, "id = ? AND group_id = ?", p.PositionID, groupID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUnknownPosition
				}
				return err
			}
		}

		if err := tx.Create(shift).Error; err != nil {
			return err
		}
		for _, p := range in.Positions {
			sp := models.ShiftPosition{
				ShiftID:       shift.ID,
				PositionID:    p.PositionID,
				RequiredCount: p.RequiredCount,
			}
			if err := tx.Create(&sp).Error; err != nil {
				return err
			}
			shift.Positions = append(shift.Positions, sp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shift, nil
}

// ReplaceShift is the destructive full-replace update: the time window,
// title and notes are overwritten and the entire position set is rebuilt
// from scratch. Every existing signup is discarded; the returned count of
// previously active signups lets callers warn volunteers to re-apply.
func (s *Service) ReplaceShift(shiftID uuid.UUID, in ShiftInput) (*models.Shift, int64, error) {
	if err := in.validate(); err != nil {
		return nil, 0, err
	}

	var shift models.Shift
	var discarded int64

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&shift, "id = ?", shiftID).Error; err != nil {
			return err
		}
		if shift.Status == models.ShiftCancelled {
			return ErrShiftCancelled
		}
		for _, p := range in.Positions {
			var position models.Position
			if err := tx.First(&position, "id = ? AND group_id = ?", p.PositionID, shift.GroupID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUnknownPosition
				}
				return err
			}
		}

		spIDs := tx.Model(&models.ShiftPosition{}).Select("id").Where("shift_id = ?", shiftID)
		if err := tx.Model(&models.ShiftVolunteer{}).
			Where("shift_position_id IN (?) AND status IN ?", spIDs, []models.VolunteerStatus{models.VolunteerPending, models.VolunteerConfirmed}).
			Count(&discarded).Error; err != nil {
			return err
		}
		if err := tx.Where("shift_position_id IN (?)", spIDs).Delete(&models.ShiftVolunteer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shift_id = ?", shiftID).Delete(&models.ShiftPosition{}).Error; err != nil {
			return err
		}

		shift.Title = in.Title
		shift.Start = in.Start
		shift.End = in.End
		shift.Notes = in.Notes
		shift.Status = models.ShiftOpen
		shift.Positions = nil
		if err := tx.Save(&shift).Error; err != nil {
			return err
		}

		for _, p := range in.Positions {
			sp := models.ShiftPosition{
				ShiftID:       shift.ID,
				PositionID:    p.PositionID,
				RequiredCount: p.RequiredCount,
			}
			if err := tx.Create(&sp).Error; err != nil {
				return err
			}
			shift.Positions = append(shift.Positions, sp)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &shift, discarded, nil
}

// CancelShift moves a shift to CANCELLED. The state is terminal; signups
// on the shift stay in whatever state they were in but no new applications
// are accepted.
func (s *Service) CancelShift(shiftID uuid.UUID) (*models.Shift, error) {
	var shift models.Shift
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&shift, "id = ?", shiftID).Error; err != nil {
			return err
		}
		if shift.Status == models.ShiftCancelled {
			return ErrInvalidTransition
		}
		shift.Status = models.ShiftCancelled
		return tx.Save(&shift).Error
	})
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

// Apply signs a user up for a shift position. The new signup starts
// PENDING and bumps the cached volunteer count. Duplicate active signups
// and full positions are rejected; the check and the increment share one
// transaction so concurrent applies cannot oversubscribe the slot.
func (s *Service) Apply(userID, shiftPositionID uuid.UUID, notes string) (*models.ShiftVolunteer, error) {
	var sv *models.ShiftVolunteer

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var sp models.ShiftPosition
		if err := lockForUpdate(tx).First(&sp, "id = ?", shiftPositionID).Error; err != nil {
			return err
		}

		var shift models.Shift
		if err := tx.First(&shift, "id = ?", sp.ShiftID).Error; err != nil {
			return err
		}
		if shift.Status == models.ShiftCancelled {
			return ErrShiftCancelled
		}

		var active int64
		if err := tx.Model(&models.ShiftVolunteer{}).
			Where("user_id = ? AND shift_position_id = ? AND status IN ?",
				userID, shiftPositionID,
				[]models.VolunteerStatus{models.VolunteerPending, models.VolunteerConfirmed}).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrAlreadySignedUp
		}

		if sp.VolunteersCount >= sp.RequiredCount {
			return ErrPositionFull
		}

		sv = &models.ShiftVolunteer{
			UserID:          userID,
			ShiftPositionID: shiftPositionID,
			Status:          models.VolunteerPending,
			Notes:           notes,
			AppliedAt:       time.Now().UTC(),
		}
		if err := tx.Create(sv).Error; err != nil {
			return err
		}

		sp.VolunteersCount++
		if err := tx.Model(&models.ShiftPosition{}).Where("id = ?", sp.ID).
			Update("volunteers_count", sp.VolunteersCount).Error; err != nil {
			return err
		}

		return s.rederiveShiftStatus(tx, sp.ShiftID)
	})
	if err != nil {
		return nil, err
	}
	return sv, nil
}

// Confirm moves a PENDING signup to CONFIRMED and stamps confirmed_at on
// the first confirmation only. Confirming an already CONFIRMED signup is
// a no-op; confirming a CANCELLED one is an error.
func (s *Service) Confirm(assignmentID uuid.UUID) (*models.ShiftVolunteer, error) {
	var sv models.ShiftVolunteer

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&sv, "id = ?", assignmentID).Error; err != nil {
			return err
		}

		switch sv.Status {
		case models.VolunteerConfirmed:
			return nil // idempotent, confirmed_at untouched
		case models.VolunteerCancelled:
			return ErrInvalidTransition
		}

		sv.Status = models.VolunteerConfirmed
		if sv.ConfirmedAt == nil {
			now := time.Now().UTC()
			sv.ConfirmedAt = &now
		}
		return tx.Save(&sv).Error
	})
	if err != nil {
		return nil, err
	}
	return &sv, nil
}

// Cancel moves a PENDING or CONFIRMED signup to CANCELLED and releases
// its slot. The cached count never goes below zero, and a signup that is
// already CANCELLED cannot be cancelled again, so the slot can never be
// released twice.
func (s *Service) Cancel(assignmentID uuid.UUID) (*models.ShiftVolunteer, error) {
	var sv models.ShiftVolunteer

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&sv, "id = ?", assignmentID).Error; err != nil {
			return err
		}
		if !sv.Status.CanTransition(models.VolunteerCancelled) {
			return ErrInvalidTransition
		}

		sv.Status = models.VolunteerCancelled
		if err := tx.Save(&sv).Error; err != nil {
			return err
		}

		var sp models.ShiftPosition
		if err := lockForUpdate(tx).First(&sp, "id = ?", sv.ShiftPositionID).Error; err != nil {
			return err
		}
		if sp.VolunteersCount > 0 {
			sp.VolunteersCount--
		}
		if err := tx.Model(&models.ShiftPosition{}).Where("id = ?", sp.ID).
			Update("volunteers_count", sp.VolunteersCount).Error; err != nil {
			return err
		}

		return s.rederiveShiftStatus(tx, sp.ShiftID)
	})
	if err != nil {
		return nil, err
	}
	return &sv, nil
}

// Recount recomputes a shift position's volunteer count from the live
// signup rows. This is the reconciliation path for a cached counter that
// drifted through out-of-band writes.
func (s *Service) Recount(shiftPositionID uuid.UUID) (int, error) {
	var count int64

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var sp models.ShiftPosition
		if err := lockForUpdate(tx).First(&sp, "id = ?", shiftPositionID).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.ShiftVolunteer{}).
			Where("shift_position_id = ? AND status IN ?", shiftPositionID,
				[]models.VolunteerStatus{models.VolunteerPending, models.VolunteerConfirmed}).
			Count(&count).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.ShiftPosition{}).Where("id = ?", shiftPositionID).
			Update("volunteers_count", count).Error; err != nil {
			return err
		}
		return s.rederiveShiftStatus(tx, sp.ShiftID)
	})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// DeletePosition removes a position unless shift positions still
// reference it.
func (s *Service) DeletePosition(positionID uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.ShiftPosition{}).Where("position_id = ?", positionID).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrPositionInUse
		}
		result := tx.Delete(&models.Position{}, "id = ?", positionID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// rederiveShiftStatus flips a shift between OPEN and FILLED based on the
// current headcounts. CANCELLED is sticky.
func (s *Service) rederiveShiftStatus(tx *gorm.DB, shiftID uuid.UUID) error {
	var shift models.Shift
	if err := tx.First(&shift, "id = ?", shiftID).Error; err != nil {
		return err
	}
	if shift.Status == models.ShiftCancelled {
		return nil
	}

	var open int64
	if err := tx.Model(&models.ShiftPosition{}).
		Where("shift_id = ? AND volunteers_count < required_count", shiftID).
		Count(&open).Error; err != nil {
		return err
	}

	next := models.ShiftFilled
	if open > 0 {
		next = models.ShiftOpen
	}
	if next == shift.Status {
		return nil
	}
	return tx.Model(&models.Shift{}).Where("id = ?", shiftID).Update("status", next).Error
}
