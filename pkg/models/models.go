package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the authentication identity plus profile fields. The password
// hash never leaves the API.
type User struct {
	Base
	Name         string     `json:"name" gorm:"type:varchar(100);not null"`
	Email        string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"type:text;not null"`
	Phone        string     `json:"phone,omitempty" gorm:"type:varchar(30)"`
	Bio          string     `json:"bio,omitempty" gorm:"type:text"`
	Gender       string     `json:"gender,omitempty" gorm:"type:varchar(20)"`
	Birthdate    *time.Time `json:"birthdate,omitempty"`
}

// Organization is the top-level tenant owning groups.
type Organization struct {
	Base
	Name         string    `json:"name" gorm:"type:varchar(100);not null"`
	Description  string    `json:"description,omitempty" gorm:"type:text"`
	ContactEmail string    `json:"contact_email,omitempty" gorm:"type:varchar(255)"`
	ContactPhone string    `json:"contact_phone,omitempty" gorm:"type:varchar(30)"`
	CreatedByID  uuid.UUID `json:"created_by_id" gorm:"type:uuid;not null;index"`

	Groups  []Group              `json:"groups,omitempty" gorm:"foreignKey:OrganizationID"`
	Members []OrganizationMember `json:"members,omitempty" gorm:"foreignKey:OrganizationID"`
}

// OrganizationMember links a user to an organization with a role.
type OrganizationMember struct {
	Base
	UserID         uuid.UUID        `json:"user_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_org_user"`
	OrganizationID uuid.UUID        `json:"organization_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_org_user"`
	Role           OrganizationRole `json:"role" gorm:"type:varchar(20);not null;default:'MEMBER'"`
	JoinedAt       time.Time        `json:"joined_at"`
	InvitedByID    *uuid.UUID       `json:"invited_by_id,omitempty" gorm:"type:uuid"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Group is a team inside an organization that schedules shifts.
type Group struct {
	Base
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index"`
	Name           string    `json:"name" gorm:"type:varchar(100);not null"`
	Description    string    `json:"description,omitempty" gorm:"type:text"`
	Color          string    `json:"color,omitempty" gorm:"type:varchar(20)"`
	Icon           string    `json:"icon,omitempty" gorm:"type:varchar(50)"`
	CreatedByID    uuid.UUID `json:"created_by_id" gorm:"type:uuid;not null"`

	Positions []Position  `json:"positions,omitempty" gorm:"foreignKey:GroupID"`
	Shifts    []Shift     `json:"shifts,omitempty" gorm:"foreignKey:GroupID"`
	Members   []GroupUser `json:"members,omitempty" gorm:"foreignKey:GroupID"`
}

// GroupUser links a user to a group with a group-level role.
type GroupUser struct {
	Base
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_group_user"`
	GroupID  uuid.UUID `json:"group_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_group_user"`
	Role     GroupRole `json:"role" gorm:"type:varchar(20);not null;default:'VOLUNTEER'"`
	JoinedAt time.Time `json:"joined_at"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Position is a named role within a group, e.g. "Usher" or "Guitarist".
type Position struct {
	Base
	GroupID     uuid.UUID `json:"group_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
}

// Shift is a scheduled time window requiring staffing.
type Shift struct {
	Base
	GroupID uuid.UUID   `json:"group_id" gorm:"type:uuid;not null;index"`
	Title   string      `json:"title,omitempty" gorm:"type:varchar(100)"`
	Start   time.Time   `json:"start" gorm:"not null;index"`
	End     time.Time   `json:"end" gorm:"not null"`
	Notes   string      `json:"notes,omitempty" gorm:"type:varchar(500)"`
	Status  ShiftStatus `json:"status" gorm:"type:varchar(20);not null;default:'OPEN'"`

	Positions []ShiftPosition `json:"positions,omitempty" gorm:"foreignKey:ShiftID"`
}

// SpansMidnight reports whether the shift ends on a later calendar day
// than it starts (in UTC).
func (s Shift) SpansMidnight() bool {
	sy, sm, sd := s.Start.UTC().Date()
	ey, em, ed := s.End.UTC().Date()
	return sy != ey || sm != em || sd != ed
}

// ShiftPosition says how many of one position a shift needs.
// VolunteersCount is a cached counter over the non-cancelled signups and
// is only ever updated inside the same transaction as the signup rows.
type ShiftPosition struct {
	Base
	ShiftID         uuid.UUID `json:"shift_id" gorm:"type:uuid;not null;index"`
	PositionID      uuid.UUID `json:"position_id" gorm:"type:uuid;not null;index"`
	RequiredCount   int       `json:"required_count" gorm:"not null"`
	VolunteersCount int       `json:"volunteers_count" gorm:"not null;default:0"`

	Position   Position         `json:"position,omitempty" gorm:"foreignKey:PositionID"`
	Volunteers []ShiftVolunteer `json:"volunteers,omitempty" gorm:"foreignKey:ShiftPositionID"`
}

// ShiftVolunteer is one user's application to fill one unit of a
// shift position's headcount.
type ShiftVolunteer struct {
	Base
	UserID          uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	ShiftPositionID uuid.UUID       `json:"shift_position_id" gorm:"type:uuid;not null;index"`
	Status          VolunteerStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING'"`
	Notes           string          `json:"notes,omitempty" gorm:"type:varchar(500)"`
	AppliedAt       time.Time       `json:"applied_at"`
	ConfirmedAt     *time.Time      `json:"confirmed_at,omitempty"`
	// RejectedAt is carried for API compatibility; no workflow sets it.
	RejectedAt *time.Time `json:"rejected_at,omitempty"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
