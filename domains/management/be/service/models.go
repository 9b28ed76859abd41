package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Domain sentinel errors shared by all gym-scoped entities.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateEmail   = errors.New("email already exists in this gym")
	ErrInvalidReference = errors.New("referenced record does not exist in this gym")
	ErrInvalidInput     = errors.New("invalid input")
)

// Member is a gym member row inside one gym's physical database.
type Member struct {
	ID              uuid.UUID
	FirstName       string
	LastName        string
	Email           string
	PhoneNumber     string
	MembershipStart time.Time
	MembershipEnd   time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Trainer is a gym trainer row.
type Trainer struct {
	ID          uuid.UUID
	Name        string
	Specialty   string
	Email       string
	PhoneNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GymClass is a scheduled class linking a trainer and a member. Both foreign
// keys are only valid within the same gym database.
type GymClass struct {
	ID        uuid.UUID
	Name      string
	TrainerID uuid.UUID
	MemberID  uuid.UUID
	StartTime string // time of day, "HH:MM:SS"
	EndTime   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Payment records a payment made by a member.
type Payment struct {
	ID            uuid.UUID
	MemberID      uuid.UUID
	Amount        string // decimal rendered as text, e.g. "49.90"
	PaymentDate   time.Time
	PaymentMethod string // "online" | "cash"
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MemberEntry records one visit; ExitTime is nil while the member is inside.
type MemberEntry struct {
	ID        uuid.UUID
	MemberID  uuid.UUID
	EntryTime time.Time
	ExitTime  *time.Time
}

// CreateMemberInput / UpdateMemberInput carry write payloads. Update fields
// are pointers: nil leaves the stored value untouched.
type CreateMemberInput struct {
	FirstName       string
	LastName        string
	Email           string
	PhoneNumber     string
	MembershipStart time.Time
	MembershipEnd   time.Time
}

type UpdateMemberInput struct {
	FirstName       *string
	LastName        *string
	Email           *string
	PhoneNumber     *string
	MembershipStart *time.Time
	MembershipEnd   *time.Time
}

type CreateTrainerInput struct {
	Name        string
	Specialty   string
	Email       string
	PhoneNumber string
}

type UpdateTrainerInput struct {
	Name        *string
	Specialty   *string
	Email       *string
	PhoneNumber *string
}

type CreateClassInput struct {
	Name      string
	TrainerID uuid.UUID
	MemberID  uuid.UUID
	StartTime string
	EndTime   string
}

type UpdateClassInput struct {
	Name      *string
	TrainerID *uuid.UUID
	MemberID  *uuid.UUID
	StartTime *string
	EndTime   *string
}

type CreatePaymentInput struct {
	MemberID      uuid.UUID
	Amount        string
	PaymentDate   time.Time
	PaymentMethod string
}

type UpdatePaymentInput struct {
	MemberID      *uuid.UUID
	Amount        *string
	PaymentDate   *time.Time
	PaymentMethod *string
}

type CreateEntryInput struct {
	MemberID  uuid.UUID
	EntryTime *time.Time // nil means "now"
}

type UpdateEntryInput struct {
	ExitTime *time.Time
}
