package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fitstack/gymgate/platform/go/tenant"
)

// Repositories receive the resolved tenant.Handle on every call; the handle
// is the only way to reach a gym database, so a request that skipped gym
// resolution cannot touch tenant data.

type MembersRepository interface {
	List(ctx context.Context, h tenant.Handle) ([]Member, error)
	Create(ctx context.Context, h tenant.Handle, m Member) (Member, error)
	Get(ctx context.Context, h tenant.Handle, id uuid.UUID) (Member, error)
	Update(ctx context.Context, h tenant.Handle, m Member) (Member, error)
	Delete(ctx context.Context, h tenant.Handle, id uuid.UUID) error
}

type TrainersRepository interface {
	List(ctx context.Context, h tenant.Handle) ([]Trainer, error)
	Create(ctx context.Context, h tenant.Handle, t Trainer) (Trainer, error)
	Get(ctx context.Context, h tenant.Handle, id uuid.UUID) (Trainer, error)
	Update(ctx context.Context, h tenant.Handle, t Trainer) (Trainer, error)
	Delete(ctx context.Context, h tenant.Handle, id uuid.UUID) error
}

type ClassesRepository interface {
	List(ctx context.Context, h tenant.Handle) ([]GymClass, error)
	Create(ctx context.Context, h tenant.Handle, c GymClass) (GymClass, error)
	Get(ctx context.Context, h tenant.Handle, id uuid.UUID) (GymClass, error)
	Update(ctx context.Context, h tenant.Handle, c GymClass) (GymClass, error)
	Delete(ctx context.Context, h tenant.Handle, id uuid.UUID) error
}

type PaymentsRepository interface {
	List(ctx context.Context, h tenant.Handle) ([]Payment, error)
	Create(ctx context.Context, h tenant.Handle, p Payment) (Payment, error)
	Get(ctx context.Context, h tenant.Handle, id uuid.UUID) (Payment, error)
	Update(ctx context.Context, h tenant.Handle, p Payment) (Payment, error)
	Delete(ctx context.Context, h tenant.Handle, id uuid.UUID) error
}

type EntriesRepository interface {
	List(ctx context.Context, h tenant.Handle) ([]MemberEntry, error)
	Create(ctx context.Context, h tenant.Handle, e MemberEntry) (MemberEntry, error)
	Get(ctx context.Context, h tenant.Handle, id uuid.UUID) (MemberEntry, error)
	Update(ctx context.Context, h tenant.Handle, e MemberEntry) (MemberEntry, error)
	Delete(ctx context.Context, h tenant.Handle, id uuid.UUID) error
}

// RepoSet bundles the per-entity repositories for construction.
type RepoSet struct {
	Members  MembersRepository
	Trainers TrainersRepository
	Classes  ClassesRepository
	Payments PaymentsRepository
	Entries  EntriesRepository
}

// Service aggregates the gym-scoped entity services.
type Service struct {
	Members  *Members
	Trainers *Trainers
	Classes  *Classes
	Payments *Payments
	Entries  *Entries
}

// New constructs the Service; every repository is required.
func New(repos RepoSet) *Service {
	if repos.Members == nil || repos.Trainers == nil || repos.Classes == nil ||
		repos.Payments == nil || repos.Entries == nil {
		panic("management service requires all repositories")
	}
	return &Service{
		Members:  &Members{repo: repos.Members},
		Trainers: &Trainers{repo: repos.Trainers},
		Classes:  &Classes{repo: repos.Classes},
		Payments: &Payments{repo: repos.Payments},
		Entries:  &Entries{repo: repos.Entries},
	}
}

// Members provides member operations for one gym at a time.
type Members struct {
	repo MembersRepository
}

func (s *Members) List(ctx context.Context, h tenant.Handle) ([]Member, error) {
	return s.repo.List(ctx, h)
}

func (s *Members) Create(ctx context.Context, h tenant.Handle, input CreateMemberInput) (Member, error) {
	if input.MembershipEnd.Before(input.MembershipStart) {
		return Member{}, fmt.Errorf("%w: membership_end precedes membership_start", ErrInvalidInput)
	}
	now := time.Now().UTC()
	return s.repo.Create(ctx, h, Member{
		ID:              uuid.New(),
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Email:           input.Email,
		PhoneNumber:     input.PhoneNumber,
		MembershipStart: input.MembershipStart,
		MembershipEnd:   input.MembershipEnd,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

func (s *Members) Get(ctx context.Context, h tenant.Handle, id uuid.UUID) (Member, error) {
	return s.repo.Get(ctx, h, id)
}

func (s *Members) Update(ctx context.Context, h tenant.Handle, id uuid.UUID, input UpdateMemberInput) (Member, error) {
	current, err := s.repo.Get(ctx, h, id)
	if err != nil {
		return Member{}, err
	}

	next := current
	if input.FirstName != nil {
		next.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		next.LastName = *input.LastName
	}
	if input.Email != nil {
		next.Email = *input.Email
	}
	if input.PhoneNumber != nil {
		next.PhoneNumber = *input.PhoneNumber
	}
	if input.MembershipStart != nil {
		next.MembershipStart = *input.MembershipStart
	}
	if input.MembershipEnd != nil {
		next.MembershipEnd = *input.MembershipEnd
	}
	if next.MembershipEnd.Before(next.MembershipStart) {
		return Member{}, fmt.Errorf("%w: membership_end precedes membership_start", ErrInvalidInput)
	}
	next.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, h, next)
}

func (s *Members) Delete(ctx context.Context, h tenant.Handle, id uuid.UUID) error {
	return s.repo.Delete(ctx, h, id)
}

// Trainers provides trainer operations.
type Trainers struct {
	repo TrainersRepository
}

func (s *Trainers) List(ctx context.Context, h tenant.Handle) ([]Trainer, error) {
	return s.repo.List(ctx, h)
}

func (s *Trainers) Create(ctx context.Context, h tenant.Handle, input CreateTrainerInput) (Trainer, error) {
	now := time.Now().UTC()
	return s.repo.Create(ctx, h, Trainer{
		ID:          uuid.New(),
		Name:        input.Name,
		Specialty:   input.Specialty,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *Trainers) Get(ctx context.Context, h tenant.Handle, id uuid.UUID) (Trainer, error) {
	return s.repo.Get(ctx, h, id)
}

func (s *Trainers) Update(ctx context.Context, h tenant.Handle, id uuid.UUID, input UpdateTrainerInput) (Trainer, error) {
	current, err := s.repo.Get(ctx, h, id)
	if err != nil {
		return Trainer{}, err
	}

	next := current
	if input.Name != nil {
		next.Name = *input.Name
	}
	if input.Specialty != nil {
		next.Specialty = *input.Specialty
	}
	if input.Email != nil {
		next.Email = *input.Email
	}
	if input.PhoneNumber != nil {
		next.PhoneNumber = *input.PhoneNumber
	}
	next.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, h, next)
}

func (s *Trainers) Delete(ctx context.Context, h tenant.Handle, id uuid.UUID) error {
	return s.repo.Delete(ctx, h, id)
}

// Classes provides gym class operations.
type Classes struct {
	repo ClassesRepository
}

func (s *Classes) List(ctx context.Context, h tenant.Handle) ([]GymClass, error) {
	return s.repo.List(ctx, h)
}

func (s *Classes) Create(ctx context.Context, h tenant.Handle, input CreateClassInput) (GymClass, error) {
	now := time.Now().UTC()
	return s.repo.Create(ctx, h, GymClass{
		ID:        uuid.New(),
		Name:      input.Name,
		TrainerID: input.TrainerID,
		MemberID:  input.MemberID,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *Classes) Get(ctx context.Context, h tenant.Handle, id uuid.UUID) (GymClass, error) {
	return s.repo.Get(ctx, h, id)
}

func (s *Classes) Update(ctx context.Context, h tenant.Handle, id uuid.UUID, input UpdateClassInput) (GymClass, error) {
	current, err := s.repo.Get(ctx, h, id)
	if err != nil {
		return GymClass{}, err
	}

	next := current
	if input.Name != nil {
		next.Name = *input.Name
	}
	if input.TrainerID != nil {
		next.TrainerID = *input.TrainerID
	}
	if input.MemberID != nil {
		next.MemberID = *input.MemberID
	}
	if input.StartTime != nil {
		next.StartTime = *input.StartTime
	}
	if input.EndTime != nil {
		next.EndTime = *input.EndTime
	}
	next.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, h, next)
}

func (s *Classes) Delete(ctx context.Context, h tenant.Handle, id uuid.UUID) error {
	return s.repo.Delete(ctx, h, id)
}

// Payments provides payment operations.
type Payments struct {
	repo PaymentsRepository
}

func (s *Payments) List(ctx context.Context, h tenant.Handle) ([]Payment, error) {
	return s.repo.List(ctx, h)
}

func (s *Payments) Create(ctx context.Context, h tenant.Handle, input CreatePaymentInput) (Payment, error) {
	now := time.Now().UTC()
	return s.repo.Create(ctx, h, Payment{
		ID:            uuid.New(),
		MemberID:      input.MemberID,
		Amount:        input.Amount,
		PaymentDate:   input.PaymentDate,
		PaymentMethod: input.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (s *Payments) Get(ctx context.Context, h tenant.Handle, id uuid.UUID) (Payment, error) {
	return s.repo.Get(ctx, h, id)
}

func (s *Payments) Update(ctx context.Context, h tenant.Handle, id uuid.UUID, input UpdatePaymentInput) (Payment, error) {
	current, err := s.repo.Get(ctx, h, id)
	if err != nil {
		return Payment{}, err
	}

	next := current
	if input.MemberID != nil {
		next.MemberID = *input.MemberID
	}
	if input.Amount != nil {
		next.Amount = *input.Amount
	}
	if input.PaymentDate != nil {
		next.PaymentDate = *input.PaymentDate
	}
	if input.PaymentMethod != nil {
		next.PaymentMethod = *input.PaymentMethod
	}
	next.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, h, next)
}

func (s *Payments) Delete(ctx context.Context, h tenant.Handle, id uuid.UUID) error {
	return s.repo.Delete(ctx, h, id)
}

// Entries provides member entry-log operations.
type Entries struct {
	repo EntriesRepository
}

func (s *Entries) List(ctx context.Context, h tenant.Handle) ([]MemberEntry, error) {
	return s.repo.List(ctx, h)
}

func (s *Entries) Create(ctx context.Context, h tenant.Handle, input CreateEntryInput) (MemberEntry, error) {
	entryTime := time.Now().UTC()
	if input.EntryTime != nil {
		entryTime = input.EntryTime.UTC()
	}
	return s.repo.Create(ctx, h, MemberEntry{
		ID:        uuid.New(),
		MemberID:  input.MemberID,
		EntryTime: entryTime,
	})
}

func (s *Entries) Get(ctx context.Context, h tenant.Handle, id uuid.UUID) (MemberEntry, error) {
	return s.repo.Get(ctx, h, id)
}

// Update closes an entry by recording the exit time.
func (s *Entries) Update(ctx context.Context, h tenant.Handle, id uuid.UUID, input UpdateEntryInput) (MemberEntry, error) {
	current, err := s.repo.Get(ctx, h, id)
	if err != nil {
		return MemberEntry{}, err
	}

	next := current
	if input.ExitTime != nil {
		t := input.ExitTime.UTC()
		next.ExitTime = &t
	}

	return s.repo.Update(ctx, h, next)
}

func (s *Entries) Delete(ctx context.Context, h tenant.Handle, id uuid.UUID) error {
	return s.repo.Delete(ctx, h, id)
}
