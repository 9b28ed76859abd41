package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fitstack/gymgate/platform/go/auth"
)

// Domain sentinel errors.
var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User represents the domain view of a control-plane account.
type User struct {
	ID          uuid.UUID
	Name        string
	Phone       string
	Email       string
	IsStaff     bool
	IsSuperuser bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RegisterInput represents the payload required to create an account.
type RegisterInput struct {
	Name        string
	Phone       string
	Email       string
	Password    string
	IsStaff     bool
	IsSuperuser bool
}

// Repository abstracts control-plane persistence for accounts.
type Repository interface {
	Create(ctx context.Context, u User, passwordHash string) (User, error)
	Get(ctx context.Context, id uuid.UUID) (User, error)
	FindByEmail(ctx context.Context, email string) (User, string, error)
	List(ctx context.Context) ([]User, error)
}

// Service provides account registration and token issuance.
type Service struct {
	repo   Repository
	issuer *auth.Issuer
}

// New constructs a Service with required dependencies.
func New(repo Repository, issuer *auth.Issuer) *Service {
	if repo == nil {
		panic("accounts repo is required")
	}
	if issuer == nil {
		panic("token issuer is required")
	}
	return &Service{repo: repo, issuer: issuer}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return User{}, fmt.Errorf("email is required")
	}
	if input.Password == "" {
		return User{}, fmt.Errorf("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	return s.repo.Create(ctx, User{
		ID:          uuid.New(),
		Name:        input.Name,
		Phone:       input.Phone,
		Email:       email,
		IsStaff:     input.IsStaff,
		IsSuperuser: input.IsSuperuser,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, string(hash))
}

// Login verifies credentials and mints a token pair.
func (s *Service) Login(ctx context.Context, email, password string) (auth.TokenPair, User, error) {
	user, hash, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return auth.TokenPair{}, User{}, ErrInvalidCredentials
		}
		return auth.TokenPair{}, User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return auth.TokenPair{}, User{}, ErrInvalidCredentials
	}

	pair, err := s.issuer.IssuePair(user.ID, user.Email, user.IsStaff)
	if err != nil {
		return auth.TokenPair{}, User{}, err
	}
	return pair, user, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The account is
// re-read so staff changes take effect on rotation.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	claims, err := s.issuer.Verify(refreshToken, auth.UseRefresh)
	if err != nil {
		return auth.TokenPair{}, ErrInvalidCredentials
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return auth.TokenPair{}, ErrInvalidCredentials
	}

	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return auth.TokenPair{}, ErrInvalidCredentials
		}
		return auth.TokenPair{}, err
	}

	return s.issuer.IssuePair(user.ID, user.Email, user.IsStaff)
}

// Get returns an account by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (User, error) {
	return s.repo.Get(ctx, id)
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}
