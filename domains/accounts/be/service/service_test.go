package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/fitstack/gymgate/platform/go/auth"
)

// inMemoryRepo is a minimal in-memory impl of Repository for tests.
type inMemoryRepo struct {
	mu     sync.Mutex
	users  map[uuid.UUID]User
	hashes map[uuid.UUID]string
}

func newInMemoryRepo() *inMemoryRepo {
	return &inMemoryRepo{
		users:  make(map[uuid.UUID]User),
		hashes: make(map[uuid.UUID]string),
	}
}

func (r *inMemoryRepo) Create(ctx context.Context, u User, passwordHash string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return User{}, ErrEmailTaken
		}
	}
	r.users[u.ID] = u
	r.hashes[u.ID] = passwordHash
	return u, nil
}

func (r *inMemoryRepo) Get(ctx context.Context, id uuid.UUID) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *inMemoryRepo) FindByEmail(ctx context.Context, email string) (User, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.Email == email {
			return u, r.hashes[id], nil
		}
	}
	return User{}, "", ErrNotFound
}

func (r *inMemoryRepo) List(ctx context.Context) ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, nil
}

func newTestService() (*Service, *inMemoryRepo) {
	repo := newInMemoryRepo()
	issuer := auth.NewIssuer("test-secret", "gymgate", time.Hour, 24*time.Hour)
	return New(repo, issuer), repo
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc, repo := newTestService()

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ada",
		Email:    "  Ada@Example.COM ",
		Password: "hunter22",
	})
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", user.Email)
	require.False(t, user.IsStaff)

	// password is stored hashed, never in the clear
	_, hash, err := repo.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.False(t, strings.Contains(hash, "hunter22"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@b.co", Password: "pw123456"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{Name: "B", Email: "A@B.CO", Password: "pw123456"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterRequiresEmailAndPassword(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Password: "pw"})
	require.Error(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@b.co"})
	require.Error(t, err)
}

func TestLoginMintsPair(t *testing.T) {
	svc, _ := newTestService()

	registered, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "hunter22",
		IsStaff:  true,
	})
	require.NoError(t, err)

	pair, user, err := svc.Login(context.Background(), "ada@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "ada@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesPair(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "hunter22"})
	require.NoError(t, err)

	pair, _, err := svc.Login(context.Background(), "ada@example.com", "hunter22")
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, rotated.AccessToken)
	require.NotEmpty(t, rotated.RefreshToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "hunter22"})
	require.NoError(t, err)

	pair, _, err := svc.Login(context.Background(), "ada@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRejectsDeletedUser(t *testing.T) {
	svc, repo := newTestService()

	user, err := svc.Register(context.Background(), RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "hunter22"})
	require.NoError(t, err)

	pair, _, err := svc.Login(context.Background(), "ada@example.com", "hunter22")
	require.NoError(t, err)

	repo.mu.Lock()
	delete(repo.users, user.ID)
	repo.mu.Unlock()

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
