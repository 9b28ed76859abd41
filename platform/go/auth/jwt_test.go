package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerifyPair(t *testing.T) {
	issuer := NewIssuer("test-secret", "gymgate", time.Hour, 24*time.Hour)
	userID := uuid.New()

	pair, err := issuer.IssuePair(userID, "owner@example.com", true)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := issuer.Verify(pair.AccessToken, UseAccess)
	require.NoError(t, err)
	require.Equal(t, userID.String(), claims.Subject)
	require.Equal(t, "owner@example.com", claims.Email)
	require.True(t, claims.IsStaff)
	require.Equal(t, UseAccess, claims.TokenUse)

	refreshClaims, err := issuer.Verify(pair.RefreshToken, UseRefresh)
	require.NoError(t, err)
	require.Equal(t, UseRefresh, refreshClaims.TokenUse)
}

func TestVerifyRejectsWrongUse(t *testing.T) {
	issuer := NewIssuer("test-secret", "gymgate", time.Hour, 24*time.Hour)

	pair, err := issuer.IssuePair(uuid.New(), "a@b.co", false)
	require.NoError(t, err)

	_, err = issuer.Verify(pair.RefreshToken, UseAccess)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Verify(pair.AccessToken, UseRefresh)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewIssuer("secret-one", "gymgate", time.Hour, 24*time.Hour)
	other := NewIssuer("secret-two", "gymgate", time.Hour, 24*time.Hour)

	pair, err := issuer.IssuePair(uuid.New(), "a@b.co", false)
	require.NoError(t, err)

	_, err = other.Verify(pair.AccessToken, UseAccess)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	issuer := NewIssuer("test-secret", "gymgate", time.Hour, 24*time.Hour)

	token, err := issuer.sign(uuid.New(), "a@b.co", false, UseAccess, time.Now().UTC().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)

	_, err = issuer.Verify(token, UseAccess)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	require.Panics(t, func() {
		NewIssuer("  ", "gymgate", time.Hour, time.Hour)
	})
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"standard", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"lowercase scheme", "bearer abc", "abc", true},
		{"padded token", "Bearer   abc  ", "abc", true},
		{"missing header", "", "", false},
		{"wrong scheme", "Basic abc", "", false},
		{"scheme only", "Bearer", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptestRequest(tt.header)
			got, ok := ExtractBearerToken(r)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func httptestRequest(authHeader string) *http.Request {
	r, _ := http.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		r.Header.Set("Authorization", authHeader)
	}
	return r
}
