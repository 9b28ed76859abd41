package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Token uses distinguish the two halves of an issued pair. Refresh tokens are
// only accepted by the refresh endpoint, never by resource middleware.
const (
	UseAccess  = "access"
	UseRefresh = "refresh"
)

// ErrInvalidToken covers malformed, expired, mis-signed and wrong-use tokens.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload minted for authenticated users.
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	IsStaff  bool   `json:"is_staff"`
	TokenUse string `json:"token_use"`
}

// TokenPair bundles the access/refresh tokens returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

// Issuer mints and verifies HMAC-signed JWTs for the API.
type Issuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer constructs an Issuer. The secret is required; TTLs fall back to
// 1h access / 7d refresh when zero.
func NewIssuer(secret, issuer string, accessTTL, refreshTTL time.Duration) *Issuer {
	if strings.TrimSpace(secret) == "" {
		panic("auth issuer requires secret")
	}
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	if issuer == "" {
		issuer = "gymgate"
	}
	return &Issuer{secret: []byte(secret), issuer: issuer, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// IssuePair mints a fresh access/refresh token pair for the user.
func (i *Issuer) IssuePair(userID uuid.UUID, email string, isStaff bool) (TokenPair, error) {
	now := time.Now().UTC()

	access, err := i.sign(userID, email, isStaff, UseAccess, now, i.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := i.sign(userID, email, isStaff, UseRefresh, now, i.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify parses and validates a token, additionally enforcing the expected
// token use.
func (i *Issuer) Verify(tokenString, expectedUse string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.TokenUse != expectedUse {
		return Claims{}, fmt.Errorf("%w: expected %s token", ErrInvalidToken, expectedUse)
	}
	return claims, nil
}

func (i *Issuer) sign(userID uuid.UUID, email string, isStaff bool, use string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:    email,
		IsStaff:  isStaff,
		TokenUse: use,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// ExtractBearerToken pulls the bearer token out of the Authorization header.
func ExtractBearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	const prefix = "Bearer "
	// Case-insensitive prefix match.
	if len(authHeader) < len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return "", false
	}

	return strings.TrimSpace(authHeader[len(prefix):]), true
}
