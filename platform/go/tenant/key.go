package tenant

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidKey reports a gym key that cannot name a tenant database.
var ErrInvalidKey = errors.New("invalid gym key")

// DatabaseSuffix is appended to a gym key to derive the physical database
// name. A key maps to exactly one database for the process lifetime.
const DatabaseSuffix = "_db"

// keyPattern constrains gym keys to safe Postgres identifier characters.
// The derived database name is interpolated into CREATE DATABASE, so the
// alphabet is deliberately narrow.
var keyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{1,47}$`)

// ValidateKey reports whether a gym key is usable as a tenant identifier.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: key is required", ErrInvalidKey)
	}
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q must match %s", ErrInvalidKey, key, keyPattern.String())
	}
	return nil
}

// DatabaseName derives the canonical physical database name for a gym key.
// Format: <key>_db.
func DatabaseName(key string) string {
	return key + DatabaseSuffix
}
