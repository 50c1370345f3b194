// Package credentials owns the mapping from user handle to password hash and
// lockout state. It never sees plaintext passwords: hashing happens in the
// orchestration layer so the store stays reusable for policy-exempt contexts
// such as migrations.
package credentials

import (
	"strings"
	"time"

	"github.com/jrsteele09/go-bank-auth/users"
)

const (
	// LockThreshold is the number of consecutive failed logins that locks a
	// credential.
	LockThreshold = 5

	// LockDuration is how long a credential stays locked once the threshold
	// is reached.
	LockDuration = 15 * time.Minute
)

// Credential is the stored authentication record for one user handle. The
// record holds only the bcrypt hash, never a plaintext password, so the
// external storage layer may persist it as-is.
type Credential struct {
	ID             string         `json:"id"`                        // Case-normalized user handle
	Name           string         `json:"name,omitempty"`            // Display name captured at registration
	Role           users.RoleType `json:"role"`                      // Persisted role, restored at login
	PasswordHash   string         `json:"password_hash,omitempty"`   // bcrypt hash
	FailedAttempts int            `json:"failed_attempts,omitempty"` // Consecutive failed logins since the last success
	LockedUntil    time.Time      `json:"locked_until,omitempty"`    // Zero when not locked
	CreatedAt      time.Time      `json:"created_at,omitempty"`
}

// Locked reports whether the credential is locked as of now.
func (c Credential) Locked(now time.Time) bool {
	return !c.LockedUntil.IsZero() && c.LockedUntil.After(now)
}

// NormalizeID canonicalizes a user handle. All Store implementations key
// records by the normalized form.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
