package credentials

import (
	"time"

	"github.com/pkg/errors"
)

var (
	AlreadyExistsErr = errors.New("credential already exists")
	NotFoundErr      = errors.New("credential not found")
)

// Store is the single authority for credential state. Implementations must
// serialize all read-modify-write operations on a given credential:
// concurrent RecordFailure calls must never lose increments.
type Store interface {
	// Create stores a new credential. Fails with AlreadyExistsErr when the
	// (normalized) ID is already present. Password strength is the caller's
	// concern; the store only ever holds the hash.
	Create(cred Credential) error

	// Get returns a read-only copy of the credential, if present.
	Get(id string) (Credential, bool)

	// RecordSuccess resets the failure counter and clears any lock.
	RecordSuccess(id string)

	// RecordFailure increments the failure counter. When the new count
	// reaches LockThreshold the credential is locked until now+LockDuration
	// and RecordFailure reports true.
	RecordFailure(id string, now time.Time) (lockedNow bool)

	// IsLocked reports whether the credential is locked as of now. A lock
	// whose deadline has elapsed is cleared on this call, resetting the
	// failure counter (lazy lock expiry).
	IsLocked(id string, now time.Time) bool

	// SetPasswordHash replaces the stored hash. Fails with NotFoundErr for
	// an unknown ID.
	SetPasswordHash(id, newHash string) error
}
