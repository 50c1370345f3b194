package sessions

import (
	"time"

	"github.com/jrsteele09/go-bank-auth/users"
)

// Session is the server-side record bound to an issued token. Sessions are
// immutable once issued: the role is the subject's role at issuance time and
// does not track later role changes. Callers re-authenticate to pick those up.
type Session struct {
	SubjectID string         // The authenticated user handle
	Role      users.RoleType // Role at issuance time
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry as of now.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
