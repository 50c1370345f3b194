// Package sessions issues and validates session tokens. Tokens are
// HS256-signed JWTs carrying the subject, role and expiry, and every issued
// token is also tracked server-side so revocation takes effect immediately:
// a token validates only while its registry entry exists.
package sessions

import (
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-bank-auth/users"
	"github.com/pkg/errors"
)

// DefaultTTL applies when Issue is called with a non-positive ttl.
const DefaultTTL = 24 * time.Hour

var (
	InvalidTokenErr = errors.New("invalid token")
	ExpiredTokenErr = errors.New("token expired")
)

// Registry owns the live sessions for one process.
type Registry struct {
	secret   []byte
	mu       sync.Mutex
	sessions map[string]Session
	nowTime  func() time.Time // nowTime function (injectable for testing)
}

// RegistryOption defines a function type to modify the Registry instance.
type RegistryOption func(*Registry)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.nowTime = nowFunc
	}
}

// NewRegistry creates a session registry signing tokens with the given
// secret. The secret must not be empty: an unsigned token would be forgeable.
func NewRegistry(secret []byte, options ...RegistryOption) (*Registry, error) {
	if len(secret) == 0 {
		return nil, errors.New("[NewRegistry] signing secret is required")
	}

	registry := &Registry{
		secret:   secret,
		sessions: make(map[string]Session),
		nowTime:  time.Now,
	}

	for _, opt := range options {
		opt(registry)
	}

	return registry, nil
}

// Issue mints a signed token for the subject and records the session. A
// non-positive ttl falls back to DefaultTTL.
func (r *Registry) Issue(subjectID string, role users.RoleType, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := r.nowTime()
	expiresAt := now.Add(ttl)

	claims := jwtlib.MapClaims{
		"sub":  subjectID,           // The authenticated user
		"role": string(role),        // Role at issuance time
		"iat":  now.Unix(),          // Issued At
		"exp":  expiresAt.Unix(),    // Expiry
		"jti":  uuid.New().String(), // Unique token ID
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(r.secret)
	if err != nil {
		return "", errors.Wrap(err, "[Issue] failed to sign token")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[signed] = Session{
		SubjectID: subjectID,
		Role:      role,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}

	return signed, nil
}

// Validate returns the session bound to a token. It fails with
// ExpiredTokenErr when the token is past its expiry, and with
// InvalidTokenErr when the token is malformed, fails signature verification,
// was never issued or has been revoked. Expired sessions are evicted lazily
// on the first Validate that sees them.
func (r *Registry) Validate(rawToken string) (Session, error) {
	parser := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(r.nowTime),
	)

	_, err := parser.Parse(rawToken, func(token *jwtlib.Token) (any, error) {
		return r.secret, nil
	})

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			delete(r.sessions, rawToken)
			return Session{}, errors.Wrap(ExpiredTokenErr, err.Error())
		}
		return Session{}, errors.Wrap(InvalidTokenErr, err.Error())
	}

	session, ok := r.sessions[rawToken]
	if !ok {
		return Session{}, errors.Wrap(InvalidTokenErr, "token not issued or revoked")
	}
	if session.Expired(r.nowTime()) {
		delete(r.sessions, rawToken)
		return Session{}, ExpiredTokenErr
	}

	return session, nil
}

// Revoke removes the session for a token, reporting whether anything was
// removed. Revoking an unknown or already-revoked token is not an error.
func (r *Registry) Revoke(rawToken string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sessions[rawToken]
	delete(r.sessions, rawToken)
	return ok
}

// Active returns the number of sessions currently held, counting expired
// ones that have not yet been lazily evicted.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
