// Package auth orchestrates the password policy, the credential store and
// the session registry into the registration, login, password-change and
// authorization flows consumed by the banking-operations layer.
package auth

import (
	"time"

	"github.com/jrsteele09/go-bank-auth/credentials"
	"github.com/jrsteele09/go-bank-auth/sessions"
	"github.com/jrsteele09/go-bank-auth/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Service implements the authentication and authorization operations. All
// state lives in the injected store and registry, so independent instances
// are fully isolated.
type Service struct {
	store      credentials.Store
	registry   *sessions.Registry
	sessionTTL time.Duration
	nowTime    func() time.Time // nowTime function (injectable for testing)
	log        zerolog.Logger
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = log
	}
}

// WithSessionTTL overrides the lifetime of issued sessions.
func WithSessionTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.sessionTTL = ttl
	}
}

// NewService initializes a Service with its required dependencies. Optional
// configuration can be provided via options (e.g. WithNowTime for testing).
func NewService(store credentials.Store, registry *sessions.Registry, options ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("[NewService] credential store is required")
	}
	if registry == nil {
		return nil, errors.New("[NewService] session registry is required")
	}

	service := &Service{
		store:      store,
		registry:   registry,
		sessionTTL: sessions.DefaultTTL,
		nowTime:    time.Now,
		log:        zerolog.Nop(),
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// Register creates a credential for a new user handle. The candidate
// password must satisfy the strength policy; an empty role defaults to
// customer, matching the registration flow's default choice.
func (s *Service) Register(id, name, password string, role users.RoleType) error {
	if role == "" {
		role = users.RoleCustomer
	}
	if !role.Valid() {
		return errors.Wrap(InvalidRoleErr, string(role))
	}

	if ok, reason := users.ValidatePasswordStrength(password); !ok {
		return errors.Wrap(WeakPasswordErr, reason)
	}

	hash, err := users.HashPassword(password)
	if err != nil {
		return errors.Wrap(err, "[Register] HashPassword")
	}

	if err := s.store.Create(credentials.Credential{
		ID:           id,
		Name:         name,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    s.nowTime(),
	}); err != nil {
		if errors.Is(err, credentials.AlreadyExistsErr) {
			return UserExistsErr
		}
		return errors.Wrap(err, "[Register] store.Create")
	}

	s.log.Info().Str("user_id", credentials.NormalizeID(id)).Str("role", string(role)).Msg("user registered")
	return nil
}

// Login verifies the credentials and mints a session token. Unknown handles
// and wrong passwords both fail with InvalidCredentialsErr so callers cannot
// probe which handles exist; lock state is not secret and is reported as
// AccountLockedErr with the remaining wait time.
func (s *Service) Login(id, password string) (string, error) {
	now := s.nowTime()

	cred, ok := s.store.Get(id)
	if !ok {
		return "", InvalidCredentialsErr
	}

	if s.store.IsLocked(id, now) {
		minutes := remainingMinutes(cred.LockedUntil.Sub(now))
		return "", errors.Wrapf(AccountLockedErr, "try again in %d minutes", minutes)
	}

	// IsLocked may have lazily reset an elapsed lock; re-read so the failure
	// counter below reflects that.
	cred, _ = s.store.Get(id)

	if !users.CheckPasswordHash(password, cred.PasswordHash) {
		if lockedNow := s.store.RecordFailure(id, now); lockedNow {
			s.log.Warn().Str("user_id", cred.ID).Msg("account locked after repeated login failures")
			return "", errors.Wrapf(AccountLockedErr, "%d failed attempts", credentials.LockThreshold)
		}
		cred, _ = s.store.Get(id)
		remaining := credentials.LockThreshold - cred.FailedAttempts
		return "", errors.Wrapf(InvalidCredentialsErr, "%d attempts remaining", remaining)
	}

	s.store.RecordSuccess(id)

	token, err := s.registry.Issue(cred.ID, cred.Role, s.sessionTTL)
	if err != nil {
		return "", errors.Wrap(err, "[Login] registry.Issue")
	}

	s.log.Info().Str("user_id", cred.ID).Str("role", string(cred.Role)).Msg("login successful")
	return token, nil
}

// ChangePassword re-verifies the current password and replaces the stored
// hash with one for the new password. It touches no lockout counters and
// issues no session. Existing sessions stay valid; callers wanting a forced
// re-login must revoke them explicitly.
func (s *Service) ChangePassword(id, currentPassword, newPassword string) error {
	cred, ok := s.store.Get(id)
	if !ok {
		return UserNotFoundErr
	}

	if !users.CheckPasswordHash(currentPassword, cred.PasswordHash) {
		return IncorrectPasswordErr
	}

	if ok, reason := users.ValidatePasswordStrength(newPassword); !ok {
		return errors.Wrap(WeakPasswordErr, reason)
	}

	hash, err := users.HashPassword(newPassword)
	if err != nil {
		return errors.Wrap(err, "[ChangePassword] HashPassword")
	}

	if err := s.store.SetPasswordHash(id, hash); err != nil {
		if errors.Is(err, credentials.NotFoundErr) {
			return UserNotFoundErr
		}
		return errors.Wrap(err, "[ChangePassword] store.SetPasswordHash")
	}

	s.log.Info().Str("user_id", cred.ID).Msg("password changed")
	return nil
}

// Logout revokes the session for a token. Always succeeds from the caller's
// perspective, even when the token was already invalid or revoked.
func (s *Service) Logout(token string) {
	if s.registry.Revoke(token) {
		s.log.Debug().Msg("session revoked")
	}
}

// Authorize validates a token and checks that the session's role holds the
// required permission, returning the session on success.
func (s *Service) Authorize(token, requiredPermission string) (sessions.Session, error) {
	session, err := s.registry.Validate(token)
	if err != nil {
		return sessions.Session{}, errors.Wrap(err, "[Authorize] registry.Validate")
	}

	if !session.Role.HasPermission(requiredPermission) {
		return sessions.Session{}, errors.Wrapf(ForbiddenErr, "role %s lacks %s", session.Role, requiredPermission)
	}

	return session, nil
}

// remainingMinutes converts a lock's remaining duration into whole minutes,
// rounded up so a live lock never reports zero.
func remainingMinutes(remaining time.Duration) int {
	minutes := int((remaining + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
