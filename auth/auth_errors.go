package auth

import "github.com/pkg/errors"

var (
	UserExistsErr         = errors.New("user already exists")
	UserNotFoundErr       = errors.New("user not found")
	InvalidRoleErr        = errors.New("invalid role")
	WeakPasswordErr       = errors.New("weak password")
	InvalidCredentialsErr = errors.New("invalid credentials")
	AccountLockedErr      = errors.New("account locked")
	IncorrectPasswordErr  = errors.New("incorrect password")
	ForbiddenErr          = errors.New("forbidden")
)
