package users

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// PasswordSpecialChars is the character set that satisfies the
// special-character rule of the password policy.
const PasswordSpecialChars = `!@#$%^&*(),.?":{}|<>`

// ValidatePasswordStrength checks a candidate password against the policy:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
// - Contains at least one character from PasswordSpecialChars
//
// Rules are checked in that order and the first failure is reported, so
// callers can surface a single actionable message.
func ValidatePasswordStrength(password string) (bool, string) {
	if len(password) < 8 {
		return false, "password must be at least 8 characters"
	}

	var (
		hasUpper   bool
		hasLower   bool
		hasNumber  bool
		hasSpecial bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		case strings.ContainsRune(PasswordSpecialChars, char):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return false, "password must contain at least one uppercase letter"
	}
	if !hasLower {
		return false, "password must contain at least one lowercase letter"
	}
	if !hasNumber {
		return false, "password must contain at least one number"
	}
	if !hasSpecial {
		return false, "password must contain at least one special character"
	}

	return true, "password is strong"
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash verifies a plaintext password against a bcrypt hash.
// bcrypt's comparison is constant-time with respect to the hash contents.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
