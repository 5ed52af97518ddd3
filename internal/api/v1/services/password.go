package services

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost applies wherever passwords are hashed: register, login
// rehashing and password change.
const bcryptCost = 12

// commonPasswords are rejected outright regardless of complexity. Compared
// case-insensitively against the candidate.
var commonPasswords = map[string]struct{}{
	"password123": {},
	"qwerty123":   {},
	"123456789":   {},
	"admin123":    {},
	"welcome1":    {},
	"letmein123":  {},
	"123qwerty":   {},
	"adminadmin":  {},
	"p@ssword1":   {},
}

// ValidatePassword checks the password policy: at least 12 characters with
// an uppercase letter, a lowercase letter, a digit and a special character,
// and not on the common-password list. The returned message is empty when
// the password is acceptable.
func ValidatePassword(password string) (bool, string) {
	if password == "" {
		return false, "Password cannot be empty"
	}

	if len(password) < 12 {
		return false, "Password must be at least 12 characters long"
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	var missing []string
	if !hasUpper {
		missing = append(missing, "uppercase letter")
	}
	if !hasLower {
		missing = append(missing, "lowercase letter")
	}
	if !hasDigit {
		missing = append(missing, "digit")
	}
	if !hasSpecial {
		missing = append(missing, "special character")
	}
	if len(missing) > 0 {
		return false, "Password must contain at least one " + strings.Join(missing, ", ")
	}

	if _, common := commonPasswords[strings.ToLower(password)]; common {
		return false, "Password is too common and easily guessable"
	}

	return true, ""
}

// HashPassword hashes a password after validating it against the policy.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the candidate matches the stored hash.
func CheckPassword(hash, password string) bool {
	if hash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
