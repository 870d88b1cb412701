package auth

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when the configured cost is outside bcrypt's range.
const DefaultBcryptCost = 12

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using cost, or DefaultBcryptCost when cost is
// outside [bcrypt.MinCost, bcrypt.MaxCost].
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &Hasher{cost: cost}
}

// Cost returns the bcrypt cost in use.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns a salted bcrypt hash of secret. It fails only for secrets
// longer than 72 bytes or on a broken random source.
func (h *Hasher) Hash(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether secret produced hash. A malformed hash is a mismatch.
func (h *Hasher) Verify(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// Password policy rules, in the order they are checked.
const (
	RuleMinLength = "min_length"
	RuleDigit     = "digit"
	RuleUppercase = "uppercase"
	RuleLowercase = "lowercase"
	RuleMaxLength = "max_length"
)

const (
	minPasswordLength = 8
	maxPasswordBytes  = 72
)

// PolicyError names the first password rule a candidate failed.
type PolicyError struct {
	Rule    string
	Message string
}

func (e *PolicyError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrWeakPassword) hold.
func (e *PolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

// CheckPasswordPolicy accepts a password of at least 8 characters with at
// least one digit, one uppercase and one lowercase letter. Passwords longer
// than bcrypt's 72 byte input limit are refused rather than silently truncated.
func CheckPasswordPolicy(password string) error {
	if len([]rune(password)) < minPasswordLength {
		return &PolicyError{Rule: RuleMinLength, Message: "password must be at least 8 characters long"}
	}
	if len(password) > maxPasswordBytes {
		return &PolicyError{Rule: RuleMaxLength, Message: "password must be at most 72 bytes long"}
	}

	var digit, upper, lower bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		}
	}

	switch {
	case !digit:
		return &PolicyError{Rule: RuleDigit, Message: "password must contain at least one digit"}
	case !upper:
		return &PolicyError{Rule: RuleUppercase, Message: "password must contain at least one uppercase letter"}
	case !lower:
		return &PolicyError{Rule: RuleLowercase, Message: "password must contain at least one lowercase letter"}
	}
	return nil
}
