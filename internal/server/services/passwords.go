package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/techclub/recruitd/internal/common"
)

const minPasswordLength = 8

const (
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars   = "0123456789"
	specialChars = "!@#$%^&*()-_=+"
)

// ValidatePassword checks the candidate against the password policy: at
// least eight characters with an upper-case letter, a lower-case letter, a
// digit and a special character. Violations wrap common.ErrWeakPassword.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: at least %d characters required", common.ErrWeakPassword, minPasswordLength)
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

	switch {
	case !hasUpper:
		return fmt.Errorf("%w: an upper-case letter is required", common.ErrWeakPassword)
	case !hasLower:
		return fmt.Errorf("%w: a lower-case letter is required", common.ErrWeakPassword)
	case !hasDigit:
		return fmt.Errorf("%w: a digit is required", common.ErrWeakPassword)
	case !hasSpecial:
		return fmt.Errorf("%w: a special character is required", common.ErrWeakPassword)
	}
	return nil
}

// GenerateRandomPassword returns a policy-satisfying random password of the
// given length (minimum 8). One character from each required class is placed
// first; the remainder is drawn from the full alphabet and the result is
// shuffled so class positions are not predictable.
func GenerateRandomPassword(length int) (string, error) {
	if length < minPasswordLength {
		length = minPasswordLength
	}

	alphabet := lowerChars + upperChars + digitChars + specialChars

	chars := make([]byte, 0, length)
	for _, set := range []string{lowerChars, upperChars, digitChars, specialChars} {
		c, err := randByte(set)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}
	for len(chars) < length {
		c, err := randByte(alphabet)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	// Fisher-Yates with crypto/rand indexes
	for i := len(chars) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		j := int(n.Int64())
		chars[i], chars[j] = chars[j], chars[i]
	}

	password := string(chars)
	if !strings.ContainsAny(password, specialChars) {
		// unreachable under the construction above; a guard for future edits
		return "", fmt.Errorf("generated password failed policy check")
	}
	return password, nil
}

func randByte(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}
