// Package generator produces random passwords from a character-class
// policy. It is a convenience generator for filling credential forms, not
// a hardened secret generator: every character is drawn independently and
// uniformly from the composed set, with no guarantee that each selected
// class appears.
package generator

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercase = "abcdefghijklmnopqrstuvwxyz"
	digits    = "0123456789"
	symbols   = "!@#$%^&*()-_=+[]{};:,.?/"
)

var (
	// ErrNoCharset is returned when the policy selects no character class.
	ErrNoCharset = errors.New("generator: no character class selected")
	// ErrBadLength is returned for non-positive lengths. Upper bounds are
	// a caller concern.
	ErrBadLength = errors.New("generator: length must be positive")
)

// Policy selects the character classes the password is drawn from.
type Policy struct {
	Uppercase bool
	Lowercase bool
	Digits    bool
	Symbols   bool
}

// Generate returns a random string of exactly length characters drawn from
// the union of the selected classes.
func Generate(length int, p Policy) (string, error) {
	if length < 1 {
		return "", ErrBadLength
	}
	var charset string
	if p.Uppercase {
		charset += uppercase
	}
	if p.Lowercase {
		charset += lowercase
	}
	if p.Digits {
		charset += digits
	}
	if p.Symbols {
		charset += symbols
	}
	if charset == "" {
		return "", ErrNoCharset
	}

	max := big.NewInt(int64(len(charset)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = charset[n.Int64()]
	}
	return string(out), nil
}
