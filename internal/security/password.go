package security

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	SchemePlain  = "plain"
	SchemeBcrypt = "bcrypt"
)

// CredentialVerifier turns a submitted password into what gets stored and
// checks later submissions against it. Handlers only see this interface, so
// the storage scheme can change without touching them.
type CredentialVerifier interface {
	Encode(plain string) (string, error)
	Verify(stored, plain string) bool
}

func NewVerifier(scheme string) (CredentialVerifier, error) {
	switch scheme {
	case "", SchemePlain:
		return PlainVerifier{}, nil
	case SchemeBcrypt:
		return BcryptVerifier{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}

// PlainVerifier stores passwords verbatim and compares them exactly.
type PlainVerifier struct{}

func (PlainVerifier) Encode(plain string) (string, error) { return plain, nil }

func (PlainVerifier) Verify(stored, plain string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}

type BcryptVerifier struct {
	Cost int
}

// Encode hashes a plain text password with bcrypt.
func (v BcryptVerifier) Encode(plain string) (string, error) {
	cost := v.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func (BcryptVerifier) Verify(stored, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
}
