package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is an exported constant or variable used by the authentication engine.
const DefaultCost = 10

// Hasher defines a public type used by grcAuth APIs.
//
// Hasher instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Hasher struct {
	cost int
}

// NewHasher describes the newhasher operation and its observable behavior.
//
// NewHasher may return an error when input validation, dependency calls, or security checks fail.
// NewHasher does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewHasher(cost int) (*Hasher, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.New("bcrypt cost out of range")
	}
	return &Hasher{cost: cost}, nil
}

// Hash describes the hash operation and its observable behavior.
//
// Hash may return an error when input validation, dependency calls, or security checks fail.
// Hash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errors.New("empty password")
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify reports whether plaintext produced hash. It returns false, never
// an error, for a mismatch; an error signals a malformed stored hash.
func (h *Hasher) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
