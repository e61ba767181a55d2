package service

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"go-task-manager/internal/model"
)

// MinPasswordLength is the minimum accepted password length in runes.
const MinPasswordLength = 8

// PasswordHasher produces and verifies bcrypt hashes. bcrypt embeds a
// random per-call salt, so hashing the same password twice yields two
// different hash strings, and its comparison is constant-time.
//
// Hashing is deliberately slow; the semaphore bounds how many bcrypt
// computations run at once so a burst of logins cannot saturate every
// CPU the process has.
type PasswordHasher struct {
	cost int
	sem  chan struct{}
}

func NewPasswordHasher(cost int, maxConcurrent int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if maxConcurrent <= 0 {
		return nil, fmt.Errorf("max concurrent hashes must be positive")
	}

	return &PasswordHasher{
		cost: cost,
		sem:  make(chan struct{}, maxConcurrent),
	}, nil
}

// Hash returns a storable, self-describing hash string. It fails with
// model.ErrWeakPassword when the password is shorter than
// MinPasswordLength.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return "", model.ErrWeakPassword
	}

	h.sem <- struct{}{}
	defer func() { <-h.sem }()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A malformed hash is a
// plain mismatch, never an error.
func (h *PasswordHasher) Verify(password string, hash string) bool {
	h.sem <- struct{}{}
	defer func() { <-h.sem }()

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
