package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher derives stored credentials as bcrypt(hex(sha256(password + salt))).
// The hex digest is always 64 bytes, under bcrypt's 72 byte input limit.
type PasswordHasher struct {
	salt string
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

// NewPasswordHasher uses bcrypt.DefaultCost when cost is zero.
func NewPasswordHasher(salt string, cost int) *PasswordHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{salt: salt, cost: cost}
}

func (h *PasswordHasher) digest(password string) []byte {
	sum := sha256.Sum256([]byte(password + h.salt))
	return []byte(hex.EncodeToString(sum[:]))
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(h.digest(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare reports whether password matches hash. A malformed hash never matches.
func (h *PasswordHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), h.digest(password)) == nil
}

// CompareDummy spends the same work as Compare against a throwaway hash so an
// unknown email takes as long to reject as a wrong password.
func (h *PasswordHasher) CompareDummy(password string) {
	h.dummyOnce.Do(func() {
		h.dummy, _ = bcrypt.GenerateFromPassword(h.digest("reefdive-dummy-password"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummy, h.digest(password))
}
