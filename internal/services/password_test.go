package services_test

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/reefdive/apiserver/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := services.NewPasswordHasher(testSalt, bcrypt.MinCost)

	hash, err := h.Hash("pw123456")
	require.NoError(t, err)
	assert.NotContains(t, hash, "pw123456")
	assert.True(t, h.Compare(hash, "pw123456"))
	assert.False(t, h.Compare(hash, "pw1234567"))
	assert.False(t, h.Compare("not-a-hash", "pw123456"))

	sum := sha256.Sum256([]byte("pw123456" + testSalt))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(hex.EncodeToString(sum[:]))))

	other := services.NewPasswordHasher("other-salt", bcrypt.MinCost)
	assert.False(t, other.Compare(hash, "pw123456"))

	again, err := h.Hash("pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)

	h.CompareDummy("anything")
}

func TestPasswordHasherLongPassword(t *testing.T) {
	h := services.NewPasswordHasher(testSalt, bcrypt.MinCost)
	long := string(make([]byte, 200))

	hash, err := h.Hash(long + "a")
	require.NoError(t, err)
	assert.False(t, h.Compare(hash, long+"b"))
}
