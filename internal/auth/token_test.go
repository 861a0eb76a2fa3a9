package auth_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/reefdive/apiserver/internal/auth"
	"github.com/reefdive/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issuedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenRoundTrip(t *testing.T) {
	svc := auth.NewTokenService("secret", 0).WithClock(fixedClock(issuedAt))

	claims := []auth.Claim{
		{UserID: 1, Email: "asha@x.com", Role: types.RoleCustomer},
		{UserID: 42, Email: "boss@reef.dive", Role: types.RoleAdmin},
		{UserID: 7, Email: "", Role: types.RoleInstructor},
	}
	for _, claim := range claims {
		token, err := svc.Issue(claim)
		require.NoError(t, err)
		require.Len(t, strings.Split(token, "."), 3)

		later := svc.WithClock(fixedClock(issuedAt.Add(23 * time.Hour)))
		got, err := later.Verify(token)
		require.NoError(t, err)

		assert.Equal(t, claim.UserID, got.UserID)
		assert.Equal(t, claim.Email, got.Email)
		assert.Equal(t, claim.Role, got.Role)
		assert.True(t, got.ExpiresAt.Equal(issuedAt.Add(auth.DefaultTokenTTL)), "expires at %s", got.ExpiresAt)
	}
}

func TestTokenPayloadIsReadable(t *testing.T) {
	svc := auth.NewTokenService("secret", time.Hour).WithClock(fixedClock(issuedAt))
	token, err := svc.Issue(auth.Claim{UserID: 3, Email: "a@b.c", Role: types.RoleCustomer})
	require.NoError(t, err)

	payload, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[1])
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "3", decoded["sub"])
	assert.Equal(t, "a@b.c", decoded["email"])
	assert.Equal(t, "customer", decoded["role"])
	assert.EqualValues(t, issuedAt.Add(time.Hour).Unix(), decoded["exp"])
}

func TestTokenExpiry(t *testing.T) {
	svc := auth.NewTokenService("secret", 0).WithClock(fixedClock(issuedAt))
	token, err := svc.Issue(auth.Claim{UserID: 1, Email: "asha@x.com", Role: types.RoleCustomer})
	require.NoError(t, err)

	for _, offset := range []time.Duration{24 * time.Hour, 24*time.Hour + time.Second, 30 * 24 * time.Hour} {
		_, err := svc.WithClock(fixedClock(issuedAt.Add(offset))).Verify(token)
		assert.ErrorIs(t, err, auth.ErrExpiredToken, "offset %s", offset)
	}
}

func TestTokenRejectsTampering(t *testing.T) {
	svc := auth.NewTokenService("secret", 0).WithClock(fixedClock(issuedAt))
	token, err := svc.Issue(auth.Claim{UserID: 1, Email: "asha@x.com", Role: types.RoleCustomer})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	forged, err := json.Marshal(map[string]any{
		"sub":   "1",
		"email": "asha@x.com",
		"role":  "admin",
		"exp":   issuedAt.Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)

	_, err = svc.Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	other := auth.NewTokenService("other-secret", 0).WithClock(fixedClock(issuedAt))
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenRejectsMalformedInput(t *testing.T) {
	svc := auth.NewTokenService("secret", 0)

	for _, token := range []string{"", "abc", "a.b.c", "a.b"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken, "token %q", token)
	}
}

func TestTokenRejectsUnsignedAndMissingClaims(t *testing.T) {
	svc := auth.NewTokenService("secret", 0).WithClock(fixedClock(issuedAt))

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1",
		"exp": issuedAt.Add(time.Hour).Unix(),
	})
	none, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Verify(none)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.Verify(noExpiry)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "not-a-number",
		"exp": issuedAt.Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.Verify(badSubject)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "bearer   tok ", want: "tok"},
		{header: "", wantErr: true},
		{header: "Basic dXNlcjpwYXNz", wantErr: true},
		{header: "Bearer ", wantErr: true},
		{header: "Bearer", wantErr: true},
	}
	for _, tt := range tests {
		got, err := auth.BearerToken(tt.header)
		if tt.wantErr {
			assert.Error(t, err, "header %q", tt.header)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
