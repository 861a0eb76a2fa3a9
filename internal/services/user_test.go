package services_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/reefdive/apiserver/internal/auth"
	"github.com/reefdive/apiserver/internal/services"
	"github.com/reefdive/apiserver/internal/store"
	"github.com/reefdive/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterOnce(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	phone := "+91 1"
	user, token, err := e.userService.Register(ctx, services.Registration{
		Name: "Asha", Email: "asha@x.com", Password: "pw123456", Phone: &phone,
	})
	require.NoError(t, err)
	assert.Equal(t, types.RoleCustomer, user.Role)
	assert.NotEqual(t, "pw123456", user.PasswordHash)

	claim, err := e.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claim.UserID)
	assert.Equal(t, "asha@x.com", claim.Email)
	assert.Equal(t, types.RoleCustomer, claim.Role)

	_, _, err = e.userService.Register(ctx, services.Registration{Name: "Other", Email: "asha@x.com", Password: "x"})
	assert.ErrorIs(t, err, store.ErrConflict)

	count, err := e.users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.RegistrationsTotal))
}

func TestRegisterEmailIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.register(t, "Asha", "asha@x.com")

	_, _, err := e.userService.Register(ctx, services.Registration{Name: "Asha", Email: "Asha@x.com", Password: "pw"})
	require.NoError(t, err)

	_, _, err = e.userService.Authenticate(ctx, "ASHA@X.COM", "pw123456")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	registered, _ := e.register(t, "Asha", "asha@x.com")

	user, token, err := e.userService.Authenticate(ctx, "asha@x.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	claim, err := e.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claim.UserID)

	_, _, wrongPassword := e.userService.Authenticate(ctx, "asha@x.com", "wrong")
	_, _, unknownEmail := e.userService.Authenticate(ctx, "nobody@x.com", "pw123456")
	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword, unknownEmail)
	assert.ErrorIs(t, wrongPassword, services.ErrInvalidCredentials)
	assert.Equal(t, 2.0, testutil.ToFloat64(e.metrics.LoginFailures))
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	user, claim := e.register(t, "Asha", "asha@x.com")

	legacy := e.book(t, services.NewBooking{Email: "asha@x.com"})
	for i := 0; i < 10; i++ {
		e.book(t, services.NewBooking{UserID: &user.ID, Email: "asha.other@x.com"})
	}
	e.book(t, services.NewBooking{Email: "someone@x.com"})

	got, bookings, err := e.userService.Profile(ctx, claim)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	require.Len(t, bookings, 10)
	for _, b := range bookings {
		assert.NotEqual(t, legacy.ID, b.ID)
		assert.NotEqual(t, "someone@x.com", b.Email)
	}
	for i := 1; i < len(bookings); i++ {
		assert.Greater(t, bookings[i-1].ID, bookings[i].ID)
	}

	_, _, err = e.userService.Profile(ctx, auth.Claim{UserID: 4242})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
