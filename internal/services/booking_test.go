package services_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/reefdive/apiserver/internal/auth"
	"github.com/reefdive/apiserver/internal/notify"
	"github.com/reefdive/apiserver/internal/services"
	"github.com/reefdive/apiserver/internal/store"
	"github.com/reefdive/apiserver/internal/validation"
	"github.com/reefdive/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingSnapshotsCourse(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	booking := e.book(t, services.NewBooking{CourseID: "open-water"})
	assert.Equal(t, types.BookingPending, booking.Status)
	assert.Equal(t, types.PaymentUnpaid, booking.PaymentStatus)
	assert.Equal(t, "₹35,000", booking.CoursePrice)
	assert.Nil(t, booking.UserID)

	course, err := e.courses.Get(ctx, "open-water")
	require.NoError(t, err)
	originalTitle := course.Title
	course.Title = "Open Water Deluxe"
	course.Price = "₹40,000"
	_, err = e.courses.Upsert(ctx, course)
	require.NoError(t, err)

	stored, err := e.bookingService.Get(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "₹35,000", stored.CoursePrice)
	assert.Equal(t, originalTitle, stored.CourseName)

	sent := e.notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, notify.KindBookingConfirmation, sent[0].Kind)
	assert.Equal(t, "asha@x.com", sent[0].To)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.BookingsCreated))
}

func TestCreateBookingUnknownCourse(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	_, err := e.bookingService.Create(ctx, services.NewBooking{
		Name: "Asha", Email: "asha@x.com", Phone: "1", CourseID: "does-not-exist", PreferredDate: "2026-12-01",
	})
	assert.ErrorIs(t, err, services.ErrCourseNotFound)

	all, err := e.bookingService.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, e.notifier.all())
}

func TestCreateBookingSurvivesNotifierFailure(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.notifier.err = errBoom

	booking := e.book(t, services.NewBooking{})
	stored, err := e.bookingService.Get(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, stored.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.NotificationsFailed.WithLabelValues(string(notify.KindBookingConfirmation))))
}

func TestListBookings(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	first := e.book(t, services.NewBooking{})
	second := e.book(t, services.NewBooking{Email: "ravi@x.com"})

	all, err := e.bookingService.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)

	confirmed, err := e.bookingService.List(ctx, types.BookingConfirmed)
	require.NoError(t, err)
	assert.Empty(t, confirmed)

	_, err = e.bookingService.List(ctx, "archived")
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"status"}, verr.Invalid)
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	owner, ownerClaim := e.register(t, "Asha", "asha@x.com")
	_, strangerClaim := e.register(t, "Ravi", "ravi@x.com")

	booking := e.book(t, services.NewBooking{UserID: &owner.ID})

	_, err := e.bookingService.Cancel(ctx, strangerClaim, booking.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	cancelled, err := e.bookingService.Cancel(ctx, ownerClaim, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, types.BookingCancelled, cancelled.Status)

	again, err := e.bookingService.Cancel(ctx, ownerClaim, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, types.BookingCancelled, again.Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.BookingsCancelled))

	_, err = e.bookingService.Cancel(ctx, ownerClaim, 4242)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCancelBookingLegacyOwnerAndStaff(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	_, ownerClaim := e.register(t, "Asha", "asha@x.com")

	legacy := e.book(t, services.NewBooking{Email: "asha@x.com"})
	_, err := e.bookingService.Cancel(ctx, ownerClaim, legacy.ID)
	require.NoError(t, err)

	linked := e.book(t, services.NewBooking{UserID: &ownerClaim.UserID, Email: "asha@x.com"})
	other := auth.Claim{UserID: ownerClaim.UserID + 100, Email: "asha@x.com", Role: types.RoleCustomer}
	_, err = e.bookingService.Cancel(ctx, other, linked.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	for _, role := range []types.Role{types.RoleInstructor, types.RoleAdmin} {
		b := e.book(t, services.NewBooking{Email: "someone@x.com"})
		cancelled, err := e.bookingService.Cancel(ctx, staffClaim(role), b.ID)
		require.NoError(t, err, role)
		assert.Equal(t, types.BookingCancelled, cancelled.Status)
	}
}

func TestUpdateBookingStatus(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	_, customer := e.register(t, "Asha", "asha@x.com")
	admin := staffClaim(types.RoleAdmin)

	booking := e.book(t, services.NewBooking{})

	_, err := e.bookingService.UpdateStatus(ctx, customer, booking.ID, types.BookingConfirmed)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = e.bookingService.UpdateStatus(ctx, admin, booking.ID, "done")
	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)

	confirmed, err := e.bookingService.UpdateStatus(ctx, admin, booking.ID, types.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, types.BookingConfirmed, confirmed.Status)

	pending, err := e.bookingService.UpdateStatus(ctx, staffClaim(types.RoleInstructor), booking.ID, types.BookingPending)
	require.NoError(t, err)
	assert.Equal(t, types.BookingPending, pending.Status)

	_, err = e.bookingService.UpdateStatus(ctx, admin, booking.ID, types.BookingCancelled)
	require.NoError(t, err)

	_, err = e.bookingService.UpdateStatus(ctx, admin, booking.ID, types.BookingConfirmed)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	same, err := e.bookingService.UpdateStatus(ctx, admin, booking.ID, types.BookingCancelled)
	require.NoError(t, err)
	assert.Equal(t, types.BookingCancelled, same.Status)

	_, err = e.bookingService.UpdateStatus(ctx, admin, 4242, types.BookingConfirmed)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
