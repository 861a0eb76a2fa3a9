package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/reefdive/apiserver/internal/auth"
	"github.com/reefdive/apiserver/internal/metrics"
	"github.com/reefdive/apiserver/internal/notify"
	"github.com/reefdive/apiserver/internal/store"
	"github.com/reefdive/apiserver/internal/validation"
	"github.com/reefdive/apiserver/types"
	"go.uber.org/zap"
)

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking types.Booking) (types.Booking, error)
	Get(ctx context.Context, id int) (types.Booking, error)
	List(ctx context.Context, status types.BookingStatus) ([]types.Booking, error)
	UpdateStatus(ctx context.Context, id int, status types.BookingStatus) (types.Booking, error)
}

// CourseLookup resolves a course by id, offered or not.
type CourseLookup interface {
	Get(ctx context.Context, id string) (types.Course, error)
}

// BookingService encapsulates the booking lifecycle.
type BookingService struct {
	repo    BookingRepository
	courses CourseLookup
	effects bestEffort
	metrics *metrics.Metrics
}

// NewBookingService creates a BookingService. Confirmation notices go through
// notifier and their failures are only logged.
func NewBookingService(
	repo BookingRepository,
	courses CourseLookup,
	notifier notify.Notifier,
	logger *zap.Logger,
	m *metrics.Metrics,
) *BookingService {
	return &BookingService{
		repo:    repo,
		courses: courses,
		effects: bestEffort{notifier: notifier, logger: logger, metrics: m},
		metrics: m,
	}
}

// NewBooking holds the requester-supplied fields of a booking.
type NewBooking struct {
	// UserID is set when the request carried a valid session token.
	UserID         *int
	Name           string
	Email          string
	Phone          string
	CourseID       string
	PreferredDate  string
	Experience     string
	MedicalCleared bool
}

// Create stores a pending, unpaid booking with the course title and price
// copied in. The confirmation notification is sent after the insert and
// cannot fail the call.
func (s *BookingService) Create(ctx context.Context, in NewBooking) (types.Booking, error) {
	course, err := s.courses.Get(ctx, in.CourseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Booking{}, ErrCourseNotFound
		}
		return types.Booking{}, fmt.Errorf("load course: %w", err)
	}

	booking, err := s.repo.Create(ctx, types.Booking{
		UserID:         in.UserID,
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
		CourseID:       course.ID,
		CourseName:     course.Title,
		CoursePrice:    course.Price,
		PreferredDate:  in.PreferredDate,
		Experience:     in.Experience,
		MedicalCleared: in.MedicalCleared,
		Status:         types.BookingPending,
		PaymentStatus:  types.PaymentUnpaid,
	})
	if err != nil {
		return types.Booking{}, fmt.Errorf("create booking: %w", err)
	}
	s.metrics.BookingsCreated.Inc()

	s.effects.notify(ctx, notify.BookingConfirmation(booking))
	return booking, nil
}

// List returns every booking, newest first. An empty status means all.
func (s *BookingService) List(ctx context.Context, status types.BookingStatus) ([]types.Booking, error) {
	if status != "" && !status.Valid() {
		return nil, &validation.Error{Invalid: []string{"status"}}
	}
	return s.repo.List(ctx, status)
}

func (s *BookingService) Get(ctx context.Context, id int) (types.Booking, error) {
	return s.repo.Get(ctx, id)
}

// Cancel moves a booking to cancelled on behalf of its owner or staff.
// Cancelling a cancelled booking returns it unchanged.
func (s *BookingService) Cancel(ctx context.Context, caller auth.Claim, id int) (types.Booking, error) {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Booking{}, err
	}
	if !caller.Role.IsStaff() && !ownsBooking(caller, booking) {
		return types.Booking{}, ErrForbidden
	}
	if booking.Status == types.BookingCancelled {
		return booking, nil
	}

	updated, err := s.repo.UpdateStatus(ctx, id, types.BookingCancelled)
	if err != nil {
		return types.Booking{}, err
	}
	s.metrics.BookingsCancelled.Inc()
	return updated, nil
}

// UpdateStatus lets staff confirm, reset or cancel a booking. Cancelled is
// terminal.
func (s *BookingService) UpdateStatus(ctx context.Context, caller auth.Claim, id int, status types.BookingStatus) (types.Booking, error) {
	if !caller.Role.IsStaff() {
		return types.Booking{}, ErrForbidden
	}
	if !status.Valid() {
		return types.Booking{}, &validation.Error{Invalid: []string{"status"}}
	}

	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Booking{}, err
	}
	if booking.Status == status {
		return booking, nil
	}
	if booking.Status == types.BookingCancelled {
		return types.Booking{}, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return types.Booking{}, err
	}
	if status == types.BookingCancelled {
		s.metrics.BookingsCancelled.Inc()
	}
	return updated, nil
}

// ownsBooking matches on user id, or on email for rows created before
// bookings were linked to accounts.
func ownsBooking(caller auth.Claim, booking types.Booking) bool {
	if booking.UserID != nil {
		return *booking.UserID == caller.UserID
	}
	return booking.Email == caller.Email
}
