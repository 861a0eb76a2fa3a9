package services

import (
	"context"
	"fmt"

	"github.com/reefdive/apiserver/internal/auth"
	"github.com/reefdive/apiserver/types"
)

const recentBookingLimit = 5

// DashboardBookings is the part of the booking repository the dashboard reads.
type DashboardBookings interface {
	ListRecent(ctx context.Context, limit int) ([]types.Booking, error)
	ListForOwner(ctx context.Context, userID int, email string, limit int) ([]types.Booking, error)
	Stats(ctx context.Context) (types.BookingStats, error)
	StatsForOwner(ctx context.Context, userID int, email string) (types.BookingStats, error)
}

// DashboardStats holds booking counts plus the extra figures each role sees.
// Customers get TotalDives; staff get the school-wide totals.
type DashboardStats struct {
	types.BookingStats
	TotalDives       *int `json:"total_dives,omitempty"`
	TotalUsers       *int `json:"total_users,omitempty"`
	AvailableCourses *int `json:"available_courses,omitempty"`
	ContactInquiries *int `json:"contact_inquiries,omitempty"`
}

type Dashboard struct {
	Stats          DashboardStats  `json:"stats"`
	RecentBookings []types.Booking `json:"recentBookings"`
}

// DashboardService builds the signed-in landing page data.
type DashboardService struct {
	users    UserRepository
	bookings DashboardBookings
	courses  CourseRepository
	contacts ContactRepository
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(users UserRepository, bookings DashboardBookings, courses CourseRepository, contacts ContactRepository) *DashboardService {
	return &DashboardService{users: users, bookings: bookings, courses: courses, contacts: contacts}
}

// Get returns the dashboard for the caller: their own bookings for customers,
// the whole school for staff.
func (s *DashboardService) Get(ctx context.Context, caller auth.Claim) (Dashboard, error) {
	if caller.Role.IsStaff() {
		return s.staff(ctx)
	}
	return s.customer(ctx, caller)
}

func (s *DashboardService) customer(ctx context.Context, caller auth.Claim) (Dashboard, error) {
	user, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return Dashboard{}, err
	}
	counts, err := s.bookings.StatsForOwner(ctx, user.ID, user.Email)
	if err != nil {
		return Dashboard{}, fmt.Errorf("booking stats: %w", err)
	}
	recent, err := s.bookings.ListForOwner(ctx, user.ID, user.Email, recentBookingLimit)
	if err != nil {
		return Dashboard{}, fmt.Errorf("recent bookings: %w", err)
	}

	dives := user.TotalDives
	return Dashboard{
		Stats:          DashboardStats{BookingStats: counts, TotalDives: &dives},
		RecentBookings: recent,
	}, nil
}

func (s *DashboardService) staff(ctx context.Context) (Dashboard, error) {
	counts, err := s.bookings.Stats(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("booking stats: %w", err)
	}
	users, err := s.users.Count(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("count users: %w", err)
	}
	courses, err := s.courses.CountAvailable(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("count courses: %w", err)
	}
	inquiries, err := s.contacts.Count(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("count inquiries: %w", err)
	}
	recent, err := s.bookings.ListRecent(ctx, recentBookingLimit)
	if err != nil {
		return Dashboard{}, fmt.Errorf("recent bookings: %w", err)
	}

	return Dashboard{
		Stats: DashboardStats{
			BookingStats:     counts,
			TotalUsers:       &users,
			AvailableCourses: &courses,
			ContactInquiries: &inquiries,
		},
		RecentBookings: recent,
	}, nil
}
