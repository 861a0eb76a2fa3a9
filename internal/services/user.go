package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/reefdive/apiserver/internal/auth"
	"github.com/reefdive/apiserver/internal/metrics"
	"github.com/reefdive/apiserver/internal/store"
	"github.com/reefdive/apiserver/types"
)

const profileBookingLimit = 10

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Count(ctx context.Context) (int, error)
}

// OwnerBookingLister lists the bookings that belong to one user.
type OwnerBookingLister interface {
	ListForOwner(ctx context.Context, userID int, email string, limit int) ([]types.Booking, error)
}

// UserService encapsulates registration, login and profile use-cases.
type UserService struct {
	repo     UserRepository
	bookings OwnerBookingLister
	hasher   *PasswordHasher
	tokens   *auth.TokenService
	metrics  *metrics.Metrics
}

// NewUserService creates a UserService.
func NewUserService(
	repo UserRepository,
	bookings OwnerBookingLister,
	hasher *PasswordHasher,
	tokens *auth.TokenService,
	m *metrics.Metrics,
) *UserService {
	return &UserService{
		repo:     repo,
		bookings: bookings,
		hasher:   hasher,
		tokens:   tokens,
		metrics:  m,
	}
}

// Registration holds the fields accepted when an account is created.
type Registration struct {
	Name     string
	Email    string
	Password string
	Phone    *string
}

// Register creates a customer account and returns it with a fresh token.
// A taken email yields store.ErrConflict.
func (s *UserService) Register(ctx context.Context, reg Registration) (types.User, string, error) {
	if _, err := s.repo.GetByEmail(ctx, reg.Email); err == nil {
		return types.User{}, "", store.ErrConflict
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, "", fmt.Errorf("check email: %w", err)
	}

	hashed, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return types.User{}, "", err
	}

	user, err := s.repo.Create(ctx, types.User{
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: hashed,
		Role:         types.RoleCustomer,
		Phone:        reg.Phone,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return types.User{}, "", err
		}
		return types.User{}, "", fmt.Errorf("create user: %w", err)
	}
	s.metrics.RegistrationsTotal.Inc()

	token, err := s.issue(user)
	if err != nil {
		return types.User{}, "", err
	}
	return user, token, nil
}

// Authenticate checks credentials and returns the user with a fresh token.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (types.User, string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return types.User{}, "", fmt.Errorf("load user: %w", err)
		}
		s.hasher.CompareDummy(password)
		s.metrics.LoginFailures.Inc()
		return types.User{}, "", ErrInvalidCredentials
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		s.metrics.LoginFailures.Inc()
		return types.User{}, "", ErrInvalidCredentials
	}

	token, err := s.issue(user)
	if err != nil {
		return types.User{}, "", err
	}
	return user, token, nil
}

// Profile returns the caller and their newest bookings. A token for a user
// that no longer exists yields store.ErrNotFound.
func (s *UserService) Profile(ctx context.Context, claim auth.Claim) (types.User, []types.Booking, error) {
	user, err := s.repo.GetByID(ctx, claim.UserID)
	if err != nil {
		return types.User{}, nil, err
	}
	bookings, err := s.bookings.ListForOwner(ctx, user.ID, user.Email, profileBookingLimit)
	if err != nil {
		return types.User{}, nil, fmt.Errorf("list bookings: %w", err)
	}
	return user, bookings, nil
}

func (s *UserService) issue(user types.User) (string, error) {
	return s.tokens.Issue(auth.Claim{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
}
