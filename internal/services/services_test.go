package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/reefdive/apiserver/internal/auth"
	"github.com/reefdive/apiserver/internal/db/dbtest"
	"github.com/reefdive/apiserver/internal/metrics"
	"github.com/reefdive/apiserver/internal/notify"
	"github.com/reefdive/apiserver/internal/services"
	"github.com/reefdive/apiserver/internal/store"
	"github.com/reefdive/apiserver/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSalt = "test-salt"

type recorder struct {
	mu   sync.Mutex
	sent []notify.Notification
	err  error
}

func (r *recorder) Notify(ctx context.Context, n notify.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.err
}

func (r *recorder) all() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.sent...)
}

type archiver struct {
	forms []types.MedicalForm
	err   error
}

func (a *archiver) ArchiveMedicalForm(ctx context.Context, form types.MedicalForm) (string, error) {
	a.forms = append(a.forms, form)
	if a.err != nil {
		return "", a.err
	}
	return "medical-forms/key.json", nil
}

type testEnv struct {
	users    *store.UserRepository
	bookings *store.BookingRepository
	courses  *store.CourseRepository
	contacts *store.ContactRepository
	forms    *store.MedicalFormRepository
	metrics  *metrics.Metrics
	tokens   *auth.TokenService
	notifier *recorder
	archiver *archiver

	userService      *services.UserService
	bookingService   *services.BookingService
	courseService    *services.CourseService
	contactService   *services.ContactService
	medicalService   *services.MedicalFormService
	dashboardService *services.DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn := dbtest.Open(t)
	logger := zap.NewNop()

	e := &testEnv{
		users:    store.NewUserRepository(conn),
		bookings: store.NewBookingRepository(conn),
		courses:  store.NewCourseRepository(conn),
		contacts: store.NewContactRepository(conn),
		forms:    store.NewMedicalFormRepository(conn),
		metrics:  metrics.New(),
		tokens:   auth.NewTokenService("test-secret", 24*time.Hour),
		notifier: &recorder{},
		archiver: &archiver{},
	}
	hasher := services.NewPasswordHasher(testSalt, bcrypt.MinCost)

	e.userService = services.NewUserService(e.users, e.bookings, hasher, e.tokens, e.metrics)
	e.bookingService = services.NewBookingService(e.bookings, e.courses, e.notifier, logger, e.metrics)
	e.courseService = services.NewCourseService(e.courses)
	e.contactService = services.NewContactService(e.contacts, "owner@reef.dive", e.notifier, logger, e.metrics)
	e.medicalService = services.NewMedicalFormService(e.forms, e.archiver, e.notifier, logger, e.metrics)
	e.dashboardService = services.NewDashboardService(e.users, e.bookings, e.courses, e.contacts)
	return e
}

func (e *testEnv) register(t *testing.T, name, email string) (types.User, auth.Claim) {
	t.Helper()
	user, token, err := e.userService.Register(context.Background(), services.Registration{
		Name: name, Email: email, Password: "pw123456",
	})
	require.NoError(t, err)
	claim, err := e.tokens.Verify(token)
	require.NoError(t, err)
	return user, claim
}

func (e *testEnv) book(t *testing.T, in services.NewBooking) types.Booking {
	t.Helper()
	if in.Name == "" {
		in.Name = "Asha"
	}
	if in.Email == "" {
		in.Email = "asha@x.com"
	}
	if in.Phone == "" {
		in.Phone = "+91 98450 00000"
	}
	if in.CourseID == "" {
		in.CourseID = "open-water"
	}
	if in.PreferredDate == "" {
		in.PreferredDate = "2026-12-01"
	}
	booking, err := e.bookingService.Create(context.Background(), in)
	require.NoError(t, err)
	return booking
}

func staffClaim(role types.Role) auth.Claim {
	return auth.Claim{UserID: 999, Email: "staff@reef.dive", Role: role}
}

var errBoom = errors.New("boom")
