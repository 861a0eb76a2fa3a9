package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/reefdive/apiserver/config"
	"github.com/reefdive/apiserver/internal/auth"
	"github.com/reefdive/apiserver/internal/db"
	"github.com/reefdive/apiserver/internal/handlers"
	"github.com/reefdive/apiserver/internal/metrics"
	"github.com/reefdive/apiserver/internal/mq"
	"github.com/reefdive/apiserver/internal/notify"
	"github.com/reefdive/apiserver/internal/services"
	"github.com/reefdive/apiserver/internal/storage"
	"github.com/reefdive/apiserver/internal/store"
	"github.com/reefdive/apiserver/internal/validation"
	"go.uber.org/zap"
)

const requestTimeout = 60 * time.Second

// Deps are the collaborators the router is built from.
type Deps struct {
	DB       *sql.DB
	Config   config.Config
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Tokens   *auth.TokenService
	Notifier notify.Notifier
	// Archiver may be nil when medical forms are not archived.
	Archiver services.MedicalFormArchiver
	// PasswordCost is the bcrypt cost; zero means bcrypt.DefaultCost.
	PasswordCost int
}

// NewRouter wires repositories, services and handlers into a chi router.
func NewRouter(d Deps) *chi.Mux {
	userRepo := store.NewUserRepository(d.DB)
	bookingRepo := store.NewBookingRepository(d.DB)
	courseRepo := store.NewCourseRepository(d.DB)
	contactRepo := store.NewContactRepository(d.DB)
	medicalRepo := store.NewMedicalFormRepository(d.DB)

	hasher := services.NewPasswordHasher(d.Config.Auth.PasswordSalt, d.PasswordCost)
	userService := services.NewUserService(userRepo, bookingRepo, hasher, d.Tokens, d.Metrics)
	bookingService := services.NewBookingService(bookingRepo, courseRepo, d.Notifier, d.Logger, d.Metrics)
	courseService := services.NewCourseService(courseRepo)
	contactService := services.NewContactService(contactRepo, d.Config.Notify.AdminEmail, d.Notifier, d.Logger, d.Metrics)
	medicalService := services.NewMedicalFormService(medicalRepo, d.Archiver, d.Notifier, d.Logger, d.Metrics)
	dashboardService := services.NewDashboardService(userRepo, bookingRepo, courseRepo, contactRepo)

	v := validation.New()
	authn := handlers.NewAuthenticator(d.Tokens)

	router := chi.NewRouter()
	router.NotFound(handlers.NotFound)
	router.MethodNotAllowed(handlers.NotFound)
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		handlers.RequestLogger(d.Logger),
		handlers.Instrument(d.Metrics),
		handlers.Recoverer(d.Logger),
		handlers.CORS(d.Config.CORS),
		middleware.Timeout(requestTimeout),
	)

	router.Get("/healthz", handlers.Healthz(d.DB, d.Logger))
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{}))
	router.Route("/api", func(r chi.Router) {
		handlers.AuthRouter(r, handlers.NewAuthHandler(userService, v, d.Logger), authn)
		handlers.BookingRouter(r, handlers.NewBookingHandler(bookingService, v, d.Logger), authn)
		handlers.CourseRouter(r, handlers.NewCourseHandler(courseService, d.Logger))
		handlers.FormRouter(r, handlers.NewFormHandler(contactService, medicalService, v, d.Logger))
		handlers.DashboardRouter(r, handlers.NewDashboardHandler(dashboardService, d.Logger), authn)
	})
	return router
}

// Server wraps the HTTP server and the connections it owns.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	queue      *mq.MQ
	logger     *zap.Logger
}

// New opens the database, notification transport and archive storage
// selected by cfg and builds the HTTP server.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Server, error) {
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	notifier, queue, err := openNotifier(ctx, cfg, logger)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	archive, err := storage.Open(ctx, cfg)
	if err != nil {
		closeQueue(queue)
		_ = dbConn.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	var archiver services.MedicalFormArchiver
	if archive != nil {
		archiver = archive
	}

	router := NewRouter(Deps{
		DB:       dbConn,
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics.New(),
		Tokens:   auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Notifier: notifier,
		Archiver: archiver,
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     zap.NewStdLog(logger),
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		queue:      queue,
		logger:     logger,
	}, nil
}

// openNotifier returns the log notifier, or a queue notifier plus the queue
// it owns when a broker backend is configured.
func openNotifier(ctx context.Context, cfg config.Config, logger *zap.Logger) (notify.Notifier, *mq.MQ, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Notify.Backend))
	if backend == "" || backend == "log" {
		return notify.NewLogNotifier(logger), nil, nil
	}
	queue, err := mq.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open notification queue: %w", err)
	}
	return notify.NewQueueNotifier(queue, cfg.Notify.Channel), queue, nil
}

func closeQueue(queue *mq.MQ) {
	if queue != nil {
		_ = queue.Close()
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then releases the queue and database.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	closeQueue(s.queue)
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
