package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/reefdive/apiserver/config"
	"github.com/reefdive/apiserver/internal/auth"
	"github.com/reefdive/apiserver/internal/db/dbtest"
	"github.com/reefdive/apiserver/internal/metrics"
	"github.com/reefdive/apiserver/internal/notify"
	"github.com/reefdive/apiserver/internal/server"
	"github.com/reefdive/apiserver/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type outbox struct {
	mu   sync.Mutex
	sent []notify.Notification
	err  error
}

func (o *outbox) Notify(ctx context.Context, n notify.Notification) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, n)
	return o.err
}

func (o *outbox) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sent)
}

type testServer struct {
	*httptest.Server
	tokens *auth.TokenService
	outbox *outbox
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := config.Config{
		Auth:   config.AuthConfig{JWTSecret: testSecret, TokenTTL: 24 * time.Hour, PasswordSalt: "test-salt"},
		CORS:   config.CORSConfig{AllowedOrigin: "*", MaxAge: 86400},
		Notify: config.NotifyConfig{AdminEmail: "owner@reef.dive"},
	}
	tokens := auth.NewTokenService(testSecret, cfg.Auth.TokenTTL)
	box := &outbox{}

	router := server.NewRouter(server.Deps{
		DB:           dbtest.Open(t),
		Config:       cfg,
		Logger:       zap.NewNop(),
		Metrics:      metrics.New(),
		Tokens:       tokens,
		Notifier:     box,
		PasswordCost: bcrypt.MinCost,
	})
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, tokens: tokens, outbox: box}
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (r response) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, v), string(r.body))
}

func (r response) errorMessage(t *testing.T) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	r.decode(t, &body)
	return body.Error
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) response {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, header: resp.Header, body: data}
}

type authBody struct {
	Success bool       `json:"success"`
	Token   string     `json:"token"`
	User    types.User `json:"user"`
}

func (s *testServer) register(t *testing.T, name, email, password string) authBody {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	}, "")
	require.Equal(t, http.StatusCreated, resp.status, string(resp.body))
	var body authBody
	resp.decode(t, &body)
	return body
}

func validBooking(courseID string) map[string]any {
	return map[string]any{
		"name":          "Asha",
		"email":         "asha@x.com",
		"phone":         "+91 98450 00000",
		"courseId":      courseID,
		"preferredDate": "2026-12-01",
		"experience":    "Snorkelled in Goa",
	}
}

func (s *testServer) createBooking(t *testing.T, body map[string]any, token string) int {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/bookings", body, token)
	require.Equal(t, http.StatusCreated, resp.status, string(resp.body))
	var created struct {
		Success   bool `json:"success"`
		BookingID int  `json:"bookingId"`
	}
	resp.decode(t, &created)
	require.True(t, created.Success)
	return created.BookingID
}

func bookingPath(id int, suffix string) string {
	return "/api/bookings/" + strconv.Itoa(id) + suffix
}

var errNotifier = errors.New("mail relay down")
