package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/drivenpass/internal/cryptox"
	"github.com/dmitrijs2005/drivenpass/internal/logging"
	"github.com/dmitrijs2005/drivenpass/internal/server/config"
	"github.com/dmitrijs2005/drivenpass/internal/server/metrics"
	"github.com/dmitrijs2005/drivenpass/internal/server/models"
	"github.com/dmitrijs2005/drivenpass/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/drivenpass/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func nopLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testOptions() Options {
	return Options{Address: "127.0.0.1:0", CORSOrigins: []string{"*"}, ShutdownTimeout: time.Second}
}

// newTestApp wires real services over the in-memory backend.
func newTestApp(t *testing.T) (*Server, *metrics.Metrics) {
	t.Helper()

	cfg := &config.Config{SecretKey: "test-secret", BcryptCost: bcrypt.MinCost}
	m := repomanager.NewInMemoryRepositoryManager()
	c, err := cryptox.NewCipher("test-cipher-key")
	require.NoError(t, err)

	mt := metrics.New()
	s := NewServer(testOptions(), nopLogger(), mt,
		services.NewUserService(m, cfg),
		services.NewCredentialService(m, c),
		services.NewNetworkService(m, c),
	)
	return s, mt
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

// signUpAndIn registers email and returns a bearer token for it.
func signUpAndIn(t *testing.T, h http.Handler, email string) string {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/users", "", map[string]string{"email": email, "password": "secret123"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodPost, "/users/sign-in", "", map[string]string{"email": email, "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	return decode[signInResponse](t, rec).Token
}

// fakeUsers is a UserService driven by fields.
type fakeUsers struct {
	authID  int64
	authErr error

	signOutToken string
	signOutErr   error
}

func (f *fakeUsers) CreateUser(context.Context, string, string) (*models.User, error) {
	return nil, nil
}

func (f *fakeUsers) SignIn(context.Context, string, string) (*services.SignInResult, error) {
	return nil, nil
}

func (f *fakeUsers) Authenticate(ctx context.Context, token string) (int64, error) {
	return f.authID, f.authErr
}

func (f *fakeUsers) SignOut(ctx context.Context, token string) error {
	f.signOutToken = token
	return f.signOutErr
}

func scrape(t *testing.T, mt *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	mt.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}
