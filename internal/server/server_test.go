package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"budgeteer/internal/events"
	"budgeteer/internal/middleware"
	"budgeteer/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	jwt := middleware.NewJWTManager("server-test-secret", time.Hour)
	h := NewHandlers(db, jwt, Options{
		BcryptCost: bcrypt.MinCost,
		Location:   time.UTC,
		Publisher:  events.NopPublisher{},
	})
	return NewRouter(h, jwt)
}

func TestNewRouter(t *testing.T) {
	r := newTestRouter(t)

	serve := func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	t.Run("health_is_public", func(t *testing.T) {
		if rec := serve("GET", "/api/health"); rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("protected_routes_require_token", func(t *testing.T) {
		paths := []string{
			"/api/v1/users/me",
			"/api/v1/settings",
			"/api/v1/categories",
			"/api/v1/budget-periods",
			"/api/v1/budget-periods/metrics/yearly",
			"/api/v1/expenses",
			"/api/v1/personal-budgets",
		}
		for _, p := range paths {
			if rec := serve("GET", p); rec.Code != http.StatusUnauthorized {
				t.Errorf("%s: expected 401, got %d", p, rec.Code)
			}
		}
	})

	t.Run("preflight_short_circuits", func(t *testing.T) {
		rec := serve("OPTIONS", "/api/v1/expenses")
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("expected CORS header")
		}
	})

	t.Run("responses_carry_request_id", func(t *testing.T) {
		rec := serve("GET", "/api/health")
		if rec.Header().Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}
	})
}
