package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func errorCode(body map[string]interface{}) string {
	errObj, _ := body["error"].(map[string]interface{})
	code, _ := errObj["code"].(string)
	return code
}

func testUser() *models.User {
	return &models.User{Base: models.Base{ID: "0190a0b0-0000-7000-8000-000000000001"}, Email: "jane@test.com", Username: "jane"}
}

func setupAuthRouter(m *JWTManager) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(m))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString(UserIDKey), "username": c.GetString(UsernameKey)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	valid, _, err := m.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	expiredIssuer := NewJWTManager("test-secret", time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, _ := expiredIssuer.GenerateToken(testUser())

	otherKey, _, _ := NewJWTManager("another-secret", time.Hour).GenerateToken(testUser())

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid_token", "Bearer " + valid, http.StatusOK},
		{"missing_header", "", http.StatusUnauthorized},
		{"wrong_scheme", "Basic " + valid, http.StatusUnauthorized},
		{"malformed_header", "Bearer", http.StatusUnauthorized},
		{"expired_token", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong_signing_key", "Bearer " + otherKey, http.StatusUnauthorized},
		{"garbage_token", "Bearer not.a.jwt", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			setupAuthRouter(m).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			body := parseBody(t, rec)
			if tt.wantStatus == http.StatusOK {
				if body["userId"] != testUser().ID || body["username"] != "jane" {
					t.Errorf("unexpected identity in context: %v", body)
				}
				return
			}
			if code := errorCode(body); code != "UNAUTHORIZED" {
				t.Errorf("expected UNAUTHORIZED, got %q", code)
			}
		})
	}
}

func TestJWTManager_GenerateToken(t *testing.T) {
	m := NewJWTManager("test-secret", 30*time.Minute)
	token, expiresAt, err := m.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Until(expiresAt) > 30*time.Minute || time.Until(expiresAt) < 29*time.Minute {
		t.Errorf("unexpected expiry %v", expiresAt)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != testUser().ID || claims.Email != "jane@test.com" || claims.Subject != testUser().ID {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"app_error", apperrors.ErrBudgetPeriodNotFound, http.StatusNotFound, "BUDGET_PERIOD_NOT_FOUND"},
		{"wrapped_app_error", apperrors.Wrap(apperrors.ErrInternalServer, errors.New("db down")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"plain_error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.GET("/fail", func(c *gin.Context) { _ = c.Error(tt.err) })

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", http.NoBody))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			body := parseBody(t, rec)
			if code := errorCode(body); code != tt.wantCode {
				t.Errorf("expected %s, got %s", tt.wantCode, code)
			}
			if msg := body["error"].(map[string]interface{})["message"]; msg == "boom" || msg == "db down" {
				t.Error("internal error details must not be exposed")
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("unexpected") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", http.NoBody))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if code := errorCode(parseBody(t, rec)); code != "INTERNAL_ERROR" {
		t.Errorf("expected INTERNAL_ERROR, got %s", code)
	}
}

func TestRequestLogging(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	t.Run("generates_request_id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))
		id := rec.Header().Get("X-Request-ID")
		if id == "" || id != rec.Body.String() {
			t.Errorf("expected header and context id to match, got %q and %q", id, rec.Body.String())
		}
	})

	t.Run("reuses_valid_client_id", func(t *testing.T) {
		const clientID = "0190a0b0-0000-7000-8000-0000000000ff"
		req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
		req.Header.Set("X-Request-ID", clientID)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if got := rec.Header().Get("X-Request-ID"); got != clientID {
			t.Errorf("expected %s, got %s", clientID, got)
		}
	})

	t.Run("replaces_malformed_client_id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
		req.Header.Set("X-Request-ID", "<script>")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if got := rec.Header().Get("X-Request-ID"); got == "<script>" || got == "" {
			t.Errorf("expected a generated id, got %q", got)
		}
	})
}
