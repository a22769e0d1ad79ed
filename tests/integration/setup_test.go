package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"budgeteer/internal/events"
	"budgeteer/internal/logger"
	"budgeteer/internal/middleware"
	"budgeteer/internal/server"
	"budgeteer/internal/testutil"
	"budgeteer/internal/validator"
)

const testPassword = "Passw0rd!"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test", "error")
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	jwt := middleware.NewJWTManager("integration-secret", time.Hour)
	h := server.NewHandlers(db, jwt, server.Options{
		BcryptCost: bcrypt.MinCost,
		Location:   time.UTC,
		Publisher:  events.NopPublisher{},
	})

	return &testApp{DB: db, Router: server.NewRouter(h, jwt)}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// mustStatus fails the test unless rec carries the expected status.
func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// registerUser registers a new user and returns the access token and user ID.
func (app *testApp) registerUser(t *testing.T, email, username string) (accessToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"name":"Test User","username":%q,"password":%q}`, email, username, testPassword)
	rec := app.request("POST", "/api/v1/users/register", body, "")
	mustStatus(t, rec, http.StatusCreated)
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["accessToken"].(string), user["id"].(string)
}

// categoryID returns the id of the named category owned by the token's user.
func (app *testApp) categoryID(t *testing.T, token, name string) string {
	t.Helper()
	rec := app.request("GET", "/api/v1/categories", "", token)
	mustStatus(t, rec, http.StatusOK)
	for _, c := range parseJSON(t, rec)["categories"].([]interface{}) {
		cat := c.(map[string]interface{})
		if cat["name"] == name {
			return cat["id"].(string)
		}
	}
	t.Fatalf("category %q not found", name)
	return ""
}

// createPeriod creates a budget period with one income line and returns its id.
func (app *testApp) createPeriod(t *testing.T, token, start, end, income string) string {
	t.Helper()
	body := fmt.Sprintf(`{"startDate":%q,"endDate":%q,"incomes":[{"name":"Salary","amount":%s}]}`, start, end, income)
	rec := app.request("POST", "/api/v1/budget-periods", body, token)
	mustStatus(t, rec, http.StatusCreated)
	return parseJSON(t, rec)["budgetPeriod"].(map[string]interface{})["id"].(string)
}

// createExpense creates an expense and returns its id.
func (app *testApp) createExpense(t *testing.T, token, periodID, categoryID, amount string) string {
	t.Helper()
	body := fmt.Sprintf(`{"budgetPeriodId":%q,"categoryId":%q,"name":"Spend","amount":%s}`, periodID, categoryID, amount)
	rec := app.request("POST", "/api/v1/expenses", body, token)
	mustStatus(t, rec, http.StatusCreated)
	return parseJSON(t, rec)["expense"].(map[string]interface{})["id"].(string)
}

// number reads a numeric JSON field.
func number(t *testing.T, m map[string]interface{}, key string) float64 {
	t.Helper()
	v, ok := m[key].(float64)
	if !ok {
		t.Fatalf("expected numeric %q, got %v", key, m[key])
	}
	return v
}
