package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/metrics"
	"budgeteer/internal/models"
	"budgeteer/internal/services"
)

const testPeriodID = "0190a7c2-7d1e-7b6a-9f3e-000000000b01"

type mockBudgetPeriodService struct {
	createFn    func(userID string, input services.CreateBudgetPeriodInput) (*models.BudgetPeriod, error)
	listFn      func(userID string) ([]models.BudgetPeriod, error)
	getFn       func(userID, periodID string) (*models.BudgetPeriod, error)
	updateFn    func(userID, periodID string, input services.UpdateBudgetPeriodInput) (*models.BudgetPeriod, error)
	deleteFn    func(userID, periodID string) error
	duplicateFn func(userID, periodID string, input services.DuplicateBudgetPeriodInput) (*models.BudgetPeriod, error)
}

var _ services.BudgetPeriodServicer = (*mockBudgetPeriodService)(nil)

func (m *mockBudgetPeriodService) CreateBudgetPeriod(userID string, input services.CreateBudgetPeriodInput) (*models.BudgetPeriod, error) {
	if m.createFn != nil {
		return m.createFn(userID, input)
	}
	return &models.BudgetPeriod{}, nil
}

func (m *mockBudgetPeriodService) GetUserBudgetPeriods(userID string) ([]models.BudgetPeriod, error) {
	if m.listFn != nil {
		return m.listFn(userID)
	}
	return []models.BudgetPeriod{}, nil
}

func (m *mockBudgetPeriodService) GetBudgetPeriodByID(userID, periodID string) (*models.BudgetPeriod, error) {
	if m.getFn != nil {
		return m.getFn(userID, periodID)
	}
	return &models.BudgetPeriod{}, nil
}

func (m *mockBudgetPeriodService) UpdateBudgetPeriod(userID, periodID string, input services.UpdateBudgetPeriodInput) (*models.BudgetPeriod, error) {
	if m.updateFn != nil {
		return m.updateFn(userID, periodID, input)
	}
	return &models.BudgetPeriod{}, nil
}

func (m *mockBudgetPeriodService) DeleteBudgetPeriod(userID, periodID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, periodID)
	}
	return nil
}

func (m *mockBudgetPeriodService) DuplicateBudgetPeriod(userID, periodID string, input services.DuplicateBudgetPeriodInput) (*models.BudgetPeriod, error) {
	if m.duplicateFn != nil {
		return m.duplicateFn(userID, periodID, input)
	}
	return &models.BudgetPeriod{}, nil
}

type mockMetricsService struct {
	yearlyFn    func(userID string, year int) (*metrics.Yearly, error)
	overallFn   func(userID string) (*metrics.Overall, error)
	yearRangeFn func(userID string, startYear, endYear int) (*metrics.YearRange, error)
	summaryFn   func(userID, periodID string) (*metrics.Summary, error)
}

var _ services.MetricsServicer = (*mockMetricsService)(nil)

func (m *mockMetricsService) GetYearlyMetrics(userID string, year int) (*metrics.Yearly, error) {
	if m.yearlyFn != nil {
		return m.yearlyFn(userID, year)
	}
	return &metrics.Yearly{Year: year}, nil
}

func (m *mockMetricsService) GetOverallMetrics(userID string) (*metrics.Overall, error) {
	if m.overallFn != nil {
		return m.overallFn(userID)
	}
	return &metrics.Overall{}, nil
}

func (m *mockMetricsService) GetYearRangeMetrics(userID string, startYear, endYear int) (*metrics.YearRange, error) {
	if m.yearRangeFn != nil {
		return m.yearRangeFn(userID, startYear, endYear)
	}
	return &metrics.YearRange{StartYear: startYear, EndYear: endYear}, nil
}

func (m *mockMetricsService) GetSummary(userID, periodID string) (*metrics.Summary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(userID, periodID)
	}
	return &metrics.Summary{}, nil
}

func setupBudgetPeriodRouter(handler *BudgetPeriodHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/budget-periods", handler.CreateBudgetPeriod)
	auth.GET("/budget-periods", handler.GetBudgetPeriods)
	auth.GET("/budget-periods/metrics/yearly", handler.GetYearlyMetrics)
	auth.GET("/budget-periods/metrics/overall", handler.GetOverallMetrics)
	auth.GET("/budget-periods/metrics/year-range", handler.GetYearRangeMetrics)
	auth.GET("/budget-periods/:id", handler.GetBudgetPeriod)
	auth.PATCH("/budget-periods/:id", handler.UpdateBudgetPeriod)
	auth.DELETE("/budget-periods/:id", handler.DeleteBudgetPeriod)
	auth.POST("/budget-periods/:id/duplicate", handler.DuplicateBudgetPeriod)
	auth.GET("/budget-periods/:id/summary", handler.GetSummary)
	return r
}

// freezeNow pins the handler clock for the duration of a test.
func freezeNow(t *testing.T, at time.Time) {
	t.Helper()
	original := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = original })
}

func TestBudgetPeriodHandler_CreateBudgetPeriod(t *testing.T) {
	t.Run("returns 201 and forwards incomes", func(t *testing.T) {
		var captured services.CreateBudgetPeriodInput
		svc := &mockBudgetPeriodService{
			createFn: func(_ string, input services.CreateBudgetPeriodInput) (*models.BudgetPeriod, error) {
				captured = input
				return &models.BudgetPeriod{Base: models.Base{ID: testPeriodID}, StartDate: input.StartDate, EndDate: input.EndDate}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupBudgetPeriodRouter(NewBudgetPeriodHandler(svc, &mockMetricsService{}, audit, nil))

		rec := doRequest(r, "POST", "/budget-periods",
			`{"name":"March","startDate":"2024-03-01T00:00:00Z","endDate":"2024-03-31T00:00:00Z","incomes":[{"name":"Salary","amount":50000.50}]}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(captured.Incomes) != 1 || !captured.Incomes[0].Amount.Equal(decimal.RequireFromString("50000.50")) {
			t.Errorf("unexpected incomes: %+v", captured.Incomes)
		}
		if !captured.StartDate.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected start date: %v", captured.StartDate)
		}
		if len(audit.actions) != 1 || audit.actions[0] != "CREATE_BUDGET_PERIOD" {
			t.Errorf("expected CREATE_BUDGET_PERIOD audit entry, got %v", audit.actions)
		}
	})

	t.Run("returns 400 on non-positive income", func(t *testing.T) {
		r := setupBudgetPeriodRouter(NewBudgetPeriodHandler(&mockBudgetPeriodService{}, &mockMetricsService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "POST", "/budget-periods",
			`{"startDate":"2024-03-01T00:00:00Z","endDate":"2024-03-31T00:00:00Z","incomes":[{"name":"Salary","amount":-5}]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on missing dates", func(t *testing.T) {
		r := setupBudgetPeriodRouter(NewBudgetPeriodHandler(&mockBudgetPeriodService{}, &mockMetricsService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "POST", "/budget-periods", `{"name":"March"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on inverted date range", func(t *testing.T) {
		svc := &mockBudgetPeriodService{
			createFn: func(_ string, _ services.CreateBudgetPeriodInput) (*models.BudgetPeriod, error) {
				return nil, apperrors.ErrInvalidDateRange
			},
		}
		r := setupBudgetPeriodRouter(NewBudgetPeriodHandler(svc, &mockMetricsService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "POST", "/budget-periods",
			`{"startDate":"2024-03-31T00:00:00Z","endDate":"2024-03-01T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_DATE_RANGE")
	})
}

func TestBudgetPeriodHandler_CRUD(t *testing.T) {
	t.Run("list returns 200", func(t *testing.T) {
		svc := &mockBudgetPeriodService{
			listFn: func(_ string) ([]models.BudgetPeriod, error) {
				return []models.BudgetPeriod{{Base: models.Base{ID: testPeriodID}}}, nil
			},
		}
		r := setupBudgetPeriodRouter(NewBudgetPeriodHandler(svc, &mockMetricsService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/budget-periods", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if periods := parseJSON(t, rec)["budgetPeriods"].([]interface{}); len(periods) != 1 {
			t.Errorf("expected 1 period, got %d", len(periods))
		}
	})

	t.Run("get returns 404 when not found", func(t *testing.T) {
		svc := &mockBudgetPeriodService{
			getFn: func(_, _ string) (*models.BudgetPeriod, error) {
				return nil, apperrors.ErrBudgetPeriodNotFound
			},
		}
		r := setupBudgetPeriodRouter(NewBudgetPeriodHandler(svc, &mockMetricsService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/budget-periods/"+testPeriodID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_PERIOD_NOT_FOUND")
	})

	t.Run("update forwards only supplied dates", func(t *testing.T) {
		var captured services.UpdateBudgetPeriodInput
		svc := &mockBudgetPeriodService{
			updateFn: func(_, _ string, input services.UpdateBudgetPeriodInput) (*models.BudgetPeriod, error) {
				captured = input
				return &models.BudgetPeriod{Base: models.Base{ID: testPeriodID}}, nil
			},
		}
		r := setupBudgetPeriodRouter(NewBudgetPeriodHandler(svc, &mockMetricsService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "PATCH", "/budget-periods/"+testPeriodID, `{"endDate":"2024-04-15T00:00:00Z"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.StartDate != nil {
			t.Errorf("expected nil start date, got %v", captured.StartDate)
		}
		if captured.EndDate == nil || captured.EndDate.Day() != 15 {
			t.Errorf("unexpected end date: %v", captured.EndDate)
		}
	})

	t.Run("delete returns 200", func(t *testing.T) {
		r := setupBudgetPeriodRouter(NewBudgetPeriodHandler(&mockBudgetPeriodService{}, &mockMetricsService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "DELETE", "/budget-periods/"+testPeriodID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("duplicate returns 201", func(t *testing.T) {
		var sourceID string
		svc := &mockBudgetPeriodService{
			duplicateFn: func(_, periodID string, input services.DuplicateBudgetPeriodInput) (*models.BudgetPeriod, error) {
				sourceID = periodID
				return &models.BudgetPeriod{Base: models.Base{ID: testOtherID}, StartDate: input.StartDate}, nil
			},
		}
		r := setupBudgetPeriodRouter(NewBudgetPeriodHandler(svc, &mockMetricsService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "POST", "/budget-periods/"+testPeriodID+"/duplicate",
			`{"startDate":"2024-04-01T00:00:00Z","endDate":"2024-04-30T00:00:00Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if sourceID != testPeriodID {
			t.Errorf("expected source %s, got %s", testPeriodID, sourceID)
		}
	})
}

func TestBudgetPeriodHandler_GetSummary(t *testing.T) {
	t.Run("returns the bare summary", func(t *testing.T) {
		svc := &mockMetricsService{
			summaryFn: func(_, _ string) (*metrics.Summary, error) {
				return &metrics.Summary{
					Income:        decimal.RequireFromString("1000"),
					TotalExpenses: decimal.RequireFromString("250.25"),
					Remaining:     decimal.RequireFromString("749.75"),
				}, nil
			},
		}
		r := setupBudgetPeriodRouter(NewBudgetPeriodHandler(&mockBudgetPeriodService{}, svc, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/budget-periods/"+testPeriodID+"/summary", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["remaining"] != 749.75 {
			t.Errorf("expected remaining 749.75, got %v", result["remaining"])
		}
	})
}

func TestBudgetPeriodHandler_GetYearlyMetrics(t *testing.T) {
	t.Run("defaults to the current year", func(t *testing.T) {
		freezeNow(t, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
		var gotYear int
		svc := &mockMetricsService{
			yearlyFn: func(_ string, year int) (*metrics.Yearly, error) {
				gotYear = year
				return &metrics.Yearly{Year: year}, nil
			},
		}
		r := setupBudgetPeriodRouter(NewBudgetPeriodHandler(&mockBudgetPeriodService{}, svc, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/budget-periods/metrics/yearly", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotYear != 2025 {
			t.Errorf("expected 2025, got %d", gotYear)
		}
	})

	t.Run("default year follows the metrics zone", func(t *testing.T) {
		manila := time.FixedZone("UTC+8", 8*60*60)
		freezeNow(t, time.Date(2024, 12, 31, 20, 0, 0, 0, time.UTC))
		var gotYear int
		svc := &mockMetricsService{
			yearlyFn: func(_ string, year int) (*metrics.Yearly, error) {
				gotYear = year
				return &metrics.Yearly{Year: year}, nil
			},
		}
		r := setupBudgetPeriodRouter(NewBudgetPeriodHandler(&mockBudgetPeriodService{}, svc, &mockAuditService{}, manila))

		rec := doRequest(r, "GET", "/budget-periods/metrics/yearly", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotYear != 2025 {
			t.Errorf("expected 2025 in UTC+8, got %d", gotYear)
		}
	})

	t.Run("uses the year query parameter", func(t *testing.T) {
		r := setupBudgetPeriodRouter(NewBudgetPeriodHandler(&mockBudgetPeriodService{}, &mockMetricsService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/budget-periods/metrics/yearly?year=2023", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["year"] != float64(2023) {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("returns 400 on non-integer year", func(t *testing.T) {
		r := setupBudgetPeriodRouter(NewBudgetPeriodHandler(&mockBudgetPeriodService{}, &mockMetricsService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/budget-periods/metrics/yearly?year=twenty", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestBudgetPeriodHandler_GetOverallMetrics(t *testing.T) {
	t.Run("returns 500 on unexpected error", func(t *testing.T) {
		svc := &mockMetricsService{
			overallFn: func(_ string) (*metrics.Overall, error) {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, errTest)
			},
		}
		r := setupBudgetPeriodRouter(NewBudgetPeriodHandler(&mockBudgetPeriodService{}, svc, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/budget-periods/metrics/overall", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestBudgetPeriodHandler_GetYearRangeMetrics(t *testing.T) {
	t.Run("defaults to last year through this year", func(t *testing.T) {
		freezeNow(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
		var gotStart, gotEnd int
		svc := &mockMetricsService{
			yearRangeFn: func(_ string, startYear, endYear int) (*metrics.YearRange, error) {
				gotStart, gotEnd = startYear, endYear
				return &metrics.YearRange{StartYear: startYear, EndYear: endYear}, nil
			},
		}
		r := setupBudgetPeriodRouter(NewBudgetPeriodHandler(&mockBudgetPeriodService{}, svc, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/budget-periods/metrics/year-range", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotStart != 2024 || gotEnd != 2025 {
			t.Errorf("expected 2024-2025, got %d-%d", gotStart, gotEnd)
		}
	})

	t.Run("returns 400 on inverted range", func(t *testing.T) {
		svc := &mockMetricsService{
			yearRangeFn: func(_ string, _, _ int) (*metrics.YearRange, error) {
				return nil, apperrors.ErrInvalidYearRange
			},
		}
		r := setupBudgetPeriodRouter(NewBudgetPeriodHandler(&mockBudgetPeriodService{}, svc, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/budget-periods/metrics/year-range?startYear=2025&endYear=2020", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_YEAR_RANGE")
	})

	t.Run("returns 400 on malformed endYear", func(t *testing.T) {
		r := setupBudgetPeriodRouter(NewBudgetPeriodHandler(&mockBudgetPeriodService{}, &mockMetricsService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/budget-periods/metrics/year-range?startYear=2020&endYear=2x", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
