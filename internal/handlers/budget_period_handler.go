package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/services"
)

// BudgetPeriodHandler handles budget period CRUD, period summaries and the
// yearly, overall and year-range metrics.
type BudgetPeriodHandler struct {
	periodService  services.BudgetPeriodServicer
	metricsService services.MetricsServicer
	auditService   services.AuditServicer
	loc            *time.Location
}

// NewBudgetPeriodHandler creates a new BudgetPeriodHandler. loc is the metrics
// calendar zone used to pick the default year; nil means UTC.
func NewBudgetPeriodHandler(periodService services.BudgetPeriodServicer, metricsService services.MetricsServicer, auditService services.AuditServicer, loc *time.Location) *BudgetPeriodHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &BudgetPeriodHandler{
		periodService:  periodService,
		metricsService: metricsService,
		auditService:   auditService,
		loc:            loc,
	}
}

// currentYear is the current calendar year in the metrics zone.
func (h *BudgetPeriodHandler) currentYear() int {
	return now().In(h.loc).Year()
}

// IncomeItemRequest is one income line in a create request.
type IncomeItemRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=100"`
	Description *string         `json:"description" binding:"omitempty,max=500"`
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

func (r IncomeItemRequest) toInput() services.IncomeItem {
	return services.IncomeItem{Name: r.Name, Description: r.Description, Amount: r.Amount}
}

// CreateBudgetPeriodRequest represents the request body for creating a budget period.
type CreateBudgetPeriodRequest struct {
	Name      *string             `json:"name" binding:"omitempty,max=100"`
	StartDate time.Time           `json:"startDate" binding:"required"`
	EndDate   time.Time           `json:"endDate" binding:"required"`
	Incomes   []IncomeItemRequest `json:"incomes" binding:"omitempty,dive"`
}

// UpdateBudgetPeriodRequest represents the request body for updating a budget period.
type UpdateBudgetPeriodRequest struct {
	Name      *string    `json:"name" binding:"omitempty,max=100"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

// DuplicateBudgetPeriodRequest represents the request body for copying a budget period.
type DuplicateBudgetPeriodRequest struct {
	Name      *string   `json:"name" binding:"omitempty,max=100"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
}

// CreateBudgetPeriod handles the creation of a new budget period
// @Summary     Create budget period
// @Description Create a budget period with optional initial incomes
// @Tags        budget-periods
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetPeriodRequest true "Budget period details"
// @Success     201 {object} models.BudgetPeriod "Budget period created"
// @Failure     400 {object} ErrorResponse "Invalid input or date range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-periods [post]
func (h *BudgetPeriodHandler) CreateBudgetPeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input := services.CreateBudgetPeriodInput{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	for _, item := range req.Incomes {
		input.Incomes = append(input.Incomes, item.toInput())
	}

	period, err := h.periodService.CreateBudgetPeriod(userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BUDGET_PERIOD", "budget_period", period.ID, c.ClientIP(),
		map[string]interface{}{
			"startDate": period.StartDate,
			"endDate":   period.EndDate,
			"incomes":   len(input.Incomes),
		})

	c.JSON(http.StatusCreated, gin.H{"budgetPeriod": period})
}

// GetBudgetPeriods lists the user's budget periods
// @Summary     List budget periods
// @Description List all budget periods with their incomes, expenses and groups, newest first
// @Tags        budget-periods
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.BudgetPeriod "Budget periods"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budget-periods [get]
func (h *BudgetPeriodHandler) GetBudgetPeriods(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	periods, err := h.periodService.GetUserBudgetPeriods(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgetPeriods": periods})
}

// GetBudgetPeriod returns a single budget period
// @Summary     Get budget period
// @Tags        budget-periods
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget period ID"
// @Success     200 {object} models.BudgetPeriod "Budget period"
// @Failure     400 {object} ErrorResponse "Invalid budget period ID"
// @Failure     404 {object} ErrorResponse "Budget period not found"
// @Router      /budget-periods/{id} [get]
func (h *BudgetPeriodHandler) GetBudgetPeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	periodID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := h.periodService.GetBudgetPeriodByID(userID, periodID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgetPeriod": period})
}

// UpdateBudgetPeriod changes the name or dates of a budget period
// @Summary     Update budget period
// @Tags        budget-periods
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                    true "Budget period ID"
// @Param       request body UpdateBudgetPeriodRequest true "Budget period changes"
// @Success     200 {object} models.BudgetPeriod "Updated budget period"
// @Failure     400 {object} ErrorResponse "Invalid input or date range"
// @Failure     404 {object} ErrorResponse "Budget period not found"
// @Router      /budget-periods/{id} [patch]
func (h *BudgetPeriodHandler) UpdateBudgetPeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	periodID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	period, err := h.periodService.UpdateBudgetPeriod(userID, periodID, services.UpdateBudgetPeriodInput{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BUDGET_PERIOD", "budget_period", periodID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "startDate": req.StartDate, "endDate": req.EndDate})

	c.JSON(http.StatusOK, gin.H{"budgetPeriod": period})
}

// DeleteBudgetPeriod soft-deletes a budget period
// @Summary     Delete budget period
// @Tags        budget-periods
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget period ID"
// @Success     200 {object} MessageResponse "Budget period deleted"
// @Failure     404 {object} ErrorResponse "Budget period not found"
// @Router      /budget-periods/{id} [delete]
func (h *BudgetPeriodHandler) DeleteBudgetPeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	periodID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.periodService.DeleteBudgetPeriod(userID, periodID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BUDGET_PERIOD", "budget_period", periodID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Budget period deleted successfully"})
}

// DuplicateBudgetPeriod copies a budget period's incomes, groups and expenses to new dates
// @Summary     Duplicate budget period
// @Tags        budget-periods
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                       true "Source budget period ID"
// @Param       request body DuplicateBudgetPeriodRequest true "Dates for the copy"
// @Success     201 {object} models.BudgetPeriod "Copied budget period"
// @Failure     400 {object} ErrorResponse "Invalid input or date range"
// @Failure     404 {object} ErrorResponse "Budget period not found"
// @Router      /budget-periods/{id}/duplicate [post]
func (h *BudgetPeriodHandler) DuplicateBudgetPeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	periodID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req DuplicateBudgetPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	period, err := h.periodService.DuplicateBudgetPeriod(userID, periodID, services.DuplicateBudgetPeriodInput{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DUPLICATE_BUDGET_PERIOD", "budget_period", period.ID, c.ClientIP(),
		map[string]interface{}{"sourceId": periodID})

	c.JSON(http.StatusCreated, gin.H{"budgetPeriod": period})
}

// GetSummary returns the totals of a single budget period
// @Summary     Budget period summary
// @Description Total income, total expenses, net and per-category breakdown of one period
// @Tags        budget-periods
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget period ID"
// @Success     200 {object} metrics.Summary "Period summary"
// @Failure     404 {object} ErrorResponse "Budget period not found"
// @Router      /budget-periods/{id}/summary [get]
func (h *BudgetPeriodHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	periodID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.metricsService.GetSummary(userID, periodID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetYearlyMetrics aggregates the periods overlapping one calendar year
// @Summary     Yearly metrics
// @Description Totals, monthly breakdown, category breakdown and savings rate for a year
// @Tags        metrics
// @Produce     json
// @Security    BearerAuth
// @Param       year query int false "Calendar year (default current year)"
// @Success     200 {object} metrics.Yearly "Yearly metrics"
// @Failure     400 {object} ErrorResponse "Invalid year"
// @Router      /budget-periods/metrics/yearly [get]
func (h *BudgetPeriodHandler) GetYearlyMetrics(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := queryYear(c, "year", h.currentYear())
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.metricsService.GetYearlyMetrics(userID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetOverallMetrics aggregates every budget period the user has
// @Summary     Overall metrics
// @Description Lifetime totals, savings rate and per-category breakdown
// @Tags        metrics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} metrics.Overall "Overall metrics"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budget-periods/metrics/overall [get]
func (h *BudgetPeriodHandler) GetOverallMetrics(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.metricsService.GetOverallMetrics(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetYearRangeMetrics aggregates the periods overlapping an inclusive range of years
// @Summary     Year-range metrics
// @Tags        metrics
// @Produce     json
// @Security    BearerAuth
// @Param       startYear query int false "First year (default last year)"
// @Param       endYear   query int false "Last year (default current year)"
// @Success     200 {object} metrics.YearRange "Year-range metrics"
// @Failure     400 {object} ErrorResponse "Invalid year, inverted or too wide range"
// @Router      /budget-periods/metrics/year-range [get]
func (h *BudgetPeriodHandler) GetYearRangeMetrics(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	current := h.currentYear()
	startYear, err := queryYear(c, "startYear", current-1)
	if err != nil {
		respondWithError(c, err)
		return
	}
	endYear, err := queryYear(c, "endYear", current)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.metricsService.GetYearRangeMetrics(userID, startYear, endYear)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// queryYear reads an integer year query parameter, falling back to def when absent.
func queryYear(c *gin.Context, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	year, err := strconv.Atoi(v)
	if err != nil || year < 1 || year > 9999 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, key+" must be a valid year")
	}
	return year, nil
}
