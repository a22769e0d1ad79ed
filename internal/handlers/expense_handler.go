package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/pagination"
	"budgeteer/internal/services"
	"budgeteer/internal/uuid"
)

// ExpenseHandler handles expense-related requests
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// CreateExpenseRequest represents the request body for creating an expense
type CreateExpenseRequest struct {
	BudgetPeriodID string          `json:"budgetPeriodId" binding:"required,uuid"`
	CategoryID     string          `json:"categoryId" binding:"required,uuid"`
	ExpenseGroupID *string         `json:"expenseGroupId" binding:"omitempty,uuid"`
	Name           string          `json:"name" binding:"required,min=1,max=100"`
	Description    *string         `json:"description" binding:"omitempty,max=500"`
	Amount         decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

func (r CreateExpenseRequest) toInput() services.ExpenseInput {
	return services.ExpenseInput{
		BudgetPeriodID: r.BudgetPeriodID,
		CategoryID:     r.CategoryID,
		ExpenseGroupID: r.ExpenseGroupID,
		Name:           r.Name,
		Description:    r.Description,
		Amount:         r.Amount,
	}
}

// CreateExpensesRequest represents the request body for creating expenses in bulk
type CreateExpensesRequest struct {
	Expenses []CreateExpenseRequest `json:"expenses" binding:"required,min=1,max=100,dive"`
}

// UpdateExpenseRequest represents the request body for updating an expense.
// An empty expenseGroupId removes the expense from its group.
type UpdateExpenseRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description    *string          `json:"description" binding:"omitempty,max=500"`
	Amount         *decimal.Decimal `json:"amount" binding:"omitempty,gt=0"`
	CategoryID     *string          `json:"categoryId" binding:"omitempty,uuid"`
	ExpenseGroupID *string          `json:"expenseGroupId"`
}

// CreateExpense handles the creation of a new expense
// @Summary     Create expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Group belongs to another period"
// @Failure     404 {object} ErrorResponse "Period, category or group not found"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.CreateExpense(userID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{
			"budgetPeriodId": req.BudgetPeriodID,
			"categoryId":     req.CategoryID,
			"amount":         req.Amount.String(),
		})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// CreateExpenses handles creating several expenses atomically
// @Summary     Create expenses in bulk
// @Description Validate every expense first, then create all or none
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpensesRequest true "Expenses"
// @Success     201 {array}  models.Expense "Expenses created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Period, category or group not found"
// @Router      /expenses/bulk [post]
func (h *ExpenseHandler) CreateExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpensesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	inputs := make([]services.ExpenseInput, 0, len(req.Expenses))
	for _, e := range req.Expenses {
		inputs = append(inputs, e.toInput())
	}

	expenses, err := h.expenseService.CreateExpenses(userID, inputs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ids := make([]string, 0, len(expenses))
	for _, e := range expenses {
		ids = append(ids, e.ID)
	}
	h.auditService.Log(userID, "CREATE_EXPENSES", "expense", "", c.ClientIP(),
		map[string]interface{}{"ids": ids})

	c.JSON(http.StatusCreated, gin.H{"expenses": expenses})
}

// GetExpenses lists the user's expenses with optional filters
// @Summary     List expenses
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       budgetPeriodId query string false "Filter by budget period"
// @Param       categoryId     query string false "Filter by category"
// @Param       expenseGroupId query string false "Filter by expense group"
// @Param       page           query int    false "Page number (default 1)"
// @Param       pageSize       query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.ExpenseFilter
	if filter.BudgetPeriodID, err = optionalQueryID(c, "budgetPeriodId"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.CategoryID, err = optionalQueryID(c, "categoryId"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.ExpenseGroupID, err = optionalQueryID(c, "expenseGroupId"); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.GetUserExpenses(userID, filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExpense returns a single expense
// @Summary     Get expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense changes an expense
// @Summary     Update expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Expense changes"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [patch]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if g := req.ExpenseGroupID; g != nil && *g != "" && !uuid.IsValid(*g) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid expenseGroupId"))
		return
	}

	expense, err := h.expenseService.UpdateExpense(userID, expenseID, services.UpdateExpenseInput{
		Name:           req.Name,
		Description:    req.Description,
		Amount:         req.Amount,
		CategoryID:     req.CategoryID,
		ExpenseGroupID: req.ExpenseGroupID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EXPENSE", "expense", expenseID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "amount": req.Amount, "categoryId": req.CategoryID})

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense soft-deletes an expense
// @Summary     Delete expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_EXPENSE", "expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
