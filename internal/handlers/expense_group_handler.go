package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/services"
)

// ExpenseGroupHandler handles grouping of expenses within a budget period.
type ExpenseGroupHandler struct {
	groupService services.ExpenseGroupServicer
	auditService services.AuditServicer
}

// NewExpenseGroupHandler creates a new ExpenseGroupHandler.
func NewExpenseGroupHandler(groupService services.ExpenseGroupServicer, auditService services.AuditServicer) *ExpenseGroupHandler {
	return &ExpenseGroupHandler{groupService: groupService, auditService: auditService}
}

// CreateExpenseGroupRequest represents the request body for creating a group.
type CreateExpenseGroupRequest struct {
	BudgetPeriodID string  `json:"budgetPeriodId" binding:"required,uuid"`
	Name           string  `json:"name" binding:"required,min=1,max=100"`
	Description    *string `json:"description" binding:"omitempty,max=500"`
}

// UpdateExpenseGroupRequest represents the request body for updating a group.
type UpdateExpenseGroupRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// ExpenseIDsRequest lists the expenses to attach to a group.
type ExpenseIDsRequest struct {
	ExpenseIDs []string `json:"expenseIds" binding:"required,min=1,dive,uuid"`
}

// MoveExpensesRequest moves expenses to a target group, or out of any group when
// targetGroupId is null.
type MoveExpensesRequest struct {
	ExpenseIDs    []string `json:"expenseIds" binding:"required,min=1,dive,uuid"`
	TargetGroupID *string  `json:"targetGroupId" binding:"omitempty,uuid"`
}

// CreateExpenseGroup handles the creation of a new group
// @Summary     Create expense group
// @Tags        expense-groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseGroupRequest true "Group details"
// @Success     201 {object} models.ExpenseGroup "Group created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Budget period not found"
// @Router      /expense-groups [post]
func (h *ExpenseGroupHandler) CreateExpenseGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	group, err := h.groupService.CreateExpenseGroup(userID, req.BudgetPeriodID, req.Name, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EXPENSE_GROUP", "expense_group", group.ID, c.ClientIP(),
		map[string]interface{}{"budgetPeriodId": req.BudgetPeriodID, "name": group.Name})

	c.JSON(http.StatusCreated, gin.H{"expenseGroup": group})
}

// GetExpenseGroups lists the groups of a budget period
// @Summary     List expense groups
// @Tags        expense-groups
// @Produce     json
// @Security    BearerAuth
// @Param       budgetPeriodId query string true "Budget period ID"
// @Success     200 {array}  models.ExpenseGroup "Groups with their expenses"
// @Failure     400 {object} ErrorResponse "Missing budget period"
// @Failure     404 {object} ErrorResponse "Budget period not found"
// @Router      /expense-groups [get]
func (h *ExpenseGroupHandler) GetExpenseGroups(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	periodID, err := optionalQueryID(c, "budgetPeriodId")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if periodID == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "budgetPeriodId is required"))
		return
	}

	groups, err := h.groupService.GetPeriodExpenseGroups(userID, *periodID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenseGroups": groups})
}

// GetExpenseGroup returns a single group with its expenses
// @Summary     Get expense group
// @Tags        expense-groups
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense group ID"
// @Success     200 {object} models.ExpenseGroup "Group"
// @Failure     404 {object} ErrorResponse "Expense group not found"
// @Router      /expense-groups/{id} [get]
func (h *ExpenseGroupHandler) GetExpenseGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	group, err := h.groupService.GetExpenseGroupByID(userID, groupID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenseGroup": group})
}

// UpdateExpenseGroup renames or re-describes a group
// @Summary     Update expense group
// @Tags        expense-groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                    true "Expense group ID"
// @Param       request body UpdateExpenseGroupRequest true "Group changes"
// @Success     200 {object} models.ExpenseGroup "Updated group"
// @Failure     404 {object} ErrorResponse "Expense group not found"
// @Router      /expense-groups/{id} [patch]
func (h *ExpenseGroupHandler) UpdateExpenseGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	group, err := h.groupService.UpdateExpenseGroup(userID, groupID, req.Name, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EXPENSE_GROUP", "expense_group", groupID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "description": req.Description})

	c.JSON(http.StatusOK, gin.H{"expenseGroup": group})
}

// DeleteExpenseGroup deletes a group and ungroups its expenses
// @Summary     Delete expense group
// @Description The group's expenses are kept and become ungrouped
// @Tags        expense-groups
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense group ID"
// @Success     200 {object} MessageResponse "Group deleted"
// @Failure     404 {object} ErrorResponse "Expense group not found"
// @Router      /expense-groups/{id} [delete]
func (h *ExpenseGroupHandler) DeleteExpenseGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.groupService.DeleteExpenseGroup(userID, groupID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_EXPENSE_GROUP", "expense_group", groupID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Expense group deleted successfully"})
}

// AddExpenses attaches expenses of the same period to a group
// @Summary     Add expenses to group
// @Tags        expense-groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Expense group ID"
// @Param       request body ExpenseIDsRequest true "Expense IDs"
// @Success     200 {object} models.ExpenseGroup "Group with its expenses"
// @Failure     403 {object} ErrorResponse "Expense belongs to another period"
// @Failure     404 {object} ErrorResponse "Group or expense not found"
// @Router      /expense-groups/{id}/expenses [post]
func (h *ExpenseGroupHandler) AddExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	group, err := h.groupService.AddExpensesToGroup(userID, groupID, req.ExpenseIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ADD_EXPENSES_TO_GROUP", "expense_group", groupID, c.ClientIP(),
		map[string]interface{}{"expenseIds": req.ExpenseIDs})

	c.JSON(http.StatusOK, gin.H{"expenseGroup": group})
}

// MoveExpenses moves expenses between groups
// @Summary     Move expenses
// @Description Move expenses to a target group, or out of any group when targetGroupId is null
// @Tags        expense-groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body MoveExpensesRequest true "Expense IDs and target"
// @Success     200 {object} services.MoveResult "Move result"
// @Failure     403 {object} ErrorResponse "Expense belongs to another period"
// @Failure     404 {object} ErrorResponse "Group or expense not found"
// @Router      /expense-groups/move-expenses [post]
func (h *ExpenseGroupHandler) MoveExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MoveExpensesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.groupService.MoveExpenses(userID, req.ExpenseIDs, req.TargetGroupID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "MOVE_EXPENSES", "expense", "", c.ClientIP(),
		map[string]interface{}{"expenseIds": req.ExpenseIDs, "targetGroupId": req.TargetGroupID})

	c.JSON(http.StatusOK, result)
}

// RemoveExpense takes a single expense out of its group
// @Summary     Remove expense from group
// @Tags        expense-groups
// @Produce     json
// @Security    BearerAuth
// @Param       expenseId path string true "Expense ID"
// @Success     200 {object} models.Expense "Ungrouped expense"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expense-groups/expenses/{expenseId} [delete]
func (h *ExpenseGroupHandler) RemoveExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "expenseId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.groupService.RemoveExpenseFromGroup(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "REMOVE_EXPENSE_FROM_GROUP", "expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}
