package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/services"
)

// PersonalBudgetHandler handles period-independent budgets and their items.
type PersonalBudgetHandler struct {
	budgetService services.PersonalBudgetServicer
	auditService  services.AuditServicer
}

// NewPersonalBudgetHandler creates a new PersonalBudgetHandler.
func NewPersonalBudgetHandler(budgetService services.PersonalBudgetServicer, auditService services.AuditServicer) *PersonalBudgetHandler {
	return &PersonalBudgetHandler{budgetService: budgetService, auditService: auditService}
}

// PersonalBudgetItemRequest represents one line of a personal budget.
type PersonalBudgetItemRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=100"`
	Description *string         `json:"description" binding:"omitempty,max=500"`
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

func (r PersonalBudgetItemRequest) toInput() services.PersonalBudgetItemInput {
	return services.PersonalBudgetItemInput{Name: r.Name, Description: r.Description, Amount: r.Amount}
}

// UpdatePersonalBudgetItemRequest represents changes to one line.
type UpdatePersonalBudgetItemRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	Amount      *decimal.Decimal `json:"amount" binding:"omitempty,gt=0"`
}

// CreatePersonalBudgetRequest represents the request body for creating a personal budget.
type CreatePersonalBudgetRequest struct {
	Name        string                      `json:"name" binding:"required,min=1,max=100"`
	Description *string                     `json:"description" binding:"omitempty,max=500"`
	Items       []PersonalBudgetItemRequest `json:"items" binding:"omitempty,dive"`
}

// UpdatePersonalBudgetRequest represents the request body for updating a personal budget.
type UpdatePersonalBudgetRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// CreatePersonalBudget handles the creation of a personal budget
// @Summary     Create personal budget
// @Tags        personal-budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePersonalBudgetRequest true "Personal budget with optional items"
// @Success     201 {object} models.PersonalBudget "Personal budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /personal-budgets [post]
func (h *PersonalBudgetHandler) CreatePersonalBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePersonalBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	items := make([]services.PersonalBudgetItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, item.toInput())
	}

	budget, err := h.budgetService.CreatePersonalBudget(userID, req.Name, req.Description, items)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_PERSONAL_BUDGET", "personal_budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"name": budget.Name, "items": len(items)})

	c.JSON(http.StatusCreated, gin.H{"personalBudget": budget})
}

// GetPersonalBudgets lists the user's personal budgets
// @Summary     List personal budgets
// @Tags        personal-budgets
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.PersonalBudget "Personal budgets with items"
// @Router      /personal-budgets [get]
func (h *PersonalBudgetHandler) GetPersonalBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.GetUserPersonalBudgets(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"personalBudgets": budgets})
}

// GetPersonalBudget returns one personal budget
// @Summary     Get personal budget
// @Tags        personal-budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Personal budget ID"
// @Success     200 {object} models.PersonalBudget "Personal budget"
// @Failure     404 {object} ErrorResponse "Personal budget not found"
// @Router      /personal-budgets/{id} [get]
func (h *PersonalBudgetHandler) GetPersonalBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetPersonalBudgetByID(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"personalBudget": budget})
}

// UpdatePersonalBudget renames or re-describes a personal budget
// @Summary     Update personal budget
// @Tags        personal-budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                      true "Personal budget ID"
// @Param       request body UpdatePersonalBudgetRequest true "Changes"
// @Success     200 {object} models.PersonalBudget "Updated personal budget"
// @Failure     404 {object} ErrorResponse "Personal budget not found"
// @Router      /personal-budgets/{id} [patch]
func (h *PersonalBudgetHandler) UpdatePersonalBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePersonalBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.UpdatePersonalBudget(userID, budgetID, req.Name, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PERSONAL_BUDGET", "personal_budget", budgetID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "description": req.Description})

	c.JSON(http.StatusOK, gin.H{"personalBudget": budget})
}

// DeletePersonalBudget deletes a personal budget and its items
// @Summary     Delete personal budget
// @Tags        personal-budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Personal budget ID"
// @Success     200 {object} MessageResponse "Personal budget deleted"
// @Failure     404 {object} ErrorResponse "Personal budget not found"
// @Router      /personal-budgets/{id} [delete]
func (h *PersonalBudgetHandler) DeletePersonalBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeletePersonalBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_PERSONAL_BUDGET", "personal_budget", budgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Personal budget deleted successfully"})
}

// GetSummary totals a personal budget's items
// @Summary     Personal budget summary
// @Tags        personal-budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Personal budget ID"
// @Success     200 {object} services.PersonalBudgetSummary "Total and item count"
// @Failure     404 {object} ErrorResponse "Personal budget not found"
// @Router      /personal-budgets/{id}/summary [get]
func (h *PersonalBudgetHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.budgetService.GetSummary(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// AddItem appends a line to a personal budget
// @Summary     Add personal budget item
// @Tags        personal-budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                    true "Personal budget ID"
// @Param       request body PersonalBudgetItemRequest true "Item details"
// @Success     201 {object} models.PersonalBudgetItem "Item created"
// @Failure     404 {object} ErrorResponse "Personal budget not found"
// @Router      /personal-budgets/{id}/items [post]
func (h *PersonalBudgetHandler) AddItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PersonalBudgetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.budgetService.AddItem(userID, budgetID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ADD_PERSONAL_BUDGET_ITEM", "personal_budget_item", item.ID, c.ClientIP(),
		map[string]interface{}{"personalBudgetId": budgetID, "amount": req.Amount.String()})

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// UpdateItem changes a personal budget line
// @Summary     Update personal budget item
// @Tags        personal-budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                          true "Personal budget ID"
// @Param       itemId  path string                          true "Item ID"
// @Param       request body UpdatePersonalBudgetItemRequest true "Item changes"
// @Success     200 {object} models.PersonalBudgetItem "Updated item"
// @Failure     404 {object} ErrorResponse "Personal budget or item not found"
// @Router      /personal-budgets/{id}/items/{itemId} [patch]
func (h *PersonalBudgetHandler) UpdateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	itemID, err := parsePathID(c, "itemId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePersonalBudgetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.budgetService.UpdateItem(userID, budgetID, itemID, services.UpdatePersonalBudgetItemInput{
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PERSONAL_BUDGET_ITEM", "personal_budget_item", itemID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "amount": req.Amount})

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteItem removes a personal budget line
// @Summary     Delete personal budget item
// @Tags        personal-budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id     path string true "Personal budget ID"
// @Param       itemId path string true "Item ID"
// @Success     200 {object} MessageResponse "Item deleted"
// @Failure     404 {object} ErrorResponse "Personal budget or item not found"
// @Router      /personal-budgets/{id}/items/{itemId} [delete]
func (h *PersonalBudgetHandler) DeleteItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	itemID, err := parsePathID(c, "itemId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteItem(userID, budgetID, itemID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_PERSONAL_BUDGET_ITEM", "personal_budget_item", itemID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Personal budget item deleted successfully"})
}
