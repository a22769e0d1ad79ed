package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/models"
	"budgeteer/internal/services"
)

const (
	testPersonalBudgetID = "0190a7c2-7d1e-7b6a-9f3e-000000000f01"
	testItemID           = "0190a7c2-7d1e-7b6a-9f3e-000000000f02"
)

type mockPersonalBudgetService struct {
	createFn     func(userID, name string, description *string, items []services.PersonalBudgetItemInput) (*models.PersonalBudget, error)
	listFn       func(userID string) ([]models.PersonalBudget, error)
	getFn        func(userID, budgetID string) (*models.PersonalBudget, error)
	updateFn     func(userID, budgetID string, name, description *string) (*models.PersonalBudget, error)
	deleteFn     func(userID, budgetID string) error
	addItemFn    func(userID, budgetID string, item services.PersonalBudgetItemInput) (*models.PersonalBudgetItem, error)
	updateItemFn func(userID, budgetID, itemID string, input services.UpdatePersonalBudgetItemInput) (*models.PersonalBudgetItem, error)
	deleteItemFn func(userID, budgetID, itemID string) error
	summaryFn    func(userID, budgetID string) (*services.PersonalBudgetSummary, error)
}

var _ services.PersonalBudgetServicer = (*mockPersonalBudgetService)(nil)

func (m *mockPersonalBudgetService) CreatePersonalBudget(userID, name string, description *string, items []services.PersonalBudgetItemInput) (*models.PersonalBudget, error) {
	if m.createFn != nil {
		return m.createFn(userID, name, description, items)
	}
	return &models.PersonalBudget{}, nil
}

func (m *mockPersonalBudgetService) GetUserPersonalBudgets(userID string) ([]models.PersonalBudget, error) {
	if m.listFn != nil {
		return m.listFn(userID)
	}
	return []models.PersonalBudget{}, nil
}

func (m *mockPersonalBudgetService) GetPersonalBudgetByID(userID, budgetID string) (*models.PersonalBudget, error) {
	if m.getFn != nil {
		return m.getFn(userID, budgetID)
	}
	return &models.PersonalBudget{}, nil
}

func (m *mockPersonalBudgetService) UpdatePersonalBudget(userID, budgetID string, name, description *string) (*models.PersonalBudget, error) {
	if m.updateFn != nil {
		return m.updateFn(userID, budgetID, name, description)
	}
	return &models.PersonalBudget{}, nil
}

func (m *mockPersonalBudgetService) DeletePersonalBudget(userID, budgetID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, budgetID)
	}
	return nil
}

func (m *mockPersonalBudgetService) AddItem(userID, budgetID string, item services.PersonalBudgetItemInput) (*models.PersonalBudgetItem, error) {
	if m.addItemFn != nil {
		return m.addItemFn(userID, budgetID, item)
	}
	return &models.PersonalBudgetItem{}, nil
}

func (m *mockPersonalBudgetService) UpdateItem(userID, budgetID, itemID string, input services.UpdatePersonalBudgetItemInput) (*models.PersonalBudgetItem, error) {
	if m.updateItemFn != nil {
		return m.updateItemFn(userID, budgetID, itemID, input)
	}
	return &models.PersonalBudgetItem{}, nil
}

func (m *mockPersonalBudgetService) DeleteItem(userID, budgetID, itemID string) error {
	if m.deleteItemFn != nil {
		return m.deleteItemFn(userID, budgetID, itemID)
	}
	return nil
}

func (m *mockPersonalBudgetService) GetSummary(userID, budgetID string) (*services.PersonalBudgetSummary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(userID, budgetID)
	}
	return &services.PersonalBudgetSummary{Total: decimal.Zero}, nil
}

func setupPersonalBudgetRouter(handler *PersonalBudgetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/personal-budgets", handler.CreatePersonalBudget)
	auth.GET("/personal-budgets", handler.GetPersonalBudgets)
	auth.GET("/personal-budgets/:id", handler.GetPersonalBudget)
	auth.PATCH("/personal-budgets/:id", handler.UpdatePersonalBudget)
	auth.DELETE("/personal-budgets/:id", handler.DeletePersonalBudget)
	auth.GET("/personal-budgets/:id/summary", handler.GetSummary)
	auth.POST("/personal-budgets/:id/items", handler.AddItem)
	auth.PATCH("/personal-budgets/:id/items/:itemId", handler.UpdateItem)
	auth.DELETE("/personal-budgets/:id/items/:itemId", handler.DeleteItem)
	return r
}

func TestPersonalBudgetHandler_CreatePersonalBudget(t *testing.T) {
	t.Run("returns 201 with items", func(t *testing.T) {
		var gotItems []services.PersonalBudgetItemInput
		svc := &mockPersonalBudgetService{
			createFn: func(_, name string, _ *string, items []services.PersonalBudgetItemInput) (*models.PersonalBudget, error) {
				gotItems = items
				return &models.PersonalBudget{Base: models.Base{ID: testPersonalBudgetID}, Name: name}, nil
			},
		}
		r := setupPersonalBudgetRouter(NewPersonalBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/personal-budgets",
			`{"name":"Wedding","items":[{"name":"Venue","amount":1500},{"name":"Food","amount":800.25}]}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(gotItems) != 2 || !gotItems[1].Amount.Equal(decimal.RequireFromString("800.25")) {
			t.Errorf("unexpected items: %+v", gotItems)
		}
	})

	t.Run("returns 400 on invalid item", func(t *testing.T) {
		r := setupPersonalBudgetRouter(NewPersonalBudgetHandler(&mockPersonalBudgetService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/personal-budgets", `{"name":"Wedding","items":[{"name":"","amount":10}]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestPersonalBudgetHandler_GetSummary(t *testing.T) {
	t.Run("returns total and item count", func(t *testing.T) {
		svc := &mockPersonalBudgetService{
			summaryFn: func(_, _ string) (*services.PersonalBudgetSummary, error) {
				return &services.PersonalBudgetSummary{Total: decimal.RequireFromString("2300.25"), ItemCount: 2}, nil
			},
		}
		r := setupPersonalBudgetRouter(NewPersonalBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/personal-budgets/"+testPersonalBudgetID+"/summary", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["total"] != 2300.25 || result["itemCount"] != float64(2) {
			t.Errorf("unexpected summary: %v", result)
		}
	})

	t.Run("returns 404 when budget not found", func(t *testing.T) {
		svc := &mockPersonalBudgetService{
			summaryFn: func(_, _ string) (*services.PersonalBudgetSummary, error) {
				return nil, apperrors.ErrPersonalBudgetNotFound
			},
		}
		r := setupPersonalBudgetRouter(NewPersonalBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/personal-budgets/"+testPersonalBudgetID+"/summary", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestPersonalBudgetHandler_Items(t *testing.T) {
	t.Run("add returns 201", func(t *testing.T) {
		var gotBudget string
		svc := &mockPersonalBudgetService{
			addItemFn: func(_, budgetID string, item services.PersonalBudgetItemInput) (*models.PersonalBudgetItem, error) {
				gotBudget = budgetID
				return &models.PersonalBudgetItem{Base: models.Base{ID: testItemID}, PersonalBudgetID: budgetID, Name: item.Name, Amount: item.Amount}, nil
			},
		}
		r := setupPersonalBudgetRouter(NewPersonalBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/personal-budgets/"+testPersonalBudgetID+"/items", `{"name":"Rings","amount":300}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotBudget != testPersonalBudgetID {
			t.Errorf("expected %s, got %s", testPersonalBudgetID, gotBudget)
		}
	})

	t.Run("update returns 404 when item not found", func(t *testing.T) {
		svc := &mockPersonalBudgetService{
			updateItemFn: func(_, _, _ string, _ services.UpdatePersonalBudgetItemInput) (*models.PersonalBudgetItem, error) {
				return nil, apperrors.ErrPersonalBudgetItemNotFound
			},
		}
		r := setupPersonalBudgetRouter(NewPersonalBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PATCH", "/personal-budgets/"+testPersonalBudgetID+"/items/"+testItemID, `{"amount":10}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PERSONAL_BUDGET_ITEM_NOT_FOUND")
	})

	t.Run("delete rejects malformed item id", func(t *testing.T) {
		r := setupPersonalBudgetRouter(NewPersonalBudgetHandler(&mockPersonalBudgetService{}, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/personal-budgets/"+testPersonalBudgetID+"/items/7", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestPersonalBudgetHandler_DeletePersonalBudget(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupPersonalBudgetRouter(NewPersonalBudgetHandler(&mockPersonalBudgetService{}, audit))

		rec := doRequest(r, "DELETE", "/personal-budgets/"+testPersonalBudgetID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(audit.actions) != 1 || audit.actions[0] != "DELETE_PERSONAL_BUDGET" {
			t.Errorf("expected DELETE_PERSONAL_BUDGET audit entry, got %v", audit.actions)
		}
	})
}
