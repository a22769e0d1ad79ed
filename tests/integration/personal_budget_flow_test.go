package integration

import (
	"net/http"
	"testing"
)

func TestPersonalBudgetFlow(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "personal@test.com", "personal_user")

	// Step 1: Create with initial items
	rec := app.request("POST", "/api/v1/personal-budgets",
		`{"name":"Trip","items":[{"name":"Flights","amount":400},{"name":"Hotel","amount":350.50}]}`, token)
	mustStatus(t, rec, http.StatusCreated)
	budget := parseJSON(t, rec)["personalBudget"].(map[string]interface{})
	budgetID := budget["id"].(string)
	if items := budget["items"].([]interface{}); len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	summary := func() map[string]interface{} {
		t.Helper()
		rec := app.request("GET", "/api/v1/personal-budgets/"+budgetID+"/summary", "", token)
		mustStatus(t, rec, http.StatusOK)
		return parseJSON(t, rec)
	}
	if got := number(t, summary(), "total"); got != 750.5 {
		t.Errorf("expected total 750.5, got %v", got)
	}

	// Step 2: Add, update and delete an item
	rec = app.request("POST", "/api/v1/personal-budgets/"+budgetID+"/items", `{"name":"Food","amount":100}`, token)
	mustStatus(t, rec, http.StatusCreated)
	itemID := parseJSON(t, rec)["item"].(map[string]interface{})["id"].(string)

	rec = app.request("PATCH", "/api/v1/personal-budgets/"+budgetID+"/items/"+itemID, `{"amount":150}`, token)
	mustStatus(t, rec, http.StatusOK)
	s := summary()
	if number(t, s, "total") != 900.5 || number(t, s, "itemCount") != 3 {
		t.Errorf("unexpected summary after update: %v", s)
	}

	mustStatus(t, app.request("DELETE", "/api/v1/personal-budgets/"+budgetID+"/items/"+itemID, "", token), http.StatusOK)
	if got := number(t, summary(), "itemCount"); got != 2 {
		t.Errorf("expected 2 items after delete, got %v", got)
	}

	// Step 3: Rename and list
	rec = app.request("PATCH", "/api/v1/personal-budgets/"+budgetID, `{"name":"Japan trip"}`, token)
	mustStatus(t, rec, http.StatusOK)
	if got := parseJSON(t, rec)["personalBudget"].(map[string]interface{})["name"]; got != "Japan trip" {
		t.Errorf("expected renamed budget, got %v", got)
	}

	rec = app.request("GET", "/api/v1/personal-budgets", "", token)
	mustStatus(t, rec, http.StatusOK)
	if budgets := parseJSON(t, rec)["personalBudgets"].([]interface{}); len(budgets) != 1 {
		t.Errorf("expected 1 budget, got %d", len(budgets))
	}

	// Step 4: Other users cannot see it
	otherToken, _ := app.registerUser(t, "nosy@test.com", "nosy_user")
	rec = app.request("GET", "/api/v1/personal-budgets/"+budgetID, "", otherToken)
	mustStatus(t, rec, http.StatusNotFound)
	if code := errorCode(t, rec); code != "PERSONAL_BUDGET_NOT_FOUND" {
		t.Errorf("expected PERSONAL_BUDGET_NOT_FOUND, got %s", code)
	}

	// Step 5: Delete
	mustStatus(t, app.request("DELETE", "/api/v1/personal-budgets/"+budgetID, "", token), http.StatusOK)
	mustStatus(t, app.request("GET", "/api/v1/personal-budgets/"+budgetID, "", token), http.StatusNotFound)
}
