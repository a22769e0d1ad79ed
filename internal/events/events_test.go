package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestEvent_RoutingKey(t *testing.T) {
	tests := []struct {
		resource, action, want string
	}{
		{"BUDGET_PERIOD", "CREATE", "budget_period.create"},
		{"EXPENSE", "BULK_CREATE", "expense.bulk_create"},
		{"user", "login", "user.login"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			e := Event{ResourceType: tt.resource, Action: tt.action}
			if got := e.RoutingKey(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEvent_JSON(t *testing.T) {
	e := Event{
		ID:           "evt-1",
		UserID:       "user-1",
		Action:       "CREATE",
		ResourceType: "EXPENSE",
		ResourceID:   "exp-1",
		Changes:      json.RawMessage(`{"amount":12.5}`),
		OccurredAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	body, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["resourceType"] != "EXPENSE" || decoded["userId"] != "user-1" {
		t.Errorf("unexpected payload: %s", body)
	}
	changes, ok := decoded["changes"].(map[string]interface{})
	if !ok || changes["amount"] != 12.5 {
		t.Errorf("expected changes to be embedded as an object, got %s", body)
	}
}

func TestNew_WithoutURLReturnsNop(t *testing.T) {
	pub, err := New("", "budgeteer.activity")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := pub.(NopPublisher); !ok {
		t.Fatalf("expected NopPublisher, got %T", pub)
	}
	if err := pub.Publish(context.Background(), Event{}); err != nil {
		t.Errorf("unexpected publish error: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}
