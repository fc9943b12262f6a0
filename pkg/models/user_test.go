package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestUserJSONOmitsPassword(t *testing.T) {
	user := User{
		ID:        "usr-001",
		Name:      "Jane Doe",
		Age:       32,
		Weight:    68.5,
		Email:     "jane@example.com",
		Password:  "secret",
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("failed to marshal User: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("failed to unmarshal User: %v", err)
	}
	if _, ok := fields["password"]; ok {
		t.Error("password must never be serialized")
	}
	if fields["id"] != "usr-001" {
		t.Errorf("id: expected usr-001, got %v", fields["id"])
	}
}

func TestUserProfileJSONFields(t *testing.T) {
	data, err := json.Marshal(UserProfile{Name: "Bob", Age: 20, Weight: 90.4})
	if err != nil {
		t.Fatalf("failed to marshal UserProfile: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("failed to unmarshal UserProfile: %v", err)
	}
	if len(fields) != 3 {
		t.Fatalf("expected exactly name, age, weight, got %v", fields)
	}
	for _, leaked := range []string{"id", "email", "password"} {
		if _, ok := fields[leaked]; ok {
			t.Errorf("profile leaks %s", leaked)
		}
	}
}

func TestRegisterRequestZeroValuesArePresent(t *testing.T) {
	var req RegisterRequest
	if err := json.Unmarshal([]byte(`{"name":"Baby","age":0,"weight":0,"email":"b@example.com","password":"x"}`), &req); err != nil {
		t.Fatalf("failed to unmarshal RegisterRequest: %v", err)
	}
	if req.Age == nil || *req.Age != 0 {
		t.Errorf("expected explicit age 0, got %v", req.Age)
	}
	if req.Weight == nil || *req.Weight != 0 {
		t.Errorf("expected explicit weight 0, got %v", req.Weight)
	}
}
