package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestUpdateMealRequestNullAndOmitted(t *testing.T) {
	var req UpdateMealRequest
	if err := json.Unmarshal([]byte(`{"name":"B","diet":null}`), &req); err != nil {
		t.Fatalf("failed to unmarshal UpdateMealRequest: %v", err)
	}
	if req.Name == nil || *req.Name != "B" {
		t.Errorf("Name: expected B, got %v", req.Name)
	}
	if req.Diet != nil {
		t.Errorf("Diet: expected nil for explicit null, got %v", *req.Diet)
	}
	if req.Description != nil {
		t.Error("Description: expected nil when omitted")
	}
	if req.Empty() {
		t.Error("expected non-empty patch")
	}
}

func TestUpdateMealRequestDateTimeOffset(t *testing.T) {
	var req UpdateMealRequest
	if err := json.Unmarshal([]byte(`{"date_time":"2024-08-20T12:30:00-03:00"}`), &req); err != nil {
		t.Fatalf("failed to unmarshal UpdateMealRequest: %v", err)
	}
	if req.DateTime == nil {
		t.Fatal("expected date_time to be parsed")
	}
	want := time.Date(2024, 8, 20, 15, 30, 0, 0, time.UTC)
	if !req.DateTime.Equal(want) {
		t.Errorf("expected %v, got %v", want, req.DateTime.UTC())
	}
}

func TestUpdateMealRequestEmpty(t *testing.T) {
	var req UpdateMealRequest
	if err := json.Unmarshal([]byte(`{"name":null,"description":null,"diet":null,"date_time":null}`), &req); err != nil {
		t.Fatalf("failed to unmarshal UpdateMealRequest: %v", err)
	}
	if !req.Empty() {
		t.Error("expected all-null patch to be empty")
	}
}

func TestCreateMealRequestKeepsFalseDiet(t *testing.T) {
	var req CreateMealRequest
	if err := json.Unmarshal([]byte(`{"name":"Pizza","description":"Rodizio","diet":false}`), &req); err != nil {
		t.Fatalf("failed to unmarshal CreateMealRequest: %v", err)
	}
	if req.Diet == nil || *req.Diet {
		t.Errorf("expected explicit diet=false, got %v", req.Diet)
	}
}
