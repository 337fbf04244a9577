package dto

import (
	"encoding/json"
	"testing"
)

func TestUpdateRequestTracksPresence(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		amountSet       bool
		descriptionSet  bool
		descriptionNull bool
	}{
		{"empty", `{}`, false, false, false},
		{"amount only", `{"amount": 12.5}`, true, false, false},
		{"amount as string", `{"amount": "12.50"}`, true, false, false},
		{"description null", `{"description": null}`, false, true, true},
		{"description value", `{"description": "rent"}`, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateTransactionRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if req.Amount.Set != tt.amountSet {
				t.Errorf("Amount.Set = %v, want %v", req.Amount.Set, tt.amountSet)
			}
			if req.Description.Set != tt.descriptionSet {
				t.Errorf("Description.Set = %v, want %v", req.Description.Set, tt.descriptionSet)
			}
			if req.Description.Null != tt.descriptionNull {
				t.Errorf("Description.Null = %v, want %v", req.Description.Null, tt.descriptionNull)
			}
			if req.Type.Set || req.Category.Set || req.TransactionDate.Set {
				t.Error("unexpected fields marked as set")
			}
		})
	}
}

func TestFieldRejectsWrongType(t *testing.T) {
	var req UpdateTransactionRequest
	if err := json.Unmarshal([]byte(`{"type": 5}`), &req); err == nil {
		t.Error("expected error for numeric type")
	}
}
