package httputil

import (
	"encoding/json"
	"testing"
)

func TestOptional_UnmarshalJSON(t *testing.T) {
	type patch struct {
		Title  Optional[string]  `json:"title"`
		Budget Optional[float64] `json:"budget"`
	}

	tests := []struct {
		name          string
		body          string
		titlePresent  bool
		titleNil      bool
		budgetPresent bool
	}{
		{"absent", `{}`, false, true, false},
		{"null", `{"title":null}`, true, true, false},
		{"value", `{"title":"hi","budget":12.5}`, true, false, true},
		{"empty string", `{"title":""}`, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p patch
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if p.Title.Present != tt.titlePresent {
				t.Errorf("Title.Present = %v, want %v", p.Title.Present, tt.titlePresent)
			}
			if (p.Title.Value == nil) != tt.titleNil {
				t.Errorf("Title.Value = %v, want nil=%v", p.Title.Value, tt.titleNil)
			}
			if p.Budget.Present != tt.budgetPresent {
				t.Errorf("Budget.Present = %v, want %v", p.Budget.Present, tt.budgetPresent)
			}
		})
	}
}

func TestOptional_RejectsWrongType(t *testing.T) {
	var o Optional[int]
	if err := json.Unmarshal([]byte(`"five"`), &o); err == nil {
		t.Error("expected error for string into Optional[int]")
	}
}
