package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-01-15" {
		t.Fatalf("String() = %q", d.String())
	}
	if d.MonthKey() != "2024-01" {
		t.Fatalf("MonthKey() = %q", d.MonthKey())
	}

	for _, in := range []string{"", "15/01/2024", "2024-1-5", "2024-13-01", "yesterday"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q) expected ErrInvalidDate, got %v", in, err)
		}
	}
}

func TestExpenseFormBuild(t *testing.T) {
	cases := []struct {
		name    string
		form    ExpenseForm
		wantErr error
	}{
		{"valid", ExpenseForm{Amount: "12.50", Category: "food", Date: "2024-01-15", Description: "Lunch"}, nil},
		{"empty description ok", ExpenseForm{Amount: "1", Category: "other", Date: "2024-01-15"}, nil},
		{"zero amount ok", ExpenseForm{Amount: "0", Category: "food", Date: "2024-01-15"}, nil},
		{"bad amount", ExpenseForm{Amount: "abc", Category: "food", Date: "2024-01-15"}, ErrInvalidAmount},
		{"negative amount", ExpenseForm{Amount: "-5", Category: "food", Date: "2024-01-15"}, ErrInvalidAmount},
		{"amount wrapping negative", ExpenseForm{Amount: "92233720368547758.08", Category: "food", Date: "2024-01-15"}, ErrInvalidAmount},
		{"bad date", ExpenseForm{Amount: "1", Category: "food", Date: "01-15-2024"}, ErrInvalidDate},
		{"missing category", ExpenseForm{Amount: "1", Category: "  ", Date: "2024-01-15"}, ErrEmptyCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := tc.form.Build()
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if e.ID != "" || !e.CreatedAt.IsZero() {
				t.Fatalf("Build must not assign ID or CreatedAt: %+v", e)
			}
			if err := e.Validate(); err != nil {
				t.Fatalf("built expense invalid: %v", err)
			}
		})
	}

	e, err := ExpenseForm{Amount: "12.50", Category: "food", Date: "2024-01-15", Description: " Lunch "}.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Amount.Cents != 1250 {
		t.Errorf("Amount = %d, want 1250", e.Amount.Cents)
	}
	if e.Description != "Lunch" {
		t.Errorf("Description = %q, want trimmed", e.Description)
	}
}

func TestExpenseJSONRoundTrip(t *testing.T) {
	original := Expense{
		ID:          "a1b2",
		Amount:      Money{Cents: 1250},
		Category:    "food",
		Date:        NewDate(2024, 1, 15),
		Description: "", // empty description must survive the round trip
		CreatedAt:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Expense
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.ID != original.ID ||
		back.Amount != original.Amount ||
		back.Category != original.Category ||
		back.Date.String() != original.Date.String() ||
		back.Description != original.Description ||
		!back.CreatedAt.Equal(original.CreatedAt) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", back, original)
	}
}
