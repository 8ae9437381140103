package models

import "testing"

func TestCountRepeatBuyers(t *testing.T) {
	customers := []Customer{
		{ID: "1", TotalPurchases: 0},
		{ID: "2", TotalPurchases: 1},
		{ID: "3", TotalPurchases: 2},
		{ID: "4", TotalPurchases: 7},
	}

	if got := CountRepeatBuyers(customers); got != 2 {
		t.Errorf("Expected 2 repeat buyers, got %d", got)
	}
	if got := CountRepeatBuyers(nil); got != 0 {
		t.Errorf("Expected 0 repeat buyers for no customers, got %d", got)
	}
}

func TestRecountSegmentsIgnoresRule(t *testing.T) {
	customers := []Customer{
		{ID: "1", TotalPurchases: 2},
		{ID: "2", TotalPurchases: 5},
		{ID: "3", TotalPurchases: 1},
	}
	segments := []Segment{
		{ID: "a", Rule: "totalPurchases > 1", CustomerCount: 10},
		{ID: "b", Rule: "totalPurchases >= 5", CustomerCount: 0},
		{ID: "c", CustomerCount: 3},
	}

	got := RecountSegments(segments, customers)
	if len(got) != 3 {
		t.Fatalf("Expected 3 segments, got %d", len(got))
	}
	for _, s := range got {
		if s.CustomerCount != 2 {
			t.Errorf("Segment %s: expected count 2, got %d", s.ID, s.CustomerCount)
		}
	}
}

func TestCustomerInputNormalize(t *testing.T) {
	in := CustomerInput{Name: " Ada ", Email: " Ada@Example.COM ", Phone: " 123 "}
	in.Normalize()

	if in.Email != "ada@example.com" {
		t.Errorf("Expected lowercased email, got %q", in.Email)
	}
	if in.Name != "Ada" || in.Phone != "123" {
		t.Errorf("Expected trimmed fields, got %q and %q", in.Name, in.Phone)
	}
	if err := in.Validate(); err != nil {
		t.Errorf("Expected valid input, got %v", err)
	}
	if err := (&CustomerInput{Name: "Ada", Phone: "123"}).Validate(); err == nil {
		t.Error("Expected missing email to fail validation")
	}
	if err := (&CustomerInput{Name: "Ada", Email: "ada@example.com", Phone: "  "}).Validate(); err == nil {
		t.Error("Expected blank phone to fail validation")
	}
}
