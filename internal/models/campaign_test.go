package models

import (
	"testing"
)

func TestCanTransition(t *testing.T) {
	statuses := []CampaignStatus{StatusDraft, StatusActive, StatusPaused, StatusCompleted}
	allowed := map[CampaignStatus]map[CampaignStatus]bool{
		StatusDraft:     {StatusActive: true},
		StatusActive:    {StatusPaused: true, StatusCompleted: true},
		StatusPaused:    {StatusActive: true, StatusCompleted: true},
		StatusCompleted: {},
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[from][to]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	if CanTransition("archived", StatusActive) {
		t.Error("Expected unknown source status to have no transitions")
	}
	if CanTransition(StatusDraft, "archived") {
		t.Error("Expected unknown target status to be rejected")
	}
}

func TestAllowedTransitionsReturnsCopy(t *testing.T) {
	allowed := AllowedTransitions(StatusActive)
	if len(allowed) != 2 {
		t.Fatalf("Expected 2 transitions from active, got %d", len(allowed))
	}

	allowed[0] = StatusDraft
	if CanTransition(StatusActive, StatusDraft) {
		t.Error("Modifying the returned slice must not change the lifecycle table")
	}
}

func TestCampaignStatusValidity(t *testing.T) {
	tests := []struct {
		status   CampaignStatus
		valid    bool
		terminal bool
	}{
		{StatusDraft, true, false},
		{StatusActive, true, false},
		{StatusPaused, true, false},
		{StatusCompleted, true, true},
		{"ACTIVE", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		if got := tt.status.IsValid(); got != tt.valid {
			t.Errorf("%q.IsValid() = %v, want %v", tt.status, got, tt.valid)
		}
		if got := tt.status.IsTerminal(); got != tt.terminal {
			t.Errorf("%q.IsTerminal() = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestCampaignInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   CampaignInput
		wantErr bool
	}{
		{"valid", CampaignInput{Name: "Spring", Description: "Sale"}, false},
		{"valid with status", CampaignInput{Name: "Spring", Description: "Sale", Status: StatusPaused}, false},
		{"missing name", CampaignInput{Name: "  ", Description: "Sale"}, true},
		{"missing description", CampaignInput{Name: "Spring"}, true},
		{"unknown status", CampaignInput{Name: "Spring", Description: "Sale", Status: "archived"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCampaignInputNormalize(t *testing.T) {
	in := CampaignInput{Name: " Spring ", Description: " Sale ", Status: " Active "}
	in.Normalize()

	if in.Name != "Spring" || in.Description != "Sale" {
		t.Errorf("Expected trimmed fields, got %q and %q", in.Name, in.Description)
	}
	if in.Status != StatusActive {
		t.Errorf("Expected status %q, got %q", StatusActive, in.Status)
	}
}
