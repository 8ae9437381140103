package models

import "slices"

// Campaign is a marketing campaign aimed at an optional customer segment.
// Campaigns move through a fixed lifecycle, see AllowedTransitions.
type Campaign struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Status        CampaignStatus   `json:"status"`
	TargetSegment string           `json:"targetSegment,omitempty"`
	StartDate     string           `json:"startDate,omitempty"`
	EndDate       string           `json:"endDate,omitempty"`
	Metrics       *CampaignMetrics `json:"metrics,omitempty"`
}

// CampaignMetrics holds delivery counters. They start at zero and are never
// touched by the lifecycle logic.
type CampaignMetrics struct {
	Sent    int `json:"sent"`
	Opened  int `json:"opened"`
	Clicked int `json:"clicked"`
}

// CampaignStatus represents the lifecycle state of a campaign
type CampaignStatus string

// enum values for CampaignStatus
const (
	StatusDraft     CampaignStatus = "draft"
	StatusActive    CampaignStatus = "active"
	StatusPaused    CampaignStatus = "paused"
	StatusCompleted CampaignStatus = "completed"
)

// campaignTransitions is the fixed adjacency table of the lifecycle.
var campaignTransitions = map[CampaignStatus][]CampaignStatus{
	StatusDraft:     {StatusActive},
	StatusActive:    {StatusPaused, StatusCompleted},
	StatusPaused:    {StatusActive, StatusCompleted},
	StatusCompleted: {},
}

// IsValid reports whether s is one of the known lifecycle states
func (s CampaignStatus) IsValid() bool {
	_, ok := campaignTransitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s
func (s CampaignStatus) IsTerminal() bool {
	return s.IsValid() && len(campaignTransitions[s]) == 0
}

// AllowedTransitions returns the statuses reachable from s in one step.
// The returned slice is a copy.
func AllowedTransitions(s CampaignStatus) []CampaignStatus {
	return slices.Clone(campaignTransitions[s])
}

// CanTransition reports whether the table permits from -> to
func CanTransition(from, to CampaignStatus) bool {
	return slices.Contains(campaignTransitions[from], to)
}

// NewCampaignMetrics returns the zeroed metrics assigned on creation
func NewCampaignMetrics() *CampaignMetrics {
	return &CampaignMetrics{}
}
