package models

import (
	"errors"
	"strings"
)

// CampaignInput carries the editable fields of a campaign, as submitted by
// the create and edit forms.
type CampaignInput struct {
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Status        CampaignStatus `json:"status,omitempty"`
	TargetSegment string         `json:"targetSegment,omitempty"`
	StartDate     string         `json:"startDate,omitempty"`
	EndDate       string         `json:"endDate,omitempty"`
}

// Normalize trims surrounding whitespace from every field
func (in *CampaignInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Status = CampaignStatus(strings.ToLower(strings.TrimSpace(string(in.Status))))
	in.TargetSegment = strings.TrimSpace(in.TargetSegment)
	in.StartDate = strings.TrimSpace(in.StartDate)
	in.EndDate = strings.TrimSpace(in.EndDate)
}

// Validate checks the required fields and, when present, the status value
func (in *CampaignInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("campaign name is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return errors.New("campaign description is required")
	}
	if in.Status != "" && !in.Status.IsValid() {
		return errors.New("invalid campaign status: must be one of draft, active, paused, completed")
	}
	return nil
}

// CustomerInput carries the editable fields of a customer
type CustomerInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Normalize trims whitespace and lowercases the email
func (in *CustomerInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
}

// Validate checks the required fields
func (in *CustomerInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("customer name is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return errors.New("customer email is required")
	}
	if strings.TrimSpace(in.Phone) == "" {
		return errors.New("customer phone is required")
	}
	return nil
}

// SegmentInput carries the editable fields of a segment
type SegmentInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Rule        string `json:"rule,omitempty"`
}

// Normalize trims surrounding whitespace from every field
func (in *SegmentInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Rule = strings.TrimSpace(in.Rule)
}

// Validate checks the required fields
func (in *SegmentInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("segment name is required")
	}
	return nil
}
