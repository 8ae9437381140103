package models

// ErrorResponse represents error response format
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

// TransitionsResponse lists the statuses a campaign may move to next
type TransitionsResponse struct {
	CampaignID string           `json:"campaignId"`
	Status     CampaignStatus   `json:"status"`
	Allowed    []CampaignStatus `json:"allowed"`
}

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Store   string `json:"store"`
	Cache   any    `json:"cache,omitempty"`
}
