package service

import (
	"fmt"
	"strings"

	"github.com/prajwalbharadwajbm/crmbeacon/internal/models"
)

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// ValidationError represents a validation error
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// TransitionError is returned when the status table forbids a change. The
// campaign is left untouched.
type TransitionError struct {
	From models.CampaignStatus
	To   models.CampaignStatus
}

func (e *TransitionError) Error() string {
	if e.From.IsTerminal() {
		return fmt.Sprintf("cannot change campaign status from %s to %s: %s campaigns can no longer change status", e.From, e.To, e.From)
	}

	allowed := models.AllowedTransitions(e.From)
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}
	return fmt.Sprintf("cannot change campaign status from %s to %s: allowed next statuses are %s",
		e.From, e.To, strings.Join(names, ", "))
}

// RecountError is returned by RecordPurchase when the purchase was saved but
// the segment recount that follows it failed. Retrying the purchase would
// count it twice.
type RecountError struct {
	CustomerID     string
	TotalPurchases int
	Err            error
}

func (e *RecountError) Error() string {
	return fmt.Sprintf("purchase recorded for customer %s (total purchases %d) but segment recount failed: %v",
		e.CustomerID, e.TotalPurchases, e.Err)
}

func (e *RecountError) Unwrap() error { return e.Err }

// ConflictError represents a conflicting concurrent modification
type ConflictError struct {
	Resource string
	Message  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict with %s: %s", e.Resource, e.Message)
}
