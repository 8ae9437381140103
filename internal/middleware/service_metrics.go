package middleware

import (
	"context"
	"errors"

	"github.com/prajwalbharadwajbm/crmbeacon/internal/metrics"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/models"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/service"
)

// Transition results recorded on the campaign_transitions_total counter
const (
	transitionApplied  = "applied"
	transitionRejected = "rejected"
	transitionConflict = "conflict"
	transitionError    = "error"
)

// campaignMetricsMiddleware records lifecycle transitions
type campaignMetricsMiddleware struct {
	service.CampaignService
	metrics *metrics.Metrics
}

// NewCampaignMetricsMiddleware creates a new service metrics middleware
func NewCampaignMetricsMiddleware(m *metrics.Metrics) func(service.CampaignService) service.CampaignService {
	return func(next service.CampaignService) service.CampaignService {
		return &campaignMetricsMiddleware{
			CampaignService: next,
			metrics:         m,
		}
	}
}

// ChangeCampaignStatus implements service.CampaignService with business metrics
func (mw *campaignMetricsMiddleware) ChangeCampaignStatus(ctx context.Context, id string, status models.CampaignStatus) (models.Campaign, error) {
	// best effort: a failed read only leaves the from label empty
	var from string
	if before, err := mw.CampaignService.GetCampaign(ctx, id); err == nil {
		from = string(before.Status)
	}

	campaign, err := mw.CampaignService.ChangeCampaignStatus(ctx, id, status)

	var (
		transitionErr *service.TransitionError
		conflictErr   *service.ConflictError
		notFoundErr   *service.NotFoundError
		validationErr *service.ValidationError
	)
	switch {
	case err == nil:
		mw.metrics.RecordCampaignTransition(from, string(status), transitionApplied)
	case errors.As(err, &transitionErr):
		mw.metrics.RecordCampaignTransition(string(transitionErr.From), string(transitionErr.To), transitionRejected)
	case errors.As(err, &conflictErr):
		mw.metrics.RecordCampaignTransition(from, string(status), transitionConflict)
	case errors.As(err, &notFoundErr), errors.As(err, &validationErr):
		// client mistakes are not transitions
	default:
		mw.metrics.RecordCampaignTransition(from, string(status), transitionError)
	}

	return campaign, err
}

// customerMetricsMiddleware records purchases and segment recounts
type customerMetricsMiddleware struct {
	service.CustomerService
	metrics *metrics.Metrics
}

// NewCustomerMetricsMiddleware creates a new service metrics middleware
func NewCustomerMetricsMiddleware(m *metrics.Metrics) func(service.CustomerService) service.CustomerService {
	return func(next service.CustomerService) service.CustomerService {
		return &customerMetricsMiddleware{
			CustomerService: next,
			metrics:         m,
		}
	}
}

// RecordPurchase implements service.CustomerService with business metrics
func (mw *customerMetricsMiddleware) RecordPurchase(ctx context.Context, id string) (service.PurchaseResult, error) {
	result, err := mw.CustomerService.RecordPurchase(ctx, id)

	// a purchase is recorded once the customer carries the new count, even
	// if the recount that follows failed
	var recountErr *service.RecountError
	if err == nil || errors.As(err, &recountErr) {
		mw.metrics.RecordPurchase()
		mw.metrics.RecordSegmentRecalculation(result.RepeatBuyers, err)
	}

	return result, err
}
