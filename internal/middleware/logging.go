package middleware

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	reqcontext "github.com/prajwalbharadwajbm/crmbeacon/internal/context"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/models"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/service"
)

// logCall writes one line per service call. Failed calls are logged at
// error level.
func logCall(ctx context.Context, logger log.Logger, method string, begin time.Time, err error, keyvals ...any) {
	fields := []any{"method", method}
	fields = append(fields, reqcontext.Keyvals(ctx)...)
	fields = append(fields, keyvals...)
	fields = append(fields, "took", time.Since(begin))

	if err != nil {
		fields = append(fields, "error", err.Error(), "success", false)
		level.Error(logger).Log(fields...)
		return
	}
	fields = append(fields, "success", true)
	level.Info(logger).Log(fields...)
}

// campaignLoggingMiddleware implements logging middleware for CampaignService
type campaignLoggingMiddleware struct {
	logger log.Logger
	next   service.CampaignService
}

// NewCampaignLoggingMiddleware creates a new logging middleware
func NewCampaignLoggingMiddleware(logger log.Logger) func(service.CampaignService) service.CampaignService {
	return func(next service.CampaignService) service.CampaignService {
		return &campaignLoggingMiddleware{
			logger: logger,
			next:   next,
		}
	}
}

func (mw *campaignLoggingMiddleware) ListCampaigns(ctx context.Context, query string) (campaigns []models.Campaign, err error) {
	defer func(begin time.Time) {
		logCall(ctx, mw.logger, "ListCampaigns", begin, err, "query", query, "campaigns_count", len(campaigns))
	}(time.Now())
	return mw.next.ListCampaigns(ctx, query)
}

func (mw *campaignLoggingMiddleware) GetCampaign(ctx context.Context, id string) (campaign models.Campaign, err error) {
	defer func(begin time.Time) {
		logCall(ctx, mw.logger, "GetCampaign", begin, err, "campaign_id", id)
	}(time.Now())
	return mw.next.GetCampaign(ctx, id)
}

func (mw *campaignLoggingMiddleware) CreateCampaign(ctx context.Context, input models.CampaignInput) (campaign models.Campaign, err error) {
	defer func(begin time.Time) {
		logCall(ctx, mw.logger, "CreateCampaign", begin, err,
			"campaign_id", campaign.ID,
			"name", input.Name,
			"status", campaign.Status,
		)
	}(time.Now())
	return mw.next.CreateCampaign(ctx, input)
}

func (mw *campaignLoggingMiddleware) UpdateCampaign(ctx context.Context, id string, input models.CampaignInput) (campaign models.Campaign, err error) {
	defer func(begin time.Time) {
		logCall(ctx, mw.logger, "UpdateCampaign", begin, err,
			"campaign_id", id,
			"requested_status", input.Status,
		)
	}(time.Now())
	return mw.next.UpdateCampaign(ctx, id, input)
}

func (mw *campaignLoggingMiddleware) ChangeCampaignStatus(ctx context.Context, id string, status models.CampaignStatus) (campaign models.Campaign, err error) {
	defer func(begin time.Time) {
		logCall(ctx, mw.logger, "ChangeCampaignStatus", begin, err,
			"campaign_id", id,
			"to", status,
		)
	}(time.Now())
	return mw.next.ChangeCampaignStatus(ctx, id, status)
}

func (mw *campaignLoggingMiddleware) GetAllowedTransitions(ctx context.Context, id string) (resp models.TransitionsResponse, err error) {
	defer func(begin time.Time) {
		logCall(ctx, mw.logger, "GetAllowedTransitions", begin, err, "campaign_id", id)
	}(time.Now())
	return mw.next.GetAllowedTransitions(ctx, id)
}

func (mw *campaignLoggingMiddleware) DeleteCampaign(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		logCall(ctx, mw.logger, "DeleteCampaign", begin, err, "campaign_id", id)
	}(time.Now())
	return mw.next.DeleteCampaign(ctx, id)
}

// customerLoggingMiddleware implements logging middleware for CustomerService
type customerLoggingMiddleware struct {
	logger log.Logger
	next   service.CustomerService
}

// NewCustomerLoggingMiddleware creates a new logging middleware
func NewCustomerLoggingMiddleware(logger log.Logger) func(service.CustomerService) service.CustomerService {
	return func(next service.CustomerService) service.CustomerService {
		return &customerLoggingMiddleware{
			logger: logger,
			next:   next,
		}
	}
}

func (mw *customerLoggingMiddleware) ListCustomers(ctx context.Context) (customers []models.Customer, err error) {
	defer func(begin time.Time) {
		logCall(ctx, mw.logger, "ListCustomers", begin, err, "customers_count", len(customers))
	}(time.Now())
	return mw.next.ListCustomers(ctx)
}

func (mw *customerLoggingMiddleware) GetCustomer(ctx context.Context, id string) (customer models.Customer, err error) {
	defer func(begin time.Time) {
		logCall(ctx, mw.logger, "GetCustomer", begin, err, "customer_id", id)
	}(time.Now())
	return mw.next.GetCustomer(ctx, id)
}

func (mw *customerLoggingMiddleware) CreateCustomer(ctx context.Context, input models.CustomerInput) (customer models.Customer, err error) {
	defer func(begin time.Time) {
		logCall(ctx, mw.logger, "CreateCustomer", begin, err, "customer_id", customer.ID)
	}(time.Now())
	return mw.next.CreateCustomer(ctx, input)
}

func (mw *customerLoggingMiddleware) UpdateCustomer(ctx context.Context, id string, input models.CustomerInput) (customer models.Customer, err error) {
	defer func(begin time.Time) {
		logCall(ctx, mw.logger, "UpdateCustomer", begin, err, "customer_id", id)
	}(time.Now())
	return mw.next.UpdateCustomer(ctx, id, input)
}

func (mw *customerLoggingMiddleware) DeleteCustomer(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		logCall(ctx, mw.logger, "DeleteCustomer", begin, err, "customer_id", id)
	}(time.Now())
	return mw.next.DeleteCustomer(ctx, id)
}

func (mw *customerLoggingMiddleware) RecordPurchase(ctx context.Context, id string) (result service.PurchaseResult, err error) {
	defer func(begin time.Time) {
		logCall(ctx, mw.logger, "RecordPurchase", begin, err,
			"customer_id", id,
			"total_purchases", result.Customer.TotalPurchases,
			"repeat_buyers", result.RepeatBuyers,
			"segments_recounted", len(result.Segments),
		)
	}(time.Now())
	return mw.next.RecordPurchase(ctx, id)
}

// segmentLoggingMiddleware implements logging middleware for SegmentService
type segmentLoggingMiddleware struct {
	logger log.Logger
	next   service.SegmentService
}

// NewSegmentLoggingMiddleware creates a new logging middleware
func NewSegmentLoggingMiddleware(logger log.Logger) func(service.SegmentService) service.SegmentService {
	return func(next service.SegmentService) service.SegmentService {
		return &segmentLoggingMiddleware{
			logger: logger,
			next:   next,
		}
	}
}

func (mw *segmentLoggingMiddleware) ListSegments(ctx context.Context) (segments []models.Segment, err error) {
	defer func(begin time.Time) {
		logCall(ctx, mw.logger, "ListSegments", begin, err, "segments_count", len(segments))
	}(time.Now())
	return mw.next.ListSegments(ctx)
}

func (mw *segmentLoggingMiddleware) GetSegment(ctx context.Context, id string) (segment models.Segment, err error) {
	defer func(begin time.Time) {
		logCall(ctx, mw.logger, "GetSegment", begin, err, "segment_id", id)
	}(time.Now())
	return mw.next.GetSegment(ctx, id)
}

func (mw *segmentLoggingMiddleware) CreateSegment(ctx context.Context, input models.SegmentInput) (segment models.Segment, err error) {
	defer func(begin time.Time) {
		logCall(ctx, mw.logger, "CreateSegment", begin, err, "segment_id", segment.ID, "name", input.Name)
	}(time.Now())
	return mw.next.CreateSegment(ctx, input)
}

func (mw *segmentLoggingMiddleware) UpdateSegment(ctx context.Context, id string, input models.SegmentInput) (segment models.Segment, err error) {
	defer func(begin time.Time) {
		logCall(ctx, mw.logger, "UpdateSegment", begin, err, "segment_id", id)
	}(time.Now())
	return mw.next.UpdateSegment(ctx, id, input)
}

func (mw *segmentLoggingMiddleware) DeleteSegment(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		logCall(ctx, mw.logger, "DeleteSegment", begin, err, "segment_id", id)
	}(time.Now())
	return mw.next.DeleteSegment(ctx, id)
}
