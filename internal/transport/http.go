package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	kitendpoint "github.com/go-kit/kit/endpoint"
	kittransport "github.com/go-kit/kit/transport"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/go-kit/log"
	"github.com/gorilla/mux"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/endpoint"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/metrics"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/models"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/service"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// healthTimeout bounds the store ping behind /health
const healthTimeout = 2 * time.Second

// Endpoints groups the endpoint sets served over HTTP
type Endpoints struct {
	Campaigns endpoint.CampaignEndpoints
	Customers endpoint.CustomerEndpoints
	Segments  endpoint.SegmentEndpoints
}

// HealthChecker describes the service for /health and pings its store
type HealthChecker struct {
	Service string
	Version string
	Store   string
	Ping    func(ctx context.Context) error
	Metrics *metrics.Metrics

	// CacheStatus, when set, is reported under "cache"
	CacheStatus func() any
}

// NewHTTPHandler creates HTTP handlers for the CRM services
func NewHTTPHandler(endpoints Endpoints, health HealthChecker, logger log.Logger) *mux.Router {
	options := []httptransport.ServerOption{
		httptransport.ServerErrorHandler(kittransport.NewLogErrorHandler(logger)),
		httptransport.ServerErrorEncoder(encodeError),
	}
	handle := func(e kitendpoint.Endpoint, dec httptransport.DecodeRequestFunc) http.Handler {
		return httptransport.NewServer(e, dec, encodeResponse, options...)
	}

	r := mux.NewRouter()

	c := endpoints.Campaigns
	r.Handle("/v1/campaigns", handle(c.ListCampaignsEndpoint, decodeListCampaignsRequest)).Methods(http.MethodGet)
	r.Handle("/v1/campaigns", handle(c.CreateCampaignEndpoint, decodeCreateCampaignRequest)).Methods(http.MethodPost)
	r.Handle("/v1/campaigns/{id}", handle(c.GetCampaignEndpoint, decodeGetCampaignRequest)).Methods(http.MethodGet)
	r.Handle("/v1/campaigns/{id}", handle(c.UpdateCampaignEndpoint, decodeUpdateCampaignRequest)).Methods(http.MethodPut)
	r.Handle("/v1/campaigns/{id}", handle(c.DeleteCampaignEndpoint, decodeDeleteCampaignRequest)).Methods(http.MethodDelete)
	r.Handle("/v1/campaigns/{id}/status", handle(c.ChangeStatusEndpoint, decodeChangeStatusRequest)).Methods(http.MethodPost)
	r.Handle("/v1/campaigns/{id}/transitions", handle(c.TransitionsEndpoint, decodeTransitionsRequest)).Methods(http.MethodGet)

	u := endpoints.Customers
	r.Handle("/v1/customers", handle(u.ListCustomersEndpoint, decodeNoRequest)).Methods(http.MethodGet)
	r.Handle("/v1/customers", handle(u.CreateCustomerEndpoint, decodeCustomerRequest(true))).Methods(http.MethodPost)
	r.Handle("/v1/customers/{id}", handle(u.GetCustomerEndpoint, decodeCustomerRequest(false))).Methods(http.MethodGet)
	r.Handle("/v1/customers/{id}", handle(u.UpdateCustomerEndpoint, decodeCustomerRequest(true))).Methods(http.MethodPut)
	r.Handle("/v1/customers/{id}", handle(u.DeleteCustomerEndpoint, decodeCustomerRequest(false))).Methods(http.MethodDelete)
	r.Handle("/v1/customers/{id}/purchases", handle(u.RecordPurchaseEndpoint, decodeCustomerRequest(false))).Methods(http.MethodPost)

	s := endpoints.Segments
	r.Handle("/v1/segments", handle(s.ListSegmentsEndpoint, decodeNoRequest)).Methods(http.MethodGet)
	r.Handle("/v1/segments", handle(s.CreateSegmentEndpoint, decodeSegmentRequest(true))).Methods(http.MethodPost)
	r.Handle("/v1/segments/{id}", handle(s.GetSegmentEndpoint, decodeSegmentRequest(false))).Methods(http.MethodGet)
	r.Handle("/v1/segments/{id}", handle(s.UpdateSegmentEndpoint, decodeSegmentRequest(true))).Methods(http.MethodPut)
	r.Handle("/v1/segments/{id}", handle(s.DeleteSegmentEndpoint, decodeSegmentRequest(false))).Methods(http.MethodDelete)

	r.Handle("/health", healthHandler(health)).Methods(http.MethodGet)

	return r
}

func decodeNoRequest(_ context.Context, _ *http.Request) (any, error) {
	return nil, nil
}

func decodeListCampaignsRequest(_ context.Context, r *http.Request) (any, error) {
	return endpoint.ListCampaignsRequest{Query: r.URL.Query().Get("q")}, nil
}

func decodeGetCampaignRequest(_ context.Context, r *http.Request) (any, error) {
	return endpoint.GetCampaignRequest{ID: mux.Vars(r)["id"]}, nil
}

func decodeCreateCampaignRequest(_ context.Context, r *http.Request) (any, error) {
	var req endpoint.CreateCampaignRequest
	if err := decodeJSONBody(r, &req.Input); err != nil {
		return nil, err
	}
	return req, nil
}

func decodeUpdateCampaignRequest(_ context.Context, r *http.Request) (any, error) {
	req := endpoint.UpdateCampaignRequest{ID: mux.Vars(r)["id"]}
	if err := decodeJSONBody(r, &req.Input); err != nil {
		return nil, err
	}
	return req, nil
}

func decodeChangeStatusRequest(_ context.Context, r *http.Request) (any, error) {
	var req endpoint.ChangeStatusRequest
	if err := decodeJSONBody(r, &req); err != nil {
		return nil, err
	}
	req.ID = mux.Vars(r)["id"]
	return req, nil
}

func decodeTransitionsRequest(_ context.Context, r *http.Request) (any, error) {
	return endpoint.TransitionsRequest{ID: mux.Vars(r)["id"]}, nil
}

func decodeDeleteCampaignRequest(_ context.Context, r *http.Request) (any, error) {
	return endpoint.DeleteCampaignRequest{ID: mux.Vars(r)["id"]}, nil
}

func decodeCustomerRequest(withBody bool) httptransport.DecodeRequestFunc {
	return func(_ context.Context, r *http.Request) (any, error) {
		req := endpoint.CustomerRequest{ID: mux.Vars(r)["id"]}
		if withBody {
			if err := decodeJSONBody(r, &req.Input); err != nil {
				return nil, err
			}
		}
		return req, nil
	}
}

func decodeSegmentRequest(withBody bool) httptransport.DecodeRequestFunc {
	return func(_ context.Context, r *http.Request) (any, error) {
		req := endpoint.SegmentRequest{ID: mux.Vars(r)["id"]}
		if withBody {
			if err := decodeJSONBody(r, &req.Input); err != nil {
				return nil, err
			}
		}
		return req, nil
	}
}

// decodeJSONBody decodes a single JSON object. Malformed bodies are reported
// as validation errors.
func decodeJSONBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &service.ValidationError{Message: "request body is required"}
		}
		return &service.ValidationError{Message: fmt.Sprintf("invalid request body: %v", err)}
	}
	return nil
}

// encodeResponse writes the payload of a successful response
func encodeResponse(ctx context.Context, w http.ResponseWriter, response any) error {
	if f, ok := response.(interface{ Failed() error }); ok && f.Failed() != nil {
		encodeError(ctx, f.Failed(), w)
		return nil
	}

	code := http.StatusOK
	if sc, ok := response.(httptransport.StatusCoder); ok {
		code = sc.StatusCode()
	}
	if code == http.StatusNoContent {
		w.WriteHeader(code)
		return nil
	}

	var body any
	switch resp := response.(type) {
	case endpoint.ListCampaignsResponse:
		body = resp.Campaigns
	case endpoint.CampaignResponse:
		body = resp.Campaign
	case endpoint.TransitionsResponse:
		body = resp.Transitions
	case endpoint.ListCustomersResponse:
		body = resp.Customers
	case endpoint.CustomerResponse:
		body = resp.Customer
	case endpoint.RecordPurchaseResponse:
		body = resp.Result
	case endpoint.ListSegmentsResponse:
		body = resp.Segments
	case endpoint.SegmentResponse:
		body = resp.Segment
	default:
		return fmt.Errorf("unexpected response type %T", response)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(body)
}

// encodeError maps service errors to status codes
func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(err))
	json.NewEncoder(w).Encode(models.NewErrorResponse(err.Error()))
}

func statusFor(err error) int {
	var (
		recountErr    *service.RecountError
		validationErr *service.ValidationError
		notFoundErr   *service.NotFoundError
		transitionErr *service.TransitionError
		conflictErr   *service.ConflictError
	)
	switch {
	case errors.As(err, &recountErr):
		// the purchase is saved; a 409 would invite a retry that counts it twice
		return http.StatusInternalServerError
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &transitionErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &conflictErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// healthHandler reports liveness and whether the store answers a ping
func healthHandler(h HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := models.HealthResponse{
			Status:  "healthy",
			Service: h.Service,
			Version: h.Version,
			Store:   h.Store,
		}
		code := http.StatusOK

		if h.Ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()

			if err := h.Ping(ctx); err != nil {
				response.Status = "unhealthy"
				code = http.StatusServiceUnavailable
			}
		}
		if h.Metrics != nil {
			h.Metrics.SetHealthCheckStatus("store", code == http.StatusOK)
		}
		if h.CacheStatus != nil {
			response.Cache = h.CacheStatus()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(response)
	}
}
