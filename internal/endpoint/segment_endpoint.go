package endpoint

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/models"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/service"
)

// SegmentEndpoints holds all endpoints for the segment service
type SegmentEndpoints struct {
	ListSegmentsEndpoint  endpoint.Endpoint
	GetSegmentEndpoint    endpoint.Endpoint
	CreateSegmentEndpoint endpoint.Endpoint
	UpdateSegmentEndpoint endpoint.Endpoint
	DeleteSegmentEndpoint endpoint.Endpoint
}

// MakeSegmentEndpoints creates endpoints for segment service
func MakeSegmentEndpoints(s service.SegmentService) SegmentEndpoints {
	return SegmentEndpoints{
		ListSegmentsEndpoint:  makeListSegmentsEndpoint(s),
		GetSegmentEndpoint:    makeGetSegmentEndpoint(s),
		CreateSegmentEndpoint: makeCreateSegmentEndpoint(s),
		UpdateSegmentEndpoint: makeUpdateSegmentEndpoint(s),
		DeleteSegmentEndpoint: makeDeleteSegmentEndpoint(s),
	}
}

// ListSegmentsResponse represents the response for listing segments
type ListSegmentsResponse struct {
	Segments []models.Segment
	Err      error
}

// Failed implements the endpoint.Failer interface
func (r ListSegmentsResponse) Failed() error { return r.Err }

// SegmentRequest identifies one segment, with an optional form body
type SegmentRequest struct {
	ID    string
	Input models.SegmentInput
}

// SegmentResponse wraps a single segment
type SegmentResponse struct {
	Segment models.Segment
	Err     error
	Created bool
}

// Failed implements the endpoint.Failer interface
func (r SegmentResponse) Failed() error { return r.Err }

// StatusCode reports 201 for a freshly created segment
func (r SegmentResponse) StatusCode() int {
	if r.Created {
		return http.StatusCreated
	}
	return http.StatusOK
}

func makeListSegmentsEndpoint(s service.SegmentService) endpoint.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		segments, err := s.ListSegments(ctx)
		return ListSegmentsResponse{Segments: segments, Err: err}, nil
	}
}

func makeGetSegmentEndpoint(s service.SegmentService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(SegmentRequest)
		segment, err := s.GetSegment(ctx, req.ID)
		return SegmentResponse{Segment: segment, Err: err}, nil
	}
}

func makeCreateSegmentEndpoint(s service.SegmentService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(SegmentRequest)
		segment, err := s.CreateSegment(ctx, req.Input)
		return SegmentResponse{Segment: segment, Err: err, Created: err == nil}, nil
	}
}

func makeUpdateSegmentEndpoint(s service.SegmentService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(SegmentRequest)
		segment, err := s.UpdateSegment(ctx, req.ID, req.Input)
		return SegmentResponse{Segment: segment, Err: err}, nil
	}
}

func makeDeleteSegmentEndpoint(s service.SegmentService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(SegmentRequest)
		return DeleteResponse{Err: s.DeleteSegment(ctx, req.ID)}, nil
	}
}
