package endpoint

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/models"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/service"
)

// CampaignEndpoints holds all endpoints for the campaign service
type CampaignEndpoints struct {
	ListCampaignsEndpoint  endpoint.Endpoint
	GetCampaignEndpoint    endpoint.Endpoint
	CreateCampaignEndpoint endpoint.Endpoint
	UpdateCampaignEndpoint endpoint.Endpoint
	ChangeStatusEndpoint   endpoint.Endpoint
	TransitionsEndpoint    endpoint.Endpoint
	DeleteCampaignEndpoint endpoint.Endpoint
}

// MakeCampaignEndpoints creates endpoints for campaign service
func MakeCampaignEndpoints(s service.CampaignService) CampaignEndpoints {
	return CampaignEndpoints{
		ListCampaignsEndpoint:  makeListCampaignsEndpoint(s),
		GetCampaignEndpoint:    makeGetCampaignEndpoint(s),
		CreateCampaignEndpoint: makeCreateCampaignEndpoint(s),
		UpdateCampaignEndpoint: makeUpdateCampaignEndpoint(s),
		ChangeStatusEndpoint:   makeChangeStatusEndpoint(s),
		TransitionsEndpoint:    makeTransitionsEndpoint(s),
		DeleteCampaignEndpoint: makeDeleteCampaignEndpoint(s),
	}
}

// ListCampaignsRequest optionally filters campaigns by name
type ListCampaignsRequest struct {
	Query string
}

// ListCampaignsResponse represents the response for listing campaigns
type ListCampaignsResponse struct {
	Campaigns []models.Campaign
	Err       error
}

// Failed implements the endpoint.Failer interface
func (r ListCampaignsResponse) Failed() error { return r.Err }

// GetCampaignRequest identifies one campaign
type GetCampaignRequest struct {
	ID string
}

// CreateCampaignRequest carries the create form
type CreateCampaignRequest struct {
	Input models.CampaignInput
}

// UpdateCampaignRequest carries the edit form for one campaign
type UpdateCampaignRequest struct {
	ID    string
	Input models.CampaignInput
}

// ChangeStatusRequest asks for a lifecycle transition
type ChangeStatusRequest struct {
	ID     string
	Status models.CampaignStatus `json:"status"`
}

// CampaignResponse wraps a single campaign
type CampaignResponse struct {
	Campaign models.Campaign
	Err      error
	Created  bool
}

// Failed implements the endpoint.Failer interface
func (r CampaignResponse) Failed() error { return r.Err }

// StatusCode reports 201 for a freshly created campaign
func (r CampaignResponse) StatusCode() int {
	if r.Created {
		return http.StatusCreated
	}
	return http.StatusOK
}

// TransitionsRequest identifies the campaign to inspect
type TransitionsRequest struct {
	ID string
}

// TransitionsResponse lists the next allowed statuses
type TransitionsResponse struct {
	Transitions models.TransitionsResponse
	Err         error
}

// Failed implements the endpoint.Failer interface
func (r TransitionsResponse) Failed() error { return r.Err }

// DeleteCampaignRequest identifies the campaign to delete
type DeleteCampaignRequest struct {
	ID string
}

// DeleteResponse is returned by every delete endpoint
type DeleteResponse struct {
	Err error
}

// Failed implements the endpoint.Failer interface
func (r DeleteResponse) Failed() error { return r.Err }

// StatusCode implements httptransport.StatusCoder
func (r DeleteResponse) StatusCode() int { return http.StatusNoContent }

func makeListCampaignsEndpoint(s service.CampaignService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(ListCampaignsRequest)
		campaigns, err := s.ListCampaigns(ctx, req.Query)
		return ListCampaignsResponse{Campaigns: campaigns, Err: err}, nil
	}
}

func makeGetCampaignEndpoint(s service.CampaignService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(GetCampaignRequest)
		campaign, err := s.GetCampaign(ctx, req.ID)
		return CampaignResponse{Campaign: campaign, Err: err}, nil
	}
}

func makeCreateCampaignEndpoint(s service.CampaignService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(CreateCampaignRequest)
		campaign, err := s.CreateCampaign(ctx, req.Input)
		return CampaignResponse{Campaign: campaign, Err: err, Created: err == nil}, nil
	}
}

func makeUpdateCampaignEndpoint(s service.CampaignService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(UpdateCampaignRequest)
		campaign, err := s.UpdateCampaign(ctx, req.ID, req.Input)
		return CampaignResponse{Campaign: campaign, Err: err}, nil
	}
}

func makeChangeStatusEndpoint(s service.CampaignService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(ChangeStatusRequest)
		campaign, err := s.ChangeCampaignStatus(ctx, req.ID, req.Status)
		return CampaignResponse{Campaign: campaign, Err: err}, nil
	}
}

func makeTransitionsEndpoint(s service.CampaignService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(TransitionsRequest)
		transitions, err := s.GetAllowedTransitions(ctx, req.ID)
		return TransitionsResponse{Transitions: transitions, Err: err}, nil
	}
}

func makeDeleteCampaignEndpoint(s service.CampaignService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(DeleteCampaignRequest)
		return DeleteResponse{Err: s.DeleteCampaign(ctx, req.ID)}, nil
	}
}

// ChangeCampaignStatus is a helper method to call the endpoint
func (e CampaignEndpoints) ChangeCampaignStatus(ctx context.Context, id string, status models.CampaignStatus) (models.Campaign, error) {
	response, err := e.ChangeStatusEndpoint(ctx, ChangeStatusRequest{ID: id, Status: status})
	if err != nil {
		return models.Campaign{}, err
	}
	resp := response.(CampaignResponse)
	return resp.Campaign, resp.Err
}
