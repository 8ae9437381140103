package endpoint

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/models"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/service"
)

// CustomerEndpoints holds all endpoints for the customer service
type CustomerEndpoints struct {
	ListCustomersEndpoint  endpoint.Endpoint
	GetCustomerEndpoint    endpoint.Endpoint
	CreateCustomerEndpoint endpoint.Endpoint
	UpdateCustomerEndpoint endpoint.Endpoint
	DeleteCustomerEndpoint endpoint.Endpoint
	RecordPurchaseEndpoint endpoint.Endpoint
}

// MakeCustomerEndpoints creates endpoints for customer service
func MakeCustomerEndpoints(s service.CustomerService) CustomerEndpoints {
	return CustomerEndpoints{
		ListCustomersEndpoint:  makeListCustomersEndpoint(s),
		GetCustomerEndpoint:    makeGetCustomerEndpoint(s),
		CreateCustomerEndpoint: makeCreateCustomerEndpoint(s),
		UpdateCustomerEndpoint: makeUpdateCustomerEndpoint(s),
		DeleteCustomerEndpoint: makeDeleteCustomerEndpoint(s),
		RecordPurchaseEndpoint: makeRecordPurchaseEndpoint(s),
	}
}

// ListCustomersResponse represents the response for listing customers
type ListCustomersResponse struct {
	Customers []models.Customer
	Err       error
}

// Failed implements the endpoint.Failer interface
func (r ListCustomersResponse) Failed() error { return r.Err }

// CustomerRequest identifies one customer, with an optional form body
type CustomerRequest struct {
	ID    string
	Input models.CustomerInput
}

// CustomerResponse wraps a single customer
type CustomerResponse struct {
	Customer models.Customer
	Err      error
	Created  bool
}

// Failed implements the endpoint.Failer interface
func (r CustomerResponse) Failed() error { return r.Err }

// StatusCode reports 201 for a freshly created customer
func (r CustomerResponse) StatusCode() int {
	if r.Created {
		return http.StatusCreated
	}
	return http.StatusOK
}

// RecordPurchaseResponse carries the updated customer and segment counts
type RecordPurchaseResponse struct {
	Result service.PurchaseResult
	Err    error
}

// Failed implements the endpoint.Failer interface
func (r RecordPurchaseResponse) Failed() error { return r.Err }

func makeListCustomersEndpoint(s service.CustomerService) endpoint.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		customers, err := s.ListCustomers(ctx)
		return ListCustomersResponse{Customers: customers, Err: err}, nil
	}
}

func makeGetCustomerEndpoint(s service.CustomerService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(CustomerRequest)
		customer, err := s.GetCustomer(ctx, req.ID)
		return CustomerResponse{Customer: customer, Err: err}, nil
	}
}

func makeCreateCustomerEndpoint(s service.CustomerService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(CustomerRequest)
		customer, err := s.CreateCustomer(ctx, req.Input)
		return CustomerResponse{Customer: customer, Err: err, Created: err == nil}, nil
	}
}

func makeUpdateCustomerEndpoint(s service.CustomerService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(CustomerRequest)
		customer, err := s.UpdateCustomer(ctx, req.ID, req.Input)
		return CustomerResponse{Customer: customer, Err: err}, nil
	}
}

func makeDeleteCustomerEndpoint(s service.CustomerService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(CustomerRequest)
		return DeleteResponse{Err: s.DeleteCustomer(ctx, req.ID)}, nil
	}
}

func makeRecordPurchaseEndpoint(s service.CustomerService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(CustomerRequest)
		result, err := s.RecordPurchase(ctx, req.ID)
		return RecordPurchaseResponse{Result: result, Err: err}, nil
	}
}
