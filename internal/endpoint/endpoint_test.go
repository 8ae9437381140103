package endpoint

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/prajwalbharadwajbm/crmbeacon/internal/models"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCampaignService is a mock implementation of service.CampaignService
type MockCampaignService struct {
	mock.Mock
}

func (m *MockCampaignService) ListCampaigns(ctx context.Context, query string) ([]models.Campaign, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]models.Campaign), args.Error(1)
}

func (m *MockCampaignService) GetCampaign(ctx context.Context, id string) (models.Campaign, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Campaign), args.Error(1)
}

func (m *MockCampaignService) CreateCampaign(ctx context.Context, input models.CampaignInput) (models.Campaign, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(models.Campaign), args.Error(1)
}

func (m *MockCampaignService) UpdateCampaign(ctx context.Context, id string, input models.CampaignInput) (models.Campaign, error) {
	args := m.Called(ctx, id, input)
	return args.Get(0).(models.Campaign), args.Error(1)
}

func (m *MockCampaignService) ChangeCampaignStatus(ctx context.Context, id string, status models.CampaignStatus) (models.Campaign, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(models.Campaign), args.Error(1)
}

func (m *MockCampaignService) GetAllowedTransitions(ctx context.Context, id string) (models.TransitionsResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.TransitionsResponse), args.Error(1)
}

func (m *MockCampaignService) DeleteCampaign(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCustomerService is a mock implementation of service.CustomerService
type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Customer), args.Error(1)
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, id string) (models.Customer, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Customer), args.Error(1)
}

func (m *MockCustomerService) CreateCustomer(ctx context.Context, input models.CustomerInput) (models.Customer, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(models.Customer), args.Error(1)
}

func (m *MockCustomerService) UpdateCustomer(ctx context.Context, id string, input models.CustomerInput) (models.Customer, error) {
	args := m.Called(ctx, id, input)
	return args.Get(0).(models.Customer), args.Error(1)
}

func (m *MockCustomerService) DeleteCustomer(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerService) RecordPurchase(ctx context.Context, id string) (service.PurchaseResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(service.PurchaseResult), args.Error(1)
}

// MockSegmentService is a mock implementation of service.SegmentService
type MockSegmentService struct {
	mock.Mock
}

func (m *MockSegmentService) ListSegments(ctx context.Context) ([]models.Segment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Segment), args.Error(1)
}

func (m *MockSegmentService) GetSegment(ctx context.Context, id string) (models.Segment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Segment), args.Error(1)
}

func (m *MockSegmentService) CreateSegment(ctx context.Context, input models.SegmentInput) (models.Segment, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(models.Segment), args.Error(1)
}

func (m *MockSegmentService) UpdateSegment(ctx context.Context, id string, input models.SegmentInput) (models.Segment, error) {
	args := m.Called(ctx, id, input)
	return args.Get(0).(models.Segment), args.Error(1)
}

func (m *MockSegmentService) DeleteSegment(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestMakeCampaignEndpoints(t *testing.T) {
	endpoints := MakeCampaignEndpoints(&MockCampaignService{})

	assert.NotNil(t, endpoints.ListCampaignsEndpoint)
	assert.NotNil(t, endpoints.GetCampaignEndpoint)
	assert.NotNil(t, endpoints.CreateCampaignEndpoint)
	assert.NotNil(t, endpoints.UpdateCampaignEndpoint)
	assert.NotNil(t, endpoints.ChangeStatusEndpoint)
	assert.NotNil(t, endpoints.TransitionsEndpoint)
	assert.NotNil(t, endpoints.DeleteCampaignEndpoint)
}

func TestCreateCampaignEndpoint_Success(t *testing.T) {
	svc := &MockCampaignService{}
	endpoints := MakeCampaignEndpoints(svc)
	input := models.CampaignInput{Name: "Spring", Description: "Sale"}
	created := models.Campaign{ID: "c1", Name: "Spring", Description: "Sale", Status: models.StatusDraft}
	svc.On("CreateCampaign", mock.Anything, input).Return(created, nil)

	response, err := endpoints.CreateCampaignEndpoint(context.Background(), CreateCampaignRequest{Input: input})

	require.NoError(t, err)
	resp := response.(CampaignResponse)
	assert.NoError(t, resp.Failed())
	assert.Equal(t, created, resp.Campaign)
	assert.Equal(t, http.StatusCreated, resp.StatusCode())
	svc.AssertExpectations(t)
}

func TestCreateCampaignEndpoint_ServiceError(t *testing.T) {
	svc := &MockCampaignService{}
	endpoints := MakeCampaignEndpoints(svc)
	validationErr := &service.ValidationError{Message: "campaign name is required"}
	svc.On("CreateCampaign", mock.Anything, mock.Anything).Return(models.Campaign{}, validationErr)

	response, err := endpoints.CreateCampaignEndpoint(context.Background(), CreateCampaignRequest{})

	// business errors travel in the response, not as endpoint errors
	require.NoError(t, err)
	resp := response.(CampaignResponse)
	assert.Equal(t, validationErr, resp.Failed())
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestChangeCampaignStatus_Helper(t *testing.T) {
	svc := &MockCampaignService{}
	endpoints := MakeCampaignEndpoints(svc)
	transitionErr := &service.TransitionError{From: models.StatusCompleted, To: models.StatusActive}
	svc.On("ChangeCampaignStatus", mock.Anything, "c1", models.StatusActive).Return(models.Campaign{}, transitionErr)

	_, err := endpoints.ChangeCampaignStatus(context.Background(), "c1", models.StatusActive)

	assert.Equal(t, transitionErr, err)
	svc.AssertExpectations(t)
}

func TestTransitionsEndpoint(t *testing.T) {
	svc := &MockCampaignService{}
	endpoints := MakeCampaignEndpoints(svc)
	expected := models.TransitionsResponse{
		CampaignID: "c1",
		Status:     models.StatusDraft,
		Allowed:    []models.CampaignStatus{models.StatusActive},
	}
	svc.On("GetAllowedTransitions", mock.Anything, "c1").Return(expected, nil)

	response, err := endpoints.TransitionsEndpoint(context.Background(), TransitionsRequest{ID: "c1"})

	require.NoError(t, err)
	assert.Equal(t, expected, response.(TransitionsResponse).Transitions)
}

func TestDeleteCampaignEndpoint(t *testing.T) {
	svc := &MockCampaignService{}
	endpoints := MakeCampaignEndpoints(svc)
	svc.On("DeleteCampaign", mock.Anything, "c1").Return(nil)
	svc.On("DeleteCampaign", mock.Anything, "missing").Return(&service.NotFoundError{Resource: "campaign", ID: "missing"})

	response, err := endpoints.DeleteCampaignEndpoint(context.Background(), DeleteCampaignRequest{ID: "c1"})
	require.NoError(t, err)
	assert.NoError(t, response.(DeleteResponse).Failed())
	assert.Equal(t, http.StatusNoContent, response.(DeleteResponse).StatusCode())

	response, err = endpoints.DeleteCampaignEndpoint(context.Background(), DeleteCampaignRequest{ID: "missing"})
	require.NoError(t, err)
	assert.Error(t, response.(DeleteResponse).Failed())
}

func TestListCampaignsEndpoint_Error(t *testing.T) {
	svc := &MockCampaignService{}
	endpoints := MakeCampaignEndpoints(svc)
	svc.On("ListCampaigns", mock.Anything, "").Return([]models.Campaign(nil), errors.New("store down"))

	response, err := endpoints.ListCampaignsEndpoint(context.Background(), ListCampaignsRequest{})

	require.NoError(t, err)
	assert.EqualError(t, response.(ListCampaignsResponse).Failed(), "store down")
}

func TestListCampaignsEndpoint_PassesQuery(t *testing.T) {
	svc := &MockCampaignService{}
	endpoints := MakeCampaignEndpoints(svc)
	svc.On("ListCampaigns", mock.Anything, "spring").Return([]models.Campaign{{ID: "c1", Name: "Spring sale"}}, nil)

	response, err := endpoints.ListCampaignsEndpoint(context.Background(), ListCampaignsRequest{Query: "spring"})

	require.NoError(t, err)
	assert.Len(t, response.(ListCampaignsResponse).Campaigns, 1)
	svc.AssertExpectations(t)
}

func TestRecordPurchaseEndpoint(t *testing.T) {
	svc := &MockCustomerService{}
	endpoints := MakeCustomerEndpoints(svc)
	result := service.PurchaseResult{
		Customer:     models.Customer{ID: "u1", TotalPurchases: 2},
		RepeatBuyers: 1,
		Segments:     []models.Segment{{ID: "s1", CustomerCount: 1}},
	}
	svc.On("RecordPurchase", mock.Anything, "u1").Return(result, nil)

	response, err := endpoints.RecordPurchaseEndpoint(context.Background(), CustomerRequest{ID: "u1"})

	require.NoError(t, err)
	resp := response.(RecordPurchaseResponse)
	assert.NoError(t, resp.Failed())
	assert.Equal(t, result, resp.Result)
}

func TestCustomerEndpoints_CRUD(t *testing.T) {
	svc := &MockCustomerService{}
	endpoints := MakeCustomerEndpoints(svc)
	input := models.CustomerInput{Name: "Ada", Email: "ada@example.com", Phone: "555-0100"}
	customer := models.Customer{ID: "u1", Name: "Ada", Email: "ada@example.com"}
	svc.On("CreateCustomer", mock.Anything, input).Return(customer, nil)
	svc.On("UpdateCustomer", mock.Anything, "u1", input).Return(customer, nil)
	svc.On("GetCustomer", mock.Anything, "u1").Return(customer, nil)
	svc.On("ListCustomers", mock.Anything).Return([]models.Customer{customer}, nil)
	svc.On("DeleteCustomer", mock.Anything, "u1").Return(nil)
	ctx := context.Background()

	response, err := endpoints.CreateCustomerEndpoint(ctx, CustomerRequest{Input: input})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, response.(CustomerResponse).StatusCode())

	response, err = endpoints.UpdateCustomerEndpoint(ctx, CustomerRequest{ID: "u1", Input: input})
	require.NoError(t, err)
	assert.Equal(t, customer, response.(CustomerResponse).Customer)

	response, err = endpoints.GetCustomerEndpoint(ctx, CustomerRequest{ID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, customer, response.(CustomerResponse).Customer)

	response, err = endpoints.ListCustomersEndpoint(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, response.(ListCustomersResponse).Customers, 1)

	response, err = endpoints.DeleteCustomerEndpoint(ctx, CustomerRequest{ID: "u1"})
	require.NoError(t, err)
	assert.NoError(t, response.(DeleteResponse).Failed())

	svc.AssertExpectations(t)
}

func TestSegmentEndpoints_CRUD(t *testing.T) {
	svc := &MockSegmentService{}
	endpoints := MakeSegmentEndpoints(svc)
	input := models.SegmentInput{Name: "Repeat buyers", Rule: "totalPurchases > 1"}
	segment := models.Segment{ID: "s1", Name: "Repeat buyers", Rule: "totalPurchases > 1"}
	svc.On("CreateSegment", mock.Anything, input).Return(segment, nil)
	svc.On("UpdateSegment", mock.Anything, "s1", input).Return(segment, nil)
	svc.On("GetSegment", mock.Anything, "s1").Return(segment, nil)
	svc.On("ListSegments", mock.Anything).Return([]models.Segment{segment}, nil)
	svc.On("DeleteSegment", mock.Anything, "s1").Return(nil)
	ctx := context.Background()

	response, err := endpoints.CreateSegmentEndpoint(ctx, SegmentRequest{Input: input})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, response.(SegmentResponse).StatusCode())

	response, err = endpoints.UpdateSegmentEndpoint(ctx, SegmentRequest{ID: "s1", Input: input})
	require.NoError(t, err)
	assert.Equal(t, segment, response.(SegmentResponse).Segment)

	response, err = endpoints.GetSegmentEndpoint(ctx, SegmentRequest{ID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, segment, response.(SegmentResponse).Segment)

	response, err = endpoints.ListSegmentsEndpoint(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, response.(ListSegmentsResponse).Segments, 1)

	response, err = endpoints.DeleteSegmentEndpoint(ctx, SegmentRequest{ID: "s1"})
	require.NoError(t, err)
	assert.NoError(t, response.(DeleteResponse).Failed())

	svc.AssertExpectations(t)
}
