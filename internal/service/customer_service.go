package service

import (
	"context"
	"errors"

	"github.com/go-kit/log"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/events"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/models"
)

// maxRecountAttempts bounds how often a segment recount is retried after
// losing a write race on the segments collection.
const maxRecountAttempts = 3

// CustomerService defines the interface for customer management
type CustomerService interface {
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id string) (models.Customer, error)
	CreateCustomer(ctx context.Context, input models.CustomerInput) (models.Customer, error)
	UpdateCustomer(ctx context.Context, id string, input models.CustomerInput) (models.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	RecordPurchase(ctx context.Context, id string) (PurchaseResult, error)
}

// PurchaseResult is the outcome of recording one purchase
type PurchaseResult struct {
	Customer     models.Customer  `json:"customer"`
	RepeatBuyers int              `json:"repeatBuyers"`
	Segments     []models.Segment `json:"segments"`
}

// CustomerManager handles customer CRUD and purchase recording
type CustomerManager struct {
	customers CustomerRepository
	segments  SegmentRepository
	publisher events.Publisher
	logger    log.Logger
	newID     func() string
}

// NewCustomerManager creates a new customer manager. The segment repository
// is needed for the recount that follows every purchase.
func NewCustomerManager(customers CustomerRepository, segments SegmentRepository, publisher events.Publisher, logger log.Logger) *CustomerManager {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	return &CustomerManager{
		customers: customers,
		segments:  segments,
		publisher: publisher,
		logger:    logger,
		newID:     newID,
	}
}

func customerID(c *models.Customer) string { return c.ID }

// ListCustomers returns every customer in stored order
func (s *CustomerManager) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	customers, _, err := loadAll(ctx, s.customers, "customers")
	return customers, err
}

// GetCustomer returns a single customer
func (s *CustomerManager) GetCustomer(ctx context.Context, id string) (models.Customer, error) {
	customers, _, err := loadAll(ctx, s.customers, "customers")
	if err != nil {
		return models.Customer{}, err
	}

	idx := indexOf(customers, id, customerID)
	if idx < 0 {
		return models.Customer{}, &NotFoundError{Resource: "customer", ID: id}
	}
	return customers[idx], nil
}

// CreateCustomer appends a customer with no purchases
func (s *CustomerManager) CreateCustomer(ctx context.Context, input models.CustomerInput) (models.Customer, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return models.Customer{}, &ValidationError{Message: err.Error()}
	}

	customers, version, err := loadAll(ctx, s.customers, "customers")
	if err != nil {
		return models.Customer{}, err
	}

	customer := models.Customer{
		ID:    s.newID(),
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
	}

	customers = append(customers, customer)
	if err := saveAll(ctx, s.customers, "customers", customers, version); err != nil {
		return models.Customer{}, err
	}

	publish(ctx, s.publisher, s.logger, events.New(events.CustomerCreated, customer.ID, map[string]any{"email": customer.Email}))
	return customer, nil
}

// UpdateCustomer replaces contact details. The purchase counter only
// changes through RecordPurchase.
func (s *CustomerManager) UpdateCustomer(ctx context.Context, id string, input models.CustomerInput) (models.Customer, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return models.Customer{}, &ValidationError{Message: err.Error()}
	}

	customers, version, err := loadAll(ctx, s.customers, "customers")
	if err != nil {
		return models.Customer{}, err
	}

	idx := indexOf(customers, id, customerID)
	if idx < 0 {
		return models.Customer{}, &NotFoundError{Resource: "customer", ID: id}
	}

	customers[idx].Name = input.Name
	customers[idx].Email = input.Email
	customers[idx].Phone = input.Phone

	if err := saveAll(ctx, s.customers, "customers", customers, version); err != nil {
		return models.Customer{}, err
	}

	publish(ctx, s.publisher, s.logger, events.New(events.CustomerUpdated, id, nil))
	return customers[idx], nil
}

// DeleteCustomer removes a customer. Segment counts are left as they are
// until the next purchase triggers a recount.
func (s *CustomerManager) DeleteCustomer(ctx context.Context, id string) error {
	customers, version, err := loadAll(ctx, s.customers, "customers")
	if err != nil {
		return err
	}

	idx := indexOf(customers, id, customerID)
	if idx < 0 {
		return &NotFoundError{Resource: "customer", ID: id}
	}

	customers = append(customers[:idx], customers[idx+1:]...)
	if err := saveAll(ctx, s.customers, "customers", customers, version); err != nil {
		return err
	}

	publish(ctx, s.publisher, s.logger, events.New(events.CustomerDeleted, id, nil))
	return nil
}

// RecordPurchase increments the customer's purchase count by one, persists
// the customers collection, then recounts every segment from the updated
// customers and persists the segments collection.
//
// The two writes are not atomic. If the segment write fails the purchase
// stays recorded, the result carries the updated customer and the error is a
// *RecountError.
func (s *CustomerManager) RecordPurchase(ctx context.Context, id string) (PurchaseResult, error) {
	customers, version, err := loadAll(ctx, s.customers, "customers")
	if err != nil {
		return PurchaseResult{}, err
	}

	idx := indexOf(customers, id, customerID)
	if idx < 0 {
		return PurchaseResult{}, &NotFoundError{Resource: "customer", ID: id}
	}

	customers[idx].TotalPurchases++
	if err := saveAll(ctx, s.customers, "customers", customers, version); err != nil {
		return PurchaseResult{}, err
	}
	customer := customers[idx]

	publish(ctx, s.publisher, s.logger, events.New(events.CustomerPurchaseRecorded, id, map[string]any{
		"totalPurchases": customer.TotalPurchases,
	}))

	segments, err := s.recountSegments(ctx, customers)
	if err != nil {
		return PurchaseResult{Customer: customer}, &RecountError{
			CustomerID:     id,
			TotalPurchases: customer.TotalPurchases,
			Err:            err,
		}
	}

	repeatBuyers := models.CountRepeatBuyers(customers)
	publish(ctx, s.publisher, s.logger, events.New(events.SegmentsRecalculated, "", map[string]any{
		"repeatBuyers": repeatBuyers,
		"segments":     len(segments),
	}))

	return PurchaseResult{
		Customer:     customer,
		RepeatBuyers: repeatBuyers,
		Segments:     segments,
	}, nil
}

// recountSegments rewrites every segment count from customers. The result
// depends only on customers, so a lost race on the segments collection is
// retried against a fresh read.
func (s *CustomerManager) recountSegments(ctx context.Context, customers []models.Customer) ([]models.Segment, error) {
	var conflict *ConflictError
	for attempt := 1; ; attempt++ {
		segments, version, err := loadAll(ctx, s.segments, "segments")
		if err != nil {
			return nil, err
		}

		segments = models.RecountSegments(segments, customers)
		err = saveAll(ctx, s.segments, "segments", segments, version)
		if err == nil {
			return segments, nil
		}
		if !errors.As(err, &conflict) || attempt >= maxRecountAttempts {
			return nil, err
		}
	}
}
