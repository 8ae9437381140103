package service

import (
	"context"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/events"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/models"
)

// CampaignService defines the interface for campaign management
type CampaignService interface {
	ListCampaigns(ctx context.Context, query string) ([]models.Campaign, error)
	GetCampaign(ctx context.Context, id string) (models.Campaign, error)
	CreateCampaign(ctx context.Context, input models.CampaignInput) (models.Campaign, error)
	UpdateCampaign(ctx context.Context, id string, input models.CampaignInput) (models.Campaign, error)
	ChangeCampaignStatus(ctx context.Context, id string, status models.CampaignStatus) (models.Campaign, error)
	GetAllowedTransitions(ctx context.Context, id string) (models.TransitionsResponse, error)
	DeleteCampaign(ctx context.Context, id string) error
}

// CampaignManager handles campaign CRUD and lifecycle changes
type CampaignManager struct {
	repository CampaignRepository
	publisher  events.Publisher
	logger     log.Logger
	newID      func() string
}

// NewCampaignManager creates a new campaign manager
func NewCampaignManager(repo CampaignRepository, publisher events.Publisher, logger log.Logger) *CampaignManager {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	return &CampaignManager{
		repository: repo,
		publisher:  publisher,
		logger:     logger,
		newID:      newID,
	}
}

func campaignID(c *models.Campaign) string { return c.ID }

// ListCampaigns returns campaigns in stored order. A non-blank query keeps
// only campaigns whose name contains it, ignoring case.
func (s *CampaignManager) ListCampaigns(ctx context.Context, query string) ([]models.Campaign, error) {
	campaigns, _, err := loadAll(ctx, s.repository, "campaigns")
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return campaigns, nil
	}

	matched := []models.Campaign{}
	for _, c := range campaigns {
		if strings.Contains(strings.ToLower(c.Name), query) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// GetCampaign returns a single campaign
func (s *CampaignManager) GetCampaign(ctx context.Context, id string) (models.Campaign, error) {
	campaigns, _, err := loadAll(ctx, s.repository, "campaigns")
	if err != nil {
		return models.Campaign{}, err
	}

	idx := indexOf(campaigns, id, campaignID)
	if idx < 0 {
		return models.Campaign{}, &NotFoundError{Resource: "campaign", ID: id}
	}
	return campaigns[idx], nil
}

// CreateCampaign validates input and appends a new campaign with zeroed
// metrics. Status defaults to draft.
func (s *CampaignManager) CreateCampaign(ctx context.Context, input models.CampaignInput) (models.Campaign, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return models.Campaign{}, &ValidationError{Message: err.Error()}
	}

	status := input.Status
	if status == "" {
		status = models.StatusDraft
	}

	campaign := models.Campaign{
		ID:            s.newID(),
		Name:          input.Name,
		Description:   input.Description,
		Status:        status,
		TargetSegment: input.TargetSegment,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Metrics:       models.NewCampaignMetrics(),
	}

	campaigns, version, err := loadAll(ctx, s.repository, "campaigns")
	if err != nil {
		return models.Campaign{}, err
	}

	campaigns = append(campaigns, campaign)
	if err := saveAll(ctx, s.repository, "campaigns", campaigns, version); err != nil {
		return models.Campaign{}, err
	}

	s.publish(ctx, events.New(events.CampaignCreated, campaign.ID, map[string]any{
		"name":   campaign.Name,
		"status": string(campaign.Status),
	}))
	return campaign, nil
}

// UpdateCampaign replaces the editable fields of a campaign. A status
// change submitted through the edit form must follow the lifecycle table;
// an empty status keeps the current one.
func (s *CampaignManager) UpdateCampaign(ctx context.Context, id string, input models.CampaignInput) (models.Campaign, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return models.Campaign{}, &ValidationError{Message: err.Error()}
	}

	campaigns, version, err := loadAll(ctx, s.repository, "campaigns")
	if err != nil {
		return models.Campaign{}, err
	}

	idx := indexOf(campaigns, id, campaignID)
	if idx < 0 {
		return models.Campaign{}, &NotFoundError{Resource: "campaign", ID: id}
	}

	current := campaigns[idx]
	next := input.Status
	if next == "" {
		next = current.Status
	}
	if next != current.Status && !models.CanTransition(current.Status, next) {
		return models.Campaign{}, &TransitionError{From: current.Status, To: next}
	}

	updated := current
	updated.Name = input.Name
	updated.Description = input.Description
	updated.Status = next
	updated.TargetSegment = input.TargetSegment
	updated.StartDate = input.StartDate
	updated.EndDate = input.EndDate
	campaigns[idx] = updated

	if err := saveAll(ctx, s.repository, "campaigns", campaigns, version); err != nil {
		return models.Campaign{}, err
	}

	s.publish(ctx, events.New(events.CampaignUpdated, id, map[string]any{"name": updated.Name}))
	if next != current.Status {
		s.publish(ctx, statusChangedEvent(id, current.Status, next))
	}
	return updated, nil
}

// ChangeCampaignStatus moves a campaign to status if the lifecycle allows
// it. On rejection nothing is written.
func (s *CampaignManager) ChangeCampaignStatus(ctx context.Context, id string, status models.CampaignStatus) (models.Campaign, error) {
	if !status.IsValid() {
		return models.Campaign{}, &ValidationError{
			Message: "invalid campaign status: must be one of draft, active, paused, completed",
		}
	}

	campaigns, version, err := loadAll(ctx, s.repository, "campaigns")
	if err != nil {
		return models.Campaign{}, err
	}

	idx := indexOf(campaigns, id, campaignID)
	if idx < 0 {
		return models.Campaign{}, &NotFoundError{Resource: "campaign", ID: id}
	}

	from := campaigns[idx].Status
	if !models.CanTransition(from, status) {
		return models.Campaign{}, &TransitionError{From: from, To: status}
	}

	campaigns[idx].Status = status
	if err := saveAll(ctx, s.repository, "campaigns", campaigns, version); err != nil {
		return models.Campaign{}, err
	}

	s.publish(ctx, statusChangedEvent(id, from, status))
	return campaigns[idx], nil
}

// GetAllowedTransitions returns the statuses the campaign may move to next
func (s *CampaignManager) GetAllowedTransitions(ctx context.Context, id string) (models.TransitionsResponse, error) {
	campaign, err := s.GetCampaign(ctx, id)
	if err != nil {
		return models.TransitionsResponse{}, err
	}

	return models.TransitionsResponse{
		CampaignID: campaign.ID,
		Status:     campaign.Status,
		Allowed:    models.AllowedTransitions(campaign.Status),
	}, nil
}

// DeleteCampaign removes the campaign with the given id
func (s *CampaignManager) DeleteCampaign(ctx context.Context, id string) error {
	campaigns, version, err := loadAll(ctx, s.repository, "campaigns")
	if err != nil {
		return err
	}

	idx := indexOf(campaigns, id, campaignID)
	if idx < 0 {
		return &NotFoundError{Resource: "campaign", ID: id}
	}

	campaigns = append(campaigns[:idx], campaigns[idx+1:]...)
	if err := saveAll(ctx, s.repository, "campaigns", campaigns, version); err != nil {
		return err
	}

	s.publish(ctx, events.New(events.CampaignDeleted, id, nil))
	return nil
}

func (s *CampaignManager) publish(ctx context.Context, event events.Event) {
	publish(ctx, s.publisher, s.logger, event)
}

func statusChangedEvent(id string, from, to models.CampaignStatus) events.Event {
	return events.New(events.CampaignStatusChanged, id, map[string]any{
		"from": string(from),
		"to":   string(to),
	})
}

// publish delivers an event after the write has succeeded. Delivery
// failures are logged and never fail the operation.
func publish(ctx context.Context, publisher events.Publisher, logger log.Logger, event events.Event) {
	if err := publisher.Publish(ctx, event); err != nil {
		level.Warn(logger).Log(
			"msg", "failed to publish event",
			"type", event.Type,
			"entity_id", event.EntityID,
			"err", err,
		)
	}
}
