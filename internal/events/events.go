package events

import (
	"context"
	"time"
)

// Event types
const (
	CampaignCreated       = "campaign.created"
	CampaignUpdated       = "campaign.updated"
	CampaignStatusChanged = "campaign.status_changed"
	CampaignDeleted       = "campaign.deleted"

	CustomerCreated          = "customer.created"
	CustomerUpdated          = "customer.updated"
	CustomerDeleted          = "customer.deleted"
	CustomerPurchaseRecorded = "customer.purchase_recorded"
	SegmentsRecalculated     = "segments.recalculated"
	SegmentCreated           = "segment.created"
	SegmentUpdated           = "segment.updated"
	SegmentDeleted           = "segment.deleted"
)

// Event describes a change to one of the collections
type Event struct {
	Type       string         `json:"type"`
	EntityID   string         `json:"entity_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// New creates an event stamped with the current time
func New(eventType, entityID string, attributes map[string]any) Event {
	return Event{
		Type:       eventType,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
		Attributes: attributes,
	}
}

// Publisher delivers events to interested consumers
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event
type NopPublisher struct{}

// Publish implements Publisher
func (NopPublisher) Publish(context.Context, Event) error {
	return nil
}

// Recorder keeps published events in memory. Safe for a single goroutine;
// meant for tests and local runs.
type Recorder struct {
	Events []Event
}

// Publish implements Publisher
func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.Events = append(r.Events, event)
	return nil
}

// Types returns the recorded event types in publish order
func (r *Recorder) Types() []string {
	types := make([]string, len(r.Events))
	for i, e := range r.Events {
		types[i] = e.Type
	}
	return types
}
