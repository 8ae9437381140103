package service

import (
	"context"

	"github.com/go-kit/log"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/events"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/models"
)

// SegmentService defines the interface for segment management
type SegmentService interface {
	ListSegments(ctx context.Context) ([]models.Segment, error)
	GetSegment(ctx context.Context, id string) (models.Segment, error)
	CreateSegment(ctx context.Context, input models.SegmentInput) (models.Segment, error)
	UpdateSegment(ctx context.Context, id string, input models.SegmentInput) (models.Segment, error)
	DeleteSegment(ctx context.Context, id string) error
}

// SegmentManager handles segment CRUD. Counts are owned by the purchase
// recount and cannot be set here.
type SegmentManager struct {
	segments  SegmentRepository
	publisher events.Publisher
	logger    log.Logger
	newID     func() string
}

// NewSegmentManager creates a new segment manager
func NewSegmentManager(segments SegmentRepository, publisher events.Publisher, logger log.Logger) *SegmentManager {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	return &SegmentManager{
		segments:  segments,
		publisher: publisher,
		logger:    logger,
		newID:     newID,
	}
}

func segmentID(s *models.Segment) string { return s.ID }

// ListSegments returns every segment in stored order
func (s *SegmentManager) ListSegments(ctx context.Context) ([]models.Segment, error) {
	segments, _, err := loadAll(ctx, s.segments, "segments")
	return segments, err
}

// GetSegment returns a single segment
func (s *SegmentManager) GetSegment(ctx context.Context, id string) (models.Segment, error) {
	segments, _, err := loadAll(ctx, s.segments, "segments")
	if err != nil {
		return models.Segment{}, err
	}

	idx := indexOf(segments, id, segmentID)
	if idx < 0 {
		return models.Segment{}, &NotFoundError{Resource: "segment", ID: id}
	}
	return segments[idx], nil
}

// CreateSegment appends a segment with a zero count. The count is filled in
// by the next purchase recount.
func (s *SegmentManager) CreateSegment(ctx context.Context, input models.SegmentInput) (models.Segment, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return models.Segment{}, &ValidationError{Message: err.Error()}
	}

	segments, version, err := loadAll(ctx, s.segments, "segments")
	if err != nil {
		return models.Segment{}, err
	}

	segment := models.Segment{
		ID:          s.newID(),
		Name:        input.Name,
		Description: input.Description,
		Rule:        input.Rule,
	}

	segments = append(segments, segment)
	if err := saveAll(ctx, s.segments, "segments", segments, version); err != nil {
		return models.Segment{}, err
	}

	publish(ctx, s.publisher, s.logger, events.New(events.SegmentCreated, segment.ID, map[string]any{"name": segment.Name}))
	return segment, nil
}

// UpdateSegment replaces name, description and rule
func (s *SegmentManager) UpdateSegment(ctx context.Context, id string, input models.SegmentInput) (models.Segment, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return models.Segment{}, &ValidationError{Message: err.Error()}
	}

	segments, version, err := loadAll(ctx, s.segments, "segments")
	if err != nil {
		return models.Segment{}, err
	}

	idx := indexOf(segments, id, segmentID)
	if idx < 0 {
		return models.Segment{}, &NotFoundError{Resource: "segment", ID: id}
	}

	segments[idx].Name = input.Name
	segments[idx].Description = input.Description
	segments[idx].Rule = input.Rule

	if err := saveAll(ctx, s.segments, "segments", segments, version); err != nil {
		return models.Segment{}, err
	}

	publish(ctx, s.publisher, s.logger, events.New(events.SegmentUpdated, id, nil))
	return segments[idx], nil
}

// DeleteSegment removes a segment
func (s *SegmentManager) DeleteSegment(ctx context.Context, id string) error {
	segments, version, err := loadAll(ctx, s.segments, "segments")
	if err != nil {
		return err
	}

	idx := indexOf(segments, id, segmentID)
	if idx < 0 {
		return &NotFoundError{Resource: "segment", ID: id}
	}

	segments = append(segments[:idx], segments[idx+1:]...)
	if err := saveAll(ctx, s.segments, "segments", segments, version); err != nil {
		return err
	}

	publish(ctx, s.publisher, s.logger, events.New(events.SegmentDeleted, id, nil))
	return nil
}
