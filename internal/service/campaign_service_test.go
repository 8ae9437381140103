package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prajwalbharadwajbm/crmbeacon/internal/events"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/models"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCampaignManager(campaigns ...models.Campaign) (*CampaignManager, *memoryCollection[models.Campaign], *events.Recorder) {
	repo := newMemoryCollection(store.CollectionCampaigns, campaigns...)
	recorder := &events.Recorder{}
	svc := NewCampaignManager(repo, recorder, nil)
	return svc, repo, recorder
}

func sampleCampaign(id string, status models.CampaignStatus) models.Campaign {
	return models.Campaign{
		ID:          id,
		Name:        "Campaign " + id,
		Description: "Description " + id,
		Status:      status,
		Metrics:     &models.CampaignMetrics{Sent: 10, Opened: 5, Clicked: 1},
	}
}

func TestNewCampaignManager(t *testing.T) {
	svc := NewCampaignManager(&MockCollection[models.Campaign]{}, nil, nil)

	assert.NotNil(t, svc)
	assert.IsType(t, events.NopPublisher{}, svc.publisher)
	var _ CampaignService = svc
}

func TestCampaignManager_ListCampaigns_Empty(t *testing.T) {
	svc, _, _ := newTestCampaignManager()

	campaigns, err := svc.ListCampaigns(context.Background(), "")

	require.NoError(t, err)
	assert.NotNil(t, campaigns)
	assert.Empty(t, campaigns)
}

func TestCampaignManager_ListCampaigns_SearchByName(t *testing.T) {
	spring := sampleCampaign("c1", models.StatusActive)
	spring.Name = "Spring Sale"
	newsletter := sampleCampaign("c2", models.StatusDraft)
	newsletter.Name = "Newsletter"
	summer := sampleCampaign("c3", models.StatusPaused)
	summer.Name = "Summer sale"
	svc, _, _ := newTestCampaignManager(spring, newsletter, summer)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"blank query returns all", "  ", []string{"c1", "c2", "c3"}},
		{"case insensitive", "SALE", []string{"c1", "c3"}},
		{"substring", "letter", []string{"c2"}},
		{"no match", "winter", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			campaigns, err := svc.ListCampaigns(context.Background(), tt.query)
			require.NoError(t, err)

			ids := []string{}
			for _, c := range campaigns {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestCampaignManager_ListCampaigns_RepositoryError(t *testing.T) {
	repo := &MockCollection[models.Campaign]{}
	repo.On("GetAll", mock.Anything).Return(nil, int64(0), errors.New("database error"))
	svc := NewCampaignManager(repo, nil, nil)

	_, err := svc.ListCampaigns(context.Background(), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to retrieve campaigns")
	repo.AssertExpectations(t)
}

func TestCampaignManager_GetCampaign(t *testing.T) {
	svc, _, _ := newTestCampaignManager(sampleCampaign("c1", models.StatusDraft))

	campaign, err := svc.GetCampaign(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Campaign c1", campaign.Name)

	_, err = svc.GetCampaign(context.Background(), "missing")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "campaign", notFound.Resource)
	assert.Equal(t, "missing", notFound.ID)
}

func TestCampaignManager_CreateCampaign(t *testing.T) {
	svc, repo, recorder := newTestCampaignManager()

	campaign, err := svc.CreateCampaign(context.Background(), models.CampaignInput{
		Name:          "  Spring sale ",
		Description:   "20% off",
		TargetSegment: "seg-1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, campaign.ID)
	assert.Equal(t, "Spring sale", campaign.Name)
	assert.Equal(t, models.StatusDraft, campaign.Status)
	assert.Equal(t, &models.CampaignMetrics{}, campaign.Metrics)
	assert.Equal(t, []models.Campaign{campaign}, repo.items())
	assert.Equal(t, []string{events.CampaignCreated}, recorder.Types())
}

func TestCampaignManager_CreateCampaign_ExplicitStatus(t *testing.T) {
	svc, _, _ := newTestCampaignManager()

	campaign, err := svc.CreateCampaign(context.Background(), models.CampaignInput{
		Name:        "Launch",
		Description: "Go live",
		Status:      "Active",
	})

	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, campaign.Status)
}

func TestCampaignManager_CreateCampaign_ValidationNothingStored(t *testing.T) {
	tests := []struct {
		name    string
		input   models.CampaignInput
		wantErr string
	}{
		{
			name:    "missing name",
			input:   models.CampaignInput{Description: "desc"},
			wantErr: "campaign name is required",
		},
		{
			name:    "blank name",
			input:   models.CampaignInput{Name: "   ", Description: "desc"},
			wantErr: "campaign name is required",
		},
		{
			name:    "missing description",
			input:   models.CampaignInput{Name: "name"},
			wantErr: "campaign description is required",
		},
		{
			name:    "unknown status",
			input:   models.CampaignInput{Name: "name", Description: "desc", Status: "archived"},
			wantErr: "invalid campaign status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, recorder := newTestCampaignManager(sampleCampaign("c1", models.StatusDraft))

			_, err := svc.CreateCampaign(context.Background(), tt.input)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Len(t, repo.items(), 1)
			assert.Empty(t, recorder.Events)
		})
	}
}

func TestCampaignManager_UpdateCampaign_KeepsMetrics(t *testing.T) {
	original := sampleCampaign("c1", models.StatusActive)
	svc, repo, recorder := newTestCampaignManager(original)

	updated, err := svc.UpdateCampaign(context.Background(), "c1", models.CampaignInput{
		Name:        "Renamed",
		Description: "New description",
	})

	require.NoError(t, err)
	assert.Equal(t, "c1", updated.ID)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, models.StatusActive, updated.Status)
	assert.Equal(t, original.Metrics, updated.Metrics)
	assert.Equal(t, []models.Campaign{updated}, repo.items())
	assert.Equal(t, []string{events.CampaignUpdated}, recorder.Types())
}

func TestCampaignManager_UpdateCampaign_StatusChange(t *testing.T) {
	svc, _, recorder := newTestCampaignManager(sampleCampaign("c1", models.StatusActive))

	updated, err := svc.UpdateCampaign(context.Background(), "c1", models.CampaignInput{
		Name:        "Campaign c1",
		Description: "Description c1",
		Status:      models.StatusPaused,
	})

	require.NoError(t, err)
	assert.Equal(t, models.StatusPaused, updated.Status)
	assert.Equal(t, []string{events.CampaignUpdated, events.CampaignStatusChanged}, recorder.Types())
}

func TestCampaignManager_UpdateCampaign_DisallowedStatusUnchanged(t *testing.T) {
	original := sampleCampaign("c1", models.StatusCompleted)
	svc, repo, _ := newTestCampaignManager(original)

	_, err := svc.UpdateCampaign(context.Background(), "c1", models.CampaignInput{
		Name:        "Renamed",
		Description: "New description",
		Status:      models.StatusActive,
	})

	var transitionErr *TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, []models.Campaign{original}, repo.items())
}

func TestCampaignManager_UpdateCampaign_NotFound(t *testing.T) {
	svc, _, _ := newTestCampaignManager()

	_, err := svc.UpdateCampaign(context.Background(), "missing", models.CampaignInput{Name: "n", Description: "d"})

	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestCampaignManager_ChangeCampaignStatus_TransitionTable(t *testing.T) {
	all := []models.CampaignStatus{
		models.StatusDraft,
		models.StatusActive,
		models.StatusPaused,
		models.StatusCompleted,
	}
	allowed := map[models.CampaignStatus][]models.CampaignStatus{
		models.StatusDraft:     {models.StatusActive},
		models.StatusActive:    {models.StatusPaused, models.StatusCompleted},
		models.StatusPaused:    {models.StatusActive, models.StatusCompleted},
		models.StatusCompleted: {},
	}

	for _, from := range all {
		for _, to := range all {
			from, to := from, to
			t.Run(string(from)+"_to_"+string(to), func(t *testing.T) {
				original := sampleCampaign("c1", from)
				svc, repo, recorder := newTestCampaignManager(original, sampleCampaign("c2", models.StatusDraft))

				got, err := svc.ChangeCampaignStatus(context.Background(), "c1", to)

				if contains(allowed[from], to) {
					require.NoError(t, err)
					assert.Equal(t, to, got.Status)
					assert.Equal(t, to, repo.items()[0].Status)
					assert.Equal(t, []string{events.CampaignStatusChanged}, recorder.Types())
					return
				}

				var transitionErr *TransitionError
				require.ErrorAs(t, err, &transitionErr)
				assert.Equal(t, from, transitionErr.From)
				assert.Equal(t, to, transitionErr.To)
				assert.Equal(t, original, repo.items()[0])
				assert.Empty(t, recorder.Events)
			})
		}
	}
}

func TestCampaignManager_ChangeCampaignStatus_InvalidStatus(t *testing.T) {
	svc, _, _ := newTestCampaignManager(sampleCampaign("c1", models.StatusDraft))

	_, err := svc.ChangeCampaignStatus(context.Background(), "c1", "archived")

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestCampaignManager_ChangeCampaignStatus_Conflict(t *testing.T) {
	repo := &MockCollection[models.Campaign]{}
	repo.On("GetAll", mock.Anything).Return([]models.Campaign{sampleCampaign("c1", models.StatusDraft)}, int64(4), nil)
	repo.On("PutAll", mock.Anything, mock.Anything, int64(4)).Return(store.ErrVersionConflict)
	recorder := &events.Recorder{}
	svc := NewCampaignManager(repo, recorder, nil)

	_, err := svc.ChangeCampaignStatus(context.Background(), "c1", models.StatusActive)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "campaigns", conflict.Resource)
	assert.Empty(t, recorder.Events)
	repo.AssertExpectations(t)
}

func TestCampaignManager_GetAllowedTransitions(t *testing.T) {
	svc, _, _ := newTestCampaignManager(sampleCampaign("c1", models.StatusPaused))

	resp, err := svc.GetAllowedTransitions(context.Background(), "c1")

	require.NoError(t, err)
	assert.Equal(t, "c1", resp.CampaignID)
	assert.Equal(t, models.StatusPaused, resp.Status)
	assert.Equal(t, []models.CampaignStatus{models.StatusActive, models.StatusCompleted}, resp.Allowed)
}

func TestCampaignManager_DeleteCampaign_RemovesExactlyOne(t *testing.T) {
	c1 := sampleCampaign("c1", models.StatusDraft)
	c2 := sampleCampaign("c2", models.StatusActive)
	c3 := sampleCampaign("c3", models.StatusPaused)
	svc, repo, recorder := newTestCampaignManager(c1, c2, c3)

	require.NoError(t, svc.DeleteCampaign(context.Background(), "c2"))

	assert.Equal(t, []models.Campaign{c1, c3}, repo.items())
	assert.Equal(t, []string{events.CampaignDeleted}, recorder.Types())
}

func TestCampaignManager_DeleteCampaign_NotFound(t *testing.T) {
	c1 := sampleCampaign("c1", models.StatusDraft)
	svc, repo, _ := newTestCampaignManager(c1)

	err := svc.DeleteCampaign(context.Background(), "missing")

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, []models.Campaign{c1}, repo.items())
}

func TestCampaignManager_PublishFailureDoesNotFail(t *testing.T) {
	repo := newMemoryCollection[models.Campaign](store.CollectionCampaigns)
	publisher := &failingPublisher{}
	svc := NewCampaignManager(repo, publisher, nil)

	_, err := svc.CreateCampaign(context.Background(), models.CampaignInput{Name: "n", Description: "d"})

	require.NoError(t, err)
	assert.Equal(t, 1, publisher.count)
	assert.Len(t, repo.items(), 1)
}

func TestTransitionError_Message(t *testing.T) {
	err := &TransitionError{From: models.StatusDraft, To: models.StatusPaused}
	assert.Equal(t, "cannot change campaign status from draft to paused: allowed next statuses are active", err.Error())

	err = &TransitionError{From: models.StatusCompleted, To: models.StatusActive}
	assert.Contains(t, err.Error(), "completed campaigns can no longer change status")
}

func contains(list []models.CampaignStatus, s models.CampaignStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
