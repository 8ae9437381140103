package repository

import (
	"context"
	"fmt"

	"github.com/prajwalbharadwajbm/crmbeacon/internal/models"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/store"
)

// SeedData holds demo collections for local runs
type SeedData struct {
	Campaigns []models.Campaign
	Customers []models.Customer
	Segments  []models.Segment
}

// DemoSeedData returns a small data set covering every campaign status.
// Segment counts already match the repeat buyers in Customers.
func DemoSeedData() SeedData {
	customers := []models.Customer{
		{ID: "cust-ada", Name: "Ada Lovelace", Email: "ada@example.com", Phone: "+44 20 7946 0001", TotalPurchases: 3},
		{ID: "cust-grace", Name: "Grace Hopper", Email: "grace@example.com", Phone: "+1 202 555 0102", TotalPurchases: 1},
		{ID: "cust-alan", Name: "Alan Turing", Email: "alan@example.com", Phone: "+44 161 555 0103", TotalPurchases: 0},
		{ID: "cust-katherine", Name: "Katherine Johnson", Email: "katherine@example.com", Phone: "+1 757 555 0104", TotalPurchases: 2},
	}

	segments := models.RecountSegments([]models.Segment{
		{ID: "seg-repeat", Name: "Repeat buyers", Description: "Bought more than once", Rule: "totalPurchases > 1"},
		{ID: "seg-vip", Name: "VIP", Description: "High value customers", Rule: "totalPurchases >= 5"},
	}, customers)

	campaigns := []models.Campaign{
		{
			ID:            "camp-spring-sale",
			Name:          "Spring sale",
			Description:   "20% off the spring collection",
			Status:        models.StatusActive,
			TargetSegment: "seg-repeat",
			StartDate:     "2026-03-01",
			EndDate:       "2026-03-31",
			Metrics:       &models.CampaignMetrics{Sent: 1200, Opened: 540, Clicked: 96},
		},
		{
			ID:          "camp-newsletter",
			Name:        "Monthly newsletter",
			Description: "Product updates and tips",
			Status:      models.StatusDraft,
			Metrics:     models.NewCampaignMetrics(),
		},
		{
			ID:            "camp-winback",
			Name:          "Win-back",
			Description:   "Bring back customers who stopped buying",
			Status:        models.StatusPaused,
			TargetSegment: "seg-vip",
			Metrics:       &models.CampaignMetrics{Sent: 300, Opened: 81, Clicked: 12},
		},
		{
			ID:          "camp-holiday",
			Name:        "Holiday 2025",
			Description: "End of year promotion",
			Status:      models.StatusCompleted,
			StartDate:   "2025-12-01",
			EndDate:     "2025-12-31",
			Metrics:     &models.CampaignMetrics{Sent: 5000, Opened: 2100, Clicked: 430},
		},
	}

	return SeedData{
		Campaigns: campaigns,
		Customers: customers,
		Segments:  segments,
	}
}

// Seed overwrites the three collections with data, ignoring versions
func Seed(ctx context.Context, s store.Store, data SeedData) error {
	if err := NewCampaignRepository(s).PutAll(ctx, data.Campaigns, store.AnyVersion); err != nil {
		return fmt.Errorf("failed to seed campaigns: %w", err)
	}
	if err := NewCustomerRepository(s).PutAll(ctx, data.Customers, store.AnyVersion); err != nil {
		return fmt.Errorf("failed to seed customers: %w", err)
	}
	if err := NewSegmentRepository(s).PutAll(ctx, data.Segments, store.AnyVersion); err != nil {
		return fmt.Errorf("failed to seed segments: %w", err)
	}
	return nil
}
