package main

import (
	"context"
	"net/http"

	"github.com/go-kit/log"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/endpoint"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/events"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/metrics"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/middleware"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/repository"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/service"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/store"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type dependencies struct {
	store     store.Store
	storeName string
	publisher events.Publisher
	registry  *prometheus.Registry
	logger    log.Logger

	cacheStatus func() any
}

// routes wires repositories, services, middleware and endpoints into the
// HTTP router.
func routes(deps dependencies) http.Handler {
	m := metrics.NewPrometheusMetrics(deps.registry)

	campaignRepo := repository.NewInstrumentedRepository(repository.NewCampaignRepository(deps.store), m)
	customerRepo := repository.NewInstrumentedRepository(repository.NewCustomerRepository(deps.store), m)
	segmentRepo := repository.NewInstrumentedRepository(repository.NewSegmentRepository(deps.store), m)

	svcLogger := log.With(deps.logger, "component", "service")

	var campaigns service.CampaignService = service.NewCampaignManager(campaignRepo, deps.publisher, svcLogger)
	campaigns = middleware.NewCampaignMetricsMiddleware(m)(campaigns)
	campaigns = middleware.NewCampaignLoggingMiddleware(svcLogger)(campaigns)

	var customers service.CustomerService = service.NewCustomerManager(customerRepo, segmentRepo, deps.publisher, svcLogger)
	customers = middleware.NewCustomerMetricsMiddleware(m)(customers)
	customers = middleware.NewCustomerLoggingMiddleware(svcLogger)(customers)

	var segments service.SegmentService = service.NewSegmentManager(segmentRepo, deps.publisher, svcLogger)
	segments = middleware.NewSegmentLoggingMiddleware(svcLogger)(segments)

	endpoints := transport.Endpoints{
		Campaigns: endpoint.MakeCampaignEndpoints(campaigns),
		Customers: endpoint.MakeCustomerEndpoints(customers),
		Segments:  endpoint.MakeSegmentEndpoints(segments),
	}
	health := transport.HealthChecker{
		Service: "crmbeacon",
		Version: VERSION,
		Store:   deps.storeName,
		Ping:    func(ctx context.Context) error { return store.Ping(ctx, deps.store) },
		Metrics: m,

		CacheStatus: deps.cacheStatus,
	}

	router := transport.NewHTTPHandler(endpoints, health, log.With(deps.logger, "component", "transport"))
	router.Handle("/metrics", promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	router.Use(middleware.NewRequestIDMiddleware().Middleware)
	router.Use(middleware.NewMetricsMiddleware(m).Middleware)

	return router
}
