package cmd

import (
	"context"
	"fmt"

	"promptcheck/internal/adapter/inbound/api"
	"promptcheck/internal/application/common/logging"
	"promptcheck/internal/application/dto"
	"promptcheck/internal/application/service"
	"promptcheck/internal/config"
	"promptcheck/internal/port/outbound"
	"promptcheck/internal/version"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// ServiceFactory creates and manages service instances
type ServiceFactory struct {
	config        *config.Config
	logger        logging.ApplicationLogger
	meterProvider *sdkmetric.MeterProvider
}

// NewServiceFactory creates a new ServiceFactory
func NewServiceFactory(cfg *config.Config, logger logging.ApplicationLogger) *ServiceFactory {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ServiceFactory{
		config: cfg,
		logger: logger,
	}
}

// CreateMeterProvider installs the global meter provider when metrics are
// enabled. It returns nil when they are disabled.
func (sf *ServiceFactory) CreateMeterProvider() (*sdkmetric.MeterProvider, error) {
	if !sf.config.Metrics.Enabled {
		return nil, nil
	}
	if sf.meterProvider != nil {
		return sf.meterProvider, nil
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", sf.config.Metrics.ServiceName),
			attribute.String("service.version", version.NewVersionInfo().Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build metrics resource: %w", err)
	}

	sf.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewManualReader()),
	)
	otel.SetMeterProvider(sf.meterProvider)

	return sf.meterProvider, nil
}

// Shutdown flushes and stops the meter provider, if one was created.
func (sf *ServiceFactory) Shutdown(ctx context.Context) error {
	if sf.meterProvider == nil {
		return nil
	}
	return sf.meterProvider.Shutdown(ctx)
}

// CreatePromptCheckService creates the prompt check service with metrics.
func (sf *ServiceFactory) CreatePromptCheckService() (*service.PromptCheckService, error) {
	var metrics *service.CheckMetrics

	provider, err := sf.CreateMeterProvider()
	if err != nil {
		return nil, err
	}
	if provider != nil {
		metrics, err = service.NewCheckMetrics(provider)
		if err != nil {
			return nil, fmt.Errorf("failed to create check metrics: %w", err)
		}
	}

	return service.NewPromptCheckService(promptCheckConfig(sf.config), metrics, sf.logger), nil
}

// CreateSettingsService creates the settings search service over the
// configured catalog.
func (sf *ServiceFactory) CreateSettingsService() (*service.SettingsSearchService, error) {
	return service.NewSettingsSearchService(
		settingsCatalog(sf.config.Settings),
		sf.config.Settings.ExcludedSections,
		sf.logger,
	)
}

// CreateHealthService creates a health service instance
func (sf *ServiceFactory) CreateHealthService(reporters ...outbound.ConnectionReporter) *service.HealthServiceImpl {
	return service.NewHealthService(version.NewVersionInfo().Version, reporters...)
}

// CreateServer creates a fully configured server instance
func (sf *ServiceFactory) CreateServer() (*api.Server, error) {
	checkService, err := sf.CreatePromptCheckService()
	if err != nil {
		return nil, err
	}

	settingsService, err := sf.CreateSettingsService()
	if err != nil {
		return nil, err
	}

	return api.NewServerBuilder(sf.config).
		WithHealthService(sf.CreateHealthService()).
		WithCheckService(checkService).
		WithSettingsService(settingsService).
		WithErrorHandler(api.NewDefaultErrorHandler()).
		WithLogger(sf.logger).
		WithDefaultMiddleware().
		Build()
}

func promptCheckConfig(cfg *config.Config) service.PromptCheckConfig {
	// Validate already rejected unknown policies.
	policy, _ := cfg.Scanner.Policy()
	return service.PromptCheckConfig{
		Policy:        policy,
		MaxTextLength: cfg.Scanner.MaxTextLength,
		RequireField:  cfg.Scanner.RequireField,
	}
}

func settingsCatalog(settings config.SettingsConfig) []dto.SettingsSectionDTO {
	sections := make([]dto.SettingsSectionDTO, 0, len(settings.Sections))
	for _, section := range settings.Sections {
		entries := make([]dto.SettingsEntryDTO, 0, len(section.Entries))
		for _, entry := range section.Entries {
			entries = append(entries, dto.SettingsEntryDTO{ID: entry.ID, Text: entry.Text})
		}
		sections = append(sections, dto.SettingsSectionDTO{
			ID:       section.ID,
			Title:    section.Title,
			Category: section.Category,
			Entries:  entries,
		})
	}
	return sections
}
