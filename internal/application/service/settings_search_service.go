package service

import (
	"context"
	"fmt"

	"promptcheck/internal/application/common/logging"
	"promptcheck/internal/application/dto"
	"promptcheck/internal/domain/errors/domain"
	"promptcheck/internal/domain/settings"
	"promptcheck/internal/port/inbound"
)

// SettingsSearchService filters a settings catalog by query.
type SettingsSearchService struct {
	catalog  *settings.Filter
	excluded []string
	logger   logging.ApplicationLogger
}

var _ inbound.SettingsSearchService = (*SettingsSearchService)(nil)

// NewSettingsSearchService builds the service over the configured catalog.
// excluded nil means the default excluded sections.
func NewSettingsSearchService(
	catalog []dto.SettingsSectionDTO,
	excluded []string,
	logger logging.ApplicationLogger,
) (*SettingsSearchService, error) {
	filter, err := settings.NewFilter(toSections(catalog), excluded)
	if err != nil {
		return nil, fmt.Errorf("invalid settings catalog: %w", err)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &SettingsSearchService{
		catalog:  filter,
		excluded: excluded,
		logger:   logger.WithComponent("settings-search-service"),
	}, nil
}

// Search filters the request's sections, or the configured catalog when the
// request carries none.
func (s *SettingsSearchService) Search(
	ctx context.Context,
	req dto.SettingsSearchRequest,
) (*dto.SettingsSearchResponse, error) {
	filter := s.catalog
	if len(req.Sections) > 0 || req.ExcludedSections != nil {
		excluded := req.ExcludedSections
		if excluded == nil {
			excluded = s.excluded
		}
		var err error
		filter, err = settings.NewFilter(toSections(req.Sections), excluded)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
	}

	result := filter.Search(req.Query)

	s.logger.Debug(ctx, "Settings searched", logging.Fields{
		"query":           result.Query,
		"visible_entries": len(result.VisibleEntries),
		"hidden_entries":  len(result.HiddenEntries),
	})

	categories := make([]dto.SettingsCategoryDTO, 0, len(result.Categories))
	for _, group := range result.Categories {
		categories = append(categories, dto.SettingsCategoryDTO{Label: group.Label, Sections: group.Sections})
	}

	return &dto.SettingsSearchResponse{
		Query:           result.Query,
		ShowAllSections: result.ShowAllSections,
		VisibleEntries:  result.VisibleEntries,
		HiddenEntries:   result.HiddenEntries,
		VisibleSections: result.VisibleSections,
		Categories:      categories,
	}, nil
}

func toSections(in []dto.SettingsSectionDTO) []settings.Section {
	out := make([]settings.Section, 0, len(in))
	for _, section := range in {
		entries := make([]settings.Entry, 0, len(section.Entries))
		for _, entry := range section.Entries {
			entries = append(entries, settings.Entry{ID: entry.ID, Text: entry.Text})
		}
		out = append(out, settings.Section{
			ID:       section.ID,
			Title:    section.Title,
			Category: section.Category,
			Entries:  entries,
		})
	}
	return out
}
