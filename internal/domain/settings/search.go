// Package settings filters the settings panel by a free-text query.
//
// Every entry whose visible text contains the query (case-insensitive,
// surrounding whitespace ignored) stays visible. A non-empty query also
// expands the panel so all sections are shown at once, except sections
// listed as excluded, which never take part in the "show all" view.
package settings

import (
	"fmt"
	"strings"

	"promptcheck/internal/domain/errors/domain"
)

// DefaultExcludedSections are never expanded by a search.
//
//nolint:gochecknoglobals // Read-only defaults, copied by NewFilter.
var DefaultExcludedSections = []string{
	"settings_tab_defaults",
	"settings_tab_sysinfo",
	"settings_tab_actions",
	"settings_tab_licenses",
}

// Entry is one setting row.
type Entry struct {
	ID   string
	Text string
}

// Section is a settings tab and its entries. Category, when set, starts a
// labelled group of tabs that runs until the next section with a different
// category.
type Section struct {
	ID       string
	Title    string
	Category string
	Entries  []Entry
}

// CategoryGroup is a run of visible sections shown under one label. The
// leading group has an empty label when the first sections carry no
// category.
type CategoryGroup struct {
	Label    string
	Sections []string
}

// Result describes which parts of the panel should be visible.
type Result struct {
	Query           string
	VisibleEntries  []string
	HiddenEntries   []string
	VisibleSections []string
	// Categories partitions VisibleSections in order.
	Categories []CategoryGroup
	// ShowAllSections is true when a query is active and the panel should
	// show every non-excluded section instead of the selected tab only.
	ShowAllSections bool
}

// Filter applies queries to a fixed set of sections.
type Filter struct {
	sections []Section
	excluded map[string]struct{}
}

// NewFilter validates sections and returns a filter over them. When
// excluded is nil, DefaultExcludedSections is used.
func NewFilter(sections []Section, excluded []string) (*Filter, error) {
	seen := make(map[string]struct{}, len(sections))
	for i, section := range sections {
		if strings.TrimSpace(section.ID) == "" {
			return nil, fmt.Errorf("section %d: %w", i, domain.ErrSectionIDRequired)
		}
		if _, dup := seen[section.ID]; dup {
			return nil, fmt.Errorf("section %q: %w", section.ID, domain.ErrDuplicateSection)
		}
		seen[section.ID] = struct{}{}
	}

	if excluded == nil {
		excluded = DefaultExcludedSections
	}
	ex := make(map[string]struct{}, len(excluded))
	for _, id := range excluded {
		ex[id] = struct{}{}
	}

	return &Filter{
		sections: append([]Section(nil), sections...),
		excluded: ex,
	}, nil
}

// Search filters the entries by query.
func (f *Filter) Search(query string) Result {
	needle := strings.ToLower(strings.TrimSpace(query))
	result := Result{
		Query:           needle,
		VisibleEntries:  []string{},
		HiddenEntries:   []string{},
		VisibleSections: []string{},
		Categories:      []CategoryGroup{},
		ShowAllSections: needle != "",
	}

	for _, section := range f.sections {
		for _, entry := range section.Entries {
			if Matches(entry.Text, needle) {
				result.VisibleEntries = append(result.VisibleEntries, entry.ID)
			} else {
				result.HiddenEntries = append(result.HiddenEntries, entry.ID)
			}
		}

		if result.ShowAllSections {
			if _, skip := f.excluded[section.ID]; skip {
				continue
			}
		}
		result.VisibleSections = append(result.VisibleSections, section.ID)
		result.Categories = appendToCategory(result.Categories, section)
	}

	return result
}

func appendToCategory(groups []CategoryGroup, section Section) []CategoryGroup {
	label := strings.TrimSpace(section.Category)
	last := len(groups) - 1
	if last < 0 || (label != "" && label != groups[last].Label) {
		return append(groups, CategoryGroup{Label: label, Sections: []string{section.ID}})
	}
	groups[last].Sections = append(groups[last].Sections, section.ID)
	return groups
}

// IsExcluded reports whether the section never joins the "show all" view.
func (f *Filter) IsExcluded(sectionID string) bool {
	_, ok := f.excluded[sectionID]
	return ok
}

// Matches reports whether text contains the already normalised needle.
func Matches(text, needle string) bool {
	return strings.Contains(strings.ToLower(strings.TrimSpace(text)), needle)
}
