package dto

// SettingsEntryDTO is one setting row.
type SettingsEntryDTO struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SettingsSectionDTO is one settings tab.
type SettingsSectionDTO struct {
	ID       string             `json:"id"`
	Title    string             `json:"title,omitempty"`
	Category string             `json:"category,omitempty"`
	Entries  []SettingsEntryDTO `json:"entries"`
}

// SettingsCategoryDTO is a labelled run of visible settings tabs.
type SettingsCategoryDTO struct {
	Label    string   `json:"label"`
	Sections []string `json:"sections"`
}

// SettingsSearchRequest filters settings by query. When Sections is empty
// the configured catalog is searched.
type SettingsSearchRequest struct {
	Query            string               `json:"query"`
	Sections         []SettingsSectionDTO `json:"sections,omitempty"`
	ExcludedSections []string             `json:"excluded_sections,omitempty"`
}

// SettingsSearchResponse lists what the settings panel should show.
type SettingsSearchResponse struct {
	Query           string                `json:"query"`
	ShowAllSections bool                  `json:"show_all_sections"`
	VisibleEntries  []string              `json:"visible_entries"`
	HiddenEntries   []string              `json:"hidden_entries"`
	VisibleSections []string              `json:"visible_sections"`
	Categories      []SettingsCategoryDTO `json:"categories"`
}
