package core

import "slices"

// Theme is the UI colour scheme preference
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Settings is the persisted user configuration
type Settings struct {
	Enabled     bool     `json:"enabled" yaml:"enabled"`
	AutoSort    bool     `json:"autoSort" yaml:"autoSort"`
	ShowScores  bool     `json:"showScores" yaml:"showScores"`
	ShowBadges  bool     `json:"showBadges" yaml:"showBadges"`
	VIPList     []string `json:"vipList" yaml:"vipList"`
	IgnoreList  []string `json:"ignoreList" yaml:"ignoreList"`
	CustomRules []Rule   `json:"customRules" yaml:"customRules"`
	Theme       Theme    `json:"theme" yaml:"theme"`
}

// SettingsPatch is a partial update; nil fields are left unchanged
type SettingsPatch struct {
	Enabled     *bool     `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	AutoSort    *bool     `json:"autoSort,omitempty" yaml:"autoSort,omitempty"`
	ShowScores  *bool     `json:"showScores,omitempty" yaml:"showScores,omitempty"`
	ShowBadges  *bool     `json:"showBadges,omitempty" yaml:"showBadges,omitempty"`
	VIPList     *[]string `json:"vipList,omitempty" yaml:"vipList,omitempty"`
	IgnoreList  *[]string `json:"ignoreList,omitempty" yaml:"ignoreList,omitempty"`
	CustomRules *[]Rule   `json:"customRules,omitempty" yaml:"customRules,omitempty"`
	Theme       *Theme    `json:"theme,omitempty" yaml:"theme,omitempty"`
}

// DefaultSettings returns the settings used when nothing is stored
func DefaultSettings() Settings {
	return Settings{
		Enabled:     true,
		AutoSort:    true,
		ShowScores:  true,
		ShowBadges:  true,
		VIPList:     []string{},
		IgnoreList:  []string{},
		CustomRules: []Rule{},
		Theme:       ThemeAuto,
	}
}

// UserConfig projects the classifier input out of the settings
func (s *Settings) UserConfig() UserConfig {
	return UserConfig{
		VIPIdentities:     s.VIPList,
		IgnoredIdentities: s.IgnoreList,
		CustomRules:       s.CustomRules,
	}
}

// Clone returns a deep copy so callers never share slices
func (s *Settings) Clone() *Settings {
	c := *s
	c.VIPList = slices.Clone(s.VIPList)
	c.IgnoreList = slices.Clone(s.IgnoreList)
	c.CustomRules = make([]Rule, len(s.CustomRules))
	for i, rule := range s.CustomRules {
		rule.Conditions = slices.Clone(rule.Conditions)
		c.CustomRules[i] = rule
	}
	return &c
}

// Normalize replaces nil collections with empty ones and fills a missing theme
func (s *Settings) Normalize() {
	if s.VIPList == nil {
		s.VIPList = []string{}
	}
	if s.IgnoreList == nil {
		s.IgnoreList = []string{}
	}
	if s.CustomRules == nil {
		s.CustomRules = []Rule{}
	}
	if s.Theme == "" {
		s.Theme = ThemeAuto
	}
}

// Validate checks every custom rule
func (s *Settings) Validate() error {
	for _, rule := range s.CustomRules {
		if err := ValidateRule(rule); err != nil {
			return err
		}
	}
	return nil
}

// Apply merges the patch into the settings
func (p SettingsPatch) Apply(s *Settings) {
	if p.Enabled != nil {
		s.Enabled = *p.Enabled
	}
	if p.AutoSort != nil {
		s.AutoSort = *p.AutoSort
	}
	if p.ShowScores != nil {
		s.ShowScores = *p.ShowScores
	}
	if p.ShowBadges != nil {
		s.ShowBadges = *p.ShowBadges
	}
	if p.VIPList != nil {
		s.VIPList = slices.Clone(*p.VIPList)
	}
	if p.IgnoreList != nil {
		s.IgnoreList = slices.Clone(*p.IgnoreList)
	}
	if p.CustomRules != nil {
		s.CustomRules = slices.Clone(*p.CustomRules)
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	s.Normalize()
}
