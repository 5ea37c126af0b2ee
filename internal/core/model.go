package core

// Priority is the coarse ranking derived from an urgency score
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Category is the semantic label assigned to an email
type Category string

const (
	CategoryUrgent     Category = "urgent"
	CategoryImportant  Category = "important"
	CategoryMeeting    Category = "meeting"
	CategoryAction     Category = "action"
	CategoryFYI        Category = "fyi"
	CategoryNewsletter Category = "newsletter"
	CategoryPromotion  Category = "promotion"
	CategorySocial     Category = "social"
	CategoryOther      Category = "other"
)

// Categories lists every category in declaration order
var Categories = []Category{
	CategoryUrgent,
	CategoryImportant,
	CategoryMeeting,
	CategoryAction,
	CategoryFYI,
	CategoryNewsletter,
	CategoryPromotion,
	CategorySocial,
	CategoryOther,
}

// IsValid reports whether c is one of the known categories
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// IsValid reports whether p is one of the known priorities
func (p Priority) IsValid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// RawEmail represents one inbox row as supplied by a collector
type RawEmail struct {
	ElementID     string `json:"elementId" yaml:"elementId"`
	Sender        string `json:"sender" yaml:"sender"`
	Subject       string `json:"subject" yaml:"subject"`
	Snippet       string `json:"snippet" yaml:"snippet"`
	ReceivedLabel string `json:"date" yaml:"date"`
	IsUnread      bool   `json:"isUnread" yaml:"isUnread"`
	HasAttachment bool   `json:"hasAttachment" yaml:"hasAttachment"`
	IsFlagged     bool   `json:"isStarred" yaml:"isStarred"`
}

// ClassifiedEmail is a RawEmail annotated with its classification
type ClassifiedEmail struct {
	RawEmail     `yaml:",inline"`
	Priority     Priority `json:"priority" yaml:"priority"`
	UrgencyScore int      `json:"urgencyScore" yaml:"urgencyScore"`
	Category     Category `json:"category" yaml:"category"`
	Reason       string   `json:"reason" yaml:"reason"`
}

// ConditionField names the RawEmail field a condition inspects
type ConditionField string

const (
	FieldSender  ConditionField = "sender"
	FieldSubject ConditionField = "subject"
	FieldSnippet ConditionField = "snippet"
)

// MatchMode selects how a condition compares its pattern
type MatchMode string

const (
	MatchContains   MatchMode = "contains"
	MatchStartsWith MatchMode = "startsWith"
	MatchEndsWith   MatchMode = "endsWith"
	MatchExact      MatchMode = "exact"
	MatchRegex      MatchMode = "regex"
)

// Condition is a single predicate over one field of a RawEmail
type Condition struct {
	Field         ConditionField `json:"field" yaml:"field"`
	MatchMode     MatchMode      `json:"matchType" yaml:"matchType"`
	Pattern       string         `json:"value" yaml:"value"`
	CaseSensitive bool           `json:"caseSensitive" yaml:"caseSensitive"`
}

// Rule is a user-authored set of conditions with a score effect.
// All conditions must match for the rule to apply.
type Rule struct {
	ID               string      `json:"id" yaml:"id"`
	Name             string      `json:"name" yaml:"name"`
	Enabled          bool        `json:"enabled" yaml:"enabled"`
	Conditions       []Condition `json:"conditions" yaml:"conditions"`
	AssignedPriority Priority    `json:"priority" yaml:"priority"`
	AssignedCategory Category    `json:"category" yaml:"category"`
	ScoreDelta       int         `json:"scoreBoost" yaml:"scoreBoost"`
}

// UserConfig is the per-call classifier input derived from settings
type UserConfig struct {
	VIPIdentities     []string
	IgnoredIdentities []string
	CustomRules       []Rule
}
