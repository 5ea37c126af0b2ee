package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mikey/mail-priority-sorter/internal/utils"
)

// fieldValue returns the record value a condition inspects
func fieldValue(email RawEmail, field ConditionField) (string, bool) {
	switch field {
	case FieldSender:
		return email.Sender, true
	case FieldSubject:
		return email.Subject, true
	case FieldSnippet:
		return email.Snippet, true
	default:
		return "", false
	}
}

// MatchCondition evaluates a single condition against a record.
// Unknown fields or modes and invalid regular expressions never match.
func MatchCondition(email RawEmail, condition Condition) bool {
	value, ok := fieldValue(email, condition.Field)
	if !ok {
		return false
	}

	if condition.MatchMode == MatchRegex {
		return matchRegex(value, condition.Pattern, condition.CaseSensitive)
	}

	target, pattern := value, condition.Pattern
	if !condition.CaseSensitive {
		target, pattern = utils.Fold(target), utils.Fold(pattern)
	}

	switch condition.MatchMode {
	case MatchContains:
		return strings.Contains(target, pattern)
	case MatchStartsWith:
		return strings.HasPrefix(target, pattern)
	case MatchEndsWith:
		return strings.HasSuffix(target, pattern)
	case MatchExact:
		return target == pattern
	default:
		return false
	}
}

func compilePattern(pattern string, caseSensitive bool) (*regexp.Regexp, error) {
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

func matchRegex(value, pattern string, caseSensitive bool) bool {
	re, err := compilePattern(pattern, caseSensitive)
	if err != nil {
		return false
	}
	return re.MatchString(value)
}

func regexCompiles(pattern string, caseSensitive bool) bool {
	_, err := compilePattern(pattern, caseSensitive)
	return err == nil
}

// RuleMatches reports whether an enabled rule has all of its conditions met
func RuleMatches(email RawEmail, rule Rule) bool {
	if !rule.Enabled {
		return false
	}
	for _, condition := range rule.Conditions {
		if !MatchCondition(email, condition) {
			return false
		}
	}
	return true
}

// MatchingRules returns every enabled rule whose conditions all match, in order
func MatchingRules(email RawEmail, rules []Rule) []Rule {
	var matched []Rule
	for _, rule := range rules {
		if RuleMatches(email, rule) {
			matched = append(matched, rule)
		}
	}
	return matched
}

// ValidateRule checks the enumerated fields of a rule
func ValidateRule(rule Rule) error {
	if rule.AssignedPriority != "" && !rule.AssignedPriority.IsValid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidRule, rule.AssignedPriority)
	}
	if rule.AssignedCategory != "" && !rule.AssignedCategory.IsValid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidRule, rule.AssignedCategory)
	}
	for i, condition := range rule.Conditions {
		if _, ok := fieldValue(RawEmail{}, condition.Field); !ok {
			return fmt.Errorf("%w: condition %d has unknown field %q", ErrInvalidRule, i, condition.Field)
		}
		switch condition.MatchMode {
		case MatchContains, MatchStartsWith, MatchEndsWith, MatchExact, MatchRegex:
		default:
			return fmt.Errorf("%w: condition %d has unknown match type %q", ErrInvalidRule, i, condition.MatchMode)
		}
	}
	return nil
}
