package core

import "errors"

var (
	// ErrSettingsNotFound is returned by repositories when no settings are stored for a profile
	ErrSettingsNotFound = errors.New("settings not found")
	// ErrSorterDisabled is returned when classification is switched off in settings
	ErrSorterDisabled = errors.New("priority sorter is disabled")
	// ErrInvalidRule is returned when a custom rule fails validation
	ErrInvalidRule = errors.New("invalid rule")
	// ErrRuleNotFound is returned when a rule ID does not exist
	ErrRuleNotFound = errors.New("rule not found")
	// ErrInvalidIdentity is returned for blank VIP or ignore list entries
	ErrInvalidIdentity = errors.New("identity must not be empty")
)
