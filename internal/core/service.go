package core

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mikey/mail-priority-sorter/internal/metrics"
	"go.uber.org/zap"
)

// BatchResult is the outcome of classifying a list of inbox rows
type BatchResult struct {
	Emails []ClassifiedEmail `json:"emails" yaml:"emails"`
	Sorted bool              `json:"sorted" yaml:"sorted"`
}

// PrioritySorterService is the core service for email prioritisation
type PrioritySorterService struct {
	store    SettingsRepository
	logger   *zap.Logger
	profile  string
	defaults Settings
	mu       sync.Mutex
}

// NewPrioritySorterService creates a new priority sorter service
func NewPrioritySorterService(
	store SettingsRepository,
	logger *zap.Logger,
	profile string,
	defaults Settings,
) *PrioritySorterService {
	defaults.Normalize()
	return &PrioritySorterService{
		store:    store,
		logger:   logger,
		profile:  profile,
		defaults: defaults,
	}
}

// Profile returns the settings profile this service reads and writes
func (s *PrioritySorterService) Profile() string {
	return s.profile
}

// Defaults returns a copy of the settings used when nothing is stored
func (s *PrioritySorterService) Defaults() *Settings {
	return s.defaults.Clone()
}

// LoadSettings returns the stored settings, or the defaults when none exist
func (s *PrioritySorterService) LoadSettings(ctx context.Context) (*Settings, error) {
	settings, err := s.store.Get(ctx, s.profile)
	if err != nil {
		if errors.Is(err, ErrSettingsNotFound) {
			s.logger.Debug("No stored settings, using defaults", zap.String("profile", s.profile))
			return s.defaults.Clone(), nil
		}
		metrics.SettingsStoreErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	settings.Normalize()
	return settings, nil
}

// SaveSettings validates and stores a complete settings value
func (s *PrioritySorterService) SaveSettings(ctx context.Context, settings *Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx, "save", settings)
}

func (s *PrioritySorterService) save(ctx context.Context, operation string, settings *Settings) error {
	settings.Normalize()
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.store.Save(ctx, s.profile, settings); err != nil {
		metrics.SettingsStoreErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("failed to save settings: %w", err)
	}
	metrics.SettingsUpdates.WithLabelValues(operation).Inc()
	s.logger.Info("Settings updated",
		zap.String("profile", s.profile),
		zap.String("operation", operation),
		zap.Int("vip_count", len(settings.VIPList)),
		zap.Int("ignore_count", len(settings.IgnoreList)),
		zap.Int("rule_count", len(settings.CustomRules)))
	return nil
}

// modify runs a read-modify-write cycle under the service lock
func (s *PrioritySorterService) modify(ctx context.Context, operation string, fn func(*Settings) error) (*Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(settings); err != nil {
		return nil, err
	}
	if err := s.save(ctx, operation, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateSettings merges a partial update into the stored settings
func (s *PrioritySorterService) UpdateSettings(ctx context.Context, patch SettingsPatch) (*Settings, error) {
	return s.modify(ctx, "update", func(settings *Settings) error {
		patch.Apply(settings)
		return nil
	})
}

// ResetSettings replaces the stored settings with the defaults
func (s *PrioritySorterService) ResetSettings(ctx context.Context) (*Settings, error) {
	return s.modify(ctx, "reset", func(settings *Settings) error {
		*settings = *s.defaults.Clone()
		return nil
	})
}

func addIdentity(list []string, identity string) ([]string, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, ErrInvalidIdentity
	}
	if slices.Contains(list, identity) {
		return list, nil
	}
	return append(list, identity), nil
}

func removeIdentity(list []string, identity string) []string {
	identity = strings.TrimSpace(identity)
	return slices.DeleteFunc(list, func(entry string) bool {
		return entry == identity
	})
}

// AddVIP adds a sender identity to the VIP list
func (s *PrioritySorterService) AddVIP(ctx context.Context, identity string) (*Settings, error) {
	return s.modify(ctx, "vip_add", func(settings *Settings) error {
		list, err := addIdentity(settings.VIPList, identity)
		settings.VIPList = list
		return err
	})
}

// RemoveVIP removes a sender identity from the VIP list
func (s *PrioritySorterService) RemoveVIP(ctx context.Context, identity string) (*Settings, error) {
	return s.modify(ctx, "vip_remove", func(settings *Settings) error {
		settings.VIPList = removeIdentity(settings.VIPList, identity)
		return nil
	})
}

// AddIgnored adds a sender identity to the ignore list
func (s *PrioritySorterService) AddIgnored(ctx context.Context, identity string) (*Settings, error) {
	return s.modify(ctx, "ignore_add", func(settings *Settings) error {
		list, err := addIdentity(settings.IgnoreList, identity)
		settings.IgnoreList = list
		return err
	})
}

// RemoveIgnored removes a sender identity from the ignore list
func (s *PrioritySorterService) RemoveIgnored(ctx context.Context, identity string) (*Settings, error) {
	return s.modify(ctx, "ignore_remove", func(settings *Settings) error {
		settings.IgnoreList = removeIdentity(settings.IgnoreList, identity)
		return nil
	})
}

// UpsertRule adds a rule or replaces the rule with the same ID.
// Rules without an ID get a generated one.
func (s *PrioritySorterService) UpsertRule(ctx context.Context, rule Rule) (*Settings, error) {
	if err := ValidateRule(rule); err != nil {
		return nil, err
	}
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	for _, condition := range rule.Conditions {
		if condition.MatchMode == MatchRegex && !regexCompiles(condition.Pattern, condition.CaseSensitive) {
			s.logger.Warn("Rule has an invalid regular expression and will never match",
				zap.String("rule_id", rule.ID),
				zap.String("pattern", condition.Pattern))
		}
	}

	return s.modify(ctx, "rule_upsert", func(settings *Settings) error {
		idx := slices.IndexFunc(settings.CustomRules, func(r Rule) bool { return r.ID == rule.ID })
		if idx >= 0 {
			settings.CustomRules[idx] = rule
		} else {
			settings.CustomRules = append(settings.CustomRules, rule)
		}
		return nil
	})
}

// DeleteRule removes the rule with the given ID
func (s *PrioritySorterService) DeleteRule(ctx context.Context, id string) (*Settings, error) {
	return s.modify(ctx, "rule_delete", func(settings *Settings) error {
		idx := slices.IndexFunc(settings.CustomRules, func(r Rule) bool { return r.ID == id })
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrRuleNotFound, id)
		}
		settings.CustomRules = slices.Delete(settings.CustomRules, idx, idx+1)
		return nil
	})
}

// ClassifyEmail classifies a single inbox row with the current settings
func (s *PrioritySorterService) ClassifyEmail(ctx context.Context, email RawEmail) (*ClassifiedEmail, error) {
	settings, err := s.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.Enabled {
		metrics.ClassificationsRejected.WithLabelValues("email").Inc()
		return nil, ErrSorterDisabled
	}

	classified := Classify(email, settings.UserConfig())
	s.record(classified)

	s.logger.Debug("Classified email",
		zap.String("sender", email.Sender),
		zap.String("category", string(classified.Category)),
		zap.String("priority", string(classified.Priority)),
		zap.Int("score", classified.UrgencyScore))

	return &classified, nil
}

// ClassifyBatch classifies inbox rows and sorts them when auto-sort is on
func (s *PrioritySorterService) ClassifyBatch(ctx context.Context, emails []RawEmail) (*BatchResult, error) {
	settings, err := s.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.Enabled {
		metrics.ClassificationsRejected.WithLabelValues("batch").Inc()
		s.logger.Info("Skipping classification, sorter disabled", zap.Int("emails", len(emails)))
		return nil, ErrSorterDisabled
	}

	classified := ClassifyAll(emails, settings.UserConfig())
	if settings.AutoSort {
		SortByUrgency(classified)
	}
	for _, c := range classified {
		s.record(c)
	}
	metrics.BatchesClassified.WithLabelValues(strconv.FormatBool(settings.AutoSort)).Inc()

	s.logger.Info("Classified batch",
		zap.Int("emails", len(classified)),
		zap.Bool("sorted", settings.AutoSort))

	return &BatchResult{Emails: classified, Sorted: settings.AutoSort}, nil
}

func (s *PrioritySorterService) record(c ClassifiedEmail) {
	metrics.EmailsClassified.WithLabelValues(string(c.Category), string(c.Priority)).Inc()
	metrics.UrgencyScores.Observe(float64(c.UrgencyScore))
}
