package cli

import (
	"context"
	"errors"

	"github.com/mikey/mail-priority-sorter/internal/adapters/filter"
	"github.com/mikey/mail-priority-sorter/internal/core"
	"github.com/mikey/mail-priority-sorter/internal/di"
	"github.com/spf13/cobra"
)

type ruleFlags struct {
	id            string
	name          string
	disabled      bool
	field         string
	matchType     string
	value         string
	caseSensitive bool
	boost         int
	priority      string
	category      string
}

func (f *ruleFlags) rule() core.Rule {
	return core.Rule{
		ID:      f.id,
		Name:    f.name,
		Enabled: !f.disabled,
		Conditions: []core.Condition{{
			Field:         core.ConditionField(f.field),
			MatchMode:     core.MatchMode(f.matchType),
			Pattern:       f.value,
			CaseSensitive: f.caseSensitive,
		}},
		AssignedPriority: core.Priority(f.priority),
		AssignedCategory: core.Category(f.category),
		ScoreDelta:       f.boost,
	}
}

func newRulesCommand(flags *di.CLIFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage custom classification rules",
	}
	cmd.AddCommand(newRulesListCommand(flags), newRulesAddCommand(flags), newRulesRemoveCommand(flags))
	return cmd
}

func newRulesListCommand(flags *di.CLIFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List custom rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd, flags, func(service *core.PrioritySorterService) error {
				settings, err := service.LoadSettings(cmd.Context())
				if err != nil {
					return err
				}
				if flags.Output == filter.OutputTable || flags.Output == "" {
					writeRuleTable(cmd.OutOrStdout(), settings.CustomRules)
					return nil
				}
				return writeObject(cmd.OutOrStdout(), flags.Output, settings.CustomRules)
			})
		},
	}
}

func newRulesAddCommand(flags *di.CLIFlags) *cobra.Command {
	rf := &ruleFlags{}
	var ruleFile string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or replace a rule",
		Long: `Add a single-condition rule from flags, or a complete rule from a JSON or
YAML file. A rule with the ID of an existing rule replaces it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var rule core.Rule
			if ruleFile != "" {
				data, err := readInput(ruleFile, cmd.InOrStdin())
				if err != nil {
					return err
				}
				if rule, err = decodeRule(data); err != nil {
					return err
				}
			} else {
				if rf.value == "" {
					return errors.New("--value or --file is required")
				}
				rule = rf.rule()
			}

			return runSettings(cmd, flags, func(ctx context.Context, s *core.PrioritySorterService) (*core.Settings, error) {
				return s.UpsertRule(ctx, rule)
			})
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&ruleFile, "file", "", "Read the rule from a JSON or YAML file")
	fs.StringVar(&rf.id, "id", "", "Rule ID (generated when empty)")
	fs.StringVar(&rf.name, "name", "", "Rule name")
	fs.BoolVar(&rf.disabled, "disabled", false, "Store the rule disabled")
	fs.StringVar(&rf.field, "field", string(core.FieldSubject), "Field to match (sender, subject, snippet)")
	fs.StringVar(&rf.matchType, "match", string(core.MatchContains), "Match type (contains, startsWith, endsWith, exact, regex)")
	fs.StringVar(&rf.value, "value", "", "Pattern to match")
	fs.BoolVar(&rf.caseSensitive, "case-sensitive", false, "Match case sensitively")
	fs.IntVar(&rf.boost, "boost", 0, "Score added when the rule matches")
	fs.StringVar(&rf.priority, "priority", "", "Priority to record on the rule")
	fs.StringVar(&rf.category, "category", "", "Category to record on the rule")
	return cmd
}

func newRulesRemoveCommand(flags *di.CLIFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a rule by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettings(cmd, flags, func(ctx context.Context, s *core.PrioritySorterService) (*core.Settings, error) {
				return s.DeleteRule(ctx, args[0])
			})
		},
	}
}
