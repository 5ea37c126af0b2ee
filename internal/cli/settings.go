package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mikey/mail-priority-sorter/internal/adapters/filter"
	"github.com/mikey/mail-priority-sorter/internal/core"
	"github.com/mikey/mail-priority-sorter/internal/di"
	"github.com/spf13/cobra"
)

type settingsOp func(ctx context.Context, service *core.PrioritySorterService) (*core.Settings, error)

// runSettings applies op through the service and prints the resulting settings
func runSettings(cmd *cobra.Command, flags *di.CLIFlags, op settingsOp) error {
	return withContainer(cmd, flags, func(service *core.PrioritySorterService) error {
		settings, err := op(cmd.Context(), service)
		if err != nil {
			return err
		}
		return writeSettings(cmd.OutOrStdout(), flags.Output, settings)
	})
}

func newSettingsCommand(flags *di.CLIFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change the stored priority sorter settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the current settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runSettings(cmd, flags, func(ctx context.Context, s *core.PrioritySorterService) (*core.Settings, error) {
					return s.LoadSettings(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Replace the stored settings with the defaults",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runSettings(cmd, flags, func(ctx context.Context, s *core.PrioritySorterService) (*core.Settings, error) {
					return s.ResetSettings(ctx)
				})
			},
		},
		newSettingsImportCommand(flags),
		newSettingsExportCommand(flags),
		newIdentityCommand(flags, "vip", "VIP senders",
			(*core.PrioritySorterService).AddVIP,
			(*core.PrioritySorterService).RemoveVIP),
		newIdentityCommand(flags, "ignore", "ignored senders",
			(*core.PrioritySorterService).AddIgnored,
			(*core.PrioritySorterService).RemoveIgnored),
		newRulesCommand(flags),
	)
	return cmd
}

func newSettingsImportCommand(flags *di.CLIFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the stored settings with a JSON or YAML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			imported, err := decodeSettings(data)
			if err != nil {
				return err
			}
			return runSettings(cmd, flags, func(ctx context.Context, s *core.PrioritySorterService) (*core.Settings, error) {
				if err := s.SaveSettings(ctx, imported); err != nil {
					return nil, err
				}
				return imported, nil
			})
		},
	}
}

func newSettingsExportCommand(flags *di.CLIFlags) *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current settings as YAML or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := exportFormat(outputFile, flags.Output)
			return withContainer(cmd, flags, func(service *core.PrioritySorterService) error {
				settings, err := service.LoadSettings(cmd.Context())
				if err != nil {
					return err
				}
				if outputFile == "" {
					return writeObject(cmd.OutOrStdout(), format, settings)
				}

				file, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", outputFile, err)
				}
				defer file.Close()
				return writeObject(file, format, settings)
			})
		},
	}
	cmd.Flags().StringVar(&outputFile, "file", "", "Write to this file instead of stdout")
	return cmd
}

// exportFormat picks JSON for .json files or -o json and YAML otherwise
func exportFormat(outputFile, output string) string {
	if strings.EqualFold(filepath.Ext(outputFile), ".json") || output == filter.OutputJSON {
		return filter.OutputJSON
	}
	return filter.OutputYAML
}

type identityOp func(*core.PrioritySorterService, context.Context, string) (*core.Settings, error)

func newIdentityCommand(flags *di.CLIFlags, name, description string, add, remove identityOp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: "Manage " + description,
	}

	for _, sub := range []struct {
		use   string
		short string
		op    identityOp
	}{
		{"add IDENTITY...", "Add identities to the " + description, add},
		{"remove IDENTITY...", "Remove identities from the " + description, remove},
	} {
		op := sub.op
		cmd.AddCommand(&cobra.Command{
			Use:   sub.use,
			Short: sub.short,
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSettings(cmd, flags, func(ctx context.Context, s *core.PrioritySorterService) (*core.Settings, error) {
					var settings *core.Settings
					for _, identity := range args {
						var err error
						if settings, err = op(s, ctx, identity); err != nil {
							return nil, fmt.Errorf("%s: %w", identity, err)
						}
					}
					return settings, nil
				})
			},
		})
	}
	return cmd
}
