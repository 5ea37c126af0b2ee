package cli

import (
	"github.com/mikey/mail-priority-sorter/internal/di"
	"github.com/mikey/mail-priority-sorter/internal/ports"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newClassifyCommand(flags *di.CLIFlags) *cobra.Command {
	var inputFile string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify inbox records read from a JSON or YAML file",
		Long: `Classify inbox records and print them with their priority, urgency score,
category and reason. The input is a list of records, an object with an
"emails" list, or a single record. Reads stdin when no file is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := readInput(inputFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			emails, err := decodeRecords(data)
			if err != nil {
				return err
			}

			return withContainer(cmd, flags, func(logger *zap.Logger, emailFilter ports.EmailFilter) error {
				logger.Debug("Classifying records", zap.Int("count", len(emails)))
				_, err := emailFilter.ProcessBatch(cmd.Context(), emails)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Input record file (stdin if not specified)")
	return cmd
}
