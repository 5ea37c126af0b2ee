package cli

import (
	"io"
	"os"

	"github.com/mikey/mail-priority-sorter/internal/core"
	"github.com/mikey/mail-priority-sorter/internal/di"
	"github.com/spf13/cobra"
)

// Config controls where the root command writes and which flags it starts from
type Config struct {
	OutputWriter io.Writer
	Flags        *di.CLIFlags
}

// DefaultConfig writes to stdout with flag defaults
func DefaultConfig() Config {
	return Config{OutputWriter: os.Stdout}
}

// NewRootCommand builds the priority-cli command tree
func NewRootCommand(cfg Config) *cobra.Command {
	flags := cfg.Flags
	if flags == nil {
		flags = &di.CLIFlags{}
	}

	root := &cobra.Command{
		Use:           "priority-cli",
		Short:         "Classify inbox records and manage priority sorter settings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.BindFlags(root.PersistentFlags())
	if cfg.OutputWriter != nil {
		root.SetOut(cfg.OutputWriter)
	}

	root.AddCommand(
		newClassifyCommand(flags),
		newSettingsCommand(flags),
	)
	return root
}

// withContainer builds the CLI container, invokes fn and closes the store
func withContainer(cmd *cobra.Command, flags *di.CLIFlags, fn any) error {
	container, err := di.BuildCLIContainer(flags, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		_ = container.Invoke(closeStore)
	}()
	return container.Invoke(fn)
}

func closeStore(store core.SettingsRepository) {
	if stopper, ok := store.(interface{ Stop() }); ok {
		stopper.Stop()
	}
}
