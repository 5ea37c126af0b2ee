package di

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/mail-priority-sorter/internal/config"
	"github.com/mikey/mail-priority-sorter/internal/factory"
	"github.com/mikey/mail-priority-sorter/internal/logging"
	"github.com/mikey/mail-priority-sorter/internal/ports"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Settings store flags
	Store      string
	SQLitePath string
	MySQLDSN   string
	Profile    string

	// Default sender lists used when nothing is stored
	VIP    []string
	Ignore []string

	// Output flags
	Output     string
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// BindFlags registers the flags on a flag set
func (flags *CLIFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&flags.Store, "store", "sqlite", "Settings store (memory, sqlite, mysql)")
	fs.StringVar(&flags.SQLitePath, "sqlite-path", DefaultSQLitePath(), "SQLite database path for the sqlite store")
	fs.StringVar(&flags.MySQLDSN, "mysql-dsn", "", "MySQL DSN for the mysql store")
	fs.StringVar(&flags.Profile, "profile", "default", "Settings profile name")

	fs.StringSliceVar(&flags.VIP, "vip", nil, "Default VIP sender identities")
	fs.StringSliceVar(&flags.Ignore, "ignore", nil, "Default ignored sender identities")

	fs.StringVarP(&flags.Output, "output", "o", "table", "Output format (table, json)")
	fs.BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")
}

// DefaultSQLitePath returns the per-user settings database location
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "priority_settings.db"
	}
	return filepath.Join(home, ".mail-priority-sorter", "settings.db")
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags, out io.Writer) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.NewFromFile(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			applyCLIOverrides(cfg, flags)
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	if err := provideShared(container); err != nil {
		return nil, err
	}

	// Register email filter
	if err := container.Provide(func(f *factory.FilterFactory) (ports.EmailFilter, error) {
		return f.WithOutput(out).CreateEmailFilter()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// applyCLIOverrides forces the settings that only make sense for the CLI
func applyCLIOverrides(cfg *config.Config, flags *CLIFlags) {
	v := cfg.GetViper()
	v.Set("server.filter_type", "cli")
	v.Set("cli.verbose", flags.Verbose)
	v.Set("cli.output", flags.Output)
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	v.Set("settings.store", flags.Store)
	v.Set("settings.profile", flags.Profile)
	v.Set("settings.sqlite_path", flags.SQLitePath)
	if flags.MySQLDSN != "" {
		v.Set("settings.mysql_dsn", flags.MySQLDSN)
	}
	v.Set("settings.defaults.vip_list", flags.VIP)
	v.Set("settings.defaults.ignore_list", flags.Ignore)

	cfg := config.NewFromViper(v)
	applyCLIOverrides(cfg, flags)
	return cfg
}
