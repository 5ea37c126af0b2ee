package factory

import (
	"fmt"
	"io"

	"github.com/mikey/mail-priority-sorter/internal/adapters/filter"
	"github.com/mikey/mail-priority-sorter/internal/adapters/httpapi"
	"github.com/mikey/mail-priority-sorter/internal/config"
	"github.com/mikey/mail-priority-sorter/internal/core"
	"github.com/mikey/mail-priority-sorter/internal/ports"
	"github.com/mikey/mail-priority-sorter/internal/utils"
	"go.uber.org/zap"
)

// FilterFactory creates email filters based on configuration
type FilterFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	service       *core.PrioritySorterService
	textProcessor *utils.TextProcessor
	out           io.Writer
}

// NewFilterFactory creates a new filter factory
func NewFilterFactory(
	cfg *config.Config,
	logger *zap.Logger,
	service *core.PrioritySorterService,
	textProcessor *utils.TextProcessor,
) *FilterFactory {
	return &FilterFactory{
		cfg:           cfg,
		logger:        logger,
		service:       service,
		textProcessor: textProcessor,
	}
}

// WithOutput sets the writer used by the CLI filter
func (f *FilterFactory) WithOutput(out io.Writer) *FilterFactory {
	f.out = out
	return f
}

// CreateEmailFilter creates an email filter based on the configuration
func (f *FilterFactory) CreateEmailFilter() (ports.EmailFilter, error) {
	serverCfg := f.cfg.GetServer()

	switch serverCfg.FilterType {
	case "smtp":
		return filter.NewSMTPFilter(f.service, f.logger, f.textProcessor, serverCfg), nil
	case "http":
		return httpapi.NewServer(f.service, f.logger, f.cfg.GetAPI()), nil
	case "cli":
		return filter.NewCliFilter(
			f.service,
			f.logger,
			f.textProcessor,
			f.cfg.GetBool("cli.verbose"),
			f.cfg.GetString("cli.output"),
			f.out,
		)
	default:
		return nil, fmt.Errorf("unsupported filter type: %s", serverCfg.FilterType)
	}
}
