package filter

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/mikey/mail-priority-sorter/internal/core"
	"github.com/mikey/mail-priority-sorter/internal/utils"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// CliFilter implements a command-line interface for email prioritisation
type CliFilter struct {
	service       *core.PrioritySorterService
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	verbose       bool
	format        string
	out           io.Writer
}

// NewCliFilter creates a new CLI filter. A nil writer means stdout.
func NewCliFilter(
	service *core.PrioritySorterService,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
	verbose bool,
	format string,
	out io.Writer,
) (*CliFilter, error) {
	switch format {
	case "":
		format = OutputTable
	case OutputTable, OutputJSON, OutputYAML:
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
	if out == nil {
		out = os.Stdout
	}

	return &CliFilter{
		service:       service,
		logger:        logger,
		textProcessor: textProcessor,
		verbose:       verbose,
		format:        format,
		out:           out,
	}, nil
}

// ProcessEmail classifies one record and prints the result
func (f *CliFilter) ProcessEmail(ctx context.Context, email *core.RawEmail) (*core.ClassifiedEmail, error) {
	f.logger.Debug("Processing email", zap.String("sender", email.Sender))

	startTime := time.Now()
	result, err := f.service.ClassifyEmail(ctx, *email)
	if err != nil {
		f.logger.Error("Failed to classify email", zap.Error(err))
		return nil, err
	}
	duration := time.Since(startTime)

	switch f.format {
	case OutputJSON:
		return result, f.writeJSON(result)
	case OutputYAML:
		return result, f.writeYAML(result)
	}

	fmt.Fprintf(f.out, "From:          %s\n", result.Sender)
	fmt.Fprintf(f.out, "Subject:       %s\n", result.Subject)
	if f.verbose {
		fmt.Fprintf(f.out, "Snippet:       %s\n", f.textProcessor.TruncateText(result.Snippet, 500))
	}
	fmt.Fprintf(f.out, "Priority:      %s\n", result.Priority)
	fmt.Fprintf(f.out, "Urgency score: %d\n", result.UrgencyScore)
	fmt.Fprintf(f.out, "Category:      %s\n", result.Category)
	fmt.Fprintf(f.out, "Reason:        %s\n", result.Reason)
	if f.verbose {
		fmt.Fprintf(f.out, "Processing time: %v\n", duration)
	}

	return result, nil
}

// ProcessBatch classifies records and prints them in the configured format
func (f *CliFilter) ProcessBatch(ctx context.Context, emails []core.RawEmail) (*core.BatchResult, error) {
	f.logger.Debug("Processing batch", zap.Int("emails", len(emails)))

	result, err := f.service.ClassifyBatch(ctx, emails)
	if err != nil {
		f.logger.Error("Failed to classify batch", zap.Error(err))
		return nil, err
	}

	switch f.format {
	case OutputJSON:
		return result, f.writeJSON(result)
	case OutputYAML:
		return result, f.writeYAML(result)
	}

	f.writeTable(result.Emails)
	return result, nil
}

func (f *CliFilter) writeJSON(v any) error {
	enc := json.NewEncoder(f.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	return nil
}

func (f *CliFilter) writeYAML(v any) error {
	enc := yaml.NewEncoder(f.out)
	enc.SetIndent(2)
	defer enc.Close()
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write YAML output: %w", err)
	}
	return nil
}

func (f *CliFilter) writeTable(emails []core.ClassifiedEmail) {
	width := 40
	if f.verbose {
		width = 0
	}

	tw := tabwriter.NewWriter(f.out, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SCORE\tPRIORITY\tCATEGORY\tSENDER\tSUBJECT\tREASON")
	for _, e := range emails {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.UrgencyScore,
			e.Priority,
			e.Category,
			f.textProcessor.TruncateText(e.Sender, width),
			f.textProcessor.TruncateText(e.Subject, width),
			e.Reason)
	}
	_ = tw.Flush()
}

// Start is a no-op for the CLI filter
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CliFilter) Stop() error {
	return nil
}
