package ports

import (
	"context"

	"github.com/mikey/mail-priority-sorter/internal/core"
)

// EmailFilter defines the interface for the front ends that feed the classifier
type EmailFilter interface {
	// ProcessEmail classifies a single inbox row
	ProcessEmail(ctx context.Context, email *core.RawEmail) (*core.ClassifiedEmail, error)

	// ProcessBatch classifies a list of inbox rows
	ProcessBatch(ctx context.Context, emails []core.RawEmail) (*core.BatchResult, error)

	// Start starts the filter service
	Start() error

	// Stop stops the filter service
	Stop() error
}
