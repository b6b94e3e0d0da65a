package driving

import (
	"context"

	"github.com/custodia-labs/quotebank/internal/core/domain"
)

// Scheduler runs periodic background tasks such as embedding backfill.
type Scheduler interface {
	// Start begins running scheduled tasks.
	// Blocks until context is cancelled or an error occurs.
	Start(ctx context.Context) error

	// Stop gracefully stops all running tasks.
	Stop() error

	// ApplyConfig updates task enablement and intervals at runtime.
	ApplyConfig(ctx context.Context, config domain.SchedulerConfig) error
}
