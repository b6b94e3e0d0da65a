package driven

import (
	"context"

	"github.com/custodia-labs/quotebank/internal/core/domain"
)

// SchedulerStore keeps scheduled task state across restarts, plus a short
// history of runs for status reporting.
type SchedulerStore interface {
	// GetTask returns nil and no error if the task does not exist.
	GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error)

	ListTasks(ctx context.Context) ([]domain.ScheduledTask, error)

	// SaveTask creates or replaces the task with the same ID.
	SaveTask(ctx context.Context, task *domain.ScheduledTask) error

	RecordRun(ctx context.Context, run *domain.TaskRun) error

	// RecentRuns returns up to limit runs of a task, newest first.
	RecentRuns(ctx context.Context, taskID string, limit int) ([]domain.TaskRun, error)

	// PruneRuns keeps only the newest keep runs of each task.
	PruneRuns(ctx context.Context, keep int) error
}
