package coach

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/oleandr/stride/internal/record"
)

// ApplyReport summarizes one application pass.
type ApplyReport struct {
	Updated  int `json:"tasks_updated"`
	Extended int `json:"deadlines_extended"`
	Paused   int `json:"tasks_paused"`
}

// Applier mutates the record store according to an accepted
// intervention's actions.
type Applier struct {
	records RecordStore
}

func NewApplier(records RecordStore) *Applier {
	return &Applier{records: records}
}

// Apply executes the mutating actions. Application is not transactional
// across actions: a failing action is collected and the rest still run.
// A target that no longer exists is skipped silently. Re-applying the
// same actions is idempotent, and within one pass each extend target is
// counted at most once.
func (a *Applier) Apply(ctx context.Context, userID string, actions []Action) (ApplyReport, error) {
	var report ApplyReport
	var errs []error
	extended := make(map[string]bool)

	for _, action := range actions {
		switch action.Kind {
		case ActionExtendDeadline:
			if extended[action.RecordID] {
				continue
			}
			found, err := a.records.UpdateFields(ctx, action.RecordID, userID, map[string]any{
				"scheduled_date": action.ToDate,
			})
			if err != nil {
				errs = append(errs, fmt.Errorf("extend %s: %w", action.RecordID, err))
				continue
			}
			if !found {
				log.Printf("Skipping extend for missing record %s", action.RecordID)
				continue
			}
			extended[action.RecordID] = true
			report.Extended++
			report.Updated++

		case ActionPauseTasks:
			count, err := a.records.BulkUpdate(ctx, action.RecordIDs, userID, map[string]any{
				"status": record.StatusPaused,
			})
			if err != nil {
				errs = append(errs, fmt.Errorf("pause tasks: %w", err))
				continue
			}
			report.Paused += count
			report.Updated += count

		case ActionFocusQuickWins, ActionFocusMode:
			count, err := a.records.BulkUpdate(ctx, action.RecordIDs, userID, map[string]any{
				"priority": record.PriorityHigh,
			})
			if err != nil {
				errs = append(errs, fmt.Errorf("focus boost: %w", err))
				continue
			}
			report.Updated += count

		default:
			// Advisory kinds (suggest_skip, break_down_task, ...) carry
			// no direct mutation.
		}
	}

	return report, errors.Join(errs...)
}
