// Package coach decides whether and how to intervene when a user falls
// behind their plan. It consumes performance snapshots from the insight
// package, applies a cooldown-gated ordered decision tree, generates
// concrete schedule mutations, and applies accepted mutations against
// the record store.
package coach

import (
	"context"
	"time"

	"github.com/oleandr/stride/internal/record"
)

// State is the per-user coaching memory: when and how the coach last
// intervened. It is the only long-lived mutable state this engine owns.
type State struct {
	UserID               string         `json:"user_id"`
	LastInterventionAt   *time.Time     `json:"last_intervention_at,omitempty"`
	LastInterventionType Type           `json:"last_intervention_type,omitempty"`
	History              []HistoryEntry `json:"intervention_history"`
}

// HistoryEntry records one emitted intervention and whether the user
// accepted it.
type HistoryEntry struct {
	Date     time.Time `json:"date"`
	Type     Type      `json:"type"`
	Severity Severity  `json:"severity"`
	Accepted bool      `json:"accepted"`
}

func NewState(userID string) *State {
	return &State{UserID: userID}
}

// RecordStore is the slice of the persistence layer the coach needs:
// filtered reads plus targeted writes.
type RecordStore interface {
	Query(ctx context.Context, userID string, f record.Filter) ([]record.Record, error)
	UpdateFields(ctx context.Context, id, userID string, fields map[string]any) (bool, error)
	BulkUpdate(ctx context.Context, ids []string, userID string, fields map[string]any) (int, error)
}

// GoalStore supplies the user's active top-level goals for
// alternative-path suggestions.
type GoalStore interface {
	ActiveGoals(ctx context.Context, userID string) ([]record.Goal, error)
}

// StateStore persists coaching state between evaluations. GetCoachState
// returns nil (no error) for a user the coach has never seen.
type StateStore interface {
	GetCoachState(ctx context.Context, userID string) (*State, error)
	SaveCoachState(ctx context.Context, state *State) error
}
