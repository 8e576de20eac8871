package coach

import (
	"context"
	"fmt"
	"time"

	"github.com/oleandr/stride/internal/config"
	"github.com/oleandr/stride/internal/insight"
	"github.com/oleandr/stride/internal/record"
)

// Engine is the intervention policy engine. It is constructed
// explicitly with its stores and thresholds; separate instances share
// nothing, so tests and per-user batch workers can run in parallel.
type Engine struct {
	cfg     config.Thresholds
	records RecordStore
	goals   GoalStore
	states  StateStore
}

func NewEngine(cfg config.Thresholds, records RecordStore, goals GoalStore, states StateStore) *Engine {
	return &Engine{
		cfg:     cfg,
		records: records,
		goals:   goals,
		states:  states,
	}
}

// Evaluate decides whether the user needs an intervention right now and
// returns it, or nil when any gate holds. Coach state is only mutated
// on emission.
//
// The cooldown check is read-then-set: two concurrent evaluations for
// the same user can both pass the gate and emit twice. Callers needing
// strict at-most-once per cooldown window must serialize evaluation per
// user.
func (e *Engine) Evaluate(ctx context.Context, userID string, snap insight.Snapshot, now time.Time) (*Intervention, error) {
	state, err := e.states.GetCoachState(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load coach state: %w", err)
	}
	if state == nil {
		state = NewState(userID)
	}

	if state.LastInterventionAt != nil {
		cooldown := time.Duration(e.cfg.CooldownDays) * 24 * time.Hour
		if now.Sub(*state.LastInterventionAt) < cooldown {
			return nil, nil
		}
	}

	if snap.TasksAnalyzed < e.cfg.InterventionSample {
		return nil, nil
	}

	if !e.triggered(snap) {
		return nil, nil
	}

	intervention, err := e.selectBranch(ctx, userID, snap, now)
	if err != nil {
		return nil, err
	}

	state.LastInterventionAt = &now
	state.LastInterventionType = intervention.Type
	if err := e.states.SaveCoachState(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save coach state: %w", err)
	}

	return intervention, nil
}

// triggered reports whether any intervention condition holds at all.
func (e *Engine) triggered(snap insight.Snapshot) bool {
	if snap.RiskLevel == insight.RiskHigh || snap.RiskLevel == insight.RiskCritical {
		return true
	}
	if len(snap.Blockers) >= e.cfg.TriggerBlockers {
		return true
	}
	if _, ok := e.weakestType(snap); ok {
		return true
	}
	return false
}

// weakestType returns the first task type, in the fixed category order,
// whose completion rate falls below the trigger threshold with enough
// samples.
func (e *Engine) weakestType(snap insight.Snapshot) (record.Type, bool) {
	for _, taskType := range record.Types {
		stats, ok := snap.TypePerformance[taskType]
		if ok && stats.Rate < e.cfg.TriggerWeakRate && stats.Total >= e.cfg.TriggerWeakSample {
			return taskType, true
		}
	}
	return "", false
}

// selectBranch picks the intervention archetype. The order of these
// checks is a behavioral contract: reordering silently changes which
// users get which intervention.
func (e *Engine) selectBranch(ctx context.Context, userID string, snap insight.Snapshot, now time.Time) (*Intervention, error) {
	if snap.RiskLevel == insight.RiskCritical || snap.CompletionRate < e.cfg.CriticalRate {
		return e.planBSwitch(ctx, userID, snap, now)
	}
	if snap.RiskLevel == insight.RiskHigh || snap.CompletionRate < e.cfg.HighRate {
		return e.workloadReduction(ctx, userID, now)
	}
	if len(snap.Blockers) >= e.cfg.TriggerBlockers {
		return e.blockerResolution(snap), nil
	}
	if taskType, ok := e.weakestType(snap); ok {
		return e.taskTypeOptimization(ctx, userID, snap, taskType)
	}
	return e.motivationalBoost(snap), nil
}
