package coach

import (
	"context"
	"fmt"
	"time"

	"github.com/oleandr/stride/internal/insight"
	"github.com/oleandr/stride/internal/record"
)

// planBSwitch is the critical-severity course correction: push urgent
// deadlines out, point the user at quick wins, and suggest simpler
// paths for each active goal.
func (e *Engine) planBSwitch(ctx context.Context, userID string, snap insight.Snapshot, now time.Time) (*Intervention, error) {
	horizon := now.AddDate(0, 0, e.cfg.UrgentHorizonDays)
	urgent, err := e.records.Query(ctx, userID, record.Filter{
		StatusIn:         []record.Status{record.StatusReady, record.StatusInProgress},
		ScheduledBefore:  &horizon,
		OrderByScheduled: true,
		Limit:            e.cfg.UrgentLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query urgent records: %w", err)
	}

	actions := []Action{}
	for _, r := range urgent {
		actions = append(actions, Action{
			Kind:     ActionExtendDeadline,
			RecordID: r.ID,
			Title:    r.Title,
			FromDate: r.ScheduledDate,
			ToDate:   r.ScheduledDate.AddDate(0, 0, e.cfg.PlanBExtendDays),
			Reason:   "Give you two weeks of breathing room",
		})
	}

	quickWin := true
	ready := []record.Status{record.StatusReady}
	wins, err := e.records.Query(ctx, userID, record.Filter{
		StatusIn: ready,
		QuickWin: &quickWin,
		Limit:    e.cfg.QuickWinLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query quick wins: %w", err)
	}
	if len(wins) > 0 {
		actions = append(actions, Action{
			Kind:      ActionFocusQuickWins,
			RecordIDs: recordIDs(wins),
			Titles:    recordTitles(wins),
			Reason:    "Rebuild momentum with easy wins",
		})
	}

	goals, err := e.goals.ActiveGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active goals: %w", err)
	}
	paths := make([]AlternativePath, 0, len(goals))
	for _, g := range goals {
		paths = append(paths, alternativePath(g))
	}

	iv := &Intervention{
		Type:             TypePlanBSwitch,
		Severity:         SeverityCritical,
		Actions:          actions,
		AlternativePaths: paths,
	}
	formatPlanBSwitch(iv, snap)
	return iv, nil
}

// workloadReduction pauses low-priority overdue work, pushes medium
// priority to next week and narrows focus to the top high-priority
// records.
func (e *Engine) workloadReduction(ctx context.Context, userID string, now time.Time) (*Intervention, error) {
	today := now.Truncate(24 * time.Hour)
	// ScheduledBefore is an inclusive bound; back it off so work
	// scheduled for today never counts as overdue.
	pastDue := today.Add(-time.Nanosecond)
	overdue, err := e.records.Query(ctx, userID, record.Filter{
		StatusIn:         []record.Status{record.StatusReady, record.StatusInProgress},
		ScheduledBefore:  &pastDue,
		OrderByScheduled: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue records: %w", err)
	}

	var low, medium, high []record.Record
	for _, r := range overdue {
		switch r.Priority {
		case record.PriorityLow:
			low = append(low, r)
		case record.PriorityMedium:
			medium = append(medium, r)
		case record.PriorityHigh:
			high = append(high, r)
		}
	}

	actions := []Action{}
	if len(low) > 0 {
		capped := firstN(low, e.cfg.PauseLimit)
		actions = append(actions, Action{
			Kind:      ActionPauseTasks,
			RecordIDs: recordIDs(capped),
			Titles:    recordTitles(capped),
			Reason:    "Clear your mental load and focus on what matters",
		})
	}

	nextWeek := today.AddDate(0, 0, e.cfg.ExtendDays)
	for _, r := range firstN(medium, e.cfg.ExtendLimit) {
		actions = append(actions, Action{
			Kind:     ActionExtendDeadline,
			RecordID: r.ID,
			Title:    r.Title,
			FromDate: r.ScheduledDate,
			ToDate:   nextWeek,
			Reason:   "Move to next week",
		})
	}

	if len(high) > 0 {
		capped := firstN(high, e.cfg.FocusLimit)
		actions = append(actions, Action{
			Kind:      ActionFocusMode,
			RecordIDs: recordIDs(capped),
			Titles:    recordTitles(capped),
			Reason:    "Just these this week, nothing else",
		})
	}

	iv := &Intervention{
		Type:             TypeWorkloadReduction,
		Severity:         SeverityHigh,
		Actions:          actions,
		AlternativePaths: []AlternativePath{},
	}
	formatWorkloadReduction(iv, len(overdue))
	return iv, nil
}

// blockerResolution proposes a way out for each chronic blocker:
// skipping long-dead ones, an assist session for assisted work, and a
// breakdown otherwise.
func (e *Engine) blockerResolution(snap insight.Snapshot) *Intervention {
	actions := []Action{}
	for i, blocker := range snap.Blockers {
		if i == e.cfg.BlockerActions {
			break
		}
		switch {
		case blocker.DaysOverdue > e.cfg.ChronicDays:
			actions = append(actions, Action{
				Kind:     ActionSuggestSkip,
				RecordID: blocker.RecordID,
				Title:    blocker.Title,
				Reason:   fmt.Sprintf("Blocked for %d days, might not be achievable right now", blocker.DaysOverdue),
			})
		case blocker.Type == record.TypeAssisted:
			actions = append(actions, Action{
				Kind:     ActionScheduleAssist,
				RecordID: blocker.RecordID,
				Title:    blocker.Title,
				Reason:   "Needs assistance, tackle it in a guided session",
			})
		default:
			actions = append(actions, Action{
				Kind:     ActionBreakDown,
				RecordID: blocker.RecordID,
				Title:    blocker.Title,
				Reason:   "Split into smaller sub-tasks",
			})
		}
	}

	iv := &Intervention{
		Type:             TypeBlockerResolution,
		Severity:         SeverityMedium,
		Actions:          actions,
		AlternativePaths: []AlternativePath{},
	}
	formatBlockerResolution(iv, len(snap.Blockers))
	return iv
}

// taskTypeOptimization adjusts the approach for the category the user
// keeps failing at.
func (e *Engine) taskTypeOptimization(ctx context.Context, userID string, snap insight.Snapshot, taskType record.Type) (*Intervention, error) {
	stuck, err := e.records.Query(ctx, userID, record.Filter{
		StatusIn: []record.Status{record.StatusReady, record.StatusBlocked},
		Type:     &taskType,
		Limit:    e.cfg.TypeActions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s records: %w", taskType, err)
	}

	actions := []Action{}
	for _, r := range stuck {
		switch taskType {
		case record.TypeAutomated:
			actions = append(actions, Action{
				Kind:     ActionConvertManual,
				RecordID: r.ID,
				Title:    r.Title,
				Reason:   "Make this more hands-on",
			})
		case record.TypeAssisted:
			actions = append(actions, Action{
				Kind:     ActionEnableAssist,
				RecordID: r.ID,
				Title:    r.Title,
				Reason:   "Proactive help will be offered for this",
			})
		default:
			actions = append(actions, Action{
				Kind:     ActionBreakDown,
				RecordID: r.ID,
				Title:    r.Title,
				Reason:   "Split into smaller chunks",
			})
		}
	}

	iv := &Intervention{
		Type:             TypeTaskTypeOptimize,
		Severity:         SeverityMedium,
		Actions:          actions,
		AlternativePaths: []AlternativePath{},
	}
	formatTaskTypeOptimization(iv, taskType, snap.TypePerformance[taskType].Rate)
	return iv, nil
}

// motivationalBoost carries no actions; it surfaces what is already
// working.
func (e *Engine) motivationalBoost(snap insight.Snapshot) *Intervention {
	iv := &Intervention{
		Type:             TypeMotivationalBoost,
		Severity:         SeverityLow,
		Actions:          []Action{},
		AlternativePaths: []AlternativePath{},
	}
	formatMotivationalBoost(iv, snap, e.cfg.StrengthLimit)
	return iv
}

func alternativePath(g record.Goal) AlternativePath {
	switch g.Category {
	case record.GoalCategoryStudy:
		return AlternativePath{
			Title:       fmt.Sprintf("Extend the %s timeline by 6 months", g.Title),
			Description: "Instead of rushing, take the time to prepare properly",
			Confidence:  "high",
			GoalID:      g.ID,
		}
	case record.GoalCategoryCareer:
		return AlternativePath{
			Title:       "Pivot to a lateral move instead of a senior role",
			Description: "Target similar-level positions at the companies you want first",
			Confidence:  "medium",
			GoalID:      g.ID,
		}
	default:
		return AlternativePath{
			Title:       fmt.Sprintf("Simplify the scope of %s", g.Title),
			Description: "Trim the goal to its core milestones and rebuild from there",
			Confidence:  "medium",
			GoalID:      g.ID,
		}
	}
}

func recordIDs(records []record.Record) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

func recordTitles(records []record.Record) []string {
	titles := make([]string, len(records))
	for i, r := range records {
		titles[i] = r.Title
	}
	return titles
}

func firstN(records []record.Record, limit int) []record.Record {
	if len(records) > limit {
		return records[:limit]
	}
	return records
}
