package insight

import (
	"fmt"
	"strings"

	"github.com/oleandr/stride/internal/record"
)

// Derived text lists. The wording here is presentation; the triggering
// thresholds are the contract and live in config.Thresholds.

func (b *Builder) strengths(
	rate float64,
	typePerf map[record.Type]CategoryStats,
	energy map[record.EnergyLevel]CategoryStats,
	schedule SchedulePlan,
) []string {
	strengths := []string{}

	if rate >= b.cfg.StrongRate {
		strengths = append(strengths, fmt.Sprintf("Excellent overall completion rate (%d%%)", pct(rate)))
	} else if rate >= b.cfg.SolidRate {
		strengths = append(strengths, fmt.Sprintf("Strong task completion rate (%d%%)", pct(rate)))
	}

	for _, taskType := range record.Types {
		stats, ok := typePerf[taskType]
		if ok && stats.Rate >= b.cfg.StrongRate && stats.Total >= b.cfg.WeakMinSample {
			strengths = append(strengths, fmt.Sprintf("High success rate with %s tasks (%d%%)", taskType, pct(stats.Rate)))
		}
	}

	for _, level := range record.EnergyLevels {
		stats, ok := energy[level]
		if ok && stats.Rate >= b.cfg.ExcellentRate && stats.Total >= b.cfg.WeakMinSample {
			strengths = append(strengths, fmt.Sprintf("Excellent at %s energy tasks (%d%%)", level, pct(stats.Rate)))
		}
	}

	if len(schedule.HighEnergyHours) > 0 {
		strengths = append(strengths, fmt.Sprintf("Peak productivity during %s", hourList(schedule.HighEnergyHours)))
	}

	return strengths
}

func (b *Builder) warnings(
	rate float64,
	typePerf map[record.Type]CategoryStats,
	schedule SchedulePlan,
	blockers []Blocker,
) []string {
	warnings := []string{}

	if rate < b.cfg.WeakRate {
		warnings = append(warnings, fmt.Sprintf("Low completion rate (%d%%), plan intervention likely needed", pct(rate)))
	} else if rate < b.cfg.BelowAvgRate {
		warnings = append(warnings, fmt.Sprintf("Below-average completion rate (%d%%)", pct(rate)))
	}

	for _, taskType := range record.Types {
		stats, ok := typePerf[taskType]
		if ok && stats.Rate < b.cfg.WeakRate && stats.Total >= b.cfg.WeakMinSample {
			warnings = append(warnings, fmt.Sprintf("Struggling with %s tasks (%d%% completion)", taskType, pct(stats.Rate)))
		}
	}

	if len(blockers) >= b.cfg.TriggerBlockers {
		warnings = append(warnings, fmt.Sprintf("%d tasks are chronically blocked or overdue", len(blockers)))
	}

	if schedule.WorstDay != "" && schedule.CompletionByDay[schedule.WorstDay] < b.cfg.WorstDayWarnRate {
		warnings = append(warnings, fmt.Sprintf("%ss are consistently low-productivity (%d%%)",
			schedule.WorstDay, pct(schedule.CompletionByDay[schedule.WorstDay])))
	}

	return warnings
}

func (b *Builder) recommendations(
	risk RiskLevel,
	typePerf map[record.Type]CategoryStats,
	blockers []Blocker,
	schedule SchedulePlan,
) []string {
	recs := []string{}

	if risk == RiskHigh || risk == RiskCritical {
		recs = append(recs, "URGENT: reset the plan before adding anything new")
		recs = append(recs, "Switch to a fallback plan: focus on 2-3 quick wins this week")
	}

	for _, taskType := range record.Types {
		stats, ok := typePerf[taskType]
		if !ok || stats.Rate >= b.cfg.WeakRate || stats.Total < b.cfg.WeakMinSample {
			continue
		}
		switch taskType {
		case record.TypeAssisted:
			recs = append(recs, "Enable proactive assistance for assisted tasks")
		case record.TypeAutomated:
			recs = append(recs, "Review automated tasks with the user before scheduling")
		default:
			recs = append(recs, fmt.Sprintf("Break down %s tasks into smaller sub-tasks", taskType))
		}
	}

	for i, blocker := range blockers {
		if i == 2 {
			break
		}
		if blocker.DaysOverdue > b.cfg.RescopeDays {
			recs = append(recs, fmt.Sprintf("Re-scope or skip %q (blocked %d days)", blocker.Title, blocker.DaysOverdue))
		}
	}

	if len(schedule.HighEnergyHours) > 0 && len(schedule.LowEnergyHours) > 0 {
		peak := schedule.HighEnergyHours
		if len(peak) > 2 {
			peak = peak[:2]
		}
		recs = append(recs, fmt.Sprintf("Schedule high-priority tasks during peak hours: %s", hourList(peak)))
	}

	return recs
}

func insufficientDataWarning(minSample int) string {
	return fmt.Sprintf("Not enough task history for analysis (need at least %d tasks)", minSample)
}

func insufficientDataRecommendation() string {
	return "Keep scheduling tasks for 1-2 weeks to build performance history"
}

func pct(rate float64) int {
	return int(rate * 100)
}

func hourList(hours []int) string {
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = fmt.Sprintf("%d:00", h)
	}
	return strings.Join(parts, ", ")
}
