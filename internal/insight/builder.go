package insight

import (
	"math"
	"time"

	"github.com/oleandr/stride/internal/config"
	"github.com/oleandr/stride/internal/record"
)

// Builder computes performance snapshots. It carries no state beyond
// its thresholds, so one builder may serve any number of users in
// parallel.
type Builder struct {
	cfg config.Thresholds
}

func NewBuilder(cfg config.Thresholds) *Builder {
	return &Builder{cfg: cfg}
}

// Build analyzes the records created within the configured window and
// returns a snapshot. With fewer than MinSample records in the window
// it returns the insufficient-data sentinel.
func (b *Builder) Build(records []record.Record, now time.Time) Snapshot {
	cutoff := now.AddDate(0, 0, -b.cfg.WindowDays)

	var window []record.Record
	for _, r := range records {
		if !r.CreatedAt.Before(cutoff) {
			window = append(window, r)
		}
	}

	if len(window) < b.cfg.MinSample {
		return insufficientData(now, b.cfg.MinSample)
	}

	rate := completionRate(window)
	risk := b.assessRisk(rate, window, now)
	schedule := b.detectSchedule(window)
	typePerf := b.typePerformance(window)
	energy := b.energyPatterns(window)
	blockers := b.detectBlockers(window, now)

	return Snapshot{
		CompletionRate:  rate,
		RiskLevel:       risk,
		OptimalSchedule: schedule,
		TypePerformance: typePerf,
		EnergyPatterns:  energy,
		Blockers:        blockers,
		Strengths:       b.strengths(rate, typePerf, energy, schedule),
		Warnings:        b.warnings(rate, typePerf, schedule, blockers),
		Recommended:     b.recommendations(risk, typePerf, blockers, schedule),
		AnalyzedAt:      now,
		TasksAnalyzed:   len(window),
	}
}

// assessRisk classifies severity. The rules are ordered; the first
// match wins.
func (b *Builder) assessRisk(rate float64, records []record.Record, now time.Time) RiskLevel {
	weekAgo := now.AddDate(0, 0, -b.cfg.RecentWindowDays)

	var recent []record.Record
	for _, r := range records {
		if !r.CreatedAt.Before(weekAgo) {
			recent = append(recent, r)
		}
	}
	recentRate := completionRate(recent)

	switch {
	case rate < b.cfg.CriticalRate,
		recentRate < b.cfg.RecentCritical && len(recent) >= b.cfg.RecentMinSample:
		return RiskCritical
	case rate < b.cfg.HighRate:
		return RiskHigh
	case rate < b.cfg.MediumRate:
		return RiskMedium
	default:
		return RiskLow
	}
}

// typePerformance breaks completion down by task type, in the fixed
// category order. Empty subgroups are omitted.
func (b *Builder) typePerformance(records []record.Record) map[record.Type]CategoryStats {
	stats := make(map[record.Type]CategoryStats)
	for _, taskType := range record.Types {
		var completed, total int
		for _, r := range records {
			if r.Type != taskType {
				continue
			}
			total++
			if r.Done() {
				completed++
			}
		}
		if total > 0 {
			stats[taskType] = CategoryStats{
				Completed: completed,
				Total:     total,
				Rate:      round3(float64(completed) / float64(total)),
			}
		}
	}
	return stats
}

func (b *Builder) energyPatterns(records []record.Record) map[record.EnergyLevel]CategoryStats {
	stats := make(map[record.EnergyLevel]CategoryStats)
	for _, level := range record.EnergyLevels {
		var completed, total int
		for _, r := range records {
			if r.EnergyLevel != level {
				continue
			}
			total++
			if r.Done() {
				completed++
			}
		}
		if total > 0 {
			stats[level] = CategoryStats{
				Completed: completed,
				Total:     total,
				Rate:      round3(float64(completed) / float64(total)),
			}
		}
	}
	return stats
}

func completionRate(records []record.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	var completed int
	for _, r := range records {
		if r.Done() {
			completed++
		}
	}
	return round3(float64(completed) / float64(len(records)))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
