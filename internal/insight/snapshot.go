// Package insight turns a raw history of scheduled activity records
// into a behavioral performance snapshot: completion rate, risk level,
// temporal productivity profile, per-category performance and chronic
// blocker detection. All computation is pure; callers fetch records and
// pass an explicit clock, so snapshots are safe to build concurrently.
package insight

import (
	"time"

	"github.com/oleandr/stride/internal/record"
)

type RiskLevel string

const (
	RiskUnknown  RiskLevel = "unknown"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// CategoryStats is the completion breakdown of one record subgroup.
type CategoryStats struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Rate      float64 `json:"rate"`
}

// SchedulePlan describes when the user actually gets things done.
type SchedulePlan struct {
	HighEnergyHours  []int              `json:"high_energy_hours"`
	LowEnergyHours   []int              `json:"low_energy_hours"`
	BestDay          string             `json:"best_day,omitempty"`
	WorstDay         string             `json:"worst_day,omitempty"`
	CompletionByHour map[int]float64    `json:"completion_by_hour"`
	CompletionByDay  map[string]float64 `json:"completion_by_day"`
}

// Blocker is a chronically overdue record annotated with the likely
// reason it keeps slipping.
type Blocker struct {
	RecordID    string        `json:"record_id"`
	Title       string        `json:"title"`
	Type        record.Type   `json:"task_type"`
	Status      record.Status `json:"status"`
	DaysOverdue int           `json:"days_overdue"`
	Pattern     string        `json:"pattern"`
}

// Snapshot is the full behavioral picture for one user. It is
// recomputed on demand and never authoritative storage.
type Snapshot struct {
	CompletionRate  float64                              `json:"completion_rate"`
	RiskLevel       RiskLevel                            `json:"risk_level"`
	OptimalSchedule SchedulePlan                         `json:"optimal_schedule"`
	TypePerformance map[record.Type]CategoryStats        `json:"task_type_performance"`
	EnergyPatterns  map[record.EnergyLevel]CategoryStats `json:"energy_patterns"`
	Blockers        []Blocker                            `json:"blockers"`
	Strengths       []string                             `json:"strengths"`
	Warnings        []string                             `json:"warnings"`
	Recommended     []string                             `json:"recommended_actions"`
	AnalyzedAt      time.Time                            `json:"last_analysis"`
	TasksAnalyzed   int                                  `json:"tasks_analyzed"`
}

// insufficientData is the canonical sentinel returned when the window
// holds too few records to say anything meaningful. Not an error.
func insufficientData(now time.Time, minSample int) Snapshot {
	return Snapshot{
		CompletionRate:  0,
		RiskLevel:       RiskUnknown,
		TypePerformance: map[record.Type]CategoryStats{},
		EnergyPatterns:  map[record.EnergyLevel]CategoryStats{},
		Blockers:        []Blocker{},
		Strengths:       []string{},
		Warnings:        []string{insufficientDataWarning(minSample)},
		Recommended:     []string{insufficientDataRecommendation()},
		AnalyzedAt:      now,
		TasksAnalyzed:   0,
	}
}
