// Package record defines the task record domain model shared by the
// analysis, coaching and persistence layers. It contains status, type,
// priority and energy definitions plus the query filter used against
// the record store.
package record

import (
	"time"

	"github.com/google/uuid"
)

type (
	Status      string
	Type        string
	Priority    int
	EnergyLevel string
)

const (
	StatusPending    Status = "pending"
	StatusReady      Status = "ready"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusSkipped    Status = "skipped"
	StatusBlocked    Status = "blocked"
	StatusPaused     Status = "paused"
)

const (
	TypeAutomated Type = "automated"
	TypeAssisted  Type = "assisted"
	TypeManual    Type = "manual"
)

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

// Types and EnergyLevels fix the iteration order for per-category
// analysis and for "first struggling category" selection.
var (
	Types        = []Type{TypeAutomated, TypeAssisted, TypeManual}
	EnergyLevels = []EnergyLevel{EnergyHigh, EnergyMedium, EnergyLow}
)

// Record is a single scheduled activity. Records are owned by upstream
// producers; this service only reads them and applies targeted field
// updates through the record store.
type Record struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	Title         string      `json:"title"`
	Status        Status      `json:"status"`
	Type          Type        `json:"task_type"`
	Priority      Priority    `json:"priority"`
	EnergyLevel   EnergyLevel `json:"energy_level"`
	CognitiveLoad int         `json:"cognitive_load"`
	ScheduledDate time.Time   `json:"scheduled_date"`
	ScheduledTime *time.Time  `json:"scheduled_time,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	CompletedAt   *time.Time  `json:"completed_at,omitempty"`
	QuickWin      bool        `json:"is_quick_win"`
	BlockedByDeps bool        `json:"blocked_by_deps"`
}

func New(userID, title string, taskType Type) *Record {
	now := time.Now()
	return &Record{
		ID:            uuid.New().String(),
		UserID:        userID,
		Title:         title,
		Status:        StatusPending,
		Type:          taskType,
		Priority:      PriorityMedium,
		EnergyLevel:   EnergyMedium,
		CognitiveLoad: 2,
		ScheduledDate: now,
		CreatedAt:     now,
	}
}

func (r *Record) Done() bool {
	return r.Status == StatusDone
}

// Open reports whether the record still competes for the user's time.
func (r *Record) Open() bool {
	switch r.Status {
	case StatusReady, StatusInProgress, StatusBlocked:
		return true
	}
	return false
}

// DaysOverdue returns how many whole days the scheduled date lies in
// the past, or 0 when the record is not overdue.
func (r *Record) DaysOverdue(now time.Time) int {
	days := int(now.Sub(r.ScheduledDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func (r *Record) Overdue(now time.Time) bool {
	return !r.Done() && r.ScheduledDate.Before(now.Truncate(24*time.Hour))
}

// Goal is a top-level objective the user's records roll up to. Only the
// fields needed for alternative-path suggestions are carried here.
type Goal struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

const (
	GoalCategoryStudy  = "study"
	GoalCategoryCareer = "career"
)

// Filter narrows a record store query. Nil/zero fields are ignored.
type Filter struct {
	CreatedAfter     *time.Time
	StatusIn         []Status
	ScheduledBefore  *time.Time
	ScheduledAfter   *time.Time
	Type             *Type
	Priority         *Priority
	QuickWin         *bool
	OrderByScheduled bool
	Limit            int
}
