package coach

import "time"

type (
	Type       string
	Severity   string
	ActionKind string
)

const (
	TypePlanBSwitch       Type = "planb_switch"
	TypeWorkloadReduction Type = "workload_reduction"
	TypeBlockerResolution Type = "blocker_resolution"
	TypeTaskTypeOptimize  Type = "task_type_optimization"
	TypeMotivationalBoost Type = "motivational_boost"
)

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

const (
	ActionExtendDeadline ActionKind = "extend_deadline"
	ActionPauseTasks     ActionKind = "pause_tasks"
	ActionFocusQuickWins ActionKind = "focus_on_quick_wins"
	ActionFocusMode      ActionKind = "focus_mode"
	ActionSuggestSkip    ActionKind = "suggest_skip"
	ActionScheduleAssist ActionKind = "schedule_assist_session"
	ActionBreakDown      ActionKind = "break_down_task"
	ActionConvertManual  ActionKind = "convert_to_manual"
	ActionEnableAssist   ActionKind = "enable_assist_mode"
)

// Action is one proposed schedule mutation. Single-target kinds fill
// RecordID; bulk kinds fill RecordIDs.
type Action struct {
	Kind      ActionKind `json:"action"`
	RecordID  string     `json:"record_id,omitempty"`
	Title     string     `json:"title,omitempty"`
	RecordIDs []string   `json:"record_ids,omitempty"`
	Titles    []string   `json:"titles,omitempty"`
	FromDate  time.Time  `json:"from_date,omitzero"`
	ToDate    time.Time  `json:"to_date,omitzero"`
	Reason    string     `json:"reason"`
}

// AlternativePath is a suggested plan pivot, emitted only with
// planb_switch interventions.
type AlternativePath struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Confidence  string `json:"confidence"`
	GoalID      string `json:"goal_id,omitempty"`
}

// Intervention is the full proposal handed to the user. Nothing is
// mutated until the actions are explicitly accepted and applied.
type Intervention struct {
	Type             Type              `json:"type"`
	Severity         Severity          `json:"severity"`
	Title            string            `json:"title"`
	Message          string            `json:"message"`
	Actions          []Action          `json:"actions"`
	AlternativePaths []AlternativePath `json:"alternative_paths"`
	NextStep         string            `json:"recommended_next_step"`
}
