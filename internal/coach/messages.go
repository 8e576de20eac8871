package coach

import (
	"fmt"
	"strings"

	"github.com/oleandr/stride/internal/insight"
	"github.com/oleandr/stride/internal/record"
)

// Wording lives here, away from the decision logic, so branch and
// action selection stay testable independently of copy changes.

func formatPlanBSwitch(iv *Intervention, snap insight.Snapshot) {
	iv.Title = "Let's reset your plan"
	iv.Message = fmt.Sprintf(
		"Your completion rate is at %d%%, which suggests the current plan is too ambitious. Let's adjust to set you up for success.",
		int(snap.CompletionRate*100))
	iv.NextStep = "Accept the timeline extensions and focus on quick wins this week"
}

func formatWorkloadReduction(iv *Intervention, overdueCount int) {
	iv.Title = "Let's simplify your week"
	iv.Message = fmt.Sprintf(
		"You have %d overdue tasks. Let's pause some and focus on just a few critical ones.",
		overdueCount)
	iv.NextStep = "Accept these changes and focus on the top tasks only"
}

func formatBlockerResolution(iv *Intervention, blockerCount int) {
	iv.Title = "Let's clear your blockers"
	iv.Message = fmt.Sprintf(
		"You have %d tasks that keep getting postponed. Let's tackle them differently.",
		blockerCount)
	iv.NextStep = "Review the blocked tasks and accept the suggested changes"
}

func formatTaskTypeOptimization(iv *Intervention, taskType record.Type, rate float64) {
	iv.Title = fmt.Sprintf("Let's improve your %s tasks", taskType)
	iv.Message = fmt.Sprintf(
		"You're completing only %d%% of %s tasks. Let's adjust the approach.",
		int(rate*100), taskType)
	iv.NextStep = fmt.Sprintf("Try the adjusted %s tasks", taskType)
}

func formatMotivationalBoost(iv *Intervention, snap insight.Snapshot, limit int) {
	strengths := snap.Strengths
	if len(strengths) > limit {
		strengths = strengths[:limit]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Your completion rate is %d%%. Here's what's working well:", int(snap.CompletionRate*100))
	for _, s := range strengths {
		sb.WriteString("\n- ")
		sb.WriteString(s)
	}

	iv.Title = "You're doing great"
	iv.Message = sb.String()
	iv.NextStep = "Keep up the momentum"
}
