package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oleandr/stride/internal/config"
	"github.com/oleandr/stride/internal/record"
)

func TestStrengths(t *testing.T) {
	b := NewBuilder(config.DefaultThresholds())

	t.Run("high completion rate", func(t *testing.T) {
		snap := b.Build(mix(9, 10), testNow)
		assert.Contains(t, snap.Strengths, "Excellent overall completion rate (90%)")
	})

	t.Run("strong category", func(t *testing.T) {
		records := mix(2, 10)
		assisted := mix(5, 5)
		for i := range assisted {
			assisted[i].Type = record.TypeAssisted
		}
		snap := b.Build(append(records, assisted...), testNow)
		assert.Contains(t, snap.Strengths, "High success rate with assisted tasks (100%)")
	})
}

func TestWarnings(t *testing.T) {
	b := NewBuilder(config.DefaultThresholds())

	t.Run("weak category with enough samples", func(t *testing.T) {
		records := mix(8, 10)
		weak := mix(1, 6)
		for i := range weak {
			weak[i].Type = record.TypeAutomated
		}
		snap := b.Build(append(records, weak...), testNow)
		assert.Contains(t, snap.Warnings, "Struggling with automated tasks (16% completion)")
	})

	t.Run("below-average overall rate", func(t *testing.T) {
		snap := b.Build(mix(5, 10), testNow)
		assert.Contains(t, snap.Warnings, "Below-average completion rate (50%)")
	})

	t.Run("below-average cutoff is configurable", func(t *testing.T) {
		cfg := config.DefaultThresholds()
		cfg.BelowAvgRate = 0.75
		snap := NewBuilder(cfg).Build(mix(7, 10), testNow)
		assert.Contains(t, snap.Warnings, "Below-average completion rate (70%)")
	})

	t.Run("weak category under sample floor stays quiet", func(t *testing.T) {
		records := mix(8, 10)
		weak := mix(0, 3)
		for i := range weak {
			weak[i].Type = record.TypeAutomated
		}
		snap := b.Build(append(records, weak...), testNow)
		for _, w := range snap.Warnings {
			assert.NotContains(t, w, "automated")
		}
	})
}

func TestRecommendations(t *testing.T) {
	b := NewBuilder(config.DefaultThresholds())

	t.Run("urgent entries on high risk", func(t *testing.T) {
		snap := b.Build(mix(4, 10), testNow)
		assert.Equal(t, RiskHigh, snap.RiskLevel)
		assert.Contains(t, snap.Recommended, "URGENT: reset the plan before adding anything new")
	})

	t.Run("no urgent entries on low risk", func(t *testing.T) {
		snap := b.Build(mix(9, 10), testNow)
		for _, r := range snap.Recommended {
			assert.NotContains(t, r, "URGENT")
		}
	})
}
