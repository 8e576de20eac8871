package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oleandr/stride/internal/config"
	"github.com/oleandr/stride/internal/record"
)

func TestDetectBlockers(t *testing.T) {
	b := NewBuilder(config.DefaultThresholds())

	t.Run("only open overdue records qualify", func(t *testing.T) {
		records := []record.Record{
			testRecord(1, record.StatusReady, 20, 10),     // qualifies
			testRecord(2, record.StatusInProgress, 20, 9), // qualifies
			testRecord(3, record.StatusBlocked, 20, 8),    // qualifies
			testRecord(4, record.StatusDone, 20, 10),      // done
			testRecord(5, record.StatusReady, 20, 3),      // not overdue enough
			testRecord(6, record.StatusPaused, 20, 10),    // paused
		}

		snap := b.Build(records, testNow)

		require.Len(t, snap.Blockers, 3)
		assert.Equal(t, "rec-1", snap.Blockers[0].RecordID)
		assert.Equal(t, 10, snap.Blockers[0].DaysOverdue)
	})

	t.Run("capped at five", func(t *testing.T) {
		var records []record.Record
		for i := 0; i < 20; i++ {
			records = append(records, testRecord(i, record.StatusReady, 25, 15))
		}

		snap := b.Build(records, testNow)
		assert.Len(t, snap.Blockers, 5)
	})
}

func TestBlockerPattern(t *testing.T) {
	b := NewBuilder(config.DefaultThresholds())
	base := testRecord(1, record.StatusReady, 20, 10)

	t.Run("no signals", func(t *testing.T) {
		assert.Equal(t, "repeatedly postponed", b.blockerPattern(base))
	})

	t.Run("assisted", func(t *testing.T) {
		r := base
		r.Type = record.TypeAssisted
		assert.Equal(t, "requires assistance", b.blockerPattern(r))
	})

	t.Run("cognitive load", func(t *testing.T) {
		r := base
		r.CognitiveLoad = 4
		assert.Equal(t, "high cognitive load", b.blockerPattern(r))
	})

	t.Run("dependencies", func(t *testing.T) {
		r := base
		r.BlockedByDeps = true
		assert.Equal(t, "blocked by dependencies", b.blockerPattern(r))
	})

	t.Run("peak energy", func(t *testing.T) {
		r := base
		r.EnergyLevel = record.EnergyHigh
		assert.Equal(t, "requires peak-energy slot", b.blockerPattern(r))
	})

	t.Run("signals concatenate in fixed precedence", func(t *testing.T) {
		r := base
		r.Type = record.TypeAssisted
		r.CognitiveLoad = 5
		r.BlockedByDeps = true
		r.EnergyLevel = record.EnergyHigh

		assert.Equal(t,
			"requires assistance; high cognitive load; blocked by dependencies; requires peak-energy slot",
			b.blockerPattern(r))
	})
}
