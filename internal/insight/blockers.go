package insight

import (
	"strings"
	"time"

	"github.com/oleandr/stride/internal/record"
)

// detectBlockers finds records that are still open yet scheduled more
// than the configured number of days in the past, capped at
// BlockerLimit entries.
func (b *Builder) detectBlockers(records []record.Record, now time.Time) []Blocker {
	overdueCutoff := now.AddDate(0, 0, -b.cfg.BlockerDays)

	blockers := []Blocker{}
	for _, r := range records {
		if !r.Open() || !r.ScheduledDate.Before(overdueCutoff) {
			continue
		}
		blockers = append(blockers, Blocker{
			RecordID:    r.ID,
			Title:       r.Title,
			Type:        r.Type,
			Status:      r.Status,
			DaysOverdue: r.DaysOverdue(now),
			Pattern:     b.blockerPattern(r),
		})
		if len(blockers) == b.cfg.BlockerLimit {
			break
		}
	}
	return blockers
}

// blockerPattern infers why a record keeps slipping. Signals are
// checked in a fixed precedence and every applicable one is kept.
func (b *Builder) blockerPattern(r record.Record) string {
	var signals []string

	if r.Type == record.TypeAssisted {
		signals = append(signals, "requires assistance")
	}
	if r.CognitiveLoad >= b.cfg.HighCogLoad {
		signals = append(signals, "high cognitive load")
	}
	if r.BlockedByDeps {
		signals = append(signals, "blocked by dependencies")
	}
	if r.EnergyLevel == record.EnergyHigh {
		signals = append(signals, "requires peak-energy slot")
	}

	if len(signals) == 0 {
		return "repeatedly postponed"
	}
	return strings.Join(signals, "; ")
}
