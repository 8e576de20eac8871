package insight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oleandr/stride/internal/config"
	"github.com/oleandr/stride/internal/record"
)

func timedRecord(id int, status record.Status, hour int, scheduled time.Time) record.Record {
	r := testRecord(id, status, 10, 0)
	r.ScheduledDate = scheduled
	at := time.Date(scheduled.Year(), scheduled.Month(), scheduled.Day(), hour, 0, 0, 0, time.UTC)
	r.ScheduledTime = &at
	return r
}

func TestDetectScheduleHours(t *testing.T) {
	b := NewBuilder(config.DefaultThresholds())
	day := testNow.AddDate(0, 0, -3)

	var records []record.Record
	id := 0
	add := func(hour, done, total int) {
		for i := 0; i < total; i++ {
			status := record.StatusReady
			if i < done {
				status = record.StatusDone
			}
			records = append(records, timedRecord(id, status, hour, day))
			id++
		}
	}

	add(9, 4, 4)  // 1.00 eligible, high
	add(10, 3, 4) // 0.75 eligible, high
	add(14, 1, 4) // 0.25 eligible, low
	add(20, 0, 3) // 0.00 eligible, low
	add(16, 2, 2) // only 2 samples, ineligible

	snap := b.Build(records, testNow)
	plan := snap.OptimalSchedule

	assert.Equal(t, []int{9, 10}, plan.HighEnergyHours)
	assert.Equal(t, []int{14, 20}, plan.LowEnergyHours)
	assert.Equal(t, 1.0, plan.CompletionByHour[9])
	assert.Equal(t, 0.75, plan.CompletionByHour[10])
	assert.NotContains(t, plan.CompletionByHour, 16)
}

func TestDetectScheduleDays(t *testing.T) {
	b := NewBuilder(config.DefaultThresholds())

	monday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	friday := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	var records []record.Record
	id := 0
	add := func(day time.Time, done, total int) {
		for i := 0; i < total; i++ {
			status := record.StatusReady
			if i < done {
				status = record.StatusDone
			}
			r := testRecord(id, status, 10, 0)
			r.ScheduledDate = day
			records = append(records, r)
			id++
		}
	}

	add(monday, 3, 3) // 1.00
	add(friday, 1, 4) // 0.25
	add(saturday, 1, 1) // single sample, ineligible

	snap := b.Build(records, testNow)
	plan := snap.OptimalSchedule

	assert.Equal(t, "Monday", plan.BestDay)
	assert.Equal(t, "Friday", plan.WorstDay)
	assert.NotContains(t, plan.CompletionByDay, "Saturday")
}

func TestDetectScheduleNoEligibleBuckets(t *testing.T) {
	b := NewBuilder(config.DefaultThresholds())

	// Five records on five different days, none with a scheduled time.
	var records []record.Record
	for i := 0; i < 5; i++ {
		r := testRecord(i, record.StatusDone, 10, 0)
		r.ScheduledDate = testNow.AddDate(0, 0, -i-1)
		records = append(records, r)
	}

	snap := b.Build(records, testNow)
	plan := snap.OptimalSchedule

	assert.Empty(t, plan.HighEnergyHours)
	assert.Empty(t, plan.LowEnergyHours)
	assert.Empty(t, plan.CompletionByHour)
	assert.Equal(t, "", plan.BestDay)
	assert.Equal(t, "", plan.WorstDay)
}
