package insight

import (
	"sort"
	"time"

	"github.com/oleandr/stride/internal/record"
)

var weekdayOrder = []string{
	time.Monday.String(),
	time.Tuesday.String(),
	time.Wednesday.String(),
	time.Thursday.String(),
	time.Friday.String(),
	time.Saturday.String(),
	time.Sunday.String(),
}

// detectSchedule profiles when the user actually completes work:
// per-hour buckets over records carrying a concrete scheduled time, and
// per-weekday buckets over all records.
func (b *Builder) detectSchedule(records []record.Record) SchedulePlan {
	type bucket struct{ completed, total int }

	hourly := make(map[int]*bucket)
	for _, r := range records {
		if r.ScheduledTime == nil {
			continue
		}
		hour := r.ScheduledTime.Hour()
		bk := hourly[hour]
		if bk == nil {
			bk = &bucket{}
			hourly[hour] = bk
		}
		bk.total++
		if r.Done() {
			bk.completed++
		}
	}

	byHour := make(map[int]float64)
	for hour, bk := range hourly {
		if bk.total >= b.cfg.HourMinSample {
			byHour[hour] = round2(float64(bk.completed) / float64(bk.total))
		}
	}

	// Rank eligible hours best-first; ties resolve to the earlier hour
	// so results are stable across runs.
	hours := make([]int, 0, len(byHour))
	for h := range byHour {
		hours = append(hours, h)
	}
	sort.Slice(hours, func(i, j int) bool {
		if byHour[hours[i]] != byHour[hours[j]] {
			return byHour[hours[i]] > byHour[hours[j]]
		}
		return hours[i] < hours[j]
	})

	high := []int{}
	for _, h := range hours {
		if len(high) == b.cfg.EnergyHourCount {
			break
		}
		if byHour[h] > b.cfg.HighEnergyRate {
			high = append(high, h)
		}
	}

	low := []int{}
	tail := len(hours) - b.cfg.EnergyHourCount
	if tail < 0 {
		tail = 0
	}
	for _, h := range hours[tail:] {
		if byHour[h] < b.cfg.LowEnergyRate {
			low = append(low, h)
		}
	}

	daily := make(map[string]*bucket)
	for _, r := range records {
		day := r.ScheduledDate.Weekday().String()
		bk := daily[day]
		if bk == nil {
			bk = &bucket{}
			daily[day] = bk
		}
		bk.total++
		if r.Done() {
			bk.completed++
		}
	}

	byDay := make(map[string]float64)
	for day, bk := range daily {
		if bk.total >= b.cfg.DayMinSample {
			byDay[day] = round2(float64(bk.completed) / float64(bk.total))
		}
	}

	var bestDay, worstDay string
	for _, day := range weekdayOrder {
		rate, ok := byDay[day]
		if !ok {
			continue
		}
		if bestDay == "" || rate > byDay[bestDay] {
			bestDay = day
		}
		if worstDay == "" || rate < byDay[worstDay] {
			worstDay = day
		}
	}

	return SchedulePlan{
		HighEnergyHours:  high,
		LowEnergyHours:   low,
		BestDay:          bestDay,
		WorstDay:         worstDay,
		CompletionByHour: byHour,
		CompletionByDay:  byDay,
	}
}
