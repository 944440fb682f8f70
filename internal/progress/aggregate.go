// Package progress turns raw per-day counters into the period-bucketed
// series the progress charts consume. It is a pure transform over
// externally-supplied time series; the one behavioral contract worth noting
// is decay gap-filling: a day with no recorded data inherits the prior known
// energy minus a fixed daily decay, floored at zero, so a series never has
// missing days between its first and last recorded date.
package progress

import (
	"time"

	"github.com/obilearn/obi/internal/domain"
	"github.com/obilearn/obi/internal/progression"
)

// Period selects chart granularity
type Period string

const (
	PeriodMonth     Period = "month"   // daily points
	PeriodSixMonths Period = "6months" // weekly-summed points
	PeriodYear      Period = "year"    // monthly-summed points
)

// IsValid reports whether the period is a supported granularity
func (p Period) IsValid() bool {
	switch p {
	case PeriodMonth, PeriodSixMonths, PeriodYear:
		return true
	}
	return false
}

// Point is one bucket of the chart series. Counters are summed across the
// bucket; energy is the level at the end of the bucket.
type Point struct {
	Date       string `json:"date"` // bucket start, YYYY-MM-DD
	BrainPower int    `json:"brainPower"`
	Correct    int    `json:"correct"`
	Incorrect  int    `json:"incorrect"`
	Energy     int    `json:"energy"`
}

// FillGaps returns a continuous daily series between the first and last
// recorded day. Stats must be sorted ascending by day. Gap days carry zero
// counters and decayed energy.
func FillGaps(stats []domain.DailyStat) []domain.DailyStat {
	if len(stats) == 0 {
		return nil
	}

	out := make([]domain.DailyStat, 0, len(stats))
	out = append(out, stats[0])
	for i := 1; i < len(stats); i++ {
		prev := out[len(out)-1]
		for day := prev.Day.AddDate(0, 0, 1); day.Before(stats[i].Day); day = day.AddDate(0, 0, 1) {
			energy := prev.Energy - progression.DailyEnergyDecay
			if energy < 0 {
				energy = 0
			}
			gap := domain.DailyStat{LearnerID: prev.LearnerID, Day: day, Energy: energy}
			out = append(out, gap)
			prev = gap
		}
		out = append(out, stats[i])
	}
	return out
}

// Series buckets a gap-filled daily series by period. Stats must be sorted
// ascending by day.
func Series(stats []domain.DailyStat, period Period) []Point {
	daily := FillGaps(stats)
	if len(daily) == 0 {
		return nil
	}

	var points []Point
	var bucket time.Time
	for _, stat := range daily {
		start := bucketStart(stat.Day, period)
		if len(points) == 0 || !start.Equal(bucket) {
			bucket = start
			points = append(points, Point{Date: start.Format("2006-01-02")})
		}
		p := &points[len(points)-1]
		p.BrainPower += stat.BrainPower
		p.Correct += stat.Correct
		p.Incorrect += stat.Incorrect
		p.Energy = stat.Energy // end-of-bucket level
	}
	return points
}

// bucketStart truncates a day to its bucket's first day: the day itself for
// monthly charts, the preceding Monday for six-month charts, the first of
// the month for yearly charts.
func bucketStart(day time.Time, period Period) time.Time {
	switch period {
	case PeriodSixMonths:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case PeriodYear:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	}
	return day
}
