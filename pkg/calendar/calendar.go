package calendar

import (
	"sort"
	"time"

	"github.com/eqsched/eqsched/pkg/schedule"
)

// Day is one cell of the month grid. Day 0 is a blank cell padding the
// first or last week.
type Day struct {
	Day        int
	Date       time.Time
	EventCount int
	// TrainerCounts holds per-trainer event counts in roster order,
	// omitting trainers without events that day.
	TrainerCounts []TrainerCount
}

type TrainerCount struct {
	Trainer string
	Count   int
}

// Week is a Monday-first row of seven cells.
type Week [7]Day

// MonthGrid projects the given month's events onto a Monday-first week
// grid. Events outside the month are ignored.
func MonthGrid(events []schedule.Event, year int, month time.Month) []Week {
	byDay := map[int][]schedule.Event{}
	for _, e := range events {
		if e.Date.Year() == year && e.Date.Month() == month {
			byDay[e.Date.Day()] = append(byDay[e.Date.Day()], e)
		}
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	// time.Weekday is Sunday-first; shift so Monday is column 0.
	offset := (int(first.Weekday()) + 6) % 7

	weeks := make([]Week, 0, 6)
	var week Week
	col := offset
	for day := 1; day <= daysInMonth; day++ {
		dayEvents := byDay[day]
		week[col] = Day{
			Day:           day,
			Date:          time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
			EventCount:    len(dayEvents),
			TrainerCounts: countByTrainer(dayEvents),
		}
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = Week{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// DayEvents returns the events on the given calendar day, ordered by date
// then insertion order.
func DayEvents(events []schedule.Event, date time.Time) []schedule.Event {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	matched := make([]schedule.Event, 0)
	for _, e := range events {
		if e.Date.Year() == day.Year() && e.Date.YearDay() == day.YearDay() {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date.Before(matched[j].Date)
	})
	return matched
}

func countByTrainer(events []schedule.Event) []TrainerCount {
	counts := map[string]int{}
	for _, e := range events {
		counts[e.Trainer]++
	}
	result := make([]TrainerCount, 0, len(counts))
	for _, trainer := range schedule.Trainers {
		if counts[trainer] > 0 {
			result = append(result, TrainerCount{Trainer: trainer, Count: counts[trainer]})
		}
	}
	// Trainers outside the fixed roster still show up, after roster members.
	for _, e := range events {
		if counts[e.Trainer] > 0 && !inRoster(e.Trainer) {
			result = append(result, TrainerCount{Trainer: e.Trainer, Count: counts[e.Trainer]})
			counts[e.Trainer] = 0
		}
	}
	return result
}

func inRoster(trainer string) bool {
	for _, t := range schedule.Trainers {
		if t == trainer {
			return true
		}
	}
	return false
}
