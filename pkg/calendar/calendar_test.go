package calendar

import (
	"testing"
	"time"

	"github.com/eqsched/eqsched/pkg/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthGrid_MondayFirstLayout(t *testing.T) {
	// March 2024 starts on a Friday and has 31 days.
	weeks := MonthGrid(nil, 2024, time.March)

	require.Len(t, weeks, 5)

	// Leading blanks: Mon-Thu of the first week are padding.
	for col := 0; col < 4; col++ {
		assert.Equal(t, 0, weeks[0][col].Day)
	}
	assert.Equal(t, 1, weeks[0][4].Day) // Friday
	assert.Equal(t, 3, weeks[0][6].Day) // Sunday

	// Last day lands on the Sunday of the final week.
	assert.Equal(t, 31, weeks[4][6].Day)
}

func TestMonthGrid_TrailingBlanks(t *testing.T) {
	// April 2024 starts on a Monday and ends on a Tuesday.
	weeks := MonthGrid(nil, 2024, time.April)

	require.Len(t, weeks, 5)
	assert.Equal(t, 1, weeks[0][0].Day)
	assert.Equal(t, 30, weeks[4][1].Day)
	for col := 2; col < 7; col++ {
		assert.Equal(t, 0, weeks[4][col].Day)
	}
}

func TestMonthGrid_BucketsEventsByDayAndTrainer(t *testing.T) {
	events := []schedule.Event{
		{ID: "1", Trainer: "Dale", Date: day(2024, time.March, 1)},
		{ID: "2", Trainer: "Dale", Date: day(2024, time.March, 1)},
		{ID: "3", Trainer: "Dom", Date: day(2024, time.March, 1)},
		{ID: "4", Trainer: "Jack", Date: day(2024, time.March, 15)},
		{ID: "5", Trainer: "Dale", Date: day(2024, time.April, 1)},  // other month
		{ID: "6", Trainer: "Dale", Date: day(2023, time.March, 10)}, // other year
	}

	weeks := MonthGrid(events, 2024, time.March)

	first := weeks[0][4] // March 1st, Friday
	assert.Equal(t, 3, first.EventCount)
	// Roster order: Dom before Dale.
	require.Len(t, first.TrainerCounts, 2)
	assert.Equal(t, TrainerCount{Trainer: "Dom", Count: 1}, first.TrainerCounts[0])
	assert.Equal(t, TrainerCount{Trainer: "Dale", Count: 2}, first.TrainerCounts[1])

	var fifteenth Day
	for _, week := range weeks {
		for _, d := range week {
			if d.Day == 15 {
				fifteenth = d
			}
		}
	}
	assert.Equal(t, 1, fifteenth.EventCount)

	var tenth Day
	for _, week := range weeks {
		for _, d := range week {
			if d.Day == 10 {
				tenth = d
			}
		}
	}
	assert.Equal(t, 0, tenth.EventCount)
}

func TestDayEvents(t *testing.T) {
	events := []schedule.Event{
		{ID: "1", Client: "Acme", Date: day(2024, time.March, 1)},
		{ID: "2", Client: "Globex", Date: day(2024, time.March, 2)},
		{ID: "3", Client: "Initech", Date: day(2024, time.March, 1)},
	}

	matched := DayEvents(events, day(2024, time.March, 1))

	require.Len(t, matched, 2)
	assert.Equal(t, "1", matched[0].ID)
	assert.Equal(t, "3", matched[1].ID)

	assert.Empty(t, DayEvents(events, day(2024, time.March, 30)))
}
