package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func algorithmsCourse() *Course {
	return &Course{ID: 3, Name: "Algoritmos", Cycle: 2, SemesterID: 2}
}

func TestNewTutoringSessionTakesCourseIdentity(t *testing.T) {
	session, err := NewTutoringSession("Algoritmos", "desc", 20, "", "", 1, algorithmsCourse(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Algoritmos", session.Title)
	assert.Equal(t, 2, session.Cycle)
	assert.Equal(t, int64(3), session.CourseID)
	assert.Empty(t, session.Times)
}

func TestNewTutoringSessionTitleMismatch(t *testing.T) {
	_, err := NewTutoringSession("Aplicaciones Web", "", 0, "", "", 1, algorithmsCourse(), nil)
	assert.ErrorIs(t, err, ErrTitleMismatch)
}

func TestNewTutoringSessionTitleTrimmed(t *testing.T) {
	session, err := NewTutoringSession("  Algoritmos  ", "", 0, "", "", 1, algorithmsCourse(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Algoritmos", session.Title)
}

func TestNewTutoringSessionNormalizesWeek(t *testing.T) {
	times := []DailySchedule{{DayOfWeek: 2, AvailableHours: []AvailableHour{{TimeSlot: "10-11"}}}}
	session, err := NewTutoringSession("Algoritmos", "", 0, "", "", 1, algorithmsCourse(), times)
	require.NoError(t, err)

	require.Len(t, session.Times, DaysPerWeek)
	for i, day := range session.Times {
		assert.Equal(t, i, day.DayOfWeek)
	}
	assert.Equal(t, []string{"10-11"}, session.Times[2].HourStrings())
}

func TestNormalizeWeekLaterEntryWins(t *testing.T) {
	times := []DailySchedule{
		{DayOfWeek: 4, AvailableHours: []AvailableHour{{TimeSlot: "8-9"}}},
		{DayOfWeek: 4, AvailableHours: []AvailableHour{{TimeSlot: "18-19"}}},
	}
	session, err := NewTutoringSession("Algoritmos", "", 0, "", "", 1, algorithmsCourse(), times)
	require.NoError(t, err)
	assert.Equal(t, []string{"18-19"}, session.Times[4].HourStrings())
}

func TestNormalizeWeekDropsOutOfRangeDays(t *testing.T) {
	times := []DailySchedule{
		{DayOfWeek: 9, AvailableHours: []AvailableHour{{TimeSlot: "8-9"}}},
		{DayOfWeek: -1, AvailableHours: []AvailableHour{{TimeSlot: "9-10"}}},
		{DayOfWeek: 0, AvailableHours: []AvailableHour{{TimeSlot: "7-8"}}},
	}
	session, err := NewTutoringSession("Algoritmos", "", 0, "", "", 1, algorithmsCourse(), times)
	require.NoError(t, err)

	require.Len(t, session.Times, DaysPerWeek)
	assert.Equal(t, []string{"7-8"}, session.Times[0].HourStrings())
	for _, day := range session.Times[1:] {
		assert.Empty(t, day.AvailableHours)
	}
}

func TestUpdateAttributesReplacesScheduleVerbatim(t *testing.T) {
	session, err := NewTutoringSession("Algoritmos", "old", 10, "", "", 1, algorithmsCourse(),
		[]DailySchedule{{DayOfWeek: 0, AvailableHours: []AvailableHour{{TimeSlot: "8-9"}}}})
	require.NoError(t, err)
	session.ID = 5
	require.Len(t, session.Times, DaysPerWeek)

	session.UpdateAttributes("new", 15, "img", "stuff", []DailySchedule{
		{DayOfWeek: 3, AvailableHours: []AvailableHour{{TimeSlot: "14-15"}}},
	})

	require.Len(t, session.Times, 1)
	assert.Equal(t, 3, session.Times[0].DayOfWeek)
	assert.Equal(t, int64(5), session.Times[0].TutoringSessionID)
	assert.Equal(t, "new", session.Description)
	assert.Equal(t, 15.0, session.Price)
}

func TestSetHourStrings(t *testing.T) {
	var day DailySchedule
	day.SetHourStrings([]string{"10-11", "11-12"})
	require.Len(t, day.AvailableHours, 2)
	assert.Equal(t, []string{"10-11", "11-12"}, day.HourStrings())
}
