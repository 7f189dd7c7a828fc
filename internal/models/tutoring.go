package models

import (
	"errors"
	"strings"
	"time"
)

// DaysPerWeek is the fixed number of day slots a session schedule carries.
const DaysPerWeek = 7

// AvailableHour is a single bookable time slot, e.g. "10-11", owned by one
// daily schedule and cascade-deleted with it.
type AvailableHour struct {
	ID              int64  `db:"id" json:"id"`
	DailyScheduleID int64  `db:"daily_schedule_id" json:"daily_schedule_id"`
	TimeSlot        string `db:"time_slot" json:"time_slot"`
}

// DailySchedule holds the available hours for one day of the week
// (0 = Sunday .. 6 = Saturday). It is owned exclusively by one tutoring
// session and replaced wholesale on update, never merged.
type DailySchedule struct {
	ID                int64           `db:"id" json:"id"`
	TutoringSessionID int64           `db:"tutoring_session_id" json:"tutoring_session_id"`
	DayOfWeek         int             `db:"day_of_week" json:"day_of_week"`
	AvailableHours    []AvailableHour `db:"-" json:"available_hours"`
}

// HourStrings returns the schedule's time slots as plain strings.
func (d *DailySchedule) HourStrings() []string {
	hours := make([]string, 0, len(d.AvailableHours))
	for _, h := range d.AvailableHours {
		hours = append(hours, h.TimeSlot)
	}
	return hours
}

// SetHourStrings replaces the schedule's hours from plain strings.
func (d *DailySchedule) SetHourStrings(hours []string) {
	d.AvailableHours = d.AvailableHours[:0]
	for _, h := range hours {
		d.AvailableHours = append(d.AvailableHours, AvailableHour{TimeSlot: h})
	}
}

// TutoringSession is one tutor's offering for a course, with a weekly
// availability schedule. Identity, course and tutor are fixed at creation.
type TutoringSession struct {
	ID                int64   `db:"id" json:"id"`
	Title             string  `db:"title" json:"title"`
	Description       string  `db:"description" json:"description"`
	Price             float64 `db:"price" json:"price"`
	Image             string  `db:"image" json:"image"`
	WhatTheyWillLearn string  `db:"what_they_will_learn" json:"what_they_will_learn"`
	TutorID           int64   `db:"tutor_id" json:"tutor_id"`
	CourseID          int64   `db:"course_id" json:"course_id"`
	Cycle             int     `db:"cycle" json:"cycle"`

	Times  []DailySchedule `db:"-" json:"times"`
	Course *Course         `db:"-" json:"course,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ErrTitleMismatch is returned when the supplied title does not match the
// name of the referenced course.
var ErrTitleMismatch = errors.New("Course name does not match the courseId provided.")

// NewTutoringSession builds the aggregate from a validated create request.
// The title is taken from the course; a mismatching supplied title is
// rejected even though callers are expected to have checked it already.
// When at least one schedule is supplied the week is normalized to exactly
// seven day-indexed slots, unspecified days defaulting to empty schedules
// and later entries for the same day winning.
func NewTutoringSession(title, description string, price float64, image, whatTheyWillLearn string, tutorID int64, course *Course, times []DailySchedule) (*TutoringSession, error) {
	if strings.TrimSpace(title) != strings.TrimSpace(course.Name) {
		return nil, ErrTitleMismatch
	}

	session := &TutoringSession{
		Title:             course.Name,
		Description:       description,
		Price:             price,
		Image:             image,
		WhatTheyWillLearn: whatTheyWillLearn,
		TutorID:           tutorID,
		CourseID:          course.ID,
		Cycle:             course.Cycle,
		Course:            course,
		Times:             normalizeWeek(times),
	}

	return session, nil
}

// UpdateAttributes replaces the mutable fields and swaps the schedule
// collection verbatim. Unlike creation, the week is not padded to seven
// days here; the caller's list is taken as-is.
func (s *TutoringSession) UpdateAttributes(description string, price float64, image, whatTheyWillLearn string, times []DailySchedule) {
	s.Description = description
	s.Price = price
	s.Image = image
	s.WhatTheyWillLearn = whatTheyWillLearn

	s.Times = s.Times[:0]
	for _, t := range times {
		t.TutoringSessionID = s.ID
		s.Times = append(s.Times, t)
	}
}

// normalizeWeek expands a sparse schedule list to all seven days of the
// week, keeping the supplied entries at their day index. An empty input
// yields no schedules at all. Entries with a day outside 0..6 are dropped.
func normalizeWeek(times []DailySchedule) []DailySchedule {
	if len(times) == 0 {
		return nil
	}

	week := make([]DailySchedule, DaysPerWeek)
	for i := range week {
		week[i] = DailySchedule{DayOfWeek: i}
	}
	for _, t := range times {
		if t.DayOfWeek < 0 || t.DayOfWeek >= DaysPerWeek {
			continue
		}
		week[t.DayOfWeek] = t
	}

	return week
}
