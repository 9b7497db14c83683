package service

import (
	"fmt"
	"time"
)

// FomcMeeting is a scheduled two-day Federal Open Market Committee meeting.
// The schedule repeats yearly for display purposes; only the month and days
// are stored.
type FomcMeeting struct {
	Month    time.Month `json:"-"`
	StartDay int        `json:"start_day"`
	EndDay   int        `json:"end_day"`
	Year     int        `json:"year"`
}

// fomcMeetings holds the published FOMC meeting dates in calendar order.
var fomcMeetings = []FomcMeeting{
	{Month: time.January, StartDay: 28, EndDay: 29},
	{Month: time.March, StartDay: 18, EndDay: 19},
	{Month: time.May, StartDay: 6, EndDay: 7},
	{Month: time.June, StartDay: 17, EndDay: 18},
	{Month: time.July, StartDay: 29, EndDay: 30},
	{Month: time.September, StartDay: 16, EndDay: 17},
	{Month: time.October, StartDay: 28, EndDay: 29},
	{Month: time.December, StartDay: 9, EndDay: 10},
}

// NextFomcMeeting returns the next upcoming meeting relative to now. A
// meeting still counts as upcoming until the end of its last day. When every
// meeting of the current year has passed, the first meeting is returned with
// next year's date.
func NextFomcMeeting(now time.Time) FomcMeeting {
	year := now.Year()
	today := time.Date(year, now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for _, m := range fomcMeetings {
		end := time.Date(year, m.Month, m.EndDay, 23, 59, 59, 0, now.Location())
		if !today.After(end) {
			m.Year = year
			return m
		}
	}

	next := fomcMeetings[0]
	next.Year = year + 1
	return next
}

// Label formats the meeting for display, e.g. "FOMC: Jan 28-29".
func (m FomcMeeting) Label() string {
	return fmt.Sprintf("FOMC: %s %d-%d", m.Month.String()[:3], m.StartDay, m.EndDay)
}
