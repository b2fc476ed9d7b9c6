// Package model defines the core study data types.
package model

import "strings"

// Subject is a course that homework and schedule entries refer to.
type Subject struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Homework is a task bound to a subject with a deadline.
// Deadline holds the stored YYYY-MM-DD text as read from the database.
type Homework struct {
	ID          int64  `json:"id"`
	SubjectID   int64  `json:"subject_id"`
	SubjectName string `json:"subject_name,omitempty"`
	Text        string `json:"text"`
	Deadline    string `json:"deadline"`
	FileID      string `json:"file_id,omitempty"`
}

// ScheduleEntry is a recurring weekly class slot.
type ScheduleEntry struct {
	ID          int64  `json:"id"`
	Day         string `json:"day"`
	SubjectID   int64  `json:"subject_id"`
	SubjectName string `json:"subject_name,omitempty"`
	Time        string `json:"time"`
}

// Weekdays are the recognised day labels in week order.
var Weekdays = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// UnknownDayRank is the rank of any label not in Weekdays.
const UnknownDayRank = 8

// DayRank returns 1 for monday through 7 for sunday, UnknownDayRank otherwise.
func DayRank(day string) int {
	day = strings.ToLower(strings.TrimSpace(day))
	for i, d := range Weekdays {
		if d == day {
			return i + 1
		}
	}
	return UnknownDayRank
}

// ValidDay reports whether day is one of the recognised labels.
func ValidDay(day string) bool {
	return DayRank(day) != UnknownDayRank
}
