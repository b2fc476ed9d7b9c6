// Package store provides the study data storage interface and SQLite implementation.
package store

import (
	"context"
	"time"

	"github.com/rcliao/studybot/internal/model"
)

// CreateHomeworkParams holds parameters for recording a homework.
type CreateHomeworkParams struct {
	SubjectID int64     `json:"subject_id" validate:"required"`
	Text      string    `json:"text" validate:"required"`
	Deadline  time.Time `json:"deadline" validate:"required"`
	FileID    string    `json:"file_id"`
}

// ListHomeworksParams holds parameters for listing homeworks.
type ListHomeworksParams struct {
	Before time.Time // zero means no upper bound
}

// CreateScheduleParams holds parameters for adding a schedule entry.
type CreateScheduleParams struct {
	Day       string `json:"day" validate:"required"`
	SubjectID int64  `json:"subject_id" validate:"required"`
	Time      string `json:"time" validate:"required"`
}

// Store defines the study data storage interface.
type Store interface {
	// CreateSubject stores a new subject. The name is trimmed and must not be empty.
	CreateSubject(ctx context.Context, name string) (*model.Subject, error)

	// ListSubjects returns all subjects in insertion order.
	ListSubjects(ctx context.Context) ([]model.Subject, error)

	// GetSubject looks up a subject by id.
	GetSubject(ctx context.Context, id int64) (*model.Subject, error)

	// CreateHomework stores a homework for an existing subject.
	// The returned homework carries the subject name.
	CreateHomework(ctx context.Context, p CreateHomeworkParams) (*model.Homework, error)

	// ListHomeworks returns homeworks joined with subject names,
	// ordered by deadline then id.
	ListHomeworks(ctx context.Context, p ListHomeworksParams) ([]model.Homework, error)

	// CreateScheduleEntry adds a weekly class slot.
	CreateScheduleEntry(ctx context.Context, p CreateScheduleParams) (*model.ScheduleEntry, error)

	// ListSchedule returns schedule entries ordered by weekday rank, then time text.
	ListSchedule(ctx context.Context) ([]model.ScheduleEntry, error)

	// Close closes the store.
	Close() error
}
