package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/studybot/internal/model"
)

// Export is a full dump of the study data.
type Export struct {
	Subjects  []model.Subject       `json:"subjects"`
	Homeworks []model.Homework      `json:"homeworks"`
	Schedule  []model.ScheduleEntry `json:"schedule"`
}

// ScheduleImport is one schedule row keyed by subject name.
type ScheduleImport struct {
	Day     string `json:"day"`
	Subject string `json:"subject"`
	Time    string `json:"time"`
}

// ExportAll returns every subject, homework and schedule entry.
func (s *SQLiteStore) ExportAll(ctx context.Context) (*Export, error) {
	var ex Export
	var err error
	if ex.Subjects, err = s.ListSubjects(ctx); err != nil {
		return nil, fmt.Errorf("subjects: %w", err)
	}
	if ex.Homeworks, err = s.ListHomeworks(ctx, ListHomeworksParams{}); err != nil {
		return nil, fmt.Errorf("homeworks: %w", err)
	}
	if ex.Schedule, err = s.ListSchedule(ctx); err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	return &ex, nil
}

// ImportSchedule adds schedule rows, creating subjects that do not exist yet.
// Subject names match case-insensitively. Stops at the first failing row.
func (s *SQLiteStore) ImportSchedule(ctx context.Context, rows []ScheduleImport) (int, error) {
	subjects, err := s.ListSubjects(ctx)
	if err != nil {
		return 0, err
	}
	byName := make(map[string]int64, len(subjects))
	for _, sub := range subjects {
		byName[strings.ToLower(sub.Name)] = sub.ID
	}

	imported := 0
	for i, r := range rows {
		key := strings.ToLower(strings.TrimSpace(r.Subject))
		id, ok := byName[key]
		if !ok {
			sub, err := s.CreateSubject(ctx, r.Subject)
			if err != nil {
				return imported, fmt.Errorf("row %d: %w", i+1, err)
			}
			id = sub.ID
			byName[key] = id
		}
		if _, err := s.CreateScheduleEntry(ctx, CreateScheduleParams{Day: r.Day, SubjectID: id, Time: r.Time}); err != nil {
			return imported, fmt.Errorf("row %d: %w", i+1, err)
		}
		imported++
	}
	return imported, nil
}
