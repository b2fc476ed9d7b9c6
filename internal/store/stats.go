package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath          string         `json:"db_path"`
	DBSizeBytes     int64          `json:"db_size_bytes"`
	Subjects        int            `json:"subjects"`
	Homeworks       int            `json:"homeworks"`
	ScheduleEntries int            `json:"schedule_entries"`
	PerSubject      []SubjectStats `json:"per_subject"`
}

// SubjectStats holds per-subject counts.
type SubjectStats struct {
	Name      string `json:"name"`
	Homeworks int    `json:"homeworks"`
	Classes   int    `json:"classes"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subjects`).Scan(&st.Subjects); err != nil {
		return st, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM homeworks`).Scan(&st.Homeworks); err != nil {
		return st, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schedule`).Scan(&st.ScheduleEntries); err != nil {
		return st, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.name,
		       (SELECT COUNT(*) FROM homeworks h WHERE h.subject_id = s.id),
		       (SELECT COUNT(*) FROM schedule sc WHERE sc.subject_id = s.id)
		FROM subjects s ORDER BY s.id`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var ss SubjectStats
		if err := rows.Scan(&ss.Name, &ss.Homeworks, &ss.Classes); err != nil {
			return st, err
		}
		st.PerSubject = append(st.PerSubject, ss)
	}

	return st, rows.Err()
}
