package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/rcliao/studybot/internal/dates"
	"github.com/rcliao/studybot/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer keeps id assignment and visibility strictly ordered.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS subjects (
		id    INTEGER PRIMARY KEY AUTOINCREMENT,
		name  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS homeworks (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		subject_id  INTEGER NOT NULL REFERENCES subjects(id),
		task_text   TEXT NOT NULL,
		deadline    TEXT NOT NULL,
		file_id     TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_homeworks_deadline ON homeworks(deadline, id);

	CREATE TABLE IF NOT EXISTS schedule (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		day         TEXT NOT NULL,
		subject_id  INTEGER NOT NULL REFERENCES subjects(id),
		time        TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) CreateSubject(ctx context.Context, name string) (*model.Subject, error) {
	p := struct {
		Name string `json:"name" validate:"required"`
	}{Name: strings.TrimSpace(name)}
	if err := validateParams(p); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO subjects (name) VALUES (?)`, p.Name)
	if err != nil {
		return nil, fmt.Errorf("insert subject: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &model.Subject{ID: id, Name: p.Name}, nil
}

func (s *SQLiteStore) ListSubjects(ctx context.Context) ([]model.Subject, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM subjects ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []model.Subject
	for rows.Next() {
		var sub model.Subject
		if err := rows.Scan(&sub.ID, &sub.Name); err != nil {
			return nil, err
		}
		subjects = append(subjects, sub)
	}
	return subjects, rows.Err()
}

func (s *SQLiteStore) GetSubject(ctx context.Context, id int64) (*model.Subject, error) {
	return getSubject(ctx, s.db, id)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func getSubject(ctx context.Context, q queryRower, id int64) (*model.Subject, error) {
	sub := model.Subject{ID: id}
	err := q.QueryRowContext(ctx, `SELECT name FROM subjects WHERE id = ?`, id).Scan(&sub.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &ReferenceError{SubjectID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("lookup subject: %w", err)
	}
	return &sub, nil
}

func (s *SQLiteStore) CreateHomework(ctx context.Context, p CreateHomeworkParams) (*model.Homework, error) {
	p.Text = strings.TrimSpace(p.Text)
	if err := validateParams(p); err != nil {
		return nil, err
	}

	var filePtr *string
	if p.FileID != "" {
		filePtr = &p.FileID
	}
	deadline := dates.FormatStoredDate(p.Deadline)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	sub, err := getSubject(ctx, tx, p.SubjectID)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO homeworks (subject_id, task_text, deadline, file_id) VALUES (?, ?, ?, ?)`,
		p.SubjectID, p.Text, deadline, filePtr)
	if err != nil {
		return nil, fmt.Errorf("insert homework: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &model.Homework{
		ID:          id,
		SubjectID:   sub.ID,
		SubjectName: sub.Name,
		Text:        p.Text,
		Deadline:    deadline,
		FileID:      p.FileID,
	}, nil
}

func (s *SQLiteStore) ListHomeworks(ctx context.Context, p ListHomeworksParams) ([]model.Homework, error) {
	where := []string{"1 = 1"}
	var args []interface{}
	if !p.Before.IsZero() {
		where = append(where, "h.deadline < ?")
		args = append(args, dates.FormatStoredDate(p.Before))
	}

	query := fmt.Sprintf(`
		SELECT h.id, h.subject_id, s.name, h.task_text, h.deadline, h.file_id
		FROM homeworks h
		JOIN subjects s ON h.subject_id = s.id
		WHERE %s
		ORDER BY h.deadline, h.id`, strings.Join(where, " AND "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var homeworks []model.Homework
	for rows.Next() {
		var hw model.Homework
		var fileID sql.NullString
		if err := rows.Scan(&hw.ID, &hw.SubjectID, &hw.SubjectName, &hw.Text, &hw.Deadline, &fileID); err != nil {
			return nil, err
		}
		hw.FileID = fileID.String
		homeworks = append(homeworks, hw)
	}
	return homeworks, rows.Err()
}

func (s *SQLiteStore) CreateScheduleEntry(ctx context.Context, p CreateScheduleParams) (*model.ScheduleEntry, error) {
	p.Day = strings.ToLower(strings.TrimSpace(p.Day))
	p.Time = strings.TrimSpace(p.Time)
	if err := validateParams(p); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	sub, err := getSubject(ctx, tx, p.SubjectID)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO schedule (day, subject_id, time) VALUES (?, ?, ?)`,
		p.Day, p.SubjectID, p.Time)
	if err != nil {
		return nil, fmt.Errorf("insert schedule entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &model.ScheduleEntry{
		ID:          id,
		Day:         p.Day,
		SubjectID:   sub.ID,
		SubjectName: sub.Name,
		Time:        p.Time,
	}, nil
}

// dayRankSQL mirrors model.DayRank as a CASE expression over column col.
func dayRankSQL(col string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CASE LOWER(TRIM(%s))", col)
	for i, d := range model.Weekdays {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", d, i+1)
	}
	fmt.Fprintf(&b, " ELSE %d END", model.UnknownDayRank)
	return b.String()
}

func (s *SQLiteStore) ListSchedule(ctx context.Context) ([]model.ScheduleEntry, error) {
	// Time is ordered as text, which is only chronological for zero-padded 24h labels.
	query := `
		SELECT sc.id, sc.day, sc.subject_id, sub.name, sc.time
		FROM schedule sc
		JOIN subjects sub ON sc.subject_id = sub.id
		ORDER BY ` + dayRankSQL("sc.day") + `, sc.time, sc.id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.ScheduleEntry
	for rows.Next() {
		var e model.ScheduleEntry
		if err := rows.Scan(&e.ID, &e.Day, &e.SubjectID, &e.SubjectName, &e.Time); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
