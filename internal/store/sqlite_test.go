package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateAndListSubjects(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sub, err := s.CreateSubject(ctx, "  Math  ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sub.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if sub.Name != "Math" {
		t.Errorf("expected trimmed 'Math', got %q", sub.Name)
	}

	list, err := s.ListSubjects(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 subject, got %d", len(list))
	}
	if list[0].ID != sub.ID || list[0].Name != "Math" {
		t.Errorf("unexpected subject %+v", list[0])
	}
}

func TestListSubjectsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	names := []string{"Physics", "Algebra", "History"}
	var prev int64
	for _, n := range names {
		sub, err := s.CreateSubject(ctx, n)
		if err != nil {
			t.Fatalf("create %s: %v", n, err)
		}
		if sub.ID <= prev {
			t.Errorf("expected increasing ids, got %d after %d", sub.ID, prev)
		}
		prev = sub.ID
	}

	list, _ := s.ListSubjects(ctx)
	if len(list) != len(names) {
		t.Fatalf("expected %d subjects, got %d", len(names), len(list))
	}
	for i, n := range names {
		if list[i].Name != n {
			t.Errorf("position %d: expected %q, got %q", i, n, list[i].Name)
		}
	}
}

func TestCreateSubjectEmptyName(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, name := range []string{"", "   ", "\n\t"} {
		_, err := s.CreateSubject(ctx, name)
		if !IsValidation(err) {
			t.Errorf("expected validation error for %q, got %v", name, err)
		}
	}

	list, _ := s.ListSubjects(ctx)
	if len(list) != 0 {
		t.Errorf("expected no subjects stored, got %d", len(list))
	}
}

func TestGetSubject(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sub, _ := s.CreateSubject(ctx, "Chemistry")
	got, err := s.GetSubject(ctx, sub.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Chemistry" {
		t.Errorf("expected 'Chemistry', got %q", got.Name)
	}

	_, err = s.GetSubject(ctx, 999)
	if !IsReference(err) {
		t.Errorf("expected reference error, got %v", err)
	}
}

func TestCreateHomework(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sub, _ := s.CreateSubject(ctx, "Math")
	hw, err := s.CreateHomework(ctx, CreateHomeworkParams{
		SubjectID: sub.ID,
		Text:      "Solve problems 1-5",
		Deadline:  day(2024, 12, 25),
	})
	if err != nil {
		t.Fatalf("create homework: %v", err)
	}
	if hw.SubjectName != "Math" {
		t.Errorf("expected subject name 'Math', got %q", hw.SubjectName)
	}
	if hw.Deadline != "2024-12-25" {
		t.Errorf("expected stored deadline 2024-12-25, got %q", hw.Deadline)
	}

	list, err := s.ListHomeworks(ctx, ListHomeworksParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 homework, got %d", len(list))
	}
	if list[0].Text != "Solve problems 1-5" || list[0].SubjectName != "Math" {
		t.Errorf("unexpected homework %+v", list[0])
	}
}

func TestCreateHomeworkWithFile(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sub, _ := s.CreateSubject(ctx, "Art")
	s.CreateHomework(ctx, CreateHomeworkParams{
		SubjectID: sub.ID, Text: "Sketch", Deadline: day(2025, 1, 1), FileID: "file-abc",
	})

	list, _ := s.ListHomeworks(ctx, ListHomeworksParams{})
	if list[0].FileID != "file-abc" {
		t.Errorf("expected file id to persist, got %q", list[0].FileID)
	}
}

func TestCreateHomeworkMissingSubject(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.CreateHomework(ctx, CreateHomeworkParams{
		SubjectID: 42, Text: "Read", Deadline: day(2025, 1, 1),
	})
	if !IsReference(err) {
		t.Fatalf("expected reference error, got %v", err)
	}

	list, _ := s.ListHomeworks(ctx, ListHomeworksParams{})
	if len(list) != 0 {
		t.Errorf("expected nothing stored, got %d", len(list))
	}
}

func TestCreateHomeworkEmptyText(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sub, _ := s.CreateSubject(ctx, "Math")
	_, err := s.CreateHomework(ctx, CreateHomeworkParams{
		SubjectID: sub.ID, Text: "   ", Deadline: day(2025, 1, 1),
	})
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	ve := err.(*ValidationError)
	if ve.Field != "text" {
		t.Errorf("expected field 'text', got %q", ve.Field)
	}
}

func TestListHomeworksOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sub, _ := s.CreateSubject(ctx, "Math")
	other, _ := s.CreateSubject(ctx, "Biology")

	s.CreateHomework(ctx, CreateHomeworkParams{SubjectID: sub.ID, Text: "late", Deadline: day(2025, 3, 1)})
	s.CreateHomework(ctx, CreateHomeworkParams{SubjectID: other.ID, Text: "tie-a", Deadline: day(2025, 1, 10)})
	s.CreateHomework(ctx, CreateHomeworkParams{SubjectID: sub.ID, Text: "early", Deadline: day(2024, 11, 30)})
	s.CreateHomework(ctx, CreateHomeworkParams{SubjectID: sub.ID, Text: "tie-b", Deadline: day(2025, 1, 10)})

	list, err := s.ListHomeworks(ctx, ListHomeworksParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"early", "tie-a", "tie-b", "late"}
	if len(list) != len(want) {
		t.Fatalf("expected %d, got %d", len(want), len(list))
	}
	for i, w := range want {
		if list[i].Text != w {
			t.Errorf("position %d: expected %q, got %q", i, w, list[i].Text)
		}
	}
	if list[1].ID > list[2].ID {
		t.Error("expected ties ordered by id ascending")
	}
}

func TestListHomeworksBefore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sub, _ := s.CreateSubject(ctx, "Math")
	s.CreateHomework(ctx, CreateHomeworkParams{SubjectID: sub.ID, Text: "a", Deadline: day(2025, 1, 1)})
	s.CreateHomework(ctx, CreateHomeworkParams{SubjectID: sub.ID, Text: "b", Deadline: day(2025, 1, 5)})
	s.CreateHomework(ctx, CreateHomeworkParams{SubjectID: sub.ID, Text: "c", Deadline: day(2025, 2, 1)})

	list, _ := s.ListHomeworks(ctx, ListHomeworksParams{Before: day(2025, 1, 5)})
	if len(list) != 1 || list[0].Text != "a" {
		t.Errorf("expected only 'a' before 2025-01-05, got %+v", list)
	}
}

func TestSchedule(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	math, _ := s.CreateSubject(ctx, "Math")
	bio, _ := s.CreateSubject(ctx, "Biology")

	add := func(d string, sub int64, tm string) {
		t.Helper()
		if _, err := s.CreateScheduleEntry(ctx, CreateScheduleParams{Day: d, SubjectID: sub, Time: tm}); err != nil {
			t.Fatalf("add %s %s: %v", d, tm, err)
		}
	}
	add("friday", math.ID, "09:00")
	add("holiday", bio.ID, "08:00")
	add("Monday", bio.ID, "12:00")
	add("sunday", math.ID, "10:00")
	add("monday", math.ID, "08:30")
	add("wednesday", bio.ID, "11:00")

	list, err := s.ListSchedule(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []struct{ day, time, subject string }{
		{"monday", "08:30", "Math"},
		{"monday", "12:00", "Biology"},
		{"wednesday", "11:00", "Biology"},
		{"friday", "09:00", "Math"},
		{"sunday", "10:00", "Math"},
		{"holiday", "08:00", "Biology"},
	}
	if len(list) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(list))
	}
	for i, w := range want {
		got := list[i]
		if got.Day != w.day || got.Time != w.time || got.SubjectName != w.subject {
			t.Errorf("position %d: expected %+v, got %+v", i, w, got)
		}
	}
}

func TestScheduleTimeIsTextOrdered(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sub, _ := s.CreateSubject(ctx, "Math")
	s.CreateScheduleEntry(ctx, CreateScheduleParams{Day: "monday", SubjectID: sub.ID, Time: "9:00"})
	s.CreateScheduleEntry(ctx, CreateScheduleParams{Day: "monday", SubjectID: sub.ID, Time: "10:00"})

	list, _ := s.ListSchedule(ctx)
	// "10:00" < "9:00" as text.
	if list[0].Time != "10:00" || list[1].Time != "9:00" {
		t.Errorf("expected text ordering, got %s then %s", list[0].Time, list[1].Time)
	}
}

func TestCreateScheduleEntryErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.CreateScheduleEntry(ctx, CreateScheduleParams{Day: "monday", SubjectID: 7, Time: "10:00"})
	if !IsReference(err) {
		t.Errorf("expected reference error, got %v", err)
	}

	sub, _ := s.CreateSubject(ctx, "Math")
	_, err = s.CreateScheduleEntry(ctx, CreateScheduleParams{Day: "monday", SubjectID: sub.ID, Time: " "})
	if !IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDBPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected db file to be created")
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.CreateSubject(ctx, "Math")
	s.Close()

	s2, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	list, _ := s2.ListSubjects(ctx)
	if len(list) != 1 {
		t.Errorf("expected 1 subject after reopen, got %d", len(list))
	}
}
