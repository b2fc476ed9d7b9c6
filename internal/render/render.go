// Package render reads study data and turns it into reply text and buttons.
package render

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rcliao/studybot/internal/dates"
	"github.com/rcliao/studybot/internal/model"
	"github.com/rcliao/studybot/internal/store"
)

// SubjectSelectorPrefix starts the selector of every subject picker button.
const SubjectSelectorPrefix = "subject_"

// ErrNoSubjects is returned by SubjectPicker when there is nothing to pick.
var ErrNoSubjects = errors.New("no subjects")

// Button is a labelled choice; Selector is sent back when it is tapped.
type Button struct {
	Label    string `json:"label"`
	Selector string `json:"selector"`
}

// Renderer builds reply text from the store.
type Renderer struct {
	Store     store.Store
	Now       func() time.Time
	Templates Templates
}

// New returns a Renderer using the wall clock and default templates.
func New(s store.Store) *Renderer {
	return &Renderer{
		Store:     s,
		Now:       time.Now,
		Templates: DefaultTemplates(),
	}
}

// SubjectSelector returns the button selector for a subject id.
func SubjectSelector(id int64) string {
	return SubjectSelectorPrefix + strconv.FormatInt(id, 10)
}

// HomeworkList renders homeworks in deadline order. Rows whose stored
// deadline does not parse are left out.
func (r *Renderer) HomeworkList(ctx context.Context, p store.ListHomeworksParams) (string, error) {
	homeworks, err := r.Store.ListHomeworks(ctx, p)
	if err != nil {
		return "", fmt.Errorf("list homeworks: %w", err)
	}

	now := r.Now()
	var b strings.Builder
	rendered := 0
	for _, hw := range homeworks {
		deadline, err := dates.ParseStoredDate(hw.Deadline)
		if err != nil {
			log.Printf("render: skipping homework %d: %v", hw.ID, err)
			continue
		}
		days := dates.DaysUntil(deadline, now)
		status := "⏰"
		if days < 0 {
			status = "✅"
		}
		fmt.Fprintf(&b, "%s %s\n", status, hw.SubjectName)
		fmt.Fprintf(&b, "📝 %s\n", hw.Text)
		fmt.Fprintf(&b, "📅 Deadline: %s (%s)\n\n", hw.Deadline, dayCount(days))
		rendered++
	}

	if rendered == 0 {
		return MsgNoHomework, nil
	}
	return homeworkListHeader + strings.TrimRight(b.String(), "\n"), nil
}

func dayCount(days int) string {
	if days == 1 || days == -1 {
		return fmt.Sprintf("%d day", days)
	}
	return fmt.Sprintf("%d days", days)
}

// Schedule renders the weekly schedule, one header per run of equal day labels.
func (r *Renderer) Schedule(ctx context.Context) (string, error) {
	entries, err := r.Store.ListSchedule(ctx)
	if err != nil {
		return "", fmt.Errorf("list schedule: %w", err)
	}
	if len(entries) == 0 {
		return MsgScheduleEmpty, nil
	}

	var b strings.Builder
	b.WriteString(scheduleHeader)
	current := ""
	for i, e := range entries {
		// Rows are ordered by the normalised label, so group on it too.
		day := strings.ToLower(strings.TrimSpace(e.Day))
		if i == 0 || day != current {
			current = day
			fmt.Fprintf(&b, "\n📌 %s:\n", capitalize(current))
		}
		fmt.Fprintf(&b, "🕒 %s - %s\n", e.Time, e.SubjectName)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// SubjectPicker returns one button per subject in insertion order,
// or ErrNoSubjects if none exist.
func (r *Renderer) SubjectPicker(ctx context.Context) ([]Button, error) {
	subjects, err := r.Store.ListSubjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	if len(subjects) == 0 {
		return nil, ErrNoSubjects
	}
	buttons := make([]Button, 0, len(subjects))
	for _, s := range subjects {
		buttons = append(buttons, Button{Label: s.Name, Selector: SubjectSelector(s.ID)})
	}
	return buttons, nil
}

// Greeting renders the welcome text shown with the main menu.
func (r *Renderer) Greeting() (string, error) {
	return renderTemplate(r.Templates.Greeting, map[string]string{})
}

// SubjectAdded renders the confirmation for a new subject.
func (r *Renderer) SubjectAdded(s *model.Subject) (string, error) {
	return renderTemplate(r.Templates.SubjectAdded, map[string]string{
		"name": s.Name,
		"id":   strconv.FormatInt(s.ID, 10),
	})
}

// HomeworkAdded renders the confirmation for a new homework. The deadline
// is echoed as DD.MM.YYYY.
func (r *Renderer) HomeworkAdded(hw *model.Homework) (string, error) {
	deadline := hw.Deadline
	if t, err := dates.ParseStoredDate(hw.Deadline); err == nil {
		deadline = dates.FormatUserDate(t)
	}
	return renderTemplate(r.Templates.HomeworkAdded, map[string]string{
		"subject":  hw.SubjectName,
		"task":     hw.Text,
		"deadline": deadline,
		"stored":   hw.Deadline,
	})
}
