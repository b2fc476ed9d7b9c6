package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rcliao/studybot/internal/render"
	"github.com/rcliao/studybot/internal/session"
	"github.com/rcliao/studybot/internal/store"
)

func newTestMachine(t *testing.T) (*session.Machine, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return session.NewMachine(s, render.New(s)), s
}

func TestConsoleParse(t *testing.T) {
	c := NewConsole(strings.NewReader(""), io.Discard, 1)
	c.buttons = []render.Button{{Label: "A", Selector: "add_subject"}, {Label: "B", Selector: "schedule"}}

	tests := []struct {
		in   string
		want session.Event
		ok   bool
	}{
		{"/start", session.Start{}, true},
		{" /menu ", session.Start{}, true},
		{"2", session.Selection{Value: "schedule"}, true},
		{"3", session.Text{Value: "3"}, true},
		{"0", session.Text{Value: "0"}, true},
		{"Math", session.Text{Value: "Math"}, true},
		{"   ", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := c.parse(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestConsoleContinuationLines(t *testing.T) {
	c := NewConsole(strings.NewReader("Solve problems\\\n25.12.2024\nnext\n"), io.Discard, 1)
	ctx := context.Background()

	env, err := c.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if env.Event != (session.Text{Value: "Solve problems\n25.12.2024"}) {
		t.Errorf("unexpected event %#v", env.Event)
	}
	if env.ID == "" || env.UserID != 1 {
		t.Errorf("expected id and user set, got %+v", env)
	}

	env, _ = c.Next(ctx)
	if env.Event != (session.Text{Value: "next"}) {
		t.Errorf("unexpected event %#v", env.Event)
	}

	if _, err := c.Next(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestConsoleQuit(t *testing.T) {
	c := NewConsole(strings.NewReader("/quit\n/start\n"), io.Discard, 1)
	if _, err := c.Next(context.Background()); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF on /quit, got %v", err)
	}
}

func TestConsoleSession(t *testing.T) {
	m, s := newTestMachine(t)
	input := strings.Join([]string{
		"/start",
		"3",
		"Math",
		"/start",
		"4",
		"1",
		`Solve problems 1-5\`,
		"25.12.2024",
	}, "\n") + "\n"

	var out bytes.Buffer
	c := NewConsole(strings.NewReader(input), &out, 5)
	if err := Run(context.Background(), c, m, c); err != nil {
		t.Fatalf("run: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"[1] 📅 Schedule",
		render.MsgEnterSubject,
		"Subject 'Math' added",
		render.MsgPickSubject,
		"[1] Math",
		"Homework added",
		"📅 Deadline: 25.12.2024",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in output:\n%s", want, text)
		}
	}

	homeworks, _ := s.ListHomeworks(context.Background(), store.ListHomeworksParams{})
	if len(homeworks) != 1 || homeworks[0].SubjectName != "Math" {
		t.Errorf("expected one Math homework, got %+v", homeworks)
	}
}

func TestJSONLines(t *testing.T) {
	m, _ := newTestMachine(t)
	input := strings.Join([]string{
		`{"user":1,"kind":"selection","value":"add_subject"}`,
		`not json`,
		`{"user":2,"kind":"text","value":"ignored while idle"}`,
		`{"kind":"bogus"}`,
		`{"user":1,"kind":"text","value":"Physics"}`,
		``,
		`{"kind":"selection","value":"add_homework"}`,
	}, "\n")

	var out bytes.Buffer
	j := NewJSONLines(strings.NewReader(input), &out, 9)
	if err := Run(context.Background(), j, m, j); err != nil {
		t.Fatalf("run: %v", err)
	}

	dec := json.NewDecoder(&out)
	var lines []outboundLine
	for {
		var l outboundLine
		if err := dec.Decode(&l); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode output: %v", err)
		}
		lines = append(lines, l)
	}

	if len(lines) != 3 {
		t.Fatalf("expected 3 replies, got %d: %+v", len(lines), lines)
	}
	if lines[0].User != 1 || lines[0].Kind != "message" || lines[0].Text != render.MsgEnterSubject {
		t.Errorf("unexpected first reply %+v", lines[0])
	}
	if lines[1].User != 1 || !strings.Contains(lines[1].Text, "Physics") {
		t.Errorf("unexpected second reply %+v", lines[1])
	}
	if lines[2].User != 9 || lines[2].Kind != "message_with_buttons" || len(lines[2].Buttons) != 1 {
		t.Errorf("unexpected third reply %+v", lines[2])
	}
	if lines[2].Buttons[0].Selector != "subject_1" {
		t.Errorf("expected subject_1 selector, got %q", lines[2].Buttons[0].Selector)
	}
	if lines[0].EventID == "" || lines[0].EventID == lines[1].EventID {
		t.Error("expected distinct event ids")
	}
}

func TestJSONLinesSkipsOversizedLine(t *testing.T) {
	m, _ := newTestMachine(t)
	huge := `{"user":1,"kind":"text","value":"` + strings.Repeat("x", 2*maxJSONLine) + `"}`
	input := huge + "\n" + `{"user":1,"kind":"start"}` + "\n"

	var out bytes.Buffer
	j := NewJSONLines(strings.NewReader(input), &out, 1)
	if err := Run(context.Background(), j, m, j); err != nil {
		t.Fatalf("run: %v", err)
	}

	var l outboundLine
	if err := json.NewDecoder(&out).Decode(&l); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if l.Kind != "message_with_buttons" || len(l.Buttons) != 4 {
		t.Errorf("expected main menu after oversized line, got %+v", l)
	}
}

func TestConsoleSkipsOversizedLine(t *testing.T) {
	input := "Math\\\n" + strings.Repeat("y", maxConsoleLine+1) + "\nPhysics\n"
	c := NewConsole(strings.NewReader(input), io.Discard, 1)

	env, err := c.Next(context.Background())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if env.Event != (session.Text{Value: "Physics"}) {
		t.Errorf("expected event after oversized line, got %#v", env.Event)
	}
	if _, err := c.Next(context.Background()); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestLineReader(t *testing.T) {
	r := newLineReader(strings.NewReader("short\r\n"+strings.Repeat("z", 10)+"\nabcd\nlast"), 4)

	want := []struct {
		line string
		err  error
	}{
		{"", errLineTooLong},
		{"", errLineTooLong},
		{"abcd", nil},
		{"last", nil},
		{"", io.EOF},
	}
	for i, w := range want {
		line, err := r.next()
		if line != w.line || !errors.Is(err, w.err) {
			t.Errorf("read %d: got (%q, %v), want (%q, %v)", i, line, err, w.line, w.err)
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	m, _ := newTestMachine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewConsole(strings.NewReader("/start\n"), io.Discard, 1)
	if err := Run(ctx, c, m, c); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent("selection", "schedule")
	if err != nil || ev != (session.Selection{Value: "schedule"}) {
		t.Errorf("unexpected %#v, %v", ev, err)
	}
	if EventKind(ev) != "selection" {
		t.Errorf("unexpected kind %q", EventKind(ev))
	}
	if _, err := ParseEvent("photo", ""); err == nil {
		t.Error("expected error for unknown kind")
	}
}
