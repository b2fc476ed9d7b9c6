// Package session interprets inbound events as multi-step input flows
// and decides the reply for each one.
package session

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/rcliao/studybot/internal/dates"
	"github.com/rcliao/studybot/internal/render"
	"github.com/rcliao/studybot/internal/store"
)

// Reply is an outbound message. With no buttons it is a plain message.
type Reply struct {
	Text    string          `json:"text"`
	Buttons []render.Button `json:"buttons,omitempty"`
}

// Kind names the outbound action kind.
func (r Reply) Kind() string {
	if len(r.Buttons) > 0 {
		return "message_with_buttons"
	}
	return "message"
}

// Machine runs the session state machine. It is safe for concurrent use;
// events for the same user are serialised by that user's lock.
type Machine struct {
	store    store.Store
	renderer *render.Renderer
	sessions *Registry
}

// NewMachine returns a Machine with an empty session registry.
func NewMachine(s store.Store, r *render.Renderer) *Machine {
	return &Machine{
		store:    s,
		renderer: r,
		sessions: NewRegistry(),
	}
}

// Sessions exposes the registry for inspection.
func (m *Machine) Sessions() *Registry {
	return m.sessions
}

// Handle processes one event for a user and returns the reply to send,
// if any. The user's state is updated before Handle returns; sending the
// reply is left to the caller.
func (m *Machine) Handle(ctx context.Context, userID int64, ev Event) (Reply, bool) {
	e := m.sessions.acquire(userID)
	defer e.mu.Unlock()

	reply, next, ok := m.transition(ctx, userID, e.state, ev)
	e.state = next
	return reply, ok
}

func (m *Machine) transition(ctx context.Context, userID int64, st State, ev Event) (Reply, State, bool) {
	switch ev := ev.(type) {
	case Start:
		return m.start(st)
	case Selection:
		return m.selection(ctx, userID, st, ev.Value)
	case Text:
		return m.text(ctx, userID, st, ev.Value)
	default:
		log.Printf("session: user %d: unhandled event %T", userID, ev)
		return Reply{}, st, false
	}
}

func (m *Machine) start(st State) (Reply, State, bool) {
	text, err := m.renderer.Greeting()
	if err != nil {
		log.Printf("session: greeting: %v", err)
		return internalError(), st, true
	}
	return Reply{Text: text, Buttons: render.MainMenu()}, st, true
}

func (m *Machine) selection(ctx context.Context, userID int64, st State, value string) (Reply, State, bool) {
	sel, ok := parseSelector(value)
	if !ok {
		log.Printf("session: user %d: ignoring unknown selector %q", userID, value)
		return Reply{}, st, false
	}

	switch sel := sel.(type) {
	case showSchedule:
		text, err := m.renderer.Schedule(ctx)
		if err != nil {
			log.Printf("session: user %d: schedule: %v", userID, err)
			return internalError(), st, true
		}
		return Reply{Text: text}, st, true

	case showHomeworks:
		text, err := m.renderer.HomeworkList(ctx, store.ListHomeworksParams{})
		if err != nil {
			log.Printf("session: user %d: homeworks: %v", userID, err)
			return internalError(), st, true
		}
		return Reply{Text: text}, st, true

	case addSubject:
		return Reply{Text: render.MsgEnterSubject}, AwaitingSubjectName(), true

	case addHomework:
		buttons, err := m.renderer.SubjectPicker(ctx)
		if errors.Is(err, render.ErrNoSubjects) {
			return Reply{Text: render.MsgNoSubjects}, st, true
		}
		if err != nil {
			log.Printf("session: user %d: subject picker: %v", userID, err)
			return internalError(), st, true
		}
		return Reply{Text: render.MsgPickSubject, Buttons: buttons}, st, true

	case pickSubject:
		return Reply{Text: render.MsgEnterHomework}, AwaitingHomeworkDetails(sel.id), true

	default:
		log.Printf("session: user %d: unhandled selector %T", userID, sel)
		return Reply{}, st, false
	}
}

func (m *Machine) text(ctx context.Context, userID int64, st State, value string) (Reply, State, bool) {
	switch st.Kind {
	case KindAwaitingSubjectName:
		return m.finishSubject(ctx, userID, st, value)
	case KindAwaitingHomeworkDetails:
		return m.finishHomework(ctx, userID, st, value)
	default:
		// No flow pending.
		return Reply{}, st, false
	}
}

func (m *Machine) finishSubject(ctx context.Context, userID int64, st State, name string) (Reply, State, bool) {
	sub, err := m.store.CreateSubject(ctx, name)
	if store.IsValidation(err) {
		return Reply{Text: render.MsgEmptySubject}, st, true
	}
	if err != nil {
		log.Printf("session: user %d: create subject: %v", userID, err)
		return internalError(), Idle(), true
	}

	text, err := m.renderer.SubjectAdded(sub)
	if err != nil {
		log.Printf("session: user %d: subject confirmation: %v", userID, err)
		return internalError(), Idle(), true
	}
	return Reply{Text: text}, Idle(), true
}

func (m *Machine) finishHomework(ctx context.Context, userID int64, st State, value string) (Reply, State, bool) {
	lines := strings.Split(strings.ReplaceAll(value, "\r\n", "\n"), "\n")
	if len(lines) < 2 {
		return Reply{Text: render.MsgNeedTwoLines}, st, true
	}

	deadline, err := dates.ParseUserDate(strings.TrimSpace(lines[1]))
	if err != nil {
		return Reply{Text: render.MsgBadDate}, st, true
	}

	hw, err := m.store.CreateHomework(ctx, store.CreateHomeworkParams{
		SubjectID: st.SubjectID,
		Text:      lines[0],
		Deadline:  deadline,
	})
	switch {
	case store.IsValidation(err):
		return Reply{Text: render.MsgEmptyTask}, st, true
	case err != nil:
		log.Printf("session: user %d: create homework: %v", userID, err)
		return internalError(), Idle(), true
	}

	text, err := m.renderer.HomeworkAdded(hw)
	if err != nil {
		log.Printf("session: user %d: homework confirmation: %v", userID, err)
		return internalError(), Idle(), true
	}
	return Reply{Text: text}, Idle(), true
}

func internalError() Reply {
	return Reply{Text: render.MsgInternalError}
}
