// Package transport feeds inbound events to the session machine and
// delivers its replies.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/studybot/internal/session"
)

// Envelope is an inbound event tagged with its user and a unique id.
type Envelope struct {
	ID     string
	UserID int64
	Event  session.Event
}

// Handler decides the reply to an event.
type Handler interface {
	Handle(ctx context.Context, userID int64, ev session.Event) (session.Reply, bool)
}

// Source yields inbound envelopes. Next returns io.EOF when input ends.
type Source interface {
	Next(ctx context.Context) (Envelope, error)
}

// Sink delivers a reply for an envelope.
type Sink interface {
	Send(ctx context.Context, env Envelope, r session.Reply) error
}

// Run processes events one at a time until the source is exhausted or
// ctx is cancelled. Replies are sent after the handler has committed the
// user's new state.
func Run(ctx context.Context, src Source, h Handler, sink Sink) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		env, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read event: %w", err)
		}

		reply, ok := h.Handle(ctx, env.UserID, env.Event)
		log.Printf("event %s user=%d kind=%s replied=%t", env.ID, env.UserID, EventKind(env.Event), ok)
		if !ok {
			continue
		}
		if err := sink.Send(ctx, env, reply); err != nil {
			return fmt.Errorf("send reply: %w", err)
		}
	}
}

// EventKind names an event's kind as used on the wire.
func EventKind(ev session.Event) string {
	switch ev.(type) {
	case session.Start:
		return "start"
	case session.Selection:
		return "selection"
	case session.Text:
		return "text"
	default:
		return "unknown"
	}
}

// ParseEvent builds an event from a wire kind and value.
func ParseEvent(kind, value string) (session.Event, error) {
	switch kind {
	case "start":
		return session.Start{}, nil
	case "selection":
		return session.Selection{Value: value}, nil
	case "text":
		return session.Text{Value: value}, nil
	default:
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}
}

// idSource hands out ULIDs for envelopes.
type idSource struct {
	mu      sync.Mutex
	entropy *rand.Rand
}

func newIDSource() *idSource {
	return &idSource{entropy: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *idSource) next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}
