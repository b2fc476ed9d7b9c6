package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/rcliao/studybot/internal/render"
	"github.com/rcliao/studybot/internal/session"
)

type inboundLine struct {
	User  int64  `json:"user"`
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type outboundLine struct {
	User    int64           `json:"user"`
	EventID string          `json:"event_id"`
	Kind    string          `json:"kind"`
	Text    string          `json:"text"`
	Buttons []render.Button `json:"buttons,omitempty"`
}

// JSONLines reads one JSON event per line and writes one JSON reply per line.
// Lines that do not decode, or exceed 1 MiB, are logged and skipped.
type JSONLines struct {
	DefaultUser int64

	in  *lineReader
	enc *json.Encoder
	ids *idSource
}

// NewJSONLines returns a JSON-lines transport over r and w.
func NewJSONLines(r io.Reader, w io.Writer, defaultUser int64) *JSONLines {
	return &JSONLines{
		DefaultUser: defaultUser,
		in:          newLineReader(r, maxJSONLine),
		enc:         json.NewEncoder(w),
		ids:         newIDSource(),
	}
}

func (j *JSONLines) Next(ctx context.Context) (Envelope, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Envelope{}, err
		}
		raw, err := j.in.next()
		if errors.Is(err, errLineTooLong) {
			log.Printf("jsonl: skipping line over %d bytes", maxJSONLine)
			continue
		}
		if err != nil {
			return Envelope{}, err
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		env, err := j.decode(line)
		if err != nil {
			log.Printf("jsonl: skipping line: %v", err)
			continue
		}
		return env, nil
	}
}

func (j *JSONLines) decode(line string) (Envelope, error) {
	var in inboundLine
	if err := json.Unmarshal([]byte(line), &in); err != nil {
		return Envelope{}, fmt.Errorf("parse json: %w", err)
	}
	ev, err := ParseEvent(in.Kind, in.Value)
	if err != nil {
		return Envelope{}, err
	}
	user := in.User
	if user == 0 {
		user = j.DefaultUser
	}
	return Envelope{ID: j.ids.next(), UserID: user, Event: ev}, nil
}

func (j *JSONLines) Send(ctx context.Context, env Envelope, r session.Reply) error {
	return j.enc.Encode(outboundLine{
		User:    env.UserID,
		EventID: env.ID,
		Kind:    r.Kind(),
		Text:    r.Text,
		Buttons: r.Buttons,
	})
}
