package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rcliao/studybot/internal/render"
	"github.com/rcliao/studybot/internal/session"
)

// ConsoleHelp describes the console input conventions.
const ConsoleHelp = `/start or /menu  show the main menu
<number>         tap a button from the last reply
line ending in \ continue the message on the next line
/quit            leave`

// Console is an interactive line-based transport for a single user.
// It is both the Source and the Sink of a Run loop.
type Console struct {
	UserID int64
	Prompt bool

	in      *lineReader
	out     io.Writer
	ids     *idSource
	buttons []render.Button

	botStyle    lipgloss.Style
	buttonStyle lipgloss.Style
	indexStyle  lipgloss.Style
	promptStyle lipgloss.Style
}

// NewConsole returns a console reading from r and writing to w.
func NewConsole(r io.Reader, w io.Writer, userID int64) *Console {
	lr := lipgloss.NewRenderer(w)
	return &Console{
		UserID:      userID,
		in:          newLineReader(r, maxConsoleLine),
		out:         w,
		ids:         newIDSource(),
		botStyle:    lr.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		buttonStyle: lr.NewStyle().Foreground(lipgloss.Color("120")),
		indexStyle:  lr.NewStyle().Foreground(lipgloss.Color("246")),
		promptStyle: lr.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Next reads the next event. Blank lines are skipped.
func (c *Console) Next(ctx context.Context) (Envelope, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Envelope{}, err
		}
		line, err := c.readMessage()
		if errors.Is(err, errLineTooLong) {
			log.Printf("console: skipping message with a line over %d bytes", maxConsoleLine)
			continue
		}
		if err != nil {
			return Envelope{}, err
		}
		if strings.TrimSpace(line) == "/quit" {
			return Envelope{}, io.EOF
		}
		ev, ok := c.parse(line)
		if !ok {
			continue
		}
		return Envelope{ID: c.ids.next(), UserID: c.UserID, Event: ev}, nil
	}
}

// readMessage joins lines ending in a backslash into one message.
func (c *Console) readMessage() (string, error) {
	var parts []string
	for {
		if c.Prompt {
			p := "you> "
			if len(parts) > 0 {
				p = "...> "
			}
			fmt.Fprint(c.out, c.promptStyle.Render(p))
		}
		line, err := c.in.next()
		if errors.Is(err, io.EOF) && len(parts) > 0 {
			return strings.Join(parts, "\n"), nil
		}
		if err != nil {
			// Parts read before a dropped line are discarded with it.
			return "", err
		}
		if strings.HasSuffix(line, `\`) {
			parts = append(parts, strings.TrimSuffix(line, `\`))
			continue
		}
		parts = append(parts, line)
		return strings.Join(parts, "\n"), nil
	}
}

func (c *Console) parse(line string) (session.Event, bool) {
	trimmed := strings.TrimSpace(line)
	switch trimmed {
	case "":
		return nil, false
	case "/start", "/menu":
		return session.Start{}, true
	}
	if n, err := strconv.Atoi(trimmed); err == nil && n >= 1 && n <= len(c.buttons) {
		return session.Selection{Value: c.buttons[n-1].Selector}, true
	}
	return session.Text{Value: line}, true
}

// Send prints a reply and remembers its buttons for numeric picks.
func (c *Console) Send(ctx context.Context, env Envelope, r session.Reply) error {
	c.buttons = r.Buttons

	var b strings.Builder
	b.WriteString(c.botStyle.Render("bot>"))
	b.WriteString(" ")
	b.WriteString(r.Text)
	b.WriteString("\n")
	for i, btn := range r.Buttons {
		fmt.Fprintf(&b, "  %s %s\n", c.indexStyle.Render(fmt.Sprintf("[%d]", i+1)), c.buttonStyle.Render(btn.Label))
	}
	_, err := io.WriteString(c.out, b.String())
	return err
}
