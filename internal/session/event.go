package session

import (
	"strconv"
	"strings"

	"github.com/rcliao/studybot/internal/render"
)

// Event is an inbound user action. The set of kinds is closed:
// Start, Selection and Text.
type Event interface {
	isEvent()
}

// Start is sent when a user opens the conversation.
type Start struct{}

// Selection is a button tap carrying the button's selector.
type Selection struct {
	Value string
}

// Text is a free-text message.
type Text struct {
	Value string
}

func (Start) isEvent()     {}
func (Selection) isEvent() {}
func (Text) isEvent()      {}

// selector is a decoded Selection value.
type selector interface {
	isSelector()
}

type (
	showSchedule  struct{}
	showHomeworks struct{}
	addSubject    struct{}
	addHomework   struct{}
	pickSubject   struct{ id int64 }
)

func (showSchedule) isSelector()  {}
func (showHomeworks) isSelector() {}
func (addSubject) isSelector()    {}
func (addHomework) isSelector()   {}
func (pickSubject) isSelector()   {}

// parseSelector decodes a button selector. Unknown values report false.
func parseSelector(v string) (selector, bool) {
	switch v {
	case render.SelectorSchedule:
		return showSchedule{}, true
	case render.SelectorHomeworks:
		return showHomeworks{}, true
	case render.SelectorAddSubject:
		return addSubject{}, true
	case render.SelectorAddHomework:
		return addHomework{}, true
	}
	if rest, ok := strings.CutPrefix(v, render.SubjectSelectorPrefix); ok {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err == nil && id > 0 {
			return pickSubject{id: id}, true
		}
	}
	return nil, false
}
