package render

import (
	"github.com/cbroglie/mustache"
)

// Fixed replies.
const (
	MsgNoHomework      = "No active homework"
	MsgScheduleEmpty   = "The schedule is not populated yet."
	MsgNoSubjects      = "Add a subject first with the \"Add subject\" button"
	MsgEnterSubject    = "Enter the subject name:"
	MsgPickSubject     = "Pick a subject for the homework:"
	MsgEnterHomework   = "Now send the task description and the deadline:\nTask description\nDD.MM.YYYY\n\nFor example:\nSolve problems 1-5\n25.12.2024"
	MsgBadDate         = "❌ Invalid date. Use DD.MM.YYYY (for example: 25.12.2024)"
	MsgNeedTwoLines    = "❌ Please send the description and the date in the format shown"
	MsgEmptySubject    = "❌ The subject name can't be empty. Enter the subject name:"
	MsgEmptyTask       = "❌ The task description can't be empty"
	MsgInternalError   = "⚠️ Something went wrong, please start over"
	homeworkListHeader = "📚 Active homework:\n\n"
	scheduleHeader     = "📅 Weekly schedule:\n"
)

// Default templates. Values are inserted unescaped.
const (
	DefaultGreeting      = "Hi! I keep track of your class schedule and homework deadlines.\nChoose an action:"
	DefaultSubjectAdded  = "✅ Subject '{{{name}}}' added!"
	DefaultHomeworkAdded = "✅ Homework added!\n📖 Subject: {{{subject}}}\n📝 Task: {{{task}}}\n📅 Deadline: {{{deadline}}}"
)

// Templates holds the mustache templates for configurable replies.
type Templates struct {
	Greeting      string
	SubjectAdded  string
	HomeworkAdded string
}

// DefaultTemplates returns the built-in templates.
func DefaultTemplates() Templates {
	return Templates{
		Greeting:      DefaultGreeting,
		SubjectAdded:  DefaultSubjectAdded,
		HomeworkAdded: DefaultHomeworkAdded,
	}
}

// WithOverrides returns t with every non-empty field of o replacing its counterpart.
func (t Templates) WithOverrides(o Templates) Templates {
	if o.Greeting != "" {
		t.Greeting = o.Greeting
	}
	if o.SubjectAdded != "" {
		t.SubjectAdded = o.SubjectAdded
	}
	if o.HomeworkAdded != "" {
		t.HomeworkAdded = o.HomeworkAdded
	}
	return t
}

func renderTemplate(tmpl string, data map[string]string) (string, error) {
	return mustache.Render(tmpl, data)
}
