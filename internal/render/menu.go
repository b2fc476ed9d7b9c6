package render

// Main menu selectors.
const (
	SelectorSchedule    = "schedule"
	SelectorHomeworks   = "homeworks"
	SelectorAddSubject  = "add_subject"
	SelectorAddHomework = "add_homework"
)

// MainMenu returns the buttons shown with the greeting.
func MainMenu() []Button {
	return []Button{
		{Label: "📅 Schedule", Selector: SelectorSchedule},
		{Label: "📚 Homework", Selector: SelectorHomeworks},
		{Label: "➕ Add subject", Selector: SelectorAddSubject},
		{Label: "📝 Add homework", Selector: SelectorAddHomework},
	}
}
