package session

import "fmt"

// StateKind tells which input flow, if any, a user is in.
type StateKind int

const (
	KindIdle StateKind = iota
	KindAwaitingSubjectName
	KindAwaitingHomeworkDetails
)

// State is a user's session state. SubjectID is set only for
// KindAwaitingHomeworkDetails.
type State struct {
	Kind      StateKind
	SubjectID int64
}

// Idle is the state with no pending flow.
func Idle() State { return State{Kind: KindIdle} }

// AwaitingSubjectName waits for the name of a new subject.
func AwaitingSubjectName() State { return State{Kind: KindAwaitingSubjectName} }

// AwaitingHomeworkDetails waits for task text and deadline for a subject.
func AwaitingHomeworkDetails(subjectID int64) State {
	return State{Kind: KindAwaitingHomeworkDetails, SubjectID: subjectID}
}

func (s State) String() string {
	switch s.Kind {
	case KindIdle:
		return "idle"
	case KindAwaitingSubjectName:
		return "awaiting_subject_name"
	case KindAwaitingHomeworkDetails:
		return fmt.Sprintf("awaiting_homework_details(%d)", s.SubjectID)
	default:
		return fmt.Sprintf("unknown(%d)", int(s.Kind))
	}
}
