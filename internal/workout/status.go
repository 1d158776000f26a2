package workout

// Status is the lifecycle state of a workout session.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusPaused     Status = "paused"
	StatusCompleted  Status = "completed"
	StatusAbandoned  Status = "abandoned"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusInProgress, StatusPaused, StatusCompleted, StatusAbandoned:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// IsActive reports whether the session still counts as the owner's active one.
func (s Status) IsActive() bool {
	return s == StatusInProgress || s == StatusPaused
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

// Action is anything that may change, or requires, a session state.
type Action string

const (
	ActionPause     Action = "pause"
	ActionResume    Action = "resume"
	ActionComplete  Action = "complete"
	ActionAbandon   Action = "abandon"
	ActionAddSlot   Action = "add_slot"
	ActionRecordSet Action = "record_set"
)

func (a Action) String() string {
	return string(a)
}

// transitions lists every legal (status, action) pair and the resulting status.
// Anything missing here is rejected. Terminal states have no outgoing edges.
// Writes to slots and sets are only accepted while in progress; a paused
// session must be resumed first.
var transitions = map[Status]map[Action]Status{
	StatusInProgress: {
		ActionPause:     StatusPaused,
		ActionComplete:  StatusCompleted,
		ActionAbandon:   StatusAbandoned,
		ActionAddSlot:   StatusInProgress,
		ActionRecordSet: StatusInProgress,
	},
	StatusPaused: {
		ActionResume:   StatusInProgress,
		ActionComplete: StatusCompleted,
		ActionAbandon:  StatusAbandoned,
	},
}

// Next returns the status reached by applying the action, or a *TransitionError.
func (s Status) Next(action Action) (Status, error) {
	if next, ok := transitions[s][action]; ok {
		return next, nil
	}
	return s, &TransitionError{From: s, Action: action}
}

func (s Status) Allows(action Action) bool {
	_, ok := transitions[s][action]
	return ok
}
