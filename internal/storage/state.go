package storage

import "fmt"

// Role tells who produced a chat message
type Role string

const (
	RoleAssistant Role = "Assistant"
	RoleSystem    Role = "System"
	RoleUser      Role = "User"
)

// Values lists every role label in declaration order
func (Role) Values() []string {
	return []string{string(RoleAssistant), string(RoleSystem), string(RoleUser)}
}

func (r Role) String() string { return string(r) }

// Valid reports whether r is one of the declared roles
func (r Role) Valid() bool {
	switch r {
	case RoleAssistant, RoleSystem, RoleUser:
		return true
	}
	return false
}

// ParseRole converts a stored label back into Role
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown chat message role %q", s)
	}
	return r, nil
}

// State is the processing state of a chat message.
//
// Generated messages move Pending -> Loading -> Ready or Error. Ready and Error are final:
// once content is finalized or generation failed the row is not reopened.
type State string

const (
	StatePending State = "Pending"
	StateLoading State = "Loading"
	StateReady   State = "Ready"
	StateError   State = "Error"
)

var transitions = map[State][]State{
	StatePending: {StateLoading},
	StateLoading: {StateReady, StateError},
}

// Values lists every state label in declaration order
func (State) Values() []string {
	return []string{string(StatePending), string(StateLoading), string(StateReady), string(StateError)}
}

func (s State) String() string { return string(s) }

// Valid reports whether s is one of the declared states
func (s State) Valid() bool {
	switch s {
	case StatePending, StateLoading, StateReady, StateError:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s
func (s State) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CanTransition reports whether a message in state s may be moved to state to
func (s State) CanTransition(to State) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseState converts a stored label back into State
func ParseState(s string) (State, error) {
	st := State(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown chat message state %q", s)
	}
	return st, nil
}
