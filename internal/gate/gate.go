// Package gate decides what the user sees before any command runs.
package gate

import "github.com/spigell/resume-tailor/internal/auth"

type State int

const (
	// Resolving is the initial state: the session check has not finished.
	Resolving State = iota
	Unauthenticated
	Authenticated
)

func (s State) String() string {
	switch s {
	case Resolving:
		return "resolving"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is the part of the session holder the gate looks at.
type Session interface {
	Loading() bool
	User() *auth.User
}

// Current returns the gate state for the session. Loading always wins so that
// neither of the other states is shown before the session is resolved.
func Current(s Session) State {
	if s == nil || s.Loading() {
		return Resolving
	}
	if s.User() == nil {
		return Unauthenticated
	}
	return Authenticated
}
