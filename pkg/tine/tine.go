package tine

import "fmt"

// Transition is the change of coverage that happens at a tine.
type Transition uint8

const (
	// Enter starts a covered run at the position of the tine.
	Enter Transition = iota
	// Exit ends a covered run: the position of the tine is the first
	// uncovered point.
	Exit
)

func (r Transition) String() string {
	switch r {
	case Enter:
		return "enter"
	case Exit:
		return "exit"
	}
	return "unknown"
}

func (r Transition) flip() Transition {
	if r == Enter {
		return Exit
	}
	return Enter
}

func transitionTo(covered bool) Transition {
	if covered {
		return Enter
	}
	return Exit
}

// Tine is a boundary marker in a Tree.
type Tine[T any] struct {
	Pos  T
	Kind Transition
}

func (r Tine[T]) String() string {
	return fmt.Sprintf("%s(%v)", r.Kind, r.Pos)
}
