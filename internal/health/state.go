package health

import "time"

type State int

const (
	Startup State = iota
	Alive
	Dead
)

func (s State) String() string {
	switch s {
	case Alive:
		return "alive"
	case Dead:
		return "dead"
	default:
		return "startup"
	}
}

// Label is the short form used in report lines.
func (s State) Label() string {
	switch s {
	case Alive:
		return "UP"
	case Dead:
		return "DOWN"
	default:
		return "WAIT"
	}
}

// Transition describes a change of health state caused by one observation.
type Transition struct {
	From State
	To   State
	// Previous is how long the target spent in From before the change.
	// Zero when leaving Startup.
	Previous time.Duration
}

// IsFlap reports whether the transition is between alive and dead.
func (t Transition) IsFlap() bool {
	return (t.From == Alive && t.To == Dead) || (t.From == Dead && t.To == Alive)
}
