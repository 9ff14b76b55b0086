package health

import (
	"time"
)

// Tracker folds probe outcomes into a health state.
//
// A failure while alive (or during startup) only counts as a miss until more
// than Fuzzy consecutive misses were seen; then the target is declared dead.
// A single success makes the target alive again.
//
// Wall time is split between uptime and downtime. Time spent in startup is
// credited to whichever state the target resolves to first, so that
// Uptime+Downtime always equals the time between NewTracker and the last
// observation (or Close).
type Tracker struct {
	fuzzy int

	state   State
	misses  int
	flaps   int
	changed time.Time

	started  time.Time
	lastSeen time.Time
	pending  time.Duration

	lastUp   time.Time
	lastDown time.Time

	uptime   time.Duration
	downtime time.Duration

	successes int
	failures  int
}

func NewTracker(fuzzy int, now time.Time) *Tracker {
	if fuzzy < 0 {
		fuzzy = 0
	}
	return &Tracker{
		fuzzy:    fuzzy,
		state:    Startup,
		changed:  now,
		started:  now,
		lastSeen: now,
	}
}

// Observe records the outcome of one probe made at now. It returns the
// transition and true when the state changed.
func (t *Tracker) Observe(ok bool, now time.Time) (Transition, bool) {
	t.account(now)

	if ok {
		t.successes++
		t.misses = 0
		if t.state != Alive {
			return t.moveTo(Alive, now), true
		}
		return Transition{}, false
	}

	t.failures++
	if t.state == Dead {
		return Transition{}, false
	}

	t.misses++
	if t.misses > t.fuzzy {
		return t.moveTo(Dead, now), true
	}
	return Transition{}, false
}

// Close settles the time since the last observation. A target that never
// left startup is accounted as down.
func (t *Tracker) Close(now time.Time) {
	t.account(now)
	if t.state == Startup {
		t.downtime += t.pending
		t.pending = 0
	}
}

func (t *Tracker) account(now time.Time) {
	elapsed := now.Sub(t.lastSeen)
	if elapsed < 0 {
		elapsed = 0
	}
	t.lastSeen = now

	switch t.state {
	case Alive:
		t.uptime += elapsed
	case Dead:
		t.downtime += elapsed
	default:
		t.pending += elapsed
	}
}

func (t *Tracker) moveTo(next State, now time.Time) Transition {
	tr := Transition{From: t.state, To: next}
	if t.state != Startup {
		tr.Previous = now.Sub(t.changed)
	}

	if t.state == Startup {
		if next == Alive {
			t.uptime += t.pending
		} else {
			t.downtime += t.pending
		}
		t.pending = 0
	}

	if tr.IsFlap() {
		t.flaps++
	}

	switch next {
	case Alive:
		t.lastUp = now
	case Dead:
		t.lastDown = now
	}

	t.state = next
	t.changed = now
	t.misses = 0
	return tr
}

func (t *Tracker) State() State { return t.state }

// Misses is the current run of consecutive failures.
func (t *Tracker) Misses() int { return t.misses }

func (t *Tracker) Flaps() int { return t.flaps }

func (t *Tracker) Uptime() time.Duration { return t.uptime }

func (t *Tracker) Downtime() time.Duration { return t.downtime }

// Since is the moment the current state was entered.
func (t *Tracker) Since() time.Time { return t.changed }

func (t *Tracker) LastUp() time.Time { return t.lastUp }

func (t *Tracker) LastDown() time.Time { return t.lastDown }

func (t *Tracker) Started() time.Time { return t.started }

// Elapsed is the wall time covered by the accounting so far.
func (t *Tracker) Elapsed() time.Duration { return t.lastSeen.Sub(t.started) }

func (t *Tracker) Successes() int { return t.successes }

func (t *Tracker) Failures() int { return t.failures }

func (t *Tracker) Probes() int { return t.successes + t.failures }
