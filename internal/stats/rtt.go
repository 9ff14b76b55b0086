package stats

import (
	"time"
)

const DefaultWindowSize = 10

// Summary is a min/avg/max snapshot of round-trip times.
type Summary struct {
	Count int
	Min   time.Duration
	Avg   time.Duration
	Max   time.Duration
}

// Empty reports whether the summary covers no samples.
func (s Summary) Empty() bool {
	return s.Count == 0
}

// Window is a fixed-size buffer of recent RTT samples. Once it is full the
// caller takes a Summary and the buffer starts over.
type Window struct {
	samples []time.Duration
	size    int
}

func NewWindow(size int) *Window {
	if size <= 0 {
		size = DefaultWindowSize
	}
	return &Window{
		samples: make([]time.Duration, 0, size),
		size:    size,
	}
}

// Add stores a sample and reports whether the window is now full.
func (w *Window) Add(rtt time.Duration) bool {
	if len(w.samples) == w.size {
		// drop the oldest sample when nobody flushed the window
		copy(w.samples, w.samples[1:])
		w.samples = w.samples[:w.size-1]
	}
	w.samples = append(w.samples, rtt)
	return len(w.samples) == w.size
}

func (w *Window) Len() int { return len(w.samples) }

func (w *Window) Size() int { return w.size }

// Flush summarizes the buffered samples and clears the buffer.
func (w *Window) Flush() Summary {
	s := Summarize(w.samples)
	w.samples = w.samples[:0]
	return s
}

// Summarize computes min/avg/max over samples.
func Summarize(samples []time.Duration) Summary {
	if len(samples) == 0 {
		return Summary{}
	}

	var sum time.Duration
	minRTT, maxRTT := samples[0], samples[0]
	for _, rtt := range samples {
		sum += rtt
		if rtt < minRTT {
			minRTT = rtt
		}
		if rtt > maxRTT {
			maxRTT = rtt
		}
	}

	return Summary{
		Count: len(samples),
		Min:   minRTT,
		Avg:   sum / time.Duration(len(samples)),
		Max:   maxRTT,
	}
}

// Accumulator keeps session-wide RTT aggregates without storing samples.
type Accumulator struct {
	count int
	sum   time.Duration
	min   time.Duration
	max   time.Duration
}

func (a *Accumulator) Add(rtt time.Duration) {
	if a.count == 0 || rtt < a.min {
		a.min = rtt
	}
	if rtt > a.max {
		a.max = rtt
	}
	a.sum += rtt
	a.count++
}

func (a *Accumulator) Summary() Summary {
	if a.count == 0 {
		return Summary{}
	}
	return Summary{
		Count: a.count,
		Min:   a.min,
		Avg:   a.sum / time.Duration(a.count),
		Max:   a.max,
	}
}
