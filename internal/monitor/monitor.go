package monitor

import (
	"context"
	"errors"
	"fmt"
	stdnet "net"
	"sync"
	"time"

	"probe-go/internal/configuration"
	"probe-go/internal/console"
	"probe-go/internal/database"
	"probe-go/internal/health"
	"probe-go/internal/helper"
	"probe-go/internal/models"
	"probe-go/internal/net"
	"probe-go/internal/stats"

	"github.com/rs/zerolog/log"
)

const clockFormat = "15:04:05"

// Summary is the final outcome of a monitoring session.
type Summary struct {
	Target    string
	Address   string
	State     health.State
	Probes    int
	Successes int
	Failures  int
	Flaps     int
	Uptime    time.Duration
	Downtime  time.Duration
	Elapsed   time.Duration
	RTT       stats.Summary
}

// UptimeMonitor probes one host in a sequential loop and tracks its health.
type UptimeMonitor struct {
	cfg     *configuration.HostMonitor
	addr    stdnet.IP
	prober  net.Prober
	printer *console.Printer
	db      *database.Database

	tracker *health.Tracker
	window  *stats.Window
	overall stats.Accumulator
	session *models.Session

	now   func() time.Time
	sleep func(context.Context, time.Duration) error

	finalizeOnce sync.Once
	summary      Summary
}

// NewUptimeMonitor wires a monitor. db may be nil when no journal is kept.
func NewUptimeMonitor(cfg *configuration.HostMonitor, addr stdnet.IP, prober net.Prober, printer *console.Printer, db *database.Database) *UptimeMonitor {
	return &UptimeMonitor{
		cfg:     cfg,
		addr:    addr,
		prober:  prober,
		printer: printer,
		db:      db,
		window:  stats.NewWindow(cfg.Window),
		now:     time.Now,
		sleep:   helper.Sleep,
	}
}

// Run probes until ctx is cancelled or the configured count is reached, then
// prints the final statistics. It returns an error only when the probe itself
// cannot run on this machine; that outcome is not recorded as a miss.
func (m *UptimeMonitor) Run(ctx context.Context) (Summary, error) {
	m.tracker = health.NewTracker(m.cfg.Fuzzy, m.now())
	m.startSession()
	defer m.Finalize()

	m.printer.Line("Monitoring %s (%s) via %s, timeout %s, interval %s, fuzzy %d",
		m.cfg.Target, m.addr, m.cfg.ProbeKind(), m.cfg.Timeout, m.cfg.Interval, m.cfg.Fuzzy)

	var fatal error
	for i := 1; m.cfg.Count == 0 || i <= m.cfg.Count; i++ {
		if ctx.Err() != nil {
			break
		}

		rtt, err := m.prober.Probe(ctx, m.addr)
		if ctx.Err() != nil {
			// interrupted mid-probe, the outcome says nothing about the host
			break
		}
		if errors.Is(err, net.ErrProbeUnavailable) {
			log.Error().Err(err).Str("target", m.cfg.Target).Msg("probe cannot run")
			fatal = err
			break
		}
		m.observe(rtt, err)

		if m.cfg.Count != 0 && i == m.cfg.Count {
			break
		}
		if err := m.sleep(ctx, m.cfg.Interval); err != nil {
			break
		}
	}

	m.Finalize()
	return m.summary, fatal
}

func (m *UptimeMonitor) observe(rtt time.Duration, err error) {
	now := m.now()
	ok := err == nil

	transition, changed := m.tracker.Observe(ok, now)

	if ok {
		m.overall.Add(rtt)
		log.Debug().Str("target", m.cfg.Target).Dur("rtt", rtt).Msg("probe ok")
	} else {
		log.Debug().Str("target", m.cfg.Target).Err(err).Int("misses", m.tracker.Misses()).Msg("probe failed")
	}

	if changed {
		m.reportTransition(transition, now)
	}

	m.printer.Status("%s", m.statusLine(now, rtt, err))

	if ok && m.window.Add(rtt) {
		m.printer.Line("%s %s rtt %s", now.Format(clockFormat), m.cfg.Target, m.window.Flush())
	}
}

func (m *UptimeMonitor) statusLine(now time.Time, rtt time.Duration, err error) string {
	state := m.tracker.State()
	label := m.printer.Label(state.Label())

	var detail string
	switch {
	case err == nil:
		detail = fmt.Sprintf("rtt=%s ms", stats.FormatRTT(rtt))
	case state != health.Dead && m.tracker.Misses() > 0:
		detail = fmt.Sprintf("no reply (miss %d/%d)", m.tracker.Misses(), m.cfg.Fuzzy)
	default:
		detail = "no reply"
	}

	if m.printer.Live() {
		return fmt.Sprintf("%s %s %s %s | %s %s | flaps %d | probes %d",
			now.Format(clockFormat), m.cfg.Target, label, detail,
			state, stats.FormatDuration(now.Sub(m.tracker.Since())),
			m.tracker.Flaps(), m.tracker.Probes())
	}
	return fmt.Sprintf("%s %s (%s) %s %s", now.Format(clockFormat), m.cfg.Target, m.addr, label, detail)
}

func (m *UptimeMonitor) reportTransition(tr health.Transition, now time.Time) {
	label := m.printer.Label(tr.To.Label())
	if tr.From == health.Startup {
		m.printer.Line("%s %s is %s", now.Format(clockFormat), m.cfg.Target, label)
	} else {
		m.printer.Line("%s %s is %s (was %s for %s, flaps %d)",
			now.Format(clockFormat), m.cfg.Target, label, tr.From,
			stats.FormatDuration(tr.Previous), m.tracker.Flaps())
	}

	log.Info().
		Str("target", m.cfg.Target).
		Str("from", tr.From.String()).
		Str("to", tr.To.String()).
		Msg("health changed")

	if m.db != nil && m.session != nil {
		err := m.db.RecordTransition(m.session.ID, &models.Transition{
			From:      tr.From.String(),
			To:        tr.To.String(),
			Previous:  tr.Previous.Milliseconds(),
			CreatedAt: now,
		})
		if err != nil {
			log.Warn().Err(err).Msg("failed to journal transition")
		}
	}
}

func (m *UptimeMonitor) startSession() {
	if m.db == nil {
		return
	}

	session := &models.Session{
		ID:             helper.GenerateRandomID(),
		Target:         m.cfg.Target,
		Address:        m.addr.String(),
		Probe:          m.cfg.ProbeKind(),
		FuzzyThreshold: m.cfg.Fuzzy,
		FinalState:     health.Startup.String(),
		CreatedAt:      m.tracker.Started(),
	}
	if err := m.db.CreateSession(session); err != nil {
		log.Warn().Err(err).Msg("journal disabled for this session")
		return
	}
	m.session = session
}

// Finalize settles the statistics and prints them. It runs at most once, no
// matter how often or from where it is called.
func (m *UptimeMonitor) Finalize() {
	m.finalizeOnce.Do(func() {
		if m.tracker == nil {
			return
		}

		now := m.now()
		m.tracker.Close(now)

		if m.window.Len() > 0 {
			m.printer.Line("%s %s rtt %s", now.Format(clockFormat), m.cfg.Target, m.window.Flush())
		}

		m.summary = Summary{
			Target:    m.cfg.Target,
			Address:   m.addr.String(),
			State:     m.tracker.State(),
			Probes:    m.tracker.Probes(),
			Successes: m.tracker.Successes(),
			Failures:  m.tracker.Failures(),
			Flaps:     m.tracker.Flaps(),
			Uptime:    m.tracker.Uptime(),
			Downtime:  m.tracker.Downtime(),
			Elapsed:   m.tracker.Elapsed(),
			RTT:       m.overall.Summary(),
		}

		m.printer.Block(m.summary.Lines(m.tracker.Since()))
		m.finishSession(now)
	})
}

func (m *UptimeMonitor) finishSession(now time.Time) {
	if m.db == nil || m.session == nil {
		return
	}

	s := m.summary
	m.session.Probes = s.Probes
	m.session.Successes = s.Successes
	m.session.Failures = s.Failures
	m.session.Flaps = s.Flaps
	m.session.Uptime = s.Uptime.Milliseconds()
	m.session.Downtime = s.Downtime.Milliseconds()
	m.session.FinalState = s.State.String()
	m.session.EndedAt = &now
	if !s.RTT.Empty() {
		minRTT, avgRTT, maxRTT := millis(s.RTT.Min), millis(s.RTT.Avg), millis(s.RTT.Max)
		m.session.RTTMin, m.session.RTTAvg, m.session.RTTMax = &minRTT, &avgRTT, &maxRTT
	}

	if err := m.db.FinishSession(m.session); err != nil {
		log.Warn().Err(err).Msg("failed to journal session statistics")
	}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Lines renders the final statistics block.
func (s Summary) Lines(since time.Time) []string {
	lines := []string{
		fmt.Sprintf("--- %s (%s) statistics ---", s.Target, s.Address),
		fmt.Sprintf("probes: %d sent, %d ok, %d failed", s.Probes, s.Successes, s.Failures),
	}
	if s.State == health.Startup {
		lines = append(lines, fmt.Sprintf("state: %s", s.State))
	} else {
		lines = append(lines, fmt.Sprintf("state: %s since %s", s.State, since.Format(clockFormat)))
	}

	return append(lines,
		fmt.Sprintf("uptime: %s (%.1f%%)", stats.FormatDuration(s.Uptime), stats.Percent(s.Uptime, s.Elapsed)),
		fmt.Sprintf("downtime: %s (%.1f%%)", stats.FormatDuration(s.Downtime), stats.Percent(s.Downtime, s.Elapsed)),
		fmt.Sprintf("flaps: %d", s.Flaps),
		fmt.Sprintf("rtt: %s", s.RTT),
		fmt.Sprintf("elapsed: %s", stats.FormatDuration(s.Elapsed)),
	)
}
