package poller

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"probe-go/internal/configuration"
	"probe-go/internal/console"
	"probe-go/internal/helper"
	"probe-go/internal/net"
	"probe-go/internal/stats"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
)

// Outcome is how a polling run ended.
type Outcome int

const (
	Pending Outcome = iota
	Succeeded
	GaveUp
	Interrupted
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "success"
	case GaveUp:
		return "gave up"
	case Interrupted:
		return "interrupted"
	default:
		return "pending"
	}
}

// Checker performs one request against the polled endpoint.
type Checker interface {
	Check(ctx context.Context) (*net.CheckResults, error)
}

// Result is the attempt record of a polling run.
type Result struct {
	URL        string
	Outcome    Outcome
	Attempts   int
	LastStatus int
	LastError  string
	Elapsed    time.Duration
}

// Retries is the number of attempts after the first one.
func (r Result) Retries() int {
	if r.Attempts == 0 {
		return 0
	}
	return r.Attempts - 1
}

func (r Result) Success() bool {
	return r.Outcome == Succeeded
}

// Poller retries a GET until the expected status (and text) is seen.
type Poller struct {
	cfg     *configuration.Poller
	checker Checker
	printer *console.Printer
	bar     *progressbar.ProgressBar

	now   func() time.Time
	sleep func(context.Context, time.Duration) error

	started      time.Time
	result       Result
	finalizeOnce sync.Once
}

func NewPoller(cfg *configuration.Poller, checker Checker, printer *console.Printer) *Poller {
	p := &Poller{
		cfg:     cfg,
		checker: checker,
		printer: printer,
		now:     time.Now,
		sleep:   helper.Sleep,
		result:  Result{URL: cfg.URL},
	}

	if printer.Live() && !cfg.Quiet {
		p.bar = newSpinner(printer.Writer(), cfg.URL)
	}

	return p
}

func newSpinner(w io.Writer, url string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("waiting for "+url),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(65*time.Millisecond),
	)
}

// Run polls until success, exhaustion of the attempt budget or ctx being
// cancelled. The final statistics are printed before it returns.
func (p *Poller) Run(ctx context.Context) Result {
	p.started = p.now()
	defer p.Finalize()

	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			p.result.Outcome = Interrupted
			break
		}

		res, err := p.checker.Check(ctx)
		if err != nil && ctx.Err() != nil {
			p.result.Outcome = Interrupted
			break
		}

		p.record(attempt, res, err)
		p.report(attempt, res, err)
		if p.matches(res, err) {
			p.result.Outcome = Succeeded
			break
		}

		if p.cfg.MaxAttempts > 0 && attempt >= p.cfg.MaxAttempts {
			p.result.Outcome = GaveUp
			break
		}

		if err := p.sleep(ctx, p.cfg.Delay); err != nil {
			p.result.Outcome = Interrupted
			break
		}
	}

	return p.result
}

func (p *Poller) record(attempt int, res *net.CheckResults, err error) {
	p.result.Attempts = attempt
	p.result.LastError = ""
	p.result.LastStatus = 0

	if res != nil {
		p.result.LastStatus = res.StatusCode
		p.result.LastError = res.ErrorMessage
	}
	if err != nil && p.result.LastError == "" {
		p.result.LastError = err.Error()
	}

	log.Debug().
		Int("attempt", attempt).
		Int("status", p.result.LastStatus).
		Str("error", p.result.LastError).
		Msg("poll attempt")
}

func (p *Poller) matches(res *net.CheckResults, err error) bool {
	return err == nil && res != nil && res.StatusCode == p.cfg.Status && res.BodyMatched
}

func (p *Poller) report(attempt int, res *net.CheckResults, err error) {
	if p.cfg.Quiet {
		return
	}

	line := fmt.Sprintf("Attempt %d: %s", attempt, p.describe(res, err))

	if p.bar != nil {
		p.bar.Describe(line)
		_ = p.bar.Add(1)
		return
	}
	p.printer.Status("%s", line)
}

func (p *Poller) describe(res *net.CheckResults, err error) string {
	switch {
	case err != nil:
		return p.result.LastError
	case p.matches(res, err):
		return fmt.Sprintf("status %d %s", res.StatusCode, p.printer.Label("OK"))
	case res.StatusCode != p.cfg.Status:
		return fmt.Sprintf("status %d %s, expected %d", res.StatusCode, http.StatusText(res.StatusCode), p.cfg.Status)
	default:
		return fmt.Sprintf("status %d, body does not contain %q", res.StatusCode, p.cfg.Text)
	}
}

// Finalize prints the statistics block exactly once.
func (p *Poller) Finalize() {
	p.finalizeOnce.Do(func() {
		if p.result.Outcome == Pending {
			p.result.Outcome = Interrupted
		}
		p.result.Elapsed = p.now().Sub(p.started)

		if p.bar != nil {
			_ = p.bar.Finish()
		}
		p.printer.Done()
		p.printer.Block(p.result.Lines())
	})
}

// Lines renders the final statistics block.
func (r Result) Lines() []string {
	lines := []string{
		fmt.Sprintf("--- %s ---", r.URL),
		fmt.Sprintf("Result: %s", r.Outcome),
		fmt.Sprintf("Attempts: %d", r.Attempts),
		fmt.Sprintf("Retries: %d", r.Retries()),
	}
	if r.Attempts > 0 {
		lines = append(lines, fmt.Sprintf("Last status: %d", r.LastStatus))
	}
	if r.LastError != "" && !r.Success() {
		lines = append(lines, fmt.Sprintf("Last error: %s", r.LastError))
	}
	return append(lines, fmt.Sprintf("Elapsed: %s", stats.FormatDuration(r.Elapsed)))
}
