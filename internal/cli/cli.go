package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// Exit codes shared by both tools.
const (
	ExitSuccess     = 0
	ExitFailure     = 1
	ExitInvalidArgs = 2
)

// UsageError marks invalid command line input.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

func Usage(err error) error {
	if err == nil {
		return nil
	}
	return &UsageError{Err: err}
}

// ExitError ends the command with Code. The command has already reported
// why, so nothing else is printed.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }

func Exit(code int) error {
	return &ExitError{Code: code}
}

// Prepare makes cobra report flag and argument problems as usage errors and
// leaves printing to Execute.
func Prepare(cmd *cobra.Command) *cobra.Command {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return Usage(err)
	})
	return cmd
}

// ExactArgs requires exactly one positional argument named what.
func ExactArgs(what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		switch {
		case len(args) == 0:
			return Usage(fmt.Errorf("%s is required", what))
		case len(args) > 1:
			return Usage(fmt.Errorf("unexpected argument %q", args[1]))
		}
		return nil
	}
}

// Execute runs the command tree and maps the outcome to an exit code.
func Execute(root *cobra.Command) int {
	cmd, err := root.ExecuteC()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if cmd == nil {
		cmd = root
	}
	stderr := cmd.ErrOrStderr()

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprint(stderr, cmd.UsageString())
		return ExitInvalidArgs
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitFailure
}

// NotifyContext is cancelled on SIGINT or SIGTERM.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Version normalizes a build version to canonical semver ("1.2" -> "v1.2.0").
// Versions that are not semver are returned unchanged.
func Version(raw string) string {
	v := strings.TrimSpace(raw)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return raw
	}
	return semver.Canonical(v)
}
