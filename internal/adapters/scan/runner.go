package scan

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/tmoreau-sec/wifiscout/internal/core/domain"
)

// Command describes one external tool invocation with its bounded wait.
type Command struct {
	Name    string
	Args    []string
	Timeout time.Duration
}

// Runner executes external tool commands. There is no hidden process
// table: every invocation is explicit and awaited to completion or to
// its timeout.
type Runner interface {
	Run(ctx context.Context, cmd Command) (string, error)
}

// execCommandContext allows mocking exec.CommandContext in tests.
var execCommandContext = exec.CommandContext

// ExecRunner runs commands through os/exec.
type ExecRunner struct{}

// Run executes the command and returns its combined output. A deadline
// hit maps to domain.ErrScanTimeout, any other failure (missing binary,
// non-zero exit) to domain.ErrScanTool. Partial output is returned in
// both cases so callers can salvage what the tool managed to emit.
func (ExecRunner) Run(ctx context.Context, cmd Command) (string, error) {
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	c := execCommandContext(ctx, cmd.Name, cmd.Args...)
	out, err := c.CombinedOutput()

	if ctx.Err() == context.DeadlineExceeded {
		return string(out), fmt.Errorf("%w: %s after %s", domain.ErrScanTimeout, cmd.Name, cmd.Timeout)
	}
	if err != nil {
		return string(out), fmt.Errorf("%w: %s: %v", domain.ErrScanTool, cmd.Name, err)
	}
	return string(out), nil
}

// ToolPaths holds the external tool locations for both platforms.
// Overridable so tests and non-standard installs can redirect them.
type ToolPaths struct {
	Iwlist         string
	Iwconfig       string
	Airport        string
	SystemProfiler string
	Networksetup   string
	Ifconfig       string
}

// DefaultToolPaths returns the conventional install locations.
func DefaultToolPaths() ToolPaths {
	return ToolPaths{
		Iwlist:         "iwlist",
		Iwconfig:       "iwconfig",
		Airport:        "/System/Library/PrivateFrameworks/Apple80211.framework/Versions/Current/Resources/airport",
		SystemProfiler: "system_profiler",
		Networksetup:   "networksetup",
		Ifconfig:       "ifconfig",
	}
}
