// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package helper

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/koordinates/kart-native/lib/sysvsem"
)

// waitLimit bounds the shim's sleep while the helper runs the command.
// It only needs to exceed the longest plausible command (clone of a
// huge repository, say); a day is the protocol's traditional bound.
const waitLimit = 24 * time.Hour

// ExitGate converts helper-side completion into the shim's exit code.
// The helper stores ExitCodeBias plus the worker's exit code into the
// semaphore and raises SIGALRM on the shim; the gate reads the slot,
// destroys the semaphore, and reports the code.
//
// SIGINT is forwarded to the shim's whole process group so the helper
// side of the command dies with the user's interrupt. SIGUSR1 from the
// worker disarms that; the worker sends it when it is about to take
// over the terminal and wants the shim to be a quiet sleeper.
type ExitGate struct {
	sem    *sysvsem.Sem
	pgid   int
	logger *slog.Logger

	signals chan os.Signal
	timeout time.Duration
	stderr  io.Writer
	kill    func(pid int, sig syscall.Signal) error
}

// NewExitGate creates the gate and installs its signal handlers. The
// handlers must be in place before the invocation payload is sent: the
// helper may answer arbitrarily fast.
func NewExitGate(sem *sysvsem.Sem, pgid int, logger *slog.Logger) *ExitGate {
	g := &ExitGate{
		sem:     sem,
		pgid:    pgid,
		logger:  logger,
		signals: make(chan os.Signal, 4),
		timeout: waitLimit,
		stderr:  os.Stderr,
		kill:    unix.Kill,
	}
	signal.Notify(g.signals, unix.SIGALRM, unix.SIGINT, unix.SIGUSR1)
	return g
}

// Wait blocks until the helper signals completion and returns the
// shim's exit code.
func (g *ExitGate) Wait() int {
	timer := time.NewTimer(g.timeout)
	defer timer.Stop()

	interruptible := true
	for {
		select {
		case sig := <-g.signals:
			switch sig {
			case unix.SIGALRM:
				return g.exitCodeFromSemaphore()

			case unix.SIGINT:
				if !interruptible {
					continue
				}
				// Match the terminal's newline after ^C, then take the
				// whole group down.
				fmt.Fprintln(g.stderr)
				if err := g.kill(-g.pgid, unix.SIGINT); err != nil {
					g.logger.Debug("signalling process group", "pgid", g.pgid, "error", err)
				}
				return 128 + int(unix.SIGINT)

			case unix.SIGUSR1:
				if !interruptible {
					continue
				}
				// The worker has the terminal; stop reacting to ^C and
				// wait for the semaphore without a deadline.
				g.logger.Debug("worker took over signal handling")
				interruptible = false
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}

		case <-timer.C:
			fmt.Fprintln(g.stderr, "Timed out, no response from kart helper")
			return ExitHelperTimeout
		}
	}
}

// exitCodeFromSemaphore reads the biased exit code out of the
// semaphore and destroys it.
func (g *ExitGate) exitCodeFromSemaphore() int {
	value, err := g.sem.Value()
	if removeErr := g.sem.Remove(); removeErr != nil {
		g.logger.Debug("removing exit semaphore", "error", removeErr)
	}
	if err != nil {
		fmt.Fprintf(g.stderr, "Error reading result from kart helper: %v\n", err)
		return ExitSemaphoreFailed
	}
	return value - ExitCodeBias
}
