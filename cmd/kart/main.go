// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

//go:build linux

// The kart shim: the binary installed under the name the user types.
// It either replaces itself with the full kart_cli worker, or, when
// helpers are enabled, hands the invocation to a persistent helper
// that keeps the worker's interpreter warm, and sleeps until the
// helper reports the exit code back.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"

	"github.com/koordinates/kart-native/lib/helper"
	"github.com/koordinates/kart-native/lib/sysvsem"
)

func main() {
	// When this process is the intermediate leg of the helper double
	// fork, this spawns the helper and never returns.
	helper.MaybeRunSpawner()

	level := slog.LevelWarn
	if helper.Debug() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	workerPath, err := helper.ResolveWorker(os.Args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "kart: %v\n", err)
		os.Exit(helper.ExitWorkerNotFound)
	}

	if !helper.UseHelper() {
		// Run the full application in place of this process.
		if err := helper.ExecWorker(workerPath, os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "kart: %v\n", err)
			os.Exit(helper.ExitWorkerNotFound)
		}
		return
	}

	os.Exit(runViaHelper(workerPath, logger))
}

// runViaHelper performs one helper-mediated invocation and returns the
// shim's exit code.
func runViaHelper(workerPath string, logger *slog.Logger) int {
	// Lead our own process group before anything is spawned, so the
	// SIGINT handler can signal the whole group. EPERM means we
	// already lead one.
	if err := unix.Setpgid(0, 0); err != nil && !errors.Is(err, unix.EPERM) {
		logger.Debug("setpgid", "error", err)
	}
	pgid := unix.Getpgrp()

	socketPath, err := helper.SocketPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "kart: %v\n", err)
		return 1
	}

	conn, err := helper.ConnectOrSpawn(socketPath, workerPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kart: %v\n", err)
		return helper.ExitHelperUnreachable
	}

	// The semaphore must exist before the payload carries its id, and
	// the signal handlers must be armed before the helper can answer.
	sem, err := sysvsem.Create()
	if err != nil {
		fmt.Fprintf(os.Stderr, "kart: setting up result communication with helper: %v\n", err)
		return helper.ExitSemaphoreFailed
	}
	gate := helper.NewExitGate(sem, pgid, logger)

	payload := helper.NewPayload(os.Getpid(), os.Args, os.Environ(), sem.ID())
	data, err := payload.Encode()
	if err != nil {
		fmt.Fprintf(os.Stderr, "kart: %v\n", err)
		return helper.ExitSendFailed
	}

	fds, closeCwd, err := helper.InvocationFDs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "kart: %v\n", err)
		return helper.ExitSendFailed
	}

	if err := helper.SendInvocation(conn, data, fds); err != nil {
		fmt.Fprintf(os.Stderr, "kart: %v\n", err)
		return helper.ExitSendFailed
	}
	// The kernel duplicated the descriptors into the helper; the cwd
	// handle is no longer needed here.
	closeCwd()

	logger.Debug("invocation sent, waiting for helper",
		"socket", socketPath, "semid", sem.ID(), "pgid", pgid)
	return gate.Wait()
}
