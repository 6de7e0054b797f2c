// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package helper

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// WorkerName is the full tool binary the shim dispatches to, expected
// to sit next to the shim itself.
const WorkerName = "kart_cli"

// ErrWorkerNotFound means no kart_cli exists next to the shim binary.
var ErrWorkerNotFound = errors.New("worker binary not found")

// ResolveWorker locates the worker binary: a file named kart_cli in
// the directory of the running shim. The shim's own path comes from
// the OS (procfs on Linux, the executable-path call on Darwin), with
// argv[0] resolved through symlinks as the fallback; if no sibling
// exists there, the symlink-resolved location is tried too, so a
// symlinked "kart" on PATH finds the real install directory.
func ResolveWorker(argv0 string) (string, error) {
	self, err := os.Executable()
	if err != nil {
		self, err = filepath.EvalSymlinks(argv0)
		if err != nil {
			return "", fmt.Errorf("%w: resolving %q: %v", ErrWorkerNotFound, argv0, err)
		}
	}
	return workerNextTo(self)
}

// workerNextTo finds the worker sibling of a resolved shim path.
func workerNextTo(self string) (string, error) {
	candidate := filepath.Join(filepath.Dir(self), WorkerName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}

	resolved, err := filepath.EvalSymlinks(self)
	if err == nil && resolved != self {
		candidate = filepath.Join(filepath.Dir(resolved), WorkerName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: no %s next to %s", ErrWorkerNotFound, WorkerName, self)
}

// ExecWorker replaces the current process image with the worker,
// keeping argv and environment. Only returns on failure.
func ExecWorker(workerPath string, argv []string) error {
	if err := unix.Exec(workerPath, argv, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", workerPath, err)
	}
	return nil
}
