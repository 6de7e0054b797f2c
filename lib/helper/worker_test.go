// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package helper

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeExecutable(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestWorkerNextTo(t *testing.T) {
	dir := t.TempDir()
	shim := filepath.Join(dir, "kart")
	writeExecutable(t, shim)
	worker := filepath.Join(dir, WorkerName)
	writeExecutable(t, worker)

	got, err := workerNextTo(shim)
	if err != nil {
		t.Fatalf("workerNextTo: %v", err)
	}
	if got != worker {
		t.Errorf("workerNextTo = %q, want %q", got, worker)
	}
}

func TestWorkerNextToThroughSymlink(t *testing.T) {
	// The install dir holds the shim and the worker; a symlink to the
	// shim lives somewhere on PATH. Resolution must follow the link to
	// the install dir.
	installDir := t.TempDir()
	binDir := t.TempDir()

	realShim := filepath.Join(installDir, "kart")
	writeExecutable(t, realShim)
	worker := filepath.Join(installDir, WorkerName)
	writeExecutable(t, worker)

	linkedShim := filepath.Join(binDir, "kart")
	if err := os.Symlink(realShim, linkedShim); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	got, err := workerNextTo(linkedShim)
	if err != nil {
		t.Fatalf("workerNextTo via symlink: %v", err)
	}
	if got != worker {
		t.Errorf("workerNextTo = %q, want %q", got, worker)
	}
}

func TestWorkerNotFound(t *testing.T) {
	dir := t.TempDir()
	shim := filepath.Join(dir, "kart")
	writeExecutable(t, shim)

	_, err := workerNextTo(shim)
	if !errors.Is(err, ErrWorkerNotFound) {
		t.Errorf("workerNextTo error = %v, want ErrWorkerNotFound", err)
	}
}
