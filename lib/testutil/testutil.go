// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
package testutil

import (
	"os"
	"testing"
	"time"
)

// SocketDir creates a temporary directory suitable for unix domain
// sockets. sun_path is limited to 108 bytes and test tempdirs can be
// nested deeply enough to exceed it, so the directory is created with
// a short name directly under /tmp. Removed automatically when the
// test completes.
func SocketDir(t *testing.T) string {
	t.Helper()
	directory, err := os.MkdirTemp("/tmp", "kart-test-*")
	if err != nil {
		t.Fatalf("creating socket directory: %v", err)
	}
	t.Cleanup(func() {
		_ = os.RemoveAll(directory)
	})
	return directory
}

// RequireReceive reads one value from ch within timeout, or fails the
// test.
func RequireReceive[T any](t *testing.T, ch <-chan T, timeout time.Duration, message string) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed without sending a value: %s", message)
		}
		return v
	case <-time.After(timeout):
		t.Fatalf("timed out after %v: %s", timeout, message)
	}
	panic("unreachable")
}
