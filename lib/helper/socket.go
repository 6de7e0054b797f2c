// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package helper

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// SocketPath derives the helper rendezvous socket for this login
// session: {HOME}/.kart.{sid}.socket. Scoping by session id lets
// concurrent shims in one session share a helper while keeping
// sessions isolated from each other.
func SocketPath() (string, error) {
	home := os.Getenv("HOME")
	if home == "" {
		return "", fmt.Errorf("HOME is not set")
	}
	sid, err := unix.Getsid(0)
	if err != nil {
		return "", fmt.Errorf("getsid: %w", err)
	}
	return fmt.Sprintf("%s/.kart.%d.socket", home, sid), nil
}
