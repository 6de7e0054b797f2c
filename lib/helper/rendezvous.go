// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package helper

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"
)

// The helper gets 50 × 250 ms (~12.5 s) to bind its socket after
// spawning before the shim gives up.
const (
	connectAttempts   = 50
	connectRetryDelay = 250 * time.Millisecond
)

// ErrHelperUnreachable means no helper answered on the session socket
// within the retry budget.
var ErrHelperUnreachable = errors.New("timeout connecting to kart helper")

// Dial makes a single connection attempt to the session socket.
func Dial(socketPath string) (*net.UnixConn, error) {
	conn, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: socketPath, Net: "unix"})
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", socketPath, err)
	}
	return conn, nil
}

// ConnectOrSpawn connects to the session's helper, starting one if
// nothing is listening. The spawn is detached (see spawn.go); the shim
// then polls the socket until the helper binds it or the retry budget
// runs out.
func ConnectOrSpawn(socketPath, workerPath string, logger *slog.Logger) (*net.UnixConn, error) {
	conn, err := Dial(socketPath)
	if err == nil {
		logger.Debug("connected to running helper", "socket", socketPath)
		return conn, nil
	}

	logger.Debug("no helper listening, spawning one",
		"socket", socketPath, "worker", workerPath)
	if err := spawnDetachedHelper(workerPath, socketPath); err != nil {
		return nil, fmt.Errorf("spawning helper: %w", err)
	}

	for attempt := 0; attempt < connectAttempts; attempt++ {
		conn, err = Dial(socketPath)
		if err == nil {
			logger.Debug("connected to spawned helper",
				"socket", socketPath, "attempts", attempt+1)
			return conn, nil
		}
		time.Sleep(connectRetryDelay)
	}
	return nil, fmt.Errorf("%w: %s", ErrHelperUnreachable, socketPath)
}
