// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package helper

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// InvocationFDs collects the four descriptors the helper needs, in
// wire order: stdin, stdout, stderr, and an open handle on the current
// working directory (the helper chdirs the spawned worker through it).
// The returned cleanup closes the directory handle; the kernel has
// duplicated all four into the helper by the time SendInvocation
// returns, so closing the originals is safe.
func InvocationFDs() ([4]int, func(), error) {
	wd, err := os.Getwd()
	if err != nil {
		return [4]int{}, nil, fmt.Errorf("getting working directory: %w", err)
	}
	cwdFD, err := unix.Open(wd, unix.O_RDONLY|unix.O_DIRECTORY, 0)
	if err != nil {
		return [4]int{}, nil, fmt.Errorf("opening working directory %s: %w", wd, err)
	}

	fds := [4]int{
		int(os.Stdin.Fd()),
		int(os.Stdout.Fd()),
		int(os.Stderr.Fd()),
		cwdFD,
	}
	return fds, func() { unix.Close(cwdFD) }, nil
}

// SendInvocation transmits one invocation: the payload bytes as the
// message body and the four descriptors as a single SCM_RIGHTS control
// message. Both travel in one sendmsg so the helper receives them
// atomically.
func SendInvocation(conn *net.UnixConn, payload []byte, fds [4]int) error {
	rights := unix.UnixRights(fds[:]...)
	n, _, err := conn.WriteMsgUnix(payload, rights, nil)
	if err != nil {
		return fmt.Errorf("sending invocation to helper: %w", err)
	}
	if n != len(payload) {
		return fmt.Errorf("sending invocation to helper: short write (%d of %d bytes)", n, len(payload))
	}
	return nil
}
