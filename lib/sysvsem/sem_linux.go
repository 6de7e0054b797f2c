// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

// Package sysvsem wraps the one-slot System V semaphore the shim and
// helper use to hand an exit code across process boundaries. The shim
// creates a private semaphore, sends its id in the invocation payload,
// and the helper stores the worker's exit code (biased by 1000) into
// slot 0 before signalling the shim.
//
// golang.org/x/sys/unix has no semget/semctl wrappers, so the calls
// are made directly by syscall number. Linux only.
package sysvsem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// semctl command numbers from <linux/sem.h>.
const (
	cmdGetVal = 12
	cmdSetVal = 16
)

// Sem is a handle on a one-slot System V semaphore set.
type Sem struct {
	id int
}

// Create allocates a new private one-slot semaphore with owner-only
// permissions, initialised to zero.
func Create() (*Sem, error) {
	id, _, errno := unix.Syscall(unix.SYS_SEMGET,
		uintptr(unix.IPC_PRIVATE), 1, uintptr(unix.IPC_CREAT|unix.IPC_EXCL|0o600))
	if errno != 0 {
		return nil, fmt.Errorf("semget: %w", errno)
	}
	return &Sem{id: int(id)}, nil
}

// Open wraps an existing semaphore id received from a peer process.
func Open(id int) *Sem {
	return &Sem{id: id}
}

// ID returns the semaphore id, as placed in the invocation payload.
func (s *Sem) ID() int {
	return s.id
}

// Value reads slot 0.
func (s *Sem) Value() (int, error) {
	value, _, errno := unix.Syscall6(unix.SYS_SEMCTL,
		uintptr(s.id), 0, cmdGetVal, 0, 0, 0)
	if errno != 0 {
		return 0, fmt.Errorf("semctl GETVAL on %d: %w", s.id, errno)
	}
	return int(value), nil
}

// SetValue writes slot 0. For SETVAL the kernel takes the value
// directly in the argument register.
func (s *Sem) SetValue(value int) error {
	_, _, errno := unix.Syscall6(unix.SYS_SEMCTL,
		uintptr(s.id), 0, cmdSetVal, uintptr(value), 0, 0)
	if errno != 0 {
		return fmt.Errorf("semctl SETVAL on %d: %w", s.id, errno)
	}
	return nil
}

// Remove destroys the semaphore set. Further operations on the id
// fail with EINVAL or EIDRM.
func (s *Sem) Remove() error {
	_, _, errno := unix.Syscall6(unix.SYS_SEMCTL,
		uintptr(s.id), 0, unix.IPC_RMID, 0, 0, 0)
	if errno != 0 {
		return fmt.Errorf("semctl IPC_RMID on %d: %w", s.id, errno)
	}
	return nil
}
