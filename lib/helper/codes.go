// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

package helper

// Shim exit codes. 0 arrives through the semaphore; a signal death is
// the usual 128+signo.
const (
	ExitWorkerNotFound    = 1
	ExitHelperUnreachable = 2
	ExitSendFailed        = 3
	ExitHelperTimeout     = 4
	ExitSemaphoreFailed   = 5
)

// ExitCodeBias is added by the helper when storing the worker's exit
// code into the semaphore, so that a plain exit 0 is distinguishable
// from a never-written slot.
const ExitCodeBias = 1000
