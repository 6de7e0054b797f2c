// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

// Package process holds small helpers shared by binary entrypoints.
package process

import (
	"fmt"
	"os"
)

// Fatal writes "kart: err" to stderr and exits with code 1. Use it in
// main() for errors from run() where no more specific exit code
// applies.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "kart: %v\n", err)
	os.Exit(1)
}
