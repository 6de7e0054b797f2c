// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

// Package helper implements the client side of kart's persistent
// helper protocol. The installed "kart" binary is a small shim: when
// helpers are enabled it hands the whole invocation (arguments,
// environment, working directory, and the real stdio descriptors) to
// a long-lived helper process that keeps the worker's interpreter
// warm, then sleeps until the helper reports the exit code back
// through a System V semaphore and SIGALRM.
//
// The rendezvous is a unix-domain socket scoped to the login session
// ({HOME}/.kart.{sid}.socket). If nothing is listening, the shim
// spawns the helper detached (a double fork, so no zombie is left and
// the helper escapes the shim's session) and retries the connection.
//
// When helpers are disabled the shim simply replaces itself with the
// worker binary.
package helper
