// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

package helper

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Payload is the invocation context sent to the helper: everything it
// needs to reproduce this process's command line inside the warm
// worker. The four stdio/cwd descriptors travel alongside it as
// ancillary data, not in the payload itself.
type Payload struct {
	Pid     int               `json:"pid"`
	Environ map[string]string `json:"environ"`
	Argv    []string          `json:"argv"`
	Semid   int               `json:"semid"`
}

// NewPayload builds the payload for this invocation. environ is in
// "KEY=value" form (usually os.Environ()); the shim's internal
// variables are excluded so the helper cannot recurse.
func NewPayload(pid int, argv []string, environ []string, semid int) Payload {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		name, value, _ := strings.Cut(kv, "=")
		if isInternalEnvVar(name) {
			continue
		}
		env[name] = value
	}
	return Payload{
		Pid:     pid,
		Environ: env,
		Argv:    argv,
		Semid:   semid,
	}
}

// Encode serialises the payload as the textual object the helper
// expects.
func (p Payload) Encode() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding helper payload: %w", err)
	}
	return data, nil
}
