// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

// Package spatial implements the object-store filter extension that
// restricts object enumeration to a geographic bounding box.
//
// The host walks the object graph and calls into the extension once
// per object. Commits, tags, and trees always pass. Feature blobs are
// looked up in a read-only sidecar database ({gitdir}/feature_envelopes.db)
// that maps blob id to a bit-packed bounding-box envelope; a blob is
// kept when its envelope overlaps the query rectangle, longitude
// compared cyclically so rectangles may cross the antimeridian.
//
// A repository without the sidecar database degrades to match-all: the
// filter warns once and omits nothing.
package spatial
