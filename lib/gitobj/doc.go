// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

// Package gitobj models the content-addressed object graph that kart
// stores its versioned data in: object types, object ids, tree entries,
// and a depth-first preorder walker over trees.
//
// The package deliberately knows nothing about how trees are loaded:
// Tree is an interface, and the walker drives it one subtree load per
// interior node. The object-store host supplies real trees; MemTree is
// an in-memory implementation for tests and tooling.
package gitobj
