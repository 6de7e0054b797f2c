// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

package gitobj

import (
	"fmt"
	"strings"
)

// TreeWalker yields every entry under a root tree in depth-first
// preorder: a tree entry is yielded before the entries inside it, and
// siblings appear in stored order. This matches the enumeration order
// of the underlying object store, so positions from either side can be
// compared.
//
// Each call to Iter returns a fresh iterator positioned before the
// first entry; the walk is restartable per construction.
type TreeWalker struct {
	root Tree
}

// NewTreeWalker returns a walker over the entries of root and all of
// its subtrees.
func NewTreeWalker(root Tree) *TreeWalker {
	return &TreeWalker{root: root}
}

// Iter returns a new iterator at the start of the walk. Call Next to
// advance to the first entry.
func (w *TreeWalker) Iter() *TreeEntryIterator {
	return &TreeEntryIterator{root: w.root}
}

// End returns the end sentinel. An iterator that has yielded its last
// entry compares Equal to it.
func (w *TreeWalker) End() *TreeEntryIterator {
	return &TreeEntryIterator{}
}

// walkFrame is one level of the descent: the expanded child list of a
// tree, a cursor into it, and the slash-terminated path prefix of the
// tree itself.
type walkFrame struct {
	entries []TreeEntry
	cursor  int
	prefix  string
}

// TreeEntryIterator is a position in a preorder walk. The zero value
// is the end sentinel. Iterators hold one frame per level of descent:
// advancing past a subtree entry pushes the subtree's children,
// exhausting a frame pops it and moves the parent cursor along.
type TreeEntryIterator struct {
	root    Tree
	stack   []walkFrame
	started bool
	err     error
}

// Next advances to the next entry in preorder. It returns false when
// the walk is exhausted or a tree load failed; check Err afterwards.
func (it *TreeEntryIterator) Next() bool {
	if it.err != nil {
		return false
	}
	if !it.started {
		it.started = true
		if it.root == nil {
			return false
		}
		it.enter(it.root, "")
	} else {
		if len(it.stack) == 0 {
			return false
		}
		top := &it.stack[len(it.stack)-1]
		entry := top.entries[top.cursor]
		if entry.Type == TypeTree && entry.Subtree != nil {
			it.enter(entry.Subtree, it.Path()+"/")
		} else {
			top.cursor++
		}
	}
	if it.err != nil {
		it.stack = nil
		return false
	}

	// Pop every exhausted frame, resuming the parent just after the
	// subtree entry that was descended into.
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if top.cursor < len(top.entries) {
			return true
		}
		it.stack = it.stack[:len(it.stack)-1]
		if len(it.stack) > 0 {
			it.stack[len(it.stack)-1].cursor++
		}
	}
	return false
}

// Entry returns the entry at the current position. Only valid after
// Next has returned true.
func (it *TreeEntryIterator) Entry() TreeEntry {
	top := it.stack[len(it.stack)-1]
	return top.entries[top.cursor]
}

// Path returns the slash-separated path of the current entry from the
// walk root, including the entry's own name.
func (it *TreeEntryIterator) Path() string {
	top := it.stack[len(it.stack)-1]
	var b strings.Builder
	b.WriteString(top.prefix)
	b.WriteString(top.entries[top.cursor].Name)
	return b.String()
}

// Err returns the first tree-load error encountered, if any. Errors
// from the underlying store end the walk; there is no retry.
func (it *TreeEntryIterator) Err() error {
	return it.err
}

// Equal reports whether two positions are the same: equal stack depth
// and equal top-of-stack cursor. Exhausted iterators are Equal to the
// zero-value end sentinel.
func (it *TreeEntryIterator) Equal(other *TreeEntryIterator) bool {
	if len(it.stack) != len(other.stack) {
		return false
	}
	if len(it.stack) == 0 {
		return true
	}
	return it.stack[len(it.stack)-1].cursor == other.stack[len(other.stack)-1].cursor
}

func (it *TreeEntryIterator) enter(tree Tree, prefix string) {
	entries, err := tree.Entries()
	if err != nil {
		it.err = fmt.Errorf("loading tree entries at %q: %w", prefix, err)
		return
	}
	it.stack = append(it.stack, walkFrame{entries: entries, prefix: prefix})
}
