// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"errors"
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// IndexFilename is the sidecar database name, resolved relative to the
// repository's gitdir.
const IndexFilename = "feature_envelopes.db"

// lookupSQL is the single query the filter runs per feature blob. The
// statement is prepared once and reused for the whole enumeration.
const lookupSQL = `SELECT envelope FROM feature_envelopes WHERE blob_id = ?;`

// ErrIndexUnavailable wraps open failures: the repository has no
// readable spatial index. Callers degrade to match-all rather than
// failing the enumeration.
var ErrIndexUnavailable = errors.New("spatial index unavailable")

// Index is a read-only handle on a feature_envelopes database: one
// connection and one persistent lookup statement. It is single-
// threaded, like the enumeration that drives it.
type Index struct {
	conn   *sqlite.Conn
	lookup *sqlite.Stmt
}

// OpenIndex opens the database at path read-only and prepares the
// lookup statement. A missing or unopenable database returns an error
// wrapping ErrIndexUnavailable; a database that opens but cannot
// prepare the lookup (wrong schema, corruption) is a hard error.
func OpenIndex(path string) (*Index, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadOnly)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrIndexUnavailable, path, err)
	}

	lookup, err := conn.Prepare(lookupSQL)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("preparing envelope lookup in %s: %w", path, err)
	}

	return &Index{conn: conn, lookup: lookup}, nil
}

// LookupEnvelope returns the stored envelope bytes for a blob id, or
// found=false when the index holds no row for it (which callers treat
// as always-match). The persistent statement is reset after every
// call so the next bind starts on a clean cursor.
func (ix *Index) LookupEnvelope(blobID []byte) (envelope []byte, found bool, err error) {
	stmt := ix.lookup
	stmt.BindBytes(1, blobID)

	hasRow, err := stmt.Step()
	if err != nil {
		stmt.Reset()
		stmt.ClearBindings()
		return nil, false, fmt.Errorf("querying envelope for blob %x: %w", blobID, err)
	}
	if !hasRow {
		stmt.Reset()
		stmt.ClearBindings()
		return nil, false, nil
	}

	envelope = make([]byte, stmt.ColumnLen(0))
	stmt.ColumnBytes(0, envelope)
	stmt.Reset()
	stmt.ClearBindings()
	return envelope, true, nil
}

// Scan visits every row in the index in blob-id order. Used by
// inspection tooling; the filter itself only ever point-looks-up.
func (ix *Index) Scan(fn func(blobID, envelope []byte) error) error {
	return sqlitex.Execute(ix.conn,
		`SELECT blob_id, envelope FROM feature_envelopes ORDER BY blob_id;`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				blobID := make([]byte, stmt.ColumnLen(0))
				stmt.ColumnBytes(0, blobID)
				envelope := make([]byte, stmt.ColumnLen(1))
				stmt.ColumnBytes(1, envelope)
				return fn(blobID, envelope)
			},
		})
}

// Close releases the connection. The persistent statement belongs to
// the connection and is finalised with it.
func (ix *Index) Close() error {
	if ix.conn == nil {
		return nil
	}
	err := ix.conn.Close()
	ix.conn = nil
	ix.lookup = nil
	if err != nil {
		return fmt.Errorf("closing spatial index: %w", err)
	}
	return nil
}
