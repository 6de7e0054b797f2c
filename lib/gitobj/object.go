// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

package gitobj

import (
	"encoding/hex"
	"fmt"
)

// ObjectType identifies the kind of an object in the store. The
// numeric values match git's own object type enumeration so that ids
// crossing the host boundary need no translation.
type ObjectType int

const (
	TypeCommit ObjectType = 1
	TypeTree   ObjectType = 2
	TypeBlob   ObjectType = 3
	TypeTag    ObjectType = 4
)

func (t ObjectType) String() string {
	switch t {
	case TypeCommit:
		return "commit"
	case TypeTree:
		return "tree"
	case TypeBlob:
		return "blob"
	case TypeTag:
		return "tag"
	default:
		return fmt.Sprintf("ObjectType(%d)", int(t))
	}
}

// OID is a raw object id: the hash bytes at the repository's native
// hash width (20 for SHA-1 repositories, 32 for SHA-256).
type OID []byte

// ParseOID decodes a hex object id string.
func ParseOID(s string) (OID, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("parsing object id %q: %w", s, err)
	}
	return OID(raw), nil
}

// String returns the hex form of the id.
func (o OID) String() string {
	return hex.EncodeToString(o)
}

// Equal reports whether two ids have identical bytes.
func (o OID) Equal(other OID) bool {
	if len(o) != len(other) {
		return false
	}
	for i := range o {
		if o[i] != other[i] {
			return false
		}
	}
	return true
}
