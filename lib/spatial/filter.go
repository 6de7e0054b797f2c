// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/koordinates/kart-native/lib/gitobj"
)

// Situation tags each per-object callback with where the enumeration
// is: a commit, a tag, entering or leaving a tree, or a blob.
type Situation int

const (
	SituationCommit Situation = iota
	SituationTag
	SituationBeginTree
	SituationEndTree
	SituationBlob
)

func (s Situation) String() string {
	switch s {
	case SituationCommit:
		return "commit"
	case SituationTag:
		return "tag"
	case SituationBeginTree:
		return "begin-tree"
	case SituationEndTree:
		return "end-tree"
	case SituationBlob:
		return "blob"
	default:
		return fmt.Sprintf("Situation(%d)", int(s))
	}
}

// Result is the flag set returned to the host for each object.
type Result uint8

const (
	// ResultZero leaves the object's fate to a later callback.
	ResultZero Result = 0
	// MarkSeen stops the host re-presenting the object.
	MarkSeen Result = 1 << 0
	// DoShow includes the object in the enumeration output.
	DoShow Result = 1 << 1

	markSeenAndShow = MarkSeen | DoShow
)

// Repository is the host's view of the repo under enumeration.
type Repository interface {
	// GitDir is the repository metadata directory; the sidecar index
	// lives directly inside it.
	GitDir() string
	// HashSize is the repository's native hash width in bytes.
	HashSize() int
}

// Object is the host's handle on the object a callback refers to.
type Object interface {
	Type() gitobj.ObjectType
	OID() gitobj.OID
}

// Feature blobs live under one of these dataset path segments; any
// path without them is metadata and always matches.
const (
	snoFeaturePath   = "/.sno-dataset/feature/"
	tableFeaturePath = "/.table-dataset/feature/"
)

// IsFeaturePath reports whether a blob path identifies row-level
// feature data subject to spatial filtering.
func IsFeaturePath(path string) bool {
	return strings.Contains(path, snoFeaturePath) ||
		strings.Contains(path, tableFeaturePath)
}

// ErrInvalidBounds reports a malformed filter argument. The host
// surfaces it as a usage error (exit 2).
var ErrInvalidBounds = errors.New("invalid bounds, expected '<lng_w>,<lat_s>,<lng_e>,<lat_n>'")

// ParseBounds parses the filter argument: four comma-separated floats
// w,s,e,n in degrees. West greater than east is legal (antimeridian-
// crossing rectangle).
func ParseBounds(arg string) (Envelope, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 4 {
		return Envelope{}, fmt.Errorf("%w: got %q", ErrInvalidBounds, arg)
	}
	values := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Envelope{}, fmt.Errorf("%w: got %q", ErrInvalidBounds, arg)
		}
		values[i] = v
	}
	return Envelope{W: values[0], S: values[1], E: values[2], N: values[3]}, nil
}

// progressInterval is how often the dispatch emits a carriage-return
// progress line to stderr.
const progressInterval = 10000

// Context is the per-enumeration state: counters, the query rectangle,
// the open index (nil means match-all), and the lazily constructed
// envelope decoder. Created by Init, threaded through every
// FilterObject call, released by Free.
type Context struct {
	count      int
	matchCount int
	startedAt  time.Time

	rect    Envelope
	index   *Index
	decoder *Encoder

	logger   *slog.Logger
	progress io.Writer
}

// Stats returns how many objects have been tested and how many blobs
// matched so far.
func (ctx *Context) Stats() (tested, matched int) {
	return ctx.count, ctx.matchCount
}

func (ctx *Context) log() *slog.Logger {
	if ctx.logger == nil {
		return slog.Default()
	}
	return ctx.logger
}

// Init parses the filter argument, opens the sidecar index under the
// repository's gitdir, and prepares the lookup statement. A repository
// without a readable index is not an error: the filter warns once and
// runs in match-all mode.
func Init(repo Repository, filterArg string) (*Context, error) {
	rect, err := ParseBounds(filterArg)
	if err != nil {
		return nil, err
	}

	ctx := &Context{
		rect:     rect,
		logger:   slog.Default(),
		progress: os.Stderr,
	}

	path := filepath.Join(repo.GitDir(), IndexFilename)
	ctx.log().Debug("spatial filter opening index", "path", path, "rect", rect)

	index, err := OpenIndex(path)
	if err != nil {
		if errors.Is(err, ErrIndexUnavailable) {
			fmt.Fprintln(ctx.progress, "spatial-filter: Warning: not available for this repository - no objects will be omitted.")
			return ctx, nil
		}
		return nil, err
	}
	ctx.index = index
	return ctx, nil
}

// FilterObject is the per-object callback. It returns the flag set for
// the object and sets *omit for blobs outside the query rectangle.
// Index query failures return an error; the host must treat that as
// fatal, since silently omitting blobs could corrupt downstream state
// and silently matching them would defeat the filter.
//
// Object-type mismatches and unknown situations are host protocol
// violations and panic.
func FilterObject(repo Repository, situation Situation, obj Object, pathname, filename string, omit *bool, ctx *Context) (Result, error) {
	if ctx.count == 0 {
		ctx.startedAt = time.Now()
	}
	ctx.count++
	if ctx.count%progressInterval == 0 {
		fmt.Fprintf(ctx.progress, "Enumerating objects: %d    (Spatial-filter has tested %d objects)\r",
			ctx.matchCount, ctx.count)
	}

	switch situation {
	case SituationCommit:
		mustBeType(obj, gitobj.TypeCommit)
		return markSeenAndShow, nil

	case SituationTag:
		mustBeType(obj, gitobj.TypeTag)
		return markSeenAndShow, nil

	case SituationBeginTree:
		mustBeType(obj, gitobj.TypeTree)
		// All tree objects are kept; only blobs are ever omitted.
		return markSeenAndShow, nil

	case SituationEndTree:
		mustBeType(obj, gitobj.TypeTree)
		return ResultZero, nil

	case SituationBlob:
		mustBeType(obj, gitobj.TypeBlob)

		if ctx.index == nil {
			// No spatial index for this repository; omit nothing.
			return markSeenAndShow, nil
		}

		matched, err := ctx.classifyBlob(repo, obj.OID(), pathname)
		if err != nil {
			return ResultZero, err
		}
		if !matched {
			*omit = true
			return MarkSeen, nil
		}
		ctx.matchCount++
		return markSeenAndShow, nil

	default:
		panic(fmt.Sprintf("spatial filter: unknown situation %d", int(situation)))
	}
}

// classifyBlob decides whether one blob belongs to the query
// rectangle. Non-feature paths match without touching the database; a
// feature blob with no index row matches too (absence means "always
// match"). Otherwise the stored envelope is decoded, constructing the
// decoder at the observed row width on the first row, and tested for
// overlap, longitude cyclically.
func (ctx *Context) classifyBlob(repo Repository, oid gitobj.OID, path string) (bool, error) {
	if !IsFeaturePath(path) {
		return true, nil
	}

	blobID := []byte(oid)
	if size := repo.HashSize(); len(blobID) > size {
		blobID = blobID[:size]
	}

	envelope, found, err := ctx.index.LookupEnvelope(blobID)
	if err != nil {
		return false, err
	}
	if !found {
		return true, nil
	}

	if ctx.decoder == nil {
		ctx.decoder, err = EncoderForByteLength(len(envelope))
		if err != nil {
			return false, fmt.Errorf("blob %s: %w", oid, err)
		}
	}

	env, err := ctx.decoder.Decode(envelope)
	if err != nil {
		return false, fmt.Errorf("blob %s: %w", oid, err)
	}

	return CyclicRangeOverlaps(env.W, env.E, ctx.rect.W, ctx.rect.E) &&
		RangeOverlaps(env.S, env.N, ctx.rect.S, ctx.rect.N), nil
}

// Free emits the final statistics and releases the index connection,
// statement, and decoder. Safe to call on a context whose index never
// opened.
func Free(repo Repository, ctx *Context) {
	fmt.Fprintf(ctx.progress, "spatial-filter: %d\n", ctx.count)

	if ctx.count > 0 {
		elapsed := time.Since(ctx.startedAt)
		ctx.log().Debug("spatial filter finished",
			"tested", ctx.count,
			"matched", ctx.matchCount,
			"elapsed", elapsed,
			"rate_per_sec", float64(ctx.count)/elapsed.Seconds(),
			"average_us", elapsed.Seconds()/float64(ctx.count)*1e6,
		)
	}

	if ctx.index != nil {
		if err := ctx.index.Close(); err != nil {
			ctx.log().Warn("closing spatial index", "error", err)
		}
		ctx.index = nil
	}
	ctx.decoder = nil
}

func mustBeType(obj Object, want gitobj.ObjectType) {
	if obj.Type() != want {
		panic(fmt.Sprintf("spatial filter: object %s has type %s, want %s", obj.OID(), obj.Type(), want))
	}
}

// Extension is the descriptor the object-store host loads the filter
// through: a name and the three lifecycle callbacks.
type Extension struct {
	Name         string
	Init         func(repo Repository, filterArg string) (*Context, error)
	FilterObject func(repo Repository, situation Situation, obj Object, pathname, filename string, omit *bool, ctx *Context) (Result, error)
	Free         func(repo Repository, ctx *Context)
}

// Spatial is the exported descriptor, registered with the host under
// the name "spatial".
var Spatial = Extension{
	Name:         "spatial",
	Init:         Init,
	FilterObject: FilterObject,
	Free:         Free,
}
