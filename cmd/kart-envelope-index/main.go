// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

// kart-envelope-index inspects a feature_envelopes.db sidecar: it
// lists each indexed blob with its decoded envelope, optionally
// restricted to rows overlapping a query rectangle. Read-only: index
// generation belongs to the host tool.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/koordinates/kart-native/lib/process"
	"github.com/koordinates/kart-native/lib/spatial"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		dbPath string
		bbox   string
		limit  int
	)
	pflag.StringVar(&dbPath, "db", "", "path to a feature_envelopes.db (required)")
	pflag.StringVar(&bbox, "bbox", "", "only rows overlapping '<lng_w>,<lat_s>,<lng_e>,<lat_n>'")
	pflag.IntVar(&limit, "limit", 0, "stop after this many printed rows (0 = all)")
	pflag.Parse()

	if dbPath == "" {
		pflag.Usage()
		return fmt.Errorf("--db is required")
	}

	var rect spatial.Envelope
	filtered := bbox != ""
	if filtered {
		var err error
		rect, err = spatial.ParseBounds(bbox)
		if err != nil {
			return err
		}
	}

	index, err := spatial.OpenIndex(dbPath)
	if err != nil {
		return err
	}
	defer index.Close()

	// Precision is derived from the stored row width, as the filter
	// does from its first row; a row of a different width derives a
	// new decoder.
	var decoder *spatial.Encoder
	printed := 0
	total := 0

	err = index.Scan(func(blobID, envelope []byte) error {
		total++
		if limit > 0 && printed >= limit {
			return nil
		}
		if decoder == nil || decoder.ByteLength() != len(envelope) {
			derived, derivedErr := spatial.EncoderForByteLength(len(envelope))
			if derivedErr != nil {
				return fmt.Errorf("blob %x: %w", blobID, derivedErr)
			}
			decoder = derived
		}
		env, decodeErr := decoder.Decode(envelope)
		if decodeErr != nil {
			return fmt.Errorf("blob %x: %w", blobID, decodeErr)
		}

		if filtered {
			if !spatial.CyclicRangeOverlaps(env.W, env.E, rect.W, rect.E) ||
				!spatial.RangeOverlaps(env.S, env.N, rect.S, rect.N) {
				return nil
			}
		}

		fmt.Fprintf(os.Stdout, "%s\t%g\t%g\t%g\t%g\n",
			hex.EncodeToString(blobID), env.W, env.S, env.E, env.N)
		printed++
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%d of %d indexed blobs printed\n", printed, total)
	return nil
}
