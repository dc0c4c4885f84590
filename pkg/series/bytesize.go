// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package series

import (
	"context"
	"fmt"

	"github.com/consensys/go-series/pkg/coeff"
)

// Per-slot bookkeeping overhead of a segment table, and the fixed overhead
// of a segment and of the series itself.  These are estimates of the parts
// the generic code cannot observe directly.
const (
	slotOverhead    = 17
	segmentOverhead = 80
	seriesOverhead  = 96
)

// ByteSize returns the storage owned by the given series, in bytes,
// including term storage, table slack and fixed overheads.
func ByteSize[K Key[K], C coeff.Coefficient[C]](p *Series[K, C]) uint64 {
	// Cannot fail or block without a cancellable context.
	n, _ := ByteSizeContext(context.Background(), p)
	return n
}

// ByteSizeContext is ByteSize with cooperative cancellation, observed
// between segment scans.  Segments are scanned by parallel workers since a
// large series is dominated by its per-term coefficient storage.
//
//nolint:revive
func ByteSizeContext[K Key[K], C coeff.Coefficient[C]](ctx context.Context,
	p *Series[K, C]) (uint64, error) {
	//
	var (
		nsegs = p.terms.SegmentCount()
		// Construct a communication channel for per-segment sizes.
		ch = make(chan uint64, nsegs)
	)
	//
	for i := uint(0); i < nsegs; i++ {
		// Granule boundary: observe cancellation before dispatching.
		if err := ctx.Err(); err != nil {
			// Drain whatever was dispatched so far.
			for j := uint(0); j < i; j++ {
				<-ch
			}
			//
			return 0, fmt.Errorf("%w: %v", ErrCancelled, err)
		}
		//
		go func(index uint) {
			var (
				seg  = p.terms.Segment(index)
				size = uint64(segmentOverhead) + uint64(seg.Capacity())*slotOverhead
			)
			//
			seg.ForEach(func(k K, c C) bool {
				size += k.ByteSize() + c.ByteSize()
				return true
			})
			// Send outcome back
			ch <- size
		}(i)
	}
	// Collect up all the results.
	total := uint64(seriesOverhead)
	//
	for i := uint(0); i < nsegs; i++ {
		total += <-ch
	}
	//
	return total, nil
}
