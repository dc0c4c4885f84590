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
	"math"
	"math/rand/v2"
	"runtime"
	"sort"

	"github.com/consensys/go-series/pkg/coeff"
	"github.com/consensys/go-series/pkg/collection/hash"
	"github.com/consensys/go-series/pkg/util"
)

const (
	// Number of random term pairs sampled when estimating the output size of
	// a multiplication.
	estimationSamples = 512
	// Upper bound on the log-segment-count of a multiplication output.
	maxMulLogSegments = 20
	// Pair-count threshold below which the kernel runs on a single worker.
	sequentialPairLimit = 1024
)

// Mul computes a * b as a new series over the merged symbol set.  The
// operation provides the strong guarantee: on failure (including monomial
// overflow in any candidate term) no result is produced and the operands are
// untouched.
func Mul[K Key[K], C coeff.Coefficient[C]](a *Series[K, C], b *Series[K, C]) (*Series[K, C], error) {
	return MulContext(context.Background(), a, b)
}

// MulContext is Mul with cooperative cancellation: the kernel observes the
// context between granules (one left-hand term against the whole right-hand
// side) and fails with ErrCancelled, discarding all partial output.
//
//nolint:revive
func MulContext[K Key[K], C coeff.Coefficient[C]](ctx context.Context, a *Series[K, C],
	b *Series[K, C]) (*Series[K, C], error) {
	//
	stats := util.NewPerfStats()
	//
	am, bm, err := alignPair(a, b)
	//
	if err != nil {
		return nil, err
	}
	// Fresh output over the merged symbol set, carrying the combined tag.
	out := &Series[K, C]{
		factory: am.factory,
		ring:    am.ring,
		symbols: am.symbols,
		terms:   hash.NewSegmentedMap[K, C](DefaultLogSegments),
	}
	//
	out.adoptTag(am.trunc)
	//
	if am.IsZero() || bm.IsZero() {
		return out, nil
	}
	//
	var (
		bound, bounded = out.truncationBound()
		ta             = collectTerms(am, out)
		tb             = collectTerms(bm, out)
		// Degree-sorted early breaking requires nonnegative degrees, which
		// Laurent-style monomials do not guarantee.
		monotone = bounded && minDegree(ta) >= 0 && minDegree(tb) >= 0
	)
	//
	if monotone {
		sort.Slice(ta, func(i, j int) bool { return ta[i].deg < ta[j].deg })
		sort.Slice(tb, func(i, j int) bool { return tb[i].deg < tb[j].deg })
	}
	// Estimate the output size and shard the output accordingly.
	logn := chooseLogSegments(estimateOutputSize(ta, tb))
	out.terms = hash.NewSegmentedMap[K, C](logn)
	//
	if !bounded && isHomogeneous(ta) && isHomogeneous(tb) {
		err = mulHomogeneous(ctx, out, ta, tb)
	} else {
		err = mulSharded(ctx, out, ta, tb, bound, bounded, monotone)
	}
	//
	if err != nil {
		return nil, err
	}
	//
	stats.Log(fmt.Sprintf("Multiplied %d x %d terms into %d", len(ta), len(tb), out.Len()))
	//
	return out, nil
}

// A term flattened out of the container, along with the degree relevant to
// the active truncation policy (zero when untruncated).
type mulTerm[K Key[K], C coeff.Coefficient[C]] struct {
	k   K
	c   C
	deg int64
}

// ============================================================================
// Sharded kernel
// ============================================================================

// Multiply with workers owning disjoint destination segment ranges.  Every
// worker scans all pairs and keeps those whose product monomial hashes into
// its range; the exponent arithmetic is redone per worker, which is accepted
// because it is cheap relative to the coefficient work.  Each segment is
// written by exactly one worker, so no locks are required.
//
//nolint:revive
func mulSharded[K Key[K], C coeff.Coefficient[C]](ctx context.Context, out *Series[K, C],
	ta []mulTerm[K, C], tb []mulTerm[K, C], bound int64, bounded bool, monotone bool) error {
	//
	var (
		nworkers = shardWorkers(len(ta), len(tb), out.terms.SegmentCount())
		// Construct a communication channel for worker outcomes.
		ch = make(chan error, nworkers)
		// Destination segments per worker.
		share = out.terms.SegmentCount() / nworkers
	)
	//
	for w := uint(0); w < nworkers; w++ {
		lo := w * share
		hi := lo + share
		// Last worker picks up the remainder.
		if w+1 == nworkers {
			hi = out.terms.SegmentCount()
		}
		//
		go func(lo uint, hi uint) {
			ch <- mulRange(ctx, out, ta, tb, lo, hi, bound, bounded, monotone)
		}(lo, hi)
	}
	// Collect up all the results.
	var err error
	//
	for w := uint(0); w < nworkers; w++ {
		if e := <-ch; e != nil && err == nil {
			err = e
		}
	}
	// Once we get here, all workers have quiesced.
	return err
}

// The per-worker loop of the sharded kernel.
//
//nolint:revive
func mulRange[K Key[K], C coeff.Coefficient[C]](ctx context.Context, out *Series[K, C],
	ta []mulTerm[K, C], tb []mulTerm[K, C], lo uint, hi uint, bound int64, bounded bool,
	monotone bool) (err error) {
	// Failures of series-valued coefficients surface as panics.
	defer catchNested(&err)
	//
	for i := range ta {
		// Granule boundary: observe cancellation.
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrCancelled, err)
		}
		// With both operands sorted by ascending degree, the first pair over
		// the bound ends the whole scan.
		if monotone && ta[i].deg+tb[0].deg > bound {
			break
		}
		//
		for j := range tb {
			if bounded && ta[i].deg+tb[j].deg > bound {
				if monotone {
					// The remaining suffix of tb only grows in degree.
					break
				}
				//
				continue
			}
			//
			m, err := ta[i].k.Mul(tb[j].k)
			//
			if err != nil {
				return err
			}
			//
			s := out.terms.SegmentOf(m.Hash())
			//
			if s < lo || s >= hi {
				continue
			}
			// Only now pay for the coefficient product.
			out.terms.Segment(s).Upsert(m, ta[i].c.Mul(tb[j].c), combineAdd[C])
		}
	}
	//
	return nil
}

// ============================================================================
// Homogeneous kernel
// ============================================================================

// Multiply two homogeneous operands (all terms of one degree on each side)
// by splitting the left operand into stripes, one private output table per
// worker, merged afterwards.  For homogeneous operands the product terms
// all share one degree as well, making collisions across stripes common
// enough that redoing the exponent arithmetic per destination range (as the
// sharded kernel does) loses out to a straight partition of the pairs.
//
//nolint:revive
func mulHomogeneous[K Key[K], C coeff.Coefficient[C]](ctx context.Context, out *Series[K, C],
	ta []mulTerm[K, C], tb []mulTerm[K, C]) (err error) {
	// The sequential merge below goes through the coefficient combiner,
	// which can panic for series-valued coefficients.
	defer catchNested(&err)
	//
	type result struct {
		table *hash.SegmentedMap[K, C]
		err   error
	}
	//
	var (
		nworkers = shardWorkers(len(ta), len(tb), uint(len(ta)))
		ch       = make(chan result, nworkers)
		share    = uint(len(ta)) / nworkers
	)
	//
	for w := uint(0); w < nworkers; w++ {
		lo := w * share
		hi := lo + share
		//
		if w+1 == nworkers {
			hi = uint(len(ta))
		}
		//
		go func(stripe []mulTerm[K, C]) {
			table, err := mulStripe(ctx, out.terms.LogSegments(), stripe, tb)
			// Send outcome back
			ch <- result{table, err}
		}(ta[lo:hi])
	}
	// Collect all the results.
	var tables []*hash.SegmentedMap[K, C]
	//
	for w := uint(0); w < nworkers; w++ {
		r := <-ch
		//
		if r.err != nil && err == nil {
			err = r.err
		} else if r.err == nil {
			tables = append(tables, r.table)
		}
	}
	//
	if err != nil {
		return err
	}
	// Merge private tables sequentially; cancellations across stripes are
	// still possible and handled by the combiner.
	for _, table := range tables {
		table.ForEach(func(k K, c C) bool {
			out.terms.Upsert(k, c, combineAdd[C])
			return true
		})
	}
	//
	return nil
}

// The per-worker loop of the homogeneous kernel: one stripe of the left
// operand against the whole right operand, into a private table.
//
//nolint:revive
func mulStripe[K Key[K], C coeff.Coefficient[C]](ctx context.Context, logn uint,
	stripe []mulTerm[K, C], tb []mulTerm[K, C]) (_ *hash.SegmentedMap[K, C], err error) {
	//
	defer catchNested(&err)
	//
	table := hash.NewSegmentedMap[K, C](logn)
	//
	for i := range stripe {
		// Granule boundary: observe cancellation.
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCancelled, err)
		}
		//
		for j := range tb {
			m, err := stripe[i].k.Mul(tb[j].k)
			//
			if err != nil {
				return nil, err
			}
			//
			table.Upsert(m, stripe[i].c.Mul(tb[j].c), combineAdd[C])
		}
	}
	//
	return table, nil
}

// ============================================================================
// Estimation
// ============================================================================

// Estimate the number of distinct monomials in the output by sampling random
// pairs and counting hash repeats among the product monomials.  With u
// distinct values among s samples drawn from an output of size N, the
// birthday approximation gives s - u ≈ s²/2N, which is inverted here.  The
// estimate only sizes the output table; correctness never depends on it.
//
//nolint:revive
func estimateOutputSize[K Key[K], C coeff.Coefficient[C]](ta []mulTerm[K, C],
	tb []mulTerm[K, C]) uint64 {
	//
	total := uint64(len(ta)) * uint64(len(tb))
	//
	if total <= estimationSamples {
		return total
	}
	// Seeded off the operand shapes, so repeated runs size identically.
	var (
		rnd     = rand.New(rand.NewPCG(uint64(len(ta)), uint64(len(tb))))
		seen    = make(map[uint64]struct{}, estimationSamples)
		repeats = uint64(0)
	)
	//
	for i := 0; i < estimationSamples; i++ {
		var (
			x = ta[rnd.IntN(len(ta))]
			y = tb[rnd.IntN(len(tb))]
		)
		//
		m, err := x.k.Mul(y.k)
		// An overflowing sample cannot collide; the kernel will surface the
		// overflow as the operation's failure regardless.
		h := ^uint64(i)
		//
		if err == nil {
			h = m.Hash()
		}
		//
		if _, ok := seen[h]; ok {
			repeats++
		} else {
			seen[h] = struct{}{}
		}
	}
	//
	if repeats == 0 {
		return total
	}
	//
	return min(total, (estimationSamples*estimationSamples)/(2*repeats))
}

// Choose the log-segment-count such that the estimated output size per
// segment stays below the target load of 1.5.
//
//nolint:revive
func chooseLogSegments(n uint64) uint {
	logn := uint(DefaultLogSegments)
	//
	for logn < maxMulLogSegments && 2*n > 3*(uint64(1)<<logn) {
		logn++
	}
	//
	return logn
}

// ============================================================================
// Helpers
// ============================================================================

// Flatten a series into a term slice, recording the degree relevant to the
// output's truncation policy.
//
//nolint:revive
func collectTerms[K Key[K], C coeff.Coefficient[C]](p *Series[K, C],
	out *Series[K, C]) []mulTerm[K, C] {
	//
	terms := make([]mulTerm[K, C], 0, p.Len())
	//
	p.ForEach(func(k K, c C) bool {
		deg := int64(0)
		//
		switch out.trunc.Kind() {
		case TotalTruncation:
			deg = k.Degree()
		case PartialTruncation:
			deg = k.PDegree(out.pindex)
		}
		//
		terms = append(terms, mulTerm[K, C]{k, c, deg})
		//
		return true
	})
	//
	return terms
}

// The truncation bound of this series, if any.
func (p *Series[K, C]) truncationBound() (int64, bool) {
	if p.trunc.Kind() == NoTruncationKind {
		return math.MaxInt64, false
	}
	//
	return p.trunc.Degree(), true
}

//nolint:revive
func minDegree[K Key[K], C coeff.Coefficient[C]](terms []mulTerm[K, C]) int64 {
	m := int64(math.MaxInt64)
	//
	for i := range terms {
		m = min(m, terms[i].deg)
	}
	//
	return m
}

//nolint:revive
func isHomogeneous[K Key[K], C coeff.Coefficient[C]](terms []mulTerm[K, C]) bool {
	deg := terms[0].k.Degree()
	//
	for i := range terms {
		if terms[i].k.Degree() != deg {
			return false
		}
	}
	//
	return true
}

// Number of workers for a kernel: capped by the parallelism available, the
// number of shares, and dropping to one for small products.
//
//nolint:revive
func shardWorkers(na int, nb int, shares uint) uint {
	if uint64(na)*uint64(nb) < sequentialPairLimit {
		return 1
	}
	//
	n := min(uint(runtime.NumCPU()), shares)
	//
	return max(1, n)
}
