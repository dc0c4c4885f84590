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

// Package series implements sparse multivariate polynomials and truncated
// power series as sums of coefficient-times-monomial terms held in a
// segmented hash table.  A series couples a symbol set, a term container and
// an interned truncation tag; binary operators merge symbol sets, dispatch
// multiplication through a parallel sparse kernel, and combine tags under a
// strict compatibility policy.
package series

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-series/pkg/coeff"
	"github.com/consensys/go-series/pkg/collection/hash"
	"github.com/consensys/go-series/pkg/key"
	"github.com/consensys/go-series/pkg/symbol"
)

// ErrIncompatibleTruncation indicates a binary operation on two series whose
// truncation tags are both set but disagree (different variant or payload).
var ErrIncompatibleTruncation = errors.New("incompatible truncation")

// ErrCancelled indicates that cooperative cancellation was observed at a
// granule boundary; the operation's output was discarded.
var ErrCancelled = errors.New("operation cancelled")

// ErrNonIntegrable indicates integration of a term with exponent -1 in the
// integration variable, which would produce a logarithmic term.
var ErrNonIntegrable = errors.New("non-integrable term")

// DefaultLogSegments is the log-segment-count of a freshly constructed term
// container; the container re-shards itself as it fills, and the multiplier
// sizes its output container up front.
const DefaultLogSegments = 2

// Key abstracts the monomial of a term: a packed exponent vector supporting
// multiplication (exponent addition), degree and re-indexing.  The degree is
// required to be a monoid over multiplication, i.e. Degree(a*b) =
// a.Degree() + b.Degree(); the multiplier's truncation fusion relies on it.
type Key[K any] interface {
	hash.Hasher[K]
	fmt.Stringer
	// Produce an independent deep copy.
	Clone() K
	// Check whether all exponents are zero (the multiplicative identity).
	IsUnit() bool
	// Number of exponents held, which always equals the size of the
	// accompanying symbol set.
	Arity() uint
	// Sum of all exponents.
	Degree() int64
	// Sum of exponents at the given positions.
	PDegree(indices *bitset.BitSet) int64
	// Exponent-wise addition, failing with key.ErrMonomialOverflow if any
	// packed slot exceeds its bit width.
	Mul(other K) (K, error)
	// Re-index into a larger symbol set, padding new positions with zeros.
	Remap(mapping []uint, arity uint) (K, error)
	// Write the exponent vector back out.
	Unpack() []int64
	// Number of bytes of storage owned by this key.
	ByteSize() uint64
	// Write this key to a binary stream.
	Encode(w io.Writer) error
}

// KeyFactory constructs keys of a given kind, fixing layout parameters such
// as the slot count per word.
type KeyFactory[K Key[K]] interface {
	// The monomial with all exponents zero.
	Unit(arity uint) (K, error)
	// A monomial from a raw exponent vector.
	FromExponents(exponents []int64) (K, error)
	// The monomial with exponent one at the given position.
	Generator(arity uint, index uint) (K, error)
	// Read back a key previously written by Encode.
	Decode(r io.Reader) (K, error)
}

// Series is a sum of terms, each a monomial bound to a nonzero coefficient,
// over an ordered symbol set.  The truncation tag (always interned) bounds
// the degree of every stored term; the trivial NoTruncation tag makes the
// series a plain polynomial.
//
// A series owns its container outright: copies are deep.  Concurrent
// mutation of a single series is not supported.
type Series[K Key[K], C coeff.Coefficient[C]] struct {
	factory KeyFactory[K]
	ring    coeff.Ring[C]
	symbols *symbol.Set
	terms   *hash.SegmentedMap[K, C]
	trunc   *Truncation
	// Positions of the truncation's symbol subset within symbols; non-nil
	// exactly when trunc is partial.
	pindex *bitset.BitSet
}

// New constructs an empty series over the given symbol set with the given
// truncation tag (nil meaning no truncation).  Fails with
// symbol.ErrUnknownSymbol if a partial truncation names symbols outside the
// symbol set.
func New[K Key[K], C coeff.Coefficient[C]](factory KeyFactory[K], ring coeff.Ring[C],
	symbols *symbol.Set, trunc *Truncation) (*Series[K, C], error) {
	//
	p := &Series[K, C]{
		factory: factory,
		ring:    ring,
		symbols: symbols,
		terms:   hash.NewSegmentedMap[K, C](DefaultLogSegments),
		trunc:   NoTruncation(),
	}
	//
	if err := p.setTag(trunc); err != nil {
		return nil, err
	}
	//
	return p, nil
}

// Factory returns the key factory this series was built with.
func (p *Series[K, C]) Factory() KeyFactory[K] {
	return p.factory
}

// Ring returns the coefficient ring this series was built with.
func (p *Series[K, C]) Ring() coeff.Ring[C] {
	return p.ring
}

// Symbols returns the symbol set of this series.
func (p *Series[K, C]) Symbols() *symbol.Set {
	return p.symbols
}

// Len returns the number of terms in this series.
func (p *Series[K, C]) Len() uint {
	return p.terms.Size()
}

// IsZero checks whether this series has no terms.
func (p *Series[K, C]) IsZero() bool {
	return p.terms.IsEmpty()
}

// AddTerm inserts a term, combining coefficients if the monomial is already
// bound; exact cancellation removes the binding.  Terms beyond the
// truncation bound are discarded silently, and zero coefficients are
// ignored.  Fails with key.ErrInvalidShape if the monomial's exponent count
// differs from the symbol set size.
//
//nolint:revive
func (p *Series[K, C]) AddTerm(k K, c C) (err error) {
	defer catchNested(&err)
	//
	if k.Arity() != p.symbols.Len() {
		return fmt.Errorf("%w: monomial has %d exponents, symbol set has %d",
			key.ErrInvalidShape, k.Arity(), p.symbols.Len())
	}
	//
	if c.IsZero() || p.overBound(k) {
		return nil
	}
	//
	p.terms.Upsert(k, c, combineAdd[C])
	//
	return nil
}

// Find returns the coefficient bound to the given monomial, if any.
func (p *Series[K, C]) Find(k K) (C, bool) {
	return p.terms.Get(k)
}

// ForEach visits every term of this series until the callback returns false.
// The visiting order is unspecified.
func (p *Series[K, C]) ForEach(fn func(K, C) bool) {
	p.terms.ForEach(fn)
}

// Filter retains exactly those terms for which the predicate holds,
// returning the number of terms removed.  Segments are scanned by parallel
// workers; the predicate must therefore be safe for concurrent calls.
//
//nolint:revive
func (p *Series[K, C]) Filter(pred func(K, C) bool) uint {
	var (
		nsegs = p.terms.SegmentCount()
		// Construct a communication channel for removal counts.
		ch = make(chan uint, nsegs)
	)
	//
	for i := uint(0); i < nsegs; i++ {
		go func(index uint) {
			// Send outcome back
			ch <- p.terms.Segment(index).Filter(pred)
		}(i)
	}
	// Collect up all the results.
	removed := uint(0)
	//
	for i := uint(0); i < nsegs; i++ {
		removed += <-ch
	}
	//
	return removed
}

// Clear removes all terms, leaving symbol set and tag untouched.
func (p *Series[K, C]) Clear() {
	p.terms.Clear()
}

// Clone produces a deep copy of this series.
func (p *Series[K, C]) Clone() *Series[K, C] {
	return &Series[K, C]{
		factory: p.factory,
		ring:    p.ring,
		symbols: p.symbols,
		terms:   p.terms.Copy(func(k K) K { return k.Clone() }, func(c C) C { return c.Clone() }),
		trunc:   p.trunc,
		pindex:  p.pindex,
	}
}

// Equals checks whether two series hold the same terms over the same symbol
// set with the same truncation tag.
//
//nolint:revive
func (p *Series[K, C]) Equals(other *Series[K, C]) bool {
	if p.trunc != other.trunc || !p.symbols.Equals(other.symbols) {
		return false
	} else if p.Len() != other.Len() {
		return false
	}
	//
	equal := true
	//
	p.terms.ForEach(func(k K, c C) bool {
		if d, ok := other.terms.Get(k); !ok || !c.Equals(d) {
			equal = false
		}
		//
		return equal
	})
	//
	return equal
}

// String renders this series deterministically, with each term rendered as
// coefficient*exponents and the terms sorted by that text.
//
//nolint:revive
func (p *Series[K, C]) String() string {
	var parts []string
	//
	p.terms.ForEach(func(k K, c C) bool {
		parts = append(parts, fmt.Sprintf("%s*%s", c.String(), k.String()))
		return true
	})
	//
	sort.Strings(parts)
	//
	if len(parts) == 0 {
		return "0"
	}
	//
	return strings.Join(parts, " + ")
}

// ============================================================================
// Internal helpers
// ============================================================================

// Install a truncation tag, recomputing the partial-degree index cache.
// Does not filter existing terms.
//
//nolint:revive
func (p *Series[K, C]) setTag(trunc *Truncation) error {
	if trunc == nil {
		trunc = NoTruncation()
	}
	//
	p.trunc = trunc
	p.pindex = nil
	//
	if trunc.Kind() == PartialTruncation {
		pindex, err := p.symbols.IndexSubset(trunc.Symbols())
		//
		if err != nil {
			return err
		}
		//
		p.pindex = pindex
	}
	//
	return nil
}

// Check whether a monomial exceeds the truncation bound of this series.
func (p *Series[K, C]) overBound(k K) bool {
	switch p.trunc.Kind() {
	case TotalTruncation:
		return k.Degree() > p.trunc.Degree()
	case PartialTruncation:
		return k.PDegree(p.pindex) > p.trunc.Degree()
	default:
		return false
	}
}

// Remove every term beyond the truncation bound.
func (p *Series[K, C]) truncateTerms() {
	if p.trunc.Kind() != NoTruncationKind {
		p.Filter(func(k K, _ C) bool { return !p.overBound(k) })
	}
}

// Standard coefficient combiner: accumulate, and drop the entry on exact
// cancellation.
func combineAdd[C coeff.Coefficient[C]](old C, new C) (C, bool) {
	sum := old.Add(new)
	return sum, !sum.IsZero()
}
