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
	"github.com/consensys/go-series/pkg/coeff"
	"github.com/consensys/go-series/pkg/collection/hash"
	"github.com/consensys/go-series/pkg/symbol"
)

// Add computes a + b as a new series.  Operands over different symbol sets
// are rewritten into the merged set first; truncation tags combine under the
// compatibility policy, with the result filtered to the combined bound.
//
//nolint:revive
func Add[K Key[K], C coeff.Coefficient[C]](a *Series[K, C], b *Series[K, C]) (_ *Series[K, C], err error) {
	// Series-valued coefficients report failures by panicking across the
	// coefficient interface; translate them back here.
	defer catchNested(&err)
	//
	base, other, err := alignPair(a, b)
	//
	if err != nil {
		return nil, err
	}
	// Iterate the smaller operand into a copy of the larger.
	if base.Len() < other.Len() {
		base, other = other, base
	}
	//
	base = base.Clone()
	base.truncateTerms()
	//
	other.ForEach(func(k K, c C) bool {
		// Cannot fail: arity established by alignment.
		_ = base.AddTerm(k.Clone(), c.Clone())
		return true
	})
	//
	return base, nil
}

// Sub computes a - b as a new series, under the same alignment and tag
// policy as Add.
//
//nolint:revive
func Sub[K Key[K], C coeff.Coefficient[C]](a *Series[K, C], b *Series[K, C]) (_ *Series[K, C], err error) {
	defer catchNested(&err)
	//
	base, other, err := alignPair(a, b)
	//
	if err != nil {
		return nil, err
	}
	//
	base = base.Clone()
	base.truncateTerms()
	//
	other.ForEach(func(k K, c C) bool {
		_ = base.AddTerm(k.Clone(), c.Neg())
		return true
	})
	//
	return base, nil
}

// AddInPlace computes a += b, returning the mutated left operand.  The left
// operand keeps its key and coefficient types; on failure it provides the
// basic guarantee only.
func AddInPlace[K Key[K], C coeff.Coefficient[C]](a *Series[K, C], b *Series[K, C]) (*Series[K, C], error) {
	r, err := Add(a, b)
	//
	if err != nil {
		return nil, err
	}
	//
	*a = *r
	//
	return a, nil
}

// SubInPlace computes a -= b, returning the mutated left operand.
func SubInPlace[K Key[K], C coeff.Coefficient[C]](a *Series[K, C], b *Series[K, C]) (*Series[K, C], error) {
	r, err := Sub(a, b)
	//
	if err != nil {
		return nil, err
	}
	//
	*a = *r
	//
	return a, nil
}

// MulInPlace computes a *= b, returning the mutated left operand.  Since
// multiplication builds a fresh container regardless, failure leaves the
// left operand untouched.
func MulInPlace[K Key[K], C coeff.Coefficient[C]](a *Series[K, C], b *Series[K, C]) (*Series[K, C], error) {
	r, err := Mul(a, b)
	//
	if err != nil {
		return nil, err
	}
	//
	*a = *r
	//
	return a, nil
}

// Negate computes -a as a new series.
func Negate[K Key[K], C coeff.Coefficient[C]](a *Series[K, C]) *Series[K, C] {
	r := a.Clone()
	r.terms.MapValues(func(_ K, c C) (C, bool) { return c.Neg(), true })
	//
	return r
}

// MulScalar multiplies every coefficient of a by the given scalar.  A zero
// scalar yields the empty series over the *empty* symbol set, with the
// truncation tag preserved.
//
//nolint:revive
func MulScalar[K Key[K], C coeff.Coefficient[C]](a *Series[K, C], scalar C) *Series[K, C] {
	if scalar.IsZero() {
		r := &Series[K, C]{
			factory: a.factory,
			ring:    a.ring,
			symbols: symbol.EmptySet(),
			terms:   hash.NewSegmentedMap[K, C](DefaultLogSegments),
		}
		//
		r.adoptTag(a.trunc)
		//
		return r
	}
	//
	r := a.Clone()
	// Rescaling cannot cancel a term in an integral domain, but modular
	// coefficient rings have zero divisors, so cancellation is honoured.
	r.terms.MapValues(func(_ K, c C) (C, bool) {
		v := c.Mul(scalar)
		return v, !v.IsZero()
	})
	//
	return r
}

// AddScalar computes a + c, treating the scalar as a constant-coefficient
// term over the unit monomial.
func AddScalar[K Key[K], C coeff.Coefficient[C]](a *Series[K, C], scalar C) (*Series[K, C], error) {
	var (
		r       = a.Clone()
		unit, _ = a.factory.Unit(a.symbols.Len())
	)
	//
	if err := r.AddTerm(unit, scalar.Clone()); err != nil {
		return nil, err
	}
	//
	return r, nil
}

// SubScalar computes a - c.
func SubScalar[K Key[K], C coeff.Coefficient[C]](a *Series[K, C], scalar C) (*Series[K, C], error) {
	return AddScalar(a, scalar.Neg())
}

// One constructs the multiplicative identity over the given symbol set and
// truncation policy: a single unit-monomial term with coefficient one.  With
// a negative total truncation bound even the unit term is discarded, giving
// the zero series.
func One[K Key[K], C coeff.Coefficient[C]](factory KeyFactory[K], ring coeff.Ring[C],
	symbols *symbol.Set, trunc *Truncation) (*Series[K, C], error) {
	//
	p, err := New(factory, ring, symbols, trunc)
	//
	if err != nil {
		return nil, err
	}
	//
	unit, err := factory.Unit(symbols.Len())
	//
	if err != nil {
		return nil, err
	}
	//
	if err := p.AddTerm(unit, ring.One()); err != nil {
		return nil, err
	}
	//
	return p, nil
}

// Pow computes a^n by repeated multiplication.  a^0 is the multiplicative
// identity over a's symbol set and truncation policy.
//
//nolint:revive
func Pow[K Key[K], C coeff.Coefficient[C]](a *Series[K, C], n uint) (*Series[K, C], error) {
	r, err := One(a.factory, a.ring, a.symbols, a.trunc)
	//
	if err != nil {
		return nil, err
	}
	//
	for i := uint(0); i < n; i++ {
		if r, err = Mul(r, a); err != nil {
			return nil, err
		}
	}
	//
	return r, nil
}

// ============================================================================
// Alignment
// ============================================================================

// Rewrite two operands into their merged symbol set and combine their
// truncation tags.  Both returned series carry the combined tag, but are not
// yet filtered to its bound; operands already over the merged set are
// returned as-is (unfiltered), so callers must clone before mutating.
//
//nolint:revive
func alignPair[K Key[K], C coeff.Coefficient[C]](a *Series[K, C],
	b *Series[K, C]) (*Series[K, C], *Series[K, C], error) {
	//
	trunc, err := combineTruncations(a.trunc, b.trunc)
	//
	if err != nil {
		return nil, nil, err
	}
	//
	if a.symbols.Equals(b.symbols) {
		a, b = a.withTag(trunc), b.withTag(trunc)
		return a, b, nil
	}
	//
	merged, mapA, mapB := symbol.Merge(a.symbols, b.symbols)
	//
	if a, err = a.remapped(merged, mapA, trunc); err != nil {
		return nil, nil, err
	} else if b, err = b.remapped(merged, mapB, trunc); err != nil {
		return nil, nil, err
	}
	//
	return a, b, nil
}

// Produce a shallow view of this series carrying the given tag; the view
// shares term storage with the original when the tag is unchanged.
func (p *Series[K, C]) withTag(trunc *Truncation) *Series[K, C] {
	if p.trunc == trunc || p.trunc.Equals(trunc) {
		return p
	}
	//
	r := &Series[K, C]{factory: p.factory, ring: p.ring, symbols: p.symbols, terms: p.terms}
	r.adoptTag(trunc)
	//
	return r
}

// Rebuild this series over a merged symbol set, re-indexing every monomial
// and attaching the given tag.  The result always owns fresh storage.
//
//nolint:revive
func (p *Series[K, C]) remapped(merged *symbol.Set, mapping []uint,
	trunc *Truncation) (*Series[K, C], error) {
	//
	r := &Series[K, C]{
		factory: p.factory,
		ring:    p.ring,
		symbols: merged,
		terms:   hash.NewSegmentedMap[K, C](p.terms.LogSegments()),
	}
	//
	r.adoptTag(trunc)
	//
	var err error
	//
	p.terms.ForEach(func(k K, c C) bool {
		var nk K
		// Zero-padding cannot overflow, but layout errors surface here.
		if nk, err = k.Remap(mapping, merged.Len()); err != nil {
			return false
		}
		//
		r.terms.InsertUnique(nk, c.Clone())
		//
		return true
	})
	//
	if err != nil {
		return nil, err
	}
	//
	return r, nil
}

// Install a tag without validating its symbol subset against the series'
// symbol set: positions of missing symbols simply do not contribute to the
// partial degree.  Adoption happens on internal paths where the subset was
// validated when the tag was first set, and on scalar-zero multiplication
// where the tag survives the symbol set being emptied.
func (p *Series[K, C]) adoptTag(trunc *Truncation) {
	if trunc == nil {
		trunc = NoTruncation()
	}
	//
	p.trunc = trunc
	p.pindex = nil
	//
	if trunc.Kind() == PartialTruncation {
		p.pindex = p.symbols.IndexIntersection(trunc.Symbols())
	}
}
