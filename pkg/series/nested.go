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
	"io"

	"github.com/consensys/go-series/pkg/coeff"
	"github.com/consensys/go-series/pkg/symbol"
)

// Nested adapts a series into a coefficient, so that a higher-rank series
// can hold series-valued coefficients (e.g. a series in x whose coefficients
// are series in y).  Coefficient operations are infallible by contract, so
// failures of the underlying series operators (monomial overflow,
// incompatible truncation) surface as internal panics which the outer
// operators translate back into ordinary errors.
type Nested[K Key[K], C coeff.Coefficient[C]] struct {
	S *Series[K, C]
}

// IsZero checks whether the underlying series has no terms.
func (p Nested[K, C]) IsZero() bool {
	return p.S.IsZero()
}

// IsOne checks whether the underlying series is the constant one.
//
//nolint:revive
func (p Nested[K, C]) IsOne() bool {
	if p.S.Len() != 1 {
		return false
	}
	//
	one := true
	//
	p.S.ForEach(func(k K, c C) bool {
		one = k.IsUnit() && c.IsOne()
		return false
	})
	//
	return one
}

// Add computes this + other.
func (p Nested[K, C]) Add(other Nested[K, C]) Nested[K, C] {
	r, err := Add(p.S, other.S)
	//
	if err != nil {
		panic(nestedPanic{err})
	}
	//
	return Nested[K, C]{r}
}

// Sub computes this - other.
func (p Nested[K, C]) Sub(other Nested[K, C]) Nested[K, C] {
	r, err := Sub(p.S, other.S)
	//
	if err != nil {
		panic(nestedPanic{err})
	}
	//
	return Nested[K, C]{r}
}

// Mul computes this * other.
func (p Nested[K, C]) Mul(other Nested[K, C]) Nested[K, C] {
	r, err := Mul(p.S, other.S)
	//
	if err != nil {
		panic(nestedPanic{err})
	}
	//
	return Nested[K, C]{r}
}

// Neg computes -this.
func (p Nested[K, C]) Neg() Nested[K, C] {
	return Nested[K, C]{Negate(p.S)}
}

// Clone produces an independent deep copy.
func (p Nested[K, C]) Clone() Nested[K, C] {
	return Nested[K, C]{p.S.Clone()}
}

// Equals checks equality with another coefficient.
func (p Nested[K, C]) Equals(other Nested[K, C]) bool {
	return p.S.Equals(other.S)
}

// ByteSize returns the storage owned by the underlying series.
func (p Nested[K, C]) ByteSize() uint64 {
	return ByteSize(p.S)
}

// Encode writes the underlying series to a binary stream.
func (p Nested[K, C]) Encode(w io.Writer) error {
	return p.S.Encode(w)
}

// String renders the underlying series, parenthesised.
func (p Nested[K, C]) String() string {
	return "(" + p.S.String() + ")"
}

// ============================================================================
// Ring
// ============================================================================

// NestedRing lifts a coefficient ring to series-valued coefficients over an
// (initially empty) symbol set; symbol sets of nested coefficients merge as
// the series combine.
type NestedRing[K Key[K], C coeff.Coefficient[C]] struct {
	Factory KeyFactory[K]
	CfRing  coeff.Ring[C]
}

// Zero returns the additive identity: the empty series.
func (p NestedRing[K, C]) Zero() Nested[K, C] {
	s, err := New(p.Factory, p.CfRing, symbol.EmptySet(), nil)
	//
	if err != nil {
		panic(nestedPanic{err})
	}
	//
	return Nested[K, C]{s}
}

// One returns the multiplicative identity: the constant-one series.
func (p NestedRing[K, C]) One() Nested[K, C] {
	return p.FromInt64(1)
}

// FromInt64 embeds a machine integer as a constant series.
func (p NestedRing[K, C]) FromInt64(v int64) Nested[K, C] {
	s, err := New(p.Factory, p.CfRing, symbol.EmptySet(), nil)
	//
	if err == nil {
		var unit K
		//
		if unit, err = p.Factory.Unit(0); err == nil {
			err = s.AddTerm(unit, p.CfRing.FromInt64(v))
		}
	}
	//
	if err != nil {
		panic(nestedPanic{err})
	}
	//
	return Nested[K, C]{s}
}

// Decode reads back a coefficient previously written by Encode.
func (p NestedRing[K, C]) Decode(r io.Reader) (Nested[K, C], error) {
	s, err := Decode(p.Factory, p.CfRing, r)
	//
	if err != nil {
		return Nested[K, C]{}, err
	}
	//
	return Nested[K, C]{s}, nil
}

// ============================================================================
// Panic bridging
// ============================================================================

// Carrier for series failures crossing the infallible coefficient
// interface.
type nestedPanic struct {
	err error
}

// Translate a nestedPanic back into an error at an operator boundary,
// letting any other panic through.  Used as "defer catchNested(&err)".
func catchNested(err *error) {
	if r := recover(); r != nil {
		if np, ok := r.(nestedPanic); ok {
			*err = np.err
		} else {
			panic(r)
		}
	}
}
