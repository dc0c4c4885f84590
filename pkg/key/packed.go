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
package key

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-series/pkg/collection/hash"
)

// MaxPackedArity bounds the number of exponents a fixed-size packed monomial
// can hold; beyond this the per-slot range becomes too small to be useful.
const MaxPackedArity = 16

// Packed is a monomial whose entire exponent vector is packed into a single
// machine word, for symbol sets of at most MaxPackedArity names.  Each slot
// is 64/arity bits wide with the top bit reserved as an overflow guard.
type Packed struct {
	word  uint64
	arity uint8
}

// NewPacked constructs a fixed-size packed monomial from the given exponent
// vector.  Fails with ErrInvalidShape if the vector is too long or any
// exponent does not fit its slot.
func NewPacked(exponents []int64) (Packed, error) {
	arity := uint(len(exponents))
	//
	if arity > MaxPackedArity {
		return Packed{}, fmt.Errorf("%w: %d exponents exceed fixed packing limit %d",
			ErrInvalidShape, arity, MaxPackedArity)
	} else if arity == 0 {
		return Packed{}, nil
	}
	//
	words, err := packUnsigned(exponents, arity)
	//
	if err != nil {
		return Packed{}, err
	}
	//
	return Packed{words[0], uint8(arity)}, nil
}

// Arity returns the number of exponents held by this monomial.
func (p Packed) Arity() uint {
	return uint(p.arity)
}

// IsUnit checks whether all exponents are zero.
func (p Packed) IsUnit() bool {
	return p.word == 0
}

// Clone returns this monomial (the representation is a value).
func (p Packed) Clone() Packed {
	return p
}

// Equals performs exponent-wise equality.
func (p Packed) Equals(other Packed) bool {
	return p.word == other.word && p.arity == other.arity
}

// Hash returns an FNV1a hashcode over the packed word.
func (p Packed) Hash() uint64 {
	return (hash.Offset64 ^ p.word) * hash.Prime64
}

// Degree returns the sum of all exponents.
func (p Packed) Degree() Degree {
	if p.arity == 0 {
		return 0
	}
	//
	return degreeUnsigned([]uint64{p.word}, uint(p.arity), uint(p.arity))
}

// PDegree returns the sum of exponents whose positions are in the given
// index set.
//
//nolint:revive
func (p Packed) PDegree(indices *bitset.BitSet) Degree {
	degree := Degree(0)
	words := [1]uint64{p.word}
	//
	for i, ok := indices.NextSet(0); ok && i < uint(p.arity); i, ok = indices.NextSet(i + 1) {
		degree += Degree(unpackOne(words[:], i, uint(p.arity)))
	}
	//
	return degree
}

// Mul computes the exponent-wise sum of two monomials, failing with
// ErrMonomialOverflow if any slot exceeds its bit width.
func (p Packed) Mul(other Packed) (Packed, error) {
	if p.arity != other.arity {
		return Packed{}, fmt.Errorf("%w: mismatched arities %d vs %d", ErrInvalidShape, p.arity, other.arity)
	} else if p.arity == 0 {
		return Packed{}, nil
	}
	//
	var (
		arity  = uint(p.arity)
		guards = guardMask(arity, slotWidth(arity))
		sum    = p.word + other.word
	)
	//
	if sum&guards != 0 {
		return Packed{}, ErrMonomialOverflow
	}
	//
	return Packed{sum, p.arity}, nil
}

// Unpack writes the exponent vector back out.
func (p Packed) Unpack() []int64 {
	if p.arity == 0 {
		return nil
	}
	//
	return unpackUnsigned([]uint64{p.word}, uint(p.arity), uint(p.arity))
}

// Remap re-indexes this monomial into a larger symbol set, padding new
// positions with zero exponents.  mapping[i] gives the new position of the
// ith exponent.
func (p Packed) Remap(mapping []uint, arity uint) (Packed, error) {
	exponents := make([]int64, arity)
	//
	for i, e := range p.Unpack() {
		exponents[mapping[i]] = e
	}
	//
	return NewPacked(exponents)
}

// ByteSize returns the number of bytes owned by this monomial.
func (p Packed) ByteSize() uint64 {
	return 9
}

// Encode writes this monomial to the given stream.
func (p Packed) Encode(w io.Writer) error {
	if err := binary.Write(w, binary.BigEndian, p.arity); err != nil {
		return err
	}
	//
	return binary.Write(w, binary.BigEndian, p.word)
}

// String renders the exponent vector, e.g. "(2,0,1)".
func (p Packed) String() string {
	return exponentString(p.Unpack())
}

// ============================================================================
// Factory
// ============================================================================

// PackedFactory constructs fixed-size packed monomials.
type PackedFactory struct{}

// Unit returns the monomial with all exponents zero.
func (PackedFactory) Unit(arity uint) (Packed, error) {
	if arity > MaxPackedArity {
		return Packed{}, fmt.Errorf("%w: %d exponents exceed fixed packing limit %d",
			ErrInvalidShape, arity, MaxPackedArity)
	}
	//
	return Packed{0, uint8(arity)}, nil
}

// FromExponents constructs a monomial from a raw exponent vector.
func (PackedFactory) FromExponents(exponents []int64) (Packed, error) {
	return NewPacked(exponents)
}

// Generator constructs the monomial with exponent one at the given position
// and zero elsewhere.
func (f PackedFactory) Generator(arity uint, index uint) (Packed, error) {
	exponents := make([]int64, arity)
	exponents[index] = 1
	//
	return NewPacked(exponents)
}

// Decode reads back a monomial previously written by Encode.
func (PackedFactory) Decode(r io.Reader) (Packed, error) {
	var (
		arity uint8
		word  uint64
	)
	//
	if err := binary.Read(r, binary.BigEndian, &arity); err != nil {
		return Packed{}, err
	} else if err := binary.Read(r, binary.BigEndian, &word); err != nil {
		return Packed{}, err
	} else if arity > MaxPackedArity {
		return Packed{}, fmt.Errorf("%w: decoded arity %d out of range", ErrInvalidShape, arity)
	}
	//
	return Packed{word, arity}, nil
}

func exponentString(exponents []int64) string {
	s := "("
	//
	for i, e := range exponents {
		if i != 0 {
			s += ","
		}
		//
		s += fmt.Sprintf("%d", e)
	}
	//
	return s + ")"
}
