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

// MaxPSize bounds the number of exponent slots per word in a dynamically
// packed monomial.
const MaxPSize = 8

// DPacked is a monomial packed into an ordered sequence of words, each
// holding up to psize exponents; the final word may be partially filled.
// psize is fixed at construction and is part of the monomial's identity: two
// monomials with distinct psize never compare equal.
type DPacked struct {
	words []uint64
	arity uint16
	psize uint8
}

// NewDPacked constructs a dynamically packed monomial with the given slot
// count per word.  Fails with ErrInvalidShape if psize is out of range or
// any exponent does not fit its slot.
func NewDPacked(psize uint, exponents []int64) (DPacked, error) {
	if psize == 0 || psize > MaxPSize {
		return DPacked{}, fmt.Errorf("%w: psize %d outside [1, %d]", ErrInvalidShape, psize, MaxPSize)
	}
	//
	words, err := packUnsigned(exponents, psize)
	//
	if err != nil {
		return DPacked{}, err
	}
	//
	return DPacked{words, uint16(len(exponents)), uint8(psize)}, nil
}

// Arity returns the number of exponents held by this monomial.
func (p DPacked) Arity() uint {
	return uint(p.arity)
}

// PSize returns the number of exponent slots per word.
func (p DPacked) PSize() uint {
	return uint(p.psize)
}

// IsUnit checks whether all exponents are zero.
//
//nolint:revive
func (p DPacked) IsUnit() bool {
	for _, w := range p.words {
		if w != 0 {
			return false
		}
	}
	//
	return true
}

// Clone returns a deep copy of this monomial.
func (p DPacked) Clone() DPacked {
	words := make([]uint64, len(p.words))
	copy(words, p.words)
	//
	return DPacked{words, p.arity, p.psize}
}

// Equals performs exponent-wise equality.
//
//nolint:revive
func (p DPacked) Equals(other DPacked) bool {
	if p.arity != other.arity || p.psize != other.psize {
		return false
	}
	//
	for i, w := range p.words {
		if w != other.words[i] {
			return false
		}
	}
	//
	return true
}

// Hash returns an FNV1a hashcode over the packed words.  Equal monomials
// hash equal since equality is defined on the same words.
func (p DPacked) Hash() uint64 {
	return hash.Words(p.words)
}

// Degree returns the sum of all exponents.
func (p DPacked) Degree() Degree {
	return degreeUnsigned(p.words, uint(p.arity), uint(p.psize))
}

// PDegree returns the sum of exponents whose positions are in the given
// index set.
//
//nolint:revive
func (p DPacked) PDegree(indices *bitset.BitSet) Degree {
	degree := Degree(0)
	//
	for i, ok := indices.NextSet(0); ok && i < uint(p.arity); i, ok = indices.NextSet(i + 1) {
		degree += Degree(unpackOne(p.words, i, uint(p.psize)))
	}
	//
	return degree
}

// Mul computes the exponent-wise sum of two monomials, failing with
// ErrMonomialOverflow if any slot exceeds its bit width.  The addition is
// word-wise; the guard bit reserved in every slot rules out carries between
// slots.
func (p DPacked) Mul(other DPacked) (DPacked, error) {
	if p.arity != other.arity || p.psize != other.psize {
		return DPacked{}, fmt.Errorf("%w: mismatched monomial layout", ErrInvalidShape)
	}
	//
	var (
		guards = guardMask(uint(p.psize), slotWidth(uint(p.psize)))
		words  = make([]uint64, len(p.words))
	)
	//
	if err := addWords(words, p.words, other.words, guards); err != nil {
		return DPacked{}, err
	}
	//
	return DPacked{words, p.arity, p.psize}, nil
}

// Unpack writes the exponent vector back out.
func (p DPacked) Unpack() []int64 {
	return unpackUnsigned(p.words, uint(p.arity), uint(p.psize))
}

// Remap re-indexes this monomial into a larger symbol set, padding new
// positions with zero exponents.  mapping[i] gives the new position of the
// ith exponent.
func (p DPacked) Remap(mapping []uint, arity uint) (DPacked, error) {
	exponents := make([]int64, arity)
	//
	for i, e := range p.Unpack() {
		exponents[mapping[i]] = e
	}
	//
	return NewDPacked(uint(p.psize), exponents)
}

// ByteSize returns the number of bytes owned by this monomial, including its
// word storage.
func (p DPacked) ByteSize() uint64 {
	return uint64(len(p.words))*8 + 8
}

// Encode writes this monomial to the given stream.
//
//nolint:revive
func (p DPacked) Encode(w io.Writer) error {
	if err := binary.Write(w, binary.BigEndian, p.arity); err != nil {
		return err
	} else if err := binary.Write(w, binary.BigEndian, p.psize); err != nil {
		return err
	}
	//
	for _, word := range p.words {
		if err := binary.Write(w, binary.BigEndian, word); err != nil {
			return err
		}
	}
	// Done
	return nil
}

// String renders the exponent vector, e.g. "(2,0,1)".
func (p DPacked) String() string {
	return exponentString(p.Unpack())
}

// ============================================================================
// Factory
// ============================================================================

// DPackedFactory constructs dynamically packed monomials with a fixed psize.
type DPackedFactory struct {
	// Number of exponent slots per word, in [1, MaxPSize].
	PSize uint
}

// Unit returns the monomial with all exponents zero.
func (f DPackedFactory) Unit(arity uint) (DPacked, error) {
	return NewDPacked(f.PSize, make([]int64, arity))
}

// FromExponents constructs a monomial from a raw exponent vector.
func (f DPackedFactory) FromExponents(exponents []int64) (DPacked, error) {
	return NewDPacked(f.PSize, exponents)
}

// Generator constructs the monomial with exponent one at the given position
// and zero elsewhere.
func (f DPackedFactory) Generator(arity uint, index uint) (DPacked, error) {
	exponents := make([]int64, arity)
	exponents[index] = 1
	//
	return NewDPacked(f.PSize, exponents)
}

// Decode reads back a monomial previously written by Encode.
//
//nolint:revive
func (f DPackedFactory) Decode(r io.Reader) (DPacked, error) {
	var (
		arity uint16
		psize uint8
	)
	//
	if err := binary.Read(r, binary.BigEndian, &arity); err != nil {
		return DPacked{}, err
	} else if err := binary.Read(r, binary.BigEndian, &psize); err != nil {
		return DPacked{}, err
	} else if psize == 0 || psize > MaxPSize {
		return DPacked{}, fmt.Errorf("%w: decoded psize %d out of range", ErrInvalidShape, psize)
	}
	//
	n := (uint(arity) + uint(psize) - 1) / uint(psize)
	words := make([]uint64, n)
	//
	for i := range words {
		if err := binary.Read(r, binary.BigEndian, &words[i]); err != nil {
			return DPacked{}, err
		}
	}
	//
	return DPacked{words, arity, psize}, nil
}
