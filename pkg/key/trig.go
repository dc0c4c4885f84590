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

// Trig is a trigonometric monomial: a dynamically packed vector of *signed*
// exponents (the multipliers of a linear combination of angles) together
// with a type bit, true for cosine and false for sine.  A trigonometric
// monomial is canonical only when its first nonzero exponent is positive;
// constructors reject inputs violating this, and multiplication preserves it
// because the exponent-wise sum of two canonical vectors is canonical.
//
// Multiplication here is the key-level product only: exponents are added and
// the type bit combines as cos for like types and sin for mixed ones.  The
// expansion of a product of trigonometric terms into a sum-and-difference
// pair belongs to the series layer of a Poisson algebra, not to the key.
type Trig struct {
	words []uint64
	arity uint16
	psize uint8
	cos   bool
}

// NewTrig constructs a trigonometric monomial.  Fails with ErrInvalidShape
// if psize is out of range, any exponent does not fit its slot, or the first
// nonzero exponent is negative.
func NewTrig(psize uint, exponents []int64, cos bool) (Trig, error) {
	if psize == 0 || psize > MaxPSize {
		return Trig{}, fmt.Errorf("%w: psize %d outside [1, %d]", ErrInvalidShape, psize, MaxPSize)
	}
	//
	if err := checkCanonical(exponents); err != nil {
		return Trig{}, err
	}
	//
	words, err := packSigned(exponents, psize)
	//
	if err != nil {
		return Trig{}, err
	}
	//
	return Trig{words, uint16(len(exponents)), uint8(psize), cos}, nil
}

// Arity returns the number of exponents held by this monomial.
func (p Trig) Arity() uint {
	return uint(p.arity)
}

// IsCosine reports the type bit: true for cosine, false for sine.
func (p Trig) IsCosine() bool {
	return p.cos
}

// IsUnit checks whether this is the cosine monomial with all exponents zero
// (i.e. the multiplicative identity, cos(0) = 1).
//
//nolint:revive
func (p Trig) IsUnit() bool {
	if !p.cos {
		return false
	}
	//
	for _, w := range p.words {
		if w != 0 {
			return false
		}
	}
	//
	return true
}

// Clone returns a deep copy of this monomial.
func (p Trig) Clone() Trig {
	words := make([]uint64, len(p.words))
	copy(words, p.words)
	//
	return Trig{words, p.arity, p.psize, p.cos}
}

// Equals performs exponent-wise equality, including the type bit.
//
//nolint:revive
func (p Trig) Equals(other Trig) bool {
	if p.arity != other.arity || p.psize != other.psize || p.cos != other.cos {
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

// Hash returns an FNV1a hashcode over the packed words, mixing in the type
// bit.
func (p Trig) Hash() uint64 {
	h := hash.Words(p.words)
	//
	if p.cos {
		h = (h ^ 1) * hash.Prime64
	}
	//
	return h
}

// Degree returns the sum of all exponents.  For trigonometric monomials this
// can be negative.
//
//nolint:revive
func (p Trig) Degree() Degree {
	degree := Degree(0)
	//
	for _, e := range p.Unpack() {
		degree += e
	}
	//
	return degree
}

// PDegree returns the sum of exponents whose positions are in the given
// index set.
//
//nolint:revive
func (p Trig) PDegree(indices *bitset.BitSet) Degree {
	var (
		degree    = Degree(0)
		exponents = p.Unpack()
	)
	//
	for i, ok := indices.NextSet(0); ok && i < uint(p.arity); i, ok = indices.NextSet(i + 1) {
		degree += exponents[i]
	}
	//
	return degree
}

// Mul computes the exponent-wise sum of two monomials; the type bit combines
// as cosine for like operand types and sine otherwise.  Since both operands
// are canonical, so is the sum: the earlier first-nonzero entry survives
// with its sign.  Fails with ErrMonomialOverflow if any exponent sum leaves
// the representable range.
//
//nolint:revive
func (p Trig) Mul(other Trig) (Trig, error) {
	if p.arity != other.arity || p.psize != other.psize {
		return Trig{}, fmt.Errorf("%w: mismatched monomial layout", ErrInvalidShape)
	}
	//
	var (
		width = slotWidth(uint(p.psize))
		limit = int64(slotLimit(width))
		a     = p.Unpack()
		b     = other.Unpack()
		sum   = make([]int64, len(a))
	)
	//
	for i := range a {
		e := a[i] + b[i]
		//
		if e < -limit || e > limit {
			return Trig{}, ErrMonomialOverflow
		}
		//
		sum[i] = e
	}
	//
	words, err := packSigned(sum, uint(p.psize))
	//
	if err != nil {
		return Trig{}, err
	}
	//
	return Trig{words, p.arity, p.psize, p.cos == other.cos}, nil
}

// Conjugate negates the exponent vector and restores canonical form.  The
// returned flag indicates whether a sign was absorbed: conjugating a sine
// monomial with a nonzero exponent vector negates the underlying term
// (sin(-x) = -sin(x)), which the caller must apply to the coefficient.
//
//nolint:revive
func (p Trig) Conjugate() (Trig, bool) {
	nonzero := false
	//
	for _, w := range p.words {
		nonzero = nonzero || w != 0
	}
	// Negating a canonical vector yields a negative first-nonzero entry, so
	// restoring canonical form negates straight back: the exponents are
	// unchanged and only the trigonometric identities remain, cos(-x) =
	// cos(x) and sin(-x) = -sin(x).
	return p, !p.cos && nonzero
}

// Unpack writes the exponent vector back out.
//
//nolint:revive
func (p Trig) Unpack() []int64 {
	var (
		width     = slotWidth(uint(p.psize))
		half      = int64(1) << (width - 1)
		exponents = make([]int64, p.arity)
	)
	//
	for i := uint(0); i < uint(p.arity); i++ {
		e := int64(unpackOne(p.words, i, uint(p.psize)))
		// Sign extension.
		if e >= half {
			e -= half << 1
		}
		//
		exponents[i] = e
	}
	//
	return exponents
}

// Remap re-indexes this monomial into a larger symbol set, padding new
// positions with zero exponents.  Remapping preserves the relative order of
// symbols, hence canonicality is unaffected.
func (p Trig) Remap(mapping []uint, arity uint) (Trig, error) {
	exponents := make([]int64, arity)
	//
	for i, e := range p.Unpack() {
		exponents[mapping[i]] = e
	}
	//
	return NewTrig(uint(p.psize), exponents, p.cos)
}

// ByteSize returns the number of bytes owned by this monomial.
func (p Trig) ByteSize() uint64 {
	return uint64(len(p.words))*8 + 9
}

// Encode writes this monomial to the given stream.
//
//nolint:revive
func (p Trig) Encode(w io.Writer) error {
	if err := binary.Write(w, binary.BigEndian, p.arity); err != nil {
		return err
	} else if err := binary.Write(w, binary.BigEndian, p.psize); err != nil {
		return err
	} else if err := binary.Write(w, binary.BigEndian, p.cos); err != nil {
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

// String renders the monomial, e.g. "cos(1,-2,0)".
func (p Trig) String() string {
	if p.cos {
		return "cos" + exponentString(p.Unpack())
	}
	//
	return "sin" + exponentString(p.Unpack())
}

// ============================================================================
// Factory
// ============================================================================

// TrigFactory constructs trigonometric monomials with a fixed psize.
type TrigFactory struct {
	// Number of exponent slots per word, in [1, MaxPSize].
	PSize uint
}

// Unit returns the multiplicative identity, cos(0).
func (f TrigFactory) Unit(arity uint) (Trig, error) {
	return NewTrig(f.PSize, make([]int64, arity), true)
}

// FromExponents constructs a cosine monomial from a raw exponent vector.
func (f TrigFactory) FromExponents(exponents []int64) (Trig, error) {
	return NewTrig(f.PSize, exponents, true)
}

// Generator constructs the cosine monomial with exponent one at the given
// position and zero elsewhere.
func (f TrigFactory) Generator(arity uint, index uint) (Trig, error) {
	exponents := make([]int64, arity)
	exponents[index] = 1
	//
	return NewTrig(f.PSize, exponents, true)
}

// Decode reads back a monomial previously written by Encode.
//
//nolint:revive
func (f TrigFactory) Decode(r io.Reader) (Trig, error) {
	var (
		arity uint16
		psize uint8
		cos   bool
	)
	//
	if err := binary.Read(r, binary.BigEndian, &arity); err != nil {
		return Trig{}, err
	} else if err := binary.Read(r, binary.BigEndian, &psize); err != nil {
		return Trig{}, err
	} else if err := binary.Read(r, binary.BigEndian, &cos); err != nil {
		return Trig{}, err
	} else if psize == 0 || psize > MaxPSize {
		return Trig{}, fmt.Errorf("%w: decoded psize %d out of range", ErrInvalidShape, psize)
	}
	//
	n := (uint(arity) + uint(psize) - 1) / uint(psize)
	words := make([]uint64, n)
	//
	for i := range words {
		if err := binary.Read(r, binary.BigEndian, &words[i]); err != nil {
			return Trig{}, err
		}
	}
	//
	return Trig{words, arity, psize, cos}, nil
}

// ============================================================================
// Helpers
// ============================================================================

// A trigonometric exponent vector is canonical when its first nonzero entry
// is positive.
//
//nolint:revive
func checkCanonical(exponents []int64) error {
	for _, e := range exponents {
		if e > 0 {
			return nil
		} else if e < 0 {
			return fmt.Errorf("%w: first nonzero exponent is negative", ErrInvalidShape)
		}
	}
	//
	return nil
}

// Pack signed exponents, encoding each slot in two's complement truncated to
// the slot width.
//
//nolint:revive
func packSigned(exponents []int64, psize uint) ([]uint64, error) {
	var (
		width = slotWidth(psize)
		limit = int64(slotLimit(width))
		mask  = (uint64(1) << width) - 1
		n     = uint(len(exponents))
		words = make([]uint64, (n+psize-1)/psize)
	)
	//
	for i, e := range exponents {
		if e < -limit || e > limit {
			return nil, fmt.Errorf("%w: exponent %d outside packed slot range [%d, %d]",
				ErrInvalidShape, e, -limit, limit)
		}
		//
		word := uint(i) / psize
		slot := uint(i) % psize
		words[word] |= (uint64(e) & mask) << ((psize - 1 - slot) * width)
	}
	//
	return words, nil
}
