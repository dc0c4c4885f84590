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
package coeff

import (
	"fmt"
	"io"
	"math/big"
)

// Rat is an arbitrary-precision rational coefficient, kept in lowest terms.
type Rat struct {
	value *big.Rat
}

// NewRat constructs a rational coefficient num/den.  Panics if den is zero,
// matching big.Rat.
func NewRat(num int64, den int64) Rat {
	return Rat{big.NewRat(num, den)}
}

// Rational returns the underlying value.  The result must not be mutated.
func (p Rat) Rational() *big.Rat {
	return p.value
}

// IsZero checks whether this coefficient is zero.
func (p Rat) IsZero() bool {
	return p.value.Sign() == 0
}

// IsOne checks whether this coefficient is one.
func (p Rat) IsOne() bool {
	return p.value.Cmp(oneRat) == 0
}

// Add computes this + other.
func (p Rat) Add(other Rat) Rat {
	var r big.Rat
	r.Add(p.value, other.value)
	//
	return Rat{&r}
}

// Sub computes this - other.
func (p Rat) Sub(other Rat) Rat {
	var r big.Rat
	r.Sub(p.value, other.value)
	//
	return Rat{&r}
}

// Mul computes this * other.
func (p Rat) Mul(other Rat) Rat {
	var r big.Rat
	r.Mul(p.value, other.value)
	//
	return Rat{&r}
}

// Neg computes -this.
func (p Rat) Neg() Rat {
	var r big.Rat
	r.Neg(p.value)
	//
	return Rat{&r}
}

// Clone produces an independent deep copy.
func (p Rat) Clone() Rat {
	var r big.Rat
	r.Set(p.value)
	//
	return Rat{&r}
}

// Equals checks equality with another coefficient.
func (p Rat) Equals(other Rat) bool {
	return p.value.Cmp(other.value) == 0
}

// DivInt64 computes this / v, failing with ErrCoefficient if v is zero.
func (p Rat) DivInt64(v int64) (Rat, error) {
	if v == 0 {
		return Rat{}, fmt.Errorf("%w: division by zero", ErrCoefficient)
	}
	//
	var r big.Rat
	r.Quo(p.value, big.NewRat(v, 1))
	//
	return Rat{&r}, nil
}

// ByteSize returns the number of bytes of storage owned by this coefficient.
func (p Rat) ByteSize() uint64 {
	num := uint64(len(p.value.Num().Bits())) * 8
	den := uint64(len(p.value.Denom().Bits())) * 8
	//
	return num + den + 32
}

// Encode writes this coefficient as numerator then denominator.
func (p Rat) Encode(w io.Writer) error {
	if err := (Int{p.value.Num()}).Encode(w); err != nil {
		return err
	}
	//
	return (Int{p.value.Denom()}).Encode(w)
}

// String renders this coefficient, e.g. "3/4".
func (p Rat) String() string {
	return p.value.RatString()
}

var oneRat = big.NewRat(1, 1)

// ============================================================================
// Ring
// ============================================================================

// RatRing is the field of arbitrary-precision rational coefficients.
type RatRing struct{}

// Zero returns the additive identity.
func (RatRing) Zero() Rat {
	return NewRat(0, 1)
}

// One returns the multiplicative identity.
func (RatRing) One() Rat {
	return NewRat(1, 1)
}

// FromInt64 embeds a machine integer.
func (RatRing) FromInt64(v int64) Rat {
	return NewRat(v, 1)
}

// Decode reads back a coefficient previously written by Encode.
//
//nolint:revive
func (RatRing) Decode(r io.Reader) (Rat, error) {
	num, err := IntRing{}.Decode(r)
	//
	if err != nil {
		return Rat{}, err
	}
	//
	den, err := IntRing{}.Decode(r)
	//
	if err != nil {
		return Rat{}, err
	} else if den.IsZero() {
		return Rat{}, fmt.Errorf("%w: decoded zero denominator", ErrCoefficient)
	}
	//
	var v big.Rat
	v.SetFrac(num.BigInt(), den.BigInt())
	//
	return Rat{&v}, nil
}
