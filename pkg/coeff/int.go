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
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/big"
)

// Int is an arbitrary-precision integer coefficient.
type Int struct {
	value *big.Int
}

// NewInt constructs an integer coefficient from a machine integer.
func NewInt(v int64) Int {
	return Int{big.NewInt(v)}
}

// NewIntFromBig constructs an integer coefficient from a big integer,
// copying the argument.
func NewIntFromBig(v *big.Int) Int {
	var r big.Int
	r.Set(v)
	//
	return Int{&r}
}

// BigInt returns the underlying integer value.  The result must not be
// mutated.
func (p Int) BigInt() *big.Int {
	return p.value
}

// IsZero checks whether this coefficient is zero.
func (p Int) IsZero() bool {
	return p.value.BitLen() == 0
}

// IsOne checks whether this coefficient is one.
func (p Int) IsOne() bool {
	return p.value.Cmp(oneInt) == 0
}

// Add computes this + other.
func (p Int) Add(other Int) Int {
	var r big.Int
	r.Add(p.value, other.value)
	//
	return Int{&r}
}

// Sub computes this - other.
func (p Int) Sub(other Int) Int {
	var r big.Int
	r.Sub(p.value, other.value)
	//
	return Int{&r}
}

// Mul computes this * other.
func (p Int) Mul(other Int) Int {
	var r big.Int
	r.Mul(p.value, other.value)
	//
	return Int{&r}
}

// Neg computes -this.
func (p Int) Neg() Int {
	var r big.Int
	r.Neg(p.value)
	//
	return Int{&r}
}

// Clone produces an independent deep copy.
func (p Int) Clone() Int {
	return NewIntFromBig(p.value)
}

// Equals checks equality with another coefficient.
func (p Int) Equals(other Int) bool {
	return p.value.Cmp(other.value) == 0
}

// ByteSize returns the number of bytes of storage owned by this coefficient.
func (p Int) ByteSize() uint64 {
	return uint64(len(p.value.Bits()))*8 + 16
}

// Encode writes this coefficient as a sign byte followed by a u32 length and
// the magnitude bytes.
//
//nolint:revive
func (p Int) Encode(w io.Writer) error {
	var (
		sign  = int8(p.value.Sign())
		bytes = p.value.Bytes()
	)
	//
	if len(bytes) > math.MaxUint32 {
		return fmt.Errorf("%w: integer too large to encode", ErrCoefficient)
	}
	//
	if err := binary.Write(w, binary.BigEndian, sign); err != nil {
		return err
	} else if err := binary.Write(w, binary.BigEndian, uint32(len(bytes))); err != nil {
		return err
	}
	//
	_, err := w.Write(bytes)
	//
	return err
}

// String renders this coefficient in decimal.
func (p Int) String() string {
	return p.value.String()
}

var oneInt = big.NewInt(1)

// ============================================================================
// Ring
// ============================================================================

// IntRing is the ring of arbitrary-precision integer coefficients.
type IntRing struct{}

// Zero returns the additive identity.
func (IntRing) Zero() Int {
	return NewInt(0)
}

// One returns the multiplicative identity.
func (IntRing) One() Int {
	return NewInt(1)
}

// FromInt64 embeds a machine integer.
func (IntRing) FromInt64(v int64) Int {
	return NewInt(v)
}

// Decode reads back a coefficient previously written by Encode.
//
//nolint:revive
func (IntRing) Decode(r io.Reader) (Int, error) {
	var (
		sign   int8
		length uint32
	)
	//
	if err := binary.Read(r, binary.BigEndian, &sign); err != nil {
		return Int{}, err
	} else if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return Int{}, err
	}
	//
	buf := make([]byte, length)
	//
	if _, err := io.ReadFull(r, buf); err != nil {
		return Int{}, err
	}
	//
	var v big.Int
	v.SetBytes(buf)
	//
	if sign < 0 {
		v.Neg(&v)
	}
	//
	return Int{&v}, nil
}
