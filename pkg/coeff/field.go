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

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// Field is a prime-field coefficient over the BLS12-377 scalar field.
// Arithmetic is modular, hence exact; every nonzero element is invertible.
type Field struct {
	value fr.Element
}

// NewField constructs a field coefficient from a machine integer.
func NewField(v int64) Field {
	var e fr.Element
	e.SetInt64(v)
	//
	return Field{e}
}

// Element returns the underlying field element.
func (p Field) Element() fr.Element {
	return p.value
}

// IsZero checks whether this coefficient is zero.
func (p Field) IsZero() bool {
	return p.value.IsZero()
}

// IsOne checks whether this coefficient is one.
func (p Field) IsOne() bool {
	return p.value.IsOne()
}

// Add computes this + other.
func (p Field) Add(other Field) Field {
	var r fr.Element
	r.Add(&p.value, &other.value)
	//
	return Field{r}
}

// Sub computes this - other.
func (p Field) Sub(other Field) Field {
	var r fr.Element
	r.Sub(&p.value, &other.value)
	//
	return Field{r}
}

// Mul computes this * other.
func (p Field) Mul(other Field) Field {
	var r fr.Element
	r.Mul(&p.value, &other.value)
	//
	return Field{r}
}

// Neg computes -this.
func (p Field) Neg() Field {
	var r fr.Element
	r.Neg(&p.value)
	//
	return Field{r}
}

// Clone produces an independent copy (the representation is a value).
func (p Field) Clone() Field {
	return p
}

// Equals checks equality with another coefficient.
func (p Field) Equals(other Field) bool {
	return p.value.Equal(&other.value)
}

// DivInt64 computes this / v via field inversion, failing with
// ErrCoefficient if v is zero.
func (p Field) DivInt64(v int64) (Field, error) {
	if v == 0 {
		return Field{}, fmt.Errorf("%w: division by zero", ErrCoefficient)
	}
	//
	var d, r fr.Element
	//
	d.SetInt64(v)
	r.Inverse(&d)
	r.Mul(&r, &p.value)
	//
	return Field{r}, nil
}

// ByteSize returns the number of bytes of storage owned by this coefficient.
func (p Field) ByteSize() uint64 {
	return fr.Bytes
}

// Encode writes this coefficient as its canonical big-endian byte encoding.
func (p Field) Encode(w io.Writer) error {
	bytes := p.value.Bytes()
	_, err := w.Write(bytes[:])
	//
	return err
}

// String renders this coefficient in decimal.
func (p Field) String() string {
	return p.value.String()
}

// ============================================================================
// Ring
// ============================================================================

// FieldRing is the BLS12-377 scalar field.
type FieldRing struct{}

// Zero returns the additive identity.
func (FieldRing) Zero() Field {
	return Field{}
}

// One returns the multiplicative identity.
func (FieldRing) One() Field {
	return NewField(1)
}

// FromInt64 embeds a machine integer.
func (FieldRing) FromInt64(v int64) Field {
	return NewField(v)
}

// Decode reads back a coefficient previously written by Encode.
func (FieldRing) Decode(r io.Reader) (Field, error) {
	var buf [fr.Bytes]byte
	//
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Field{}, err
	}
	//
	var e fr.Element
	e.SetBytes(buf[:])
	//
	return Field{e}, nil
}
