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

// Package coeff defines the coefficient abstraction required by the series
// engine, along with arbitrary-precision integer, rational and prime-field
// implementations.
package coeff

import (
	"errors"
	"fmt"
	"io"
)

// ErrCoefficient indicates a failure arising within a coefficient
// implementation, such as division by zero.
var ErrCoefficient = errors.New("coefficient error")

// Coefficient abstracts the numeric multiplier of a term.  Operations return
// fresh values; implementations may share immutable internals but must never
// expose aliased mutable state.
type Coefficient[C any] interface {
	fmt.Stringer
	// Check whether this coefficient is zero.  The container never stores a
	// term whose coefficient tests zero.
	IsZero() bool
	// Check whether this coefficient is the multiplicative identity.
	IsOne() bool
	// Compute this + other.
	Add(other C) C
	// Compute this - other.
	Sub(other C) C
	// Compute this * other.
	Mul(other C) C
	// Compute -this.
	Neg() C
	// Produce an independent deep copy.
	Clone() C
	// Check equality with another coefficient.
	Equals(other C) bool
	// Number of bytes of storage owned by this coefficient.
	ByteSize() uint64
	// Write this coefficient to a binary stream.
	Encode(w io.Writer) error
}

// Ring supplies the distinguished elements and deserialisation for a
// coefficient type.
type Ring[C Coefficient[C]] interface {
	// The additive identity.
	Zero() C
	// The multiplicative identity.
	One() C
	// Embed a machine integer.
	FromInt64(v int64) C
	// Read back a coefficient previously written by Encode.
	Decode(r io.Reader) (C, error)
}

// Divisible identifies coefficient types supporting exact division by a
// machine integer, as required by integration.
type Divisible[C any] interface {
	Coefficient[C]
	// Compute this / v, failing with ErrCoefficient if v is zero or the
	// division is not exact.
	DivInt64(v int64) (C, error)
}
