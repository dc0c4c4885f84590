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
	"encoding/binary"
	"fmt"
	"io"

	"github.com/consensys/go-series/pkg/coeff"
	"github.com/consensys/go-series/pkg/symbol"
)

// EncodeTruncation writes a truncation tag as a u8 variant index followed by
// its payload: nothing for no-truncation, the degree for total truncation,
// and the degree plus symbol subset for partial truncation.  Tags are
// written by value (no object tracking); equal tags deserialise to one
// storage cell again because decoding re-interns.
//
//nolint:revive
func EncodeTruncation(w io.Writer, t *Truncation) error {
	if err := binary.Write(w, binary.BigEndian, uint8(t.Kind())); err != nil {
		return err
	}
	//
	switch t.Kind() {
	case NoTruncationKind:
		return nil
	case TotalTruncation:
		return binary.Write(w, binary.BigEndian, t.Degree())
	default:
		if err := binary.Write(w, binary.BigEndian, t.Degree()); err != nil {
			return err
		}
		//
		return t.Symbols().Encode(w)
	}
}

// DecodeTruncation reads back a truncation tag previously written by
// EncodeTruncation, unifying it through the interner.
//
//nolint:revive
func DecodeTruncation(r io.Reader) (*Truncation, error) {
	var variant uint8
	//
	if err := binary.Read(r, binary.BigEndian, &variant); err != nil {
		return nil, err
	}
	//
	switch TruncationKind(variant) {
	case NoTruncationKind:
		return NoTruncation(), nil
	case TotalTruncation:
		var degree int64
		//
		if err := binary.Read(r, binary.BigEndian, &degree); err != nil {
			return nil, err
		}
		//
		return Total(degree), nil
	case PartialTruncation:
		var degree int64
		//
		if err := binary.Read(r, binary.BigEndian, &degree); err != nil {
			return nil, err
		}
		//
		symbols, err := symbol.DecodeSet(r)
		//
		if err != nil {
			return nil, err
		}
		//
		return Partial(degree, symbols), nil
	default:
		return nil, fmt.Errorf("invalid truncation variant index %d", variant)
	}
}

// Encode writes this series to a binary stream: symbol set, truncation tag,
// term count and then each term as monomial followed by coefficient.  Term
// order is unspecified but the decoded series compares equal.
//
//nolint:revive
func (p *Series[K, C]) Encode(w io.Writer) error {
	if err := p.symbols.Encode(w); err != nil {
		return err
	} else if err := EncodeTruncation(w, p.trunc); err != nil {
		return err
	} else if err := binary.Write(w, binary.BigEndian, uint64(p.Len())); err != nil {
		return err
	}
	//
	var err error
	//
	p.terms.ForEach(func(k K, c C) bool {
		if err = k.Encode(w); err != nil {
			return false
		} else if err = c.Encode(w); err != nil {
			return false
		}
		//
		return true
	})
	//
	return err
}

// Decode reads back a series previously written by Encode.
//
//nolint:revive
func Decode[K Key[K], C coeff.Coefficient[C]](factory KeyFactory[K], ring coeff.Ring[C],
	r io.Reader) (*Series[K, C], error) {
	//
	symbols, err := symbol.DecodeSet(r)
	//
	if err != nil {
		return nil, err
	}
	//
	trunc, err := DecodeTruncation(r)
	//
	if err != nil {
		return nil, err
	}
	//
	p, err := New(factory, ring, symbols, nil)
	//
	if err != nil {
		return nil, err
	}
	// The encoded tag was valid for the encoded series, so adopt it without
	// re-validation (a series can legitimately carry a partial tag over a
	// shrunk symbol set, e.g. after scalar-zero multiplication).
	p.adoptTag(trunc)
	//
	var count uint64
	//
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, err
	}
	//
	for i := uint64(0); i < count; i++ {
		k, err := factory.Decode(r)
		//
		if err != nil {
			return nil, err
		}
		//
		c, err := ring.Decode(r)
		//
		if err != nil {
			return nil, err
		}
		//
		if err := p.AddTerm(k, c); err != nil {
			return nil, err
		}
	}
	//
	return p, nil
}
