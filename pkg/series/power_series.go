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
	"fmt"

	"github.com/consensys/go-series/pkg/coeff"
	"github.com/consensys/go-series/pkg/symbol"
)

// SetTotalTruncation installs a total-degree truncation tag on the given
// series and removes every term whose degree exceeds d.  On failure the
// series is cleared and its tag reset to no-truncation before the failure is
// returned, so the caller never observes a half-truncated series.
func SetTotalTruncation[K Key[K], C coeff.Coefficient[C]](p *Series[K, C], d int64) error {
	return setTruncation(p, Total(d))
}

// SetPartialTruncation installs a partial-degree truncation tag on the given
// series and removes every term whose degree over the named symbols exceeds
// d.  Fails with symbol.ErrUnknownSymbol if any named symbol is outside the
// series' symbol set; failure clears the series and resets its tag.
func SetPartialTruncation[K Key[K], C coeff.Coefficient[C]](p *Series[K, C], d int64, names ...string) error {
	return setTruncation(p, Partial(d, symbol.NewSet(names...)))
}

// UnsetTruncation removes the truncation tag; no terms are filtered.
func UnsetTruncation[K Key[K], C coeff.Coefficient[C]](p *Series[K, C]) {
	// Installing the trivial tag cannot fail.
	_ = p.setTag(NoTruncation())
}

// GetTruncation inspects the truncation tag of the given series.
func GetTruncation[K Key[K], C coeff.Coefficient[C]](p *Series[K, C]) *Truncation {
	return p.trunc
}

// Truncate re-applies the current truncation tag as a filter.
func Truncate[K Key[K], C coeff.Coefficient[C]](p *Series[K, C]) {
	p.truncateTerms()
}

// Install a tag and filter accordingly, restoring the series to a pristine
// (empty, untagged) state if anything goes wrong.
//
//nolint:revive
func setTruncation[K Key[K], C coeff.Coefficient[C]](p *Series[K, C], trunc *Truncation) error {
	if err := p.setTag(trunc); err != nil {
		p.terms.Clear()
		// Cannot fail for the trivial tag.
		_ = p.setTag(NoTruncation())
		//
		return err
	}
	//
	p.truncateTerms()
	//
	return nil
}

// ============================================================================
// Generator factories
// ============================================================================

// MakeGenerator creates the series x over the singleton symbol set {name}:
// one term with exponent one and coefficient one.
func MakeGenerator[K Key[K], C coeff.Coefficient[C]](factory KeyFactory[K], ring coeff.Ring[C],
	name string) (*Series[K, C], error) {
	return MakeGeneratorIn(factory, ring, symbol.NewSet(name), name, nil)
}

// MakeGeneratorIn creates the generator series x_i over the given symbol
// set, with the given truncation policy (nil meaning none).  The requested
// name must occur in the symbol set; otherwise the construction fails with
// symbol.ErrUnknownSymbol.  Note that a sufficiently tight truncation (e.g.
// total degree zero) legitimately leaves the generator series empty.
//
//nolint:revive
func MakeGeneratorIn[K Key[K], C coeff.Coefficient[C]](factory KeyFactory[K], ring coeff.Ring[C],
	symbols *symbol.Set, name string, trunc *Truncation) (*Series[K, C], error) {
	//
	index, ok := symbols.IndexOf(name)
	//
	if !ok {
		return nil, fmt.Errorf("%w: cannot create generator %q over %s",
			symbol.ErrUnknownSymbol, name, symbols)
	}
	//
	p, err := New(factory, ring, symbols, trunc)
	//
	if err != nil {
		return nil, err
	}
	//
	k, err := factory.Generator(symbols.Len(), index)
	//
	if err != nil {
		return nil, err
	}
	// AddTerm enforces the truncation bound.
	if err := p.AddTerm(k, ring.One()); err != nil {
		return nil, err
	}
	//
	return p, nil
}
