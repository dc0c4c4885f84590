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

// Diff computes the partial derivative of a series with respect to the named
// symbol, treating each monomial as a power product.  Fails with
// symbol.ErrUnknownSymbol if the name is not in the symbol set.
//
//nolint:revive
func Diff[K Key[K], C coeff.Coefficient[C]](p *Series[K, C], name string) (*Series[K, C], error) {
	index, ok := p.symbols.IndexOf(name)
	//
	if !ok {
		return nil, fmt.Errorf("%w: cannot differentiate with respect to %q over %s",
			symbol.ErrUnknownSymbol, name, p.symbols)
	}
	//
	r, err := New(p.factory, p.ring, p.symbols, nil)
	//
	if err != nil {
		return nil, err
	}
	//
	r.adoptTag(p.trunc)
	//
	p.terms.ForEach(func(k K, c C) bool {
		exponents := k.Unpack()
		e := exponents[index]
		// Constant terms (in the differentiation variable) vanish.
		if e == 0 {
			return true
		}
		//
		exponents[index] = e - 1
		//
		var nk K
		// Cannot overflow: every exponent shrinks or stays.
		if nk, err = p.factory.FromExponents(exponents); err != nil {
			return false
		}
		// Differentiation lowers degrees, so the truncation bound is
		// preserved and AddTerm cannot reject.
		if err = r.AddTerm(nk, c.Mul(p.ring.FromInt64(e))); err != nil {
			return false
		}
		//
		return true
	})
	//
	if err != nil {
		return nil, err
	}
	//
	return r, nil
}

// Integrate computes the antiderivative of a series with respect to the
// named symbol (with zero integration constant).  A term with exponent -1
// in the integration variable would produce a logarithm and fails with
// ErrNonIntegrable; coefficient division failures surface as
// coeff.ErrCoefficient.  Integration raises degrees, hence terms pushed
// beyond the truncation bound are discarded, consistent with every other
// constructing operation.
//
//nolint:revive
func Integrate[K Key[K], C coeff.Divisible[C]](p *Series[K, C], name string) (*Series[K, C], error) {
	index, ok := p.symbols.IndexOf(name)
	//
	if !ok {
		return nil, fmt.Errorf("%w: cannot integrate with respect to %q over %s",
			symbol.ErrUnknownSymbol, name, p.symbols)
	}
	//
	r, err := New(p.factory, p.ring, p.symbols, nil)
	//
	if err != nil {
		return nil, err
	}
	//
	r.adoptTag(p.trunc)
	//
	p.terms.ForEach(func(k K, c C) bool {
		exponents := k.Unpack()
		e := exponents[index]
		//
		if e == -1 {
			err = fmt.Errorf("%w: exponent -1 in %q", ErrNonIntegrable, name)
			return false
		}
		//
		exponents[index] = e + 1
		//
		var (
			nk K
			nc C
		)
		//
		if nk, err = p.factory.FromExponents(exponents); err != nil {
			return false
		} else if nc, err = c.DivInt64(e + 1); err != nil {
			return false
		}
		//
		if err = r.AddTerm(nk, nc); err != nil {
			return false
		}
		//
		return true
	})
	//
	if err != nil {
		return nil, err
	}
	//
	return r, nil
}
