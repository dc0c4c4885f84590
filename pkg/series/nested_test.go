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
	"testing"

	"github.com/consensys/go-series/pkg/coeff"
	"github.com/consensys/go-series/pkg/key"
	"github.com/consensys/go-series/pkg/symbol"
)

func Test_Nested_01(t *testing.T) {
	// A rank-2 series: coefficients are themselves series.  Build t*x + 1
	// as a series in t with series-in-x coefficients, square it, and check
	// the coefficient of t^2 is x^2.
	var (
		nring = NestedRing[key.DPacked, coeff.Int]{dp2Factory, intRing}
		x, _  = MakeGenerator(dp2Factory, intRing, "x")
	)
	//
	outer, err := New[key.DPacked, Nested[key.DPacked, coeff.Int]](
		dp2Factory, nring, symbol.NewSet("t"), nil)
	checkOk(t, err)
	//
	kt, err := dp2Factory.FromExponents([]int64{1})
	checkOk(t, err)
	k0, err := dp2Factory.FromExponents([]int64{0})
	checkOk(t, err)
	//
	checkOk(t, outer.AddTerm(kt, Nested[key.DPacked, coeff.Int]{x}))
	checkOk(t, outer.AddTerm(k0, nring.One()))
	//
	sq, err := Mul(outer, outer)
	checkOk(t, err)
	//
	if sq.Len() != 3 {
		t.Fatalf("expected 3 terms, got %d", sq.Len())
	}
	//
	kt2, err := dp2Factory.FromExponents([]int64{2})
	checkOk(t, err)
	//
	c, ok := sq.Find(kt2)
	//
	if !ok {
		t.Fatalf("missing t^2 term")
	}
	// The t^2 coefficient is x^2.
	x2, err := Mul(x, x)
	checkOk(t, err)
	//
	if !c.S.Equals(x2) {
		t.Errorf("expected x^2 coefficient, got %s", c)
	}
	// The t^1 coefficient is 2x.
	c, ok = sq.Find(kt)
	//
	if !ok || !c.S.Equals(MulScalar(x, coeff.NewInt(2))) {
		t.Errorf("expected 2x coefficient, got %s", c)
	}
}

func Test_Nested_02(t *testing.T) {
	// Zero and one of the lifted ring behave as identities.
	nring := NestedRing[key.DPacked, coeff.Int]{dp2Factory, intRing}
	//
	if !nring.Zero().IsZero() || nring.Zero().IsOne() {
		t.Errorf("lifted zero malformed")
	}
	//
	if !nring.One().IsOne() || nring.One().IsZero() {
		t.Errorf("lifted one malformed")
	}
	//
	v := nring.FromInt64(3)
	//
	if !v.Add(v.Neg()).IsZero() {
		t.Errorf("lifted negation broken")
	}
}
