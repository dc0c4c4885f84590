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
	"errors"
	"testing"

	"github.com/consensys/go-series/pkg/coeff"
	"github.com/consensys/go-series/pkg/key"
	"github.com/consensys/go-series/pkg/symbol"
)

func Test_Diff_01(t *testing.T) {
	// d/dx (x^2*y + 3x + y) = 2xy + 3
	s := mkPoly(t, []string{"x", "y"})
	addTerm(t, s, []int64{2, 1}, 1)
	addTerm(t, s, []int64{1, 0}, 3)
	addTerm(t, s, []int64{0, 1}, 1)
	//
	r, err := Diff(s, "x")
	checkOk(t, err)
	//
	if r.Len() != 2 {
		t.Fatalf("expected 2 terms, got %s", r)
	}
	//
	if c, ok := r.Find(mkKey(t, dp2Factory, []int64{1, 1})); !ok || !c.Equals(coeff.NewInt(2)) {
		t.Errorf("expected 2xy, got %s", r)
	}
	//
	if c, ok := r.Find(mkKey(t, dp2Factory, []int64{0, 0})); !ok || !c.Equals(coeff.NewInt(3)) {
		t.Errorf("expected constant 3, got %s", r)
	}
}

func Test_Diff_02(t *testing.T) {
	s := mkPoly(t, []string{"x"})
	//
	if _, err := Diff(s, "q"); !errors.Is(err, symbol.ErrUnknownSymbol) {
		t.Errorf("expected unknown symbol, got %v", err)
	}
}

func Test_Integrate_01(t *testing.T) {
	// ∫ x^2 dx = x^3/3
	var (
		ratRing = coeff.RatRing{}
		factory = key.DPackedFactory{PSize: 2}
	)
	//
	s, err := New[key.DPacked, coeff.Rat](factory, ratRing, symbol.NewSet("x"), nil)
	checkOk(t, err)
	//
	k, err := factory.FromExponents([]int64{2})
	checkOk(t, err)
	checkOk(t, s.AddTerm(k, coeff.NewRat(1, 1)))
	//
	r, err := Integrate(s, "x")
	checkOk(t, err)
	//
	k3, err := factory.FromExponents([]int64{3})
	checkOk(t, err)
	//
	if c, ok := r.Find(k3); !ok || !c.Equals(coeff.NewRat(1, 3)) {
		t.Errorf("expected x^3/3, got %s", r)
	}
	// Differentiating back restores the original.
	back, err := Diff(r, "x")
	checkOk(t, err)
	//
	if !back.Equals(s) {
		t.Errorf("∫ then d/dx is not the identity: %s", back)
	}
}

func Test_Integrate_02(t *testing.T) {
	// Exponent -1 in the integration variable is non-integrable.
	var (
		ratRing = coeff.RatRing{}
		factory = key.TrigFactory{PSize: 4}
	)
	//
	s, err := New[key.Trig, coeff.Rat](factory, ratRing, symbol.NewSet("x", "y"), nil)
	checkOk(t, err)
	//
	k, err := key.NewTrig(4, []int64{2, -1}, true)
	checkOk(t, err)
	checkOk(t, s.AddTerm(k, coeff.NewRat(1, 1)))
	//
	if _, err := Integrate(s, "y"); !errors.Is(err, ErrNonIntegrable) {
		t.Errorf("expected non-integrable, got %v", err)
	}
}
