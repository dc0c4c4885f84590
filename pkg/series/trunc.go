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
	"sync"

	"github.com/consensys/go-series/pkg/collection/hash"
	"github.com/consensys/go-series/pkg/symbol"
)

// TruncationKind discriminates the three shapes a truncation tag can take.
type TruncationKind uint8

const (
	// NoTruncationKind marks the absence of truncation.
	NoTruncationKind TruncationKind = iota
	// TotalTruncation bounds the total degree of every retained term.
	TotalTruncation
	// PartialTruncation bounds the degree over a subset of symbols.
	PartialTruncation
)

// Truncation is a degree-truncation tag attached to a power series.  Tags
// are interned: equal tags share one storage cell, so comparison is pointer
// comparison and hashing is O(1).  Always obtain tags through NoTruncation,
// Total or Partial; a Truncation literal is not interned and must not be
// compared by pointer.
type Truncation struct {
	kind    TruncationKind
	degree  int64
	symbols *symbol.Set
	// Hashcode, fixed at interning time.
	hash uint64
}

// Total returns the interned tag bounding total degree by d.
func Total(d int64) *Truncation {
	return intern(Truncation{kind: TotalTruncation, degree: d})
}

// Partial returns the interned tag bounding the degree over the given
// symbols by d.
func Partial(d int64, symbols *symbol.Set) *Truncation {
	return intern(Truncation{kind: PartialTruncation, degree: d, symbols: symbols})
}

// NoTruncation returns the interned tag marking the absence of truncation.
func NoTruncation() *Truncation {
	return intern(Truncation{})
}

// Kind returns the shape of this tag.
func (p *Truncation) Kind() TruncationKind {
	return p.kind
}

// Degree returns the degree bound of a total or partial tag.
func (p *Truncation) Degree() int64 {
	return p.degree
}

// Symbols returns the symbol subset of a partial tag, and nil otherwise.
func (p *Truncation) Symbols() *symbol.Set {
	return p.symbols
}

// Hash returns the (precomputed) hashcode of this tag.
func (p *Truncation) Hash() uint64 {
	return p.hash
}

// Equals performs structural equality between tags.  Interned tags can be
// compared by pointer instead.
//
//nolint:revive
func (p *Truncation) Equals(other *Truncation) bool {
	if p.kind != other.kind || p.degree != other.degree {
		return false
	}
	//
	if p.kind == PartialTruncation {
		return p.symbols.Equals(other.symbols)
	}
	//
	return true
}

// String renders this tag for diagnostics.
func (p *Truncation) String() string {
	switch p.kind {
	case TotalTruncation:
		return fmt.Sprintf("truncation: degree %d", p.degree)
	case PartialTruncation:
		return fmt.Sprintf("truncation: degree %d over %s", p.degree, p.symbols)
	default:
		return "truncation: none"
	}
}

// Determine the tag of a binary operation's result.  Absent tags defer to
// set ones; two set tags must agree.
//
//nolint:revive
func combineTruncations(a *Truncation, b *Truncation) (*Truncation, error) {
	switch {
	case a.kind == NoTruncationKind:
		return b, nil
	case b.kind == NoTruncationKind:
		return a, nil
	case a == b || a.Equals(b):
		return a, nil
	default:
		return nil, fmt.Errorf("%w: %s vs %s", ErrIncompatibleTruncation, a, b)
	}
}

// ============================================================================
// Interner
// ============================================================================

// The process-wide truncation tag pool.  Interning is idempotent and safe
// for concurrent use; since we anticipate a large number of hits compared
// with misses, lookups take a read lock and only insertion upgrades to the
// write lock (rechecking, as the tag may have been interned in between).
// The pool is initialised lazily and lives for the whole process: tags are
// tiny, and series hold them by pointer.
type truncInterner struct {
	mux     sync.RWMutex
	buckets map[uint64][]*Truncation
}

var (
	truncPool     *truncInterner
	truncPoolOnce sync.Once
)

func intern(t Truncation) *Truncation {
	truncPoolOnce.Do(func() {
		truncPool = &truncInterner{buckets: make(map[uint64][]*Truncation)}
	})
	//
	t.hash = truncHash(&t)
	//
	p := truncPool
	// Fast path: tag already interned.
	p.mux.RLock()
	cell := find(p.buckets[t.hash], &t)
	p.mux.RUnlock()
	//
	if cell != nil {
		return cell
	}
	// Slow path: insert under the write lock, rechecking first.
	p.mux.Lock()
	//
	if cell = find(p.buckets[t.hash], &t); cell == nil {
		cell = &t
		p.buckets[t.hash] = append(p.buckets[t.hash], cell)
	}
	//
	p.mux.Unlock()
	//
	return cell
}

//nolint:revive
func find(bucket []*Truncation, t *Truncation) *Truncation {
	for _, cell := range bucket {
		if cell.Equals(t) {
			return cell
		}
	}
	//
	return nil
}

func truncHash(t *Truncation) uint64 {
	h := hash.Offset64
	h = (h ^ uint64(t.kind)) * hash.Prime64
	h = (h ^ uint64(t.degree)) * hash.Prime64
	//
	if t.symbols != nil {
		for _, n := range t.symbols.Names() {
			for _, c := range []byte(n) {
				h = (h ^ uint64(c)) * hash.Prime64
			}
		}
	}
	//
	return h
}
