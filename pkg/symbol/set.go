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
package symbol

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// ErrUnknownSymbol indicates that a requested symbol name does not occur in
// the symbol set being queried.
var ErrUnknownSymbol = errors.New("unknown symbol")

// Set is an immutable ordered set of distinct symbol names.  The index of a
// name within the set is its position in the underlying sorted order, and
// remains stable for the lifetime of the set.  Sets are shared freely between
// series and must never be mutated after construction.
type Set struct {
	names []string
}

// NewSet constructs a symbol set from the given names.  Duplicates are
// discarded and the result is sorted.
func NewSet(names ...string) *Set {
	data := make([]string, len(names))
	copy(data, names)
	sort.Strings(data)
	// Remove duplicates (if any)
	j := 0
	//
	for i, n := range data {
		if i == 0 || data[j-1] != n {
			data[j] = n
			j++
		}
	}
	//
	return &Set{data[:j]}
}

// EmptySet returns the symbol set containing no names.
func EmptySet() *Set {
	return &Set{}
}

// Len returns the number of symbols in this set.
func (p *Set) Len() uint {
	return uint(len(p.names))
}

// Nth returns the name at the given index.
func (p *Set) Nth(index uint) string {
	return p.names[index]
}

// Names returns the underlying sorted names.  The returned slice must not be
// modified.
func (p *Set) Names() []string {
	return p.names
}

// IndexOf determines the index of a given name within this set, returning
// false if the name is not present.
//
//nolint:revive
func (p *Set) IndexOf(name string) (uint, bool) {
	// Find index where name either does occur, or should occur.
	i := sort.SearchStrings(p.names, name)
	// Check whether name existed or not.
	if i < len(p.names) && p.names[i] == name {
		return uint(i), true
	}
	//
	return 0, false
}

// Contains checks whether a given name is in this set.
func (p *Set) Contains(name string) bool {
	_, ok := p.IndexOf(name)
	return ok
}

// Equals checks whether two symbol sets hold exactly the same names.
//
//nolint:revive
func (p *Set) Equals(other *Set) bool {
	if len(p.names) != len(other.names) {
		return false
	}
	//
	for i := range p.names {
		if p.names[i] != other.names[i] {
			return false
		}
	}
	//
	return true
}

// Merge computes the union of two symbol sets, along with re-indexing maps
// for each operand.  Specifically, mapA[i] gives the index within the merged
// set of the symbol a.Nth(i) (and likewise for mapB).  Merging is commutative
// and idempotent, and merging a set with itself yields identity maps.
//
//nolint:revive
func Merge(a *Set, b *Set) (*Set, []uint, []uint) {
	var (
		left  = a.names
		right = b.names
		// Count duplicates to size the merged set exactly.
		n     = countDuplicates(left, right)
		names = make([]string, 0, len(left)+len(right)-n)
	)
	// Merge the two sorted name sequences.
	i, j := 0, 0
	//
	for i < len(left) && j < len(right) {
		switch {
		case left[i] < right[j]:
			names = append(names, left[i])
			i++
		case left[i] > right[j]:
			names = append(names, right[j])
			j++
		default:
			names = append(names, left[i])
			i++
			j++
		}
	}
	//
	names = append(names, left[i:]...)
	names = append(names, right[j:]...)
	//
	merged := &Set{names}
	// Construct re-indexing maps.
	mapA := indexMap(merged, left)
	mapB := indexMap(merged, right)
	//
	return merged, mapA, mapB
}

// IndexSubset determines the indices within this set of every name in the
// given subset, returning them as a bitset.  Fails with ErrUnknownSymbol if
// any name of the subset does not occur in this set.
//
//nolint:revive
func (p *Set) IndexSubset(sub *Set) (*bitset.BitSet, error) {
	indices := bitset.New(uint(len(p.names)))
	//
	for _, n := range sub.names {
		i, ok := p.IndexOf(n)
		//
		if !ok {
			return nil, fmt.Errorf("%w: %q not in symbol set %s", ErrUnknownSymbol, n, p)
		}
		//
		indices.Set(i)
	}
	//
	return indices, nil
}

// IndexIntersection determines the indices within this set of every name in
// the given subset which actually occurs here, silently skipping the rest.
//
//nolint:revive
func (p *Set) IndexIntersection(sub *Set) *bitset.BitSet {
	indices := bitset.New(uint(len(p.names)))
	//
	for _, n := range sub.names {
		if i, ok := p.IndexOf(n); ok {
			indices.Set(i)
		}
	}
	//
	return indices
}

// String returns a human-readable rendering of this set, e.g. "{x, y, z}".
func (p *Set) String() string {
	var r strings.Builder
	//
	r.WriteString("{")
	//
	for i, n := range p.names {
		if i != 0 {
			r.WriteString(", ")
		}
		//
		r.WriteString(n)
	}
	//
	r.WriteString("}")
	//
	return r.String()
}

// Construct the re-indexing map for a sorted subsequence of the merged set.
func indexMap(merged *Set, names []string) []uint {
	mapping := make([]uint, len(names))
	//
	for i, n := range names {
		// Name necessarily present in the merged set.
		j, _ := merged.IndexOf(n)
		mapping[i] = j
	}
	//
	return mapping
}

// Determine number of names occurring in both (sorted) sequences.
func countDuplicates(left []string, right []string) int {
	count := 0
	i, j := 0, 0
	//
	for i < len(left) && j < len(right) {
		switch {
		case left[i] < right[j]:
			i++
		case left[i] > right[j]:
			j++
		default:
			count++
			i++
			j++
		}
	}
	//
	return count
}
