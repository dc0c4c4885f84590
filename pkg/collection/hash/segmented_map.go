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
package hash

const (
	// Minimum capacity of a non-empty segment table.
	minSegmentCapacity = 8
	// Maximum number of entries a single segment may hold before the whole
	// map is re-sharded.  Only map-level insertion triggers re-sharding;
	// direct segment writers are expected to have sized the map up front.
	maxSegmentEntries = 1 << 13
	// Load factor bounds, expressed as a fraction.  A segment table grows
	// once occupancy reaches 7/8 of its capacity.
	maxLoadNum = 7
	maxLoadDen = 8
)

// SegmentedMap is a hash map partitioned into 2^logn segments, where each
// segment is an independent open-addressed table.  An entry's segment is
// selected by the low logn bits of its hashcode, whilst the remaining bits
// drive probing within the segment.  The partitioning means disjoint segments
// can be read and written concurrently without locks, provided each segment
// is touched by at most one writer (see Segment).
type SegmentedMap[K Hasher[K], V any] struct {
	segments []Segment[K, V]
	logn     uint
}

// NewSegmentedMap constructs an empty map with 2^logn segments.
func NewSegmentedMap[K Hasher[K], V any](logn uint) *SegmentedMap[K, V] {
	p := &SegmentedMap[K, V]{}
	p.init(logn)
	//
	return p
}

// LogSegments returns logn, where the map holds 2^logn segments.
func (p *SegmentedMap[K, V]) LogSegments() uint {
	return p.logn
}

// SegmentCount returns the number of segments in this map.
func (p *SegmentedMap[K, V]) SegmentCount() uint {
	return uint(len(p.segments))
}

// Segment provides direct access to the ith segment.  Distinct segments can
// be operated on from distinct goroutines.
func (p *SegmentedMap[K, V]) Segment(index uint) *Segment[K, V] {
	return &p.segments[index]
}

// SegmentOf determines which segment a given hashcode maps to.
func (p *SegmentedMap[K, V]) SegmentOf(hash uint64) uint {
	return uint(hash) & ((1 << p.logn) - 1)
}

// Size returns the number of entries stored across all segments.
//
//nolint:revive
func (p *SegmentedMap[K, V]) Size() uint {
	count := uint(0)
	//
	for i := range p.segments {
		count += p.segments[i].count
	}
	//
	return count
}

// IsEmpty checks whether this map holds any entries at all.
func (p *SegmentedMap[K, V]) IsEmpty() bool {
	for i := range p.segments {
		if p.segments[i].count != 0 {
			return false
		}
	}
	//
	return true
}

// Get returns the value bound to the given key, if any.
func (p *SegmentedMap[K, V]) Get(key K) (V, bool) {
	hash := key.Hash()
	return p.segments[p.SegmentOf(hash)].get(key, hash)
}

// ContainsKey checks whether the given key is bound in this map, or not.
func (p *SegmentedMap[K, V]) ContainsKey(key K) bool {
	_, ok := p.Get(key)
	return ok
}

// InsertUnique binds key to value on the assumption that the key is not
// already present.  Callers must have independently established uniqueness;
// inserting a duplicate this way corrupts the map.
func (p *SegmentedMap[K, V]) InsertUnique(key K, value V) {
	hash := key.Hash()
	seg := &p.segments[p.SegmentOf(hash)]
	//
	seg.InsertUnique(key, value)
	//
	p.reshardIfOverloaded(seg)
}

// Upsert binds key to value on a miss; on a hit the stored value is combined
// with the incoming one.  The combiner returns the replacement value along
// with a flag indicating whether the entry should be kept; returning false
// removes the entry altogether.  The overall change in entry count is
// returned (+1 insert, 0 update, -1 removal).
//
//nolint:revive
func (p *SegmentedMap[K, V]) Upsert(key K, value V, combine func(V, V) (V, bool)) int {
	hash := key.Hash()
	seg := &p.segments[p.SegmentOf(hash)]
	//
	delta := seg.Upsert(key, value, combine)
	//
	p.reshardIfOverloaded(seg)
	//
	return delta
}

// Delete removes the binding for the given key (if any), returning true if a
// binding was removed.
func (p *SegmentedMap[K, V]) Delete(key K) bool {
	hash := key.Hash()
	return p.segments[p.SegmentOf(hash)].delete(key, hash)
}

// ForEach visits every entry in the map (segment by segment) until the
// callback returns false.
func (p *SegmentedMap[K, V]) ForEach(fn func(K, V) bool) {
	for i := range p.segments {
		if !p.segments[i].ForEach(fn) {
			return
		}
	}
}

// Filter retains exactly those entries for which the predicate holds,
// returning the number of entries removed.
//
//nolint:revive
func (p *SegmentedMap[K, V]) Filter(pred func(K, V) bool) uint {
	removed := uint(0)
	//
	for i := range p.segments {
		removed += p.segments[i].Filter(pred)
	}
	//
	return removed
}

// MapValues rewrites the value of every entry in place; returning false for
// the keep flag removes the entry.  Unlike interleaving Upsert with ForEach,
// this is safe against mid-iteration growth.
//
//nolint:revive
func (p *SegmentedMap[K, V]) MapValues(fn func(K, V) (V, bool)) uint {
	removed := uint(0)
	//
	for i := range p.segments {
		removed += p.segments[i].MapValues(fn)
	}
	//
	return removed
}

// Clear removes all entries whilst retaining the segment structure.
func (p *SegmentedMap[K, V]) Clear() {
	for i := range p.segments {
		p.segments[i].clear()
	}
}

// Copy produces a deep copy of this map using the given key and value copy
// functions.
func (p *SegmentedMap[K, V]) Copy(copyKey func(K) K, copyValue func(V) V) *SegmentedMap[K, V] {
	q := NewSegmentedMap[K, V](p.logn)
	//
	p.ForEach(func(k K, v V) bool {
		q.InsertUnique(copyKey(k), copyValue(v))
		return true
	})
	//
	return q
}

// Reshard rebuilds this map with 2^newLogn segments, redistributing every
// entry.  Re-sharding is single-threaded.
func (p *SegmentedMap[K, V]) Reshard(newLogn uint) {
	old := p.segments
	p.init(newLogn)
	//
	for i := range old {
		old[i].ForEach(func(k K, v V) bool {
			p.segments[p.SegmentOf(k.Hash())].InsertUnique(k, v)
			return true
		})
	}
}

func (p *SegmentedMap[K, V]) init(logn uint) {
	p.logn = logn
	p.segments = make([]Segment[K, V], 1<<logn)
	//
	for i := range p.segments {
		p.segments[i].shift = logn
	}
}

func (p *SegmentedMap[K, V]) reshardIfOverloaded(seg *Segment[K, V]) {
	// A segment running hot implies the whole table is past its budget (the
	// hash spreads entries evenly across segments).  Quadruple the segment
	// count in one step so a single resize is decisive.
	if seg.count > maxSegmentEntries {
		p.Reshard(p.logn + 2)
	}
}

// ============================================================================
// Segment
// ============================================================================

// Segment is a single open-addressed table within a SegmentedMap.  Probing is
// linear, with deletion via backward shifting (no tombstones).  A segment may
// be written directly, bypassing the map-level interface; in that case every
// segment must be written by at most one goroutine, and the writer is
// responsible for having sized the map appropriately beforehand.
type Segment[K Hasher[K], V any] struct {
	keys     []K
	values   []V
	occupied []bool
	count    uint
	// Right shift applied to hashcodes to determine the home slot, i.e. the
	// number of low bits consumed by segment selection.
	shift uint
}

// Size returns the number of entries in this segment.
func (s *Segment[K, V]) Size() uint {
	return s.count
}

// Capacity returns the number of slots allocated by this segment.
func (s *Segment[K, V]) Capacity() uint {
	return uint(len(s.keys))
}

// Get returns the value bound to the given key within this segment, if any.
func (s *Segment[K, V]) Get(key K) (V, bool) {
	return s.get(key, key.Hash())
}

// InsertUnique binds key to value without checking for an existing binding.
//
//nolint:revive
func (s *Segment[K, V]) InsertUnique(key K, value V) {
	s.ensureSpace()
	//
	var (
		mask = uint(len(s.keys)) - 1
		i    = s.home(key.Hash(), mask)
	)
	// Probe for the first free slot.
	for s.occupied[i] {
		i = (i + 1) & mask
	}
	//
	s.keys[i] = key
	s.values[i] = value
	s.occupied[i] = true
	s.count++
}

// Upsert binds key to value on a miss, otherwise combines the stored value
// with the incoming one (see SegmentedMap.Upsert).
//
//nolint:revive
func (s *Segment[K, V]) Upsert(key K, value V, combine func(V, V) (V, bool)) int {
	s.ensureSpace()
	//
	var (
		mask = uint(len(s.keys)) - 1
		i    = s.home(key.Hash(), mask)
	)
	//
	for s.occupied[i] {
		if s.keys[i].Equals(key) {
			nvalue, keep := combine(s.values[i], value)
			//
			if keep {
				s.values[i] = nvalue
				return 0
			}
			// Combined to nothing, so remove the entry.
			s.remove(i)
			//
			return -1
		}
		//
		i = (i + 1) & mask
	}
	//
	s.keys[i] = key
	s.values[i] = value
	s.occupied[i] = true
	s.count++
	//
	return 1
}

// ForEach visits every entry in this segment until the callback returns
// false, reporting whether iteration ran to completion.
//
//nolint:revive
func (s *Segment[K, V]) ForEach(fn func(K, V) bool) bool {
	for i, occ := range s.occupied {
		if occ && !fn(s.keys[i], s.values[i]) {
			return false
		}
	}
	//
	return true
}

// Filter retains exactly those entries of this segment for which the
// predicate holds, returning the number removed.  The segment is rebuilt,
// which also compacts probe chains.
//
//nolint:revive
func (s *Segment[K, V]) Filter(pred func(K, V) bool) uint {
	var (
		before = s.count
		keys   = s.keys
		values = s.values
		occ    = s.occupied
	)
	//
	s.clear()
	//
	for i, o := range occ {
		if o && pred(keys[i], values[i]) {
			s.InsertUnique(keys[i], values[i])
		}
	}
	//
	return before - s.count
}

// MapValues rewrites the value of every entry of this segment, removing
// those for which the callback returns false.  The segment is rebuilt.
//
//nolint:revive
func (s *Segment[K, V]) MapValues(fn func(K, V) (V, bool)) uint {
	var (
		before = s.count
		keys   = s.keys
		values = s.values
		occ    = s.occupied
	)
	//
	s.clear()
	//
	for i, o := range occ {
		if !o {
			continue
		}
		//
		if nvalue, keep := fn(keys[i], values[i]); keep {
			s.InsertUnique(keys[i], nvalue)
		}
	}
	//
	return before - s.count
}

func (s *Segment[K, V]) get(key K, hash uint64) (V, bool) {
	var empty V
	//
	if s.count == 0 {
		return empty, false
	}
	//
	var (
		mask = uint(len(s.keys)) - 1
		i    = s.home(hash, mask)
	)
	//
	for s.occupied[i] {
		if s.keys[i].Equals(key) {
			return s.values[i], true
		}
		//
		i = (i + 1) & mask
	}
	//
	return empty, false
}

func (s *Segment[K, V]) delete(key K, hash uint64) bool {
	if s.count == 0 {
		return false
	}
	//
	var (
		mask = uint(len(s.keys)) - 1
		i    = s.home(hash, mask)
	)
	//
	for s.occupied[i] {
		if s.keys[i].Equals(key) {
			s.remove(i)
			return true
		}
		//
		i = (i + 1) & mask
	}
	//
	return false
}

// Home slot of a given hashcode, i.e. where probing starts.
func (s *Segment[K, V]) home(hash uint64, mask uint) uint {
	return uint(hash>>s.shift) & mask
}

// Remove the entry at slot i, shifting any displaced entries of the same
// probe cluster backwards so that lookups remain correct without tombstones.
//
//nolint:revive
func (s *Segment[K, V]) remove(i uint) {
	var (
		mask  = uint(len(s.keys)) - 1
		zeroK K
		zeroV V
		j     = i
	)
	//
	s.count--
	//
	for {
		s.keys[i] = zeroK
		s.values[i] = zeroV
		s.occupied[i] = false
		// Find the next entry (if any) which should move into slot i.
		for {
			j = (j + 1) & mask
			//
			if !s.occupied[j] {
				return
			}
			// An entry at j may move back to i only if its home slot lies
			// cyclically at or before i.
			home := s.home(s.keys[j].Hash(), mask)
			//
			if ((j-home)&mask) >= ((j-i)&mask) {
				break
			}
		}
		//
		s.keys[i] = s.keys[j]
		s.values[i] = s.values[j]
		s.occupied[i] = true
		i = j
	}
}

// Grow the segment table if inserting one more entry would push occupancy
// past the load bound.
func (s *Segment[K, V]) ensureSpace() {
	capacity := uint(len(s.keys))
	//
	if (s.count+1)*maxLoadDen <= capacity*maxLoadNum {
		return
	}
	//
	ncapacity := max(minSegmentCapacity, capacity*2)
	//
	var (
		keys   = s.keys
		values = s.values
		occ    = s.occupied
	)
	//
	s.keys = make([]K, ncapacity)
	s.values = make([]V, ncapacity)
	s.occupied = make([]bool, ncapacity)
	s.count = 0
	//
	for i, o := range occ {
		if o {
			s.InsertUnique(keys[i], values[i])
		}
	}
}

func (s *Segment[K, V]) clear() {
	s.keys = nil
	s.values = nil
	s.occupied = nil
	s.count = 0
}
