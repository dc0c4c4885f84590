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

// A segmented hashtable implementation which permits collisions.  Observe
// that, for example, hashicorp's go-set is *not* a suitable replacement here,
// since that does not handle collisions.  Specifically, it assumes the hash
// function always uniquely identifies the data in question.  I don't want to
// make that assumption here.

// Hasher provides a generic definition of a hashing function suitable for use
// within the segmented map.  This is similar to the Hasher interface provided
// in go-set, except that it additionally includes equality.
type Hasher[T any] interface {
	// Check whether two items are equal (or not).
	Equals(T) bool
	// Return a suitable hashcode.
	Hash() uint64
}

// FNV1a parameters, used for hashing sequences of machine words.
const (
	// Offset64 is the FNV1a starting value.
	Offset64 uint64 = 14695981039346656037
	// Prime64 is the FNV1a multiplier.
	Prime64 uint64 = 1099511628211
)

// Words computes an FNV1a hashcode over a sequence of machine words.
func Words(words []uint64) uint64 {
	hash := Offset64
	//
	for _, w := range words {
		hash ^= w
		hash *= Prime64
	}
	//
	return hash
}
