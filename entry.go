// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ttable

import "unsafe"

// Key is a full-width position hash. The table derives the cluster index
// and the stored partial key from disjoint bit ranges of it.
type Key uint64

// Move is an opaque 16-bit move encoding owned by the search.
type Move uint16

// Value is an opaque 16-bit score owned by the search.
type Value int16

// Bound describes the semantic meaning of a stored value: an exact score or
// a one-sided alpha-beta bound.
type Bound uint8

const (
	BoundNone  Bound = 0
	BoundUpper Bound = 1
	BoundLower Bound = 2
	BoundExact Bound = BoundUpper | BoundLower
)

const (
	// CacheLineSize is the alignment contract for the table's backing
	// region. Clusters must divide it evenly.
	CacheLineSize = 64

	// clusterSize is the number of entries per cluster.
	clusterSize = 3

	// ClusterBytes is the on-disk and in-memory size of one cluster.
	ClusterBytes = 32

	boundMask      = 0x3
	generationMask = 0xFC

	// generationDelta is the generation clock step. The two low bits of
	// the packed byte hold the bound type, so the clock advances in
	// multiples of 4.
	generationDelta = 4

	// generationCycle is the modulus (256) plus generationDelta-1 so that
	// the low bound bits cannot affect relative-age arithmetic even after
	// the generation byte overflows into the next cycle.
	generationCycle = 256 + generationDelta - 1
)

// Entry is one memoized search result, byte-packed to 10 bytes so that
// three of them plus padding fill half a cache line. key16 doubles as the
// occupancy marker: zero means the slot is empty.
type Entry struct {
	key16     uint16
	move16    uint16
	value16   int16
	eval16    int16
	genBound8 uint8
	depth8    int8
}

// Cluster is the atomic unit of table indexing: a fixed group of entries
// padded to exactly ClusterBytes. Entries carry no ordering invariant
// beyond "first empty or matching slot wins" during a probe.
type Cluster struct {
	entry [clusterSize]Entry
	_     [ClusterBytes - clusterSize*unsafe.Sizeof(Entry{})]byte
}

// Save overwrites the entry with a result computed by the search. Payload
// fields are copied verbatim; deciding what to store, and whether to store
// at all, is the caller's policy. gen is the table's current generation as
// returned by Table.Generation.
func (e *Entry) Save(k Key, v Value, b Bound, depth int, m Move, ev Value, gen uint8) {
	e.key16 = uint16(k >> 48)
	e.move16 = uint16(m)
	e.value16 = int16(v)
	e.eval16 = int16(ev)
	e.genBound8 = gen | uint8(b)
	e.depth8 = int8(depth)
}

// Move returns the stored best move.
func (e *Entry) Move() Move { return Move(e.move16) }

// Value returns the stored search value.
func (e *Entry) Value() Value { return Value(e.value16) }

// Eval returns the stored static evaluation.
func (e *Entry) Eval() Value { return Value(e.eval16) }

// Depth returns the search depth the result was computed at.
func (e *Entry) Depth() int { return int(e.depth8) }

// Bound returns the bound type of the stored value.
func (e *Entry) Bound() Bound { return Bound(e.genBound8 & boundMask) }

// relativeAge returns the cyclic distance from the entry's generation to
// the current one. Computed modulo the packed field width so an old entry
// never appears young after the clock wraps.
func (e *Entry) relativeAge(generation uint8) int {
	return (generationCycle + int(generation) - int(e.genBound8)) & generationMask
}

// replaceValue is the entry's priority to keep: deeper results cost more to
// recompute, stale results are worth less. The factor of 2 weights one
// generation of staleness as two plies of depth.
func (e *Entry) replaceValue(generation uint8) int {
	return int(e.depth8) - e.relativeAge(generation)*2
}
