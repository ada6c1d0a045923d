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

import (
	"fmt"
	"math/bits"
	"os"
	"unsafe"
)

// Table is a power-of-two array of clusters backed by a single contiguous
// allocation. Probing is lock-free and tolerates torn entries (see the
// package documentation for the consistency model); Resize, Clear, Save,
// Load and Close require that no probes are in flight.
type Table struct {
	// clusters points at the cache-line-aligned start of the usable
	// region inside mem.
	clusters     unsafeSlice[Cluster]
	clusterCount uint64
	// mem is the full backing allocation, including any alignment slack
	// on the heap path. Held so the GC cannot reclaim a heap region that
	// clusters still points into.
	mem            []byte
	largePagesUsed bool

	generation uint8

	// lastCapacity is the most recent non-zero Resize request, reused by
	// Resize(0).
	lastCapacity uint64

	largePagesWanted bool
	alloc            Allocator
	hashFile         string
}

// New constructs a table sized for capacityBytes. With capacityBytes == 0
// the table starts empty and unusable until the first non-zero Resize.
func New(capacityBytes uint64, options ...option) *Table {
	t := &Table{alloc: heapAllocator{}}
	for _, op := range options {
		op.apply(t)
	}
	t.Resize(capacityBytes)
	return t
}

// Resize installs a backing region holding the largest power-of-two number
// of clusters that fits in capacityBytes (at least one). capacityBytes == 0
// reuses the last successfully requested size. Resizing to the current size
// with an unchanged large-page mode is a no-op; otherwise the previous
// region is released with the method matching how it was obtained and the
// new region starts out zeroed.
//
// The table is mandatory for the engine to operate, so a request the
// standard allocator cannot satisfy is reported and terminates the process.
func (t *Table) Resize(capacityBytes uint64) {
	if capacityBytes == 0 {
		capacityBytes = t.lastCapacity
	}
	if capacityBytes == 0 {
		return
	}
	t.lastCapacity = capacityBytes

	useLarge := t.largePagesWanted && largePagesSupported()

	newCount := uint64(1)
	if n := capacityBytes / ClusterBytes; n > 1 {
		newCount = uint64(1) << (bits.Len64(n) - 1)
	}

	if newCount == t.clusterCount && useLarge == t.largePagesUsed && t.mem != nil {
		return
	}

	t.release()

	if useLarge {
		// Huge-page mappings are a whole number of huge pages, already
		// aligned far beyond a cache line, so no slack is requested.
		if mem, err := largePageAlloc(newCount * ClusterBytes); err == nil {
			t.install(mem, newCount, true)
			return
		}
		// The pool may have been exhausted since the capability probe;
		// fall through to the standard allocation.
	}

	mem, err := t.alloc.Alloc(newCount*ClusterBytes + CacheLineSize - 1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ttable: failed to allocate %d bytes for the transposition table: %v\n",
			newCount*ClusterBytes, err)
		os.Exit(1)
	}
	t.install(mem, newCount, false)
}

// install points the table at a fresh backing allocation, aligning the
// usable region to the cache-line boundary.
func (t *Table) install(mem []byte, count uint64, largePages bool) {
	t.mem = mem
	t.clusterCount = count
	t.largePagesUsed = largePages

	p := unsafe.Pointer(unsafe.SliceData(mem))
	slack := (CacheLineSize - (uintptr(p) & (CacheLineSize - 1))) & (CacheLineSize - 1)
	t.clusters = unsafeSlice[Cluster]{ptr: unsafe.Add(p, slack)}

	t.Clear()
}

// release frees the current backing allocation, if any, using the release
// path matching how it was obtained.
func (t *Table) release() {
	if t.mem == nil {
		return
	}
	if t.largePagesUsed {
		largePageFree(t.mem)
	} else {
		t.alloc.Free(t.mem)
	}
	t.mem = nil
	t.clusters = unsafeSlice[Cluster]{}
	t.clusterCount = 0
	t.largePagesUsed = false
}

// Close releases the backing allocation. It is invalid to probe a table
// after it has been closed, though Close itself is idempotent.
func (t *Table) Close() {
	t.release()
}

// Clear overwrites the entire backing region with zero bytes, resetting
// every entry to the empty sentinel. Callers must ensure no probes are in
// flight.
func (t *Table) Clear() {
	clear(t.bytes())
}

// NewSearch advances the generation clock. Called once at the start of each
// search iteration; entries touched during the current iteration are
// shielded from age-based replacement.
func (t *Table) NewSearch() {
	t.generation += generationDelta
}

// Generation returns the current generation clock value, packed in the high
// six bits as Entry.Save expects it.
func (t *Table) Generation() uint8 {
	return t.generation
}

// clusterIndex derives the cluster index from the hash bits below the top
// 16, which are reserved for the partial key. A fixed-point multiply by the
// cluster count selects the topmost of the remaining bits, keeping the two
// bit ranges disjoint.
func (t *Table) clusterIndex(key Key) uintptr {
	hi, _ := bits.Mul64(uint64(key)<<16, t.clusterCount)
	return uintptr(hi)
}

// Probe looks up key. On a hit it returns the matching entry and true,
// refreshing the entry's generation so a result reused this iteration is
// not penalized by age on the next replacement decision. On a miss it
// returns false and the entry to overwrite: the first empty slot of the
// addressed cluster, or, with the cluster full, the slot with the lowest
// priority to keep (depth minus scaled cyclic age).
//
// A probe for a key whose top 16 bits are zero always misses; zero is the
// empty sentinel.
func (t *Table) Probe(key Key) (*Entry, bool) {
	cl := t.clusters.At(t.clusterIndex(key))
	key16 := uint16(key >> 48)

	for i := range cl.entry {
		e := &cl.entry[i]
		if e.key16 == 0 || e.key16 == key16 {
			if e.key16 != 0 && e.genBound8&generationMask != t.generation {
				// Refresh, preserving the bound bits.
				e.genBound8 = t.generation | e.genBound8&boundMask
			}
			return e, e.key16 != 0
		}
	}

	replace := &cl.entry[0]
	for i := 1; i < clusterSize; i++ {
		if e := &cl.entry[i]; e.replaceValue(t.generation) < replace.replaceValue(t.generation) {
			replace = e
		}
	}
	return replace, false
}

// Hashfull approximates the table occupancy in permille without scanning
// the whole table: it samples the first 1000/clusterSize clusters and
// counts occupied entries written during the current generation. Entries
// surviving from older iterations still take space but are deliberately
// excluded, matching how engines report hash usage per search.
func (t *Table) Hashfull() int {
	sample := uint64(1000 / clusterSize)
	if sample > t.clusterCount {
		sample = t.clusterCount
	}
	cnt := 0
	for i := uint64(0); i < sample; i++ {
		cl := t.clusters.At(uintptr(i))
		for j := range cl.entry {
			e := &cl.entry[j]
			if e.key16 != 0 && e.genBound8&generationMask == t.generation {
				cnt++
			}
		}
	}
	return cnt
}

// bytes returns the usable region as a byte slice, exactly
// clusterCount*ClusterBytes long. Nil for an empty table.
func (t *Table) bytes() []byte {
	return unsafe.Slice((*byte)(t.clusters.ptr), t.clusterCount*ClusterBytes)
}
