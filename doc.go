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

// Package ttable implements a shared, fixed-capacity, lossy transposition
// table for tree-search engines. The table memoizes search results keyed by
// a 64-bit position hash so that concurrently running search workers can
// reuse each other's work instead of re-exploring identical positions
// reached via different move sequences.
//
// # Layout
//
// An entry is 10 bytes: a 16-bit partial key for in-cluster identity, the
// best move, the search value, the static evaluation, a packed
// generation+bound byte, and the search depth. Three entries plus two bytes
// of padding form a 32-byte cluster, so two clusters fill one 64-byte cache
// line and a probe touches at most a single line. The table is a
// power-of-two number of clusters in one contiguous allocation whose base
// is rounded up to the cache-line size, optionally backed by huge pages on
// Linux.
//
// A 16-bit partial key cannot identify a position on its own. Two different
// full keys that share a partial key and map to the same cluster produce a
// false-positive hit; that trade-off is inherent to the format. A partial
// key of zero marks an empty slot, so a real position whose top 16 hash
// bits are zero is never reported as found and is simply recomputed.
//
// # Consistency model
//
// Probe and Entry.Save perform no locking and no atomic operations. Many
// goroutines may probe and write the same table concurrently; a reader can
// observe a torn entry whose fields were written by different racing
// writers. Every field is fixed width and carries no pointers, so a torn
// read is never unsafe to interpret: it either fails the partial-key check
// and counts as a miss, or yields a plausible-looking result whose damage
// is bounded by the search's own verification of stored moves. Resize,
// Clear, Save, Load and Close are NOT safe to call concurrently with any
// probe; callers must quiesce search workers first, which engines do
// naturally between searches.
//
// # Files
//
//	entry.go            – packed entry and cluster layout, age arithmetic
//	table.go            – probe/replace, generation clock, clear, hashfull
//	alloc.go            – allocator interface, alignment, unsafe slices
//	largepage_linux.go  – huge-page capability probe and mappings
//	largepage_other.go  – stub for platforms without huge-page support
//	persist.go          – raw binary save/load of the backing region
//	options.go          – functional options
package ttable
