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
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestPackedLayout(t *testing.T) {
	// The persistence format and the cache-line budget both depend on the
	// exact byte layout, so pin it down.
	require.EqualValues(t, 10, unsafe.Sizeof(Entry{}))
	require.EqualValues(t, ClusterBytes, unsafe.Sizeof(Cluster{}))
	require.Zero(t, CacheLineSize%ClusterBytes)
}

func TestEntrySaveAccessors(t *testing.T) {
	var e Entry
	key := Key(0xdead) << 48
	e.Save(key, Value(-123), BoundExact, 7, Move(0x1234), Value(456), 8)

	require.EqualValues(t, 0xdead, e.key16)
	require.Equal(t, Move(0x1234), e.Move())
	require.Equal(t, Value(-123), e.Value())
	require.Equal(t, Value(456), e.Eval())
	require.Equal(t, 7, e.Depth())
	require.Equal(t, BoundExact, e.Bound())

	e.Save(key, 1, BoundUpper, -5, 0, -1, 12)
	require.Equal(t, -5, e.Depth())
	require.Equal(t, BoundUpper, e.Bound())
}

func TestBoundPacking(t *testing.T) {
	for _, b := range []Bound{BoundNone, BoundUpper, BoundLower, BoundExact} {
		var e Entry
		e.Save(Key(1)<<48, 0, b, 0, 0, 0, 16)
		require.Equal(t, b, e.Bound())
		require.EqualValues(t, 16, e.genBound8&generationMask)
	}
}

func TestRelativeAge(t *testing.T) {
	testCases := []struct {
		generation uint8 // current clock
		entryGen   uint8 // generation the entry was written at
		expected   int
	}{
		{4, 4, 0},
		{8, 4, 4},
		{252, 4, 248},
		// The clock wrapped: an entry from the previous cycle must still
		// be computed as older.
		{4, 252, 8},
		{0, 252, 4},
		{4, 248, 12},
	}
	for _, c := range testCases {
		for _, b := range []Bound{BoundNone, BoundUpper, BoundLower, BoundExact} {
			e := Entry{genBound8: c.entryGen | uint8(b)}
			require.Equal(t, c.expected, e.relativeAge(c.generation),
				"generation=%d entryGen=%d bound=%d", c.generation, c.entryGen, b)
		}
	}
}

func TestReplaceValueOrdering(t *testing.T) {
	// A stale deep entry can be worth less than a fresh shallow one: one
	// generation of staleness costs eight plies of depth.
	const gen = 12
	fresh := Entry{genBound8: gen, depth8: 2}
	stale := Entry{genBound8: gen - generationDelta, depth8: 11}
	require.Greater(t, stale.replaceValue(gen), fresh.replaceValue(gen))

	stale.genBound8 = gen - 2*generationDelta
	require.Less(t, stale.replaceValue(gen), fresh.replaceValue(gen))
}
