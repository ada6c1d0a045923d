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
	"math/rand"
	"testing"

	"github.com/aclements/go-perfevent/perfbench"
)

var benchSizes = []uint64{1 << 20, 16 << 20, 256 << 20}

func BenchmarkProbe(b *testing.B) {
	b.Run("hit=true", func(b *testing.B) {
		for _, size := range benchSizes {
			b.Run(fmt.Sprintf("size=%dMB", size>>20), func(b *testing.B) {
				benchmarkProbe(b, size, true)
			})
		}
	})
	b.Run("hit=false", func(b *testing.B) {
		for _, size := range benchSizes {
			b.Run(fmt.Sprintf("size=%dMB", size>>20), func(b *testing.B) {
				benchmarkProbe(b, size, false)
			})
		}
	})
}

func benchmarkProbe(b *testing.B, capacity uint64, hit bool) {
	cs := perfbench.Open(b)
	cs.Stop()

	tab := New(capacity)
	defer tab.Close()
	tab.NewSearch()

	keys := genBenchKeys(1 << 14)
	if hit {
		for _, k := range keys {
			if e, found := tab.Probe(k); !found {
				e.Save(k, 1, BoundExact, 10, 2, 3, tab.Generation())
			}
		}
	}

	cs.Start()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tab.Probe(keys[i&(len(keys)-1)])
	}
}

func BenchmarkProbeReplace(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("size=%dMB", size>>20), func(b *testing.B) {
			cs := perfbench.Open(b)
			cs.Stop()

			tab := New(size)
			defer tab.Close()
			tab.NewSearch()
			keys := genBenchKeys(1 << 16)

			cs.Start()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				k := keys[i&(len(keys)-1)]
				e, found := tab.Probe(k)
				if !found {
					e.Save(k, 1, BoundLower, 12, 2, 3, tab.Generation())
				}
			}
		})
	}
}

func BenchmarkClear(b *testing.B) {
	tab := New(64 << 20)
	defer tab.Close()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tab.Clear()
	}
}

func genBenchKeys(n int) []Key {
	rng := rand.New(rand.NewSource(1))
	keys := make([]Key, n)
	for i := range keys {
		keys[i] = Key(rng.Uint64() | 1<<48)
	}
	return keys
}
