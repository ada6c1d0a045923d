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

//go:build linux

package ttable

import (
	"sync"

	"golang.org/x/sys/unix"
)

// largePageSize is the common x86-64/arm64 huge page size. Mappings are
// rounded up to a whole number of huge pages.
const largePageSize = 2 << 20

var largePageProbe struct {
	once sync.Once
	ok   bool
}

// largePagesSupported reports whether the process can back the table with
// huge pages, which requires a configured hugetlb pool (vm.nr_hugepages)
// and sufficient memlock privilege. The probe maps and immediately releases
// a single huge page; the verdict is cached for the life of the process.
func largePagesSupported() bool {
	largePageProbe.once.Do(func() {
		mem, err := unix.Mmap(-1, 0, largePageSize,
			unix.PROT_READ|unix.PROT_WRITE,
			unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_HUGETLB)
		if err != nil {
			return
		}
		_ = unix.Munmap(mem)
		largePageProbe.ok = true
	})
	return largePageProbe.ok
}

// largePageAlloc maps at least n bytes backed by huge pages. The returned
// slice covers the whole mapping, which may be longer than n; huge-page
// boundaries are a multiple of CacheLineSize so the region needs no
// further alignment. Anonymous mappings come back zeroed.
func largePageAlloc(n uint64) ([]byte, error) {
	size := (n + largePageSize - 1) &^ uint64(largePageSize-1)
	return unix.Mmap(-1, 0, int(size),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_HUGETLB)
}

// largePageFree unmaps a region returned by largePageAlloc.
func largePageFree(mem []byte) {
	_ = unix.Munmap(mem)
}
