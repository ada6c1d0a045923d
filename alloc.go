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

// Allocator obtains and releases the table's standard backing allocation,
// used whenever large pages are disabled or unavailable. The default
// allocator uses Go's builtin make() and lets the GC reclaim memory on
// Free. The table requests CacheLineSize-1 bytes of slack beyond the
// cluster region and aligns within the returned slice, so implementations
// need not return aligned memory.
type Allocator interface {
	// Alloc returns a zeroed slice of exactly n bytes.
	Alloc(n uint64) ([]byte, error)

	// Free releases a slice previously returned by Alloc.
	Free(mem []byte)
}

type heapAllocator struct{}

func (heapAllocator) Alloc(n uint64) ([]byte, error) {
	return make([]byte, n), nil
}

func (heapAllocator) Free(mem []byte) {
}

// unsafeSlice provides semi-ergonomic limited slice-like functionality
// without bounds checking for fixed sized slices.
type unsafeSlice[T any] struct {
	ptr unsafe.Pointer
}

// At returns a pointer to the element at index i.
func (s unsafeSlice[T]) At(i uintptr) *T {
	var t T
	return (*T)(unsafe.Add(s.ptr, unsafe.Sizeof(t)*i))
}
