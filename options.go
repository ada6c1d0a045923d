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

// option provides an interface to do work on a Table while it is being
// created.
type option interface {
	apply(t *Table)
}

type allocatorOption struct {
	allocator Allocator
}

func (op allocatorOption) apply(t *Table) {
	t.alloc = op.allocator
}

// WithAllocator is an option to specify the Allocator used for the standard
// (non-large-page) backing allocation.
func WithAllocator(allocator Allocator) option {
	return allocatorOption{allocator}
}

type largePagesOption struct {
	enabled bool
}

func (op largePagesOption) apply(t *Table) {
	t.largePagesWanted = op.enabled
}

// WithLargePages is an option to request huge-page-backed allocations.
// When the OS capability is missing or the huge-page pool is exhausted the
// table silently falls back to the standard allocator.
func WithLargePages(enabled bool) option {
	return largePagesOption{enabled}
}

type hashFileOption struct {
	path string
}

func (op hashFileOption) apply(t *Table) {
	t.hashFile = op.path
}

// WithHashFile is an option to set the persistence path, equivalent to
// calling SetHashFile after construction.
func WithHashFile(path string) option {
	return hashFileOption{path}
}
