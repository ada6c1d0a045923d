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
	"io"
	"os"
)

// Persistence writes the backing region to disk verbatim: a headerless flat
// image, always an exact multiple of ClusterBytes long, with no version
// marker and no endianness normalization. A saved file is only meaningful
// to a build with an identical entry layout on a same-endian machine;
// loading anything else is undefined. Save and Load carry the same
// exclusivity requirement as Resize and Clear.

// SetHashFile sets the path used by Save and Load.
func (t *Table) SetHashFile(path string) {
	t.hashFile = path
}

// Save writes the table image to the configured hash file, reporting
// whether the file was opened and written out cleanly.
func (t *Table) Save() bool {
	f, err := os.Create(t.hashFile)
	if err != nil {
		return false
	}
	if _, err := f.Write(t.bytes()); err != nil {
		f.Close()
		return false
	}
	return f.Close() == nil
}

// Load restores a table image from the configured hash file. The file
// length determines the restored capacity: the table is resized as if by
// Resize(length), then the image is read in. On a short read the remainder
// of the table stays zeroed and an error is returned; the table remains
// usable, just partially restored.
func (t *Table) Load() error {
	f, err := os.Open(t.hashFile)
	if err != nil {
		return fmt.Errorf("open hash file: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat hash file: %w", err)
	}
	if fi.Size() < ClusterBytes {
		return fmt.Errorf("hash file %s: %d bytes is smaller than a cluster", t.hashFile, fi.Size())
	}

	t.Resize(uint64(fi.Size()))
	t.Clear()

	if _, err := io.ReadFull(f, t.bytes()); err != nil {
		return fmt.Errorf("read hash file %s: partial restore: %w", t.hashFile, err)
	}
	return nil
}
