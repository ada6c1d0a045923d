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

//go:build !linux

package ttable

import "errors"

var errLargePagesUnsupported = errors.New("large pages are not supported on this platform")

func largePagesSupported() bool { return false }

func largePageAlloc(n uint64) ([]byte, error) {
	return nil, errLargePagesUnsupported
}

func largePageFree(mem []byte) {
}
