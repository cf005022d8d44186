// Copyright (c) 2025, modctl authors.  All rights reserved.
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

// Package serializer formats command results for files and terminals.
//
// Three output formats are supported:
//   - JSON: machine-readable, indented
//   - YAML: human-readable, suitable for version control
//   - Table: flattened key/value rows for terminal viewing
//
// Reading supports JSON and YAML from local files and HTTP(S) URLs; table
// output is write-only.
package serializer

import "context"

// Serializer writes a result value in a configured format.
//
// The context is accepted for interface symmetry with sinks that perform
// network I/O; file and stdout writers do not consult it.
type Serializer interface {
	Serialize(ctx context.Context, v any) error
}

// Closer is implemented by serializers that hold releasable resources,
// such as open file handles.
type Closer interface {
	Close() error
}
