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

// Package defaults provides centralized configuration constants for modctl.
//
// This package defines timeout values, retry parameters, and other
// configuration defaults used across the codebase. Centralizing these values
// ensures consistency and makes tuning easier.
//
// # Timeout Categories
//
// Timeouts are organized by component:
//
//   - Detection timeouts: per-rule probe budgets and worker limits
//   - Verification timeouts: post-operation readiness polling
//   - Transaction timeouts: hook execution, overall deadline, lock TTL
//   - HTTP client timeouts: artifact fetching
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/modctl/modctl/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.HookTimeout)
//	defer cancel()
package defaults
