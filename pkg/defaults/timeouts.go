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

package defaults

import "time"

// Detection timeouts for applicability probing.
const (
	// DetectionRuleTimeout is the default timeout for a single detection rule
	// when its descriptor does not declare one. Rules should respect parent
	// context deadlines when shorter.
	DetectionRuleTimeout = 5 * time.Second

	// DetectionWorkerLimit bounds the number of detection rules evaluated
	// concurrently across all modules.
	DetectionWorkerLimit = 8
)

// Verification timeouts and intervals for post-operation readiness checks.
const (
	// VerifyDeadline is the default overall deadline for a verification probe
	// to report ready after a state-changing step.
	VerifyDeadline = 60 * time.Second

	// VerifyInterval is the fixed polling interval between verification
	// probe attempts. Must be shorter than VerifyDeadline.
	VerifyInterval = 2 * time.Second
)

// Transaction and lock timeouts.
const (
	// HookTimeout is the default timeout for a single hook action execution.
	HookTimeout = 2 * time.Minute

	// TransactionTimeout is the default overall deadline for a transaction,
	// including verification and any rollback.
	TransactionTimeout = 10 * time.Minute

	// LockTTL is the default time-to-live for a host lock lease. A lease
	// older than this whose holder process is gone is reclaimable.
	LockTTL = 15 * time.Minute
)

// HTTP client timeouts for artifact fetching.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)

// Reporter sizing.
const (
	// ReporterBuffer is the event buffer size of the async reporter. Events
	// beyond this are dropped rather than blocking the core.
	ReporterBuffer = 256
)

// CLI timeouts for command-line operations.
const (
	// CLIDetectTimeout is the default timeout for a full detection pass.
	CLIDetectTimeout = 1 * time.Minute

	// CLIApplyTimeout is the default timeout for enable/disable/install
	// transactions started from the command line.
	CLIApplyTimeout = 10 * time.Minute
)
