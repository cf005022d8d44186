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

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		// Detection timeouts
		{"DetectionRuleTimeout", DetectionRuleTimeout, 1 * time.Second, 30 * time.Second},

		// Verification timeouts
		{"VerifyDeadline", VerifyDeadline, 10 * time.Second, 5 * time.Minute},
		{"VerifyInterval", VerifyInterval, 500 * time.Millisecond, 10 * time.Second},

		// Transaction timeouts
		{"HookTimeout", HookTimeout, 30 * time.Second, 5 * time.Minute},
		{"TransactionTimeout", TransactionTimeout, 1 * time.Minute, 30 * time.Minute},
		{"LockTTL", LockTTL, 1 * time.Minute, 60 * time.Minute},

		// HTTP client timeouts
		{"HTTPClientTimeout", HTTPClientTimeout, 10 * time.Second, 60 * time.Second},
		{"HTTPConnectTimeout", HTTPConnectTimeout, 1 * time.Second, 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) is above maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestVerifyIntervalLessThanDeadline(t *testing.T) {
	// The poll interval must leave room for multiple attempts within the
	// overall verification deadline.
	if VerifyInterval >= VerifyDeadline {
		t.Errorf("VerifyInterval (%v) should be less than VerifyDeadline (%v)",
			VerifyInterval, VerifyDeadline)
	}
}

func TestHookTimeoutLessThanTransaction(t *testing.T) {
	// A single hook must never be allowed to consume the whole transaction
	// budget, or rollback would start with no time left.
	if HookTimeout >= TransactionTimeout {
		t.Errorf("HookTimeout (%v) should be less than TransactionTimeout (%v)",
			HookTimeout, TransactionTimeout)
	}
}

func TestLockTTLCoversTransaction(t *testing.T) {
	// A live transaction should not have its lease reclaimed from under it.
	if LockTTL < TransactionTimeout {
		t.Errorf("LockTTL (%v) should be at least TransactionTimeout (%v)",
			LockTTL, TransactionTimeout)
	}
}

func TestHTTPClientTimeoutRelationships(t *testing.T) {
	// Connect timeout should be less than total timeout
	if HTTPConnectTimeout >= HTTPClientTimeout {
		t.Errorf("HTTPConnectTimeout (%v) should be less than HTTPClientTimeout (%v)",
			HTTPConnectTimeout, HTTPClientTimeout)
	}

	// TLS handshake timeout should be less than total timeout
	if HTTPTLSHandshakeTimeout >= HTTPClientTimeout {
		t.Errorf("HTTPTLSHandshakeTimeout (%v) should be less than HTTPClientTimeout (%v)",
			HTTPTLSHandshakeTimeout, HTTPClientTimeout)
	}
}
