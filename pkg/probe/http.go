/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/modctl/modctl/pkg/defaults"
)

// probeHTTP performs a GET and matches on the expected status code.
func (r *Runner) probeHTTP(ctx context.Context, spec Spec) error {
	timeout := r.HTTPTimeout
	if timeout == 0 {
		timeout = defaults.HTTPClientTimeout
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, spec.URL, nil)
	if err != nil {
		return fmt.Errorf("probe %s: %w", spec, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", spec, err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused across poll attempts.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxProbeFileSize))

	want := spec.Status
	if want == 0 {
		want = http.StatusOK
	}
	if resp.StatusCode != want {
		return fmt.Errorf("probe %s: status %d, want %d", spec, resp.StatusCode, want)
	}
	return nil
}
