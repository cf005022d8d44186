/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package probe

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// maxProbeFileSize bounds how much of a file the probe is willing to read.
const maxProbeFileSize = 1 << 20 // 1MB

// probeFile checks file existence and optional content match.
func (r *Runner) probeFile(ctx context.Context, spec Spec) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("probe %s: %w", spec, err)
	}

	info, err := os.Stat(spec.Path)
	if err != nil {
		return fmt.Errorf("probe %s: %w", spec, err)
	}

	if spec.Contains == "" {
		return nil
	}

	if info.Size() > maxProbeFileSize {
		return fmt.Errorf("probe %s: file exceeds %d bytes", spec, maxProbeFileSize)
	}

	b, err := os.ReadFile(spec.Path)
	if err != nil {
		return fmt.Errorf("probe %s: %w", spec, err)
	}
	if !strings.Contains(string(b), spec.Contains) {
		return fmt.Errorf("probe %s: content does not contain %q", spec, spec.Contains)
	}
	return nil
}
