/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package probe

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// maxDiagnosticBytes caps the combined output carried in failure detail so a
// chatty probe cannot bloat logs or error chains.
const maxDiagnosticBytes = 2048

// probeCommand runs the literal argument vector and treats exit code 0 as a
// match. The vector is passed to the OS directly; no shell is involved, so
// argument boundaries cannot be escaped.
func (r *Runner) probeCommand(ctx context.Context, spec Spec) error {
	cmd := exec.CommandContext(ctx, spec.Command[0], spec.Command[1:]...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("probe %s: %w", spec, ctx.Err())
		}
		return fmt.Errorf("probe %s: %w: %s", spec, err, tailOf(out.String()))
	}
	return nil
}

// tailOf returns the trailing portion of diagnostic output, trimmed to the
// cap, since the end of the output usually carries the failure reason.
func tailOf(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxDiagnosticBytes {
		s = s[len(s)-maxDiagnosticBytes:]
	}
	return s
}
