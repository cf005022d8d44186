/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"
)

// probePort dials the local TCP port. A successful connection matches.
func (r *Runner) probePort(ctx context.Context, spec Spec) error {
	var d net.Dialer
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(spec.Port))

	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("probe %s: %w", spec, err)
	}
	return conn.Close()
}
