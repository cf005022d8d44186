/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package probe

import (
	"context"
	"fmt"

	"github.com/coreos/go-systemd/v22/dbus"
)

const unitStateActive = "active"

// probeSystemd checks the unit's ActiveState over the system bus. Any state
// other than "active" is reported in the failure detail so verification
// callers can distinguish "activating" from "failed".
func (r *Runner) probeSystemd(ctx context.Context, spec Spec) error {
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return fmt.Errorf("probe %s: failed to connect to systemd: %w", spec, err)
	}
	defer conn.Close()

	prop, err := conn.GetUnitPropertyContext(ctx, spec.Unit, "ActiveState")
	if err != nil {
		return fmt.Errorf("probe %s: failed to get unit state: %w", spec, err)
	}

	state, ok := prop.Value.Value().(string)
	if !ok {
		return fmt.Errorf("probe %s: unexpected ActiveState type %T", spec, prop.Value.Value())
	}
	if state != unitStateActive {
		return fmt.Errorf("probe %s: unit state is %q, want %q", spec, state, unitStateActive)
	}
	return nil
}
