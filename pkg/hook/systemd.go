/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package hook

import (
	"context"
	"fmt"

	"github.com/coreos/go-systemd/v22/dbus"
)

// unitParamKey names the systemd unit a lifecycle op acts on.
const unitParamKey = "unit"

// jobModeReplace replaces any queued job for the unit.
const jobModeReplace = "replace"

// RegisterSystemdOps adds unit lifecycle operations to the runner's closed
// set. Each op reads the target unit from the "unit" parameter and waits for
// the queued systemd job to finish rather than returning on enqueue.
//
// Registered ops: systemd-start, systemd-stop, systemd-restart.
func RegisterSystemdOps(r *Runner) error {
	ops := map[string]func(*dbus.Conn, context.Context, string, string, chan<- string) (int, error){
		"systemd-start":   (*dbus.Conn).StartUnitContext,
		"systemd-stop":    (*dbus.Conn).StopUnitContext,
		"systemd-restart": (*dbus.Conn).RestartUnitContext,
	}
	for name, call := range ops {
		name, call := name, call
		err := r.RegisterOp(name, func(ctx context.Context, moduleID string, params map[string]string) error {
			unit := params[unitParamKey]
			if unit == "" {
				return fmt.Errorf("module %s: %s requires a %q parameter", moduleID, name, unitParamKey)
			}
			return runUnitJob(ctx, unit, name, call)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// runUnitJob queues a unit job over the system bus and waits for its result.
func runUnitJob(ctx context.Context, unit, opName string,
	call func(*dbus.Conn, context.Context, string, string, chan<- string) (int, error)) error {
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return fmt.Errorf("%s %s: failed to connect to systemd: %w", opName, unit, err)
	}
	defer conn.Close()

	done := make(chan string, 1)
	if _, err := call(conn, ctx, unit, jobModeReplace, done); err != nil {
		return fmt.Errorf("%s %s: failed to queue job: %w", opName, unit, err)
	}

	select {
	case result := <-done:
		if result != "done" {
			return fmt.Errorf("%s %s: job finished with result %q", opName, unit, result)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s %s: %w", opName, unit, ctx.Err())
	}
}
