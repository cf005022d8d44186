/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/modctl/modctl/pkg/hook"
	"github.com/modctl/modctl/pkg/lock"
	"github.com/modctl/modctl/pkg/module"
	"github.com/modctl/modctl/pkg/serializer"
	"github.com/modctl/modctl/pkg/state"
)

// runtime bundles the collaborators every command wires from global flags.
type runtime struct {
	registry *module.Registry
	store    *state.Store
	locks    *lock.Manager
	hooks    *hook.Runner
}

// newRuntime loads the catalog and builds the shared collaborators.
func newRuntime(cmd *cli.Command) (*runtime, error) {
	reg := module.NewRegistry()
	if err := module.LoadCatalog(cmd.String("catalog"), reg); err != nil {
		return nil, err
	}

	hooks := hook.NewRunner()
	if err := hook.RegisterSystemdOps(hooks); err != nil {
		return nil, err
	}

	return &runtime{
		registry: reg,
		store:    state.NewStore(cmd.String("state")),
		locks:    lock.NewManager(cmd.String("lock-dir")),
		hooks:    hooks,
	}, nil
}

// newResultWriter builds the output serializer from the format/output flags.
// The returned writer must be closed by the caller.
func newResultWriter(cmd *cli.Command) (*serializer.Writer, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return nil, fmt.Errorf("unknown output format: %q", outFormat)
	}
	return serializer.NewFileWriterOrStdout(outFormat, cmd.String("output")), nil
}
