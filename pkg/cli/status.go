/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"log/slog"
	"sort"

	"github.com/urfave/cli/v3"
)

// moduleStatus is one row of the status report.
type moduleStatus struct {
	ID         string            `json:"id" yaml:"id"`
	Enabled    bool              `json:"enabled" yaml:"enabled"`
	InCatalog  bool              `json:"inCatalog" yaml:"inCatalog"`
	Service    string            `json:"service,omitempty" yaml:"service,omitempty"`
	Port       int               `json:"port,omitempty" yaml:"port,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:                  "status",
		EnableShellCompletion: true,
		Usage:                 "Report catalog modules and their persisted enabled state",
		Description: `List every module known to the catalog or present in the persisted
state, with its enabled flag and declared service identity. Modules present
in the state file but missing from the catalog are reported with
inCatalog: false so leftovers are visible.`,
		Flags: []cli.Flag{
			catalogFlag,
			stateFlag,
			lockDirFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return fail(err)
			}

			writer, err := newResultWriter(cmd)
			if err != nil {
				return cli.Exit(err.Error(), exitValidation)
			}
			defer func() {
				if err := writer.Close(); err != nil {
					slog.Warn("failed to close output writer", "error", err)
				}
			}()

			persisted, err := rt.store.Read()
			if err != nil {
				return fail(err)
			}

			rows := map[string]moduleStatus{}
			for _, d := range rt.registry.All() {
				rows[d.ID] = moduleStatus{
					ID:        d.ID,
					InCatalog: true,
					Service:   d.Service.Name,
					Port:      d.Service.Port,
				}
			}
			for id, ms := range persisted {
				row, ok := rows[id]
				if !ok {
					row = moduleStatus{ID: id}
				}
				row.Enabled = ms.Enabled
				row.Parameters = ms.Parameters
				rows[id] = row
			}

			out := make([]moduleStatus, 0, len(rows))
			for _, row := range rows {
				out = append(out, row)
			}
			sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

			if err := writer.Serialize(ctx, out); err != nil {
				return fail(err)
			}
			return nil
		},
	}
}
