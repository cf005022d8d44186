/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/modctl/modctl/pkg/fetcher"
	"github.com/modctl/modctl/pkg/reporter"
	"github.com/modctl/modctl/pkg/transaction"
	"github.com/modctl/modctl/pkg/verifier"
)

// applyResult is the serialized outcome of a transaction.
type applyResult struct {
	Transaction      string   `json:"transaction" yaml:"transaction"`
	Operation        string   `json:"operation" yaml:"operation"`
	Phase            string   `json:"phase" yaml:"phase"`
	Modules          []string `json:"modules" yaml:"modules"`
	Error            string   `json:"error,omitempty" yaml:"error,omitempty"`
	RollbackFailures []string `json:"rollbackFailures,omitempty" yaml:"rollbackFailures,omitempty"`
}

// applyCmd builds one of the transactional commands; the command name doubles
// as the lifecycle operation.
func applyCmd(op, usage string) *cli.Command {
	return &cli.Command{
		Name:                  op,
		EnableShellCompletion: true,
		Usage:                 usage,
		ArgsUsage:             "MODULE [MODULE...]",
		Description: fmt.Sprintf(`Run %q for the named modules as one atomic transaction.

Steps execute in dependency order under the host lock. Each step runs the
module's hook and, when the module declares a verification probe, waits for
it to report ready. On any failure, completed steps are unwound in reverse
order and the persisted state is left untouched.

Exit codes: 0 success, %d validation error, %d lock contended,
%d transaction failed and rolled back, %d rollback failed (manual
intervention required).`, op, exitValidation, exitContended, exitTransaction, exitRollback),
		Flags: []cli.Flag{
			catalogFlag,
			stateFlag,
			lockDirFlag,
			artifactURLFlag,
			timeoutFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			modules := cmd.Args().Slice()
			if len(modules) == 0 {
				return cli.Exit(fmt.Sprintf("%s requires at least one module", op), exitValidation)
			}

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

			opts := []transaction.Option{
				transaction.WithTimeout(cmd.Duration("timeout")),
			}

			if base := cmd.String("artifact-url"); base != "" {
				f, err := fetcher.NewHTTPFetcher(base)
				if err != nil {
					return fail(err)
				}
				opts = append(opts, transaction.WithFetcher(f))
			}

			events := reporter.NewAsyncReporter(reporter.NewSlogReporter(nil), 0)
			defer events.Close()
			opts = append(opts, transaction.WithReporter(events))

			mgr := transaction.NewManager(
				rt.registry, rt.store, rt.locks, rt.hooks, verifier.New(), opts...)

			plan, err := mgr.Plan(transaction.Operation(op), modules)
			if err != nil {
				return fail(err)
			}

			rec, applyErr := mgr.Apply(ctx, plan)
			result := applyResult{
				Transaction: rec.ID,
				Operation:   op,
				Phase:       string(rec.Phase),
				Modules:     plan.ModuleIDs(),
			}
			if applyErr != nil {
				result.Error = applyErr.Error()
			}
			for _, re := range rec.RollbackErrors {
				result.RollbackFailures = append(result.RollbackFailures, re.ModuleID)
			}

			if err := writer.Serialize(ctx, result); err != nil {
				slog.Error("failed to serialize transaction result", "error", err)
			}

			if applyErr != nil {
				return fail(applyErr)
			}
			return nil
		},
	}
}
