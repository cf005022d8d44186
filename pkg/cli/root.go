/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/modctl/modctl/pkg/errors"
	"github.com/modctl/modctl/pkg/logging"
)

const (
	name           = "modctl"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes for scripting callers. Validation, contention, transaction, and
// rollback failures are distinguishable without parsing output.
const (
	exitOK          = 0
	exitError       = 1
	exitValidation  = 2
	exitContended   = 3
	exitTransaction = 4
	exitRollback    = 5
)

// Root builds the top-level command.
func Root() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Host monitoring module orchestrator",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Flags: []cli.Flag{
			logLevelFlag,
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			detectCmd(),
			applyCmd("enable", "Enable modules and their dependencies"),
			applyCmd("disable", "Disable modules, dependents first"),
			applyCmd("install", "Install module artifacts and enable them"),
			applyCmd("reinstall", "Reinstall module artifacts"),
			statusCmd(),
		},
	}
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Root().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitError)
	}
}

// exitCodeFor maps a failure to the scripting exit code contract.
func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}
	switch errors.CodeOf(err) {
	case errors.ErrCodeInvalidRequest,
		errors.ErrCodeNotFound,
		errors.ErrCodeDuplicateModule,
		errors.ErrCodeCyclicDependency,
		errors.ErrCodeUnsafeHook:
		return exitValidation
	case errors.ErrCodeLockContended:
		return exitContended
	case errors.ErrCodeRollbackFailed:
		return exitRollback
	case errors.ErrCodeStepFailed,
		errors.ErrCodeConfigWriteFailed,
		errors.ErrCodeFetchFailed,
		errors.ErrCodeTimeout:
		return exitTransaction
	default:
		return exitError
	}
}

// fail wraps err with the mapped exit code so callers can branch on $?.
func fail(err error) cli.ExitCoder {
	return cli.Exit(err.Error(), exitCodeFor(err))
}
