/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/modctl/modctl/pkg/defaults"
	"github.com/modctl/modctl/pkg/detector"
)

// detectResult is the serialized output of a detection pass.
type detectResult struct {
	Scores     map[string]int `json:"scores" yaml:"scores"`
	Applicable []string       `json:"applicable" yaml:"applicable"`
	Threshold  int            `json:"threshold" yaml:"threshold"`
}

func detectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "detect",
		EnableShellCompletion: true,
		Usage:                 "Score catalog modules for applicability to this host",
		Description: `Evaluate every module's detection rules against the current host and
report a confidence score per module.

Rules run concurrently under per-rule timeouts; a rule that errors or
times out counts as non-matching. Scores are clamped to [0,100]. A module
is applicable when its score exceeds the threshold.

# Examples

Score all catalog modules:
  modctl detect --catalog /etc/modctl/catalog.yaml

Only report modules scoring above 50, as JSON:
  modctl detect --threshold 50 --format json`,
		Flags: []cli.Flag{
			catalogFlag,
			stateFlag,
			lockDirFlag,
			thresholdFlag,
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

			ctx, cancel := context.WithTimeout(ctx, defaults.CLIDetectTimeout)
			defer cancel()

			d := detector.New()
			scores, err := d.Detect(ctx, rt.registry.All())
			if err != nil {
				return fail(err)
			}

			threshold := int(cmd.Int("threshold"))
			result := detectResult{
				Scores:     scores,
				Applicable: detector.Applicable(scores, threshold),
				Threshold:  threshold,
			}

			slog.Info("detection complete",
				"modules", len(scores),
				"applicable", len(result.Applicable),
				"threshold", threshold)

			if err := writer.Serialize(ctx, result); err != nil {
				return fail(err)
			}
			return nil
		},
	}
}
