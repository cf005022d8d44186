/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"github.com/urfave/cli/v3"

	"github.com/modctl/modctl/pkg/defaults"
)

var (
	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "log level (debug, info, warn, error)",
		Sources: cli.EnvVars("MODCTL_LOG_LEVEL", "LOG_LEVEL"),
		Value:   "info",
	}

	catalogFlag = &cli.StringFlag{
		Name:    "catalog",
		Aliases: []string{"c"},
		Usage:   "path or URL of the module catalog",
		Sources: cli.EnvVars("MODCTL_CATALOG"),
		Value:   "/etc/modctl/catalog.yaml",
	}

	stateFlag = &cli.StringFlag{
		Name:    "state",
		Usage:   "path of the persisted enabled-state file",
		Sources: cli.EnvVars("MODCTL_STATE"),
		Value:   "/var/lib/modctl/modules.yaml",
	}

	lockDirFlag = &cli.StringFlag{
		Name:    "lock-dir",
		Usage:   "directory for host transaction locks",
		Sources: cli.EnvVars("MODCTL_LOCK_DIR"),
		Value:   "/run/modctl",
	}

	artifactURLFlag = &cli.StringFlag{
		Name:    "artifact-url",
		Usage:   "base URL for module artifact downloads",
		Sources: cli.EnvVars("MODCTL_ARTIFACT_URL"),
	}

	timeoutFlag = &cli.DurationFlag{
		Name:    "timeout",
		Usage:   "overall transaction deadline",
		Sources: cli.EnvVars("MODCTL_TIMEOUT"),
		Value:   defaults.CLIApplyTimeout,
	}

	thresholdFlag = &cli.IntFlag{
		Name:    "threshold",
		Usage:   "confidence score a module must exceed to be applicable",
		Sources: cli.EnvVars("MODCTL_THRESHOLD"),
		Value:   0,
	}

	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   "output format: yaml, json, table",
		Sources: cli.EnvVars("MODCTL_FORMAT"),
		Value:   "yaml",
	}
)
