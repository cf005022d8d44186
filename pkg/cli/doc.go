// Package cli implements the command-line interface for the modctl tool.
//
// # Overview
//
// modctl installs, enables, and maintains host monitoring modules. It scores
// modules for applicability, applies lifecycle operations as all-or-nothing
// transactions, and reports the persisted enabled state.
//
// # Commands
//
// detect - Score catalog modules:
//
//	modctl detect [--threshold N] [--output FILE] [--format yaml|json|table]
//
// Evaluates every module's detection rules against the host and reports a
// confidence score in [0,100] per module plus the ranked applicable set.
//
// enable / disable / install / reinstall - Transactional operations:
//
//	modctl enable node-exporter dashboard
//	modctl disable dashboard
//	modctl install node-exporter --artifact-url https://mirror.example.com/artifacts
//
// Each command runs the named modules as one atomic transaction in
// dependency order under the host lock, verifying each state-changing step
// and rolling back completed steps in reverse order on failure.
//
// status - Report persisted state:
//
//	modctl status [--format table]
//
// # Global Flags
//
//	--catalog, -c  Module catalog path or URL (default: /etc/modctl/catalog.yaml)
//	--state        Persisted enabled-state file (default: /var/lib/modctl/modules.yaml)
//	--lock-dir     Host lock directory (default: /run/modctl)
//	--output, -o   Output file path (default: stdout)
//	--format, -t   Output format: yaml, json, table (default: yaml)
//	--log-level    Logging verbosity (debug, info, warn, error)
//
// # Environment Variables
//
//	MODCTL_CATALOG       Catalog path or URL
//	MODCTL_STATE         State file path
//	MODCTL_LOCK_DIR      Lock directory
//	MODCTL_ARTIFACT_URL  Artifact download base URL
//	MODCTL_THRESHOLD     Detection threshold
//	MODCTL_FORMAT        Output format
//	MODCTL_LOG_LEVEL     Logging verbosity
//
// # Exit Codes
//
//	0  Success
//	1  General error
//	2  Validation error (bad request, unknown module, cyclic dependency, unsafe hook)
//	3  Lock contended (another transaction holds the host lock)
//	4  Transaction failed and was rolled back
//	5  Rollback failed (manual intervention required)
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/modctl/modctl/pkg/cli.version=1.0.0'"
package cli
