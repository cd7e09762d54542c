package cli

import (
	"context"
	stderrors "errors"

	clierrors "github.com/ariel-frischer/relprep/internal/errors"
)

// Exit codes for the relprep CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitRuntimeError indicates the release could not be prepared
	ExitRuntimeError = 1

	// ExitConfigError indicates invalid or unreadable configuration
	ExitConfigError = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitPrerequisiteFailed indicates a missing file, tag, or a dirty working copy
	ExitPrerequisiteFailed = 4

	// ExitTimeout indicates command execution timed out
	ExitTimeout = 5
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return ExitTimeout
	}

	switch clierrors.FromError(err).Category {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Configuration:
		return ExitConfigError
	case clierrors.Prerequisite:
		return ExitPrerequisiteFailed
	default:
		return ExitRuntimeError
	}
}
