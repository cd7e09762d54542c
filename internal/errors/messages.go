package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/ariel-frischer/relprep/internal/changelog"
	"github.com/ariel-frischer/relprep/internal/config"
	"github.com/ariel-frischer/relprep/internal/git"
	"github.com/ariel-frischer/relprep/internal/release"
)

// Common error messages for the relprep CLI.
// These templates ensure consistent, actionable error messages.

// MissingVersions creates an error for a prep run without both version labels.
func MissingVersions() *CLIError {
	return NewArgumentErrorWithUsage(
		"both the previous and the new version are required",
		"relprep prep --previous <version> --version <version>",
		"Pass the last released version with --previous",
		"Pass the version being prepared with --version",
	)
}

// MissingSource creates an error when no change-request source was chosen.
func MissingSource() *CLIError {
	return NewArgumentErrorWithUsage(
		"no change-request source given",
		"relprep prep --previous 1.0.0 --version 1.1.0 (--input changes.yml | --from-git)",
		"Read change requests from a YAML or JSON file with --input",
		"Or collect commits since the previous tag with --from-git",
	)
}

// ConflictingSources creates an error when more than one source was chosen.
func ConflictingSources() *CLIError {
	return NewArgumentError(
		"--input and --from-git cannot be used together",
		"Choose one change-request source",
	)
}

// VersionNotGreater creates an error for a version that does not advance.
func VersionNotGreater(previous, next string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("version %s is not greater than previous version %s", next, previous),
		"Check the --version and --previous values are not swapped",
		"Pre-release versions sort before their final release (1.1.0-rc.1 < 1.1.0)",
	)
}

// InvalidVersion creates an error for a version label that cannot be compared.
func InvalidVersion(version string, err error) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid version %q: %v", version, err),
		"Use a dotted numeric version such as 1.2.0, 1.2.0-rc.1 or 1.2.0rc1",
	)
}

// AnchorNotFound creates an error when a changelog lacks the previous release.
func AnchorNotFound(path, marker string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("could not find insertion point in %s: no line contains %q", path, marker),
		fmt.Sprintf("Check that %s has an entry for release %s", path, marker),
		"Check the --previous value matches the last released version",
		"No changelog was modified",
	)
}

// UnsupportedChangelog creates an error for a target with an unknown extension.
func UnsupportedChangelog(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("unsupported changelog file type %q", path),
		"Changelog files must end in .md or .rst",
		"Check changelog_files with: relprep config show",
	)
}

// FileNotFound creates an error for an input or changelog file that does not exist.
func FileNotFound(err error) *CLIError {
	return WrapWithMessage(err, Prerequisite,
		"file not found",
		"Run relprep from the repository root",
		"Check changelog_files and roster_file with: relprep config show",
	)
}

// DirtyWorktree creates an error when tracked files have uncommitted changes.
func DirtyWorktree() *CLIError {
	return NewPrerequisiteError(
		"working copy has uncommitted changes",
		"Commit or stash your changes first",
		"Or disable the check with: relprep config set require_clean false",
	)
}

// TagNotFound creates an error when the previous release has no tag.
func TagNotFound(version string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("no tag found for version %s", version),
		fmt.Sprintf("Check the tag exists: git tag -l '%s' 'v%s'", version, version),
		"Fetch tags from the remote with --fetch",
		"Or list the change requests in a file and use --input",
	)
}

// NotARepository creates an error when git collection runs outside a repository.
func NotARepository(err error) *CLIError {
	return WrapWithMessage(err, Prerequisite,
		"not a git repository",
		"Run relprep inside the project's repository",
		"Or use --input to read change requests from a file",
	)
}

// UnresolvedRecords creates an error for records left without a category.
func UnresolvedRecords(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"cannot render changelog",
		"Re-run in a terminal to classify the remaining change requests",
		"Or switch to tag classification: relprep config set classify_mode tag",
	)
}

// InvalidConfig creates an error for a configuration that failed to load.
func InvalidConfig(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"invalid configuration",
		"Check .relprep/config.yml and ~/.config/relprep/config.yml",
		"List valid keys with: relprep config keys",
	)
}

// FromError converts an error from the release pipeline into a CLIError
// with remediation. CLIErrors pass through; anything unrecognized becomes a
// Runtime error.
func FromError(err error) *CLIError {
	if err == nil {
		return nil
	}

	var (
		cliErr     *CLIError
		orderErr   *changelog.VersionOrderError
		parseErr   *changelog.VersionParseError
		anchorErr  *changelog.AnchorNotFoundError
		dialectErr *changelog.DialectError
		tagErr     *git.TagNotFoundError
		configErr  *config.ValidationError
	)

	switch {
	case stderrors.As(err, &cliErr):
		return cliErr
	case stderrors.As(err, &orderErr):
		return VersionNotGreater(orderErr.Previous, orderErr.Next)
	case stderrors.As(err, &parseErr):
		return InvalidVersion(parseErr.Version, parseErr.Err)
	case stderrors.As(err, &anchorErr):
		return AnchorNotFound(anchorErr.Path, anchorErr.Marker)
	case stderrors.As(err, &dialectErr):
		return UnsupportedChangelog(dialectErr.Path)
	case stderrors.As(err, &tagErr):
		return TagNotFound(tagErr.Version)
	case stderrors.As(err, &configErr):
		return InvalidConfig(err)
	case stderrors.Is(err, git.ErrNotRepository):
		return NotARepository(err)
	case stderrors.Is(err, release.ErrDirtyWorktree):
		return DirtyWorktree()
	case stderrors.Is(err, changelog.ErrUnresolved):
		return UnresolvedRecords(err)
	case stderrors.Is(err, os.ErrNotExist):
		return FileNotFound(err)
	default:
		e := NewRuntimeError(err.Error(), "Re-run with --debug for more detail")
		e.Err = err
		return e
	}
}
