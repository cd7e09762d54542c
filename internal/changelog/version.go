package changelog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// VersionOrderError is returned when the new version does not come strictly
// after the previous one.
type VersionOrderError struct {
	Previous string
	Next     string
}

func (e *VersionOrderError) Error() string {
	return fmt.Sprintf("version %s is not greater than previous version %s", e.Next, e.Previous)
}

// VersionParseError is returned for a version string that cannot be compared.
type VersionParseError struct {
	Version string
	Err     error
}

func (e *VersionParseError) Error() string {
	return fmt.Sprintf("invalid version %q: %v", e.Version, e.Err)
}

func (e *VersionParseError) Unwrap() error {
	return e.Err
}

// CheckVersionOrder verifies that next is strictly greater than previous
// under semantic version precedence. Pre-release versions sort before the
// corresponding final release. Both "1.0.0-rc.1" and the Python style
// "1.0.0rc1" are accepted; the latter orders dev < a < b < rc.
func CheckVersionOrder(previous, next string) error {
	prev, err := parseVersion(previous)
	if err != nil {
		return err
	}
	nv, err := parseVersion(next)
	if err != nil {
		return err
	}
	if !nv.GreaterThan(prev) {
		return &VersionOrderError{Previous: previous, Next: next}
	}
	return nil
}

// NormalizeVersion trims whitespace and a leading "v" so "v1.2.0" and
// "1.2.0" name the same release.
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(strings.TrimSpace(version), "v")
}

// pep440PreRelease matches Python style pre-releases such as 1.0.0a1,
// 0.15.0rc1 or 2.0.dev3.
var pep440PreRelease = regexp.MustCompile(`^(\d+(?:\.\d+)*)\.?(dev|a|b|rc)\.?(\d+)$`)

// pep440Rank keeps the Python ordering of pre-release phases once they are
// compared as semver identifiers, where "dev" would otherwise sort after "b".
var pep440Rank = map[string]string{"dev": "0", "a": "1", "b": "2", "rc": "3"}

// semverString rewrites a Python style pre-release into semver form:
// 1.0.0rc1 becomes 1.0.0-3.rc.1. Anything else is returned unchanged.
func semverString(s string) string {
	m := pep440PreRelease.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	return fmt.Sprintf("%s-%s.%s.%s", m[1], pep440Rank[m[2]], m[2], m[3])
}

func parseVersion(s string) (*semver.Version, error) {
	v, err := semver.NewVersion(semverString(NormalizeVersion(s)))
	if err != nil {
		return nil, &VersionParseError{Version: s, Err: err}
	}
	return v, nil
}
