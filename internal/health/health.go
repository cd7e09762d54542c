// Package health runs the readiness checks behind 'relprep doctor'. Each
// check reports whether a release could be prepared right now: changelog
// targets readable and of a supported type, the roster loadable, and the
// repository on trunk with a clean working copy.
package health

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/relprep/internal/changelog"
	"github.com/ariel-frischer/relprep/internal/git"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Warning marks a failed check that does not block a release.
	Warning bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Options selects what RunHealthChecks inspects.
type Options struct {
	Files        []string
	RosterFile   string
	RosterFormat string
	// Previous, when set, must appear in every changelog.
	Previous     string
	RepoPath     string
	Trunk        string
	RequireClean bool
}

// RunHealthChecks runs all health checks and returns a report.
func RunHealthChecks(opts Options) *HealthReport {
	report := &HealthReport{Passed: true}
	add := func(c CheckResult) {
		report.Checks = append(report.Checks, c)
		if !c.Passed && !c.Warning {
			report.Passed = false
		}
	}

	for _, path := range opts.Files {
		add(CheckChangelog(path, opts.Previous))
	}
	add(CheckRoster(opts.RosterFile, opts.RosterFormat))
	for _, c := range CheckRepository(opts.RepoPath, opts.Trunk, opts.RequireClean) {
		add(c)
	}
	return report
}

// CheckChangelog checks that a changelog target can be read and, when
// previous is set, that it mentions the previous version.
func CheckChangelog(path, previous string) CheckResult {
	name := "Changelog " + path
	doc, err := changelog.ReadDocument(path)
	if err != nil {
		return CheckResult{Name: name, Passed: false, Message: err.Error()}
	}
	if previous == "" {
		return CheckResult{
			Name:    name,
			Passed:  true,
			Message: fmt.Sprintf("%s, %d lines", doc.Dialect, len(doc.Lines)),
		}
	}
	idx := changelog.FindAnchor(doc.Lines, previous)
	if idx < 0 {
		return CheckResult{Name: name, Passed: false, Message: fmt.Sprintf("no line mentions %s", previous)}
	}
	return CheckResult{
		Name:    name,
		Passed:  true,
		Message: fmt.Sprintf("%s, %s found on line %d", doc.Dialect, previous, idx+1),
	}
}

// CheckRoster checks that the roster loads. An unset roster is a warning,
// since every author would be credited.
func CheckRoster(path, format string) CheckResult {
	if path == "" {
		return CheckResult{
			Name:    "Roster",
			Passed:  false,
			Warning: true,
			Message: "no roster_file configured; every author will be credited",
		}
	}
	roster, err := changelog.LoadRoster(path, changelog.RosterFormat(format))
	if err != nil {
		return CheckResult{Name: "Roster", Passed: false, Message: err.Error()}
	}
	if roster.Len() == 0 {
		return CheckResult{
			Name:    "Roster",
			Passed:  false,
			Warning: true,
			Message: fmt.Sprintf("%s lists no handles", path),
		}
	}
	return CheckResult{Name: "Roster", Passed: true, Message: fmt.Sprintf("%d handles in %s", roster.Len(), path)}
}

// CheckRepository checks the repository, the checked-out branch, and, when
// requireClean is set, the working copy. Outside a repository only --input
// works, so that is a warning.
func CheckRepository(path, trunk string, requireClean bool) []CheckResult {
	repo, err := git.Open(path)
	if err != nil {
		return []CheckResult{{
			Name:    "Repository",
			Passed:  false,
			Warning: true,
			Message: "not a git repository; only --input can be used",
		}}
	}

	root, err := repo.Root()
	if err != nil {
		return []CheckResult{{Name: "Repository", Passed: false, Message: err.Error()}}
	}
	results := []CheckResult{{Name: "Repository", Passed: true, Message: root}}

	branch, err := repo.CurrentBranch()
	switch {
	case err != nil:
		results = append(results, CheckResult{Name: "Branch", Passed: false, Message: err.Error()})
	case trunk != "" && branch != trunk:
		current := branch
		if current == "" {
			current = "detached HEAD"
		}
		results = append(results, CheckResult{
			Name:    "Branch",
			Passed:  false,
			Warning: true,
			Message: fmt.Sprintf("on %s, releases are cut from %s", current, trunk),
		})
	default:
		results = append(results, CheckResult{Name: "Branch", Passed: true, Message: branch})
	}

	if requireClean {
		clean, err := repo.IsClean()
		switch {
		case err != nil:
			results = append(results, CheckResult{Name: "Working copy", Passed: false, Message: err.Error()})
		case !clean:
			results = append(results, CheckResult{Name: "Working copy", Passed: false, Message: "tracked files have uncommitted changes"})
		default:
			results = append(results, CheckResult{Name: "Working copy", Passed: true, Message: "clean"})
		}
	}
	return results
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var b strings.Builder
	for _, check := range report.Checks {
		symbol := "✓"
		switch {
		case check.Passed:
		case check.Warning:
			symbol = "!"
		default:
			symbol = "✗"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", symbol, check.Name, check.Message)
	}
	return b.String()
}
