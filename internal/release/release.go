// Package release runs one release-preparation pass: it collects the change
// requests for a new version, builds the changelog entry and splices it into
// every target changelog. All checks and all splicing happen before the
// first file is written.
package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ariel-frischer/relprep/internal/changelog"
	"github.com/sirupsen/logrus"
)

// ErrDirtyWorktree is returned when a clean working copy is required and
// tracked files have uncommitted changes.
var ErrDirtyWorktree = errors.New("working copy has uncommitted changes")

// Source supplies the change requests made since the previous release.
type Source interface {
	ChangeRequests(ctx context.Context, previous string) ([]changelog.ChangeRequest, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, previous string) ([]changelog.ChangeRequest, error)

// ChangeRequests calls f(ctx, previous).
func (f SourceFunc) ChangeRequests(ctx context.Context, previous string) ([]changelog.ChangeRequest, error) {
	return f(ctx, previous)
}

// CleanChecker reports whether the working copy is free of local changes.
type CleanChecker interface {
	IsClean() (bool, error)
}

// Options configures one preparation pass.
type Options struct {
	// Previous is the version of the last release; its marker line is the
	// insertion anchor in every file.
	Previous string
	// Version is the release being prepared.
	Version string
	// Files are the changelog documents to update.
	Files []string
	// Source supplies the change requests.
	Source Source
	// Roster lists internal handles. Nil credits every author.
	Roster changelog.Roster
	// Mode selects title classification.
	Mode changelog.Mode
	// Resolver places records the classifier left Unknown. Nil uses
	// changelog.DefaultResolver.
	Resolver changelog.Resolver
	// Render controls the rendered block.
	Render changelog.RenderOptions
	// Worktree, when set, must report a clean working copy.
	Worktree CleanChecker
	// VersionFile, when set, is rewritten to hold the new version.
	VersionFile string
	// DryRun renders and splices without writing anything.
	DryRun bool
	Logger logrus.FieldLogger
}

// FileResult describes the change made to one changelog document.
type FileResult struct {
	Path     string
	Dialect  changelog.Dialect
	Block    []string
	Inserted int
	Document *changelog.Document
}

// Result is the outcome of a preparation pass.
type Result struct {
	Previous string
	Version  string
	Entry    *changelog.Entry
	Files    []FileResult
	// Written is false for a dry run.
	Written bool
}

// CheckTargets runs the checks that need no file or repository access: the
// new version must come after previous and every target must be a supported
// changelog type.
func CheckTargets(previous, version string, files []string) error {
	if len(files) == 0 {
		return errors.New("no changelog files configured")
	}
	if err := changelog.CheckVersionOrder(previous, version); err != nil {
		return err
	}
	for _, path := range files {
		if _, err := changelog.DialectForPath(path); err != nil {
			return err
		}
	}
	return nil
}

// Prep prepares the changelog for a release. It fails without touching any
// file if the version does not advance, a target has an unsupported type,
// the working copy is dirty, or any target lacks the previous version's
// marker.
func Prep(ctx context.Context, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithFields(logrus.Fields{"previous": opts.Previous, "version": opts.Version})

	if opts.Source == nil {
		return nil, errors.New("no change-request source configured")
	}
	if err := CheckTargets(opts.Previous, opts.Version, opts.Files); err != nil {
		return nil, err
	}

	if opts.Worktree != nil {
		clean, err := opts.Worktree.IsClean()
		if err != nil {
			return nil, fmt.Errorf("checking working copy: %w", err)
		}
		if !clean {
			return nil, ErrDirtyWorktree
		}
	}

	requests, err := opts.Source.ChangeRequests(ctx, opts.Previous)
	if err != nil {
		return nil, err
	}
	log.WithField("count", len(requests)).Debug("Collected change requests")

	entry, err := BuildEntry(requests, opts.Mode, opts.Roster, opts.Resolver, log)
	if err != nil {
		return nil, err
	}

	result := &Result{Previous: opts.Previous, Version: opts.Version, Entry: entry}
	for _, path := range opts.Files {
		doc, err := changelog.ReadDocument(path)
		if err != nil {
			return nil, err
		}
		block, err := changelog.Render(doc.Dialect, opts.Version, entry, opts.Render)
		if err != nil {
			return nil, err
		}
		at, err := doc.Insert(opts.Previous, block)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{"file": path, "line": at}).Debug("Spliced release block")
		result.Files = append(result.Files, FileResult{
			Path:     path,
			Dialect:  doc.Dialect,
			Block:    block,
			Inserted: at,
			Document: doc,
		})
	}

	if opts.DryRun {
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, f := range result.Files {
		if err := f.Document.Write(); err != nil {
			return result, err
		}
	}
	if opts.VersionFile != "" {
		if err := WriteVersionFile(opts.VersionFile, opts.Version); err != nil {
			return result, err
		}
	}
	result.Written = true
	log.WithField("files", len(result.Files)).Info("Changelogs updated")
	return result, nil
}

// BuildEntry classifies, attributes, sorts and resolves the change requests
// of one release.
func BuildEntry(requests []changelog.ChangeRequest, mode changelog.Mode, roster changelog.Roster, resolver changelog.Resolver, log logrus.FieldLogger) (*changelog.Entry, error) {
	records := changelog.NewClassifier(mode, log).ClassifyAll(requests)
	changelog.Attribute(records, roster)

	entry := changelog.NewEntry(records)
	if n := entry.Unknowns(); n > 0 {
		log.WithField("count", n).Info("Resolving unclassified change requests")
		if err := entry.ResolveUnknowns(resolver); err != nil {
			return nil, err
		}
	}
	return entry, entry.Validate()
}

// WriteVersionFile replaces path with the version followed by a newline.
func WriteVersionFile(path, version string) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(version+"\n"), mode); err != nil {
		return fmt.Errorf("writing version file %s: %w", path, err)
	}
	return nil
}

// PrintBlocks writes the rendered block of every file, each preceded by a
// header naming the file.
func PrintBlocks(w io.Writer, result *Result) error {
	for i, f := range result.Files {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "==> %s (%s, line %d)\n", f.Path, f.Dialect, f.Inserted+1); err != nil {
			return err
		}
		if err := changelog.WriteLines(w, f.Block); err != nil {
			return err
		}
	}
	return nil
}
