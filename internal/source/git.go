package source

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ariel-frischer/relprep/internal/changelog"
	"github.com/ariel-frischer/relprep/internal/git"
	"github.com/sirupsen/logrus"
)

// releaseMarker identifies release bookkeeping commits, which never appear
// in a changelog.
const releaseMarker = "RELEASE"

// squashRefPattern matches the "(#123)" suffix hosted repositories append
// to squash-merged commit titles.
var squashRefPattern = regexp.MustCompile(`^(.*?)\s*\(#(\d+)\)\s*$`)

// CommitLog is the part of a repository the git collector reads.
type CommitLog interface {
	CommitsSince(ctx context.Context, version string) ([]git.Commit, error)
	CurrentBranch() (string, error)
}

// Git collects change requests from commits made since the previous
// release tag.
type Git struct {
	Log CommitLog
	// Trunk is the branch releases are cut from. A different checked-out
	// branch is reported but not refused.
	Trunk  string
	Logger logrus.FieldLogger
}

// ChangeRequests returns one request per commit since previous, oldest
// first. Release bookkeeping commits are skipped.
func (g *Git) ChangeRequests(ctx context.Context, previous string) ([]changelog.ChangeRequest, error) {
	log := g.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	if g.Trunk != "" {
		branch, err := g.Log.CurrentBranch()
		if err != nil {
			return nil, err
		}
		if branch != g.Trunk {
			log.WithFields(logrus.Fields{
				"branch": branch,
				"trunk":  g.Trunk,
			}).Warn("Collecting changes from a branch other than trunk")
		}
	}

	commits, err := g.Log.CommitsSince(ctx, previous)
	if err != nil {
		return nil, fmt.Errorf("collecting commits since %s: %w", previous, err)
	}

	requests := make([]changelog.ChangeRequest, 0, len(commits))
	for _, c := range commits {
		if strings.Contains(c.Subject, releaseMarker) {
			log.WithField("commit", c.ShortHash()).Debug("Skipping release commit")
			continue
		}
		requests = append(requests, FromCommit(c))
	}
	return requests, nil
}

// FromCommit converts a commit into a change request. A trailing squash
// reference supplies the id and is dropped from the title; otherwise the
// short hash is the id.
func FromCommit(c git.Commit) changelog.ChangeRequest {
	id, title := c.ShortHash(), c.Subject
	if m := squashRefPattern.FindStringSubmatch(c.Subject); m != nil {
		title, id = m[1], m[2]
	}
	return changelog.ChangeRequest{
		ID:       id,
		Title:    title,
		Author:   git.Handle(c.AuthorName, c.AuthorEmail),
		MergedAt: c.When,
	}
}
