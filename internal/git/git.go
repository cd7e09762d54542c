// Package git reads release history from a local repository using go-git.
// It answers the questions release preparation asks of version control:
// is the working copy clean, which commits landed since the previous
// release tag, and which branch is checked out.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// DefaultFetchTimeout bounds FetchAllRemotes when the caller's context has
// no deadline.
const DefaultFetchTimeout = 60 * time.Second

// ErrNotRepository is returned by Open when no repository contains the path.
var ErrNotRepository = errors.New("not a git repository")

// TagNotFoundError is returned when neither "<version>" nor "v<version>"
// exists as a tag.
type TagNotFoundError struct {
	Version string
}

func (e *TagNotFoundError) Error() string {
	return fmt.Sprintf("no tag found for version %s (tried %q and %q)", e.Version, e.Version, "v"+e.Version)
}

// Commit is the subset of commit metadata used to build change requests.
type Commit struct {
	Hash        string
	Subject     string
	AuthorName  string
	AuthorEmail string
	When        time.Time
}

// ShortHash returns the abbreviated commit hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// Repository wraps an opened go-git repository.
type Repository struct {
	repo *git.Repository
}

// Open opens the repository containing path. An empty path means the
// current working directory; parent directories are searched for .git.
func Open(path string) (*Repository, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}
	return &Repository{repo: repo}, nil
}

func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// Root returns the absolute path of the working tree.
func (r *Repository) Root() (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	return wt.Filesystem.Root(), nil
}

// CurrentBranch returns the checked-out branch, or "" for a detached HEAD.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	if !head.Name().IsBranch() {
		logDebug("[git] CurrentBranch: detached HEAD state")
		return "", nil
	}
	return head.Name().Short(), nil
}

// IsClean reports whether every tracked file matches HEAD. Untracked files
// are ignored.
func (r *Repository) IsClean() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("reading worktree status: %w", err)
	}

	for path, fs := range status {
		if fs.Staging == git.Untracked && fs.Worktree == git.Untracked {
			continue
		}
		if fs.Staging != git.Unmodified || fs.Worktree != git.Unmodified {
			logDebug("[git] IsClean: %s is modified", path)
			return false, nil
		}
	}
	return true, nil
}

// ResolveTag returns the commit a version tag points at. Both "<version>"
// and "v<version>" are tried; annotated tags are peeled to their commit.
func (r *Repository) ResolveTag(version string) (plumbing.Hash, error) {
	for _, name := range []string{version, "v" + version} {
		ref, err := r.repo.Tag(name)
		if errors.Is(err, git.ErrTagNotFound) {
			continue
		}
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("reading tag %s: %w", name, err)
		}

		tag, err := r.repo.TagObject(ref.Hash())
		switch {
		case errors.Is(err, plumbing.ErrObjectNotFound):
			logDebug("[git] ResolveTag: %s is lightweight", name)
			return ref.Hash(), nil
		case err != nil:
			return plumbing.ZeroHash, fmt.Errorf("reading tag object %s: %w", name, err)
		}

		commit, err := tag.Commit()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("peeling tag %s: %w", name, err)
		}
		logDebug("[git] ResolveTag: %s is annotated, points at %s", name, commit.Hash)
		return commit.Hash, nil
	}
	return plumbing.ZeroHash, &TagNotFoundError{Version: version}
}

// CommitsSince returns the commits reachable from HEAD but not from the tag
// of the previous version, oldest first.
func (r *Repository) CommitsSince(ctx context.Context, version string) ([]Commit, error) {
	tagCommit, err := r.ResolveTag(version)
	if err != nil {
		return nil, err
	}

	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}
	headCommit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("reading HEAD commit: %w", err)
	}
	tag, err := r.repo.CommitObject(tagCommit)
	if err != nil {
		return nil, fmt.Errorf("reading commit for %s: %w", version, err)
	}

	walked, visited, err := walkSince(ctx, headCommit, tag)
	if err != nil {
		return nil, fmt.Errorf("walking history since %s: %w", version, err)
	}

	commits := make([]Commit, 0, len(walked))
	for i := len(walked) - 1; i >= 0; i-- {
		c := walked[i]
		commits = append(commits, Commit{
			Hash:        c.Hash.String(),
			Subject:     subject(c.Message),
			AuthorName:  c.Author.Name,
			AuthorEmail: c.Author.Email,
			When:        c.Committer.When,
		})
	}

	logDebug("[git] CommitsSince %s: %d commits (%d visited)", version, len(commits), visited)
	return commits, nil
}

const (
	fromHead uint8 = 1 << iota
	fromTag
)

// walkSlop is how many more commits are visited once every pending commit
// is known to be released, to absorb small committer clock skew.
const walkSlop = 5

// walkSince returns the commits reachable from head but not from tag, newest
// first by committer time, and how many commits were visited. Both sides are
// walked together and the walk stops once only released commits are pending.
func walkSince(ctx context.Context, head, tag *object.Commit) ([]*object.Commit, int, error) {
	flags := make(map[plumbing.Hash]uint8)
	queue := binaryheap.NewWith(func(a, b interface{}) int {
		ta := a.(*object.Commit).Committer.When
		tb := b.(*object.Commit).Committer.When
		switch {
		case ta.After(tb):
			return -1
		case tb.After(ta):
			return 1
		default:
			return 0
		}
	})
	push := func(c *object.Commit, f uint8) {
		old := flags[c.Hash]
		if old|f == old {
			return
		}
		flags[c.Hash] = old | f
		queue.Push(c)
	}
	onlyReleased := func() bool {
		for _, v := range queue.Values() {
			if flags[v.(*object.Commit).Hash]&fromTag == 0 {
				return false
			}
		}
		return true
	}

	push(head, fromHead)
	push(tag, fromTag)

	var (
		order   []*object.Commit
		listed  = make(map[plumbing.Hash]bool)
		visited int
		slop    = walkSlop
	)
	for !queue.Empty() {
		if err := ctx.Err(); err != nil {
			return nil, visited, err
		}
		v, _ := queue.Pop()
		c := v.(*object.Commit)
		visited++

		f := flags[c.Hash]
		if f == fromHead && !listed[c.Hash] {
			listed[c.Hash] = true
			order = append(order, c)
		}
		err := c.Parents().ForEach(func(p *object.Commit) error {
			push(p, f)
			return nil
		})
		if err != nil {
			return nil, visited, err
		}

		if !onlyReleased() {
			slop = walkSlop
			continue
		}
		if slop--; slop <= 0 {
			break
		}
	}

	out := order[:0]
	for _, c := range order {
		if flags[c.Hash] == fromHead {
			out = append(out, c)
		}
	}
	return out, visited, nil
}

func subject(message string) string {
	line, _, _ := strings.Cut(strings.TrimLeft(message, "\n"), "\n")
	return strings.TrimRight(line, "\r")
}

// FetchAllRemotes fetches branches and tags from every configured remote.
// Failures are reported per remote and do not stop the remaining fetches;
// the result is true only if every fetch succeeded.
func (r *Repository) FetchAllRemotes(ctx context.Context) (bool, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultFetchTimeout)
		defer cancel()
	}

	remotes, err := r.repo.Remotes()
	if err != nil {
		logDebug("[git] FetchAllRemotes: no remotes: %v", err)
		return true, nil
	}
	if len(remotes) == 0 {
		logDebug("[git] FetchAllRemotes: no remotes configured")
		return true, nil
	}

	allSucceeded := true
	for _, remote := range remotes {
		if ctx.Err() != nil {
			logDebug("[git] FetchAllRemotes: context cancelled, stopping fetch")
			return allSucceeded, nil
		}
		if err := r.fetchRemote(ctx, remote); err != nil {
			logDebug("[git] failed to fetch from remote '%s': %v", remote.Config().Name, err)
			allSucceeded = false
		}
	}
	return allSucceeded, nil
}

func (r *Repository) fetchRemote(ctx context.Context, remote *git.Remote) error {
	remoteConfig := remote.Config()
	if len(remoteConfig.URLs) == 0 {
		return nil
	}

	url := remoteConfig.URLs[0]
	if isSSHURL(url) && !isSSHAgentAvailable() {
		logDebug("[git] skipping fetch from remote '%s': SSH URL without SSH agent available", remoteConfig.Name)
		return nil
	}

	logDebug("[git] fetching from remote '%s' (%s)", remoteConfig.Name, url)
	err := r.repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remoteConfig.Name,
		Auth:       getAuthForURL(url),
		Tags:       git.AllTags,
		RefSpecs: []config.RefSpec{
			config.RefSpec("+refs/heads/*:refs/remotes/" + remoteConfig.Name + "/*"),
		},
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return err
}

// getAuthForURL returns the appropriate authentication method for a remote URL.
// SSH URLs use SSH agent auth, HTTPS URLs use environment credentials.
func getAuthForURL(url string) transport.AuthMethod {
	if isSSHURL(url) {
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			logDebug("[git] SSH agent auth failed: %v", err)
			return nil
		}
		return auth
	}

	username := os.Getenv("GIT_USERNAME")
	password := os.Getenv("GIT_PASSWORD")
	if username == "" {
		username = os.Getenv("GITHUB_TOKEN")
		if username != "" {
			password = ""
		}
	}

	if username != "" {
		return &http.BasicAuth{
			Username: username,
			Password: password,
		}
	}
	return nil
}

func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}

func isSSHAgentAvailable() bool {
	return strings.TrimSpace(os.Getenv("SSH_AUTH_SOCK")) != ""
}
