package changelog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Roster answers whether a handle belongs to the internal team.
type Roster interface {
	Contains(handle string) bool
}

// RosterFormat selects how a roster document is read.
type RosterFormat string

const (
	// RosterHandles scrapes every @handle token from free-form text.
	RosterHandles RosterFormat = "handles"
	// RosterYAML reads a mapping of team name to a list of handles.
	RosterYAML RosterFormat = "yaml"
)

// handlePattern extracts @handle tokens. Hyphens are allowed because hosted
// repository logins use them.
var handlePattern = regexp.MustCompile(`@([\w-]+)`)

// HandleSet is a roster backed by an exact-match, case-sensitive set.
type HandleSet struct {
	handles map[string]struct{}
}

// NewHandleSet builds a roster from explicit handles. A leading "@" is
// stripped; empty handles are ignored.
func NewHandleSet(handles ...string) *HandleSet {
	s := &HandleSet{handles: make(map[string]struct{}, len(handles))}
	for _, h := range handles {
		h = strings.TrimPrefix(strings.TrimSpace(h), "@")
		if h != "" {
			s.handles[h] = struct{}{}
		}
	}
	return s
}

// Contains reports whether handle is in the set.
func (s *HandleSet) Contains(handle string) bool {
	if s == nil {
		return false
	}
	_, ok := s.handles[handle]
	return ok
}

// Handles returns the sorted handles in the set.
func (s *HandleSet) Handles() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.handles))
	for h := range s.handles {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of handles in the set.
func (s *HandleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.handles)
}

// ParseHandles extracts every @handle token from arbitrary text, such as a
// CODEOWNERS-style teams file with surrounding YAML or Markdown.
func ParseHandles(text string) *HandleSet {
	var handles []string
	for _, m := range handlePattern.FindAllStringSubmatch(text, -1) {
		handles = append(handles, m[1])
	}
	return NewHandleSet(handles...)
}

// ParseYAMLRoster reads a structured roster:
//
//	core:
//	  - alice
//	  - "@bob"
//	docs:
//	  - carol
func ParseYAMLRoster(data []byte) (*HandleSet, error) {
	var teams map[string][]string
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&teams); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing roster YAML: %w", err)
	}

	var handles []string
	for _, members := range teams {
		handles = append(handles, members...)
	}
	return NewHandleSet(handles...), nil
}

// LoadRoster reads a roster document from path in the given format.
func LoadRoster(path string, format RosterFormat) (*HandleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster file: %w", err)
	}

	switch format {
	case "", RosterHandles:
		return ParseHandles(string(data)), nil
	case RosterYAML:
		return ParseYAMLRoster(data)
	default:
		return nil, fmt.Errorf("invalid roster format %q (expected: handles, yaml)", format)
	}
}
