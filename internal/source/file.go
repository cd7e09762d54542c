package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ariel-frischer/relprep/internal/changelog"
	"gopkg.in/yaml.v3"
)

// File reads change requests from a YAML or JSON document. JSON input is
// accepted through the YAML decoder. The document is either a list of
// requests or a mapping with a "change_requests" list:
//
//	- id: 42
//	  title: "[FEATURE] add widget"
//	  author: octocat
//	  merged_at: 2024-03-01T12:00:00Z
type File struct {
	Path string
}

type fileDocument struct {
	ChangeRequests []fileRequest `yaml:"change_requests"`
}

type fileRequest struct {
	ID       scalar    `yaml:"id"`
	Title    string    `yaml:"title"`
	Author   string    `yaml:"author"`
	MergedAt timestamp `yaml:"merged_at"`
}

// scalar keeps the literal text of a YAML scalar, so numeric ids decode the
// same as quoted ones.
type scalar string

func (s *scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar id", node.Line)
	}
	*s = scalar(node.Value)
	return nil
}

// timestampLayouts are tried in order for merged_at values.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type timestamp time.Time

func (t *timestamp) UnmarshalYAML(node *yaml.Node) error {
	value := strings.TrimSpace(node.Value)
	if value == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			*t = timestamp(parsed)
			return nil
		}
	}
	return fmt.Errorf("line %d: invalid merged_at %q (expected RFC 3339 or YYYY-MM-DD)", node.Line, value)
}

// ChangeRequests reads the file. The previous version is not used; the file
// is expected to hold exactly the requests for the new release.
func (f *File) ChangeRequests(ctx context.Context, previous string) ([]changelog.ChangeRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading change requests: %w", err)
	}

	requests, err := ParseChangeRequests(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.Path, err)
	}
	return requests, nil
}

// ParseChangeRequests decodes a change-request document.
func ParseChangeRequests(data []byte) ([]changelog.ChangeRequest, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	var raw []fileRequest
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}

	switch doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&raw); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		var wrapped fileDocument
		if err := doc.Decode(&wrapped); err != nil {
			return nil, err
		}
		raw = wrapped.ChangeRequests
	default:
		return nil, fmt.Errorf("expected a list of change requests")
	}

	requests := make([]changelog.ChangeRequest, 0, len(raw))
	for i, r := range raw {
		if r.ID == "" {
			return nil, fmt.Errorf("change request %d: missing id", i+1)
		}
		requests = append(requests, changelog.ChangeRequest{
			ID:       string(r.ID),
			Title:    r.Title,
			Author:   strings.TrimPrefix(strings.TrimSpace(r.Author), "@"),
			MergedAt: time.Time(r.MergedAt),
		})
	}
	return requests, nil
}
