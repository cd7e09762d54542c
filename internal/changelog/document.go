package changelog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Document is a changelog file held in memory as lines.
type Document struct {
	Path    string
	Dialect Dialect
	Lines   []string

	mode fs.FileMode
}

// ReadDocument loads a changelog file. The dialect is taken from the
// extension, so an unsupported file fails before it is read.
func ReadDocument(path string) (*Document, error) {
	dialect, err := DialectForPath(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading changelog %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading changelog %s: %w", path, err)
	}

	return &Document{
		Path:    path,
		Dialect: dialect,
		Lines:   SplitLines(string(data)),
		mode:    info.Mode().Perm(),
	}, nil
}

// Insert splices block above the marker line. On failure the document is
// left untouched and the error names the file and the marker.
func (d *Document) Insert(marker string, block []string) (int, error) {
	lines, at, err := Splice(d.Lines, marker, block)
	if err != nil {
		var anchorErr *AnchorNotFoundError
		if errors.As(err, &anchorErr) {
			anchorErr.Path = d.Path
		}
		return 0, err
	}
	d.Lines = lines
	return at, nil
}

// String returns the full document text.
func (d *Document) String() string {
	return JoinLines(d.Lines)
}

// Write replaces the file on disk with the document text, keeping the
// original permissions.
func (d *Document) Write() error {
	mode := d.mode
	if mode == 0 {
		mode = 0644
	}
	if err := os.WriteFile(d.Path, []byte(d.String()), mode); err != nil {
		return fmt.Errorf("writing changelog %s: %w", d.Path, err)
	}
	return nil
}
