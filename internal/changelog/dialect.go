package changelog

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Dialect is a supported changelog document format.
type Dialect int

const (
	// Markdown uses "### <version>" section headers.
	Markdown Dialect = iota
	// ReStructuredText uses a bare version line with a dash underline.
	ReStructuredText
)

func (d Dialect) String() string {
	switch d {
	case Markdown:
		return "markdown"
	case ReStructuredText:
		return "rst"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// DialectError is returned for a target file whose extension matches no
// supported dialect.
type DialectError struct {
	Path string
}

func (e *DialectError) Error() string {
	return fmt.Sprintf("unsupported changelog file type %q (expected .md or .rst)", e.Path)
}

// DialectForPath selects the dialect from the file extension.
func DialectForPath(path string) (Dialect, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		return Markdown, nil
	case ".rst":
		return ReStructuredText, nil
	default:
		return 0, &DialectError{Path: path}
	}
}
