package changelog

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// RenderOptions controls how a release block is rendered.
type RenderOptions struct {
	// PullRequestURL, when set, turns each reference into a link of the form
	// "([#<id>](<url>/<id>))".
	PullRequestURL string
	// GroupByCategory adds a subsection per category. The default flat form
	// distinguishes categories only by the inline tag.
	GroupByCategory bool
	// UnderlineWidth is the minimum length of the structured-text underline.
	// The underline is never shorter than the version label.
	UnderlineWidth int
}

// Render produces the text block for one release in the given dialect.
// Every returned line ends in "\n"; the first line is blank.
func Render(d Dialect, version string, e *Entry, opts RenderOptions) ([]string, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	var lines []string
	switch d {
	case Markdown:
		lines = append(lines, "\n", fmt.Sprintf("### %s\n", version))
	case ReStructuredText:
		lines = append(lines, "\n", version+"\n", underline('-', version, opts.UnderlineWidth))
	default:
		return nil, fmt.Errorf("unsupported dialect %v", d)
	}

	if !opts.GroupByCategory {
		for _, r := range e.Records {
			lines = append(lines, FormatRecord(r, opts)+"\n")
		}
		return lines, nil
	}

	for _, group := range e.ByCategory() {
		title := group.Category.Title()
		switch d {
		case Markdown:
			lines = append(lines, "\n", fmt.Sprintf("#### %s\n", title), "\n")
		case ReStructuredText:
			lines = append(lines, "\n", title+"\n", underline('~', title, 0), "\n")
		}
		for _, r := range group.Records {
			lines = append(lines, FormatRecord(r, opts)+"\n")
		}
	}
	return lines, nil
}

// FormatRecord renders one bullet line without the trailing newline:
// "* [<CATEGORY>] <description> (#<id>)<attribution>".
func FormatRecord(r Record, opts RenderOptions) string {
	return fmt.Sprintf("* [%s] %s %s%s", r.Category, singleLine(r.Description), reference(r.ID, opts), r.Attribution())
}

// WriteLines writes rendered lines to w as-is.
func WriteLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

func reference(id string, opts RenderOptions) string {
	if opts.PullRequestURL == "" {
		return fmt.Sprintf("(#%s)", id)
	}
	base := strings.TrimRight(opts.PullRequestURL, "/")
	return fmt.Sprintf("([#%s](%s/%s))", id, base, id)
}

// underline returns a run of ch at least as wide as label, and at least
// minWidth, terminated by "\n".
func underline(ch rune, label string, minWidth int) string {
	width := utf8.RuneCountInString(label)
	if minWidth > width {
		width = minWidth
	}
	return strings.Repeat(string(ch), width) + "\n"
}

// singleLine keeps a description on one bullet line.
func singleLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Join(strings.Fields(s), " ")
}
