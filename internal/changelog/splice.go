package changelog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyMarker is returned when splicing is attempted without a marker.
var ErrEmptyMarker = errors.New("insertion marker is empty")

// AnchorNotFoundError is returned when the previous-version marker does not
// appear anywhere in a target document.
type AnchorNotFoundError struct {
	Path   string
	Marker string
}

func (e *AnchorNotFoundError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("could not find insertion point: no line contains %q", e.Marker)
	}
	return fmt.Sprintf("could not find insertion point in %s: no line contains %q", e.Path, e.Marker)
}

// SplitLines splits text into lines, each keeping its "\n" terminator.
// A final line without a terminator is kept as-is, so JoinLines(SplitLines(s))
// is always s.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// JoinLines concatenates lines produced by SplitLines or Render.
func JoinLines(lines []string) string {
	return strings.Join(lines, "")
}

// FindAnchor returns the index of the first line containing marker, or -1.
func FindAnchor(lines []string, marker string) int {
	if marker == "" {
		return -1
	}
	for i, line := range lines {
		if strings.Contains(line, marker) {
			return i
		}
	}
	return -1
}

// Splice inserts block one line above the first line containing marker,
// keeping the blank separator that precedes each version header in place.
// It returns a new slice and the insertion index; lines is not modified.
// When the marker is on the first line the block goes at the very top.
func Splice(lines []string, marker string, block []string) ([]string, int, error) {
	if marker == "" {
		return nil, 0, ErrEmptyMarker
	}

	anchor := FindAnchor(lines, marker)
	if anchor < 0 {
		return nil, 0, &AnchorNotFoundError{Marker: marker}
	}

	at := anchor - 1
	if at < 0 {
		at = 0
	}

	out := make([]string, 0, len(lines)+len(block))
	out = append(out, lines[:at]...)
	out = append(out, block...)
	out = append(out, lines[at:]...)
	return out, at, nil
}
