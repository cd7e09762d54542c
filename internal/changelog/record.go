package changelog

import (
	"fmt"
	"time"
)

// ChangeRequest is one merged change request as supplied by a collaborator
// (a pull request listing or a commit log). Selection of which requests
// belong to a release happens before this point.
type ChangeRequest struct {
	// ID references the originating change request (number or hash).
	ID string
	// Title is the raw title, possibly starting with a bracketed tag.
	Title string
	// Author is the author's handle, empty when unknown.
	Author string
	// MergedAt is the merge or completion time.
	MergedAt time.Time
}

// Record is one classified, attributable unit of release content.
type Record struct {
	ID          string
	Category    Category
	Description string
	Timestamp   time.Time
	// Author is the handle taken from the change request.
	Author string
	// AttributedAuthor is the external contributor to credit. Empty means
	// no attribution is shown.
	AttributedAuthor string

	resolved bool
}

// Attribution returns the text appended to the rendered bullet line.
func (r Record) Attribution() string {
	if r.AttributedAuthor == "" {
		return ""
	}
	return fmt.Sprintf(" (thanks @%s)", r.AttributedAuthor)
}

// IsUnknown returns true if the record still needs a category.
func (r Record) IsUnknown() bool {
	return r.Category == Unknown || !r.Category.Valid()
}

// Resolve assigns a category to an unknown record. A record can only move
// out of Unknown once, and never back into it.
func (r *Record) Resolve(c Category) error {
	if r.resolved {
		return fmt.Errorf("record %s already resolved to %s", r.ID, r.Category)
	}
	if !r.IsUnknown() {
		return fmt.Errorf("record %s is already classified as %s", r.ID, r.Category)
	}
	if c == Unknown || !c.Valid() {
		return fmt.Errorf("cannot resolve record %s to %q", r.ID, c)
	}
	r.Category = c
	r.resolved = true
	return nil
}
