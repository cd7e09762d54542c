// Package changelog builds the changelog entry for a release and splices it
// into existing changelog documents.
//
// This package implements:
//   - A fixed, ordered category taxonomy (BREAKING first, UNKNOWN last)
//   - Title classification from a leading "[TAG]" with a MAINTENANCE fallback
//   - Contributor attribution against an internal roster
//   - Stable (category, merge time) ordering of records
//   - Markdown and reStructuredText rendering
//   - Insertion above the previous release's marker line, leaving every
//     other line of the document byte-for-byte unchanged
//
// Nothing here talks to the network or version control; change requests,
// the roster and the version labels are supplied by the caller.
package changelog
