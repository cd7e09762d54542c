// Package source supplies the change requests that make up a release.
//
// Two collectors are provided: File reads a hand-curated YAML or JSON list,
// and Git walks the repository history since the previous release tag.
// Both return requests in the order they should be considered, oldest
// first; selection of what belongs to a release happens here, never in the
// changelog package.
package source
