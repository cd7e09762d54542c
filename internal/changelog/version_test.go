package changelog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckVersionOrder(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		previous  string
		next      string
		wantOrder bool
		wantParse bool
	}{
		"patch bump":               {previous: "1.0.0", next: "1.0.1"},
		"minor bump":               {previous: "1.0.0", next: "1.1.0"},
		"numeric not lexical":      {previous: "1.9.0", next: "1.10.0"},
		"v prefix":                 {previous: "v1.0.0", next: "v1.1.0"},
		"pre-release to final":     {previous: "1.1.0-rc.1", next: "1.1.0"},
		"pre-release ordering":     {previous: "1.1.0-beta.2", next: "1.1.0-rc.1"},
		"downgrade":                {previous: "1.2.0", next: "1.1.0", wantOrder: true},
		"same version":             {previous: "1.2.0", next: "1.2.0", wantOrder: true},
		"final to its pre-release": {previous: "1.1.0", next: "1.1.0-rc.1", wantOrder: true},
		"python alpha":             {previous: "0.18.21", next: "1.0.0a1"},
		"python rc to final":       {previous: "0.15.0rc1", next: "0.15.0"},
		"python dotted rc":         {previous: "0.15.0rc.1", next: "0.15.0rc2"},
		"python phase ordering":    {previous: "1.0.0a2", next: "1.0.0b1"},
		"python dev before alpha":  {previous: "1.0.0.dev1", next: "1.0.0a1"},
		"python two segments":      {previous: "0.14", next: "0.15rc1"},
		"python final to its rc":   {previous: "0.15.0", next: "0.15.0rc1", wantOrder: true},
		"python rc downgrade":      {previous: "1.0.0rc2", next: "1.0.0rc1", wantOrder: true},
		"unknown python phase":     {previous: "1.0.0", next: "1.0.1post1", wantParse: true},
		"unparseable next":         {previous: "1.0.0", next: "next", wantParse: true},
		"unparseable previous":     {previous: "", next: "1.0.0", wantParse: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := CheckVersionOrder(tc.previous, tc.next)
			switch {
			case tc.wantOrder:
				var orderErr *VersionOrderError
				require.True(t, errors.As(err, &orderErr), "got %v", err)
				assert.Equal(t, tc.previous, orderErr.Previous)
				assert.Equal(t, tc.next, orderErr.Next)
			case tc.wantParse:
				var parseErr *VersionParseError
				require.True(t, errors.As(err, &parseErr), "got %v", err)
				assert.NotNil(t, errors.Unwrap(parseErr))
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeVersion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.2.0", NormalizeVersion(" v1.2.0 "))
	assert.Equal(t, "1.2.0", NormalizeVersion("1.2.0"))
	assert.Equal(t, "", NormalizeVersion(""))
}

func TestDialectForPath(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		path    string
		want    Dialect
		wantErr bool
	}{
		"markdown":           {path: "docs/changelog.md", want: Markdown},
		"uppercase markdown": {path: "CHANGELOG.MD", want: Markdown},
		"rst":                {path: "docs_rtd/changelog.rst", want: ReStructuredText},
		"text":               {path: "CHANGES.txt", wantErr: true},
		"no extension":       {path: "CHANGELOG", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := DialectForPath(tc.path)
			if tc.wantErr {
				var dialectErr *DialectError
				require.True(t, errors.As(err, &dialectErr))
				assert.Equal(t, tc.path, dialectErr.Path)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	assert.Equal(t, "markdown", Markdown.String())
	assert.Equal(t, "rst", ReStructuredText.String())
}
