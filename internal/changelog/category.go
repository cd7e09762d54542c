package changelog

import "strings"

// Category classifies the nature of a change request.
type Category string

const (
	Breaking    Category = "BREAKING"
	Feature     Category = "FEATURE"
	Bugfix      Category = "BUGFIX"
	Docs        Category = "DOCS"
	Maintenance Category = "MAINTENANCE"
	Contrib     Category = "CONTRIB"
	Unknown     Category = "UNKNOWN"
)

// categories is the closed taxonomy. Its order is the sort priority and the
// display order. Unknown must stay last.
var categories = []Category{
	Breaking,
	Feature,
	Bugfix,
	Docs,
	Maintenance,
	Contrib,
	Unknown,
}

// categoryTitles are the section names used by grouped rendering.
var categoryTitles = map[Category]string{
	Breaking:    "Breaking Changes",
	Feature:     "Features",
	Bugfix:      "Bug Fixes",
	Docs:        "Documentation",
	Maintenance: "Maintenance",
	Contrib:     "Contributions",
	Unknown:     "Unclassified",
}

// Categories returns every category in priority order, Unknown last.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ResolvableCategories returns the categories an unknown record may be
// resolved to, in priority order.
func ResolvableCategories() []Category {
	return Categories()[:len(categories)-1]
}

// ParseCategory looks up a category by name, ignoring case.
// Returns false if the name is not part of the taxonomy.
func ParseCategory(name string) (Category, bool) {
	upper := Category(strings.ToUpper(strings.TrimSpace(name)))
	for _, c := range categories {
		if c == upper {
			return c, true
		}
	}
	return "", false
}

// Priority returns the category's index in the taxonomy. Anything outside
// the taxonomy shares Unknown's priority so it still sorts last.
func (c Category) Priority() int {
	for i, known := range categories {
		if known == c {
			return i
		}
	}
	return len(categories) - 1
}

// Valid returns true if c is a member of the taxonomy.
func (c Category) Valid() bool {
	for _, known := range categories {
		if known == c {
			return true
		}
	}
	return false
}

// Title returns the human-readable section name for the category.
func (c Category) Title() string {
	if t, ok := categoryTitles[c]; ok {
		return t
	}
	return string(c)
}

func (c Category) String() string {
	return string(c)
}
