package changelog

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnresolved is returned when an entry still holds Unknown records at a
// point where every record must have a category.
var ErrUnresolved = errors.New("changelog entry has unclassified records")

// Resolver picks a category for a record the classifier could not place.
type Resolver interface {
	Resolve(r Record) (Category, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(r Record) (Category, error)

// Resolve calls f(r).
func (f ResolverFunc) Resolve(r Record) (Category, error) {
	return f(r)
}

// DefaultResolver resolves every unknown record to Maintenance.
var DefaultResolver Resolver = ResolverFunc(func(Record) (Category, error) {
	return Maintenance, nil
})

// Entry is the ordered set of records for one release.
type Entry struct {
	Records []Record
}

// NewEntry builds an entry from records and sorts it. The input slice is
// copied.
func NewEntry(records []Record) *Entry {
	e := &Entry{Records: make([]Record, len(records))}
	copy(e.Records, records)
	e.Sort()
	return e
}

// Sort orders records by category priority, then by timestamp (earliest
// first). Records with equal keys keep their relative order.
func (e *Entry) Sort() {
	sort.SliceStable(e.Records, func(i, j int) bool {
		a, b := e.Records[i], e.Records[j]
		if pa, pb := a.Category.Priority(), b.Category.Priority(); pa != pb {
			return pa < pb
		}
		return a.Timestamp.Before(b.Timestamp)
	})
}

// Len returns the number of records.
func (e *Entry) Len() int {
	return len(e.Records)
}

// Unknowns returns the number of records still waiting for a category.
func (e *Entry) Unknowns() int {
	n := 0
	for _, r := range e.Records {
		if r.IsUnknown() {
			n++
		}
	}
	return n
}

// ResolveUnknowns asks resolver for a category for every unknown record,
// then re-sorts the entry. A nil resolver uses DefaultResolver.
func (e *Entry) ResolveUnknowns(resolver Resolver) error {
	if resolver == nil {
		resolver = DefaultResolver
	}

	for i := range e.Records {
		if !e.Records[i].IsUnknown() {
			continue
		}
		category, err := resolver.Resolve(e.Records[i])
		if err != nil {
			return fmt.Errorf("resolving record %s: %w", e.Records[i].ID, err)
		}
		if err := e.Records[i].Resolve(category); err != nil {
			return err
		}
	}

	e.Sort()
	return nil
}

// Validate checks that no record is left Unknown.
func (e *Entry) Validate() error {
	if n := e.Unknowns(); n > 0 {
		return fmt.Errorf("%w: %d record(s)", ErrUnresolved, n)
	}
	return nil
}

// ByCategory returns the records grouped by category, in taxonomy order.
// Categories without records are omitted.
func (e *Entry) ByCategory() []CategoryGroup {
	var groups []CategoryGroup
	for _, c := range categories {
		var records []Record
		for _, r := range e.Records {
			if r.Category == c {
				records = append(records, r)
			}
		}
		if len(records) > 0 {
			groups = append(groups, CategoryGroup{Category: c, Records: records})
		}
	}
	return groups
}

// CategoryGroup holds the records of one category.
type CategoryGroup struct {
	Category Category
	Records  []Record
}
