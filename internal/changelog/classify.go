package changelog

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

// tagPattern matches a leading bracketed tag such as "[FEATURE] add x".
// Only the first bracket pair is consumed.
var tagPattern = regexp.MustCompile(`^\[([a-zA-Z]+)\] ?(.*)`)

// Mode selects how a title is turned into a category.
type Mode string

const (
	// ModeTag reads a leading bracketed tag and falls back to Maintenance.
	ModeTag Mode = "tag"
	// ModeScan searches the title for a category name and leaves records
	// without one as Unknown for a later resolution step.
	ModeScan Mode = "scan"
)

// ParseMode validates a classification mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeTag:
		return ModeTag, nil
	case ModeScan:
		return ModeScan, nil
	default:
		return "", fmt.Errorf("invalid classification mode %q (expected: tag, scan)", s)
	}
}

// TitleParse is the outcome of reading a bracketed tag from a title.
// Matched is false on the fallback path, where Description is the whole
// original title and Category is Maintenance.
type TitleParse struct {
	Matched     bool
	Tag         string
	Category    Category
	Description string
}

// Recognized returns true if the title carried a tag from the taxonomy.
func (p TitleParse) Recognized() bool {
	if !p.Matched {
		return false
	}
	c, ok := ParseCategory(p.Tag)
	return ok && c != Unknown
}

// ParseTitle reads a leading "[TAG] description" from title.
//
// A well-formed tag that is not a known category name still matches and
// maps to Maintenance. A title without a well-formed tag takes the fallback
// path and keeps the original title, untrimmed, as the description.
func ParseTitle(title string) TitleParse {
	m := tagPattern.FindStringSubmatch(strings.TrimSpace(title))
	if m == nil {
		return TitleParse{
			Category:    Maintenance,
			Description: title,
		}
	}

	tag := strings.ToUpper(m[1])
	category, ok := ParseCategory(tag)
	if !ok || category == Unknown {
		category = Maintenance
	}

	return TitleParse{
		Matched:     true,
		Tag:         tag,
		Category:    category,
		Description: m[2],
	}
}

// Classifier converts raw change requests into records.
type Classifier struct {
	Mode Mode
	// Logger receives a warning for every title that has no bracketed tag.
	// Nil discards diagnostics.
	Logger logrus.FieldLogger
}

// NewClassifier creates a classifier for the given mode.
func NewClassifier(mode Mode, logger logrus.FieldLogger) *Classifier {
	return &Classifier{Mode: mode, Logger: logger}
}

// Classify produces one record from a change request. Attribution is left
// empty; see Attribute.
func (c *Classifier) Classify(cr ChangeRequest) Record {
	parsed := ParseTitle(cr.Title)

	log := c.logger().WithFields(logrus.Fields{
		"id":    cr.ID,
		"title": cr.Title,
	})

	category := parsed.Category
	if c.Mode == ModeScan {
		category = scanCategory(cr.Title)
		if category == Unknown {
			log.Debug("No category name found in change request title")
		}
	} else if !parsed.Matched {
		log.Warn("Couldn't parse change request title, defaulting to MAINTENANCE")
	}

	return Record{
		ID:          cr.ID,
		Category:    category,
		Description: parsed.Description,
		Timestamp:   cr.MergedAt,
		Author:      cr.Author,
	}
}

// ClassifyAll classifies every change request, preserving input order.
func (c *Classifier) ClassifyAll(requests []ChangeRequest) []Record {
	records := make([]Record, 0, len(requests))
	for _, cr := range requests {
		records = append(records, c.Classify(cr))
	}
	return records
}

func (c *Classifier) logger() logrus.FieldLogger {
	if c == nil || c.Logger == nil {
		return discardLogger
	}
	return c.Logger
}

// scanCategory returns the first category, in priority order, whose name
// appears anywhere in the title.
func scanCategory(title string) Category {
	for _, category := range ResolvableCategories() {
		if strings.Contains(title, string(category)) {
			return category
		}
	}
	return Unknown
}

var discardLogger = func() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()
