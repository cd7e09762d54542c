package changelog

import "fmt"

// Attribution returns the credit text for author: empty if the author is
// anonymous or on the internal roster, otherwise " (thanks @<author>)".
// A nil roster treats every author as external.
func Attribution(author string, roster Roster) string {
	if attributedAuthor(author, roster) == "" {
		return ""
	}
	return fmt.Sprintf(" (thanks @%s)", author)
}

// Attribute sets AttributedAuthor on every record from its Author.
func Attribute(records []Record, roster Roster) {
	for i := range records {
		records[i].AttributedAuthor = attributedAuthor(records[i].Author, roster)
	}
}

func attributedAuthor(author string, roster Roster) string {
	if author == "" {
		return ""
	}
	if roster != nil && roster.Contains(author) {
		return ""
	}
	return author
}
