package git

import (
	"regexp"
	"strings"
)

// noreplyPattern matches GitHub's private commit e-mail addresses, with or
// without the numeric user id prefix.
var noreplyPattern = regexp.MustCompile(`(?i)^(?:\d+\+)?([a-z0-9-]+)@users\.noreply\.github\.com$`)

// Handle derives a hosted-repository login for a commit author. The login in
// a noreply address is exact; otherwise the author name is used as-is.
func Handle(name, email string) string {
	if m := noreplyPattern.FindStringSubmatch(strings.TrimSpace(email)); m != nil {
		return m[1]
	}
	return strings.TrimSpace(name)
}
