package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ariel-frischer/relprep/internal/changelog"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// isInteractive returns true if r is a terminal.
func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// promptResolver asks the operator to pick a category for each record the
// classifier could not place.
type promptResolver struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptResolver(in io.Reader, out io.Writer) *promptResolver {
	return &promptResolver{in: bufio.NewReader(in), out: out}
}

// Resolve prints the numbered category menu until a valid choice is read.
func (p *promptResolver) Resolve(r changelog.Record) (changelog.Category, error) {
	choices := changelog.ResolvableCategories()
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(p.out, "\nCould not classify %s %s\n", bold("#"+r.ID), r.Description)
	for i, c := range choices {
		fmt.Fprintf(p.out, "  %2d) %s\n", i+1, c.Title())
	}

	for {
		fmt.Fprintf(p.out, "%s ", dim(fmt.Sprintf("Category [1-%d]:", len(choices))))
		line, err := p.in.ReadString('\n')
		answer := strings.TrimSpace(line)

		if answer != "" {
			if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(choices) {
				return choices[n-1], nil
			}
			if c, ok := changelog.ParseCategory(answer); ok && c != changelog.Unknown {
				return c, nil
			}
			fmt.Fprintf(p.out, "%q is not a choice\n", answer)
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", fmt.Errorf("no category chosen for %s: input closed", r.ID)
			}
			return "", fmt.Errorf("reading category: %w", err)
		}
	}
}
