package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// spinnerDelay is the frame interval of the animated spinner.
const spinnerDelay = 100 * time.Millisecond

// Spinner shows an animated indicator while a step runs. On a terminal
// without TTY support only the final result line is printed.
type Spinner struct {
	out     io.Writer
	symbols ProgressSymbols
	message string
	spin    *spinner.Spinner
}

// StartSpinner begins a step with the given message.
func StartSpinner(out io.Writer, caps TerminalCapabilities, message string) *Spinner {
	s := &Spinner{
		out:     out,
		symbols: SelectSymbols(caps),
		message: message,
	}
	if caps.IsTTY {
		s.spin = spinner.New(spinner.CharSets[s.symbols.SpinnerSet], spinnerDelay, spinner.WithWriter(out))
		s.spin.Suffix = " " + message
		s.spin.Start()
	}
	return s
}

// Succeed stops the spinner and prints a success line. An empty message
// repeats the step message.
func (s *Spinner) Succeed(message string) {
	s.finish(s.symbols.Checkmark, message)
}

// Fail stops the spinner and prints a failure line.
func (s *Spinner) Fail(message string) {
	s.finish(s.symbols.Failure, message)
}

func (s *Spinner) finish(symbol, message string) {
	if s.spin != nil {
		s.spin.Stop()
		s.spin = nil
	}
	if message == "" {
		message = s.message
	}
	fmt.Fprintf(s.out, "%s %s\n", symbol, message)
}
