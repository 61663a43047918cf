// Package printer writes coloured status lines for the courierform command.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/goliatone/go-courierform/pkg/orchestrator"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// Printer writes to an output and an error stream.
type Printer struct {
	out io.Writer
	err io.Writer
}

// New returns a Printer. Nil writers default to stdout and stderr.
func New(out, errOut io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Printer{out: out, err: errOut}
}

// Success prints a green line with a checkmark prefix.
func (p *Printer) Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		msg = "✓ " + msg
	}
	green.Fprintln(p.out, msg)
}

// Info prints an uncoloured line.
func (p *Printer) Info(format string, a ...any) {
	fmt.Fprintf(p.out, format+"\n", a...)
}

// Warning prints a yellow line to the error stream.
func (p *Printer) Warning(format string, a ...any) {
	yellow.Fprintf(p.err, "! %s\n", fmt.Sprintf(format, a...))
}

// Step prints a cyan progress line.
func (p *Printer) Step(format string, a ...any) {
	cyan.Fprintf(p.out, "→ %s\n", fmt.Sprintf(format, a...))
}

// Error prints a title in red with an explanation and suggestions, and
// returns an error carrying the title.
func (p *Printer) Error(title, explanation string, suggestions []string) error {
	red.Fprintf(p.err, "%s\n", title)
	if explanation != "" {
		fmt.Fprintf(p.err, "\n%s\n", explanation)
	}
	switch len(suggestions) {
	case 0:
	case 1:
		fmt.Fprintf(p.err, "\n%s\n", suggestions[0])
	default:
		fmt.Fprintf(p.err, "\nEither:\n")
		for i, suggestion := range suggestions {
			fmt.Fprintf(p.err, "  %d. %s\n", i+1, suggestion)
		}
	}
	return fmt.Errorf("%s", title)
}

// Indicators prints one line per section status.
func (p *Printer) Indicators(indicators []orchestrator.SectionIndicator) {
	for _, ind := range indicators {
		switch ind.State {
		case orchestrator.IndicatorComplete:
			green.Fprintf(p.out, "  ✓ %s\n", ind.Title)
		case orchestrator.IndicatorInvalid:
			red.Fprintf(p.out, "  ✗ %s\n", ind.Title)
		default:
			yellow.Fprintf(p.out, "  … %s\n", ind.Title)
		}
	}
}

// Readiness prints the submit summary.
func (p *Printer) Readiness(r orchestrator.Readiness) {
	if r.CanSubmit {
		p.Success("Order is ready to submit")
		return
	}
	var missing []string
	if !r.Fill.IsAllFilled {
		missing = append(missing, "some fields are empty")
	}
	if !r.Valid.IsAllValid {
		missing = append(missing, "some fields are invalid")
	}
	if !r.AgreementChecked {
		missing = append(missing, "terms not accepted")
	}
	p.Warning("Order cannot be submitted yet: %s", strings.Join(missing, ", "))
}
