package clopt

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Diagnostic prints map-defect and internal-error messages the way the
// original tool's console output distinguishes them: warnings in yellow,
// errors in red, bolded internal errors. Warnings and verbose messages
// are gated by the -dev level; errors, internal errors and stage banners
// are always printed.
type Diagnostic struct {
	out   io.Writer
	level DevLevel
}

// NewDiagnostic creates a printer writing to out, filtering by level.
func NewDiagnostic(out io.Writer, level DevLevel) *Diagnostic {
	return &Diagnostic{out: out, level: level}
}

// Warning prints a developer-level warning if the configured dev level
// permits it (DevWarning or above).
func (d *Diagnostic) Warning(format string, args ...interface{}) {
	if d.level < DevWarning {
		return
	}
	fmt.Fprintln(d.out, color.YellowString("WARNING: "+format, args...))
}

// Error prints a map-defect error in red. Errors are always shown
// regardless of dev level.
func (d *Diagnostic) Error(format string, args ...interface{}) {
	fmt.Fprintln(d.out, color.RedString("ERROR: "+format, args...))
}

// Internal prints a bolded red internal-error message: these indicate a
// bug in the compiler itself, not a map defect, and are always shown.
func (d *Diagnostic) Internal(format string, args ...interface{}) {
	bold := color.New(color.FgRed, color.Bold)
	fmt.Fprintln(d.out, bold.Sprintf("INTERNAL ERROR: "+format, args...))
}

// Verbose prints a message only at DevVerbose or above.
func (d *Diagnostic) Verbose(format string, args ...interface{}) {
	if d.level < DevVerbose {
		return
	}
	fmt.Fprintln(d.out, color.CyanString(format, args...))
}

// Stage prints a stage-start banner in bold green, matching the
// original's "---- CSG ----" style section headers.
func (d *Diagnostic) Stage(name string) {
	bold := color.New(color.FgGreen, color.Bold)
	fmt.Fprintf(d.out, "%s\n", bold.Sprintf("---- %s ----", name))
}
