package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// UnchangedNote is printed for categories that can only occur before the
// release files are installed.
const UnchangedNote = "The version file and package changelogs were left unchanged."

// leavesFilesUnchanged reports whether an error of category c is raised
// before the install step. Argument errors get no note; Runtime errors can
// come from the install itself, which reports its rollback in the remediation.
func (c ErrorCategory) leavesFilesUnchanged() bool {
	switch c {
	case Configuration, Precondition, Reference, Extraction:
		return true
	default:
		return false
	}
}

// palette colors the parts of a formatted error.
type palette struct {
	label, message, category, usage, fix, note func(a ...any) string
}

func newPalette(colorize bool) palette {
	if !colorize {
		plain := fmt.Sprint
		return palette{plain, plain, plain, plain, plain, plain}
	}
	return palette{
		label:    color.New(color.FgRed, color.Bold).SprintFunc(),
		message:  color.New(color.FgRed).SprintFunc(),
		category: color.New(color.FgYellow).SprintFunc(),
		usage:    color.New(color.FgCyan).SprintFunc(),
		fix:      color.New(color.FgGreen, color.Bold).SprintFunc(),
		note:     color.New(color.Faint).SprintFunc(),
	}
}

// Format renders err as a block of lines:
//
//	Error [<category>]: <message>
//	<note on the release files, when they are known to be untouched>
//
//	Usage: <usage>
//
//	To fix this:
//	  • <step>
func Format(err *CLIError, colorize bool) string {
	if err == nil {
		return ""
	}
	p := newPalette(colorize)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]: %s\n", p.label("Error"), p.category(err.Category.String()), p.message(err.Message))
	if err.Category.leavesFilesUnchanged() {
		sb.WriteString(p.note(UnchangedNote) + "\n")
	}
	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s\n", p.usage("Usage: "+err.Usage))
	}
	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", p.fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  • %s\n", step)
		}
	}
	return sb.String()
}

// Fprint writes err to w. Plain errors are reported as Runtime errors.
// Colors follow fatih/color's terminal detection.
func Fprint(w io.Writer, err error) {
	if err == nil {
		return
	}
	cliErr := AsCLIError(err)
	if cliErr == nil {
		cliErr = Wrap(err, Runtime)
	}
	fmt.Fprint(w, Format(cliErr, !color.NoColor))
}
