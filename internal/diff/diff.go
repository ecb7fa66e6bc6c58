// Package diff renders unified diffs of proposed file changes for --dry-run.
package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// Options are options for the diff. The zero-value is valid.
// Use a negative number for the context if you really want 0 context lines.
type Options struct {
	LeftName  string // name of left side
	RightName string // name of right side
	Context   int    // number of context lines in the diff, defaults to 3
	Colorize  bool   // color added and removed lines
}

var (
	addColor    = color.New(color.FgGreen)
	removeColor = color.New(color.FgRed)
)

// Strings diffs left and right. An empty string means no differences.
func Strings(left, right string, opts Options) (string, error) {
	if opts.Context == 0 {
		opts.Context = 3
	}
	if opts.Context < 0 {
		opts.Context = 0
	}
	ud := difflib.UnifiedDiff{
		A:        splitLines(left),
		B:        splitLines(right),
		FromFile: opts.LeftName,
		ToFile:   opts.RightName,
		Context:  opts.Context,
	}
	s, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("diff error: %w", err)
	}
	if !opts.Colorize || s == "" {
		return s, nil
	}

	var sb strings.Builder
	for _, l := range splitLines(s) {
		switch {
		case strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"):
			sb.WriteString(l)
		case strings.HasPrefix(l, "-"):
			sb.WriteString(removeColor.Sprint(strings.TrimSuffix(l, "\n")) + "\n")
		case strings.HasPrefix(l, "+"):
			sb.WriteString(addColor.Sprint(strings.TrimSuffix(l, "\n")) + "\n")
		default:
			sb.WriteString(l)
		}
	}
	return sb.String(), nil
}

// splitLines splits s after each newline. Unlike difflib.SplitLines it adds
// no empty element for newline-terminated input; a last line without a
// newline gets one.
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	} else {
		lines[len(lines)-1] += "\n"
	}
	return lines
}

// File writes the diff of one file's current and proposed content to w,
// labelled a/<path> and b/<path> like git. Nothing is written when they match.
func File(w io.Writer, path, current, proposed string, colorize bool) error {
	d, err := Strings(current, proposed, Options{
		LeftName:  "a/" + path,
		RightName: "b/" + path,
		Colorize:  colorize,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	_, err = io.WriteString(w, d)
	return err
}
