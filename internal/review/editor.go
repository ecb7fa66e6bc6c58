package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/shlex"

	"github.com/ariel-frischer/bumpversion/internal/logger"
)

// ErrEditorNotSet is returned when neither the config nor the environment
// names an editor.
var ErrEditorNotSet = errors.New("no editor configured: set editor in config, $VISUAL or $EDITOR")

// ResolveEditor returns the editor command: configured first, then $VISUAL,
// then $EDITOR.
func ResolveEditor(configured string) (string, error) {
	for _, candidate := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if candidate != "" {
			return candidate, nil
		}
	}
	return "", ErrEditorNotSet
}

// EditorReviewer opens content in the user's editor and waits for it to exit.
// There is no timeout: the run blocks until the reviewer is done.
type EditorReviewer struct {
	command []string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewEditorReviewer resolves and parses the editor command. Commands with
// arguments such as "code --wait" are split like a shell would.
func NewEditorReviewer(configured string) (*EditorReviewer, error) {
	editor, err := ResolveEditor(configured)
	if err != nil {
		return nil, err
	}
	parts, err := shlex.Split(editor)
	if err != nil {
		return nil, fmt.Errorf("parsing editor command %q: %w", editor, err)
	}
	if len(parts) == 0 {
		return nil, ErrEditorNotSet
	}
	return &EditorReviewer{
		command: parts,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}, nil
}

// Command returns the parsed editor command.
func (e *EditorReviewer) Command() []string {
	return append([]string(nil), e.command...)
}

// Review writes content to a temp file named after the target, runs the
// editor on it and returns the saved text. The temp directory is removed on
// every path.
func (e *EditorReviewer) Review(ctx context.Context, name, content string) (string, error) {
	dir, err := os.MkdirTemp("", "bumpversion-review-*")
	if err != nil {
		return "", fmt.Errorf("creating review directory: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("writing review file: %w", err)
	}

	args := append(e.Command()[1:], path)
	cmd := exec.CommandContext(ctx, e.command[0], args...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	logger.Debug().Strs("command", cmd.Args).Str("target", name).Msg("opening editor for review")
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor %s exited: %w", e.command[0], err)
	}

	reviewed, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading review file: %w", err)
	}
	return string(reviewed), nil
}
