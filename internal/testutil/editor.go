// Package testutil provides test helpers shared by bump_version packages.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"
)

// Environment variables used to turn the test binary into a fake editor.
const (
	// EnvWantHelperProcess signals that the test binary should run as a helper process.
	EnvWantHelperProcess = "GO_WANT_HELPER_PROCESS"
	// EnvHelperProcessConfig contains the JSON-encoded EditorBehavior.
	EnvHelperProcessConfig = "GO_HELPER_PROCESS_CONFIG"
)

// EditorBehavior configures what the fake editor does to the file it is given.
type EditorBehavior struct {
	// ExitCode is the exit code to return (default 0).
	ExitCode int `json:"exit_code"`
	// Stderr is written to stderr before exiting.
	Stderr string `json:"stderr"`
	// DeleteLine removes every line equal to it from the file.
	DeleteLine string `json:"delete_line"`
	// Content replaces the whole file when non-empty.
	Content string `json:"content"`
	// CapturePath receives a copy of the file as the editor saw it.
	CapturePath string `json:"capture_path"`
}

// TestHelperProcess turns the test binary into a fake editor when
// GO_WANT_HELPER_PROCESS=1. The file to edit is the last argument.
//
// Usage in test file:
//
//	func TestHelperProcess(t *testing.T) {
//	    testutil.TestHelperProcess(t)
//	}
func TestHelperProcess(t *testing.T) {
	if os.Getenv(EnvWantHelperProcess) != "1" {
		return
	}

	behavior := EditorBehavior{}
	if raw := os.Getenv(EnvHelperProcessConfig); raw != "" {
		// Ignore parse errors; use defaults on failure
		_ = json.Unmarshal([]byte(raw), &behavior)
	}
	os.Exit(runEditor(behavior, os.Args[len(os.Args)-1]))
}

func runEditor(b EditorBehavior, path string) int {
	if b.Stderr != "" {
		fmt.Fprint(os.Stderr, b.Stderr)
	}
	if b.ExitCode != 0 {
		return b.ExitCode
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 3
	}
	if b.CapturePath != "" {
		if err := os.WriteFile(b.CapturePath, data, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 3
		}
	}

	content := string(data)
	if b.DeleteLine != "" {
		content = deleteLine(content, b.DeleteLine)
	}
	if b.Content != "" {
		content = b.Content
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 3
	}
	return 0
}

func deleteLine(content, target string) string {
	var sb strings.Builder
	for _, line := range strings.SplitAfter(content, "\n") {
		if strings.TrimRight(line, "\r\n") == target {
			continue
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// EditorCommand returns an editor command line that runs the test binary as
// the fake editor described by b. testName is the test function that calls
// TestHelperProcess. The helper environment is set for the rest of the test.
func EditorCommand(t *testing.T, testName string, b EditorBehavior) string {
	t.Helper()

	testBinary, err := os.Executable()
	if err != nil {
		t.Fatalf("failed to get test binary path: %v", err)
	}
	raw, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("encoding editor behavior: %v", err)
	}

	t.Setenv(EnvWantHelperProcess, "1")
	t.Setenv(EnvHelperProcessConfig, string(raw))

	return fmt.Sprintf("'%s' -test.run=^%s$ --", testBinary, testName)
}
