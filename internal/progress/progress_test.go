package progress

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectSymbols(t *testing.T) {
	tests := map[string]struct {
		caps TerminalCapabilities
		want ProgressSymbols
	}{
		"unicode": {
			caps: TerminalCapabilities{IsTTY: true, SupportsUnicode: true},
			want: ProgressSymbols{Checkmark: "✓", Failure: "✗", SpinnerSet: 14},
		},
		"ascii": {
			caps: TerminalCapabilities{},
			want: ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectSymbols(tt.caps))
		})
	}
}

func TestDetectTerminalCapabilities_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	caps := DetectTerminalCapabilities(f)
	assert.Equal(t, TerminalCapabilities{}, caps)
}

func TestReporter_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporterWithCaps(&buf, TerminalCapabilities{})

	r.Start("Fetching web")
	r.Done("web is on release-10.8")
	r.Start("Reviewing rpm/product.spec")
	r.Fail("review not confirmed")

	assert.Equal(t, "Fetching web...\n"+
		"[OK] web is on release-10.8\n"+
		"Reviewing rpm/product.spec...\n"+
		"[FAIL] review not confirmed\n", buf.String())
}
