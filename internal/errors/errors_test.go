package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCategory_String(t *testing.T) {
	tests := map[string]struct {
		category ErrorCategory
		want     string
	}{
		"argument":      {category: Argument, want: "Argument Error"},
		"configuration": {category: Configuration, want: "Configuration Error"},
		"precondition":  {category: Precondition, want: "Precondition Error"},
		"reference":     {category: Reference, want: "Reference Error"},
		"extraction":    {category: Extraction, want: "Extraction Error"},
		"runtime":       {category: Runtime, want: "Runtime Error"},
		"unknown":       {category: ErrorCategory(99), want: "Error"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.category.String())
		})
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	sentinel := stderrors.New("boom")
	wrapped := fmt.Errorf("outer: %w", sentinel)

	cliErr := WrapWithMessage(wrapped, Runtime, "installing files")
	require.NotNil(t, cliErr)
	assert.Equal(t, "installing files: outer: boom", cliErr.Error())
	assert.True(t, stderrors.Is(cliErr, sentinel))

	assert.Nil(t, Wrap(nil, Runtime))
	assert.Nil(t, WrapWithMessage(nil, Runtime, "x"))
}

func TestAsCLIError_FindsWrapped(t *testing.T) {
	inner := DirtySubmodule("web")
	err := fmt.Errorf("syncing submodule: %w", inner)

	got := AsCLIError(err)
	require.NotNil(t, got)
	assert.Equal(t, Precondition, got.Category)
	assert.True(t, IsCLIError(err))
	assert.False(t, IsCLIError(stderrors.New("plain")))
}

func TestFormat(t *testing.T) {
	tests := map[string]struct {
		err         *CLIError
		prefix      string
		wantNote    bool
		wantContain []string
	}{
		"argument error shows usage": {
			err:         MissingVersion(),
			prefix:      "Error [Argument Error]: new version is required\n\nUsage: " + Usage + "\n",
			wantContain: []string{"To fix this:\n", "  • Example: bump_version 10.8.0\n"},
		},
		"precondition notes untouched files": {
			err:      DirtySubmodule("web"),
			prefix:   "Error [Precondition Error]: submodule web has uncommitted changes\n" + UnchangedNote + "\n\nTo fix this:\n",
			wantNote: true,
		},
		"extraction notes untouched files": {
			err:      VersionNotFound("package.json", `"version": "(.*)"`),
			prefix:   "Error [Extraction Error]: ",
			wantNote: true,
		},
		"runtime makes no claim about files": {
			err:    Wrap(stderrors.New("rename failed"), Runtime),
			prefix: "Error [Runtime Error]: rename failed\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out := Format(tt.err, false)
			assert.True(t, strings.HasPrefix(out, tt.prefix), out)
			assert.Equal(t, tt.wantNote, strings.Contains(out, UnchangedNote), out)
			for _, want := range tt.wantContain {
				assert.Contains(t, out, want)
			}
		})
	}

	assert.Empty(t, Format(nil, false))
}

func TestFprint_PlainErrorIsRuntime(t *testing.T) {
	var buf bytes.Buffer
	Fprint(&buf, stderrors.New("boom"))
	assert.Contains(t, buf.String(), "[Runtime Error]")
	assert.Contains(t, buf.String(), "boom")

	buf.Reset()
	Fprint(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestMessages_Categories(t *testing.T) {
	tests := map[string]struct {
		err  *CLIError
		want ErrorCategory
	}{
		"invalid version":   {err: InvalidVersion("ten"), want: Argument},
		"dirty submodule":   {err: DirtySubmodule("web"), want: Precondition},
		"invalid branch":    {err: InvalidBranch("nope", "web", stderrors.New("reference not found")), want: Reference},
		"detached head":     {err: DetachedHead(), want: Reference},
		"version not found": {err: VersionNotFound("package.json", `"version"`), want: Extraction},
		"review":            {err: ReviewNotConfirmed("debian/changelog"), want: Precondition},
		"editor":            {err: EditorNotSet(), want: Configuration},
		"config parse":      {err: ConfigParseError(stderrors.New("bad")), want: Configuration},
		"submodule":         {err: SubmoduleNotRegistered("web", stderrors.New("submodule not found")), want: Configuration},
		"malformed merge":   {err: MalformedMerge(stderrors.New("bad header")), want: Extraction},
		"no marker":         {err: NoChangelogMarker("rpm/product.spec", stderrors.New("missing")), want: Extraction},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Category)
			assert.NotEmpty(t, tt.err.Remediation)
		})
	}
}
