package review

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/bumpversion/internal/testutil"
)

func TestHelperProcess(t *testing.T) {
	testutil.TestHelperProcess(t)
}

func TestConfirm(t *testing.T) {
	tests := map[string]struct {
		content string
		wantErr bool
	}{
		"instruction removed":  {content: "pkg (1.1-1) unstable; urgency=medium\n"},
		"instruction present":  {content: WithInstruction("pkg (1.1-1)\n"), wantErr: true},
		"instruction indented": {content: "  " + InstructionLine + "  \nbody\n", wantErr: true},
		"instruction edited":   {content: InstructionLine + " ok\nbody\n"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := Confirm(tt.content)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrReviewNotConfirmed)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAutoApprove(t *testing.T) {
	got, err := AutoApprove{}.Review(context.Background(), "debian/changelog", WithInstruction("entry\n")+"old\n")
	require.NoError(t, err)
	assert.Equal(t, "entry\nold\n", got)
	assert.NoError(t, Confirm(got))
}

func TestStatic(t *testing.T) {
	s := Static{"rpm/product.spec": "reviewed\n"}

	got, err := s.Review(context.Background(), "rpm/product.spec", "ignored")
	require.NoError(t, err)
	assert.Equal(t, "reviewed\n", got)

	_, err = s.Review(context.Background(), "debian/changelog", "ignored")
	assert.Error(t, err)
}

func TestGate(t *testing.T) {
	ctx := context.Background()

	_, err := Gate(ctx, Static{"f": WithInstruction("x\n")}, "f", "")
	assert.ErrorIs(t, err, ErrReviewNotConfirmed)

	got, err := Gate(ctx, AutoApprove{}, "f", WithInstruction("x\n"))
	require.NoError(t, err)
	assert.Equal(t, "x\n", got)

	_, err = Gate(ctx, failingReviewer{}, "f", "x")
	assert.ErrorContains(t, err, "reviewing f")
}

type failingReviewer struct{}

func (failingReviewer) Review(context.Context, string, string) (string, error) {
	return "", errors.New("boom")
}

func TestResolveEditor(t *testing.T) {
	tests := map[string]struct {
		configured string
		visual     string
		editor     string
		want       string
		wantErr    bool
	}{
		"config wins":          {configured: "nano", visual: "code --wait", editor: "vi", want: "nano"},
		"visual before editor": {visual: "code --wait", editor: "vi", want: "code --wait"},
		"editor fallback":      {editor: "vi", want: "vi"},
		"nothing set":          {wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("VISUAL", tt.visual)
			t.Setenv("EDITOR", tt.editor)

			got, err := ResolveEditor(tt.configured)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrEditorNotSet)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewEditorReviewer_SplitsCommand(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", `code --wait --reuse-window "my profile"`)

	r, err := NewEditorReviewer("")
	require.NoError(t, err)
	assert.Equal(t, []string{"code", "--wait", "--reuse-window", "my profile"}, r.Command())

	_, err = NewEditorReviewer(`vim "unterminated`)
	assert.Error(t, err)
}

func newTestEditor(t *testing.T, b testutil.EditorBehavior) *EditorReviewer {
	t.Helper()
	r, err := NewEditorReviewer(testutil.EditorCommand(t, "TestHelperProcess", b))
	require.NoError(t, err)
	r.Stdin = nil
	r.Stdout = nil
	r.Stderr = nil
	return r
}

// reviewDirs lists leftover review directories in the temp dir.
func reviewDirs(t *testing.T) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "bumpversion-review-*"))
	require.NoError(t, err)
	return matches
}

func TestEditorReviewer_Confirmed(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)
	capture := filepath.Join(tmp, "seen")

	r := newTestEditor(t, testutil.EditorBehavior{DeleteLine: InstructionLine, CapturePath: capture})
	proposed := WithInstruction("pkg (1.1-1) unstable; urgency=medium\n")

	got, err := Gate(context.Background(), r, "debian/changelog", proposed)
	require.NoError(t, err)
	assert.Equal(t, "pkg (1.1-1) unstable; urgency=medium\n", got)

	seen, err := os.ReadFile(capture)
	require.NoError(t, err)
	assert.Equal(t, proposed, string(seen))
	assert.Empty(t, reviewDirs(t))
}

func TestEditorReviewer_NotConfirmed(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	r := newTestEditor(t, testutil.EditorBehavior{})
	_, err := Gate(context.Background(), r, "rpm/product.spec", WithInstruction("%changelog\n"))
	assert.ErrorIs(t, err, ErrReviewNotConfirmed)
	assert.Empty(t, reviewDirs(t))
}

func TestEditorReviewer_EditorFails(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	r := newTestEditor(t, testutil.EditorBehavior{ExitCode: 1, Stderr: "aborted"})
	_, err := r.Review(context.Background(), "debian/changelog", "x")
	assert.ErrorContains(t, err, "exited")
	assert.Empty(t, reviewDirs(t))
}
