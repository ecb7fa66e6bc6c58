// Package review implements the human checkpoint before changelog files are
// installed. A reviewer receives the proposed file content, may edit it, and
// confirms by deleting the instruction line.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// InstructionLine is inserted above every generated entry. The reviewed
// content is only accepted once this line is gone.
const InstructionLine = "# bump_version: check the entry below, then delete this line to confirm it"

// ErrReviewNotConfirmed is returned when the instruction line survives review.
var ErrReviewNotConfirmed = errors.New("review not confirmed: instruction line still present")

// Reviewer lets a human (or an automated stand-in) inspect and edit content.
// name is the target file path; implementations use it for display and
// lookup only.
type Reviewer interface {
	Review(ctx context.Context, name, content string) (string, error)
}

// WithInstruction prefixes block with the instruction line.
func WithInstruction(block string) string {
	return InstructionLine + "\n" + block
}

// Confirm checks that reviewed content no longer carries the instruction line.
func Confirm(reviewed string) error {
	for _, line := range strings.Split(reviewed, "\n") {
		if strings.TrimSpace(line) == InstructionLine {
			return ErrReviewNotConfirmed
		}
	}
	return nil
}

// Gate runs the reviewer and confirms the result.
func Gate(ctx context.Context, r Reviewer, name, content string) (string, error) {
	reviewed, err := r.Review(ctx, name, content)
	if err != nil {
		return "", fmt.Errorf("reviewing %s: %w", name, err)
	}
	if err := Confirm(reviewed); err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return reviewed, nil
}

// StripInstruction removes every instruction line from content.
func StripInstruction(content string) string {
	lines := strings.SplitAfter(content, "\n")
	var sb strings.Builder
	sb.Grow(len(content))
	for _, line := range lines {
		if strings.TrimSpace(line) == InstructionLine {
			continue
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// AutoApprove accepts the proposed content unchanged apart from the
// instruction line. Used by --yes.
type AutoApprove struct{}

func (AutoApprove) Review(_ context.Context, _, content string) (string, error) {
	return StripInstruction(content), nil
}

// Static returns prepared content per file name, as if a reviewer had typed it.
type Static map[string]string

func (s Static) Review(_ context.Context, name, _ string) (string, error) {
	content, ok := s[name]
	if !ok {
		return "", fmt.Errorf("no reviewed content for %s", name)
	}
	return content, nil
}
