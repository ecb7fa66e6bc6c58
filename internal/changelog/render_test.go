package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	sections := []Section{
		{Repo: "product", Entries: []Entry{
			{ID: "#100", Number: 100, Description: "Fix crash on startup"},
			{ID: "#120", Number: 120, Description: "Add export"},
		}},
		{Repo: "web", Entries: []Entry{
			{ID: "#7", Number: 7, Description: "New dashboard"},
		}},
	}

	tests := map[string]struct {
		target Target
		want   string
	}{
		"github": {
			target: GitHub,
			want: "### product\n" +
				"* #100: Fix crash on startup\n" +
				"* #120: Add export\n" +
				"\n" +
				"### web\n" +
				"* #7: New dashboard\n",
		},
		"debian": {
			target: Debian,
			want: "  [ product ]\n" +
				"  * PR100 Fix crash on startup\n" +
				"  * PR120 Add export\n" +
				"  [ web ]\n" +
				"  * PR7 New dashboard\n",
		},
		"yum": {
			target: Yum,
			want: "- PR100 Fix crash on startup\n" +
				"- PR120 Add export\n" +
				"- PR7 New dashboard\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.target, sections))
		})
	}
}

func TestRender_EmptySectionsContributeNothing(t *testing.T) {
	sections := []Section{
		{Repo: "product"},
		{Repo: "web", Entries: []Entry{{ID: "#1", Number: 1, Description: "One"}}},
		{Repo: "other", Entries: []Entry{}},
	}

	frags := RenderAll(sections)
	assert.Equal(t, "### web\n* #1: One\n", frags.GitHub)
	assert.Equal(t, "  [ web ]\n  * PR1 One\n", frags.Debian)
	assert.Equal(t, "- PR1 One\n", frags.Yum)

	empty := RenderAll([]Section{{Repo: "product"}, {Repo: "web"}})
	assert.Equal(t, Fragments{}, empty)
}

func TestRender_PackageRefKeepsIdentifier(t *testing.T) {
	sections := []Section{{Repo: "web", Entries: []Entry{
		{ID: "#007", Number: 7, Description: "Padded identifier"},
	}}}

	frags := RenderAll(sections)
	assert.Equal(t, "### web\n* #007: Padded identifier\n", frags.GitHub)
	assert.Equal(t, "  [ web ]\n  * PR007 Padded identifier\n", frags.Debian)
	assert.Equal(t, "- PR007 Padded identifier\n", frags.Yum)
}

func TestTargetString(t *testing.T) {
	assert.Equal(t, "github", GitHub.String())
	assert.Equal(t, "debian", Debian.String())
	assert.Equal(t, "yum", Yum.String())
	assert.Equal(t, "unknown", Target(9).String())
}
