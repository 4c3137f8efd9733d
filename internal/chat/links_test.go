package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubiquibot/askbot/internal/github"
)

func TestExtractReferences(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantIssues []Reference
		wantPulls  []Reference
	}{
		{
			name:       "bare ref and pull URL",
			body:       "see #12 and https://github.com/o/r/pull/34",
			wantIssues: []Reference{{Kind: github.RefIssue, Number: 12, Bare: true}},
			wantPulls:  []Reference{{Kind: github.RefPullRequest, Number: 34}},
		},
		{
			name:       "issue URL",
			body:       "relates to https://github.com/o/r/issues/7",
			wantIssues: []Reference{{Kind: github.RefIssue, Number: 7}},
		},
		{
			name:       "markdown link",
			body:       "fixed in [this PR](https://github.com/o/r/pull/99)",
			wantPulls:  []Reference{{Kind: github.RefPullRequest, Number: 99}},
		},
		{
			name: "first-seen order preserved",
			body: "#3 then #1 then https://github.com/o/r/issues/2",
			wantIssues: []Reference{
				{Kind: github.RefIssue, Number: 3, Bare: true},
				{Kind: github.RefIssue, Number: 1, Bare: true},
				{Kind: github.RefIssue, Number: 2},
			},
		},
		{
			name:       "repeated references deduplicated",
			body:       "#5 and #5 and https://github.com/o/r/issues/5",
			wantIssues: []Reference{{Kind: github.RefIssue, Number: 5, Bare: true}},
		},
		{
			name:      "case insensitive host",
			body:      "HTTPS://GitHub.com/o/r/pull/11",
			wantPulls: []Reference{{Kind: github.RefPullRequest, Number: 11}},
		},
		{
			name: "no references",
			body: "just some prose about nothing in particular",
		},
		{
			name: "empty body",
			body: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues, pulls := ExtractReferences(tt.body)
			if len(tt.wantIssues) == 0 {
				assert.Empty(t, issues)
			} else {
				require.Equal(t, tt.wantIssues, issues)
			}
			if len(tt.wantPulls) == 0 {
				assert.Empty(t, pulls)
			} else {
				require.Equal(t, tt.wantPulls, pulls)
			}
		})
	}
}

func TestExtractReferencesMarkdownLinkWithBareLabel(t *testing.T) {
	// A markdown link like [#34](…/pull/34) yields both a bare issue ref
	// and a pull ref for the same number; the resolver reconciles them
	// after kind classification.
	issues, pulls := ExtractReferences("[#34](https://github.com/o/r/pull/34)")
	assert.Equal(t, []Reference{{Kind: github.RefIssue, Number: 34, Bare: true}}, issues)
	assert.Equal(t, []Reference{{Kind: github.RefPullRequest, Number: 34}}, pulls)
}
