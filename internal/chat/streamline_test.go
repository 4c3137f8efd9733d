package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ubiquibot/askbot/internal/github"
)

func TestStreamline(t *testing.T) {
	comments := []github.Comment{
		{ID: 1, Author: github.Author{Login: "alice", Kind: github.AuthorUser}, Body: "human comment"},
		{ID: 2, Author: github.Author{Login: "some-bot", Kind: github.AuthorBot}, Body: "bot noise"},
		{ID: 3, Author: github.Author{Login: "ubiquity-bot", Kind: github.AuthorBot}, Body: "a prior answer\n\n " + AnswerMarker + " "},
		{ID: 4, Author: github.Author{Login: "bob", Kind: github.AuthorUser}, Body: "another human comment"},
		{ID: 5, Author: github.Author{Login: "acme", Kind: github.AuthorOrganization}, Body: "org comment"},
	}

	got := Streamline(comments)

	assert.Equal(t, []StreamlinedComment{
		{Login: "alice", Body: "human comment"},
		{Login: "ubiquity-bot", Body: "a prior answer\n\n " + AnswerMarker + " "},
		{Login: "bob", Body: "another human comment"},
	}, got)
}

func TestStreamlineKeepsBotAnswerOnlyWithMarker(t *testing.T) {
	tests := []struct {
		name string
		body string
		kept bool
	}{
		{"bot with marker", "answer " + AnswerMarker, true},
		{"bot without marker", "unsolicited bot chatter", false},
		{"bot with similar but wrong tag", "<!--- { 'OtherBot': 'answer' } --->", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Streamline([]github.Comment{
				{Author: github.Author{Login: "bot", Kind: github.AuthorBot}, Body: tt.body},
			})
			if tt.kept {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestStreamlineEmptyInput(t *testing.T) {
	assert.Empty(t, Streamline(nil))
}

func TestIsBotAnswer(t *testing.T) {
	assert.True(t, IsBotAnswer("text\n\n "+AnswerMarker+" "))
	assert.False(t, IsBotAnswer("text without the marker"))
}
