package chat

import (
	"strings"

	"github.com/ubiquibot/askbot/internal/github"
)

// AnswerMarker is the sentinel appended to every bot-generated answer.
// It is how the pipeline recognizes its own prior answers as
// human-equivalent context on later invocations.
const AnswerMarker = "<!--- { 'UbiquityAI': 'answer' } --->"

// StreamlinedComment is the only comment shape the model-facing layers
// ever see.
type StreamlinedComment struct {
	Login string `json:"login,omitempty"`
	Body  string `json:"body,omitempty"`
}

// IsBotAnswer reports whether a raw comment body carries the answer
// marker, i.e. was produced by the bot itself.
func IsBotAnswer(body string) bool {
	return strings.Contains(body, AnswerMarker)
}

// Streamline filters a comment thread down to login/body pairs. A comment
// is kept when it was written by a human, or when it is one of the bot's
// own tagged answers. The marker check runs against the raw body; the
// projected body is the raw markdown as well. Input order is preserved.
func Streamline(comments []github.Comment) []StreamlinedComment {
	out := make([]StreamlinedComment, 0, len(comments))
	for _, c := range comments {
		if c.Author.Kind == github.AuthorUser || IsBotAnswer(c.Body) {
			out = append(out, StreamlinedComment{Login: c.Author.Login, Body: c.Body})
		}
	}
	return out
}
