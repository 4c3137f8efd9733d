package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ubiquibot/askbot/internal/llm"
)

// contextTemplate instructs the model on the exact triage output
// contract: per-source relevance groupings in pure JSON, primed with a
// worked two-entry example.
const contextTemplate = `
You are the UbiquityAI, designed to review and analyze pull requests.
You have been provided with the spec of the issue and all linked issues or pull requests.
Using this full context, Reply in pure JSON format, with the following structure omitting irrelevant information pertaining to the specification.
You MUST provide the following structure, but you may add additional information if you deem it relevant.
Example:[
  {
    "source": "issue #123"
    "spec": "This is the issue spec"
    "relevant": [
      {
        "login": "user",
        "body": "This is the relevant context"
        "relevancy": "Why is this relevant to the spec?"
      },
      {
        "login": "other_user",
        "body": "This is other relevant context"
        "relevancy": "Why is this relevant to the spec?"
      }
    ]
  },
  {
    "source": "Pull #456"
    "spec": "This is the pull request spec"
    "relevant": [
      {
        "login": "user",
        "body": "This is the relevant context"
        "relevancy": "Why is this relevant to the spec?"
      },
      {
        "login": "other_user",
        "body": "This is other relevant context"
        "relevancy": "Why is this relevant to the spec?"
      }
    ]
  }
]
`

// TriageContext asks the model to select the fragments of the gathered
// context that are relevant to the anchor conversation. The result is
// opaque structured text, forwarded untouched into the final answer
// prompt. Callers invoke it only when linked material exists.
func (a *Assistant) TriageContext(ctx context.Context, self, linkedIssues, linkedPulls []StreamlinedComment) (string, error) {
	messages := []llm.ChatMessage{
		{Role: llm.RoleSystem, Content: contextTemplate, Name: "UbiquityAI"},
		{Role: llm.RoleSystem, Content: "This issue/Pr context: \n" + marshalContext(self), Name: "UbiquityAI"},
		{Role: llm.RoleSystem, Content: "Linked issue(s) context: \n" + marshalContext(linkedIssues), Name: "UbiquityAI"},
		{Role: llm.RoleSystem, Content: "Linked Pr(s) context: \n" + marshalContext(linkedPulls), Name: "UbiquityAI"},
	}

	completion, err := a.complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("triaging context: %w", err)
	}
	if completion.Content == "" {
		return "", fmt.Errorf("no answer found for context triage")
	}
	slog.Debug("context triage complete",
		"inputTokens", completion.Usage.Input, "outputTokens", completion.Usage.Output)
	return completion.Content, nil
}

// marshalContext serializes one context bundle for embedding in a system
// message.
func marshalContext(comments []StreamlinedComment) string {
	if comments == nil {
		comments = []StreamlinedComment{}
	}
	b, err := json.Marshal(comments)
	if err != nil {
		return "[]"
	}
	return string(b)
}
