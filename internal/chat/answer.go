package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ubiquibot/askbot/internal/llm"
)

// sysMsg is the persona prompt for the final answer call. The mandated
// trailing marker is the same sentinel Streamline watches for, which is
// how the bot recognizes its own answers on later invocations.
const sysMsg = `You are the UbiquityAI, designed to provide accurate technical answers. \n
Whenever appropriate, format your response using GitHub Flavored Markdown. Utilize tables, lists, and code blocks for clear and organized answers. \n
Do not make up answers. If you are unsure, say so. \n
Original Context exists only to provide you with additional information to the current question, use it to formulate answers. \n
Infer the context of the question from the Original Context using your best judgement. \n
All replies MUST end with "\n\n ` + AnswerMarker + ` ".\n
`

// credentialHelp is the remediation message shown when no model API key
// is configured.
const credentialHelp = "You must configure the `openai-api-key` property in the bot configuration in order to use AI powered features."

// AnswerResult is the normalized outcome of the final answer call.
type AnswerResult struct {
	Answer     string
	TokenUsage llm.Usage
}

// ErrorDiff renders a failure message as a diff-styled fenced block
// suitable for posting directly as an issue comment.
func ErrorDiff(msg string) string {
	return "```diff\n! " + msg + "\n```"
}

// BuildAnswerMessages assembles the ordered prompt for the final answer
// call. Without linked context the prompt is exactly [persona, question];
// with linked context the triage result is injected between them as
// "Original Context".
func BuildAnswerMessages(question, sender, triageResult string, hasLinkedContext bool) []llm.ChatMessage {
	if !hasLinkedContext {
		return []llm.ChatMessage{
			{Role: llm.RoleSystem, Content: sysMsg, Name: "UbiquityAI"},
			{Role: llm.RoleUser, Content: question, Name: sender},
		}
	}
	quoted, _ := json.Marshal(question)
	return []llm.ChatMessage{
		{Role: llm.RoleSystem, Content: sysMsg, Name: "UbiquityAI"},
		{Role: llm.RoleSystem, Content: "Original Context: " + triageResult, Name: "system"},
		{Role: llm.RoleUser, Content: "Question: " + string(quoted), Name: "user"},
	}
}

// ComposeAndAsk builds the answer prompt and issues the completion call.
func (a *Assistant) ComposeAndAsk(ctx context.Context, question, sender, triageResult string, hasLinkedContext bool) (*AnswerResult, error) {
	messages := BuildAnswerMessages(question, sender, triageResult, hasLinkedContext)
	completion, err := a.complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("asking model: %w", err)
	}
	return &AnswerResult{
		Answer:     completion.Content,
		TokenUsage: completion.Usage,
	}, nil
}
