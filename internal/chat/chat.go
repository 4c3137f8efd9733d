// Package chat implements the context-aggregation and prompt-assembly
// pipeline behind the /ask and /research commands: it gathers the anchor
// issue's conversation, expands issues and PRs referenced from the anchor
// body, asks the model to triage the gathered material, and composes the
// final answer prompt.
package chat

import (
	"context"
	"errors"

	"github.com/ubiquibot/askbot/internal/github"
	"github.com/ubiquibot/askbot/internal/llm"
)

// GitHub is the read surface the pipeline needs from the GitHub client.
type GitHub interface {
	GetIssue(ctx context.Context, number int) (*github.Issue, error)
	GetPull(ctx context.Context, number int) (*github.PullRequest, error)
	ListAllComments(ctx context.Context, number int) ([]github.Comment, error)
	ResolveReferenceKind(ctx context.Context, number int) (github.RefKind, error)
}

// ErrNoCredential signals that no model API key is configured. It is
// terminal: the caller renders a remediation message instead of retrying.
var ErrNoCredential = errors.New("no model API key configured")

// Settings carries the model and command configuration the pipeline
// needs.
type Settings struct {
	Model            string
	Temperature      float32
	DisabledCommands []string
}

// Assistant runs the answer pipeline. All pipeline state is
// request-scoped; an Assistant only carries its collaborators and
// settings.
type Assistant struct {
	gh       GitHub
	llm      llm.Client // nil when no API key is configured
	settings Settings
}

// NewAssistant creates an Assistant. Pass a nil llm.Client when no model
// credential is configured; the pipeline then degrades to the documented
// configuration-error message without issuing network calls.
func NewAssistant(gh GitHub, client llm.Client, settings Settings) *Assistant {
	return &Assistant{
		gh:       gh,
		llm:      client,
		settings: settings,
	}
}

// complete issues one chat completion with the assistant's model settings.
func (a *Assistant) complete(ctx context.Context, messages []llm.ChatMessage) (*llm.Completion, error) {
	if a.llm == nil {
		return nil, ErrNoCredential
	}
	return a.llm.ChatCompletion(ctx, llm.Request{
		Model:       a.settings.Model,
		Temperature: a.settings.Temperature,
		Messages:    messages,
	})
}
