package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// Request is one inbound slash-command invocation.
type Request struct {
	Mode        Mode
	IssueNumber int // 0 when the command was not issued on an issue
	Sender      string
	Body        string // full comment body, including the slash command
}

// Answer runs the whole pipeline for one command and returns the string
// to post back: the model's answer on success, a fixed help text for
// malformed input, or a diff-styled diagnostic on failure. It never
// panics past its boundary; every failure becomes a returned string.
func (a *Assistant) Answer(ctx context.Context, req Request) string {
	if req.Body == "" {
		return promptForInput
	}
	if req.IssueNumber == 0 {
		return issuesOnly
	}
	if slices.Contains(a.settings.DisabledCommands, string(req.Mode)) {
		return fmt.Sprintf("The /%s command is disabled in this repository.", req.Mode)
	}

	question, ok := ParseCommand(req.Mode, req.Body)
	if !ok {
		return Usage(req.Mode)
	}

	issue, err := a.gh.GetIssue(ctx, req.IssueNumber)
	if err != nil {
		slog.Error("failed to fetch anchor issue", "number", req.IssueNumber, "error", err)
		return ErrorDiff(fmt.Sprintf("Error getting issue: %v", err))
	}

	// The anchor thread: issue body first, then the filtered comments.
	self := []StreamlinedComment{{Login: issue.Author.Login, Body: issue.Body}}
	comments, err := a.gh.ListAllComments(ctx, req.IssueNumber)
	if err != nil && len(comments) == 0 {
		slog.Error("failed to fetch issue comments", "number", req.IssueNumber, "error", err)
		return ErrorDiff("Error getting issue comments")
	}
	if err != nil {
		slog.Warn("continuing with partial comment thread",
			"number", req.IssueNumber, "collected", len(comments), "error", err)
	}
	self = append(self, Streamline(comments)...)

	// Linked context degrades to empty on failure; one bad anchor body
	// must not prevent answering from the self thread alone.
	linked, err := a.ResolveLinked(ctx, req.IssueNumber)
	if err != nil {
		slog.Warn("failed to resolve linked context", "number", req.IssueNumber, "error", err)
		linked = &LinkedContext{}
	}

	// Triage is skipped entirely when there is no linked material.
	var triageResult string
	if !linked.Empty() {
		triageResult, err = a.TriageContext(ctx, self, linked.Issues, linked.Pulls)
		if errors.Is(err, ErrNoCredential) {
			return ErrorDiff(credentialHelp)
		}
		if err != nil {
			slog.Warn("context triage failed, answering with untriaged context", "error", err)
			triageResult = fmt.Sprintf("No triage available: %v", err)
		}
	}

	result, err := a.ComposeAndAsk(ctx, question, req.Sender, triageResult, !linked.Empty())
	if errors.Is(err, ErrNoCredential) {
		return ErrorDiff(credentialHelp)
	}
	if err != nil {
		slog.Error("answer call failed", "error", err)
		return ErrorDiff("Error getting response from the model")
	}
	if result.Answer == "" {
		return fmt.Sprintf("No answer found for question: %s", question)
	}

	slog.Info("answer generated",
		"inputTokens", result.TokenUsage.Input,
		"outputTokens", result.TokenUsage.Output,
		"totalTokens", result.TokenUsage.Total)
	return result.Answer
}
