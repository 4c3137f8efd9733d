package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ubiquibot/askbot/internal/github"
)

// Resolver failure modes. "No references found" is a normal terminal
// state, not an error: it yields an empty LinkedContext.
var (
	ErrAnchorNotFound = errors.New("anchor issue not found")
	ErrEmptyBody      = errors.New("anchor issue has no body")
)

// LinkedContext holds the streamlined threads of every issue and PR
// referenced from the anchor body. Each referenced entity contributes a
// synthetic header entry followed by its filtered comment thread.
type LinkedContext struct {
	Issues []StreamlinedComment
	Pulls  []StreamlinedComment
}

// Empty reports whether no linked material was gathered.
func (lc *LinkedContext) Empty() bool {
	return lc == nil || (len(lc.Issues) == 0 && len(lc.Pulls) == 0)
}

// ResolveLinked fetches the anchor issue, extracts the references in its
// body, and expands each one into a labeled streamlined thread.
//
// Expansion is best-effort: a single unfetchable reference is skipped
// rather than aborting the batch. Expansion depth is exactly one level;
// references inside linked bodies are never followed.
func (a *Assistant) ResolveLinked(ctx context.Context, number int) (*LinkedContext, error) {
	anchor, err := a.gh.GetIssue(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("#%d: %w", number, ErrAnchorNotFound)
	}
	if anchor.Body == "" {
		return nil, fmt.Errorf("#%d: %w", number, ErrEmptyBody)
	}

	issueRefs, pullRefs := ExtractReferences(anchor.Body)
	if len(issueRefs) == 0 && len(pullRefs) == 0 {
		slog.Info("no linked issues or prs found", "anchor", number)
		return &LinkedContext{}, nil
	}

	issueRefs, pullRefs = a.classifyBareRefs(ctx, issueRefs, pullRefs)

	linked := &LinkedContext{}
	expanded := make(map[Reference]bool)
	for _, ref := range pullRefs {
		key := Reference{Kind: ref.Kind, Number: ref.Number}
		if expanded[key] {
			continue
		}
		expanded[key] = true
		linked.Pulls = append(linked.Pulls, a.expandPull(ctx, ref.Number)...)
	}
	for _, ref := range issueRefs {
		key := Reference{Kind: ref.Kind, Number: ref.Number}
		if expanded[key] {
			continue
		}
		expanded[key] = true
		linked.Issues = append(linked.Issues, a.expandIssue(ctx, ref.Number)...)
	}
	return linked, nil
}

// classifyBareRefs resolves the actual kind of every bare "#N" reference
// via the API, moving the ones that turn out to be pull requests over to
// the PR side. Lookup failures keep the default Issue classification.
func (a *Assistant) classifyBareRefs(ctx context.Context, issueRefs, pullRefs []Reference) ([]Reference, []Reference) {
	kept := issueRefs[:0]
	for _, ref := range issueRefs {
		if ref.Bare {
			kind, err := a.gh.ResolveReferenceKind(ctx, ref.Number)
			if err != nil {
				slog.Warn("could not classify bare reference, assuming issue",
					"number", ref.Number, "error", err)
			} else if kind == github.RefPullRequest {
				ref.Kind = github.RefPullRequest
				pullRefs = append(pullRefs, ref)
				continue
			}
		}
		kept = append(kept, ref)
	}
	return kept, pullRefs
}

// expandPull turns one linked PR into a header entry plus its
// streamlined thread. Fetch failures skip the reference.
func (a *Assistant) expandPull(ctx context.Context, number int) []StreamlinedComment {
	pr, err := a.gh.GetPull(ctx, number)
	if err != nil {
		slog.Warn("skipping unfetchable linked pull", "number", number, "error", err)
		return nil
	}
	out := []StreamlinedComment{{
		Login: "system",
		Body:  fmt.Sprintf("=== %s #%d: %s ===\n%s", github.RefPullRequest, pr.Number, pr.Title, pr.Body),
	}}
	return append(out, a.streamlineThread(ctx, number)...)
}

// expandIssue is the issue-side counterpart of expandPull.
func (a *Assistant) expandIssue(ctx context.Context, number int) []StreamlinedComment {
	issue, err := a.gh.GetIssue(ctx, number)
	if err != nil {
		slog.Warn("skipping unfetchable linked issue", "number", number, "error", err)
		return nil
	}
	out := []StreamlinedComment{{
		Login: "system",
		Body:  fmt.Sprintf("=== %s #%d: %s ===\n%s", github.RefIssue, issue.Number, issue.Title, issue.Body),
	}}
	return append(out, a.streamlineThread(ctx, number)...)
}

// streamlineThread fetches and filters the comment thread of a linked
// entity. A partial thread from a mid-pagination failure is still used.
func (a *Assistant) streamlineThread(ctx context.Context, number int) []StreamlinedComment {
	comments, err := a.gh.ListAllComments(ctx, number)
	if err != nil {
		slog.Warn("using partial comment thread for linked entity",
			"number", number, "collected", len(comments), "error", err)
	}
	return Streamline(comments)
}
