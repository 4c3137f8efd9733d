package github

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	gh "github.com/google/go-github/v82/github"
)

// CommandEvent is the slice of an issue_comment.created webhook payload
// the bot acts on.
type CommandEvent struct {
	Owner       string
	Repo        string
	IssueID     int64
	IssueNumber int
	Sender      string
	SenderID    int64
	Body        string
}

// ParseEventFile reads an issue_comment webhook payload from disk (the
// GITHUB_EVENT_PATH convention) and extracts the command surface.
func ParseEventFile(path string) (*CommandEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading event file: %w", err)
	}

	var event gh.IssueCommentEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("parsing event payload: %w", err)
	}
	if event.GetIssue() == nil {
		return nil, fmt.Errorf("event payload has no issue")
	}

	return &CommandEvent{
		Owner:       event.GetRepo().GetOwner().GetLogin(),
		Repo:        event.GetRepo().GetName(),
		IssueID:     event.GetIssue().GetID(),
		IssueNumber: event.GetIssue().GetNumber(),
		Sender:      event.GetSender().GetLogin(),
		SenderID:    event.GetSender().GetID(),
		Body:        event.GetComment().GetBody(),
	}, nil
}

// GetRepoFile fetches a file's decoded contents from an arbitrary
// owner/repo. Used for repository and organization level bot config.
func (c *Client) GetRepoFile(ctx context.Context, owner, repo, path string) ([]byte, error) {
	fc, _, _, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching %s/%s:%s: %w", owner, repo, path, err)
	}
	if fc == nil {
		return nil, fmt.Errorf("%s/%s:%s is not a file", owner, repo, path)
	}
	content, err := fc.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decoding %s/%s:%s: %w", owner, repo, path, err)
	}
	return []byte(content), nil
}
