package github

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gh "github.com/google/go-github/v82/github"
)

// commentsPageSize is the fixed page size for comment pagination.
const commentsPageSize = 100

// mediaTypeFull asks the API for raw, text, and html renderings of each
// comment body in a single payload.
const mediaTypeFull = "application/vnd.github.full+json"

// apiComment is the wire shape of a comment under the full media type.
type apiComment struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	BodyText  string    `json:"body_text"`
	BodyHTML  string    `json:"body_html"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      struct {
		Login string `json:"login"`
		Type  string `json:"type"`
	} `json:"user"`
}

// ListAllComments fetches the full comment thread of an issue or pull
// request, oldest page first. Pagination starts at page 1 with a fixed
// page size and stops on the first empty page.
//
// On a mid-pagination error the comments collected so far are returned
// alongside the error; callers decide whether a partial thread is usable.
func (c *Client) ListAllComments(ctx context.Context, number int) ([]Comment, error) {
	var all []Comment
	for page := 1; ; page++ {
		u := fmt.Sprintf("repos/%s/%s/issues/%d/comments?per_page=%d&page=%d",
			c.owner, c.repo, number, commentsPageSize, page)
		req, err := c.gh.NewRequest("GET", u, nil)
		if err != nil {
			return all, fmt.Errorf("building comments request for #%d: %w", number, err)
		}
		req.Header.Set("Accept", mediaTypeFull)

		var batch []apiComment
		resp, err := c.gh.Do(ctx, req, &batch)
		if err != nil {
			slog.Warn("fetching comments failed mid-pagination",
				"number", number, "page", page, "collected", len(all), "error", err)
			return all, fmt.Errorf("listing comments for #%d (page %d): %w", number, page, err)
		}
		if len(batch) == 0 {
			return all, nil
		}
		for _, ac := range batch {
			all = append(all, Comment{
				ID:        ac.ID,
				Author:    Author{Login: ac.User.Login, Kind: AuthorKind(ac.User.Type)},
				CreatedAt: ac.CreatedAt,
				UpdatedAt: ac.UpdatedAt,
				Body:      ac.Body,
				BodyHTML:  ac.BodyHTML,
				BodyText:  ac.BodyText,
			})
		}
		if err := c.waitForRateLimit(ctx, resp); err != nil {
			return all, err
		}
	}
}

// waitForRateLimit suspends until the primary rate limit window resets
// when the remaining-request budget has reached zero. This is the only
// blocking point in the client beyond normal network I/O.
func (c *Client) waitForRateLimit(ctx context.Context, resp *gh.Response) error {
	if resp == nil || resp.Rate.Remaining > 0 {
		return nil
	}
	wait := time.Until(resp.Rate.Reset.Time)
	if wait <= 0 {
		return nil
	}
	slog.Info("rate limit exhausted, waiting for reset", "wait", wait.Round(time.Second))
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
