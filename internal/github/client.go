// Package github wraps the GitHub REST and GraphQL APIs behind the small
// read/write surface the bot needs: issue/PR lookup, full comment
// threads, comment posting, and repository config retrieval.
package github

import (
	"context"
	"fmt"
	"sync"

	github_ratelimit "github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// Client is a per-repository GitHub API client.
type Client struct {
	gh        *gh.Client
	gqlOnce   sync.Once
	gqlClient *githubv4.Client
	owner     string
	repo      string
	token     string
}

// NewClient creates a Client for owner/repo with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (REST client with token auth)
func NewClient(owner, repo, token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimiter := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimiter).WithAuthToken(token)
	return &Client{
		gh:    client,
		owner: owner,
		repo:  repo,
		token: token,
	}
}

// GetIssue fetches a single issue by number.
func (c *Client) GetIssue(ctx context.Context, number int) (*Issue, error) {
	issue, _, err := c.gh.Issues.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return nil, fmt.Errorf("getting issue #%d: %w", number, err)
	}
	return &Issue{
		ID:     issue.GetID(),
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		Body:   issue.GetBody(),
		State:  issue.GetState(),
		Author: mapAuthor(issue.GetUser()),
	}, nil
}

// GetPull fetches a single pull request by number.
func (c *Client) GetPull(ctx context.Context, number int) (*PullRequest, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return nil, fmt.Errorf("getting pull #%d: %w", number, err)
	}
	return &PullRequest{
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		Body:   pr.GetBody(),
		State:  pr.GetState(),
		Author: mapAuthor(pr.GetUser()),
	}, nil
}

// PostComment adds a comment to the given issue or pull request.
func (c *Client) PostComment(ctx context.Context, number int, body string) error {
	comment := &gh.IssueComment{Body: gh.Ptr(body)}
	if _, _, err := c.gh.Issues.CreateComment(ctx, c.owner, c.repo, number, comment); err != nil {
		return fmt.Errorf("posting comment on #%d: %w", number, err)
	}
	return nil
}

// ResolveReferenceKind looks up whether number denotes an issue or a pull
// request, via the GraphQL issueOrPullRequest node. A bare "#N" mention
// cannot be classified from its text alone, so this is the authoritative
// disambiguation.
func (c *Client) ResolveReferenceKind(ctx context.Context, number int) (RefKind, error) {
	var query struct {
		Repository struct {
			IssueOrPullRequest struct {
				Typename string `graphql:"__typename"`
			} `graphql:"issueOrPullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}
	vars := map[string]any{
		"owner":  githubv4.String(c.owner),
		"repo":   githubv4.String(c.repo),
		"number": githubv4.Int(number),
	}
	if err := c.getGraphQLClient(ctx).Query(ctx, &query, vars); err != nil {
		return "", fmt.Errorf("resolving kind of #%d: %w", number, err)
	}
	if query.Repository.IssueOrPullRequest.Typename == "PullRequest" {
		return RefPullRequest, nil
	}
	return RefIssue, nil
}

// getGraphQLClient lazily initializes the GraphQL client.
func (c *Client) getGraphQLClient(ctx context.Context) *githubv4.Client {
	c.gqlOnce.Do(func() {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token})
		httpClient := oauth2.NewClient(ctx, ts)
		c.gqlClient = githubv4.NewClient(httpClient)
	})
	return c.gqlClient
}

func mapAuthor(u *gh.User) Author {
	if u == nil {
		return Author{}
	}
	return Author{
		Login: u.GetLogin(),
		Kind:  AuthorKind(u.GetType()),
	}
}
