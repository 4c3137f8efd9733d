package github

import "time"

// AuthorKind classifies the account type behind a comment or issue.
type AuthorKind string

const (
	AuthorUser         AuthorKind = "User"
	AuthorBot          AuthorKind = "Bot"
	AuthorOrganization AuthorKind = "Organization"
)

// Author identifies the account that wrote a comment, issue, or PR.
type Author struct {
	Login string
	Kind  AuthorKind
}

// Comment is an immutable snapshot of a single issue/PR comment.
// Body always holds the raw markdown; BodyHTML and BodyText carry the
// rendered forms from the same API payload, so the raw and rendered
// renderings of one comment are correlated by construction rather than
// by list position.
type Comment struct {
	ID        int64
	Author    Author
	CreatedAt time.Time
	UpdatedAt time.Time
	Body      string
	BodyHTML  string
	BodyText  string
}

// Issue is a snapshot of an issue fetched by number.
type Issue struct {
	ID     int64
	Number int
	Title  string
	Body   string
	State  string
	Author Author
}

// PullRequest is a snapshot of a pull request fetched by number.
type PullRequest struct {
	Number int
	Title  string
	Body   string
	State  string
	Author Author
}

// RefKind tags whether a cross-reference points at an issue or a PR.
type RefKind string

const (
	RefIssue       RefKind = "Issue"
	RefPullRequest RefKind = "Pull Request"
)
