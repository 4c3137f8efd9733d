package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	gh "github.com/google/go-github/v82/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient creates a Client wired to a test HTTP server.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := gh.NewClient(nil).WithEnterpriseURLs(server.URL+"/", server.URL+"/")
	require.NoError(t, err)

	return &Client{
		gh:    client,
		owner: "testowner",
		repo:  "testrepo",
		token: "test-token",
	}
}

// writeCommentsPage writes n fake comments starting at startID.
func writeCommentsPage(w http.ResponseWriter, startID, n int) {
	comments := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		id := startID + i
		comments = append(comments, map[string]any{
			"id":        id,
			"body":      fmt.Sprintf("raw comment %d", id),
			"body_text": fmt.Sprintf("text comment %d", id),
			"body_html": fmt.Sprintf("<p>comment %d</p>", id),
			"user":      map[string]any{"login": "alice", "type": "User"},
		})
	}
	_ = json.NewEncoder(w).Encode(comments)
}

func TestListAllCommentsPaginates(t *testing.T) {
	var requests int
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v3/repos/testowner/testrepo/issues/1/comments", func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Contains(t, r.Header.Get("Accept"), "full+json")
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		switch page {
		case 1, 2:
			writeCommentsPage(w, (page-1)*100, 100)
		case 3:
			writeCommentsPage(w, 200, 50)
		default:
			fmt.Fprint(w, "[]")
		}
	})
	c := newTestClient(t, mux)

	comments, err := c.ListAllComments(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, comments, 250)
	// ceil(250/100) full pages plus the terminating empty page.
	assert.Equal(t, 4, requests)

	first := comments[0]
	assert.Equal(t, int64(0), first.ID)
	assert.Equal(t, "raw comment 0", first.Body)
	assert.Equal(t, "text comment 0", first.BodyText)
	assert.Equal(t, "<p>comment 0</p>", first.BodyHTML)
	assert.Equal(t, Author{Login: "alice", Kind: AuthorUser}, first.Author)
}

func TestListAllCommentsEmptyThread(t *testing.T) {
	var requests int
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v3/repos/testowner/testrepo/issues/1/comments", func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, "[]")
	})
	c := newTestClient(t, mux)

	comments, err := c.ListAllComments(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, comments)
	assert.Equal(t, 1, requests)
}

func TestListAllCommentsReturnsPartialOnError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v3/repos/testowner/testrepo/issues/1/comments", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			writeCommentsPage(w, 0, 100)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message":"boom"}`)
	})
	c := newTestClient(t, mux)

	comments, err := c.ListAllComments(context.Background(), 1)
	require.Error(t, err)
	assert.Len(t, comments, 100)
}

func TestListAllCommentsRateLimitAlreadyReset(t *testing.T) {
	// Remaining 0 with a reset time in the past must not block.
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v3/repos/testowner/testrepo/issues/1/comments", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", "1")
		if r.URL.Query().Get("page") == "1" {
			writeCommentsPage(w, 0, 1)
			return
		}
		fmt.Fprint(w, "[]")
	})
	c := newTestClient(t, mux)

	comments, err := c.ListAllComments(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}
