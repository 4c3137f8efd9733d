package permit

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubiquibot/askbot/internal/llm"
)

func testRequest() Request {
	return Request{
		Owner:       "acme",
		Repo:        "widgets",
		IssueID:     9001,
		IssueNumber: 42,
		Sender:      "alice",
		SenderID:    7,
		Body:        "/permit send 100 to 0xabc",
	}
}

func newTestGenerator(t *testing.T, client llm.Client, signerHandler http.HandlerFunc) *Generator {
	t.Helper()
	server := httptest.NewServer(signerHandler)
	t.Cleanup(server.Close)
	return NewGenerator(client, server.URL, "http://localhost:8080/", "gpt-3.5-turbo-16k", 100)
}

func TestGenerateERC20Permit(t *testing.T) {
	mock := llm.NewMockClient()
	mock.QueueCompletion(&llm.Completion{
		ToolCalls: []llm.ToolCall{{
			Name:      toolERC20,
			Arguments: `{"amount":"100","address":"0xabc"}`,
		}},
	})

	var payload map[string]string
	g := newTestGenerator(t, mock, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		w.Write([]byte(`{"signature":{"deadline":"123","sig":"0xsigned"}}`))
	})

	link, err := g.Generate(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"amount":      "100",
		"beneficiary": "0xabc",
		"issueId":     "9001",
		"userId":      "7",
	}, payload)

	// The link carries the base64 of a single-element array holding the
	// signed transaction data.
	require.True(t, strings.HasPrefix(link, "[Claim Permit](http://localhost:8080/?claim="))
	claim := strings.TrimSuffix(strings.TrimPrefix(link, "[Claim Permit](http://localhost:8080/?claim="), ")")
	unescaped, err := url.QueryUnescape(claim)
	require.NoError(t, err)
	decoded, err := base64.StdEncoding.DecodeString(unescaped)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"deadline":"123","sig":"0xsigned"}]`, string(decoded))

	// The model saw the permit tool declarations.
	requests := mock.GetRequests()
	require.Len(t, requests, 1)
	require.Len(t, requests[0].Tools, 2)
	assert.Equal(t, toolERC20, requests[0].Tools[0].Name)
}

func TestGenerateNFTPermit(t *testing.T) {
	mock := llm.NewMockClient()
	mock.QueueCompletion(&llm.Completion{
		ToolCalls: []llm.ToolCall{{
			Name:      toolNFT,
			Arguments: `{"address":"0xdef","username":"bob"}`,
		}},
	})

	var payload map[string]string
	g := newTestGenerator(t, mock, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		w.Write([]byte(`{"signature":"0xsigned"}`))
	})

	link, err := g.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Contains(t, link, "[Claim Permit](")

	assert.Equal(t, map[string]string{
		"networkId":        "100",
		"organizationName": "acme",
		"repositoryName":   "widgets",
		"issueNumber":      "42",
		"issueId":          "9001",
		"beneficiary":      "0xdef",
		"username":         "bob",
		"userId":           "7",
		"contributionType": "issue",
	}, payload)
}

func TestGenerateNoToolCall(t *testing.T) {
	mock := llm.NewMockClient()
	mock.QueueCompletion(&llm.Completion{Content: "I cannot generate that."})
	g := newTestGenerator(t, mock, func(w http.ResponseWriter, r *http.Request) {
		t.Error("signer must not be called without a tool call")
	})

	_, err := g.Generate(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not request")
}

func TestGenerateSignerFailure(t *testing.T) {
	mock := llm.NewMockClient()
	mock.QueueCompletion(&llm.Completion{
		ToolCalls: []llm.ToolCall{{Name: toolERC20, Arguments: `{"amount":"1","address":"0xabc"}`}},
	})
	g := newTestGenerator(t, mock, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := g.Generate(context.Background(), testRequest())
	assert.Error(t, err)
}

func TestGenerateNoCredential(t *testing.T) {
	g := NewGenerator(nil, "http://signer", "http://claim/", "gpt-3.5-turbo-16k", 1)
	_, err := g.Generate(context.Background(), testRequest())
	assert.Error(t, err)
}

func TestGenerateMalformedArguments(t *testing.T) {
	mock := llm.NewMockClient()
	mock.QueueCompletion(&llm.Completion{
		ToolCalls: []llm.ToolCall{{Name: toolERC20, Arguments: `not json`}},
	})
	g := newTestGenerator(t, mock, func(w http.ResponseWriter, r *http.Request) {
		t.Error("signer must not be called with malformed arguments")
	})

	_, err := g.Generate(context.Background(), testRequest())
	assert.Error(t, err)
}
