// Package permit implements the privileged payout-permit flow: a single
// tool-call chat completion decides which permit to generate and with
// what arguments, and an external signing service produces the signed
// payload wrapped into a claim link.
package permit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ubiquibot/askbot/internal/llm"
)

// sysMsg primes the model to emit exactly one permit tool call.
const sysMsg = `You are the UbiquityAI, designed to generate permit2 payout permits. \n
You will be need to generate a permit for a either an ERC20 or an ERC721.\n

# Functions \n
- generate_erc20_permit \n
- generate_nft_permit \n


An ERC20 permit requires the following input: \n
- amount: Amount permitted to spend \n
- address: The ethereum address that is permitted to spend the token \n

An NFT permit requires the following input: \n
- username: The username that is permitted to claim the nft \n
- address: The ethereum address that is permitted to claim the nft \n

Expected output: \n
- Just the arguments needed to pass into the respective function. \n
`

const (
	toolERC20 = "generate_erc20_permit"
	toolNFT   = "generate_nft_permit"
)

// permitTools declares the two generation functions the model may call.
var permitTools = []llm.Tool{
	{
		Name:        toolERC20,
		Description: "Generate an ERC20 permit with and address and amount.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"amount": map[string]any{
					"type":        "string",
					"description": "Amount permitted to spend",
				},
				"address": map[string]any{
					"type":        "string",
					"description": "The ethereum address that is permitted to spend the token",
				},
			},
			"required": []string{"address", "amount"},
		},
	},
	{
		Name:        toolNFT,
		Description: "Generate an NFT permit with a username and address.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"address": map[string]any{
					"type":        "string",
					"description": "The ethereum address that is permitted to spend the token",
				},
				"username": map[string]any{
					"type":        "string",
					"description": "The github username that is permitted to spend the token",
				},
			},
			"required": []string{"address", "username"},
		},
	},
}

// Request carries the event fields the permit flow needs.
type Request struct {
	Owner       string
	Repo        string
	IssueID     int64
	IssueNumber int
	Sender      string
	SenderID    int64
	Body        string // the privileged comment requesting the permit
}

// Generator runs the permit flow against an LLM client and the signer
// service.
type Generator struct {
	llm          llm.Client
	httpClient   *http.Client
	signerURL    string
	claimURLBase string
	model        string
	networkID    int
}

// NewGenerator creates a Generator. signerURL is the external signing
// service; claimURLBase is the frontend the claim link points at.
func NewGenerator(client llm.Client, signerURL, claimURLBase, model string, networkID int) *Generator {
	return &Generator{
		llm:          client,
		httpClient:   http.DefaultClient,
		signerURL:    signerURL,
		claimURLBase: claimURLBase,
		model:        model,
		networkID:    networkID,
	}
}

// Generate asks the model which permit to produce, forwards the chosen
// arguments to the signing service, and returns a markdown claim link.
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	if g.llm == nil {
		return "", fmt.Errorf("no model API key configured")
	}

	completion, err := g.llm.ChatCompletion(ctx, llm.Request{
		Model: g.model,
		Messages: []llm.ChatMessage{
			{Role: llm.RoleSystem, Content: sysMsg, Name: "UbiquityAI"},
			{Role: llm.RoleUser, Content: req.Body, Name: req.Sender},
		},
		Tools: permitTools,
	})
	if err != nil {
		return "", fmt.Errorf("requesting permit arguments: %w", err)
	}

	for _, call := range completion.ToolCalls {
		switch call.Name {
		case toolERC20:
			return g.generateERC20(ctx, req, call.Arguments)
		case toolNFT:
			return g.generateNFT(ctx, req, call.Arguments)
		}
	}
	return "", fmt.Errorf("model did not request a permit generation")
}

func (g *Generator) generateERC20(ctx context.Context, req Request, arguments string) (string, error) {
	var args struct {
		Amount  string `json:"amount"`
		Address string `json:"address"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("parsing erc20 permit arguments: %w", err)
	}

	payload := map[string]string{
		"amount":      args.Amount,
		"beneficiary": args.Address,
		"issueId":     strconv.FormatInt(req.IssueID, 10),
		"userId":      strconv.FormatInt(req.SenderID, 10),
	}
	signature, err := g.requestSignature(ctx, payload)
	if err != nil {
		return "", err
	}
	return g.claimLink(signature)
}

func (g *Generator) generateNFT(ctx context.Context, req Request, arguments string) (string, error) {
	var args struct {
		Address  string `json:"address"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("parsing nft permit arguments: %w", err)
	}

	payload := map[string]string{
		"networkId":        strconv.Itoa(g.networkID),
		"organizationName": req.Owner,
		"repositoryName":   req.Repo,
		"issueNumber":      strconv.Itoa(req.IssueNumber),
		"issueId":          strconv.FormatInt(req.IssueID, 10),
		"beneficiary":      args.Address,
		"username":         args.Username,
		"userId":           strconv.FormatInt(req.SenderID, 10),
		"contributionType": "issue",
	}
	signature, err := g.requestSignature(ctx, payload)
	if err != nil {
		return "", err
	}
	return g.claimLink(signature)
}
