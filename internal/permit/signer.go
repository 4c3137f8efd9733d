package permit

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// signerResponse is the payload returned by the signing service.
type signerResponse struct {
	Signature json.RawMessage `json:"signature"`
}

// requestSignature POSTs the permit payload to the signing service and
// returns the signed transaction data.
func (g *Generator) requestSignature(ctx context.Context, payload map[string]string) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding signer payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.signerURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building signer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling signer service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("signer service returned %s", resp.Status)
	}

	var signed signerResponse
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return nil, fmt.Errorf("decoding signer response: %w", err)
	}
	if len(signed.Signature) == 0 {
		return nil, fmt.Errorf("signer response has no signature")
	}
	return signed.Signature, nil
}

// claimLink wraps signed transaction data into the markdown claim link
// posted back to the issue. The claim parameter is the base64 encoding
// of a single-element JSON array holding the transaction data.
func (g *Generator) claimLink(txData json.RawMessage) (string, error) {
	encoded, err := json.Marshal([]json.RawMessage{txData})
	if err != nil {
		return "", fmt.Errorf("encoding claim data: %w", err)
	}
	claim := base64.StdEncoding.EncodeToString(encoded)
	return fmt.Sprintf("[Claim Permit](%s?claim=%s)", g.claimURLBase, url.QueryEscape(claim)), nil
}
