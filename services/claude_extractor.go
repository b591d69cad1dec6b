package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const anthropicVersion = "2023-06-01"

// receiptPrompt asks for the document ParseExtraction decodes
const receiptPrompt = `Analyze this receipt image. Extract all line items with their name, price and quantity.
If quantity is not explicitly stated, infer it or default to 1.
Do NOT include tax, service charge or total lines in the "items" array.
Put the sum of all taxes (CGST, SGST, VAT and similar) into "totalTax" and any service charge into "totalServiceCharge". If not present, set them to 0.
Put the restaurant or store name into "restaurantName".

Return ONLY raw JSON in this exact format. No explanations or formatting.
{
  "restaurantName": "string",
  "items": [{"name": "string", "price": number, "quantity": number}],
  "totalTax": number,
  "totalServiceCharge": number
}`

var (
	// ErrMissingAPIKey is returned by Extract when no API key is configured
	ErrMissingAPIKey = errors.New("ANTHROPIC_API_KEY is not set")
	// ErrMalformedResponse wraps a successful reply that is not a messages document
	ErrMalformedResponse = errors.New("extraction response is not valid JSON")
)

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// ClaudeExtractor reads receipts through the Anthropic messages API
type ClaudeExtractor struct {
	apiKey string
	url    string
	model  string
	client *http.Client
}

// NewClaudeExtractor creates an extractor. timeout bounds a single call.
func NewClaudeExtractor(apiKey, url, model string, timeout time.Duration) *ClaudeExtractor {
	return &ClaudeExtractor{
		apiKey: apiKey,
		url:    url,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

// Extract sends the image and returns the first text block of the reply.
// A blank reply or one without text yields an empty string and no error.
func (e *ClaudeExtractor) Extract(ctx context.Context, image []byte, mediaType string) (string, error) {
	if e.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	requestBody := map[string]interface{}{
		"model":      e.model,
		"max_tokens": 4000,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "text",
						"text": receiptPrompt,
					},
					{
						"type": "image",
						"source": map[string]interface{}{
							"type":       "base64",
							"media_type": mediaType,
							"data":       base64.StdEncoding.EncodeToString(image),
						},
					},
				},
			},
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", e.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send extraction request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("extraction service returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read extraction response: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return "", nil
	}

	var claudeResp claudeResponse
	if err := json.Unmarshal(body, &claudeResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	for _, content := range claudeResp.Content {
		if content.Type == "text" {
			return content.Text, nil
		}
	}
	return "", nil
}
