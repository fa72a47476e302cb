// Package intake forwards accepted business documents to the submission
// webhook (a Google Apps Script web app).
package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// ErrNotConfigured is returned when the webhook URL or factory key is unset.
var ErrNotConfigured = errors.New("submission webhook not configured")

// Client posts documents to the webhook.
type Client struct {
	url        string
	factoryKey string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a webhook client.
func NewClient(url, factoryKey string, httpClient *http.Client, logger *zap.Logger) *Client {
	return &Client{
		url:        url,
		factoryKey: factoryKey,
		httpClient: httpClient,
		logger:     logger.Named("intake"),
	}
}

// SubmitRequest is the body the webhook expects.
type SubmitRequest struct {
	FactoryKey   string         `json:"factory_key"`
	BusinessJSON map[string]any `json:"business_json"`
	ClientEmail  string         `json:"client_email"`
}

// Submit forwards doc and returns the webhook's response body verbatim.
// clientEmail falls back to brand.email of doc.
func (c *Client) Submit(ctx context.Context, doc map[string]any, clientEmail string) ([]byte, error) {
	if c.url == "" || c.factoryKey == "" {
		return nil, ErrNotConfigured
	}
	if clientEmail == "" {
		if brand, ok := doc["brand"].(map[string]any); ok {
			clientEmail, _ = brand["email"].(string)
		}
	}

	jsonData, err := json.Marshal(SubmitRequest{
		FactoryKey:   c.factoryKey,
		BusinessJSON: doc,
		ClientEmail:  clientEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submit request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("Submitting business document", zap.String("client_email", clientEmail))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send submit request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read submit response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("Apps Script returned an error", zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return nil, fmt.Errorf("apps script error %d: %s", resp.StatusCode, body)
	}
	return body, nil
}
