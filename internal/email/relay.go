package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Client posts outbound mail to the hosted e-mail relay. The relay contract
// is send-and-check-200: no retries, no delivery receipt.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func NewClient(endpoint, apiKey string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the relay API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type relayMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// SendTimeReport posts a weekly time report to the relay. The subject is
// fixed; the content is plain text assembled by the caller.
func (c *Client) SendTimeReport(toEmail, content string) error {
	if !c.Configured() {
		return fmt.Errorf("email relay not configured: missing API key")
	}

	payload := relayMessage{
		To:      toEmail,
		Subject: "Tidrapport",
		Text:    content,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequest("POST", c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("relay returned %d", resp.StatusCode)
	}

	return nil
}
