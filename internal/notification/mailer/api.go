package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// APISender delivers email through an HTTP mail provider. The request shape
// follows the common transactional-mail POST: a JSON document with from, to,
// subject and text fields, authenticated with a bearer token.
type APISender struct {
	baseURL string
	apiKey  string
	from    string
	http    *http.Client
}

// NewAPISender builds an HTTP sender. A nil client uses the default; the
// per-send deadline comes from the caller's context.
func NewAPISender(baseURL, apiKey, from string, httpClient *http.Client) *APISender {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &APISender{baseURL: baseURL, apiKey: apiKey, from: from, http: httpClient}
}

type apiPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Send POSTs the email to the provider's /messages endpoint.
func (s *APISender) Send(ctx context.Context, msg Email) error {
	body, err := json.Marshal(apiPayload{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Body,
	})
	if err != nil {
		return fmt.Errorf("marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("post mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("mail provider returned %s", resp.Status)
	}
	return nil
}
