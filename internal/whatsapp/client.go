package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// maxTextLen is the Cloud API limit for a text message body.
const maxTextLen = 4096

type Client struct {
	apiURL        string
	phoneNumberID string
	accessToken   string
	http          *http.Client
}

func NewClient(apiURL, phoneNumberID, accessToken string) *Client {
	return &Client{
		apiURL:        strings.TrimRight(apiURL, "/"),
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
		http:          &http.Client{Timeout: 15 * time.Second},
	}
}

// SendText sends body to the recipient, split into several messages when it
// exceeds the platform limit.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	for _, chunk := range splitMessage(body, maxTextLen) {
		msg := SendMessageRequest{
			MessagingProduct: "whatsapp",
			RecipientType:    "individual",
			To:               to,
			Type:             "text",
			Text:             &SendText{Body: chunk},
		}
		if err := c.send(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) send(ctx context.Context, msg SendMessageRequest) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.apiURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("whatsapp API status %d: %s", resp.StatusCode, respBody)
	}
	return nil
}

// splitMessage splits text into chunks of at most maxLen bytes, preferring
// paragraph, then line, then word boundaries.
func splitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	minSplit := maxLen / 4
	var chunks []string
	for len(text) > maxLen {
		chunk := text[:maxLen]
		cut := maxLen
		for _, sep := range []string{"\n\n", "\n", " "} {
			if i := strings.LastIndex(chunk, sep); i > 0 && i >= minSplit {
				cut = i
				break
			}
		}
		for cut > 1 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		chunks = append(chunks, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
