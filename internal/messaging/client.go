// Package messaging talks to the channel's reply/push API and verifies
// inbound webhook signatures.
package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	replyPath = "/v2/bot/message/reply"
	pushPath  = "/v2/bot/message/push"

	// The channel caps outbound text messages per request.
	maxMessagesPerRequest = 5
)

// Client sends reply and push messages. Outbound calls share a token
// bucket so a notification burst cannot trip the channel's rate limits.
type Client struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
	log         zerolog.Logger
}

func NewClient(endpoint string, accessToken string, pushRPS float64, pushBurst int, log zerolog.Logger) *Client {
	return &Client{
		endpoint:    endpoint,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		limiter:     rate.NewLimiter(rate.Limit(pushRPS), pushBurst),
		log:         log,
	}
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type replyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []textMessage `json:"messages"`
}

type pushRequest struct {
	To       string        `json:"to"`
	Messages []textMessage `json:"messages"`
}

// Reply answers an inbound event via its reply token.
func (client *Client) Reply(ctx context.Context, replyToken string, texts ...string) error {
	return client.post(ctx, replyPath, replyRequest{
		ReplyToken: replyToken,
		Messages:   toMessages(texts),
	})
}

// Push sends messages to a user outside a reply window.
func (client *Client) Push(ctx context.Context, to string, texts ...string) error {
	return client.post(ctx, pushPath, pushRequest{
		To:       to,
		Messages: toMessages(texts),
	})
}

func toMessages(texts []string) []textMessage {
	if len(texts) > maxMessagesPerRequest {
		texts = texts[:maxMessagesPerRequest]
	}
	messages := make([]textMessage, 0, len(texts))
	for _, text := range texts {
		messages = append(messages, textMessage{Type: "text", Text: text})
	}
	return messages
}

func (client *Client) post(ctx context.Context, path string, payload any) error {
	if err := client.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+client.accessToken)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(response.Body, 1024))
		client.log.Warn().
			Int("status", response.StatusCode).
			Str("path", path).
			Str("detail", string(detail)).
			Msg("channel API rejected the request")
		return fmt.Errorf("channel API returned status %d", response.StatusCode)
	}
	return nil
}
