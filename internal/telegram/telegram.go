// Package telegram is a thin Bot API client covering the handful of
// methods the countdown bot needs. Messages are sent with parse_mode=HTML.
package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/rs/zerolog/log"
)

// Errors the orchestrator recovers from. Any other edit failure is
// transient and retried on the next tick.
var (
	// ErrNoTextToEdit means the target message has no text body, only a
	// caption; the edit must be retried as a caption edit.
	ErrNoTextToEdit = errors.New("telegram: no text in the message to edit")
	// ErrTargetGone means the message or chat no longer exists; the
	// countdown can never succeed again.
	ErrTargetGone = errors.New("telegram: message or chat not found")
)

type Client struct {
	token   string
	baseURL string
	httpc   *http.Client
}

func New(token string) *Client {
	return &Client{
		token:   token,
		baseURL: "https://api.telegram.org",
		httpc:   &http.Client{Timeout: 40 * time.Second},
	}
}

// EditMessageText replaces the text body of a channel message.
func (c *Client) EditMessageText(ctx context.Context, chatID string, messageID int, text string) error {
	return c.call(ctx, "editMessageText", url.Values{
		"chat_id":    {chatID},
		"message_id": {strconv.Itoa(messageID)},
		"text":       {text},
		"parse_mode": {"HTML"},
	})
}

// EditMessageCaption replaces the media caption of a channel message.
func (c *Client) EditMessageCaption(ctx context.Context, chatID string, messageID int, caption string) error {
	return c.call(ctx, "editMessageCaption", url.Values{
		"chat_id":    {chatID},
		"message_id": {strconv.Itoa(messageID)},
		"caption":    {caption},
		"parse_mode": {"HTML"},
	})
}

// SendMessage sends a new message to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID string, text string) error {
	return c.call(ctx, "sendMessage", url.Values{
		"chat_id":    {chatID},
		"text":       {text},
		"parse_mode": {"HTML"},
	})
}

// GetUpdates long-polls the Bot API for incoming updates. timeout is the
// server-side hold time in seconds.
func (c *Client) GetUpdates(ctx context.Context, offset, timeout int) ([]Update, error) {
	var body []byte
	err := c.post(ctx, "getUpdates", url.Values{
		"offset":  {strconv.Itoa(offset)},
		"timeout": {strconv.Itoa(timeout)},
	}, &body)
	if err != nil {
		return nil, err
	}
	var res updatesResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode getUpdates response: %w", err)
	}
	if !res.OK {
		return nil, fmt.Errorf("telegram getUpdates failed: %s", res.Description)
	}
	return res.Result, nil
}

// call invokes a Bot API method and classifies API-level failures into
// the package sentinel errors. Transport errors and 5xx responses are
// retried a few times before giving up.
func (c *Client) call(ctx context.Context, method string, params url.Values) error {
	var body []byte
	if err := c.post(ctx, method, params, &body); err != nil {
		return err
	}
	var res apiResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if !res.OK {
		return classify(method, res.Description)
	}
	return nil
}

func (c *Client) post(ctx context.Context, method string, params url.Values, out *[]byte) error {
	apiURL := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(params.Encode()))
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			resp, err := c.httpc.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if resp.StatusCode >= http.StatusInternalServerError {
				return fmt.Errorf("telegram %s: status %d: %s", method, resp.StatusCode, body)
			}
			*out = body
			return nil
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.MaxDelay(5*time.Second),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Str("method", method).Uint("attempt", n+1).Msg("telegram call failed, retrying")
		}),
	)
}

// classify maps Bot API error descriptions onto sentinel errors. The API
// only distinguishes failures by description text.
func classify(method, description string) error {
	d := strings.ToLower(description)
	switch {
	case strings.Contains(d, "no text in the message to edit"):
		return ErrNoTextToEdit
	case strings.Contains(d, "message to edit not found"),
		strings.Contains(d, "chat not found"):
		return ErrTargetGone
	default:
		return fmt.Errorf("telegram %s failed: %s", method, description)
	}
}
