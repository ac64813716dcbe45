package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Client talks HTTP to a generation gateway. It implements Service.
type Client struct {
	cfg  Config
	http *http.Client
}

var _ Service = (*Client)(nil)

// NewClient builds a client for the given config. The gateway URL must be
// resolved (env or discovery) before the first call.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// quotaPatterns are message fragments that mark a quota rejection when the
// status code alone is ambiguous.
var quotaPatterns = []string{"quota", "rate limit", "resource exhausted"}

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("genai: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.cfg.GatewayURL, "/")+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("genai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("genai: %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("genai: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var ae apiError
		_ = json.Unmarshal(raw, &ae)
		if resp.StatusCode == http.StatusTooManyRequests || isQuotaMessage(ae.Error) {
			return fmt.Errorf("%w: %s", ErrQuota, ae.Error)
		}
		return fmt.Errorf("genai: %s: status %d: %s", path, resp.StatusCode, ae.Error)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("genai: decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		strings.TrimRight(c.cfg.GatewayURL, "/")+path, nil)
	if err != nil {
		return fmt.Errorf("genai: build request: %w", err)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("genai: %s: %w", path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("genai: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var ae apiError
		_ = json.Unmarshal(raw, &ae)
		if resp.StatusCode == http.StatusTooManyRequests || isQuotaMessage(ae.Error) {
			return fmt.Errorf("%w: %s", ErrQuota, ae.Error)
		}
		return fmt.Errorf("genai: %s: status %d: %s", path, resp.StatusCode, ae.Error)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("genai: decode response: %w", err)
	}
	return nil
}

func isQuotaMessage(msg string) bool {
	msg = strings.ToLower(msg)
	for _, p := range quotaPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

type editRequest struct {
	Images         []ImagePayload `json:"images"`
	Prompt         string         `json:"prompt"`
	Mask           *ImagePayload  `json:"mask,omitempty"`
	NegativePrompt string         `json:"negative_prompt,omitempty"`
	SizeHint       string         `json:"size_hint,omitempty"`
}

func (c *Client) EditImage(ctx context.Context, images []ImagePayload, prompt string, opts EditOptions) (*Result, error) {
	var res Result
	err := c.post(ctx, "/v1/images/edit", editRequest{
		Images:         images,
		Prompt:         prompt,
		Mask:           opts.Mask,
		NegativePrompt: opts.NegativePrompt,
		SizeHint:       opts.SizeHint,
	}, &res)
	if err != nil {
		return nil, err
	}
	if len(res.Images) == 0 {
		return nil, ErrNoResult
	}
	return &res, nil
}

type generateRequest struct {
	Prompt         string `json:"prompt"`
	AspectRatio    string `json:"aspect_ratio"`
	Count          int    `json:"count"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
}

func (c *Client) GenerateImage(ctx context.Context, prompt, aspectRatio string, count int, negativePrompt string) (*Result, error) {
	if count <= 0 {
		count = 1
	}
	var res Result
	err := c.post(ctx, "/v1/images/generate", generateRequest{
		Prompt:         prompt,
		AspectRatio:    aspectRatio,
		Count:          count,
		NegativePrompt: negativePrompt,
	}, &res)
	if err != nil {
		return nil, err
	}
	if len(res.Images) == 0 {
		return nil, ErrNoResult
	}
	return &res, nil
}

func (c *Client) RemoveBackground(ctx context.Context, img ImagePayload) (*Result, error) {
	return c.EditImage(ctx, []ImagePayload{img},
		"Remove the background, keeping only the main subject on transparency.",
		EditOptions{})
}

func (c *Client) AutoCombine(ctx context.Context, images []ImagePayload) (*Result, error) {
	return c.EditImage(ctx, images,
		"Combine these images into a single coherent composition.",
		EditOptions{})
}

type describeResponse struct {
	Prompt string `json:"prompt"`
}

func (c *Client) DescribeImage(ctx context.Context, img ImagePayload) (string, error) {
	var res describeResponse
	if err := c.post(ctx, "/v1/images/describe", struct {
		Image ImagePayload `json:"image"`
	}{img}, &res); err != nil {
		return "", err
	}
	if res.Prompt == "" {
		return "", ErrNoResult
	}
	return res.Prompt, nil
}

// waitBeforePoll is split out so tests can shrink it.
func (c *Client) waitBeforePoll(ctx context.Context) error {
	t := time.NewTimer(c.cfg.PollInterval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func logDrop(what string, err error) {
	if err != nil {
		log.Printf("[genai] %s: %v", what, err)
	}
}
