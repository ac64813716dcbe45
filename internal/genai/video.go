package genai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

type videoJob struct {
	JobId string `json:"job_id"`
}

type videoStatus struct {
	State    string         `json:"state"` // pending | running | done | failed
	Progress float64        `json:"progress"`
	Error    string         `json:"error,omitempty"`
	Videos   []VideoPayload `json:"videos,omitempty"`
}

// GenerateVideo submits a job, then follows its progress over the gateway's
// websocket stream; if the stream cannot be opened it falls back to polling
// with a bounded retry count (Config.MaxPolls). Cancellation of an accepted
// job is not supported by the gateway; the call is fire-and-forget until
// resolution.
func (c *Client) GenerateVideo(ctx context.Context, req VideoRequest, progress func(float64)) ([]VideoPayload, error) {
	if req.Count <= 0 {
		req.Count = 1
	}
	var job videoJob
	if err := c.post(ctx, "/v1/videos/jobs", req, &job); err != nil {
		return nil, err
	}
	if job.JobId == "" {
		return nil, fmt.Errorf("genai: video job without id")
	}

	if videos, err := c.streamVideoJob(ctx, job.JobId, progress); err == nil {
		return videos, nil
	} else if ctx.Err() != nil {
		return nil, err
	} else {
		logDrop("video progress stream, falling back to polling", err)
	}
	return c.pollVideoJob(ctx, job.JobId, progress)
}

func (c *Client) wsURL(path string) string {
	base := strings.TrimRight(c.cfg.GatewayURL, "/")
	base = strings.Replace(base, "https://", "wss://", 1)
	base = strings.Replace(base, "http://", "ws://", 1)
	return base + path
}

func (c *Client) streamVideoJob(ctx context.Context, jobId string, progress func(float64)) ([]VideoPayload, error) {
	header := http.Header{}
	if c.cfg.APIKey != "" {
		header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx,
		c.wsURL("/v1/videos/jobs/"+jobId+"/ws"), header)
	if err != nil {
		return nil, fmt.Errorf("genai: dial progress stream: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var st videoStatus
		if err := conn.ReadJSON(&st); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("genai: read progress: %w", err)
		}
		if progress != nil {
			progress(st.Progress)
		}
		switch st.State {
		case "done":
			if len(st.Videos) == 0 {
				return nil, ErrNoResult
			}
			return st.Videos, nil
		case "failed":
			if isQuotaMessage(st.Error) {
				return nil, fmt.Errorf("%w: %s", ErrQuota, st.Error)
			}
			return nil, fmt.Errorf("genai: video job failed: %s", st.Error)
		}
	}
}

func (c *Client) pollVideoJob(ctx context.Context, jobId string, progress func(float64)) ([]VideoPayload, error) {
	for i := 0; i < c.cfg.MaxPolls; i++ {
		if err := c.waitBeforePoll(ctx); err != nil {
			return nil, err
		}
		var st videoStatus
		if err := c.get(ctx, "/v1/videos/jobs/"+jobId, &st); err != nil {
			return nil, err
		}
		if progress != nil {
			progress(st.Progress)
		}
		switch st.State {
		case "done":
			if len(st.Videos) == 0 {
				return nil, ErrNoResult
			}
			return st.Videos, nil
		case "failed":
			if isQuotaMessage(st.Error) {
				return nil, fmt.Errorf("%w: %s", ErrQuota, st.Error)
			}
			return nil, fmt.Errorf("genai: video job failed: %s", st.Error)
		}
	}
	return nil, fmt.Errorf("genai: video job %s did not finish within %d polls", jobId, c.cfg.MaxPolls)
}
