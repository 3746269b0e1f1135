package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrCallFailed = errors.New("gateway call failed")

type Response struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"-"`
	Message string         `json:"message,omitempty"`
	Error   string         `json:"error,omitempty"`
}

type Caller interface {
	Call(ctx context.Context, action string, params map[string]any) (*Response, error)
}

type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Call(ctx context.Context, action string, params map[string]any) (*Response, error) {
	payload := make(map[string]any, len(params)+1)
	for k, v := range params {
		payload[k] = v
	}
	payload["action"] = action

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCallFailed, action, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read body: %v", ErrCallFailed, action, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: %s: status %d", ErrCallFailed, action, resp.StatusCode)
	}

	out, err := decodeResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCallFailed, action, err)
	}
	if !out.Success {
		reason := out.Error
		if reason == "" {
			reason = out.Message
		}
		if reason == "" {
			reason = "success=false"
		}
		return out, fmt.Errorf("%w: %s: %s", ErrCallFailed, action, reason)
	}
	return out, nil
}

// decodeResponse accepts data as an object or as a list, which is wrapped under "items".
func decodeResponse(raw []byte) (*Response, error) {
	var envelope struct {
		Response
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	out := envelope.Response
	trimmed := bytes.TrimSpace(envelope.Data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
	case trimmed[0] == '[':
		var items []any
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode data: %w", err)
		}
		out.Data = map[string]any{"items": items}
	default:
		if err := json.Unmarshal(trimmed, &out.Data); err != nil {
			return nil, fmt.Errorf("decode data: %w", err)
		}
	}
	return &out, nil
}
