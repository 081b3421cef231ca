package view

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout          = 15 * time.Second
	defaultMaxResponseBytes = int64(4 << 20)
)

// Fetcher lấy JSON từ API báo cáo
type Fetcher interface {
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
}

// APIError là lỗi envelope {code, message, status} do server trả về
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("apre: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("apre: %d: %s", e.StatusCode, e.Message)
}

// Client gọi API báo cáo qua HTTP
type Client struct {
	baseURL  string
	client   *http.Client
	maxBytes int64
}

// NewClient tạo client. baseURL gồm cả prefix /api, ví dụ http://localhost:8080/api.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("apre: base url is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("apre: invalid base url %q", baseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("apre: base url scheme must be http or https")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: baseURL, client: httpClient, maxBytes: defaultMaxResponseBytes}, nil
}

// GetJSON gửi GET tới baseURL+path và decode body vào out.
// Status ngoài 2xx trả về *APIError.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("apre: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("apre: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return fmt.Errorf("apre: read response: %w", err)
	}
	if int64(len(data)) > c.maxBytes {
		return fmt.Errorf("apre: response too large")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &envelope) == nil && envelope.Message != "" {
			apiErr.Code = envelope.Code
			apiErr.Message = envelope.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
			if apiErr.Message == "" {
				apiErr.Message = resp.Status
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("apre: decode response: %w", err)
	}
	return nil
}
