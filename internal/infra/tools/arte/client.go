package arte

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/faq-agent/internal/domain/assistant"
)

const defaultBaseURL = "https://api.arte.tv/api/player/v2/config/de/LIVE"

// Client fetches the ARTE live player configuration.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(baseURL string) *Client {
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = defaultBaseURL
	}
	return &Client{
		baseURL: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type apiResponse struct {
	Data struct {
		Attributes struct {
			Metadata struct {
				Title       string `json:"title"`
				Description string `json:"description"`
			} `json:"metadata"`
		} `json:"attributes"`
	} `json:"data"`
}

// Current returns the program currently on air.
func (c *Client) Current(ctx context.Context) (assistant.Program, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return assistant.Program{}, fmt.Errorf("build arte request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return assistant.Program{}, fmt.Errorf("arte request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return assistant.Program{}, fmt.Errorf("arte request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return assistant.Program{}, fmt.Errorf("decode arte response: %w", err)
	}
	meta := raw.Data.Attributes.Metadata
	if strings.TrimSpace(meta.Title) == "" {
		return assistant.Program{}, fmt.Errorf("arte response has no live program")
	}
	return assistant.Program{
		Title:       strings.TrimSpace(meta.Title),
		Description: strings.TrimSpace(meta.Description),
	}, nil
}

var _ assistant.LiveTV = (*Client)(nil)
