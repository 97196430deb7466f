package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kalambet/studentwell/internal/api"
	"github.com/kalambet/studentwell/internal/dashboard"
	"github.com/kalambet/studentwell/internal/mood"
	"github.com/kalambet/studentwell/internal/trends"
)

// apiClient talks to a running "studentwell start" server.
type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

func newAPIClient(port int) *apiClient {
	return &apiClient{
		baseURL:    fmt.Sprintf("http://127.0.0.1:%d", port),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *apiClient) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshalling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("server not reachable, is studentwell running? (%w)", err)
	}
	return resp, nil
}

func (c *apiClient) get(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *apiClient) post(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// healthy reports whether the server answers /health within a short timeout.
func (c *apiClient) healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	resp, err := c.get(ctx, "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *apiClient) History(ctx context.Context, limit int) (mood.History, error) {
	path := "/history"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	var h mood.History
	if err := decodeJSON(resp, &h); err != nil {
		return nil, err
	}
	return h, nil
}

func (c *apiClient) CheckIn(ctx context.Context, value int, notes string) (api.CheckInResponse, error) {
	resp, err := c.post(ctx, "/checkins", api.CheckInRequest{Value: value, Notes: notes})
	if err != nil {
		return api.CheckInResponse{}, err
	}
	var out api.CheckInResponse
	if err := decodeJSON(resp, &out); err != nil {
		return api.CheckInResponse{}, err
	}
	return out, nil
}

func (c *apiClient) Trends(ctx context.Context) (trends.Report, error) {
	resp, err := c.get(ctx, "/trends")
	if err != nil {
		return trends.Report{}, err
	}
	var r trends.Report
	if err := decodeJSON(resp, &r); err != nil {
		return trends.Report{}, err
	}
	return r, nil
}

func (c *apiClient) Snapshot(ctx context.Context) (dashboard.Snapshot, error) {
	resp, err := c.get(ctx, "/dashboard")
	if err != nil {
		return dashboard.Snapshot{}, err
	}
	var s dashboard.Snapshot
	if err := decodeJSON(resp, &s); err != nil {
		return dashboard.Snapshot{}, err
	}
	return s, nil
}

func (c *apiClient) Close() error { return nil }

// decodeJSON decodes a success body into v. Error envelopes are turned back
// into the sentinel errors the server mapped them from where possible.
func decodeJSON(resp *http.Response, v any) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("server returned %d (failed to read body: %w)", resp.StatusCode, err)
		}
		var envelope struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &envelope) == nil && envelope.Error.Message != "" {
			if resp.StatusCode == http.StatusConflict {
				return fmt.Errorf("%w (server)", dashboard.ErrAlreadyCheckedIn)
			}
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, envelope.Error.Message)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
