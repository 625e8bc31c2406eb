// Package devicegw talks to the LAN gateway that bridges the ZKTeco
// terminal's binary protocol onto HTTP. The gateway holds the actual device
// socket; this client drives one session per sync conversation.
package devicegw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"attendance.service/internal/ports/device"
)

// HTTPClient implements device.Client over the gateway's REST surface.
type HTTPClient struct {
	client   *http.Client
	baseURL  string
	deviceID string
}

// NewHTTPClient new HTTPClient
func NewHTTPClient(baseURL, deviceID string) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:  baseURL,
		deviceID: deviceID,
	}
}

func (c *HTTPClient) Connect(ctx context.Context) error {
	return c.post(ctx, "/connect", nil, nil)
}

func (c *HTTPClient) Disconnect(ctx context.Context) error {
	return c.post(ctx, "/disconnect", nil, nil)
}

// GetEvents pulls the full buffered attendance log from the terminal.
func (c *HTTPClient) GetEvents(ctx context.Context) ([]device.RawEvent, error) {
	url := fmt.Sprintf("%s/devices/%s/attendance", c.baseURL, c.deviceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call device gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("device gateway returned non-successful status code: %d", resp.StatusCode)
	}

	var payload struct {
		Events []device.RawEvent `json:"events"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return payload.Events, nil
}

func (c *HTTPClient) ClearEvents(ctx context.Context) error {
	return c.post(ctx, "/attendance/clear", nil, nil)
}

func (c *HTTPClient) EnrollUser(ctx context.Context, uniqueID, name string) error {
	body := map[string]string{"userId": uniqueID, "name": name}
	return c.post(ctx, "/users", body, nil)
}

func (c *HTTPClient) DeleteUser(ctx context.Context, uniqueID string) error {
	body := map[string]string{"userId": uniqueID}
	return c.post(ctx, "/users/delete", body, nil)
}

func (c *HTTPClient) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to marshal gateway payload: %w", err)
		}
	}

	url := fmt.Sprintf("%s/devices/%s%s", c.baseURL, c.deviceID, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return fmt.Errorf("failed to create gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call device gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("device gateway returned non-successful status code: %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode gateway response: %w", err)
		}
	}
	return nil
}
