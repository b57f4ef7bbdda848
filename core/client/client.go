package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"scribey-companion/core/queue"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	statusPath = "/api/companion/status"
	uploadPath = "/api/companion/upload"
	syncPath   = "/api/companion/sync"
)

// Config holds configuration for the upload transport.
type Config struct {
	// ServerURL is the base URL of the Scribey web service.
	ServerURL string `mapstructure:"server_url" default:"https://app.scribey.gg"`
	// TimeoutSeconds bounds every outbound call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// AppVersion is reported in the X-App-Version header.
	AppVersion string `mapstructure:"app_version" default:"1.4.0"`
}

// DeliveryError reports a non-200 response from the service.
type DeliveryError struct {
	Endpoint   string
	StatusCode int
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed with status %d", e.Endpoint, e.StatusCode)
}

// ServerStatus is the probe result used for diagnostics.
type ServerStatus struct {
	Version string `json:"version"`
	Message string `json:"message"`
	// Latency is measured client-side, not reported by the server.
	Latency time.Duration `json:"-"`
}

// uploadPayload is the body of POST /api/companion/upload.
type uploadPayload struct {
	DeviceID   string             `json:"deviceId"`
	FilePath   string             `json:"filePath"`
	Timestamp  time.Time          `json:"timestamp"`
	AddonData  any                `json:"addonData"`
	Characters []characterSummary `json:"characters"`
}

type characterSummary struct {
	Name  string `json:"name"`
	Realm string `json:"realm"`
	Class string `json:"class"`
}

type syncPayload struct {
	DeviceID  string    `json:"deviceId"`
	ForceSync bool      `json:"forceSync"`
	Timestamp time.Time `json:"timestamp"`
}

// Client talks to the Scribey web service. It implements queue.Deliverer.
type Client struct {
	http       *http.Client
	baseURL    string
	deviceID   string
	appVersion string
	logger     *zap.Logger
	now        func() time.Time

	// The local API may poll the probe; collapse concurrent probes into a
	// single upstream call.
	sf singleflight.Group
}

// New creates a client. deviceID must be the stable identity from the
// settings provider.
func New(cfg Config, deviceID string, logger *zap.Logger) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   timeoutDuration,
		},
		baseURL:    strings.TrimRight(cfg.ServerURL, "/"),
		deviceID:   deviceID,
		appVersion: cfg.AppVersion,
		logger:     logger,
		now:        time.Now,
	}
}

// Deliver uploads a single queued snapshot. Non-200 responses and transport
// failures are both delivery failures; the queue decides about retries.
func (c *Client) Deliver(ctx context.Context, item *queue.Item) error {
	payload := uploadPayload{
		DeviceID:   c.deviceID,
		FilePath:   item.SourcePath,
		Timestamp:  c.now().UTC(),
		AddonData:  item.Snapshot,
		Characters: summarize(item),
	}
	return c.post(ctx, uploadPath, payload)
}

// Status probes the service and measures round-trip latency.
func (c *Client) Status(ctx context.Context) (*ServerStatus, error) {
	result, err, _ := c.sf.Do("status", func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+statusPath, nil)
		if err != nil {
			return nil, err
		}
		c.setHeaders(req)

		start := c.now()
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, &DeliveryError{Endpoint: statusPath, StatusCode: resp.StatusCode}
		}

		status := &ServerStatus{}
		if err := json.NewDecoder(resp.Body).Decode(status); err != nil {
			return nil, fmt.Errorf("malformed status response: %w", err)
		}
		status.Latency = c.now().Sub(start)
		return status, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*ServerStatus), nil
}

// ForceSync issues a direct sync request. It neither drains nor clears the
// queue.
func (c *Client) ForceSync(ctx context.Context) error {
	return c.post(ctx, syncPath, syncPayload{
		DeviceID:  c.deviceID,
		ForceSync: true,
		Timestamp: c.now().UTC(),
	})
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &DeliveryError{Endpoint: path, StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("X-Device-ID", c.deviceID)
	req.Header.Set("X-App-Version", c.appVersion)
	req.Header.Set("Content-Type", "application/json")
}

func summarize(item *queue.Item) []characterSummary {
	summaries := []characterSummary{}
	if item.Snapshot == nil {
		return summaries
	}
	for _, character := range item.Snapshot.Characters {
		summaries = append(summaries, characterSummary{
			Name:  character.Name,
			Realm: character.Realm,
			Class: character.Class,
		})
	}
	return summaries
}
