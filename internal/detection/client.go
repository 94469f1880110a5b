package detection

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/fring-api/internal/domain/common"
	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/retry"
)

// Detector extracts clothing attributes from a label photo
type Detector interface {
	Detect(ctx context.Context, image []byte, mimeType string) (*Result, error)
}

// Client calls the hosted detection function
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	retry    retry.Options
	log      *log.Logger
}

// NewClient creates a detection client. An empty endpoint makes Detect fail as unavailable.
func NewClient(endpoint, apiKey string, opts retry.Options) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   strings.TrimSpace(apiKey),
		http:     &http.Client{Timeout: 30 * time.Second},
		retry:    opts,
		log:      logger.Client("detection"),
	}
}

type detectRequest struct {
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

type detectResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// Detect sends the image and parses the model's fixed-format answer
func (c *Client) Detect(ctx context.Context, image []byte, mimeType string) (*Result, error) {
	if c.endpoint == "" {
		return nil, common.NewUnavailableError("detection is not configured", nil)
	}
	if len(image) == 0 {
		return nil, common.NewValidationError("image is required")
	}

	payload, err := json.Marshal(detectRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(image),
		MimeType:    mimeType,
	})
	if err != nil {
		return nil, common.NewInternalError("failed to build detection request", err)
	}

	text, err := retry.Do(ctx, func(ctx context.Context) (string, error) {
		return c.call(ctx, payload)
	}, c.retry)
	if err != nil {
		c.log.Error("Detection failed", "size", len(image), "error", err)
		if retry.IsRetryable(err) {
			return nil, common.NewUnavailableError("detection service unavailable", err)
		}
		return nil, common.NewInternalError("detection failed", err)
	}

	result := Parse(text)
	c.log.Debug("Detection parsed", "color", result.Color, "category", result.Category)
	return &result, nil
}

func (c *Client) call(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build detection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach detection service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read detection response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &retry.StatusError{Provider: "detection", StatusCode: resp.StatusCode}
	}

	var parsed detectResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse detection response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("detection error: %s", parsed.Error)
	}
	return parsed.Text, nil
}
