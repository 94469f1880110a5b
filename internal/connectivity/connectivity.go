package connectivity

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/fring-api/internal/logger"
)

// DefaultTimeout bounds a single probe
const DefaultTimeout = 3 * time.Second

// Checker probes a health URL to tell whether outbound calls can succeed
type Checker struct {
	probeURL string
	timeout  time.Duration
	client   *http.Client
	log      *log.Logger
}

// NewChecker creates a checker for probeURL. An empty URL disables probing.
func NewChecker(probeURL string, timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{
		probeURL: probeURL,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
		log:      logger.WithContext("component", "connectivity"),
	}
}

// Online reports whether the probe URL answered with a non-5xx status in time
func (c *Checker) Online(ctx context.Context) bool {
	if c == nil || c.probeURL == "" {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.probeURL, nil)
	if err != nil {
		c.log.Error("Invalid connectivity probe URL", "url", c.probeURL, "error", err)
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("Connectivity probe failed", "url", c.probeURL, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		c.log.Warn("Connectivity probe unhealthy", "url", c.probeURL, "status", resp.StatusCode)
		return false
	}
	return true
}
