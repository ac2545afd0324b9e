// Package engine talks to the host's tool-execution engine over HTTP.
package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/bobmcallan/toolbridge/internal/config"
	"github.com/bobmcallan/toolbridge/internal/models"
)

// invokePath is the engine endpoint that runs one tool.
const invokePath = "/tools/invoke"

// healthPath answers 200 while the engine is accepting invocations.
const healthPath = "/health"

// pingTimeout bounds a health check independently of the invoke timeout.
const pingTimeout = 3 * time.Second

// maxErrorBodySize caps how much of a failed response is read (1MB).
const maxErrorBodySize = 1 << 20

// maxLineSize caps a single NDJSON message line (16MB).
const maxLineSize = 16 << 20

// Client invokes tools on the engine. Responses are streamed back as
// newline-delimited {"type": ..., "message": {...}} objects.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
}

// NewClient creates an engine client from config.
func NewClient(cfg config.EngineConfig, logger *common.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
		logger: logger,
	}
}

// BaseURL returns the configured engine URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Invoke starts the tool described by inv. The returned sequence yields each
// message part as it arrives and must be ranged over to release the
// connection.
func (c *Client) Invoke(ctx context.Context, inv models.Invocation) (iter.Seq2[models.MessagePart, error], error) {
	payload, err := json.Marshal(inv)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invocation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+invokePath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/x-ndjson")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Debug().Str("tool", inv.ToolName).Str("provider", inv.Provider).Msg("engine request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Error().Str("tool", inv.ToolName).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("engine request failed")
		return nil, fmt.Errorf("engine request failed: %w", err)
	}

	c.logger.Debug().Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("engine response")

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, parseErrorResponse(resp.StatusCode, body)
	}

	return streamParts(resp.Body), nil
}

// Ping checks that the engine is reachable and healthy.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("engine unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return parseErrorResponse(resp.StatusCode, body)
	}
	return nil
}

// streamParts decodes one message part per non-blank line of body and closes
// body when iteration ends.
func streamParts(body io.ReadCloser) iter.Seq2[models.MessagePart, error] {
	return func(yield func(models.MessagePart, error) bool) {
		defer body.Close()

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			var part models.MessagePart
			if err := json.Unmarshal(line, &part); err != nil {
				yield(models.MessagePart{}, fmt.Errorf("failed to decode engine message: %w", err))
				return
			}
			if !yield(part, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(models.MessagePart{}, fmt.Errorf("failed to read engine response: %w", err))
		}
	}
}

// parseErrorResponse extracts a meaningful error message from an HTTP error response.
func parseErrorResponse(statusCode int, body []byte) error {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		if errResp.Message != "" {
			return fmt.Errorf("%s", errResp.Message)
		}
	}
	return fmt.Errorf("engine returned %d: %s", statusCode, strings.TrimSpace(string(body)))
}
