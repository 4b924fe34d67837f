package zep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Tatch-AI/harper-memory-service/pkg/logger"
	"go.uber.org/zap"
)

// DefaultBaseURL is the Zep cloud API endpoint
const DefaultBaseURL = "https://api.getzep.com/api/v2"

// Client is a minimal Zep v2 REST client covering the user-facts surface
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the Zep API base URL (used against self-hosted Zep and in tests)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithTimeout overrides the default request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new Zep API client
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.Get(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fact is one extracted relationship about a user, as returned by Zep.
// Name carries the relation (e.g. HAS_INDUSTRY), Content the full fact
// sentence, and TargetNodeName the entity on the far side of the edge.
// Metadata is an arbitrary JSON object; values are not required to be strings.
type Fact struct {
	UUID           string         `json:"uuid,omitempty"`
	Name           string         `json:"name"`
	Content        string         `json:"content"`
	SourceNodeName string         `json:"source_node_name,omitempty"`
	TargetNodeName string         `json:"target_node_name,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      string         `json:"created_at,omitempty"`
	ExpiredAt      string         `json:"expired_at,omitempty"`
}

// MetadataString returns the metadata value under key when it is a non-empty
// string. Non-string values are skipped rather than coerced.
func (f *Fact) MetadataString(key string) (string, bool) {
	val, ok := f.Metadata[key].(string)
	return val, ok && val != ""
}

// FactsResponse is the body of GET /users/{id}/facts
type FactsResponse struct {
	Facts []Fact `json:"facts"`
}

// APIError carries the status and body of a non-2xx Zep response
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zep API error (status %d): %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a Zep 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// GetUserFacts retrieves all facts Zep has extracted about a user
func (c *Client) GetUserFacts(ctx context.Context, userID string) (*FactsResponse, error) {
	url := fmt.Sprintf("%s/users/%s/facts", c.baseURL, userID)

	c.logger.Debug("Querying Zep for user facts",
		zap.String("user_id", userID),
		zap.String("url", url),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Api-Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Zep returned non-200 status",
			zap.String("user_id", userID),
			zap.Int("status", resp.StatusCode),
		)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var factsResp FactsResponse
	if err := json.Unmarshal(body, &factsResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	c.logger.Debug("Zep facts retrieved",
		zap.String("user_id", userID),
		zap.Int("fact_count", len(factsResp.Facts)),
	)

	return &factsResp, nil
}
