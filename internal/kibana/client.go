package kibana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the Kibana saved-objects API. Only the space endpoints
// are covered; alert documents go straight to the cluster.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// Config holds Kibana connection settings.
type Config struct {
	URL      string        `mapstructure:"url"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// New constructs a new Client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  cfg.URL,
		username: cfg.Username,
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Space is a Kibana space definition.
type Space struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// EnsureSpace creates the space if it does not already exist. The default
// space always exists and is never created.
func (c *Client) EnsureSpace(ctx context.Context, id string) error {
	if c == nil {
		return fmt.Errorf("kibana client not configured")
	}
	if id == "" || id == "default" {
		return nil
	}

	exists, err := c.spaceExists(ctx, id)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return c.createSpace(ctx, Space{
		ID:          id,
		Name:        id,
		Description: "Created by forge",
	})
}

func (c *Client) spaceExists(ctx context.Context, id string) (bool, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/spaces/space/"+id, nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(request)

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return false, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("kibana response status %d", resp.StatusCode)
	}
}

func (c *Client) createSpace(ctx context.Context, space Space) error {
	bodyBytes, err := json.Marshal(space)
	if err != nil {
		return fmt.Errorf("marshal space: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/spaces/space", bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(request)

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody map[string]interface{}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return fmt.Errorf("kibana response status %d: %v", resp.StatusCode, errBody["message"])
	}
	return nil
}

func (c *Client) setHeaders(r *http.Request) {
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("kbn-xsrf", "true")
	if c.username != "" {
		r.SetBasicAuth(c.username, c.password)
	}
}
