package backstagesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Backstage HTTP API client.
type Client struct {
	BaseURL     string
	BasePath    string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:  baseURL,
		BasePath: "/v0",
		Timeout:  10 * time.Second,
	}
}

// Token is the login response.
type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Show represents the API show model (partial).
type Show struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Date      string `json:"date,omitempty"`
	StartTime string `json:"start_time,omitempty"`
}

// Item represents a running-order entry (partial).
type Item struct {
	ID          string `json:"id"`
	ShowID      string `json:"show_id"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Order       int    `json:"order"`
	DurationMin int    `json:"duration_min"`
}

// Warning is a conflict between adjacent items.
type Warning struct {
	Kind       string `json:"kind"`
	FromItemID string `json:"from_item_id"`
	ToItemID   string `json:"to_item_id"`
	PersonID   string `json:"person_id,omitempty"`
	Channel    string `json:"channel,omitempty"`
	Message    string `json:"message"`
}

// HistoryResult reports an undo or redo step.
type HistoryResult struct {
	Applied bool `json:"applied"`
	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`
}

// Version is a named snapshot without its payload.
type Version struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	CreatedAt string `json:"created_at"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// Login exchanges the shared password for a token and keeps it for later
// calls.
func (c *Client) Login(ctx context.Context, password string) (Token, error) {
	var resp Token
	if err := c.do(ctx, http.MethodPost, "auth/login", map[string]any{"password": password}, &resp); err != nil {
		return Token{}, err
	}
	c.BearerToken = resp.Token
	return resp, nil
}

func (c *Client) Shows(ctx context.Context) ([]Show, error) {
	var resp []Show
	err := c.do(ctx, http.MethodGet, "shows", nil, &resp)
	return resp, err
}

func (c *Client) CreateShow(ctx context.Context, name string) (Show, error) {
	var resp Show
	err := c.do(ctx, http.MethodPost, "shows", map[string]any{"name": name}, &resp)
	return resp, err
}

func (c *Client) Items(ctx context.Context, showID string) ([]Item, error) {
	var resp []Item
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("shows/%s/items", url.PathEscape(showID)), nil, &resp)
	return resp, err
}

// AddItem appends an item of kind to the show's running order.
func (c *Client) AddItem(ctx context.Context, showID, kind, title string, durationMin int) (Item, error) {
	body := map[string]any{"kind": kind}
	if title != "" {
		body["title"] = title
	}
	if durationMin > 0 {
		body["duration_min"] = durationMin
	}
	var resp Item
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("shows/%s/items", url.PathEscape(showID)), body, &resp)
	return resp, err
}

// MoveItem places dragID directly before overID.
func (c *Client) MoveItem(ctx context.Context, dragID, overID string) ([]Item, error) {
	var resp []Item
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("items/%s/move", url.PathEscape(dragID)), map[string]any{"over_id": overID}, &resp)
	return resp, err
}

func (c *Client) Conflicts(ctx context.Context, showID string) ([]Warning, error) {
	var resp []Warning
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("shows/%s/conflicts", url.PathEscape(showID)), nil, &resp)
	return resp, err
}

func (c *Client) Undo(ctx context.Context) (HistoryResult, error) {
	var resp HistoryResult
	err := c.do(ctx, http.MethodPost, "history/undo", nil, &resp)
	return resp, err
}

func (c *Client) Redo(ctx context.Context) (HistoryResult, error) {
	var resp HistoryResult
	err := c.do(ctx, http.MethodPost, "history/redo", nil, &resp)
	return resp, err
}

func (c *Client) Versions(ctx context.Context) ([]Version, error) {
	var resp []Version
	err := c.do(ctx, http.MethodGet, "versions", nil, &resp)
	return resp, err
}

func (c *Client) SaveVersion(ctx context.Context, label string) (Version, error) {
	var resp Version
	err := c.do(ctx, http.MethodPost, "versions", map[string]any{"label": label}, &resp)
	return resp, err
}

func (c *Client) RestoreVersion(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("versions/%s/restore", url.PathEscape(id)), nil, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.Trim(c.BasePath, "/")
}
