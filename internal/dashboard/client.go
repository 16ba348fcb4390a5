/**
 * @description
 * HTTP client for the predictions API, used by the terminal dashboard and CLI.
 *
 * @dependencies
 * - standard "net/http", "encoding/json"
 *
 * @notes
 * - Every call has a 10s timeout.
 * - Non-2xx responses become *APIError carrying the server's {"error"} message.
 */

package dashboard

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

	"github.com/dhrone-predicts/backend/internal/models"
)

// Collection is every category's predictions keyed by category id
type Collection map[string][]models.Prediction

// APIError is a non-2xx response from the API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API returned %d", e.Status)
	}
	return fmt.Sprintf("API returned %d: %s", e.Status, e.Message)
}

// User is the admin identity reported by the API
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Client talks to the predictions API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the API at baseURL, e.g. http://localhost:5000
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken sets the bearer token sent on mutating calls
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current bearer token
func (c *Client) Token() string {
	return c.token
}

// Login exchanges credentials for the admin token and keeps it on the client
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		User    User   `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, false, &resp); err != nil {
		return User{}, err
	}
	c.token = resp.Token
	return resp.User, nil
}

// Verify returns the admin identity
func (c *Client) Verify(ctx context.Context) (User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/verify", nil, nil, false, &resp); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

// ListAll fetches every category
func (c *Client) ListAll(ctx context.Context) (Collection, error) {
	var all Collection
	if err := c.do(ctx, http.MethodGet, "/api/predictions", nil, nil, false, &all); err != nil {
		return nil, err
	}
	return all, nil
}

// ListCategory fetches one category
func (c *Client) ListCategory(ctx context.Context, category string) ([]models.Prediction, error) {
	var preds []models.Prediction
	params := url.Values{"category": {category}}
	if err := c.do(ctx, http.MethodGet, "/api/predictions", params, nil, false, &preds); err != nil {
		return nil, err
	}
	return preds, nil
}

// FetchRows returns the display rows for category, or for every category when it is
// AllCategories. A single category is fetched on its own rather than pulling the
// whole collection.
func (c *Client) FetchRows(ctx context.Context, category string) ([]models.Prediction, error) {
	if category == AllCategories {
		all, err := c.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		return Rows(all, category), nil
	}

	preds, err := c.ListCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return Rows(Collection{category: preds}, category), nil
}

// Create adds a prediction to in.Category
func (c *Client) Create(ctx context.Context, in models.PredictionInput) (*models.Prediction, error) {
	var rec models.Prediction
	if err := c.do(ctx, http.MethodPost, "/api/predictions", nil, in, true, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update merges patch into prediction id within patch.Category
func (c *Client) Update(ctx context.Context, id string, patch models.PredictionPatch) (*models.Prediction, error) {
	var rec models.Prediction
	if err := c.do(ctx, http.MethodPut, "/api/predictions/"+url.PathEscape(id), nil, patch, true, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Delete removes prediction id from category
func (c *Client) Delete(ctx context.Context, category, id string) (*models.Prediction, error) {
	var resp struct {
		Success bool              `json:"success"`
		Deleted models.Prediction `json:"deleted"`
	}
	body := map[string]string{"category": category}
	if err := c.do(ctx, http.MethodDelete, "/api/predictions/"+url.PathEscape(id), nil, body, true, &resp); err != nil {
		return nil, err
	}
	return &resp.Deleted, nil
}

// Internal helpers

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body interface{}, auth bool, target interface{}) error {
	u := c.baseURL + path
	if params != nil {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if auth && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}
	if target == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(target)
}
