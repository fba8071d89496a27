package issue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrTokenRequired is returned when a 4xx suggests a private repository
	// and no token was supplied.
	ErrTokenRequired = errors.New("github token required")
	// ErrBadToken is returned when the supplied token is rejected.
	ErrBadToken = errors.New("invalid github token")
	// ErrAPI is returned for other GitHub API failures.
	ErrAPI = errors.New("github api error")
	// ErrBadResponse is returned when the API response has no title.
	ErrBadResponse = errors.New("invalid github response body")
)

const defaultAPIBaseURL = "https://api.github.com"

// Client fetches issue metadata from the GitHub REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a GitHub API client. baseURL is overridable for tests;
// empty selects api.github.com.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchTitle returns the title of the referenced issue. token is optional
// and only needed for private repositories.
func (c *Client) FetchTitle(ctx context.Context, ref Ref, token string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%d", c.baseURL, ref.Owner, ref.Repo, ref.Number)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build github request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPI, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		if token == "" {
			return "", ErrTokenRequired
		}
		return "", ErrBadToken
	default:
		return "", fmt.Errorf("%w: status %d", ErrAPI, resp.StatusCode)
	}

	var body struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", ErrBadResponse
	}
	if body.Title == "" {
		return "", ErrBadResponse
	}
	return body.Title, nil
}
