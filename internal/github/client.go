// Package github pulls open pull requests and their changed files from the
// GitHub REST API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultAPIURL is the public GitHub REST endpoint
const DefaultAPIURL = "https://api.github.com"

// PullRequest is the subset of the pull request payload the transcriber needs
type PullRequest struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	HTMLURL string `json:"html_url"`
}

// PullFile is one changed file of a pull request
type PullFile struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	RawURL   string `json:"raw_url,omitempty"`
	Patch    string `json:"patch,omitempty"`
}

// APIError represents a non-2xx reply from the API
type APIError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GET %s returned status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Client reads pull requests of one repository
type Client struct {
	client *resty.Client
	repo   string
}

// NewClient creates a client for repo ("owner/name"). An empty token makes
// unauthenticated requests.
func NewClient(apiURL, repo, token string) (*Client, error) {
	if strings.Count(repo, "/") != 1 || strings.HasPrefix(repo, "/") || strings.HasSuffix(repo, "/") {
		return nil, fmt.Errorf("repository must be owner/name, got %q", repo)
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	c := resty.New().
		SetBaseURL(strings.TrimRight(apiURL, "/")).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/vnd.github+json").
		SetHeader("User-Agent", "farewatch-fetch-prs")
	if token != "" {
		c.SetAuthToken(token)
	}

	return &Client{client: c, repo: repo}, nil
}

// OpenPullRequests lists the open pull requests, up to 100
func (c *Client) OpenPullRequests(ctx context.Context) ([]PullRequest, error) {
	var prs []PullRequest
	path := fmt.Sprintf("/repos/%s/pulls", c.repo)
	if err := c.getJSON(ctx, path, map[string]string{"state": "open", "per_page": "100"}, &prs); err != nil {
		return nil, fmt.Errorf("list pull requests: %w", err)
	}
	return prs, nil
}

// PullFiles lists the files changed by a pull request
func (c *Client) PullFiles(ctx context.Context, number int) ([]PullFile, error) {
	var files []PullFile
	path := fmt.Sprintf("/repos/%s/pulls/%d/files", c.repo, number)
	if err := c.getJSON(ctx, path, nil, &files); err != nil {
		return nil, fmt.Errorf("list files of #%d: %w", number, err)
	}
	return files, nil
}

// RawContent downloads a file body from its raw URL
func (c *Client) RawContent(ctx context.Context, rawURL string) (string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "*/*").
		Get(rawURL)
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != http.StatusOK {
		return "", &APIError{URL: rawURL, StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return resp.String(), nil
}

func (c *Client) getJSON(ctx context.Context, path string, query map[string]string, out interface{}) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(out).
		Get(path)
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return &APIError{URL: path, StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}
