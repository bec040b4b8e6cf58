// Package githubapi validates repository URLs and fetches repository
// metadata from the GitHub REST API.
package githubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrInvalidURL means the submitted URL is not a GitHub repository URL.
	ErrInvalidURL = errors.New("githubapi: not a valid GitHub repository URL")
	// ErrNotPublic means GitHub did not serve the repository, whether it is
	// private, missing, or rate limited.
	ErrNotPublic = errors.New("githubapi: repository is not public")
)

var repoURLRe = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/]+)`)

// ParseRepoURL extracts the owner and repository name from a GitHub URL.
// Trailing slashes, a ".git" suffix, and extra path segments are tolerated.
func ParseRepoURL(raw string) (owner, name string, err error) {
	m := repoURLRe.FindStringSubmatch(strings.TrimRight(strings.TrimSpace(raw), "/"))
	if m == nil {
		return "", "", ErrInvalidURL
	}
	return m[1], strings.TrimSuffix(m[2], ".git"), nil
}

// Repository is the subset of GitHub repository metadata the service uses.
type Repository struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Description   string `json:"description"`
	HTMLURL       string `json:"html_url"`
	CloneURL      string `json:"clone_url"`
	DefaultBranch string `json:"default_branch"`
	Owner         Owner  `json:"owner"`
}

// Owner identifies the account a repository belongs to.
type Owner struct {
	Login string `json:"login"`
}

// Client talks to the GitHub REST API. The token is optional; without one,
// lookups run against the anonymous rate limit.
type Client struct {
	http    *http.Client
	token   string
	baseURL string
}

func NewClient(token string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		token:   token,
		baseURL: "https://api.github.com",
	}
}

// Lookup fetches repository metadata. Any non-200 answer reports the
// repository as not public, matching how the analyze endpoint treats it.
func (c *Client) Lookup(ctx context.Context, owner, name string) (*Repository, error) {
	url := c.baseURL + "/repos/" + owner + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w (status %s)", ErrNotPublic, resp.Status)
	}
	var repo Repository
	if err := json.NewDecoder(resp.Body).Decode(&repo); err != nil {
		return nil, err
	}
	return &repo, nil
}
