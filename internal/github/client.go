// Package github looks up public repositories through the GitHub REST API.
package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"devconnect/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultBaseURL = "https://api.github.com"
	repoLimit      = 5
)

// Repo is the subset of a GitHub repository shown on a profile.
type Repo struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Stars       int    `json:"stargazers_count"`
	Watchers    int    `json:"watchers_count"`
	Forks       int    `json:"forks_count"`
}

// Client fetches repositories. OAuth app credentials raise the rate limit
// when configured.
type Client struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// NewClient returns a client for api.github.com.
func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		BaseURL:      defaultBaseURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Timeout:      5 * time.Second,
	}
}

// Repos returns the user's most recently created public repositories.
// A non-200 answer from GitHub is reported as NOT_FOUND.
func (c *Client) Repos(username string) ([]Repo, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.ContainsAny(username, "/?#") {
		return nil, models.NewValidationError("Invalid GitHub username")
	}

	agent := fiber.Get(c.reposURL(username))
	agent.Set(fiber.HeaderUserAgent, "devconnect")
	agent.Set(fiber.HeaderAccept, "application/vnd.github+json")
	if c.ClientID != "" && c.ClientSecret != "" {
		agent.BasicAuth(c.ClientID, c.ClientSecret)
	}
	agent.Timeout(c.Timeout)
	if err := agent.Parse(); err != nil {
		return nil, models.NewUpstreamError("GitHub", err)
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, models.NewUpstreamError("GitHub", errors.Join(errs...))
	}
	if status != fiber.StatusOK {
		return nil, &models.AppError{
			Code:    models.CodeNotFound,
			Message: "No Github profile found",
		}
	}

	var repos []Repo
	if err := json.Unmarshal(body, &repos); err != nil {
		return nil, models.NewUpstreamError("GitHub", fmt.Errorf("decode repos: %w", err))
	}
	return repos, nil
}

func (c *Client) reposURL(username string) string {
	base := strings.TrimRight(c.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	q := url.Values{}
	q.Set("per_page", fmt.Sprint(repoLimit))
	q.Set("sort", "created")
	q.Set("direction", "desc")
	return base + "/users/" + url.PathEscape(username) + "/repos?" + q.Encode()
}
