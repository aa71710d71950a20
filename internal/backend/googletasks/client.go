// Package googletasks mirrors task changes into a Google Tasks list.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todod/internal/config"
	"todod/internal/service"
)

const (
	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	// notesPrefix tags mirrored Google tasks with the local id.
	notesPrefix = "todod:"

	statusCompleted = "completed"
)

// errStop ends page iteration early.
var errStop = errors.New("stop")

// Client writes to one Google Tasks list.
type Client struct {
	svc    *tasks.Service
	listID string
}

// New creates a client for the list named listName.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config, listName string) (*Client, error) {
	// Load OAuth client config
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	// Load token
	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json (run: todod login): %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// The token source outlives ctx's callers, so it refreshes on its own context.
	tokenSource := oauthConfig.TokenSource(context.Background(), &token)
	httpClient := oauth2.NewClient(context.Background(), tokenSource)

	return NewWithHTTPClient(ctx, httpClient, listName)
}

// NewWithHTTPClient creates a client with a custom HTTP client and resolves
// listName. Extra options (e.g. option.WithEndpoint in tests) are passed to
// the Tasks service.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listName string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	c := &Client{svc: svc}
	listID, err := c.resolveList(ctx, listName)
	if err != nil {
		return nil, err
	}
	c.listID = listID
	return c, nil
}

// ListID returns the resolved Google list id.
func (c *Client) ListID() string {
	return c.listID
}

// resolveList finds a list by name (case-insensitive, trimmed).
func (c *Client) resolveList(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	nameLower := strings.ToLower(name)

	var matches []string
	err := c.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			if strings.ToLower(strings.TrimSpace(list.Title)) == nameLower {
				matches = append(matches, list.Id)
			}
		}
		return nil
	})
	if err != nil {
		return "", wrapError(err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("list not found: %s", name)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous list name: %s", name)
	}
}

// InsertTask creates a Google task for t.
func (c *Client) InsertTask(ctx context.Context, t service.Task) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	gt := &tasks.Task{Title: t.Title, Notes: notesFor(t)}
	if t.IsDone {
		gt.Status = statusCompleted
	}
	if _, err := c.svc.Tasks.Insert(c.listID, gt).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

// CompleteTask marks the Google task mirroring local id as completed.
func (c *Client) CompleteTask(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var remoteID string
	err := c.svc.Tasks.List(c.listID).
		MaxResults(100).
		ShowCompleted(true).
		ShowHidden(true).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, gt := range resp.Items {
				if localID(gt.Notes) == id {
					remoteID = gt.Id
					return errStop
				}
			}
			return nil
		})
	if err != nil && !errors.Is(err, errStop) {
		return wrapError(err)
	}
	if remoteID == "" {
		return fmt.Errorf("no mirrored task for id %d", id)
	}

	_, err = c.svc.Tasks.Patch(c.listID, remoteID, &tasks.Task{
		Status: statusCompleted,
	}).Context(ctx).Do()
	if err != nil {
		return wrapError(err)
	}
	return nil
}

func notesFor(t service.Task) string {
	return fmt.Sprintf("%s%d priority:%s", notesPrefix, t.ID, t.Priority)
}

// localID extracts the local id from mirrored notes, or 0.
func localID(notes string) int {
	rest, ok := strings.CutPrefix(notes, notesPrefix)
	if !ok {
		return 0
	}
	if i := strings.IndexByte(rest, ' '); i >= 0 {
		rest = rest[:i]
	}
	id, err := strconv.Atoi(rest)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	// Check for timeout
	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}

	// Check for auth errors
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("token expired or revoked (run: todod login)")
	}

	// Check for not found
	if strings.Contains(errStr, "404") {
		return fmt.Errorf("not found")
	}

	return err
}
