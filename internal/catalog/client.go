package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/bgcoach/pkg/models"
)

// Client fetches lesson definitions from the content service. The core only
// uses this read-only query surface; any non-success response is a
// recoverable failure for the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a catalog client for the given base URL
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ListLessons returns all available mini-lessons
func (c *Client) ListLessons(ctx context.Context) ([]models.Lesson, error) {
	var lessons []models.Lesson
	if err := c.get(ctx, "/content/mini-lessons", &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

// GetLesson returns a single mini-lesson by id
func (c *Client) GetLesson(ctx context.Context, lessonID string) (*models.Lesson, error) {
	var lesson models.Lesson
	path := "/content/mini-lessons/" + url.PathEscape(lessonID)
	if err := c.get(ctx, path, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// LessonsForPattern returns the mini-lessons whose error-pattern set contains
// the given pattern key
func (c *Client) LessonsForPattern(ctx context.Context, pattern string) ([]models.Lesson, error) {
	var lessons []models.Lesson
	path := "/content/mini-lessons/for-error/" + url.PathEscape(pattern)
	if err := c.get(ctx, path, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

// dueRequest is the caller-supplied progress snapshot for due queries
type dueRequest struct {
	LessonProgress map[string]models.LessonProgress `json:"lesson_progress"`
}

// DueLessons returns the mini-lessons due for review given the learner's
// progress snapshot. When the catalog is unreachable it degrades to the
// built-in beginner lessons instead of failing the scheduling tick.
func (c *Client) DueLessons(ctx context.Context, progress map[string]models.LessonProgress) ([]models.Lesson, error) {
	body, err := json.Marshal(dueRequest{LessonProgress: progress})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal progress snapshot: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/content/mini-lessons/due", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var lessons []models.Lesson
	if err := c.do(req, &lessons); err != nil {
		return BeginnerLessons(), nil
	}
	return lessons, nil
}

// get performs a GET request and decodes the JSON response into out
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach catalog: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("catalog returned status %d for %s", resp.StatusCode, req.URL.Path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode catalog response: %v", err)
	}
	return nil
}
