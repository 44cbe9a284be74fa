// Package assistant talks to the document Q&A and meeting-notes webhooks.
package assistant

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

	"github.com/codemon-ai/make-meeting-room/internal/constants"
	"github.com/codemon-ai/make-meeting-room/internal/models"
)

const (
	DefaultBaseURL = "http://localhost:5678/webhook"

	notesTimeout = 30 * time.Second
	maxBody      = 4 << 20
)

// StatusError is returned for a non-2xx webhook response.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.Endpoint, e.Code)
}

// Note is a stored meeting note.
type Note struct {
	ID          models.FlexString `json:"id"`
	Title       string            `json:"title"`
	Type        string            `json:"type"`
	Source      string            `json:"source"`
	MeetingDate string            `json:"meeting_date"`
	CreatedAt   string            `json:"created_at"`
	Content     string            `json:"content"`
}

// Date returns the meeting date, falling back to the creation date.
func (n Note) Date() string {
	if n.MeetingDate != "" {
		return n.MeetingDate
	}
	if len(n.CreatedAt) >= 10 {
		return n.CreatedAt[:10]
	}
	return n.CreatedAt
}

// SearchHit is one semantic search result.
type SearchHit struct {
	Score   float64 `json:"score"`
	Payload struct {
		ID      models.FlexString `json:"postgres_id"`
		Title   string            `json:"title"`
		Content string            `json:"content"`
	} `json:"payload"`
}

// Client calls the webhooks under a common base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client; an empty baseURL selects DefaultBaseURL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// Ask sends a question to the document assistant and returns its answer
// in Slack markup.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.AssistantTimeout)
	defer cancel()

	var resp struct {
		Answer string `json:"answer"`
	}
	if err := c.post(ctx, "rtb-assistant", map[string]string{"question": question}, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Answer) == "" {
		return "답변을 생성할 수 없습니다.", nil
	}
	return MarkdownToSlack(resp.Answer), nil
}

// ListNotes returns the most recent meeting notes.
func (c *Client) ListNotes(ctx context.Context) ([]Note, error) {
	ctx, cancel := context.WithTimeout(ctx, notesTimeout)
	defer cancel()

	var resp struct {
		Data []Note `json:"data"`
	}
	if err := c.get(ctx, "meeting-notes-list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// SearchNotes runs a semantic search over meeting notes.
func (c *Client) SearchNotes(ctx context.Context, query string) ([]SearchHit, error) {
	ctx, cancel := context.WithTimeout(ctx, notesTimeout)
	defer cancel()

	var resp struct {
		Results []SearchHit `json:"results"`
	}
	if err := c.post(ctx, "meeting-notes-search", map[string]string{"query": query}, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// NoteDetail fetches one meeting note. A missing note is (nil, nil).
func (c *Client) NoteDetail(ctx context.Context, id string) (*Note, error) {
	ctx, cancel := context.WithTimeout(ctx, notesTimeout)
	defer cancel()

	var resp struct {
		Data *Note `json:"data"`
	}
	if err := c.get(ctx, "meeting-notes-detail", url.Values{"id": {id}}, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	u := c.baseURL + "/" + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, endpoint, out)
}

func (c *Client) post(ctx context.Context, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, endpoint, out)
}

func (c *Client) do(req *http.Request, endpoint string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}
