package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/rocketvote/pollsync/internal/core/domain"
	"github.com/rocketvote/pollsync/internal/core/ports"
)

// Client speaks the poll REST contract: POST /create, GET|PATCH
// /{pollID}, GET|PATCH /create/{creationID} and the /templates CRUD.
// It implements both ports.PollAPI and ports.TemplateAPI.
type Client struct {
	baseURL string
	http    *http.Client
}

var (
	_ ports.PollAPI     = (*Client)(nil)
	_ ports.TemplateAPI = (*Client)(nil)
)

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

type createPollRequest struct {
	Questions []domain.Question `json:"questions"`
	Anonymous bool              `json:"anonymous"`
}

type createPollResponse struct {
	PollID     string `json:"poll_id"`
	CreationID string `json:"creation_id"`
}

func (c *Client) CreatePoll(ctx context.Context, input ports.CreatePollInput) (*ports.CreatedPoll, error) {
	var out createPollResponse
	err := c.do(ctx, http.MethodPost, "/create", createPollRequest{
		Questions: input.Questions,
		Anonymous: input.Anonymous,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("create poll: %w", err)
	}
	if out.PollID == "" || out.CreationID == "" {
		return nil, fmt.Errorf("create poll: server response missing ids")
	}
	return &ports.CreatedPoll{PollID: out.PollID, CreationID: out.CreationID}, nil
}

func (c *Client) FetchSnapshot(ctx context.Context, pollID string) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := c.do(ctx, http.MethodGet, "/"+pollID, nil, &snap); err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *Client) SubmitBallot(ctx context.Context, pollID string, ballot domain.Ballot) error {
	if err := c.do(ctx, http.MethodPatch, "/"+pollID, ballot, nil); err != nil {
		return fmt.Errorf("submit ballot: %w", err)
	}
	return nil
}

type adminViewResponse struct {
	PollID   string           `json:"poll_id"`
	Snapshot *domain.Snapshot `json:"snapshot"`
}

func (c *Client) FetchAdminView(ctx context.Context, creationID string) (*ports.AdminView, error) {
	var out adminViewResponse
	if err := c.do(ctx, http.MethodGet, "/create/"+creationID, nil, &out); err != nil {
		return nil, fmt.Errorf("fetch admin view: %w", err)
	}
	if out.Snapshot == nil {
		return nil, domain.ErrMalformedSnapshot
	}
	if err := out.Snapshot.Validate(); err != nil {
		return nil, err
	}
	return &ports.AdminView{PollID: out.PollID, Snapshot: out.Snapshot}, nil
}

func (c *Client) Reveal(ctx context.Context, creationID string) error {
	body := map[string]bool{"revealed": true}
	if err := c.do(ctx, http.MethodPatch, "/create/"+creationID, body, nil); err != nil {
		return fmt.Errorf("reveal poll: %w", err)
	}
	return nil
}

type templatePayload struct {
	Anonymous bool              `json:"anonymous"`
	Questions []domain.Question `json:"questions"`
}

// ListTemplates returns the organizer's templates sorted by title; the
// wire format is a title-keyed object.
func (c *Client) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	var out map[string]templatePayload
	if err := c.do(ctx, http.MethodGet, "/templates", nil, &out); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	templates := make([]domain.Template, 0, len(out))
	for title, tmpl := range out {
		templates = append(templates, domain.Template{
			Title:     title,
			Anonymous: tmpl.Anonymous,
			Questions: tmpl.Questions,
		})
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].Title < templates[j].Title })
	return templates, nil
}

func (c *Client) SaveTemplate(ctx context.Context, template domain.Template) error {
	if err := c.do(ctx, http.MethodPost, "/templates", template, nil); err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}

func (c *Client) DeleteTemplate(ctx context.Context, title string) error {
	body := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodDelete, "/templates", body, nil); err != nil {
		if errors.Is(err, domain.ErrPollNotFound) {
			return domain.ErrTemplateNotFound
		}
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrPollNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("server returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// undecodable payloads count as protocol violations
		return fmt.Errorf("%w: %v", domain.ErrMalformedSnapshot, err)
	}
	return nil
}
