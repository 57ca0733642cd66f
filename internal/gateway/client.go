// Package gateway provides the REST client for the DeepWrite persistence
// gateway. The gateway owns project records and the topic generate/analyze/
// confirm endpoints; this client is the only component that talks to it.
//
// All responses use the gateway envelope {code, message, data}; code 200
// means success and anything else is surfaced as ErrGatewayRequest with the
// gateway's message attached.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deepwrite/deepwrite/internal/domain"
	"github.com/deepwrite/deepwrite/internal/errors"
)

// Service defines the gateway operations the workflow controllers need.
// The interface exists so controller tests can substitute a fake.
type Service interface {
	// CreateProject creates a new project record and returns it.
	CreateProject(ctx context.Context) (*domain.Project, error)

	// GetProject fetches one project by id.
	GetProject(ctx context.Context, id int64) (*domain.Project, error)

	// ListProjects lists projects, optionally scoped to a user.
	// Failures degrade to an empty result rather than propagating.
	ListProjects(ctx context.Context, userID int64) ([]domain.Project, error)

	// GenerateTopics asks the gateway to produce topic candidates for the
	// project from the supplied idea text.
	GenerateTopics(ctx context.Context, projectID int64, initialIdea string) ([]domain.TopicCandidate, error)

	// AnalyzeTopic uploads a proposal document for structured critique.
	// filename names the uploaded file; titleHint carries the user's prompt.
	AnalyzeTopic(ctx context.Context, projectID int64, filename string, document io.Reader, titleHint string) (*domain.TopicAnalysis, error)

	// ConfirmTopic records the chosen thesis title for the project.
	ConfirmTopic(ctx context.Context, projectID int64, title string) error
}

// envelope is the gateway's standard response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client implements Service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Compile-time check that Client implements Service.
var _ Service = (*Client)(nil)

// NewClient creates a gateway client. baseURL is the API root, e.g.
// "http://localhost:8080/api/core/v1"; a trailing slash is tolerated.
func NewClient(baseURL string, httpClient *http.Client, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger.With().Str("component", "gateway").Logger(),
	}
}

// CreateProject creates a new project record.
func (c *Client) CreateProject(ctx context.Context) (*domain.Project, error) {
	var project domain.Project
	if err := c.do(ctx, http.MethodPost, "/projects", nil, "", &project); err != nil {
		return nil, errors.Wrap(err, "failed to create project")
	}
	return &project, nil
}

// GetProject fetches one project by id.
func (c *Client) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	var project domain.Project
	path := fmt.Sprintf("/projects/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, "", &project); err != nil {
		return nil, errors.Wrapf(err, "failed to get project %d", id)
	}
	return &project, nil
}

// ListProjects lists projects. Errors degrade to an empty slice so a dead
// gateway never blocks the UI from starting.
func (c *Client) ListProjects(ctx context.Context, userID int64) ([]domain.Project, error) {
	path := "/projects"
	if userID > 0 {
		path = fmt.Sprintf("/projects?userId=%d", userID)
	}

	var projects []domain.Project
	if err := c.do(ctx, http.MethodGet, path, nil, "", &projects); err != nil {
		c.logger.Warn().Err(err).Msg("project listing failed, returning empty result")
		return []domain.Project{}, nil
	}
	return projects, nil
}

// GenerateTopics asks the gateway to produce topic candidates.
func (c *Client) GenerateTopics(ctx context.Context, projectID int64, initialIdea string) ([]domain.TopicCandidate, error) {
	body := map[string]string{"initialIdea": initialIdea}
	path := fmt.Sprintf("/projects/%d/topics/generate", projectID)

	var candidates []domain.TopicCandidate
	if err := c.do(ctx, http.MethodPost, path, body, "", &candidates); err != nil {
		return nil, errors.Wrap(err, "topic generation failed")
	}
	return candidates, nil
}

// AnalyzeTopic uploads a proposal document as multipart/form-data and returns
// the structured critique.
func (c *Client) AnalyzeTopic(ctx context.Context, projectID int64, filename string, document io.Reader, titleHint string) (*domain.TopicAnalysis, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build upload")
	}
	if _, err = io.Copy(part, document); err != nil {
		return nil, errors.Wrap(err, "failed to read document")
	}
	if err = writer.WriteField("topicTitle", titleHint); err != nil {
		return nil, errors.Wrap(err, "failed to build upload")
	}
	if err = writer.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to build upload")
	}

	path := fmt.Sprintf("/projects/%d/topics/analyze", projectID)
	var analysis domain.TopicAnalysis
	if err = c.doRaw(ctx, http.MethodPost, path, bytes.NewReader(buf.Bytes()), writer.FormDataContentType(), &analysis); err != nil {
		return nil, errors.Wrap(err, "topic analysis failed")
	}
	return &analysis, nil
}

// ConfirmTopic records the chosen thesis title for the project.
func (c *Client) ConfirmTopic(ctx context.Context, projectID int64, title string) error {
	body := map[string]string{"title": title}
	path := fmt.Sprintf("/projects/%d/topics/confirm", projectID)

	if err := c.do(ctx, http.MethodPost, path, body, "", nil); err != nil {
		return errors.Wrap(err, "topic confirmation failed")
	}
	return nil
}

// do issues a JSON request and decodes the envelope's data into out.
// body, when non-nil, is JSON-encoded. out may be nil for calls whose data
// payload is irrelevant.
func (c *Client) do(ctx context.Context, method, path string, body any, contentType string, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request")
		}
		reader = bytes.NewReader(data)
		if contentType == "" {
			contentType = "application/json"
		}
	}
	return c.doRaw(ctx, method, path, reader, contentType, out)
}

// doRaw issues the request and handles the envelope protocol.
func (c *Client) doRaw(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.Debug().Str("method", method).Str("path", path).Msg("gateway request")

	resp, err := doWithRetry(ctx, c.httpClient, req)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrGatewayRequest, err) //nolint:errorlint // intentional hybrid wrap
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: unexpected status %d", errors.ErrGatewayRequest, resp.StatusCode)
	}

	var env envelope
	if err = json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrMalformedResponse, err) //nolint:errorlint // intentional hybrid wrap
	}
	if env.Code != http.StatusOK {
		msg := env.Message
		if msg == "" {
			msg = "request rejected"
		}
		return fmt.Errorf("%w: %s", errors.ErrGatewayRequest, msg)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err = json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrMalformedResponse, err) //nolint:errorlint // intentional hybrid wrap
	}
	return nil
}
