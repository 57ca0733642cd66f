package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deepwrite/deepwrite/internal/constants"
	"github.com/deepwrite/deepwrite/internal/domain"
	"github.com/deepwrite/deepwrite/internal/errors"
)

// ClientConfig holds the settings needed to construct a Client.
type ClientConfig struct {
	// BaseURL is the service endpoint root.
	BaseURL string

	// APIKey authenticates requests. Must not be empty.
	APIKey string

	// TextModel is used for outline, rewrite, and critique requests.
	TextModel string

	// ImageGenerateModel is used for image generation.
	ImageGenerateModel string

	// ImageEditModel is used for image editing.
	ImageEditModel string

	// AspectRatio is applied to generated images.
	AspectRatio string
}

// Client implements Service against a Gemini-style generateContent REST API.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

// Compile-time check that Client implements Service.
var _ Service = (*Client)(nil)

// NewClient creates a generation-service client.
// Returns ErrAPIKeyMissing when no API key is supplied.
func NewClient(cfg ClientConfig, httpClient *http.Client, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.ErrAPIKeyMissing
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "genai").Logger(),
	}, nil
}

// Wire types for the generateContent protocol.

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMimeType string       `json:"responseMimeType,omitempty"`
	ImageConfig      *imageConfig `json:"imageConfig,omitempty"`
}

type imageConfig struct {
	ImageSize   string `json:"imageSize,omitempty"`
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type candidate struct {
	Content content `json:"content"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

// Ping verifies connectivity and credentials with a metadata request for the
// configured text model. No generation happens, so the call is free.
func (c *Client) Ping(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1beta/models/%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.TextModel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := doWithRetry(ctx, c.httpClient, req)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrGenerationRequest, err) //nolint:errorlint // intentional hybrid wrap
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: unexpected status %d", errors.ErrGenerationRequest, resp.StatusCode)
	}
	return nil
}

// GenerateOutline produces a structured outline seeded by the task title and
// the selected topic's overview.
func (c *Client) GenerateOutline(ctx context.Context, title, overview string) ([]domain.OutlineItem, error) {
	raw, err := c.generateText(ctx, outlinePrompt(title, overview), true)
	if err != nil {
		return nil, errors.Wrap(err, "outline generation failed")
	}

	items, ok := parseOutline(raw)
	if !ok {
		c.logger.Warn().Msg("outline response did not parse as a JSON array")
		return nil, errors.ErrMalformedResponse
	}
	return items, nil
}

// RegenerateSection rewrites section content according to an instruction.
func (c *Client) RegenerateSection(ctx context.Context, currentContent, instruction string) (string, error) {
	raw, err := c.generateText(ctx, regeneratePrompt(currentContent, instruction), false)
	if err != nil {
		return "", errors.Wrap(err, "section rewrite failed")
	}
	return strings.TrimSpace(raw), nil
}

// GenerateRefinementSuggestions reviews the draft and returns critique pairs.
// The draft is truncated to RefinementTextLimit runes before the request.
func (c *Client) GenerateRefinementSuggestions(ctx context.Context, fullText string) ([]domain.Suggestion, error) {
	if runes := []rune(fullText); len(runes) > constants.RefinementTextLimit {
		fullText = string(runes[:constants.RefinementTextLimit])
	}

	raw, err := c.generateText(ctx, refinementPrompt(fullText), true)
	if err != nil {
		return nil, errors.Wrap(err, "refinement critique failed")
	}

	suggestions, ok := parseSuggestions(raw)
	if !ok {
		c.logger.Warn().Msg("refinement response did not parse as a JSON array")
		return nil, errors.ErrMalformedResponse
	}
	return suggestions, nil
}

// GenerateImage produces an image for the prompt and returns it as a data URI.
func (c *Client) GenerateImage(ctx context.Context, prompt string, size constants.ImageSize) (string, error) {
	if !size.Valid() {
		return "", errors.ErrInvalidImageSize
	}

	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ImageConfig: &imageConfig{
				ImageSize:   string(size),
				AspectRatio: c.cfg.AspectRatio,
			},
		},
	}

	resp, err := c.generate(ctx, c.cfg.ImageGenerateModel, req)
	if err != nil {
		return "", errors.Wrap(err, "image generation failed")
	}

	uri := firstImageDataURI(resp)
	if uri == "" {
		return "", errors.ErrImageUnavailable
	}
	return uri, nil
}

// EditImage applies an edit instruction to an image supplied as a data URI.
func (c *Client) EditImage(ctx context.Context, imageData, prompt string) (string, error) {
	payload, mimeType := splitDataURI(imageData)
	if payload == "" {
		return "", errors.Wrap(errors.ErrEmptyValue, "image data")
	}

	req := generateRequest{
		Contents: []content{{Parts: []part{
			{InlineData: &inlineData{MimeType: mimeType, Data: payload}},
			{Text: prompt},
		}}},
	}

	resp, err := c.generate(ctx, c.cfg.ImageEditModel, req)
	if err != nil {
		return "", errors.Wrap(err, "image edit failed")
	}

	uri := firstImageDataURI(resp)
	if uri == "" {
		return "", errors.ErrImageUnavailable
	}
	return uri, nil
}

// generateText issues a text request against the configured text model and
// returns the concatenated text parts of the first candidate.
func (c *Client) generateText(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	if jsonMode {
		req.GenerationConfig = &generationConfig{ResponseMimeType: "application/json"}
	}

	resp, err := c.generate(ctx, c.cfg.TextModel, req)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if len(resp.Candidates) > 0 {
		for _, p := range resp.Candidates[0].Content.Parts {
			b.WriteString(p.Text)
		}
	}
	return b.String(), nil
}

// generate issues one generateContent request against the named model.
func (c *Client) generate(ctx context.Context, model string, body generateRequest) (*generateResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request")
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimRight(c.cfg.BaseURL, "/"), model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	c.logger.Debug().Str("model", model).Int("request_bytes", len(data)).Msg("generation request")

	resp, err := doWithRetry(ctx, c.httpClient, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrGenerationRequest, err) //nolint:errorlint // intentional hybrid wrap
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error().Int("status", resp.StatusCode).Str("body", string(snippet)).Msg("generation request rejected")
		return nil, fmt.Errorf("%w: unexpected status %d", errors.ErrGenerationRequest, resp.StatusCode)
	}

	var out generateResponse
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMalformedResponse, err) //nolint:errorlint // intentional hybrid wrap
	}
	return &out, nil
}

// firstImageDataURI scans the first candidate's parts for inline image data
// and returns it as a data URI, or "" when no image part is present.
func firstImageDataURI(resp *generateResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			return fmt.Sprintf("data:%s;base64,%s", p.InlineData.MimeType, p.InlineData.Data)
		}
	}
	return ""
}

// splitDataURI separates a data URI into its base64 payload and mime type.
// Bare base64 input is accepted and assumed to be a PNG.
func splitDataURI(uri string) (payload, mimeType string) {
	mimeType = "image/png"
	if !strings.HasPrefix(uri, "data:") {
		return uri, mimeType
	}

	head, rest, ok := strings.Cut(uri, ",")
	if !ok {
		return "", mimeType
	}
	head = strings.TrimPrefix(head, "data:")
	if mt, _, found := strings.Cut(head, ";"); found && mt != "" {
		mimeType = mt
	}
	return rest, mimeType
}
