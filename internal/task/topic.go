package task

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deepwrite/deepwrite/internal/constants"
	"github.com/deepwrite/deepwrite/internal/domain"
	"github.com/deepwrite/deepwrite/internal/errors"
	"github.com/deepwrite/deepwrite/internal/gateway"
)

// TopicController owns the topic-selection step. It runs two mutually
// exclusive sub-flows chosen by the task's topic mode: the new-topic flow
// (generate candidates, pick one, confirm) and the existing-topic flow
// (upload a proposal for analysis, confirm the derived title). Both flows
// route through the gateway and require a numeric project id; without one the
// operation aborts locally before any network call.
//
// Candidate lists and analysis results are session state: they live in the
// controller, not the task, because regeneration replaces them wholesale and
// nothing downstream reads them once a topic is confirmed.
type TopicController struct {
	tasks   *Collection
	gateway gateway.Service
	logger  zerolog.Logger

	mu            sync.Mutex
	candidates    map[string][]domain.Topic
	analyses      map[string]string
	analysisFiles map[string]string
}

// NewTopicController creates the topic-selection controller.
func NewTopicController(tasks *Collection, gw gateway.Service, logger zerolog.Logger) *TopicController {
	return &TopicController{
		tasks:         tasks,
		gateway:       gw,
		logger:        logger.With().Str("component", "topic").Logger(),
		candidates:    make(map[string][]domain.Topic),
		analyses:      make(map[string]string),
		analysisFiles: make(map[string]string),
	}
}

// ChooseMode records which topic-acquisition path the user picked.
func (c *TopicController) ChooseMode(taskID string, mode constants.TopicMode) {
	c.tasks.Update(taskID, domain.TaskPatch{TopicMode: domain.ModePtr(mode)})
}

// GenerateCandidates requests topic candidates for the new-topic flow.
// Major and direction are required; researchInterest is optional. Each
// candidate gets a locally generated id that is not stable across
// re-generation. On failure the previous candidate list is kept.
func (c *TopicController) GenerateCandidates(ctx context.Context, taskID, major, direction, researchInterest string) ([]domain.Topic, error) {
	if major == "" {
		return nil, errors.Wrap(errors.ErrEmptyValue, "major")
	}
	if direction == "" {
		return nil, errors.Wrap(errors.ErrEmptyValue, "direction")
	}

	t, ok := c.tasks.Get(taskID)
	if !ok {
		return nil, errors.ErrTaskNotFound
	}
	projectID, ok := t.ProjectID()
	if !ok {
		return nil, errors.ErrInvalidProjectID
	}

	idea := fmt.Sprintf("Major: %s, Direction: %s.", major, direction)
	if researchInterest != "" {
		idea += " Interest: " + researchInterest
	}

	raw, err := c.gateway.GenerateTopics(ctx, projectID, idea)
	if err != nil {
		c.logger.Error().Err(err).Str("task_id", taskID).Msg("topic generation failed")
		return nil, errors.Wrap(err, "topic generation failed")
	}

	topics := make([]domain.Topic, 0, len(raw))
	for _, cand := range raw {
		topics = append(topics, domain.Topic{
			ID:         uuid.NewString(),
			Title:      cand.Title,
			Overview:   cand.Overview,
			FullDetail: cand.Overview,
		})
	}

	c.mu.Lock()
	c.candidates[taskID] = topics
	c.mu.Unlock()

	c.logger.Info().Str("task_id", taskID).Int("count", len(topics)).Msg("topic candidates generated")
	return topics, nil
}

// Candidates returns the task's current candidate list.
func (c *TopicController) Candidates(taskID string) []domain.Topic {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.Topic, len(c.candidates[taskID]))
	copy(out, c.candidates[taskID])
	return out
}

// SelectCandidate commits a candidate as the task's selected topic. The task
// stores a copy, so re-generating the candidate list cannot mutate the
// selection. Returns false when the candidate id is unknown.
func (c *TopicController) SelectCandidate(taskID, candidateID string) bool {
	c.mu.Lock()
	var picked *domain.Topic
	for i := range c.candidates[taskID] {
		if c.candidates[taskID][i].ID == candidateID {
			topic := c.candidates[taskID][i]
			picked = &topic
			break
		}
	}
	c.mu.Unlock()

	if picked == nil {
		return false
	}
	_, ok := c.tasks.Update(taskID, domain.TaskPatch{SelectedTopic: picked})
	return ok
}

// ClearSelection returns from a topic's detail view to the candidate list.
func (c *TopicController) ClearSelection(taskID string) {
	c.tasks.Update(taskID, domain.TaskPatch{ClearSelectedTopic: true})
}

// ConfirmSelection records the selected topic's title with the gateway, sets
// it as the task title, and signals step completion. Returns the step entered.
func (c *TopicController) ConfirmSelection(ctx context.Context, taskID string) (constants.WorkflowStep, error) {
	t, ok := c.tasks.Get(taskID)
	if !ok {
		return 0, errors.ErrTaskNotFound
	}
	if t.SelectedTopic == nil {
		return 0, errors.ErrNoTopicSelected
	}
	projectID, ok := t.ProjectID()
	if !ok {
		return 0, errors.ErrInvalidProjectID
	}

	title := t.SelectedTopic.Title
	if err := c.gateway.ConfirmTopic(ctx, projectID, title); err != nil {
		c.logger.Error().Err(err).Str("task_id", taskID).Msg("topic confirmation failed")
		return 0, errors.Wrap(err, "topic confirmation failed")
	}

	c.tasks.Update(taskID, domain.TaskPatch{Title: domain.StringPtr(title)})
	entered, _ := c.tasks.Advance(taskID)

	c.logger.Info().Str("task_id", taskID).Str("title", title).Msg("topic confirmed")
	return entered, nil
}

// AnalyzeExisting submits an uploaded proposal and/or free-text prompt for
// structured critique and returns the formatted result. At least one of the
// two inputs is required; empty submissions are rejected before any call.
func (c *TopicController) AnalyzeExisting(ctx context.Context, taskID, filename string, document io.Reader, prompt string) (string, error) {
	if document == nil && prompt == "" {
		return "", errors.ErrNoAnalysisInput
	}

	t, ok := c.tasks.Get(taskID)
	if !ok {
		return "", errors.ErrTaskNotFound
	}
	projectID, ok := t.ProjectID()
	if !ok {
		return "", errors.ErrInvalidProjectID
	}

	if prompt != "" {
		c.tasks.Update(taskID, domain.TaskPatch{TopicPrompt: domain.StringPtr(prompt)})
	}

	titleHint := prompt
	if titleHint == "" {
		titleHint = "Untitled Topic"
	}

	analysis, err := c.gateway.AnalyzeTopic(ctx, projectID, filename, document, titleHint)
	if err != nil {
		c.logger.Error().Err(err).Str("task_id", taskID).Msg("topic analysis failed")
		return "", errors.Wrap(err, "topic analysis failed")
	}

	formatted := formatAnalysis(analysis)

	c.mu.Lock()
	c.analyses[taskID] = formatted
	c.analysisFiles[taskID] = filename
	c.mu.Unlock()

	return formatted, nil
}

// Analysis returns the formatted analysis result for the task, if any.
func (c *TopicController) Analysis(taskID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.analyses[taskID]
}

// ConfirmAnalysis records the existing-flow title with the gateway and
// signals step completion. The title is derived from the uploaded filename,
// then the task's own title, then a fixed fallback, in that order.
func (c *TopicController) ConfirmAnalysis(ctx context.Context, taskID string) (constants.WorkflowStep, error) {
	t, ok := c.tasks.Get(taskID)
	if !ok {
		return 0, errors.ErrTaskNotFound
	}
	projectID, ok := t.ProjectID()
	if !ok {
		return 0, errors.ErrInvalidProjectID
	}

	c.mu.Lock()
	filename := c.analysisFiles[taskID]
	c.mu.Unlock()

	title := confirmTitle(filename, t.Title)
	if err := c.gateway.ConfirmTopic(ctx, projectID, title); err != nil {
		c.logger.Error().Err(err).Str("task_id", taskID).Msg("topic confirmation failed")
		return 0, errors.Wrap(err, "topic confirmation failed")
	}

	c.tasks.Update(taskID, domain.TaskPatch{Title: domain.StringPtr(title)})
	entered, _ := c.tasks.Advance(taskID)

	c.logger.Info().Str("task_id", taskID).Str("title", title).Msg("existing topic confirmed")
	return entered, nil
}

// confirmTitle derives the title recorded for an existing-flow confirmation:
// the uploaded filename without its extension, the task's own title when it
// has been customized, then the fixed fallback.
func confirmTitle(filename, taskTitle string) string {
	if filename != "" {
		if base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)); base != "" {
			return base
		}
	}
	if taskTitle != "" && !strings.Contains(taskTitle, "Untitled") {
		return taskTitle
	}
	return constants.FallbackExistingTitle
}

// formatAnalysis renders the structured critique as the markdown block shown
// to the user.
func formatAnalysis(a *domain.TopicAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**可行性**: %s\n\n**创新性**: %s\n\n**建议**:\n", a.Feasibility, a.Innovation)
	for _, s := range a.Suggestions {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	if a.RefinedTopic != "" {
		fmt.Fprintf(&b, "\n**优化后的题目**: %s", a.RefinedTopic)
	}
	return strings.TrimRight(b.String(), "\n")
}
