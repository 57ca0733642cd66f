package task

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deepwrite/deepwrite/internal/constants"
	"github.com/deepwrite/deepwrite/internal/domain"
	"github.com/deepwrite/deepwrite/internal/errors"
	"github.com/deepwrite/deepwrite/internal/genai"
)

// OutlineController owns the outline and drafting steps. The two steps share
// one Section list and one regeneration contract; the difference between them
// is presentational, so a single controller serves both.
//
// Outline generation is idempotent on first entry: it runs only while the
// task's outline is empty, and an explicit in-flight flag prevents a rapid
// double-entry from issuing two requests before the first response lands.
type OutlineController struct {
	tasks  *Collection
	gen    genai.Service
	logger zerolog.Logger

	mu          sync.Mutex
	fetching    map[string]bool
	annotations map[string][]domain.Annotation
}

// NewOutlineController creates the outline/drafting controller.
func NewOutlineController(tasks *Collection, gen genai.Service, logger zerolog.Logger) *OutlineController {
	return &OutlineController{
		tasks:       tasks,
		gen:         gen,
		logger:      logger.With().Str("component", "outline").Logger(),
		fetching:    make(map[string]bool),
		annotations: make(map[string][]domain.Annotation),
	}
}

// OnEnter runs the automatic outline generation for a task entering the
// outline step. It is a no-op when the outline is already populated or a
// fetch is in flight. On failure the outline stays empty and the in-flight
// flag is cleared, so the next entry retries.
func (c *OutlineController) OnEnter(ctx context.Context, taskID string) error {
	t, ok := c.tasks.Get(taskID)
	if !ok {
		return errors.ErrTaskNotFound
	}
	if len(t.Outline) > 0 {
		return nil
	}

	c.mu.Lock()
	if c.fetching[taskID] {
		c.mu.Unlock()
		return nil
	}
	c.fetching[taskID] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.fetching, taskID)
		c.mu.Unlock()
	}()

	// Seed the generation with the topic overview when one was confirmed;
	// the existing flow has no overview, so the title stands in.
	overview := t.Title
	if t.SelectedTopic != nil && t.SelectedTopic.Overview != "" {
		overview = t.SelectedTopic.Overview
	}

	items, err := c.gen.GenerateOutline(ctx, t.Title, overview)
	if err != nil {
		c.logger.Error().Err(err).Str("task_id", taskID).Msg("outline generation failed")
		return errors.Wrap(err, "outline generation failed")
	}

	sections := make([]domain.Section, 0, len(items))
	for i, item := range items {
		sections = append(sections, domain.Section{
			ID:      fmt.Sprintf("sec-%d", i),
			Title:   item.Title,
			Content: item.Content,
		})
	}
	c.tasks.Update(taskID, domain.TaskPatch{Outline: sections})

	c.logger.Info().Str("task_id", taskID).Int("sections", len(sections)).Msg("outline generated")
	return nil
}

// RegenerateSection rewrites one section's content according to a free-text
// instruction. Only that section changes; every other section is untouched.
// A resolved annotation recording the instruction is appended to the
// section's history. Empty instructions are rejected before any call.
func (c *OutlineController) RegenerateSection(ctx context.Context, taskID, sectionID, instruction string) error {
	if instruction == "" {
		return errors.ErrEmptyInstruction
	}

	t, ok := c.tasks.Get(taskID)
	if !ok {
		return errors.ErrTaskNotFound
	}
	idx := t.SectionIndex(sectionID)
	if idx < 0 {
		return errors.Wrap(errors.ErrSectionNotFound, sectionID)
	}

	newContent, err := c.gen.RegenerateSection(ctx, t.Outline[idx].Content, instruction)
	if err != nil {
		c.logger.Error().Err(err).Str("task_id", taskID).Str("section_id", sectionID).Msg("section rewrite failed")
		return errors.Wrap(err, "section rewrite failed")
	}

	outline := make([]domain.Section, len(t.Outline))
	copy(outline, t.Outline)
	outline[idx].Content = newContent
	c.tasks.Update(taskID, domain.TaskPatch{Outline: outline})

	ann := domain.Annotation{
		ID:       uuid.NewString(),
		TargetID: sectionID,
		Text:     "Regeneration Request",
		Comment:  instruction,
		Type:     constants.AnnotationUser,
		Status:   constants.AnnotationResolved,
	}
	c.mu.Lock()
	c.annotations[taskID] = append(c.annotations[taskID], ann)
	c.mu.Unlock()

	c.logger.Info().Str("task_id", taskID).Str("section_id", sectionID).Msg("section regenerated")
	return nil
}

// Annotations returns the task's regeneration history for one section, in
// the order the rewrites happened.
func (c *OutlineController) Annotations(taskID, sectionID string) []domain.Annotation {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []domain.Annotation
	for _, ann := range c.annotations[taskID] {
		if ann.TargetID == sectionID {
			out = append(out, ann)
		}
	}
	return out
}

// Complete signals that the user confirmed the outline or finished the
// draft; the step advances without further validation.
func (c *OutlineController) Complete(taskID string) (constants.WorkflowStep, bool) {
	return c.tasks.Advance(taskID)
}
