package task

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deepwrite/deepwrite/internal/constants"
	"github.com/deepwrite/deepwrite/internal/domain"
	"github.com/deepwrite/deepwrite/internal/errors"
	"github.com/deepwrite/deepwrite/internal/genai"
)

// RefineController owns the terminal refinement step. On entry it sends the
// whole draft for critique once per task and stores the returned suggestions
// on the task as open AI annotations. Marking a suggestion resolved is a
// session affordance: it changes what the view shows, not the task's
// append-only suggestion history.
type RefineController struct {
	tasks  *Collection
	gen    genai.Service
	logger zerolog.Logger

	mu       sync.Mutex
	fetching map[string]bool
	resolved map[string]map[string]bool
}

// NewRefineController creates the refinement controller.
func NewRefineController(tasks *Collection, gen genai.Service, logger zerolog.Logger) *RefineController {
	return &RefineController{
		tasks:    tasks,
		gen:      gen,
		logger:   logger.With().Str("component", "refine").Logger(),
		fetching: make(map[string]bool),
		resolved: make(map[string]map[string]bool),
	}
}

// OnEnter requests the refinement critique for a task entering the terminal
// step. It is a no-op when suggestions already exist or a request is in
// flight. The draft is the section contents joined with blank lines, in
// document order.
func (c *RefineController) OnEnter(ctx context.Context, taskID string) error {
	t, ok := c.tasks.Get(taskID)
	if !ok {
		return errors.ErrTaskNotFound
	}
	if len(t.RefinementSuggestions) > 0 {
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

	contents := make([]string, 0, len(t.Outline))
	for _, s := range t.Outline {
		contents = append(contents, s.Content)
	}
	fullText := strings.Join(contents, "\n\n")

	suggestions, err := c.gen.GenerateRefinementSuggestions(ctx, fullText)
	if err != nil {
		c.logger.Error().Err(err).Str("task_id", taskID).Msg("refinement critique failed")
		return errors.Wrap(err, "refinement critique failed")
	}

	annotations := make([]domain.Annotation, 0, len(suggestions))
	for _, s := range suggestions {
		annotations = append(annotations, domain.Annotation{
			ID:      uuid.NewString(),
			Text:    s.Text,
			Comment: s.Comment,
			Type:    constants.AnnotationAI,
			Status:  constants.AnnotationOpen,
		})
	}
	c.tasks.Update(taskID, domain.TaskPatch{AppendSuggestions: annotations})

	c.logger.Info().Str("task_id", taskID).Int("count", len(annotations)).Msg("refinement suggestions generated")
	return nil
}

// Resolve marks one suggestion handled for the rest of the session.
func (c *RefineController) Resolve(taskID, annotationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resolved[taskID] == nil {
		c.resolved[taskID] = make(map[string]bool)
	}
	c.resolved[taskID][annotationID] = true
}

// IsResolved reports whether a suggestion was marked handled this session.
func (c *RefineController) IsResolved(taskID, annotationID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.resolved[taskID][annotationID]
}
