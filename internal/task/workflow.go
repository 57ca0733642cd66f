package task

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/deepwrite/deepwrite/internal/constants"
	"github.com/deepwrite/deepwrite/internal/gateway"
	"github.com/deepwrite/deepwrite/internal/genai"
)

// Workflow bundles the task collection with the per-step controllers so the
// presentation layer has a single handle on the writing pipeline.
type Workflow struct {
	Tasks   *Collection
	Topic   *TopicController
	Outline *OutlineController
	Refine  *RefineController
	Images  *ImageController
}

// NewWorkflow wires the collection and controllers for one session. The
// initial task is created with initialTaskID; pass the gateway project id in
// decimal to enable topic operations.
func NewWorkflow(initialTaskID string, gw gateway.Service, gen genai.Service, imageGenModel, imageEditModel string, logger zerolog.Logger) *Workflow {
	tasks := NewCollection(initialTaskID)
	return &Workflow{
		Tasks:   tasks,
		Topic:   NewTopicController(tasks, gw, logger),
		Outline: NewOutlineController(tasks, gen, logger),
		Refine:  NewRefineController(tasks, gen, logger),
		Images:  NewImageController(tasks, gen, imageGenModel, imageEditModel, logger),
	}
}

// EnterStep runs the on-enter hook for the step a task just entered or
// navigated to. Steps without an automatic fetch are a no-op. Each hook
// carries its own idempotence and in-flight guards; calling EnterStep
// repeatedly is safe.
func (w *Workflow) EnterStep(ctx context.Context, taskID string, step constants.WorkflowStep) error {
	switch step {
	case constants.StepOutlineOverview:
		return w.Outline.OnEnter(ctx, taskID)
	case constants.StepRefinement:
		return w.Refine.OnEnter(ctx, taskID)
	default:
		return nil
	}
}
