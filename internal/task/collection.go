package task

import (
	"sync"

	"github.com/google/uuid"

	"github.com/deepwrite/deepwrite/internal/constants"
	"github.com/deepwrite/deepwrite/internal/domain"
)

// Collection owns the session's tasks and the view state derived from them:
// which task is active, whether the workflow overview is showing, and which
// step is displayed. It is never empty: construction seeds the initial task,
// and tasks are only ever added.
//
// All mutation goes through the patch primitive (Update) or the state-machine
// operations (Advance, NavigateTo, Back). Readers receive value snapshots;
// a snapshot taken before a patch never observes a half-applied one.
type Collection struct {
	mu        sync.RWMutex
	tasks     []domain.Task
	activeID  string
	overview  bool
	displayed constants.WorkflowStep
	nextSeq   int
}

// NewCollection creates a collection seeded with the initial task. When
// initialTaskID is empty a local opaque id is generated; gateway-backed
// operations then reject the task until it is re-created with a project id.
func NewCollection(initialTaskID string) *Collection {
	c := &Collection{overview: true}
	c.add(initialTaskID, constants.DefaultTaskTitle)
	return c
}

// NewTask creates a task with the given id (or a generated one when empty),
// appends it, and makes it active. Switching to the new task resets the view
// to the workflow overview.
func (c *Collection) NewTask(id string) domain.Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.add(id, constants.DefaultNewTaskTitle)
}

// add appends a fresh task and activates it. Callers hold the lock, except
// NewCollection which owns the sole reference.
func (c *Collection) add(id, title string) domain.Task {
	if id == "" {
		id = uuid.NewString()
	}
	c.nextSeq++

	t := domain.Task{
		ID:          id,
		Title:       title,
		CurrentStep: constants.StepTopicSelection,
		Outline:     []domain.Section{},
		Images:      []domain.GeneratedImage{},
		CreatedSeq:  c.nextSeq,
	}
	c.tasks = append(c.tasks, t)
	c.activeID = id
	c.overview = true
	c.displayed = t.CurrentStep
	return t
}

// Select makes the task with the given id active. Selecting a task, including
// re-selecting the current one, always returns the view to the workflow
// overview. Returns false when no task has the id.
func (c *Collection) Select(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.index(id)
	if idx < 0 {
		return false
	}
	c.activeID = id
	c.overview = true
	c.displayed = c.tasks[idx].CurrentStep
	return true
}

// Update applies a patch to the task with the given id and returns the
// patched snapshot. Unknown ids are a no-op: a stale response for a task that
// no longer resolves carries no target to write to.
func (c *Collection) Update(id string, patch domain.TaskPatch) (domain.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.index(id)
	if idx < 0 {
		return domain.Task{}, false
	}
	c.tasks[idx] = c.tasks[idx].Apply(patch)
	return c.tasks[idx], true
}

// Active returns a snapshot of the active task.
func (c *Collection) Active() domain.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.tasks[c.index(c.activeID)]
}

// Get returns a snapshot of the task with the given id.
func (c *Collection) Get(id string) (domain.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx := c.index(id)
	if idx < 0 {
		return domain.Task{}, false
	}
	return c.tasks[idx], true
}

// List returns snapshots of all tasks in creation order.
func (c *Collection) List() []domain.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Len returns the number of tasks.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.tasks)
}

// OverviewMode reports whether the workflow overview is showing.
func (c *Collection) OverviewMode() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.overview
}

// DisplayedStep returns the step currently displayed for the active task.
// Revisiting a completed step changes this without touching CurrentStep.
func (c *Collection) DisplayedStep() constants.WorkflowStep {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.displayed
}

// Advance moves the task with the given id to its next step and returns the
// step entered. At the terminal step it is a no-op and returns false, as it
// is for unknown ids. Advancing leaves overview mode.
//
// Advance is addressed by id rather than acting on the active task because
// completion signals come from controllers, which may finish after the user
// has switched tasks.
func (c *Collection) Advance(id string) (constants.WorkflowStep, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.index(id)
	if idx < 0 {
		return 0, false
	}

	next, ok := NextStep(c.tasks[idx].CurrentStep)
	if !ok {
		return 0, false
	}

	c.tasks[idx] = c.tasks[idx].Apply(domain.TaskPatch{CurrentStep: domain.StepPtr(next)})
	if id == c.activeID {
		c.overview = false
		c.displayed = next
	}
	return next, true
}

// NavigateTo displays step s for the active task. Permitted only for
// completed steps and the current step; clicking a locked step is a no-op
// that leaves every field unchanged. Navigating never regresses CurrentStep.
func (c *Collection) NavigateTo(s constants.WorkflowStep) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	active := c.tasks[c.index(c.activeID)]
	if !CanNavigate(&active, s) {
		return false
	}
	c.displayed = s
	c.overview = false
	return true
}

// Back performs back navigation for the active task and returns where it
// landed. While at topic selection the three-tier precedence applies: clear
// the selected topic first, then the topic mode; otherwise (and at every
// other step) return to the workflow overview.
func (c *Collection) Back() BackTarget {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.index(c.activeID)
	target := BackTargetFor(&c.tasks[idx])

	switch target {
	case BackToCandidateList:
		c.tasks[idx] = c.tasks[idx].Apply(domain.TaskPatch{ClearSelectedTopic: true})
	case BackToModeChoice:
		c.tasks[idx] = c.tasks[idx].Apply(domain.TaskPatch{ClearTopicMode: true})
	case BackToOverview:
		c.overview = true
	}
	return target
}

// BackLabel returns the label for the active task's back affordance.
func (c *Collection) BackLabel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	active := c.tasks[c.index(c.activeID)]
	return BackTargetFor(&active).Label()
}

// index returns the position of the task with the given id, or -1.
// Callers hold at least a read lock.
func (c *Collection) index(id string) int {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
