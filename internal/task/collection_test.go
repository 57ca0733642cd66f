package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepwrite/deepwrite/internal/constants"
	"github.com/deepwrite/deepwrite/internal/domain"
)

// TestNewCollectionSeedsInitialTask verifies the collection is never empty
// and starts at the workflow overview.
func TestNewCollectionSeedsInitialTask(t *testing.T) {
	c := NewCollection("7")

	require.Equal(t, 1, c.Len())
	active := c.Active()
	assert.Equal(t, "7", active.ID)
	assert.Equal(t, constants.DefaultTaskTitle, active.Title)
	assert.Equal(t, constants.StepTopicSelection, active.CurrentStep)
	assert.Empty(t, active.Outline)
	assert.Empty(t, active.Images)
	assert.True(t, c.OverviewMode())
}

// TestNewCollectionGeneratesLocalID verifies an empty id gets a generated one.
func TestNewCollectionGeneratesLocalID(t *testing.T) {
	c := NewCollection("")

	active := c.Active()
	assert.NotEmpty(t, active.ID)
	_, numeric := active.ProjectID()
	assert.False(t, numeric)
}

// TestNewTaskAppendsAndActivates verifies creation order and activation.
func TestNewTaskAppendsAndActivates(t *testing.T) {
	c := NewCollection("1")
	added := c.NewTask("2")

	assert.Equal(t, constants.DefaultNewTaskTitle, added.Title)
	assert.Equal(t, "2", c.Active().ID)
	assert.True(t, c.OverviewMode())

	list := c.List()
	require.Len(t, list, 2)
	assert.Equal(t, "1", list[0].ID)
	assert.Equal(t, "2", list[1].ID)
	assert.Less(t, list[0].CreatedSeq, list[1].CreatedSeq)
}

// TestSelectResetsOverview verifies any selection, including re-selecting the
// active task, returns the view to the workflow overview.
func TestSelectResetsOverview(t *testing.T) {
	c := NewCollection("1")
	c.NewTask("2")

	// Leave overview by navigating.
	require.True(t, c.NavigateTo(constants.StepTopicSelection))
	require.False(t, c.OverviewMode())

	t.Run("SelectOtherTask", func(t *testing.T) {
		require.True(t, c.Select("1"))
		assert.True(t, c.OverviewMode())
	})

	t.Run("ReselectActiveTask", func(t *testing.T) {
		c.NavigateTo(constants.StepTopicSelection)
		require.False(t, c.OverviewMode())
		require.True(t, c.Select("1"))
		assert.True(t, c.OverviewMode())
	})

	t.Run("UnknownTask", func(t *testing.T) {
		assert.False(t, c.Select("missing"))
		assert.Equal(t, "1", c.Active().ID)
	})
}

// TestUpdateUnknownIDIsNoOp verifies patches addressed to unknown tasks are
// dropped without touching the collection.
func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	c := NewCollection("1")
	before := c.Active()

	_, ok := c.Update("missing", domain.TaskPatch{Title: domain.StringPtr("changed")})
	assert.False(t, ok)
	assert.Equal(t, before, c.Active())
}

// TestAdvanceMonotonic verifies advance moves one step at a time and the
// terminal step is a no-op.
func TestAdvanceMonotonic(t *testing.T) {
	c := NewCollection("1")

	steps := []constants.WorkflowStep{
		constants.StepOutlineOverview,
		constants.StepDrafting,
		constants.StepRefinement,
	}
	for _, expected := range steps {
		entered, ok := c.Advance("1")
		require.True(t, ok)
		assert.Equal(t, expected, entered)
		assert.Equal(t, expected, c.Active().CurrentStep)
	}

	// Terminal: no-op.
	_, ok := c.Advance("1")
	assert.False(t, ok)
	assert.Equal(t, constants.StepRefinement, c.Active().CurrentStep)

	// Unknown id: no-op.
	_, ok = c.Advance("missing")
	assert.False(t, ok)
}

// TestAdvanceLeavesOverview verifies advancing the active task switches from
// the workflow map to the entered step.
func TestAdvanceLeavesOverview(t *testing.T) {
	c := NewCollection("1")
	require.True(t, c.OverviewMode())

	_, ok := c.Advance("1")
	require.True(t, ok)
	assert.False(t, c.OverviewMode())
	assert.Equal(t, constants.StepOutlineOverview, c.DisplayedStep())
}

// TestAdvanceInactiveTaskKeepsView verifies a completion signal for a
// background task does not yank the view away from the active one.
func TestAdvanceInactiveTaskKeepsView(t *testing.T) {
	c := NewCollection("1")
	c.NewTask("2")

	_, ok := c.Advance("1")
	require.True(t, ok)
	assert.True(t, c.OverviewMode())
	assert.Equal(t, "2", c.Active().ID)
}

// TestNavigateToLockedStep verifies a locked-step click changes nothing:
// the task snapshot and view state are identical before and after.
func TestNavigateToLockedStep(t *testing.T) {
	c := NewCollection("1")
	before := c.Active()
	beforeOverview := c.OverviewMode()
	beforeDisplayed := c.DisplayedStep()

	assert.False(t, c.NavigateTo(constants.StepDrafting))

	assert.Equal(t, before, c.Active())
	assert.Equal(t, beforeOverview, c.OverviewMode())
	assert.Equal(t, beforeDisplayed, c.DisplayedStep())
}

// TestNavigateToCompletedStep verifies revisiting a completed step changes
// the displayed step without regressing CurrentStep.
func TestNavigateToCompletedStep(t *testing.T) {
	c := NewCollection("1")
	_, ok := c.Advance("1")
	require.True(t, ok)
	_, ok = c.Advance("1")
	require.True(t, ok)
	require.Equal(t, constants.StepDrafting, c.Active().CurrentStep)

	require.True(t, c.NavigateTo(constants.StepOutlineOverview))
	assert.Equal(t, constants.StepOutlineOverview, c.DisplayedStep())
	assert.Equal(t, constants.StepDrafting, c.Active().CurrentStep)
	assert.False(t, c.OverviewMode())
}

// TestBackPrecedence verifies the three back tiers apply in order and each
// tier touches only its own field.
func TestBackPrecedence(t *testing.T) {
	c := NewCollection("1")
	c.Update("1", domain.TaskPatch{
		TopicMode:     domain.ModePtr(constants.TopicModeNew),
		SelectedTopic: &domain.Topic{ID: "c1", Title: "A"},
	})

	// Tier 1: clear selected topic only.
	assert.Equal(t, BackToCandidateList, c.Back())
	active := c.Active()
	assert.Nil(t, active.SelectedTopic)
	assert.Equal(t, constants.TopicModeNew, active.TopicMode)
	assert.Equal(t, constants.StepTopicSelection, active.CurrentStep)

	// Tier 2: clear topic mode.
	assert.Equal(t, BackToModeChoice, c.Back())
	active = c.Active()
	assert.Equal(t, constants.TopicModeNone, active.TopicMode)

	// Tier 3: toggle overview only.
	c.NavigateTo(constants.StepTopicSelection)
	require.False(t, c.OverviewMode())
	assert.Equal(t, BackToOverview, c.Back())
	assert.True(t, c.OverviewMode())
	assert.Equal(t, active, c.Active())
}

// TestBackLabel verifies the label tracks the active task's back destination.
func TestBackLabel(t *testing.T) {
	c := NewCollection("1")
	assert.Equal(t, "返回流程图", c.BackLabel())

	c.Update("1", domain.TaskPatch{TopicMode: domain.ModePtr(constants.TopicModeNew)})
	assert.Equal(t, "返回选题方式", c.BackLabel())

	c.Update("1", domain.TaskPatch{SelectedTopic: &domain.Topic{ID: "c1"}})
	assert.Equal(t, "返回列表", c.BackLabel())
}
