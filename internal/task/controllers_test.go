package task

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepwrite/deepwrite/internal/constants"
	"github.com/deepwrite/deepwrite/internal/domain"
	"github.com/deepwrite/deepwrite/internal/errors"
	"github.com/deepwrite/deepwrite/internal/gateway"
	"github.com/deepwrite/deepwrite/internal/genai"
)

// fakeGateway is a scriptable gateway.Service for controller tests.
type fakeGateway struct {
	topics       []domain.TopicCandidate
	topicsErr    error
	analysis     *domain.TopicAnalysis
	analysisErr  error
	confirmErr   error
	generateCall int

	confirmedID    int64
	confirmedTitle string
	analyzedFile   string
	analyzedHint   string
	lastIdea       string
}

var _ gateway.Service = (*fakeGateway)(nil)

func (f *fakeGateway) CreateProject(_ context.Context) (*domain.Project, error) {
	return &domain.Project{ID: 1}, nil
}

func (f *fakeGateway) GetProject(_ context.Context, id int64) (*domain.Project, error) {
	return &domain.Project{ID: id}, nil
}

func (f *fakeGateway) ListProjects(_ context.Context, _ int64) ([]domain.Project, error) {
	return nil, nil
}

func (f *fakeGateway) GenerateTopics(_ context.Context, _ int64, initialIdea string) ([]domain.TopicCandidate, error) {
	f.generateCall++
	f.lastIdea = initialIdea
	return f.topics, f.topicsErr
}

func (f *fakeGateway) AnalyzeTopic(_ context.Context, _ int64, filename string, document io.Reader, titleHint string) (*domain.TopicAnalysis, error) {
	f.analyzedFile = filename
	f.analyzedHint = titleHint
	if document != nil {
		_, _ = io.Copy(io.Discard, document)
	}
	return f.analysis, f.analysisErr
}

func (f *fakeGateway) ConfirmTopic(_ context.Context, projectID int64, title string) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmedID = projectID
	f.confirmedTitle = title
	return nil
}

// fakeGenAI is a scriptable genai.Service for controller tests.
type fakeGenAI struct {
	outline        []domain.OutlineItem
	outlineErr     error
	outlineCalls   int
	rewritten      string
	rewriteErr     error
	lastContent    string
	lastInstr      string
	suggestions    []domain.Suggestion
	suggestionsErr error
	critiqueCalls  int
	lastFullText   string
	imageURI       string
	imageErr       error
	lastEditData   string
}

var _ genai.Service = (*fakeGenAI)(nil)

func (f *fakeGenAI) GenerateOutline(_ context.Context, _, _ string) ([]domain.OutlineItem, error) {
	f.outlineCalls++
	return f.outline, f.outlineErr
}

func (f *fakeGenAI) RegenerateSection(_ context.Context, currentContent, instruction string) (string, error) {
	f.lastContent = currentContent
	f.lastInstr = instruction
	return f.rewritten, f.rewriteErr
}

func (f *fakeGenAI) GenerateRefinementSuggestions(_ context.Context, fullText string) ([]domain.Suggestion, error) {
	f.critiqueCalls++
	f.lastFullText = fullText
	return f.suggestions, f.suggestionsErr
}

func (f *fakeGenAI) GenerateImage(_ context.Context, _ string, _ constants.ImageSize) (string, error) {
	return f.imageURI, f.imageErr
}

func (f *fakeGenAI) EditImage(_ context.Context, imageData, _ string) (string, error) {
	f.lastEditData = imageData
	return f.imageURI, f.imageErr
}

func newTestWorkflow(taskID string, gw *fakeGateway, gen *fakeGenAI) *Workflow {
	return NewWorkflow(taskID, gw, gen, "img-gen", "img-edit", zerolog.Nop())
}

// TestNewTopicFlow walks the full new-topic flow: choose mode, generate
// candidates, select one, confirm, advance.
func TestNewTopicFlow(t *testing.T) {
	gw := &fakeGateway{topics: []domain.TopicCandidate{
		{Title: "A", Overview: "overview a"},
		{Title: "B", Overview: "overview b"},
	}}
	w := newTestWorkflow("2", gw, &fakeGenAI{})
	ctx := context.Background()

	w.Topic.ChooseMode("2", constants.TopicModeNew)
	assert.Equal(t, constants.TopicModeNew, w.Tasks.Active().TopicMode)

	candidates, err := w.Topic.GenerateCandidates(ctx, "2", "Computer Science", "NLP", "")
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.NotEmpty(t, candidates[0].ID)
	assert.NotEqual(t, candidates[0].ID, candidates[1].ID)
	assert.Equal(t, "Major: Computer Science, Direction: NLP.", gw.lastIdea)

	require.True(t, w.Topic.SelectCandidate("2", candidates[0].ID))
	active := w.Tasks.Active()
	require.NotNil(t, active.SelectedTopic)
	assert.Equal(t, "A", active.SelectedTopic.Title)

	entered, err := w.Topic.ConfirmSelection(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, constants.StepOutlineOverview, entered)
	assert.Equal(t, int64(2), gw.confirmedID)
	assert.Equal(t, "A", gw.confirmedTitle)

	active = w.Tasks.Active()
	assert.Equal(t, "A", active.Title)
	assert.Equal(t, constants.StepOutlineOverview, active.CurrentStep)
}

// TestGenerateCandidatesValidation verifies local rejection before any call.
func TestGenerateCandidatesValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingMajor", func(t *testing.T) {
		gw := &fakeGateway{}
		w := newTestWorkflow("1", gw, &fakeGenAI{})
		_, err := w.Topic.GenerateCandidates(ctx, "1", "", "NLP", "")
		require.ErrorIs(t, err, errors.ErrEmptyValue)
		assert.Zero(t, gw.generateCall)
	})

	t.Run("MissingDirection", func(t *testing.T) {
		gw := &fakeGateway{}
		w := newTestWorkflow("1", gw, &fakeGenAI{})
		_, err := w.Topic.GenerateCandidates(ctx, "1", "CS", "", "")
		require.ErrorIs(t, err, errors.ErrEmptyValue)
		assert.Zero(t, gw.generateCall)
	})

	t.Run("NonNumericTaskID", func(t *testing.T) {
		gw := &fakeGateway{}
		w := newTestWorkflow("local-id", gw, &fakeGenAI{})
		_, err := w.Topic.GenerateCandidates(ctx, "local-id", "CS", "NLP", "")
		require.ErrorIs(t, err, errors.ErrInvalidProjectID)
		assert.Zero(t, gw.generateCall)
	})

	t.Run("ResearchInterestAppended", func(t *testing.T) {
		gw := &fakeGateway{}
		w := newTestWorkflow("1", gw, &fakeGenAI{})
		_, err := w.Topic.GenerateCandidates(ctx, "1", "CS", "NLP", "dialogue systems")
		require.NoError(t, err)
		assert.Equal(t, "Major: CS, Direction: NLP. Interest: dialogue systems", gw.lastIdea)
	})
}

// TestSelectedTopicIsACopy verifies regenerating candidates cannot mutate a
// confirmed selection.
func TestSelectedTopicIsACopy(t *testing.T) {
	gw := &fakeGateway{topics: []domain.TopicCandidate{{Title: "A", Overview: "first"}}}
	w := newTestWorkflow("1", gw, &fakeGenAI{})
	ctx := context.Background()

	candidates, err := w.Topic.GenerateCandidates(ctx, "1", "CS", "NLP", "")
	require.NoError(t, err)
	require.True(t, w.Topic.SelectCandidate("1", candidates[0].ID))

	gw.topics = []domain.TopicCandidate{{Title: "B", Overview: "second"}}
	_, err = w.Topic.GenerateCandidates(ctx, "1", "CS", "NLP", "")
	require.NoError(t, err)

	selected := w.Tasks.Active().SelectedTopic
	require.NotNil(t, selected)
	assert.Equal(t, "A", selected.Title)
}

// TestConfirmSelectionRequiresTopic verifies the no-selection guard.
func TestConfirmSelectionRequiresTopic(t *testing.T) {
	w := newTestWorkflow("1", &fakeGateway{}, &fakeGenAI{})
	_, err := w.Topic.ConfirmSelection(context.Background(), "1")
	require.ErrorIs(t, err, errors.ErrNoTopicSelected)
	assert.Equal(t, constants.StepTopicSelection, w.Tasks.Active().CurrentStep)
}

// TestConfirmSelectionGatewayFailure verifies the task is untouched when the
// confirmation call fails.
func TestConfirmSelectionGatewayFailure(t *testing.T) {
	gw := &fakeGateway{
		topics:     []domain.TopicCandidate{{Title: "A", Overview: "o"}},
		confirmErr: errors.ErrGatewayRequest,
	}
	w := newTestWorkflow("1", gw, &fakeGenAI{})
	ctx := context.Background()

	candidates, err := w.Topic.GenerateCandidates(ctx, "1", "CS", "NLP", "")
	require.NoError(t, err)
	require.True(t, w.Topic.SelectCandidate("1", candidates[0].ID))

	_, err = w.Topic.ConfirmSelection(ctx, "1")
	require.ErrorIs(t, err, errors.ErrGatewayRequest)

	active := w.Tasks.Active()
	assert.Equal(t, constants.DefaultTaskTitle, active.Title)
	assert.Equal(t, constants.StepTopicSelection, active.CurrentStep)
}

// TestExistingTopicFlow walks analyze-and-confirm for an uploaded proposal.
func TestExistingTopicFlow(t *testing.T) {
	gw := &fakeGateway{analysis: &domain.TopicAnalysis{
		Feasibility:  "较高",
		Innovation:   "切入点新颖",
		Suggestions:  []string{"补充实验设计", "明确数据来源"},
		RefinedTopic: "优化后的题目",
	}}
	w := newTestWorkflow("3", gw, &fakeGenAI{})
	ctx := context.Background()

	w.Topic.ChooseMode("3", constants.TopicModeExisting)

	formatted, err := w.Topic.AnalyzeExisting(ctx, "3", "proposal.pdf", strings.NewReader("doc body"), "side notes")
	require.NoError(t, err)
	assert.Contains(t, formatted, "**可行性**: 较高")
	assert.Contains(t, formatted, "**创新性**: 切入点新颖")
	assert.Contains(t, formatted, "- 补充实验设计")
	assert.Contains(t, formatted, "**优化后的题目**: 优化后的题目")
	assert.Equal(t, "proposal.pdf", gw.analyzedFile)
	assert.Equal(t, "side notes", gw.analyzedHint)
	assert.Equal(t, formatted, w.Topic.Analysis("3"))
	assert.Equal(t, "side notes", w.Tasks.Active().TopicPrompt)

	entered, err := w.Topic.ConfirmAnalysis(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, constants.StepOutlineOverview, entered)

	// Filename wins the title preference order.
	assert.Equal(t, "proposal", gw.confirmedTitle)
	assert.Equal(t, "proposal", w.Tasks.Active().Title)
}

// TestAnalyzeExistingRequiresInput verifies the empty-submission guard.
func TestAnalyzeExistingRequiresInput(t *testing.T) {
	w := newTestWorkflow("1", &fakeGateway{}, &fakeGenAI{})
	_, err := w.Topic.AnalyzeExisting(context.Background(), "1", "", nil, "")
	require.ErrorIs(t, err, errors.ErrNoAnalysisInput)
}

// TestConfirmTitlePreference verifies the filename > custom title > fallback
// order.
func TestConfirmTitlePreference(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		taskTitle string
		expected  string
	}{
		{"FilenameWins", "thesis.docx", "My Custom Title", "thesis"},
		{"CustomTitleWhenNoFile", "", "My Custom Title", "My Custom Title"},
		{"FallbackForPlaceholder", "", constants.DefaultTaskTitle, constants.FallbackExistingTitle},
		{"FallbackForEmptyTitle", "", "", constants.FallbackExistingTitle},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, confirmTitle(tc.filename, tc.taskTitle))
		})
	}
}

// TestOutlineOnEnterGeneratesOnce verifies first-entry generation and its
// idempotence once the outline is populated.
func TestOutlineOnEnterGeneratesOnce(t *testing.T) {
	gen := &fakeGenAI{outline: []domain.OutlineItem{
		{Title: "引言", Content: "背景"},
		{Title: "方法", Content: "设计"},
	}}
	w := newTestWorkflow("1", &fakeGateway{}, gen)
	ctx := context.Background()

	require.NoError(t, w.Outline.OnEnter(ctx, "1"))
	assert.Equal(t, 1, gen.outlineCalls)

	active := w.Tasks.Active()
	require.Len(t, active.Outline, 2)
	assert.Equal(t, "sec-0", active.Outline[0].ID)
	assert.Equal(t, "sec-1", active.Outline[1].ID)
	assert.Equal(t, "引言", active.Outline[0].Title)

	// Re-entering with a populated outline must not re-issue the call.
	require.NoError(t, w.Outline.OnEnter(ctx, "1"))
	require.NoError(t, w.Outline.OnEnter(ctx, "1"))
	assert.Equal(t, 1, gen.outlineCalls)
}

// TestOutlineOnEnterFailure verifies a failed generation leaves the outline
// empty and the controller retryable.
func TestOutlineOnEnterFailure(t *testing.T) {
	gen := &fakeGenAI{outlineErr: errors.ErrMalformedResponse}
	w := newTestWorkflow("1", &fakeGateway{}, gen)
	ctx := context.Background()

	err := w.Outline.OnEnter(ctx, "1")
	require.ErrorIs(t, err, errors.ErrMalformedResponse)
	assert.Empty(t, w.Tasks.Active().Outline)

	// In-flight flag cleared: a later entry retries and succeeds.
	gen.outlineErr = nil
	gen.outline = []domain.OutlineItem{{Title: "引言", Content: "背景"}}
	require.NoError(t, w.Outline.OnEnter(ctx, "1"))
	assert.Len(t, w.Tasks.Active().Outline, 1)
	assert.Equal(t, 2, gen.outlineCalls)
}

// TestRegenerateSectionIsolation verifies regeneration touches exactly one
// section's content and appends exactly one resolved annotation.
func TestRegenerateSectionIsolation(t *testing.T) {
	gen := &fakeGenAI{
		outline: []domain.OutlineItem{
			{Title: "一", Content: "alpha"},
			{Title: "二", Content: "beta"},
			{Title: "三", Content: "gamma"},
		},
		rewritten: "beta rewritten",
	}
	w := newTestWorkflow("1", &fakeGateway{}, gen)
	ctx := context.Background()

	require.NoError(t, w.Outline.OnEnter(ctx, "1"))
	before := w.Tasks.Active()

	require.NoError(t, w.Outline.RegenerateSection(ctx, "1", "sec-1", "更严谨"))
	assert.Equal(t, "beta", gen.lastContent)
	assert.Equal(t, "更严谨", gen.lastInstr)

	after := w.Tasks.Active()
	assert.Equal(t, before.Outline[0], after.Outline[0])
	assert.Equal(t, before.Outline[2], after.Outline[2])
	assert.Equal(t, "sec-1", after.Outline[1].ID)
	assert.Equal(t, "二", after.Outline[1].Title)
	assert.Equal(t, "beta rewritten", after.Outline[1].Content)

	anns := w.Outline.Annotations("1", "sec-1")
	require.Len(t, anns, 1)
	assert.Equal(t, "sec-1", anns[0].TargetID)
	assert.Equal(t, "更严谨", anns[0].Comment)
	assert.Equal(t, constants.AnnotationUser, anns[0].Type)
	assert.Equal(t, constants.AnnotationResolved, anns[0].Status)
	assert.Empty(t, w.Outline.Annotations("1", "sec-0"))
}

// TestRegenerateSectionValidation verifies local rejection paths.
func TestRegenerateSectionValidation(t *testing.T) {
	gen := &fakeGenAI{outline: []domain.OutlineItem{{Title: "一", Content: "alpha"}}}
	w := newTestWorkflow("1", &fakeGateway{}, gen)
	ctx := context.Background()
	require.NoError(t, w.Outline.OnEnter(ctx, "1"))

	t.Run("EmptyInstruction", func(t *testing.T) {
		err := w.Outline.RegenerateSection(ctx, "1", "sec-0", "")
		require.ErrorIs(t, err, errors.ErrEmptyInstruction)
	})

	t.Run("UnknownSection", func(t *testing.T) {
		err := w.Outline.RegenerateSection(ctx, "1", "sec-9", "改写")
		require.ErrorIs(t, err, errors.ErrSectionNotFound)
	})

	t.Run("RewriteFailureLeavesContent", func(t *testing.T) {
		gen.rewriteErr = errors.ErrGenerationRequest
		err := w.Outline.RegenerateSection(ctx, "1", "sec-0", "改写")
		require.ErrorIs(t, err, errors.ErrGenerationRequest)
		assert.Equal(t, "alpha", w.Tasks.Active().Outline[0].Content)
		assert.Empty(t, w.Outline.Annotations("1", "sec-0"))
	})
}

// TestOutlineComplete verifies the completion signal advances the step.
func TestOutlineComplete(t *testing.T) {
	w := newTestWorkflow("1", &fakeGateway{}, &fakeGenAI{})
	_, ok := w.Tasks.Advance("1")
	require.True(t, ok)

	entered, ok := w.Outline.Complete("1")
	require.True(t, ok)
	assert.Equal(t, constants.StepDrafting, entered)
}

// TestRefineOnEnter verifies the critique request joins section contents
// with blank lines and stores the suggestions as open AI annotations.
func TestRefineOnEnter(t *testing.T) {
	gen := &fakeGenAI{
		outline: []domain.OutlineItem{
			{Title: "一", Content: "first part"},
			{Title: "二", Content: "second part"},
		},
		suggestions: []domain.Suggestion{
			{Text: "first", Comment: "tighten the claim"},
			{Text: "second", Comment: "cite the dataset"},
		},
	}
	w := newTestWorkflow("1", &fakeGateway{}, gen)
	ctx := context.Background()

	require.NoError(t, w.Outline.OnEnter(ctx, "1"))
	require.NoError(t, w.Refine.OnEnter(ctx, "1"))

	assert.Equal(t, "first part\n\nsecond part", gen.lastFullText)

	suggestions := w.Tasks.Active().RefinementSuggestions
	require.Len(t, suggestions, 2)
	assert.Equal(t, constants.AnnotationAI, suggestions[0].Type)
	assert.Equal(t, constants.AnnotationOpen, suggestions[0].Status)
	assert.Equal(t, "tighten the claim", suggestions[0].Comment)
	assert.NotEmpty(t, suggestions[0].ID)

	// Suggestions exist: re-entry must not re-issue the critique.
	require.NoError(t, w.Refine.OnEnter(ctx, "1"))
	assert.Equal(t, 1, gen.critiqueCalls)
}

// TestRefineResolveIsSessionScoped verifies resolving a suggestion changes
// the session view without touching the task's suggestion history.
func TestRefineResolveIsSessionScoped(t *testing.T) {
	gen := &fakeGenAI{
		outline:     []domain.OutlineItem{{Title: "一", Content: "text"}},
		suggestions: []domain.Suggestion{{Text: "t", Comment: "c"}},
	}
	w := newTestWorkflow("1", &fakeGateway{}, gen)
	ctx := context.Background()
	require.NoError(t, w.Outline.OnEnter(ctx, "1"))
	require.NoError(t, w.Refine.OnEnter(ctx, "1"))

	sugg := w.Tasks.Active().RefinementSuggestions[0]
	assert.False(t, w.Refine.IsResolved("1", sugg.ID))

	w.Refine.Resolve("1", sugg.ID)
	assert.True(t, w.Refine.IsResolved("1", sugg.ID))
	assert.Equal(t, constants.AnnotationOpen, w.Tasks.Active().RefinementSuggestions[0].Status)
}

// TestEnterStepDispatch verifies the on-enter hook wiring per step.
func TestEnterStepDispatch(t *testing.T) {
	gen := &fakeGenAI{outline: []domain.OutlineItem{{Title: "一", Content: "text"}}}
	w := newTestWorkflow("1", &fakeGateway{}, gen)
	ctx := context.Background()

	require.NoError(t, w.EnterStep(ctx, "1", constants.StepTopicSelection))
	assert.Zero(t, gen.outlineCalls)

	require.NoError(t, w.EnterStep(ctx, "1", constants.StepOutlineOverview))
	assert.Equal(t, 1, gen.outlineCalls)

	require.NoError(t, w.EnterStep(ctx, "1", constants.StepDrafting))
	assert.Equal(t, 1, gen.outlineCalls)

	require.NoError(t, w.EnterStep(ctx, "1", constants.StepRefinement))
	assert.Equal(t, 1, gen.critiqueCalls)
}

// TestImageGenerateAppends verifies generated assets are appended with model
// and size metadata.
func TestImageGenerateAppends(t *testing.T) {
	gen := &fakeGenAI{imageURI: "data:image/png;base64,aW1n"}
	w := newTestWorkflow("1", &fakeGateway{}, gen)
	ctx := context.Background()

	img, err := w.Images.Generate(ctx, "1", "a diagram of the pipeline", constants.ImageSize2K)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,aW1n", img.URL)
	assert.Equal(t, "img-gen", img.Model)
	assert.Equal(t, "2K", img.Params)

	images := w.Tasks.Active().Images
	require.Len(t, images, 1)
	assert.Equal(t, img.ID, images[0].ID)

	t.Run("InvalidSize", func(t *testing.T) {
		_, err := w.Images.Generate(ctx, "1", "p", constants.ImageSize("8K"))
		require.ErrorIs(t, err, errors.ErrInvalidImageSize)
	})

	t.Run("EmptyPrompt", func(t *testing.T) {
		_, err := w.Images.Generate(ctx, "1", "", constants.ImageSize1K)
		require.ErrorIs(t, err, errors.ErrEmptyValue)
	})
}

// TestImageEditAppends verifies editing sources an existing asset and
// appends the result as a new one.
func TestImageEditAppends(t *testing.T) {
	gen := &fakeGenAI{imageURI: "data:image/png;base64,b3JpZw=="}
	w := newTestWorkflow("1", &fakeGateway{}, gen)
	ctx := context.Background()

	original, err := w.Images.Generate(ctx, "1", "original", constants.ImageSize1K)
	require.NoError(t, err)

	gen.imageURI = "data:image/png;base64,ZWRpdGVk"
	edited, err := w.Images.Edit(ctx, "1", original.ID, "warmer tones")
	require.NoError(t, err)
	assert.Equal(t, original.URL, gen.lastEditData)
	assert.Equal(t, "img-edit", edited.Model)

	images := w.Tasks.Active().Images
	require.Len(t, images, 2)
	assert.Equal(t, original.ID, images[0].ID)
	assert.Equal(t, edited.ID, images[1].ID)

	t.Run("UnknownSource", func(t *testing.T) {
		_, err := w.Images.Edit(ctx, "1", "missing", "p")
		require.ErrorIs(t, err, errors.ErrImageUnavailable)
	})
}

// TestStaleResponseAppliesByID verifies a completion arriving after a task
// switch still lands on the originating task.
func TestStaleResponseAppliesByID(t *testing.T) {
	gen := &fakeGenAI{outline: []domain.OutlineItem{{Title: "一", Content: "text"}}}
	w := newTestWorkflow("1", &fakeGateway{}, gen)
	ctx := context.Background()

	w.Tasks.NewTask("2")
	require.Equal(t, "2", w.Tasks.Active().ID)

	// The outline response for task 1 arrives while task 2 is active.
	require.NoError(t, w.Outline.OnEnter(ctx, "1"))

	first, ok := w.Tasks.Get("1")
	require.True(t, ok)
	assert.Len(t, first.Outline, 1)
	assert.Empty(t, w.Tasks.Active().Outline)
}
