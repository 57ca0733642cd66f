package tui

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/deepwrite/deepwrite/internal/constants"
	"github.com/deepwrite/deepwrite/internal/domain"
	"github.com/deepwrite/deepwrite/internal/errors"
	"github.com/deepwrite/deepwrite/internal/task"
)

// formTarget names which input form, if any, is capturing keystrokes.
type formTarget int

const (
	formNone formTarget = iota
	formNewTopic
	formExisting
	formInstruction
)

// Messages produced by async workflow commands.

// stepEnteredMsg reports the result of an on-enter hook.
type stepEnteredMsg struct {
	taskID string
	step   constants.WorkflowStep
	err    error
}

// topicsMsg carries generated topic candidates.
type topicsMsg struct {
	taskID     string
	candidates []domain.Topic
	err        error
}

// analysisMsg carries a formatted existing-topic analysis.
type analysisMsg struct {
	taskID    string
	formatted string
	err       error
}

// confirmedMsg reports a topic confirmation and the step it advanced to.
type confirmedMsg struct {
	taskID  string
	entered constants.WorkflowStep
	err     error
}

// regeneratedMsg reports a section rewrite.
type regeneratedMsg struct {
	taskID    string
	sectionID string
	err       error
}

// WorkflowModel is the Bubble Tea model for the writing workflow. It renders
// a task sidebar next to either the workflow overview or the displayed step,
// and funnels every mutation through the workflow's controllers. The model
// holds no task state of its own: each View reads fresh snapshots from the
// collection.
type WorkflowModel struct {
	workflow *task.Workflow

	width, height int
	quitting      bool
	loading       bool
	statusErr     error

	spinner spinner.Model

	// Sidebar cursor over the task list.
	sidebarFocus  bool
	sidebarCursor int

	// Content-area cursors.
	modeCursor      int
	candidateCursor int
	sectionCursor   int
	suggestCursor   int

	// Active input form.
	form       formTarget
	inputs     []textinput.Model
	inputFocus int

	// Section targeted by the open instruction form.
	instructionTarget string

	// baseCtx is stored for use in async Bubble Tea commands.
	baseCtx context.Context //nolint:containedctx // Required for Bubble Tea async commands
}

// NewWorkflowModel creates the workflow model.
func NewWorkflowModel(ctx context.Context, w *task.Workflow) *WorkflowModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StyleBold.Foreground(ColorWarning)

	return &WorkflowModel{
		workflow: w,
		width:    80,
		height:   24,
		spinner:  sp,
		baseCtx:  ctx,
	}
}

// Init returns the initial command.
func (m *WorkflowModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m *WorkflowModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stepEnteredMsg:
		m.loading = false
		m.statusErr = msg.err
		return m, nil

	case topicsMsg:
		m.loading = false
		m.statusErr = msg.err
		m.candidateCursor = 0
		return m, nil

	case analysisMsg:
		m.loading = false
		m.statusErr = msg.err
		return m, nil

	case confirmedMsg:
		m.loading = false
		m.statusErr = msg.err
		if msg.err == nil {
			return m, m.enterStep(msg.taskID, msg.entered)
		}
		return m, nil

	case regeneratedMsg:
		m.loading = false
		m.statusErr = msg.err
		return m, nil
	}

	return m, nil
}

// updateKey routes keystrokes. Form input wins over navigation so typing a
// "q" into a text field never quits the program.
func (m *WorkflowModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.form != formNone {
		return m.updateForm(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		m.sidebarFocus = !m.sidebarFocus
		return m, nil

	case "n":
		m.workflow.Tasks.NewTask("")
		m.sidebarCursor = m.workflow.Tasks.Len() - 1
		m.statusErr = nil
		return m, nil

	case "esc", "b":
		m.workflow.Tasks.Back()
		m.statusErr = nil
		return m, nil
	}

	if m.sidebarFocus {
		return m.updateSidebar(msg)
	}
	return m.updateContent(msg)
}

// updateSidebar handles task-list navigation.
func (m *WorkflowModel) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.workflow.Tasks.List()

	switch msg.String() {
	case "up", "k":
		if m.sidebarCursor > 0 {
			m.sidebarCursor--
		}
	case "down", "j":
		if m.sidebarCursor < len(tasks)-1 {
			m.sidebarCursor++
		}
	case "enter":
		// Selecting a task, even the active one, returns to the overview.
		m.workflow.Tasks.Select(tasks[m.sidebarCursor].ID)
		m.sidebarFocus = false
		m.statusErr = nil
	}
	return m, nil
}

// updateContent handles keys for the overview or the displayed step.
func (m *WorkflowModel) updateContent(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := m.workflow.Tasks.Active()

	// Step-indicator clicks. Locked steps are silent no-ops.
	switch msg.String() {
	case "1", "2", "3", "4":
		step := constants.WorkflowStep(msg.String()[0] - '0')
		if m.workflow.Tasks.NavigateTo(step) {
			return m, m.enterStep(active.ID, step)
		}
		return m, nil
	}

	if m.workflow.Tasks.OverviewMode() {
		if msg.String() == "enter" {
			if m.workflow.Tasks.NavigateTo(active.CurrentStep) {
				return m, m.enterStep(active.ID, active.CurrentStep)
			}
		}
		return m, nil
	}

	switch m.workflow.Tasks.DisplayedStep() {
	case constants.StepTopicSelection:
		return m.updateTopicStep(msg, active)
	case constants.StepOutlineOverview, constants.StepDrafting:
		return m.updateOutlineStep(msg, active)
	case constants.StepRefinement:
		return m.updateRefineStep(msg, active)
	}
	return m, nil
}

// updateTopicStep handles the topic-selection step's three phases.
func (m *WorkflowModel) updateTopicStep(msg tea.KeyMsg, active domain.Task) (tea.Model, tea.Cmd) {
	switch active.TopicPhase() {
	case domain.PhaseUnset:
		switch msg.String() {
		case "up", "k":
			m.modeCursor = 0
		case "down", "j":
			m.modeCursor = 1
		case "enter":
			mode := constants.TopicModeExisting
			if m.modeCursor == 1 {
				mode = constants.TopicModeNew
			}
			m.workflow.Topic.ChooseMode(active.ID, mode)
			m.openTopicForm(mode)
		}

	case domain.PhaseModeChosen:
		candidates := m.workflow.Topic.Candidates(active.ID)
		switch msg.String() {
		case "up", "k":
			if m.candidateCursor > 0 {
				m.candidateCursor--
			}
		case "down", "j":
			if m.candidateCursor < len(candidates)-1 {
				m.candidateCursor++
			}
		case "enter":
			if len(candidates) > 0 {
				m.workflow.Topic.SelectCandidate(active.ID, candidates[m.candidateCursor].ID)
			}
		case "g":
			m.openTopicForm(active.TopicMode)
		case "y":
			if active.TopicMode == constants.TopicModeExisting && m.workflow.Topic.Analysis(active.ID) != "" {
				return m, m.confirmAnalysis(active.ID)
			}
		}

	case domain.PhaseTopicSelected:
		if msg.String() == "enter" || msg.String() == "y" {
			return m, m.confirmSelection(active.ID)
		}
	}
	return m, nil
}

// updateOutlineStep handles the shared outline/drafting section list.
func (m *WorkflowModel) updateOutlineStep(msg tea.KeyMsg, active domain.Task) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.sectionCursor > 0 {
			m.sectionCursor--
		}
	case "down", "j":
		if m.sectionCursor < len(active.Outline)-1 {
			m.sectionCursor++
		}
	case "r", "enter":
		if m.sectionCursor < len(active.Outline) {
			m.instructionTarget = active.Outline[m.sectionCursor].ID
			m.openInstructionForm()
		}
	case "c":
		if entered, ok := m.workflow.Outline.Complete(active.ID); ok {
			return m, m.enterStep(active.ID, entered)
		}
	}
	return m, nil
}

// updateRefineStep handles the terminal suggestion list.
func (m *WorkflowModel) updateRefineStep(msg tea.KeyMsg, active domain.Task) (tea.Model, tea.Cmd) {
	suggestions := active.RefinementSuggestions

	switch msg.String() {
	case "up", "k":
		if m.suggestCursor > 0 {
			m.suggestCursor--
		}
	case "down", "j":
		if m.suggestCursor < len(suggestions)-1 {
			m.suggestCursor++
		}
	case "enter", " ":
		if m.suggestCursor < len(suggestions) {
			m.workflow.Refine.Resolve(active.ID, suggestions[m.suggestCursor].ID)
		}
	}
	return m, nil
}

// updateForm routes keystrokes into the open input form.
func (m *WorkflowModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeForm()
		return m, nil

	case "tab", "shift+tab", "up", "down":
		if msg.String() == "shift+tab" || msg.String() == "up" {
			m.inputFocus--
		} else {
			m.inputFocus++
		}
		if m.inputFocus < 0 {
			m.inputFocus = len(m.inputs) - 1
		}
		if m.inputFocus >= len(m.inputs) {
			m.inputFocus = 0
		}
		for i := range m.inputs {
			if i == m.inputFocus {
				m.inputs[i].Focus()
			} else {
				m.inputs[i].Blur()
			}
		}
		return m, nil

	case "enter":
		if m.inputFocus < len(m.inputs)-1 {
			// Move to the next field; submit happens on the last one.
			return m.updateForm(tea.KeyMsg{Type: tea.KeyTab})
		}
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.inputs[m.inputFocus], cmd = m.inputs[m.inputFocus].Update(msg)
	return m, cmd
}

// submitForm dispatches the open form to its controller call.
func (m *WorkflowModel) submitForm() (tea.Model, tea.Cmd) {
	active := m.workflow.Tasks.Active()

	switch m.form {
	case formNewTopic:
		major := strings.TrimSpace(m.inputs[0].Value())
		direction := strings.TrimSpace(m.inputs[1].Value())
		interest := strings.TrimSpace(m.inputs[2].Value())
		m.closeForm()
		return m, m.generateTopics(active.ID, major, direction, interest)

	case formExisting:
		path := strings.TrimSpace(m.inputs[0].Value())
		prompt := strings.TrimSpace(m.inputs[1].Value())
		m.closeForm()
		return m, m.analyzeExisting(active.ID, path, prompt)

	case formInstruction:
		instruction := strings.TrimSpace(m.inputs[0].Value())
		target := m.instructionTarget
		m.closeForm()
		return m, m.regenerate(active.ID, target, instruction)
	}

	m.closeForm()
	return m, nil
}

// openTopicForm prepares the input form for the chosen topic mode.
func (m *WorkflowModel) openTopicForm(mode constants.TopicMode) {
	if mode == constants.TopicModeNew {
		m.inputs = newInputs("专业 (major)", "研究方向 (direction)", "研究兴趣 (optional)")
		m.form = formNewTopic
	} else {
		m.inputs = newInputs("开题报告文件路径", "补充说明 (optional)")
		m.form = formExisting
	}
	m.inputFocus = 0
	m.inputs[0].Focus()
}

// openInstructionForm prepares the single-field regeneration form.
func (m *WorkflowModel) openInstructionForm() {
	m.inputs = newInputs("修改要求")
	m.form = formInstruction
	m.inputFocus = 0
	m.inputs[0].Focus()
}

func (m *WorkflowModel) closeForm() {
	m.form = formNone
	m.inputs = nil
	m.inputFocus = 0
}

// newInputs builds one blurred text input per placeholder.
func newInputs(placeholders ...string) []textinput.Model {
	inputs := make([]textinput.Model, len(placeholders))
	for i, p := range placeholders {
		ti := textinput.New()
		ti.Placeholder = p
		ti.CharLimit = 256
		ti.Width = 48
		inputs[i] = ti
	}
	return inputs
}

// Async command constructors. Each call runs off the update loop and reports
// back through a typed message; the collection applies results by task id, so
// a response landing after a task switch still reaches the right task.

func (m *WorkflowModel) enterStep(taskID string, step constants.WorkflowStep) tea.Cmd {
	m.loading = true
	m.statusErr = nil
	return func() tea.Msg {
		err := m.workflow.EnterStep(m.baseCtx, taskID, step)
		return stepEnteredMsg{taskID: taskID, step: step, err: err}
	}
}

func (m *WorkflowModel) generateTopics(taskID, major, direction, interest string) tea.Cmd {
	m.loading = true
	m.statusErr = nil
	return func() tea.Msg {
		candidates, err := m.workflow.Topic.GenerateCandidates(m.baseCtx, taskID, major, direction, interest)
		return topicsMsg{taskID: taskID, candidates: candidates, err: err}
	}
}

func (m *WorkflowModel) analyzeExisting(taskID, path, prompt string) tea.Cmd {
	m.loading = true
	m.statusErr = nil
	return func() tea.Msg {
		var formatted string
		var err error
		if path == "" {
			formatted, err = m.workflow.Topic.AnalyzeExisting(m.baseCtx, taskID, "", nil, prompt)
		} else {
			f, openErr := os.Open(path) //nolint:gosec // user-supplied document path
			if openErr != nil {
				return analysisMsg{taskID: taskID, err: errors.Wrap(openErr, "failed to open document")}
			}
			defer func() { _ = f.Close() }()
			formatted, err = m.workflow.Topic.AnalyzeExisting(m.baseCtx, taskID, f.Name(), f, prompt)
		}
		return analysisMsg{taskID: taskID, formatted: formatted, err: err}
	}
}

func (m *WorkflowModel) confirmSelection(taskID string) tea.Cmd {
	m.loading = true
	m.statusErr = nil
	return func() tea.Msg {
		entered, err := m.workflow.Topic.ConfirmSelection(m.baseCtx, taskID)
		return confirmedMsg{taskID: taskID, entered: entered, err: err}
	}
}

func (m *WorkflowModel) confirmAnalysis(taskID string) tea.Cmd {
	m.loading = true
	m.statusErr = nil
	return func() tea.Msg {
		entered, err := m.workflow.Topic.ConfirmAnalysis(m.baseCtx, taskID)
		return confirmedMsg{taskID: taskID, entered: entered, err: err}
	}
}

func (m *WorkflowModel) regenerate(taskID, sectionID, instruction string) tea.Cmd {
	m.loading = true
	m.statusErr = nil
	return func() tea.Msg {
		err := m.workflow.Outline.RegenerateSection(m.baseCtx, taskID, sectionID, instruction)
		return regeneratedMsg{taskID: taskID, sectionID: sectionID, err: err}
	}
}

// RunWorkflow starts the interactive workflow program.
func RunWorkflow(ctx context.Context, w *task.Workflow) error {
	CheckNoColor()

	m := NewWorkflowModel(ctx, w)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "workflow ui failed")
	}
	return nil
}
