package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/deepwrite/deepwrite/internal/constants"
	"github.com/deepwrite/deepwrite/internal/domain"
	"github.com/deepwrite/deepwrite/internal/errors"
)

// Sidebar and layout dimensions.
const (
	sidebarWidth    = 24
	minContentWidth = 40
)

// View renders the workflow screen: header, sidebar, and either the workflow
// overview or the displayed step.
func (m *WorkflowModel) View() string {
	if m.quitting {
		return ""
	}

	active := m.workflow.Tasks.Active()

	var b strings.Builder
	b.WriteString(m.renderHeader(active))
	b.WriteString("\n")

	sidebar := m.renderSidebar(active)
	content := m.renderContent(active)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader shows the back affordance, the task title, and the step
// indicator strip.
func (m *WorkflowModel) renderHeader(active domain.Task) string {
	var b strings.Builder

	b.WriteString(StyleDim.Render("← " + m.workflow.Tasks.BackLabel()))
	b.WriteString("  ")
	b.WriteString(StyleTitle.Render(Truncate(active.Title, 40)))
	b.WriteString("\n")

	for s := constants.FirstStep; s <= constants.LastStep; s++ {
		status := StepStatusOf(s, active.CurrentStep)
		style := lipgloss.NewStyle().Foreground(StepColor(status))
		if !m.workflow.Tasks.OverviewMode() && s == m.workflow.Tasks.DisplayedStep() {
			style = style.Bold(true).Underline(true)
		}
		b.WriteString(style.Render(fmt.Sprintf("%s %d %s", StepIcon(status), int(s), s.String())))
		if s != constants.LastStep {
			b.WriteString(StyleDim.Render("  ─  "))
		}
	}
	return b.String()
}

// renderSidebar lists the session's tasks in creation order.
func (m *WorkflowModel) renderSidebar(active domain.Task) string {
	tasks := m.workflow.Tasks.List()

	var b strings.Builder
	b.WriteString(StyleBold.Render("论文任务"))
	b.WriteString("\n")

	for i, t := range tasks {
		line := Truncate(t.Title, sidebarWidth-4)
		switch {
		case m.sidebarFocus && i == m.sidebarCursor:
			line = StyleActiveItem.Render("> " + line)
		case t.ID == active.ID:
			line = StyleActiveItem.Render("● " + line)
		default:
			line = StyleDim.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render("[n] 新建任务"))
	return StyleSidebar.Width(sidebarWidth).Render(b.String())
}

// renderContent picks the body for the current view state.
func (m *WorkflowModel) renderContent(active domain.Task) string {
	width := m.width - sidebarWidth - 4
	if width < minContentWidth {
		width = minContentWidth
	}

	var body string
	switch {
	case m.form != formNone:
		body = m.renderForm()
	case m.workflow.Tasks.OverviewMode():
		body = m.renderOverview(active)
	default:
		switch m.workflow.Tasks.DisplayedStep() {
		case constants.StepTopicSelection:
			body = m.renderTopicStep(active, width)
		case constants.StepOutlineOverview:
			body = m.renderSections(active, "论文大纲", width)
		case constants.StepDrafting:
			body = m.renderSections(active, "论文撰写", width)
		case constants.StepRefinement:
			body = m.renderRefinement(active, width)
		}
	}

	if m.loading {
		body += "\n\n" + m.spinner.View() + StyleDim.Render(" 生成中…")
	}
	if m.statusErr != nil {
		body += "\n\n" + lipgloss.NewStyle().Foreground(ColorError).Render(errors.UserMessage(m.statusErr))
	}

	return StyleContent.Width(width).Render(body)
}

// renderOverview draws the workflow map.
func (m *WorkflowModel) renderOverview(active domain.Task) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render("写作流程"))
	b.WriteString("\n\n")

	for s := constants.FirstStep; s <= constants.LastStep; s++ {
		status := StepStatusOf(s, active.CurrentStep)
		style := lipgloss.NewStyle().Foreground(StepColor(status))
		b.WriteString(style.Render(fmt.Sprintf("  %s 第 %d 步 · %s", StepIcon(status), int(s), s.String())))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render("[enter] 进入当前步骤  [1-4] 跳转已完成步骤"))
	return b.String()
}

// renderTopicStep draws one of the topic-selection phases.
func (m *WorkflowModel) renderTopicStep(active domain.Task, width int) string {
	var b strings.Builder

	switch active.TopicPhase() {
	case domain.PhaseUnset:
		b.WriteString(StyleBold.Render("选择选题方式"))
		b.WriteString("\n\n")
		modes := []string{"已选题 · 上传开题报告分析", "未选题 · AI 生成选题建议"}
		for i, label := range modes {
			if i == m.modeCursor {
				b.WriteString(StyleActiveItem.Render("> " + label))
			} else {
				b.WriteString(StyleDim.Render("  " + label))
			}
			b.WriteString("\n")
		}

	case domain.PhaseModeChosen:
		if active.TopicMode == constants.TopicModeExisting {
			b.WriteString(StyleBold.Render("开题报告分析"))
			b.WriteString("\n\n")
			if analysis := m.workflow.Topic.Analysis(active.ID); analysis != "" {
				b.WriteString(renderMarkdown(analysis, width))
				b.WriteString("\n")
				b.WriteString(StyleDim.Render("[y] 确认并进入大纲  [g] 重新分析"))
			} else {
				b.WriteString(StyleDim.Render("[g] 上传文件开始分析"))
			}
			break
		}

		candidates := m.workflow.Topic.Candidates(active.ID)
		b.WriteString(StyleBold.Render("AI 选题建议"))
		b.WriteString("\n\n")
		if len(candidates) == 0 {
			b.WriteString(StyleDim.Render("[g] 填写专业方向，生成选题"))
			break
		}
		for i, c := range candidates {
			title := Truncate(c.Title, width-6)
			if i == m.candidateCursor {
				b.WriteString(StyleActiveItem.Render("> " + title))
				b.WriteString("\n")
				b.WriteString(StyleDim.Render("    " + Truncate(c.Overview, width-8)))
			} else {
				b.WriteString(StyleDim.Render("  " + title))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(StyleDim.Render("[enter] 查看详情  [g] 重新生成"))

	case domain.PhaseTopicSelected:
		topic := active.SelectedTopic
		b.WriteString(StyleBold.Render(topic.Title))
		b.WriteString("\n\n")
		detail := topic.FullDetail
		if detail == "" {
			detail = topic.Overview
		}
		b.WriteString(renderMarkdown(detail, width))
		b.WriteString("\n")
		b.WriteString(StyleDim.Render("[y] 确认选题  [esc] 返回列表"))
	}

	return b.String()
}

// renderSections draws the shared outline/drafting section list.
func (m *WorkflowModel) renderSections(active domain.Task, heading string, width int) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(heading))
	b.WriteString("\n\n")

	if len(active.Outline) == 0 {
		b.WriteString(StyleDim.Render("大纲生成中…"))
		return b.String()
	}

	for i, s := range active.Outline {
		title := fmt.Sprintf("%d. %s", i+1, s.Title)
		if i == m.sectionCursor {
			b.WriteString(StyleActiveItem.Render("> " + title))
			b.WriteString("\n")
			b.WriteString("    " + Truncate(s.Content, width-8))
		} else {
			b.WriteString(StyleDim.Render("  " + title))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render("[r] 修改本节  [c] 完成本步骤"))
	return b.String()
}

// renderRefinement draws the terminal critique list.
func (m *WorkflowModel) renderRefinement(active domain.Task, width int) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render("精修建议"))
	b.WriteString("\n\n")

	suggestions := active.RefinementSuggestions
	if len(suggestions) == 0 {
		b.WriteString(StyleDim.Render("建议生成中…"))
		return b.String()
	}

	for i, s := range suggestions {
		marker := "○"
		if m.workflow.Refine.IsResolved(active.ID, s.ID) {
			marker = "✓"
		}
		line := fmt.Sprintf("%s %s", marker, Truncate(s.Text, width-10))
		if i == m.suggestCursor {
			b.WriteString(StyleActiveItem.Render("> " + line))
			b.WriteString("\n")
			b.WriteString(StyleDim.Render("    " + Truncate(s.Comment, width-8)))
		} else {
			b.WriteString(StyleDim.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render("[enter] 标记已处理"))
	return b.String()
}

// renderForm draws the open input form.
func (m *WorkflowModel) renderForm() string {
	var b strings.Builder

	titles := map[formTarget]string{
		formNewTopic:    "生成选题",
		formExisting:    "分析开题报告",
		formInstruction: "修改要求",
	}
	b.WriteString(StyleBold.Render(titles[m.form]))
	b.WriteString("\n\n")

	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render("[tab] 切换  [enter] 提交  [esc] 取消"))
	return b.String()
}

// renderFooter shows the global key hints.
func (m *WorkflowModel) renderFooter() string {
	return StyleDim.Render("[tab] 任务列表  [esc] " + m.workflow.Tasks.BackLabel() + "  [q] 退出")
}

// renderMarkdown renders markdown through glamour, falling back to the raw
// text when rendering fails (narrow or dumb terminals).
func renderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
