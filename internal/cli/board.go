package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/AKASH-DEV-23/taskctl/internal/api"
	"github.com/AKASH-DEV-23/taskctl/internal/board"
	"github.com/AKASH-DEV-23/taskctl/pkg/models"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Interactive Kanban board",
	Long: `Launch the interactive Kanban board.

Tasks are shown in four columns (To Do, In Progress, Review, Done).
Grab a task with space, move to another column, and drop it with space
again; the move is applied immediately and rolled back if the backend
rejects it. Search with /, filter by assignee with a, open a task with
enter.`,
	Args:    cobra.NoArgs,
	PreRunE: requirePermission("task_management"),
	RunE: func(cmd *cobra.Command, args []string) error {
		b := board.New(Tasks)
		p := tea.NewProgram(newBoardModel(b), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

type boardTasksMsg struct {
	tasks []models.Task
	err   error
}

type boardOpMsg struct {
	err error
}

type boardModel struct {
	board *board.Board

	col int
	row int

	width  int
	height int

	searching bool
	search    textinput.Model

	assignees   []string
	assigneeIdx int // 0 means no filter

	detailOpen bool
	subtaskRow int

	loading bool
	status  string
}

func newBoardModel(b *board.Board) boardModel {
	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search tasks"
	return boardModel{
		board:   b,
		search:  search,
		loading: true,
	}
}

func (m boardModel) Init() tea.Cmd {
	return loadBoardTasks
}

func loadBoardTasks() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), Config.APITimeout)
	defer cancel()
	tasks, err := Tasks.List(ctx, models.TaskFilters{})
	return boardTasksMsg{tasks: tasks, err: err}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardTasksMsg:
		m.loading = false
		if msg.err != nil {
			m.status = api.DisplayMessage(msg.err, "Could not load tasks.")
			return m, nil
		}
		m.board.SetTasks(msg.tasks)
		m.assignees = m.board.AssigneeNames()
		m.assigneeIdx = 0
		m.status = ""
		m.clampCursor()
		return m, nil

	case boardOpMsg:
		if msg.err != nil {
			m.status = api.DisplayMessage(msg.err, "The change was rejected and has been undone.")
		} else {
			m.status = ""
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.detailOpen {
			return m.updateDetail(msg)
		}
		return m.updateBoard(msg)
	}

	return m, nil
}

func (m boardModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.board.SetSearch(m.search.Value())
	m.clampCursor()
	return m, cmd
}

func (m boardModel) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.board.Dragging() != "" {
			m.board.CancelDrag()
			return m, nil
		}
		return m, tea.Quit

	case "left", "h":
		if m.col > 0 {
			m.col--
			m.clampCursor()
		}
		return m, nil

	case "right", "l":
		if m.col < len(models.Statuses)-1 {
			m.col++
			m.clampCursor()
		}
		return m, nil

	case "up", "k":
		if m.row > 0 {
			m.row--
		}
		return m, nil

	case "down", "j":
		if m.row < len(m.currentColumn())-1 {
			m.row++
		}
		return m, nil

	case " ":
		if id := m.board.Dragging(); id != "" {
			target := models.Statuses[m.col]
			return m, m.dropCmd(target)
		}
		if task := m.taskUnderCursor(); task != nil {
			m.board.StartDrag(task.ID)
		}
		return m, nil

	case "enter":
		if task := m.taskUnderCursor(); task != nil {
			m.board.OpenDetail(task.ID)
			m.detailOpen = true
			m.subtaskRow = 0
		}
		return m, nil

	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink

	case "a":
		m.cycleAssignee()
		return m, nil

	case "r":
		m.loading = true
		return m, loadBoardTasks
	}

	return m, nil
}

func (m boardModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	detail := m.board.Detail()
	if detail == nil {
		m.detailOpen = false
		return m, nil
	}

	switch msg.String() {
	case "esc", "q":
		m.board.CloseDetail()
		m.detailOpen = false
		return m, nil

	case "up", "k":
		if m.subtaskRow > 0 {
			m.subtaskRow--
		}
		return m, nil

	case "down", "j":
		if m.subtaskRow < len(detail.Subtasks)-1 {
			m.subtaskRow++
		}
		return m, nil

	case " ":
		if m.subtaskRow < len(detail.Subtasks) {
			taskID := detail.ID
			subtaskID := detail.Subtasks[m.subtaskRow].ID
			return m, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), Config.APITimeout)
				defer cancel()
				return boardOpMsg{err: m.board.ToggleSubtask(ctx, taskID, subtaskID)}
			}
		}
		return m, nil

	case "1", "2", "3", "4":
		idx := int(msg.String()[0] - '1')
		taskID := detail.ID
		target := models.Statuses[idx]
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), Config.APITimeout)
			defer cancel()
			return boardOpMsg{err: m.board.SetStatus(ctx, taskID, target)}
		}

	case "x":
		taskID := detail.ID
		m.board.CloseDetail()
		m.detailOpen = false
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), Config.APITimeout)
			defer cancel()
			if err := Tasks.Delete(ctx, taskID); err != nil {
				return boardOpMsg{err: err}
			}
			m.board.Remove(taskID)
			return boardOpMsg{}
		}
	}

	return m, nil
}

func (m *boardModel) dropCmd(target models.TaskStatus) tea.Cmd {
	b := m.board
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), Config.APITimeout)
		defer cancel()
		return boardOpMsg{err: b.Drop(ctx, target)}
	}
}

func (m *boardModel) cycleAssignee() {
	// Index 0 is "everyone"; the rest walk the distinct assignee names.
	m.assigneeIdx = (m.assigneeIdx + 1) % (len(m.assignees) + 1)
	if m.assigneeIdx == 0 {
		m.board.SetAssigneeFilter("")
	} else {
		m.board.SetAssigneeFilter(m.assignees[m.assigneeIdx-1])
	}
	m.clampCursor()
}

func (m *boardModel) currentColumn() []models.Task {
	return m.board.Column(models.Statuses[m.col])
}

func (m *boardModel) taskUnderCursor() *models.Task {
	column := m.currentColumn()
	if m.row < 0 || m.row >= len(column) {
		return nil
	}
	return &column[m.row]
}

func (m *boardModel) clampCursor() {
	column := m.currentColumn()
	if m.row >= len(column) {
		m.row = len(column) - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

func (m boardModel) View() string {
	if m.width == 0 || m.loading {
		return "Loading board..."
	}
	if m.detailOpen {
		return m.viewDetail()
	}
	return m.viewBoard()
}

func (m boardModel) viewBoard() string {
	title := titleStyle.Render(" Task Board ")

	colWidth := m.width/len(models.Statuses) - 4
	if colWidth < 16 {
		colWidth = 16
	}

	columns := make([]string, len(models.Statuses))
	for i, status := range models.Statuses {
		columns[i] = m.renderColumn(i, status, colWidth)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	var footer []string
	if m.searching || m.search.Value() != "" {
		footer = append(footer, m.search.View())
	}
	if m.assigneeIdx > 0 {
		footer = append(footer, dimStyle.Render("assignee: "+m.assignees[m.assigneeIdx-1]))
	}
	if id := m.board.Dragging(); id != "" {
		if task, ok := m.board.Get(id); ok {
			footer = append(footer, draggedStyle.Render(fmt.Sprintf("moving: %s", task.Title)))
		}
	}
	if m.status != "" {
		footer = append(footer, errStyle.Render(m.status))
	}
	footer = append(footer, helpStyle.Render("space: grab/drop | enter: open | /: search | a: assignee | r: refresh | q: quit"))

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, strings.Join(footer, "\n"))
}

func (m boardModel) renderColumn(idx int, status models.TaskStatus, width int) string {
	var b strings.Builder
	tasks := m.board.Column(status)
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", status.Label(), len(tasks))))
	b.WriteString("\n")

	draggedID := m.board.Dragging()
	for row, task := range tasks {
		line := truncate(task.Title, width-4)
		switch {
		case task.ID == draggedID:
			line = draggedStyle.Render("* " + line)
		case idx == m.col && row == m.row:
			line = cursorStyle.Render("> " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
		meta := "  " + styleForPriority(task.Priority).Render(string(task.Priority))
		if name := task.AssigneeName(); name != "" {
			meta += dimStyle.Render(" " + truncate(name, width-10))
		}
		b.WriteString(meta)
		b.WriteString("\n")
	}
	if len(tasks) == 0 {
		b.WriteString(dimStyle.Render("  empty"))
	}

	style := columnStyle
	if idx == m.col {
		style = activeColumnStyle
	}
	return style.Width(width).Render(b.String())
}

func (m boardModel) viewDetail() string {
	task := m.board.Detail()
	if task == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(" " + task.Title + " "))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Status:   %s\n", task.Status.Label()))
	b.WriteString("Priority: ")
	b.WriteString(styleForPriority(task.Priority).Render(string(task.Priority)))
	b.WriteString("\n")
	if name := task.AssigneeName(); name != "" {
		b.WriteString(fmt.Sprintf("Assignee: %s\n", name))
	}
	if task.DueDate != "" {
		b.WriteString(fmt.Sprintf("Due:      %s\n", task.DueDate))
	}
	if len(task.Tags) > 0 {
		b.WriteString(fmt.Sprintf("Tags:     %s\n", strings.Join(task.Tags, ", ")))
	}

	if task.Description != "" {
		b.WriteString("\n")
		b.WriteString(renderMarkdown(task.Description, m.width-4))
		b.WriteString("\n")
	}

	if len(task.Subtasks) > 0 {
		b.WriteString("\nSubtasks:\n")
		for i, st := range task.Subtasks {
			check := "[ ]"
			if st.Completed {
				check = "[x]"
			}
			line := fmt.Sprintf("%s %s", check, st.Title)
			if i == m.subtaskRow {
				line = cursorStyle.Render(line)
			}
			b.WriteString("  " + line + "\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n" + errStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("1-4: move column | space: toggle subtask | x: delete | esc: back"))
	return b.String()
}

func truncate(s string, max int) string {
	if max < 1 {
		max = 1
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func init() {
	rootCmd.AddCommand(boardCmd)
}
