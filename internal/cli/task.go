package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AKASH-DEV-23/taskctl/internal/api"
	"github.com/AKASH-DEV-23/taskctl/internal/core"
	"github.com/AKASH-DEV-23/taskctl/pkg/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long:  "List, inspect, create, edit, move, and delete tasks.",
}

// --- task list ---

var (
	taskListSearch   string
	taskListStatus   string
	taskListPriority string
	taskListAssignee string
)

var taskListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List tasks",
	Args:    cobra.NoArgs,
	PreRunE: requirePermission("task_management"),
	RunE: func(cmd *cobra.Command, args []string) error {
		filters := models.TaskFilters{
			Search:     taskListSearch,
			AssignedTo: taskListAssignee,
		}
		if taskListStatus != "" {
			status := models.TaskStatus(strings.ToUpper(taskListStatus))
			if !status.Valid() {
				return fmt.Errorf("invalid status %q", taskListStatus)
			}
			filters.Status = status
		}
		if taskListPriority != "" {
			priority := models.TaskPriority(strings.ToUpper(taskListPriority))
			if !priority.Valid() {
				return fmt.Errorf("invalid priority %q", taskListPriority)
			}
			filters.Priority = priority
		}

		tasks, err := Tasks.List(cmd.Context(), filters)
		if err != nil {
			return fmt.Errorf("%s", api.DisplayMessage(err, "Could not load tasks."))
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPRIORITY\tASSIGNEE\tDUE")
		for _, t := range tasks {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				t.ID, truncate(t.Title, 40), t.Status, t.Priority, t.AssigneeName(), t.DueDate)
		}
		return w.Flush()
	},
}

// --- task show ---

var taskShowCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show one task in full",
	Args:    cobra.ExactArgs(1),
	PreRunE: requirePermission("task_management"),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := Tasks.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("%s", api.DisplayMessage(err, "Could not load the task."))
		}

		var b strings.Builder
		fmt.Fprintf(&b, "# %s\n\n", task.Title)
		fmt.Fprintf(&b, "- **Status:** %s\n", task.Status.Label())
		fmt.Fprintf(&b, "- **Priority:** %s\n", task.Priority)
		if name := task.AssigneeName(); name != "" {
			fmt.Fprintf(&b, "- **Assignee:** %s\n", name)
		}
		if task.CreatedBy != nil {
			fmt.Fprintf(&b, "- **Created by:** %s\n", task.CreatedBy.DisplayName("unknown"))
		}
		if task.DueDate != "" {
			fmt.Fprintf(&b, "- **Due:** %s\n", task.DueDate)
		}
		if len(task.Tags) > 0 {
			fmt.Fprintf(&b, "- **Tags:** %s\n", strings.Join(task.Tags, ", "))
		}
		if task.Description != "" {
			fmt.Fprintf(&b, "\n%s\n", task.Description)
		}
		if len(task.Subtasks) > 0 {
			b.WriteString("\n## Subtasks\n\n")
			for _, st := range task.Subtasks {
				check := " "
				if st.Completed {
					check = "x"
				}
				fmt.Fprintf(&b, "- [%s] %s\n", check, st.Title)
			}
		}

		fmt.Print(renderMarkdown(b.String(), 100))
		return nil
	},
}

// --- task create ---

var (
	taskCreateTitle    string
	taskCreateDesc     string
	taskCreatePriority string
	taskCreateDue      string
	taskCreateAssignee string
	taskCreateTags     []string
	taskCreateSubtasks []string
)

var taskCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Create a task",
	Args:    cobra.NoArgs,
	PreRunE: requirePermission("task_management"),
	RunE: func(cmd *cobra.Command, args []string) error {
		priority := strings.ToUpper(taskCreatePriority)
		if errs := core.ValidateTaskForm(taskCreateTitle, taskCreateDesc, priority, taskCreateDue); !errs.OK() {
			return errs
		}

		subtasks := make([]models.SubTask, len(taskCreateSubtasks))
		for i, title := range taskCreateSubtasks {
			subtasks[i] = models.SubTask{ID: uuid.NewString(), Title: title}
		}

		task, err := Tasks.Create(cmd.Context(), models.TaskCreate{
			Title:       taskCreateTitle,
			Description: taskCreateDesc,
			Status:      models.StatusTodo,
			Priority:    models.TaskPriority(priority),
			AssignedTo:  taskCreateAssignee,
			DueDate:     taskCreateDue,
			Tags:        taskCreateTags,
			Subtasks:    subtasks,
		})
		if err != nil {
			return fmt.Errorf("%s", api.DisplayMessage(err, "Could not create the task."))
		}
		if task != nil {
			fmt.Println(okStyle.Render(fmt.Sprintf("Created task %s", task.ID)))
		}
		return nil
	},
}

// --- task edit ---

var (
	taskEditTitle    string
	taskEditDesc     string
	taskEditPriority string
	taskEditDue      string
	taskEditAssignee string
	taskEditTags     []string
)

var taskEditCmd = &cobra.Command{
	Use:     "edit <id>",
	Short:   "Edit task fields",
	Long:    "Edit a task. Only the flags given are changed; --tags replaces the whole tag list.",
	Args:    cobra.ExactArgs(1),
	PreRunE: requirePermission("task_management"),
	RunE: func(cmd *cobra.Command, args []string) error {
		var update models.TaskUpdate
		changed := false

		if cmd.Flags().Changed("title") {
			update.Title = &taskEditTitle
			changed = true
		}
		if cmd.Flags().Changed("description") {
			update.Description = &taskEditDesc
			changed = true
		}
		if cmd.Flags().Changed("priority") {
			priority := models.TaskPriority(strings.ToUpper(taskEditPriority))
			if !priority.Valid() {
				return fmt.Errorf("invalid priority %q", taskEditPriority)
			}
			update.Priority = &priority
			changed = true
		}
		if cmd.Flags().Changed("due") {
			update.DueDate = &taskEditDue
			changed = true
		}
		if cmd.Flags().Changed("assignee") {
			update.AssignedTo = &taskEditAssignee
			changed = true
		}
		if cmd.Flags().Changed("tags") {
			update.Tags = taskEditTags
			changed = true
		}
		if !changed {
			return fmt.Errorf("nothing to change, pass at least one field flag")
		}

		if _, err := Tasks.Update(cmd.Context(), args[0], update); err != nil {
			return fmt.Errorf("%s", api.DisplayMessage(err, "Could not update the task."))
		}
		fmt.Println(okStyle.Render("Task updated"))
		return nil
	},
}

// --- task move ---

var taskMoveCmd = &cobra.Command{
	Use:     "move <id> <status>",
	Short:   "Move a task to another column",
	Args:    cobra.ExactArgs(2),
	PreRunE: requirePermission("task_management"),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := models.TaskStatus(strings.ToUpper(args[1]))
		if !status.Valid() {
			return fmt.Errorf("invalid status %q, use TODO, IN_PROGRESS, REVIEW, or DONE", args[1])
		}
		update := models.TaskUpdate{Status: &status}
		if _, err := Tasks.Update(cmd.Context(), args[0], update); err != nil {
			return fmt.Errorf("%s", api.DisplayMessage(err, "Could not move the task."))
		}
		fmt.Println(okStyle.Render(fmt.Sprintf("Moved to %s", status.Label())))
		return nil
	},
}

// --- task bulk-move ---

var taskBulkMoveCmd = &cobra.Command{
	Use:     "bulk-move <status> <id>...",
	Short:   "Move several tasks to one column in a single request",
	Args:    cobra.MinimumNArgs(2),
	PreRunE: requirePermission("task_management"),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := models.TaskStatus(strings.ToUpper(args[0]))
		if !status.Valid() {
			return fmt.Errorf("invalid status %q, use TODO, IN_PROGRESS, REVIEW, or DONE", args[0])
		}
		updates := make([]models.StatusUpdate, len(args)-1)
		for i, id := range args[1:] {
			updates[i] = models.StatusUpdate{ID: id, Status: status}
		}
		moved, err := Tasks.BulkUpdateStatus(cmd.Context(), updates)
		if err != nil {
			return fmt.Errorf("%s", api.DisplayMessage(err, "Could not move the tasks."))
		}
		fmt.Println(okStyle.Render(fmt.Sprintf("Moved %d task(s) to %s", len(moved), status.Label())))
		return nil
	},
}

// --- task rm ---

var taskRmCmd = &cobra.Command{
	Use:     "rm <id>...",
	Short:   "Delete tasks",
	Args:    cobra.MinimumNArgs(1),
	PreRunE: requirePermission("task_management"),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, id := range args {
			if err := Tasks.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("deleting %s: %s", id, api.DisplayMessage(err, "request failed"))
			}
			fmt.Printf("Deleted %s\n", id)
		}
		return nil
	},
}

func init() {
	taskListCmd.Flags().StringVar(&taskListSearch, "search", "", "filter by title or description")
	taskListCmd.Flags().StringVar(&taskListStatus, "status", "", "filter by status")
	taskListCmd.Flags().StringVar(&taskListPriority, "priority", "", "filter by priority")
	taskListCmd.Flags().StringVar(&taskListAssignee, "assignee", "", "filter by assignee user id")

	taskCreateCmd.Flags().StringVar(&taskCreateTitle, "title", "", "task title")
	taskCreateCmd.Flags().StringVar(&taskCreateDesc, "description", "", "task description")
	taskCreateCmd.Flags().StringVar(&taskCreatePriority, "priority", "MEDIUM", "LOW, MEDIUM, or HIGH")
	taskCreateCmd.Flags().StringVar(&taskCreateDue, "due", "", "due date (YYYY-MM-DD)")
	taskCreateCmd.Flags().StringVar(&taskCreateAssignee, "assignee", "", "user id to assign")
	taskCreateCmd.Flags().StringSliceVar(&taskCreateTags, "tags", nil, "comma-separated tags")
	taskCreateCmd.Flags().StringSliceVar(&taskCreateSubtasks, "subtask", nil, "subtask title, repeatable")

	taskEditCmd.Flags().StringVar(&taskEditTitle, "title", "", "new title")
	taskEditCmd.Flags().StringVar(&taskEditDesc, "description", "", "new description")
	taskEditCmd.Flags().StringVar(&taskEditPriority, "priority", "", "new priority")
	taskEditCmd.Flags().StringVar(&taskEditDue, "due", "", "new due date (YYYY-MM-DD)")
	taskEditCmd.Flags().StringVar(&taskEditAssignee, "assignee", "", "new assignee user id")
	taskEditCmd.Flags().StringSliceVar(&taskEditTags, "tags", nil, "replacement tag list")

	taskCmd.AddCommand(taskListCmd, taskShowCmd, taskCreateCmd, taskEditCmd, taskMoveCmd, taskBulkMoveCmd, taskRmCmd)
	rootCmd.AddCommand(taskCmd)
}
