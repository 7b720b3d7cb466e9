package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/AKASH-DEV-23/taskctl/internal/api"
	"github.com/AKASH-DEV-23/taskctl/internal/core"
	"github.com/AKASH-DEV-23/taskctl/internal/listing"
	"github.com/AKASH-DEV-23/taskctl/pkg/models"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
	Long:  "Browse, add, edit, and remove user accounts.",
}

var userListCmd = &cobra.Command{
	Use:     "list",
	Short:   "Interactive paginated user list",
	Args:    cobra.NoArgs,
	PreRunE: requirePermission("user_management"),
	RunE: func(cmd *cobra.Command, args []string) error {
		var p *tea.Program
		deb := listing.NewDebouncer(0, func(value string) {
			p.Send(userSearchMsg{value: value})
		})
		defer deb.Stop()

		p = tea.NewProgram(newUserListModel(deb), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

type userSearchMsg struct {
	value string
}

type userPageMsg struct {
	seq   int
	users []models.User
	pg    models.Pagination
	err   error
}

type userDeletedMsg struct {
	result listing.BulkResult
}

type userListModel struct {
	pager     *listing.Pager
	selection *listing.Selection
	debouncer *listing.Debouncer

	search textinput.Model
	typing bool

	users  []models.User
	row    int
	seq    int
	term   string
	status string

	loading bool
	width   int
}

func newUserListModel(deb *listing.Debouncer) userListModel {
	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search users"
	return userListModel{
		pager:     listing.NewPager(listing.DefaultPageSize),
		selection: listing.NewSelection(),
		debouncer: deb,
		search:    search,
		loading:   true,
	}
}

func (m userListModel) fetch() tea.Cmd {
	seq := m.seq
	page, limit, term := m.pager.Page(), m.pager.Limit(), m.term
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), Config.APITimeout)
		defer cancel()
		list, err := Users.List(ctx, api.UserListParams{Page: page, Limit: limit, Search: term})
		if err != nil {
			return userPageMsg{seq: seq, err: err}
		}
		return userPageMsg{seq: seq, users: list.Users, pg: list.Pagination}
	}
}

func (m userListModel) Init() tea.Cmd {
	return m.fetch()
}

func (m userListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case userPageMsg:
		// A newer fetch is in flight; this page is stale.
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.status = api.DisplayMessage(msg.err, "Could not load users.")
			return m, nil
		}
		m.users = msg.users
		m.pager.SetTotals(msg.pg)
		m.status = ""
		if m.row >= len(m.users) {
			m.row = len(m.users) - 1
		}
		if m.row < 0 {
			m.row = 0
		}
		return m, nil

	case userSearchMsg:
		m.term = msg.value
		m.pager.Reset()
		m.selection.Clear()
		m.seq++
		m.loading = true
		return m, m.fetch()

	case userDeletedMsg:
		m.selection.Clear()
		if len(msg.result.Failed) > 0 {
			m.status = fmt.Sprintf("Deleted %d, failed %d", len(msg.result.Deleted), len(msg.result.Failed))
		} else {
			m.status = fmt.Sprintf("Deleted %d user(s)", len(msg.result.Deleted))
		}
		m.pager.StepBackIfEmptied(len(m.users) - len(msg.result.Deleted))
		m.seq++
		m.loading = true
		return m, m.fetch()

	case tea.KeyMsg:
		if m.typing {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m userListModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.typing = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.debouncer.Trigger(m.search.Value())
	return m, cmd
}

func (m userListModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.row > 0 {
			m.row--
		}
		return m, nil

	case "down", "j":
		if m.row < len(m.users)-1 {
			m.row++
		}
		return m, nil

	case "left", "p":
		if m.pager.Prev() {
			m.selection.Clear()
			m.seq++
			m.loading = true
			return m, m.fetch()
		}
		return m, nil

	case "right", "n":
		if m.pager.Next() {
			m.selection.Clear()
			m.seq++
			m.loading = true
			return m, m.fetch()
		}
		return m, nil

	case " ":
		if m.row < len(m.users) {
			m.selection.Toggle(m.users[m.row].ID)
		}
		return m, nil

	case "A":
		m.selection.SelectAll(m.visibleIDs())
		return m, nil

	case "x":
		ids := m.selection.IDs()
		if len(ids) == 0 && m.row < len(m.users) {
			ids = []string{m.users[m.row].ID}
		}
		if len(ids) == 0 {
			return m, nil
		}
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), Config.APITimeout)
			defer cancel()
			return userDeletedMsg{result: listing.BulkDelete(ctx, ids, Users.Delete)}
		}

	case "/":
		m.typing = true
		m.search.Focus()
		return m, textinput.Blink

	case "r":
		m.seq++
		m.loading = true
		return m, m.fetch()
	}

	return m, nil
}

func (m userListModel) visibleIDs() []string {
	ids := make([]string, len(m.users))
	for i, u := range m.users {
		ids[i] = u.ID
	}
	return ids
}

func (m userListModel) View() string {
	title := titleStyle.Render(" Users ")

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")

	if m.typing || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
	}

	if m.loading {
		b.WriteString("Loading users...\n")
	} else if len(m.users) == 0 {
		b.WriteString(dimStyle.Render("No users found.") + "\n")
	} else {
		for i, u := range m.users {
			check := "[ ]"
			if m.selection.Selected(u.ID) {
				check = "[x]"
			}
			roleName := ""
			if u.Role != nil {
				roleName = u.Role.Name
			}
			line := fmt.Sprintf("%s %-24s %-30s %-16s %s", check, truncate(u.Name, 24), truncate(u.Email, 30), roleName, u.Status)
			if i == m.row {
				line = cursorStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("page %d/%d, %d users", m.pager.Page(), m.pager.TotalPages(), m.pager.TotalItems())))
	if count := m.selection.Count(); count > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf(" | %d selected", count)))
	}
	if m.status != "" {
		b.WriteString("\n" + errStyle.Render(m.status))
	}
	b.WriteString("\n" + helpStyle.Render("space: select | A: select page | x: delete | /: search | n/p: page | q: quit"))
	return b.String()
}

// --- user add ---

var (
	userAddName   string
	userAddEmail  string
	userAddRole   string
	userAddStatus string
)

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a user",
	Long: `Add a user account. The backend generates a password and emails it to
the new user. --role takes a role name or id; omit it for no role.`,
	Args:    cobra.NoArgs,
	PreRunE: requirePermission("user_management"),
	RunE: func(cmd *cobra.Command, args []string) error {
		if errs := core.ValidateNewUser(userAddName, userAddEmail); !errs.OK() {
			return errs
		}
		status := models.UserStatus(userAddStatus)
		if status != models.UserAvailable && status != models.UserNotAvailable {
			return fmt.Errorf("invalid status %q, use %q or %q", userAddStatus, models.UserAvailable, models.UserNotAvailable)
		}

		var rolePtr *string
		if userAddRole != "" {
			roleID, err := resolveRole(cmd.Context(), userAddRole)
			if err != nil {
				return err
			}
			rolePtr = &roleID
		}

		user, err := Users.Create(cmd.Context(), api.NewUser{
			Name:   userAddName,
			Email:  userAddEmail,
			Status: status,
			Role:   rolePtr,
		})
		if err != nil {
			return fmt.Errorf("%s", api.DisplayMessage(err, "Could not add the user."))
		}
		if user != nil {
			fmt.Println(okStyle.Render(fmt.Sprintf("Added user %s, credentials were emailed to %s", user.ID, user.Email)))
		}
		return nil
	},
}

// --- user set ---

var (
	userSetName   string
	userSetEmail  string
	userSetRole   string
	userSetStatus string
)

var userSetCmd = &cobra.Command{
	Use:     "set <id>",
	Short:   "Edit user fields",
	Args:    cobra.ExactArgs(1),
	PreRunE: requirePermission("user_management"),
	RunE: func(cmd *cobra.Command, args []string) error {
		var update api.UserUpdate
		changed := false

		if cmd.Flags().Changed("name") {
			if !core.IsValidName(userSetName) {
				return fmt.Errorf("name must be at least 2 characters long")
			}
			update.Name = &userSetName
			changed = true
		}
		if cmd.Flags().Changed("email") {
			if !core.IsValidEmail(userSetEmail) {
				return fmt.Errorf("please enter a valid email address")
			}
			update.Email = &userSetEmail
			changed = true
		}
		if cmd.Flags().Changed("status") {
			status := models.UserStatus(userSetStatus)
			if status != models.UserAvailable && status != models.UserNotAvailable {
				return fmt.Errorf("invalid status %q", userSetStatus)
			}
			update.Status = &status
			changed = true
		}
		if cmd.Flags().Changed("role") {
			roleID, err := resolveRole(cmd.Context(), userSetRole)
			if err != nil {
				return err
			}
			update.Role = &roleID
			changed = true
		}
		if !changed {
			return fmt.Errorf("nothing to change, pass at least one field flag")
		}

		if _, err := Users.Update(cmd.Context(), args[0], update); err != nil {
			return fmt.Errorf("%s", api.DisplayMessage(err, "Could not update the user."))
		}
		fmt.Println(okStyle.Render("User updated"))
		return nil
	},
}

// --- user rm ---

var userRmCmd = &cobra.Command{
	Use:     "rm <id>...",
	Short:   "Delete users",
	Args:    cobra.MinimumNArgs(1),
	PreRunE: requirePermission("user_management"),
	RunE: func(cmd *cobra.Command, args []string) error {
		result := listing.BulkDelete(cmd.Context(), args, Users.Delete)
		sort.Strings(result.Deleted)
		for _, id := range result.Deleted {
			fmt.Printf("Deleted %s\n", id)
		}
		if len(result.Failed) > 0 {
			w := tabwriter.NewWriter(os.Stderr, 0, 4, 2, ' ', 0)
			for id, err := range result.Failed {
				fmt.Fprintf(w, "%s\t%s\n", id, api.DisplayMessage(err, "request failed"))
			}
			w.Flush()
			return fmt.Errorf("%d deletion(s) failed", len(result.Failed))
		}
		return nil
	},
}

// resolveRole accepts a role name or id and returns the role id.
func resolveRole(ctx context.Context, nameOrID string) (string, error) {
	roles, err := Roles.All(ctx)
	if err != nil {
		return "", fmt.Errorf("%s", api.DisplayMessage(err, "Could not load roles."))
	}
	for _, r := range roles {
		if r.ID == nameOrID || strings.EqualFold(r.Name, nameOrID) {
			return r.ID, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", nameOrID)
}

func init() {
	userAddCmd.Flags().StringVar(&userAddName, "name", "", "full name")
	userAddCmd.Flags().StringVar(&userAddEmail, "email", "", "email address")
	userAddCmd.Flags().StringVar(&userAddRole, "role", "", "role name or id")
	userAddCmd.Flags().StringVar(&userAddStatus, "status", string(models.UserAvailable), "availability status")

	userSetCmd.Flags().StringVar(&userSetName, "name", "", "new name")
	userSetCmd.Flags().StringVar(&userSetEmail, "email", "", "new email")
	userSetCmd.Flags().StringVar(&userSetRole, "role", "", "new role name or id")
	userSetCmd.Flags().StringVar(&userSetStatus, "status", "", "new availability status")

	userCmd.AddCommand(userListCmd, userAddCmd, userSetCmd, userRmCmd)
	rootCmd.AddCommand(userCmd)
}
