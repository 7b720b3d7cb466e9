package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/AKASH-DEV-23/taskctl/internal/api"
	"github.com/AKASH-DEV-23/taskctl/internal/core"
	"github.com/AKASH-DEV-23/taskctl/internal/listing"
	"github.com/AKASH-DEV-23/taskctl/pkg/models"
)

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Manage roles",
	Long:  "Browse roles and edit the permissions they grant.",
}

var roleListCmd = &cobra.Command{
	Use:     "list",
	Short:   "Interactive paginated role list with a permission editor",
	Args:    cobra.NoArgs,
	PreRunE: requirePermission("role_management"),
	RunE: func(cmd *cobra.Command, args []string) error {
		var p *tea.Program
		deb := listing.NewDebouncer(0, func(value string) {
			p.Send(roleSearchMsg{value: value})
		})
		defer deb.Stop()

		p = tea.NewProgram(newRoleListModel(deb), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

type roleSearchMsg struct {
	value string
}

type rolePageMsg struct {
	seq   int
	roles []models.Role
	pg    models.Pagination
	err   error
}

type roleSavedMsg struct {
	err error
}

type roleDeletedMsg struct {
	result listing.BulkResult
}

type roleListModel struct {
	pager     *listing.Pager
	marked    *listing.Selection
	debouncer *listing.Debouncer

	search textinput.Model
	typing bool

	roles  []models.Role
	row    int
	seq    int
	term   string
	status string

	// Permission editor state; editing is non-nil while the editor is open.
	editing   *models.Role
	selection *core.PermissionSelection
	permRow   int

	loading bool
}

func newRoleListModel(deb *listing.Debouncer) roleListModel {
	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search roles"
	return roleListModel{
		pager:     listing.NewPager(listing.DefaultPageSize),
		marked:    listing.NewSelection(),
		debouncer: deb,
		search:    search,
		loading:   true,
	}
}

func (m roleListModel) fetch() tea.Cmd {
	seq := m.seq
	page, limit, term := m.pager.Page(), m.pager.Limit(), m.term
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), Config.APITimeout)
		defer cancel()
		list, err := Roles.List(ctx, api.RoleListParams{Page: page, Limit: limit, Search: term})
		if err != nil {
			return rolePageMsg{seq: seq, err: err}
		}
		return rolePageMsg{seq: seq, roles: list.Roles, pg: list.Pagination}
	}
}

func (m roleListModel) Init() tea.Cmd {
	return m.fetch()
}

func (m roleListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case rolePageMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.status = api.DisplayMessage(msg.err, "Could not load roles.")
			return m, nil
		}
		m.roles = msg.roles
		m.pager.SetTotals(msg.pg)
		m.status = ""
		if m.row >= len(m.roles) {
			m.row = len(m.roles) - 1
		}
		if m.row < 0 {
			m.row = 0
		}
		return m, nil

	case roleSearchMsg:
		m.term = msg.value
		m.pager.Reset()
		m.marked.Clear()
		m.seq++
		m.loading = true
		return m, m.fetch()

	case roleSavedMsg:
		if msg.err != nil {
			m.status = api.DisplayMessage(msg.err, "Could not save the role.")
			return m, nil
		}
		m.editing = nil
		m.selection = nil
		m.status = "Role saved."
		m.seq++
		m.loading = true
		return m, m.fetch()

	case roleDeletedMsg:
		m.marked.Clear()
		if len(msg.result.Failed) > 0 {
			m.status = fmt.Sprintf("Deleted %d, failed %d", len(msg.result.Deleted), len(msg.result.Failed))
		} else {
			m.status = fmt.Sprintf("Deleted %d role(s)", len(msg.result.Deleted))
		}
		m.pager.StepBackIfEmptied(len(m.roles) - len(msg.result.Deleted))
		m.seq++
		m.loading = true
		return m, m.fetch()

	case tea.KeyMsg:
		if m.editing != nil {
			return m.updateEditor(msg)
		}
		if m.typing {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m roleListModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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

func (m roleListModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.row > 0 {
			m.row--
		}
		return m, nil

	case "down", "j":
		if m.row < len(m.roles)-1 {
			m.row++
		}
		return m, nil

	case "left", "p":
		if m.pager.Prev() {
			m.marked.Clear()
			m.seq++
			m.loading = true
			return m, m.fetch()
		}
		return m, nil

	case "right", "n":
		if m.pager.Next() {
			m.marked.Clear()
			m.seq++
			m.loading = true
			return m, m.fetch()
		}
		return m, nil

	case " ":
		if m.row < len(m.roles) {
			m.marked.Toggle(m.roles[m.row].ID)
		}
		return m, nil

	case "A":
		m.marked.SelectAll(m.visibleIDs())
		return m, nil

	case "enter":
		if m.row < len(m.roles) {
			role := m.roles[m.row]
			m.editing = &role
			m.selection = core.NewPermissionSelection(Config.Permissions, role.Permissions)
			m.permRow = 0
		}
		return m, nil

	case "x":
		ids := m.marked.IDs()
		if len(ids) == 0 && m.row < len(m.roles) {
			ids = []string{m.roles[m.row].ID}
		}
		if len(ids) == 0 {
			return m, nil
		}
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), Config.APITimeout)
			defer cancel()
			return roleDeletedMsg{result: listing.BulkDelete(ctx, ids, Roles.Delete)}
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

func (m roleListModel) visibleIDs() []string {
	ids := make([]string, len(m.roles))
	for i, r := range m.roles {
		ids[i] = r.ID
	}
	return ids
}

func (m roleListModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	codes := Config.Permissions.Codes()

	switch msg.String() {
	case "esc":
		m.editing = nil
		m.selection = nil
		return m, nil

	case "up", "k":
		if m.permRow > 0 {
			m.permRow--
		}
		return m, nil

	case "down", "j":
		if m.permRow < len(codes)-1 {
			m.permRow++
		}
		return m, nil

	case " ":
		if m.permRow < len(codes) {
			m.selection.Toggle(codes[m.permRow])
		}
		return m, nil

	case "enter":
		if errs := core.ValidateRoleForm(m.editing.Name, m.selection); !errs.OK() {
			m.status = errs.Error()
			return m, nil
		}
		id, name, desc := m.editing.ID, m.editing.Name, m.editing.Description
		perms := m.selection.Codes()
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), Config.APITimeout)
			defer cancel()
			_, err := Roles.Update(ctx, id, name, desc, perms)
			return roleSavedMsg{err: err}
		}
	}

	return m, nil
}

func (m roleListModel) View() string {
	if m.editing != nil {
		return m.viewEditor()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(" Roles "))
	b.WriteString("\n\n")

	if m.typing || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
	}

	if m.loading {
		b.WriteString("Loading roles...\n")
	} else if len(m.roles) == 0 {
		b.WriteString(dimStyle.Render("No roles found.") + "\n")
	} else {
		for i, role := range m.roles {
			check := "[ ]"
			if m.marked.Selected(role.ID) {
				check = "[x]"
			}
			perms := rolePermissionSummary(role.Permissions)
			line := fmt.Sprintf("%s %-20s %-36s %s", check, truncate(role.Name, 20), truncate(role.Description, 36), perms)
			if i == m.row {
				line = cursorStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("page %d/%d, %d roles", m.pager.Page(), m.pager.TotalPages(), m.pager.TotalItems())))
	if count := m.marked.Count(); count > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf(" | %d selected", count)))
	}
	if m.status != "" {
		b.WriteString("\n" + errStyle.Render(m.status))
	}
	b.WriteString("\n" + helpStyle.Render("space: select | A: select page | enter: edit permissions | x: delete | /: search | n/p: page | q: quit"))
	return b.String()
}

func (m roleListModel) viewEditor() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf(" Permissions: %s ", m.editing.Name)))
	b.WriteString("\n\n")

	for i, code := range Config.Permissions.Codes() {
		check := "[ ]"
		if m.selection.Has(code) {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s", check, Config.Permissions.FormattedNameFor(code))
		if i == m.permRow {
			line = cursorStyle.Render(line)
		}
		b.WriteString("  " + line + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + errStyle.Render(m.status))
	}
	b.WriteString("\n" + helpStyle.Render("space: toggle | enter: save | esc: cancel"))
	return b.String()
}

// rolePermissionSummary renders a role's permission codes as names,
// collapsing the sentinel to a single word.
func rolePermissionSummary(codes []int) string {
	pm := Config.Permissions
	if allCode, ok := pm.AllCode(); ok {
		for _, code := range codes {
			if code == allCode {
				return "All"
			}
		}
	}
	names := make([]string, 0, len(codes))
	for _, code := range codes {
		names = append(names, pm.FormattedNameFor(code))
	}
	return strings.Join(names, ", ")
}

// --- role add ---

var (
	roleAddName  string
	roleAddDesc  string
	roleAddPerms []string
)

var roleAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Create a role",
	Long:    `Create a role. --perm takes permission names from the configured map, for example --perm user_management --perm task_management, or --perm all.`,
	Args:    cobra.NoArgs,
	PreRunE: requirePermission("role_management"),
	RunE: func(cmd *cobra.Command, args []string) error {
		selection, err := selectionFromNames(roleAddPerms)
		if err != nil {
			return err
		}
		if errs := core.ValidateRoleForm(roleAddName, selection); !errs.OK() {
			return errs
		}

		role, err := Roles.Create(cmd.Context(), roleAddName, roleAddDesc, selection.Codes())
		if err != nil {
			return fmt.Errorf("%s", api.DisplayMessage(err, "Could not create the role."))
		}
		if role != nil {
			fmt.Println(okStyle.Render(fmt.Sprintf("Created role %s", role.ID)))
		}
		return nil
	},
}

// --- role set ---

var (
	roleSetName  string
	roleSetDesc  string
	roleSetPerms []string
)

var roleSetCmd = &cobra.Command{
	Use:     "set <id>",
	Short:   "Edit a role",
	Args:    cobra.ExactArgs(1),
	PreRunE: requirePermission("role_management"),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := Roles.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("%s", api.DisplayMessage(err, "Could not load the role."))
		}

		name, desc, perms := role.Name, role.Description, role.Permissions
		if cmd.Flags().Changed("name") {
			name = roleSetName
		}
		if cmd.Flags().Changed("description") {
			desc = roleSetDesc
		}
		selection := core.NewPermissionSelection(Config.Permissions, perms)
		if cmd.Flags().Changed("perm") {
			selection, err = selectionFromNames(roleSetPerms)
			if err != nil {
				return err
			}
		}
		if errs := core.ValidateRoleForm(name, selection); !errs.OK() {
			return errs
		}

		if _, err := Roles.Update(cmd.Context(), args[0], name, desc, selection.Codes()); err != nil {
			return fmt.Errorf("%s", api.DisplayMessage(err, "Could not update the role."))
		}
		fmt.Println(okStyle.Render("Role updated"))
		return nil
	},
}

// --- role rm ---

var roleRmCmd = &cobra.Command{
	Use:     "rm <id>...",
	Short:   "Delete roles",
	Args:    cobra.MinimumNArgs(1),
	PreRunE: requirePermission("role_management"),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, id := range args {
			if err := Roles.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("deleting %s: %s", id, api.DisplayMessage(err, "request failed"))
			}
			fmt.Printf("Deleted %s\n", id)
		}
		return nil
	},
}

// selectionFromNames builds a permission selection from permission names,
// going through Toggle so the sentinel rules apply.
func selectionFromNames(names []string) (*core.PermissionSelection, error) {
	selection := core.NewPermissionSelection(Config.Permissions, nil)
	for _, name := range names {
		code, ok := Config.Permissions.CodeFor(name)
		if !ok {
			return nil, fmt.Errorf("unknown permission %q, valid names: %s", name, strings.Join(Config.Permissions.Names(), ", "))
		}
		if !selection.Has(code) {
			selection.Toggle(code)
		}
	}
	return selection, nil
}

func init() {
	roleAddCmd.Flags().StringVar(&roleAddName, "name", "", "role name")
	roleAddCmd.Flags().StringVar(&roleAddDesc, "description", "", "role description")
	roleAddCmd.Flags().StringArrayVar(&roleAddPerms, "perm", nil, "permission name, repeatable")

	roleSetCmd.Flags().StringVar(&roleSetName, "name", "", "new name")
	roleSetCmd.Flags().StringVar(&roleSetDesc, "description", "", "new description")
	roleSetCmd.Flags().StringArrayVar(&roleSetPerms, "perm", nil, "replacement permission name, repeatable")

	roleCmd.AddCommand(roleListCmd, roleAddCmd, roleSetCmd, roleRmCmd)
	rootCmd.AddCommand(roleCmd)
}
