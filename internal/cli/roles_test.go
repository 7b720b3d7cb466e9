package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AKASH-DEV-23/taskctl/internal/listing"
	"github.com/AKASH-DEV-23/taskctl/pkg/models"
)

func roleFixture() []models.Role {
	return []models.Role{
		{ID: "r1", Name: "Admin", Permissions: []int{99}},
		{ID: "r2", Name: "Editor", Permissions: []int{3}},
		{ID: "r3", Name: "Viewer", Permissions: []int{1}},
	}
}

func loadedRoleModel(t *testing.T, roles []models.Role, pg models.Pagination) roleListModel {
	t.Helper()
	m := newRoleListModel(listing.NewDebouncer(0, func(string) {}))
	next, _ := m.Update(rolePageMsg{seq: 0, roles: roles, pg: pg})
	return next.(roleListModel)
}

func pressRoleKey(m roleListModel, key string) roleListModel {
	var msg tea.Msg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(roleListModel)
}

func TestRoleListModel_SpaceTogglesSelection(t *testing.T) {
	m := loadedRoleModel(t, roleFixture(), models.Pagination{TotalPages: 1, TotalItems: 3})

	m = pressRoleKey(m, " ")
	if !m.marked.Selected("r1") {
		t.Fatal("space must mark the row under the cursor")
	}
	m = pressRoleKey(m, " ")
	if m.marked.Selected("r1") {
		t.Fatal("space must unmark a marked row")
	}
}

func TestRoleListModel_SelectAllCyclesPage(t *testing.T) {
	m := loadedRoleModel(t, roleFixture(), models.Pagination{TotalPages: 1, TotalItems: 3})

	m = pressRoleKey(m, "A")
	if m.marked.Count() != 3 {
		t.Fatalf("expected the whole page marked, got %d", m.marked.Count())
	}
	m = pressRoleKey(m, "A")
	if m.marked.Count() != 0 {
		t.Fatal("a second select-all must clear the page")
	}
}

func TestRoleListModel_DeleteTargetsMarkedRows(t *testing.T) {
	m := loadedRoleModel(t, roleFixture(), models.Pagination{TotalPages: 1, TotalItems: 3})

	m = pressRoleKey(m, " ")
	m = pressRoleKey(m, "j")
	m = pressRoleKey(m, " ")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	m = next.(roleListModel)
	if cmd == nil {
		t.Fatal("x with marked rows must issue a delete command")
	}

	next, _ = m.Update(roleDeletedMsg{result: listing.BulkResult{Deleted: []string{"r1", "r2"}}})
	m = next.(roleListModel)
	if m.marked.Count() != 0 {
		t.Fatal("marks must clear after a delete round")
	}
	if m.status != "Deleted 2 role(s)" {
		t.Fatalf("unexpected status %q", m.status)
	}
	if !m.loading {
		t.Fatal("the list must refetch after deletions")
	}
}

func TestRoleListModel_BulkDeleteStepsBackOffEmptiedPage(t *testing.T) {
	m := loadedRoleModel(t, roleFixture(), models.Pagination{TotalPages: 2, TotalItems: 12})

	m = pressRoleKey(m, "n")
	lastPage := []models.Role{{ID: "r11", Name: "Spare"}, {ID: "r12", Name: "Stale"}}
	next, _ := m.Update(rolePageMsg{seq: m.seq, roles: lastPage, pg: models.Pagination{TotalPages: 2, TotalItems: 12}})
	m = next.(roleListModel)

	m = pressRoleKey(m, "A")
	next, _ = m.Update(roleDeletedMsg{result: listing.BulkResult{Deleted: []string{"r11", "r12"}}})
	m = next.(roleListModel)

	if m.pager.Page() != 1 {
		t.Fatalf("expected the pager back on page 1, got %d", m.pager.Page())
	}
}
