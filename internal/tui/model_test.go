package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dossier/internal/controller"
	"github.com/leapstack-labs/dossier/internal/person"
	"github.com/leapstack-labs/dossier/internal/store"
	"github.com/leapstack-labs/dossier/internal/testutil"
	"github.com/leapstack-labs/dossier/internal/viewmodel"
)

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func setupModel(t *testing.T, seed ...person.Person) (Model, *person.Repository) {
	t.Helper()
	ctx := context.Background()
	logger := testutil.NewTestLogger(t)

	gw, err := store.NewGateway(store.Config{Path: testutil.StorePath(t)}, logger)
	require.NoError(t, err)
	require.NoError(t, gw.Migrate(ctx))
	repo := person.NewRepository(gw, logger)
	for _, p := range seed {
		_, err := repo.Insert(ctx, p.Name, p.Rank, p.Mobile)
		require.NoError(t, err)
	}

	view := viewmodel.New(repo)
	ctrl := controller.New(repo, view, logger)
	require.NoError(t, ctrl.Load(ctx))
	return New(ctx, ctrl, view), repo
}

func listAll(t *testing.T, repo *person.Repository) []person.Person {
	t.Helper()
	people, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	return people
}

func TestModel_InitialView(t *testing.T) {
	m, _ := setupModel(t, person.Person{Name: "Alice", Rank: "Soldier", Mobile: "111"})
	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	out := m.View()
	for _, want := range []string{"Dossier", "File", "Add Person", "Edit", "Search", "Help", "About", "Alice", "Soldier", "Select a row"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Delete Record", "row affordances need a selection")
	assert.NotNil(t, m.Init())
}

func TestModel_AddPerson(t *testing.T) {
	m, repo := setupModel(t)

	m = send(m, runes("a"))
	require.Equal(t, controller.StateAddPerson, m.ctrl.State())
	assert.Equal(t, "Soldier", m.rank, "rank defaults to the first choice")
	assert.Contains(t, m.View(), "Add new person")
	assert.Contains(t, m.View(), "Register")

	m = send(m, runes("Bob"), keyTab, keyRight, keyRight, keyRight, keyTab, runes("555-1234"), keyEnter)
	assert.Equal(t, controller.StateIdle, m.ctrl.State())

	people := listAll(t, repo)
	require.Len(t, people, 1)
	assert.Equal(t, "Bob", people[0].Name)
	assert.Equal(t, "Sergeant", people[0].Rank)
	assert.Equal(t, "555-1234", people[0].Mobile)
	assert.Contains(t, m.View(), "555-1234")
}

func TestModel_FormTypesAppKeys(t *testing.T) {
	m, repo := setupModel(t)

	m = send(m, runes("a"), runes("q"), runes("d"), keyEnter)
	assert.Equal(t, controller.StateIdle, m.ctrl.State())

	people := listAll(t, repo)
	require.Len(t, people, 1)
	assert.Equal(t, "qd", people[0].Name, "app keys are text inside a dialog")
}

func TestModel_AddCancel(t *testing.T) {
	m, repo := setupModel(t)

	m = send(m, runes("a"), runes("Ghost"), keyEsc)
	assert.Equal(t, controller.StateIdle, m.ctrl.State())
	assert.Empty(t, listAll(t, repo))
}

func TestModel_EditRequiresSelection(t *testing.T) {
	m, _ := setupModel(t, person.Person{Name: "Alice", Rank: "Soldier"})

	m = send(m, runes("e"))
	assert.Equal(t, controller.StateIdle, m.ctrl.State())
	assert.Contains(t, m.status, "Select a row first")

	m = send(m, runes("d"))
	assert.Equal(t, controller.StateIdle, m.ctrl.State(), "d opens nothing and does not scroll")
}

func TestModel_EditPrefillsAndUpdates(t *testing.T) {
	m, repo := setupModel(t, person.Person{Name: "Bob", Rank: "Sergeant", Mobile: "555-1234"})
	id := listAll(t, repo)[0].ID

	m = send(m, keyEnter)
	assert.Contains(t, m.View(), "Edit Record")
	assert.Contains(t, m.View(), "Delete Record")

	m = send(m, runes("e"))
	require.Equal(t, controller.StateEditPerson, m.ctrl.State())
	assert.Equal(t, "Bob", m.name.Value())
	assert.Equal(t, "Sergeant", m.rank)
	assert.Equal(t, "555-1234", m.mobile.Value())
	assert.Contains(t, m.View(), "Update Person Data")

	m = send(m, keyTab, keyRight, keyEnter)
	assert.Equal(t, controller.StateIdle, m.ctrl.State())

	people := listAll(t, repo)
	require.Len(t, people, 1)
	assert.Equal(t, person.Person{ID: id, Name: "Bob", Rank: "Senior Sergeant", Mobile: "555-1234"}, people[0])
}

func TestModel_UnknownStoredRankFallsBack(t *testing.T) {
	m, repo := setupModel(t, person.Person{Name: "Eve", Rank: "General", Mobile: "777"})

	m = send(m, keyEnter, runes("e"))
	require.Equal(t, controller.StateEditPerson, m.ctrl.State())
	assert.Equal(t, "Soldier", m.rank)

	m = send(m, keyEnter)
	assert.Equal(t, controller.StateIdle, m.ctrl.State())
	assert.Empty(t, m.formErr)
	assert.Equal(t, person.Person{ID: listAll(t, repo)[0].ID, Name: "Eve", Rank: "Soldier", Mobile: "777"}, listAll(t, repo)[0])
}

func TestModel_CursorMoveDropsSelection(t *testing.T) {
	m, repo := setupModel(t,
		person.Person{Name: "Alice", Rank: "Soldier"},
		person.Person{Name: "Bob", Rank: "Soldier"},
	)

	m = send(m, keyEnter)
	require.Len(t, m.ctrl.StatusActions(), 2)

	m = send(m, keyDown)
	assert.Empty(t, m.ctrl.StatusActions())
	assert.Equal(t, viewmodel.NoSelection, m.view.SelectedIndex())
	assert.NotContains(t, m.View(), "Delete Record")

	m = send(m, runes("d"))
	assert.Equal(t, controller.StateIdle, m.ctrl.State())
	assert.Contains(t, m.status, "Select a row first")
	assert.Len(t, listAll(t, repo), 2)

	// Re-selecting under the cursor targets Bob.
	m = send(m, keyEnter, runes("d"))
	require.Equal(t, controller.StateDeletePerson, m.ctrl.State())
	assert.Contains(t, m.View(), "Bob")
	assert.NotContains(t, m.View(), "Alice")

	m = send(m, runes("y"), keyEnter)
	people := listAll(t, repo)
	require.Len(t, people, 1)
	assert.Equal(t, "Alice", people[0].Name)
}

func TestModel_DeleteFlow(t *testing.T) {
	m, repo := setupModel(t,
		person.Person{Name: "Alice", Rank: "Soldier"},
		person.Person{Name: "Bob", Rank: "Soldier"},
	)

	m = send(m, keyDown, keyEnter, runes("d"))
	require.Equal(t, controller.StateDeletePerson, m.ctrl.State())
	assert.Contains(t, m.View(), "Are you sure you want to delete?")

	m = send(m, runes("y"))
	n, ok := m.ctrl.Notice()
	require.True(t, ok)
	assert.Equal(t, "The record was deleted successfully!", n.Text)
	assert.Contains(t, m.View(), "The record was deleted successfully!")

	m = send(m, runes("a"))
	assert.Equal(t, controller.StateIdle, m.ctrl.State(), "notice must be acknowledged first")

	m = send(m, keyEnter)
	_, ok = m.ctrl.Notice()
	assert.False(t, ok)

	people := listAll(t, repo)
	require.Len(t, people, 1)
	assert.Equal(t, "Alice", people[0].Name)
}

func TestModel_DeleteDefaultsToNo(t *testing.T) {
	m, repo := setupModel(t, person.Person{Name: "Alice", Rank: "Soldier"})

	m = send(m, keyEnter, runes("d"), keyEnter)
	assert.Equal(t, controller.StateIdle, m.ctrl.State())
	assert.Len(t, listAll(t, repo), 1)

	m = send(m, runes("d"), keyRight, keyEnter)
	assert.Empty(t, listAll(t, repo))
}

func TestModel_SearchHighlights(t *testing.T) {
	m, _ := setupModel(t,
		person.Person{Name: "Alicia", Rank: "Soldier"},
		person.Person{Name: "Alice", Rank: "Soldier"},
	)

	m = send(m, runes("s"))
	require.Equal(t, controller.StateSearch, m.ctrl.State())
	assert.Contains(t, m.View(), "Search person")

	m = send(m, runes("Alice"), keyEnter)
	assert.Equal(t, controller.StateIdle, m.ctrl.State())
	assert.False(t, m.view.Highlighted(0))
	assert.True(t, m.view.Highlighted(1))
	assert.Equal(t, 1, m.table.Cursor(), "cursor jumps to the first match")
	assert.Contains(t, m.status, "1 matching row")
}

func TestModel_SearchNoMatch(t *testing.T) {
	m, _ := setupModel(t, person.Person{Name: "Alice", Rank: "Soldier"})

	m = send(m, runes("s"), runes("Zed"), keyEnter)
	n, ok := m.ctrl.Notice()
	require.True(t, ok)
	assert.Contains(t, n.Text, "Zed")
}

func TestModel_About(t *testing.T) {
	m, _ := setupModel(t)

	m = send(m, runes("h"))
	assert.Contains(t, m.View(), "Dossier CRUD system")
	m = send(m, keyEsc)
	assert.Equal(t, controller.StateIdle, m.ctrl.State())
}

func TestModel_Quit(t *testing.T) {
	m, _ := setupModel(t)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestCycleRank(t *testing.T) {
	m := Model{rank: "Senior Sergeant"}
	m.cycleRank(1)
	assert.Equal(t, "Soldier", m.rank, "wraps around")
	m.cycleRank(-1)
	assert.Equal(t, "Senior Sergeant", m.rank)

	m.rank = "General"
	m.cycleRank(-1)
	assert.Equal(t, "Senior Sergeant", m.rank)
}
