// Package controller maps operator actions onto the record repository and
// the table view model.
//
// The controller is a small state machine. In StateIdle it accepts commands
// and row selection. Every other state is a modal dialog that accepts only
// its own submission or a cancel. Mutations are always followed by a full
// refresh of the view model.
package controller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/dossier/internal/person"
)

// Repository is the write and search side of the record repository.
type Repository interface {
	Insert(ctx context.Context, name, rank, mobile string) (int64, error)
	Update(ctx context.Context, id int64, name, rank, mobile string) error
	Delete(ctx context.Context, id int64) error
	SearchByExactName(ctx context.Context, name string) ([]person.Person, error)
}

// View is the view model the controller drives.
type View interface {
	Refresh(ctx context.Context) error
	Select(i int) error
	Selected() (person.Person, bool)
	ClearSelection()
	Highlight(ids []int64) []int
}

// Dialog describes the open modal dialog.
type Dialog struct {
	State   State
	Title   string
	Message string
	Submit  string
	// Form holds the initial field values of the add and edit dialogs.
	Form person.Form
	// PersonID is the target of the edit and delete dialogs.
	PersonID int64
	// Target is the row the edit and delete dialogs act on, as displayed
	// when the dialog opened.
	Target person.Person
}

// Controller handles operator actions.
type Controller struct {
	repo     Repository
	view     View
	logger   *slog.Logger
	dialog   *Dialog
	notice   *Notice
	status   []Action
	handlers map[Command]func() error
}

// New creates a controller in StateIdle.
// The logger parameter may be nil.
func New(repo Repository, view View, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Controller{
		repo:   repo,
		view:   view,
		logger: logger.With("component", "controller"),
	}
	c.handlers = map[Command]func() error{
		CommandAdd:    c.openAdd,
		CommandEdit:   c.openEdit,
		CommandDelete: c.openDelete,
		CommandSearch: c.openSearch,
		CommandAbout:  c.openAbout,
	}
	return c
}

// Load performs the initial refresh of the view model.
func (c *Controller) Load(ctx context.Context) error {
	if err := c.view.Refresh(ctx); err != nil {
		return c.fail("load records", err)
	}
	c.syncStatus()
	return nil
}

// State returns the current state.
func (c *Controller) State() State {
	if c.dialog == nil {
		return StateIdle
	}
	return c.dialog.State
}

// Dialog returns the open dialog.
func (c *Controller) Dialog() (Dialog, bool) {
	if c.dialog == nil {
		return Dialog{}, false
	}
	return *c.dialog, true
}

// Notice returns the pending notice.
func (c *Controller) Notice() (Notice, bool) {
	if c.notice == nil {
		return Notice{}, false
	}
	return *c.notice, true
}

// DismissNotice acknowledges the pending notice.
func (c *Controller) DismissNotice() {
	c.notice = nil
}

// MenuBar returns the menus. Add, Search and About also appear on the toolbar.
func (c *Controller) MenuBar() []Menu {
	return []Menu{
		{Title: "File", Actions: []Action{actionAdd}},
		{Title: "Edit", Actions: []Action{actionSearch}},
		{Title: "Help", Actions: []Action{actionAbout}},
	}
}

// Toolbar returns the toolbar buttons.
func (c *Controller) Toolbar() []Action {
	return []Action{actionAdd, actionSearch}
}

// StatusActions returns the row affordances: one edit and one delete
// action while a row is selected, nothing otherwise.
func (c *Controller) StatusActions() []Action {
	out := make([]Action, len(c.status))
	copy(out, c.status)
	return out
}

// Available reports whether cmd can be dispatched right now.
func (c *Controller) Available(cmd Command) bool {
	if c.dialog != nil || c.notice != nil {
		return false
	}
	switch cmd {
	case CommandEdit, CommandDelete:
		_, ok := c.view.Selected()
		return ok
	default:
		_, ok := c.handlers[cmd]
		return ok
	}
}

// Dispatch runs the handler for cmd. Commands are rejected while a dialog
// or notice is open.
func (c *Controller) Dispatch(cmd Command) error {
	handler, ok := c.handlers[cmd]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
	if c.dialog != nil || c.notice != nil {
		return fmt.Errorf("cannot %s: %w", cmd, ErrDialogOpen)
	}
	return handler()
}

// SelectRow selects row i of the view model and exposes the edit and
// delete affordances.
func (c *Controller) SelectRow(i int) error {
	if c.dialog != nil || c.notice != nil {
		return fmt.Errorf("cannot select: %w", ErrDialogOpen)
	}
	if err := c.view.Select(i); err != nil {
		return err
	}
	c.syncStatus()
	return nil
}

// ClearSelection drops the selected row and its edit and delete
// affordances. Front ends call it when their cursor leaves that row.
func (c *Controller) ClearSelection() {
	if c.dialog != nil || c.notice != nil {
		return
	}
	c.view.ClearSelection()
	c.syncStatus()
}

// syncStatus removes the row affordances and adds them back when a row
// is selected, so there is never more than one pair.
func (c *Controller) syncStatus() {
	c.status = c.status[:0]
	if _, ok := c.view.Selected(); ok {
		c.status = append(c.status, actionEdit, actionDelete)
	}
}

func (c *Controller) open(d Dialog) error {
	c.dialog = &d
	c.logger.Debug("dialog opened", "state", d.State.String())
	return nil
}

func (c *Controller) close() {
	if c.dialog != nil {
		c.logger.Debug("dialog closed", "state", c.dialog.State.String())
	}
	c.dialog = nil
}

func (c *Controller) openAdd() error {
	return c.open(Dialog{
		State:  StateAddPerson,
		Title:  titleAddPerson,
		Submit: submitAddPerson,
		Form:   person.Form{Rank: person.Ranks[0]},
	})
}

func (c *Controller) openEdit() error {
	p, ok := c.view.Selected()
	if !ok {
		return fmt.Errorf("cannot edit: %w", ErrNoSelection)
	}
	// Pre-filled from the displayed row, not re-read from the store.
	// A stored rank outside the list shows as the first rank.
	f := person.FormOf(p)
	if !person.IsRank(f.Rank) {
		c.logger.Warn("unknown stored rank", "id", p.ID, "rank", f.Rank)
		f.Rank = person.Ranks[0]
	}
	return c.open(Dialog{
		State:    StateEditPerson,
		Title:    titleEditPerson,
		Submit:   submitEditPerson,
		Form:     f,
		PersonID: p.ID,
		Target:   p,
	})
}

func (c *Controller) openDelete() error {
	p, ok := c.view.Selected()
	if !ok {
		return fmt.Errorf("cannot delete: %w", ErrNoSelection)
	}
	return c.open(Dialog{
		State:    StateDeletePerson,
		Title:    titleDeletePerson,
		Message:  DeleteConfirmText,
		PersonID: p.ID,
		Target:   p,
	})
}

func (c *Controller) openSearch() error {
	return c.open(Dialog{
		State:  StateSearch,
		Title:  titleSearch,
		Submit: submitSearchPerson,
	})
}

func (c *Controller) openAbout() error {
	return c.open(Dialog{
		State:   StateAbout,
		Title:   titleAbout,
		Message: AboutText,
	})
}

// Cancel dismisses the open dialog without touching the store.
func (c *Controller) Cancel() error {
	if c.dialog == nil {
		return ErrNoDialog
	}
	c.close()
	return nil
}

func (c *Controller) expect(states ...State) error {
	if c.dialog == nil {
		return ErrNoDialog
	}
	for _, s := range states {
		if c.dialog.State == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrWrongDialog, c.dialog.State)
}

// SubmitPerson submits the add or edit dialog. An invalid form keeps the
// dialog open. Store failures close it and leave an error notice.
func (c *Controller) SubmitPerson(ctx context.Context, f person.Form) error {
	if err := c.expect(StateAddPerson, StateEditPerson); err != nil {
		return err
	}
	if err := person.ValidateForm(f); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}

	d := *c.dialog
	c.close()

	if d.State == StateAddPerson {
		id, err := c.repo.Insert(ctx, f.Name, f.Rank, f.Mobile)
		if err != nil {
			return c.fail("add person", err)
		}
		c.logger.Info("person added", "id", id)
	} else {
		if err := c.repo.Update(ctx, d.PersonID, f.Name, f.Rank, f.Mobile); err != nil {
			return c.fail("update person", err)
		}
		c.logger.Info("person updated", "id", d.PersonID)
	}

	return c.refresh(ctx)
}

// ConfirmDelete answers the delete confirmation. "No" just closes it.
func (c *Controller) ConfirmDelete(ctx context.Context, yes bool) error {
	if err := c.expect(StateDeletePerson); err != nil {
		return err
	}
	id := c.dialog.PersonID
	c.close()
	if !yes {
		return nil
	}

	if err := c.repo.Delete(ctx, id); err != nil {
		return c.fail("delete person", err)
	}
	c.logger.Info("person deleted", "id", id)

	if err := c.refresh(ctx); err != nil {
		return err
	}
	c.notice = &Notice{Kind: NoticeSuccess, Title: "Success", Text: DeleteSuccessText}
	return nil
}

// SubmitSearch runs an exact-name search and highlights the displayed rows
// whose ids the store returned. The view model's rows are not replaced.
// It returns the highlighted row indexes.
func (c *Controller) SubmitSearch(ctx context.Context, name string) ([]int, error) {
	if err := c.expect(StateSearch); err != nil {
		return nil, err
	}
	c.close()

	found, err := c.repo.SearchByExactName(ctx, name)
	if err != nil {
		return nil, c.fail("search", err)
	}

	ids := make([]int64, len(found))
	for i, p := range found {
		ids[i] = p.ID
	}
	matched := c.view.Highlight(ids)
	c.syncStatus()

	c.logger.Debug("search finished", "found", len(found), "displayed", len(matched))
	if len(matched) == 0 {
		c.notice = &Notice{Kind: NoticeInfo, Title: "Search", Text: fmt.Sprintf("No person named %q was found.", name)}
	}
	return matched, nil
}

func (c *Controller) refresh(ctx context.Context) error {
	if err := c.view.Refresh(ctx); err != nil {
		return c.fail("refresh records", err)
	}
	c.syncStatus()
	return nil
}

// fail records a generic error notice for a failed operation and returns err.
func (c *Controller) fail(op string, err error) error {
	c.logger.Error("operation failed", "op", op, "error", err)
	c.notice = &Notice{
		Kind:  NoticeError,
		Title: "Error",
		Text:  fmt.Sprintf("Could not %s: %v", op, err),
	}
	return err
}
