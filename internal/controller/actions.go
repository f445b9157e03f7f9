package controller

import "errors"

// State is the controller's current modal state.
type State int

// Controller states. Every state other than StateIdle is a modal dialog.
const (
	StateIdle State = iota
	StateAddPerson
	StateEditPerson
	StateDeletePerson
	StateSearch
	StateAbout
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAddPerson:
		return "add-person"
	case StateEditPerson:
		return "edit-person"
	case StateDeletePerson:
		return "delete-person"
	case StateSearch:
		return "search"
	case StateAbout:
		return "about"
	default:
		return "unknown"
	}
}

// Command names a user action. Each command has exactly one handler.
type Command string

// Commands understood by Dispatch.
const (
	CommandAdd    Command = "add"
	CommandEdit   Command = "edit"
	CommandDelete Command = "delete"
	CommandSearch Command = "search"
	CommandAbout  Command = "about"
)

// Commands lists every command in menu order.
var Commands = []Command{CommandAdd, CommandSearch, CommandAbout, CommandEdit, CommandDelete}

// Action is an affordance a front end can render: a menu entry, a toolbar
// button or a status bar button.
type Action struct {
	Command Command
	Label   string
	Key     string
}

// Menu is one top-level menu and its entries.
type Menu struct {
	Title   string
	Actions []Action
}

var (
	actionAdd    = Action{Command: CommandAdd, Label: "Add Person", Key: "a"}
	actionSearch = Action{Command: CommandSearch, Label: "Search", Key: "s"}
	actionAbout  = Action{Command: CommandAbout, Label: "About", Key: "h"}
	actionEdit   = Action{Command: CommandEdit, Label: "Edit Record", Key: "e"}
	actionDelete = Action{Command: CommandDelete, Label: "Delete Record", Key: "d"}
)

// Controller errors.
var (
	ErrDialogOpen     = errors.New("a dialog is open")
	ErrNoDialog       = errors.New("no dialog is open")
	ErrWrongDialog    = errors.New("the open dialog does not accept this input")
	ErrNoSelection    = errors.New("no row is selected")
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidForm    = errors.New("invalid form")
)

// NoticeKind classifies a notice.
type NoticeKind int

// Notice kinds.
const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// Notice is an acknowledgment shown to the operator. While one is pending
// the controller rejects commands, like a message box.
type Notice struct {
	Kind  NoticeKind
	Title string
	Text  string
}

// Text shown by the dialogs and notices.
const (
	AboutText          = "Dossier CRUD system"
	DeleteConfirmText  = "Are you sure you want to delete?"
	DeleteSuccessText  = "The record was deleted successfully!"
	titleAddPerson     = "Add new person"
	titleEditPerson    = "Update Person Data"
	titleDeletePerson  = "Delete Person Data"
	titleSearch        = "Search person"
	titleAbout         = "About"
	submitAddPerson    = "Register"
	submitEditPerson   = "Update"
	submitSearchPerson = "Search"
)
