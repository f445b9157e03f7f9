package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dossier/internal/controller"
	"github.com/leapstack-labs/dossier/internal/person"
	"github.com/leapstack-labs/dossier/internal/viewmodel"
)

const shellPrompt = "dossier> "

// errAborted is returned by a prompt answered with ^C or ^D.
var errAborted = errors.New("aborted")

// lineReader is the part of *readline.Instance the shell uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// NewShellCommand creates the shell command.
func NewShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Line-mode interface with the same dialogs as the terminal UI",
		Long: `Start an interactive line-mode session.

The shell keeps the same table, selection and dialogs as the terminal UI,
one command per line. It works over ssh sessions and dumb terminals where
the full-screen UI does not.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			ctrl, view := cmdCtx.NewController(cmd.Context())

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          shellPrompt,
				HistoryFile:     filepath.Join(cmdCtx.Cfg.ProjectRoot, ".dossier_history"),
				AutoComplete:    newShellCompleter(),
				InterruptPrompt: "^C",
				EOFPrompt:       "quit",
			})
			if err != nil {
				return fmt.Errorf("failed to initialize shell: %w", err)
			}
			defer func() { _ = rl.Close() }()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Dossier shell (store: %s)\n", cmdCtx.Gateway.Location())
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type help for commands, quit to exit")
			_, _ = fmt.Fprintln(cmd.OutOrStdout())

			sh := &shell{
				ctx:    cmd.Context(),
				ctrl:   ctrl,
				view:   view,
				in:     rl,
				out:    cmd.OutOrStdout(),
				errOut: cmd.ErrOrStderr(),
			}
			return sh.run()
		},
	}
}

type shell struct {
	ctx    context.Context
	ctrl   *controller.Controller
	view   *viewmodel.Table
	in     lineReader
	out    io.Writer
	errOut io.Writer
}

func (s *shell) run() error {
	s.showNotice()
	s.printTable()

	for {
		s.in.SetPrompt(shellPrompt)
		line, err := s.in.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimLeft(line, " \t")
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		// The argument keeps its inner and trailing spaces: names match exactly.
		arg := strings.TrimPrefix(strings.TrimPrefix(line, fields[0]), " ")

		switch strings.ToLower(fields[0]) {
		case "quit", "exit":
			return nil
		case "help":
			printShellHelp(s.out)
		case "list", "refresh":
			if err := s.ctrl.Load(s.ctx); err == nil {
				s.printTable()
			}
		case "select":
			s.selectRow(arg)
		case "add":
			s.add()
		case "edit":
			s.edit()
		case "delete":
			s.delete()
		case "search":
			s.search(arg)
		case "about":
			s.about()
		default:
			s.errorf("Unknown command: %s (type help for commands)", fields[0])
		}
		s.showNotice()
	}
}

func (s *shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

func (s *shell) errorf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.errOut, "Error: "+format+"\n", args...)
}

// ask prompts for one line. ^C and ^D abort the dialog.
func (s *shell) ask(prompt string) (string, error) {
	s.in.SetPrompt(prompt)
	line, err := s.in.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", errAborted
	}
	return line, err
}

// showNotice prints and acknowledges a pending notice.
func (s *shell) showNotice() {
	n, ok := s.ctrl.Notice()
	if !ok {
		return
	}
	if n.Kind == controller.NoticeError {
		_, _ = fmt.Fprintf(s.errOut, "[%s] %s\n", n.Title, n.Text)
	} else {
		s.printf("[%s] %s\n", n.Title, n.Text)
	}
	s.ctrl.DismissNotice()
}

func (s *shell) printTable() {
	if s.view.Len() == 0 {
		s.printf("(0 persons)\n")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(s.out)
	t.SetStyle(table.StyleLight)
	header := table.Row{"#", ""}
	for _, col := range person.Columns {
		header = append(header, col)
	}
	t.AppendHeader(header)
	for i, p := range s.view.Rows() {
		mark := ""
		switch {
		case s.view.Highlighted(i):
			mark = "*"
		case s.view.SelectedIndex() == i:
			mark = ">"
		}
		row := table.Row{i + 1, mark}
		for _, c := range p.Cells() {
			row = append(row, c)
		}
		t.AppendRow(row)
	}
	t.Render()

	if actions := s.ctrl.StatusActions(); len(actions) > 0 {
		labels := make([]string, len(actions))
		for i, a := range actions {
			labels[i] = fmt.Sprintf("%s (%s)", a.Label, a.Command)
		}
		s.printf("Selected row %d. Available: %s\n", s.view.SelectedIndex()+1, strings.Join(labels, ", "))
	}
}

func (s *shell) selectRow(arg string) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		s.errorf("usage: select <row number>")
		return
	}
	if err := s.ctrl.SelectRow(n - 1); err != nil {
		s.errorf("%v", err)
		return
	}
	s.printTable()
}

func (s *shell) dispatch(cmd controller.Command) (controller.Dialog, bool) {
	if err := s.ctrl.Dispatch(cmd); err != nil {
		if errors.Is(err, controller.ErrNoSelection) {
			s.errorf("%v\nHint: Use 'select <row number>' first", err)
		} else {
			s.errorf("%v", err)
		}
		return controller.Dialog{}, false
	}
	return s.ctrl.Dialog()
}

func (s *shell) add() {
	if d, ok := s.dispatch(controller.CommandAdd); ok {
		s.personDialog(d)
	}
}

func (s *shell) edit() {
	if d, ok := s.dispatch(controller.CommandEdit); ok {
		s.personDialog(d)
	}
}

// personDialog runs the add or edit form. Empty answers keep the shown value
// and clearField empties a free-form field. An invalid form is asked again
// until it validates or is aborted.
func (s *shell) personDialog(d controller.Dialog) {
	s.printf("%s\n", d.Title)
	if d.State == controller.StateEditPerson {
		s.printf("Record: %s\n", targetLabel(d.Target))
	}
	f := d.Form
	for {
		next, err := s.askForm(f)
		if err != nil {
			_ = s.ctrl.Cancel()
			s.printf("Cancelled.\n")
			return
		}

		err = s.ctrl.SubmitPerson(s.ctx, next)
		if errors.Is(err, controller.ErrInvalidForm) {
			s.errorf("%v", err)
			f = next
			continue
		}
		if err == nil {
			s.printf("%s: done.\n", d.Submit)
			s.printTable()
		}
		return
	}
}

func (s *shell) askForm(f person.Form) (person.Form, error) {
	name, err := s.ask(fmt.Sprintf("Name [%s]: ", f.Name))
	if err != nil {
		return f, err
	}
	f.Name = answerField(name, f.Name)

	for i, r := range person.Ranks {
		s.printf("  %d) %s\n", i+1, r)
	}
	rank, err := s.ask(fmt.Sprintf("Rank [%s]: ", f.Rank))
	if err != nil {
		return f, err
	}
	if rank != "" {
		if n, err := strconv.Atoi(rank); err == nil && n >= 1 && n <= len(person.Ranks) {
			rank = person.Ranks[n-1]
		}
		f.Rank = rank
	}

	mobile, err := s.ask(fmt.Sprintf("Mobile [%s]: ", f.Mobile))
	if err != nil {
		return f, err
	}
	f.Mobile = answerField(mobile, f.Mobile)
	return f, nil
}

// clearField is the answer that empties a name or mobile.
const clearField = "-"

func answerField(answer, current string) string {
	switch answer {
	case "":
		return current
	case clearField:
		return ""
	}
	return answer
}

func targetLabel(p person.Person) string {
	return fmt.Sprintf("#%d %s", p.ID, p.Name)
}

func (s *shell) delete() {
	d, ok := s.dispatch(controller.CommandDelete)
	if !ok {
		return
	}
	answer, err := s.ask(fmt.Sprintf("%s (%s) [y/N] ", d.Message, targetLabel(d.Target)))
	if err != nil {
		answer = ""
	}
	if err := s.ctrl.ConfirmDelete(s.ctx, isYes(answer)); err == nil {
		s.printTable()
	}
}

func (s *shell) search(name string) {
	d, ok := s.dispatch(controller.CommandSearch)
	if !ok {
		return
	}
	if name == "" {
		var err error
		if name, err = s.ask(d.Title + ": "); err != nil {
			_ = s.ctrl.Cancel()
			return
		}
	}

	matched, err := s.ctrl.SubmitSearch(s.ctx, name)
	if err == nil && len(matched) > 0 {
		s.printTable()
	}
}

func (s *shell) about() {
	d, ok := s.dispatch(controller.CommandAbout)
	if !ok {
		return
	}
	s.printf("%s\n", d.Message)
	_ = s.ctrl.Cancel()
}

func printShellHelp(w io.Writer) {
	help := `
Commands:
  list            Reload and show the table
  select <row>    Select a row by its # number
  add             Add a person
  edit            Edit the selected person
  delete          Delete the selected person
  search [name]   Highlight persons named exactly <name>
  about           About Dossier
  help            Show this help message
  quit / exit     Leave the shell

Tips:
  - Press enter at a prompt to keep the value in brackets
  - Answer - to clear a name or mobile
  - Ranks can be entered by number
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}

func newShellCompleter() *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem("list"),
		readline.PcItem("select"),
	}
	for _, c := range controller.Commands {
		items = append(items, readline.PcItem(string(c)))
	}
	items = append(items,
		readline.PcItem("help"),
		readline.PcItem("quit"),
		readline.PcItem("exit"),
	)
	return readline.NewPrefixCompleter(items...)
}
