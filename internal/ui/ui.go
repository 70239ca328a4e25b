package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"timelink/internal/config"
	"timelink/internal/model"
	"timelink/internal/routine"
	"timelink/internal/state"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeSearch
)

const refreshEvery = time.Minute

type rowKind int

const (
	rowEvent rowKind = iota
	rowTask
)

// row is one selectable line: an event on the day or a routine task.
type row struct {
	kind      rowKind
	eventID   int
	routineID int
	taskID    int
}

type refreshMsg time.Time

type Model struct {
	store      *state.Store
	cfg        config.Config
	day        time.Time
	events     []model.Event
	routines   []model.Routine
	rows       []row
	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	results    []model.Event
	confirmDel bool
	pendingDel *model.Event
}

// Run blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, store *state.Store, cfg config.Config, day time.Time) error {
	program := tea.NewProgram(New(store, cfg, day), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func New(store *state.Store, cfg config.Config, day time.Time) Model {
	ti := textinput.New()
	ti.Placeholder = "HH:MM Title"
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		store:  store,
		cfg:    cfg,
		day:    day,
		input:  ti,
		mode:   modeList,
		status: fmt.Sprintf("Press '%s' to add, '%s' to toggle a task, '%s' to delete an event.", cfg.Keys.Add, keyLabel(cfg.Keys.Toggle), cfg.Keys.Delete),
	}
	m.reload()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	case refreshMsg:
		// the scheduler may have rolled routines over in the background
		m.reload()
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.mode {
	case modeAdd:
		return m.updateAddMode(key, msg)
	case modeSearch:
		return m.updateSearchMode(key, msg)
	}
	return m.updateListMode(key)
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		e := parseQuickAdd(m.input.Value(), m.day)
		saved, err := m.store.AddEvent(e)
		if errors.Is(err, state.ErrEmptyTitle) {
			m.status = "Title cannot be empty"
			return m, nil
		}
		if err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		m.reload()
		m.cursor = m.rowOfEvent(saved.ID)
		m.status = "Added event"
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.results = nil
		m.input.SetValue("")
		m.input.Blur()
		m.input.Placeholder = "HH:MM Title"
		m.status = "Search closed"
		return m, nil
	case m.cfg.Keys.Confirm:
		m.results = m.store.SearchEvents(m.input.Value())
		m.status = fmt.Sprintf("%d match(es)", len(m.results))
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.rows))
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(m.rows))
	case m.cfg.Keys.PrevDay, "left":
		m.moveDay(-1)
	case m.cfg.Keys.NextDay, "right":
		m.moveDay(1)
	case m.cfg.Keys.PrevWeek:
		m.moveDay(-7)
	case m.cfg.Keys.NextWeek:
		m.moveDay(7)
	case m.cfg.Keys.Today:
		now := m.store.Now()
		m.day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		m.reload()
		m.cursor = 0
	case m.cfg.Keys.Add:
		m.mode = modeAdd
		m.input.Placeholder = "HH:MM Title"
		m.input.Focus()
		m.status = "Add mode: type \"HH:MM title\" or just a title and press Enter"
	case m.cfg.Keys.Search:
		m.mode = modeSearch
		m.input.Placeholder = "Search events"
		m.input.SetValue("")
		m.input.Focus()
		m.status = "Search: type and press Enter"
	case m.cfg.Keys.Toggle:
		return m.toggleSelected()
	case m.cfg.Keys.Delete:
		r, ok := m.selected()
		if !ok || r.kind != rowEvent {
			m.status = "Select an event to delete"
			return m, nil
		}
		e, found := m.store.Event(r.eventID)
		if !found {
			m.status = "Event no longer exists"
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = &e
		if e.IsRecurring {
			m.status = fmt.Sprintf("Delete \"%s\" and every occurrence? y/n", e.Title)
		} else {
			m.status = fmt.Sprintf("Delete \"%s\"? y/n", e.Title)
		}
	}
	return m, nil
}

func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	r, ok := m.selected()
	if !ok || r.kind != rowTask {
		m.status = "Select a routine task to toggle"
		return m, nil
	}
	before := m.findTask(r.routineID, r.taskID)
	updated, err := m.store.ToggleTask(r.routineID, r.taskID)
	if err != nil {
		m.status = fmt.Sprintf("toggle failed: %v", err)
		return m, nil
	}
	m.reload()
	switch {
	case before.Completed && before.Locked:
		m.status = "Task is locked until the next reset"
	case routineDone(updated):
		m.status = fmt.Sprintf("%s complete for this period", updated.Title)
	default:
		m.status = "Toggled task"
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		if err := m.store.DeleteEvent(m.pendingDel.ID); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
		} else {
			m.reload()
			m.cursor = clampCursor(m.cursor, len(m.rows))
			m.status = "Deleted event"
		}
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(render(m.store, m.day, m.cfg.WeekStart == "monday", m.cursorTarget()))

	if m.mode == modeSearch && m.results != nil {
		b.WriteString("\nSearch results\n")
		if len(m.results) == 0 {
			b.WriteString("  (none)\n")
		}
		for _, e := range m.results {
			b.WriteString(fmt.Sprintf("  %s  %s\n", e.Date.Format("2006-01-02"), e.Title))
		}
	}

	b.WriteString("\n---\n")
	if m.mode != modeList {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(renderHelp(m.cfg.Keys))
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s/%s day • %s/%s week • %s today • %s add • %s toggle • %s delete • %s search • %s quit",
		k.Up, k.Down, k.PrevDay, k.NextDay, k.PrevWeek, k.NextWeek, k.Today, k.Add, keyLabel(k.Toggle), k.Delete, k.Search, k.Quit)
}

func (m *Model) moveDay(delta int) {
	m.day = m.day.AddDate(0, 0, delta)
	m.reload()
	m.cursor = 0
	m.status = m.day.Format("Monday, January 2 2006")
}

// reload pulls the day's events and the routines from the store and
// rebuilds the selectable rows in display order.
func (m *Model) reload() {
	m.events = m.store.EventsOn(m.day)
	m.routines = m.store.Routines()
	m.rows = nil
	for _, e := range m.events {
		m.rows = append(m.rows, row{kind: rowEvent, eventID: e.ID})
	}
	for _, r := range m.routines {
		for _, t := range r.Tasks {
			m.rows = append(m.rows, row{kind: rowTask, routineID: r.ID, taskID: t.ID})
		}
	}
	m.cursor = clampCursor(m.cursor, len(m.rows))
}

func (m Model) selected() (row, bool) {
	if len(m.rows) == 0 {
		return row{}, false
	}
	return m.rows[clampCursor(m.cursor, len(m.rows))], true
}

func (m Model) cursorTarget() *row {
	if m.mode != modeList {
		return nil
	}
	r, ok := m.selected()
	if !ok {
		return nil
	}
	return &r
}

func (m Model) rowOfEvent(id int) int {
	for i, r := range m.rows {
		if r.kind == rowEvent && r.eventID == id {
			return i
		}
	}
	return m.cursor
}

func (m Model) findTask(routineID, taskID int) model.Task {
	for _, r := range m.routines {
		if r.ID != routineID {
			continue
		}
		for _, t := range r.Tasks {
			if t.ID == taskID {
				return t
			}
		}
	}
	return model.Task{}
}

func routineDone(r model.Routine) bool {
	return len(r.Tasks) > 0 && routine.Progress(r.Tasks) == 100
}

// parseQuickAdd reads "HH:MM title" or a bare title into a one-off event on
// day.
func parseQuickAdd(input string, day time.Time) model.Event {
	input = strings.TrimSpace(input)
	e := model.Event{Date: day, Title: input}
	head, rest, found := strings.Cut(input, " ")
	if !found {
		return e
	}
	if _, err := time.Parse("15:04", head); err == nil {
		e.StartTime = head
		e.Title = strings.TrimSpace(rest)
	}
	return e
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
