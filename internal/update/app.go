package update

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/taskline/internal/interpreter"
	domainmodel "github.com/sandeepkv93/taskline/internal/model"
	"github.com/sandeepkv93/taskline/internal/storage"
	"github.com/sandeepkv93/taskline/internal/views"
)

const AppName = "Taskline"

type StatusBar struct {
	Text    string
	IsError bool
}

type Entry struct {
	Input   string
	Reply   string
	IsError bool
}

type Model struct {
	Entries      []Entry
	Status       StatusBar
	HelpVisible  bool
	ShuttingDown bool
	Quitting     bool
	LastError    error
	Keys         KeyMap

	interp    *interpreter.Interpreter
	store     storage.Store
	logger    *log.Logger
	grace     time.Duration
	greeting  string
	reference string

	// Bubble components used for rich TUI controls
	input        textinput.Model
	transcript   viewport.Model
	taskTable    table.Model
	capacityBar  progress.Model
	closeSpinner spinner.Model
	helpModel    help.Model
}

type Options struct {
	Store         storage.Store
	Logger        *log.Logger
	ShutdownGrace time.Duration
}

// SubmitLineMsg processes a line exactly as if it had been typed and entered.
type SubmitLineMsg struct {
	Line string
}

type SavedMsg struct {
	Count int
	Err   error
}

type ShutdownMsg struct{}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

func NewModel(interp *interpreter.Interpreter, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := Model{
		Keys:      DefaultKeyMap(),
		interp:    interp,
		store:     opts.Store,
		logger:    logger,
		grace:     opts.ShutdownGrace,
		greeting:  views.Greeting(AppName),
		reference: views.RenderMarkdown(commandReference),
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(typed.Width, typed.Height)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	case SubmitLineMsg:
		return m.submit(typed.Line)
	case SavedMsg:
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: fmt.Sprintf("error: could not save tasks: %v", typed.Err), IsError: true}
			m.logger.Error("save failed", "err", typed.Err)
		} else {
			m.Status = StatusBar{Text: fmt.Sprintf("saved %d task(s), closing...", typed.Count)}
			m.logger.Info("tasks saved", "count", typed.Count)
		}
		return m, tea.Batch(m.closeSpinner.Tick, shutdownAfter(m.grace))
	case ShutdownMsg:
		m.Quitting = true
		return m, tea.Quit
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case spinner.TickMsg:
		if m.ShuttingDown {
			var cmd tea.Cmd
			m.closeSpinner, cmd = m.closeSpinner.Update(typed)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		m.logger.Warn("interrupted, tasks not saved")
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Help):
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case key.Matches(msg, m.Keys.ScrollUp), key.Matches(msg, m.Keys.ScrollDown):
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}
	if m.ShuttingDown {
		return m, nil
	}
	if key.Matches(msg, m.Keys.Submit) {
		line := m.input.Value()
		m.input.Reset()
		return m.submit(line)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit(line string) (tea.Model, tea.Cmd) {
	if m.ShuttingDown {
		return m, nil
	}
	res, err := m.interp.Process(line)
	entry := Entry{Input: line, Reply: res.Text}
	if err != nil {
		entry.Reply = views.Failure(err)
		entry.IsError = true
		m.Status = StatusBar{Text: "error: " + firstMessageLine(err), IsError: true}
	} else {
		m.Status = StatusBar{}
	}
	m.Entries = append(m.Entries, entry)
	m.syncBubbleData()

	if res.State != interpreter.StateTerminated {
		return m, nil
	}
	m.ShuttingDown = true
	m.input.Blur()
	m.Status = StatusBar{Text: "saving tasks..."}
	return m, saveCmd(m.store, m.interp.FinalSnapshot())
}

func (m Model) View() string {
	status := m.Status.Text
	if m.ShuttingDown && !m.Quitting {
		status = strings.TrimSpace(m.closeSpinner.View() + " " + status)
	}
	helpView := ""
	if m.HelpVisible {
		helpView = m.renderHelpView()
	}
	count := len(m.interp.Snapshot())
	taskPane := m.taskTable.View() + "\n" +
		fmt.Sprintf("capacity %d/%d ", count, interpreter.Capacity) +
		m.capacityBar.ViewAs(float64(count)/float64(interpreter.Capacity))

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("%s | tasks: %d | session: %s", strings.ToLower(AppName), count, shortID(m.interp.SessionID())),
		Transcript: m.transcript.View(),
		TaskPane:   taskPane,
		Input:      m.input.View(),
		StatusLine: status,
		IsError:    m.Status.IsError,
		Help:       helpView,
		Footer:     m.renderFooter(),
	})
}

func (m *Model) initBubbleComponents() {
	m.input = textinput.New()
	m.input.Prompt = "> "
	m.input.Placeholder = "todo read book"
	m.input.CharLimit = 512
	m.input.Width = 60
	m.input.Focus()

	m.transcript = viewport.New(64, 18)

	cols := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Kind", Width: 8},
		{Title: "Done", Width: 4},
		{Title: "Description", Width: 24},
		{Title: "When", Width: 16},
	}
	m.taskTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(false), table.WithHeight(14))

	m.capacityBar = progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))

	m.closeSpinner = spinner.New()
	m.closeSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.helpModel.ShowAll = true
}

func (m *Model) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	transcriptWidth := width*3/5 - 4
	if transcriptWidth < 20 {
		transcriptWidth = 20
	}
	transcriptHeight := height - 10
	if transcriptHeight < 5 {
		transcriptHeight = 5
	}
	m.transcript.Width = transcriptWidth
	m.transcript.Height = transcriptHeight
	m.input.Width = width - 8
	m.syncBubbleData()
}

func (m *Model) syncBubbleData() {
	var b strings.Builder
	b.WriteString(m.greeting)
	for _, e := range m.Entries {
		b.WriteString("\n" + views.RenderUserLine(e.Input) + "\n")
		b.WriteString(views.RenderReply(e.Reply, e.IsError))
	}
	m.transcript.SetContent(b.String())
	m.transcript.GotoBottom()
	m.taskTable.SetRows(taskRows(m.interp.Snapshot()))
}

func taskRows(lines []string) []table.Row {
	rows := make([]table.Row, 0, len(lines))
	for i, line := range lines {
		num := strconv.Itoa(i + 1)
		task, err := domainmodel.Decode(line)
		if err != nil {
			rows = append(rows, table.Row{num, "?", "", line, ""})
			continue
		}
		done := ""
		if task.Done {
			done = string(domainmodel.DoneMark)
		}
		rows = append(rows, table.Row{num, task.Kind.Tag(), done, task.Description, task.When})
	}
	return rows
}

func saveCmd(store storage.Store, lines []string) tea.Cmd {
	return func() tea.Msg {
		if store == nil {
			return SavedMsg{Count: len(lines)}
		}
		if err := store.Save(context.Background(), lines); err != nil {
			return SavedMsg{Count: len(lines), Err: err}
		}
		return SavedMsg{Count: len(lines)}
	}
}

func shutdownAfter(grace time.Duration) tea.Cmd {
	if grace <= 0 {
		return func() tea.Msg { return ShutdownMsg{} }
	}
	return tea.Tick(grace, func(time.Time) tea.Msg { return ShutdownMsg{} })
}

func firstMessageLine(err error) string {
	text := views.Failure(err)
	for _, line := range strings.Split(text, "\n") {
		if line != "" && line != views.Divider {
			return line
		}
	}
	return err.Error()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
