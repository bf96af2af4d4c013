// Package tui provides a Bubble Tea terminal user interface for spotify-dl.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/spotify-dl/internal/config"
	"github.com/handiism/spotify-dl/internal/download"
	"github.com/handiism/spotify-dl/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1DB954")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#1DB954")).
			Padding(1, 2)

	collectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// maxLogs is how many status lines stay on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateInitializing
	StateFolder
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// DepsFunc builds the pipeline stages for one run.
type DepsFunc func(ctx context.Context, settings *config.Settings) (download.Deps, error)

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state       State
	urlInput    textinput.Model
	folderInput textinput.Model
	spinner     spinner.Model
	progress    progress.Model
	settings    *config.Settings
	newDeps     DepsFunc
	logs        []LogEntry
	err         error

	// Run context
	ctx    context.Context
	cancel context.CancelFunc

	manager    *download.Manager
	deps       download.Deps
	events     chan download.ProgressEvent
	collection *model.Collection
	summary    model.Summary

	totalJobs int
	doneJobs  int

	// Options
	playlist bool
	verbose  bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings, newDeps DepsFunc) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ui := textinput.New()
	ui.Placeholder = "https://open.spotify.com/playlist/..."
	ui.Focus()
	ui.CharLimit = 500
	ui.Width = 60

	fi := textinput.New()
	fi.CharLimit = 1000
	fi.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#1DB954"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:       StateInput,
		urlInput:    ui,
		folderInput: fi,
		spinner:     sp,
		progress:    prog,
		settings:    settings,
		newDeps:     newDeps,
		logs:        make([]LogEntry, 0),
		ctx:         ctx,
		cancel:      cancel,
		playlist:    settings.CreatePlaylist,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries one event from the manager's channel.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// eventsClosedMsg is sent when the event channel is closed.
	eventsClosedMsg struct{}

	// InitDoneMsg is sent when the metadata lookup completes.
	InitDoneMsg struct {
		Manager    *download.Manager
		Deps       download.Deps
		Collection *model.Collection
		Err        error
	}

	// DownloadDoneMsg is sent when all tracks reached a terminal outcome.
	DownloadDoneMsg struct {
		Summary model.Summary
		Err     error
	}
)

var errCancelled = errors.New("cancelled by user")

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			switch m.state {
			case StateInput:
				return m, tea.Quit
			case StateFolder:
				// Cancelling the folder prompt ends the run before any download.
				m.finishRun()
				m.state = StateError
				m.err = model.ErrNoFolder
				return m, nil
			case StateDownloading, StateInitializing:
				m.cancel()
				m.state = StateError
				m.err = errCancelled
			}

		case "enter":
			switch m.state {
			case StateInput:
				if strings.TrimSpace(m.urlInput.Value()) != "" {
					m.state = StateInitializing
					m.startRun()
					return m, tea.Batch(m.initialize(), waitForEvent(m.events), m.spinner.Tick)
				}
			case StateFolder:
				dir := strings.TrimSpace(m.folderInput.Value())
				if dir == "" {
					m.finishRun()
					m.state = StateError
					m.err = model.ErrNoFolder
					return m, nil
				}
				m.state = StateDownloading
				return m, m.startDownload(dir)
			}

		case "ctrl+p":
			if m.state == StateInput {
				m.playlist = !m.playlist
				return m, nil
			}

		case "ctrl+g":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.reset()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		m.handleEvent(msg.Event)
		if m.totalJobs > 0 {
			cmds = append(cmds, m.progress.SetPercent(float64(m.doneJobs)/float64(m.totalJobs)))
		}
		cmds = append(cmds, waitForEvent(m.events))

	case eventsClosedMsg:
		// Nothing left to drain.

	case InitDoneMsg:
		if m.state != StateInitializing {
			// Cancelled while the lookup was running.
			if msg.Err == nil {
				m.deps = msg.Deps
				m.finishRun()
			}
			return m, nil
		}
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			return m, nil
		}
		m.manager = msg.Manager
		m.deps = msg.Deps
		m.collection = msg.Collection
		m.totalJobs = len(msg.Collection.Tracks)
		if m.totalJobs == 0 {
			// Nothing to download, so no folder is asked for.
			m.handleEvent(download.ProgressEvent{Message: "No tracks found.", Level: download.LevelWarning})
			m.summary = model.Summary{Collection: msg.Collection.Name}
			m.finishRun()
			m.state = StateComplete
			break
		}
		m.state = StateFolder
		m.folderInput.SetValue(m.settings.DownloadsPath)
		m.folderInput.Focus()
		m.urlInput.Blur()

	case DownloadDoneMsg:
		m.summary = msg.Summary
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errCancelled
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	switch m.state {
	case StateInput:
		var cmd tea.Cmd
		m.urlInput, cmd = m.urlInput.Update(msg)
		cmds = append(cmds, cmd)
	case StateFolder:
		var cmd tea.Cmd
		m.folderInput, cmd = m.folderInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleEvent(e download.ProgressEvent) {
	if e.Done {
		m.doneJobs++
	}
	// Filter verbose messages if not in verbose mode
	if e.Level == download.LevelVerbose && !m.verbose {
		return
	}
	m.logs = append(m.logs, LogEntry{Message: e.Message, Level: e.Level})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m *Model) startRun() {
	m.events = make(chan download.ProgressEvent, 16)
}

// finishRun closes the event channel and releases the run's dependencies
// when the run ends without StartDownloads.
func (m *Model) finishRun() {
	if m.events != nil {
		close(m.events)
		m.events = nil
	}
	m.deps.Close()
	m.deps = download.Deps{}
}

func (m *Model) reset() {
	m.state = StateInput
	m.logs = nil
	m.err = nil
	m.manager = nil
	m.collection = nil
	m.summary = model.Summary{}
	m.totalJobs = 0
	m.doneJobs = 0
	m.events = nil
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.urlInput.SetValue("")
	m.urlInput.Focus()
	m.folderInput.Blur()
}

// waitForEvent receives the next event from ch.
func waitForEvent(ch <-chan download.ProgressEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return ProgressMsg{Event: e}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🎵 Spotify Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(download.Disclaimer))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateInitializing:
		b.WriteString(m.viewInitializing())
	case StateFolder:
		b.WriteString(m.viewFolder())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter Spotify track or playlist URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.urlInput.View())
	b.WriteString("\n\n")

	playlistCheck := "[ ]"
	if m.playlist {
		playlistCheck = "[×]"
	}
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s Create playlist (ctrl+p)\n", playlistCheck)
	fmt.Fprintf(&b, "  %s Verbose/debug output (ctrl+g)\n", verboseCheck)

	return b.String()
}

func (m Model) viewInitializing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Fetching Spotify data..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewFolder() string {
	var b strings.Builder

	b.WriteString(m.renderCollection())
	b.WriteString(subtitleStyle.Render("Save to folder:"))
	b.WriteString("\n\n")
	b.WriteString(m.folderInput.View())
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(m.renderCollection())

	var percent float64
	if m.totalJobs > 0 {
		percent = float64(m.doneJobs) / float64(m.totalJobs)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Tracks: %d/%d", m.doneJobs, m.totalJobs)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	s := m.summary
	if s.Total == 0 {
		return boxStyle.Render("No tracks found.")
	}
	return boxStyle.Render(fmt.Sprintf(
		"✨ Download complete!\n\n"+
			"Collection: %s\n"+
			"Files: %d/%d (%d already present)\n"+
			"Skipped or failed: %d\n"+
			"Saved in: %s",
		s.Collection,
		s.Files(),
		s.Total,
		s.Existing,
		s.Total-s.Downloaded-s.Existing,
		s.Dir,
	))
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		fmt.Fprintf(&b, "  %s\n\n", m.err.Error())
	}
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderCollection() string {
	if m.collection == nil {
		return ""
	}
	return collectionStyle.Render(fmt.Sprintf("♪ %s (%d tracks)", m.collection.Name, len(m.collection.Tracks))) + "\n\n"
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • ctrl+p: playlist • ctrl+g: verbose • esc: quit"
	case StateFolder:
		return "enter: download • esc: cancel"
	case StateInitializing, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new download • q: quit"
	}
	return ""
}

// initialize builds the dependencies and fetches the metadata.
func (m Model) initialize() tea.Cmd {
	locator := strings.TrimSpace(m.urlInput.Value())
	settings := *m.settings
	settings.CreatePlaylist = m.playlist
	ctx, events, newDeps := m.ctx, m.events, m.newDeps

	return func() tea.Msg {
		deps, err := newDeps(ctx, &settings)
		if err != nil {
			close(events)
			return InitDoneMsg{Err: err}
		}

		manager := download.NewManager(&settings, deps, events)
		if err := manager.Initialize(ctx, locator); err != nil {
			deps.Close()
			close(events)
			return InitDoneMsg{Err: err}
		}

		return InitDoneMsg{
			Manager:    manager,
			Deps:       deps,
			Collection: manager.Collection(),
		}
	}
}

// startDownload runs the downloads in the background. The event channel is
// closed once StartDownloads has returned, since the manager sends nothing
// after that.
func (m Model) startDownload(dir string) tea.Cmd {
	ctx, manager, deps, events := m.ctx, m.manager, m.deps, m.events

	return func() tea.Msg {
		defer close(events)
		defer deps.Close()

		summary, err := manager.StartDownloads(ctx, dir)
		return DownloadDoneMsg{Summary: summary, Err: err}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, newDeps DepsFunc) error {
	p := tea.NewProgram(NewModel(settings, newDeps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
