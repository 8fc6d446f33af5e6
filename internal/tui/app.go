// Package tui renders the overlay session in the terminal.
package tui

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/tokyobox/internal/backend"
	"github.com/tessro/tokyobox/internal/overlay"
	"github.com/tessro/tokyobox/internal/tui/components"
	"github.com/tessro/tokyobox/internal/tui/styles"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelNowPlaying Panel = iota
	PanelQueue
)

const panelCount = 2

const (
	defaultSearchDebounce = 300 * time.Millisecond
	defaultRefreshRate    = time.Second
	volumeStep            = 5
	maxToasts             = 4
)

// Options configures the terminal overlay.
type Options struct {
	SearchDebounce time.Duration
	// RefreshRate is how often toasts are re-checked for expiry.
	RefreshRate time.Duration
}

// Model is the main TUI model
type Model struct {
	session *overlay.Session
	changes <-chan struct{}
	opts    Options

	width        int
	height       int
	focusedPanel Panel

	view overlay.View

	// Components
	nowPlaying  *components.NowPlaying
	queueView   *components.Queue
	resultsView *components.Results
	toasts      *components.Toasts

	// Overlays
	showHelp bool

	// Search state
	showSearch  bool
	searchInput textinput.Model
	lastQuery   string

	quitting bool
}

// NewModel creates a new TUI model subscribed to session.
func NewModel(session *overlay.Session, opts Options) Model {
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = defaultSearchDebounce
	}
	if opts.RefreshRate <= 0 {
		opts.RefreshRate = defaultRefreshRate
	}

	ti := textinput.New()
	ti.Placeholder = "Search YouTube..."
	ti.CharLimit = backend.MaxQueryLength
	ti.Width = 50

	m := Model{
		session:      session,
		changes:      session.Subscribe(),
		opts:         opts,
		focusedPanel: PanelQueue,
		nowPlaying:   components.NewNowPlaying(),
		queueView:    components.NewQueue(),
		resultsView:  components.NewResults(),
		toasts:       components.NewToasts(),
		searchInput:  ti,
	}
	m.refresh()
	return m
}

// Messages
type tickMsg time.Time
type changedMsg struct{}
type searchDebounceMsg struct{ query string }

// Commands
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.RefreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForChange blocks until the session signals a change. A closed
// channel ends the wait loop.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

// run performs a session action off the UI goroutine. Failures reach the
// user as toasts through the session, so the result is dropped.
func run(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		_ = fn(context.Background())
		return nil
	}
}

func (m *Model) refresh() {
	m.view = m.session.Snapshot()
	if m.view.Settings.Theme != "" && m.view.Settings.Theme != styles.Theme() {
		styles.SetTheme(m.view.Settings.Theme)
	}
	m.queueView.Clamp(len(m.view.Queue.Tracks))
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tick(),
		waitForChange(m.changes),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.refresh()
		return m, m.tick()

	case changedMsg:
		m.refresh()
		return m, waitForChange(m.changes)

	case searchDebounceMsg:
		if msg.query == m.searchInput.Value() && msg.query != m.lastQuery {
			m.lastQuery = msg.query
			return m, m.search(msg.query)
		}
		return m, nil
	}

	// Forward other messages to textinput when search is active
	if m.showSearch {
		var inputCmd tea.Cmd
		m.searchInput, inputCmd = m.searchInput.Update(msg)
		return m, inputCmd
	}

	return m, nil
}

// search sends query to the host. Queries still too short while typing are
// skipped quietly instead of raising a validation toast.
func (m Model) search(query string) tea.Cmd {
	if utf8.RuneCountInString(strings.TrimSpace(query)) < backend.MinQueryLength {
		return nil
	}
	m.resultsView.Reset()
	return run(func(ctx context.Context) error {
		return m.session.Search(ctx, query)
	})
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// Help overlay
	if m.showHelp {
		switch msg.String() {
		case "?", "esc":
			m.showHelp = false
		}
		return m, nil
	}

	// Search overlay
	if m.showSearch {
		return m.handleSearchKeyPress(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "/":
		m.showSearch = true
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		m.lastQuery = ""
		m.resultsView.Reset()
		return m, textinput.Blink

	case "esc":
		return m, run(m.session.CloseUI)

	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % panelCount
		return m, nil

	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
		return m, nil
	}

	// Playback controls
	switch msg.String() {
	case " ":
		return m, run(func(ctx context.Context) error {
			_, err := m.session.TogglePlayback(ctx)
			return err
		})
	case "n":
		return m, run(func(ctx context.Context) error {
			_, _, err := m.session.Next(ctx)
			return err
		})
	case "p":
		return m, run(func(ctx context.Context) error {
			_, _, err := m.session.Previous(ctx)
			return err
		})
	case "s":
		return m, run(func(ctx context.Context) error {
			_, err := m.session.ToggleShuffle(ctx)
			return err
		})
	case "r":
		return m, run(func(ctx context.Context) error {
			_, err := m.session.CycleRepeat(ctx)
			return err
		})
	case "f":
		return m, run(func(ctx context.Context) error {
			return m.session.AddFavorite(ctx, "")
		})
	case "+", "=":
		return m, m.adjustVolume(volumeStep)
	case "-":
		return m, m.adjustVolume(-volumeStep)
	case "x":
		m.session.DismissNewest()
		m.refresh()
		return m, nil
	case "c":
		m.session.ClearQueue()
		m.refresh()
		return m, nil
	}

	// Queue keys
	if m.focusedPanel == PanelQueue {
		tracks := m.view.Queue.Tracks
		switch msg.String() {
		case "j", "down":
			m.queueView.SelectNext(len(tracks))
		case "k", "up":
			m.queueView.SelectPrev()
		case "enter":
			if id, ok := m.selectedID(); ok {
				return m, run(func(ctx context.Context) error {
					return m.session.PlayTrack(ctx, id)
				})
			}
		case "d":
			if id, ok := m.selectedID(); ok {
				m.session.RemoveTrack(id)
				m.refresh()
			}
		}
	}

	return m, nil
}

func (m Model) selectedID() (string, bool) {
	tracks := m.view.Queue.Tracks
	i := m.queueView.Selected()
	if i < 0 || i >= len(tracks) {
		return "", false
	}
	return tracks[i].ID, true
}

func (m Model) adjustVolume(delta int) tea.Cmd {
	return run(func(ctx context.Context) error {
		_, err := m.session.AdjustVolume(ctx, delta)
		return err
	})
}

func (m Model) handleSearchKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.String() {
	case "esc":
		m.showSearch = false
		m.searchInput.Blur()
		return m, nil

	case "enter":
		// Enter on a fresh query searches right away; on shown results it
		// queues the selection.
		if m.searchInput.Value() != m.lastQuery {
			query := m.searchInput.Value()
			m.lastQuery = query
			m.resultsView.Reset()
			return m, run(func(ctx context.Context) error {
				return m.session.Search(ctx, query)
			})
		}
		if len(m.view.State.Results) > 0 {
			m.session.EnqueueResult(m.resultsView.Selected())
			m.showSearch = false
			m.searchInput.Blur()
			m.refresh()
		}
		return m, nil

	case "up", "ctrl+p":
		m.resultsView.SelectPrev()
		return m, nil

	case "down", "ctrl+n":
		m.resultsView.SelectNext(len(m.view.State.Results))
		return m, nil
	}

	var inputCmd tea.Cmd
	m.searchInput, inputCmd = m.searchInput.Update(msg)
	cmds = append(cmds, inputCmd)

	// Debounce search
	if m.searchInput.Value() != m.lastQuery {
		query := m.searchInput.Value()
		cmds = append(cmds, tea.Tick(m.opts.SearchDebounce, func(time.Time) tea.Msg {
			return searchDebounceMsg{query: query}
		}))
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.showSearch {
		return m.renderSearch()
	}

	// Left: Now Playing (top), Queue (bottom). Right: toasts.
	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 2
	topHeight := m.height * 40 / 100
	bottomHeight := m.height - topHeight - 2

	nowPlaying := m.nowPlaying.Render(m.view.State, leftWidth-2, topHeight-2, m.focusedPanel == PanelNowPlaying)
	queueView := m.queueView.Render(m.view.Queue, leftWidth-2, bottomHeight-2, m.focusedPanel == PanelQueue)
	toasts := m.toasts.Render(m.view.Notifications, time.Now(), rightWidth, maxToasts)

	leftCol := lipgloss.JoinVertical(lipgloss.Left, nowPlaying, queueView)
	main := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, " ", toasts)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	visibility := styles.Dim.Render("○ hidden")
	if m.view.State.Visible {
		visibility = styles.Playing.Render("● shown")
	}
	keys := styles.Dim.Render("q:quit  ?:help  /:search  space:play/pause  n/p:next/prev  s:shuffle  r:repeat  f:favorite  +/-:volume")

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(visibility + "  " + keys)
}

func (m Model) renderHelp() string {
	title := "Tokyo Box - Keyboard Shortcuts"
	divider := strings.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  /            Search
  Esc          Close overlay
  Tab          Next panel
  x            Dismiss newest notification

  Playback
  ────────
  Space        Play/Pause
  n            Next track
  p            Previous track
  s            Toggle shuffle
  r            Cycle repeat
  f            Favorite current track
  +/=          Volume up
  -            Volume down

  Queue Panel
  ───────────
  j/↓          Select next
  k/↑          Select previous
  Enter        Play selected
  d            Remove selected
  c            Clear queue

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

func (m Model) renderSearch() string {
	var b strings.Builder

	b.WriteString(styles.Highlight.Render("Search"))
	b.WriteString("\n\n")

	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	b.WriteString(m.resultsView.Render(m.view.State.Results, 56, 10, m.view.State.Loading.Search))
	b.WriteString("\n\n")

	b.WriteString(styles.Dim.Render("↑/↓:nav  Enter:search/queue  Esc:close"))

	content := lipgloss.NewStyle().
		Width(60).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.FocusedBorder.Render(content))
}

// Run starts the terminal overlay and blocks until the user quits or ctx
// is canceled.
func Run(ctx context.Context, session *overlay.Session, opts Options) error {
	model := NewModel(session, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()
	return err
}
