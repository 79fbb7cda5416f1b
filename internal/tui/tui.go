// Package tui provides the Bubble Tea terminal user interface of the player.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/fomu/internal/catalog"
	"github.com/handiism/fomu/internal/command"
	"github.com/handiism/fomu/internal/config"
	"github.com/handiism/fomu/internal/download"
	"github.com/handiism/fomu/internal/model"
	"github.com/handiism/fomu/internal/playback"
	"github.com/handiism/fomu/internal/pool"
	"github.com/mattn/go-runewidth"
)

// NoticeDuration is how long a notice stays on screen.
const NoticeDuration = 4 * time.Second

const (
	defaultWidth = 64
	maxHistory   = 256
	attribution  = "Music by Scott Buckley (CC-BY 4.0), support him at scottbuckley.com.au"
	ellipsis     = "…"
)

// Player is the engine side the UI reads and ticks.
type Player interface {
	Tick()
	Snapshot() playback.Snapshot
}

// Dispatcher executes user commands.
type Dispatcher interface {
	Dispatch(cmd command.Command) error
}

// Downloads reports background download activity.
type Downloads interface {
	Progress() download.Progress
	Pending() int
}

// Library reports which tracks are cached.
type Library interface {
	Has(id string) bool
	ReadyCount() int
}

// Config wires the UI to the rest of the player.
type Config struct {
	Catalog      *catalog.Catalog
	Player       Player
	Commands     Dispatcher
	Downloads    Downloads
	Library      Library
	TickInterval time.Duration
	Visualizer   string
}

// TickMsg drives the player once per frame.
type TickMsg time.Time

// Model is the Bubble Tea model for the player.
type Model struct {
	catalog   *catalog.Catalog
	resolver  *pool.Resolver
	player    Player
	commands  Dispatcher
	downloads Downloads
	library   Library
	tickRate  time.Duration

	keys         keyMap
	selectorKeys selectorKeyMap
	help         help.Model
	spinner      spinner.Model
	progress     progress.Model

	snapshot   playback.Snapshot
	download   download.Progress
	pending    int
	visualizer string

	// loudness per frame for the wave visualizer
	history []float64
	phase   float64

	selecting bool
	selected  string

	notice   string
	noticeAt time.Time

	started time.Time
	now     func() time.Time
	width   int
}

// NewModel creates the player UI.
func NewModel(cfg Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = pendingStyle

	prog := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	prog.Width = 30

	tickRate := cfg.TickInterval
	if tickRate <= 0 {
		tickRate = time.Second / 15
	}
	visualizer := cfg.Visualizer
	if visualizer == "" {
		visualizer = config.VisualizerBars
	}

	m := Model{
		catalog:      cfg.Catalog,
		resolver:     pool.NewResolver(cfg.Catalog),
		player:       cfg.Player,
		commands:     cfg.Commands,
		downloads:    cfg.Downloads,
		library:      cfg.Library,
		tickRate:     tickRate,
		keys:         newKeyMap(),
		selectorKeys: newSelectorKeyMap(),
		help:         help.New(),
		spinner:      sp,
		progress:     prog,
		visualizer:   visualizer,
		now:          time.Now,
		width:        defaultWidth,
	}
	m.started = m.now()
	m.refresh()
	return m
}

// Init starts the frame ticker and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.spinner.Tick)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.tickRate, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.progress.Width = min(max(msg.Width/3, 10), 40)
		return m, nil

	case tea.KeyMsg:
		if m.selecting {
			return m.updateSelector(msg)
		}
		return m.updatePlayer(msg)

	case TickMsg:
		m.player.Tick()
		m.refresh()
		if m.snapshot.State == playback.Stopped {
			return m, tea.Quit
		}
		m.history = pushHistory(m.history, m.snapshot.Levels.RMS, maxHistory)
		m.phase += waveStep
		return m, m.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updatePlayer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.dispatch(command.Command{Kind: command.Quit})
		m.refresh()
		return m, tea.Quit
	case key.Matches(msg, m.keys.pause):
		m.dispatch(command.Command{Kind: command.TogglePause})
	case key.Matches(msg, m.keys.volumeUp):
		m.dispatch(command.Command{Kind: command.VolumeUp})
	case key.Matches(msg, m.keys.volumeDown):
		m.dispatch(command.Command{Kind: command.VolumeDown})
	case key.Matches(msg, m.keys.skip):
		m.dispatch(command.Command{Kind: command.Skip})
	case key.Matches(msg, m.keys.preset):
		m.selecting = true
		m.selected = m.snapshot.Preset.Name
	case key.Matches(msg, m.keys.visualizer):
		m.visualizer = nextVisualizer(m.visualizer)
	}
	m.refresh()
	return m, nil
}

func (m Model) updateSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.selectorKeys.quit):
		m.dispatch(command.Command{Kind: command.Quit})
		m.refresh()
		return m, tea.Quit
	case key.Matches(msg, m.selectorKeys.prev):
		m.selected = command.CyclePreset(m.catalog, m.selected, -1)
	case key.Matches(msg, m.selectorKeys.next):
		m.selected = command.CyclePreset(m.catalog, m.selected, 1)
	case key.Matches(msg, m.selectorKeys.confirm):
		m.selecting = false
		m.dispatch(command.Command{Kind: command.SelectPreset, Preset: m.selected})
		m.refresh()
	case key.Matches(msg, m.selectorKeys.cancel):
		m.selecting = false
	}
	return m, nil
}

// dispatch runs cmd and turns a failure into a notice.
func (m *Model) dispatch(cmd command.Command) {
	if err := m.commands.Dispatch(cmd); err != nil {
		m.notice = err.Error()
		m.noticeAt = m.now()
	}
}

func (m *Model) refresh() {
	m.snapshot = m.player.Snapshot()
	if m.downloads != nil {
		m.download = m.downloads.Progress()
		m.pending = m.downloads.Pending()
	}
	if m.snapshot.NoticeAt.After(m.noticeAt) {
		m.notice = m.snapshot.Notice
		m.noticeAt = m.snapshot.NoticeAt
	}
}

func nextVisualizer(current string) string {
	for i, v := range config.Visualizers {
		if v == current {
			return config.Visualizers[(i+1)%len(config.Visualizers)]
		}
	}
	return config.Visualizers[0]
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")
	if v := m.viewVisualizer(); v != "" {
		b.WriteString(v)
		b.WriteString("\n\n")
	}
	b.WriteString(m.viewTrack())
	b.WriteString("\n")
	if d := m.viewDownload(); d != "" {
		b.WriteString(d)
		b.WriteString("\n")
	}
	if n := m.viewNotice(); n != "" {
		b.WriteString(n)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.selecting {
		b.WriteString(m.viewSelector())
		b.WriteString("\n")
		b.WriteString(m.help.View(m.selectorKeys))
	} else {
		b.WriteString(presetStyle.Render(fmt.Sprintf("  Vol: %d%%", int(m.snapshot.Volume*100+0.5))))
		b.WriteString(dimStyle.Render("  │  "))
		b.WriteString(m.help.View(m.keys))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + attribution))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewHeader() string {
	p := m.snapshot.Preset
	header := titleStyle.Render("  Fomu") + presetStyle.Render(fmt.Sprintf("  [%s]", p.Name))
	if p.Name != "" {
		header += dimStyle.Render(fmt.Sprintf("  %s · %s", p.Description, hzRange(p)))
	}
	return header
}

func (m Model) viewVisualizer() string {
	levels := m.snapshot.Levels

	var lines []string
	switch m.visualizer {
	case config.VisualizerBars:
		bands := levels.Bands
		if len(bands) == 0 {
			bands = make([]float64, maxBars)
		}
		lines = renderBars(bands, m.width-4, visualHeight)
	case config.VisualizerWave:
		lines = renderWave(m.history, m.phase, m.width-4, waveHeight)
	case config.VisualizerMinimal:
		lines = []string{renderMinimal(levels.RMS, m.width-4)}
	default:
		return ""
	}
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return visualStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewTrack() string {
	s := m.snapshot
	clock := dimStyle.Render("  " + formatClock(m.now().Sub(m.started)))

	switch s.State {
	case playback.Playing, playback.Paused:
		icon := "▶"
		if s.State == playback.Paused {
			icon = "⏸"
		}
		title := m.truncate(s.Track.Title, 24)
		return boldStyle.Render("  "+icon+" ") +
			trackStyle.Render(title) +
			dimStyle.Render(" — "+s.Track.Artist) +
			clock
	case playback.Loading:
		name := "next track"
		if s.Awaiting != nil {
			name = m.truncate(s.Awaiting.Title, 24)
		}
		return "  " + m.spinner.View() + " " + pendingStyle.Render("Loading "+name+ellipsis) + clock
	case playback.Stopped:
		return dimStyle.Render("  Stopped") + clock
	default:
		return dimStyle.Render("  Idle") + clock
	}
}

func (m Model) viewDownload() string {
	if !m.download.Active && m.pending == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("  ")
	if m.download.Active {
		name := m.download.TrackID
		if t, err := m.catalog.Track(name); err == nil {
			name = t.Title
		}
		b.WriteString(m.progress.ViewAs(m.download.Fraction()))
		b.WriteString(pendingStyle.Render(fmt.Sprintf(" %s %d%%", m.truncate(name, 20), int(m.download.Fraction()*100))))
	} else {
		b.WriteString(pendingStyle.Render("Waiting to download"))
	}
	if m.library != nil {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %d cached, %d pending", m.library.ReadyCount(), m.pending)))
	}
	return b.String()
}

func (m Model) viewNotice() string {
	if m.notice == "" || m.now().Sub(m.noticeAt) > NoticeDuration {
		return ""
	}
	return noticeStyle.Render("  ! " + m.truncate(m.notice, m.width-6))
}

func (m Model) viewSelector() string {
	parts := []string{boldStyle.Render("  Select preset:")}
	for _, p := range m.catalog.Presets() {
		switch {
		case p.Name == m.selected:
			parts = append(parts, selectedStyle.Render("["+p.Name+"]"))
		case m.hasCachedTracks(p):
			parts = append(parts, trackStyle.Render(p.Name))
		default:
			parts = append(parts, dimStyle.Italic(true).Render(p.Name))
		}
	}
	line := strings.Join(parts, " ")

	if p, err := m.catalog.Preset(m.selected); err == nil {
		line += "\n" + dimStyle.Render(fmt.Sprintf("  %s · %s · %s", p.Description, hzRange(p), strings.Join(p.PoolNames(), ", ")))
	}
	return line
}

func (m Model) hasCachedTracks(p model.Preset) bool {
	if m.library == nil {
		return true
	}
	for _, id := range m.resolver.Resolve(p) {
		if m.library.Has(id) {
			return true
		}
	}
	return false
}

func (m Model) truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}

func hzRange(p model.Preset) string {
	return fmt.Sprintf("%g-%g Hz", p.HzMin, p.HzMax)
}

// formatClock renders d as HH:MM:SS.
func formatClock(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	mnt := d / time.Minute
	d -= mnt * time.Minute
	return fmt.Sprintf("%02d:%02d:%02d", h, mnt, d/time.Second)
}

// Run starts the UI and blocks until the player quits or ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	p := tea.NewProgram(NewModel(cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
