package tuicmder

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/papercomputeco/prepdeck/pkg/chart"
	"github.com/papercomputeco/prepdeck/pkg/client"
	"github.com/papercomputeco/prepdeck/pkg/utils"
)

func init() {
	// Force TrueColor profile to fix lipgloss color detection issue
	// See: https://github.com/charmbracelet/lipgloss/issues/439
	renderer := lipgloss.NewRenderer(os.Stdout, termenv.WithProfile(termenv.TrueColor))
	renderer.SetColorProfile(termenv.TrueColor)
	lipgloss.SetDefaultRenderer(renderer)
}

type historyView int

const (
	viewList historyView = iota
	viewDetail
	viewStats
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	accentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("215"))
	sectionStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Background(lipgloss.Color("214")).Bold(true)
	roleAskStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	roleReplyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type historyKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Back    key.Binding
	Stats   key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func (k historyKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Enter, k.Back, k.Stats, k.Refresh, k.Quit}
}

func (k historyKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Down, k.Up, k.Enter, k.Back}, {k.Stats, k.Refresh, k.Quit}}
}

func defaultKeyMap() historyKeyMap {
	return historyKeyMap{
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Enter:   key.NewBinding(key.WithKeys("enter", "l"), key.WithHelp("enter", "open")),
		Back:    key.NewBinding(key.WithKeys("h", "esc"), key.WithHelp("esc", "back")),
		Stats:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type sessionsLoadedMsg struct {
	sessions []client.Session
	err      error
}

type detailLoadedMsg struct {
	detail *client.SessionDetail
	err    error
}

type statsLoadedMsg struct {
	days []client.StatsDay
	err  error
}

type historyModel struct {
	api      *client.Client
	sessions []client.Session
	detail   *client.SessionDetail
	days     []client.StatsDay
	view     historyView
	cursor   int
	width    int
	height   int
	loading  bool
	err      error
	keys     historyKeyMap
	help     help.Model
}

func newHistoryModel(api *client.Client) historyModel {
	return historyModel{
		api:     api,
		loading: true,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

func (m historyModel) Init() bubbletea.Cmd {
	return m.loadSessions()
}

func (m historyModel) loadSessions() bubbletea.Cmd {
	api := m.api
	return func() bubbletea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		sessions, err := api.ListSessions(ctx)
		return sessionsLoadedMsg{sessions: sessions, err: err}
	}
}

func (m historyModel) loadDetail(id int64) bubbletea.Cmd {
	api := m.api
	return func() bubbletea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		detail, err := api.GetSession(ctx, id)
		return detailLoadedMsg{detail: detail, err: err}
	}
}

func (m historyModel) loadStats() bubbletea.Cmd {
	api := m.api
	return func() bubbletea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		days, err := api.SessionStats(ctx)
		return statsLoadedMsg{days: days, err: err}
	}
}

func (m historyModel) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case sessionsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.sessions = msg.sessions
			if m.cursor >= len(m.sessions) {
				m.cursor = max(len(m.sessions)-1, 0)
			}
		}
		return m, nil

	case detailLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.detail = msg.detail
			m.view = viewDetail
		}
		return m, nil

	case statsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.days = msg.days
			m.view = viewStats
		}
		return m, nil

	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m historyModel) handleKey(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, bubbletea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.view == viewList && m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.view == viewList && m.cursor < len(m.sessions)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if m.view == viewList && len(m.sessions) > 0 {
			m.loading = true
			return m, m.loadDetail(m.sessions[m.cursor].ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.view != viewList {
			m.view = viewList
			m.err = nil
		}
		return m, nil

	case key.Matches(msg, m.keys.Stats):
		if m.view == viewList {
			m.loading = true
			return m, m.loadStats()
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.view == viewList {
			m.loading = true
			return m, m.loadSessions()
		}
		return m, nil
	}

	return m, nil
}

func (m historyModel) View() string {
	var b strings.Builder

	b.WriteString("  " + titleStyle.Render("prepdeck") + "  " + mutedStyle.Render(m.viewTitle()) + "\n\n")

	switch {
	case m.loading:
		b.WriteString("  " + mutedStyle.Render("loading…") + "\n")
	case m.err != nil:
		b.WriteString("  " + errorStyle.Render(m.err.Error()) + "\n")
	case m.view == viewDetail:
		b.WriteString(m.renderDetail())
	case m.view == viewStats:
		b.WriteString(m.renderStats())
	default:
		b.WriteString(m.renderList())
	}

	b.WriteString("\n  " + m.help.View(m.keys))
	return b.String()
}

func (m historyModel) viewTitle() string {
	switch m.view {
	case viewDetail:
		return "session transcript"
	case viewStats:
		return "per-day statistics"
	default:
		return "session history"
	}
}

func (m historyModel) renderList() string {
	if len(m.sessions) == 0 {
		return "  " + mutedStyle.Render("No sessions yet.") + "\n"
	}

	var b strings.Builder
	for i, s := range m.sessions {
		row := fmt.Sprintf("#%-4d %-32s %s  %2d questions  score %.1f",
			s.ID,
			utils.Truncate(s.Topic, 32),
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			s.QuestionCount,
			s.Score,
		)
		if i == m.cursor {
			b.WriteString("  " + highlightStyle.Render(row) + "\n")
		} else {
			b.WriteString("  " + row + "\n")
		}
	}
	return b.String()
}

func (m historyModel) renderDetail() string {
	if m.detail == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("  " + accentStyle.Render(m.detail.Topic) + "\n")
	b.WriteString("  " + mutedStyle.Render(fmt.Sprintf("%s  %s  %d questions  score %.1f",
		m.detail.Position,
		m.detail.StartedAt.Local().Format("2006-01-02 15:04"),
		m.detail.QuestionCount,
		m.detail.Score,
	)) + "\n\n")

	for _, turn := range m.detail.Turns {
		style := roleAskStyle
		if turn.Role == "candidate" {
			style = roleReplyStyle
		}
		b.WriteString("  " + style.Render(turn.Role) + " " +
			mutedStyle.Render(turn.AskedAt.Local().Format("15:04")) + "\n")
		b.WriteString("  " + turn.Content + "\n\n")
	}
	return b.String()
}

func (m historyModel) renderStats() string {
	if len(m.days) == 0 {
		return "  " + mutedStyle.Render("No sessions yet.") + "\n"
	}

	width := m.width
	if width <= 0 {
		width = 80
	}

	counts := make([]chart.Point, 0, len(m.days))
	scores := make([]chart.Point, 0, len(m.days))
	for _, day := range m.days {
		counts = append(counts, chart.Point{Label: day.Date, Value: float64(day.Sessions)})
		scores = append(scores, chart.Point{Label: day.Date, Value: day.AverageScore})
	}

	var b strings.Builder
	b.WriteString("  " + sectionStyle.Render("Sessions per day") + "\n\n")
	b.WriteString(indent(chart.Bars(counts, width-4)) + "\n\n")
	b.WriteString("  " + sectionStyle.Render("Average score per day") + "\n\n")
	b.WriteString(indent(chart.Bars(scores, width-4)) + "\n")
	return b.String()
}

func indent(block string) string {
	if block == "" {
		return block
	}
	return "  " + strings.ReplaceAll(block, "\n", "\n  ")
}
