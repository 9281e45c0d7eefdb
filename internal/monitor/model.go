package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nkarlsen/lyngctl/internal/device"
	"github.com/nkarlsen/lyngctl/internal/protocol"
)

// keyMap defines the dashboard key bindings
type keyMap struct {
	VolumeUp   key.Binding
	VolumeDown key.Binding
	Mute       key.Binding
	NextSource key.Binding
	PrevSource key.Binding
	Power      key.Binding
	Refresh    key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.VolumeUp, k.VolumeDown, k.Mute, k.NextSource, k.Power, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.VolumeUp, k.VolumeDown, k.Mute},
		{k.NextSource, k.PrevSource, k.Power},
		{k.Refresh, k.Quit},
	}
}

func newKeyMap() keyMap {
	return keyMap{
		VolumeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "volume up"),
		),
		VolumeDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "volume down"),
		),
		Mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		NextSource: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n", "next source"),
		),
		PrevSource: key.NewBinding(
			key.WithKeys("N", "left"),
			key.WithHelp("N", "prev source"),
		),
		Power: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "power"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Messages
type updateMsg struct {
	update protocol.StateUpdate
}

type commandErrMsg struct {
	err error
}

type refreshedMsg struct {
	state State
}

type disconnectedMsg struct{}

// Model is the dashboard bubbletea model
type Model struct {
	client *device.Client
	state  State
	keys   keyMap
	help   help.Model

	width   int
	lastErr error
}

// NewModel creates a dashboard for a connected client
func NewModel(client *device.Client) Model {
	return Model{
		client: client,
		keys:   newKeyMap(),
		help:   help.New(),
		width:  GetTerminalWidth(),
	}
}

// Init queries the initial state
func (m Model) Init() tea.Cmd {
	return m.refreshCmd()
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.width > MaxContentWidth {
			m.width = MaxContentWidth
		}
		return m, nil

	case updateMsg:
		m.state.Apply(msg.update)
		return m, nil

	case refreshedMsg:
		m.state = msg.state
		return m, nil

	case commandErrMsg:
		m.lastErr = msg.err
		return m, nil

	case disconnectedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.VolumeUp):
			return m, m.commandCmd(m.client.Volume.Up)
		case key.Matches(msg, m.keys.VolumeDown):
			return m, m.commandCmd(m.client.Volume.Down)
		case key.Matches(msg, m.keys.Mute):
			return m, m.commandCmd(m.client.Mute.Toggle)
		case key.Matches(msg, m.keys.NextSource):
			return m, m.commandCmd(m.client.Source.Next)
		case key.Matches(msg, m.keys.PrevSource):
			return m, m.commandCmd(m.client.Source.Previous)
		case key.Matches(msg, m.keys.Power):
			return m, m.powerToggleCmd()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.refreshCmd()
		}
	}

	return m, nil
}

// commandCmd runs a fire-and-forget control action
func (m Model) commandCmd(action func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := action(ctx); err != nil {
			return commandErrMsg{err: err}
		}
		return nil
	}
}

// powerToggleCmd flips power based on the last known state
func (m Model) powerToggleCmd() tea.Cmd {
	on := m.state.PowerKnown && m.state.Power
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var err error
		if on {
			err = m.client.Power.Off(ctx)
		} else {
			err = m.client.Power.On(ctx)
		}
		if err != nil {
			return commandErrMsg{err: err}
		}
		return nil
	}
}

// refreshCmd queries the processor for a full state snapshot
func (m Model) refreshCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		var s State
		if on, err := client.Power.Get(ctx); err == nil {
			s.Power, s.PowerKnown = on, true
		}
		if db, err := client.Volume.Get(ctx); err == nil {
			s.VolumeDB, s.VolumeKnown = db, true
		}
		if muted, err := client.Mute.Get(ctx); err == nil {
			s.Muted, s.MuteKnown = muted, true
		}
		if src, err := client.Source.Get(ctx); err == nil {
			s.SourceIndex, s.SourceName, s.SourceKnown = src.Index, src.Name, true
		}
		if pos, err := client.RoomPerfect.GetPosition(ctx); err == nil {
			s.PositionName = pos.Name
		}
		if voi, err := client.RoomPerfect.GetVoicing(ctx); err == nil {
			s.VoicingName = voi.Name
		}
		if mode, err := client.AudioMode.Get(ctx); err == nil {
			s.AudioMode = mode.Name
		}
		if ms, err := client.Lipsync.Get(ctx); err == nil {
			s.LipsyncMS, s.LipsyncKnown = ms, true
		}
		if on, err := client.Zone2.Power.Get(ctx); err == nil {
			s.Zone2Power, s.Zone2PowerKnown = on, true
		}

		if !client.Connected() {
			return disconnectedMsg{}
		}
		return refreshedMsg{state: s}
	}
}

// View renders the dashboard
func (m Model) View() string {
	var b strings.Builder

	title := fmt.Sprintf("LYNGDORF %s  %s",
		strings.ToUpper(m.client.Model().ID), m.client.Endpoint())
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n")

	var rows []string
	rows = append(rows, row("Power", renderPower(m.state.PowerKnown, m.state.Power)))
	rows = append(rows, row("Volume", renderVolume(m.state)))
	rows = append(rows, row("Source", renderSource(m.state)))
	if m.state.AudioMode != "" {
		rows = append(rows, row("Audio mode", ValueStyle.Render(m.state.AudioMode)))
	}
	if m.state.PositionName != "" {
		rows = append(rows, row("RoomPerfect", ValueStyle.Render(m.state.PositionName)))
	}
	if m.state.VoicingName != "" {
		rows = append(rows, row("Voicing", ValueStyle.Render(m.state.VoicingName)))
	}
	if m.state.LipsyncKnown {
		rows = append(rows, row("Lipsync", ValueStyle.Render(fmt.Sprintf("%d ms", m.state.LipsyncMS))))
	}
	rows = append(rows, row("Zone 2", renderZone2(m.state)))

	b.WriteString(BoxStyle.Width(m.width - 4).Render(strings.Join(rows, "\n")))
	b.WriteString("\n")

	if m.lastErr != nil {
		b.WriteString(StatusBarStyle.Render("error: " + m.lastErr.Error()))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(m.help.View(m.keys)))
	b.WriteString("\n")
	return b.String()
}

func row(label, value string) string {
	return LabelStyle.Render(label) + value
}

func renderPower(known, on bool) string {
	switch {
	case !known:
		return InactiveStyle.Render("unknown")
	case on:
		return ActiveStyle.Render("ON")
	default:
		return InactiveStyle.Render("standby")
	}
}

func renderVolume(s State) string {
	if !s.VolumeKnown {
		return InactiveStyle.Render("unknown")
	}
	text := fmt.Sprintf("%+.1f dB", s.VolumeDB)
	if s.MuteKnown && s.Muted {
		return MutedStyle.Render(text + "  MUTED")
	}
	return ValueStyle.Render(text)
}

func renderSource(s State) string {
	if !s.SourceKnown {
		return InactiveStyle.Render("unknown")
	}
	if s.SourceName == "" {
		return ValueStyle.Render(fmt.Sprintf("#%d", s.SourceIndex))
	}
	return ValueStyle.Render(fmt.Sprintf("%s (#%d)", s.SourceName, s.SourceIndex))
}

func renderZone2(s State) string {
	if !s.Zone2PowerKnown {
		return InactiveStyle.Render("unknown")
	}
	if !s.Zone2Power {
		return InactiveStyle.Render("off")
	}
	parts := []string{ActiveStyle.Render("ON")}
	if s.Zone2VolKnown {
		parts = append(parts, fmt.Sprintf("%+.1f dB", s.Zone2VolDB))
	}
	if s.Zone2Muted {
		parts = append(parts, MutedStyle.Render("MUTED"))
	}
	if s.Zone2SourceName != "" {
		parts = append(parts, s.Zone2SourceName)
	}
	return strings.Join(parts, "  ")
}

// Run starts the dashboard and blocks until the user quits or the
// connection drops
func Run(ctx context.Context, client *device.Client) error {
	m := NewModel(client)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Pushed updates become messages; the subscription lives as long
	// as the program
	sub := client.Subscribe(protocol.KindAny, func(u protocol.StateUpdate) {
		p.Send(updateMsg{update: u})
	})
	defer client.Unsubscribe(sub)

	go func() {
		<-ctx.Done()
		p.Send(disconnectedMsg{})
	}()

	_, err := p.Run()
	return err
}
