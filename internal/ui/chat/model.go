// Package chat is the terminal chat screen. Network calls run as tea.Cmds and
// their results are applied to the conversation on the program loop.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tableside/concierge/internal/model/chat"
	"github.com/tableside/concierge/internal/service/conversation"
)

// replyMsg carries a finished backend call back to the loop.
type replyMsg struct {
	turn  conversation.Turn
	reply string
	err   error
}

// Model is the bubbletea model of the chat screen.
type Model struct {
	ctx      context.Context
	conv     *conversation.Conversation
	gw       conversation.Gateway
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	alert    string
	notice   string
	width    int
	ready    bool
}

// New builds the screen for conv. Requests use ctx.
func New(ctx context.Context, conv *conversation.Conversation, gw conversation.Gateway) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask something..."
	ti.CharLimit = 1000
	if conv.Capabilities().Text {
		ti.Focus()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accent)

	m := Model{
		ctx:      ctx,
		conv:     conv,
		gw:       gw,
		input:    ti,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		width:    80,
	}
	if !conv.Capabilities().Text {
		m.notice = "Chat is not available at this restaurant."
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-6, 3)
		m.input.Width = max(msg.Width-4, 10)
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case replyMsg:
		res := m.conv.Complete(msg.turn, msg.reply, msg.err)
		if res.Alert != nil {
			m.alert = fmt.Sprintf("%s: %s", res.Alert.Title, res.Alert.Message)
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.conv.State() != conversation.Sending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.conv.Close()
		return m, tea.Quit
	case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if !m.conv.Capabilities().Text || m.conv.State() == conversation.Sending {
		return m, nil
	}

	if msg.Type == tea.KeyEnter {
		if err := m.conv.Compose(m.input.Value()); err != nil {
			m.notice = err.Error()
			return m, nil
		}
		m.alert = ""
		turn, ok := m.conv.Begin()
		if !ok {
			return m, nil
		}
		m.input.Reset()
		m.refresh()
		return m, tea.Batch(m.send(turn), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.conv.State() == conversation.Failed {
		m.conv.DismissAlert()
		m.alert = ""
	}
	return m, cmd
}

func (m Model) send(turn conversation.Turn) tea.Cmd {
	ctx, gw := m.ctx, m.gw
	return func() tea.Msg {
		reply, err := gw.SendChatMessage(ctx, turn.Request)
		return replyMsg{turn: turn, reply: reply, err: err}
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

func (m Model) renderMessages() string {
	width := max(m.width*4/5, 20)
	var b strings.Builder
	for _, msg := range m.conv.Messages() {
		if msg.Sender == chat.SenderUser {
			line := userStyle.MaxWidth(width).Render(msg.Text)
			b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Right, line))
		} else {
			b.WriteString(assistantStyle.MaxWidth(width).Render(msg.Text))
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

func (m Model) View() string {
	name := m.conv.Session().RestaurantName()
	if name == "" {
		name = "Concierge"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(name))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	switch {
	case m.conv.State() == conversation.Sending:
		b.WriteString(statusStyle.Render(m.spinner.View() + " Concierge is typing..."))
	case m.alert != "":
		b.WriteString(alertStyle.Render(m.alert))
	case m.notice != "":
		b.WriteString(statusStyle.Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter send • pgup/pgdn scroll • esc quit"))
	return b.String()
}

// Run starts the screen on the terminal and blocks until the user quits.
func Run(ctx context.Context, conv *conversation.Conversation, gw conversation.Gateway) error {
	defer conv.Close()
	_, err := tea.NewProgram(New(ctx, conv, gw), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
