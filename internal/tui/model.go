// Package tui is a terminal front end for one room of the sync engine.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"communitychat/internal/common"
	"communitychat/internal/syncengine"
)

const (
	maxVisibleMessages = 15
	actionTimeout      = 30 * time.Second
)

// Engine is what the room view needs from *syncengine.Engine.
type Engine interface {
	Changes() <-chan struct{}
	Messages() []syncengine.Message
	TypingUsers() []syncengine.TypingEntry
	OnlineCount() int
	State() syncengine.State
	Role() syncengine.RoleStatus
	GapPending() bool
	LastError() error

	Send(ctx context.Context, d syncengine.Draft) (*syncengine.Message, error)
	Retry(ctx context.Context, tempID string) (*syncengine.Message, error)
	NotifyTyping(ctx context.Context) error
	LoadOlder(ctx context.Context) (int, error)
	RetryCatchUp(ctx context.Context) error
}

var _ Engine = (*syncengine.Engine)(nil)

type changedMsg struct{}

type actionMsg struct {
	err error
}

type RoomModel struct {
	engine   Engine
	roomName string
	selfID   uint64
	input    textarea.Model
	err      error
	scroll   int // messages hidden below the visible window
}

func NewRoomModel(engine Engine, roomName string, selfID uint64) RoomModel {
	input := textarea.New()
	input.Placeholder = "Type a message..."
	input.Focus()
	input.SetWidth(80)
	input.SetHeight(3)
	input.CharLimit = common.DefaultMaxContentLength
	input.ShowLineNumbers = false

	return RoomModel{
		engine:   engine,
		roomName: roomName,
		selfID:   selfID,
		input:    input,
	}
}

func (m RoomModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.waitForChange())
}

func (m RoomModel) waitForChange() tea.Cmd {
	ch := m.engine.Changes()
	return func() tea.Msg {
		<-ch
		return changedMsg{}
	}
}

func (m RoomModel) run(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		return actionMsg{err: fn(ctx)}
	}
}

func (m RoomModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case changedMsg:
		return m, m.waitForChange()

	case actionMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.Reset()
			m.scroll = 0
			m.err = nil
			return m, m.run(func(ctx context.Context) error {
				_, err := m.engine.Send(ctx, syncengine.Draft{Content: text})
				return err
			})

		case "ctrl+r":
			tempID := m.lastFailed()
			if tempID == "" {
				return m, nil
			}
			m.err = nil
			return m, m.run(func(ctx context.Context) error {
				_, err := m.engine.Retry(ctx, tempID)
				return err
			})

		case "ctrl+g":
			return m, m.run(m.engine.RetryCatchUp)

		case "pgup":
			m.scroll += maxVisibleMessages
			return m, m.run(func(ctx context.Context) error {
				_, err := m.engine.LoadOlder(ctx)
				return err
			})

		case "pgdown":
			m.scroll -= maxVisibleMessages
			if m.scroll < 0 {
				m.scroll = 0
			}
			return m, nil

		default:
			m.input, cmd = m.input.Update(msg)
			return m, tea.Batch(cmd, m.run(m.engine.NotifyTyping))
		}
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m RoomModel) lastFailed() string {
	msgs := m.engine.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Status == syncengine.StatusFailed {
			return msgs[i].TempID
		}
	}
	return ""
}

func (m RoomModel) View() string {
	var sb strings.Builder

	header := titleStyle.Render(fmt.Sprintf("# %s", m.roomName))
	header += "  " + onlineStyle.Render(fmt.Sprintf("● %d online", m.engine.OnlineCount()))
	if st := m.engine.State(); st != syncengine.StateActive {
		header += "  " + statusStyle.Render(st.String())
	}
	sb.WriteString(header + "\n\n")

	msgs := m.engine.Messages()
	end := len(msgs) - m.scroll
	if end < 0 {
		end = 0
	}
	start := end - maxVisibleMessages
	if start < 0 {
		start = 0
	}
	for _, msg := range msgs[start:end] {
		sb.WriteString(m.renderMessage(msg) + "\n")
	}

	if m.engine.GapPending() {
		sb.WriteString(failedStyle.Render("some messages may be missing • [ctrl+g] reload") + "\n")
	}
	if line := typingLine(m.engine.TypingUsers()); line != "" {
		sb.WriteString(statusStyle.Render(line) + "\n")
	}
	if r := m.engine.Role(); r.IsMuted {
		until := "further notice"
		if r.MutedUntil != nil {
			until = r.MutedUntil.Local().Format("15:04")
		}
		sb.WriteString(errorStyle.Render("you are muted until "+until) + "\n")
	}
	if m.err != nil {
		sb.WriteString(errorStyle.Render(describe(m.err)) + "\n")
	} else if err := m.engine.LastError(); err != nil {
		sb.WriteString(errorStyle.Render(describe(err)) + "\n")
	}

	sb.WriteString("\n" + inputStyle.Render(m.input.View()) + "\n")
	sb.WriteString(helpStyle.Render("[enter] send • [ctrl+r] retry • [pgup] older • [esc] quit"))
	return sb.String()
}

func (m RoomModel) renderMessage(msg syncengine.Message) string {
	name := "unknown"
	if msg.Author != nil && msg.Author.DisplayName != "" {
		name = msg.Author.DisplayName
	}
	if msg.UserID == m.selfID {
		name = "you"
	}

	body := msg.Content
	if msg.ContentType == common.ContentTypeImage {
		body = "[image] " + body
	}
	line := fmt.Sprintf("%s %s: %s", msg.CreatedAt.Local().Format("15:04"), authorStyle.Render(name), body)

	switch msg.Status {
	case syncengine.StatusSending:
		return pendingStyle.Render(line + " …")
	case syncengine.StatusFailed:
		return failedStyle.Render(line + " ✗ not sent")
	}
	return line
}

func typingLine(users []syncengine.TypingEntry) string {
	switch len(users) {
	case 0:
		return ""
	case 1:
		return users[0].DisplayName + " is typing..."
	case 2:
		return users[0].DisplayName + " and " + users[1].DisplayName + " are typing..."
	default:
		return fmt.Sprintf("%d people are typing...", len(users))
	}
}

// describe renders an engine error for the status line.
func describe(err error) string {
	ce, ok := common.AsChatError(err)
	if !ok {
		if common.IsTransport(err) {
			return "connection problem, try again"
		}
		return err.Error()
	}
	switch ce.Code {
	case common.CodeRateLimited:
		return "slow down, retry in " + common.HumanizeWait(ce.RetryAfter)
	case common.CodeMuted:
		if ce.MutedUntil != nil {
			return "you are muted until " + ce.MutedUntil.Local().Format("15:04")
		}
		return "you are muted"
	}
	return ce.Message
}
