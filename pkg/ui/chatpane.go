package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/Darhlilove/dashly-sub001/pkg/model"
)

// ChatModel is the conversation pane: a scrollback viewport over the
// message history and a single-line prompt.
type ChatModel struct {
	input    textinput.Model
	vp       viewport.Model
	renderer *glamour.TermRenderer

	messages []model.Message
	lastSQL  string
	thinking bool

	width, height int
	markdown      bool
	focused       bool
}

// NewChatModel creates the chat pane.
func NewChatModel(markdown bool) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about your data..."
	ti.Prompt = "> "
	ti.CharLimit = 500
	ti.Focus()

	return ChatModel{
		input:    ti,
		vp:       viewport.New(0, 0),
		markdown: markdown,
		focused:  true,
	}
}

// SetSize resizes the pane. The glamour renderer is rebuilt because its
// word wrap is fixed at construction.
func (c *ChatModel) SetSize(width, height int) {
	c.width, c.height = width, height
	c.input.Width = width - 4

	vpHeight := height - 3 // prompt + divider
	if vpHeight < 1 {
		vpHeight = 1
	}
	c.vp.Width = width
	c.vp.Height = vpHeight

	if c.markdown && width > 4 {
		if r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dracula"),
			glamour.WithWordWrap(width-2),
		); err == nil {
			c.renderer = r
		}
	}
	c.refreshContent()
}

// SetMessages replaces the history, e.g. after switching conversations.
func (c *ChatModel) SetMessages(messages []model.Message) {
	c.messages = messages
	c.lastSQL = ""
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].SQL != "" {
			c.lastSQL = messages[i].SQL
			break
		}
	}
	c.refreshContent()
	c.vp.GotoBottom()
}

// Append adds one message to the scrollback.
func (c *ChatModel) Append(m model.Message) {
	c.messages = append(c.messages, m)
	if m.SQL != "" {
		c.lastSQL = m.SQL
	}
	c.refreshContent()
	c.vp.GotoBottom()
}

// SetThinking toggles the pending-answer indicator.
func (c *ChatModel) SetThinking(on bool) {
	c.thinking = on
	c.refreshContent()
	if on {
		c.vp.GotoBottom()
	}
}

// Focus and Blur control whether keystrokes reach the prompt.
func (c *ChatModel) Focus() {
	c.focused = true
	c.input.Focus()
}

func (c *ChatModel) Blur() {
	c.focused = false
	c.input.Blur()
}

func (c *ChatModel) Focused() bool { return c.focused }

// Value returns the current prompt text.
func (c *ChatModel) Value() string {
	return strings.TrimSpace(c.input.Value())
}

// Reset clears the prompt.
func (c *ChatModel) Reset() {
	c.input.Reset()
}

// LastSQL returns the most recent generated SQL, if any.
func (c *ChatModel) LastSQL() string {
	return c.lastSQL
}

// CopyLastSQL puts the most recent SQL on the system clipboard.
func (c *ChatModel) CopyLastSQL() error {
	if c.lastSQL == "" {
		return fmt.Errorf("no SQL to copy yet")
	}
	return clipboard.WriteAll(c.lastSQL)
}

// Update forwards events to the prompt and the scrollback.
func (c ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if c.focused {
		c.input, cmd = c.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	c.vp, cmd = c.vp.Update(msg)
	cmds = append(cmds, cmd)

	return c, tea.Batch(cmds...)
}

func (c *ChatModel) refreshContent() {
	var b strings.Builder
	for _, m := range c.messages {
		b.WriteString(RenderRoleBadge(string(m.Role)))
		b.WriteString("\n")
		b.WriteString(c.renderBody(m))
		b.WriteString("\n")
	}
	if c.thinking {
		b.WriteString(MutedStyle.Render("thinking..."))
		b.WriteString("\n")
	}
	c.vp.SetContent(b.String())
}

func (c *ChatModel) renderBody(m model.Message) string {
	text := m.Text
	if m.SQL != "" {
		text += "\n```sql\n" + m.SQL + "\n```"
	}
	if c.renderer != nil && m.Role == model.RoleAssistant {
		if out, err := c.renderer.Render(text); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return text
}

// View renders the pane.
func (c ChatModel) View() string {
	var b strings.Builder
	b.WriteString(c.vp.View())
	b.WriteString("\n")
	b.WriteString(RenderDivider(c.width))
	b.WriteString("\n")
	b.WriteString(c.input.View())
	return b.String()
}
