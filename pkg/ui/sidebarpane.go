package ui

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/Darhlilove/dashly-sub001/pkg/model"
)

// SidebarModel renders the conversation list. Visibility and focus are
// owned by the layout engine's sidebar machine; this model only holds
// list state.
type SidebarModel struct {
	conversations []model.Conversation
	filtered      []int
	selected      int

	searchQuery  string
	searchActive bool

	width, height int
}

// NewSidebarModel creates an empty sidebar.
func NewSidebarModel() SidebarModel {
	return SidebarModel{}
}

// SetSize resizes the pane.
func (s *SidebarModel) SetSize(width, height int) {
	s.width, s.height = width, height
}

// SetConversations replaces the list and re-applies the filter.
func (s *SidebarModel) SetConversations(conversations []model.Conversation) {
	s.conversations = conversations
	s.applyFilter()
}

// conversationTitles implements fuzzy.Source.
type conversationTitles []model.Conversation

func (c conversationTitles) String(i int) string { return c[i].Title }
func (c conversationTitles) Len() int            { return len(c) }

func (s *SidebarModel) applyFilter() {
	if s.searchQuery == "" {
		s.filtered = make([]int, len(s.conversations))
		for i := range s.conversations {
			s.filtered[i] = i
		}
	} else {
		matches := fuzzy.FindFrom(s.searchQuery, conversationTitles(s.conversations))
		s.filtered = make([]int, len(matches))
		for i, m := range matches {
			s.filtered[i] = m.Index
		}
	}
	if s.selected >= len(s.filtered) {
		s.selected = len(s.filtered) - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
}

// StartSearch begins filter entry.
func (s *SidebarModel) StartSearch() {
	s.searchActive = true
	s.searchQuery = ""
	s.applyFilter()
}

// StopSearch ends filter entry, keeping the current filter.
func (s *SidebarModel) StopSearch() {
	s.searchActive = false
}

// ClearSearch drops the filter entirely.
func (s *SidebarModel) ClearSearch() {
	s.searchActive = false
	s.searchQuery = ""
	s.applyFilter()
}

// Searching reports whether filter entry is active.
func (s *SidebarModel) Searching() bool { return s.searchActive }

// TypeRune appends to the filter.
func (s *SidebarModel) TypeRune(r rune) {
	s.searchQuery += string(r)
	s.applyFilter()
}

// Backspace removes the last filter rune.
func (s *SidebarModel) Backspace() {
	if s.searchQuery != "" {
		runes := []rune(s.searchQuery)
		s.searchQuery = string(runes[:len(runes)-1])
		s.applyFilter()
	}
}

// MoveUp and MoveDown change the selection.
func (s *SidebarModel) MoveUp() {
	if s.selected > 0 {
		s.selected--
	}
}

func (s *SidebarModel) MoveDown() {
	if s.selected < len(s.filtered)-1 {
		s.selected++
	}
}

// Selected returns the highlighted conversation, if any.
func (s *SidebarModel) Selected() (*model.Conversation, bool) {
	if len(s.filtered) == 0 {
		return nil, false
	}
	return &s.conversations[s.filtered[s.selected]], true
}

// FocusIDs returns stable focus-ring ids for the visible rows.
func (s *SidebarModel) FocusIDs() []string {
	ids := make([]string, 0, len(s.filtered)+1)
	ids = append(ids, "sidebar-search")
	for _, idx := range s.filtered {
		ids = append(ids, fmt.Sprintf("conversation:%d", s.conversations[idx].ID))
	}
	return ids
}

// View renders the pane.
func (s SidebarModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Conversations"))
	b.WriteString("\n")

	if s.searchActive {
		b.WriteString(MutedStyle.Render("/ ") + s.searchQuery + "█")
		b.WriteString("\n")
	} else if s.searchQuery != "" {
		b.WriteString(MutedStyle.Render("filter: " + s.searchQuery))
		b.WriteString("\n")
	}
	b.WriteString(RenderSubtleDivider(s.width))
	b.WriteString("\n")

	if len(s.filtered) == 0 {
		b.WriteString(MutedStyle.Render("no conversations"))
		return SidebarStyle.Width(s.width).Render(b.String())
	}

	visible := s.height - 4
	if visible < 1 {
		visible = 1
	}
	start := 0
	if s.selected >= visible {
		start = s.selected - visible + 1
	}

	for i := start; i < len(s.filtered) && i < start+visible; i++ {
		c := s.conversations[s.filtered[i]]
		title := c.Title
		if title == "" {
			title = "(untitled)"
		}
		if len(title) > s.width-4 && s.width > 7 {
			title = title[:s.width-7] + "..."
		}
		if i == s.selected {
			b.WriteString(SelectedStyle.Render("▸ " + title))
		} else {
			b.WriteString("  " + title)
		}
		b.WriteString("\n")
	}

	return SidebarStyle.Width(s.width).Render(strings.TrimRight(b.String(), "\n"))
}
