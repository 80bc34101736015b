package tui

import (
	"sync"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/studiowebux/blogdesk/internal/types"
)

// HistoryState encapsulates the activity log modal state
type HistoryState struct {
	mu sync.RWMutex

	entries []types.ActivityEntry // newest first
	index   int

	listView    viewport.Model
	previewView viewport.Model
}

// NewHistoryState creates an empty history state
func NewHistoryState() *HistoryState {
	return &HistoryState{
		entries:     []types.ActivityEntry{},
		listView:    viewport.New(80, 20),
		previewView: viewport.New(80, 20),
	}
}

// GetEntries returns a copy of the entries slice
func (s *HistoryState) GetEntries() []types.ActivityEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]types.ActivityEntry, len(s.entries))
	copy(result, s.entries)
	return result
}

// SetEntries replaces the entries and keeps the index in range
func (s *HistoryState) SetEntries(entries []types.ActivityEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	if s.index >= len(entries) {
		s.index = max(0, len(entries)-1)
	}
}

// GetIndex returns the current index
func (s *HistoryState) GetIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// SetIndex sets the current index
func (s *HistoryState) SetIndex(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = index
}

// Navigate moves the selection by delta, wrapping around at both ends
func (s *HistoryState) Navigate(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return
	}

	s.index += delta
	if s.index < 0 {
		s.index = len(s.entries) - 1
	} else if s.index >= len(s.entries) {
		s.index = 0
	}
}

// JumpTo moves to the first (top) or last entry
func (s *HistoryState) JumpTo(top bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if top || len(s.entries) == 0 {
		s.index = 0
		return
	}
	s.index = len(s.entries) - 1
}

// GetCurrentEntry returns the selected entry, or nil when empty
func (s *HistoryState) GetCurrentEntry() *types.ActivityEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 || s.index < 0 || s.index >= len(s.entries) {
		return nil
	}
	entry := s.entries[s.index]
	return &entry
}

// GetListView returns a copy of the list viewport
func (s *HistoryState) GetListView() viewport.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listView
}

// SetListView sets the list viewport
func (s *HistoryState) SetListView(v viewport.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listView = v
}

// GetPreviewView returns a copy of the preview viewport
func (s *HistoryState) GetPreviewView() viewport.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.previewView
}

// SetPreviewView sets the preview viewport
func (s *HistoryState) SetPreviewView(v viewport.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previewView = v
}

// Resize fits both panes into a modal of the given size
func (s *HistoryState) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paneWidth := max(10, int(float64(width-SplitPaneBorderWidth)*SplitViewEqual)-ViewportPaddingHorizontal)
	s.listView.Width = paneWidth
	s.listView.Height = max(3, height)
	s.previewView.Width = paneWidth
	s.previewView.Height = max(3, height)
}
