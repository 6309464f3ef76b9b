package navigation

import (
	"sync"

	"tonmarket/internal/domain"
)

// View identifies one full-screen state of the mini-app shell.
type View string

const (
	ViewMarket        View = "market"
	ViewOwned         View = "owned"
	ViewSeason        View = "season"
	ViewProfile       View = "profile"
	ViewDetail        View = "detail"
	ViewCreateListing View = "create_listing"
)

// Sheet identifies one bottom sheet. Sheets overlay the current view and
// open or close independently of it.
type Sheet string

const (
	SheetWallet   Sheet = "wallet"
	SheetSettings Sheet = "settings"
	SheetHistory  Sheet = "history"
	SheetDeposit  Sheet = "deposit"
	SheetWithdraw Sheet = "withdraw"
)

// Shell is the navigation state machine of one user session: which view is
// on screen, which item is selected, and which sheets are open.
type Shell struct {
	mu       sync.Mutex
	view     View
	selected *domain.SelectedItem
	sheets   map[Sheet]bool
}

// NewShell returns a shell at the market view with nothing selected.
func NewShell() *Shell {
	return &Shell{
		view:   ViewMarket,
		sheets: make(map[Sheet]bool),
	}
}

// View returns the view currently on screen.
func (s *Shell) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Selected returns the item the detail view is showing, or nil.
func (s *Shell) Selected() *domain.SelectedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	item := *s.selected
	return &item
}

// Go switches to a top-level tab. Switching tabs drops any detail selection.
func (s *Shell) Go(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
	if v != ViewDetail && v != ViewCreateListing {
		s.selected = nil
	}
}

// Select opens the detail view for an item.
func (s *Shell) Select(item domain.SelectedItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &item
	s.view = ViewDetail
}

// OpenCreateListing moves from the detail of an owned item to the listing
// form, keeping the selection.
func (s *Shell) OpenCreateListing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return
	}
	s.view = ViewCreateListing
}

// Back leaves the detail or listing view and clears the selection. From a
// top-level tab it is a no-op.
func (s *Shell) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.view {
	case ViewCreateListing:
		s.view = ViewDetail
	case ViewDetail:
		s.view = ViewMarket
		s.selected = nil
	}
}

// OpenSheet opens a bottom sheet without changing the view behind it.
func (s *Shell) OpenSheet(sh Sheet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[sh] = true
}

// CloseSheet closes a bottom sheet.
func (s *Shell) CloseSheet(sh Sheet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sheets, sh)
}

// SheetOpen reports whether a sheet is currently open.
func (s *Shell) SheetOpen(sh Sheet) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheets[sh]
}

// OpenSheets returns all currently open sheets.
func (s *Shell) OpenSheets() []Sheet {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Sheet, 0, len(s.sheets))
	for sh := range s.sheets {
		out = append(out, sh)
	}
	return out
}
