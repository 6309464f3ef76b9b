package state

import (
	"sync"

	"tonmarket/internal/domain"
)

// Snapshot is the per-session view of one user's marketplace state. The
// engine mutates it optimistically before remote writes land; realtime
// push events later replace whole sections with fresh server rows.
type Snapshot struct {
	mu sync.Mutex

	user         domain.User
	stats        domain.UserStats
	verification string
	catalog      []domain.CatalogItem
	owned        []domain.OwnedNFT
	history      []domain.Transaction
}

// NewSnapshot builds a session snapshot from freshly loaded rows.
func NewSnapshot(user domain.User, catalog []domain.CatalogItem, owned []domain.OwnedNFT, history []domain.Transaction, verification string) *Snapshot {
	return &Snapshot{
		user:         user,
		stats:        domain.StatsFromLedger(history),
		verification: verification,
		catalog:      catalog,
		owned:        owned,
		history:      history,
	}
}

// User returns a copy of the current user row.
func (s *Snapshot) User() domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Balance returns the current local balance.
func (s *Snapshot) Balance() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Balance
}

// SetBalance overwrites the local balance with an already rounded value.
func (s *Snapshot) SetBalance(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user.Balance = v
}

// Stats returns the aggregate stats derived from the local ledger.
func (s *Snapshot) Stats() domain.UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Verification returns the user's verification tier.
func (s *Snapshot) Verification() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verification
}

// Catalog returns the current catalog rows.
func (s *Snapshot) Catalog() []domain.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CatalogItem, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// Owned returns the current owned NFT rows.
func (s *Snapshot) Owned() []domain.OwnedNFT {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.OwnedNFT, len(s.owned))
	copy(out, s.owned)
	return out
}

// History returns the local transaction ledger, newest first.
func (s *Snapshot) History() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Transaction, len(s.history))
	copy(out, s.history)
	return out
}

// OwnedCount returns how many copies of code the user holds locally.
func (s *Snapshot) OwnedCount(code string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, o := range s.owned {
		if o.Code == code {
			n++
		}
	}
	return n
}

// AppendOwned adds a freshly inserted copy to the local collection.
func (s *Snapshot) AppendOwned(row domain.OwnedNFT) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owned = append(s.owned, row)
}

// RemoveOwned drops up to qty copies of code with the given row ids from
// the local collection. Rows whose id is unknown locally (optimistic
// inserts that never got a server id) fall back to matching by code alone,
// so the local count still shrinks by qty when the ids are stale.
func (s *Snapshot) RemoveOwned(code string, rowIDs []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := make(map[int64]bool, len(rowIDs))
	for _, id := range rowIDs {
		want[id] = true
	}

	kept := s.owned[:0]
	removed := 0
	for _, o := range s.owned {
		if o.Code == code && want[o.RowID] && removed < len(rowIDs) {
			removed++
			continue
		}
		kept = append(kept, o)
	}

	// Fallback pass for ids that did not match anything locally.
	if removed < len(rowIDs) {
		kept2 := kept[:0]
		for _, o := range kept {
			if o.Code == code && removed < len(rowIDs) {
				removed++
				continue
			}
			kept2 = append(kept2, o)
		}
		kept = kept2
	}
	s.owned = kept
}

// PrependHistory pushes a new transaction to the front of the local ledger
// and folds it into the running stats.
func (s *Snapshot) PrependHistory(tx domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append([]domain.Transaction{tx}, s.history...)
	s.stats = domain.StatsFromLedger(s.history)
}

// ReplaceOwned swaps the whole owned collection for server rows. Push
// events win over local state even when the local state is newer.
func (s *Snapshot) ReplaceOwned(rows []domain.OwnedNFT) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owned = rows
}

// ReplaceCatalog swaps the whole catalog for server rows.
func (s *Snapshot) ReplaceCatalog(rows []domain.CatalogItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = rows
}

// ReplaceHistory swaps the ledger for server rows and recomputes stats.
func (s *Snapshot) ReplaceHistory(rows []domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = rows
	s.stats = domain.StatsFromLedger(rows)
}
