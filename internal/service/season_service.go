package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tonmarket/internal/domain"
)

// SeasonService serves the season competition: a leaderboard ranked by traded
// volume and a balance-gated join check. The leaderboard is cached and
// refreshed either by the scheduler or lazily on expiry.
type SeasonService struct {
	transactions domain.TransactionRepository
	settings     *SettingsService
	limit        int
	ttl          time.Duration

	mu          sync.Mutex
	cached      []domain.LeaderboardEntry
	refreshedAt time.Time
}

// ErrBalanceTooLow rejects a season join below the configured gate.
type ErrBalanceTooLow struct {
	Required float64
}

func (e ErrBalanceTooLow) Error() string {
	return fmt.Sprintf("season requires a balance of at least %s TON", domain.FormatTON(e.Required))
}

// NewSeasonService creates a new SeasonService
func NewSeasonService(transactions domain.TransactionRepository, settings *SettingsService) *SeasonService {
	return &SeasonService{
		transactions: transactions,
		settings:     settings,
		limit:        100,
		ttl:          5 * time.Minute,
	}
}

// Leaderboard returns the ranked season standings, newest cached copy first.
func (s *SeasonService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	s.mu.Lock()
	fresh := s.cached != nil && time.Since(s.refreshedAt) < s.ttl
	cached := s.cached
	s.mu.Unlock()

	if fresh {
		return cached, nil
	}
	return s.Refresh(ctx)
}

// Refresh recomputes the leaderboard from the transaction ledger.
func (s *SeasonService) Refresh(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	entries, err := s.transactions.TopVolumes(ctx, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh leaderboard: %w", err)
	}

	s.mu.Lock()
	s.cached = entries
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	return entries, nil
}

// CheckJoin verifies the user's balance clears the season gate.
func (s *SeasonService) CheckJoin(ctx context.Context, balance float64) error {
	min, err := s.settings.SeasonMinBalance(ctx)
	if err != nil {
		return err
	}
	if balance < min {
		return ErrBalanceTooLow{Required: min}
	}
	return nil
}
