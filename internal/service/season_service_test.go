package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tonmarket/internal/domain"
)

type fakeLedger struct {
	entries []domain.LeaderboardEntry
	calls   int
}

func (f *fakeLedger) Create(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	return &tx, nil
}
func (f *fakeLedger) GetByUserID(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	return nil, nil
}
func (f *fakeLedger) TopVolumes(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	f.calls++
	if f.entries == nil {
		return nil, errors.New("store unavailable")
	}
	return f.entries, nil
}

func TestLeaderboardCaches(t *testing.T) {
	ledger := &fakeLedger{entries: []domain.LeaderboardEntry{
		{UserID: 1, Username: "alice", Volume: 120, Trades: 7},
		{UserID: 2, Username: "bob", Volume: 80, Trades: 3},
	}}
	svc := NewSeasonService(ledger, NewSettingsService(memStore{}))
	ctx := context.Background()

	first, err := svc.Leaderboard(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.Equal(t, "alice", first[0].Username)

	_, err = svc.Leaderboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, ledger.calls)
}

func TestRefreshBypassesCache(t *testing.T) {
	ledger := &fakeLedger{entries: []domain.LeaderboardEntry{{UserID: 1, Volume: 10}}}
	svc := NewSeasonService(ledger, NewSettingsService(memStore{}))
	ctx := context.Background()

	_, err := svc.Leaderboard(ctx)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, ledger.calls)
}

func TestCheckJoinGate(t *testing.T) {
	svc := NewSeasonService(&fakeLedger{}, NewSettingsService(memStore{}))
	ctx := context.Background()

	err := svc.CheckJoin(ctx, 9_999)
	var tooLow ErrBalanceTooLow
	require.ErrorAs(t, err, &tooLow)
	assert.Equal(t, float64(DefaultSeasonMinBalance), tooLow.Required)

	assert.NoError(t, svc.CheckJoin(ctx, 10_000))
}

func TestCheckJoinConfiguredGate(t *testing.T) {
	svc := NewSeasonService(&fakeLedger{}, NewSettingsService(memStore{
		"season_min_balance_ton": "500",
	}))

	assert.NoError(t, svc.CheckJoin(context.Background(), 600))
	assert.Error(t, svc.CheckJoin(context.Background(), 400))
}
