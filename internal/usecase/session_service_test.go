package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tonmarket/internal/domain"
	"tonmarket/internal/realtime"
)

type fakeCatalogRepo struct {
	items []domain.CatalogItem
}

func (f *fakeCatalogRepo) GetAll(ctx context.Context) ([]domain.CatalogItem, error) {
	return f.items, nil
}
func (f *fakeCatalogRepo) GetByCode(ctx context.Context, code string) (*domain.CatalogItem, error) {
	for _, it := range f.items {
		if it.Code == code {
			item := it
			return &item, nil
		}
	}
	return nil, errors.New("not found")
}

type overrideSettings struct {
	fakeSettings
	overrides map[string]float64
}

func (o *overrideSettings) ReferralPriceOverrides(ctx context.Context, referrerID int64) (map[string]float64, error) {
	return o.overrides, nil
}

func TestOpenLoadsSnapshot(t *testing.T) {
	users := &fakeUserRepo{}
	catalog := &fakeCatalogRepo{items: []domain.CatalogItem{{Code: "plush_pepe", Name: "Plush Pepe", Price: 30}}}
	owned := &fakeOwnedRepo{rows: []domain.OwnedNFT{{RowID: 1, UserID: 7, Code: "lol_pop", Price: 5}}}
	txs := &fakeTxRepo{created: []domain.Transaction{{UserID: 7, Type: domain.TxBuy, Amount: 5}}}

	svc := NewSessionService(users, catalog, owned, txs, &fakeSettings{}, nil)

	sess, err := svc.Open(context.Background(), 7, "alice", "Alice", "")
	require.NoError(t, err)

	assert.Equal(t, int64(7), sess.User.ID)
	assert.Len(t, sess.Snap.Catalog(), 1)
	assert.Equal(t, 1, sess.Snap.OwnedCount("lol_pop"))
	assert.Equal(t, 1, sess.Snap.Stats().Bought)

	got, ok := svc.Get(7)
	assert.True(t, ok)
	assert.Same(t, sess, got)
}

func TestOpenAppliesReferralPriceOverrides(t *testing.T) {
	referrer := int64(555)
	users := &fakeUserRepo{}
	catalog := &fakeCatalogRepo{items: []domain.CatalogItem{
		{Code: "plush_pepe", Price: 30},
		{Code: "lol_pop", Price: 5},
	}}
	settings := &overrideSettings{overrides: map[string]float64{"plush_pepe": 45}}

	svc := NewSessionService(users, catalog, &fakeOwnedRepo{}, &fakeTxRepo{}, settings, nil)

	// fakeUserRepo.GetOrCreate returns no referrer, so patch through a
	// session opened directly against the override path.
	got := svc.applyPriceOverrides(context.Background(), &referrer, catalog.items)

	assert.Equal(t, 45.00, got[0].Price)
	assert.Equal(t, 5.00, got[1].Price)
	// The source slice stays untouched.
	assert.Equal(t, 30.00, catalog.items[0].Price)
}

func TestPushReplacesOwnedSet(t *testing.T) {
	users := &fakeUserRepo{}
	owned := &fakeOwnedRepo{}
	hub := realtime.NewHub(nil)

	svc := NewSessionService(users, &fakeCatalogRepo{}, owned, &fakeTxRepo{}, &fakeSettings{}, hub)
	sess, err := svc.Open(context.Background(), 7, "alice", "Alice", "")
	require.NoError(t, err)

	// A copy appears remotely (e.g. an admin gift); the push refetches.
	owned.rows = []domain.OwnedNFT{{RowID: 9, UserID: 7, Code: "swiss_watch", Origin: domain.OriginGift}}
	hub.Dispatch(realtime.Event{Topic: "owned", Kind: "INSERT", UserID: 7})

	assert.Equal(t, 1, sess.Snap.OwnedCount("swiss_watch"))
}

func TestPushBalanceUpdate(t *testing.T) {
	users := &fakeUserRepo{}
	hub := realtime.NewHub(nil)

	svc := NewSessionService(users, &fakeCatalogRepo{}, &fakeOwnedRepo{}, &fakeTxRepo{}, &fakeSettings{}, hub)
	sess, err := svc.Open(context.Background(), 7, "alice", "Alice", "")
	require.NoError(t, err)

	hub.Dispatch(realtime.Event{Topic: "balance", Kind: "UPDATE", UserID: 7, Payload: []byte(`{"balance":12.5}`)})

	assert.Equal(t, 12.5, sess.Snap.Balance())
}

func TestCloseDetachesFromHub(t *testing.T) {
	users := &fakeUserRepo{}
	hub := realtime.NewHub(nil)

	svc := NewSessionService(users, &fakeCatalogRepo{}, &fakeOwnedRepo{}, &fakeTxRepo{}, &fakeSettings{}, hub)
	sess, err := svc.Open(context.Background(), 7, "alice", "Alice", "")
	require.NoError(t, err)

	sess.Close()
	hub.Dispatch(realtime.Event{Topic: "balance", Kind: "UPDATE", UserID: 7, Payload: []byte(`{"balance":99}`)})

	assert.Equal(t, 0.00, sess.Snap.Balance())
}
