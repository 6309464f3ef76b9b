package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tonmarket/internal/domain"
)

type memStore map[string]string

func (m memStore) Get(ctx context.Context, key string) (string, error) {
	return m[key], nil
}

func (m memStore) GetAll(ctx context.Context) (map[string]string, error) {
	return m, nil
}

func TestResolveFallsBackToGlobal(t *testing.T) {
	svc := NewSettingsService(memStore{
		"min_deposit_ton":          "5",
		"worker_42_min_deposit_ton": "25",
	})
	ctx := context.Background()

	v, ok, err := svc.Resolve(ctx, PerReferrer(42), SettingMinDepositTon)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "25", v)

	// Referrer 7 has no override, the global value applies.
	v, ok, err = svc.Resolve(ctx, PerReferrer(7), SettingMinDepositTon)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "5", v)

	_, ok, err = svc.Resolve(ctx, GlobalScope(), SettingSupportUser)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEffectiveMinDepositTon(t *testing.T) {
	svc := NewSettingsService(memStore{"min_deposit_ton": "5"})
	ctx := context.Background()

	min, ok, err := svc.EffectiveMinDepositTon(ctx, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 5.0, min)

	// Unconfigured store means no minimum at all.
	empty := NewSettingsService(memStore{})
	_, ok, err = empty.EffectiveMinDepositTon(ctx, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEffectiveMinWithdrawDefaults(t *testing.T) {
	svc := NewSettingsService(memStore{})

	min, err := svc.EffectiveMinWithdrawTon(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 1.0, min)
}

func TestResolveFloatRejectsGarbage(t *testing.T) {
	svc := NewSettingsService(memStore{"min_deposit_ton": "banana"})

	_, ok, err := svc.ResolveFloat(context.Background(), GlobalScope(), SettingMinDepositTon)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRequisites(t *testing.T) {
	svc := NewSettingsService(memStore{
		"requisites_ua_card_number": "4441 1144 5555 6666",
		"requisites_ua_card_holder": "IVAN PETRENKO",
		"requisites_ua_bank":        "Monobank",
	})

	req, err := svc.Requisites(context.Background(), "ua")

	require.NoError(t, err)
	assert.Equal(t, "4441 1144 5555 6666", req.CardNumber)
	assert.Equal(t, "Monobank", req.Bank)

	empty, err := svc.Requisites(context.Background(), "pl")
	require.NoError(t, err)
	assert.Empty(t, empty.CardNumber)
}

func TestVerificationStatus(t *testing.T) {
	svc := NewSettingsService(memStore{
		"user_1_verification_status": "active",
		"user_2_verification_status": "bogus",
	})
	ctx := context.Background()

	v, err := svc.VerificationStatus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationActive, v)

	// Unknown tiers normalize to none.
	v, err = svc.VerificationStatus(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationNone, v)
}

func TestReferralPriceOverrides(t *testing.T) {
	svc := NewSettingsService(memStore{
		"worker_42_price_plush_pepe": "45.5",
		"worker_42_price_lol_pop":    "-3",
		"worker_99_price_plush_pepe": "60",
		"min_deposit_ton":            "5",
	})

	overrides, err := svc.ReferralPriceOverrides(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"plush_pepe": 45.5}, overrides)
}

func TestSeasonMinBalanceDefault(t *testing.T) {
	svc := NewSettingsService(memStore{})

	min, err := svc.SeasonMinBalance(context.Background())

	require.NoError(t, err)
	assert.Equal(t, float64(DefaultSeasonMinBalance), min)
}
