package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tonmarket/internal/domain"
)

// Setting names. The stored key is derived from the name plus the scope, so
// call sites never concatenate strings themselves.
type Setting string

const (
	SettingMinDepositTon  Setting = "min_deposit_ton"
	SettingMinWithdrawTon Setting = "min_withdraw_ton"
	SettingSupportUser    Setting = "support_username"
	SettingSeasonMinTon   Setting = "season_min_balance_ton"
)

// DefaultSeasonMinBalance is the balance gate for joining the season
// competition when no setting overrides it.
const DefaultSeasonMinBalance = 10_000

// SettingsStore is the persistence the settings service reads from.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, error)
	GetAll(ctx context.Context) (map[string]string, error)
}

// Scope selects where a setting is resolved from. The zero value is global;
// PerReferrer falls back to global when the referrer has no override.
type Scope struct {
	referrerID int64
}

// GlobalScope resolves only the global value.
func GlobalScope() Scope { return Scope{} }

// PerReferrer resolves the referrer's override first.
func PerReferrer(referrerID int64) Scope { return Scope{referrerID: referrerID} }

func (s Scope) key(name Setting) string {
	if s.referrerID == 0 {
		return string(name)
	}
	return fmt.Sprintf("worker_%d_%s", s.referrerID, name)
}

// SettingsService resolves typed configuration from the system_settings
// key/value store, with scope fallback
type SettingsService struct {
	store SettingsStore
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(store SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

// Resolve returns the raw value for a setting at the given scope, falling
// back from the referrer override to the global key. ok is false when
// neither scope has a value.
func (s *SettingsService) Resolve(ctx context.Context, scope Scope, name Setting) (string, bool, error) {
	if scope.referrerID != 0 {
		v, err := s.store.Get(ctx, scope.key(name))
		if err != nil {
			return "", false, fmt.Errorf("failed to resolve setting %s: %w", name, err)
		}
		if v != "" {
			return v, true, nil
		}
	}

	v, err := s.store.Get(ctx, GlobalScope().key(name))
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve setting %s: %w", name, err)
	}
	return v, v != "", nil
}

// ResolveFloat resolves a setting and parses it as a non-negative float.
func (s *SettingsService) ResolveFloat(ctx context.Context, scope Scope, name Setting) (float64, bool, error) {
	raw, ok, err := s.Resolve(ctx, scope, name)
	if err != nil || !ok {
		return 0, false, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, false, nil
	}
	return v, true, nil
}

func scopeFor(referrerID *int64) Scope {
	if referrerID == nil {
		return GlobalScope()
	}
	return PerReferrer(*referrerID)
}

// EffectiveMinDepositTon returns the minimum deposit in TON for a user; ok is
// false when no minimum is configured at any scope.
func (s *SettingsService) EffectiveMinDepositTon(ctx context.Context, referrerID *int64) (float64, bool, error) {
	return s.ResolveFloat(ctx, scopeFor(referrerID), SettingMinDepositTon)
}

// EffectiveMinWithdrawTon returns the minimum withdrawal in TON, defaulting
// to 1 when unset.
func (s *SettingsService) EffectiveMinWithdrawTon(ctx context.Context, referrerID *int64) (float64, error) {
	v, ok, err := s.ResolveFloat(ctx, scopeFor(referrerID), SettingMinWithdrawTon)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 1, nil
	}
	return v, nil
}

// SeasonMinBalance returns the balance gate for the season competition.
func (s *SettingsService) SeasonMinBalance(ctx context.Context) (float64, error) {
	v, ok, err := s.ResolveFloat(ctx, GlobalScope(), SettingSeasonMinTon)
	if err != nil {
		return 0, err
	}
	if !ok {
		return DefaultSeasonMinBalance, nil
	}
	return v, nil
}

// Requisites returns the payment details configured for a country.
func (s *SettingsService) Requisites(ctx context.Context, countryID string) (domain.Requisites, error) {
	all, err := s.store.GetAll(ctx)
	if err != nil {
		return domain.Requisites{}, fmt.Errorf("failed to load requisites: %w", err)
	}
	prefix := fmt.Sprintf("requisites_%s_", countryID)
	return domain.Requisites{
		CardNumber: all[prefix+"card_number"],
		CardHolder: all[prefix+"card_holder"],
		Bank:       all[prefix+"bank"],
	}, nil
}

// VerificationStatus returns the user's verification tier.
func (s *SettingsService) VerificationStatus(ctx context.Context, userID int64) (string, error) {
	v, err := s.store.Get(ctx, fmt.Sprintf("user_%d_verification_status", userID))
	if err != nil {
		return domain.VerificationNone, err
	}
	if v == domain.VerificationActive || v == domain.VerificationPassive {
		return v, nil
	}
	return domain.VerificationNone, nil
}

// ReferralPriceOverrides returns per-catalog-code price overrides configured
// for a referrer (keys worker_{id}_price_{code}).
func (s *SettingsService) ReferralPriceOverrides(ctx context.Context, referrerID int64) (map[string]float64, error) {
	all, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load price overrides: %w", err)
	}

	prefix := fmt.Sprintf("worker_%d_price_", referrerID)
	overrides := make(map[string]float64)
	for key, raw := range all {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		code := strings.TrimPrefix(key, prefix)
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price <= 0 {
			continue
		}
		overrides[code] = price
	}

	return overrides, nil
}

// SupportUsername returns the support contact shown in settings.
func (s *SettingsService) SupportUsername(ctx context.Context) (string, error) {
	v, ok, err := s.Resolve(ctx, GlobalScope(), SettingSupportUser)
	if err != nil {
		return "", err
	}
	if !ok {
		return "support", nil
	}
	return v, nil
}
