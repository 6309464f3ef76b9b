package domain

import "context"

// Notifier defines the interface for fire-and-forget bot messaging
type Notifier interface {
	// SendWorkerLog sends an HTML log line to a worker/referrer chat
	SendWorkerLog(ctx context.Context, chatID int64, html string) error

	// SendDepositReceipt posts a payment proof photo with caption to the
	// audit channel
	SendDepositReceipt(ctx context.Context, photo []byte, filename, caption string) error
}

// RateSource defines the interface for fiat-per-TON conversion rates
type RateSource interface {
	// Rates returns the current price of 1 TON in each supported fiat
	// currency, keyed by upper-case currency code
	Rates(ctx context.Context) (map[string]float64, error)
}

// SettingsSource defines the typed settings lookups the workflow engine
// depends on. Per-referrer overrides fall back to the global value.
type SettingsSource interface {
	// EffectiveMinDepositTon returns the minimum deposit in TON for a user;
	// ok is false when no minimum is configured at any scope
	EffectiveMinDepositTon(ctx context.Context, referrerID *int64) (min float64, ok bool, err error)

	// EffectiveMinWithdrawTon returns the minimum withdrawal in TON
	// (defaults to 1 when unset)
	EffectiveMinWithdrawTon(ctx context.Context, referrerID *int64) (float64, error)

	// Requisites returns the payment details configured for a country
	Requisites(ctx context.Context, countryID string) (Requisites, error)

	// VerificationStatus returns the user's verification tier
	// (VerificationNone when unset)
	VerificationStatus(ctx context.Context, userID int64) (string, error)

	// ReferralPriceOverrides returns per-catalog-code price overrides
	// configured for a referrer
	ReferralPriceOverrides(ctx context.Context, referrerID int64) (map[string]float64, error)
}
