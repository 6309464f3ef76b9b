package domain

import (
	"strconv"
	"strings"
	"time"
)

// User represents a marketplace user, keyed by Telegram id
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	AvatarURL    string    `json:"avatar_url"`
	Balance      float64   `json:"balance"` // TON, kept at 2 decimals
	ReferrerID   *int64    `json:"referrer_id,omitempty"`
	ReferralCode string    `json:"referral_code"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Verification tier constants (resolved from system settings, never stored on the user row)
const (
	VerificationNone    = ""
	VerificationPassive = "passive"
	VerificationActive  = "active"
)

// UserStats holds cumulative counters derived from the transaction ledger
type UserStats struct {
	Bought      int     `json:"bought"`
	Sold        int     `json:"sold"`
	TotalVolume float64 `json:"total_volume"`
}

// ReferralCodeFor derives a stable referral code from a Telegram id
// (base36, upper case, left-padded to 8 characters).
func ReferralCodeFor(id int64) string {
	code := strings.ToUpper(strconv.FormatInt(id, 36))
	for len(code) < 8 {
		code = "0" + code
	}
	return code
}

// Round2 rounds a TON amount to 2 decimal places. Balance arithmetic goes
// through this after every add/subtract so float drift never accumulates.
func Round2(v float64) float64 {
	f, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return f
}

// FormatTON renders a TON amount without trailing zeros ("30", "12.5").
func FormatTON(v float64) string {
	s := strconv.FormatFloat(Round2(v), 'f', -1, 64)
	return s
}
