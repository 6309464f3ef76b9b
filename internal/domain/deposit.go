package domain

import (
	"time"

	"github.com/google/uuid"
)

// Request status constants (resolved by external review, not by this service)
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// DepositRequest is a pending claim that an off-chain fiat payment was made.
// The balance credit happens out-of-band after a human checks the receipt.
type DepositRequest struct {
	ID          uuid.UUID  `json:"id"`
	UserID      int64      `json:"user_id"`
	AmountTon   float64    `json:"amount_ton"`
	AmountFiat  float64    `json:"amount_fiat"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	ProcessedBy *int64     `json:"processed_by,omitempty"`
}

// WithdrawRequest records a payout claim against validated requisites.
// The balance debit happens out-of-band.
type WithdrawRequest struct {
	ID         uuid.UUID `json:"id"`
	UserID     int64     `json:"user_id"`
	AmountTon  float64   `json:"amount_ton"`
	Currency   string    `json:"currency"`
	CountryID  string    `json:"country_id"`
	Account    string    `json:"account"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// DepositCountry is a supported settlement country with its fiat bounds.
type DepositCountry struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Currency  string  `json:"currency"`
	Symbol    string  `json:"symbol"`
	MinAmount float64 `json:"min_amount"`
	MaxAmount float64 `json:"max_amount"`
}

// DepositCountries lists the supported settlement countries.
var DepositCountries = []DepositCountry{
	{ID: "ua", Label: "Ukraine", Currency: "UAH", Symbol: "₴", MinAmount: 100, MaxAmount: 500_000},
	{ID: "pl", Label: "Poland", Currency: "PLN", Symbol: "zł", MinAmount: 20, MaxAmount: 50_000},
	{ID: "ru", Label: "Russia", Currency: "RUB", Symbol: "₽", MinAmount: 100, MaxAmount: 1_000_000},
	{ID: "kz", Label: "Kazakhstan", Currency: "KZT", Symbol: "₸", MinAmount: 1000, MaxAmount: 5_000_000},
	{ID: "eu", Label: "Europe", Currency: "EUR", Symbol: "€", MinAmount: 10, MaxAmount: 10_000},
}

// DepositCountryByID looks up a settlement country.
func DepositCountryByID(id string) (DepositCountry, bool) {
	for _, c := range DepositCountries {
		if c.ID == id {
			return c, true
		}
	}
	return DepositCountry{}, false
}

// Requisites are the payment details shown to the user for one country.
type Requisites struct {
	CardNumber string `json:"card_number"`
	CardHolder string `json:"card_holder"`
	Bank       string `json:"bank"`
}
