package dto

// WithdrawRequest represents the withdraw request payload
type WithdrawRequest struct {
	CountryID string  `json:"country_id"`
	AmountTon float64 `json:"amount_ton"`
	Account   string  `json:"account"`
}

// CountryOutput represents one settlement country in API responses
type CountryOutput struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Currency  string  `json:"currency"`
	Symbol    string  `json:"symbol"`
	MinAmount float64 `json:"min_amount"`
	MaxAmount float64 `json:"max_amount"`
}

// RequisitesOutput represents payment instructions in API responses
type RequisitesOutput struct {
	CardNumber string `json:"card_number"`
	CardHolder string `json:"card_holder"`
	Bank       string `json:"bank"`
}

// DepositOutput represents a created deposit request
type DepositOutput struct {
	ID         string  `json:"id"`
	AmountTon  float64 `json:"amount_ton"`
	AmountFiat float64 `json:"amount_fiat"`
	Currency   string  `json:"currency"`
	Status     string  `json:"status"`
}

// WithdrawOutput represents a created withdraw request
type WithdrawOutput struct {
	ID        string  `json:"id"`
	AmountTon float64 `json:"amount_ton"`
	Status    string  `json:"status"`
}

// TransactionOutput represents one ledger row in API responses
type TransactionOutput struct {
	ID           int64   `json:"id"`
	Type         string  `json:"type"`
	Title        string  `json:"title"`
	Amount       float64 `json:"amount"`
	SignedAmount string  `json:"signed_amount"`
	NFTTitle     string  `json:"nft_title,omitempty"`
	CreatedAt    string  `json:"created_at"`
}
