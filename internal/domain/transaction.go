package domain

import (
	"fmt"
	"time"
)

// Transaction type constants
const (
	TxDeposit  = "deposit"
	TxWithdraw = "withdraw"
	TxBuy      = "buy"
	TxSell     = "sell"
)

// Transaction is one append-only ledger row. Rows are never mutated or
// deleted; cumulative user stats are recomputed from them.
type Transaction struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Amount    float64   `json:"amount"` // absolute TON value; sign comes from Type
	NFTCode   string    `json:"nft_code,omitempty"`
	NFTTitle  string    `json:"nft_title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SignedAmount renders the ledger display amount: deposits and sells credit
// the balance, buys and withdrawals debit it.
func (t Transaction) SignedAmount() string {
	sign := "-"
	if t.Type == TxDeposit || t.Type == TxSell {
		sign = "+"
	}
	return fmt.Sprintf("%s%s TON", sign, FormatTON(t.Amount))
}

// StatsFromLedger recomputes cumulative counters the way the profile screen
// shows them: one bought/sold event per row, volume over both directions.
func StatsFromLedger(ledger []Transaction) UserStats {
	var s UserStats
	for _, t := range ledger {
		switch t.Type {
		case TxBuy:
			s.Bought++
			s.TotalVolume = Round2(s.TotalVolume + t.Amount)
		case TxSell:
			s.Sold++
			s.TotalVolume = Round2(s.TotalVolume + t.Amount)
		}
	}
	return s
}
