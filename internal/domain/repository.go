package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// GetOrCreate returns the user row for a Telegram identity, creating it
	// on first launch
	GetOrCreate(ctx context.Context, id int64, username, firstName, avatarURL string) (*User, error)

	// GetByID retrieves a user by Telegram id
	GetByID(ctx context.Context, id int64) (*User, error)

	// UpdateBalance sets the user's balance to an absolute value
	UpdateBalance(ctx context.Context, userID int64, balance float64) error

	// GetReferrerID returns the referrer's Telegram id, or nil
	GetReferrerID(ctx context.Context, userID int64) (*int64, error)
}

// CatalogRepository defines the interface for the market catalog
type CatalogRepository interface {
	// GetAll retrieves the full catalog ordered by id
	GetAll(ctx context.Context) ([]CatalogItem, error)

	// GetByCode retrieves one catalog entry by its unique code
	GetByCode(ctx context.Context, code string) (*CatalogItem, error)
}

// OwnedNFTRepository defines the interface for per-copy ownership rows
type OwnedNFTRepository interface {
	// Insert adds one copy; the returned row carries the assigned RowID
	Insert(ctx context.Context, n OwnedNFT) (*OwnedNFT, error)

	// GetByUserID retrieves all copies a user holds, newest acquisition first
	GetByUserID(ctx context.Context, userID int64) ([]OwnedNFT, error)

	// DeleteOne removes exactly one (user, code) row, lowest RowID first,
	// and returns the removed row
	DeleteOne(ctx context.Context, userID int64, code string) (*OwnedNFT, error)

	// Count returns how many copies of a code the user holds
	Count(ctx context.Context, userID int64, code string) (int, error)

	// OwnsAny reports whether the user holds at least one copy of a code
	OwnsAny(ctx context.Context, userID int64, code string) (bool, error)
}

// TransactionRepository defines the interface for the append-only ledger
type TransactionRepository interface {
	// Create appends a ledger row
	Create(ctx context.Context, tx Transaction) (*Transaction, error)

	// GetByUserID retrieves a user's ledger, newest first
	GetByUserID(ctx context.Context, userID int64) ([]Transaction, error)

	// TopVolumes ranks users by traded volume for the season leaderboard
	TopVolumes(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// LeaderboardEntry is one ranked row of the season leaderboard.
type LeaderboardEntry struct {
	UserID   int64   `json:"user_id"`
	Username string  `json:"username"`
	Volume   float64 `json:"volume"`
	Trades   int     `json:"trades"`
}

// ListingRepository defines the interface for custom-price sell offers
type ListingRepository interface {
	// Create inserts a listing with status "pending"
	Create(ctx context.Context, l Listing) (*Listing, error)

	// GetBySellerID retrieves a user's listings, newest first
	GetBySellerID(ctx context.Context, sellerID int64) ([]Listing, error)
}

// RequestRepository defines the interface for deposit and withdraw claims
type RequestRepository interface {
	// CreateDeposit inserts a pending deposit request
	CreateDeposit(ctx context.Context, r DepositRequest) (*DepositRequest, error)

	// CreateWithdraw inserts a pending withdraw request
	CreateWithdraw(ctx context.Context, r WithdrawRequest) (*WithdrawRequest, error)

	// GetDeposit retrieves one deposit request
	GetDeposit(ctx context.Context, id uuid.UUID) (*DepositRequest, error)
}
