package domain

import (
	"time"

	"github.com/google/uuid"
)

// Listing status constants. The lifecycle past "pending" is advanced by an
// external moderation/matching process, never by this service.
const (
	ListingPending  = "pending"
	ListingApproved = "approved"
	ListingRejected = "rejected"
	ListingSold     = "sold"
)

// Listing price bounds in TON
const (
	ListingMinPrice = 1
	ListingMaxPrice = 1_000_000
)

// Listing is a user's offer to sell one owned item at a chosen price.
type Listing struct {
	ID        uuid.UUID `json:"id"`
	SellerID  int64     `json:"seller_id"`
	NFTCode   string    `json:"nft_code"`
	NFTTitle  string    `json:"nft_title"`
	NFTImage  string    `json:"nft_image"`
	Price     float64   `json:"price"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
