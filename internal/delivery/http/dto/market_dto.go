package dto

// BuyRequest represents the buy request payload
type BuyRequest struct {
	Code string `json:"code"`
}

// SellRequest represents the instant-sell request payload
type SellRequest struct {
	Code string `json:"code"`
}

// CreateListingRequest represents the custom-price listing payload
type CreateListingRequest struct {
	Code  string  `json:"code"`
	Price float64 `json:"price"`
}

// CatalogItemOutput represents one catalog entry in API responses
type CatalogItemOutput struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Image      string  `json:"image"`
	Price      float64 `json:"price"`
	IsDuo      bool    `json:"is_duo"`
	Collection string  `json:"collection,omitempty"`
	NFTType    string  `json:"nft_type"`
}

// OwnedItemOutput represents one owned copy in API responses
type OwnedItemOutput struct {
	RowID      int64   `json:"row_id"`
	Code       string  `json:"code"`
	Title      string  `json:"title"`
	Image      string  `json:"image"`
	Price      float64 `json:"price"`
	IsDuo      bool    `json:"is_duo"`
	Origin     string  `json:"origin"`
	AcquiredAt string  `json:"acquired_at"`
}

// TradeOutput represents the result of a buy or sell
type TradeOutput struct {
	Balance float64 `json:"balance"`
	State   string  `json:"state"`
}

// ListingOutput represents a listing in API responses
type ListingOutput struct {
	ID        string  `json:"id"`
	Code      string  `json:"code"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}
