package domain

import "time"

// NFTType constants (market category of a catalog entry)
const (
	NFTTypeTG     = "tg"
	NFTTypeCrypto = "crypto"
)

// OwnedNFT origin constants
const (
	OriginGift     = "gift"
	OriginPurchase = "purchase"
)

// CatalogItem is a marketplace-wide listing template. The catalog is read-only
// to this service's users; changes arrive from the admin side and are pushed
// live over the realtime hub.
type CatalogItem struct {
	ID         int64     `json:"id"`
	Code       string    `json:"code"` // unique human key
	Name       string    `json:"name"`
	Image      string    `json:"image"`
	Price      float64   `json:"price"` // TON
	IsDuo      bool      `json:"is_duo"`
	Collection string    `json:"collection,omitempty"`
	Model      string    `json:"model,omitempty"`
	Backdrop   string    `json:"backdrop,omitempty"`
	NFTType    string    `json:"nft_type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// OwnedNFT is one physical copy a user holds. Display attributes are a frozen
// snapshot taken at acquisition time; the catalog may change later without
// rewriting owned rows. Multiple rows may share the same Code (duplicate
// copies); RowID gives them a total order for FIFO removal.
type OwnedNFT struct {
	RowID       int64     `json:"row_id"`
	UserID      int64     `json:"user_id"`
	Code        string    `json:"code"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle,omitempty"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image"`
	Price       float64   `json:"price"`
	Collection  string    `json:"collection,omitempty"`
	Model       string    `json:"model,omitempty"`
	Backdrop    string    `json:"backdrop,omitempty"`
	IsDuo       bool      `json:"is_duo"`
	Origin      string    `json:"origin"`
	AcquiredAt  time.Time `json:"acquired_at"`
}

// SnapshotFrom freezes a catalog item into an owned copy for the given user.
func SnapshotFrom(item CatalogItem, userID int64, origin string) OwnedNFT {
	return OwnedNFT{
		UserID:     userID,
		Code:       item.Code,
		Title:      item.Name,
		Image:      item.Image,
		Price:      item.Price,
		Collection: item.Collection,
		Model:      item.Model,
		Backdrop:   item.Backdrop,
		IsDuo:      item.IsDuo,
		Origin:     origin,
	}
}

// SelectedItem is the entity a view hands to the workflow engine: either a
// catalog entry (OwnerID 0, "the market") or one of the user's own copies.
type SelectedItem struct {
	Code    string
	Title   string
	Image   string
	Price   float64 // effective price (per-referrer override already applied)
	IsDuo   bool
	OwnerID int64 // 0 when the item comes from the market catalog
}

// SelectedFromCatalog builds the engine-facing view of a catalog entry.
func SelectedFromCatalog(item CatalogItem) SelectedItem {
	return SelectedItem{
		Code:  item.Code,
		Title: item.Name,
		Image: item.Image,
		Price: item.Price,
		IsDuo: item.IsDuo,
	}
}

// SelectedFromOwned builds the engine-facing view of an owned copy.
func SelectedFromOwned(n OwnedNFT) SelectedItem {
	return SelectedItem{
		Code:    n.Code,
		Title:   n.Title,
		Image:   n.Image,
		Price:   n.Price,
		IsDuo:   n.IsDuo,
		OwnerID: n.UserID,
	}
}
