package http

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"tonmarket/internal/delivery/http/dto"
	"tonmarket/internal/domain"
	"tonmarket/internal/middleware"
	"tonmarket/internal/usecase"
)

// MarketHandler handles catalog browsing and trade requests
type MarketHandler struct {
	sessions    *usecase.SessionService
	market      *usecase.MarketService
	listingRepo domain.ListingRepository
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(sessions *usecase.SessionService, market *usecase.MarketService, listingRepo domain.ListingRepository) *MarketHandler {
	return &MarketHandler{sessions: sessions, market: market, listingRepo: listingRepo}
}

func (h *MarketHandler) session(c echo.Context) (*usecase.Session, error) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return nil, err
	}
	sess, ok := h.sessions.Get(userID)
	if !ok {
		return nil, errors.New("no open session, login first")
	}
	return sess, nil
}

// GetCatalog returns the catalog with per-referrer prices applied
// GET /api/market/catalog
func (h *MarketHandler) GetCatalog(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	catalog := sess.Snap.Catalog()
	out := make([]dto.CatalogItemOutput, len(catalog))
	for i, item := range catalog {
		out[i] = dto.CatalogItemOutput{
			Code:       item.Code,
			Name:       item.Name,
			Image:      item.Image,
			Price:      item.Price,
			IsDuo:      item.IsDuo,
			Collection: item.Collection,
			NFTType:    item.NFTType,
		}
	}
	return SuccessResponse(c, out)
}

// GetPortfolio returns the caller's owned copies
// GET /api/portfolio
func (h *MarketHandler) GetPortfolio(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	owned := sess.Snap.Owned()
	out := make([]dto.OwnedItemOutput, len(owned))
	for i, n := range owned {
		out[i] = dto.OwnedItemOutput{
			RowID:      n.RowID,
			Code:       n.Code,
			Title:      n.Title,
			Image:      n.Image,
			Price:      n.Price,
			IsDuo:      n.IsDuo,
			Origin:     n.Origin,
			AcquiredAt: n.AcquiredAt.Format(time.RFC3339),
		}
	}
	return SuccessResponse(c, out)
}

// Buy purchases one catalog item
// POST /api/market/buy
func (h *MarketHandler) Buy(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	var req dto.BuyRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	item, ok := h.catalogItem(sess, req.Code)
	if !ok {
		return NotFoundResponse(c, "Unknown catalog item")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	st, err := h.market.Buy(ctx, sess.Snap, item)
	if err != nil {
		return h.tradeError(c, st, err)
	}
	return SuccessResponse(c, dto.TradeOutput{Balance: sess.Snap.Balance(), State: string(st)})
}

// Sell sells owned copies back at the market price
// POST /api/market/sell
func (h *MarketHandler) Sell(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	var req dto.SellRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	item, ok := h.ownedItem(sess, req.Code)
	if !ok {
		return NotFoundResponse(c, "Item is not in the portfolio")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	st, err := h.market.InstantSell(ctx, sess.Snap, item)
	if err != nil {
		return h.tradeError(c, st, err)
	}
	return SuccessResponse(c, dto.TradeOutput{Balance: sess.Snap.Balance(), State: string(st)})
}

// CreateListing offers an owned item at a user-chosen price
// POST /api/market/listings
func (h *MarketHandler) CreateListing(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	var req dto.CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	item, ok := h.ownedItem(sess, req.Code)
	if !ok {
		return NotFoundResponse(c, "Item is not in the portfolio")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	st, listing, err := h.market.CreateListing(ctx, sess.Snap, item, req.Price)
	if err != nil {
		return h.tradeError(c, st, err)
	}
	return CreatedResponse(c, dto.ListingOutput{
		ID:        listing.ID.String(),
		Code:      listing.NFTCode,
		Title:     listing.NFTTitle,
		Price:     listing.Price,
		Status:    listing.Status,
		CreatedAt: listing.CreatedAt.Format(time.RFC3339),
	})
}

// GetListings returns the caller's listings, newest first
// GET /api/market/listings
func (h *MarketHandler) GetListings(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	listings, err := h.listingRepo.GetBySellerID(ctx, sess.User.ID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to load listings", err)
	}
	out := make([]dto.ListingOutput, len(listings))
	for i, l := range listings {
		out[i] = dto.ListingOutput{
			ID:        l.ID.String(),
			Code:      l.NFTCode,
			Title:     l.NFTTitle,
			Price:     l.Price,
			Status:    l.Status,
			CreatedAt: l.CreatedAt.Format(time.RFC3339),
		}
	}
	return SuccessResponse(c, out)
}

func (h *MarketHandler) catalogItem(sess *usecase.Session, code string) (domain.SelectedItem, bool) {
	for _, item := range sess.Snap.Catalog() {
		if item.Code == code {
			return domain.SelectedFromCatalog(item), true
		}
	}
	return domain.SelectedItem{}, false
}

func (h *MarketHandler) ownedItem(sess *usecase.Session, code string) (domain.SelectedItem, bool) {
	for _, n := range sess.Snap.Owned() {
		if n.Code == code {
			return domain.SelectedFromOwned(n), true
		}
	}
	return domain.SelectedItem{}, false
}

// tradeError maps workflow outcomes onto HTTP statuses: rejections carry
// their precondition message, persist failures read as server errors.
func (h *MarketHandler) tradeError(c echo.Context, st usecase.OpState, err error) error {
	if st == usecase.OpRejected {
		return UnprocessableResponse(c, err.Error())
	}
	return InternalServerErrorResponse(c, "Operation failed", err)
}
