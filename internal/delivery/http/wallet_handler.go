package http

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"tonmarket/internal/delivery/http/dto"
	"tonmarket/internal/domain"
	"tonmarket/internal/middleware"
	"tonmarket/internal/usecase"
)

// proof screenshots are phone camera shots, cap the upload
const maxProofBytes = 8 << 20

// WalletHandler handles deposit and withdraw flows plus the ledger view
type WalletHandler struct {
	sessions *usecase.SessionService
	market   *usecase.MarketService
	settings domain.SettingsSource
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(sessions *usecase.SessionService, market *usecase.MarketService, settings domain.SettingsSource) *WalletHandler {
	return &WalletHandler{sessions: sessions, market: market, settings: settings}
}

func (h *WalletHandler) session(c echo.Context) (*usecase.Session, error) {
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

// GetHistory returns the ledger, newest first
// GET /api/wallet/history
func (h *WalletHandler) GetHistory(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	history := sess.Snap.History()
	out := make([]dto.TransactionOutput, len(history))
	for i, tx := range history {
		out[i] = dto.TransactionOutput{
			ID:           tx.ID,
			Type:         tx.Type,
			Title:        tx.Title,
			Amount:       tx.Amount,
			SignedAmount: tx.SignedAmount(),
			NFTTitle:     tx.NFTTitle,
			CreatedAt:    tx.CreatedAt.Format(time.RFC3339),
		}
	}
	return SuccessResponse(c, out)
}

// GetCountries returns the supported settlement countries
// GET /api/wallet/deposit/countries
func (h *WalletHandler) GetCountries(c echo.Context) error {
	out := make([]dto.CountryOutput, len(domain.DepositCountries))
	for i, country := range domain.DepositCountries {
		out[i] = dto.CountryOutput{
			ID:        country.ID,
			Label:     country.Label,
			Currency:  country.Currency,
			Symbol:    country.Symbol,
			MinAmount: country.MinAmount,
			MaxAmount: country.MaxAmount,
		}
	}
	return SuccessResponse(c, out)
}

// GetRequisites returns payment instructions for one country
// GET /api/wallet/deposit/requisites/:country
func (h *WalletHandler) GetRequisites(c echo.Context) error {
	countryID := c.Param("country")
	if _, ok := domain.DepositCountryByID(countryID); !ok {
		return NotFoundResponse(c, "Unsupported settlement country")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	req, err := h.settings.Requisites(ctx, countryID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to load payment details", err)
	}
	if req.CardNumber == "" {
		return NotFoundResponse(c, "Payment details are not configured for this country")
	}
	return SuccessResponse(c, dto.RequisitesOutput{
		CardNumber: req.CardNumber,
		CardHolder: req.CardHolder,
		Bank:       req.Bank,
	})
}

// Deposit runs the full deposit claim flow from a multipart form:
// country, fiat amount, and the payment proof screenshot
// POST /api/wallet/deposit
func (h *WalletHandler) Deposit(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	countryID := c.FormValue("country_id")
	amount, err := parseAmount(c.FormValue("amount"))
	if err != nil {
		return BadRequestResponse(c, "Invalid amount")
	}

	fileHeader, err := c.FormFile("proof")
	if err != nil {
		return BadRequestResponse(c, "Payment proof screenshot is required")
	}
	if fileHeader.Size > maxProofBytes {
		return BadRequestResponse(c, "Payment proof is too large")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to read payment proof", err)
	}
	defer file.Close()
	proof, err := io.ReadAll(file)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to read payment proof", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	st, req, err := h.market.Deposit(ctx, sess.Snap, countryID, amount, proof, fileHeader.Filename)
	if err != nil {
		if st == usecase.OpRejected {
			return UnprocessableResponse(c, err.Error())
		}
		return InternalServerErrorResponse(c, "Deposit claim failed", err)
	}
	return CreatedResponse(c, dto.DepositOutput{
		ID:         req.ID.String(),
		AmountTon:  req.AmountTon,
		AmountFiat: req.AmountFiat,
		Currency:   req.Currency,
		Status:     req.Status,
	})
}

// parseAmount accepts both "1200" and "1 200,50" style fiat inputs.
func parseAmount(raw string) (float64, error) {
	raw = strings.ReplaceAll(raw, " ", "")
	raw = strings.ReplaceAll(raw, ",", ".")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, errors.New("amount must be positive")
	}
	return v, nil
}

// Withdraw submits a payout claim
// POST /api/wallet/withdraw
func (h *WalletHandler) Withdraw(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	var req dto.WithdrawRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	st, created, err := h.market.Withdraw(ctx, sess.Snap, req.CountryID, req.AmountTon, req.Account)
	if err != nil {
		if st == usecase.OpRejected {
			return UnprocessableResponse(c, err.Error())
		}
		return InternalServerErrorResponse(c, "Withdraw claim failed", err)
	}
	return CreatedResponse(c, dto.WithdrawOutput{
		ID:        created.ID.String(),
		AmountTon: created.AmountTon,
		Status:    created.Status,
	})
}
