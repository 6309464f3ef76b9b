package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tonmarket/internal/domain"
	"tonmarket/internal/service"
	"tonmarket/internal/state"
)

// OpState is the terminal state of one workflow operation.
type OpState string

const (
	OpIdle       OpState = "idle"
	OpValidating OpState = "validating"
	OpRejected   OpState = "rejected"
	OpPersisting OpState = "persisting"
	OpCommitted  OpState = "committed"
	OpRolledBack OpState = "rolled_back"
)

// Precondition violations. These reject synchronously, before any remote
// call, and leave local state untouched.
var (
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrAlreadyOwned           = errors.New("item already owned")
	ErrNotOwner               = errors.New("item is not owned by the caller")
	ErrDuoPairRequired        = errors.New("duo items are sold in pairs, 2 copies required")
	ErrMarketPriceUnavailable = errors.New("market price unavailable")
	ErrPriceBelowMinimum      = fmt.Errorf("listing price below minimum of %d TON", domain.ListingMinPrice)
	ErrPriceAboveMaximum      = fmt.Errorf("listing price above maximum of %d TON", domain.ListingMaxPrice)
	ErrUnknownCountry         = errors.New("unsupported settlement country")
	ErrAmountOutOfRange       = errors.New("amount outside the allowed range")
	ErrBelowMinimumDeposit    = errors.New("amount below the minimum deposit")
	ErrBelowMinimumWithdraw   = errors.New("amount below the minimum withdrawal")
	ErrAccountInvalid         = errors.New("account number must contain at least 8 digits")
)

// MarketService drives the transaction workflows: buy, instant sell,
// custom-price listing, deposit, withdraw. Every operation validates
// against the session snapshot first, then persists remotely, then applies
// the optimistic local mutation; failures during persist roll the local
// state back to its pre-operation value.
type MarketService struct {
	userRepo    domain.UserRepository
	ownedRepo   domain.OwnedNFTRepository
	txRepo      domain.TransactionRepository
	listingRepo domain.ListingRepository
	requestRepo domain.RequestRepository
	notifier    domain.Notifier
	rates       domain.RateSource
	settings    domain.SettingsSource
}

// NewMarketService creates the workflow engine over its collaborators.
func NewMarketService(
	userRepo domain.UserRepository,
	ownedRepo domain.OwnedNFTRepository,
	txRepo domain.TransactionRepository,
	listingRepo domain.ListingRepository,
	requestRepo domain.RequestRepository,
	notifier domain.Notifier,
	rates domain.RateSource,
	settings domain.SettingsSource,
) *MarketService {
	return &MarketService{
		userRepo:    userRepo,
		ownedRepo:   ownedRepo,
		txRepo:      txRepo,
		listingRepo: listingRepo,
		requestRepo: requestRepo,
		notifier:    notifier,
		rates:       rates,
		settings:    settings,
	}
}

// Buy purchases one catalog item at its effective price.
func (s *MarketService) Buy(ctx context.Context, snap *state.Snapshot, item domain.SelectedItem) (OpState, error) {
	user := snap.User()

	// Validating
	if item.OwnerID == user.ID {
		return OpRejected, ErrAlreadyOwned
	}
	price := domain.Round2(item.Price)
	if snap.Balance() < price {
		return OpRejected, ErrInsufficientBalance
	}

	// Committed optimistically; remote failure below rolls this back.
	prevBalance := snap.Balance()
	newBalance := domain.Round2(prevBalance - price)
	snap.SetBalance(newBalance)

	// Persisting
	if err := s.userRepo.UpdateBalance(ctx, user.ID, newBalance); err != nil {
		snap.SetBalance(prevBalance)
		return OpRolledBack, fmt.Errorf("failed to persist balance: %w", err)
	}

	copyRow := domain.OwnedNFT{
		UserID: user.ID,
		Code:   item.Code,
		Title:  item.Title,
		Image:  item.Image,
		Price:  price,
		IsDuo:  item.IsDuo,
		Origin: domain.OriginPurchase,
	}
	inserted, err := s.ownedRepo.Insert(ctx, copyRow)
	if err != nil {
		// The balance debit already landed. Keep the local copy and let the
		// next realtime push reconcile the owned set.
		log.Printf("WARNING: Owned insert failed after balance debit (user=%d code=%s): %v", user.ID, item.Code, err)
		snap.AppendOwned(copyRow)
	} else {
		snap.AppendOwned(*inserted)
	}

	s.recordTransaction(ctx, snap, domain.Transaction{
		UserID:   user.ID,
		Type:     domain.TxBuy,
		Title:    "Purchase",
		Amount:   price,
		NFTCode:  item.Code,
		NFTTitle: item.Title,
	})

	s.notifyReferrer(ctx, user, fmt.Sprintf(
		"🛒 <b>%s</b> bought <b>%s</b> for <b>%s TON</b>",
		displayName(user), item.Title, domain.FormatTON(price),
	))

	return OpCommitted, nil
}

// InstantSell sells owned copies back to the market at the current price.
// Duo items always trade as a pair: two copies removed, balance credited
// twice, one sold event.
func (s *MarketService) InstantSell(ctx context.Context, snap *state.Snapshot, item domain.SelectedItem) (OpState, error) {
	user := snap.User()

	// Validating
	price := domain.Round2(item.Price)
	if price <= 0 {
		return OpRejected, ErrMarketPriceUnavailable
	}
	held := snap.OwnedCount(item.Code)
	if held < 1 {
		return OpRejected, ErrNotOwner
	}
	quantity := 1
	if item.IsDuo {
		if held < 2 {
			return OpRejected, ErrDuoPairRequired
		}
		quantity = 2
	}

	// Persisting. Removals are sequential, oldest row first; the credit is
	// only issued once every removal has landed.
	removed := make([]domain.OwnedNFT, 0, quantity)
	for i := 0; i < quantity; i++ {
		row, err := s.ownedRepo.DeleteOne(ctx, user.ID, item.Code)
		if err != nil {
			s.compensateRemovals(ctx, user.ID, item.Code, removed)
			return OpRolledBack, fmt.Errorf("failed to remove owned copy %d of %d: %w", i+1, quantity, err)
		}
		removed = append(removed, *row)
	}

	credit := domain.Round2(price * float64(quantity))
	newBalance := domain.Round2(snap.Balance() + credit)
	if err := s.userRepo.UpdateBalance(ctx, user.ID, newBalance); err != nil {
		// The copies are already gone remotely; withholding the credit here
		// would lose the user's money. Keep the local credit and let the
		// next balance push reconcile.
		log.Printf("WARNING: Balance credit failed after sale (user=%d code=%s credit=%s): %v", user.ID, item.Code, domain.FormatTON(credit), err)
	}

	// Committed
	rowIDs := make([]int64, len(removed))
	for i, r := range removed {
		rowIDs[i] = r.RowID
	}
	snap.RemoveOwned(item.Code, rowIDs)
	snap.SetBalance(newBalance)

	s.recordTransaction(ctx, snap, domain.Transaction{
		UserID:   user.ID,
		Type:     domain.TxSell,
		Title:    "Instant sale",
		Amount:   credit,
		NFTCode:  item.Code,
		NFTTitle: item.Title,
	})

	s.notifyReferrer(ctx, user, fmt.Sprintf(
		"💸 <b>%s</b> sold <b>%s</b> for <b>%s TON</b>",
		displayName(user), item.Title, domain.FormatTON(credit),
	))

	return OpCommitted, nil
}

// compensateRemovals re-inserts copies deleted before a mid-sequence
// failure, so a half-finished duo sale does not leave the user short a
// copy with no credit. Best effort; a failed re-insert is logged and left
// to out-of-band review.
func (s *MarketService) compensateRemovals(ctx context.Context, userID int64, code string, removed []domain.OwnedNFT) {
	for _, row := range removed {
		row.RowID = 0
		if _, err := s.ownedRepo.Insert(ctx, row); err != nil {
			log.Printf("[ERR] Compensation re-insert failed (user=%d code=%s): %v", userID, code, err)
		}
	}
}

// CreateListing offers one owned item for sale at a user-chosen price. The
// listing starts pending; moderation and matching happen elsewhere.
func (s *MarketService) CreateListing(ctx context.Context, snap *state.Snapshot, item domain.SelectedItem, price float64) (OpState, *domain.Listing, error) {
	user := snap.User()

	// Validating
	price = domain.Round2(price)
	if price < domain.ListingMinPrice {
		return OpRejected, nil, ErrPriceBelowMinimum
	}
	if price > domain.ListingMaxPrice {
		return OpRejected, nil, ErrPriceAboveMaximum
	}
	held := snap.OwnedCount(item.Code)
	if held < 1 {
		return OpRejected, nil, ErrNotOwner
	}
	if item.IsDuo && held < 2 {
		return OpRejected, nil, ErrDuoPairRequired
	}

	// Persisting. No local mutation: balance and ownership only move when
	// the external matcher completes the sale.
	listing, err := s.listingRepo.Create(ctx, domain.Listing{
		SellerID: user.ID,
		NFTCode:  item.Code,
		NFTTitle: item.Title,
		NFTImage: item.Image,
		Price:    price,
	})
	if err != nil {
		return OpRolledBack, nil, fmt.Errorf("failed to create listing: %w", err)
	}

	return OpCommitted, listing, nil
}

// Deposit submits a fiat top-up claim. The proof screenshot must reach the
// audit channel before the request row is created; crediting happens after
// external review.
func (s *MarketService) Deposit(ctx context.Context, snap *state.Snapshot, countryID string, amountFiat float64, proof []byte, proofName string) (OpState, *domain.DepositRequest, error) {
	user := snap.User()

	// Validating
	country, ok := domain.DepositCountryByID(countryID)
	if !ok {
		return OpRejected, nil, ErrUnknownCountry
	}
	if amountFiat < country.MinAmount || amountFiat > country.MaxAmount {
		return OpRejected, nil, ErrAmountOutOfRange
	}

	rates, err := s.rates.Rates(ctx)
	if err != nil {
		return OpRolledBack, nil, fmt.Errorf("failed to resolve TON rate: %w", err)
	}
	rate := rates[country.Currency]
	if rate <= 0 {
		return OpRolledBack, nil, ErrMarketPriceUnavailable
	}
	amountTon := domain.Round2(service.FiatToTon(amountFiat, rate))

	minTon, hasMin, err := s.settings.EffectiveMinDepositTon(ctx, user.ReferrerID)
	if err != nil {
		return OpRolledBack, nil, fmt.Errorf("failed to resolve minimum deposit: %w", err)
	}
	if hasMin && amountTon < minTon {
		return OpRejected, nil, ErrBelowMinimumDeposit
	}

	// Persisting. The receipt forward is mandatory; without it the audit
	// channel has no proof and the request must not exist.
	caption := fmt.Sprintf(
		"💳 Deposit claim\nUser: %s (id %d)\nAmount: %s%s %s = %s TON",
		displayName(user), user.ID, country.Symbol, domain.FormatTON(amountFiat), country.Currency, domain.FormatTON(amountTon),
	)
	if err := s.notifier.SendDepositReceipt(ctx, proof, proofName, caption); err != nil {
		return OpRolledBack, nil, fmt.Errorf("failed to forward deposit proof: %w", err)
	}

	req, err := s.requestRepo.CreateDeposit(ctx, domain.DepositRequest{
		UserID:     user.ID,
		AmountTon:  amountTon,
		AmountFiat: amountFiat,
		Currency:   country.Currency,
	})
	if err != nil {
		return OpRolledBack, nil, fmt.Errorf("failed to create deposit request: %w", err)
	}

	s.notifyReferrer(ctx, user, fmt.Sprintf(
		"💰 <b>%s</b> claimed a deposit of <b>%s TON</b>",
		displayName(user), domain.FormatTON(amountTon),
	))

	return OpCommitted, req, nil
}

// Withdraw submits a payout claim against validated requisites. The balance
// debit happens after external review, not here.
func (s *MarketService) Withdraw(ctx context.Context, snap *state.Snapshot, countryID string, amountTon float64, account string) (OpState, *domain.WithdrawRequest, error) {
	user := snap.User()

	// Validating
	country, ok := domain.DepositCountryByID(countryID)
	if !ok {
		return OpRejected, nil, ErrUnknownCountry
	}
	amountTon = domain.Round2(amountTon)
	minTon, err := s.settings.EffectiveMinWithdrawTon(ctx, user.ReferrerID)
	if err != nil {
		return OpRolledBack, nil, fmt.Errorf("failed to resolve minimum withdrawal: %w", err)
	}
	if amountTon < minTon {
		return OpRejected, nil, ErrBelowMinimumWithdraw
	}
	if amountTon > snap.Balance() {
		return OpRejected, nil, ErrInsufficientBalance
	}
	digits := accountDigits(account)
	if len(digits) < 8 {
		return OpRejected, nil, ErrAccountInvalid
	}

	// Persisting
	req, err := s.requestRepo.CreateWithdraw(ctx, domain.WithdrawRequest{
		UserID:    user.ID,
		AmountTon: amountTon,
		Currency:  country.Currency,
		CountryID: country.ID,
		Account:   digits,
	})
	if err != nil {
		return OpRolledBack, nil, fmt.Errorf("failed to create withdraw request: %w", err)
	}

	s.notifyReferrer(ctx, user, fmt.Sprintf(
		"🏦 <b>%s</b> requested a withdrawal of <b>%s TON</b>",
		displayName(user), domain.FormatTON(amountTon),
	))

	return OpCommitted, req, nil
}

// recordTransaction appends a ledger row remotely and mirrors it into the
// local history. When the remote append fails the local row is kept anyway
// so the session history stays coherent with the balance the user sees.
func (s *MarketService) recordTransaction(ctx context.Context, snap *state.Snapshot, tx domain.Transaction) {
	created, err := s.txRepo.Create(ctx, tx)
	if err != nil {
		log.Printf("WARNING: Transaction append failed (user=%d type=%s): %v", tx.UserID, tx.Type, err)
		tx.CreatedAt = time.Now()
		snap.PrependHistory(tx)
		return
	}
	snap.PrependHistory(*created)
}

// notifyReferrer fires a worker log line at the user's referrer, if any.
// Never blocks the financial operation.
func (s *MarketService) notifyReferrer(ctx context.Context, user domain.User, html string) {
	if user.ReferrerID == nil {
		return
	}
	if err := s.notifier.SendWorkerLog(ctx, *user.ReferrerID, html); err != nil {
		log.Printf("WARNING: Referrer notification failed (referrer=%d): %v", *user.ReferrerID, err)
	}
}

// accountDigits strips separator characters from an account identifier,
// keeping digits only.
func accountDigits(account string) string {
	var b strings.Builder
	for _, r := range account {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func displayName(u domain.User) string {
	if u.Username != "" {
		return "@" + u.Username
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return fmt.Sprintf("user %d", u.ID)
}
