package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tonmarket/internal/domain"
	"tonmarket/internal/state"
)

type fakeUserRepo struct {
	balanceCalls int
	lastBalance  float64
	failBalance  bool
}

func (f *fakeUserRepo) GetOrCreate(ctx context.Context, id int64, username, firstName, avatarURL string) (*domain.User, error) {
	return &domain.User{ID: id, Username: username}, nil
}
func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return &domain.User{ID: id}, nil
}
func (f *fakeUserRepo) UpdateBalance(ctx context.Context, userID int64, balance float64) error {
	f.balanceCalls++
	if f.failBalance {
		return errors.New("store unavailable")
	}
	f.lastBalance = balance
	return nil
}
func (f *fakeUserRepo) GetReferrerID(ctx context.Context, userID int64) (*int64, error) {
	return nil, nil
}

type fakeOwnedRepo struct {
	rows        []domain.OwnedNFT
	nextID      int64
	inserts     int
	deletes     int
	failInsert  bool
	failDeleteN int // fail the Nth delete call (1-based), 0 = never
}

func (f *fakeOwnedRepo) Insert(ctx context.Context, n domain.OwnedNFT) (*domain.OwnedNFT, error) {
	f.inserts++
	if f.failInsert {
		return nil, errors.New("store unavailable")
	}
	f.nextID++
	n.RowID = f.nextID
	f.rows = append(f.rows, n)
	return &n, nil
}
func (f *fakeOwnedRepo) GetByUserID(ctx context.Context, userID int64) ([]domain.OwnedNFT, error) {
	return f.rows, nil
}
func (f *fakeOwnedRepo) DeleteOne(ctx context.Context, userID int64, code string) (*domain.OwnedNFT, error) {
	f.deletes++
	if f.failDeleteN != 0 && f.deletes == f.failDeleteN {
		return nil, errors.New("store unavailable")
	}
	// lowest RowID first
	best := -1
	for i, r := range f.rows {
		if r.UserID != userID || r.Code != code {
			continue
		}
		if best == -1 || r.RowID < f.rows[best].RowID {
			best = i
		}
	}
	if best == -1 {
		return nil, errors.New("no owned copies to remove")
	}
	row := f.rows[best]
	f.rows = append(f.rows[:best], f.rows[best+1:]...)
	return &row, nil
}
func (f *fakeOwnedRepo) Count(ctx context.Context, userID int64, code string) (int, error) {
	n := 0
	for _, r := range f.rows {
		if r.UserID == userID && r.Code == code {
			n++
		}
	}
	return n, nil
}
func (f *fakeOwnedRepo) OwnsAny(ctx context.Context, userID int64, code string) (bool, error) {
	n, _ := f.Count(ctx, userID, code)
	return n > 0, nil
}

type fakeTxRepo struct {
	created []domain.Transaction
	fail    bool
}

func (f *fakeTxRepo) Create(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	if f.fail {
		return nil, errors.New("store unavailable")
	}
	tx.ID = int64(len(f.created) + 1)
	f.created = append(f.created, tx)
	return &tx, nil
}
func (f *fakeTxRepo) GetByUserID(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	return f.created, nil
}
func (f *fakeTxRepo) TopVolumes(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	return nil, nil
}

type fakeListingRepo struct {
	created []domain.Listing
	fail    bool
}

func (f *fakeListingRepo) Create(ctx context.Context, l domain.Listing) (*domain.Listing, error) {
	if f.fail {
		return nil, errors.New("store unavailable")
	}
	l.ID = uuid.New()
	l.Status = domain.ListingPending
	f.created = append(f.created, l)
	return &l, nil
}
func (f *fakeListingRepo) GetBySellerID(ctx context.Context, sellerID int64) ([]domain.Listing, error) {
	return f.created, nil
}

type fakeRequestRepo struct {
	deposits  []domain.DepositRequest
	withdraws []domain.WithdrawRequest
}

func (f *fakeRequestRepo) CreateDeposit(ctx context.Context, r domain.DepositRequest) (*domain.DepositRequest, error) {
	r.ID = uuid.New()
	r.Status = domain.RequestPending
	f.deposits = append(f.deposits, r)
	return &r, nil
}
func (f *fakeRequestRepo) CreateWithdraw(ctx context.Context, r domain.WithdrawRequest) (*domain.WithdrawRequest, error) {
	r.ID = uuid.New()
	r.Status = domain.RequestPending
	f.withdraws = append(f.withdraws, r)
	return &r, nil
}
func (f *fakeRequestRepo) GetDeposit(ctx context.Context, id uuid.UUID) (*domain.DepositRequest, error) {
	return nil, errors.New("not found")
}

type fakeNotifier struct {
	workerLogs  []string
	receipts    int
	failReceipt bool
}

func (f *fakeNotifier) SendWorkerLog(ctx context.Context, chatID int64, html string) error {
	f.workerLogs = append(f.workerLogs, html)
	return nil
}
func (f *fakeNotifier) SendDepositReceipt(ctx context.Context, photo []byte, filename, caption string) error {
	if f.failReceipt {
		return errors.New("telegram unavailable")
	}
	f.receipts++
	return nil
}

type fakeRates struct {
	rates map[string]float64
}

func (f *fakeRates) Rates(ctx context.Context) (map[string]float64, error) {
	if f.rates == nil {
		return nil, errors.New("rates unavailable")
	}
	return f.rates, nil
}

type fakeSettings struct {
	minDeposit    float64
	hasMinDeposit bool
	minWithdraw   float64
}

func (f *fakeSettings) EffectiveMinDepositTon(ctx context.Context, referrerID *int64) (float64, bool, error) {
	return f.minDeposit, f.hasMinDeposit, nil
}
func (f *fakeSettings) EffectiveMinWithdrawTon(ctx context.Context, referrerID *int64) (float64, error) {
	if f.minWithdraw == 0 {
		return 1, nil
	}
	return f.minWithdraw, nil
}
func (f *fakeSettings) Requisites(ctx context.Context, countryID string) (domain.Requisites, error) {
	return domain.Requisites{}, nil
}
func (f *fakeSettings) VerificationStatus(ctx context.Context, userID int64) (string, error) {
	return domain.VerificationNone, nil
}
func (f *fakeSettings) ReferralPriceOverrides(ctx context.Context, referrerID int64) (map[string]float64, error) {
	return nil, nil
}

type engineFixture struct {
	users    *fakeUserRepo
	owned    *fakeOwnedRepo
	txs      *fakeTxRepo
	listings *fakeListingRepo
	requests *fakeRequestRepo
	notifier *fakeNotifier
	rates    *fakeRates
	settings *fakeSettings
	svc      *MarketService
}

func newFixture() *engineFixture {
	f := &engineFixture{
		users:    &fakeUserRepo{},
		owned:    &fakeOwnedRepo{},
		txs:      &fakeTxRepo{},
		listings: &fakeListingRepo{},
		requests: &fakeRequestRepo{},
		notifier: &fakeNotifier{},
		rates:    &fakeRates{rates: map[string]float64{"UAH": 160, "EUR": 4}},
		settings: &fakeSettings{},
	}
	f.svc = NewMarketService(f.users, f.owned, f.txs, f.listings, f.requests, f.notifier, f.rates, f.settings)
	return f
}

func snapshotWith(user domain.User, owned ...domain.OwnedNFT) *state.Snapshot {
	return state.NewSnapshot(user, nil, owned, nil, domain.VerificationNone)
}

func TestBuySuccess(t *testing.T) {
	f := newFixture()
	snap := snapshotWith(domain.User{ID: 1, Balance: 50})
	item := domain.SelectedItem{Code: "plush_pepe", Title: "Plush Pepe", Price: 30}

	st, err := f.svc.Buy(context.Background(), snap, item)

	require.NoError(t, err)
	assert.Equal(t, OpCommitted, st)
	assert.Equal(t, 20.00, snap.Balance())
	assert.Equal(t, 20.00, f.users.lastBalance)
	assert.Equal(t, 1, snap.OwnedCount("plush_pepe"))
	assert.Equal(t, domain.OriginPurchase, f.owned.rows[0].Origin)

	require.Len(t, f.txs.created, 1)
	tx := f.txs.created[0]
	assert.Equal(t, domain.TxBuy, tx.Type)
	assert.Equal(t, "-30 TON", tx.SignedAmount())
	assert.Equal(t, 1, snap.Stats().Bought)
}

func TestBuyInsufficientBalance(t *testing.T) {
	f := newFixture()
	snap := snapshotWith(domain.User{ID: 1, Balance: 10})

	st, err := f.svc.Buy(context.Background(), snap, domain.SelectedItem{Code: "plush_pepe", Price: 30})

	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, OpRejected, st)
	assert.Equal(t, 10.00, snap.Balance())
	// Rejections never reach the store.
	assert.Zero(t, f.users.balanceCalls)
	assert.Zero(t, f.owned.inserts)
	assert.Empty(t, f.txs.created)
}

func TestBuyAlreadyOwned(t *testing.T) {
	f := newFixture()
	snap := snapshotWith(domain.User{ID: 1, Balance: 50})

	st, err := f.svc.Buy(context.Background(), snap, domain.SelectedItem{Code: "plush_pepe", Price: 30, OwnerID: 1})

	assert.ErrorIs(t, err, ErrAlreadyOwned)
	assert.Equal(t, OpRejected, st)
	assert.Zero(t, f.users.balanceCalls)
}

func TestBuyBalancePersistFailureRollsBack(t *testing.T) {
	f := newFixture()
	f.users.failBalance = true
	snap := snapshotWith(domain.User{ID: 1, Balance: 50})

	st, err := f.svc.Buy(context.Background(), snap, domain.SelectedItem{Code: "plush_pepe", Price: 30})

	assert.Error(t, err)
	assert.Equal(t, OpRolledBack, st)
	assert.Equal(t, 50.00, snap.Balance())
	assert.Equal(t, 0, snap.OwnedCount("plush_pepe"))
	assert.Zero(t, f.owned.inserts)
	assert.Empty(t, f.txs.created)
}

func TestBuyOwnedInsertFailureKeepsLocalCopy(t *testing.T) {
	f := newFixture()
	f.owned.failInsert = true
	snap := snapshotWith(domain.User{ID: 1, Balance: 50})

	st, err := f.svc.Buy(context.Background(), snap, domain.SelectedItem{Code: "plush_pepe", Price: 30})

	// The insert is best effort: the debit stands and the local copy stays.
	require.NoError(t, err)
	assert.Equal(t, OpCommitted, st)
	assert.Equal(t, 20.00, snap.Balance())
	assert.Equal(t, 1, snap.OwnedCount("plush_pepe"))
	require.Len(t, f.txs.created, 1)
}

func TestBuyNotifiesReferrer(t *testing.T) {
	f := newFixture()
	referrer := int64(555)
	snap := snapshotWith(domain.User{ID: 1, Username: "alice", Balance: 50, ReferrerID: &referrer})

	_, err := f.svc.Buy(context.Background(), snap, domain.SelectedItem{Code: "plush_pepe", Title: "Plush Pepe", Price: 30})

	require.NoError(t, err)
	require.Len(t, f.notifier.workerLogs, 1)
	assert.Contains(t, f.notifier.workerLogs[0], "@alice")
	assert.Contains(t, f.notifier.workerLogs[0], "Plush Pepe")
}

func TestInstantSellSingle(t *testing.T) {
	f := newFixture()
	f.owned.rows = []domain.OwnedNFT{{RowID: 1, UserID: 1, Code: "lol_pop", Price: 5}}
	f.owned.nextID = 1
	snap := snapshotWith(domain.User{ID: 1, Balance: 50}, f.owned.rows...)

	st, err := f.svc.InstantSell(context.Background(), snap, domain.SelectedItem{Code: "lol_pop", Title: "Lol Pop", Price: 5})

	require.NoError(t, err)
	assert.Equal(t, OpCommitted, st)
	assert.Equal(t, 55.00, snap.Balance())
	assert.Equal(t, 0, snap.OwnedCount("lol_pop"))
	assert.Equal(t, 1, f.owned.deletes)
	assert.Equal(t, 1, snap.Stats().Sold)
	require.Len(t, f.txs.created, 1)
	assert.Equal(t, "+5 TON", f.txs.created[0].SignedAmount())
}

func TestInstantSellDuoPair(t *testing.T) {
	f := newFixture()
	f.owned.rows = []domain.OwnedNFT{
		{RowID: 1, UserID: 1, Code: "love_bond", Price: 10, IsDuo: true},
		{RowID: 2, UserID: 1, Code: "love_bond", Price: 10, IsDuo: true},
	}
	f.owned.nextID = 2
	snap := snapshotWith(domain.User{ID: 1, Balance: 50}, f.owned.rows...)

	st, err := f.svc.InstantSell(context.Background(), snap, domain.SelectedItem{Code: "love_bond", Price: 10, IsDuo: true})

	require.NoError(t, err)
	assert.Equal(t, OpCommitted, st)
	assert.Equal(t, 70.00, snap.Balance())
	assert.Equal(t, 0, snap.OwnedCount("love_bond"))
	assert.Equal(t, 2, f.owned.deletes)

	// A duo sale is one sold event for the combined amount.
	assert.Equal(t, 1, snap.Stats().Sold)
	require.Len(t, f.txs.created, 1)
	assert.Equal(t, "+20 TON", f.txs.created[0].SignedAmount())
}

func TestInstantSellDuoWithOneCopyRejected(t *testing.T) {
	f := newFixture()
	f.owned.rows = []domain.OwnedNFT{{RowID: 1, UserID: 1, Code: "love_bond", Price: 10, IsDuo: true}}
	snap := snapshotWith(domain.User{ID: 1, Balance: 50}, f.owned.rows...)

	st, err := f.svc.InstantSell(context.Background(), snap, domain.SelectedItem{Code: "love_bond", Price: 10, IsDuo: true})

	assert.ErrorIs(t, err, ErrDuoPairRequired)
	assert.Equal(t, OpRejected, st)
	assert.Equal(t, 50.00, snap.Balance())
	assert.Equal(t, 1, snap.OwnedCount("love_bond"))
	assert.Zero(t, f.owned.deletes)
	assert.Zero(t, f.users.balanceCalls)
}

func TestInstantSellDuoSecondDeleteFailureCompensates(t *testing.T) {
	f := newFixture()
	f.owned.rows = []domain.OwnedNFT{
		{RowID: 1, UserID: 1, Code: "love_bond", Price: 10, IsDuo: true},
		{RowID: 2, UserID: 1, Code: "love_bond", Price: 10, IsDuo: true},
	}
	f.owned.nextID = 2
	f.owned.failDeleteN = 2
	snap := snapshotWith(domain.User{ID: 1, Balance: 50}, f.owned.rows...)

	st, err := f.svc.InstantSell(context.Background(), snap, domain.SelectedItem{Code: "love_bond", Price: 10, IsDuo: true})

	assert.Error(t, err)
	assert.Equal(t, OpRolledBack, st)

	// No credit, local copies intact, the first removed copy re-inserted.
	assert.Equal(t, 50.00, snap.Balance())
	assert.Equal(t, 2, snap.OwnedCount("love_bond"))
	assert.Zero(t, f.users.balanceCalls)
	assert.Empty(t, f.txs.created)
	n, _ := f.owned.Count(context.Background(), 1, "love_bond")
	assert.Equal(t, 2, n)
}

func TestInstantSellNotOwned(t *testing.T) {
	f := newFixture()
	snap := snapshotWith(domain.User{ID: 1, Balance: 50})

	st, err := f.svc.InstantSell(context.Background(), snap, domain.SelectedItem{Code: "lol_pop", Price: 5})

	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Equal(t, OpRejected, st)
	assert.Zero(t, f.owned.deletes)
}

func TestInstantSellZeroPriceRejected(t *testing.T) {
	f := newFixture()
	f.owned.rows = []domain.OwnedNFT{{RowID: 1, UserID: 1, Code: "lol_pop"}}
	snap := snapshotWith(domain.User{ID: 1, Balance: 50}, f.owned.rows...)

	st, err := f.svc.InstantSell(context.Background(), snap, domain.SelectedItem{Code: "lol_pop", Price: 0})

	assert.ErrorIs(t, err, ErrMarketPriceUnavailable)
	assert.Equal(t, OpRejected, st)
}

func TestInstantSellBalanceFailureKeepsLocalCredit(t *testing.T) {
	f := newFixture()
	f.owned.rows = []domain.OwnedNFT{{RowID: 1, UserID: 1, Code: "lol_pop", Price: 5}}
	f.owned.nextID = 1
	f.users.failBalance = true
	snap := snapshotWith(domain.User{ID: 1, Balance: 50}, f.owned.rows...)

	st, err := f.svc.InstantSell(context.Background(), snap, domain.SelectedItem{Code: "lol_pop", Price: 5})

	// The copy is already gone remotely; the credit must not be withheld.
	require.NoError(t, err)
	assert.Equal(t, OpCommitted, st)
	assert.Equal(t, 55.00, snap.Balance())
	assert.Equal(t, 0, snap.OwnedCount("lol_pop"))
}

func TestCreateListingPriceBounds(t *testing.T) {
	f := newFixture()
	f.owned.rows = []domain.OwnedNFT{{RowID: 1, UserID: 1, Code: "plush_pepe", Price: 30}}
	snap := snapshotWith(domain.User{ID: 1, Balance: 50}, f.owned.rows...)
	item := domain.SelectedItem{Code: "plush_pepe", Price: 30}

	st, _, err := f.svc.CreateListing(context.Background(), snap, item, 0.5)
	assert.ErrorIs(t, err, ErrPriceBelowMinimum)
	assert.Equal(t, OpRejected, st)

	st, _, err = f.svc.CreateListing(context.Background(), snap, item, 1_000_001)
	assert.ErrorIs(t, err, ErrPriceAboveMaximum)
	assert.Equal(t, OpRejected, st)

	assert.Empty(t, f.listings.created)
}

func TestCreateListingSuccess(t *testing.T) {
	f := newFixture()
	f.owned.rows = []domain.OwnedNFT{{RowID: 1, UserID: 1, Code: "plush_pepe", Title: "Plush Pepe", Price: 30}}
	snap := snapshotWith(domain.User{ID: 1, Balance: 50}, f.owned.rows...)

	st, listing, err := f.svc.CreateListing(context.Background(), snap, domain.SelectedItem{Code: "plush_pepe", Title: "Plush Pepe"}, 500)

	require.NoError(t, err)
	assert.Equal(t, OpCommitted, st)
	require.NotNil(t, listing)
	assert.Equal(t, domain.ListingPending, listing.Status)
	assert.Equal(t, 500.00, listing.Price)

	// Listing changes nothing locally until the external matcher acts.
	assert.Equal(t, 50.00, snap.Balance())
	assert.Equal(t, 1, snap.OwnedCount("plush_pepe"))
	assert.Zero(t, f.users.balanceCalls)
}

func TestCreateListingNotOwner(t *testing.T) {
	f := newFixture()
	snap := snapshotWith(domain.User{ID: 1, Balance: 50})

	st, _, err := f.svc.CreateListing(context.Background(), snap, domain.SelectedItem{Code: "plush_pepe"}, 500)

	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Equal(t, OpRejected, st)
	assert.Empty(t, f.listings.created)
}

func TestCreateListingDuoNeedsPair(t *testing.T) {
	f := newFixture()
	f.owned.rows = []domain.OwnedNFT{{RowID: 1, UserID: 1, Code: "love_bond", IsDuo: true}}
	snap := snapshotWith(domain.User{ID: 1, Balance: 50}, f.owned.rows...)

	st, _, err := f.svc.CreateListing(context.Background(), snap, domain.SelectedItem{Code: "love_bond", IsDuo: true}, 100)

	assert.ErrorIs(t, err, ErrDuoPairRequired)
	assert.Equal(t, OpRejected, st)
}

func TestDepositSuccess(t *testing.T) {
	f := newFixture()
	snap := snapshotWith(domain.User{ID: 1, Username: "alice", Balance: 0})

	st, req, err := f.svc.Deposit(context.Background(), snap, "ua", 1600, []byte("png"), "receipt.png")

	require.NoError(t, err)
	assert.Equal(t, OpCommitted, st)
	require.NotNil(t, req)
	// 1600 UAH at 160 UAH per TON.
	assert.Equal(t, 10.00, req.AmountTon)
	assert.Equal(t, "UAH", req.Currency)
	assert.Equal(t, domain.RequestPending, req.Status)
	assert.Equal(t, 1, f.notifier.receipts)

	// No local credit; that happens after review.
	assert.Equal(t, 0.00, snap.Balance())
}

func TestDepositUnknownCountry(t *testing.T) {
	f := newFixture()
	snap := snapshotWith(domain.User{ID: 1})

	st, _, err := f.svc.Deposit(context.Background(), snap, "xx", 100, nil, "")

	assert.ErrorIs(t, err, ErrUnknownCountry)
	assert.Equal(t, OpRejected, st)
}

func TestDepositFiatBounds(t *testing.T) {
	f := newFixture()
	snap := snapshotWith(domain.User{ID: 1})

	// Ukraine accepts 100 to 500000 UAH.
	st, _, err := f.svc.Deposit(context.Background(), snap, "ua", 50, nil, "")
	assert.ErrorIs(t, err, ErrAmountOutOfRange)
	assert.Equal(t, OpRejected, st)

	st, _, err = f.svc.Deposit(context.Background(), snap, "ua", 600_000, nil, "")
	assert.ErrorIs(t, err, ErrAmountOutOfRange)
	assert.Equal(t, OpRejected, st)

	assert.Empty(t, f.requests.deposits)
	assert.Zero(t, f.notifier.receipts)
}

func TestDepositBelowEffectiveMinimum(t *testing.T) {
	f := newFixture()
	f.settings.minDeposit = 20
	f.settings.hasMinDeposit = true
	snap := snapshotWith(domain.User{ID: 1})

	// 1600 UAH = 10 TON, below the 20 TON floor.
	st, _, err := f.svc.Deposit(context.Background(), snap, "ua", 1600, []byte("png"), "receipt.png")

	assert.ErrorIs(t, err, ErrBelowMinimumDeposit)
	assert.Equal(t, OpRejected, st)
	assert.Zero(t, f.notifier.receipts)
	assert.Empty(t, f.requests.deposits)
}

func TestDepositReceiptFailureBlocksRequest(t *testing.T) {
	f := newFixture()
	f.notifier.failReceipt = true
	snap := snapshotWith(domain.User{ID: 1})

	st, _, err := f.svc.Deposit(context.Background(), snap, "ua", 1600, []byte("png"), "receipt.png")

	// No proof in the audit channel means no deposit request.
	assert.Error(t, err)
	assert.Equal(t, OpRolledBack, st)
	assert.Empty(t, f.requests.deposits)
}

func TestWithdrawSuccess(t *testing.T) {
	f := newFixture()
	snap := snapshotWith(domain.User{ID: 1, Balance: 50})

	st, req, err := f.svc.Withdraw(context.Background(), snap, "ua", 30, "1234 5678 9012")

	require.NoError(t, err)
	assert.Equal(t, OpCommitted, st)
	require.NotNil(t, req)
	assert.Equal(t, 30.00, req.AmountTon)
	assert.Equal(t, "123456789012", req.Account)

	// The debit happens out-of-band.
	assert.Equal(t, 50.00, snap.Balance())
	assert.Zero(t, f.users.balanceCalls)
}

func TestWithdrawBounds(t *testing.T) {
	f := newFixture()
	snap := snapshotWith(domain.User{ID: 1, Balance: 50})

	st, _, err := f.svc.Withdraw(context.Background(), snap, "ua", 0.5, "12345678")
	assert.ErrorIs(t, err, ErrBelowMinimumWithdraw)
	assert.Equal(t, OpRejected, st)

	st, _, err = f.svc.Withdraw(context.Background(), snap, "ua", 60, "12345678")
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, OpRejected, st)

	assert.Empty(t, f.requests.withdraws)
}

func TestWithdrawAccountValidation(t *testing.T) {
	f := newFixture()
	snap := snapshotWith(domain.User{ID: 1, Balance: 50})

	st, _, err := f.svc.Withdraw(context.Background(), snap, "ua", 10, "12-34 567")
	assert.ErrorIs(t, err, ErrAccountInvalid)
	assert.Equal(t, OpRejected, st)

	// Separators do not count toward the 8 digits, but do not invalidate.
	st, _, err = f.svc.Withdraw(context.Background(), snap, "ua", 10, "12-34-56-78")
	require.NoError(t, err)
	assert.Equal(t, OpCommitted, st)
}
