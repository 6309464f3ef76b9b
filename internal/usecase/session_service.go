package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"tonmarket/internal/domain"
	"tonmarket/internal/navigation"
	"tonmarket/internal/realtime"
	"tonmarket/internal/state"
)

// Session is one live mini-app session: the user's snapshot, the navigation
// shell, and the realtime subscriptions keeping the snapshot fresh.
type Session struct {
	User  domain.User
	Snap  *state.Snapshot
	Shell *navigation.Shell

	unsubscribe []func()
}

// Close detaches the session from the realtime hub.
func (s *Session) Close() {
	for _, fn := range s.unsubscribe {
		fn()
	}
	s.unsubscribe = nil
}

// SessionService opens sessions on app launch: it upserts the user, loads
// catalog/owned/history, applies per-referrer price overrides, and attaches
// the session to the realtime hub.
type SessionService struct {
	userRepo    domain.UserRepository
	catalogRepo domain.CatalogRepository
	ownedRepo   domain.OwnedNFTRepository
	txRepo      domain.TransactionRepository
	settings    domain.SettingsSource
	hub         *realtime.Hub

	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	userRepo domain.UserRepository,
	catalogRepo domain.CatalogRepository,
	ownedRepo domain.OwnedNFTRepository,
	txRepo domain.TransactionRepository,
	settings domain.SettingsSource,
	hub *realtime.Hub,
) *SessionService {
	return &SessionService{
		userRepo:    userRepo,
		catalogRepo: catalogRepo,
		ownedRepo:   ownedRepo,
		txRepo:      txRepo,
		settings:    settings,
		hub:         hub,
		sessions:    make(map[int64]*Session),
	}
}

// Open starts (or refreshes) a session for a Telegram identity.
func (s *SessionService) Open(ctx context.Context, id int64, username, firstName, avatarURL string) (*Session, error) {
	user, err := s.userRepo.GetOrCreate(ctx, id, username, firstName, avatarURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open user session: %w", err)
	}

	catalog, err := s.catalogRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	catalog = s.applyPriceOverrides(ctx, user.ReferrerID, catalog)

	owned, err := s.ownedRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load owned items: %w", err)
	}

	history, err := s.txRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction history: %w", err)
	}

	verification, err := s.settings.VerificationStatus(ctx, user.ID)
	if err != nil {
		log.Printf("WARNING: Verification lookup failed (user=%d): %v", user.ID, err)
		verification = domain.VerificationNone
	}

	sess := &Session{
		User:  *user,
		Snap:  state.NewSnapshot(*user, catalog, owned, history, verification),
		Shell: navigation.NewShell(),
	}
	s.attach(sess)

	s.mu.Lock()
	if prev, ok := s.sessions[user.ID]; ok {
		prev.Close()
	}
	s.sessions[user.ID] = sess
	s.mu.Unlock()

	return sess, nil
}

// Get returns the open session for a user, if any.
func (s *SessionService) Get(userID int64) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

// attach subscribes the session's snapshot to the push streams. Every push
// re-fetches the affected section and replaces it wholesale; pushes win
// over local optimistic state.
func (s *SessionService) attach(sess *Session) {
	if s.hub == nil {
		return
	}
	userID := sess.User.ID
	refresh := context.Background()

	sess.unsubscribe = append(sess.unsubscribe,
		s.hub.Subscribe("balance", userID, func(ev realtime.Event) {
			var p struct {
				Balance float64 `json:"balance"`
			}
			if err := json.Unmarshal(ev.Payload, &p); err != nil {
				log.Printf("WARNING: Malformed balance push (user=%d): %v", userID, err)
				return
			}
			sess.Snap.SetBalance(domain.Round2(p.Balance))
		}),
		s.hub.Subscribe("transactions", userID, func(ev realtime.Event) {
			rows, err := s.txRepo.GetByUserID(refresh, userID)
			if err != nil {
				log.Printf("WARNING: History refresh failed (user=%d): %v", userID, err)
				return
			}
			sess.Snap.ReplaceHistory(rows)
		}),
		s.hub.Subscribe("owned", userID, func(ev realtime.Event) {
			rows, err := s.ownedRepo.GetByUserID(refresh, userID)
			if err != nil {
				log.Printf("WARNING: Owned refresh failed (user=%d): %v", userID, err)
				return
			}
			sess.Snap.ReplaceOwned(rows)
		}),
		s.hub.Subscribe("catalog", 0, func(ev realtime.Event) {
			rows, err := s.catalogRepo.GetAll(refresh)
			if err != nil {
				log.Printf("WARNING: Catalog refresh failed: %v", err)
				return
			}
			rows = s.applyPriceOverrides(refresh, sess.User.ReferrerID, rows)
			sess.Snap.ReplaceCatalog(rows)
		}),
	)
}

// applyPriceOverrides replaces catalog prices with the referrer's
// configured per-code overrides, when the user was referred.
func (s *SessionService) applyPriceOverrides(ctx context.Context, referrerID *int64, catalog []domain.CatalogItem) []domain.CatalogItem {
	if referrerID == nil {
		return catalog
	}
	overrides, err := s.settings.ReferralPriceOverrides(ctx, *referrerID)
	if err != nil {
		log.Printf("WARNING: Price override lookup failed (referrer=%d): %v", *referrerID, err)
		return catalog
	}
	if len(overrides) == 0 {
		return catalog
	}
	out := make([]domain.CatalogItem, len(catalog))
	copy(out, catalog)
	for i, item := range out {
		if p, ok := overrides[item.Code]; ok && p > 0 {
			out[i].Price = domain.Round2(p)
		}
	}
	return out
}
