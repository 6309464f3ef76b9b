package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tonmarket/internal/domain"
)

// UserRepositoryImpl implements the UserRepository interface
type UserRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// GetOrCreate returns the user row for a Telegram identity, creating it on first launch
func (r *UserRepositoryImpl) GetOrCreate(ctx context.Context, id int64, username, firstName, avatarURL string) (*domain.User, error) {
	existing, err := r.GetByID(ctx, id)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	query := `
		INSERT INTO users (id, username, first_name, avatar_url, balance, referral_code)
		VALUES ($1, $2, $3, $4, 0, $5)
		RETURNING id, COALESCE(username, ''), COALESCE(first_name, ''), COALESCE(avatar_url, ''),
		          balance, referrer_id, referral_code, created_at, updated_at
	`

	user := &domain.User{}
	err = r.db.QueryRow(ctx, query, id, username, firstName, avatarURL, domain.ReferralCodeFor(id)).Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.AvatarURL,
		&user.Balance,
		&user.ReferrerID,
		&user.ReferralCode,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by Telegram id. Returns pgx.ErrNoRows when the
// user has never launched the app.
func (r *UserRepositoryImpl) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, COALESCE(username, ''), COALESCE(first_name, ''), COALESCE(avatar_url, ''),
		       balance, referrer_id, referral_code, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user := &domain.User{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.AvatarURL,
		&user.Balance,
		&user.ReferrerID,
		&user.ReferralCode,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// UpdateBalance sets the user's balance to an absolute value
func (r *UserRepositoryImpl) UpdateBalance(ctx context.Context, userID int64, balance float64) error {
	query := `
		UPDATE users
		SET balance = $1, updated_at = NOW()
		WHERE id = $2
	`

	tag, err := r.db.Exec(ctx, query, balance, userID)
	if err != nil {
		return fmt.Errorf("failed to update user balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update user balance: user %d not found", userID)
	}

	return nil
}

// GetReferrerID returns the referrer's Telegram id, or nil
func (r *UserRepositoryImpl) GetReferrerID(ctx context.Context, userID int64) (*int64, error) {
	query := `SELECT referrer_id FROM users WHERE id = $1`

	var referrerID *int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&referrerID); err != nil {
		return nil, fmt.Errorf("failed to get referrer id: %w", err)
	}

	return referrerID, nil
}
