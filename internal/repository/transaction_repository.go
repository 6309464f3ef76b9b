package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"tonmarket/internal/domain"
)

// TransactionRepositoryImpl implements the TransactionRepository interface
type TransactionRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db *pgxpool.Pool) domain.TransactionRepository {
	return &TransactionRepositoryImpl{db: db}
}

// Create appends a ledger row
func (r *TransactionRepositoryImpl) Create(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, type, title, amount, nft_code, nft_title)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
		RETURNING id, user_id, type, title, amount, COALESCE(nft_code, ''), COALESCE(nft_title, ''), created_at
	`

	created := &domain.Transaction{}
	err := r.db.QueryRow(ctx, query,
		tx.UserID,
		tx.Type,
		tx.Title,
		tx.Amount,
		tx.NFTCode,
		tx.NFTTitle,
	).Scan(
		&created.ID,
		&created.UserID,
		&created.Type,
		&created.Title,
		&created.Amount,
		&created.NFTCode,
		&created.NFTTitle,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return created, nil
}

// GetByUserID retrieves a user's ledger, newest first
func (r *TransactionRepositoryImpl) GetByUserID(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	query := `
		SELECT id, user_id, type, title, amount, COALESCE(nft_code, ''), COALESCE(nft_title, ''), created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var ledger []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.Type,
			&tx.Title,
			&tx.Amount,
			&tx.NFTCode,
			&tx.NFTTitle,
			&tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		ledger = append(ledger, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return ledger, nil
}

// TopVolumes ranks users by traded volume (buys plus sells) for the season
// leaderboard.
func (r *TransactionRepositoryImpl) TopVolumes(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	query := `
		SELECT t.user_id, COALESCE(u.username, ''), SUM(t.amount), COUNT(*)
		FROM transactions t
		JOIN users u ON u.id = t.user_id
		WHERE t.type IN ('buy', 'sell')
		GROUP BY t.user_id, u.username
		ORDER BY SUM(t.amount) DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.Volume, &e.Trades); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		e.Volume = domain.Round2(e.Volume)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard: %w", err)
	}

	return entries, nil
}
