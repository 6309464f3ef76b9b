package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"tonmarket/internal/domain"
)

// RequestRepositoryImpl implements the RequestRepository interface
type RequestRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewRequestRepository creates a new RequestRepository
func NewRequestRepository(db *pgxpool.Pool) domain.RequestRepository {
	return &RequestRepositoryImpl{db: db}
}

// CreateDeposit inserts a pending deposit request
func (r *RequestRepositoryImpl) CreateDeposit(ctx context.Context, req domain.DepositRequest) (*domain.DepositRequest, error) {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}

	query := `
		INSERT INTO deposit_requests (id, user_id, amount_ton, amount_fiat, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, amount_ton, amount_fiat, currency, status, created_at, processed_at, processed_by
	`

	created := &domain.DepositRequest{}
	err := r.db.QueryRow(ctx, query,
		req.ID,
		req.UserID,
		req.AmountTon,
		req.AmountFiat,
		req.Currency,
		domain.RequestPending,
	).Scan(
		&created.ID,
		&created.UserID,
		&created.AmountTon,
		&created.AmountFiat,
		&created.Currency,
		&created.Status,
		&created.CreatedAt,
		&created.ProcessedAt,
		&created.ProcessedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create deposit request: %w", err)
	}

	return created, nil
}

// CreateWithdraw inserts a pending withdraw request
func (r *RequestRepositoryImpl) CreateWithdraw(ctx context.Context, req domain.WithdrawRequest) (*domain.WithdrawRequest, error) {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}

	query := `
		INSERT INTO withdraw_requests (id, user_id, amount_ton, currency, country_id, account, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, amount_ton, currency, country_id, account, status, created_at
	`

	created := &domain.WithdrawRequest{}
	err := r.db.QueryRow(ctx, query,
		req.ID,
		req.UserID,
		req.AmountTon,
		req.Currency,
		req.CountryID,
		req.Account,
		domain.RequestPending,
	).Scan(
		&created.ID,
		&created.UserID,
		&created.AmountTon,
		&created.Currency,
		&created.CountryID,
		&created.Account,
		&created.Status,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create withdraw request: %w", err)
	}

	return created, nil
}

// GetDeposit retrieves one deposit request
func (r *RequestRepositoryImpl) GetDeposit(ctx context.Context, id uuid.UUID) (*domain.DepositRequest, error) {
	query := `
		SELECT id, user_id, amount_ton, amount_fiat, currency, status, created_at, processed_at, processed_by
		FROM deposit_requests
		WHERE id = $1
	`

	req := &domain.DepositRequest{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.UserID,
		&req.AmountTon,
		&req.AmountFiat,
		&req.Currency,
		&req.Status,
		&req.CreatedAt,
		&req.ProcessedAt,
		&req.ProcessedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get deposit request: %w", err)
	}

	return req, nil
}
