package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/landscape-promotions/internal/model"
)

// AttemptPoolInterface defines the database operations needed by AttemptRepository.
type AttemptPoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// AttemptRepository stores an audit trail of promotion validations.
type AttemptRepository struct {
	pool AttemptPoolInterface
}

// NewAttemptRepository creates a new AttemptRepository with the given pool.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// NewAttemptRepositoryWithPool creates a new AttemptRepository with a custom pool interface.
// This is primarily used for testing.
func NewAttemptRepositoryWithPool(pool AttemptPoolInterface) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// Record inserts a validation attempt.
func (r *AttemptRepository) Record(ctx context.Context, a *model.ValidationAttempt) error {
	query := `INSERT INTO validation_attempts
		(code, promotion_id, valid, reason, location_slug, customer_type, order_value, discount_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var promotionID *string
	if a.PromotionID != "" {
		promotionID = &a.PromotionID
	}

	_, err := r.pool.Exec(ctx, query,
		a.Code,
		promotionID,
		a.Valid,
		string(a.Reason),
		a.LocationSlug,
		a.CustomerType,
		a.OrderValue.Decimal,
		a.DiscountAmount.Decimal,
	)
	if err != nil {
		return fmt.Errorf("insert validation attempt: %w", err)
	}
	return nil
}
