package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/landscape-promotions/internal/model"
)

// PromotionPoolInterface defines the database operations needed by PromotionRepository.
type PromotionPoolInterface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PromotionRepository loads promotion records from PostgreSQL.
type PromotionRepository struct {
	pool PromotionPoolInterface
}

// NewPromotionRepository creates a new PromotionRepository with the given pool.
func NewPromotionRepository(pool *pgxpool.Pool) *PromotionRepository {
	return &PromotionRepository{pool: pool}
}

// NewPromotionRepositoryWithPool creates a new PromotionRepository with a custom pool interface.
// This is primarily used for testing.
func NewPromotionRepositoryWithPool(pool PromotionPoolInterface) *PromotionRepository {
	return &PromotionRepository{pool: pool}
}

const listPromotionsQuery = `SELECT id, code, name, description, banner_text,
	discount_kind, discount_value, free_service_id,
	service_ids, location_slugs, customer_type, min_order_value,
	starts_at, ends_at, badge_text, priority_rank
FROM promotions
WHERE active
ORDER BY id`

// ListEnabled returns every promotion flagged active, ordered by id.
// Window checks are left to the evaluator.
// Returns an empty slice (not nil) when the table is empty.
func (r *PromotionRepository) ListEnabled(ctx context.Context) ([]model.Promotion, error) {
	rows, err := r.pool.Query(ctx, listPromotionsQuery)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()

	promos := []model.Promotion{}
	for rows.Next() {
		var (
			p            model.Promotion
			code         *string
			kind         string
			customerType string
			startsAt     *time.Time
			endsAt       *time.Time
		)
		err := rows.Scan(
			&p.ID,
			&code,
			&p.Name,
			&p.Description,
			&p.BannerText,
			&kind,
			&p.Discount.Value,
			&p.Discount.FreeServiceID,
			&p.ServiceIDs,
			&p.LocationSlugs,
			&customerType,
			&p.MinOrderValue,
			&startsAt,
			&endsAt,
			&p.BadgeText,
			&p.PriorityRank,
		)
		if err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		if code != nil {
			p.Code = *code
		}
		p.Discount.Kind = model.DiscountKind(kind)
		p.CustomerType = model.CustomerType(customerType)
		p.Window = model.Window{StartsAt: startsAt, EndsAt: endsAt}
		promos = append(promos, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate promotion rows: %w", err)
	}
	return promos, nil
}
