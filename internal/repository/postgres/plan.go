package postgres

import (
	"context"

	"github.com/nodehive/nodehive/internal/cache"
	"github.com/nodehive/nodehive/internal/domain/plan"
	"github.com/nodehive/nodehive/internal/logger"
	"github.com/nodehive/nodehive/internal/postgres"
	"github.com/nodehive/nodehive/internal/types"
)

type planRepository struct {
	db     *postgres.DB
	logger *logger.Logger
	cache  cache.Cache
}

func NewPlanRepository(db *postgres.DB, logger *logger.Logger, cache cache.Cache) plan.Repository {
	return &planRepository{db: db, logger: logger, cache: cache}
}

func (r *planRepository) Create(ctx context.Context, p *plan.Plan) error {
	query := `
	INSERT INTO plans (
		id, name, description, device_free_allocation,
		member_product, member_price, device_product, device_price,
		status, created_at, updated_at, created_by, updated_by
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
	)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.DeviceFreeAllocation,
		p.MemberProduct,
		p.MemberPrice,
		p.DeviceProduct,
		p.DevicePrice,
		p.Status,
		p.CreatedAt,
		p.UpdatedAt,
		p.CreatedBy,
		p.UpdatedBy,
	)
	return wrapDBError(err, "plan")
}

func (r *planRepository) Get(ctx context.Context, id string) (*plan.Plan, error) {
	if cached := r.getCache(ctx, id); cached != nil {
		return cached, nil
	}

	query := `SELECT * FROM plans WHERE id = $1 AND status = $2`

	var p plan.Plan
	err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, id, types.StatusActive)
	if err != nil {
		return nil, wrapDBError(err, "plan")
	}

	r.setCache(ctx, &p)
	return &p, nil
}

func (r *planRepository) GetByName(ctx context.Context, name string) (*plan.Plan, error) {
	query := `SELECT * FROM plans WHERE name = $1 AND status = $2`

	var p plan.Plan
	err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, name, types.StatusActive)
	if err != nil {
		return nil, wrapDBError(err, "plan")
	}
	return &p, nil
}

func (r *planRepository) Update(ctx context.Context, p *plan.Plan) error {
	query := `
	UPDATE plans
	SET name = $2, description = $3, device_free_allocation = $4,
		member_product = $5, member_price = $6,
		device_product = $7, device_price = $8,
		updated_at = $9, updated_by = $10
	WHERE id = $1 AND status = $11
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.DeviceFreeAllocation,
		p.MemberProduct,
		p.MemberPrice,
		p.DeviceProduct,
		p.DevicePrice,
		p.UpdatedAt,
		p.UpdatedBy,
		types.StatusActive,
	)
	if err != nil {
		return wrapDBError(err, "plan")
	}

	r.deleteCache(ctx, p)
	return nil
}

func (r *planRepository) List(ctx context.Context) ([]*plan.Plan, error) {
	query := `SELECT * FROM plans WHERE status = $1 ORDER BY created_at`

	plans := make([]*plan.Plan, 0)
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &plans, query, types.StatusActive)
	if err != nil {
		return nil, wrapDBError(err, "plan")
	}
	return plans, nil
}

// Plans change rarely but are read on every reconciliation, so id lookups
// go through the in-memory cache
func (r *planRepository) setCache(ctx context.Context, p *plan.Plan) {
	key := cache.GenerateKey(cache.PrefixPlan, p.ID)
	r.cache.Set(ctx, key, p, cache.ExpiryDefaultInMemory)
	r.logger.Debugw("cache set", "key", key)
}

func (r *planRepository) getCache(ctx context.Context, id string) *plan.Plan {
	key := cache.GenerateKey(cache.PrefixPlan, id)
	if value, found := r.cache.Get(ctx, key); found {
		if p, ok := value.(*plan.Plan); ok {
			r.logger.Debugw("cache hit", "key", key)
			return p
		}
	}
	return nil
}

func (r *planRepository) deleteCache(ctx context.Context, p *plan.Plan) {
	key := cache.GenerateKey(cache.PrefixPlan, p.ID)
	r.cache.Delete(ctx, key)
	r.logger.Debugw("cache delete", "key", key)
}
