package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/nodehive/nodehive/internal/domain/subscription"
	"github.com/nodehive/nodehive/internal/logger"
	"github.com/nodehive/nodehive/internal/postgres"
	"github.com/nodehive/nodehive/internal/types"
)

type subscriptionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return &subscriptionRepository{db: db, logger: logger}
}

func (r *subscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	query := `
	INSERT INTO subscriptions (
		id, team_id, customer_id, subscription_id, subscription_status,
		status, created_at, updated_at, created_by, updated_by
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		s.ID,
		s.TeamID,
		s.CustomerID,
		s.SubscriptionID,
		s.SubscriptionStatus,
		s.Status,
		s.CreatedAt,
		s.UpdatedAt,
		s.CreatedBy,
		s.UpdatedBy,
	)
	return wrapDBError(err, "subscription")
}

func (r *subscriptionRepository) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	query := `SELECT * FROM subscriptions WHERE id = $1 AND status = $2`

	var s subscription.Subscription
	err := r.db.GetQuerier(ctx).GetContext(ctx, &s, query, id, types.StatusActive)
	if err != nil {
		return nil, wrapDBError(err, "subscription")
	}
	return &s, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, s *subscription.Subscription) error {
	query := `
	UPDATE subscriptions
	SET customer_id = $2, subscription_id = $3, subscription_status = $4,
		updated_at = $5, updated_by = $6
	WHERE id = $1 AND status = $7
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		s.ID,
		s.CustomerID,
		s.SubscriptionID,
		s.SubscriptionStatus,
		s.UpdatedAt,
		s.UpdatedBy,
		types.StatusActive,
	)
	return wrapDBError(err, "subscription")
}

func (r *subscriptionRepository) GetByTeam(ctx context.Context, teamID string) (*subscription.Subscription, error) {
	query := `SELECT * FROM subscriptions WHERE team_id = $1 AND status = $2`

	var s subscription.Subscription
	err := r.db.GetQuerier(ctx).GetContext(ctx, &s, query, teamID, types.StatusActive)
	if err != nil {
		return nil, wrapDBError(err, "subscription")
	}
	return &s, nil
}

// CountByTeams counts subscription records across the given teams,
// regardless of status, since a canceled subscription still disqualifies a
// user from the new-customer trial credit
func (r *subscriptionRepository) CountByTeams(ctx context.Context, teamIDs []string) (int, error) {
	if len(teamIDs) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`SELECT COUNT(*) FROM subscriptions WHERE team_id IN (?)`, teamIDs)
	if err != nil {
		return 0, wrapDBError(err, "subscription")
	}
	query = r.db.Rebind(query)

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, wrapDBError(err, "subscription")
	}
	return count, nil
}
