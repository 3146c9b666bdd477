package postgres

import (
	"context"
	"time"

	"github.com/nodehive/nodehive/internal/domain/team"
	"github.com/nodehive/nodehive/internal/logger"
	"github.com/nodehive/nodehive/internal/postgres"
	"github.com/nodehive/nodehive/internal/types"
)

type teamRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewTeamRepository(db *postgres.DB, logger *logger.Logger) team.Repository {
	return &teamRepository{db: db, logger: logger}
}

func (r *teamRepository) Create(ctx context.Context, t *team.Team) error {
	query := `
	INSERT INTO teams (
		id, name, slug, plan_id, trial_ends_at,
		status, created_at, updated_at, created_by, updated_by
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		t.ID,
		t.Name,
		t.Slug,
		t.PlanID,
		t.TrialEndsAt,
		t.Status,
		t.CreatedAt,
		t.UpdatedAt,
		t.CreatedBy,
		t.UpdatedBy,
	)
	return wrapDBError(err, "team")
}

func (r *teamRepository) Get(ctx context.Context, id string) (*team.Team, error) {
	query := `SELECT * FROM teams WHERE id = $1 AND status = $2`

	var t team.Team
	err := r.db.GetQuerier(ctx).GetContext(ctx, &t, query, id, types.StatusActive)
	if err != nil {
		return nil, wrapDBError(err, "team")
	}
	return &t, nil
}

func (r *teamRepository) Update(ctx context.Context, t *team.Team) error {
	query := `
	UPDATE teams
	SET name = $2, slug = $3, plan_id = $4, trial_ends_at = $5,
		updated_at = $6, updated_by = $7
	WHERE id = $1 AND status = $8
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		t.ID,
		t.Name,
		t.Slug,
		t.PlanID,
		t.TrialEndsAt,
		t.UpdatedAt,
		t.UpdatedBy,
		types.StatusActive,
	)
	return wrapDBError(err, "team")
}

func (r *teamRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE teams SET status = $2, updated_at = $3 WHERE id = $1`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		id, types.StatusDeleted, time.Now().UTC())
	return wrapDBError(err, "team")
}

func (r *teamRepository) ListTrialExpired(ctx context.Context, before time.Time) ([]*team.Team, error) {
	query := `
	SELECT * FROM teams
	WHERE trial_ends_at IS NOT NULL AND trial_ends_at <= $1 AND status = $2
	ORDER BY created_at
	`

	teams := make([]*team.Team, 0)
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &teams, query, before, types.StatusActive)
	if err != nil {
		return nil, wrapDBError(err, "team")
	}
	return teams, nil
}

func (r *teamRepository) ListByUser(ctx context.Context, userID string) ([]*team.Team, error) {
	query := `
	SELECT t.* FROM teams t
	JOIN team_members m ON m.team_id = t.id
	WHERE m.user_id = $1 AND m.status = $2 AND t.status = $2
	ORDER BY t.created_at
	`

	teams := make([]*team.Team, 0)
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &teams, query, userID, types.StatusActive)
	if err != nil {
		return nil, wrapDBError(err, "team")
	}
	return teams, nil
}

func (r *teamRepository) AddMember(ctx context.Context, m *team.Member) error {
	query := `
	INSERT INTO team_members (
		team_id, user_id, role,
		status, created_at, updated_at, created_by, updated_by
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8
	)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		m.TeamID,
		m.UserID,
		m.Role,
		m.Status,
		m.CreatedAt,
		m.UpdatedAt,
		m.CreatedBy,
		m.UpdatedBy,
	)
	return wrapDBError(err, "team member")
}

func (r *teamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	query := `
	UPDATE team_members SET status = $3, updated_at = $4
	WHERE team_id = $1 AND user_id = $2
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		teamID, userID, types.StatusDeleted, time.Now().UTC())
	return wrapDBError(err, "team member")
}

func (r *teamRepository) CountActiveMembers(ctx context.Context, teamID string) (int, error) {
	query := `SELECT COUNT(*) FROM team_members WHERE team_id = $1 AND status = $2`

	var count int
	err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, teamID, types.StatusActive)
	if err != nil {
		return 0, wrapDBError(err, "team member")
	}
	return count, nil
}
