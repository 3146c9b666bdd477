package postgres

import (
	"context"
	"time"

	"github.com/nodehive/nodehive/internal/domain/project"
	"github.com/nodehive/nodehive/internal/logger"
	"github.com/nodehive/nodehive/internal/postgres"
	"github.com/nodehive/nodehive/internal/types"
)

type projectRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewProjectRepository(db *postgres.DB, logger *logger.Logger) project.Repository {
	return &projectRepository{db: db, logger: logger}
}

func (r *projectRepository) Create(ctx context.Context, p *project.Project) error {
	query := `
	INSERT INTO projects (
		id, team_id, name, type, state, billing_state, metadata,
		status, created_at, updated_at, created_by, updated_by
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
	)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		p.ID,
		p.TeamID,
		p.Name,
		p.Type,
		p.State,
		p.BillingState,
		p.Metadata,
		p.Status,
		p.CreatedAt,
		p.UpdatedAt,
		p.CreatedBy,
		p.UpdatedBy,
	)
	return wrapDBError(err, "project")
}

func (r *projectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := `SELECT * FROM projects WHERE id = $1 AND status = $2`

	var p project.Project
	err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, id, types.StatusActive)
	if err != nil {
		return nil, wrapDBError(err, "project")
	}
	return &p, nil
}

func (r *projectRepository) Update(ctx context.Context, p *project.Project) error {
	query := `
	UPDATE projects
	SET name = $2, type = $3, state = $4, billing_state = $5, metadata = $6,
		updated_at = $7, updated_by = $8
	WHERE id = $1 AND status = $9
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Type,
		p.State,
		p.BillingState,
		p.Metadata,
		p.UpdatedAt,
		p.UpdatedBy,
		types.StatusActive,
	)
	return wrapDBError(err, "project")
}

func (r *projectRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE projects SET status = $2, updated_at = $3 WHERE id = $1`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		id, types.StatusDeleted, time.Now().UTC())
	return wrapDBError(err, "project")
}

func (r *projectRepository) ListByTeam(ctx context.Context, teamID string) ([]*project.Project, error) {
	query := `SELECT * FROM projects WHERE team_id = $1 AND status = $2 ORDER BY created_at`

	projects := make([]*project.Project, 0)
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &projects, query, teamID, types.StatusActive)
	if err != nil {
		return nil, wrapDBError(err, "project")
	}
	return projects, nil
}

func (r *projectRepository) ListByTeamAndBillingState(ctx context.Context, teamID string, state types.BillingState) ([]*project.Project, error) {
	query := `
	SELECT * FROM projects
	WHERE team_id = $1 AND billing_state = $2 AND status = $3
	ORDER BY created_at
	`

	projects := make([]*project.Project, 0)
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &projects, query, teamID, state, types.StatusActive)
	if err != nil {
		return nil, wrapDBError(err, "project")
	}
	return projects, nil
}

func (r *projectRepository) CountByTeamAndBillingState(ctx context.Context, teamID string, state types.BillingState) (int, error) {
	query := `
	SELECT COUNT(*) FROM projects
	WHERE team_id = $1 AND billing_state = $2 AND status = $3
	`

	var count int
	err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, teamID, state, types.StatusActive)
	if err != nil {
		return 0, wrapDBError(err, "project")
	}
	return count, nil
}
