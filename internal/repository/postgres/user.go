package postgres

import (
	"context"
	"time"

	"github.com/nodehive/nodehive/internal/domain/user"
	"github.com/nodehive/nodehive/internal/logger"
	"github.com/nodehive/nodehive/internal/postgres"
	"github.com/nodehive/nodehive/internal/types"
)

type userRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewUserRepository(db *postgres.DB, logger *logger.Logger) user.Repository {
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	query := `
	INSERT INTO users (
		id, username, email, name, admin,
		status, created_at, updated_at, created_by, updated_by
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		u.ID,
		u.Username,
		u.Email,
		u.Name,
		u.Admin,
		u.Status,
		u.CreatedAt,
		u.UpdatedAt,
		u.CreatedBy,
		u.UpdatedBy,
	)
	return wrapDBError(err, "user")
}

func (r *userRepository) Get(ctx context.Context, id string) (*user.User, error) {
	query := `SELECT * FROM users WHERE id = $1 AND status = $2`

	var u user.User
	err := r.db.GetQuerier(ctx).GetContext(ctx, &u, query, id, types.StatusActive)
	if err != nil {
		return nil, wrapDBError(err, "user")
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT * FROM users WHERE email = $1 AND status = $2`

	var u user.User
	err := r.db.GetQuerier(ctx).GetContext(ctx, &u, query, email, types.StatusActive)
	if err != nil {
		return nil, wrapDBError(err, "user")
	}
	return &u, nil
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	query := `
	UPDATE users
	SET username = $2, email = $3, name = $4, admin = $5,
		updated_at = $6, updated_by = $7
	WHERE id = $1 AND status = $8
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		u.ID,
		u.Username,
		u.Email,
		u.Name,
		u.Admin,
		u.UpdatedAt,
		u.UpdatedBy,
		types.StatusActive,
	)
	return wrapDBError(err, "user")
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE users SET status = $2, updated_at = $3 WHERE id = $1`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		id, types.StatusDeleted, time.Now().UTC())
	return wrapDBError(err, "user")
}
