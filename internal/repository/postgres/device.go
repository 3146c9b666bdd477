package postgres

import (
	"context"
	"time"

	"github.com/nodehive/nodehive/internal/domain/device"
	"github.com/nodehive/nodehive/internal/logger"
	"github.com/nodehive/nodehive/internal/postgres"
	"github.com/nodehive/nodehive/internal/types"
)

type deviceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewDeviceRepository(db *postgres.DB, logger *logger.Logger) device.Repository {
	return &deviceRepository{db: db, logger: logger}
}

func (r *deviceRepository) Create(ctx context.Context, d *device.Device) error {
	query := `
	INSERT INTO devices (
		id, team_id, name, type, last_seen_at,
		status, created_at, updated_at, created_by, updated_by
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		d.ID,
		d.TeamID,
		d.Name,
		d.Type,
		d.LastSeenAt,
		d.Status,
		d.CreatedAt,
		d.UpdatedAt,
		d.CreatedBy,
		d.UpdatedBy,
	)
	return wrapDBError(err, "device")
}

func (r *deviceRepository) Get(ctx context.Context, id string) (*device.Device, error) {
	query := `SELECT * FROM devices WHERE id = $1 AND status = $2`

	var d device.Device
	err := r.db.GetQuerier(ctx).GetContext(ctx, &d, query, id, types.StatusActive)
	if err != nil {
		return nil, wrapDBError(err, "device")
	}
	return &d, nil
}

func (r *deviceRepository) Update(ctx context.Context, d *device.Device) error {
	query := `
	UPDATE devices
	SET name = $2, type = $3, last_seen_at = $4, updated_at = $5, updated_by = $6
	WHERE id = $1 AND status = $7
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		d.ID,
		d.Name,
		d.Type,
		d.LastSeenAt,
		d.UpdatedAt,
		d.UpdatedBy,
		types.StatusActive,
	)
	return wrapDBError(err, "device")
}

func (r *deviceRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE devices SET status = $2, updated_at = $3 WHERE id = $1`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		id, types.StatusDeleted, time.Now().UTC())
	return wrapDBError(err, "device")
}

func (r *deviceRepository) ListByTeam(ctx context.Context, teamID string) ([]*device.Device, error) {
	query := `SELECT * FROM devices WHERE team_id = $1 AND status = $2 ORDER BY created_at`

	devices := make([]*device.Device, 0)
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &devices, query, teamID, types.StatusActive)
	if err != nil {
		return nil, wrapDBError(err, "device")
	}
	return devices, nil
}

func (r *deviceRepository) CountByTeam(ctx context.Context, teamID string) (int, error) {
	query := `SELECT COUNT(*) FROM devices WHERE team_id = $1 AND status = $2`

	var count int
	err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, teamID, types.StatusActive)
	if err != nil {
		return 0, wrapDBError(err, "device")
	}
	return count, nil
}
