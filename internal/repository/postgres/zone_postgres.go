package postgres

import (
	"context"
	"database/sql"

	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/model"
	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/repository"
)

// ZonePostgres is a PostgreSQL implementation of repository.ZoneRepository.
type ZonePostgres struct {
	db *sql.DB
}

// NewZonePostgres creates a new ZonePostgres repository.
func NewZonePostgres(db *sql.DB) *ZonePostgres {
	return &ZonePostgres{db: db}
}

var _ repository.ZoneRepository = (*ZonePostgres)(nil)

// Create inserts a zone row and returns the stored record.
func (r *ZonePostgres) Create(ctx context.Context, z *model.Zone) (*model.Zone, error) {
	const q = `
		INSERT INTO zones (id, inspection_id, zone_type, zone_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, inspection_id, zone_type, zone_name
	`
	row := r.db.QueryRowContext(ctx, q, z.ID, z.InspectionID, string(z.Type), z.Name)
	var out model.Zone
	if err := row.Scan(&out.ID, &out.InspectionID, &out.Type, &out.Name); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByInspection returns the zones of one inspection ordered by name, which
// also orders dynamic instances of the same type.
func (r *ZonePostgres) ListByInspection(ctx context.Context, inspectionID string) ([]model.Zone, error) {
	const q = `
		SELECT id, inspection_id, zone_type, zone_name
		FROM zones
		WHERE inspection_id = $1
		ORDER BY zone_name ASC
	`
	rows, err := r.db.QueryContext(ctx, q, inspectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	zones := make([]model.Zone, 0)
	for rows.Next() {
		var z model.Zone
		if err := rows.Scan(&z.ID, &z.InspectionID, &z.Type, &z.Name); err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return zones, nil
}

// UpdateName renames a zone in place.
func (r *ZonePostgres) UpdateName(ctx context.Context, id, name string) error {
	const q = `UPDATE zones SET zone_name = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, q, name, id)
	return err
}

// Delete removes a zone; its elements go with it via the FK cascade. It does
// not return an error if the row does not exist.
func (r *ZonePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM zones WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
