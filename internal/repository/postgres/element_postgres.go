package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/model"
	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/repository"
)

// ElementPostgres is a PostgreSQL implementation of
// repository.ElementRepository. Media URI lists are stored as text[] and go
// through pq.Array on both sides.
type ElementPostgres struct {
	db *sql.DB
}

// NewElementPostgres creates a new ElementPostgres repository.
func NewElementPostgres(db *sql.DB) *ElementPostgres {
	return &ElementPostgres{db: db}
}

var _ repository.ElementRepository = (*ElementPostgres)(nil)

const elementColumns = "id, zone_id, element_name, condition, notes, image_urls, video_urls, quantity, exists_flag"

func scanElement(scan func(dest ...any) error) (*model.Element, error) {
	var e model.Element
	err := scan(
		&e.ID,
		&e.ZoneID,
		&e.Name,
		&e.Condition,
		&e.Notes,
		pq.Array(&e.ImageURLs),
		pq.Array(&e.VideoURLs),
		&e.Quantity,
		&e.Exists,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Upsert inserts or overwrites the element keyed by (zone_id, element_name).
// Last write wins; the existing row keeps its id.
func (r *ElementPostgres) Upsert(ctx context.Context, e *model.Element) (*model.Element, error) {
	const q = `
		INSERT INTO elements (id, zone_id, element_name, condition, notes, image_urls, video_urls, quantity, exists_flag)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (zone_id, element_name) DO UPDATE SET
			condition = EXCLUDED.condition,
			notes = EXCLUDED.notes,
			image_urls = EXCLUDED.image_urls,
			video_urls = EXCLUDED.video_urls,
			quantity = EXCLUDED.quantity,
			exists_flag = EXCLUDED.exists_flag
		RETURNING ` + elementColumns

	row := r.db.QueryRowContext(ctx, q,
		e.ID,
		e.ZoneID,
		e.Name,
		e.Condition,
		e.Notes,
		pq.Array(e.ImageURLs),
		pq.Array(e.VideoURLs),
		e.Quantity,
		e.Exists,
	)
	return scanElement(row.Scan)
}

// ListByZones returns every element belonging to the given zones. An empty
// id list short-circuits to no rows.
func (r *ElementPostgres) ListByZones(ctx context.Context, zoneIDs []string) ([]model.Element, error) {
	if len(zoneIDs) == 0 {
		return []model.Element{}, nil
	}
	const q = `
		SELECT ` + elementColumns + `
		FROM elements
		WHERE zone_id = ANY($1)
		ORDER BY zone_id, element_name ASC
	`
	rows, err := r.db.QueryContext(ctx, q, pq.Array(zoneIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	els := make([]model.Element, 0)
	for rows.Next() {
		e, err := scanElement(rows.Scan)
		if err != nil {
			return nil, err
		}
		els = append(els, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return els, nil
}

// Update rewrites the value fields of an element by primary key.
func (r *ElementPostgres) Update(ctx context.Context, e *model.Element) error {
	const q = `
		UPDATE elements
		SET condition = $1, notes = $2, image_urls = $3, video_urls = $4, quantity = $5, exists_flag = $6
		WHERE id = $7
	`
	_, err := r.db.ExecContext(ctx, q,
		e.Condition,
		e.Notes,
		pq.Array(e.ImageURLs),
		pq.Array(e.VideoURLs),
		e.Quantity,
		e.Exists,
		e.ID,
	)
	return err
}

// Delete removes an element by id. It does not return an error if the row
// does not exist.
func (r *ElementPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM elements WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// DeleteByZoneExcept removes the zone's elements whose names are not in keep.
// With an empty keep list every element of the zone goes.
func (r *ElementPostgres) DeleteByZoneExcept(ctx context.Context, zoneID string, keep []string) error {
	const q = `DELETE FROM elements WHERE zone_id = $1 AND element_name <> ALL($2)`
	_, err := r.db.ExecContext(ctx, q, zoneID, pq.Array(keep))
	return err
}
