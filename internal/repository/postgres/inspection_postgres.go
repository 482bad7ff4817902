package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/model"
	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/repository"
)

// InspectionPostgres is a PostgreSQL implementation of
// repository.InspectionRepository. It uses database/sql with parameterized
// queries and contains no business logic. The store's schema can lag the code
// (new columns roll out separately), so writes and the type-filtered lookup
// tolerate a missing drift-prone column with a single reduced retry.
type InspectionPostgres struct {
	db *sql.DB
}

// NewInspectionPostgres creates a new InspectionPostgres repository.
func NewInspectionPostgres(db *sql.DB) *InspectionPostgres {
	return &InspectionPostgres{db: db}
}

var _ repository.InspectionRepository = (*InspectionPostgres)(nil)

// driftProneColumns are the optional columns newer than the base schema; only
// these are allowed to be stripped by the drift retry. A 42703 on anything
// else is a genuine failure and propagates.
var driftProneColumns = map[string]bool{
	"inspection_type": true,
	"has_elevator":    true,
	"public_link_id":  true,
}

const inspectionColumns = "id, property_id, inspection_type, inspection_status, created_by, created_at, completed_at, has_elevator, public_link_id"

func scanInspection(row *sql.Row) (*model.Inspection, error) {
	var ins model.Inspection
	err := row.Scan(
		&ins.ID,
		&ins.PropertyID,
		&ins.Type,
		&ins.Status,
		&ins.CreatedBy,
		&ins.CreatedAt,
		&ins.CompletedAt,
		&ins.HasElevator,
		&ins.PublicLinkID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ins, nil
}

// Create inserts a new inspection row. On a drift error naming one of the
// drift-prone columns, the insert is retried once without it; the returned
// inspection mirrors what was actually stored (the type still identifies the
// aggregate in memory even when the store cannot hold the column yet).
func (r *InspectionPostgres) Create(ctx context.Context, ins *model.Inspection) (*model.Inspection, error) {
	cols := []string{"id", "property_id", "inspection_type", "inspection_status", "created_by", "created_at", "has_elevator", "public_link_id"}
	args := []any{ins.ID, ins.PropertyID, string(ins.Type), string(ins.Status), ins.CreatedBy, ins.CreatedAt, ins.HasElevator, ins.PublicLinkID}

	dropped, err := r.insertWithDriftRetry(ctx, "inspections", cols, args)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}

	out := *ins
	switch dropped {
	case "has_elevator":
		out.HasElevator = nil
	case "public_link_id":
		out.PublicLinkID = ""
	}
	return &out, nil
}

// insertWithDriftRetry attempts the full insert and, on a classified schema
// drift naming a drift-prone column, retries once with that column stripped.
// It returns the dropped column name, if any.
func (r *InspectionPostgres) insertWithDriftRetry(ctx context.Context, table string, cols []string, args []any) (string, error) {
	if _, err := r.db.ExecContext(ctx, insertQuery(table, cols), args...); err != nil {
		col, drift := driftColumn(err)
		if !drift || !driftProneColumns[col] {
			return "", err
		}
		reducedCols, reducedArgs := withoutColumn(cols, args, col)
		if _, err2 := r.db.ExecContext(ctx, insertQuery(table, reducedCols), reducedArgs...); err2 != nil {
			return "", fmt.Errorf("insert retry without %s: %w", col, err2)
		}
		return col, nil
	}
	return "", nil
}

// FindByID fetches a single inspection, or (nil, nil) when absent.
func (r *InspectionPostgres) FindByID(ctx context.Context, id string) (*model.Inspection, error) {
	q := "SELECT " + inspectionColumns + " FROM inspections WHERE id = $1"
	return scanInspection(r.db.QueryRowContext(ctx, q, id))
}

// FindByProperty fetches the inspection for a (property, type) pair. If the
// inspection_type column is missing at runtime the lookup retries without the
// filter: with one row per property in the pre-drift schema, that row is the
// requested one.
func (r *InspectionPostgres) FindByProperty(ctx context.Context, propertyID string, typ model.InspectionType) (*model.Inspection, error) {
	q := "SELECT " + inspectionColumns + " FROM inspections WHERE property_id = $1 AND inspection_type = $2"
	ins, err := scanInspection(r.db.QueryRowContext(ctx, q, propertyID, string(typ)))
	if err == nil {
		return ins, nil
	}

	if col, drift := driftColumn(err); !drift || col != "inspection_type" {
		return nil, err
	}

	const fallback = "SELECT id, property_id, inspection_status, created_by, created_at, completed_at, has_elevator, public_link_id FROM inspections WHERE property_id = $1"
	var out model.Inspection
	err = r.db.QueryRowContext(ctx, fallback, propertyID).Scan(
		&out.ID,
		&out.PropertyID,
		&out.Status,
		&out.CreatedBy,
		&out.CreatedAt,
		&out.CompletedAt,
		&out.HasElevator,
		&out.PublicLinkID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	out.Type = typ
	return &out, nil
}

// Update applies the non-nil patch fields and returns the stored row, or
// (nil, nil) when the inspection does not exist.
func (r *InspectionPostgres) Update(ctx context.Context, id string, patch repository.InspectionPatch) (*model.Inspection, error) {
	var sets []string
	var args []any

	addSet := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Status != nil {
		addSet("inspection_status", string(*patch.Status))
	}
	if patch.CompletedAt != nil {
		addSet("completed_at", *patch.CompletedAt)
	}
	if patch.HasElevator != nil {
		addSet("has_elevator", *patch.HasElevator)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, id)
	q := fmt.Sprintf("UPDATE inspections SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), inspectionColumns)
	return scanInspection(r.db.QueryRowContext(ctx, q, args...))
}
