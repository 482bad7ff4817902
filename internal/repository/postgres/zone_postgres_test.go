package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/model"
)

func TestZonePostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewZonePostgres(db)

	z := &model.Zone{
		ID:           "zone-uuid",
		InspectionID: "insp-uuid",
		Type:         model.ZoneBedroom,
		Name:         "Bedroom 2",
	}

	rows := sqlmock.NewRows([]string{"id", "inspection_id", "zone_type", "zone_name"}).
		AddRow(z.ID, z.InspectionID, "bedroom", "Bedroom 2")

	mock.ExpectQuery("INSERT INTO zones").
		WithArgs(z.ID, z.InspectionID, "bedroom", "Bedroom 2").
		WillReturnRows(rows)

	out, err := repo.Create(context.Background(), z)

	assert.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, model.ZoneBedroom, out.Type)
	assert.Equal(t, "Bedroom 2", out.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestZonePostgres_ListByInspection(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewZonePostgres(db)

	rows := sqlmock.NewRows([]string{"id", "inspection_id", "zone_type", "zone_name"}).
		AddRow("z1", "insp-uuid", "bedroom", "Bedroom 1").
		AddRow("z2", "insp-uuid", "bedroom", "Bedroom 2").
		AddRow("z3", "insp-uuid", "kitchen", "Kitchen")

	mock.ExpectQuery("SELECT (.+) FROM zones WHERE inspection_id = \\$1 ORDER BY zone_name").
		WithArgs("insp-uuid").
		WillReturnRows(rows)

	zones, err := repo.ListByInspection(context.Background(), "insp-uuid")

	assert.NoError(t, err)
	require.Len(t, zones, 3)
	assert.Equal(t, "Bedroom 1", zones[0].Name)
	assert.Equal(t, model.ZoneKitchen, zones[2].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestZonePostgres_UpdateName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewZonePostgres(db)

	mock.ExpectExec("UPDATE zones SET zone_name = \\$1 WHERE id = \\$2").
		WithArgs("Bedroom 1", "z1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdateName(context.Background(), "z1", "Bedroom 1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestZonePostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewZonePostgres(db)

	mock.ExpectExec("DELETE FROM zones WHERE id = ?").
		WithArgs("z9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Delete(context.Background(), "z9")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
