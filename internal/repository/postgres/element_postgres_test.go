package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manuelPH/reno-construction-manager-mvp-sub002/internal/model"
)

func TestElementPostgres_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewElementPostgres(db)
	ctx := context.Background()

	condition := "bueno"
	notes := "all fine"
	qty := 1

	e := &model.Element{
		ID:        "el-uuid",
		ZoneID:    "zone-uuid",
		Name:      "puertas",
		Condition: &condition,
		Notes:     &notes,
		ImageURLs: []string{"https://cdn.example.com/a.jpg"},
		Quantity:  &qty,
	}

	rows := sqlmock.NewRows([]string{
		"id", "zone_id", "element_name", "condition", "notes",
		"image_urls", "video_urls", "quantity", "exists_flag",
	}).AddRow(e.ID, e.ZoneID, e.Name, condition, notes, "{https://cdn.example.com/a.jpg}", "{}", qty, nil)

	mock.ExpectQuery("INSERT INTO elements (.+) ON CONFLICT \\(zone_id, element_name\\) DO UPDATE").
		WithArgs(e.ID, e.ZoneID, e.Name, &condition, &notes, sqlmock.AnyArg(), sqlmock.AnyArg(), &qty, nil).
		WillReturnRows(rows)

	out, err := repo.Upsert(ctx, e)

	assert.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, e.Name, out.Name)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, out.ImageURLs)
	assert.Empty(t, out.VideoURLs)
	assert.Nil(t, out.Exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestElementPostgres_ListByZones(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewElementPostgres(db)
	ctx := context.Background()

	t.Run("empty id list short-circuits", func(t *testing.T) {
		els, err := repo.ListByZones(ctx, nil)
		assert.NoError(t, err)
		assert.Empty(t, els)
	})

	t.Run("returns rows across zones", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "zone_id", "element_name", "condition", "notes",
			"image_urls", "video_urls", "quantity", "exists_flag",
		}).
			AddRow("e1", "z1", "ventanas-1", "bueno", nil, "{}", "{}", nil, nil).
			AddRow("e2", "z2", "mobiliario", nil, nil, "{}", "{}", nil, true)

		mock.ExpectQuery("SELECT (.+) FROM elements WHERE zone_id = ANY").
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(rows)

		els, err := repo.ListByZones(ctx, []string{"z1", "z2"})

		assert.NoError(t, err)
		require.Len(t, els, 2)
		assert.Equal(t, "ventanas-1", els[0].Name)
		require.NotNil(t, els[1].Exists)
		assert.True(t, *els[1].Exists)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestElementPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewElementPostgres(db)

	condition := "malo"
	e := &model.Element{ID: "el-uuid", Condition: &condition}

	mock.ExpectExec("UPDATE elements").
		WithArgs(&condition, nil, sqlmock.AnyArg(), sqlmock.AnyArg(), nil, nil, e.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Update(context.Background(), e)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestElementPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewElementPostgres(db)

	mock.ExpectExec("DELETE FROM elements WHERE id = ?").
		WithArgs("el-uuid").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Delete(context.Background(), "el-uuid")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestElementPostgres_DeleteByZoneExcept(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewElementPostgres(db)

	mock.ExpectExec("DELETE FROM elements WHERE zone_id = \\$1 AND element_name <> ALL").
		WithArgs("z1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	err = repo.DeleteByZoneExcept(context.Background(), "z1", []string{"ventanas-1", "mobiliario"})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
