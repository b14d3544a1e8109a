package parts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"parts-manager/core/classify"
	"parts-manager/core/database"
	"parts-manager/feature/parts/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) (*TaxonomyStore, *gorm.DB) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	store := NewTaxonomyStore(db)
	require.NoError(t, store.EnsureSchema(context.Background(), true))
	return store, db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func seedPartType(t *testing.T, db *gorm.DB, userID *int64, name string) {
	t.Helper()
	row := models.PartType{UserID: userID, Name: sql.NullString{String: name, Valid: name != ""}}
	require.NoError(t, db.Create(&row).Error)
}

func TestTaxonomyStore_GetPartTypes(t *testing.T) {
	store, db := setupStore(t)
	user, other := int64(1), int64(2)

	seedPartType(t, db, nil, "Resistor")
	seedPartType(t, db, &user, "Capacitor")
	seedPartType(t, db, &other, "Relay")
	seedPartType(t, db, &user, "")

	types, err := store.GetPartTypes(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, types, 3)
	assert.Equal(t, "Resistor", types[0].Name)
	assert.Equal(t, "Capacitor", types[1].Name)
	assert.Empty(t, types[2].Name)

	tax, err := classify.NewTaxonomy(types)
	require.NoError(t, err)
	assert.Equal(t, 3, tax.Len())
}

func TestTaxonomyStore_GetOrCreatePartType(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()
	user := int64(7)
	seedPartType(t, db, nil, "Capacitor")

	t.Run("ExistingSharedMatchIgnoresCase", func(t *testing.T) {
		pt, created, err := store.GetOrCreatePartType(ctx, user, &classify.PartType{Name: "  capacitor "})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "Capacitor", pt.Name)
	})

	t.Run("CreatesForUser", func(t *testing.T) {
		pt, created, err := store.GetOrCreatePartType(ctx, user, &classify.PartType{Name: "Crystal"})
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotZero(t, pt.ID)

		again, created, err := store.GetOrCreatePartType(ctx, user, &classify.PartType{Name: "CRYSTAL"})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, pt.ID, again.ID)

		var row models.PartType
		require.NoError(t, db.First(&row, pt.ID).Error)
		require.NotNil(t, row.UserID)
		assert.Equal(t, user, *row.UserID)
	})

	t.Run("NilPartType", func(t *testing.T) {
		_, _, err := store.GetOrCreatePartType(ctx, user, nil)
		assert.ErrorIs(t, err, classify.ErrInvalidArgument)
	})

	t.Run("EmptyName", func(t *testing.T) {
		_, _, err := store.GetOrCreatePartType(ctx, user, &classify.PartType{Name: "   "})
		assert.ErrorIs(t, err, classify.ErrInvalidArgument)
	})
}

func TestTaxonomyStore_EnsureSchema(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	store := NewTaxonomyStore(db)

	require.NoError(t, db.Exec("CREATE TABLE part_types (part_type_id INTEGER PRIMARY KEY, name TEXT)").Error)

	err = store.EnsureSchema(context.Background(), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
	assert.Contains(t, err.Error(), "user_id")

	require.NoError(t, store.EnsureSchema(context.Background(), true))
	assert.NoError(t, store.EnsureSchema(context.Background(), false))
}

func TestTaxonomyStore_QueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewTaxonomyStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `part_types`")).
		WillReturnError(errors.New("connection reset"))

	types, err := store.GetPartTypes(context.Background(), 1)
	assert.Nil(t, types)
	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaxonomyStore_QueryRows(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewTaxonomyStore(db)

	rows := sqlmock.NewRows([]string{"part_type_id", "user_id", "parent_part_type_id", "name", "date_created_utc"}).
		AddRow(1, nil, nil, "Resistor", time.Now()).
		AddRow(2, 1, nil, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `part_types` WHERE user_id = ? OR user_id IS NULL")).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	types, err := store.GetPartTypes(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "Resistor", types[0].Name)
	assert.Empty(t, types[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
