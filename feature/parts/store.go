package parts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"parts-manager/core/classify"
	"parts-manager/core/database"
	"parts-manager/feature/parts/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// ErrSchemaMismatch is returned when the part_types table lacks required columns.
var ErrSchemaMismatch = errors.New("part_types schema mismatch")

type createPartType struct {
	Name string `validate:"required,max=255"`
}

// TaxonomyStore reads and writes part types with GORM.
type TaxonomyStore struct {
	db       *gorm.DB
	validate *validator.Validate
}

// NewTaxonomyStore creates a store on db.
func NewTaxonomyStore(db *gorm.DB) *TaxonomyStore {
	return &TaxonomyStore{db: db, validate: validator.New()}
}

// EnsureSchema migrates the part_types table when autoMigrate is set,
// otherwise verifies that the existing table has every required column.
func (s *TaxonomyStore) EnsureSchema(ctx context.Context, autoMigrate bool) error {
	db := s.db.WithContext(ctx)
	if autoMigrate {
		if err := db.AutoMigrate(&models.PartType{}); err != nil {
			return fmt.Errorf("failed to migrate part_types: %w", err)
		}
		return nil
	}
	missing, err := database.MissingColumns(db, models.PartType{}.TableName(), models.RequiredColumns...)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing columns %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return nil
}

// GetPartTypes returns the part types visible to userID, shared ones
// included, in insertion order.
func (s *TaxonomyStore) GetPartTypes(ctx context.Context, userID int64) ([]*classify.PartType, error) {
	var rows []models.PartType
	err := s.db.WithContext(ctx).
		Where("user_id = ? OR user_id IS NULL", userID).
		Order("part_type_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load part types: %w", err)
	}
	out := make([]*classify.PartType, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToClassify())
	}
	return out, nil
}

// GetOrCreatePartType returns the part type visible to userID whose name
// matches pt.Name case-insensitively, inserting a user-owned row when none
// exists. created reports whether a row was inserted.
func (s *TaxonomyStore) GetOrCreatePartType(ctx context.Context, userID int64, pt *classify.PartType) (classify.PartType, bool, error) {
	if pt == nil {
		return classify.PartType{}, false, fmt.Errorf("%w: part type is nil", classify.ErrInvalidArgument)
	}
	name := strings.TrimSpace(pt.Name)
	if err := s.validate.Struct(createPartType{Name: name}); err != nil {
		return classify.PartType{}, false, fmt.Errorf("%w: %v", classify.ErrInvalidArgument, err)
	}

	var result classify.PartType
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.PartType
		err := tx.Where("(user_id = ? OR user_id IS NULL) AND LOWER(name) = LOWER(?)", userID, name).
			Order("part_type_id ASC").
			First(&existing).Error
		switch {
		case err == nil:
			result = *existing.ToClassify()
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		row := models.PartType{
			UserID: &userID,
			Name:   sql.NullString{String: name, Valid: true},
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		result = *row.ToClassify()
		created = true
		return nil
	})
	if err != nil {
		return classify.PartType{}, false, fmt.Errorf("failed to get or create part type %q: %w", name, err)
	}
	return result, created, nil
}
