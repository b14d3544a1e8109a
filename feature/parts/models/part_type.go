package models

import (
	"database/sql"
	"time"

	"parts-manager/core/classify"
)

// PartType represents the 'part_types' table. A row without UserID is shared
// by every user.
type PartType struct {
	ID               int64          `gorm:"column:part_type_id;primaryKey;autoIncrement"`
	UserID           *int64         `gorm:"column:user_id;index"`
	ParentPartTypeID *int64         `gorm:"column:parent_part_type_id"`
	Name             sql.NullString `gorm:"column:name;size:255"`
	DateCreatedUtc   time.Time      `gorm:"column:date_created_utc;autoCreateTime"`
}

// TableName overrides the table name.
func (PartType) TableName() string {
	return "part_types"
}

// ToClassify converts the row into a taxonomy entry. A NULL name becomes empty,
// which the matcher skips.
func (p PartType) ToClassify() *classify.PartType {
	return &classify.PartType{ID: p.ID, Name: p.Name.String}
}

// RequiredColumns are the columns the store reads and writes.
var RequiredColumns = []string{"part_type_id", "user_id", "parent_part_type_id", "name", "date_created_utc"}
