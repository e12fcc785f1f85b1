package store

import (
	"errors"

	"github.com/fox-one/pkg/store/db"
	"github.com/yiplee/structs"
)

// ErrVersionConflict the row changed since it was loaded
var ErrVersionConflict = errors.New("version conflict")

// SaveVersioned creates model when version is 1 and otherwise updates the row stored at version-1
func SaveVersioned(tx *db.DB, model interface{}, version int64, keys map[string]interface{}) error {
	if version <= 1 {
		return tx.Update().Create(model).Error
	}

	// json tags carry the column names
	fields := structs.New(model)
	fields.TagName = "json"

	update := tx.Update().Model(model).
		Where(keys).
		Where("version=?", version-1).
		Updates(fields.Map())
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return ErrVersionConflict
	}

	return nil
}
