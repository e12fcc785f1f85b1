package operation

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
)

type pauseStore struct {
	db *db.DB
}

type permissionStore struct {
	db *db.DB
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.ActionPause{})
		if err := tx.AutoMigrate(core.ActionPause{}).Error; err != nil {
			return err
		}

		tx = db.Update().Model(core.Permission{})
		if err := tx.AutoMigrate(core.Permission{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// NewPauseStore new action pause store
func NewPauseStore(db *db.DB) core.IActionPauseStore {
	return &pauseStore{
		db: db,
	}
}

func (s *pauseStore) Save(ctx context.Context, tx *db.DB, pause *core.ActionPause) error {
	return tx.Update().
		Where("pool_id=? and symbol=? and action=?", pause.PoolID, pause.Symbol, pause.Action).
		Assign(map[string]interface{}{"paused": pause.Paused}).
		FirstOrCreate(pause).Error
}

func (s *pauseStore) ListByPool(ctx context.Context, poolID string) ([]*core.ActionPause, error) {
	var pauses []*core.ActionPause
	query := s.db.View()
	if poolID != "" {
		query = query.Where("pool_id=?", poolID)
	}

	if e := query.Find(&pauses).Error; e != nil {
		return nil, e
	}

	return pauses, nil
}

// NewPermissionStore new permission store
func NewPermissionStore(db *db.DB) core.IPermissionStore {
	return &permissionStore{
		db: db,
	}
}

func (s *permissionStore) Save(ctx context.Context, tx *db.DB, perm *core.Permission) error {
	return tx.Update().
		Where("pool_id=? and account=? and scope=?", perm.PoolID, perm.Account, perm.Scope).
		Assign(map[string]interface{}{"granted": perm.Granted}).
		FirstOrCreate(perm).Error
}

func (s *permissionStore) ListByPool(ctx context.Context, poolID string) ([]*core.Permission, error) {
	var perms []*core.Permission
	query := s.db.View()
	if poolID != "" {
		query = query.Where("pool_id=?", poolID)
	}

	if e := query.Find(&perms).Error; e != nil {
		return nil, e
	}

	return perms, nil
}
