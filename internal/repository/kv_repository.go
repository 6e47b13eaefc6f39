package repository

import (
	"context"
	"errors"

	"github.com/shinyyama/herspace-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDBNotReady = errors.New("database not initialized")

// KVRepository is the persistent per-key storage behind preferences and the
// session user blob. A missing key is reported with ok=false, not an error.
type KVRepository interface {
	Get(ctx context.Context, namespace, key string) (value string, ok bool, err error)
	Set(ctx context.Context, namespace, key, value string) error
}

type kvRepository struct {
	db *gorm.DB
}

func NewKVRepository(db *gorm.DB) KVRepository {
	return &kvRepository{db: db}
}

func (r *kvRepository) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	if r.db == nil {
		return "", false, ErrDBNotReady
	}
	var e model.KVEntry
	err := r.db.WithContext(ctx).
		Where("namespace = ? AND k = ?", namespace, key).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return e.Value, true, nil
}

func (r *kvRepository) Set(ctx context.Context, namespace, key, value string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	e := model.KVEntry{Namespace: namespace, Key: key, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}, {Name: "k"}},
			DoUpdates: clause.AssignmentColumns([]string{"v", "updated_at"}),
		}).
		Create(&e).Error
}

// Migrate creates the kv_entries table.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return ErrDBNotReady
	}
	return db.AutoMigrate(&model.KVEntry{})
}
