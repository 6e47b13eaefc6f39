package model

import "time"

// KVEntry is one persisted preference value. Namespace is the session id.
type KVEntry struct {
	Namespace string    `gorm:"column:namespace;primaryKey;size:64"`
	Key       string    `gorm:"column:k;primaryKey;size:64"`
	Value     string    `gorm:"column:v;type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
