package models

import "time"

// KVRecord is one row of the durable key→string store. Vault envelopes, the
// global ledger and catalog data all persist through this single mapping.
type KVRecord struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table created by the kv_records migration.
func (KVRecord) TableName() string {
	return "kv_records"
}
