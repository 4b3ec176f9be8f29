package models

// ConfigHistoryModel is an append-only log of configuration changes.
// Version increases monotonically per config lineage (ConfigID).
type ConfigHistoryModel struct {
	Base
	ConfigID          string         `json:"config_id"          gorm:"index;not null"`
	Config            ConfigDocument `json:"config"             gorm:"serializer:json;type:longtext"`
	Version           int            `json:"version"`
	ChangedBy         string         `json:"changed_by"`
	ChangeDescription string         `json:"change_description"`
}

func (ConfigHistoryModel) TableName() string { return "configuration_history" }
