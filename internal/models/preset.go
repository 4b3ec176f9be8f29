package models

// PresetConfigModel stores a named, reusable configuration template.
// System presets are seeded at startup and immutable through the API.
// At most one preset has IsDefault = true.
type PresetConfigModel struct {
	Base
	Name        string         `json:"name"        gorm:"index;not null"`
	Description string         `json:"description"`
	Config      ConfigDocument `json:"config"      gorm:"serializer:json;type:longtext"`
	IsSystem    bool           `json:"is_system"   gorm:"index"`
	IsDefault   bool           `json:"is_default"`
	CreatedBy   string         `json:"created_by"`
}

func (PresetConfigModel) TableName() string { return "preset_configurations" }

// Clone returns an independent copy of the preset and its document.
func (m *PresetConfigModel) Clone() *PresetConfigModel {
	out := *m
	out.Config = m.Config.Clone()
	return &out
}
