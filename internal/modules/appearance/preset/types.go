package preset

import "github.com/dwellio/core/internal/models"

// CreatePresetDTO creates a custom preset. System presets can only come
// from the seeding routine, so the flag is deliberately absent here.
type CreatePresetDTO struct {
	Name        string                `json:"name"        binding:"required"`
	Description string                `json:"description"`
	Config      models.ConfigDocument `json:"config"      binding:"required"`
	IsDefault   bool                  `json:"is_default"`
}

type UpdatePresetDTO struct {
	Name        *string                `json:"name"`
	Description *string                `json:"description"`
	Config      *models.ConfigDocument `json:"config"`
	IsDefault   *bool                  `json:"is_default"`
}
