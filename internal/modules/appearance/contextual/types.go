package contextual

import "github.com/dwellio/core/internal/models"

// SaveContextDTO binds a configuration document to one scope of the
// hierarchy. Saving an active record atomically deactivates the scope's
// previous actives.
type SaveContextDTO struct {
	ScopeType models.ScopeType      `json:"scope_type" binding:"required"`
	ScopeID   string                `json:"scope_id"`
	Config    models.ConfigDocument `json:"config"     binding:"required"`
	IsActive  bool                  `json:"is_active"`
}

// ScopeQueryDTO addresses one scope in query or body form.
type ScopeQueryDTO struct {
	ScopeType models.ScopeType `json:"scope_type" form:"type" binding:"required"`
	ScopeID   string           `json:"scope_id"   form:"id"`
}

func (d ScopeQueryDTO) Context() models.ConfigContext {
	return models.ConfigContext{ScopeType: d.ScopeType, ScopeID: d.ScopeID}
}
