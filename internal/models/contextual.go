package models

import (
	"errors"
	"fmt"
)

// ScopeType is one level of the configuration hierarchy.
type ScopeType string

const (
	ScopeUser   ScopeType = "user"
	ScopeRole   ScopeType = "role"
	ScopeOrg    ScopeType = "org"
	ScopeGlobal ScopeType = "global"
)

// scopePriorities orders scopes for resolution; lower wins.
var scopePriorities = map[ScopeType]int{
	ScopeUser:   1,
	ScopeRole:   2,
	ScopeOrg:    3,
	ScopeGlobal: 4,
}

// ConfigContext identifies one scope of the hierarchy. Immutable value:
// equality and ordering derive from ScopeType and ScopeID alone.
type ConfigContext struct {
	ScopeType ScopeType `json:"scope_type"`
	ScopeID   string    `json:"scope_id,omitempty"`
}

// GlobalContext is the catch-all lowest-precedence scope.
func GlobalContext() ConfigContext {
	return ConfigContext{ScopeType: ScopeGlobal}
}

// Priority returns the resolution priority of the context (lower = stronger).
// Unknown scope types sort last.
func (c ConfigContext) Priority() int {
	if p, ok := scopePriorities[c.ScopeType]; ok {
		return p
	}
	return len(scopePriorities) + 1
}

// Validate checks the scope type / scope id pairing: global carries no
// id, every other scope requires one.
func (c ConfigContext) Validate() error {
	if _, ok := scopePriorities[c.ScopeType]; !ok {
		return fmt.Errorf("unknown scope type %q", c.ScopeType)
	}
	if c.ScopeType == ScopeGlobal {
		if c.ScopeID != "" {
			return errors.New("global scope must not carry a scope id")
		}
		return nil
	}
	if c.ScopeID == "" {
		return fmt.Errorf("scope %q requires a scope id", c.ScopeType)
	}
	return nil
}

func (c ConfigContext) String() string {
	if c.ScopeType == ScopeGlobal {
		return string(ScopeGlobal)
	}
	return fmt.Sprintf("%s:%s", c.ScopeType, c.ScopeID)
}

// ContextualConfigModel binds a configuration document to one scope.
// At most one record per (context_type, context_id) has IsActive = true.
type ContextualConfigModel struct {
	Base
	ContextType ScopeType      `json:"context_type" gorm:"index:idx_scope_active;not null"`
	ContextID   string         `json:"context_id"   gorm:"index:idx_scope_active"`
	Config      ConfigDocument `json:"config"       gorm:"serializer:json;type:longtext"`
	IsActive    bool           `json:"is_active"    gorm:"index:idx_scope_active"`
	CreatedBy   string         `json:"created_by"`
}

func (ContextualConfigModel) TableName() string { return "contextual_configurations" }

// Context returns the scope the record is bound to.
func (m *ContextualConfigModel) Context() ConfigContext {
	return ConfigContext{ScopeType: m.ContextType, ScopeID: m.ContextID}
}

// Clone returns an independent copy of the record and its document.
func (m *ContextualConfigModel) Clone() *ContextualConfigModel {
	out := *m
	out.Config = m.Config.Clone()
	return &out
}
