package contextual

import (
	"context"

	"github.com/dwellio/core/internal/models"
	"github.com/dwellio/core/internal/modules/appearance"
	"go.uber.org/zap"
)

// ActiveFinder yields the active scope-bound record, (nil, nil) when
// the scope has none.
type ActiveFinder interface {
	FindActive(ctx context.Context, scope models.ConfigContext) (*models.ContextualConfigModel, error)
}

// GlobalSource yields the portal-wide default configuration, (nil, nil)
// when none is active.
type GlobalSource interface {
	GetActive(ctx context.Context) (*models.InterfaceConfigModel, error)
}

// Resolution is the outcome of walking the scope chain for a subject.
type Resolution struct {
	Config       models.ConfigDocument  `json:"config"`
	ConfigID     string                 `json:"config_id"`
	ResolvedFrom models.ConfigContext   `json:"resolved_from"`
	Fallback     bool                   `json:"fallback"`
	Chain        []models.ConfigContext `json:"chain"`
}

// Resolver walks user, role, organization and global scopes in priority
// order and returns the first active configuration it finds. When no
// scope carries one it falls back to the portal-wide default.
type Resolver struct {
	contexts ActiveFinder
	global   GlobalSource
	logger   *zap.Logger
}

func NewResolver(contexts ActiveFinder, global GlobalSource, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{contexts: contexts, global: global, logger: logger.Named("HierarchyResolver")}
}

// Chain builds the ordered candidate scopes for a subject. Empty
// identifiers drop their scope; global is always last.
func Chain(userID, role, orgID string) []models.ConfigContext {
	chain := make([]models.ConfigContext, 0, 4)
	if userID != "" {
		chain = append(chain, models.ConfigContext{ScopeType: models.ScopeUser, ScopeID: userID})
	}
	if role != "" {
		chain = append(chain, models.ConfigContext{ScopeType: models.ScopeRole, ScopeID: role})
	}
	if orgID != "" {
		chain = append(chain, models.ConfigContext{ScopeType: models.ScopeOrg, ScopeID: orgID})
	}
	return append(chain, models.GlobalContext())
}

// Resolve walks the chain for the subject. Store failures abort the
// walk untranslated so a flaky backend is never mistaken for "nothing
// configured"; only a fully empty chain plus an absent portal default
// yields ErrNoActiveConfig.
func (r *Resolver) Resolve(ctx context.Context, userID, role, orgID string) (*Resolution, error) {
	chain := Chain(userID, role, orgID)

	for _, scope := range chain {
		m, err := r.contexts.FindActive(ctx, scope)
		if err != nil {
			return nil, err
		}
		if m == nil {
			continue
		}
		r.logger.Debug("configuration resolved",
			zap.String("scope", scope.String()), zap.String("config_id", m.ID))
		return &Resolution{
			Config:       m.Config.Clone(),
			ConfigID:     m.ID,
			ResolvedFrom: scope,
			Chain:        chain,
		}, nil
	}

	def, err := r.global.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, appearance.ErrNoActiveConfig
	}
	r.logger.Debug("configuration resolved from portal default", zap.String("config_id", def.ID))
	return &Resolution{
		Config:       def.Document().Clone(),
		ConfigID:     def.ID,
		ResolvedFrom: models.GlobalContext(),
		Fallback:     true,
		Chain:        chain,
	}, nil
}
