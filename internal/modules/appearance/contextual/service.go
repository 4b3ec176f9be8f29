package contextual

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dwellio/core/internal/models"
	"github.com/dwellio/core/internal/modules/appearance"
	"github.com/dwellio/core/internal/modules/appearance/theme"
	"github.com/dwellio/core/internal/pkg/cache"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store persists scope-bound configurations. Per (context_type,
// context_id) pair at most one record is active; activating a new one
// deactivates the scope's prior actives in the same transaction.
//
// Concurrent saves into the same scope were undefined in the legacy
// system; here the store mutex plus the transaction make it
// last-writer-wins.
type Store struct {
	db     *gorm.DB
	cache  *cache.Cache
	bus    *cache.Bus
	logger *zap.Logger
	mu     sync.Mutex
}

func NewStore(db *gorm.DB, c *cache.Cache, bus *cache.Bus, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, cache: c, bus: bus, logger: logger.Named("ContextualStore")}
}

// FindActive returns the active record for the scope, or (nil, nil)
// when the scope has none. Cache-first.
func (s *Store) FindActive(ctx context.Context, scope models.ConfigContext) (*models.ContextualConfigModel, error) {
	if err := scope.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", appearance.ErrValidation, err)
	}

	key := appearance.ContextKey(scope.String())
	if v, ok := s.cache.Get(key); ok {
		if m, ok := v.(*models.ContextualConfigModel); ok {
			return m.Clone(), nil
		}
	}

	var m models.ContextualConfigModel
	err := s.db.WithContext(ctx).
		Where("context_type = ? AND context_id = ? AND is_active = ?", scope.ScopeType, scope.ScopeID, true).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	s.cache.Set(key, &m)
	return m.Clone(), nil
}

// Save inserts a new record for the scope. The document is validated
// before anything is written, like the global and preset paths. When
// the record is active, every prior active record of the same scope is
// deactivated first, both steps inside one transaction.
func (s *Store) Save(ctx context.Context, dto *SaveContextDTO, actor string) (*models.ContextualConfigModel, error) {
	scope := models.ConfigContext{ScopeType: dto.ScopeType, ScopeID: dto.ScopeID}
	if err := scope.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", appearance.ErrValidation, err)
	}
	if err := theme.ValidateDocument(&dto.Config); err != nil {
		return nil, err
	}

	m := models.ContextualConfigModel{
		ContextType: dto.ScopeType,
		ContextID:   dto.ScopeID,
		Config:      dto.Config.Clone(),
		IsActive:    dto.IsActive,
		CreatedBy:   actor,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if m.IsActive {
			if err := deactivateScope(tx, scope); err != nil {
				return err
			}
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		return nil, storeErr(err)
	}

	s.invalidate(ctx, scope)
	s.logger.Info("contextual configuration saved",
		zap.String("scope", scope.String()), zap.Bool("active", m.IsActive), zap.String("actor", actor))
	return &m, nil
}

// DeactivateScope clears the active flag on every record of the scope
// and returns the number of records touched.
func (s *Store) DeactivateScope(ctx context.Context, scope models.ConfigContext) (int64, error) {
	if err := scope.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %s", appearance.ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.db.WithContext(ctx).Model(&models.ContextualConfigModel{}).
		Where("context_type = ? AND context_id = ? AND is_active = ?", scope.ScopeType, scope.ScopeID, true).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return 0, storeErr(result.Error)
	}

	s.invalidate(ctx, scope)
	return result.RowsAffected, nil
}

// ListForScope returns every record of the scope, newest first.
func (s *Store) ListForScope(ctx context.Context, scope models.ConfigContext) ([]models.ContextualConfigModel, error) {
	if err := scope.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", appearance.ErrValidation, err)
	}

	var items []models.ContextualConfigModel
	err := s.db.WithContext(ctx).
		Where("context_type = ? AND context_id = ?", scope.ScopeType, scope.ScopeID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return items, nil
}

// GetByID returns one record by id.
func (s *Store) GetByID(ctx context.Context, id string) (*models.ContextualConfigModel, error) {
	var m models.ContextualConfigModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("contextual configuration %s: %w", id, appearance.ErrNotFound)
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &m, nil
}

// Delete removes one record by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(m).Error; err != nil {
		return storeErr(err)
	}
	s.invalidate(ctx, m.Context())
	return nil
}

func deactivateScope(tx *gorm.DB, scope models.ConfigContext) error {
	return tx.Model(&models.ContextualConfigModel{}).
		Where("context_type = ? AND context_id = ? AND is_active = ?", scope.ScopeType, scope.ScopeID, true).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()}).Error
}

func (s *Store) invalidate(ctx context.Context, scope models.ConfigContext) {
	s.bus.Invalidate(ctx, appearance.CacheContextual, appearance.ContextKey(scope.String()))
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", appearance.ErrStoreUnavailable, err)
}
