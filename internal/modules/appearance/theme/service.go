package theme

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dwellio/core/internal/models"
	"github.com/dwellio/core/internal/modules/appearance"
	"github.com/dwellio/core/internal/pkg/cache"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HistoryAppender logs a configuration snapshot inside the writer's
// transaction so the history entry and the write commit together.
type HistoryAppender interface {
	AppendTx(tx *gorm.DB, configID string, doc models.ConfigDocument, actor, description string) error
}

// Store persists global interface configurations and enforces the
// single-active invariant: across all records, at most one has
// IsActive = true.
//
// The deactivate-all and activate steps run inside one transaction, and
// all writers additionally serialize through a store mutex, so the
// invariant holds under concurrent callers within this process and
// across replicas sharing the database.
type Store struct {
	db      *gorm.DB
	cache   *cache.Cache
	bus     *cache.Bus
	history HistoryAppender
	logger  *zap.Logger
	mu      sync.Mutex
}

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger.Named("ConfigStore")
		}
	}
}

func NewStore(db *gorm.DB, c *cache.Cache, bus *cache.Bus, history HistoryAppender, opts ...Option) *Store {
	s := &Store{db: db, cache: c, bus: bus, history: history, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetActive returns the single active configuration, or (nil, nil) when
// none exists. Cache-first; the store remains the source of truth.
// Callers always receive an independent copy, never the cached record.
func (s *Store) GetActive(ctx context.Context) (*models.InterfaceConfigModel, error) {
	if v, ok := s.cache.Get(appearance.KeyConfigActive); ok {
		if m, ok := v.(*models.InterfaceConfigModel); ok {
			return m.Clone(), nil
		}
	}

	var m models.InterfaceConfigModel
	err := s.db.WithContext(ctx).Where("is_active = ?", true).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	s.cache.Set(appearance.KeyConfigActive, &m)
	return m.Clone(), nil
}

// GetByID returns one configuration by id.
func (s *Store) GetByID(ctx context.Context, id string) (*models.InterfaceConfigModel, error) {
	if v, ok := s.cache.Get(appearance.ConfigKey(id)); ok {
		if m, ok := v.(*models.InterfaceConfigModel); ok {
			return m.Clone(), nil
		}
	}

	var m models.InterfaceConfigModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("configuration %s: %w", id, appearance.ErrNotFound)
	}
	if err != nil {
		return nil, storeErr(err)
	}
	s.cache.Set(appearance.ConfigKey(id), &m)
	return m.Clone(), nil
}

// ListAll returns every stored configuration, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.InterfaceConfigModel, error) {
	if v, ok := s.cache.Get(appearance.KeyConfigAll); ok {
		if items, ok := v.([]models.InterfaceConfigModel); ok {
			return cloneConfigList(items), nil
		}
	}

	var items []models.InterfaceConfigModel
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, storeErr(err)
	}
	s.cache.Set(appearance.KeyConfigAll, items)
	return cloneConfigList(items), nil
}

func cloneConfigList(items []models.InterfaceConfigModel) []models.InterfaceConfigModel {
	out := make([]models.InterfaceConfigModel, len(items))
	for i := range items {
		out[i] = *items[i].Clone()
	}
	return out
}

// Save validates and upserts a configuration. When the record is marked
// active, every other record is deactivated in the same transaction.
// A history entry is appended and the config cache keys are invalidated
// unconditionally.
func (s *Store) Save(ctx context.Context, cfg *models.InterfaceConfigModel, actor, description string) (*models.InterfaceConfigModel, error) {
	doc := cfg.Document()
	if err := ValidateDocument(&doc); err != nil {
		return nil, err
	}
	if description == "" {
		description = "configuration saved"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cfg.IsActive {
			if err := tx.Model(&models.InterfaceConfigModel{}).
				Where("id <> ? AND is_active = ?", cfg.ID, true).
				Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()}).Error; err != nil {
				return err
			}
		}

		if cfg.ID == "" {
			if err := tx.Create(cfg).Error; err != nil {
				return err
			}
		} else {
			var existing models.InterfaceConfigModel
			err := tx.First(&existing, "id = ?", cfg.ID).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(cfg).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				cfg.CreatedAt = existing.CreatedAt
				if err := tx.Save(cfg).Error; err != nil {
					return err
				}
			}
		}

		return s.history.AppendTx(tx, cfg.ID, cfg.Document(), actor, description)
	})
	if err != nil {
		return nil, storeErr(err)
	}

	s.invalidate(ctx)
	s.logger.Info("configuration saved",
		zap.String("id", cfg.ID), zap.Bool("active", cfg.IsActive), zap.String("actor", actor))
	return cfg, nil
}

// SetActive deactivates every configuration and activates the named
// one. Returns false without error when the id does not exist.
func (s *Store) SetActive(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := true
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.InterfaceConfigModel
		err := tx.First(&m, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			found = false
			return nil
		}
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.InterfaceConfigModel{}).
			Where("id <> ? AND is_active = ?", id, true).
			Updates(map[string]interface{}{"is_active": false, "updated_at": now}).Error; err != nil {
			return err
		}
		return tx.Model(&m).
			Updates(map[string]interface{}{"is_active": true, "updated_at": now}).Error
	})
	if err != nil {
		return false, storeErr(err)
	}
	if !found {
		return false, nil
	}

	s.invalidate(ctx)
	return true, nil
}

// Delete removes a configuration. Deleting the active configuration is
// forbidden and reported, never silently ignored.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var m models.InterfaceConfigModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("configuration %s: %w", id, appearance.ErrNotFound)
	}
	if err != nil {
		return storeErr(err)
	}
	if m.IsActive {
		return fmt.Errorf("%w: cannot delete the active configuration", appearance.ErrInvariant)
	}

	if err := s.db.WithContext(ctx).Delete(&m).Error; err != nil {
		return storeErr(err)
	}
	s.invalidate(ctx)
	return nil
}

// UpdatePartial merges a typed patch into an existing configuration.
// The id is preserved (a mutation, not a replacement); an invalid patch
// leaves the stored record completely unchanged.
func (s *Store) UpdatePartial(ctx context.Context, id string, patch *ConfigPatch, actor string) (*models.InterfaceConfigModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var m models.InterfaceConfigModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("configuration %s: %w", id, appearance.ErrNotFound)
	}
	if err != nil {
		return nil, storeErr(err)
	}

	merged := ApplyPatch(m.Document(), patch)
	if err := ValidateDocument(&merged); err != nil {
		return nil, err
	}

	m.SetDocument(merged)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		return s.history.AppendTx(tx, m.ID, m.Document(), actor, "partial update")
	})
	if err != nil {
		return nil, storeErr(err)
	}

	s.invalidate(ctx)
	return &m, nil
}

func (s *Store) invalidate(ctx context.Context) {
	s.bus.Invalidate(ctx, appearance.CacheConfigs, appearance.KeyConfigPrefix)
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", appearance.ErrStoreUnavailable, err)
}
