package preset

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

// Service manages named configuration presets. System presets are
// seeded once and immutable through this API; at most one preset is the
// default at a time.
type Service struct {
	db      *gorm.DB
	cache   *cache.Cache
	bus     *cache.Bus
	configs *theme.Store
	logger  *zap.Logger
	mu      sync.Mutex
}

func NewService(db *gorm.DB, c *cache.Cache, bus *cache.Bus, configs *theme.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, cache: c, bus: bus, configs: configs, logger: logger.Named("PresetService")}
}

// List returns all presets, system first, then newest first.
func (s *Service) List(ctx context.Context) ([]models.PresetConfigModel, error) {
	if v, ok := s.cache.Get(appearance.KeyPresetAll); ok {
		if items, ok := v.([]models.PresetConfigModel); ok {
			return clonePresetList(items), nil
		}
	}

	var items []models.PresetConfigModel
	if err := s.db.WithContext(ctx).Order("is_system DESC, created_at DESC").Find(&items).Error; err != nil {
		return nil, storeErr(err)
	}
	s.cache.Set(appearance.KeyPresetAll, items)
	return clonePresetList(items), nil
}

func clonePresetList(items []models.PresetConfigModel) []models.PresetConfigModel {
	out := make([]models.PresetConfigModel, len(items))
	for i := range items {
		out[i] = *items[i].Clone()
	}
	return out
}

// Get returns one preset by id.
func (s *Service) Get(ctx context.Context, id string) (*models.PresetConfigModel, error) {
	if v, ok := s.cache.Get(appearance.PresetKey(id)); ok {
		if m, ok := v.(*models.PresetConfigModel); ok {
			return m.Clone(), nil
		}
	}

	var m models.PresetConfigModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("preset %s: %w", id, appearance.ErrNotFound)
	}
	if err != nil {
		return nil, storeErr(err)
	}
	s.cache.Set(appearance.PresetKey(id), &m)
	return m.Clone(), nil
}

// Create inserts a custom preset. Marking it default clears the flag on
// every other preset in the same transaction.
func (s *Service) Create(ctx context.Context, dto *CreatePresetDTO, actor string) (*models.PresetConfigModel, error) {
	if err := theme.ValidateDocument(&dto.Config); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var dup int64
	if err := s.db.WithContext(ctx).Model(&models.PresetConfigModel{}).
		Where("name = ?", dto.Name).Count(&dup).Error; err != nil {
		return nil, storeErr(err)
	}
	if dup > 0 {
		return nil, fmt.Errorf("%w: preset name %q already in use", appearance.ErrValidation, dto.Name)
	}

	m := models.PresetConfigModel{
		Name:        dto.Name,
		Description: dto.Description,
		Config:      dto.Config.Clone(),
		IsDefault:   dto.IsDefault,
		CreatedBy:   actor,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if m.IsDefault {
			if err := clearDefault(tx, ""); err != nil {
				return err
			}
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		return nil, storeErr(err)
	}

	s.invalidate(ctx)
	s.logger.Info("preset created", zap.String("id", m.ID), zap.String("name", m.Name), zap.String("actor", actor))
	return &m, nil
}

// Update mutates a custom preset. System presets are immutable: the
// call fails with an invariant violation and leaves them unchanged.
func (s *Service) Update(ctx context.Context, id string, dto *UpdatePresetDTO) (*models.PresetConfigModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var m models.PresetConfigModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("preset %s: %w", id, appearance.ErrNotFound)
	}
	if err != nil {
		return nil, storeErr(err)
	}
	if m.IsSystem {
		return nil, fmt.Errorf("%w: system preset %q cannot be modified", appearance.ErrInvariant, m.Name)
	}

	if dto.Config != nil {
		if err := theme.ValidateDocument(dto.Config); err != nil {
			return nil, err
		}
		m.Config = dto.Config.Clone()
	}
	if dto.Name != nil {
		m.Name = *dto.Name
	}
	if dto.Description != nil {
		m.Description = *dto.Description
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if dto.IsDefault != nil {
			m.IsDefault = *dto.IsDefault
			if m.IsDefault {
				if err := clearDefault(tx, m.ID); err != nil {
					return err
				}
			}
		}
		return tx.Save(&m).Error
	})
	if err != nil {
		return nil, storeErr(err)
	}

	s.invalidate(ctx)
	return &m, nil
}

// Delete removes a custom preset. System presets are never deleted.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var m models.PresetConfigModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("preset %s: %w", id, appearance.ErrNotFound)
	}
	if err != nil {
		return storeErr(err)
	}
	if m.IsSystem {
		return fmt.Errorf("%w: system preset %q cannot be deleted", appearance.ErrInvariant, m.Name)
	}

	if err := s.db.WithContext(ctx).Delete(&m).Error; err != nil {
		return storeErr(err)
	}
	s.invalidate(ctx)
	return nil
}

// Apply clones the preset's embedded document into a brand-new active
// configuration. The clone gets a fresh id and the acting admin as
// creator; deactivating the previous configuration and logging the
// history entry happen inside the config store's save.
func (s *Service) Apply(ctx context.Context, presetID, actor string) (*models.InterfaceConfigModel, error) {
	p, err := s.Get(ctx, presetID)
	if err != nil {
		return nil, err
	}

	cfg := &models.InterfaceConfigModel{IsActive: true, CreatedBy: actor}
	cfg.SetDocument(p.Config.Clone())

	saved, err := s.configs.Save(ctx, cfg, actor, fmt.Sprintf("preset applied: %s", p.Name))
	if err != nil {
		return nil, err
	}
	s.logger.Info("preset applied",
		zap.String("preset", p.Name), zap.String("config_id", saved.ID), zap.String("actor", actor))
	return saved, nil
}

func clearDefault(tx *gorm.DB, exceptID string) error {
	q := tx.Model(&models.PresetConfigModel{}).Where("is_default = ?", true)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	return q.Updates(map[string]interface{}{"is_default": false, "updated_at": time.Now()}).Error
}

func (s *Service) invalidate(ctx context.Context) {
	s.bus.Invalidate(ctx, appearance.CachePresets, appearance.KeyPresetPrefix)
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", appearance.ErrStoreUnavailable, err)
}
