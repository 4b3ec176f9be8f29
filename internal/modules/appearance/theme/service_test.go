package theme

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dwellio/core/internal/models"
	"github.com/dwellio/core/internal/modules/appearance"
	"github.com/dwellio/core/internal/modules/appearance/history"
	"github.com/dwellio/core/internal/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.InterfaceConfigModel{}, &models.ConfigHistoryModel{}))
	return db
}

func newTestStore(t *testing.T) (*Store, *history.Store, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	c := cache.New(time.Minute)
	bus := cache.NewBus(nil, nil)
	bus.Attach(appearance.CacheConfigs, c)
	hist := history.NewStore(db, nil)
	return NewStore(db, c, bus, hist), hist, db
}

func newConfig(active bool) *models.InterfaceConfigModel {
	m := &models.InterfaceConfigModel{IsActive: active, CreatedBy: "admin-1"}
	m.SetDocument(testDocument())
	return m
}

func countActive(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.InterfaceConfigModel{}).Where("is_active = ?", true).Count(&n).Error)
	return n
}

func TestGetActiveReturnsNilWhenNothingConfigured(t *testing.T) {
	s, _, _ := newTestStore(t)

	m, err := s.GetActive(context.Background())
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestSaveActiveDeactivatesPrevious(t *testing.T) {
	s, _, db := newTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, newConfig(true), "admin-1", "")
	require.NoError(t, err)
	second, err := s.Save(ctx, newConfig(true), "admin-1", "")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	assert.EqualValues(t, 1, countActive(t, db))

	active, err := s.GetActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)

	var reloaded models.InterfaceConfigModel
	require.NoError(t, db.First(&reloaded, "id = ?", first.ID).Error)
	assert.False(t, reloaded.IsActive)
}

func TestSaveInactiveLeavesActiveAlone(t *testing.T) {
	s, _, db := newTestStore(t)
	ctx := context.Background()

	active, err := s.Save(ctx, newConfig(true), "admin-1", "")
	require.NoError(t, err)
	_, err = s.Save(ctx, newConfig(false), "admin-1", "draft")
	require.NoError(t, err)

	assert.EqualValues(t, 1, countActive(t, db))
	got, err := s.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, active.ID, got.ID)
}

func TestSaveRejectsInvalidDocument(t *testing.T) {
	s, _, db := newTestStore(t)

	cfg := newConfig(true)
	cfg.Theme.Colors.Primary.S500 = "not-a-color"

	_, err := s.Save(context.Background(), cfg, "admin-1", "")
	require.ErrorIs(t, err, appearance.ErrValidation)

	var n int64
	require.NoError(t, db.Model(&models.InterfaceConfigModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSaveAppendsHistoryWithIncrementingVersions(t *testing.T) {
	s, hist, _ := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, newConfig(true), "admin-1", "initial rollout")
	require.NoError(t, err)

	_, err = s.UpdatePartial(ctx, saved.ID, &ConfigPatch{
		Branding: &BrandingPatch{PortalName: strPtr("Dwellio Beta")},
	}, "admin-2")
	require.NoError(t, err)

	entries, err := hist.ListForConfig(ctx, saved.ID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest version first.
	assert.Equal(t, 2, entries[0].Version)
	assert.Equal(t, "admin-2", entries[0].ChangedBy)
	assert.Equal(t, "Dwellio Beta", entries[0].Config.Branding.PortalName)
	assert.Equal(t, 1, entries[1].Version)
	assert.Equal(t, "initial rollout", entries[1].ChangeDescription)
}

func TestSetActiveSwitchesSingleActive(t *testing.T) {
	s, _, db := newTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, newConfig(true), "admin-1", "")
	require.NoError(t, err)
	second, err := s.Save(ctx, newConfig(false), "admin-1", "")
	require.NoError(t, err)

	ok, err := s.SetActive(ctx, second.ID)
	require.NoError(t, err)
	require.True(t, ok)

	assert.EqualValues(t, 1, countActive(t, db))
	active, err := s.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	var reloaded models.InterfaceConfigModel
	require.NoError(t, db.First(&reloaded, "id = ?", first.ID).Error)
	assert.False(t, reloaded.IsActive)
}

func TestSetActiveUnknownIDReportsNotFound(t *testing.T) {
	s, _, db := newTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, newConfig(true), "admin-1", "")
	require.NoError(t, err)

	ok, err := s.SetActive(ctx, "missing-id")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.EqualValues(t, 1, countActive(t, db), "existing active must survive a failed switch")
}

func TestDeleteActiveConfigurationForbidden(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, newConfig(true), "admin-1", "")
	require.NoError(t, err)

	err = s.Delete(ctx, saved.ID)
	require.ErrorIs(t, err, appearance.ErrInvariant)

	got, err := s.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestDeleteInactiveConfiguration(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, newConfig(false), "admin-1", "")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, saved.ID))

	_, err = s.GetByID(ctx, saved.ID)
	assert.ErrorIs(t, err, appearance.ErrNotFound)
}

func TestUpdatePartialInvalidPatchLeavesRecordUnchanged(t *testing.T) {
	s, hist, _ := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, newConfig(true), "admin-1", "")
	require.NoError(t, err)

	_, err = s.UpdatePartial(ctx, saved.ID, &ConfigPatch{
		Theme: &ThemePatch{
			Colors: &PalettePatch{Primary: &ScalePatch{S500: strPtr("oops")}},
		},
	}, "admin-2")
	require.ErrorIs(t, err, appearance.ErrValidation)

	got, err := s.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "#3b82f6", got.Theme.Colors.Primary.S500)

	entries, err := hist.ListForConfig(ctx, saved.ID, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "rejected patch must not log a history entry")
}

func TestUpdatePartialPreservesIdentity(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, newConfig(true), "admin-1", "")
	require.NoError(t, err)

	updated, err := s.UpdatePartial(ctx, saved.ID, &ConfigPatch{
		CustomCSS: strPtr(".header { border: 0 }"),
	}, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, saved.ID, updated.ID)
	assert.True(t, updated.IsActive)
	assert.Equal(t, ".header { border: 0 }", updated.CustomCSS)
}

func TestUpdatePartialUnknownID(t *testing.T) {
	s, _, _ := newTestStore(t)

	_, err := s.UpdatePartial(context.Background(), "missing-id", &ConfigPatch{}, "admin-1")
	assert.ErrorIs(t, err, appearance.ErrNotFound)
}

func TestGetActiveReturnsIndependentCopies(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, newConfig(true), "admin-1", "")
	require.NoError(t, err)

	first, err := s.GetActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, first)

	// Mutating the returned record must not leak into later reads.
	doc := first.Document()
	doc.Theme.Typography.FontSizes["base"] = "9rem"
	doc.Branding.PortalName = "tampered"
	first.SetDocument(doc)
	first.IsActive = false

	second, err := s.GetActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "1rem", second.Document().Theme.Typography.FontSizes["base"])
	assert.Equal(t, "Dwellio", second.Document().Branding.PortalName)
	assert.True(t, second.IsActive)
}

func TestGetByIDReturnsIndependentCopies(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, newConfig(false), "admin-1", "draft")
	require.NoError(t, err)

	first, err := s.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	first.CreatedBy = "someone-else"
	doc := first.Document()
	doc.Theme.Typography.FontWeights["bold"] = 100
	first.SetDocument(doc)

	second, err := s.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", second.CreatedBy)
	assert.Equal(t, 700, second.Document().Theme.Typography.FontWeights["bold"])
}
