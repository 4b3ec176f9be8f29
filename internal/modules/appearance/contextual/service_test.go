package contextual

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dwellio/core/internal/models"
	"github.com/dwellio/core/internal/modules/appearance"
	"github.com/dwellio/core/internal/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ContextualConfigModel{}))

	c := cache.New(time.Minute)
	bus := cache.NewBus(nil, nil)
	bus.Attach(appearance.CacheContextual, c)
	return NewStore(db, c, bus, nil), db
}

func uniformScale(hex string) models.ColorScale {
	return models.ColorScale{
		S50: hex, S100: hex, S200: hex, S300: hex, S400: hex,
		S500: hex, S600: hex, S700: hex, S800: hex, S900: hex,
	}
}

func testDoc(portalName string) models.ConfigDocument {
	return models.ConfigDocument{
		Theme: models.Theme{
			Mode: models.ThemeModeLight,
			Colors: models.ColorPalette{
				Primary:   uniformScale("#3b82f6"),
				Secondary: uniformScale("#64748b"),
				Accent:    uniformScale("#f59e0b"),
				Neutral:   uniformScale("#6b7280"),
			},
			Typography: models.Typography{
				FontFamily:     "Inter, sans-serif",
				MonoFontFamily: "monospace",
				FontSizes: map[string]string{
					"xs": "0.75rem", "sm": "0.875rem", "base": "1rem",
					"lg": "1.125rem", "xl": "1.25rem", "2xl": "1.5rem", "3xl": "1.875rem",
				},
				FontWeights: map[string]int{
					"light": 300, "normal": 400, "medium": 500, "semibold": 600, "bold": 700,
				},
			},
			Layout: models.Layout{
				BorderRadius:    "0.5rem",
				SpacingUnit:     "0.25rem",
				ContentMaxWidth: "72rem",
				SidebarWidth:    "16rem",
			},
		},
		Logos: models.LogoSet{
			Light:   "/assets/logo-light.svg",
			Dark:    "/assets/logo-dark.svg",
			Favicon: "/assets/favicon.ico",
		},
		Branding: models.Branding{PortalName: portalName},
	}
}

func userScope(id string) models.ConfigContext {
	return models.ConfigContext{ScopeType: models.ScopeUser, ScopeID: id}
}

func TestSaveKeepsOneActivePerScope(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	scope := userScope("u1")

	first, err := s.Save(ctx, &SaveContextDTO{ScopeType: scope.ScopeType, ScopeID: scope.ScopeID, Config: testDoc("one"), IsActive: true}, "admin-1")
	require.NoError(t, err)
	second, err := s.Save(ctx, &SaveContextDTO{ScopeType: scope.ScopeType, ScopeID: scope.ScopeID, Config: testDoc("two"), IsActive: true}, "admin-1")
	require.NoError(t, err)

	var active int64
	require.NoError(t, db.Model(&models.ContextualConfigModel{}).
		Where("context_type = ? AND context_id = ? AND is_active = ?", scope.ScopeType, scope.ScopeID, true).
		Count(&active).Error)
	assert.EqualValues(t, 1, active)

	got, err := s.FindActive(ctx, scope)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second.ID, got.ID)

	var reloaded models.ContextualConfigModel
	require.NoError(t, db.First(&reloaded, "id = ?", first.ID).Error)
	assert.False(t, reloaded.IsActive)
}

func TestSaveDifferentScopesDoNotInterfere(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, &SaveContextDTO{ScopeType: models.ScopeUser, ScopeID: "u1", Config: testDoc("user"), IsActive: true}, "admin-1")
	require.NoError(t, err)
	_, err = s.Save(ctx, &SaveContextDTO{ScopeType: models.ScopeRole, ScopeID: "tenant", Config: testDoc("role"), IsActive: true}, "admin-1")
	require.NoError(t, err)

	forUser, err := s.FindActive(ctx, userScope("u1"))
	require.NoError(t, err)
	require.NotNil(t, forUser)
	assert.Equal(t, "user", forUser.Config.Branding.PortalName)

	forRole, err := s.FindActive(ctx, models.ConfigContext{ScopeType: models.ScopeRole, ScopeID: "tenant"})
	require.NoError(t, err)
	require.NotNil(t, forRole)
	assert.Equal(t, "role", forRole.Config.Branding.PortalName)
}

func TestSaveGlobalScopeCarriesNoID(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, &SaveContextDTO{ScopeType: models.ScopeGlobal, Config: testDoc("global"), IsActive: true}, "admin-1")
	require.NoError(t, err)

	got, err := s.FindActive(ctx, models.GlobalContext())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "global", got.Config.Branding.PortalName)
}

func TestSaveRejectsInvalidScope(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Save(context.Background(), &SaveContextDTO{ScopeType: models.ScopeUser, Config: testDoc("x")}, "admin-1")
	assert.ErrorIs(t, err, appearance.ErrValidation)

	_, err = s.Save(context.Background(), &SaveContextDTO{ScopeType: "team", ScopeID: "x", Config: testDoc("x")}, "admin-1")
	assert.ErrorIs(t, err, appearance.ErrValidation)
}

func TestSaveRejectsInvalidDocument(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	scope := userScope("u1")

	bad := testDoc("x")
	bad.Theme.Mode = "neon"
	_, err := s.Save(ctx, &SaveContextDTO{ScopeType: scope.ScopeType, ScopeID: scope.ScopeID, Config: bad, IsActive: true}, "admin-1")
	assert.ErrorIs(t, err, appearance.ErrValidation)

	empty := testDoc("x")
	empty.Theme.Colors.Primary = models.ColorScale{}
	_, err = s.Save(ctx, &SaveContextDTO{ScopeType: scope.ScopeType, ScopeID: scope.ScopeID, Config: empty, IsActive: true}, "admin-1")
	assert.ErrorIs(t, err, appearance.ErrValidation)

	var count int64
	require.NoError(t, db.Model(&models.ContextualConfigModel{}).Count(&count).Error)
	assert.Zero(t, count)

	got, err := s.FindActive(ctx, scope)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindActiveEmptyScopeReturnsNil(t *testing.T) {
	s, _ := newTestStore(t)

	got, err := s.FindActive(context.Background(), userScope("nobody"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindActiveIgnoresInactiveRecords(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	scope := userScope("u1")

	_, err := s.Save(ctx, &SaveContextDTO{ScopeType: scope.ScopeType, ScopeID: scope.ScopeID, Config: testDoc("draft")}, "admin-1")
	require.NoError(t, err)

	got, err := s.FindActive(ctx, scope)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeactivateScope(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	scope := userScope("u1")

	_, err := s.Save(ctx, &SaveContextDTO{ScopeType: scope.ScopeType, ScopeID: scope.ScopeID, Config: testDoc("x"), IsActive: true}, "admin-1")
	require.NoError(t, err)

	n, err := s.DeactivateScope(ctx, scope)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := s.FindActive(ctx, scope)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Second call is a no-op.
	n, err = s.DeactivateScope(ctx, scope)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListForScopeNewestFirst(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	scope := userScope("u1")

	older, err := s.Save(ctx, &SaveContextDTO{ScopeType: scope.ScopeType, ScopeID: scope.ScopeID, Config: testDoc("old"), IsActive: true}, "admin-1")
	require.NoError(t, err)
	require.NoError(t, db.Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error)

	newer, err := s.Save(ctx, &SaveContextDTO{ScopeType: scope.ScopeType, ScopeID: scope.ScopeID, Config: testDoc("new"), IsActive: true}, "admin-1")
	require.NoError(t, err)

	items, err := s.ListForScope(ctx, scope)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, newer.ID, items[0].ID)
	assert.Equal(t, older.ID, items[1].ID)
}

func TestDeleteRemovesRecord(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, &SaveContextDTO{ScopeType: models.ScopeOrg, ScopeID: "acme", Config: testDoc("x"), IsActive: true}, "admin-1")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, saved.ID))
	_, err = s.GetByID(ctx, saved.ID)
	assert.ErrorIs(t, err, appearance.ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, saved.ID), appearance.ErrNotFound)
}

func TestFindActiveReturnsIndependentCopies(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	scope := userScope("u1")

	_, err := s.Save(ctx, &SaveContextDTO{ScopeType: scope.ScopeType, ScopeID: scope.ScopeID, Config: testDoc("original"), IsActive: true}, "admin-1")
	require.NoError(t, err)

	first, err := s.FindActive(ctx, scope)
	require.NoError(t, err)
	require.NotNil(t, first)

	// Mutating the returned record must not leak into later reads.
	first.Config.Branding.PortalName = "tampered"
	first.Config.Theme.Typography.FontSizes["base"] = "9rem"
	first.IsActive = false

	second, err := s.FindActive(ctx, scope)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "original", second.Config.Branding.PortalName)
	assert.Equal(t, "1rem", second.Config.Theme.Typography.FontSizes["base"])
	assert.True(t, second.IsActive)
}
