package preset

import (
	"context"
	"fmt"

	"github.com/dwellio/core/internal/models"
	"go.uber.org/zap"
)

// Seed inserts the built-in system presets if they are missing. Safe to
// run on every startup; existing presets are never touched.
func (s *Service) Seed(ctx context.Context) error {
	for _, b := range builtinPresets() {
		var count int64
		err := s.db.WithContext(ctx).Model(&models.PresetConfigModel{}).
			Where("name = ? AND is_system = ?", b.Name, true).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("seed presets: %w", err)
		}
		if count > 0 {
			continue
		}
		if err := s.db.WithContext(ctx).Create(&b).Error; err != nil {
			return fmt.Errorf("seed preset %q: %w", b.Name, err)
		}
		s.logger.Info("system preset seeded", zap.String("name", b.Name))
	}
	s.invalidate(ctx)
	return nil
}

func builtinPresets() []models.PresetConfigModel {
	return []models.PresetConfigModel{
		{
			Name:        "Light",
			Description: "Default light appearance",
			Config:      DefaultDocument(models.ThemeModeLight),
			IsSystem:    true,
			IsDefault:   true,
			CreatedBy:   "system",
		},
		{
			Name:        "Dark",
			Description: "Default dark appearance",
			Config:      DefaultDocument(models.ThemeModeDark),
			IsSystem:    true,
			CreatedBy:   "system",
		},
	}
}

// DefaultDocument builds the built-in configuration document for the
// given mode. Palettes follow the portal's design tokens.
func DefaultDocument(mode models.ThemeMode) models.ConfigDocument {
	return models.ConfigDocument{
		Theme: models.Theme{
			Mode: mode,
			Colors: models.ColorPalette{
				Primary:   scale("#eff6ff", "#dbeafe", "#bfdbfe", "#93c5fd", "#60a5fa", "#3b82f6", "#2563eb", "#1d4ed8", "#1e40af", "#1e3a8a"),
				Secondary: scale("#f8fafc", "#f1f5f9", "#e2e8f0", "#cbd5e1", "#94a3b8", "#64748b", "#475569", "#334155", "#1e293b", "#0f172a"),
				Accent:    scale("#fffbeb", "#fef3c7", "#fde68a", "#fcd34d", "#fbbf24", "#f59e0b", "#d97706", "#b45309", "#92400e", "#78350f"),
				Neutral:   scale("#f9fafb", "#f3f4f6", "#e5e7eb", "#d1d5db", "#9ca3af", "#6b7280", "#4b5563", "#374151", "#1f2937", "#111827"),
			},
			Typography: models.Typography{
				FontFamily:     "Inter, system-ui, sans-serif",
				MonoFontFamily: "JetBrains Mono, monospace",
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
		Branding: models.Branding{
			PortalName: "Dwellio",
			Tagline:    "Housing applications, simplified",
			FooterText: "© Dwellio",
		},
	}
}

func scale(s50, s100, s200, s300, s400, s500, s600, s700, s800, s900 string) models.ColorScale {
	return models.ColorScale{
		S50: s50, S100: s100, S200: s200, S300: s300, S400: s400,
		S500: s500, S600: s600, S700: s700, S800: s800, S900: s900,
	}
}
