package theme

import (
	"testing"

	"github.com/dwellio/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformScale(hex string) models.ColorScale {
	return models.ColorScale{
		S50: hex, S100: hex, S200: hex, S300: hex, S400: hex,
		S500: hex, S600: hex, S700: hex, S800: hex, S900: hex,
	}
}

func testDocument() models.ConfigDocument {
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
		Branding: models.Branding{
			PortalName: "Dwellio",
			Tagline:    "Housing applications, simplified",
		},
	}
}

func strPtr(s string) *string { return &s }

func TestApplyPatchNilLeavesDocumentUnchanged(t *testing.T) {
	doc := testDocument()
	out := ApplyPatch(doc, nil)
	assert.Equal(t, doc, out)

	// The returned copy must not share font maps with the input.
	out.Theme.Typography.FontSizes["base"] = "9rem"
	assert.Equal(t, "1rem", doc.Theme.Typography.FontSizes["base"])
}

func TestApplyPatchSingleShadeLeavesSiblings(t *testing.T) {
	doc := testDocument()
	patch := &ConfigPatch{
		Theme: &ThemePatch{
			Colors: &PalettePatch{
				Primary: &ScalePatch{S500: strPtr("#ff0000")},
			},
		},
	}

	out := ApplyPatch(doc, patch)

	assert.Equal(t, "#ff0000", out.Theme.Colors.Primary.S500)
	assert.Equal(t, "#3b82f6", out.Theme.Colors.Primary.S400)
	assert.Equal(t, "#3b82f6", out.Theme.Colors.Primary.S600)
	assert.Equal(t, doc.Theme.Colors.Secondary, out.Theme.Colors.Secondary)
	// Input stays untouched.
	assert.Equal(t, "#3b82f6", doc.Theme.Colors.Primary.S500)
}

func TestApplyPatchIsIdempotent(t *testing.T) {
	doc := testDocument()
	mode := models.ThemeModeDark
	patch := &ConfigPatch{
		Theme: &ThemePatch{
			Mode: &mode,
			Typography: &TypographyPatch{
				FontSizes: map[string]string{"base": "1.125rem"},
			},
		},
		CustomCSS: strPtr(".nav { color: red }"),
	}

	once := ApplyPatch(doc, patch)
	twice := ApplyPatch(once, patch)
	assert.Equal(t, once, twice)
}

func TestApplyPatchTypographyMergesPerKey(t *testing.T) {
	doc := testDocument()
	patch := &ConfigPatch{
		Theme: &ThemePatch{
			Typography: &TypographyPatch{
				FontSizes:   map[string]string{"base": "1.25rem"},
				FontWeights: map[string]int{"bold": 800},
			},
		},
	}

	out := ApplyPatch(doc, patch)

	assert.Equal(t, "1.25rem", out.Theme.Typography.FontSizes["base"])
	assert.Equal(t, "0.75rem", out.Theme.Typography.FontSizes["xs"])
	assert.Equal(t, 800, out.Theme.Typography.FontWeights["bold"])
	assert.Equal(t, 300, out.Theme.Typography.FontWeights["light"])
	assert.Equal(t, "Inter, sans-serif", out.Theme.Typography.FontFamily)
}

func TestApplyPatchBrandingAndLogos(t *testing.T) {
	doc := testDocument()
	patch := &ConfigPatch{
		Logos:    &LogoPatch{Favicon: strPtr("/assets/favicon-v2.ico")},
		Branding: &BrandingPatch{Tagline: strPtr("Find your place")},
	}

	out := ApplyPatch(doc, patch)

	assert.Equal(t, "/assets/favicon-v2.ico", out.Logos.Favicon)
	assert.Equal(t, "/assets/logo-light.svg", out.Logos.Light)
	assert.Equal(t, "Find your place", out.Branding.Tagline)
	assert.Equal(t, "Dwellio", out.Branding.PortalName)
}

func TestApplyPatchCustomCSSOverwrites(t *testing.T) {
	doc := testDocument()
	doc.CustomCSS = ".old {}"

	out := ApplyPatch(doc, &ConfigPatch{CustomCSS: strPtr("")})
	require.Empty(t, out.CustomCSS)
	assert.Equal(t, ".old {}", doc.CustomCSS)
}
