package theme

import "github.com/dwellio/core/internal/models"

// SaveConfigDTO creates or replaces a full configuration document.
type SaveConfigDTO struct {
	ID          string                `json:"id"`
	Config      models.ConfigDocument `json:"config"      binding:"required"`
	IsActive    bool                  `json:"is_active"`
	Description string                `json:"description"`
}

// ConfigPatch is a partial update. Absent fields leave the stored
// configuration untouched; present fields overwrite, with nested merge
// at the group level.
type ConfigPatch struct {
	Theme     *ThemePatch    `json:"theme,omitempty"`
	Logos     *LogoPatch     `json:"logos,omitempty"`
	Branding  *BrandingPatch `json:"branding,omitempty"`
	CustomCSS *string        `json:"custom_css,omitempty"`
}

type ThemePatch struct {
	Mode       *models.ThemeMode `json:"mode,omitempty"`
	Colors     *PalettePatch     `json:"colors,omitempty"`
	Typography *TypographyPatch  `json:"typography,omitempty"`
	Layout     *LayoutPatch      `json:"layout,omitempty"`
}

type PalettePatch struct {
	Primary   *ScalePatch `json:"primary,omitempty"`
	Secondary *ScalePatch `json:"secondary,omitempty"`
	Accent    *ScalePatch `json:"accent,omitempty"`
	Neutral   *ScalePatch `json:"neutral,omitempty"`
}

type ScalePatch struct {
	S50  *string `json:"50,omitempty"`
	S100 *string `json:"100,omitempty"`
	S200 *string `json:"200,omitempty"`
	S300 *string `json:"300,omitempty"`
	S400 *string `json:"400,omitempty"`
	S500 *string `json:"500,omitempty"`
	S600 *string `json:"600,omitempty"`
	S700 *string `json:"700,omitempty"`
	S800 *string `json:"800,omitempty"`
	S900 *string `json:"900,omitempty"`
}

type TypographyPatch struct {
	FontFamily     *string           `json:"font_family,omitempty"`
	MonoFontFamily *string           `json:"mono_font_family,omitempty"`
	FontSizes      map[string]string `json:"font_sizes,omitempty"`
	FontWeights    map[string]int    `json:"font_weights,omitempty"`
}

type LayoutPatch struct {
	BorderRadius    *string `json:"border_radius,omitempty"`
	SpacingUnit     *string `json:"spacing_unit,omitempty"`
	ContentMaxWidth *string `json:"content_max_width,omitempty"`
	SidebarWidth    *string `json:"sidebar_width,omitempty"`
}

type LogoPatch struct {
	Light      *string `json:"light,omitempty"`
	Dark       *string `json:"dark,omitempty"`
	Favicon    *string `json:"favicon,omitempty"`
	AppleTouch *string `json:"apple_touch,omitempty"`
}

type BrandingPatch struct {
	PortalName   *string `json:"portal_name,omitempty"`
	Tagline      *string `json:"tagline,omitempty"`
	FooterText   *string `json:"footer_text,omitempty"`
	SupportEmail *string `json:"support_email,omitempty"`
	SupportURL   *string `json:"support_url,omitempty"`
}
