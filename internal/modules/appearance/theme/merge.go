package theme

import "github.com/dwellio/core/internal/models"

// ApplyPatch merges a partial update onto doc and returns the merged
// document. doc itself is never mutated; reapplying the same patch is
// idempotent.
func ApplyPatch(doc models.ConfigDocument, p *ConfigPatch) models.ConfigDocument {
	out := doc.Clone()
	if p == nil {
		return out
	}
	if p.Theme != nil {
		mergeTheme(&out.Theme, p.Theme)
	}
	if p.Logos != nil {
		mergeLogos(&out.Logos, p.Logos)
	}
	if p.Branding != nil {
		mergeBranding(&out.Branding, p.Branding)
	}
	if p.CustomCSS != nil {
		out.CustomCSS = *p.CustomCSS
	}
	return out
}

func mergeTheme(t *models.Theme, p *ThemePatch) {
	if p.Mode != nil {
		t.Mode = *p.Mode
	}
	if p.Colors != nil {
		mergeScale(&t.Colors.Primary, p.Colors.Primary)
		mergeScale(&t.Colors.Secondary, p.Colors.Secondary)
		mergeScale(&t.Colors.Accent, p.Colors.Accent)
		mergeScale(&t.Colors.Neutral, p.Colors.Neutral)
	}
	if p.Typography != nil {
		mergeTypography(&t.Typography, p.Typography)
	}
	if p.Layout != nil {
		mergeLayout(&t.Layout, p.Layout)
	}
}

func mergeScale(s *models.ColorScale, p *ScalePatch) {
	if p == nil {
		return
	}
	setIf(&s.S50, p.S50)
	setIf(&s.S100, p.S100)
	setIf(&s.S200, p.S200)
	setIf(&s.S300, p.S300)
	setIf(&s.S400, p.S400)
	setIf(&s.S500, p.S500)
	setIf(&s.S600, p.S600)
	setIf(&s.S700, p.S700)
	setIf(&s.S800, p.S800)
	setIf(&s.S900, p.S900)
}

// Font maps merge per key: present keys overwrite, the rest stay.
func mergeTypography(t *models.Typography, p *TypographyPatch) {
	setIf(&t.FontFamily, p.FontFamily)
	setIf(&t.MonoFontFamily, p.MonoFontFamily)
	if len(p.FontSizes) > 0 {
		if t.FontSizes == nil {
			t.FontSizes = make(map[string]string, len(p.FontSizes))
		}
		for k, v := range p.FontSizes {
			t.FontSizes[k] = v
		}
	}
	if len(p.FontWeights) > 0 {
		if t.FontWeights == nil {
			t.FontWeights = make(map[string]int, len(p.FontWeights))
		}
		for k, v := range p.FontWeights {
			t.FontWeights[k] = v
		}
	}
}

func mergeLayout(l *models.Layout, p *LayoutPatch) {
	setIf(&l.BorderRadius, p.BorderRadius)
	setIf(&l.SpacingUnit, p.SpacingUnit)
	setIf(&l.ContentMaxWidth, p.ContentMaxWidth)
	setIf(&l.SidebarWidth, p.SidebarWidth)
}

func mergeLogos(l *models.LogoSet, p *LogoPatch) {
	setIf(&l.Light, p.Light)
	setIf(&l.Dark, p.Dark)
	setIf(&l.Favicon, p.Favicon)
	setIf(&l.AppleTouch, p.AppleTouch)
}

func mergeBranding(b *models.Branding, p *BrandingPatch) {
	setIf(&b.PortalName, p.PortalName)
	setIf(&b.Tagline, p.Tagline)
	setIf(&b.FooterText, p.FooterText)
	setIf(&b.SupportEmail, p.SupportEmail)
	setIf(&b.SupportURL, p.SupportURL)
}

func setIf(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
