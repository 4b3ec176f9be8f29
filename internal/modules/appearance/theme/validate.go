package theme

import (
	"fmt"
	"regexp"

	"github.com/dwellio/core/internal/models"
	"github.com/dwellio/core/internal/modules/appearance"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateDocument checks a full configuration document. It runs on the
// merged result of a patch before anything is stored, so a rejected
// patch leaves the persisted configuration untouched.
func ValidateDocument(doc *models.ConfigDocument) error {
	switch doc.Theme.Mode {
	case models.ThemeModeLight, models.ThemeModeDark:
	default:
		return fmt.Errorf("%w: theme mode must be light or dark, got %q", appearance.ErrValidation, doc.Theme.Mode)
	}

	scales := []struct {
		group string
		scale *models.ColorScale
	}{
		{"primary", &doc.Theme.Colors.Primary},
		{"secondary", &doc.Theme.Colors.Secondary},
		{"accent", &doc.Theme.Colors.Accent},
		{"neutral", &doc.Theme.Colors.Neutral},
	}
	for _, s := range scales {
		if err := validateScale(s.group, s.scale); err != nil {
			return err
		}
	}

	for _, key := range models.RequiredFontSizeKeys {
		if v, ok := doc.Theme.Typography.FontSizes[key]; !ok || v == "" {
			return fmt.Errorf("%w: font size %q is required", appearance.ErrValidation, key)
		}
	}
	for _, key := range models.RequiredFontWeightKeys {
		w, ok := doc.Theme.Typography.FontWeights[key]
		if !ok {
			return fmt.Errorf("%w: font weight %q is required", appearance.ErrValidation, key)
		}
		if w < 100 || w > 900 {
			return fmt.Errorf("%w: font weight %q out of range: %d", appearance.ErrValidation, key, w)
		}
	}

	return nil
}

func validateScale(group string, scale *models.ColorScale) error {
	shades := []struct {
		name  string
		value string
	}{
		{"50", scale.S50}, {"100", scale.S100}, {"200", scale.S200},
		{"300", scale.S300}, {"400", scale.S400}, {"500", scale.S500},
		{"600", scale.S600}, {"700", scale.S700}, {"800", scale.S800},
		{"900", scale.S900},
	}
	for _, s := range shades {
		if !hexColorPattern.MatchString(s.value) {
			return fmt.Errorf("%w: color %s.%s must be a hex value, got %q",
				appearance.ErrValidation, group, s.name, s.value)
		}
	}
	return nil
}
