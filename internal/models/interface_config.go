package models

// ThemeMode selects the base rendering mode of the portal UI.
type ThemeMode string

const (
	ThemeModeLight ThemeMode = "light"
	ThemeModeDark  ThemeMode = "dark"
)

// ColorScale enumerates the ten shade stops of one color group.
// Keys are fixed; free-form shade maps from the legacy system are not carried over.
type ColorScale struct {
	S50  string `json:"50"`
	S100 string `json:"100"`
	S200 string `json:"200"`
	S300 string `json:"300"`
	S400 string `json:"400"`
	S500 string `json:"500"`
	S600 string `json:"600"`
	S700 string `json:"700"`
	S800 string `json:"800"`
	S900 string `json:"900"`
}

// ColorPalette groups the four themable color scales.
type ColorPalette struct {
	Primary   ColorScale `json:"primary"`
	Secondary ColorScale `json:"secondary"`
	Accent    ColorScale `json:"accent"`
	Neutral   ColorScale `json:"neutral"`
}

// Typography holds font configuration. Size and weight maps must cover
// the required key sets (see RequiredFontSizeKeys / RequiredFontWeightKeys).
type Typography struct {
	FontFamily     string            `json:"font_family"`
	MonoFontFamily string            `json:"mono_font_family"`
	FontSizes      map[string]string `json:"font_sizes"`
	FontWeights    map[string]int    `json:"font_weights"`
}

// RequiredFontSizeKeys is the fixed key set every font-size map must cover.
var RequiredFontSizeKeys = []string{"xs", "sm", "base", "lg", "xl", "2xl", "3xl"}

// RequiredFontWeightKeys is the fixed key set every font-weight map must cover.
var RequiredFontWeightKeys = []string{"light", "normal", "medium", "semibold", "bold"}

// Layout holds spacing and sizing tokens.
type Layout struct {
	BorderRadius    string `json:"border_radius"`
	SpacingUnit     string `json:"spacing_unit"`
	ContentMaxWidth string `json:"content_max_width"`
	SidebarWidth    string `json:"sidebar_width"`
}

// Theme is the complete visual theme document.
type Theme struct {
	Mode       ThemeMode    `json:"mode"`
	Colors     ColorPalette `json:"colors"`
	Typography Typography   `json:"typography"`
	Layout     Layout       `json:"layout"`
}

// LogoSet holds logo asset URLs per usage.
type LogoSet struct {
	Light      string `json:"light"`
	Dark       string `json:"dark"`
	Favicon    string `json:"favicon"`
	AppleTouch string `json:"apple_touch"`
}

// Branding holds the portal's text identity.
type Branding struct {
	PortalName   string `json:"portal_name"`
	Tagline      string `json:"tagline"`
	FooterText   string `json:"footer_text"`
	SupportEmail string `json:"support_email"`
	SupportURL   string `json:"support_url"`
}

// ConfigDocument is the full themable configuration payload. Presets,
// history entries and contextual records embed an independent copy of it;
// there is never a shared mutable instance.
type ConfigDocument struct {
	Theme     Theme    `json:"theme"`
	Logos     LogoSet  `json:"logos"`
	Branding  Branding `json:"branding"`
	CustomCSS string   `json:"custom_css,omitempty"`
}

// Clone returns a deep copy of the document. Font maps are the only
// reference-typed fields, so they get copied explicitly.
func (d ConfigDocument) Clone() ConfigDocument {
	out := d
	if d.Theme.Typography.FontSizes != nil {
		sizes := make(map[string]string, len(d.Theme.Typography.FontSizes))
		for k, v := range d.Theme.Typography.FontSizes {
			sizes[k] = v
		}
		out.Theme.Typography.FontSizes = sizes
	}
	if d.Theme.Typography.FontWeights != nil {
		weights := make(map[string]int, len(d.Theme.Typography.FontWeights))
		for k, v := range d.Theme.Typography.FontWeights {
			weights[k] = v
		}
		out.Theme.Typography.FontWeights = weights
	}
	return out
}

// InterfaceConfigModel stores one global interface configuration.
// At most one record has IsActive = true at any time.
type InterfaceConfigModel struct {
	Base
	Theme     Theme    `json:"theme"      gorm:"serializer:json;type:longtext"`
	Logos     LogoSet  `json:"logos"      gorm:"serializer:json;type:longtext"`
	Branding  Branding `json:"branding"   gorm:"serializer:json;type:longtext"`
	CustomCSS string   `json:"custom_css" gorm:"type:longtext"`
	IsActive  bool     `json:"is_active"  gorm:"index"`
	CreatedBy string   `json:"created_by" gorm:"index"`
}

func (InterfaceConfigModel) TableName() string { return "interface_configurations" }

// Document returns the embedded configuration payload as an independent copy.
func (m *InterfaceConfigModel) Document() ConfigDocument {
	return ConfigDocument{
		Theme:     m.Theme,
		Logos:     m.Logos,
		Branding:  m.Branding,
		CustomCSS: m.CustomCSS,
	}
}

// Clone returns an independent copy of the record, including its
// document's font maps.
func (m *InterfaceConfigModel) Clone() *InterfaceConfigModel {
	out := *m
	out.SetDocument(m.Document().Clone())
	return &out
}

// SetDocument replaces the embedded configuration payload.
func (m *InterfaceConfigModel) SetDocument(doc ConfigDocument) {
	m.Theme = doc.Theme
	m.Logos = doc.Logos
	m.Branding = doc.Branding
	m.CustomCSS = doc.CustomCSS
}
