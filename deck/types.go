package deck

// Layout identifies the composition variant of a slide. The set is closed;
// renderers must fall back gracefully on values outside it (the synthesis
// model is not trusted to stay inside the enum).
type Layout string

const (
	LayoutTitle          Layout = "TITLE"
	LayoutAgenda         Layout = "AGENDA"
	LayoutSectionHeader  Layout = "SECTION_HEADER"
	LayoutContentBullets Layout = "CONTENT_BULLETS"
	LayoutTwoColumn      Layout = "TWO_COLUMN"
	LayoutThreeColumn    Layout = "THREE_COLUMN"
	LayoutQuote          Layout = "QUOTE"
	LayoutBigNumber      Layout = "BIG_NUMBER"
	LayoutClosing        Layout = "CLOSING"
)

// KnownLayouts lists every layout the renderers implement, in a stable order.
var KnownLayouts = []Layout{
	LayoutTitle, LayoutAgenda, LayoutSectionHeader, LayoutContentBullets,
	LayoutTwoColumn, LayoutThreeColumn, LayoutQuote, LayoutBigNumber,
	LayoutClosing,
}

// IsKnown reports whether l is part of the closed layout set.
func (l Layout) IsKnown() bool {
	for _, k := range KnownLayouts {
		if l == k {
			return true
		}
	}
	return false
}

// VisualKind classifies a slide's illustrative asset.
type VisualKind string

const (
	VisualNone         VisualKind = "none"
	VisualIcon         VisualKind = "icon"
	VisualImage        VisualKind = "image"
	VisualIllustration VisualKind = "illustration"
)

// Geometry clamp ranges. All visual geometry committed to the store lands
// inside these ranges regardless of input delta magnitude.
const (
	MinVisualWidth = 20.0
	MaxVisualWidth = 100.0
	MinVisualPos   = 0.0
	MaxVisualPos   = 100.0
	MinVisualScale = 1.0
	MaxVisualScale = 3.0
)

// Visual describes a slide's illustrative asset. Content starts empty and is
// filled in by the hydration pipeline: inline SVG markup for icons, a data
// URI for generated images.
type Visual struct {
	Kind          VisualKind `json:"kind"`
	Prompt        string     `json:"prompt,omitempty"`
	IconName      string     `json:"iconName,omitempty"`
	Content       string     `json:"content,omitempty"`
	Width         float64    `json:"width"`         // percent of container, [20,100]
	Scale         float64    `json:"scale"`         // [1,3]
	VerticalPos   float64    `json:"verticalPos"`   // percent anchor, [0,100]
	HorizontalPos float64    `json:"horizontalPos"` // percent anchor, [0,100]
}

// DefaultGeometry returns a centered, full-width, unscaled visual geometry.
func DefaultGeometry() (width, scale, vpos, hpos float64) {
	return 100, 1, 50, 50
}

// Normalize fills zero-valued geometry fields with defaults and clamps
// everything into range.
func (v *Visual) Normalize() {
	dw, ds, dv, dh := DefaultGeometry()
	if v.Width == 0 {
		v.Width = dw
	}
	if v.Scale == 0 {
		v.Scale = ds
	}
	if v.VerticalPos == 0 {
		v.VerticalPos = dv
	}
	if v.HorizontalPos == 0 {
		v.HorizontalPos = dh
	}
	v.Width = clamp(v.Width, MinVisualWidth, MaxVisualWidth)
	v.Scale = clamp(v.Scale, MinVisualScale, MaxVisualScale)
	v.VerticalPos = clamp(v.VerticalPos, MinVisualPos, MaxVisualPos)
	v.HorizontalPos = clamp(v.HorizontalPos, MinVisualPos, MaxVisualPos)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Slide is the unit of content and composition. ID is assigned once at
// synthesis time and never changes afterwards.
type Slide struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Layout       Layout   `json:"layout"`
	Content      []string `json:"content"`
	Visual       *Visual  `json:"visual,omitempty"`
	SpeakerNotes string   `json:"speakerNotes,omitempty"`
	Duration     int      `json:"duration,omitempty"` // suggested minutes, presentation-only
}

// HasVisual reports whether the slide carries a resolvable visual
// placeholder. Kind "none" means no hydration is ever attempted.
func (s Slide) HasVisual() bool {
	return s.Visual != nil && s.Visual.Kind != VisualNone && s.Visual.Kind != ""
}

// Clone returns a deep copy of the slide.
func (s Slide) Clone() Slide {
	out := s
	out.Content = append([]string(nil), s.Content...)
	if s.Visual != nil {
		v := *s.Visual
		out.Visual = &v
	}
	return out
}

// Branding holds the process-wide styling state. It is read by every render
// and export call and mutated only by explicit user action.
type Branding struct {
	PrimaryColor      string `json:"primaryColor"`   // hex, e.g. "#1E40AF"
	SecondaryColor    string `json:"secondaryColor"` // hex
	FontFamily        string `json:"fontFamily"`
	LogoData          string `json:"logoData,omitempty"` // data URI
	CompanyName       string `json:"companyName"`
	CornerStyle       string `json:"cornerStyle"`       // "rounded" or "sharp"
	ContentBackground string `json:"contentBackground"` // see ContentBackgrounds
	IllustrationStyle string `json:"illustrationStyle"` // see IllustrationStyles
	DarkMode          bool   `json:"darkMode"`
}

// ContentBackgrounds enumerates the content-block background variants.
var ContentBackgrounds = []string{"none", "subtle", "card", "gradient", "bordered"}

// IllustrationStyles enumerates the image-generation prompting styles.
var IllustrationStyles = []string{"flat", "line-art", "watercolor", "isometric", "3d-render", "photographic"}

// DefaultBranding returns the styling used before the user customizes
// anything.
func DefaultBranding() Branding {
	return Branding{
		PrimaryColor:      "#1E40AF",
		SecondaryColor:    "#3B82F6",
		FontFamily:        "Inter",
		CompanyName:       "",
		CornerStyle:       "rounded",
		ContentBackground: "subtle",
		IllustrationStyle: "flat",
	}
}
