package models

// SectionKey identifies one block of the rendered invitation.
type SectionKey string

const (
	SectionHero        SectionKey = "hero"
	SectionWelcome     SectionKey = "welcome"
	SectionProgram     SectionKey = "program"
	SectionHoneymoon   SectionKey = "honeymoon"
	SectionMusic       SectionKey = "music"
	SectionInteractive SectionKey = "interactive"
	SectionContact     SectionKey = "contact"
	SectionPolicies    SectionKey = "policies"
	SectionAdditional  SectionKey = "additional"
	SectionRSVP        SectionKey = "rsvp"
	SectionDetails     SectionKey = "details"
)

// SectionOrder is the fixed render sequence of an invitation. Guests cannot
// reorder sections, only toggle their visibility.
var SectionOrder = []SectionKey{
	SectionHero,
	SectionWelcome,
	SectionProgram,
	SectionHoneymoon,
	SectionMusic,
	SectionInteractive,
	SectionContact,
	SectionPolicies,
	SectionAdditional,
	SectionRSVP,
}

// AllSectionKeys lists every key a DesignSettings value must carry,
// including "details" which is rendered inside the hero block.
var AllSectionKeys = []SectionKey{
	SectionHero, SectionDetails, SectionRSVP, SectionWelcome, SectionProgram,
	SectionHoneymoon, SectionMusic, SectionInteractive, SectionContact,
	SectionPolicies, SectionAdditional,
}

// LayoutMode selects how visible sections are presented.
type LayoutMode string

const (
	LayoutVertical   LayoutMode = "vertical"   // single continuous scroll
	LayoutHorizontal LayoutMode = "horizontal" // one section at a time, paginated
)

// SectionStyle is a fixed presentation preset, not a numeric computation.
type SectionStyle string

const (
	StyleClassic  SectionStyle = "classic"
	StyleModern   SectionStyle = "modern"
	StyleRustic   SectionStyle = "rustic"
	StyleRomantic SectionStyle = "romantic"
)

// SectionDesign is the style/background/image/visibility configuration for
// exactly one section. Visible is a pointer so that an absent field means
// visible; only an explicit false hides the section.
type SectionDesign struct {
	Style              SectionStyle `json:"style,omitempty"`
	BackgroundColor    string       `json:"backgroundColor,omitempty"`
	BackgroundImageURL string       `json:"backgroundImageUrl,omitempty"`
	BackgroundWidth    int          `json:"backgroundImageWidth,omitempty"`
	BackgroundHeight   int          `json:"backgroundImageHeight,omitempty"`
	BackgroundFit      string       `json:"backgroundImageFit,omitempty"`
	BackgroundPattern  string       `json:"backgroundPattern,omitempty"`
	BackgroundOpacity  float64      `json:"backgroundOpacity,omitempty"`
	CoupleImageURL     string       `json:"coupleImageUrl,omitempty"`
	CoupleImageShape   string       `json:"coupleImageShape,omitempty"`
	DecorativeElement  string       `json:"decorativeElement,omitempty"`
	Visible            *bool        `json:"visible,omitempty"`
}

// IsVisible reports the effective visibility: absence means visible.
func (d SectionDesign) IsVisible() bool {
	return d.Visible == nil || *d.Visible
}

// DesignSettings is the full configuration tree covering layout mode,
// palette, font and all per-section designs. Persisted as one JSONB column
// on the invitation; consumers always receive and store the complete tree.
type DesignSettings struct {
	Layout         LayoutMode                   `json:"layout"`
	ColorPaletteID string                       `json:"colorPaletteId"`
	FontFamilyID   string                       `json:"fontFamilyId"`
	Sections       map[SectionKey]SectionDesign `json:"sections"`
	Animations     bool                         `json:"animations"`
	Borders        bool                         `json:"borders"`
	Spacing        string                       `json:"spacing,omitempty"`
}

// Clone returns a deep copy so editors never mutate a shared tree in place.
func (s DesignSettings) Clone() DesignSettings {
	out := s
	out.Sections = make(map[SectionKey]SectionDesign, len(s.Sections))
	for k, v := range s.Sections {
		if v.Visible != nil {
			vis := *v.Visible
			v.Visible = &vis
		}
		out.Sections[k] = v
	}
	return out
}
