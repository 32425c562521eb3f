// Package design holds the invitation design system: the static catalog of
// palettes, fonts and patterns, the per-section renderer and the preview
// composer. The catalog is an injected value rather than package globals so
// the renderer stays testable with substitute catalogs.
package design

import (
	"loventy.org/models"
)

// ColorPalette is a named color preset referenced by ID from DesignSettings.
type ColorPalette struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// FontPair is a heading/body font preset.
type FontPair struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// BackgroundPattern is a tiling background preset. The "none" pattern is a
// valid catalog entry meaning no pattern.
type BackgroundPattern struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	TileURL string `json:"tile_url"`
}

// StylePreset is the fixed layout-class set one SectionStyle maps to. There
// is no numeric computation behind it.
type StylePreset struct {
	PaddingClass string
	BorderClass  string
	CornerClass  string
}

// Catalog is the read-only design constants table set.
type Catalog struct {
	Palettes []ColorPalette
	Fonts    []FontPair
	Patterns []BackgroundPattern

	stylePresets map[models.SectionStyle]StylePreset
}

// DefaultCatalog builds the production catalog.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Palettes: []ColorPalette{
			{ID: "romance", Name: "Romance", Primary: "#D4A5A5", Secondary: "#F3E5E5", Accent: "#9A6A6A", Background: "#FFF9F9", Text: "#4A3636"},
			{ID: "forest", Name: "Forêt", Primary: "#5B7B5E", Secondary: "#E3EBE2", Accent: "#33462F", Background: "#F7FAF6", Text: "#2E3A2C"},
			{ID: "ocean", Name: "Océan", Primary: "#5878A0", Secondary: "#E2E9F2", Accent: "#2F4662", Background: "#F6F9FC", Text: "#27344A"},
			{ID: "sunset", Name: "Crépuscule", Primary: "#D98E5C", Secondary: "#F8E8DC", Accent: "#9C5A2E", Background: "#FFFAF5", Text: "#4D3423"},
			{ID: "noir", Name: "Noir & Or", Primary: "#C2A24B", Secondary: "#EFE8D4", Accent: "#7C6428", Background: "#16151B", Text: "#F4EFE3"},
			{ID: "lavande", Name: "Lavande", Primary: "#9B8AC4", Secondary: "#ECE7F6", Accent: "#61518A", Background: "#FBFAFE", Text: "#393250"},
		},
		Fonts: []FontPair{
			{ID: "elegant", Name: "Élégant", Heading: "Playfair Display", Body: "Lato"},
			{ID: "classic", Name: "Classique", Heading: "Cormorant Garamond", Body: "Source Sans Pro"},
			{ID: "modern", Name: "Moderne", Heading: "Montserrat", Body: "Open Sans"},
			{ID: "script", Name: "Calligraphie", Heading: "Great Vibes", Body: "Nunito"},
			{ID: "serif", Name: "Sérif", Heading: "Libre Baskerville", Body: "PT Sans"},
		},
		Patterns: []BackgroundPattern{
			{ID: "none", Name: "Aucun", TileURL: ""},
			{ID: "floral", Name: "Floral", TileURL: "/static/patterns/floral.svg"},
			{ID: "geometric", Name: "Géométrique", TileURL: "/static/patterns/geometric.svg"},
			{ID: "dots", Name: "Pois", TileURL: "/static/patterns/dots.svg"},
			{ID: "leaves", Name: "Feuillage", TileURL: "/static/patterns/leaves.svg"},
		},
		stylePresets: map[models.SectionStyle]StylePreset{
			models.StyleClassic:  {PaddingClass: "section-pad-lg", BorderClass: "section-border-thin", CornerClass: "section-corner-none"},
			models.StyleModern:   {PaddingClass: "section-pad-md", BorderClass: "section-border-none", CornerClass: "section-corner-lg"},
			models.StyleRustic:   {PaddingClass: "section-pad-md", BorderClass: "section-border-double", CornerClass: "section-corner-sm"},
			models.StyleRomantic: {PaddingClass: "section-pad-xl", BorderClass: "section-border-ornate", CornerClass: "section-corner-md"},
		},
	}
}

// PaletteByID resolves a palette. An unknown or empty ID silently falls back
// to the first catalog entry; this default policy is deliberate and relied
// on by stored settings that predate a palette rename.
func (c *Catalog) PaletteByID(id string) ColorPalette {
	for _, p := range c.Palettes {
		if p.ID == id {
			return p
		}
	}
	return c.Palettes[0]
}

// FontByID resolves a font pair with the same index-0 fallback as palettes.
func (c *Catalog) FontByID(id string) FontPair {
	for _, f := range c.Fonts {
		if f.ID == id {
			return f
		}
	}
	return c.Fonts[0]
}

// PatternByID resolves a pattern. Unknown IDs and "none" report ok=false.
func (c *Catalog) PatternByID(id string) (BackgroundPattern, bool) {
	if id == "" || id == "none" {
		return BackgroundPattern{}, false
	}
	for _, p := range c.Patterns {
		if p.ID == id {
			return p, p.TileURL != ""
		}
	}
	return BackgroundPattern{}, false
}

// StylePreset maps a section style to its fixed class preset. Unknown styles
// get the classic preset.
func (c *Catalog) StylePreset(s models.SectionStyle) StylePreset {
	if p, ok := c.stylePresets[s]; ok {
		return p
	}
	return c.stylePresets[models.StyleClassic]
}

// DefaultSectionDesign is the catalog default for one section.
func DefaultSectionDesign() models.SectionDesign {
	return models.SectionDesign{
		Style:             models.StyleClassic,
		BackgroundOpacity: 0.85,
	}
}

// DefaultSettings builds a complete settings tree: an entry for every known
// section key, first palette/font, vertical layout.
func (c *Catalog) DefaultSettings() models.DesignSettings {
	sections := make(map[models.SectionKey]models.SectionDesign, len(models.AllSectionKeys))
	for _, key := range models.AllSectionKeys {
		sections[key] = DefaultSectionDesign()
	}
	return models.DesignSettings{
		Layout:         models.LayoutVertical,
		ColorPaletteID: c.Palettes[0].ID,
		FontFamilyID:   c.Fonts[0].ID,
		Sections:       sections,
		Animations:     true,
		Borders:        true,
		Spacing:        "normal",
	}
}

// Normalize repairs a settings tree loaded from storage: a missing section
// key is a defect, not a valid state, so absent entries are filled with the
// catalog default and an empty layout becomes vertical.
func (c *Catalog) Normalize(s models.DesignSettings) models.DesignSettings {
	out := s.Clone()
	if out.Sections == nil {
		out.Sections = make(map[models.SectionKey]models.SectionDesign, len(models.AllSectionKeys))
	}
	for _, key := range models.AllSectionKeys {
		if _, ok := out.Sections[key]; !ok {
			out.Sections[key] = DefaultSectionDesign()
		}
	}
	if out.Layout != models.LayoutVertical && out.Layout != models.LayoutHorizontal {
		out.Layout = models.LayoutVertical
	}
	return out
}
