package design

import (
	"fmt"
	"strings"

	"loventy.org/models"
)

// BackgroundKind says which branch of the background precedence applied.
type BackgroundKind int

const (
	BackgroundColor BackgroundKind = iota
	BackgroundImage
	BackgroundPatternTile
)

// ResolvedBackground is the computed background of one section.
type ResolvedBackground struct {
	Kind BackgroundKind

	// Color branch (also the fallback under a pattern tile).
	Color string

	// Image branch: the image sits beneath a semi-transparent white
	// overlay whose alpha is 1 - backgroundOpacity.
	ImageURL     string
	OverlayAlpha float64
	Fit          string

	// Pattern branch.
	TileURL string
}

// CSS renders the background as an inline style fragment.
func (b ResolvedBackground) CSS() string {
	switch b.Kind {
	case BackgroundImage:
		return fmt.Sprintf(
			"background-image:linear-gradient(rgba(255,255,255,%.2f),rgba(255,255,255,%.2f)),url('%s');background-size:%s;background-position:center",
			b.OverlayAlpha, b.OverlayAlpha, b.ImageURL, b.fitOrCover(),
		)
	case BackgroundPatternTile:
		return fmt.Sprintf("background-image:url('%s');background-repeat:repeat;background-color:%s", b.TileURL, b.Color)
	default:
		return "background-color:" + b.Color
	}
}

func (b ResolvedBackground) fitOrCover() string {
	if b.Fit != "" {
		return b.Fit
	}
	return "cover"
}

// ResolvedSection is a section's design resolved against the catalog: the
// styled container a section's content gets wrapped in.
type ResolvedSection struct {
	Key        models.SectionKey
	Palette    ColorPalette
	Font       FontPair
	Background ResolvedBackground
	Preset     StylePreset
	Design     models.SectionDesign
}

// Classes joins the preset layout classes for the template.
func (r ResolvedSection) Classes() string {
	return strings.Join([]string{
		"invitation-section",
		"section-" + string(r.Key),
		r.Preset.PaddingClass,
		r.Preset.BorderClass,
		r.Preset.CornerClass,
	}, " ")
}

// ResolveSection turns one SectionDesign plus the global palette/font choice
// into a styled container description, or nil when the section is toggled
// off. A nil result is a true no-op: downstream pagination and counting
// skip the section entirely.
//
// Background precedence: image with white overlay, then pattern tile, then
// plain color (white when unset). Pure; no side effects.
func (c *Catalog) ResolveSection(key models.SectionKey, d models.SectionDesign, paletteID, fontID string) *ResolvedSection {
	if !d.IsVisible() {
		return nil
	}

	resolved := &ResolvedSection{
		Key:     key,
		Palette: c.PaletteByID(paletteID),
		Font:    c.FontByID(fontID),
		Preset:  c.StylePreset(d.Style),
		Design:  d,
	}

	color := d.BackgroundColor
	if color == "" {
		color = "#FFFFFF"
	}

	switch {
	case d.BackgroundImageURL != "":
		opacity := d.BackgroundOpacity
		if opacity <= 0 || opacity > 1 {
			opacity = 1
		}
		resolved.Background = ResolvedBackground{
			Kind:         BackgroundImage,
			ImageURL:     d.BackgroundImageURL,
			OverlayAlpha: 1 - opacity,
			Fit:          d.BackgroundFit,
			Color:        color,
		}
	default:
		if tile, ok := c.PatternByID(d.BackgroundPattern); ok {
			resolved.Background = ResolvedBackground{
				Kind:    BackgroundPatternTile,
				TileURL: tile.TileURL,
				Color:   color,
			}
		} else {
			resolved.Background = ResolvedBackground{Kind: BackgroundColor, Color: color}
		}
	}

	return resolved
}
