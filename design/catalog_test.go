package design

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loventy.org/models"
)

func TestPaletteByIDFallsBackToFirstEntry(t *testing.T) {
	c := DefaultCatalog()

	known := c.PaletteByID("forest")
	assert.Equal(t, "forest", known.ID)

	unknown := c.PaletteByID("does-not-exist")
	assert.Equal(t, c.Palettes[0].ID, unknown.ID)

	empty := c.PaletteByID("")
	assert.Equal(t, c.Palettes[0].ID, empty.ID)
}

func TestFontByIDFallsBackToFirstEntry(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, "modern", c.FontByID("modern").ID)
	assert.Equal(t, c.Fonts[0].ID, c.FontByID("comic-sans").ID)
}

func TestPatternByID(t *testing.T) {
	c := DefaultCatalog()

	tile, ok := c.PatternByID("floral")
	require.True(t, ok)
	assert.NotEmpty(t, tile.TileURL)

	_, ok = c.PatternByID("none")
	assert.False(t, ok)

	_, ok = c.PatternByID("")
	assert.False(t, ok)

	_, ok = c.PatternByID("nonexistent")
	assert.False(t, ok)
}

func TestStylePresetUnknownStyleGetsClassic(t *testing.T) {
	c := DefaultCatalog()

	classic := c.StylePreset(models.StyleClassic)
	got := c.StylePreset(models.SectionStyle("brutalist"))
	assert.Equal(t, classic, got)
}

func TestDefaultSettingsCoversEverySectionKey(t *testing.T) {
	c := DefaultCatalog()
	s := c.DefaultSettings()

	assert.Equal(t, models.LayoutVertical, s.Layout)
	assert.Equal(t, c.Palettes[0].ID, s.ColorPaletteID)
	assert.Equal(t, c.Fonts[0].ID, s.FontFamilyID)
	for _, key := range models.AllSectionKeys {
		_, ok := s.Sections[key]
		assert.Truef(t, ok, "missing section entry %q", key)
	}
}

func TestNormalizeFillsMissingSectionsAndLayout(t *testing.T) {
	c := DefaultCatalog()

	s := models.DesignSettings{
		Layout: models.LayoutMode("diagonal"),
		Sections: map[models.SectionKey]models.SectionDesign{
			models.SectionHero: {Style: models.StyleModern},
		},
	}
	out := c.Normalize(s)

	assert.Equal(t, models.LayoutVertical, out.Layout)
	assert.Equal(t, models.StyleModern, out.Sections[models.SectionHero].Style)
	for _, key := range models.AllSectionKeys {
		_, ok := out.Sections[key]
		assert.Truef(t, ok, "missing section entry %q after normalize", key)
	}

	// input is untouched
	assert.Len(t, s.Sections, 1)
}

func TestNormalizeNilSectionsMap(t *testing.T) {
	c := DefaultCatalog()
	out := c.Normalize(models.DesignSettings{})
	assert.Len(t, out.Sections, len(models.AllSectionKeys))
}
