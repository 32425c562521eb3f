package design

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loventy.org/models"
)

func boolPtr(b bool) *bool { return &b }

func TestResolveSectionHiddenReturnsNil(t *testing.T) {
	c := DefaultCatalog()

	d := models.SectionDesign{Visible: boolPtr(false)}
	assert.Nil(t, c.ResolveSection(models.SectionWelcome, d, "romance", "elegant"))
}

func TestResolveSectionAbsentVisibleMeansVisible(t *testing.T) {
	c := DefaultCatalog()

	r := c.ResolveSection(models.SectionWelcome, models.SectionDesign{}, "romance", "elegant")
	require.NotNil(t, r)
	assert.Equal(t, models.SectionWelcome, r.Key)
	assert.Equal(t, "romance", r.Palette.ID)
	assert.Equal(t, "elegant", r.Font.ID)
}

func TestResolveSectionBackgroundPrecedence(t *testing.T) {
	c := DefaultCatalog()

	// Image wins even when a pattern and color are also set.
	d := models.SectionDesign{
		BackgroundImageURL: "https://cdn.example.org/bg.jpg",
		BackgroundPattern:  "floral",
		BackgroundColor:    "#FFEEEE",
		BackgroundOpacity:  0.8,
	}
	r := c.ResolveSection(models.SectionHero, d, "", "")
	require.NotNil(t, r)
	assert.Equal(t, BackgroundImage, r.Background.Kind)
	assert.InDelta(t, 0.2, r.Background.OverlayAlpha, 1e-9)

	// Pattern without image.
	d = models.SectionDesign{BackgroundPattern: "dots", BackgroundColor: "#FFEEEE"}
	r = c.ResolveSection(models.SectionHero, d, "", "")
	require.NotNil(t, r)
	assert.Equal(t, BackgroundPatternTile, r.Background.Kind)
	assert.Equal(t, "#FFEEEE", r.Background.Color)

	// Plain color, defaulting to white when unset.
	r = c.ResolveSection(models.SectionHero, models.SectionDesign{}, "", "")
	require.NotNil(t, r)
	assert.Equal(t, BackgroundColor, r.Background.Kind)
	assert.Equal(t, "#FFFFFF", r.Background.Color)
}

func TestResolveSectionOpacityOutOfRangeMeansOpaque(t *testing.T) {
	c := DefaultCatalog()

	for _, opacity := range []float64{0, -0.3, 1.5} {
		d := models.SectionDesign{
			BackgroundImageURL: "https://cdn.example.org/bg.jpg",
			BackgroundOpacity:  opacity,
		}
		r := c.ResolveSection(models.SectionHero, d, "", "")
		require.NotNil(t, r)
		assert.Zerof(t, r.Background.OverlayAlpha, "opacity=%v", opacity)
	}
}

func TestResolvedBackgroundCSS(t *testing.T) {
	img := ResolvedBackground{
		Kind:         BackgroundImage,
		ImageURL:     "/img/x.jpg",
		OverlayAlpha: 0.25,
	}
	css := img.CSS()
	assert.Contains(t, css, "linear-gradient(rgba(255,255,255,0.25)")
	assert.Contains(t, css, "url('/img/x.jpg')")
	assert.Contains(t, css, "background-size:cover")

	img.Fit = "contain"
	assert.Contains(t, img.CSS(), "background-size:contain")

	tile := ResolvedBackground{Kind: BackgroundPatternTile, TileURL: "/p/dots.svg", Color: "#FFF"}
	assert.Equal(t, "background-image:url('/p/dots.svg');background-repeat:repeat;background-color:#FFF", tile.CSS())

	plain := ResolvedBackground{Kind: BackgroundColor, Color: "#ABCDEF"}
	assert.Equal(t, "background-color:#ABCDEF", plain.CSS())
}

func TestResolvedSectionClasses(t *testing.T) {
	c := DefaultCatalog()
	r := c.ResolveSection(models.SectionRSVP, models.SectionDesign{Style: models.StyleModern}, "", "")
	require.NotNil(t, r)

	classes := r.Classes()
	assert.Contains(t, classes, "invitation-section")
	assert.Contains(t, classes, "section-rsvp")
	assert.Contains(t, classes, "section-corner-lg")
}
