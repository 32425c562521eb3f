package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loventy.org/design"
	"loventy.org/models"
)

func newDesignFixture() (*fakeInvitationRepo, *DesignService) {
	repo := newFakeInvitationRepo(publishedInvitation(1, "abc", 10))
	svc := NewDesignServiceWith(repo, design.DefaultCatalog(), nil)
	return repo, svc
}

func TestGetSettingsNormalizesStoredTree(t *testing.T) {
	_, svc := newDesignFixture()

	settings, err := svc.GetSettings(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, models.LayoutVertical, settings.Layout)
	assert.Len(t, settings.Sections, len(models.AllSectionKeys))

	_, err = svc.GetSettings(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrDesignForbidden)

	_, err = svc.GetSettings(context.Background(), 2, 10)
	assert.ErrorIs(t, err, ErrDesignNotFound)
}

func TestSetSectionFieldPersistsFullTree(t *testing.T) {
	repo, svc := newDesignFixture()
	ctx := context.Background()

	updated, err := svc.SetSectionField(ctx, 1, 10, models.SectionHero, design.FieldBackgroundColor, "#FFEEDD")
	require.NoError(t, err)
	assert.Equal(t, "#FFEEDD", updated.Sections[models.SectionHero].BackgroundColor)

	stored, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	storedSettings := stored.DesignSettings()
	assert.Equal(t, "#FFEEDD", storedSettings.Sections[models.SectionHero].BackgroundColor)
	// the whole tree was written, not a patch
	assert.Len(t, storedSettings.Sections, len(models.AllSectionKeys))
}

func TestSetSectionFieldRejectsBadValues(t *testing.T) {
	_, svc := newDesignFixture()
	ctx := context.Background()

	_, err := svc.SetSectionField(ctx, 1, 10, models.SectionHero, design.FieldBackgroundOpacity, 3.0)
	assert.ErrorIs(t, err, ErrDesignUpdateFailed)

	_, err = svc.SetSectionField(ctx, 1, 10, models.SectionKey("footer"), design.FieldVisible, false)
	assert.ErrorIs(t, err, ErrDesignUpdateFailed)

	_, err = svc.SetSectionField(ctx, 1, 10, models.SectionHero, design.SectionField("margin"), "2em")
	assert.ErrorIs(t, err, ErrDesignUpdateFailed)
}

func TestSetGlobalField(t *testing.T) {
	repo, svc := newDesignFixture()
	ctx := context.Background()

	updated, err := svc.SetGlobalField(ctx, 1, 10, design.FieldLayout, "horizontal")
	require.NoError(t, err)
	assert.Equal(t, models.LayoutHorizontal, updated.Layout)

	stored, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.LayoutHorizontal, stored.DesignSettings().Layout)

	_, err = svc.SetGlobalField(ctx, 1, 10, design.FieldLayout, "spiral")
	assert.ErrorIs(t, err, ErrDesignUpdateFailed)
}

func TestReplaceSettings(t *testing.T) {
	repo, svc := newDesignFixture()
	ctx := context.Background()

	theme := models.DesignSettings{
		Layout:         models.LayoutHorizontal,
		ColorPaletteID: "noir",
		FontFamilyID:   "script",
	}
	require.NoError(t, svc.ReplaceSettings(ctx, 1, 10, theme))

	stored, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	settings := stored.DesignSettings()
	assert.Equal(t, "noir", settings.ColorPaletteID)
	// normalization filled the per-section entries the theme left out
	assert.Len(t, settings.Sections, len(models.AllSectionKeys))

	assert.ErrorIs(t, svc.ReplaceSettings(ctx, 1, 99, theme), ErrDesignForbidden)
}
