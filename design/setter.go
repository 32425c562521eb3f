package design

import (
	"errors"
	"fmt"

	"loventy.org/models"
)

// Typed design mutation. The editor UI used to address fields with dotted
// string paths ("sections.hero.visible"), which silently created unknown
// paths; here every settable field is a member of a finite enum and an
// unknown field or section is a typed error.

var (
	ErrUnknownSection    = errors.New("unknown section key")
	ErrUnknownField      = errors.New("unknown design field")
	ErrInvalidFieldValue = errors.New("invalid design field value")
)

// SectionField enumerates the settable per-section design properties.
type SectionField string

const (
	FieldStyle              SectionField = "style"
	FieldBackgroundColor    SectionField = "backgroundColor"
	FieldBackgroundImageURL SectionField = "backgroundImageUrl"
	FieldBackgroundFit      SectionField = "backgroundImageFit"
	FieldBackgroundPattern  SectionField = "backgroundPattern"
	FieldBackgroundOpacity  SectionField = "backgroundOpacity"
	FieldCoupleImageURL     SectionField = "coupleImageUrl"
	FieldCoupleImageShape   SectionField = "coupleImageShape"
	FieldDecorativeElement  SectionField = "decorativeElement"
	FieldVisible            SectionField = "visible"
)

// GlobalField enumerates the settable top-level design properties.
type GlobalField string

const (
	FieldLayout         GlobalField = "layout"
	FieldColorPaletteID GlobalField = "colorPaletteId"
	FieldFontFamilyID   GlobalField = "fontFamilyId"
	FieldAnimations     GlobalField = "animations"
	FieldBorders        GlobalField = "borders"
	FieldSpacing        GlobalField = "spacing"
)

// ApplySectionField sets one per-section field on a clone of the settings
// tree and returns the full replacement tree; there is no patch protocol,
// consumers always receive the complete settings.
func ApplySectionField(s models.DesignSettings, key models.SectionKey, field SectionField, value any) (models.DesignSettings, error) {
	out := s.Clone()
	sec, ok := out.Sections[key]
	if !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownSection, key)
	}

	switch field {
	case FieldStyle:
		v, err := stringValue(field, value)
		if err != nil {
			return s, err
		}
		sec.Style = models.SectionStyle(v)
	case FieldBackgroundColor:
		v, err := stringValue(field, value)
		if err != nil {
			return s, err
		}
		sec.BackgroundColor = v
	case FieldBackgroundImageURL:
		v, err := stringValue(field, value)
		if err != nil {
			return s, err
		}
		sec.BackgroundImageURL = v
	case FieldBackgroundFit:
		v, err := stringValue(field, value)
		if err != nil {
			return s, err
		}
		sec.BackgroundFit = v
	case FieldBackgroundPattern:
		v, err := stringValue(field, value)
		if err != nil {
			return s, err
		}
		sec.BackgroundPattern = v
	case FieldBackgroundOpacity:
		v, err := floatValue(field, value)
		if err != nil {
			return s, err
		}
		if v < 0 || v > 1 {
			return s, fmt.Errorf("%w: opacity %v out of [0,1]", ErrInvalidFieldValue, v)
		}
		sec.BackgroundOpacity = v
	case FieldCoupleImageURL:
		v, err := stringValue(field, value)
		if err != nil {
			return s, err
		}
		sec.CoupleImageURL = v
	case FieldCoupleImageShape:
		v, err := stringValue(field, value)
		if err != nil {
			return s, err
		}
		sec.CoupleImageShape = v
	case FieldDecorativeElement:
		v, err := stringValue(field, value)
		if err != nil {
			return s, err
		}
		sec.DecorativeElement = v
	case FieldVisible:
		v, err := boolValue(field, value)
		if err != nil {
			return s, err
		}
		sec.Visible = &v
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	out.Sections[key] = sec
	return out, nil
}

// ApplyGlobalField sets one top-level field on a clone of the settings tree.
func ApplyGlobalField(s models.DesignSettings, field GlobalField, value any) (models.DesignSettings, error) {
	out := s.Clone()
	switch field {
	case FieldLayout:
		v, err := stringValue(SectionField(field), value)
		if err != nil {
			return s, err
		}
		mode := models.LayoutMode(v)
		if mode != models.LayoutVertical && mode != models.LayoutHorizontal {
			return s, fmt.Errorf("%w: layout %q", ErrInvalidFieldValue, v)
		}
		out.Layout = mode
	case FieldColorPaletteID:
		v, err := stringValue(SectionField(field), value)
		if err != nil {
			return s, err
		}
		out.ColorPaletteID = v
	case FieldFontFamilyID:
		v, err := stringValue(SectionField(field), value)
		if err != nil {
			return s, err
		}
		out.FontFamilyID = v
	case FieldAnimations:
		v, err := boolValue(SectionField(field), value)
		if err != nil {
			return s, err
		}
		out.Animations = v
	case FieldBorders:
		v, err := boolValue(SectionField(field), value)
		if err != nil {
			return s, err
		}
		out.Borders = v
	case FieldSpacing:
		v, err := stringValue(SectionField(field), value)
		if err != nil {
			return s, err
		}
		out.Spacing = v
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return out, nil
}

func stringValue(field SectionField, value any) (string, error) {
	v, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s wants a string, got %T", ErrInvalidFieldValue, field, value)
	}
	return v, nil
}

func boolValue(field SectionField, value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		if v == "true" || v == "on" {
			return true, nil
		}
		if v == "false" || v == "off" || v == "" {
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: %s wants a bool, got %T", ErrInvalidFieldValue, field, value)
}

func floatValue(field SectionField, value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	}
	return 0, fmt.Errorf("%w: %s wants a number, got %T", ErrInvalidFieldValue, field, value)
}
