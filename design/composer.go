package design

import (
	"loventy.org/models"
)

// ComposedSection pairs a section's resolved container with its content.
type ComposedSection struct {
	Resolved *ResolvedSection
	Content  *SectionContent
}

// Key of the underlying section.
func (c ComposedSection) Key() models.SectionKey { return c.Content.Key }

// Compose assembles the ordered, visibility-filtered section list for one
// invitation. The order is the fixed models.SectionOrder; users toggle
// visibility but never reorder. A section appears only when its design
// toggle allows it AND its builder finds backing data.
func (c *Catalog) Compose(settings models.DesignSettings, in PreviewInput) []ComposedSection {
	settings = c.Normalize(settings)

	out := make([]ComposedSection, 0, len(models.SectionOrder))
	for _, key := range models.SectionOrder {
		resolved := c.ResolveSection(key, settings.Sections[key], settings.ColorPaletteID, settings.FontFamilyID)
		if resolved == nil {
			continue
		}
		builder, ok := builders[key]
		if !ok {
			continue
		}
		content := builder(in)
		if content == nil {
			continue
		}
		out = append(out, ComposedSection{Resolved: resolved, Content: content})
	}
	return out
}

// Pager drives the horizontal ("flipbook") layout: exactly one section shows
// at a time. Navigation is bounded, never wrapping; moving past either edge
// is a no-op, not an error.
type Pager struct {
	active int
	count  int
}

// NewPager starts at index 0.
func NewPager(count int) Pager {
	if count < 0 {
		count = 0
	}
	return Pager{count: count}
}

// Active is the current section index.
func (p Pager) Active() int { return p.active }

// Count is the number of visible sections.
func (p Pager) Count() int { return p.count }

// HasNext reports whether Next would move.
func (p Pager) HasNext() bool { return p.active < p.count-1 }

// HasPrev reports whether Prev would move.
func (p Pager) HasPrev() bool { return p.active > 0 }

// Next advances one section, bounded at the last index.
func (p Pager) Next() Pager {
	if p.HasNext() {
		p.active++
	}
	return p
}

// Prev moves back one section, bounded at 0.
func (p Pager) Prev() Pager {
	if p.HasPrev() {
		p.active--
	}
	return p
}

// JumpTo moves directly to a dot-indicator index; out-of-range jumps are
// no-ops.
func (p Pager) JumpTo(i int) Pager {
	if i >= 0 && i < p.count {
		p.active = i
	}
	return p
}
