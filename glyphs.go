package gridplot

import (
	"fmt"
	"maps"
	"unicode"

	"github.com/ryanlewis/gridplot/internal/common"
)

// Glyphs maps each kind to the single character printed for its cells.
type Glyphs map[Kind]rune

// DefaultGlyphs returns a fresh copy of the built-in table:
//
//	background          ' '
//	circle              'o'
//	horizontal_line     '-'
//	vertical_line       '|'
//	diagonal_ascending  '/'
//	diagonal_descending '\'
func DefaultGlyphs() Glyphs {
	return Glyphs{
		KindBackground:         ' ',
		KindCircle:             'o',
		KindHorizontalLine:     '-',
		KindVerticalLine:       '|',
		KindDiagonalAscending:  '/',
		KindDiagonalDescending: '\\',
	}
}

// Clone returns a copy of g that can be modified independently.
func (g Glyphs) Clone() Glyphs {
	if g == nil {
		return Glyphs{}
	}
	return maps.Clone(g)
}

// ValidateGlyphs checks that g maps every kind and that every glyph
// occupies one printable cell.
func ValidateGlyphs(g Glyphs) error {
	for k := Kind(0); k < common.NumKinds; k++ {
		if _, ok := g[k]; !ok {
			return fmt.Errorf("%w: %v", ErrUnmappedKind, k)
		}
	}
	return checkGlyphRunes(g)
}

// checkGlyphRunes rejects glyphs that would break the row layout, such as
// newlines or other control characters.
func checkGlyphRunes(g Glyphs) error {
	for k, r := range g {
		if !k.Valid() {
			return fmt.Errorf("%w: %v", ErrUnknownKind, k)
		}
		if r != ' ' && !unicode.IsGraphic(r) {
			return fmt.Errorf("%w: %v has %U", ErrInvalidGlyph, k, r)
		}
	}
	return nil
}

// ParseGlyphs converts a name-keyed table, as found in scene files, into
// Glyphs. Each value must be exactly one character.
func ParseGlyphs(named map[string]string) (Glyphs, error) {
	g := make(Glyphs, len(named))
	for name, s := range named {
		k, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		runes := []rune(s)
		if len(runes) != 1 {
			return nil, fmt.Errorf("%w: %s must be one character, got %q", ErrInvalidGlyph, name, s)
		}
		g[k] = runes[0]
	}
	if err := checkGlyphRunes(g); err != nil {
		return nil, err
	}
	return g, nil
}
