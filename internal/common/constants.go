// Package common provides shared value types and errors for internal packages.
// The root gridplot package aliases these types, so they are the public API.
package common

import (
	"errors"
	"fmt"
)

// Coord is a grid cell address. X grows rightward, Y grows upward.
type Coord struct {
	X, Y uint32
}

// Less orders coordinates the way a canvas is scanned: Y descending, then X ascending.
func (c Coord) Less(o Coord) bool {
	if c.Y != o.Y {
		return c.Y > o.Y
	}
	return c.X < o.X
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Extent is the width and height, in cells, of the smallest box anchored at the
// origin that contains a set of coordinates.
type Extent struct {
	Width, Height int
}

// Cells returns Width*Height.
func (e Extent) Cells() int {
	return e.Width * e.Height
}

// Contains reports whether c lies inside the extent.
func (e Extent) Contains(c Coord) bool {
	return int(c.X) < e.Width && int(c.Y) < e.Height
}

// Kind labels a canvas cell with the kind of shape that covers it.
// The zero value is Background.
type Kind uint8

// Shape kinds. NumKinds must stay last.
const (
	Background Kind = iota
	Circle
	HorizontalLine
	VerticalLine
	DiagonalAscending
	DiagonalDescending
	NumKinds
)

var kindNames = [NumKinds]string{
	Background:         "background",
	Circle:             "circle",
	HorizontalLine:     "horizontal_line",
	VerticalLine:       "vertical_line",
	DiagonalAscending:  "diagonal_ascending",
	DiagonalDescending: "diagonal_descending",
}

func (k Kind) String() string {
	if k < NumKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k < NumKinds
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Common errors (must match public API in gridplot package)
var (
	// ErrEmptyInput is returned when a composite has nothing to merge
	ErrEmptyInput = errors.New("empty input")
	// ErrUnmappedKind is returned when a glyph table has no entry for a kind
	ErrUnmappedKind = errors.New("unmapped shape kind")
	// ErrInvalidGlyph is returned when a glyph cannot be printed in a single cell
	ErrInvalidGlyph = errors.New("invalid glyph")
	// ErrUnknownKind is returned when a kind name does not match any kind
	ErrUnknownKind = errors.New("unknown shape kind")
)
