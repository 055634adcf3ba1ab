package renderer

import (
	"errors"

	"github.com/ryanlewis/gridplot/internal/common"
	"github.com/ryanlewis/gridplot/internal/debug"
)

// Error definitions for the renderer package
var (
	// ErrNilGrid is returned when a nil grid is provided to Render
	ErrNilGrid = errors.New("grid cannot be nil")
)

// Options contains rendering options passed from the main package
type Options struct {
	// Glyphs maps each label to the character printed for it
	Glyphs map[common.Kind]rune
	// TrimWhitespace removes trailing spaces from each row
	TrimWhitespace bool
	// Debug receives render events when non-nil
	Debug *debug.Session
}
