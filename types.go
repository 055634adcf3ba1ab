package gridplot

import (
	"errors"
	"iter"
	"slices"

	"github.com/ryanlewis/gridplot/internal/common"
	"github.com/ryanlewis/gridplot/internal/compositor"
	"github.com/ryanlewis/gridplot/internal/debug"
)

// Coord is a grid cell address in the non-negative quadrant. X grows
// rightward and Y grows upward, so (0,0) is the bottom-left cell.
type Coord = common.Coord

// Extent is the size of a canvas in cells: Width = max(x)+1, Height = max(y)+1
// over the coordinates it was inferred from.
type Extent = common.Extent

// Kind labels a shape and every canvas cell it covers.
type Kind = common.Kind

// Shape kinds. KindBackground is the zero value and marks uncovered cells.
const (
	KindBackground         = common.Background
	KindCircle             = common.Circle
	KindHorizontalLine     = common.HorizontalLine
	KindVerticalLine       = common.VerticalLine
	KindDiagonalAscending  = common.DiagonalAscending
	KindDiagonalDescending = common.DiagonalDescending
)

// Kinds returns every defined kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, common.NumKinds)
	for k := Kind(0); k < common.NumKinds; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind returns the kind named by its String form, e.g. "vertical_line".
func ParseKind(name string) (Kind, error) {
	return common.ParseKind(name)
}

// Common errors returned by the gridplot package
var (
	// ErrEmptyInput is returned when Composite has no coordinates to merge
	ErrEmptyInput = common.ErrEmptyInput

	// ErrUnmappedKind is returned when the glyph table lacks a kind that
	// must be drawn. It signals a programming error, not bad input.
	ErrUnmappedKind = common.ErrUnmappedKind

	// ErrInvalidGlyph is returned when a glyph is a control character
	ErrInvalidGlyph = common.ErrInvalidGlyph

	// ErrUnknownKind is returned when a kind name is not recognised
	ErrUnknownKind = common.ErrUnknownKind

	// ErrNilInput is returned when Composite, Rows or RenderTo receive a nil
	// shape or canvas
	ErrNilInput = errors.New("nil input")

	// ErrBadScene is returned when a scene document is malformed
	ErrBadScene = errors.New("bad scene")
)

// Source is anything Composite accepts: a *Shape or a *Canvas. The set is
// closed; no other type can implement it.
type Source interface {
	isSource()
}

// Shape is an immutable, labelled set of grid coordinates produced by Line or
// Circle. All coordinates share the shape's Kind and none repeats.
type Shape struct {
	kind   Kind
	coords []Coord
}

func (*Shape) isSource() {}

// Kind returns the shape's label.
func (s *Shape) Kind() Kind {
	return s.kind
}

// Len returns the number of coordinates in the shape.
func (s *Shape) Len() int {
	return len(s.coords)
}

// Coords returns a copy of the shape's coordinates in the order they were
// generated. For lines this walks from start to end.
func (s *Shape) Coords() []Coord {
	return slices.Clone(s.coords)
}

// Contains reports whether c is one of the shape's coordinates.
func (s *Shape) Contains(c Coord) bool {
	return slices.Contains(s.coords, c)
}

// Extent returns the smallest extent that holds the shape.
func (s *Shape) Extent() Extent {
	ext, _ := compositor.InferExtent([]compositor.Layer{s.layer()})
	return ext
}

func (s *Shape) layer() compositor.Layer {
	return compositor.Layer{Kind: s.kind, Coords: s.coords}
}

// Canvas is a composited grid: every cell inside its Extent carries exactly
// one label. A Canvas is never modified after Composite returns it and is
// safe for concurrent reads.
type Canvas struct {
	grid *compositor.Grid
}

func (*Canvas) isSource() {}

// Extent returns the canvas size.
func (c *Canvas) Extent() Extent {
	return c.grid.Extent
}

// Len returns the number of cells, always Width*Height.
func (c *Canvas) Len() int {
	return len(c.grid.Cells)
}

// At returns the label at p, or false when p lies outside the canvas.
func (c *Canvas) At(p Coord) (Kind, bool) {
	if !c.grid.Extent.Contains(p) {
		return KindBackground, false
	}
	return c.grid.At(p), true
}

// Cells yields every cell in scan order: top row (y = height-1) first, x
// increasing within a row.
func (c *Canvas) Cells() iter.Seq2[Coord, Kind] {
	return func(yield func(Coord, Kind) bool) {
		w, h := c.grid.Extent.Width, c.grid.Extent.Height
		for y := h - 1; y >= 0; y-- {
			for x := 0; x < w; x++ {
				if !yield(Coord{X: uint32(x), Y: uint32(y)}, c.grid.Cells[y*w+x]) {
					return
				}
			}
		}
	}
}

// Coords returns every cell coordinate in scan order.
func (c *Canvas) Coords() []Coord {
	out := make([]Coord, 0, c.Len())
	for p := range c.Cells() {
		out = append(out, p)
	}
	return out
}

// layer flattens the canvas into a merge input. Only the labels survive;
// how the canvas was built is not retained.
func (c *Canvas) layer() compositor.Layer {
	w := c.grid.Extent.Width
	coords := make([]Coord, len(c.grid.Cells))
	for i := range coords {
		coords[i] = Coord{X: uint32(i % w), Y: uint32(i / w)}
	}
	return compositor.Layer{Coords: coords, Labels: c.grid.Cells}
}

// Row is one rendered line of glyphs, left to right.
type Row []rune

func (r Row) String() string {
	return string(r)
}

// Option configures compositing and rendering.
type Option func(*options)

type options struct {
	glyphs         Glyphs
	trimWhitespace bool
	workers        int
	debug          *debug.Session
}

func defaultOptions() *options {
	return &options{}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.glyphs == nil {
		o.glyphs = DefaultGlyphs()
	}
	return o
}

// WithGlyphs replaces the whole glyph table. Kinds missing from g cannot be
// rendered; drawing one fails with ErrUnmappedKind.
func WithGlyphs(g Glyphs) Option {
	snap := g.Clone()
	return func(opts *options) {
		opts.glyphs = snap.Clone()
	}
}

// WithGlyph sets the glyph for a single kind, starting from the default table
// unless WithGlyphs came first.
func WithGlyph(k Kind, r rune) Option {
	return func(opts *options) {
		if opts.glyphs == nil {
			opts.glyphs = DefaultGlyphs()
		}
		opts.glyphs[k] = r
	}
}

// WithTrimWhitespace removes trailing background spaces from each rendered
// row. By default rows keep the full canvas width.
func WithTrimWhitespace(trim bool) Option {
	return func(opts *options) {
		opts.trimWhitespace = trim
	}
}

// WithWorkers spreads Composite over n goroutines, each filling a band of
// rows. The result is identical to the sequential merge. Values below 2
// disable it.
func WithWorkers(n int) Option {
	return func(opts *options) {
		opts.workers = n
	}
}

// WithDebug sends compose, render and scene events to s. Rows emits its
// render events while the sequence is ranged over, once per pass. A nil
// session disables tracing.
func WithDebug(s *debug.Session) Option {
	return func(opts *options) {
		opts.debug = s
	}
}
