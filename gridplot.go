// Package gridplot rasterizes line segments and circles onto an integer grid,
// composites them into a labelled canvas and renders the canvas as text.
//
// The grid is the non-negative quadrant with the origin at the bottom-left.
// Shapes are immutable, and Composite always returns a new Canvas, so shapes
// and canvases can be shared between goroutines without locking.
//
// Example:
//
//	canvas, err := gridplot.Composite([]gridplot.Source{
//	    gridplot.Line(gridplot.Coord{X: 0, Y: 0}, gridplot.Coord{X: 2, Y: 2}),
//	    gridplot.Line(gridplot.Coord{X: 0, Y: 0}, gridplot.Coord{X: 2, Y: 0}),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := gridplot.Render(canvas)
package gridplot

import (
	"fmt"
	"io"
	"iter"
	"strings"
	"time"

	"github.com/ryanlewis/gridplot/internal/compositor"
	"github.com/ryanlewis/gridplot/internal/debug"
	"github.com/ryanlewis/gridplot/internal/raster"
	"github.com/ryanlewis/gridplot/internal/renderer"
)

// Line rasterizes the segment from start to end with Bresenham's algorithm.
// Both endpoints are included and consecutive cells touch, sideways or
// diagonally. start == end yields a single cell.
//
// The kind is KindHorizontalLine for equal Y, KindVerticalLine for equal X,
// KindDiagonalAscending when start lies below end and KindDiagonalDescending
// when start lies above end. Reversing the endpoints of a diagonal swaps
// its kind.
func Line(start, end Coord) *Shape {
	return &Shape{
		kind:   raster.LineKind(start, end),
		coords: raster.Line(start, end),
	}
}

// Circle rasterizes a circle with the midpoint algorithm. Every cell appears
// once even where octants meet, and radius 0 yields just the center.
//
// Cells that would fall below zero on either axis, when the center is
// closer to an axis than radius, are dropped rather than wrapped.
func Circle(center Coord, radius uint32) *Shape {
	return &Shape{
		kind:   KindCircle,
		coords: raster.Circle(center, radius),
	}
}

// Composite merges inputs onto a new Canvas. The extent is inferred from the
// union of all coordinates; every cell starts as KindBackground and inputs are
// painted in order, so a later input wins wherever it overlaps an earlier
// one. Canvases contribute all of their cells, background included.
//
// Composite returns ErrEmptyInput when inputs hold no coordinates.
func Composite(inputs []Source, opts ...Option) (*Canvas, error) {
	o := buildOptions(opts)
	if len(inputs) == 0 {
		return nil, ErrEmptyInput
	}

	layers := make([]compositor.Layer, len(inputs))
	start := debug.ComposeStartData{Inputs: len(inputs), Workers: max(o.workers, 1)}
	for i, in := range inputs {
		switch src := in.(type) {
		case *Shape:
			if src == nil {
				return nil, fmt.Errorf("%w: input %d", ErrNilInput, i)
			}
			layers[i] = src.layer()
			start.Shapes++
		case *Canvas:
			if src == nil || src.grid == nil {
				return nil, fmt.Errorf("%w: input %d", ErrNilInput, i)
			}
			layers[i] = src.layer()
			start.Canvases++
		default:
			return nil, fmt.Errorf("%w: input %d", ErrNilInput, i)
		}
		start.Coordinates += len(layers[i].Coords)
	}

	var startTime time.Time
	if o.debug != nil {
		startTime = time.Now()
		o.debug.Emit("compose", "Start", start)
	}

	grid, err := compositor.Merge(layers, &compositor.Options{Workers: o.workers})
	if err != nil {
		o.debug.Emit("compose", "Error", debug.ErrorData{Type: "empty_input", Message: err.Error()})
		return nil, err
	}

	if o.debug != nil {
		o.debug.Emit("compose", "End", debug.ComposeEndData{
			Width:     grid.Extent.Width,
			Height:    grid.Extent.Height,
			Cells:     len(grid.Cells),
			Histogram: debug.KindHistogram(grid.Cells),
			ElapsedMs: time.Since(startTime).Milliseconds(),
		})
	}
	return &Canvas{grid: grid}, nil
}

// Rows returns the canvas as a lazy sequence of glyph rows: the top row
// (y = height-1) first, x increasing within each row. The sequence can be
// ranged over repeatedly and yields the same rows each time.
//
// Rows fails with ErrUnmappedKind when the canvas holds a kind the glyph
// table has no entry for, and with ErrNilInput for a nil canvas.
func Rows(c *Canvas, opts ...Option) (iter.Seq[Row], error) {
	if c == nil || c.grid == nil {
		return nil, fmt.Errorf("%w: canvas", ErrNilInput)
	}
	o := buildOptions(opts)
	ropts, err := o.toInternal()
	if err != nil {
		return nil, err
	}
	rows, err := renderer.Rows(c.grid, ropts)
	if err != nil {
		return nil, err
	}
	return func(yield func(Row) bool) {
		for row := range rows {
			if !yield(Row(row)) {
				return
			}
		}
	}, nil
}

// RenderTo writes the canvas to w, one line per row, rows separated by '\n'
// with no newline after the last row.
func RenderTo(w io.Writer, c *Canvas, opts ...Option) error {
	if c == nil || c.grid == nil {
		return fmt.Errorf("%w: canvas", ErrNilInput)
	}
	o := buildOptions(opts)
	ropts, err := o.toInternal()
	if err != nil {
		return err
	}
	return renderer.RenderTo(w, c.grid, ropts)
}

// Render returns the canvas as a string in the format of RenderTo.
func Render(c *Canvas, opts ...Option) (string, error) {
	var sb strings.Builder
	if c != nil && c.grid != nil {
		ext := c.grid.Extent
		if size := (ext.Width + 1) * ext.Height; size < 1<<20 {
			sb.Grow(size)
		}
	}
	if err := RenderTo(&sb, c, opts...); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (o *options) toInternal() (*renderer.Options, error) {
	if err := checkGlyphRunes(o.glyphs); err != nil {
		return nil, err
	}
	return &renderer.Options{
		Glyphs:         o.glyphs,
		TrimWhitespace: o.trimWhitespace,
		Debug:          o.debug,
	}, nil
}
