// Package renderer turns a composited grid into rows of glyphs.
package renderer

import (
	"fmt"
	"io"
	"iter"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ryanlewis/gridplot/internal/common"
	"github.com/ryanlewis/gridplot/internal/compositor"
	"github.com/ryanlewis/gridplot/internal/debug"
)

// checkGlyphs reports the first label in g that glyphs has no entry for.
func checkGlyphs(g *compositor.Grid, glyphs map[common.Kind]rune) error {
	var checked [256]bool
	for _, k := range g.Cells {
		if checked[k] {
			continue
		}
		checked[k] = true
		if _, ok := glyphs[k]; !ok {
			return fmt.Errorf("%w: %v", common.ErrUnmappedKind, k)
		}
	}
	return nil
}

// Rows returns the grid as a sequence of glyph rows, topmost row (y = height-1)
// first and x increasing within a row. The sequence is lazy and can be ranged
// over any number of times; each yielded row is a fresh slice. Every pass
// emits its own render/Start, render/Row and render/End events; End counts
// only the rows yielded before the caller stopped.
func Rows(g *compositor.Grid, opts *Options) (iter.Seq[[]rune], error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	if opts == nil {
		opts = &Options{}
	}
	glyphs := opts.Glyphs
	if err := checkGlyphs(g, glyphs); err != nil {
		return nil, err
	}
	trim := opts.TrimWhitespace
	session := opts.Debug
	w, h := g.Extent.Width, g.Extent.Height

	return func(yield func([]rune) bool) {
		var startTime time.Time
		if session != nil {
			startTime = time.Now()
			session.Emit("render", "Start", debug.RenderStartData{
				Width:          w,
				Height:         h,
				Glyphs:         debug.FormatGlyphs(glyphs),
				TrimWhitespace: trim,
			})
		}

		emitted := 0
		defer func() {
			if session != nil {
				session.Emit("render", "End", debug.RenderEndData{
					TotalRows:  emitted,
					TotalCells: emitted * w,
					ElapsedMs:  time.Since(startTime).Milliseconds(),
				})
			}
		}()

		for y := h - 1; y >= 0; y-- {
			cells := g.Cells[y*w : (y+1)*w]
			row := make([]rune, len(cells))
			for x, k := range cells {
				row[x] = glyphs[k]
			}
			if trim {
				row = trimRow(row)
			}
			if session != nil {
				session.Emit("render", "Row", debug.WriteRowData{
					RowIdx:  h - 1 - y,
					Y:       y,
					Trimmed: len(row) < len(cells),
				})
			}
			emitted++
			if !yield(row) {
				return
			}
		}
	}, nil
}

func trimRow(row []rune) []rune {
	n := len(row)
	for n > 0 && row[n-1] == ' ' {
		n--
	}
	return row[:n]
}

// RenderTo writes the grid's rows to w, separated by newlines with no
// trailing newline after the last row.
func RenderTo(w io.Writer, g *compositor.Grid, opts *Options) error {
	if g == nil {
		return ErrNilGrid
	}
	if opts == nil {
		opts = &Options{}
	}
	if err := checkGlyphs(g, opts.Glyphs); err != nil {
		opts.Debug.Emit("render", "Error", debug.ErrorData{
			Type:    "unmapped_kind",
			Message: err.Error(),
		})
		return err
	}

	var startTime time.Time
	if opts.Debug != nil {
		startTime = time.Now()
		opts.Debug.Emit("render", "Start", debug.RenderStartData{
			Width:          g.Extent.Width,
			Height:         g.Extent.Height,
			Glyphs:         debug.FormatGlyphs(opts.Glyphs),
			TrimWhitespace: opts.TrimWhitespace,
		})
	}

	n, err := writeTo(w, g, opts)
	if err != nil {
		return err
	}

	if opts.Debug != nil {
		opts.Debug.Emit("render", "End", debug.RenderEndData{
			TotalRows:    g.Extent.Height,
			TotalCells:   g.Extent.Cells(),
			ElapsedMs:    time.Since(startTime).Milliseconds(),
			BytesWritten: n,
		})
	}
	return nil
}

// writeTo encodes rows through a pooled buffer, flushing whenever it nears
// capacity. It returns the number of bytes written.
func writeTo(w io.Writer, g *compositor.Grid, opts *Options) (int, error) {
	buf := acquireWriteBuffer()
	defer func() { releaseWriteBuffer(buf) }()

	written := 0
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		n, err := w.Write(buf)
		written += n
		buf = buf[:0]
		return err
	}

	width, height := g.Extent.Width, g.Extent.Height
	for y := height - 1; y >= 0; y-- {
		cells := g.Cells[y*width : (y+1)*width]

		last := len(cells) - 1
		if opts.TrimWhitespace {
			for last >= 0 && opts.Glyphs[cells[last]] == ' ' {
				last--
			}
		}

		for x := 0; x <= last; x++ {
			buf = utf8.AppendRune(buf, opts.Glyphs[cells[x]])
			if len(buf) > flushThreshold {
				if err := flush(); err != nil {
					return written, err
				}
			}
		}
		if y > 0 {
			buf = append(buf, '\n')
		}

		if opts.Debug != nil {
			opts.Debug.Emit("render", "Row", debug.WriteRowData{
				RowIdx:  height - 1 - y,
				Y:       y,
				Trimmed: last < len(cells)-1,
			})
		}
	}
	if err := flush(); err != nil {
		return written, err
	}
	return written, nil
}

// Render returns the grid's rows as a single string.
func Render(g *compositor.Grid, opts *Options) (string, error) {
	var sb strings.Builder
	if g != nil {
		size := (g.Extent.Width + 1) * g.Extent.Height
		if size > 0 && size < 1<<20 {
			sb.Grow(size)
		}
	}
	if err := RenderTo(&sb, g, opts); err != nil {
		return "", err
	}
	return sb.String(), nil
}
