// Package compositor merges labelled coordinate sets into a dense canvas grid.
package compositor

import (
	"sync"

	"github.com/ryanlewis/gridplot/internal/common"
)

// Layer is one merge input. Shapes carry a single Kind for every coordinate;
// flattened canvases carry one label per coordinate in Labels.
type Layer struct {
	Kind   common.Kind
	Coords []common.Coord
	// Labels, when non-nil, holds a label for each entry of Coords and
	// overrides Kind.
	Labels []common.Kind
}

func (l *Layer) labelAt(i int) common.Kind {
	if l.Labels != nil {
		return l.Labels[i]
	}
	return l.Kind
}

// Grid is a fully populated canvas: one label per cell, row-major, row 0 at y=0.
type Grid struct {
	Extent common.Extent
	Cells  []common.Kind
}

// At returns the label at c. c must lie inside the extent.
func (g *Grid) At(c common.Coord) common.Kind {
	return g.Cells[int(c.Y)*g.Extent.Width+int(c.X)]
}

// Options controls a merge.
type Options struct {
	// Workers is the number of goroutines used to fill the grid. Values
	// below 2 merge sequentially.
	Workers int
}

// InferExtent returns the extent covering every coordinate of every layer.
func InferExtent(layers []Layer) (common.Extent, error) {
	var maxX, maxY uint32
	found := false
	for i := range layers {
		for _, c := range layers[i].Coords {
			found = true
			maxX = max(maxX, c.X)
			maxY = max(maxY, c.Y)
		}
	}
	if !found {
		return common.Extent{}, common.ErrEmptyInput
	}
	return common.Extent{Width: int(maxX) + 1, Height: int(maxY) + 1}, nil
}

// Merge paints layers onto a background grid in order. Where layers share a
// coordinate the later layer wins. Merge never modifies its inputs.
func Merge(layers []Layer, opts *Options) (*Grid, error) {
	if len(layers) == 0 {
		return nil, common.ErrEmptyInput
	}
	ext, err := InferExtent(layers)
	if err != nil {
		return nil, err
	}

	// The zero Kind is Background, so a fresh slice is already filled.
	g := &Grid{Extent: ext, Cells: make([]common.Kind, ext.Cells())}

	workers := 1
	if opts != nil {
		workers = opts.Workers
	}
	if workers < 2 || ext.Height < 2 {
		paintBand(g, layers, 0, uint32(ext.Height))
		return g, nil
	}

	// Each worker owns a band of rows and replays every layer in input order,
	// so precedence does not depend on scheduling.
	workers = min(workers, ext.Height)
	rows := (ext.Height + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < ext.Height; lo += rows {
		hi := min(lo+rows, ext.Height)
		wg.Add(1)
		go func(lo, hi uint32) {
			defer wg.Done()
			paintBand(g, layers, lo, hi)
		}(uint32(lo), uint32(hi))
	}
	wg.Wait()
	return g, nil
}

// paintBand writes every layer coordinate with lo <= y < hi.
func paintBand(g *Grid, layers []Layer, lo, hi uint32) {
	w := g.Extent.Width
	for i := range layers {
		l := &layers[i]
		for j, c := range l.Coords {
			if c.Y < lo || c.Y >= hi {
				continue
			}
			g.Cells[int(c.Y)*w+int(c.X)] = l.labelAt(j)
		}
	}
}
