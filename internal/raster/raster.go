// Package raster converts line segments and circles into grid coordinates.
package raster

import (
	"math"

	"github.com/ryanlewis/gridplot/internal/common"
)

// LineKind classifies the segment from start to end. Diagonals are told apart
// by the y-ordering of the endpoints: start below end is ascending, start
// above end is descending.
func LineKind(start, end common.Coord) common.Kind {
	switch {
	case start.Y == end.Y:
		return common.HorizontalLine
	case start.X == end.X:
		return common.VerticalLine
	case start.Y < end.Y:
		return common.DiagonalAscending
	default:
		return common.DiagonalDescending
	}
}

// Line returns the cells of the segment from start to end using Bresenham's
// algorithm. The path starts at start, ends at end, and is 8-connected.
//
// Each step moves x and y only toward their endpoint values, so every point
// stays inside the bounding box of the two endpoints and never goes negative.
func Line(start, end common.Coord) []common.Coord {
	x0, y0 := int64(start.X), int64(start.Y)
	x1, y1 := int64(end.X), int64(end.Y)

	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := int64(1)
	if x0 > x1 {
		sx = -1
	}
	sy := int64(1)
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	x, y := x0, y0

	pts := make([]common.Coord, 0, max(dx, dy)+1)
	// dx+dy+1 steps always suffice; the cap only guards the loop.
	for range dx + dy + 1 {
		pts = append(pts, common.Coord{X: uint32(x), Y: uint32(y)})
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
	return pts
}

// Circle returns the cells of a circle using the midpoint algorithm, each
// point once, in the order they are first generated. Radius 0 yields the
// center alone.
//
// Points that would land below zero or beyond the uint32 range on either axis
// are dropped; the remaining points are unaffected.
func Circle(center common.Coord, radius uint32) []common.Coord {
	cx, cy := int64(center.X), int64(center.Y)
	x, y := int64(radius), int64(0)
	d := 1 - x

	seen := make(map[common.Coord]struct{}, 8*(x+1))
	pts := make([]common.Coord, 0, 8*(x+1))
	plot := func(px, py int64) {
		if px < 0 || py < 0 || px > math.MaxUint32 || py > math.MaxUint32 {
			return
		}
		c := common.Coord{X: uint32(px), Y: uint32(py)}
		if _, dup := seen[c]; dup {
			return
		}
		seen[c] = struct{}{}
		pts = append(pts, c)
	}

	for x >= y {
		plot(cx+x, cy+y)
		plot(cx+y, cy+x)
		plot(cx-y, cy+x)
		plot(cx-x, cy+y)
		plot(cx-x, cy-y)
		plot(cx-y, cy-x)
		plot(cx+y, cy-x)
		plot(cx+x, cy-y)

		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
	return pts
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
