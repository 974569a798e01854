// seehuhn.de/go/fieldview - robot field visualisation
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package raster

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// transformLinear applies the 2×2 part of the CTM to v.
func (r *Rasteriser) transformLinear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y,
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y,
	}
}

// flattenQuadratic approximates a quadratic Bézier by line segments.
// All points are in user space, the tolerance is measured in device space.
func (r *Rasteriser) flattenQuadratic(p0, p1, p2 vec.Vec2, emit func(from, to vec.Vec2)) {
	e := p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)
	errDev := r.transformLinear(e).Length()

	n := 1
	if errDev > r.Flatness {
		n = int(min(math.Ceil(math.Sqrt(errDev/r.Flatness)), maxCurveSegments))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		pt := p0.Mul(omt * omt).Add(p1.Mul(2 * omt * t)).Add(p2.Mul(t * t))
		emit(prev, pt)
		prev = pt
	}
}

// flattenCubic approximates a cubic Bézier by line segments, using Wang's
// formula for the number of segments.
func (r *Rasteriser) flattenCubic(p0, p1, p2, p3 vec.Vec2, emit func(from, to vec.Vec2)) {
	d1 := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2))
	d2 := r.transformLinear(p1.Sub(p2.Mul(2)).Add(p3))

	n := 1
	if m := max(d1.Length(), d2.Length()); m > 0 {
		nFloat := math.Sqrt(3 * m / (4 * r.Flatness))
		if nFloat > 1 {
			n = int(min(math.Ceil(nFloat), maxCurveSegments))
		}
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		omt2 := omt * omt
		t2 := t * t
		pt := p0.Mul(omt2 * omt).
			Add(p1.Mul(3 * omt2 * t)).
			Add(p2.Mul(3 * omt * t2)).
			Add(p3.Mul(t2 * t))
		emit(prev, pt)
		prev = pt
	}
}

// walkPath calls segment for every straight piece of p after curve
// flattening, and subpath at the start and end of every subpath.
// Open subpaths are reported with closed == false.
func (r *Rasteriser) walkPath(p *path.Data, segment func(from, to vec.Vec2), subpath func(start vec.Vec2, closed bool)) {
	var current, start vec.Vec2
	open := false

	coordIdx := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if open && subpath != nil {
				subpath(start, false)
			}
			current = p.Coords[coordIdx]
			start = current
			open = true
			coordIdx++

		case path.CmdLineTo:
			segment(current, p.Coords[coordIdx])
			current = p.Coords[coordIdx]
			coordIdx++

		case path.CmdQuadTo:
			r.flattenQuadratic(current, p.Coords[coordIdx], p.Coords[coordIdx+1], segment)
			current = p.Coords[coordIdx+1]
			coordIdx += 2

		case path.CmdCubeTo:
			r.flattenCubic(current, p.Coords[coordIdx], p.Coords[coordIdx+1], p.Coords[coordIdx+2], segment)
			current = p.Coords[coordIdx+2]
			coordIdx += 3

		case path.CmdClose:
			if current != start {
				segment(current, start)
			}
			current = start
			if open && subpath != nil {
				subpath(start, true)
			}
			open = false
		}
	}
	if open && subpath != nil {
		subpath(start, false)
	}
}

// beginEdges empties the edge list.
func (r *Rasteriser) beginEdges() {
	r.edges = r.edges[:0]
	r.bboxFirst = true
}

// addEdge transforms a user-space segment to device space and stores it.
func (r *Rasteriser) addEdge(p0, p1 vec.Vec2) {
	dx0 := r.CTM[0]*p0.X + r.CTM[2]*p0.Y + r.CTM[4]
	dy0 := r.CTM[1]*p0.X + r.CTM[3]*p0.Y + r.CTM[5]
	dx1 := r.CTM[0]*p1.X + r.CTM[2]*p1.Y + r.CTM[4]
	dy1 := r.CTM[1]*p1.X + r.CTM[3]*p1.Y + r.CTM[5]

	dy := dy1 - dy0
	if dy > -horizontalEdgeThreshold && dy < horizontalEdgeThreshold {
		return
	}
	if s := dx0 + dy0 + dx1 + dy1; math.IsNaN(s) || math.IsInf(s, 0) {
		return
	}

	r.edges = append(r.edges, edge{
		x0: dx0, y0: dy0,
		x1: dx1, y1: dy1,
		dxdy: (dx1 - dx0) / dy,
	})

	if r.bboxFirst {
		r.devXMin, r.devXMax = min(dx0, dx1), max(dx0, dx1)
		r.devYMin, r.devYMax = min(dy0, dy1), max(dy0, dy1)
		r.bboxFirst = false
		return
	}
	r.devXMin = min(r.devXMin, dx0, dx1)
	r.devXMax = max(r.devXMax, dx0, dx1)
	r.devYMin = min(r.devYMin, dy0, dy1)
	r.devYMax = max(r.devYMax, dy0, dy1)
}

// edgeBounds returns the pixel range touched by the collected edges,
// clamped to the clip rectangle.
func (r *Rasteriser) edgeBounds() (xMin, xMax, yMin, yMax int, ok bool) {
	if len(r.edges) == 0 {
		return 0, 0, 0, 0, false
	}

	// clamp before converting, far away coordinates overflow int
	xMin = clampInt(math.Floor(r.devXMin), r.Clip.LLx, r.Clip.URx)
	xMax = clampInt(math.Floor(r.devXMax)+1, r.Clip.LLx, r.Clip.URx)
	yMin = clampInt(math.Floor(r.devYMin), r.Clip.LLy, r.Clip.URy)
	yMax = clampInt(math.Floor(r.devYMax)+1, r.Clip.LLy, r.Clip.URy)
	if xMin >= xMax || yMin >= yMax {
		return 0, 0, 0, 0, false
	}
	return xMin, xMax, yMin, yMax, true
}

// clampInt limits v to [lo, hi] and converts the result to int.
func clampInt(v, lo, hi float64) int {
	return int(min(max(v, lo), hi))
}
