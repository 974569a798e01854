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
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/path"
)

// FillNonZero fills p using the nonzero winding rule.  The emit callback
// receives coverage row by row; its slice argument is only valid during
// the call.
func (r *Rasteriser) FillNonZero(p *path.Data, emit func(y, xMin int, coverage []float32)) {
	r.fill(p, fillNonZero, emit)
}

// FillEvenOdd fills p using the even-odd rule.  The emit callback receives
// coverage row by row; its slice argument is only valid during the call.
func (r *Rasteriser) FillEvenOdd(p *path.Data, emit func(y, xMin int, coverage []float32)) {
	r.fill(p, fillEvenOdd, emit)
}

type fillRule int

const (
	fillNonZero fillRule = iota
	fillEvenOdd
)

func (r *Rasteriser) fill(p *path.Data, rule fillRule, emit func(y, xMin int, coverage []float32)) {
	r.beginEdges()
	r.walkPath(p, r.addEdge, nil)
	r.scan(rule, emit)
}

// Coverage accumulation:
//
// For each pixel of a scanline two values are collected,
//
//	cover: signed vertical extent of the edges crossing the pixel
//	area:  cover weighted by the part of the pixel right of the crossing
//
// The coverage of pixel i is area[i] plus the sum of cover over all pixels
// left of i.  This is the signed area of the path inside the pixel; it is
// clamped (nonzero) or folded (even-odd) into [0, 1].

// scan converts the collected edges into coverage, using an active edge
// list which is swept from top to bottom.
func (r *Rasteriser) scan(rule fillRule, emit func(y, xMin int, coverage []float32)) {
	xMin, xMax, yMin, yMax, ok := r.edgeBounds()
	if !ok {
		return
	}
	width := xMax - xMin

	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(min(a.y0, a.y1), min(b.y0, b.y1))
	})

	r.activeIdx = r.activeIdx[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		yTop := float64(y)
		yBot := float64(y + 1)

		for next < len(r.edges) && min(r.edges[next].y0, r.edges[next].y1) < yBot {
			r.activeIdx = append(r.activeIdx, next)
			next++
		}
		if len(r.activeIdx) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)

		touched := false
		for i := 0; i < len(r.activeIdx); {
			e := &r.edges[r.activeIdx[i]]
			if max(e.y0, e.y1) <= yTop {
				last := len(r.activeIdx) - 1
				r.activeIdx[i] = r.activeIdx[last]
				r.activeIdx = r.activeIdx[:last]
				continue
			}
			if r.accumulateEdge(e, y, xMin, xMax) {
				touched = true
			}
			i++
		}
		if !touched {
			continue
		}

		if rule == fillNonZero {
			integrateNonZero(r.cover, r.area)
		} else {
			integrateEvenOdd(r.cover, r.area)
		}
		if trimmed, offset := trimZeros(r.cover); trimmed != nil {
			emit(y, xMin+offset, trimmed)
		}
	}
}

// accumulateEdge adds the part of e inside scanline y to the cover and
// area buffers, which are indexed by x - xMin.  Edges left of the buffer
// range contribute to the first pixel, edges right of it are ignored.
// The return value reports whether anything was added.
func (r *Rasteriser) accumulateEdge(e *edge, y, xMin, xMax int) bool {
	yTop := max(float64(y), min(e.y0, e.y1))
	yBot := min(float64(y+1), max(e.y0, e.y1))
	if yBot <= yTop {
		return false
	}

	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xTop := e.x0 + e.dxdy*(yTop-e.y0)
	xBot := e.x0 + e.dxdy*(yBot-e.y0)
	left := math.Floor(min(xTop, xBot))
	right := math.Floor(max(xTop, xBot))

	if left >= float64(xMax) {
		return false
	}
	if right < float64(xMin) {
		c := sign * float32(yBot-yTop)
		r.cover[0] += c
		r.area[0] += c
		return true
	}

	if left == right {
		r.addSegment(e, int(left), yTop, yBot, sign, xMin, xMax)
		return true
	}

	// Split the edge at the pixel column boundaries.  Everything left of
	// xMin goes into column xMin-1, everything right of xMax is dropped.
	pixLeft := int(max(left, float64(xMin-1)))
	pixRight := int(min(right, float64(xMax)))
	dydx := 1 / e.dxdy
	for pix := pixLeft; pix <= pixRight; pix++ {
		xa := float64(pix)
		if pix < xMin {
			xa = min(xTop, xBot)
		}
		ya := e.y0 + dydx*(xa-e.x0)
		yb := e.y0 + dydx*(float64(pix+1)-e.x0)
		segTop := max(min(ya, yb), yTop)
		segBot := min(max(ya, yb), yBot)
		if segBot <= segTop {
			continue
		}
		r.addSegment(e, pix, segTop, segBot, sign, xMin, xMax)
	}
	return true
}

// addSegment records the piece of e between segTop and segBot, which lies
// inside pixel column pix.
func (r *Rasteriser) addSegment(e *edge, pix int, segTop, segBot float64, sign float32, xMin, xMax int) {
	c := sign * float32(segBot-segTop)
	switch {
	case pix < xMin:
		r.cover[0] += c
		r.area[0] += c
	case pix < xMax:
		yMid := (segTop + segBot) / 2
		xFrac := e.x0 + e.dxdy*(yMid-e.y0) - float64(pix)
		idx := pix - xMin
		r.cover[idx] += c
		r.area[idx] += c * float32(1-xFrac)
	}
}

// integrateNonZero turns cover/area into coverage for the nonzero rule.
// The result is stored in cover.
func integrateNonZero(cover, area []float32) {
	var accum float32
	for i := range cover {
		raw := accum + area[i]
		accum += cover[i]
		cover[i] = min(abs32(raw), 1)
	}
}

// integrateEvenOdd turns cover/area into coverage for the even-odd rule.
// The result is stored in cover.
func integrateEvenOdd(cover, area []float32) {
	var accum float32
	for i := range cover {
		raw := abs32(accum + area[i])
		accum += cover[i]
		mod := raw - 2*float32(int(raw/2))
		cover[i] = 1 - abs32(1-mod)
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// trimZeros returns the non-zero part of coverage and its offset, or nil
// if all values are zero.
func trimZeros(coverage []float32) ([]float32, int) {
	lo, hi := 0, len(coverage)
	for lo < hi && coverage[lo] == 0 {
		lo++
	}
	if lo == hi {
		return nil, 0
	}
	for coverage[hi-1] == 0 {
		hi--
	}
	return coverage[lo:hi], lo
}
