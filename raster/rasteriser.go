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

// Package raster converts paths into antialiased pixel coverage.
//
// The field renderer only needs a small part of the PDF imaging model:
// filled polygons and circles, straight lines with a fixed width, and a
// current transformation matrix for the rotated shapes.
package raster

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// edge is a line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0)
}

// Rasteriser converts paths to coverage values between 0 (outside) and 1
// (inside).  Create one instance and reuse it; internal buffers grow as
// needed and are never released.
//
// A Rasteriser is not safe for concurrent use.
type Rasteriser struct {
	// CTM maps user space to device space.  Must be non-singular.
	CTM matrix.Matrix

	// Clip restricts output to this device-space rectangle.
	// The coordinates must be integers.
	Clip rect.Rect

	// Flatness is the curve flattening tolerance in device pixels.
	Flatness float64

	// Width is the stroke width in user-space units.
	Width float64

	// Cap is the style used at the open ends of stroked subpaths.
	Cap graphics.LineCapStyle

	// Join is the style used where two stroked segments meet.
	Join graphics.LineJoinStyle

	// MiterLimit converts miter joins to bevels above this ratio.
	MiterLimit float64

	cover     []float32
	area      []float32
	edges     []edge
	activeIdx []int
	poly      []vec.Vec2 // scratch polygon for the stroker
	flat      []vec.Vec2 // flattened points of the current stroke subpath

	bboxFirst bool
	devXMin   float64
	devXMax   float64
	devYMin   float64
	devYMax   float64
}

// NewRasteriser returns a Rasteriser for the given clip rectangle, with
// PDF default values for everything else.
func NewRasteriser(clip rect.Rect) *Rasteriser {
	r := &Rasteriser{}
	r.Reset(clip)
	return r
}

// Reset restores the default parameters and sets a new clip rectangle.
// Buffer capacity is kept.
func (r *Rasteriser) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.Width = 1
	r.Cap = graphics.LineCapButt
	r.Join = graphics.LineJoinMiter
	r.MiterLimit = defaultMiterLimit

	r.cover = r.cover[:0]
	r.area = r.area[:0]
	r.edges = r.edges[:0]
	r.activeIdx = r.activeIdx[:0]
	r.poly = r.poly[:0]
	r.flat = r.flat[:0]
}

// Default values for rasteriser parameters.
const (
	// defaultFlatness is below the threshold of visual perception.
	defaultFlatness = 0.25

	// defaultMiterLimit matches PDF/PostScript.
	defaultMiterLimit = 10.0
)

// Numerical tolerances.
const (
	// horizontalEdgeThreshold is the minimum vertical extent for an edge
	// to contribute to coverage.
	horizontalEdgeThreshold = 1e-10

	// zeroLengthThreshold is the minimum length of a stroke segment.
	zeroLengthThreshold = 1e-10

	// collinearityThreshold detects joins which need no extra geometry.
	collinearityThreshold = 1e-6

	// maxCurveSegments limits the flattening of a single Bézier curve.
	maxCurveSegments = 4096
)
