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

// Package canvas defines the drawing surface used by the field renderer,
// together with a raster implementation and a recorder for tests.
//
// Coordinates are in pixels with the origin at the top-left corner and
// the y-axis pointing down.  Rotations are in radians; a positive angle
// turns the x-axis towards the y-axis, i.e. clockwise on screen.
package canvas

import (
	"image/color"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Surface is a 2D drawing surface with a transformation stack.
//
// All coordinates passed to the drawing methods are transformed by the
// current transformation, which is changed by Translate and Rotate and
// saved and restored by Save and Restore.
type Surface interface {
	Save()
	Restore()
	Translate(dx, dy float64)
	Rotate(theta float64)

	// FillRect fills the rectangle with top-left corner (x, y).  A positive
	// radius rounds the corners.
	FillRect(x, y, w, h, radius float64, c color.Color)

	FillCircle(cx, cy, r float64, c color.Color)

	// FillPolygon fills the closed polygon through pts.
	FillPolygon(pts []vec.Vec2, c color.Color)

	// StrokeCircle draws the outline of a circle with the given line width.
	StrokeCircle(cx, cy, r, width float64, c color.Color)

	StrokeLine(x0, y0, x1, y1, width float64, c color.Color)

	// FillText draws text centred horizontally and vertically on (x, y).
	// Only the position is transformed; glyphs are always upright.
	FillText(text string, x, y float64, f Font, c color.Color)

	// MeasureText returns the advance width of text in pixels.
	MeasureText(text string, f Font) float64
}

// Font selects one of the built-in Go fonts.
type Font struct {
	Size float64 // pixels
	Bold bool
}

// A transform is a matrix together with the operations of a Surface
// transformation stack.
type transform struct {
	ctm   matrix.Matrix
	stack []matrix.Matrix
}

func newTransform() transform {
	return transform{ctm: matrix.Identity}
}

func (t *transform) save() {
	t.stack = append(t.stack, t.ctm)
}

// restore pops the last saved matrix.  Unbalanced calls are ignored.
func (t *transform) restore() {
	if len(t.stack) == 0 {
		return
	}
	t.ctm = t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
}

// translate prepends a translation, so that it acts in the current
// user space.
func (t *transform) translate(dx, dy float64) {
	m := t.ctm
	t.ctm[4] = m[0]*dx + m[2]*dy + m[4]
	t.ctm[5] = m[1]*dx + m[3]*dy + m[5]
}

// rotate prepends a rotation by theta radians.
func (t *transform) rotate(theta float64) {
	c, s := math.Cos(theta), math.Sin(theta)
	m := t.ctm
	t.ctm[0] = c*m[0] + s*m[2]
	t.ctm[1] = c*m[1] + s*m[3]
	t.ctm[2] = -s*m[0] + c*m[2]
	t.ctm[3] = -s*m[1] + c*m[3]
}

// apply maps a user-space point to device space.
func (t *transform) apply(x, y float64) vec.Vec2 {
	m := t.ctm
	return vec.Vec2{
		X: m[0]*x + m[2]*y + m[4],
		Y: m[1]*x + m[3]*y + m[5],
	}
}
