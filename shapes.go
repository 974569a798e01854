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

package fieldview

import (
	"image/color"
	"math"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/fieldview/canvas"
	"seehuhn.de/go/fieldview/field"
)

// DrawOrientedRectangle fills a width×height rectangle centred on (cx, cy)
// in canvas pixels, turned by rotation radians counter-clockwise on screen.
// A positive cornerRadius rounds the corners.
//
// The surface transformation is restored before returning.
func DrawOrientedRectangle(s canvas.Surface, cx, cy, width, height, rotation, cornerRadius float64, c color.Color) {
	s.Save()
	s.Translate(cx, cy)
	// canvas y points down, so a counter-clockwise turn is negative
	s.Rotate(-rotation)
	s.FillRect(-width/2, -height/2, width, height, cornerRadius, c)
	s.Restore()
}

// DrawCircle fills a disk of the given radius in canvas pixels.
func DrawCircle(s canvas.Surface, cx, cy, radius float64, c color.Color) {
	s.FillCircle(cx, cy, radius, c)
}

// DrawCornerRectangle fills a rectangle given in field space: length is
// measured along the rotation, width across it.  The corners lie on the
// enclosing circle, whose radius is multiplied by scale.  Since every
// corner is mapped separately, the result follows the mapping even when
// the two axes are scaled differently.
func DrawCornerRectangle(s canvas.Surface, m field.Mapper, center field.Translation2d, width, length, rotation, scale float64, c color.Color) {
	radius := math.Hypot(width, length) / 2 * scale
	a := math.Atan(width / length)

	var pts [4]vec.Vec2
	for i, phi := range [4]float64{-a, a, math.Pi - a, math.Pi + a} {
		pts[i] = m.Point(
			center.X+math.Cos(phi+rotation)*radius,
			center.Y+math.Sin(phi+rotation)*radius,
		)
	}
	s.FillPolygon(pts[:], c)
}
