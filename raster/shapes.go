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
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// kappa places the control points of a cubic Bézier approximating a
// quarter circle.
const kappa = 0.5522847498

// Circle returns a closed path approximating the circle with centre c and
// radius r, using four cubic Bézier segments.
func Circle(c vec.Vec2, r float64) *path.Data {
	p := (&path.Data{}).MoveTo(vec.Vec2{X: c.X + r, Y: c.Y})
	arc(p, c, vec.Vec2{X: r}, vec.Vec2{Y: r})
	arc(p, c, vec.Vec2{Y: r}, vec.Vec2{X: -r})
	arc(p, c, vec.Vec2{X: -r}, vec.Vec2{Y: -r})
	arc(p, c, vec.Vec2{Y: -r}, vec.Vec2{X: r})
	return p.Close()
}

// RoundRect returns the closed outline of the rectangle with lower corner
// (x, y), width w and height h.  The corner radius is limited to half the
// smaller side; zero gives a plain rectangle.
func RoundRect(x, y, w, h, radius float64) *path.Data {
	radius = max(0, min(radius, w/2, h/2))
	if radius == 0 {
		return (&path.Data{}).
			MoveTo(vec.Vec2{X: x, Y: y}).
			LineTo(vec.Vec2{X: x + w, Y: y}).
			LineTo(vec.Vec2{X: x + w, Y: y + h}).
			LineTo(vec.Vec2{X: x, Y: y + h}).
			Close()
	}

	x0, x1 := x+radius, x+w-radius
	y0, y1 := y+radius, y+h-radius
	p := (&path.Data{}).MoveTo(vec.Vec2{X: x0, Y: y})
	p.LineTo(vec.Vec2{X: x1, Y: y})
	arc(p, vec.Vec2{X: x1, Y: y0}, vec.Vec2{Y: -radius}, vec.Vec2{X: radius})
	p.LineTo(vec.Vec2{X: x + w, Y: y1})
	arc(p, vec.Vec2{X: x1, Y: y1}, vec.Vec2{X: radius}, vec.Vec2{Y: radius})
	p.LineTo(vec.Vec2{X: x0, Y: y + h})
	arc(p, vec.Vec2{X: x0, Y: y1}, vec.Vec2{Y: radius}, vec.Vec2{X: -radius})
	p.LineTo(vec.Vec2{X: x, Y: y0})
	arc(p, vec.Vec2{X: x0, Y: y0}, vec.Vec2{X: -radius}, vec.Vec2{Y: -radius})
	return p.Close()
}

// Polygon returns the closed path through the given points.
func Polygon(pts ...vec.Vec2) *path.Data {
	p := &path.Data{}
	for i, pt := range pts {
		if i == 0 {
			p.MoveTo(pt)
		} else {
			p.LineTo(pt)
		}
	}
	return p.Close()
}

// Line returns the open path from a to b.
func Line(a, b vec.Vec2) *path.Data {
	return (&path.Data{}).MoveTo(a).LineTo(b)
}

// arc appends a quarter circle around c, from c+from to c+to.
// The two vectors must be orthogonal and of equal length.
func arc(p *path.Data, c, from, to vec.Vec2) {
	p.Cmds = append(p.Cmds, path.CmdCubeTo)
	p.Coords = append(p.Coords,
		c.Add(from).Add(to.Mul(kappa)),
		c.Add(to).Add(from.Mul(kappa)),
		c.Add(to))
}
