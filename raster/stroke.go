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
	"seehuhn.de/go/pdf/graphics"
)

// Stroke fills the outline of p, using Width, Cap, Join and MiterLimit.
//
// The outline is built as a union of convex pieces: one quadrilateral per
// segment, plus the join and cap geometry.  All pieces are added with the
// same orientation, so that the nonzero rule merges them without gaps.
func (r *Rasteriser) Stroke(p *path.Data, emit func(y, xMin int, coverage []float32)) {
	if r.Width <= 0 {
		return
	}
	r.beginEdges()

	r.flat = r.flat[:0]
	segment := func(from, to vec.Vec2) {
		if len(r.flat) == 0 {
			r.flat = append(r.flat, from)
		}
		if to.Sub(r.flat[len(r.flat)-1]).Length() > zeroLengthThreshold {
			r.flat = append(r.flat, to)
		}
	}
	subpath := func(start vec.Vec2, closed bool) {
		if len(r.flat) == 0 {
			r.flat = append(r.flat, start)
		}
		r.strokePolyline(r.flat, closed)
		r.flat = r.flat[:0]
	}
	r.walkPath(p, segment, subpath)

	r.scan(fillNonZero, emit)
}

// strokePolyline adds the outline of one flattened subpath.
func (r *Rasteriser) strokePolyline(pts []vec.Vec2, closed bool) {
	d := r.Width / 2

	if closed && len(pts) > 2 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}

	if len(pts) == 1 {
		// A degenerate subpath has no direction; only round caps show.
		if r.Cap == graphics.LineCapRound {
			r.addDisk(pts[0], d)
		}
		return
	}

	n := len(pts) - 1
	if closed {
		n = len(pts)
	}
	for i := range n {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		t := unit(b.Sub(a))
		nrm := vec.Vec2{X: -t.Y, Y: t.X}
		r.addPolygon(a.Add(nrm.Mul(d)), b.Add(nrm.Mul(d)), b.Sub(nrm.Mul(d)), a.Sub(nrm.Mul(d)))
	}

	for i := range pts {
		if !closed && (i == 0 || i == len(pts)-1) {
			continue
		}
		prev := pts[(i+len(pts)-1)%len(pts)]
		next := pts[(i+1)%len(pts)]
		r.addJoin(pts[i], unit(pts[i].Sub(prev)), unit(next.Sub(pts[i])), d)
	}

	if !closed {
		r.addCap(pts[0], unit(pts[0].Sub(pts[1])), d)
		last := len(pts) - 1
		r.addCap(pts[last], unit(pts[last].Sub(pts[last-1])), d)
	}
}

// addCap adds the cap at endpoint p.  The tangent t points away from the
// line.
func (r *Rasteriser) addCap(p, t vec.Vec2, d float64) {
	switch r.Cap {
	case graphics.LineCapRound:
		nrm := vec.Vec2{X: -t.Y, Y: t.X}
		r.addSector(p, nrm, nrm.Mul(-1), t, d)
	case graphics.LineCapSquare:
		nrm := vec.Vec2{X: -t.Y, Y: t.X}
		ext := p.Add(t.Mul(d))
		r.addPolygon(p.Add(nrm.Mul(d)), ext.Add(nrm.Mul(d)), ext.Sub(nrm.Mul(d)), p.Sub(nrm.Mul(d)))
	}
}

// addJoin fills the gap on the outer side of the corner at p, where the
// direction changes from t1 to t2.
func (r *Rasteriser) addJoin(p, t1, t2 vec.Vec2, d float64) {
	cross := t1.X*t2.Y - t1.Y*t2.X
	if math.Abs(cross) < collinearityThreshold && t1.X*t2.X+t1.Y*t2.Y > 0 {
		return
	}

	// the outer side is to the right of a left turn
	s := 1.0
	if cross > 0 {
		s = -1
	}
	n1 := vec.Vec2{X: -t1.Y, Y: t1.X}.Mul(s)
	n2 := vec.Vec2{X: -t2.Y, Y: t2.X}.Mul(s)

	if r.Join == graphics.LineJoinRound {
		r.addSector(p, n1, n2, t1, d)
		return
	}

	a := p.Add(n1.Mul(d))
	b := p.Add(n2.Mul(d))

	if r.Join == graphics.LineJoinMiter {
		bis := n1.Add(n2)
		if l := bis.Length(); l > zeroLengthThreshold {
			bis = bis.Mul(1 / l)
			cosHalf := bis.X*n1.X + bis.Y*n1.Y
			if cosHalf > 0 && 1/cosHalf <= r.MiterLimit {
				r.addPolygon(p, a, p.Add(bis.Mul(d/cosHalf)), b)
				return
			}
		}
	}
	r.addPolygon(p, a, b)
}

// addDisk adds a polygonal disk.
func (r *Rasteriser) addDisk(c vec.Vec2, radius float64) {
	n := r.arcSteps(radius, 2*math.Pi, 8)

	r.poly = r.poly[:0]
	for i := range n {
		phi := 2 * math.Pi * float64(i) / float64(n)
		r.poly = append(r.poly, c.Add(vec.Vec2{X: math.Cos(phi), Y: math.Sin(phi)}.Mul(radius)))
	}
	r.addPolygon(r.poly...)
}

// addSector adds the circular sector of the given radius around c which
// starts in direction u1 and ends in direction u2.  The sector turns
// through the side that dir points to, and never covers more than half
// the disk.  Sectors touch the neighbouring segment quads only along their
// straight sides, so no pixel is counted twice.
func (r *Rasteriser) addSector(c, u1, u2, dir vec.Vec2, radius float64) {
	phi1 := math.Atan2(u1.Y, u1.X)
	delta := math.Atan2(u1.X*u2.Y-u1.Y*u2.X, u1.X*u2.X+u1.Y*u2.Y)
	mid := phi1 + delta/2
	if math.Abs(delta) > math.Pi/2 && math.Cos(mid)*dir.X+math.Sin(mid)*dir.Y < 0 {
		if delta > 0 {
			delta -= 2 * math.Pi
		} else {
			delta += 2 * math.Pi
		}
	}
	n := r.arcSteps(radius, math.Abs(delta), 1)

	r.poly = append(r.poly[:0], c)
	for i := 0; i <= n; i++ {
		phi := phi1 + delta*float64(i)/float64(n)
		r.poly = append(r.poly, c.Add(vec.Vec2{X: math.Cos(phi), Y: math.Sin(phi)}.Mul(radius)))
	}
	r.addPolygon(r.poly...)
}

// arcSteps returns the number of chords needed to approximate an arc
// through angle radians, so that the error stays below the flatness in
// device space.
func (r *Rasteriser) arcSteps(radius, angle float64, minSteps int) int {
	rDev := max(r.transformLinear(vec.Vec2{X: radius}).Length(),
		r.transformLinear(vec.Vec2{Y: radius}).Length())

	n := minSteps
	if rDev > r.Flatness {
		step := 2 * math.Acos(1-r.Flatness/rDev)
		n = max(n, min(int(math.Ceil(angle/step)), 256))
	}
	return n
}

// addPolygon adds a closed polygon with positive orientation, reversing
// the vertex order if needed.
func (r *Rasteriser) addPolygon(pts ...vec.Vec2) {
	var a float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		a += p.X*q.Y - q.X*p.Y
	}
	if a == 0 {
		return
	}
	for i := range pts {
		j := (i + 1) % len(pts)
		if a > 0 {
			r.addEdge(pts[i], pts[j])
		} else {
			r.addEdge(pts[j], pts[i])
		}
	}
}

// unit returns v scaled to length 1, or the zero vector.
func unit(v vec.Vec2) vec.Vec2 {
	l := v.Length()
	if l < zeroLengthThreshold {
		return vec.Vec2{}
	}
	return v.Mul(1 / l)
}
