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

package field

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Dimensions is the size of the playing field in meters.
type Dimensions struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Crescendo2024 is the size of the 2024 field.
var Crescendo2024 = Dimensions{Width: 16.541, Height: 8.211}

// Valid reports whether both sides are positive and finite.
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0 &&
		!math.IsInf(d.Width, 0) && !math.IsInf(d.Height, 0)
}

// Aspect returns Width/Height.
func (d Dimensions) Aspect() float64 {
	return d.Width / d.Height
}

// A Mapper converts field coordinates to canvas pixels.  The field origin
// is at the bottom-left of the canvas and the canvas y-axis points down.
//
// The dimensions are not checked; a zero side gives infinite or NaN
// results.
type Mapper struct {
	height float64
	sx, sy float64
}

// NewMapper returns the mapper for a canvas of the given size.
func NewMapper(canvasWidth, canvasHeight float64, dims Dimensions) Mapper {
	return Mapper{
		height: canvasHeight,
		sx:     canvasWidth / dims.Width,
		sy:     canvasHeight / dims.Height,
	}
}

// X maps a field x-coordinate, or a length along the field, to pixels.
func (m Mapper) X(x float64) float64 {
	return x * m.sx
}

// Y maps a field y-coordinate to a canvas y-coordinate.
func (m Mapper) Y(y float64) float64 {
	return m.height - y*m.sy
}

// Point maps a field position.
func (m Mapper) Point(x, y float64) vec.Vec2 {
	return vec.Vec2{X: m.X(x), Y: m.Y(y)}
}

// Scale is the number of pixels per meter along the x-axis.  All lengths
// on the field are scaled by this factor.
func (m Mapper) Scale() float64 {
	return m.sx
}
