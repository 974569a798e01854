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

package canvas

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/fieldview/raster"
)

var _ Surface = (*Image)(nil)

// Image is a Surface which draws into an RGBA image, with antialiasing.
//
// An Image is not safe for concurrent use.
type Image struct {
	RGBA *image.RGBA

	tr    transform
	r     *raster.Rasteriser
	faces *faceCache
}

// NewImage allocates a width×height image, initially transparent.
func NewImage(width, height int) *Image {
	return NewImageFor(image.NewRGBA(image.Rect(0, 0, width, height)))
}

// NewImageFor returns a Surface which draws into img.
func NewImageFor(img *image.RGBA) *Image {
	b := img.Bounds()
	clip := rect.Rect{
		LLx: float64(b.Min.X),
		LLy: float64(b.Min.Y),
		URx: float64(b.Max.X),
		URy: float64(b.Max.Y),
	}
	return &Image{
		RGBA:  img,
		tr:    newTransform(),
		r:     raster.NewRasteriser(clip),
		faces: newFaceCache(),
	}
}

// Bounds returns the pixel bounds of the underlying image.
func (im *Image) Bounds() image.Rectangle {
	return im.RGBA.Bounds()
}

// Clear fills the whole image with c and resets the transformation stack.
func (im *Image) Clear(c color.Color) {
	draw.Draw(im.RGBA, im.RGBA.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	im.tr = newTransform()
}

// DrawImage scales src to cover the whole surface and draws it on top,
// ignoring the current transformation.
func (im *Image) DrawImage(src image.Image) {
	draw.BiLinear.Scale(im.RGBA, im.RGBA.Bounds(), src, src.Bounds(), draw.Over, nil)
}

func (im *Image) Save()                    { im.tr.save() }
func (im *Image) Restore()                 { im.tr.restore() }
func (im *Image) Translate(dx, dy float64) { im.tr.translate(dx, dy) }
func (im *Image) Rotate(theta float64)     { im.tr.rotate(theta) }

// FillRect implements the Surface interface.
func (im *Image) FillRect(x, y, w, h, radius float64, c color.Color) {
	im.fill(raster.RoundRect(x, y, w, h, radius), c)
}

// FillCircle implements the Surface interface.
func (im *Image) FillCircle(cx, cy, r float64, c color.Color) {
	im.fill(raster.Circle(vec.Vec2{X: cx, Y: cy}, r), c)
}

// FillPolygon implements the Surface interface.
func (im *Image) FillPolygon(pts []vec.Vec2, c color.Color) {
	if len(pts) < 3 {
		return
	}
	im.fill(raster.Polygon(pts...), c)
}

// StrokeCircle implements the Surface interface.
func (im *Image) StrokeCircle(cx, cy, r, width float64, c color.Color) {
	im.stroke(raster.Circle(vec.Vec2{X: cx, Y: cy}, r), width, graphics.LineCapButt, c)
}

// StrokeLine implements the Surface interface.
func (im *Image) StrokeLine(x0, y0, x1, y1, width float64, c color.Color) {
	im.stroke(raster.Line(vec.Vec2{X: x0, Y: y0}, vec.Vec2{X: x1, Y: y1}), width, graphics.LineCapButt, c)
}

// FillText implements the Surface interface.
func (im *Image) FillText(text string, x, y float64, f Font, c color.Color) {
	face := im.faces.face(f)
	if face == nil || text == "" {
		return
	}
	p := im.tr.apply(x, y)
	if math.IsNaN(p.X) || math.IsNaN(p.Y) {
		return
	}

	// centre the text box between ascent and descent
	m := face.Metrics()
	width := font.MeasureString(face, text)
	baseline := p.Y + float64(m.Ascent-m.Descent)/128
	d := &font.Drawer{
		Dst:  im.RGBA,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(math.Round(p.X*64)) - width/2,
			Y: fixed.Int26_6(math.Round(baseline * 64)),
		},
	}
	d.DrawString(text)
}

// MeasureText implements the Surface interface.
func (im *Image) MeasureText(text string, f Font) float64 {
	return im.faces.measure(text, f)
}

func (im *Image) fill(p *path.Data, c color.Color) {
	im.r.CTM = im.tr.ctm
	im.r.FillNonZero(p, im.compositor(c))
}

func (im *Image) stroke(p *path.Data, width float64, lineCap graphics.LineCapStyle, c color.Color) {
	im.r.CTM = im.tr.ctm
	im.r.Width = width
	im.r.Cap = lineCap
	im.r.Join = graphics.LineJoinRound
	im.r.Stroke(p, im.compositor(c))
}

// compositor returns an emit function which blends c over the image,
// weighted by the coverage (source-over, premultiplied alpha).
func (im *Image) compositor(c color.Color) func(y, xMin int, coverage []float32) {
	sr, sg, sb, sa := c.RGBA()
	fr := float32(sr) / 0xffff
	fg := float32(sg) / 0xffff
	fb := float32(sb) / 0xffff
	fa := float32(sa) / 0xffff

	pix := im.RGBA.Pix
	stride := im.RGBA.Stride
	origin := im.RGBA.Rect.Min

	return func(y, xMin int, coverage []float32) {
		row := (y-origin.Y)*stride + (xMin-origin.X)*4
		for i, cov := range coverage {
			if cov <= 0 {
				continue
			}
			o := row + 4*i
			k := 1 - fa*cov
			pix[o+0] = blend(fr*cov, pix[o+0], k)
			pix[o+1] = blend(fg*cov, pix[o+1], k)
			pix[o+2] = blend(fb*cov, pix[o+2], k)
			pix[o+3] = blend(fa*cov, pix[o+3], k)
		}
	}
}

// blend computes src + k·dst for one premultiplied channel.
func blend(src float32, dst uint8, k float32) uint8 {
	v := src*255 + k*float32(dst)
	return uint8(max(0, min(255, v+0.5)))
}
