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
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"

	"seehuhn.de/go/geom/vec"
)

var (
	black = color.RGBA{0, 0, 0, 255}
	red   = color.RGBA{255, 0, 0, 255}
)

func TestTransformStack(t *testing.T) {
	tr := newTransform()
	tr.save()
	tr.translate(10, 20)
	tr.rotate(math.Pi / 2)

	// the x-axis of the rotated system points down the screen
	p := tr.apply(5, 0)
	if math.Abs(p.X-10) > 1e-12 || math.Abs(p.Y-25) > 1e-12 {
		t.Errorf("apply(5, 0) = %v, want (10, 25)", p)
	}

	tr.restore()
	if p := tr.apply(5, 0); p.X != 5 || p.Y != 0 {
		t.Errorf("after restore: apply(5, 0) = %v", p)
	}

	// unbalanced restore is a no-op
	tr.restore()
	if p := tr.apply(1, 1); p.X != 1 || p.Y != 1 {
		t.Errorf("after extra restore: apply(1, 1) = %v", p)
	}
}

func TestFillRectPixels(t *testing.T) {
	im := NewImage(20, 10)
	im.Clear(black)
	im.FillRect(5, 2, 10, 4, 0, red)

	for y := range 10 {
		for x := range 20 {
			got := im.RGBA.RGBAAt(x, y)
			want := black
			if x >= 5 && x < 15 && y >= 2 && y < 6 {
				want = red
			}
			if got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestRotateZeroIsIdentity(t *testing.T) {
	draw := func(rotate bool) *Image {
		im := NewImage(64, 64)
		im.Save()
		im.Translate(30.3, 29.9)
		if rotate {
			im.Rotate(0)
		}
		im.FillRect(-10.2, -5.4, 20.4, 10.8, 3, red)
		im.Restore()
		return im
	}
	if !bytes.Equal(draw(false).RGBA.Pix, draw(true).RGBA.Pix) {
		t.Error("rotation by 0 changed the output")
	}

	// with exactly representable coordinates, translating the origin
	// gives the same pixels as drawing in place
	a := NewImage(64, 64)
	a.FillRect(20.25, 24.5, 20.5, 10.75, 0, red)
	b := NewImage(64, 64)
	b.Translate(30.5, 29.875)
	b.FillRect(-10.25, -5.375, 20.5, 10.75, 0, red)
	if !bytes.Equal(a.RGBA.Pix, b.RGBA.Pix) {
		t.Error("translated rectangle differs")
	}
}

func TestHalfTransparentBlend(t *testing.T) {
	im := NewImage(4, 4)
	im.Clear(color.White)
	im.FillRect(0, 0, 4, 4, 0, color.NRGBA{0, 0, 0, 128})

	got := im.RGBA.RGBAAt(1, 1)
	if got.A != 255 || got.R < 126 || got.R > 128 {
		t.Errorf("blended pixel %v, want grey", got)
	}
}

func TestFillCircleCentre(t *testing.T) {
	im := NewImage(32, 32)
	im.FillCircle(16, 16, 8, red)

	if got := im.RGBA.RGBAAt(16, 16); got != red {
		t.Errorf("centre pixel %v", got)
	}
	if got := im.RGBA.RGBAAt(2, 2); got.A != 0 {
		t.Errorf("corner pixel %v", got)
	}
}

func TestFillPolygon(t *testing.T) {
	im := NewImage(16, 16)
	im.FillPolygon([]vec.Vec2{{X: 2, Y: 2}, {X: 14, Y: 2}, {X: 14, Y: 14}, {X: 2, Y: 14}}, red)
	if got := im.RGBA.RGBAAt(8, 8); got != red {
		t.Errorf("inside pixel %v", got)
	}
	if got := im.RGBA.RGBAAt(0, 0); got.A != 0 {
		t.Errorf("outside pixel %v", got)
	}

	// degenerate polygons draw nothing
	im.FillPolygon([]vec.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}}, red)
	if got := im.RGBA.RGBAAt(0, 0); got.A != 0 {
		t.Errorf("two-point polygon painted %v", got)
	}

	rec := NewRecorder()
	rec.FillPolygon([]vec.Vec2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2}, {X: 0, Y: 2}}, red)
	if c := rec.Ops[0].Center(); c.X != 2 || c.Y != 1 {
		t.Errorf("polygon centre %v", c)
	}
}

func TestStrokeLinePixels(t *testing.T) {
	im := NewImage(32, 32)
	im.StrokeLine(4, 10, 28, 10, 2, red)

	if got := im.RGBA.RGBAAt(16, 9); got != red {
		t.Errorf("line pixel %v", got)
	}
	if got := im.RGBA.RGBAAt(16, 12); got.A != 0 {
		t.Errorf("pixel below line %v", got)
	}
}

func TestStrokeCircleHollow(t *testing.T) {
	im := NewImage(32, 32)
	im.StrokeCircle(16, 16, 10, 1, red)

	if got := im.RGBA.RGBAAt(16, 16); got.A != 0 {
		t.Errorf("centre of outline is painted: %v", got)
	}
	if got := im.RGBA.RGBAAt(26, 16); got.A == 0 {
		t.Error("outline is missing")
	}
}

func TestTextDrawing(t *testing.T) {
	im := NewImage(80, 40)
	im.Clear(black)
	im.FillText("5990", 40, 20, Font{Size: 15, Bold: true}, color.White)

	bright := 0
	for y := range 40 {
		for x := range 80 {
			if im.RGBA.RGBAAt(x, y).R > 128 {
				bright++
				if x < 10 || x > 70 {
					t.Fatalf("text pixel at (%d,%d) is far from the anchor", x, y)
				}
			}
		}
	}
	if bright == 0 {
		t.Error("no text pixels drawn")
	}
}

func TestMeasureText(t *testing.T) {
	im := NewImage(1, 1)
	small := im.MeasureText("6738", Font{Size: 10})
	large := im.MeasureText("6738", Font{Size: 20})
	if !(small > 0) || !(large > small) {
		t.Errorf("widths %g (10px) and %g (20px)", small, large)
	}
	if w := im.MeasureText("6738", Font{Size: 0}); w != 0 {
		t.Errorf("zero size font measured %g", w)
	}

	rec := NewRecorder()
	if w := rec.MeasureText("6738", Font{Size: 10}); w != small {
		t.Errorf("recorder measured %g, image measured %g", w, small)
	}
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	rec.Save()
	rec.Translate(100, 50)
	rec.Rotate(-math.Pi / 2)
	rec.FillRect(-10, -5, 20, 10, 0, red)
	rec.Restore()
	rec.FillCircle(3, 4, 1, black)
	rec.FillText("x", 7, 8, Font{Size: 12}, black)

	if n := len(rec.Ops); n != 3 {
		t.Fatalf("%d ops recorded, want 3", n)
	}
	if n := rec.Count(OpFillRect); n != 1 {
		t.Errorf("Count(FillRect) = %d", n)
	}

	c := rec.Ops[0].Center()
	if math.Abs(c.X-100) > 1e-9 || math.Abs(c.Y-50) > 1e-9 {
		t.Errorf("rectangle centre %v, want (100, 50)", c)
	}
	if c := rec.Ops[1].Center(); c.X != 3 || c.Y != 4 {
		t.Errorf("circle centre %v", c)
	}
	if rec.Ops[0].Color != red {
		t.Errorf("colour %v", rec.Ops[0].Color)
	}
	if rec.Ops[2].Text != "x" || rec.Ops[2].Kind.String() != "FillText" {
		t.Errorf("text op %+v", rec.Ops[2])
	}

	rec.Reset()
	if len(rec.Ops) != 0 {
		t.Error("Reset kept operations")
	}
}

func TestDrawImageBackground(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 2, 1))
	bg.SetRGBA(0, 0, red)
	bg.SetRGBA(1, 0, red)

	im := NewImage(16, 8)
	im.DrawImage(bg)
	if got := im.RGBA.RGBAAt(8, 4); got != red {
		t.Errorf("background pixel %v", got)
	}
}
