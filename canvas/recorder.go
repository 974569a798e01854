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
	"fmt"
	"image/color"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

var _ Surface = (*Recorder)(nil)

// OpKind identifies a drawing operation.
type OpKind int

// These are the drawing operations which a Recorder logs.
const (
	OpFillRect OpKind = iota
	OpFillCircle
	OpFillPolygon
	OpStrokeCircle
	OpStrokeLine
	OpFillText
)

func (k OpKind) String() string {
	switch k {
	case OpFillRect:
		return "FillRect"
	case OpFillCircle:
		return "FillCircle"
	case OpFillPolygon:
		return "FillPolygon"
	case OpStrokeCircle:
		return "StrokeCircle"
	case OpStrokeLine:
		return "StrokeLine"
	case OpFillText:
		return "FillText"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Op is one recorded drawing call.  Args holds the numeric arguments in
// the order of the Surface method, with polygon vertices flattened to
// x0, y0, x1, y1, ...; CTM is the transformation in effect.
type Op struct {
	Kind  OpKind
	Args  []float64
	Text  string
	Font  Font
	Color color.RGBA
	CTM   matrix.Matrix
}

// Center returns the device-space centre of a rectangle, circle or text
// operation, the midpoint of a line and the vertex mean of a polygon.
func (op Op) Center() vec.Vec2 {
	var x, y float64
	switch op.Kind {
	case OpFillRect:
		x, y = op.Args[0]+op.Args[2]/2, op.Args[1]+op.Args[3]/2
	case OpStrokeLine:
		x, y = (op.Args[0]+op.Args[2])/2, (op.Args[1]+op.Args[3])/2
	case OpFillPolygon:
		n := float64(len(op.Args) / 2)
		for i := 0; i+1 < len(op.Args); i += 2 {
			x += op.Args[i]
			y += op.Args[i+1]
		}
		x, y = x/n, y/n
	default:
		x, y = op.Args[0], op.Args[1]
	}
	m := op.CTM
	return vec.Vec2{
		X: m[0]*x + m[2]*y + m[4],
		Y: m[1]*x + m[3]*y + m[5],
	}
}

// Recorder is a Surface which only records the drawing calls.
// Text is measured with the same fonts as Image.
type Recorder struct {
	Ops []Op

	tr    transform
	faces *faceCache
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		tr:    newTransform(),
		faces: newFaceCache(),
	}
}

// Count returns the number of recorded operations of the given kind.
func (rec *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range rec.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset discards all recorded operations and the transformation stack.
func (rec *Recorder) Reset() {
	rec.Ops = rec.Ops[:0]
	rec.tr = newTransform()
}

func (rec *Recorder) Save()                    { rec.tr.save() }
func (rec *Recorder) Restore()                 { rec.tr.restore() }
func (rec *Recorder) Translate(dx, dy float64) { rec.tr.translate(dx, dy) }
func (rec *Recorder) Rotate(theta float64)     { rec.tr.rotate(theta) }

// FillRect implements the Surface interface.
func (rec *Recorder) FillRect(x, y, w, h, radius float64, c color.Color) {
	rec.add(Op{Kind: OpFillRect, Args: []float64{x, y, w, h, radius}}, c)
}

// FillCircle implements the Surface interface.
func (rec *Recorder) FillCircle(cx, cy, r float64, c color.Color) {
	rec.add(Op{Kind: OpFillCircle, Args: []float64{cx, cy, r}}, c)
}

// FillPolygon implements the Surface interface.
func (rec *Recorder) FillPolygon(pts []vec.Vec2, c color.Color) {
	args := make([]float64, 0, 2*len(pts))
	for _, p := range pts {
		args = append(args, p.X, p.Y)
	}
	rec.add(Op{Kind: OpFillPolygon, Args: args}, c)
}

// StrokeCircle implements the Surface interface.
func (rec *Recorder) StrokeCircle(cx, cy, r, width float64, c color.Color) {
	rec.add(Op{Kind: OpStrokeCircle, Args: []float64{cx, cy, r, width}}, c)
}

// StrokeLine implements the Surface interface.
func (rec *Recorder) StrokeLine(x0, y0, x1, y1, width float64, c color.Color) {
	rec.add(Op{Kind: OpStrokeLine, Args: []float64{x0, y0, x1, y1, width}}, c)
}

// FillText implements the Surface interface.
func (rec *Recorder) FillText(text string, x, y float64, f Font, c color.Color) {
	rec.add(Op{Kind: OpFillText, Args: []float64{x, y}, Text: text, Font: f}, c)
}

// MeasureText implements the Surface interface.
func (rec *Recorder) MeasureText(text string, f Font) float64 {
	return rec.faces.measure(text, f)
}

func (rec *Recorder) add(op Op, c color.Color) {
	op.Color = color.RGBAModel.Convert(c).(color.RGBA)
	op.CTM = rec.tr.ctm
	rec.Ops = append(rec.Ops, op)
}
