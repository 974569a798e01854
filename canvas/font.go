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
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// goFonts holds the parsed Go fonts.  Parsed fonts are immutable and can
// be shared; faces cannot.
var goFonts = sync.OnceValues(func() (*opentype.Font, *opentype.Font) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(err) // embedded font
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		panic(err) // embedded font
	}
	return regular, bold
})

// faceCache keeps one font.Face per Font.  Faces are created on first use.
type faceCache struct {
	mu    sync.Mutex
	faces map[Font]font.Face
}

func newFaceCache() *faceCache {
	return &faceCache{faces: make(map[Font]font.Face)}
}

// face returns the face for f, or nil if f.Size is not positive.
func (fc *faceCache) face(f Font) font.Face {
	if !(f.Size > 0) {
		return nil
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.faceLocked(f)
}

func (fc *faceCache) faceLocked(f Font) font.Face {
	if face, ok := fc.faces[f]; ok {
		return face
	}

	regular, bold := goFonts()
	src := regular
	if f.Bold {
		src = bold
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    f.Size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil
	}
	fc.faces[f] = face
	return face
}

// measure returns the advance width of text in pixels.
func (fc *faceCache) measure(text string, f Font) float64 {
	if !(f.Size > 0) {
		return 0
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	face := fc.faceLocked(f)
	if face == nil {
		return 0
	}
	return float64(font.MeasureString(face, text)) / 64
}
