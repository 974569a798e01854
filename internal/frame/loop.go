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

package frame

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"seehuhn.de/go/fieldview"
	"seehuhn.de/go/fieldview/canvas"
	"seehuhn.de/go/fieldview/field"
)

// Loop renders the stored snapshot at a fixed rate and hands the PNG
// encoded frames to subscribers.
type Loop struct {
	Renderer *fieldview.Renderer
	Store    *Store

	// Width and Height give the box the frame must fit into.  The frame
	// itself has the aspect ratio of the field.
	Width, Height int

	// Background, if set, is scaled to fill the frame before drawing.
	Background image.Image

	Interval time.Duration
	Logger   *zap.Logger

	latest atomic.Pointer[[]byte]

	mu   sync.Mutex
	subs map[chan []byte]struct{}

	// im is kept between frames, together with its rasteriser and fonts
	imMu sync.Mutex
	im   *canvas.Image
}

// Frame draws snap.  The returned image is overwritten by the next call
// to Frame or Render.
func (l *Loop) Frame(snap *field.Snapshot) *image.RGBA {
	l.imMu.Lock()
	defer l.imMu.Unlock()
	return l.draw(snap).RGBA
}

// Render draws snap and encodes the frame as PNG.
func (l *Loop) Render(snap *field.Snapshot) ([]byte, error) {
	l.imMu.Lock()
	defer l.imMu.Unlock()

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, l.draw(snap).RGBA); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// draw renders snap into l.im, which is replaced when the frame size
// changes.  The caller must hold l.imMu.
func (l *Loop) draw(snap *field.Snapshot) *canvas.Image {
	dims := l.Renderer.Dims
	if dims == (field.Dimensions{}) {
		dims = field.Crescendo2024
	}
	w, h := Fit(float64(l.Width), float64(l.Height), dims.Aspect())
	width := max(1, int(math.Round(w)))
	height := max(1, int(math.Round(h)))

	if l.im == nil || l.im.Bounds().Dx() != width || l.im.Bounds().Dy() != height {
		l.im = canvas.NewImage(width, height)
	}
	im := l.im
	im.Clear(color.Transparent)
	if l.Background != nil {
		im.DrawImage(l.Background)
	}
	l.Renderer.DrawSnapshot(im, float64(height), float64(width), snap)
	return im
}

// Run renders a frame on every tick until ctx is cancelled.  Ticks before
// the first snapshot arrives are skipped.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		snap := l.Store.Get()
		if snap == nil {
			continue
		}
		frame, err := l.Render(snap)
		if err != nil {
			if l.Logger != nil {
				l.Logger.Error("cannot encode frame", zap.Error(err))
			}
			continue
		}
		l.publish(frame)
	}
}

// Latest returns the most recent frame, or nil before the first one.
func (l *Loop) Latest() []byte {
	p := l.latest.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Subscribe returns a channel which receives every new frame.  Frames are
// dropped for subscribers which are not ready to receive.  The returned
// function ends the subscription.
func (l *Loop) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, 1)

	l.mu.Lock()
	if l.subs == nil {
		l.subs = make(map[chan []byte]struct{})
	}
	l.subs[ch] = struct{}{}
	l.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, ch)
			l.mu.Unlock()
		})
	}
	return ch, cancel
}

func (l *Loop) publish(frame []byte) {
	l.latest.Store(&frame)

	l.mu.Lock()
	defer l.mu.Unlock()
	for ch := range l.subs {
		select {
		case ch <- frame:
		default:
		}
	}
}
