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
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"seehuhn.de/go/fieldview"
	"seehuhn.de/go/fieldview/field"
)

func TestFit(t *testing.T) {
	cases := []struct {
		parentW, parentH, aspect float64
		w, h                     float64
	}{
		{800, 400, 2, 800, 400},
		{1000, 400, 2, 800, 400},
		{800, 600, 2, 800, 400},
		{300, 300, 0.5, 150, 300},
	}
	for _, c := range cases {
		w, h := Fit(c.parentW, c.parentH, c.aspect)
		assert.InDelta(t, c.w, w, 1e-9)
		assert.InDelta(t, c.h, h, 1e-9)
	}
}

func TestStore(t *testing.T) {
	var s Store
	assert.Nil(t, s.Get())

	a := &field.Snapshot{Observer: field.Pose2d{X: 1}}
	b := &field.Snapshot{Observer: field.Pose2d{X: 2}}
	s.Set(a)
	s.Set(b)
	assert.Same(t, b, s.Get())
}

const backendDoc = `{"devices": [], "fused_data": {
  "targets": {"notes": [], "apriltags": [{"id": 4, "certainty": 1, "position": {}}],
    "robots": [{"team": 5990, "alliance": "BLUE", "position": {"x": 2, "y": 2, "yaw": 90}, "certainty": 1}]},
  "position": {"x": 10, "y": 3, "yaw": 180, "certainty": 1}}}`

func TestPoll(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := int(status.Load())
		w.WriteHeader(code)
		if code == http.StatusOK {
			w.Write([]byte(backendDoc))
		}
	}))
	defer srv.Close()

	store := &Store{}
	p := &Poller{
		URL:    srv.URL,
		Unit:   field.Degrees,
		Store:  store,
		Logger: zaptest.NewLogger(t),
	}
	require.NoError(t, p.Poll(context.Background()))

	snap := store.Get()
	require.NotNil(t, snap)
	require.Len(t, snap.Robots, 1)
	assert.InDelta(t, 1.5707963267948966, snap.Robots[0].Position.Yaw, 1e-12)
	assert.InDelta(t, 3.141592653589793, snap.Observer.Yaw, 1e-12)

	// a failing backend keeps the previous snapshot
	status.Store(http.StatusInternalServerError)
	assert.Error(t, p.Poll(context.Background()))
	assert.Same(t, snap, store.Get())
}

func TestPollBadDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"fused_data": [`))
	}))
	defer srv.Close()

	store := &Store{}
	p := &Poller{URL: srv.URL, Store: store}
	assert.Error(t, p.Poll(context.Background()))
	assert.Nil(t, store.Get())
}

func TestPollerRun(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(backendDoc))
	}))
	defer srv.Close()

	store := &Store{}
	p := &Poller{
		URL:      srv.URL,
		Interval: 5 * time.Millisecond,
		Store:    store,
		Logger:   zaptest.NewLogger(t),
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	assert.Eventually(t, func() bool { return hits.Load() >= 3 }, 5*time.Second, time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop")
	}
	assert.NotNil(t, store.Get())
}

func newTestLoop(t *testing.T) *Loop {
	return &Loop{
		Renderer: &fieldview.Renderer{Dims: field.Dimensions{Width: 16, Height: 8}},
		Store:    &Store{},
		Width:    1000,
		Height:   400,
		Interval: 5 * time.Millisecond,
		Logger:   zaptest.NewLogger(t),
	}
}

func TestRender(t *testing.T) {
	l := newTestLoop(t)
	snap := &field.Snapshot{
		Robots:   []field.Robot{{Team: 5990, Position: field.Pose2d{X: 2, Y: 2}}},
		Observer: field.Pose2d{X: 10, Y: 3, Yaw: 0.4},
	}
	buf, err := l.Render(snap)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())

	// robot body at (100, 300), transparent elsewhere
	_, _, _, a := img.At(115, 315).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	_, _, _, a = img.At(20, 20).RGBA()
	assert.Equal(t, uint32(0), a)
}

func TestFrameReusesImage(t *testing.T) {
	l := newTestLoop(t)
	busy := &field.Snapshot{
		Robots: []field.Robot{{Team: 5990, Position: field.Pose2d{X: 2, Y: 2}}},
		Notes:  []field.Note{{Position: field.Translation2d{X: 8, Y: 4}}},
	}
	empty := &field.Snapshot{Observer: field.Pose2d{X: 10, Y: 3}}

	first := l.Frame(busy)
	second := l.Frame(empty)
	assert.Same(t, first, second)

	// nothing from the first frame shows through
	fresh := newTestLoop(t).Frame(empty)
	assert.Equal(t, fresh.Pix, second.Pix)

	l.Width, l.Height = 500, 400
	third := l.Frame(empty)
	assert.NotSame(t, second, third)
	assert.Equal(t, 500, third.Bounds().Dx())
	assert.Equal(t, 250, third.Bounds().Dy())
}

func TestLoopPublishes(t *testing.T) {
	l := newTestLoop(t)
	assert.Nil(t, l.Latest())

	frames, unsubscribe := l.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	// nothing is rendered before the first snapshot
	time.Sleep(20 * time.Millisecond)
	assert.Nil(t, l.Latest())

	l.Store.Set(&field.Snapshot{Observer: field.Pose2d{X: 8, Y: 4}})
	select {
	case frame := <-frames:
		_, err := png.Decode(bytes.NewReader(frame))
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("no frame published")
	}
	assert.NotNil(t, l.Latest())

	cancel()
	assert.NoError(t, <-done)
}

func TestUnsubscribe(t *testing.T) {
	l := newTestLoop(t)
	_, unsubscribe := l.Subscribe()
	unsubscribe()
	unsubscribe()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.subs)
}
