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

// Package server publishes rendered frames over HTTP and WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"seehuhn.de/go/fieldview/field"
)

// Frames is the source of rendered frames.
type Frames interface {
	Latest() []byte
	Subscribe() (<-chan []byte, func())
}

// Snapshots is the source of decoded telemetry.
type Snapshots interface {
	Get() *field.Snapshot
}

const writeTimeout = 5 * time.Second

// Server serves the routes
//
//	GET /frame.png  the latest frame
//	GET /data       the latest snapshot as JSON, angles in radians
//	GET /ws         a WebSocket stream of PNG frames
type Server struct {
	frames   Frames
	snaps    Snapshots
	log      *zap.Logger
	mux      *http.ServeMux
	upgrader websocket.Upgrader
}

// New returns a server for the given sources.
//
// WebSocket connections are accepted from pages on the same host, and from
// the listed origins such as "http://dashboard.local:3000".  The origin
// "*" accepts every page.
func New(frames Frames, snaps Snapshots, log *zap.Logger, allowedOrigins ...string) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		frames:   frames,
		snaps:    snaps,
		log:      log,
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
	}
	s.mux.HandleFunc("GET /frame.png", s.handleFrame)
	s.mux.HandleFunc("GET /data", s.handleData)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if err2 := <-errc; !errors.Is(err2, http.ErrServerClosed) && err == nil {
		err = err2
	}
	return err
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	frame := s.frames.Latest()
	if frame == nil {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(frame)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	snap := s.snaps.Get()
	if snap == nil {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshotJSON(snap)); err != nil {
		s.log.Debug("cannot send data", zap.Error(err))
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	log := s.log.With(zap.String("client", uuid.NewString()), zap.String("remote", r.RemoteAddr))
	log.Info("client connected")
	defer log.Info("client disconnected")

	frames, unsubscribe := s.frames.Subscribe()
	defer unsubscribe()

	// the read loop notices when the client goes away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if frame := s.frames.Latest(); frame != nil {
		if !s.send(conn, log, frame) {
			return
		}
	}
	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case frame := <-frames:
			if !s.send(conn, log, frame) {
				return
			}
		}
	}
}

func (s *Server) send(conn *websocket.Conn, log *zap.Logger, frame []byte) bool {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		log.Debug("cannot send frame", zap.Error(err))
		return false
	}
	return true
}

// snapshotDoc is the JSON form of a snapshot.
type snapshotDoc struct {
	AprilTags []field.AprilTag `json:"apriltags"`
	Robots    []field.Robot    `json:"robots"`
	Notes     []field.Note     `json:"notes"`
	Position  field.Pose2d     `json:"position"`
}

func snapshotJSON(snap *field.Snapshot) snapshotDoc {
	doc := snapshotDoc{
		AprilTags: snap.AprilTags,
		Robots:    snap.Robots,
		Notes:     snap.Notes,
		Position:  snap.Observer,
	}
	if doc.AprilTags == nil {
		doc.AprilTags = []field.AprilTag{}
	}
	if doc.Robots == nil {
		doc.Robots = []field.Robot{}
	}
	if doc.Notes == nil {
		doc.Notes = []field.Note{}
	}
	return doc
}

// checkOrigin returns the origin check for the WebSocket upgrader.  Without
// allowed origins, the upgrader's same-host check is used.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(strings.TrimSuffix(a, "/"), origin) {
				return true
			}
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}
