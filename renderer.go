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

// Package fieldview draws a map of the playing field with the robots,
// game pieces and AprilTags seen by the vision system.
//
// Field positions are in meters with the origin at the bottom-left corner
// and angles in radians, counter-clockwise.  Drawing goes to a
// [canvas.Surface]; use [canvas.Image] to obtain a bitmap.
package fieldview

import (
	"fmt"

	"seehuhn.de/go/fieldview/canvas"
	"seehuhn.de/go/fieldview/field"
)

// LabelMode selects how robots are drawn.
type LabelMode int

const (
	// LabelFixed draws robots with bumpers and a 15 px team number.
	LabelFixed LabelMode = iota

	// LabelFit draws robots as two nested rectangles, with the team
	// number shrunk until it fits the inner one.
	LabelFit
)

func (l LabelMode) String() string {
	switch l {
	case LabelFixed:
		return "fixed"
	case LabelFit:
		return "fit"
	default:
		return fmt.Sprintf("LabelMode(%d)", int(l))
	}
}

// ParseLabelMode converts "fixed" or "fit" to a LabelMode.
func ParseLabelMode(s string) (LabelMode, error) {
	switch s {
	case "fixed":
		return LabelFixed, nil
	case "fit":
		return LabelFit, nil
	}
	return 0, fmt.Errorf("unknown label mode %q", s)
}

// Renderer draws frames of the field map.  A Renderer has no state
// besides its configuration and can be used from several goroutines,
// as long as each uses its own surface.
type Renderer struct {
	// Dims is the size of the field.  The zero value means the 2024 field.
	Dims field.Dimensions

	// Layout locates AprilTags.  If this is nil, the 2024 layout is used.
	Layout field.TagLayout

	Labels LabelMode
}

// Draw draws one frame onto a width×height pixel area of s.  Notes are
// drawn first, then robots, tags and finally the observer, so that later
// entities cover earlier ones.
func (r *Renderer) Draw(s canvas.Surface, height, width float64, tags []field.AprilTag, robots []field.Robot, notes []field.Note, observer field.Pose2d) {
	dims := r.Dims
	if dims == (field.Dimensions{}) {
		dims = field.Crescendo2024
	}
	m := field.NewMapper(width, height, dims)

	drawRobot := DrawRobot
	if r.Labels == LabelFit {
		drawRobot = DrawRobotFitted
	}

	for _, n := range notes {
		DrawNote(s, m, n)
	}
	for _, robot := range robots {
		drawRobot(s, m, robot)
	}
	if len(tags) > 0 {
		layout := r.Layout
		if layout == nil {
			layout = field.DefaultLayout()
		}
		for _, tag := range tags {
			DrawAprilTag(s, m, layout, observer, tag)
		}
	}
	drawRobot(s, m, field.Robot{
		Team:     ObserverTeam,
		Alliance: field.Blue,
		Position: observer,
	})
}

// DrawSnapshot draws the contents of snap.
func (r *Renderer) DrawSnapshot(s canvas.Surface, height, width float64, snap *field.Snapshot) {
	r.Draw(s, height, width, snap.AprilTags, snap.Robots, snap.Notes, snap.Observer)
}
