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

package fieldview

import (
	"image/color"
	"math"
	"strconv"

	"seehuhn.de/go/fieldview/canvas"
	"seehuhn.de/go/fieldview/field"
)

// Sizes in meters.
const (
	noteOuterRadius = 0.18
	noteInnerRadius = 0.135

	robotSide   = 0.8
	bumperScale = 1.2

	// the indicator sits on the bumper of a 0.7 m frame
	indicatorOffset = bumperScale * 0.7 / 2

	tagWidth  = 0.4
	tagLength = 0.07
)

// Sizes in pixels.
const (
	bumperCornerRadius = 5
	indicatorRadius    = 5
	indicatorOutline   = 1
	tagLineWidth       = 2
	teamFontSize       = 15
	maxLabelSize       = 14
)

// ObserverTeam is the team number shown for the dashboard's own robot.
const ObserverTeam = 6738

var (
	orange = color.RGBA{255, 165, 0, 255}
	black  = color.RGBA{0, 0, 0, 255}
	white  = color.RGBA{255, 255, 255, 255}
	grey   = color.RGBA{128, 128, 128, 255}
	cyan   = color.RGBA{0, 255, 255, 255}

	redBody    = color.RGBA{77, 14, 14, 255}
	blueBody   = color.RGBA{14, 16, 77, 255}
	redBumper  = color.RGBA{210, 38, 38, 255}
	blueBumper = color.RGBA{38, 44, 210, 255}
	redLabel   = color.RGBA{255, 0, 0, 255}
	blueLabel  = color.RGBA{0, 0, 255, 255}
)

// DrawNote draws a game piece as an orange ring.
func DrawNote(s canvas.Surface, m field.Mapper, n field.Note) {
	p := m.Point(n.Position.X, n.Position.Y)
	DrawCircle(s, p.X, p.Y, m.X(noteOuterRadius), orange)
	DrawCircle(s, p.X, p.Y, m.X(noteInnerRadius), black)
}

// DrawRobot draws a robot with its bumpers, its team number and a dot
// marking the front.
func DrawRobot(s canvas.Surface, m field.Mapper, r field.Robot) {
	body, bumper := blueBody, blueBumper
	if r.Alliance == field.Red {
		body, bumper = redBody, redBumper
	}

	pos := r.Position
	p := m.Point(pos.X, pos.Y)
	side := m.X(robotSide)
	DrawOrientedRectangle(s, p.X, p.Y, side*bumperScale, side*bumperScale, pos.Yaw, bumperCornerRadius, bumper)
	DrawOrientedRectangle(s, p.X, p.Y, side, side, pos.Yaw, 0, body)

	s.FillText(strconv.Itoa(r.Team), p.X, p.Y, canvas.Font{Size: teamFontSize, Bold: true}, white)

	dot := m.Point(
		pos.X+indicatorOffset*math.Cos(pos.Yaw),
		pos.Y+indicatorOffset*math.Sin(pos.Yaw),
	)
	s.FillCircle(dot.X, dot.Y, indicatorRadius, white)
	s.StrokeCircle(dot.X, dot.Y, indicatorRadius, indicatorOutline, black)
}

// DrawRobotFitted draws a robot as an alliance coloured frame around a
// black body, with the team number scaled down to fit the body.
func DrawRobotFitted(s canvas.Surface, m field.Mapper, r field.Robot) {
	frame, label := blueLabel, blueLabel
	if r.Alliance == field.Red {
		frame, label = redLabel, redLabel
	}

	pos := r.Position
	center := field.Translation2d{X: pos.X, Y: pos.Y}
	DrawCornerRectangle(s, m, center, robotSide, robotSide, pos.Yaw, 1, frame)
	DrawCornerRectangle(s, m, center, robotSide, robotSide, pos.Yaw, 0.8, black)

	inner := robotSide * 0.8
	availW := math.Abs(m.X(pos.X+inner/2) - m.X(pos.X-inner/2))
	availH := math.Abs(m.Y(pos.Y+inner/2) - m.Y(pos.Y-inner/2))
	text := strconv.Itoa(r.Team)
	size := FitLabel(s.MeasureText, text, availW, availH, maxLabelSize)

	p := m.Point(pos.X, pos.Y)
	s.FillText(text, p.X, p.Y, canvas.Font{Size: size}, label)
}

// FitLabel returns the largest whole pixel size, at most maxSize, at which
// text fits into the given box.  The width is reduced first, then the
// height.  The result is never below 1.
func FitLabel(measure func(text string, f canvas.Font) float64, text string, availW, availH, maxSize float64) float64 {
	size := math.Max(1, math.Floor(maxSize))
	for size > 1 && measure(text, canvas.Font{Size: size}) > availW {
		size--
	}
	for size > 1 && size > availH {
		size--
	}
	return size
}

// DrawAprilTag draws a tag card at its field position and a sight line
// from the observer.  Tags not in the layout are skipped.
func DrawAprilTag(s canvas.Surface, m field.Mapper, layout field.TagLayout, observer field.Pose2d, tag field.AprilTag) {
	pose, ok := layout.Lookup(tag.ID)
	if !ok {
		return
	}

	from := m.Point(observer.X, observer.Y)
	to := m.Point(pose.X, pose.Y)
	s.StrokeLine(from.X, from.Y, to.X, to.Y, tagLineWidth, cyan)

	center := field.Translation2d{X: pose.X, Y: pose.Y}
	DrawCornerRectangle(s, m, center, tagWidth, tagLength, pose.Yaw, 1, grey)
	DrawCornerRectangle(s, m, center, tagWidth, tagLength, pose.Yaw, 0.7, black)
}
