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

// Package field describes the telemetry shown on the field map.
//
// All positions are in field space: meters, with the origin at the
// bottom-left corner of the field as seen on the map, and angles in
// radians.  The only exception are the raw AprilTag detections, which are
// relative to the camera; their field pose comes from a [TagLayout].
package field

import (
	"encoding/json"
	"fmt"
)

// Pose2d is a position and heading on the field plane.
type Pose2d struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Yaw float64 `json:"yaw"`
}

// Pose3d is a position and orientation in space.
type Pose3d struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Pose2d drops the height, roll and pitch.
func (p Pose3d) Pose2d() Pose2d {
	return Pose2d{X: p.X, Y: p.Y, Yaw: p.Yaw}
}

// Translation2d is a position on the field plane.
type Translation2d struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Alliance is the team colour of a robot.
type Alliance int

// The two alliances.
const (
	Blue Alliance = iota
	Red
)

func (a Alliance) String() string {
	switch a {
	case Blue:
		return "BLUE"
	case Red:
		return "RED"
	default:
		return fmt.Sprintf("Alliance(%d)", int(a))
	}
}

// MarshalJSON encodes the alliance as "RED" or "BLUE".
func (a Alliance) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts "RED" and "BLUE".
func (a *Alliance) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("alliance: %w", err)
	}
	switch s {
	case "BLUE":
		*a = Blue
	case "RED":
		*a = Red
	default:
		return fmt.Errorf("alliance: unknown value %q", s)
	}
	return nil
}

// Robot is a detected robot.
type Robot struct {
	Team      int      `json:"team"`
	Alliance  Alliance `json:"alliance"`
	Position  Pose2d   `json:"position"`
	Certainty float64  `json:"certainty"`
}

// AprilTag is a tag detection.  Position is relative to the camera.
type AprilTag struct {
	ID        int     `json:"id"`
	Certainty float64 `json:"certainty"`
	Position  Pose3d  `json:"position"`
}

// Note is a detected game piece.
type Note struct {
	Certainty float64       `json:"certainty"`
	Position  Translation2d `json:"position"`
}

// Targets groups the detections of one source.
type Targets struct {
	Notes     []Note     `json:"notes"`
	AprilTags []AprilTag `json:"apriltags"`
	Robots    []Robot    `json:"robots"`
}

// LocalizedPose is the fused estimate of the dashboard's own robot.
type LocalizedPose struct {
	Pose2d
	Certainty float64 `json:"certainty"`
}

// FusedData is the combined view of all cameras.
type FusedData struct {
	Targets  Targets        `json:"targets"`
	Position *LocalizedPose `json:"position"`
}

// CameraData holds the detections of a single camera.  Position is the
// camera's pose on the robot.
type CameraData struct {
	Targets
	Position Pose3d `json:"position"`
}

// DeviceData describes one coprocessor and its cameras.
type DeviceData struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	IPAddress string       `json:"ipAddress"`
	Cameras   []CameraData `json:"cameras"`
}

// Data is the document served by the vision backend.
type Data struct {
	Devices   []DeviceData `json:"devices"`
	FusedData FusedData    `json:"fused_data"`
}

// Snapshot is everything drawn in one frame.
type Snapshot struct {
	AprilTags []AprilTag
	Robots    []Robot
	Notes     []Note
	Observer  Pose2d
}

// Snapshot extracts the fused detections.  A missing observer position
// becomes the field origin.
func (d *Data) Snapshot() Snapshot {
	s := Snapshot{
		AprilTags: d.FusedData.Targets.AprilTags,
		Robots:    d.FusedData.Targets.Robots,
		Notes:     d.FusedData.Targets.Notes,
	}
	if d.FusedData.Position != nil {
		s.Observer = d.FusedData.Position.Pose2d
	}
	return s
}
