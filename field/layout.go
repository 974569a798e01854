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

package field

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
)

// TagLayout gives the field pose of AprilTags.
type TagLayout interface {
	Lookup(id int) (Pose2d, bool)
}

// LayoutFunc adapts an ordinary function to the TagLayout interface.
type LayoutFunc func(id int) (Pose2d, bool)

// Lookup calls f(id).
func (f LayoutFunc) Lookup(id int) (Pose2d, bool) {
	return f(id)
}

// Layout is a fixed set of tag poses, as published for each season.
type Layout struct {
	Tags  map[int]Pose3d
	Field Dimensions
}

var _ TagLayout = (*Layout)(nil)

// Lookup implements the TagLayout interface.
func (l *Layout) Lookup(id int) (Pose2d, bool) {
	p, ok := l.Tags[id]
	if !ok {
		return Pose2d{}, false
	}
	return p.Pose2d(), true
}

// layoutFile is the JSON format used by WPILib for AprilTag field layouts.
type layoutFile struct {
	Tags []struct {
		ID   int `json:"ID"`
		Pose struct {
			Translation struct {
				X float64 `json:"x"`
				Y float64 `json:"y"`
				Z float64 `json:"z"`
			} `json:"translation"`
			Rotation struct {
				Quaternion quaternion `json:"quaternion"`
			} `json:"rotation"`
		} `json:"pose"`
	} `json:"tags"`
	Field struct {
		Length float64 `json:"length"`
		Width  float64 `json:"width"`
	} `json:"field"`
}

type quaternion struct {
	W float64 `json:"W"`
	X float64 `json:"X"`
	Y float64 `json:"Y"`
	Z float64 `json:"Z"`
}

// angles returns roll, pitch and yaw of the rotation.
func (q quaternion) angles() (roll, pitch, yaw float64) {
	roll = math.Atan2(2*(q.W*q.X+q.Y*q.Z), 1-2*(q.X*q.X+q.Y*q.Y))
	sp := 2 * (q.W*q.Y - q.Z*q.X)
	pitch = math.Asin(max(-1, min(1, sp)))
	yaw = math.Atan2(2*(q.W*q.Z+q.X*q.Y), 1-2*(q.Y*q.Y+q.Z*q.Z))
	return roll, pitch, yaw
}

// LoadLayout reads a WPILib AprilTag layout.
func LoadLayout(r io.Reader) (*Layout, error) {
	var f layoutFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding tag layout: %w", err)
	}

	l := &Layout{
		Tags:  make(map[int]Pose3d, len(f.Tags)),
		Field: Dimensions{Width: f.Field.Length, Height: f.Field.Width},
	}
	for _, tag := range f.Tags {
		if _, dup := l.Tags[tag.ID]; dup {
			return nil, fmt.Errorf("tag layout: duplicate tag %d", tag.ID)
		}
		roll, pitch, yaw := tag.Pose.Rotation.Quaternion.angles()
		tr := tag.Pose.Translation
		l.Tags[tag.ID] = Pose3d{
			X: tr.X, Y: tr.Y, Z: tr.Z,
			Roll: roll, Pitch: pitch, Yaw: yaw,
		}
	}
	return l, nil
}

// LoadLayoutFile reads a WPILib AprilTag layout from a file.
func LoadLayoutFile(name string) (*Layout, error) {
	fd, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return LoadLayout(fd)
}

//go:embed layouts/2024-crescendo.json
var crescendoJSON []byte

var defaultLayout = sync.OnceValue(func() *Layout {
	l, err := LoadLayout(bytes.NewReader(crescendoJSON))
	if err != nil {
		panic(err) // embedded file
	}
	return l
})

// DefaultLayout returns the tag layout of the 2024 field.
// The result is shared and must not be modified.
func DefaultLayout() *Layout {
	return defaultLayout()
}
