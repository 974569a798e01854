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
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestMapperCorners(t *testing.T) {
	m := NewMapper(800, 400, Dimensions{Width: 16, Height: 8})

	if p := m.Point(0, 0); p.X != 0 || p.Y != 400 {
		t.Errorf("origin maps to %v", p)
	}
	if p := m.Point(16, 8); p.X != 800 || p.Y != 0 {
		t.Errorf("far corner maps to %v", p)
	}
	if p := m.Point(2, 2); p.X != 100 || p.Y != 300 {
		t.Errorf("(2, 2) maps to %v", p)
	}
	if s := m.Scale(); s != 50 {
		t.Errorf("scale = %g", s)
	}
}

func TestMapperMonotonic(t *testing.T) {
	m := NewMapper(1234, 567, Crescendo2024)
	prevX, prevY := math.Inf(-1), math.Inf(1)
	for i := 0; i <= 100; i++ {
		x := m.X(Crescendo2024.Width * float64(i) / 100)
		y := m.Y(Crescendo2024.Height * float64(i) / 100)
		if !(x > prevX) {
			t.Fatalf("X not increasing at step %d", i)
		}
		if !(y < prevY) {
			t.Fatalf("Y not decreasing at step %d", i)
		}
		prevX, prevY = x, y
	}
}

func TestDimensionsValid(t *testing.T) {
	cases := []struct {
		d    Dimensions
		want bool
	}{
		{Crescendo2024, true},
		{Dimensions{0, 8}, false},
		{Dimensions{16, -1}, false},
		{Dimensions{math.NaN(), 8}, false},
		{Dimensions{math.Inf(1), 8}, false},
	}
	for _, c := range cases {
		if got := c.d.Valid(); got != c.want {
			t.Errorf("%v.Valid() = %t", c.d, got)
		}
	}
}

const sample = `{
  "devices": [{
    "id": "d1", "name": "front", "ipAddress": "10.67.38.11",
    "cameras": [{
      "notes": [], "apriltags": [], "robots": [],
      "position": {"x": 0.1, "y": 0, "z": 0.5, "roll": 0, "pitch": 15, "yaw": 180}
    }]
  }],
  "fused_data": {
    "targets": {
      "notes": [{"certainty": 0.9, "position": {"x": 8, "y": 4}}],
      "apriltags": [{"id": 7, "certainty": 1,
        "position": {"x": 1, "y": 2, "z": 0, "roll": 0, "pitch": 0, "yaw": 90}}],
      "robots": [{"team": 5990, "alliance": "RED", "certainty": 0.5,
        "position": {"x": 2, "y": 2, "yaw": -90}}]
    },
    "position": {"x": 10, "y": 3, "yaw": 45, "certainty": 0.8}
  }
}`

func TestDecodeDegrees(t *testing.T) {
	data, err := Decode(strings.NewReader(sample), Degrees)
	if err != nil {
		t.Fatal(err)
	}

	const eps = 1e-12
	robot := data.FusedData.Targets.Robots[0]
	if robot.Team != 5990 || robot.Alliance != Red {
		t.Errorf("robot %+v", robot)
	}
	if math.Abs(robot.Position.Yaw+math.Pi/2) > eps {
		t.Errorf("robot yaw %g", robot.Position.Yaw)
	}
	if yaw := data.FusedData.Targets.AprilTags[0].Position.Yaw; math.Abs(yaw-math.Pi/2) > eps {
		t.Errorf("tag yaw %g", yaw)
	}
	if yaw := data.FusedData.Position.Yaw; math.Abs(yaw-math.Pi/4) > eps {
		t.Errorf("observer yaw %g", yaw)
	}
	cam := data.Devices[0].Cameras[0].Position
	if math.Abs(cam.Pitch-math.Pi/12) > eps || math.Abs(cam.Yaw-math.Pi) > eps {
		t.Errorf("camera pose %+v", cam)
	}

	snap := data.Snapshot()
	if snap.Observer.X != 10 || snap.Observer.Y != 3 {
		t.Errorf("observer %+v", snap.Observer)
	}
	if len(snap.Notes) != 1 || len(snap.Robots) != 1 || len(snap.AprilTags) != 1 {
		t.Errorf("snapshot %+v", snap)
	}
}

func TestDecodeRadiansUnchanged(t *testing.T) {
	data, err := Decode(strings.NewReader(sample), Radians)
	if err != nil {
		t.Fatal(err)
	}
	if yaw := data.FusedData.Targets.Robots[0].Position.Yaw; yaw != -90 {
		t.Errorf("yaw changed to %g", yaw)
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"fused_data": `), Radians)
	if err == nil {
		t.Fatal("truncated input accepted")
	}
	var syntax *json.SyntaxError
	if !errors.As(err, &syntax) && !strings.Contains(err.Error(), "EOF") {
		t.Errorf("unexpected error %v", err)
	}

	bad := `{"fused_data": {"targets": {"robots": [{"alliance": "GREEN"}]}}}`
	if _, err := Decode(strings.NewReader(bad), Radians); err == nil {
		t.Error("unknown alliance accepted")
	}
}

func TestSnapshotWithoutPosition(t *testing.T) {
	data, err := Decode(strings.NewReader(`{"fused_data": {"targets": {}}}`), Degrees)
	if err != nil {
		t.Fatal(err)
	}
	snap := data.Snapshot()
	if snap.Observer != (Pose2d{}) {
		t.Errorf("observer %+v", snap.Observer)
	}
	if len(snap.Robots)+len(snap.Notes)+len(snap.AprilTags) != 0 {
		t.Errorf("snapshot %+v", snap)
	}
}

func TestAllianceJSON(t *testing.T) {
	buf, err := json.Marshal([]Alliance{Red, Blue})
	if err != nil {
		t.Fatal(err)
	}
	if string(buf) != `["RED","BLUE"]` {
		t.Errorf("got %s", buf)
	}
}

func TestParseAngleUnit(t *testing.T) {
	for _, s := range []string{"radians", "degrees"} {
		u, err := ParseAngleUnit(s)
		if err != nil || u.String() != s {
			t.Errorf("ParseAngleUnit(%q) = %v, %v", s, u, err)
		}
	}
	if _, err := ParseAngleUnit("gradians"); err == nil {
		t.Error("gradians accepted")
	}
}

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout()
	if len(l.Tags) != 16 {
		t.Fatalf("%d tags", len(l.Tags))
	}
	if l.Field != Crescendo2024 {
		t.Errorf("field %v", l.Field)
	}

	cases := []struct {
		id     int
		x, y   float64
		degree float64
	}{
		{1, 15.079471999999997, 0.24587199999999998, 120},
		{3, 16.579342, 4.982717999999999, 180},
		{5, 14.700757999999999, 8.2042, -90},
		{7, -0.038099999999999995, 5.547867999999999, 0},
		{9, 0.356108, 0.883666, 60},
		{11, 11.904726, 3.7132259999999997, -60},
		{16, 4.641342, 3.7132259999999997, -120},
	}
	for _, c := range cases {
		p, ok := l.Lookup(c.id)
		if !ok {
			t.Errorf("tag %d missing", c.id)
			continue
		}
		if p.X != c.x || p.Y != c.y {
			t.Errorf("tag %d at (%g, %g)", c.id, p.X, p.Y)
		}
		if d := math.Abs(p.Yaw*180/math.Pi - c.degree); d > 1e-9 {
			t.Errorf("tag %d yaw %g°, want %g°", c.id, p.Yaw*180/math.Pi, c.degree)
		}
	}

	if _, ok := l.Lookup(17); ok {
		t.Error("tag 17 found")
	}
}

func TestLoadLayoutDuplicate(t *testing.T) {
	in := `{"tags": [{"ID": 1}, {"ID": 1}], "field": {"length": 1, "width": 1}}`
	if _, err := LoadLayout(strings.NewReader(in)); err == nil {
		t.Error("duplicate tag accepted")
	}
}

func TestLayoutFunc(t *testing.T) {
	var l TagLayout = LayoutFunc(func(id int) (Pose2d, bool) {
		return Pose2d{X: float64(id)}, id == 3
	})
	if p, ok := l.Lookup(3); !ok || p.X != 3 {
		t.Errorf("Lookup(3) = %v, %t", p, ok)
	}
	if _, ok := l.Lookup(4); ok {
		t.Error("Lookup(4) found")
	}
}
