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
	"fmt"
	"io"
	"math"
)

// AngleUnit is the unit in which a data source reports angles.
type AngleUnit int

// These are the supported angle units.
const (
	Radians AngleUnit = iota
	Degrees
)

func (u AngleUnit) String() string {
	switch u {
	case Radians:
		return "radians"
	case Degrees:
		return "degrees"
	default:
		return fmt.Sprintf("AngleUnit(%d)", int(u))
	}
}

// ParseAngleUnit converts "radians" or "degrees" to an AngleUnit.
func ParseAngleUnit(s string) (AngleUnit, error) {
	switch s {
	case "radians", "rad":
		return Radians, nil
	case "degrees", "deg":
		return Degrees, nil
	}
	return 0, fmt.Errorf("unknown angle unit %q", s)
}

// ToRadians converts an angle given in unit u.
func (u AngleUnit) ToRadians(a float64) float64 {
	if u == Degrees {
		return a * math.Pi / 180
	}
	return a
}

// Decode reads a backend document and converts all angles from unit to
// radians.  This is the only place where angle units are converted.
func Decode(r io.Reader, unit AngleUnit) (*Data, error) {
	data := &Data{}
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return nil, fmt.Errorf("decoding field data: %w", err)
	}
	if unit != Radians {
		data.convert(unit)
	}
	return data, nil
}

func (d *Data) convert(unit AngleUnit) {
	d.FusedData.Targets.convert(unit)
	if p := d.FusedData.Position; p != nil {
		p.Yaw = unit.ToRadians(p.Yaw)
	}
	for i := range d.Devices {
		for j := range d.Devices[i].Cameras {
			cam := &d.Devices[i].Cameras[j]
			cam.Targets.convert(unit)
			cam.Position.convert(unit)
		}
	}
}

func (t *Targets) convert(unit AngleUnit) {
	for i := range t.Robots {
		t.Robots[i].Position.Yaw = unit.ToRadians(t.Robots[i].Position.Yaw)
	}
	for i := range t.AprilTags {
		t.AprilTags[i].Position.convert(unit)
	}
}

func (p *Pose3d) convert(unit AngleUnit) {
	p.Roll = unit.ToRadians(p.Roll)
	p.Pitch = unit.ToRadians(p.Pitch)
	p.Yaw = unit.ToRadians(p.Yaw)
}
