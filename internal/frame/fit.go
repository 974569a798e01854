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

// Package frame keeps the latest telemetry and turns it into images.
package frame

// Fit returns the largest width and height with the given aspect ratio
// (width/height) which fit into a parentW×parentH box.
func Fit(parentW, parentH, aspect float64) (w, h float64) {
	if parentW/parentH > aspect {
		return parentH * aspect, parentH
	}
	return parentW, parentW / aspect
}
