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
	"sync/atomic"

	"seehuhn.de/go/fieldview/field"
)

// Store holds the most recent snapshot.  The last Set wins; there is no
// history and no merging.
type Store struct {
	p atomic.Pointer[field.Snapshot]
}

// Set replaces the snapshot.  The caller must not modify snap afterwards.
func (s *Store) Set(snap *field.Snapshot) {
	s.p.Store(snap)
}

// Get returns the current snapshot, or nil if none has been set.
func (s *Store) Get() *field.Snapshot {
	return s.p.Load()
}
