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
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"seehuhn.de/go/fieldview/field"
)

// Poller fetches the backend document at a fixed interval and stores the
// decoded snapshot.
type Poller struct {
	URL      string
	Interval time.Duration
	Unit     field.AngleUnit
	Client   *http.Client
	Store    *Store
	Logger   *zap.Logger

	failing bool
}

// Run polls until ctx is cancelled.  Failed requests are logged and the
// previous snapshot is kept.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		err := p.Poll(ctx)
		if ctx.Err() != nil {
			return nil
		}
		p.report(err)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Poll performs a single request.
func (p *Poller) Poll(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return err
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", p.URL, resp.Status)
	}
	data, err := field.Decode(resp.Body, p.Unit)
	if err != nil {
		return err
	}
	snap := data.Snapshot()
	p.Store.Set(&snap)
	return nil
}

// report logs changes between the failing and the working state.
func (p *Poller) report(err error) {
	log := p.Logger
	if log == nil {
		return
	}
	switch {
	case err != nil && !p.failing:
		log.Warn("polling failed", zap.String("url", p.URL), zap.Error(err))
	case err != nil:
		log.Debug("polling failed", zap.String("url", p.URL), zap.Error(err))
	case p.failing:
		log.Info("polling recovered", zap.String("url", p.URL))
	}
	p.failing = err != nil
}
