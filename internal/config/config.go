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

// Package config reads the settings of the fieldview command.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"seehuhn.de/go/fieldview"
	"seehuhn.de/go/fieldview/field"
)

// ErrInvalidConfig is returned, wrapped, for every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the contents of a configuration file.
type Config struct {
	Source Source `yaml:"source"`
	Field  Field  `yaml:"field"`
	Render Render `yaml:"render"`
	Server Server `yaml:"server"`
}

// Source describes the vision backend.
type Source struct {
	URL       string        `yaml:"url"`
	Interval  time.Duration `yaml:"interval"`
	Timeout   time.Duration `yaml:"timeout"`
	AngleUnit string        `yaml:"angle_unit"`
}

// Field describes the playing field.
type Field struct {
	field.Dimensions `yaml:",inline"`

	// Layout is a WPILib AprilTag layout file.  If empty, the built-in
	// 2024 layout is used.
	Layout string `yaml:"layout"`
}

// Render describes the frames.
type Render struct {
	Width      int           `yaml:"width"`
	Height     int           `yaml:"height"`
	Labels     string        `yaml:"labels"`
	Background string        `yaml:"background"`
	Interval   time.Duration `yaml:"interval"`
}

// Server describes the HTTP listener.
type Server struct {
	Addr string `yaml:"addr"`

	// AllowedOrigins lists the web pages, besides those served from the
	// same host, which may open the frame stream.  "*" allows all.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Source: Source{
			URL:       "http://localhost:5800/data",
			Interval:  100 * time.Millisecond,
			Timeout:   time.Second,
			AngleUnit: field.Radians.String(),
		},
		Field: Field{
			Dimensions: field.Crescendo2024,
		},
		Render: Render{
			Width:    1280,
			Height:   640,
			Labels:   fieldview.LabelFixed.String(),
			Interval: 100 * time.Millisecond,
		},
		Server: Server{
			Addr: ":8080",
		},
	}
}

// Load reads a YAML file on top of the defaults and validates the result.
func Load(name string) (*Config, error) {
	fd, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	c, err := Parse(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return c, nil
}

// Parse reads YAML from r on top of the defaults and validates the result.
func Parse(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	if !c.Field.Valid() {
		return fmt.Errorf("%w: field size %gx%g", ErrInvalidConfig, c.Field.Width, c.Field.Height)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("%w: canvas size %dx%d", ErrInvalidConfig, c.Render.Width, c.Render.Height)
	}
	if _, err := field.ParseAngleUnit(c.Source.AngleUnit); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := fieldview.ParseLabelMode(c.Render.Labels); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Source.Interval <= 0 {
		return fmt.Errorf("%w: poll interval %s", ErrInvalidConfig, c.Source.Interval)
	}
	if c.Render.Interval <= 0 {
		return fmt.Errorf("%w: frame interval %s", ErrInvalidConfig, c.Render.Interval)
	}
	if c.Source.Timeout < 0 {
		return fmt.Errorf("%w: timeout %s", ErrInvalidConfig, c.Source.Timeout)
	}
	for _, o := range c.Server.AllowedOrigins {
		if o == "*" {
			continue
		}
		if u, err := url.Parse(o); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: origin %q", ErrInvalidConfig, o)
		}
	}
	return nil
}

// AngleUnit returns the unit of the angles sent by the backend.
// The config must be valid.
func (c *Config) AngleUnit() field.AngleUnit {
	u, _ := field.ParseAngleUnit(c.Source.AngleUnit)
	return u
}

// LabelMode returns the robot drawing style.  The config must be valid.
func (c *Config) LabelMode() fieldview.LabelMode {
	l, _ := fieldview.ParseLabelMode(c.Render.Labels)
	return l
}

// TagLayout loads the configured AprilTag layout.
func (c *Config) TagLayout() (*field.Layout, error) {
	if c.Field.Layout == "" {
		return field.DefaultLayout(), nil
	}
	return field.LoadLayoutFile(c.Field.Layout)
}

// Renderer returns a renderer with the configured field and labels.
func (c *Config) Renderer() (*fieldview.Renderer, error) {
	layout, err := c.TagLayout()
	if err != nil {
		return nil, err
	}
	return &fieldview.Renderer{
		Dims:   c.Field.Dimensions,
		Layout: layout,
		Labels: c.LabelMode(),
	}, nil
}
