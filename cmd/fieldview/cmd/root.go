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

// Package cmd implements the fieldview command line.
package cmd

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"seehuhn.de/go/fieldview/internal/config"
	"seehuhn.de/go/fieldview/internal/frame"
)

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "fieldview",
	Short: "fieldview - draw the field map from vision telemetry",
	Long: `fieldview draws robots, notes and AprilTags seen by the vision
backend onto a map of the playing field.

Examples:
  fieldview render data.json -o frame.png   # draw one saved document
  fieldview serve --config fieldview.yaml   # poll the backend and stream frames`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Sampling = nil
	return cfg.Build()
}

func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.Default(), nil
	}
	return config.Load(configFile)
}

// newLoop builds the frame loop described by c.
func newLoop(c *config.Config, store *frame.Store, log *zap.Logger) (*frame.Loop, error) {
	r, err := c.Renderer()
	if err != nil {
		return nil, err
	}
	loop := &frame.Loop{
		Renderer: r,
		Store:    store,
		Width:    c.Render.Width,
		Height:   c.Render.Height,
		Interval: c.Render.Interval,
		Logger:   log,
	}
	if c.Render.Background != "" {
		loop.Background, err = loadImage(c.Render.Background)
		if err != nil {
			return nil, err
		}
	}
	return loop, nil
}

func loadImage(name string) (image.Image, error) {
	fd, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	img, _, err := image.Decode(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return img, nil
}
