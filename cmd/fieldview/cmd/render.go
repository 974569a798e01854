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

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"seehuhn.de/go/fieldview/field"
)

var renderOutput string

var renderCmd = &cobra.Command{
	Use:   "render <data.json>",
	Short: "Draw one backend document as a PNG image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		c, err := loadConfig()
		if err != nil {
			return err
		}

		fd, err := os.Open(args[0])
		if err != nil {
			return err
		}
		data, err := field.Decode(fd, c.AngleUnit())
		fd.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		loop, err := newLoop(c, nil, log)
		if err != nil {
			return err
		}
		snap := data.Snapshot()
		png, err := loop.Render(&snap)
		if err != nil {
			return err
		}
		if err := os.WriteFile(renderOutput, png, 0o644); err != nil {
			return err
		}
		log.Info("frame written",
			zap.String("file", renderOutput),
			zap.Int("robots", len(snap.Robots)),
			zap.Int("notes", len(snap.Notes)),
			zap.Int("tags", len(snap.AprilTags)))
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "frame.png", "output file")
	rootCmd.AddCommand(renderCmd)
}
