/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"github.com/rotblauer/ctoa/common"
	"github.com/rotblauer/ctoa/geo/elevation"
	"github.com/rotblauer/ctoa/gpxdoc"
	"github.com/rotblauer/ctoa/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats <in.gpx>",
	Short: "Summarize the track points of a GPX file",
	Long: `Summarize the input without modifying it: track point counts,
elevation min/max/mean/median/stddev/p95, climb, distance, duration,
and a fingerprint of the lat/lon/ele sequence.

Equal fingerprints before and after a clean mean nothing was removed.

Examples:

  ctoa stats ride.gpx
  ctoa stats --format json ride.gpx.gz
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setDefaultSlog(cmd, args)
		format, err := report.ParseFormat(viper.GetString("format"))
		if err != nil {
			return err
		}
		acc, err := elevation.NewAccessor(0, common.DiscardLogger())
		if err != nil {
			return err
		}
		doc, err := gpxdoc.Load(args[0])
		if err != nil {
			return err
		}
		s := &report.Stats{File: args[0], Summary: report.Summarize(doc.Root(), acc)}
		if err := s.Write(cmd.OutOrStdout(), format); err != nil {
			return fmt.Errorf("write stats: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().String("format", string(report.FormatText), "Output format: text, json, yaml")
	cobra.CheckErr(viper.BindPFlag("format", statsCmd.Flags().Lookup("format")))
}
