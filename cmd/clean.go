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
	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/rotblauer/ctoa/common"
	"github.com/rotblauer/ctoa/geo/elevation"
	"github.com/rotblauer/ctoa/gpxdoc"
	ctoametrics "github.com/rotblauer/ctoa/metrics"
	"github.com/rotblauer/ctoa/params"
	"github.com/rotblauer/ctoa/report"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean <in.gpx>",
	Short: "Remove elevation outliers from a GPX file",
	Long: `Remove track points whose elevation deviates from the window average
of their neighbors by more than --factor meters.

The window holds the point itself and --radius track points on each side,
within the same parent element (segment). Points without elevation data are
never removed. Removal happens once per sibling level, after every point of
that level has been examined.

The result is written to <base>_cleaned<ext> next to the input, unless
--output is given. Gzipped inputs (.gpx.gz) are read and written compressed.

Flags:

  --radius      Neighbors on each side in the window. (Default is 8.)
  --factor      Maximum tolerated deviation in meters. (Default is 32.)
  --removal     last: remove only the last marked point per level, as ctoa always did.
                all: remove every marked point.
  --deviation   legacy: compare | |ele| - |avg| |. plain: compare |ele - avg|.
  --dry-run     Report marked points but write nothing.
  --report      text, json, yaml or none, printed to stdout.

Examples:

  ctoa clean ride.gpx
  ctoa clean --radius 4 --factor 20 --removal all -o out.gpx ride.gpx
  ctoa clean --dry-run --report json ride.gpx.gz
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setDefaultSlog(cmd, args)

		config, err := filterConfigFromViper()
		if err != nil {
			return err
		}
		format, err := report.ParseFormat(viper.GetString("report"))
		if err != nil {
			return err
		}
		in := args[0]
		out := viper.GetString("output")
		if out == "" {
			out = cleanedPath(in)
		}

		start := time.Now()
		r, err := cleanFile(in, out, config, metrics.NewRegistry(), slog.With("file", in))
		if err != nil {
			return err
		}
		slog.Debug("Clean done", "elapsed", time.Since(start).Round(time.Millisecond))
		return r.Write(cmd.OutOrStdout(), format)
	},
}

// filterFlags configure params.ElevationFilterConfig.
var filterFlags = pflag.NewFlagSet("filter", pflag.ContinueOnError)

func init() {
	rootCmd.AddCommand(cleanCmd)

	defaults := params.DefaultElevationFilterConfig()
	filterFlags.Int("radius", defaults.Radius, "Neighbors on each side of a point in the window average")
	filterFlags.Float64("factor", defaults.Factor, "Maximum tolerated deviation from the window average, in meters")
	filterFlags.Bool("verbose", defaults.Verbose, "Log every track point visited")
	filterFlags.String("removal", string(defaults.Removal), "Removal policy: last or all")
	filterFlags.String("deviation", string(defaults.Deviation), "Deviation rule: legacy or plain")
	filterFlags.Int("cache-size", defaults.CacheSize, "Parsed elevation cache entries, 0 disables")
	filterFlags.Bool("dry-run", defaults.DryRun, "Mark outliers but do not remove or write anything")
	cleanCmd.Flags().AddFlagSet(filterFlags)

	cleanCmd.Flags().StringP("output", "o", "", "Output path (default <base>_cleaned<ext>)")
	cleanCmd.Flags().String("report", string(report.FormatText), "Report format: text, json, yaml, none")

	cobra.CheckErr(viper.BindPFlags(cleanCmd.Flags()))
}

// filterConfigFromViper reads the filter flags, with config file and env overrides.
func filterConfigFromViper() (*params.ElevationFilterConfig, error) {
	config := &params.ElevationFilterConfig{
		Radius:    viper.GetInt("radius"),
		Factor:    viper.GetFloat64("factor"),
		Verbose:   viper.GetBool("verbose"),
		Removal:   params.RemovalPolicy(strings.ToLower(viper.GetString("removal"))),
		Deviation: params.DeviationRule(strings.ToLower(viper.GetString("deviation"))),
		DryRun:    viper.GetBool("dry-run"),
		CacheSize: viper.GetInt("cache-size"),
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// cleanedPath names the default output for in: ride.gpx becomes ride_cleaned.gpx,
// ride.gpx.gz becomes ride_cleaned.gpx.gz.
func cleanedPath(in string) string {
	gz := ""
	base := in
	if strings.HasSuffix(base, params.GZipExt) {
		gz = params.GZipExt
		base = strings.TrimSuffix(base, params.GZipExt)
	}
	ext := filepath.Ext(base)
	if ext == filepath.Base(base) {
		// Dotfile without extension.
		ext = ""
	}
	return strings.TrimSuffix(base, ext) + params.CleanedSuffix + ext + gz
}

// cleanFile loads in, filters it, and writes the result to out unless
// the config is a dry run.
func cleanFile(in, out string, config *params.ElevationFilterConfig, registry metrics.Registry, logger *slog.Logger) (*report.Report, error) {
	doc, err := gpxdoc.Load(in)
	if err != nil {
		return nil, err
	}

	filter, err := elevation.NewOutlierFilter(config, logger)
	if err != nil {
		return nil, err
	}
	filter.Metrics = ctoametrics.NewFilterMetrics(registry)

	// Summaries read elevations quietly; the filter logs missing data itself.
	quiet, err := elevation.NewAccessor(0, common.DiscardLogger())
	if err != nil {
		return nil, err
	}

	before := report.Summarize(doc.Root(), quiet)
	res := filter.FilterDocument(doc)
	after := report.Summarize(doc.Root(), quiet)

	if config.DryRun {
		out = ""
	} else if err := doc.Save(out); err != nil {
		return nil, err
	}

	counts := filter.Metrics.Counts()
	logger.Info("Cleaned track file",
		"output", out,
		"trackpoints", humanize.Comma(counts[ctoametrics.TrackPointsName]),
		"missing", humanize.Comma(counts[ctoametrics.MissingName]),
		"marked", humanize.Comma(counts[ctoametrics.MarkedName]),
		"removed", humanize.Comma(counts[ctoametrics.RemovedName]))
	return report.New(in, out, config, before, after, res), nil
}
