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
	"bufio"
	"fmt"
	"github.com/beevik/etree"
	"github.com/rotblauer/ctoa/gpxdoc"
	"github.com/rotblauer/ctoa/params"
	"github.com/spf13/cobra"
	"io"
)

// printCmd represents the print command
var printCmd = &cobra.Command{
	Use:   "print <in.gpx>",
	Short: "Print lat, lon and elevation of every track point",
	Long: `Print one line per track point, in document order, with the raw
lat and lon attributes and the raw text of the point's ele element.
Points without an ele element print an empty elevation.

Examples:

  ctoa print ride.gpx | grep -c Att
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setDefaultSlog(cmd, args)
		doc, err := gpxdoc.Load(args[0])
		if err != nil {
			return err
		}
		w := bufio.NewWriter(cmd.OutOrStdout())
		if err := printTrackPoints(w, doc.Root()); err != nil {
			return err
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(printCmd)
}

func printTrackPoints(w io.Writer, root *etree.Element) error {
	if root == nil {
		return nil
	}
	if root.Tag == params.TrackPointTag {
		lat, _ := gpxdoc.Attr(root, params.LatitudeAttr)
		lon, _ := gpxdoc.Attr(root, params.LongitudeAttr)
		ele := ""
		if el := root.SelectElement(params.ElevationTag); el != nil {
			ele, _ = gpxdoc.Text(el)
		}
		if _, err := fmt.Fprintf(w, "Att: lat = %s \t lon = %s \t ele = %s\n", lat, lon, ele); err != nil {
			return err
		}
	}
	for _, child := range gpxdoc.Children(root) {
		if err := printTrackPoints(w, child); err != nil {
			return err
		}
	}
	return nil
}
