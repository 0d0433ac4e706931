package main

import (
	"fmt"
	"strings"

	"morpho/adapters/ingest"

	"github.com/spf13/cobra"
)

var scanShowHeaders bool

var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "List convention-named data files in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		descs, err := ingest.ScanDirectory(args[0])
		if err != nil {
			return err
		}
		if len(descs) == 0 {
			fmt.Println("no matching data files")
			return nil
		}

		for _, d := range descs {
			marker := d.DatasetMarker
			if marker == "" {
				marker = "-"
			}
			fmt.Printf("%-40s exp=%d condition=%s image=%d marker=%s format=%s\n",
				d.Path, d.ExperimentIndex, d.Condition, d.ImageIndex, marker, d.Format)
		}

		if markers := ingest.DetectMarkers(descs); len(markers) > 0 {
			fmt.Printf("dataset markers: %s\n", strings.Join(markers, ", "))
		}

		if scanShowHeaders {
			headers, err := ingest.ScanHeaders(descs[0].Path)
			if err != nil {
				return err
			}
			fmt.Printf("headers (%s): %s\n", descs[0].Path, strings.Join(headers, ", "))
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanShowHeaders, "headers", false, "also print the column headers of the first file")
	rootCmd.AddCommand(scanCmd)
}
