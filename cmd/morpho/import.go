package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"morpho/adapters/ingest"
	"morpho/domain/measure"
	"morpho/ports"

	"github.com/spf13/cobra"
)

var (
	importAssayName   string
	importDescription string
	importParams      string
	importNoDupCheck  bool
)

var importCmd = &cobra.Command{
	Use:   "import <directory>",
	Short: "Import a directory of data files into a new assay",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		descs, err := ingest.ScanDirectory(dir)
		if err != nil {
			return err
		}
		if len(descs) == 0 {
			return fmt.Errorf("no convention-named data files in %s", dir)
		}

		headers, err := ingest.ScanHeaders(descs[0].Path)
		if err != nil {
			return err
		}
		mapper := measure.NewParameterMapper(headers)
		if importParams == "" {
			mapper.SelectAll()
		} else {
			mapper.Select(splitList(importParams)...)
		}
		if mapper.Count() == 0 {
			return fmt.Errorf("no selected parameters match the discovered headers")
		}

		importer := ingest.NewImporter(mapper, logger)
		records, err := importer.ImportFiles(descs)
		if err != nil {
			return err
		}

		name := importAssayName
		if name == "" {
			name = filepath.Base(dir)
		}

		return ports.Using(cmd.Context(), newStore(), func(store ports.MeasurementStore) error {
			assayID, err := store.InsertAssay(cmd.Context(), name, importDescription)
			if err != nil {
				return err
			}

			total := 0
			for i, desc := range descs {
				inserted, err := store.InsertMeasurements(cmd.Context(), assayID, records[i],
					filepath.Base(desc.Path), desc.Condition, !importNoDupCheck)
				if err != nil {
					return err
				}
				total += inserted
			}
			fmt.Printf("assay %d (%s): inserted %d measurements from %d files\n",
				assayID, name, total, len(descs))
			return nil
		})
	},
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func init() {
	importCmd.Flags().StringVar(&importAssayName, "assay", "", "assay name (default: directory name)")
	importCmd.Flags().StringVar(&importDescription, "description", "", "assay description")
	importCmd.Flags().StringVar(&importParams, "params", "", "comma-separated parameter names (default: all headers)")
	importCmd.Flags().BoolVar(&importNoDupCheck, "no-duplicate-check", false, "skip the store-level duplicate guard")
	rootCmd.AddCommand(importCmd)
}
