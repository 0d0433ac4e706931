package main

import (
	"fmt"

	"morpho/ports"

	"github.com/spf13/cobra"
)

var assaysCmd = &cobra.Command{
	Use:   "assays",
	Short: "List stored assays",
	RunE: func(cmd *cobra.Command, args []string) error {
		return ports.Using(cmd.Context(), newStore(), func(store ports.MeasurementStore) error {
			assays, err := store.ListAssays(cmd.Context())
			if err != nil {
				return err
			}
			if len(assays) == 0 {
				fmt.Println("no assays")
				return nil
			}
			for _, a := range assays {
				count, err := store.GetMeasurementCount(cmd.Context(), a.ID)
				if err != nil {
					return err
				}
				fmt.Printf("%d\t%s\t%d measurements\t%s\n",
					a.ID, a.Name, count, a.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		})
	},
}

var assayDeleteCmd = &cobra.Command{
	Use:   "delete <assay-id>",
	Short: "Delete an assay and all its measurements",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int64
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid assay id %q", args[0])
		}
		return ports.Using(cmd.Context(), newStore(), func(store ports.MeasurementStore) error {
			return store.DeleteAssay(cmd.Context(), id)
		})
	},
}

func init() {
	assaysCmd.AddCommand(assayDeleteCmd)
	rootCmd.AddCommand(assaysCmd)
}
