package main

import (
	"fmt"
	"os"

	"morpho/domain/profile"
	"morpho/internal/profiles"

	"github.com/spf13/cobra"
)

var profileOverwrite bool

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage analysis profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := profiles.NewManager(cfg.Paths.ProfilesDir)
		if err != nil {
			return err
		}
		names, err := manager.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("no profiles")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a profile as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := profiles.NewManager(cfg.Paths.ProfilesDir)
		if err != nil {
			return err
		}
		p, err := manager.Load(args[0])
		if err != nil {
			return err
		}
		data, err := p.ToJSON()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	},
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a profile with default settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := profiles.NewManager(cfg.Paths.ProfilesDir)
		if err != nil {
			return err
		}
		p := profile.Default(args[0])
		p.Alpha = cfg.Analysis.Alpha
		p.FrequencyBinWidth = cfg.Analysis.BinWidth
		p.PlotDPI = cfg.Analysis.PlotDPI
		path, err := manager.Save(p, profileOverwrite)
		if err != nil {
			return err
		}
		fmt.Println("saved", path)
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := profiles.NewManager(cfg.Paths.ProfilesDir)
		if err != nil {
			return err
		}
		return manager.Delete(args[0])
	},
}

var profileDuplicateCmd = &cobra.Command{
	Use:   "duplicate <source> <new-name>",
	Short: "Copy a profile under a new name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := profiles.NewManager(cfg.Paths.ProfilesDir)
		if err != nil {
			return err
		}
		_, err = manager.Duplicate(args[0], args[1])
		return err
	},
}

func init() {
	profileCreateCmd.Flags().BoolVar(&profileOverwrite, "overwrite", false, "replace an existing profile of the same name")
	profileCmd.AddCommand(profileListCmd, profileShowCmd, profileCreateCmd, profileDeleteCmd, profileDuplicateCmd)
	rootCmd.AddCommand(profileCmd)
}
