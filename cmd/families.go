package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/avargascr/linaje/internal/family"
)

var familiesCmd = &cobra.Command{
	Use:   "families",
	Short: "Manage the family catalog",
}

var familiesCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a family and select it if none is selected",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		desc, _ := cmd.Flags().GetString("description")
		id := s.reg.Create(args[0], family.WithDescription(desc))
		if err := s.save(); err != nil {
			return err
		}
		fmt.Printf("created family %d: %s\n", id, args[0])
		return nil
	},
}

var familiesDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a family; higher IDs shift down to stay dense",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid family ID %q", args[0])
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		if err := s.reg.Delete(id); err != nil {
			return err
		}
		if err := s.save(); err != nil {
			return err
		}
		fmt.Printf("deleted family %d\n", id)
		return nil
	},
}

var familiesRenameCmd = &cobra.Command{
	Use:   "rename ID NAME",
	Short: "Rename a family",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid family ID %q", args[0])
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		if err := s.reg.Rename(id, args[1]); err != nil {
			return err
		}
		if err := s.save(); err != nil {
			return err
		}
		fmt.Printf("renamed family %d to %s\n", id, args[1])
		return nil
	},
}

var familiesUseCmd = &cobra.Command{
	Use:   "use ID",
	Short: "Select the family subsequent commands operate on",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid family ID %q", args[0])
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		if err := s.reg.SetCurrent(id); err != nil {
			return err
		}
		if err := s.save(); err != nil {
			return err
		}
		fmt.Printf("now using family %d\n", id)
		return nil
	},
}

var familiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List families ordered by ID",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		current := s.reg.CurrentID()
		for _, f := range s.reg.List() {
			marker := " "
			if f.ID == current {
				marker = "*"
			}
			fmt.Printf("%s %3d  %-24s %d members\n", marker, f.ID, f.Name, f.Len())
		}
		return nil
	},
}

var familiesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show registry-wide counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		st := s.reg.Stats()
		fmt.Printf("families: %d\nmembers:  %d\nliving:   %d\ndeceased: %d\n",
			st.Families, st.Members, st.Living, st.Deceased)
		return nil
	},
}

func init() {
	familiesCreateCmd.Flags().String("description", "", "optional description")

	familiesCmd.AddCommand(familiesCreateCmd, familiesDeleteCmd, familiesRenameCmd,
		familiesUseCmd, familiesListCmd, familiesStatsCmd)
	rootCmd.AddCommand(familiesCmd)
}
