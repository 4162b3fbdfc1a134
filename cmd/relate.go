package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/avargascr/linaje/internal/person"
	"github.com/avargascr/linaje/internal/relation"
)

var relateCmd = &cobra.Command{
	Use:   "relate",
	Short: "Register or dissolve relations in the selected family",
}

var relateSpouseCmd = &cobra.Command{
	Use:   "spouse CEDULA_A CEDULA_B",
	Short: "Register a spousal link",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		f, err := currentFamily(s.reg)
		if err != nil {
			return err
		}
		mode := relation.Manual
		if simulated, _ := cmd.Flags().GetBool("simulated"); simulated {
			mode = relation.Simulated
		}
		if err := relation.RegisterSpouse(f, args[0], args[1], mode); err != nil {
			return err
		}
		if err := s.save(); err != nil {
			return err
		}
		fmt.Printf("married %s and %s\n", args[0], args[1])
		return nil
	},
}

var relateParentsCmd = &cobra.Command{
	Use:   "parents CHILD_CEDULA",
	Short: "Register the child's father and/or mother",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		f, err := currentFamily(s.reg)
		if err != nil {
			return err
		}
		father, _ := cmd.Flags().GetString("father")
		mother, _ := cmd.Flags().GetString("mother")
		if err := relation.RegisterParents(f, args[0], father, mother); err != nil {
			return err
		}
		if err := s.save(); err != nil {
			return err
		}
		fmt.Printf("registered parents of %s\n", args[0])
		return nil
	},
}

var relateDissolveCmd = &cobra.Command{
	Use:   "dissolve CEDULA",
	Short: "Break the spousal link of the given person",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		f, err := currentFamily(s.reg)
		if err != nil {
			return err
		}
		if err := relation.DissolveSpouse(f, args[0]); err != nil {
			return err
		}
		if err := s.save(); err != nil {
			return err
		}
		fmt.Printf("dissolved spousal link of %s\n", args[0])
		return nil
	},
}

var relateUnchildCmd = &cobra.Command{
	Use:   "unchild PARENT_CEDULA CHILD_CEDULA",
	Short: "Detach a child from a parent",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		f, err := currentFamily(s.reg)
		if err != nil {
			return err
		}
		if err := relation.RemoveChild(f, args[0], args[1]); err != nil {
			return err
		}
		if err := s.save(); err != nil {
			return err
		}
		fmt.Printf("detached %s from %s\n", args[1], args[0])
		return nil
	},
}

var relateDeathCmd = &cobra.Command{
	Use:   "death CEDULA DATE",
	Short: "Record a death (yyyy-mm-dd); a living spouse becomes Viudo/a",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := time.Parse(person.DateLayout, args[1])
		if err != nil {
			return fmt.Errorf("invalid date %q, want yyyy-mm-dd", args[1])
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		f, err := currentFamily(s.reg)
		if err != nil {
			return err
		}
		if err := relation.RecordDeath(f, args[0], date); err != nil {
			return err
		}
		if err := s.save(); err != nil {
			return err
		}
		fmt.Printf("recorded death of %s on %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	relateSpouseCmd.Flags().Bool("simulated", false, "apply the simulated-mode compatibility screen")
	relateParentsCmd.Flags().String("father", "", "father cedula")
	relateParentsCmd.Flags().String("mother", "", "mother cedula")

	relateCmd.AddCommand(relateSpouseCmd, relateParentsCmd, relateDissolveCmd,
		relateUnchildCmd, relateDeathCmd)
	rootCmd.AddCommand(relateCmd)
}
