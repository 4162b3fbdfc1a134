package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avargascr/linaje/internal/person"
)

var personCmd = &cobra.Command{
	Use:   "person",
	Short: "Add or remove members of the selected family",
}

var personAddCmd = &cobra.Command{
	Use:   "add CEDULA",
	Short: "Create a person through the validated factory",
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

		fields := person.Fields{Cedula: args[0]}
		fields.FirstName, _ = cmd.Flags().GetString("first-name")
		fields.LastName, _ = cmd.Flags().GetString("last-name")
		fields.BirthDate, _ = cmd.Flags().GetString("birth")
		fields.DeathDate, _ = cmd.Flags().GetString("death")
		fields.Gender, _ = cmd.Flags().GetString("gender")
		fields.Province, _ = cmd.Flags().GetString("province")
		fields.MaritalStatus, _ = cmd.Flags().GetString("status")

		p, err := person.New(fields)
		if err != nil {
			return err
		}
		p.Interests, _ = cmd.Flags().GetStringSlice("interests")

		if err := f.Add(p); err != nil {
			return err
		}
		if err := s.save(); err != nil {
			return err
		}
		fmt.Printf("added %s (%s) to %s\n", p.FullName(), p.Cedula, f.Name)
		return nil
	},
}

var personRemoveCmd = &cobra.Command{
	Use:   "remove CEDULA",
	Short: "Remove a person with no spouse and no children",
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
		if err := f.Remove(args[0]); err != nil {
			return err
		}
		if err := s.save(); err != nil {
			return err
		}
		fmt.Printf("removed %s from %s\n", args[0], f.Name)
		return nil
	},
}

var personListCmd = &cobra.Command{
	Use:   "list",
	Short: "List members of the selected family",
	Args:  cobra.NoArgs,
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
		onlyLiving, _ := cmd.Flags().GetBool("living")
		members := f.Members()
		if onlyLiving {
			members = f.Living()
		}
		for _, p := range members {
			status := "viva/o"
			if !p.Alive() {
				status = "fallecida/o"
			}
			fmt.Printf("%-14s %-28s %s  %s\n", p.Cedula, p.FullName(),
				p.BirthDate.Format(person.DateLayout), status)
		}
		return nil
	},
}

func init() {
	personAddCmd.Flags().String("first-name", "", "first name")
	personAddCmd.Flags().String("last-name", "", "last name")
	personAddCmd.Flags().String("birth", "", "birth date (yyyy-mm-dd)")
	personAddCmd.Flags().String("death", "", "death date (yyyy-mm-dd)")
	personAddCmd.Flags().String("gender", "", "Masculino or Femenino")
	personAddCmd.Flags().String("province", "", "province of birth")
	personAddCmd.Flags().String("status", "", "marital status")
	personAddCmd.Flags().StringSlice("interests", nil, "comma-separated interests")
	personListCmd.Flags().Bool("living", false, "only living members")

	personCmd.AddCommand(personAddCmd, personRemoveCmd, personListCmd)
	rootCmd.AddCommand(personCmd)
}
