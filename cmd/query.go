package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/avargascr/linaje/internal/kinship"
	"github.com/avargascr/linaje/internal/person"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Kinship and aggregate queries over the selected family",
}

var queryRelationCmd = &cobra.Command{
	Use:   "relation CEDULA_A CEDULA_B",
	Short: "Resolve the kinship between two members",
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
		label, err := kinship.Relation(f, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println(label)
		return nil
	},
}

var queryCousinsCmd = &cobra.Command{
	Use:   "cousins CEDULA",
	Short: "List first cousins of the ego",
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
		cousins, err := kinship.FirstCousins(f, args[0])
		if err != nil {
			return err
		}
		printPersons(cousins)
		return nil
	},
}

var queryAncestorsCmd = &cobra.Command{
	Use:   "ancestors CEDULA",
	Short: "List the maternal ancestor chain of the ego",
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
		chain, err := kinship.MaternalAncestors(f, args[0])
		if err != nil {
			return err
		}
		for i, p := range chain {
			fmt.Printf("%d. %s (%s)\n", i+1, p.FullName(), p.Cedula)
		}
		return nil
	},
}

var queryDescendantsCmd = &cobra.Command{
	Use:   "descendants CEDULA",
	Short: "List living descendants of the ego",
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
		desc, err := kinship.LivingDescendants(f, args[0])
		if err != nil {
			return err
		}
		printPersons(desc)
		return nil
	},
}

var queryBirthsCmd = &cobra.Command{
	Use:   "births YEARS",
	Short: "Count members born in the last N years",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid year count %q", args[0])
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
		fmt.Println(kinship.BirthsInLastYears(f, n))
		return nil
	},
}

var queryCouplesCmd = &cobra.Command{
	Use:   "couples MIN_CHILDREN",
	Short: "List couples with at least N shared children",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := strconv.Atoi(args[0])
		if err != nil || k < 0 {
			return fmt.Errorf("invalid child count %q", args[0])
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
		for _, c := range kinship.CouplesWithMinChildren(f, k) {
			fmt.Printf("%s + %s: %d hijos\n", c.A.FullName(), c.B.FullName(), c.Children)
		}
		return nil
	},
}

var queryDeceasedCmd = &cobra.Command{
	Use:   "deceased CUTOFF_AGE",
	Short: "Count members who died before the given age",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cutoff, err := strconv.Atoi(args[0])
		if err != nil || cutoff < 0 {
			return fmt.Errorf("invalid age %q", args[0])
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
		fmt.Println(kinship.DeceasedBeforeAge(f, cutoff))
		return nil
	},
}

var queryCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Audit the selected family against the relation invariants",
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
		violations := f.VerifyIntegrity()
		if len(violations) == 0 {
			fmt.Println("ok")
			return nil
		}
		for _, v := range violations {
			fmt.Println(v.Error())
		}
		return fmt.Errorf("%d integrity violations", len(violations))
	},
}

func printPersons(ps []*person.Person) {
	for _, p := range ps {
		fmt.Printf("%s (%s)\n", p.FullName(), p.Cedula)
	}
}

func init() {
	queryCmd.AddCommand(queryRelationCmd, queryCousinsCmd, queryAncestorsCmd,
		queryDescendantsCmd, queryBirthsCmd, queryCouplesCmd, queryDeceasedCmd,
		queryCheckCmd)
	rootCmd.AddCommand(queryCmd)
}
