package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avargascr/linaje/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed FILE",
	Short: "Build a family from a TOML seed manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := seed.Load(args[0])
		if err != nil {
			return err
		}
		f, err := seed.Build(m)
		if err != nil {
			return err
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		id := s.reg.Adopt(f)
		if err := s.save(); err != nil {
			return err
		}
		fmt.Printf("seeded family %d: %s (%d members)\n", id, f.Name, f.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
