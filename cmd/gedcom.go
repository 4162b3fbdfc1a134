package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/avargascr/linaje/internal/gedcom"
)

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Write the selected family in the GEDCOM-compatible format",
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
		out, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("creating %s: %w", args[0], err)
		}
		defer out.Close()

		if err := gedcom.Encode(out, f); err != nil {
			return err
		}
		fmt.Printf("exported %s (%d members) to %s\n", f.Name, f.Len(), args[0])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Read a GEDCOM-compatible file into a new family",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		name, _ := cmd.Flags().GetString("name")
		id, err := importFile(s, args[0], name)
		if err != nil {
			return err
		}
		if err := s.save(); err != nil {
			return err
		}
		fmt.Printf("imported %s as family %d\n", args[0], id)
		return nil
	},
}

// importFile decodes one .ged file into a fresh family and registers it.
// Codec warnings are logged, not fatal; integrity leftovers after the
// decoder's normalization pass are logged too.
func importFile(s *session, path, name string) (int, error) {
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	in, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer in.Close()

	f, warns, err := gedcom.Decode(in, name)
	if err != nil {
		return 0, err
	}
	for _, w := range warns {
		s.log.Warn("codec warning", zap.Int("line", w.Line),
			zap.String("kind", w.Kind), zap.String("text", w.Text))
	}
	for _, v := range f.VerifyIntegrity() {
		s.log.Warn("integrity violation after import",
			zap.String("invariant", v.Invariant), zap.String("cedula", v.Cedula),
			zap.String("detail", v.Detail))
	}

	return s.reg.Adopt(f), nil
}

func init() {
	importCmd.Flags().String("name", "", "family name (default: file name)")
	rootCmd.AddCommand(exportCmd, importCmd)
}
