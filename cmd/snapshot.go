package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/avargascr/linaje/internal/persist"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save, archive, and inspect registry snapshots",
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write the snapshot document and append it to the archive",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		doc, errs := persist.Snapshot(s.reg)
		for _, e := range errs {
			s.log.Warn("skipped family during snapshot", zap.Error(e))
		}
		if err := persist.Save(s.cfg.SnapshotFile, doc); err != nil {
			return err
		}

		ctx := cmd.Context()
		arch, err := persist.OpenArchive(ctx, s.cfg.ArchiveDB)
		if err != nil {
			return err
		}
		defer arch.Close()
		if err := arch.Append(ctx, doc); err != nil {
			return err
		}
		fmt.Printf("snapshot %s saved and archived\n", doc.ManagerState.SnapshotID)
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived snapshots, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		arch, err := persist.OpenArchive(cmd.Context(), s.cfg.ArchiveDB)
		if err != nil {
			return err
		}
		defer arch.Close()

		entries, err := arch.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%s  %s  %d families, %d members\n",
				e.ID, e.TakenAt.Format("2006-01-02 15:04:05"), e.Families, e.Members)
		}
		return nil
	},
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore SNAPSHOT_ID",
	Short: "Replace the working snapshot with an archived one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		ctx := cmd.Context()
		arch, err := persist.OpenArchive(ctx, s.cfg.ArchiveDB)
		if err != nil {
			return err
		}
		defer arch.Close()

		doc, err := arch.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if err := persist.Save(s.cfg.SnapshotFile, doc); err != nil {
			return err
		}
		fmt.Printf("restored snapshot %s\n", args[0])
		return nil
	},
}

func init() {
	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotListCmd, snapshotRestoreCmd)
	rootCmd.AddCommand(snapshotCmd)
}
