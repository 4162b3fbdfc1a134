package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/avargascr/linaje/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [DIR]",
	Short: "Re-import .ged files in a directory whenever they change",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		dir := s.cfg.DataDir
		if len(args) == 1 {
			dir = args[0]
		}

		w, err := watch.New(dir)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()

		fmt.Printf("watching %s for .ged changes (ctrl-c to stop)\n", dir)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		for {
			select {
			case change := <-w.Changes:
				if change.Kind != watch.ChangeModified {
					continue
				}
				id, err := importFile(s, change.File, "")
				if err != nil {
					s.log.Warn("re-import failed", zap.String("file", change.File), zap.Error(err))
					continue
				}
				if err := s.save(); err != nil {
					return err
				}
				s.log.Info("re-imported", zap.String("file", change.File), zap.Int("family", id))
			case <-sig:
				return nil
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
