package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kalambet/studentwell/internal/storage"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Inspect or discard the copy of an unreadable history",
	Long: `When the stored history cannot be read and history.on_corrupt is "reset",
the original data is copied aside before starting over. These commands show
or remove that copy.`,
}

var backupShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the kept copy of an unreadable history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		app, err := openLocal(cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		slot, err := app.store.GetSlot(app.hist.BackupKey())
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), styles().Muted.Render("No backup kept."))
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading backup: %w", err)
		}

		printStatus("Slot", "%s", slot.Key)
		printStatus("Saved", "%s", slot.UpdatedAt.Local().Format(time.DateTime))
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(slot.Value, "\n"))
		return nil
	},
}

var backupDiscardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Delete the kept copy of an unreadable history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		app, err := openLocal(cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.hist.DiscardBackup(); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				printWarning("No backup to discard")
				return nil
			}
			return err
		}
		printSuccess("Discarded %s", app.hist.BackupKey())
		return nil
	},
}

func init() {
	backupCmd.AddCommand(backupShowCmd)
	backupCmd.AddCommand(backupDiscardCmd)
}
