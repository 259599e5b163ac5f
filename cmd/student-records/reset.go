package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe the store: remove every record and restart IDs at 1",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false,
		"confirm the wipe; without it nothing is touched")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetYes {
		return fmt.Errorf("reset removes every record permanently; re-run with --yes to confirm")
	}

	removed, err := store.Reset()
	if err != nil {
		return err
	}

	fmt.Printf("store reset: %d record(s) removed, next id is 1\n", removed)
	return nil
}
