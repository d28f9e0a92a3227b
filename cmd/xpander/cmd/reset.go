package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore hardware defaults on both ports",
	Long: `Write the hardware reset defaults to every register on both sides: all
pins become inputs, every other register is cleared. The defaults are
always pushed to hardware, whatever the caching mode.`,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	dev, _, err := openDevice()
	if err != nil {
		return err
	}

	if err := dev.Reset(); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	fmt.Println("Device reset to hardware defaults")
	return nil
}
