package cmd

import (
	"fmt"

	"github.com/JoakimHagen/MCP23X17/pkg/bus"
	"github.com/spf13/cobra"
)

var transportsCmd = &cobra.Command{
	Use:   "transports",
	Short: "List available transports",
	Long: `Scan the host for MCP2221 USB-I2C bridges and print a summary of the
available transports. Use this to verify connectivity or pick a --serial
before running other commands.`,
	RunE: runTransports,
}

func init() {
	rootCmd.AddCommand(transportsCmd)
}

func runTransports(cmd *cobra.Command, args []string) error {
	fmt.Println("Built-in transports:")
	fmt.Println("  - sim     (in-memory simulator, no hardware)")
	fmt.Println("  - i2cdev  (/dev/i2c-N, linux only)")

	bridges, err := bus.EnumerateMCP2221()
	if err != nil {
		return fmt.Errorf("enumerate USB bridges: %w", err)
	}

	if len(bridges) == 0 {
		fmt.Println("\nNo MCP2221 bridges detected.")
		return nil
	}

	fmt.Println("\nDetected MCP2221 bridges:")
	for _, b := range bridges {
		fmt.Printf("  - %s (VID:PID %04X:%04X, serial %s)\n",
			b.Description, b.VID, b.PID, b.SerialNumber)
	}

	return nil
}
