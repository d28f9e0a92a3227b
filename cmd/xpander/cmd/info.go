package cmd

import (
	"fmt"

	"github.com/JoakimHagen/MCP23X17/pkg/mcp23x17"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show transport details and a register dump",
	Long: `Print information about the selected transport and the merged 16-bit value
of every register (side A in the low byte, side B in the high byte).

Examples:
  xpander info --transport sim
  xpander info --transport i2cdev --bus 1 --addr 0x21`,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	dev, _, err := openDevice()
	if err != nil {
		return err
	}

	xportInfo, err := dev.A.Transport().Info()
	if err != nil {
		return fmt.Errorf("failed to query transport: %w", err)
	}

	fmt.Println("Transport Information")
	fmt.Println("=====================")
	fmt.Printf("  Name:   %s\n", xportInfo.Label())
	if xportInfo.Vendor != "" {
		fmt.Printf("  Vendor: %s\n", xportInfo.Vendor)
	}
	if xportInfo.SerialNumber != "" {
		fmt.Printf("  Serial: %s\n", xportInfo.SerialNumber)
	}
	if xportInfo.BusSpeedHz > 0 {
		fmt.Printf("  Speed:  %d Hz\n", xportInfo.BusSpeedHz)
	}
	if xportInfo.Notes != "" {
		fmt.Printf("  Notes:  %s\n", xportInfo.Notes)
	}

	dump, err := dev.DumpRegisters()
	if err != nil {
		return fmt.Errorf("failed to dump registers: %w", err)
	}

	fmt.Println("\nRegisters (B:A)")
	fmt.Println("===============")
	for _, r := range mcp23x17.Registers() {
		fmt.Printf("  %-8s 0x%04X\n", r, dump[r])
	}

	return nil
}
