package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose       bool
	transportType string
	bridgeSerial  string
	i2cBusNum     int
	chipAddr      string
	boardFile     string
	noCache       bool
)

var rootCmd = &cobra.Command{
	Use:   "xpander",
	Short: "MCP23X17 I/O expander control",
	Long: `Control an MCP23017/MCP23S17 dual-port I/O expander from the host: read
and write registers, drive and observe pins, and watch inputs for changes.

Pins can be addressed by designator (A0-B7) or by board-level signal names
from a board map file.

Examples:
  xpander info --transport sim                      # register dump against the simulator
  xpander write olat 0x00FF --transport i2cdev      # drive all side-A pins high
  xpander pin relay1 --high --board panel.map       # named pin via board map
  xpander watch --interval 250ms                    # poll inputs for changes`,
	Version: "1.0.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&transportType, "transport", "t", "sim",
		"transport backend: sim, mcp2221 or i2cdev")
	rootCmd.PersistentFlags().StringVar(&bridgeSerial, "serial", "",
		"MCP2221 bridge serial number (default: first found)")
	rootCmd.PersistentFlags().IntVar(&i2cBusNum, "bus", 1,
		"i2cdev: I2C bus number (/dev/i2c-N)")
	rootCmd.PersistentFlags().StringVar(&chipAddr, "addr", "0x20",
		"chip I2C address (0x20-0x27)")
	rootCmd.PersistentFlags().StringVarP(&boardFile, "board", "b", "",
		"board map file with signal names")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false,
		"write through to hardware instead of deferring writes")
}
