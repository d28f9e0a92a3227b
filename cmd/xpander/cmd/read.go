package cmd

import (
	"fmt"
	"strconv"

	"github.com/JoakimHagen/MCP23X17/pkg/mcp23x17"
	"github.com/spf13/cobra"
)

var readMask string

var readCmd = &cobra.Command{
	Use:   "read <register>",
	Short: "Read a register from both sides",
	Long: `Read the named register and print the merged 16-bit value: side A in the
low byte, side B in bits 8-15. A mask restricts which sides are touched.

Registers: IODIR, IPOL, GPINTEN, DEFVAL, INTCON, GPPU, INTF, INTCAP, GPIO, OLAT.

Examples:
  xpander read gpio
  xpander read iodir --mask 0x00FF     # side A only`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().StringVar(&readMask, "mask", "0xFFFF", "16-bit selection mask")
}

func runRead(cmd *cobra.Command, args []string) error {
	reg, err := mcp23x17.ParseRegister(args[0])
	if err != nil {
		return err
	}
	mask64, err := strconv.ParseUint(readMask, 0, 16)
	if err != nil {
		return fmt.Errorf("invalid mask %q: %w", readMask, err)
	}

	dev, _, err := openDevice()
	if err != nil {
		return err
	}

	value, err := dev.Read(reg, uint16(mask64))
	if err != nil {
		return fmt.Errorf("read %s failed: %w", reg, err)
	}

	fmt.Printf("%s = 0x%04X\n", reg, value)
	return nil
}
