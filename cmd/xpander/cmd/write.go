package cmd

import (
	"fmt"
	"strconv"

	"github.com/JoakimHagen/MCP23X17/pkg/mcp23x17"
	"github.com/spf13/cobra"
)

var writeCmd = &cobra.Command{
	Use:   "write <register> <value16>",
	Short: "Write a 16-bit value to a register pair",
	Long: `Write a 16-bit value to the named register: the low byte goes to side A,
the high byte to side B. Values accept decimal, 0x hex and 0b binary.

Examples:
  xpander write olat 0x00FF      # side A all high, side B all low
  xpander write iodir 0          # everything an output`,
	Args: cobra.ExactArgs(2),
	RunE: runWrite,
}

func init() {
	rootCmd.AddCommand(writeCmd)
}

func runWrite(cmd *cobra.Command, args []string) error {
	reg, err := mcp23x17.ParseRegister(args[0])
	if err != nil {
		return err
	}
	value64, err := strconv.ParseUint(args[1], 0, 16)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[1], err)
	}

	dev, _, err := openDevice()
	if err != nil {
		return err
	}

	if err := dev.WriteWord(reg, uint16(value64)); err != nil {
		return fmt.Errorf("write %s failed: %w", reg, err)
	}
	if err := dev.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}

	fmt.Printf("%s := 0x%04X\n", reg, uint16(value64))
	return nil
}
