package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	pinHigh   bool
	pinLow    bool
	pinToggle bool
	pinRead   bool
)

var pinCmd = &cobra.Command{
	Use:   "pin <name>",
	Short: "Drive or read a single pin",
	Long: `Drive a single pin high or low, toggle its output latch, or read its
level. The pin can be named by designator (A0-B7) or by a signal name from
the board map.

Driving a pin writes its output latch; the pin must be configured as an
output (board map mode, or write iodir) for the level to appear on the
package pin.

Examples:
  xpander pin A3 --high
  xpander pin relay1 --low --board panel.map
  xpander pin door --read --board panel.map`,
	Args: cobra.ExactArgs(1),
	RunE: runPin,
}

func init() {
	rootCmd.AddCommand(pinCmd)

	pinCmd.Flags().BoolVar(&pinHigh, "high", false, "drive the pin high")
	pinCmd.Flags().BoolVar(&pinLow, "low", false, "drive the pin low")
	pinCmd.Flags().BoolVar(&pinToggle, "toggle", false, "invert the pin's output latch")
	pinCmd.Flags().BoolVar(&pinRead, "read", false, "read the pin level (default)")
}

func runPin(cmd *cobra.Command, args []string) error {
	actions := 0
	for _, set := range []bool{pinHigh, pinLow, pinToggle, pinRead} {
		if set {
			actions++
		}
	}
	if actions > 1 {
		return fmt.Errorf("specify at most one of --high, --low, --toggle, --read")
	}

	dev, bmap, err := openDevice()
	if err != nil {
		return err
	}

	pin, err := resolvePin(dev, bmap, args[0])
	if err != nil {
		return err
	}

	switch {
	case pinHigh, pinLow:
		if err := pin.SetValue(pinHigh); err != nil {
			return fmt.Errorf("failed to drive pin %s: %w", pin, err)
		}
		if err := dev.Commit(); err != nil {
			return fmt.Errorf("commit failed: %w", err)
		}
		level := "low"
		if pinHigh {
			level = "high"
		}
		fmt.Printf("Pin %s set %s\n", pin, level)

	case pinToggle:
		current, err := pin.OutputLatch()
		if err != nil {
			return fmt.Errorf("failed to read latch of pin %s: %w", pin, err)
		}
		if err := pin.SetOutputLatch(!current); err != nil {
			return fmt.Errorf("failed to toggle pin %s: %w", pin, err)
		}
		if err := dev.Commit(); err != nil {
			return fmt.Errorf("commit failed: %w", err)
		}
		fmt.Printf("Pin %s toggled to %v\n", pin, !current)

	default:
		value, err := pin.Value()
		if err != nil {
			return fmt.Errorf("failed to read pin %s: %w", pin, err)
		}
		level := 0
		if value {
			level = 1
		}
		fmt.Printf("Pin %s = %d\n", pin, level)
	}

	return nil
}
