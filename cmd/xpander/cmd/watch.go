package cmd

import (
	"fmt"
	"time"

	"github.com/JoakimHagen/MCP23X17/pkg/boardmap"
	"github.com/JoakimHagen/MCP23X17/pkg/mcp23x17"
	"github.com/spf13/cobra"
)

var (
	watchInterval time.Duration
	watchRounds   int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll input pins and report changes",
	Long: `Poll the GPIO registers of both sides and print every bit that changed
since the previous poll. Detection uses the driver's refresh-and-diff
primitive, so it works with caching enabled.

Examples:
  xpander watch --interval 250ms
  xpander watch --rounds 20 --board panel.map`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchInterval, "interval", 500*time.Millisecond,
		"time between polls")
	watchCmd.Flags().IntVar(&watchRounds, "rounds", 0,
		"number of polls before exiting (0 = forever)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	dev, bmap, err := openDevice()
	if err != nil {
		return err
	}

	ports := []*mcp23x17.Port{dev.A, dev.B}

	// Warm the caches so the first reported diff is a real change.
	for _, p := range ports {
		if _, err := p.Update(mcp23x17.GPIO); err != nil {
			return fmt.Errorf("initial read failed: %w", err)
		}
	}

	if verbose {
		fmt.Printf("Watching GPIO every %s...\n", watchInterval)
	}

	for round := 0; watchRounds == 0 || round < watchRounds; round++ {
		time.Sleep(watchInterval)

		for _, p := range ports {
			diff, err := p.Update(mcp23x17.GPIO)
			if err != nil {
				return fmt.Errorf("poll failed: %w", err)
			}
			if diff == 0 {
				continue
			}
			value, err := p.Read(mcp23x17.GPIO)
			if err != nil {
				return fmt.Errorf("poll failed: %w", err)
			}
			reportChanges(p.Side(), diff, value, bmap)
		}
	}

	return nil
}

// reportChanges prints one line per changed bit, using board map signal
// names where available.
func reportChanges(side mcp23x17.Side, diff, value uint8, bmap *boardmap.Map) {
	for bit := uint8(0); bit < 8; bit++ {
		mask := uint8(1) << bit
		if diff&mask == 0 {
			continue
		}
		level := 0
		if value&mask != 0 {
			level = 1
		}
		name := fmt.Sprintf("%s%d", side, bit)
		if bmap != nil {
			for _, e := range bmap.Entries() {
				if e.Side == side && e.Bit == bit {
					name = fmt.Sprintf("%s (%s)", e.Name, name)
					break
				}
			}
		}
		fmt.Printf("%s  %s = %d\n", time.Now().Format(time.TimeOnly), name, level)
	}
}
