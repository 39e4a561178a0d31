package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/udisondev/armoraddons/internal/game/addon"
)

func (c *cli) applyCmd() *cobra.Command {
	var (
		itemID   int64
		slotName string
		times    int
		maxSlots int
		seed     uint64
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Roll add-ons onto a stored armor piece",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			slot, err := parseSlot(slotName)
			if err != nil {
				return err
			}
			if times < 1 {
				return fmt.Errorf("--times must be at least 1")
			}

			var roller addon.Roller
			if cmd.Flags().Changed("seed") {
				roller = addon.NewSeededRoller(seed)
			}
			tk, err := c.open(cmd.Context(), roller)
			if err != nil {
				return err
			}
			defer tk.close()

			item, err := armorItem(itemID, slot)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i := range times {
				res, err := tk.allocator.ApplyRandomEffect(cmd.Context(), item, maxSlots)
				if err != nil {
					return fmt.Errorf("apply %d: %w", i+1, err)
				}
				if !res.Success {
					fmt.Fprintf(out, "#%d failed: %s\n", i+1, res.Message)
					break
				}
				line := fmt.Sprintf("#%d %s level %d (%d/%d)", i+1, res.Effect, res.Level, res.SlotsUsed, res.MaxSlots)
				if res.Duplicate {
					line += " duplicate"
				}
				fmt.Fprintln(out, line)
			}
			st, err := tk.store.Read(cmd.Context(), item)
			if err != nil {
				return err
			}
			budget := maxSlots
			if budget <= 0 {
				budget = tk.allocator.DefaultMaxSlots()
			}
			printLore(cmd, tk.lore.Render(st.Effects, st.SlotsUsed, budget))
			return nil
		},
	}

	cmd.Flags().Int64Var(&itemID, "item", 0, "persistent item id")
	cmd.Flags().StringVar(&slotName, "slot", "chest", "armor slot: helmet, chest, legs or boots")
	cmd.Flags().IntVar(&times, "times", 1, "number of applies")
	cmd.Flags().IntVar(&maxSlots, "max-slots", 0, "slot budget (0 uses the configured one)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for reproducible rolls")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}
