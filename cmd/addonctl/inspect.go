package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) inspectCmd() *cobra.Command {
	var (
		itemID   int64
		slotName string
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the stored add-on state of an armor piece",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			slot, err := parseSlot(slotName)
			if err != nil {
				return err
			}
			tk, err := c.open(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer tk.close()

			item, err := armorItem(itemID, slot)
			if err != nil {
				return err
			}
			st, err := tk.store.Read(cmd.Context(), item)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "item %d (%s)\n", itemID, slot)
			if curse, ok := st.Curse(tk.catalog); ok {
				fmt.Fprintf(out, "curse: %s\n", curse)
			}
			printLore(cmd, tk.lore.Render(st.Effects, st.SlotsUsed, tk.allocator.DefaultMaxSlots()))
			return nil
		},
	}

	cmd.Flags().Int64Var(&itemID, "item", 0, "persistent item id")
	cmd.Flags().StringVar(&slotName, "slot", "chest", "armor slot: helmet, chest, legs or boots")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}
