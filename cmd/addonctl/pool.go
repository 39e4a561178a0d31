package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/udisondev/armoraddons/internal/game/addon"
)

func (c *cli) poolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pool",
		Short: "List the configured roll pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := addon.DefaultCatalog()
			pool := addon.NewPool(catalog, addon.PoolNames(catalog, c.cfg.Addon.Effects))
			lore := addon.NewThematicLore(catalog)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tSLOT\tLEVELS")
			for _, id := range pool.Snapshot() {
				def, _ := catalog.Lookup(id)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", def.ID, lore.DisplayName(def), def.Category, def.SlotRule, def.CanLevel())
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d entries\n", pool.Len())
			return nil
		},
	}
}
