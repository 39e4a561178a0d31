package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/udisondev/armoraddons/internal/config"
	"github.com/udisondev/armoraddons/internal/db"
	"github.com/udisondev/armoraddons/internal/game/addon"
	"github.com/udisondev/armoraddons/internal/model"
)

const defaultConfigPath = "config/addonserver.yaml"

// cli carries state shared by subcommands.
type cli struct {
	configPath string
	cfg        config.AddonServer
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "addonctl",
		Short:         "Armor add-on maintenance tool",
		Long:          `addonctl rolls add-ons onto armor, shows stored add-on state and lists the roll pool.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadAddonServer(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg

			level, _ := config.ParseLogLevel(cfg.LogLevel)
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	path := defaultConfigPath
	if p := os.Getenv("ADDON_CONFIG"); p != "" {
		path = p
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", path, "path to addonserver.yaml")

	root.AddCommand(c.poolCmd(), c.applyCmd(), c.inspectCmd())
	return root
}

// toolkit is the add-on stack opened on the configured backend.
type toolkit struct {
	backend   *db.Backend
	catalog   *addon.Catalog
	store     *addon.Store
	allocator *addon.Allocator
	lore      *addon.ThematicLore
}

func (c *cli) open(ctx context.Context, roller addon.Roller) (*toolkit, error) {
	backend, err := db.OpenBackend(ctx, c.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	catalog := addon.DefaultCatalog()
	names := addon.PoolNames(catalog, c.cfg.Addon.Effects)
	store := addon.NewStore(catalog, backend.Store)
	lore := addon.NewThematicLore(catalog)

	opts := []addon.AllocatorOption{
		addon.WithLore(lore),
		addon.WithDefaultMaxSlots(c.cfg.Addon.MaxSlots),
	}
	if roller != nil {
		opts = append(opts, addon.WithRoller(roller))
	}

	return &toolkit{
		backend:   backend,
		catalog:   catalog,
		store:     store,
		allocator: addon.NewAllocator(catalog, addon.NewPool(catalog, names), store, opts...),
		lore:      lore,
	}, nil
}

func (t *toolkit) close() {
	if err := t.backend.Close(); err != nil {
		slog.Error("closing storage", "err", err)
	}
}

// parseSlot accepts helmet|head, chest, legs, boots|feet.
func parseSlot(s string) (model.ArmorSlot, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "helmet", "head":
		return model.ArmorSlotHead, nil
	case "chest", "chestplate":
		return model.ArmorSlotChest, nil
	case "legs", "leggings":
		return model.ArmorSlotLegs, nil
	case "boots", "feet":
		return model.ArmorSlotFeet, nil
	default:
		return model.ArmorSlotNone, fmt.Errorf("unknown armor slot %q (want helmet, chest, legs or boots)", s)
	}
}

// armorItem stands in for the host item with the given persistent id.
func armorItem(id int64, slot model.ArmorSlot) (*model.Item, error) {
	return model.NewItem(id, 0, 1, &model.ItemTemplate{
		ItemID:   int32(slot),
		Name:     slot.String() + " Armor",
		Type:     model.ItemTypeArmor,
		BodyPart: slot,
	})
}

func printLore(cmd *cobra.Command, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(cmd.OutOrStdout(), "  "+line)
	}
}
