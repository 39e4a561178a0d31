// Package addonserver assembles the add-on subsystem: rolling, lore, status
// projection, scripted curses and the periodic refresh, around one metadata store.
package addonserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/armoraddons/internal/config"
	"github.com/udisondev/armoraddons/internal/game/addon"
	"github.com/udisondev/armoraddons/internal/game/addon/custom"
	"github.com/udisondev/armoraddons/internal/game/addon/custom/curses"
	"github.com/udisondev/armoraddons/internal/game/addon/projector"
	"github.com/udisondev/armoraddons/internal/game/addon/refresh"
	"github.com/udisondev/armoraddons/internal/model"
	"github.com/udisondev/armoraddons/internal/status"
	"github.com/udisondev/armoraddons/internal/world"
)

// Deps are the host collaborators. Nil fields get log-only defaults.
type Deps struct {
	Store     addon.ItemMetadataStore
	Messenger addon.Messenger
	Announcer curses.Announcer
	Roller    addon.Roller
}

// Server owns every add-on component for one host process.
type Server struct {
	catalog   *addon.Catalog
	pool      *addon.Pool
	allocator *addon.Allocator
	handler   *addon.ApplyHandler
	statuses  *status.Service
	engine    *custom.Engine
	refresh   *refresh.Manager
	players   *world.Players
	ids       *world.ObjectIDGenerator
}

// New wires the subsystem from cfg.
func New(cfg config.AddonConfig, deps Deps) (*Server, error) {
	if deps.Store == nil {
		deps.Store = addon.AttachedStore{}
	}
	if deps.Messenger == nil {
		deps.Messenger = addon.MessengerFunc(func(p *model.Player, text string) {
			slog.Info("add-on message", "player", p.Name(), "text", text)
		})
	}
	if deps.Announcer == nil {
		deps.Announcer = curses.LogAnnouncer{}
	}

	catalog := addon.DefaultCatalog()
	pool := addon.NewPool(catalog, addon.PoolNames(catalog, cfg.Effects))
	store := addon.NewStore(catalog, deps.Store)

	opts := []addon.AllocatorOption{
		addon.WithLore(addon.NewThematicLore(catalog)),
		addon.WithDefaultMaxSlots(cfg.MaxSlots),
	}
	if deps.Roller != nil {
		opts = append(opts, addon.WithRoller(deps.Roller))
	}
	allocator := addon.NewAllocator(catalog, pool, store, opts...)

	handlerCfg := addon.DefaultHandlerConfig()
	handlerCfg.TokenItemID = cfg.TokenItemID
	handlerCfg.MaxSlots = cfg.MaxSlots
	handlerCfg.Cooldown = cfg.Cooldown
	if cfg.Messages.Success != "" {
		handlerCfg.SuccessMessage = cfg.Messages.Success
	}
	if cfg.Messages.Fail != "" {
		handlerCfg.FailMessage = cfg.Messages.Fail
	}
	if cfg.Messages.NotArmor != "" {
		handlerCfg.NotArmorMessage = cfg.Messages.NotArmor
	}

	statuses := status.NewService(0)
	proj, err := projector.New(catalog, projector.DefaultTable(), statuses, cfg.RefreshInterval, cfg.StatusGrace)
	if err != nil {
		return nil, fmt.Errorf("creating status projector: %w", err)
	}

	engine := custom.NewEngine(
		curses.NewDread(deps.Announcer),
		curses.NewMisstep(statuses, deps.Announcer),
		curses.NewTerror(statuses, deps.Announcer),
	)

	players := world.NewPlayers()
	resolver := addon.NewResolver(store, addon.PaperdollAccessor{})

	return &Server{
		catalog:   catalog,
		pool:      pool,
		allocator: allocator,
		handler:   addon.NewApplyHandler(allocator, addon.InventoryTokenConsumer{}, deps.Messenger, handlerCfg),
		statuses:  statuses,
		engine:    engine,
		refresh:   refresh.NewManager(players, resolver, proj, engine, cfg.RefreshInterval, cfg.InitialDelay),
		players:   players,
		ids:       world.NewObjectIDGenerator(),
	}, nil
}

// Run starts the status expiry loop and the refresh job and blocks until ctx
// is canceled. Scripted effects are deactivated before Run returns.
func (s *Server) Run(ctx context.Context) error {
	slog.Info("add-on server running",
		"pool", s.pool.Len(),
		"max_slots", s.allocator.DefaultMaxSlots(),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.statuses.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("status service: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.refresh.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("add-on refresh: %w", err)
		}
		return nil
	})

	err := g.Wait()
	slog.Info("add-on server stopped")
	return err
}

// Join registers an online wearer with a fresh object id.
func (s *Server) Join(characterID int64, name string) (*model.Player, error) {
	p, err := model.NewPlayer(s.ids.NextPlayerID(), characterID, name)
	if err != nil {
		return nil, err
	}
	if !s.players.Add(p) {
		return nil, fmt.Errorf("object id %d already online", p.ObjectID())
	}
	return p, nil
}

// Leave ends a wearer's session: scripted effects are deactivated and
// per-player state is dropped.
func (s *Server) Leave(objectID uint32) bool {
	p, ok := s.players.Remove(objectID)
	if !ok {
		return false
	}
	s.refresh.Disconnect(p)
	s.statuses.Forget(objectID)
	s.handler.Forget(objectID)
	return true
}

// CreateItem creates an item with a fresh id and puts it in owner's inventory.
func (s *Server) CreateItem(owner *model.Player, tmpl *model.ItemTemplate, count int32) (*model.Item, error) {
	item, err := model.NewItem(s.ids.NextItemID(), owner.CharacterID(), count, tmpl)
	if err != nil {
		return nil, err
	}
	if err := owner.Inventory().AddItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// SeedItemIDs moves item ids past ones already persisted.
func (s *Server) SeedItemIDs(maxPersisted int64) {
	s.ids.SeedItemID(maxPersisted)
}

// UseToken is the apply interaction: player uses token on target armor.
func (s *Server) UseToken(ctx context.Context, player *model.Player, token, target *model.Item) (addon.ApplyOutcome, error) {
	return s.handler.Handle(ctx, player, token, target)
}

// ReloadPool replaces the roll pool and returns the names that were dropped.
func (s *Server) ReloadPool(names []string) []string {
	return s.pool.Reload(names)
}

// RefreshNow runs one refresh cycle outside the ticker.
func (s *Server) RefreshNow(ctx context.Context) {
	s.refresh.RefreshAll(ctx)
}

// Catalog returns the effect catalog.
func (s *Server) Catalog() *addon.Catalog { return s.catalog }

// Statuses returns the host status mechanism.
func (s *Server) Statuses() *status.Service { return s.statuses }

// ActiveScripted returns the scripted effects running for a wearer.
func (s *Server) ActiveScripted(wearer *model.Player) []addon.EffectID {
	return s.engine.Active(wearer)
}
