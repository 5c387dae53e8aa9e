// Package service runs engine actions against stored player snapshots.
// Actions on one player are serialized; different players proceed in parallel.
package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/napolitain/catvillage/internal/clock"
	"github.com/napolitain/catvillage/internal/economy"
	"github.com/napolitain/catvillage/internal/models"
	"github.com/napolitain/catvillage/internal/planner"
	"github.com/napolitain/catvillage/internal/regen"
	"github.com/napolitain/catvillage/internal/store"
)

// Store is the persistence the service needs
type Store interface {
	Load(ctx context.Context, id string) (*models.PlayerSnapshot, error)
	Save(ctx context.Context, id string, s *models.PlayerSnapshot) error
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
	Record(ctx context.Context, id string, e store.HistoryEntry) error
	History(ctx context.Context, id string, limit int) ([]store.HistoryEntry, error)
}

// Status is a read-only view of a player at a point in time
type Status struct {
	Snapshot  *models.PlayerSnapshot
	Resources []regen.ResourceStatus
	Pond      regen.PondStatus
}

type VillageService struct {
	engine *economy.Engine
	store  Store
	clk    clock.Clock
	logger *log.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewVillageService wires an engine to a store. A nil logger discards output.
func NewVillageService(engine *economy.Engine, st Store, clk clock.Clock, logger *log.Logger) *VillageService {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &VillageService{
		engine: engine,
		store:  st,
		clk:    clk,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (s *VillageService) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// CreatePlayer stores a fresh account and returns its id
func (s *VillageService) CreatePlayer(ctx context.Context) (string, *models.PlayerSnapshot, error) {
	id := uuid.NewString()
	now := s.clk.Now()
	snap := s.engine.NewPlayer(now)

	if err := s.store.Save(ctx, id, snap); err != nil {
		return "", nil, fmt.Errorf("create player: %w", err)
	}
	if err := s.store.Record(ctx, id, store.HistoryEntry{At: now, Action: "create", MessageKey: "player.created", OK: true}); err != nil {
		s.logger.Printf("Warning: could not record history for %s: %v", id, err)
	}
	s.logger.Printf("Created player %s", id)
	return id, snap, nil
}

// Execute loads a player, applies one action and persists the result.
// Failed actions leave the stored snapshot untouched.
func (s *VillageService) Execute(ctx context.Context, id string, a economy.Action) (*models.PlayerSnapshot, economy.Result, error) {
	unlock := s.lock(id)
	defer unlock()

	snap, err := s.load(ctx, id)
	if err != nil {
		return nil, economy.Result{}, err
	}

	now := s.clk.Now()
	next, res, err := s.engine.Apply(snap, a, now)
	if err != nil {
		code := economy.Code(err)
		s.logger.Printf("Player %s: %s rejected: %v", id, a.Description(), err)
		s.record(ctx, id, store.HistoryEntry{At: now, Action: a.Description(), MessageKey: code})
		return nil, economy.Result{}, err
	}

	if err := s.store.Save(ctx, id, next); err != nil {
		return nil, economy.Result{}, fmt.Errorf("save player %s: %w", id, err)
	}
	s.record(ctx, id, store.HistoryEntry{At: now, Action: a.Description(), MessageKey: res.MessageKey, OK: true})
	s.logger.Printf("Player %s: %s -> %s", id, a.Description(), res.MessageKey)
	if res.LeveledUp {
		s.logger.Printf("Player %s reached level %d", id, res.Level)
	}
	return next, res, nil
}

// load reads a snapshot and rejects one that breaks the table invariants
func (s *VillageService) load(ctx context.Context, id string) (*models.PlayerSnapshot, error) {
	snap, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := snap.Validate(s.engine.Tables()); err != nil {
		return nil, fmt.Errorf("player %s: corrupt snapshot: %w", id, err)
	}
	return snap, nil
}

func (s *VillageService) record(ctx context.Context, id string, e store.HistoryEntry) {
	if err := s.store.Record(ctx, id, e); err != nil {
		s.logger.Printf("Warning: could not record history for %s: %v", id, err)
	}
}

// Status reports a player's state regenerated to now without saving it
func (s *VillageService) Status(ctx context.Context, id string) (Status, error) {
	unlock := s.lock(id)
	defer unlock()

	snap, err := s.load(ctx, id)
	if err != nil {
		return Status{}, err
	}
	now := s.clk.Now()
	view, _ := s.engine.Regenerate(snap, now)
	resources, pond := regen.Status(snap, s.engine.Tables(), now)
	return Status{Snapshot: view, Resources: resources, Pond: pond}, nil
}

// UpgradeCost quotes the next level of a building at the player's current state
func (s *VillageService) UpgradeCost(ctx context.Context, id string, bk models.BuildingKind) (models.Costs, error) {
	snap, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.engine.UpgradeCost(snap, bk)
}

// Plan ranks the player's possible building upgrades, best first
func (s *VillageService) Plan(ctx context.Context, id string) ([]planner.Option, error) {
	snap, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return planner.Options(s.engine, snap, s.clk.Now()), nil
}

func (s *VillageService) Players(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}

func (s *VillageService) History(ctx context.Context, id string, limit int) ([]store.HistoryEntry, error) {
	return s.store.History(ctx, id, limit)
}

func (s *VillageService) DeletePlayer(ctx context.Context, id string) error {
	unlock := s.lock(id)
	defer unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Printf("Deleted player %s", id)
	return nil
}
