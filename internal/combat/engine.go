package combat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CombatantSetup describes one seat in a battle: who fights and what
// decides their turns.
type CombatantSetup struct {
	Name     string
	Class    Class
	Strategy Strategy
}

// BattleSetup is the input to StartBattle.
type BattleSetup struct {
	Team1 []CombatantSetup
	Team2 []CombatantSetup
}

// BattleView is a read-only snapshot of a battle for external consumers.
type BattleView struct {
	BattleID   string
	State      TurnState
	Team1      []CombatantView
	Team2      []CombatantView
	Over       bool
	Finished   bool
	Report     *Report
	StartedAt  time.Time
	FinishedAt time.Time
}

type battle struct {
	scheduler  *Scheduler
	roster     *Roster
	team1      []string
	team2      []string
	report     *Report
	startedAt  time.Time
	finishedAt time.Time
}

// BattleEngine owns every active battle, keyed by battle ID. The registry
// mutex guards the map only; each battle is internally sequential.
type BattleEngine struct {
	logger   *zap.Logger
	bus      *EventBus
	recorder *ReplayRecorder

	mu      sync.RWMutex
	battles map[string]*battle
}

// NewBattleEngine creates an engine. The recorder is optional; with a nil
// recorder no replays are kept.
func NewBattleEngine(logger *zap.Logger, recorder *ReplayRecorder) *BattleEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := &BattleEngine{
		logger:   logger,
		bus:      NewEventBus(),
		recorder: recorder,
		battles:  make(map[string]*battle),
	}

	if recorder != nil {
		engine.bus.SubscribeTyped(EventActionExecuted, func(event Event) {
			engine.recordSnapshot(event.BattleID)
		})
	}

	return engine
}

// Bus returns the engine-wide event bus. Events from every battle flow
// through it, tagged with their battle ID.
func (e *BattleEngine) Bus() *EventBus {
	return e.bus
}

// StartBattle builds the roster and scheduler for a new battle and
// registers it. The returned ID identifies the battle everywhere else.
func (e *BattleEngine) StartBattle(setup BattleSetup) (string, error) {
	battleID := uuid.NewString()

	roster := NewRoster()
	strategies := make(map[string]Strategy, len(setup.Team1)+len(setup.Team2))

	addTeam := func(seats []CombatantSetup) []string {
		ids := make([]string, 0, len(seats))
		for _, seat := range seats {
			id := roster.Add(seat.Name, seat.Class)
			if seat.Strategy != nil {
				strategies[id] = seat.Strategy
			}
			ids = append(ids, id)
		}
		return ids
	}

	team1 := addTeam(setup.Team1)
	team2 := addTeam(setup.Team2)

	scheduler, err := NewScheduler(battleID, roster, team1, team2, strategies, e.bus, e.logger)
	if err != nil {
		return "", fmt.Errorf("failed to start battle: %w", err)
	}

	e.mu.Lock()
	e.battles[battleID] = &battle{
		scheduler: scheduler,
		roster:    roster,
		team1:     team1,
		team2:     team2,
		startedAt: time.Now(),
	}
	e.mu.Unlock()

	if e.recorder != nil {
		e.recorder.StartRecording(battleID)
		e.recordSnapshot(battleID)
	}

	e.logger.Info("battle started",
		zap.String("battle_id", battleID),
		zap.Int("team1_size", len(team1)),
		zap.Int("team2_size", len(team2)),
	)

	return battleID, nil
}

// RunBattle plays the battle to completion. It blocks until the battle
// terminates or the context expires.
func (e *BattleEngine) RunBattle(ctx context.Context, battleID string) (*Report, error) {
	e.mu.RLock()
	b, ok := e.battles[battleID]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("battle %s not found", battleID)
	}

	report, err := b.scheduler.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("battle %s aborted: %w", battleID, err)
	}

	e.mu.Lock()
	b.report = report
	b.finishedAt = time.Now()
	e.mu.Unlock()

	if e.recorder != nil {
		if saveErr := e.recorder.SaveReplay(battleID); saveErr != nil {
			e.logger.Warn("failed to save replay",
				zap.String("battle_id", battleID),
				zap.Error(saveErr),
			)
		}
	}

	return report, nil
}

// BattleView returns a snapshot of a battle's current state.
func (e *BattleEngine) BattleView(battleID string) (BattleView, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	b, ok := e.battles[battleID]
	if !ok {
		return BattleView{}, fmt.Errorf("battle %s not found", battleID)
	}

	return BattleView{
		BattleID:   battleID,
		State:      b.scheduler.State(),
		Team1:      b.roster.Views(b.team1),
		Team2:      b.roster.Views(b.team2),
		Over:       b.scheduler.Over(),
		Finished:   b.report != nil,
		Report:     b.report,
		StartedAt:  b.startedAt,
		FinishedAt: b.finishedAt,
	}, nil
}

// UndoLast undoes the most recent action of a battle.
func (e *BattleEngine) UndoLast(battleID string) error {
	e.mu.RLock()
	b, ok := e.battles[battleID]
	e.mu.RUnlock()
	if !ok {
		return fmt.Errorf("battle %s not found", battleID)
	}
	return b.scheduler.UndoLast()
}

// EndBattle removes a battle from the registry.
func (e *BattleEngine) EndBattle(battleID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.battles[battleID]; !ok {
		return fmt.Errorf("battle %s not found", battleID)
	}
	delete(e.battles, battleID)

	e.logger.Info("battle removed",
		zap.String("battle_id", battleID),
	)
	return nil
}

// recordSnapshot captures the battle's full state for the replay.
func (e *BattleEngine) recordSnapshot(battleID string) {
	e.mu.RLock()
	b, ok := e.battles[battleID]
	e.mu.RUnlock()
	if !ok || e.recorder == nil {
		return
	}

	state := b.scheduler.State()
	ids := append(append([]string(nil), b.team1...), b.team2...)
	e.recorder.RecordState(battleID, &Snapshot{
		BattleID:    battleID,
		RoundNumber: state.RoundNumber,
		TurnNumber:  state.TurnNumber,
		HistorySize: state.HistorySize,
		Combatants:  b.roster.Views(ids),
		Timestamp:   time.Now(),
	})
}
