package combat

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrMissingStrategy is returned at construction when a combatant has no
// mapped strategy. This is a configuration error and is never defaulted.
var ErrMissingStrategy = errors.New("combatant has no mapped strategy")

// Scheduler drives a single battle: it iterates the teams each round,
// obtains decisions, executes them through the action history, and detects
// the win condition. One battle is strictly sequential; exactly one action
// is ever in flight.
type Scheduler struct {
	battleID   string
	roster     *Roster
	team1      []string
	team2      []string
	strategies map[string]Strategy
	history    *History
	state      TurnState
	bus        *EventBus
	logger     *zap.Logger

	finished      bool
	lastActorTeam int
}

// NewScheduler validates the battle setup and creates a scheduler. Every
// combatant across both teams must be in the roster and have a strategy
// mapping; construction fails otherwise.
func NewScheduler(battleID string, roster *Roster, team1, team2 []string, strategies map[string]Strategy, bus *EventBus, logger *zap.Logger) (*Scheduler, error) {
	if len(team1) == 0 || len(team2) == 0 {
		return nil, errors.New("both teams need at least one combatant")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, id := range append(append([]string(nil), team1...), team2...) {
		if !roster.Contains(id) {
			return nil, fmt.Errorf("combatant %s is not in the roster", id)
		}
		if _, ok := strategies[id]; !ok {
			c, _ := roster.Get(id)
			return nil, fmt.Errorf("%w: %s", ErrMissingStrategy, c.Name)
		}
	}

	return &Scheduler{
		battleID:   battleID,
		roster:     roster,
		team1:      append([]string(nil), team1...),
		team2:      append([]string(nil), team2...),
		strategies: strategies,
		history:    NewHistory(),
		state:      InitialState(),
		bus:        bus,
		logger:     logger,
	}, nil
}

// State returns the current turn state snapshot.
func (s *Scheduler) State() TurnState {
	return s.state
}

// HistorySize returns the count of executed-and-not-undone actions.
func (s *Scheduler) HistorySize() int {
	return s.history.Size()
}

// Over reports whether either team is fully defeated.
func (s *Scheduler) Over() bool {
	return !s.roster.AnyAlive(s.team1) || !s.roster.AnyAlive(s.team2)
}

// Run plays the battle to completion and returns the final report. The
// context bounds the whole battle; a blocking strategy that outlives it
// aborts the run.
func (s *Scheduler) Run(ctx context.Context) (*Report, error) {
	s.publish(Event{Type: EventBattleStarted, BattleID: s.battleID, Round: s.state.RoundNumber})

	for !s.Over() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s.publish(Event{Type: EventRoundStarted, BattleID: s.battleID, Round: s.state.RoundNumber})
		s.logger.Info("round started",
			zap.String("battle_id", s.battleID),
			zap.Int("round", s.state.RoundNumber),
		)

		if err := s.playTeam(ctx, s.team1, s.team2, Team1); err != nil {
			return nil, err
		}
		if err := s.playTeam(ctx, s.team2, s.team1, Team2); err != nil {
			return nil, err
		}

		s.publish(Event{Type: EventRoundEnded, BattleID: s.battleID, Round: s.state.RoundNumber})
		if s.Over() {
			break
		}
		s.state = s.state.NextRound()
	}

	s.finished = true
	report := s.Report()
	s.publish(Event{Type: EventBattleEnded, BattleID: s.battleID, Round: s.state.RoundNumber, Turn: s.state.TurnNumber})
	s.logger.Info("battle finished",
		zap.String("battle_id", s.battleID),
		zap.Int("winning_team", report.WinningTeam),
		zap.Int("total_turns", report.TotalTurns),
	)
	return report, nil
}

// playTeam runs one team's turn-set for the round, in team list order.
// The win condition is re-evaluated before every turn because a single
// action can end the battle mid-round.
func (s *Scheduler) playTeam(ctx context.Context, allies, enemies []string, team int) error {
	for _, actorID := range allies {
		if s.Over() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		s.processTurn(actorID, allies, enemies, team)
	}
	return nil
}

// processTurn runs one combatant's turn. Dead combatants never act and
// never reach their strategy. An absent or invalid decision costs the
// turn but is never an error.
func (s *Scheduler) processTurn(actorID string, allies, enemies []string, team int) {
	actor, err := s.roster.Get(actorID)
	if err != nil || !actor.Alive() {
		return
	}

	s.state = s.state.NextTurn()
	s.publish(Event{
		Type:     EventTurnStarted,
		BattleID: s.battleID,
		ActorID:  actorID,
		Round:    s.state.RoundNumber,
		Turn:     s.state.TurnNumber,
	})

	decision, err := s.safeDecide(actorID, allies, enemies)
	if err != nil {
		s.logger.Warn("strategy failed, skipping turn",
			zap.String("battle_id", s.battleID),
			zap.String("combatant", actor.Name),
			zap.Error(err),
		)
		s.skipTurn(actorID, "strategy error")
		return
	}
	if decision == nil {
		s.skipTurn(actorID, "no decision")
		return
	}

	action, err := s.materialize(actorID, decision, allies, enemies)
	if err != nil {
		s.logger.Warn("invalid decision, skipping turn",
			zap.String("battle_id", s.battleID),
			zap.String("combatant", actor.Name),
			zap.Error(err),
		)
		s.skipTurn(actorID, "invalid decision")
		return
	}

	if err := s.history.Execute(action); err != nil {
		s.logger.Warn("action failed, skipping turn",
			zap.String("battle_id", s.battleID),
			zap.String("combatant", actor.Name),
			zap.Error(err),
		)
		s.skipTurn(actorID, "action failed")
		return
	}

	s.lastActorTeam = team
	s.state = s.state.WithHistory(s.history.Size())

	result := action.Result()
	s.publish(Event{
		Type:        EventActionExecuted,
		BattleID:    s.battleID,
		ActorID:     actorID,
		TargetID:    decision.TargetID,
		Round:       s.state.RoundNumber,
		Turn:        s.state.TurnNumber,
		Result:      &result,
		Description: action.Describe(),
	})
	s.logger.Info("action executed",
		zap.String("battle_id", s.battleID),
		zap.String("description", action.Describe()),
		zap.Int("amount", result.Amount),
		zap.Int("target_health", result.TargetHealthAfter),
	)

	if result.TargetDefeated {
		s.publish(Event{
			Type:     EventCombatantDefeated,
			BattleID: s.battleID,
			TargetID: decision.TargetID,
			Round:    s.state.RoundNumber,
			Turn:     s.state.TurnNumber,
		})
	}
}

// skipTurn records a turn with no effect.
func (s *Scheduler) skipTurn(actorID, reason string) {
	s.state = s.state.WithHistory(s.history.Size())
	s.publish(Event{
		Type:        EventTurnSkipped,
		BattleID:    s.battleID,
		ActorID:     actorID,
		Round:       s.state.RoundNumber,
		Turn:        s.state.TurnNumber,
		Description: reason,
	})
}

// safeDecide calls the actor's strategy, converting a panic into an error
// so a faulty collaborator can never take the battle down.
func (s *Scheduler) safeDecide(actorID string, allies, enemies []string) (decision *Decision, err error) {
	defer func() {
		if r := recover(); r != nil {
			decision = nil
			err = fmt.Errorf("strategy panicked: %v", r)
		}
	}()

	actor, getErr := s.roster.Get(actorID)
	if getErr != nil {
		return nil, getErr
	}
	return s.strategies[actorID].Decide(
		actor.View(),
		s.roster.Views(allies),
		s.roster.Views(enemies),
		s.state,
	)
}

// materialize turns a decision into an action, validating the target is
// a living combatant in the correct scope: enemies for attacks, allies
// (including self) for heals.
func (s *Scheduler) materialize(actorID string, decision *Decision, allies, enemies []string) (Action, error) {
	switch decision.Kind {
	case KindAttack:
		if err := s.validateTarget(decision.TargetID, enemies); err != nil {
			return nil, fmt.Errorf("attack target: %w", err)
		}
		return NewAttackAction(s.roster, actorID, decision.TargetID), nil
	case KindHeal:
		if err := s.validateTarget(decision.TargetID, allies); err != nil {
			return nil, fmt.Errorf("heal target: %w", err)
		}
		return NewHealAction(s.roster, actorID, decision.TargetID, decision.Amount), nil
	default:
		return nil, fmt.Errorf("unknown action kind %v", decision.Kind)
	}
}

func (s *Scheduler) validateTarget(targetID string, scope []string) error {
	for _, id := range scope {
		if id != targetID {
			continue
		}
		target, err := s.roster.Get(id)
		if err != nil {
			return err
		}
		if !target.Alive() {
			return fmt.Errorf("%s is already defeated", target.Name)
		}
		return nil
	}
	return fmt.Errorf("combatant %s is not a valid target", targetID)
}

// UndoLast undoes the most recently executed action and refreshes the
// turn state's history marker. Undo on an empty history is a no-op.
func (s *Scheduler) UndoLast() error {
	before := s.history.Size()
	if err := s.history.UndoLast(); err != nil {
		return err
	}
	s.state = s.state.WithHistory(s.history.Size())
	if s.history.Size() < before {
		s.publish(Event{
			Type:     EventActionUndone,
			BattleID: s.battleID,
			Round:    s.state.RoundNumber,
			Turn:     s.state.TurnNumber,
		})
	}
	return nil
}

// Report builds the game-over report. Before the battle terminates the
// winning team is zero.
func (s *Scheduler) Report() *Report {
	report := &Report{
		BattleID:         s.battleID,
		WinningTeam:      s.winner(),
		TotalTurns:       s.state.TurnNumber,
		TotalRounds:      s.state.RoundNumber,
		CommandsExecuted: s.history.Size(),
	}
	for _, id := range s.team1 {
		report.Combatants = append(report.Combatants, s.combatantReport(id, Team1))
	}
	for _, id := range s.team2 {
		report.Combatants = append(report.Combatants, s.combatantReport(id, Team2))
	}
	return report
}

func (s *Scheduler) combatantReport(id string, team int) CombatantReport {
	c, err := s.roster.Get(id)
	if err != nil {
		return CombatantReport{Team: team}
	}
	return CombatantReport{
		Name:        c.Name,
		Class:       c.Class.String(),
		FinalHealth: c.Stats.Health,
		Team:        team,
		Alive:       c.Alive(),
	}
}

// winner resolves the survivor rule. If both teams were wiped in the same
// resolution step, the team that executed the final action wins: they
// landed the battle-ending blow.
func (s *Scheduler) winner() int {
	team1Alive := s.roster.AnyAlive(s.team1)
	team2Alive := s.roster.AnyAlive(s.team2)

	switch {
	case team1Alive && !team2Alive:
		return Team1
	case team2Alive && !team1Alive:
		return Team2
	case !team1Alive && !team2Alive:
		return s.lastActorTeam
	default:
		return 0
	}
}

func (s *Scheduler) publish(event Event) {
	if s.bus != nil {
		s.bus.Publish(event)
	}
}
