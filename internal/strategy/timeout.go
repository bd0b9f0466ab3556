package strategy

import (
	"time"

	"github.com/arenaforge/arena-server-go/internal/combat"
	"go.uber.org/zap"
)

// Timeout wraps a potentially slow strategy with a deadline. When the
// inner strategy does not answer in time, the turn is surrendered: the
// scheduler sees an absent decision instead of hanging the battle. The
// wrapper lives at the collaborator boundary; the scheduler itself has
// no timeout semantics.
type Timeout struct {
	inner   combat.Strategy
	timeout time.Duration
	logger  *zap.Logger
}

// WithTimeout wraps inner so Decide never blocks longer than timeout.
func WithTimeout(inner combat.Strategy, timeout time.Duration, logger *zap.Logger) *Timeout {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Timeout{inner: inner, timeout: timeout, logger: logger}
}

type decideResult struct {
	decision *combat.Decision
	err      error
}

// Decide runs the inner strategy, abandoning it after the deadline. An
// abandoned call keeps running on its goroutine; its late answer is
// discarded.
func (t *Timeout) Decide(actor combat.CombatantView, allies, enemies []combat.CombatantView, state combat.TurnState) (*combat.Decision, error) {
	ch := make(chan decideResult, 1)
	go func() {
		decision, err := t.inner.Decide(actor, allies, enemies, state)
		ch <- decideResult{decision: decision, err: err}
	}()

	select {
	case res := <-ch:
		return res.decision, res.err
	case <-time.After(t.timeout):
		t.logger.Warn("strategy timed out, skipping turn",
			zap.String("combatant", actor.Name),
			zap.Duration("timeout", t.timeout),
		)
		return nil, nil
	}
}
