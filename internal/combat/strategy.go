package combat

// Decision is what a strategy returns: the action variant, the target's
// roster ID, and the heal amount where relevant. A nil decision means the
// strategy declines the turn.
type Decision struct {
	Kind     Kind
	TargetID string
	Amount   int
}

// Strategy chooses an action for a combatant's turn. Implementations see
// read-only views and the current turn state; they never touch the roster.
// The scheduler tolerates a nil decision or an error by skipping the turn,
// so a failing strategy can never crash a battle.
type Strategy interface {
	Decide(actor CombatantView, allies, enemies []CombatantView, state TurnState) (*Decision, error)
}

// StrategyFunc adapts a plain function to the Strategy interface.
type StrategyFunc func(actor CombatantView, allies, enemies []CombatantView, state TurnState) (*Decision, error)

// Decide calls the wrapped function.
func (f StrategyFunc) Decide(actor CombatantView, allies, enemies []CombatantView, state TurnState) (*Decision, error) {
	return f(actor, allies, enemies, state)
}
