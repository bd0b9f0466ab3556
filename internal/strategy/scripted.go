package strategy

import (
	"strings"
	"sync"

	"github.com/arenaforge/arena-server-go/internal/combat"
)

// Step is one entry in a script: an action plus the target's name. Names
// are matched case-insensitively against the views the scheduler passes
// in, so scripts can be written without knowing roster IDs.
type Step struct {
	Action string // "attack" or "heal"
	Target string
	Amount int
}

// Scripted replays a fixed list of steps, one per turn. When the script
// runs out, or a step names a combatant that is dead or absent, the
// fallback strategy decides instead.
type Scripted struct {
	mu       sync.Mutex
	steps    []Step
	next     int
	fallback combat.Strategy
}

// NewScripted creates a scripted strategy backed by a rule-based
// fallback.
func NewScripted(steps []Step) *Scripted {
	return &Scripted{
		steps:    append([]Step(nil), steps...),
		fallback: NewRuleBased(),
	}
}

// Decide consumes the next script step, falling back when it cannot be
// honored.
func (s *Scripted) Decide(actor combat.CombatantView, allies, enemies []combat.CombatantView, state combat.TurnState) (*combat.Decision, error) {
	s.mu.Lock()
	var step *Step
	if s.next < len(s.steps) {
		step = &s.steps[s.next]
		s.next++
	}
	s.mu.Unlock()

	if step == nil {
		return s.fallback.Decide(actor, allies, enemies, state)
	}

	switch strings.ToLower(strings.TrimSpace(step.Action)) {
	case "attack":
		if target := FindByName(step.Target, enemies); target != nil {
			return &combat.Decision{Kind: combat.KindAttack, TargetID: target.ID}, nil
		}
	case "heal":
		if target := FindByName(step.Target, allies); target != nil {
			amount := step.Amount
			if amount <= 0 {
				amount = DefaultHealAmount
			}
			return &combat.Decision{Kind: combat.KindHeal, TargetID: target.ID, Amount: amount}, nil
		}
	}

	return s.fallback.Decide(actor, allies, enemies, state)
}

// FindByName returns the living combatant with the given name, matched
// case-insensitively, or nil.
func FindByName(name string, views []combat.CombatantView) *combat.CombatantView {
	for i := range views {
		v := &views[i]
		if v.Alive && strings.EqualFold(v.Name, strings.TrimSpace(name)) {
			return v
		}
	}
	return nil
}
