// Package strategy provides the decision strategies consumed by the
// combat scheduler: deterministic rules, scripted sequences, console
// input, and an external oracle adapter. The scheduler only ever sees
// the combat.Strategy contract.
package strategy

import (
	"github.com/arenaforge/arena-server-go/internal/combat"
)

const (
	selfHealThreshold = 0.30
	allyHealThreshold = 0.20

	// DefaultHealAmount is the stock heal used when a caller does not
	// choose its own.
	DefaultHealAmount = 30
)

// RuleBased is a deterministic strategy:
//
//  1. below 30% health, heal self
//  2. an ally below 20% health, heal the weakest such ally
//  3. otherwise attack the weakest living enemy
type RuleBased struct {
	HealAmount int
}

// NewRuleBased creates a rule-based strategy with the stock heal amount.
func NewRuleBased() *RuleBased {
	return &RuleBased{HealAmount: DefaultHealAmount}
}

// Decide applies the rules in order.
func (r *RuleBased) Decide(actor combat.CombatantView, allies, enemies []combat.CombatantView, _ combat.TurnState) (*combat.Decision, error) {
	amount := r.HealAmount
	if amount <= 0 {
		amount = DefaultHealAmount
	}

	if actor.MaxHealth > 0 && float64(actor.Health)/float64(actor.MaxHealth) < selfHealThreshold {
		return &combat.Decision{Kind: combat.KindHeal, TargetID: actor.ID, Amount: amount}, nil
	}

	if ally := weakestCriticalAlly(actor, allies); ally != nil {
		return &combat.Decision{Kind: combat.KindHeal, TargetID: ally.ID, Amount: amount}, nil
	}

	if enemy := WeakestLiving(enemies); enemy != nil {
		return &combat.Decision{Kind: combat.KindAttack, TargetID: enemy.ID}, nil
	}

	return nil, nil
}

func weakestCriticalAlly(actor combat.CombatantView, allies []combat.CombatantView) *combat.CombatantView {
	var weakest *combat.CombatantView
	for i := range allies {
		ally := &allies[i]
		if ally.ID == actor.ID || !ally.Alive || ally.MaxHealth == 0 {
			continue
		}
		if float64(ally.Health)/float64(ally.MaxHealth) >= allyHealThreshold {
			continue
		}
		if weakest == nil || ally.Health < weakest.Health {
			weakest = ally
		}
	}
	return weakest
}

// WeakestLiving returns the living combatant with the least health, or
// nil when everyone is down.
func WeakestLiving(views []combat.CombatantView) *combat.CombatantView {
	var weakest *combat.CombatantView
	for i := range views {
		v := &views[i]
		if !v.Alive {
			continue
		}
		if weakest == nil || v.Health < weakest.Health {
			weakest = v
		}
	}
	return weakest
}
