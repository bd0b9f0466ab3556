package strategy

import (
	"testing"

	"github.com/arenaforge/arena-server-go/internal/combat"
)

func view(id, name string, health, maxHealth int) combat.CombatantView {
	return combat.CombatantView{
		ID:        id,
		Name:      name,
		Class:     "WARRIOR",
		Health:    health,
		MaxHealth: maxHealth,
		Alive:     health > 0,
	}
}

func TestRuleBasedHealsSelfWhenCritical(t *testing.T) {
	rb := NewRuleBased()

	actor := view("a", "Conan", 40, 150) // 26%, below the 30% threshold
	allies := []combat.CombatantView{actor}
	enemies := []combat.CombatantView{view("e", "Merlin", 80, 80)}

	decision, err := rb.Decide(actor, allies, enemies, combat.TurnState{})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decision == nil || decision.Kind != combat.KindHeal || decision.TargetID != "a" {
		t.Fatalf("decision = %+v, want self-heal", decision)
	}
	if decision.Amount != DefaultHealAmount {
		t.Errorf("amount = %d, want %d", decision.Amount, DefaultHealAmount)
	}
}

func TestRuleBasedHealsCriticalAlly(t *testing.T) {
	rb := NewRuleBased()

	actor := view("a", "Conan", 150, 150)
	hurt := view("b", "Robin", 15, 100)   // 15%, below the 20% ally threshold
	hurting := view("c", "Tuck", 19, 100) // critical too, but Robin is weaker
	allies := []combat.CombatantView{actor, hurting, hurt}
	enemies := []combat.CombatantView{view("e", "Merlin", 80, 80)}

	decision, err := rb.Decide(actor, allies, enemies, combat.TurnState{})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decision == nil || decision.Kind != combat.KindHeal || decision.TargetID != "b" {
		t.Fatalf("decision = %+v, want heal of weakest critical ally", decision)
	}
}

func TestRuleBasedIgnoresHealthyAllies(t *testing.T) {
	rb := NewRuleBased()

	actor := view("a", "Conan", 150, 150)
	bruised := view("b", "Robin", 25, 100) // 25%, above the 20% ally threshold
	allies := []combat.CombatantView{actor, bruised}
	enemies := []combat.CombatantView{view("e", "Merlin", 80, 80)}

	decision, err := rb.Decide(actor, allies, enemies, combat.TurnState{})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decision == nil || decision.Kind != combat.KindAttack {
		t.Fatalf("decision = %+v, want attack", decision)
	}
}

func TestRuleBasedAttacksWeakestEnemy(t *testing.T) {
	rb := NewRuleBased()

	actor := view("a", "Conan", 150, 150)
	allies := []combat.CombatantView{actor}
	enemies := []combat.CombatantView{
		view("e1", "Merlin", 80, 80),
		view("e2", "Morgana", 12, 80),
		view("e3", "Mordred", 0, 80), // dead, never targeted
	}

	decision, err := rb.Decide(actor, allies, enemies, combat.TurnState{})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decision == nil || decision.Kind != combat.KindAttack || decision.TargetID != "e2" {
		t.Fatalf("decision = %+v, want attack on weakest living enemy", decision)
	}
}

func TestRuleBasedDeclinesWithNoLivingEnemies(t *testing.T) {
	rb := NewRuleBased()

	actor := view("a", "Conan", 150, 150)
	enemies := []combat.CombatantView{view("e", "Merlin", 0, 80)}

	decision, err := rb.Decide(actor, []combat.CombatantView{actor}, enemies, combat.TurnState{})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decision != nil {
		t.Fatalf("decision = %+v, want nil", decision)
	}
}

func TestRuleBasedSelfHealBeatsAllyHeal(t *testing.T) {
	rb := NewRuleBased()

	actor := view("a", "Conan", 40, 150)          // critical self
	dying := view("b", "Robin", 5, 100)           // even more critical ally
	allies := []combat.CombatantView{actor, dying}
	enemies := []combat.CombatantView{view("e", "Merlin", 80, 80)}

	decision, err := rb.Decide(actor, allies, enemies, combat.TurnState{})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decision == nil || decision.TargetID != "a" {
		t.Fatalf("decision = %+v, want self-heal first", decision)
	}
}

func TestWeakestLiving(t *testing.T) {
	views := []combat.CombatantView{
		view("a", "A", 50, 100),
		view("b", "B", 10, 100),
		view("c", "C", 0, 100),
	}
	if got := WeakestLiving(views); got == nil || got.ID != "b" {
		t.Fatalf("WeakestLiving = %+v, want b", got)
	}
	if got := WeakestLiving(nil); got != nil {
		t.Fatalf("WeakestLiving(nil) = %+v, want nil", got)
	}
}
