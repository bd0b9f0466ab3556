package strategy

import (
	"testing"

	"github.com/arenaforge/arena-server-go/internal/combat"
)

func TestScriptedFollowsScript(t *testing.T) {
	s := NewScripted([]Step{
		{Action: "attack", Target: "Merlin"},
		{Action: "heal", Target: "Robin", Amount: 25},
	})

	actor := view("a", "Conan", 150, 150)
	allies := []combat.CombatantView{actor, view("b", "Robin", 50, 100)}
	enemies := []combat.CombatantView{view("e", "Merlin", 80, 80)}

	first, err := s.Decide(actor, allies, enemies, combat.TurnState{})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if first == nil || first.Kind != combat.KindAttack || first.TargetID != "e" {
		t.Fatalf("first decision = %+v, want attack on Merlin", first)
	}

	second, err := s.Decide(actor, allies, enemies, combat.TurnState{})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if second == nil || second.Kind != combat.KindHeal || second.TargetID != "b" || second.Amount != 25 {
		t.Fatalf("second decision = %+v, want heal Robin for 25", second)
	}
}

func TestScriptedTargetNamesAreCaseInsensitive(t *testing.T) {
	s := NewScripted([]Step{{Action: "ATTACK", Target: "  merlin "}})

	actor := view("a", "Conan", 150, 150)
	enemies := []combat.CombatantView{view("e", "Merlin", 80, 80)}

	decision, err := s.Decide(actor, []combat.CombatantView{actor}, enemies, combat.TurnState{})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decision == nil || decision.TargetID != "e" {
		t.Fatalf("decision = %+v, want attack on Merlin", decision)
	}
}

func TestScriptedFallsBackWhenExhausted(t *testing.T) {
	s := NewScripted(nil)

	actor := view("a", "Conan", 150, 150)
	enemies := []combat.CombatantView{view("e", "Merlin", 80, 80)}

	decision, err := s.Decide(actor, []combat.CombatantView{actor}, enemies, combat.TurnState{})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decision == nil || decision.Kind != combat.KindAttack || decision.TargetID != "e" {
		t.Fatalf("decision = %+v, want rule-based attack", decision)
	}
}

func TestScriptedFallsBackOnDeadTarget(t *testing.T) {
	s := NewScripted([]Step{{Action: "attack", Target: "Mordred"}})

	actor := view("a", "Conan", 150, 150)
	enemies := []combat.CombatantView{
		view("e1", "Mordred", 0, 80), // the scripted target is down
		view("e2", "Merlin", 80, 80),
	}

	decision, err := s.Decide(actor, []combat.CombatantView{actor}, enemies, combat.TurnState{})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decision == nil || decision.TargetID != "e2" {
		t.Fatalf("decision = %+v, want fallback attack on Merlin", decision)
	}
}

func TestScriptedUnknownActionFallsBack(t *testing.T) {
	s := NewScripted([]Step{{Action: "dance", Target: "Merlin"}})

	actor := view("a", "Conan", 150, 150)
	enemies := []combat.CombatantView{view("e", "Merlin", 80, 80)}

	decision, err := s.Decide(actor, []combat.CombatantView{actor}, enemies, combat.TurnState{})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decision == nil || decision.Kind != combat.KindAttack {
		t.Fatalf("decision = %+v, want fallback attack", decision)
	}
}

func TestFindByName(t *testing.T) {
	views := []combat.CombatantView{
		view("a", "Conan", 150, 150),
		view("b", "Robin", 0, 100),
	}
	if got := FindByName("conan", views); got == nil || got.ID != "a" {
		t.Fatalf("FindByName(conan) = %+v", got)
	}
	if got := FindByName("Robin", views); got != nil {
		t.Fatalf("dead combatants must not match, got %+v", got)
	}
	if got := FindByName("Arthur", views); got != nil {
		t.Fatalf("unknown names must not match, got %+v", got)
	}
}
