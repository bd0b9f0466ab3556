package strategy

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arenaforge/arena-server-go/internal/combat"
)

func TestHumanAttackChoice(t *testing.T) {
	// Choose "1. Attack", then target 1.
	in := strings.NewReader("1\n1\n")
	var out bytes.Buffer
	h := NewHuman(in, &out)

	actor := view("a", "Conan", 150, 150)
	enemies := []combat.CombatantView{view("e", "Merlin", 80, 80)}

	decision, err := h.Decide(actor, []combat.CombatantView{actor}, enemies, combat.TurnState{TurnNumber: 1, RoundNumber: 1})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decision == nil || decision.Kind != combat.KindAttack || decision.TargetID != "e" {
		t.Fatalf("decision = %+v, want attack on Merlin", decision)
	}
	if !strings.Contains(out.String(), "Your turn, Conan!") {
		t.Error("prompt missing actor name")
	}
	if !strings.Contains(out.String(), "Merlin") {
		t.Error("target listing missing enemy name")
	}
}

func TestHumanHealChoice(t *testing.T) {
	// Choose "2. Heal", then target 2 (the ally).
	in := strings.NewReader("2\n2\n")
	var out bytes.Buffer
	h := NewHuman(in, &out)

	actor := view("a", "Conan", 150, 150)
	allies := []combat.CombatantView{actor, view("b", "Robin", 40, 100)}
	enemies := []combat.CombatantView{view("e", "Merlin", 80, 80)}

	decision, err := h.Decide(actor, allies, enemies, combat.TurnState{})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decision == nil || decision.Kind != combat.KindHeal || decision.TargetID != "b" {
		t.Fatalf("decision = %+v, want heal on Robin", decision)
	}
	if decision.Amount != DefaultHealAmount {
		t.Errorf("amount = %d, want %d", decision.Amount, DefaultHealAmount)
	}
}

func TestHumanRepromptsOnInvalidInput(t *testing.T) {
	// Garbage, out-of-range action, then a valid attack.
	in := strings.NewReader("banana\n7\n1\n1\n")
	var out bytes.Buffer
	h := NewHuman(in, &out)

	actor := view("a", "Conan", 150, 150)
	enemies := []combat.CombatantView{view("e", "Merlin", 80, 80)}

	decision, err := h.Decide(actor, []combat.CombatantView{actor}, enemies, combat.TurnState{})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decision == nil || decision.Kind != combat.KindAttack {
		t.Fatalf("decision = %+v, want attack after re-prompts", decision)
	}
	if !strings.Contains(out.String(), "Invalid") {
		t.Error("expected an invalid-input message")
	}
}

func TestHumanEOFDeclinesTurn(t *testing.T) {
	var out bytes.Buffer
	h := NewHuman(strings.NewReader(""), &out)

	actor := view("a", "Conan", 150, 150)
	enemies := []combat.CombatantView{view("e", "Merlin", 80, 80)}

	decision, err := h.Decide(actor, []combat.CombatantView{actor}, enemies, combat.TurnState{})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decision != nil {
		t.Fatalf("decision = %+v, want nil on EOF", decision)
	}
}
