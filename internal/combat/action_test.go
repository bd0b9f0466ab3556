package combat

import (
	"errors"
	"testing"
)

func newDuelRoster(t *testing.T) (*Roster, string, string) {
	t.Helper()
	roster := NewRoster()
	warriorID := roster.Add("Conan", ClassWarrior)
	mageID := roster.Add("Merlin", ClassMage)
	return roster, warriorID, mageID
}

func mustGet(t *testing.T, roster *Roster, id string) *Combatant {
	t.Helper()
	c, err := roster.Get(id)
	if err != nil {
		t.Fatalf("Get(%s): %v", id, err)
	}
	return c
}

func TestAttackExecuteAndUndo(t *testing.T) {
	roster, warriorID, mageID := newDuelRoster(t)
	mage := mustGet(t, roster, mageID)

	attack := NewAttackAction(roster, warriorID, mageID)
	if err := attack.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// 40 * 1.2 = 48 raw, minus 10/2 defense = 43 effective
	if mage.Stats.Health != 37 {
		t.Fatalf("mage health after attack = %d, want 37", mage.Stats.Health)
	}

	result := attack.Result()
	if result.Kind != KindAttack || result.Amount != 43 || result.TargetHealthAfter != 37 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.TargetDefeated {
		t.Fatal("mage should not be defeated at 37 health")
	}

	if err := attack.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if mage.Stats.Health != 80 {
		t.Fatalf("mage health after undo = %d, want 80", mage.Stats.Health)
	}
}

func TestAttackUndoAfterLethalClamp(t *testing.T) {
	roster, warriorID, mageID := newDuelRoster(t)
	mage := mustGet(t, roster, mageID)
	mage.SetHealth(10)

	attack := NewAttackAction(roster, warriorID, mageID)
	if err := attack.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if mage.Stats.Health != 0 {
		t.Fatalf("mage health = %d, want 0", mage.Stats.Health)
	}
	if !attack.Result().TargetDefeated {
		t.Fatal("result should report the target defeated")
	}

	// Only the 10 health actually lost comes back, not the full 43.
	if err := attack.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if mage.Stats.Health != 10 {
		t.Fatalf("mage health after undo = %d, want 10", mage.Stats.Health)
	}
}

func TestHealExecuteAndUndo(t *testing.T) {
	roster, warriorID, mageID := newDuelRoster(t)
	warrior := mustGet(t, roster, warriorID)
	warrior.SetHealth(100)

	heal := NewHealAction(roster, mageID, warriorID, 30)
	if err := heal.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if warrior.Stats.Health != 130 {
		t.Fatalf("health after heal = %d, want 130", warrior.Stats.Health)
	}

	if err := heal.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if warrior.Stats.Health != 100 {
		t.Fatalf("health after undo = %d, want 100", warrior.Stats.Health)
	}
}

func TestHealUndoAfterCapClamp(t *testing.T) {
	roster, warriorID, mageID := newDuelRoster(t)
	warrior := mustGet(t, roster, warriorID)
	warrior.SetHealth(140)

	heal := NewHealAction(roster, mageID, warriorID, 50)
	if err := heal.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if warrior.Stats.Health != 150 {
		t.Fatalf("health after capped heal = %d, want 150", warrior.Stats.Health)
	}
	if got := heal.Result().Amount; got != 10 {
		t.Fatalf("result amount = %d, want 10 actual healing", got)
	}

	// Undo subtracts the 10 actually gained, not the 50 requested.
	if err := heal.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if warrior.Stats.Health != 140 {
		t.Fatalf("health after undo = %d, want 140", warrior.Stats.Health)
	}
}

func TestHealOverflowUndoRestoresExactly(t *testing.T) {
	roster, warriorID, mageID := newDuelRoster(t)
	warrior := mustGet(t, roster, warriorID)
	warrior.SetHealth(50)

	heal := NewHealAction(roster, mageID, warriorID, 200)
	if err := heal.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if warrior.Stats.Health != 150 {
		t.Fatalf("health after overflow heal = %d, want 150", warrior.Stats.Health)
	}

	if err := heal.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if warrior.Stats.Health != 50 {
		t.Fatalf("health after undo = %d, want 50", warrior.Stats.Health)
	}
}

func TestUndoBeforeExecute(t *testing.T) {
	roster, warriorID, mageID := newDuelRoster(t)

	attack := NewAttackAction(roster, warriorID, mageID)
	if err := attack.Undo(); !errors.Is(err, ErrNotExecuted) {
		t.Fatalf("attack Undo error = %v, want ErrNotExecuted", err)
	}

	heal := NewHealAction(roster, mageID, warriorID, 30)
	if err := heal.Undo(); !errors.Is(err, ErrNotExecuted) {
		t.Fatalf("heal Undo error = %v, want ErrNotExecuted", err)
	}
}

func TestActionDescribe(t *testing.T) {
	roster, warriorID, mageID := newDuelRoster(t)

	attack := NewAttackAction(roster, warriorID, mageID)
	if got := attack.Describe(); got != "Conan attacks Merlin" {
		t.Errorf("attack Describe = %q", got)
	}

	heal := NewHealAction(roster, mageID, warriorID, 30)
	if got := heal.Describe(); got != "Heal Conan for 30 HP" {
		t.Errorf("heal Describe = %q", got)
	}
}

func TestAttackAgainstDefeatedTarget(t *testing.T) {
	roster, warriorID, mageID := newDuelRoster(t)
	mage := mustGet(t, roster, mageID)
	mage.SetHealth(0)

	// The action layer accepts any roster target; validation lives in the
	// scheduler. Damage against a downed target is a recorded no-op.
	attack := NewAttackAction(roster, warriorID, mageID)
	if err := attack.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if mage.Stats.Health != 0 {
		t.Fatalf("health = %d, want 0", mage.Stats.Health)
	}
	if err := attack.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if mage.Stats.Health != 0 {
		t.Fatalf("health after undo = %d, want 0", mage.Stats.Health)
	}
}
