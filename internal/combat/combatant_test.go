package combat

import (
	"testing"
)

func TestParseClass(t *testing.T) {
	cases := []struct {
		input string
		want  Class
		ok    bool
	}{
		{"WARRIOR", ClassWarrior, true},
		{"warrior", ClassWarrior, true},
		{" Mage ", ClassMage, true},
		{"Archer", ClassArcher, true},
		{"rogue", ClassRogue, true},
		{"paladin", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		got, err := ParseClass(tc.input)
		if tc.ok && err != nil {
			t.Errorf("ParseClass(%q) returned error: %v", tc.input, err)
			continue
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("ParseClass(%q) expected error, got %v", tc.input, got)
			}
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClass(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestBaseStats(t *testing.T) {
	warrior := NewCombatant("w1", "Conan", ClassWarrior)
	if warrior.Stats.Health != 150 || warrior.Stats.AttackPower != 40 || warrior.Stats.Defense != 20 {
		t.Errorf("unexpected warrior stats: %+v", warrior.Stats)
	}

	mage := NewCombatant("m1", "Merlin", ClassMage)
	if mage.Stats.Health != 80 || mage.Stats.AttackPower != 50 || mage.Stats.Defense != 10 {
		t.Errorf("unexpected mage stats: %+v", mage.Stats)
	}
}

func TestAttackDamageFormula(t *testing.T) {
	warrior := NewCombatant("w1", "Conan", ClassWarrior)
	mage := NewCombatant("m1", "Merlin", ClassMage)

	// 40 attack * 1.2 warrior multiplier = 48 raw damage
	if got := warrior.Attack(mage); got != 48 {
		t.Errorf("warrior raw damage = %d, want 48", got)
	}

	// 50 attack * 1.5 mage multiplier = 75 raw damage
	if got := mage.Attack(warrior); got != 75 {
		t.Errorf("mage raw damage = %d, want 75", got)
	}
}

func TestTakeDamageAppliesDefense(t *testing.T) {
	mage := NewCombatant("m1", "Merlin", ClassMage)

	// 48 raw minus 10/2 defense = 43 effective, 80 - 43 = 37
	mage.TakeDamage(48)
	if mage.Stats.Health != 37 {
		t.Errorf("mage health after damage = %d, want 37", mage.Stats.Health)
	}
}

func TestTakeDamageClampsAtZero(t *testing.T) {
	mage := NewCombatant("m1", "Merlin", ClassMage)
	mage.SetHealth(10)

	mage.TakeDamage(48)
	if mage.Stats.Health != 0 {
		t.Errorf("health = %d, want 0", mage.Stats.Health)
	}
	if mage.Alive() {
		t.Error("combatant at zero health should not be alive")
	}
}

func TestTakeDamageFullyAbsorbed(t *testing.T) {
	warrior := NewCombatant("w1", "Conan", ClassWarrior)

	// 5 raw minus 20/2 defense is negative; no health is lost
	warrior.TakeDamage(5)
	if warrior.Stats.Health != 150 {
		t.Errorf("health = %d, want 150", warrior.Stats.Health)
	}
}

func TestHealClampsAtMax(t *testing.T) {
	warrior := NewCombatant("w1", "Conan", ClassWarrior)
	warrior.SetHealth(140)

	warrior.Heal(30)
	if warrior.Stats.Health != 150 {
		t.Errorf("health = %d, want 150", warrior.Stats.Health)
	}
}

func TestHealIgnoresNonPositiveAmounts(t *testing.T) {
	warrior := NewCombatant("w1", "Conan", ClassWarrior)
	warrior.SetHealth(100)

	warrior.Heal(0)
	warrior.Heal(-25)
	if warrior.Stats.Health != 100 {
		t.Errorf("health = %d, want 100", warrior.Stats.Health)
	}
}

func TestViewSnapshot(t *testing.T) {
	archer := NewCombatant("a1", "Robin", ClassArcher)
	view := archer.View()

	if view.Name != "Robin" || view.Class != "ARCHER" || view.Health != 100 || !view.Alive {
		t.Errorf("unexpected view: %+v", view)
	}

	// The view is a copy; mutating the combatant does not change it.
	archer.SetHealth(0)
	if view.Health != 100 || !view.Alive {
		t.Errorf("view changed after mutation: %+v", view)
	}
}
