package combat

import (
	"fmt"
	"strings"
)

// Class identifies a combatant archetype. The archetype fixes base stats
// and the attack multiplier used when computing raw damage.
type Class int

const (
	ClassWarrior Class = iota
	ClassMage
	ClassArcher
	ClassRogue
)

var classNames = map[Class]string{
	ClassWarrior: "WARRIOR",
	ClassMage:    "MAGE",
	ClassArcher:  "ARCHER",
	ClassRogue:   "ROGUE",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CLASS_%d", int(c))
}

// ParseClass resolves a class from its string name, case-insensitively.
func ParseClass(name string) (Class, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for class, n := range classNames {
		if n == upper {
			return class, nil
		}
	}
	return 0, fmt.Errorf("unknown combatant class %q", name)
}

// attackMultiplier scales raw attack power per archetype.
var attackMultiplier = map[Class]float64{
	ClassWarrior: 1.2,
	ClassMage:    1.5,
	ClassArcher:  1.3,
	ClassRogue:   1.4,
}

// Stats holds the mutable numeric state of a combatant.
type Stats struct {
	Health      int
	MaxHealth   int
	Mana        int
	MaxMana     int
	AttackPower int
	Defense     int
}

// Combatant is a single unit on a team. Health and mana are mutated only
// through the action layer while a battle is running.
type Combatant struct {
	ID    string
	Name  string
	Class Class
	Stats Stats
}

// baseStats per archetype, matching the stock character roster.
var baseStats = map[Class]Stats{
	ClassWarrior: {Health: 150, MaxHealth: 150, Mana: 30, MaxMana: 30, AttackPower: 40, Defense: 20},
	ClassMage:    {Health: 80, MaxHealth: 80, Mana: 100, MaxMana: 100, AttackPower: 50, Defense: 10},
	ClassArcher:  {Health: 100, MaxHealth: 100, Mana: 50, MaxMana: 50, AttackPower: 35, Defense: 15},
	ClassRogue:   {Health: 90, MaxHealth: 90, Mana: 40, MaxMana: 40, AttackPower: 45, Defense: 12},
}

// NewCombatant creates a combatant of the given class with stock stats.
func NewCombatant(id, name string, class Class) *Combatant {
	stats, ok := baseStats[class]
	if !ok {
		stats = baseStats[ClassWarrior]
	}
	return &Combatant{
		ID:    id,
		Name:  name,
		Class: class,
		Stats: stats,
	}
}

// Attack computes the raw damage this combatant deals to the target.
// The result is the input to the target's TakeDamage; it does not apply
// the damage itself and is deterministic for fixed stats.
func (c *Combatant) Attack(_ *Combatant) int {
	multiplier, ok := attackMultiplier[c.Class]
	if !ok {
		multiplier = 1.0
	}
	return int(float64(c.Stats.AttackPower) * multiplier)
}

// TakeDamage applies incoming damage after defense reduction. Half the
// defense value is absorbed; health never drops below zero.
func (c *Combatant) TakeDamage(damage int) {
	reduced := damage - c.Stats.Defense/2
	if reduced < 0 {
		reduced = 0
	}
	c.Stats.Health -= reduced
	if c.Stats.Health < 0 {
		c.Stats.Health = 0
	}
}

// Heal restores health, capped at MaxHealth. Negative amounts are ignored.
func (c *Combatant) Heal(amount int) {
	if amount <= 0 {
		return
	}
	c.Stats.Health += amount
	if c.Stats.Health > c.Stats.MaxHealth {
		c.Stats.Health = c.Stats.MaxHealth
	}
}

// SetHealth sets health to an exact value without defense or cap logic.
// Only the undo path uses this; the value must already be in range.
func (c *Combatant) SetHealth(health int) {
	c.Stats.Health = health
}

// Alive reports whether the combatant can still act. Defeated combatants
// are skipped for turns but remain valid action targets.
func (c *Combatant) Alive() bool {
	return c.Stats.Health > 0
}

// View returns a read-only snapshot of the combatant.
func (c *Combatant) View() CombatantView {
	return CombatantView{
		ID:          c.ID,
		Name:        c.Name,
		Class:       c.Class.String(),
		Health:      c.Stats.Health,
		MaxHealth:   c.Stats.MaxHealth,
		Mana:        c.Stats.Mana,
		MaxMana:     c.Stats.MaxMana,
		AttackPower: c.Stats.AttackPower,
		Defense:     c.Stats.Defense,
		Alive:       c.Alive(),
	}
}

// CombatantView is the read-only snapshot handed to strategies and
// external consumers. Strategies reference combatants by ID only.
type CombatantView struct {
	ID          string
	Name        string
	Class       string
	Health      int
	MaxHealth   int
	Mana        int
	MaxMana     int
	AttackPower int
	Defense     int
	Alive       bool
}
