package combat

import (
	"fmt"

	"github.com/google/uuid"
)

// Roster owns every combatant in a battle, indexed by stable ID. Teams,
// actions, and strategies hold IDs and resolve them here, so no component
// outside the roster ever aliases a mutable combatant.
type Roster struct {
	combatants map[string]*Combatant
	order      []string
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{
		combatants: make(map[string]*Combatant),
	}
}

// Add creates a combatant of the given class and returns its ID.
func (r *Roster) Add(name string, class Class) string {
	id := uuid.NewString()
	r.combatants[id] = NewCombatant(id, name, class)
	r.order = append(r.order, id)
	return id
}

// Get resolves a combatant by ID.
func (r *Roster) Get(id string) (*Combatant, error) {
	c, ok := r.combatants[id]
	if !ok {
		return nil, fmt.Errorf("combatant %s not found", id)
	}
	return c, nil
}

// Contains reports whether the ID belongs to this roster.
func (r *Roster) Contains(id string) bool {
	_, ok := r.combatants[id]
	return ok
}

// Size returns the number of combatants in the roster.
func (r *Roster) Size() int {
	return len(r.combatants)
}

// Views returns snapshots for the given IDs, in the given order. Unknown
// IDs are skipped.
func (r *Roster) Views(ids []string) []CombatantView {
	views := make([]CombatantView, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.combatants[id]; ok {
			views = append(views, c.View())
		}
	}
	return views
}

// AllViews returns snapshots of every combatant in insertion order.
func (r *Roster) AllViews() []CombatantView {
	return r.Views(r.order)
}

// AnyAlive reports whether at least one of the given IDs is still standing.
func (r *Roster) AnyAlive(ids []string) bool {
	for _, id := range ids {
		if c, ok := r.combatants[id]; ok && c.Alive() {
			return true
		}
	}
	return false
}
