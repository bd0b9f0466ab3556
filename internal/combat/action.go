package combat

import (
	"errors"
	"fmt"
)

// Kind distinguishes the action variants. Result reporting is the only
// place that switches on it; everything else goes through the Action
// interface.
type Kind int

const (
	KindAttack Kind = iota
	KindHeal
)

var kindNames = map[Kind]string{
	KindAttack: "ATTACK",
	KindHeal:   "HEAL",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND_%d", int(k))
}

// ErrNotExecuted is returned when Undo is called on an action that has
// not executed. Undoing unexecuted bookkeeping would corrupt state, so
// the action refuses instead.
var ErrNotExecuted = errors.New("action has not been executed")

// Action is a reversible state change against one or two combatants.
// Execute then Undo restores the target's health to its exact pre-execute
// value, regardless of clamping at zero or at max health.
type Action interface {
	Execute() error
	Undo() error
	Kind() Kind
	Describe() string
	Result() ActionResult
}

// ActionResult is the read-only snapshot produced after an action
// executes, for display and logging collaborators.
type ActionResult struct {
	Kind              Kind
	ActorName         string
	TargetName        string
	Amount            int
	TargetHealthAfter int
	TargetDefeated    bool
}

// AttackAction applies attacker damage to a target. The damage formula is
// delegated entirely to the combatants; the action only applies it and
// records the exact health lost so undo is precise even when the target
// was clamped at zero.
type AttackAction struct {
	roster     *Roster
	attackerID string
	targetID   string

	executed         bool
	actualHealthLost int
	result           ActionResult
}

// NewAttackAction creates an attack by attacker against target, both
// referenced by roster ID.
func NewAttackAction(roster *Roster, attackerID, targetID string) *AttackAction {
	return &AttackAction{
		roster:     roster,
		attackerID: attackerID,
		targetID:   targetID,
	}
}

// Execute computes and applies damage, recording the actual health lost.
func (a *AttackAction) Execute() error {
	attacker, err := a.roster.Get(a.attackerID)
	if err != nil {
		return fmt.Errorf("attack: %w", err)
	}
	target, err := a.roster.Get(a.targetID)
	if err != nil {
		return fmt.Errorf("attack: %w", err)
	}

	healthBefore := target.Stats.Health
	damage := attacker.Attack(target)
	target.TakeDamage(damage)
	a.actualHealthLost = healthBefore - target.Stats.Health
	a.executed = true

	a.result = ActionResult{
		Kind:              KindAttack,
		ActorName:         attacker.Name,
		TargetName:        target.Name,
		Amount:            a.actualHealthLost,
		TargetHealthAfter: target.Stats.Health,
		TargetDefeated:    !target.Alive(),
	}
	return nil
}

// Undo restores exactly the health the target lost.
func (a *AttackAction) Undo() error {
	if !a.executed {
		return ErrNotExecuted
	}
	target, err := a.roster.Get(a.targetID)
	if err != nil {
		return fmt.Errorf("attack undo: %w", err)
	}
	target.Heal(a.actualHealthLost)
	return nil
}

func (a *AttackAction) Kind() Kind { return KindAttack }

func (a *AttackAction) Result() ActionResult { return a.result }

// Describe returns a human-readable line for logs.
func (a *AttackAction) Describe() string {
	attacker, errA := a.roster.Get(a.attackerID)
	target, errT := a.roster.Get(a.targetID)
	if errA != nil || errT != nil {
		return "attack against unknown combatant"
	}
	return fmt.Sprintf("%s attacks %s", attacker.Name, target.Name)
}

// HealAction restores a fixed amount of health to a target. The amount is
// a policy of the caller; the action records the actual healing done so
// undo is exact when the heal was capped at max health.
type HealAction struct {
	roster   *Roster
	healerID string
	targetID string
	amount   int

	executed          bool
	actualHealingDone int
	result            ActionResult
}

// NewHealAction creates a heal by healer on target for amount health.
func NewHealAction(roster *Roster, healerID, targetID string, amount int) *HealAction {
	return &HealAction{
		roster:   roster,
		healerID: healerID,
		targetID: targetID,
		amount:   amount,
	}
}

// Execute applies the heal, recording how much health was actually gained.
func (h *HealAction) Execute() error {
	healer, err := h.roster.Get(h.healerID)
	if err != nil {
		return fmt.Errorf("heal: %w", err)
	}
	target, err := h.roster.Get(h.targetID)
	if err != nil {
		return fmt.Errorf("heal: %w", err)
	}

	healthBefore := target.Stats.Health
	target.Heal(h.amount)
	h.actualHealingDone = target.Stats.Health - healthBefore
	h.executed = true

	h.result = ActionResult{
		Kind:              KindHeal,
		ActorName:         healer.Name,
		TargetName:        target.Name,
		Amount:            h.actualHealingDone,
		TargetHealthAfter: target.Stats.Health,
		TargetDefeated:    !target.Alive(),
	}
	return nil
}

// Undo subtracts the recorded healing directly. TakeDamage would apply
// defense, so the raw setter is used to keep the reversal exact.
func (h *HealAction) Undo() error {
	if !h.executed {
		return ErrNotExecuted
	}
	target, err := h.roster.Get(h.targetID)
	if err != nil {
		return fmt.Errorf("heal undo: %w", err)
	}
	target.SetHealth(target.Stats.Health - h.actualHealingDone)
	return nil
}

func (h *HealAction) Kind() Kind { return KindHeal }

func (h *HealAction) Result() ActionResult { return h.result }

// Describe returns a human-readable line for logs.
func (h *HealAction) Describe() string {
	target, err := h.roster.Get(h.targetID)
	if err != nil {
		return "heal against unknown combatant"
	}
	return fmt.Sprintf("Heal %s for %d HP", target.Name, h.amount)
}
