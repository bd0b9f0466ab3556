package strategy

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arenaforge/arena-server-go/internal/combat"
)

// Human prompts a person for each turn over the given reader/writer pair.
// Invalid input re-prompts; EOF yields no decision, which the scheduler
// treats as a skipped turn.
type Human struct {
	in         *bufio.Scanner
	out        io.Writer
	HealAmount int
}

// NewHuman creates a console-driven strategy.
func NewHuman(in io.Reader, out io.Writer) *Human {
	return &Human{
		in:         bufio.NewScanner(in),
		out:        out,
		HealAmount: DefaultHealAmount,
	}
}

// Decide shows the battle state and reads an action and target choice.
func (h *Human) Decide(actor combat.CombatantView, allies, enemies []combat.CombatantView, state combat.TurnState) (*combat.Decision, error) {
	h.displayState(actor, allies, enemies, state)

	for {
		fmt.Fprintf(h.out, "\nYour turn, %s!\n", actor.Name)
		fmt.Fprintln(h.out, "1. Attack an enemy")
		fmt.Fprintln(h.out, "2. Heal an ally")
		fmt.Fprint(h.out, "Choose action (1-2): ")

		choice, ok := h.readInt()
		if !ok {
			return nil, nil
		}

		switch choice {
		case 1:
			if target := h.chooseTarget("attack", enemies); target != nil {
				return &combat.Decision{Kind: combat.KindAttack, TargetID: target.ID}, nil
			}
		case 2:
			if target := h.chooseTarget("heal", allies); target != nil {
				return &combat.Decision{Kind: combat.KindHeal, TargetID: target.ID, Amount: h.HealAmount}, nil
			}
		default:
			fmt.Fprintln(h.out, "Invalid choice. Please try again.")
		}
	}
}

func (h *Human) chooseTarget(action string, views []combat.CombatantView) *combat.CombatantView {
	fmt.Fprintf(h.out, "\nAvailable targets to %s:\n", action)
	for i, v := range views {
		fmt.Fprintf(h.out, "%d. %s (%s) - HP: %d/%d\n", i+1, v.Name, v.Class, v.Health, v.MaxHealth)
	}

	fmt.Fprintf(h.out, "Choose target (1-%d): ", len(views))
	choice, ok := h.readInt()
	if !ok {
		return nil
	}
	if choice < 1 || choice > len(views) {
		fmt.Fprintln(h.out, "Invalid target. Please try again.")
		return nil
	}
	return &views[choice-1]
}

// readInt reads one line and parses it. The second return is false only
// on EOF.
func (h *Human) readInt() (int, bool) {
	if !h.in.Scan() {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(h.in.Text()))
	if err != nil {
		fmt.Fprintln(h.out, "Invalid input. Please enter a number.")
		return -1, true
	}
	return n, true
}

func (h *Human) displayState(actor combat.CombatantView, allies, enemies []combat.CombatantView, state combat.TurnState) {
	banner := strings.Repeat("=", 60)
	fmt.Fprintf(h.out, "\n%s\n", banner)
	fmt.Fprintf(h.out, "TURN %d - ROUND %d\n", state.TurnNumber, state.RoundNumber)
	fmt.Fprintf(h.out, "%s\n", banner)

	fmt.Fprintln(h.out, "\nYour Team:")
	for _, ally := range allies {
		marker := ""
		if ally.ID == actor.ID {
			marker = " (YOU)"
		}
		fmt.Fprintf(h.out, "  %s (%s)%s - HP: %d/%d, Mana: %d/%d\n",
			ally.Name, ally.Class, marker, ally.Health, ally.MaxHealth, ally.Mana, ally.MaxMana)
	}

	fmt.Fprintln(h.out, "\nEnemy Team:")
	for _, enemy := range enemies {
		fmt.Fprintf(h.out, "  %s (%s) - HP: %d/%d, Mana: %d/%d\n",
			enemy.Name, enemy.Class, enemy.Health, enemy.MaxHealth, enemy.Mana, enemy.MaxMana)
	}
}
