package strategy

import (
	"fmt"
	"io"
	"time"

	"github.com/arenaforge/arena-server-go/internal/combat"
	"github.com/arenaforge/arena-server-go/internal/config"
	"go.uber.org/zap"
)

// Factory builds strategies from scenario specs. Human seats need the
// console streams; oracle seats need the oracle endpoint configured.
type Factory struct {
	Oracle     config.OracleConfig
	HealAmount int
	Logger     *zap.Logger

	// Console streams for human seats. A factory without streams
	// rejects human seats, which is what the server wants.
	Input  io.Reader
	Output io.Writer
}

// Build creates the strategy for one combatant spec.
func (f *Factory) Build(spec config.CombatantSpec) (combat.Strategy, error) {
	switch spec.Strategy {
	case "", "rulebased":
		rb := NewRuleBased()
		if f.HealAmount > 0 {
			rb.HealAmount = f.HealAmount
		}
		return rb, nil

	case "scripted":
		steps := make([]Step, 0, len(spec.Script))
		for _, s := range spec.Script {
			steps = append(steps, Step{Action: s.Action, Target: s.Target, Amount: s.Amount})
		}
		return NewScripted(steps), nil

	case "human":
		if f.Input == nil || f.Output == nil {
			return nil, fmt.Errorf("combatant %s: human seats need a console", spec.Name)
		}
		human := NewHuman(f.Input, f.Output)
		if f.HealAmount > 0 {
			human.HealAmount = f.HealAmount
		}
		return human, nil

	case "oracle":
		if f.Oracle.BaseURL == "" {
			return nil, fmt.Errorf("combatant %s: oracle strategy requires oracle.base_url", spec.Name)
		}
		oracle := NewOracle(OracleConfig{
			BaseURL: f.Oracle.BaseURL,
			Model:   f.Oracle.Model,
			APIKey:  f.Oracle.APIKey,
			Timeout: f.Oracle.Timeout,
		}, f.Logger)
		timeout := f.Oracle.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		return WithTimeout(oracle, timeout+time.Second, f.Logger), nil

	default:
		return nil, fmt.Errorf("combatant %s: unknown strategy %q", spec.Name, spec.Strategy)
	}
}
