package strategy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/arenaforge/arena-server-go/internal/combat"
	"go.uber.org/zap"
)

// OracleConfig configures the external oracle endpoint. The endpoint is
// expected to speak the chat-completions JSON shape: a user prompt in,
// a single text choice out.
type OracleConfig struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// Oracle asks an external model to pick the turn's action. The call is
// synchronous and blocking from the scheduler's point of view. Any
// malformed, missing, or off-script response falls back to the
// deterministic rule-based strategy, so the oracle can never wedge or
// crash a battle.
type Oracle struct {
	client   *http.Client
	cfg      OracleConfig
	fallback combat.Strategy
	logger   *zap.Logger
}

// NewOracle creates an oracle-backed strategy.
func NewOracle(cfg OracleConfig, logger *zap.Logger) *Oracle {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Oracle{
		client:   &http.Client{Timeout: cfg.Timeout},
		cfg:      cfg,
		fallback: NewRuleBased(),
		logger:   logger,
	}
}

// oracleDecision is the JSON the oracle must answer with.
type oracleDecision struct {
	Action    string `json:"action"`
	Target    string `json:"target"`
	Reasoning string `json:"reasoning"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Decide queries the oracle and converts its answer into a decision.
func (o *Oracle) Decide(actor combat.CombatantView, allies, enemies []combat.CombatantView, state combat.TurnState) (*combat.Decision, error) {
	raw, err := o.call(context.Background(), o.buildPrompt(actor, allies, enemies, state))
	if err != nil {
		o.logger.Warn("oracle call failed, using fallback",
			zap.String("combatant", actor.Name),
			zap.Error(err),
		)
		return o.fallback.Decide(actor, allies, enemies, state)
	}

	var decision oracleDecision
	if err := json.Unmarshal([]byte(extractJSON(raw)), &decision); err != nil {
		o.logger.Warn("oracle returned malformed decision, using fallback",
			zap.String("combatant", actor.Name),
			zap.Error(err),
		)
		return o.fallback.Decide(actor, allies, enemies, state)
	}

	if decision.Reasoning != "" {
		o.logger.Info("oracle reasoning",
			zap.String("combatant", actor.Name),
			zap.String("reasoning", decision.Reasoning),
		)
	}

	switch strings.ToLower(strings.TrimSpace(decision.Action)) {
	case "attack":
		if target := FindByName(decision.Target, enemies); target != nil {
			return &combat.Decision{Kind: combat.KindAttack, TargetID: target.ID}, nil
		}
	case "heal":
		if target := FindByName(decision.Target, allies); target != nil {
			return &combat.Decision{Kind: combat.KindHeal, TargetID: target.ID, Amount: DefaultHealAmount}, nil
		}
	}

	o.logger.Warn("oracle named an invalid action or target, using fallback",
		zap.String("combatant", actor.Name),
		zap.String("action", decision.Action),
		zap.String("target", decision.Target),
	)
	return o.fallback.Decide(actor, allies, enemies, state)
}

// call posts the prompt to the chat endpoint and returns the first
// choice's text.
func (o *Oracle) call(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    o.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(o.cfg.BaseURL, "/")+"/v1/chat/completions",
		bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if o.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("oracle returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode oracle response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("oracle response had no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// buildPrompt describes the battle and the required JSON answer.
func (o *Oracle) buildPrompt(actor combat.CombatantView, allies, enemies []combat.CombatantView, state combat.TurnState) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are %s, a %s in a tactical turn-based battle.\n\n", actor.Name, actor.Class)

	fmt.Fprintf(&sb, "YOUR STATUS:\n")
	fmt.Fprintf(&sb, "- HP: %d/%d (%.0f%%)\n", actor.Health, actor.MaxHealth, percent(actor))
	fmt.Fprintf(&sb, "- Mana: %d/%d\n", actor.Mana, actor.MaxMana)
	fmt.Fprintf(&sb, "- Attack Power: %d, Defense: %d\n\n", actor.AttackPower, actor.Defense)

	fmt.Fprintf(&sb, "YOUR TEAM (allies):\n%s\n", formatViews(allies))
	fmt.Fprintf(&sb, "ENEMIES:\n%s\n", formatViews(enemies))

	fmt.Fprintf(&sb, "AVAILABLE ACTIONS:\n")
	fmt.Fprintf(&sb, "1. attack <enemy_name>\n")
	fmt.Fprintf(&sb, "2. heal <ally_name> - Restores %d HP\n\n", DefaultHealAmount)

	fmt.Fprintf(&sb, "TACTICAL GUIDANCE:\n")
	fmt.Fprintf(&sb, "- Focus fire: attack wounded enemies to eliminate threats quickly.\n")
	fmt.Fprintf(&sb, "- Protect allies: heal teammates below 30%% HP to prevent deaths.\n")
	fmt.Fprintf(&sb, "- Current turn: %d, round: %d\n\n", state.TurnNumber, state.RoundNumber)

	fmt.Fprintf(&sb, "Respond ONLY with valid JSON in this exact format:\n")
	fmt.Fprintf(&sb, "{\n  \"action\": \"attack\" | \"heal\",\n  \"target\": \"exact_character_name\",\n  \"reasoning\": \"brief tactical explanation\"\n}\n\n")

	fmt.Fprintf(&sb, "Valid enemy names: %s\n", livingNames(enemies))
	fmt.Fprintf(&sb, "Valid ally names: %s\n", livingNames(allies))

	return sb.String()
}

func percent(v combat.CombatantView) float64 {
	if v.MaxHealth == 0 {
		return 0
	}
	return float64(v.Health) / float64(v.MaxHealth) * 100
}

func formatViews(views []combat.CombatantView) string {
	var sb strings.Builder
	for _, v := range views {
		status := ""
		switch p := percent(v); {
		case p < 30:
			status = " CRITICAL"
		case p < 60:
			status = " WOUNDED"
		}
		fmt.Fprintf(&sb, "  - %s (%s): %d/%d HP (%.0f%%)%s\n",
			v.Name, v.Class, v.Health, v.MaxHealth, percent(v), status)
	}
	if sb.Len() == 0 {
		sb.WriteString("  - (none)\n")
	}
	return sb.String()
}

func livingNames(views []combat.CombatantView) string {
	names := make([]string, 0, len(views))
	for _, v := range views {
		if v.Alive {
			names = append(names, v.Name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// extractJSON trims surrounding prose or fencing from the oracle's text,
// keeping the outermost JSON object.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
