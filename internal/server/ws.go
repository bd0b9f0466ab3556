package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/arenaforge/arena-server-go/internal/combat"
	"github.com/arenaforge/arena-server-go/internal/config"
	"github.com/arenaforge/arena-server-go/internal/repository"
	"github.com/arenaforge/arena-server-go/internal/strategy"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage is the envelope for everything the server pushes to
// spectators.
type WSMessage struct {
	Type     string `json:"type"`
	BattleID string `json:"battle_id,omitempty"`
	Data     any    `json:"data,omitempty"`
}

// ArenaServer serves battles over HTTP+websocket: spectators subscribe on
// /ws, battles start via POST /battles with a scenario body.
type ArenaServer struct {
	cfg     *config.Config
	engine  *combat.BattleEngine
	reports *repository.ReportRepository
	hub     *Hub
	logger  *zap.Logger

	httpServer *http.Server
}

// NewArenaServer wires the engine's event bus into the spectator hub.
// The report repository is optional.
func NewArenaServer(cfg *config.Config, engine *combat.BattleEngine, reports *repository.ReportRepository, logger *zap.Logger) *ArenaServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &ArenaServer{
		cfg:     cfg,
		engine:  engine,
		reports: reports,
		hub:     NewHub(logger),
		logger:  logger,
	}

	engine.Bus().Subscribe(s.forwardEvent)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/battles", s.handleStartBattle)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.httpServer = &http.Server{
		Addr:    cfg.Server.Address,
		Handler: mux,
	}

	return s
}

// Start runs the hub and the HTTP listener. It blocks until the listener
// stops.
func (s *ArenaServer) Start() error {
	go s.hub.Run()
	s.logger.Info("starting websocket server", zap.String("address", s.cfg.Server.Address))
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the HTTP listener gracefully.
func (s *ArenaServer) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// forwardEvent translates battle events into spectator messages.
func (s *ArenaServer) forwardEvent(event combat.Event) {
	msg := WSMessage{
		Type:     string(event.Type),
		BattleID: event.BattleID,
	}

	switch event.Type {
	case combat.EventActionExecuted:
		msg.Data = map[string]any{
			"kind":                event.Result.Kind.String(),
			"actor":               event.Result.ActorName,
			"target":              event.Result.TargetName,
			"amount":              event.Result.Amount,
			"target_health_after": event.Result.TargetHealthAfter,
			"defeated":            event.Result.TargetDefeated,
			"round":               event.Round,
			"turn":                event.Turn,
		}
	case combat.EventBattleEnded:
		if view, err := s.engine.BattleView(event.BattleID); err == nil && view.Report != nil {
			msg.Data = view.Report
		}
	default:
		msg.Data = map[string]any{
			"round": event.Round,
			"turn":  event.Turn,
		}
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Warn("failed to encode event", zap.Error(err))
		return
	}
	s.hub.Broadcast(payload)
}

// handleWS upgrades a spectator connection and registers it with the hub.
func (s *ArenaServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{conn: conn, send: make(chan []byte, 64)}
	s.hub.register <- client

	go s.writePump(client)
	go s.readPump(client)
}

func (s *ArenaServer) writePump(client *Client) {
	defer client.conn.Close()
	for message := range client.send {
		if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// readPump drains the connection so pings and closes are processed.
func (s *ArenaServer) readPump(client *Client) {
	defer func() {
		s.hub.unregister <- client
		client.conn.Close()
	}()
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// handleStartBattle accepts a scenario and runs the battle
// asynchronously, streaming its events to spectators.
func (s *ArenaServer) handleStartBattle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var scenario config.Scenario
	if err := json.NewDecoder(r.Body).Decode(&scenario); err != nil {
		http.Error(w, "invalid scenario: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := scenario.Validate(); err != nil {
		http.Error(w, "invalid scenario: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Server battles have no console; human seats are rejected by the
	// factory.
	factory := &strategy.Factory{
		Oracle:     s.cfg.Oracle,
		HealAmount: s.cfg.Game.HealAmount,
		Logger:     s.logger,
	}

	setup, err := BuildSetup(&scenario, factory)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	battleID, err := s.engine.StartBattle(*setup)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	go s.runBattle(battleID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"battle_id": battleID})
}

// runBattle drives one battle to completion and persists its report.
func (s *ArenaServer) runBattle(battleID string) {
	timeout := s.cfg.Game.BattleTimeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	report, err := s.engine.RunBattle(ctx, battleID)
	if err != nil {
		s.logger.Error("battle run failed",
			zap.String("battle_id", battleID),
			zap.Error(err),
		)
		return
	}

	if s.reports != nil {
		saveCtx, saveCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer saveCancel()
		if err := s.reports.SaveReport(saveCtx, report); err != nil {
			s.logger.Warn("failed to persist battle report",
				zap.String("battle_id", battleID),
				zap.Error(err),
			)
		}
	}
}

// BuildSetup converts a scenario into an engine battle setup using the
// given strategy factory.
func BuildSetup(scenario *config.Scenario, factory *strategy.Factory) (*combat.BattleSetup, error) {
	buildTeam := func(specs []config.CombatantSpec) ([]combat.CombatantSetup, error) {
		seats := make([]combat.CombatantSetup, 0, len(specs))
		for _, spec := range specs {
			class, err := combat.ParseClass(spec.Class)
			if err != nil {
				return nil, err
			}
			strat, err := factory.Build(spec)
			if err != nil {
				return nil, err
			}
			seats = append(seats, combat.CombatantSetup{
				Name:     spec.Name,
				Class:    class,
				Strategy: strat,
			})
		}
		return seats, nil
	}

	team1, err := buildTeam(scenario.Team1)
	if err != nil {
		return nil, err
	}
	team2, err := buildTeam(scenario.Team2)
	if err != nil {
		return nil, err
	}

	return &combat.BattleSetup{Team1: team1, Team2: team2}, nil
}
