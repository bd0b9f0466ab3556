package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/arenaforge/arena-server-go/internal/combat"
	"github.com/arenaforge/arena-server-go/internal/config"
	"github.com/arenaforge/arena-server-go/internal/server"
	"github.com/arenaforge/arena-server-go/internal/strategy"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath   = flag.String("config", "config/config.yaml", "path to configuration file")
	scenarioPath = flag.String("scenario", "", "path to scenario file (required)")
	verbose      = flag.Bool("v", false, "verbose engine logging")
)

func main() {
	flag.Parse()

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "usage: arena -scenario <file> [-config <file>] [-v]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newCLILogger(*verbose)
	defer logger.Sync()

	scenario, err := config.LoadScenario(*scenarioPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load scenario: %v\n", err)
		os.Exit(1)
	}

	factory := &strategy.Factory{
		Oracle:     cfg.Oracle,
		HealAmount: cfg.Game.HealAmount,
		Logger:     logger,
		Input:      os.Stdin,
		Output:     os.Stdout,
	}

	setup, err := server.BuildSetup(scenario, factory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build battle: %v\n", err)
		os.Exit(1)
	}

	var recorder *combat.ReplayRecorder
	if cfg.Replay.Enabled {
		recorder = combat.NewReplayRecorder(logger, cfg.Replay.Dir)
	}

	engine := combat.NewBattleEngine(logger, recorder)
	engine.Bus().Subscribe(printEvent)

	battleID, err := engine.StartBattle(*setup)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start battle: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Game.BattleTimeout)
	defer cancel()

	report, err := engine.RunBattle(ctx, battleID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Battle aborted: %v\n", err)
		os.Exit(1)
	}

	printReport(report)
}

// printEvent renders the battle as it plays out.
func printEvent(event combat.Event) {
	switch event.Type {
	case combat.EventBattleStarted:
		fmt.Println(banner("BATTLE START"))
	case combat.EventRoundStarted:
		fmt.Printf("\n%s\n", banner(fmt.Sprintf("ROUND %d", event.Round)))
	case combat.EventActionExecuted:
		if event.Result == nil {
			return
		}
		r := event.Result
		switch r.Kind {
		case combat.KindAttack:
			fmt.Printf("  %s attacks %s for %d damage (%s now at %d HP)\n",
				r.ActorName, r.TargetName, r.Amount, r.TargetName, r.TargetHealthAfter)
		case combat.KindHeal:
			fmt.Printf("  %s heals %s for %d HP (%s now at %d HP)\n",
				r.ActorName, r.TargetName, r.Amount, r.TargetName, r.TargetHealthAfter)
		}
	case combat.EventCombatantDefeated:
		if event.Result != nil {
			fmt.Printf("  *** %s has been defeated! ***\n", event.Result.TargetName)
		}
	case combat.EventTurnSkipped:
		fmt.Printf("  (turn %d skipped: %s)\n", event.Turn, event.Description)
	case combat.EventActionUndone:
		fmt.Printf("  << undone: %s\n", event.Description)
	}
}

func printReport(report *combat.Report) {
	fmt.Printf("\n%s\n", banner("BATTLE OVER"))
	if report.WinningTeam != 0 {
		fmt.Printf("Team %d wins!\n", report.WinningTeam)
	} else {
		fmt.Println("No winner.")
	}
	fmt.Printf("Rounds: %d  Turns: %d  Actions: %d\n\n",
		report.TotalRounds, report.TotalTurns, report.CommandsExecuted)

	fmt.Printf("%-20s %-10s %-6s %-10s %s\n", "NAME", "CLASS", "TEAM", "HEALTH", "STATUS")
	for _, c := range report.Combatants {
		status := "DEFEATED"
		if c.Alive {
			status = "ALIVE"
		}
		fmt.Printf("%-20s %-10s %-6d %-10d %s\n", c.Name, c.Class, c.Team, c.FinalHealth, status)
	}
}

func banner(title string) string {
	return fmt.Sprintf("==== %s %s", title, strings.Repeat("=", max(0, 50-len(title))))
}

// newCLILogger keeps engine logs out of the battle display unless -v is set.
func newCLILogger(verbose bool) *zap.Logger {
	level := zapcore.ErrorLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, err := zapCfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
