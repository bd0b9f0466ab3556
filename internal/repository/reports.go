package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/arenaforge/arena-server-go/internal/combat"
)

// ReportRepository stores game-over reports.
type ReportRepository struct {
	db *DB
}

// NewReportRepository creates a repository over the given database.
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// SaveReport persists a finished battle's report.
func (r *ReportRepository) SaveReport(ctx context.Context, report *combat.Report) error {
	combatants, err := json.Marshal(report.Combatants)
	if err != nil {
		return fmt.Errorf("failed to encode combatants: %w", err)
	}

	_, err = r.db.pool.Exec(ctx,
		`INSERT INTO battle_reports
			(battle_id, winning_team, total_turns, total_rounds, commands_executed, combatants)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (battle_id) DO NOTHING`,
		report.BattleID,
		report.WinningTeam,
		report.TotalTurns,
		report.TotalRounds,
		report.CommandsExecuted,
		combatants,
	)
	if err != nil {
		return fmt.Errorf("failed to insert battle report: %w", err)
	}
	return nil
}

// GetReport loads a previously saved report by battle ID.
func (r *ReportRepository) GetReport(ctx context.Context, battleID string) (*combat.Report, error) {
	var (
		report     combat.Report
		combatants []byte
	)

	row := r.db.pool.QueryRow(ctx,
		`SELECT battle_id, winning_team, total_turns, total_rounds, commands_executed, combatants
		 FROM battle_reports WHERE battle_id = $1`,
		battleID,
	)
	if err := row.Scan(
		&report.BattleID,
		&report.WinningTeam,
		&report.TotalTurns,
		&report.TotalRounds,
		&report.CommandsExecuted,
		&combatants,
	); err != nil {
		return nil, fmt.Errorf("failed to load battle report %s: %w", battleID, err)
	}

	if err := json.Unmarshal(combatants, &report.Combatants); err != nil {
		return nil, fmt.Errorf("failed to decode combatants: %w", err)
	}
	return &report, nil
}
