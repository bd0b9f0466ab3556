package combat

// Team numbers battles report in terms of.
const (
	Team1 = 1
	Team2 = 2
)

// CombatantReport summarizes one combatant at battle end.
type CombatantReport struct {
	Name        string
	Class       string
	FinalHealth int
	Team        int
	Alive       bool
}

// Report is the game-over report produced once a battle terminates.
type Report struct {
	BattleID         string
	WinningTeam      int
	Combatants       []CombatantReport
	TotalTurns       int
	TotalRounds      int
	CommandsExecuted int
}
