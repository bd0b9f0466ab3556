package combat

// TurnState is the immutable round/turn snapshot threaded through the
// scheduler. It is replaced after every turn and every round, never
// mutated in place; strategies only read it.
type TurnState struct {
	RoundNumber   int
	TurnNumber    int
	HistorySize   int
	UndoAvailable bool
}

// InitialState returns the state a battle starts in: round 1, before any
// turn has been taken.
func InitialState() TurnState {
	return TurnState{RoundNumber: 1}
}

// NextTurn returns a copy with the turn counter advanced. The counter is
// monotonic across the whole battle, not per round.
func (s TurnState) NextTurn() TurnState {
	s.TurnNumber++
	return s
}

// NextRound returns a copy with the round counter advanced.
func (s TurnState) NextRound() TurnState {
	s.RoundNumber++
	return s
}

// WithHistory returns a copy carrying the action history size at the time
// of the snapshot.
func (s TurnState) WithHistory(size int) TurnState {
	s.HistorySize = size
	s.UndoAvailable = size > 0
	return s
}
