package combat

// History is the invoker: it executes actions and keeps the ordered
// record needed for undo. Undo pops permanently; there is no redo.
type History struct {
	executed []Action
}

// NewHistory creates an empty action history.
func NewHistory() *History {
	return &History{
		executed: make([]Action, 0, 16),
	}
}

// Execute runs the action and records it. Execution and recording are
// atomic from the caller's perspective: a failed action is not recorded.
func (h *History) Execute(action Action) error {
	if err := action.Execute(); err != nil {
		return err
	}
	h.executed = append(h.executed, action)
	return nil
}

// UndoLast undoes and removes the most recently executed action. An empty
// history is a safe no-op, not an error.
func (h *History) UndoLast() error {
	if len(h.executed) == 0 {
		return nil
	}
	last := h.executed[len(h.executed)-1]
	if err := last.Undo(); err != nil {
		return err
	}
	h.executed = h.executed[:len(h.executed)-1]
	return nil
}

// Size returns the count of executed-and-not-undone actions.
func (h *History) Size() int {
	return len(h.executed)
}
