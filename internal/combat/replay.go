package combat

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Snapshot captures the full observable battle state at one point: the
// round/turn counters and every combatant's stats. Snapshots are exact;
// replay playback never re-derives anything.
type Snapshot struct {
	BattleID    string
	RoundNumber int
	TurnNumber  int
	HistorySize int
	Combatants  []CombatantView
	Timestamp   time.Time
}

// Replay is a recorded battle: sequential snapshots plus a playback
// cursor.
type Replay struct {
	BattleID     string
	States       []*Snapshot
	CurrentIndex int
	mu           sync.RWMutex
}

// NewReplay creates an empty replay for a battle.
func NewReplay(battleID string) *Replay {
	return &Replay{
		BattleID: battleID,
		States:   make([]*Snapshot, 0),
	}
}

// RecordState appends a snapshot.
func (r *Replay) RecordState(snapshot *Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.States = append(r.States, snapshot)
}

// Start resets playback to the beginning.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CurrentIndex = 0
}

// Next advances playback and returns the next snapshot, or nil at the end.
func (r *Replay) Next() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CurrentIndex < len(r.States) {
		state := r.States[r.CurrentIndex]
		r.CurrentIndex++
		return state
	}
	return nil
}

// Previous steps playback backwards and returns that snapshot, or nil at
// the beginning.
func (r *Replay) Previous() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CurrentIndex > 0 {
		r.CurrentIndex--
		return r.States[r.CurrentIndex]
	}
	return nil
}

// Skip moves the cursor by count snapshots, clamped to the recording.
func (r *Replay) Skip(count int) *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	newIndex := r.CurrentIndex + count
	if newIndex >= len(r.States) {
		newIndex = len(r.States) - 1
	}
	if newIndex < 0 {
		newIndex = 0
	}

	r.CurrentIndex = newIndex
	if r.CurrentIndex < len(r.States) {
		return r.States[r.CurrentIndex]
	}
	return nil
}

// Size returns the number of recorded snapshots.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.States)
}

// SaveToFile writes the replay to a gzipped gob file in directory.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", r.BattleID))
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := gob.NewEncoder(gzipWriter)

	metadata := replayMetadata{
		BattleID:   r.BattleID,
		Timestamp:  time.Now(),
		Version:    1,
		StateCount: len(r.States),
	}
	if err := encoder.Encode(&metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	for i, state := range r.States {
		if err := encoder.Encode(state); err != nil {
			return fmt.Errorf("failed to encode state %d: %w", i, err)
		}
	}

	return nil
}

// LoadReplayFromFile reads a replay previously written by SaveToFile.
func LoadReplayFromFile(directory, battleID string) (*Replay, error) {
	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", battleID))

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	decoder := gob.NewDecoder(gzipReader)

	var metadata replayMetadata
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if metadata.Version != 1 {
		return nil, fmt.Errorf("unsupported replay version: %d", metadata.Version)
	}

	replay := NewReplay(metadata.BattleID)
	for i := 0; i < metadata.StateCount; i++ {
		var state Snapshot
		if err := decoder.Decode(&state); err != nil {
			return nil, fmt.Errorf("failed to decode state %d: %w", i, err)
		}
		replay.States = append(replay.States, &state)
	}

	return replay, nil
}

type replayMetadata struct {
	BattleID   string
	Timestamp  time.Time
	Version    int
	StateCount int
}

// ReplayRecorder manages replay recording across battles.
type ReplayRecorder struct {
	logger  *zap.Logger
	mu      sync.RWMutex
	replays map[string]*Replay
	enabled map[string]bool
	saveDir string
}

// NewReplayRecorder creates a recorder that saves replays under saveDir.
func NewReplayRecorder(logger *zap.Logger, saveDir string) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{
		logger:  logger,
		replays: make(map[string]*Replay),
		enabled: make(map[string]bool),
		saveDir: saveDir,
	}
}

// StartRecording begins recording a battle.
func (rr *ReplayRecorder) StartRecording(battleID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.replays[battleID] = NewReplay(battleID)
	rr.enabled[battleID] = true

	rr.logger.Info("started replay recording",
		zap.String("battle_id", battleID),
	)
}

// StopRecording stops recording a battle without discarding it.
func (rr *ReplayRecorder) StopRecording(battleID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.enabled[battleID] = false
}

// RecordState records a snapshot if recording is enabled for the battle.
func (rr *ReplayRecorder) RecordState(battleID string, snapshot *Snapshot) {
	rr.mu.RLock()
	enabled := rr.enabled[battleID]
	replay := rr.replays[battleID]
	rr.mu.RUnlock()

	if !enabled || replay == nil {
		return
	}

	replay.RecordState(snapshot)
}

// GetReplay returns the in-memory replay for a battle.
func (rr *ReplayRecorder) GetReplay(battleID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	replay, exists := rr.replays[battleID]
	return replay, exists
}

// IsRecording reports whether recording is enabled for a battle.
func (rr *ReplayRecorder) IsRecording(battleID string) bool {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	return rr.enabled[battleID]
}

// SaveReplay flushes a replay to disk and drops it from memory.
func (rr *ReplayRecorder) SaveReplay(battleID string) error {
	rr.mu.Lock()
	replay, exists := rr.replays[battleID]
	if !exists {
		rr.mu.Unlock()
		return fmt.Errorf("no replay found for battle %s", battleID)
	}
	delete(rr.replays, battleID)
	delete(rr.enabled, battleID)
	rr.mu.Unlock()

	if err := replay.SaveToFile(rr.saveDir); err != nil {
		return fmt.Errorf("failed to save replay: %w", err)
	}

	rr.logger.Info("saved replay to disk",
		zap.String("battle_id", battleID),
		zap.Int("state_count", replay.Size()),
		zap.String("directory", rr.saveDir),
	)
	return nil
}

// LoadReplay reads a replay back from disk.
func (rr *ReplayRecorder) LoadReplay(battleID string) (*Replay, error) {
	replay, err := LoadReplayFromFile(rr.saveDir, battleID)
	if err != nil {
		return nil, err
	}

	rr.logger.Info("loaded replay from disk",
		zap.String("battle_id", battleID),
		zap.Int("state_count", replay.Size()),
	)
	return replay, nil
}

// ClearReplay drops a replay from memory without saving.
func (rr *ReplayRecorder) ClearReplay(battleID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	delete(rr.replays, battleID)
	delete(rr.enabled, battleID)
}
