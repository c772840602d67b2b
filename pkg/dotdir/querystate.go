package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const queryStateFile = "lastquery.json"

// QueryState remembers the knowledge-base selection of the most recent query
// so "prepdeck kb query --last" can reuse it without flags.
type QueryState struct {
	// KnowledgeBaseIDs are the knowledge bases the last query ran against.
	KnowledgeBaseIDs []int64 `json:"knowledgeBaseIds"`

	// Question is the last question asked.
	Question string `json:"question"`

	// AskedAt is when the query was made.
	AskedAt time.Time `json:"askedAt"`
}

// LoadQueryState loads the last-query state from .prepdeck/lastquery.json.
// Returns nil, nil if no state exists.
// If overrideDir is non-empty, it is used instead of the default location.
func (m *Manager) LoadQueryState(overrideDir string) (*QueryState, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, queryStateFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading query state: %w", err)
	}

	state := &QueryState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing query state: %w", err)
	}

	return state, nil
}

// SaveQueryState persists the last-query state to .prepdeck/lastquery.json.
func (m *Manager) SaveQueryState(state *QueryState, overrideDir string) error {
	if state == nil {
		return errors.New("cannot save nil query state")
	}

	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling query state: %w", err)
	}

	path := filepath.Join(dir, queryStateFile)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing query state: %w", err)
	}

	return nil
}

// ClearQueryState removes the last-query state file.
// Returns nil if the file doesn't exist (already cleared).
func (m *Manager) ClearQueryState(overrideDir string) error {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, queryStateFile)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing query state: %w", err)
	}

	return nil
}
