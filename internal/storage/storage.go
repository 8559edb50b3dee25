package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/eugenenazirov/boxpack/internal/scenario"
)

var (
	// ErrInvalidScenario indicates the provided scenario violates validation rules.
	ErrInvalidScenario = errors.New("scenario must have a positive box and positive item extents")
)

// Storage provides access to the scenario packed by default.
type Storage interface {
	GetScenario() (scenario.Scenario, error)
	SetScenario(s scenario.Scenario) error
}

// MemoryStorage keeps the scenario in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu       sync.RWMutex
	scenario scenario.Scenario
}

// NewMemoryStorage initialises storage with the default sample scenario.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		scenario: scenario.Default(),
	}
}

// GetScenario returns a defensive copy of the stored scenario.
func (s *MemoryStorage) GetScenario() (scenario.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.scenario.Clone(), nil
}

// SetScenario validates and stores a copy of the provided scenario.
func (s *MemoryStorage) SetScenario(sc scenario.Scenario) error {
	if err := sc.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	s.mu.Lock()
	s.scenario = sc.Clone()
	s.mu.Unlock()

	return nil
}
