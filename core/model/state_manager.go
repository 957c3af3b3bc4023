// Package model holds the estimator interfaces of scitree and the fitted
// state each estimator keeps.
package model

import (
	"sync"

	"github.com/YuminosukeSato/scitree/pkg/errors"
)

// StateManager records whether an estimator has been fitted and the shape
// of the table it was fitted on. Estimators hold one by composition.
type StateManager struct {
	mu        sync.RWMutex
	fitted    bool
	nFeatures int
	nSamples  int
}

func NewStateManager() *StateManager {
	return &StateManager{}
}

func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitted
}

// MarkFitted flips the state to fitted and records the training shape in
// one step, so readers never see a fitted state without dimensions.
func (s *StateManager) MarkFitted(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted, s.nFeatures, s.nSamples = true, nFeatures, nSamples
}

// Reset forgets a previous fit. Fit calls it first so that a failed refit
// leaves the estimator unfitted.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted, s.nFeatures, s.nSamples = false, 0, 0
}

// Dimensions returns the column and row counts passed to MarkFitted.
func (s *StateManager) Dimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFeatures, s.nSamples
}

// RequireFitted returns a NotFittedError for modelName.method before the
// first successful fit.
func (s *StateManager) RequireFitted(modelName, method string) error {
	if s.IsFitted() {
		return nil
	}
	return errors.NewNotFittedError(modelName, method)
}
