// Package model provides the shared estimator surface of the classify
// library: fitted-state tracking, the classifier interfaces and gob
// persistence helpers.
package model

import "sync"

// StateManager tracks the fitted state of a model. It is held by
// composition rather than embedding so that model structs stay gob-friendly.
// Constructors in this library train inside the constructor call, so the
// state flips to fitted exactly once; the lock exists for concurrent
// readers, not for retraining.
type StateManager struct {
	Fitted bool // exported for gob
	mu     sync.RWMutex

	// Dimensions seen at fit time, exported for gob.
	NFeatures int
	NSamples  int
}

// NewStateManager creates an unfitted StateManager.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted reports whether the model has been fitted.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Fitted
}

// SetFitted marks the model as fitted with the training dimensions.
func (s *StateManager) SetFitted(nSamples, nFeatures int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = true
	s.NSamples = nSamples
	s.NFeatures = nFeatures
}

// Dimensions returns the sample and feature counts seen during fitting.
func (s *StateManager) Dimensions() (nSamples, nFeatures int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.NSamples, s.NFeatures
}
