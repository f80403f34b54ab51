// # internal/engine/store.go
//
// Package engine runs the analysis pipeline: an ordered set of
// analyzers reading from and writing to a shared store of typed result
// slots. Each slot is either not run yet, failed with a reason, or
// holds a value, so downstream analyzers can gate on what actually
// succeeded instead of guessing.
package engine

import (
	"fmt"
	"sync"

	"strata/internal/architecture"
	"strata/internal/graph"
	"strata/internal/scan"
)

// SlotState is the lifecycle of one analysis result.
type SlotState int

const (
	SlotNotRun SlotState = iota
	SlotError
	SlotValue
)

func (s SlotState) String() string {
	switch s {
	case SlotError:
		return "error"
	case SlotValue:
		return "value"
	default:
		return "not-run"
	}
}

// Slot holds one analysis result with its state.
type Slot[T any] struct {
	mu         sync.RWMutex
	state      SlotState
	value      T
	reason     string
	producedBy string
}

// Set stores a successful result.
func (s *Slot[T]) Set(value T, producedBy string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SlotValue
	s.value = value
	s.producedBy = producedBy
}

// SetError marks the slot failed without a value.
func (s *Slot[T]) SetError(reason, producedBy string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SlotError
	s.reason = reason
	s.producedBy = producedBy
}

// Get returns the value and whether one is present.
func (s *Slot[T]) Get() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.state == SlotValue
}

func (s *Slot[T]) State() SlotState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ErrorReason returns the failure reason for SlotError slots.
func (s *Slot[T]) ErrorReason() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reason
}

// Store is the blackboard the analyzers share. One slot per capability.
type Store struct {
	Files        []scan.SourceFile
	Structural   Slot[*graph.DependencyGraph]
	Metrics      Slot[*graph.Analysis]
	Architecture Slot[*architecture.Architecture]
}

// capability names analyzers require and provide.
const (
	CapStructural   = "structural"
	CapMetrics      = "metrics"
	CapArchitecture = "architecture"
)

// available reports whether a named capability has a value.
func (s *Store) available(capability string) bool {
	switch capability {
	case CapStructural:
		return s.Structural.State() == SlotValue
	case CapMetrics:
		return s.Metrics.State() == SlotValue
	case CapArchitecture:
		return s.Architecture.State() == SlotValue
	default:
		return false
	}
}

// slotStates summarizes every slot for the report.
func (s *Store) slotStates() map[string]string {
	return map[string]string{
		CapStructural:   s.Structural.State().String(),
		CapMetrics:      s.Metrics.State().String(),
		CapArchitecture: s.Architecture.State().String(),
	}
}

// validCapability guards analyzer declarations at registration time.
func validCapability(name string) error {
	switch name {
	case CapStructural, CapMetrics, CapArchitecture:
		return nil
	}
	return fmt.Errorf("unknown capability %q", name)
}
