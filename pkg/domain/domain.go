// Package domain holds the console's current domain (tenant) information.
package domain

import (
	"maps"
	"sync/atomic"
)

// State is the domain information known to the console.
type State struct {
	DomainID         string         `json:"domainId"`
	Name             string         `json:"name"`
	AuthType         string         `json:"authType"`
	AuthSystem       string         `json:"authSystem"`
	AuthOptions      map[string]any `json:"authOptions,omitempty"`
	ExtendedAuthType string         `json:"extendedAuthType"`

	// Billing and branding data fetched separately. SetDomain leaves it alone.
	Extra map[string]any `json:"extra,omitempty"`
}

// SetDomain overwrites the domain fields of current with those of info.
// Fields outside the domain information are left untouched.
func SetDomain(current *State, info State) {
	current.DomainID = info.DomainID
	current.Name = info.Name
	current.AuthType = info.AuthType
	current.AuthSystem = info.AuthSystem
	current.AuthOptions = info.AuthOptions
	current.ExtendedAuthType = info.ExtendedAuthType
}

// Store publishes the current State. Updates build a new State and swap it
// in, so a reader sees either the old or the new domain, never a mix.
type Store struct {
	state atomic.Pointer[State]
}

// NewStore creates a store holding an empty state.
func NewStore() *Store {
	s := &Store{}
	s.state.Store(&State{})
	return s
}

// Load returns the current state. Callers must not modify it.
func (s *Store) Load() *State {
	return s.state.Load()
}

// SetDomain applies info to the current state.
func (s *Store) SetDomain(info State) {
	for {
		old := s.state.Load()
		next := *old
		next.Extra = maps.Clone(old.Extra)
		info.AuthOptions = maps.Clone(info.AuthOptions)
		SetDomain(&next, info)
		if s.state.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Update replaces the state with fn applied to a copy of it.
func (s *Store) Update(fn func(*State)) {
	for {
		old := s.state.Load()
		next := *old
		next.AuthOptions = maps.Clone(old.AuthOptions)
		next.Extra = maps.Clone(old.Extra)
		fn(&next)
		if s.state.CompareAndSwap(old, &next) {
			return
		}
	}
}
