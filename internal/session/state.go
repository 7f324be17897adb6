// Package session decides what the shell presents for the stored connection profile
// and coordinates password auto-fill on the endpoint's login page.
package session

import (
	"net/url"
)

// State is what the shell is currently presenting.
type State int

const (
	// StateIdle shows nothing.
	StateIdle State = iota
	// StateProfilePrompt asks the user for an endpoint.
	StateProfilePrompt
	// StateLoaded shows the endpoint's content.
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProfilePrompt:
		return "profile-prompt"
	case StateLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Decision is the outcome of evaluating the profile on activation.
type Decision struct {
	State    State
	Endpoint *url.URL // set only for StateLoaded
}

// EndpointReader is the part of the profile store a decision depends on.
type EndpointReader interface {
	HasEndpoint() bool
	Endpoint() (*url.URL, bool)
}

// Decide picks the state for the current profile. stop is set when the evaluation
// follows the user clearing or resubmitting their profile.
func Decide(store EndpointReader, stop bool) Decision {
	if store.HasEndpoint() {
		if u, ok := store.Endpoint(); ok {
			return Decision{State: StateLoaded, Endpoint: u}
		}
	}
	if stop {
		return Decision{State: StateIdle}
	}
	return Decision{State: StateProfilePrompt}
}
