package services

import (
	"errors"
	"fmt"
)

var (
	// ErrSpinInFlight is returned when a spin is requested while another is animating
	ErrSpinInFlight = errors.New("spin already in progress")
	// ErrNoSpins is returned when no spins remain
	ErrNoSpins = errors.New("no spins available")
	// ErrNotRegistered is returned when an operation needs a registered player
	ErrNotRegistered = errors.New("player not registered")
	// ErrStaleResponse is returned when a response was superseded by a newer request
	ErrStaleResponse = errors.New("stale response discarded")
	// ErrHistoryUnavailable is returned when the tracker keeps no readable history
	ErrHistoryUnavailable = errors.New("event history not available")
)

// ValidationError names the registration field that failed validation
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// EnvironmentError reports a required component that is not available
type EnvironmentError struct {
	Component string
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("%s not initialized", e.Component)
}
