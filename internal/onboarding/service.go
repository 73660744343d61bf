// Package onboarding tracks the first-run wizard. Step completion is
// derived from data the user has already created, so abandoning the
// wizard and entering records directly still moves it forward.
package onboarding

import (
	"context"
)

// Step keys, in wizard order.
const (
	StepProfile      = "profile"
	StepFirstDriver  = "firstDriver"
	StepFirstVehicle = "firstVehicle"
	StepPlatforms    = "platforms"
	StepFirstRevenue = "firstRevenue"
)

var stepOrder = []string{StepProfile, StepFirstDriver, StepFirstVehicle, StepPlatforms, StepFirstRevenue}

// StepStatus is one wizard step and whether its data exists.
type StepStatus struct {
	Key  string `json:"key"`
	Done bool   `json:"done"`
}

// Status is the full wizard state for a user.
type Status struct {
	Steps       []StepStatus `json:"steps"`
	CurrentStep string       `json:"currentStep,omitempty"`
	Completed   bool         `json:"completed"`
}

// Store reads the signals each step is derived from and persists the
// explicit completion flag.
type Store interface {
	Signals(ctx context.Context, userID int64) (Signals, error)
	MarkCompleted(ctx context.Context, userID int64) error
}

// Signals are the per-user facts the wizard derives its state from.
type Signals struct {
	HasName      bool
	DriverCount  int
	VehicleCount int
	PlatformCnt  int
	RevenueCount int
	Completed    bool
}

// Service computes wizard state.
type Service struct {
	store Store
}

// NewService constructs the onboarding service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Status derives the wizard state from existing data.
func (s *Service) Status(ctx context.Context, userID int64) (Status, error) {
	signals, err := s.store.Signals(ctx, userID)
	if err != nil {
		return Status{}, err
	}
	return buildStatus(signals), nil
}

// Advance re-derives the state and, once every step is satisfied,
// persists the completion flag. It never skips unmet steps.
func (s *Service) Advance(ctx context.Context, userID int64) (Status, error) {
	signals, err := s.store.Signals(ctx, userID)
	if err != nil {
		return Status{}, err
	}
	status := buildStatus(signals)
	if !status.Completed && status.CurrentStep == "" {
		if err := s.store.MarkCompleted(ctx, userID); err != nil {
			return Status{}, err
		}
		status.Completed = true
	}
	return status, nil
}

// Complete marks the wizard finished regardless of remaining steps.
func (s *Service) Complete(ctx context.Context, userID int64) (Status, error) {
	if err := s.store.MarkCompleted(ctx, userID); err != nil {
		return Status{}, err
	}
	signals, err := s.store.Signals(ctx, userID)
	if err != nil {
		return Status{}, err
	}
	signals.Completed = true
	return buildStatus(signals), nil
}

func buildStatus(signals Signals) Status {
	done := map[string]bool{
		StepProfile:      signals.HasName,
		StepFirstDriver:  signals.DriverCount > 0,
		StepFirstVehicle: signals.VehicleCount > 0,
		StepPlatforms:    signals.PlatformCnt > 0,
		StepFirstRevenue: signals.RevenueCount > 0,
	}
	status := Status{Completed: signals.Completed}
	for _, key := range stepOrder {
		status.Steps = append(status.Steps, StepStatus{Key: key, Done: done[key]})
		if status.CurrentStep == "" && !done[key] {
			status.CurrentStep = key
		}
	}
	if status.Completed {
		status.CurrentStep = ""
	}
	return status
}
