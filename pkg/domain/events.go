package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepEnter          EventType = "step_enter"
	EventIntentClassified   EventType = "intent_classified"
	EventCollaboratorCall   EventType = "collaborator_call"
	EventCollaboratorReturn EventType = "collaborator_return"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// StepEvent represents entering a step via a navigation transition.
type StepEvent struct {
	EventBase
	RecipeID  string `json:"recipe_id"`
	StepIndex int    `json:"step_index"`
}

// IntentEvent represents a classified utterance.
type IntentEvent struct {
	EventBase
	Intent Intent `json:"intent"`
}

// CollaboratorEvent represents a call to the answering collaborator.
type CollaboratorEvent struct {
	EventBase
	Intent  Intent        `json:"intent"`
	Elapsed time.Duration `json:"elapsed,omitempty"`
	IsError bool          `json:"is_error,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStepEnter          func(context.Context, *StepEvent)
	OnIntentClassified   func(context.Context, *IntentEvent)
	OnCollaboratorCall   func(context.Context, *CollaboratorEvent)
	OnCollaboratorReturn func(context.Context, *CollaboratorEvent)
}
