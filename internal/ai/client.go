// Package ai talks to the conversational backend that powers the TrainewIA
// assistant.
package ai

import (
	"context"

	"github.com/trainew/trainew/internal/errors"
)

// Message is one prior conversation turn as the frontend records it.
type Message struct {
	Sender string `json:"sender"` // "user" or "ia"
	Text   string `json:"text"`
}

// PlanRow is one row of a plan the assistant produced in its reply. Exercise
// is set for workout plans, Meal for diet plans.
type PlanRow struct {
	Day         string `json:"dia"`
	Exercise    string `json:"exercicio,omitempty"`
	Meal        string `json:"refeicao,omitempty"`
	Description string `json:"descricao"`
}

// PlanPayload is the JSON plan embedded in assistant replies.
type PlanPayload struct {
	Type string    `json:"type"` // "treino" or "dieta"
	Data []PlanRow `json:"data"`
}

// Client produces conversational replies and extracts structured plans from
// them.
type Client interface {
	// Send returns the assistant reply for a message given the prior turns.
	Send(ctx context.Context, message string, history []Message) (string, error)
	// ExtractPlan pulls the structured plan out of an assistant reply that
	// contains one.
	ExtractPlan(ctx context.Context, reply string) (PlanPayload, error)
}

// ErrDisabled is returned when no backend is configured.
var ErrDisabled = errors.NewSentinel("conversational backend disabled")

// Disabled stands in when no API key is configured. Every call fails, which
// the chat layer maps to its apology reply.
type Disabled struct{}

func (Disabled) Send(context.Context, string, []Message) (string, error) {
	return "", ErrDisabled
}

func (Disabled) ExtractPlan(context.Context, string) (PlanPayload, error) {
	return PlanPayload{}, ErrDisabled
}
