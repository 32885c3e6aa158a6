// Package chat enriches assistant replies with local fitness knowledge: it
// classifies message intent and composes exercise guides, nutrition notes,
// video links and generated workout plans around the backend reply.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/trainew/trainew/internal/ai"
	"github.com/trainew/trainew/internal/catalog"
	"github.com/trainew/trainew/internal/errors"
	"github.com/trainew/trainew/internal/plan"
	"github.com/trainew/trainew/internal/ptr"
	"github.com/yuin/goldmark"
)

// CatalogSource supplies the exercise pool for plan generation.
type CatalogSource interface {
	List(ctx context.Context) ([]catalog.Exercise, error)
}

// Response is the outcome of processing one chat message.
type Response struct {
	// Reply is the HTML shown in the chat window.
	Reply string `json:"reply"`
	// Plan is set when a workout plan was generated locally; the client can
	// offer to save it.
	Plan *plan.Plan `json:"plan,omitempty"`
	// BackendPlan is set when the assistant reply itself contained a plan.
	BackendPlan *ai.PlanPayload `json:"backendPlan,omitempty"`
}

// Service processes chat messages.
type Service struct {
	ai       ai.Client
	catalog  CatalogSource
	kb       *knowledgeBase
	markdown goldmark.Markdown
	logger   *slog.Logger
}

// NewService loads the knowledge bases and returns a chat service.
func NewService(aiClient ai.Client, catalogSource CatalogSource, logger *slog.Logger) (*Service, error) {
	kb, err := loadKnowledge()
	if err != nil {
		return nil, fmt.Errorf("load chat knowledge: %w", err)
	}
	return &Service{
		ai:       aiClient,
		catalog:  catalogSource,
		kb:       kb,
		markdown: goldmark.New(),
		logger:   logger,
	}, nil
}

// backendUnavailableReply stands in for the assistant text when the backend
// cannot be reached. Local enrichment still composes around it.
const backendUnavailableReply = "Erro ao acessar a IA. Tente novamente mais tarde."

// ProcessMessage classifies the message and builds the enriched reply. A plan
// request is answered locally without consulting the backend; every other
// branch decorates the backend reply. When the backend is unreachable the
// apology takes the place of the assistant text and the local knowledge
// branches still run.
func (s *Service) ProcessMessage(ctx context.Context, message string, history []ai.Message) (Response, error) {
	intent := s.kb.classify(message)

	if intent.GeneratePlan {
		return s.generatePlanResponse(ctx, message), nil
	}

	reply, err := s.ai.Send(ctx, message, history)
	backendDown := err != nil
	if backendDown {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "conversational backend unavailable",
			errors.SlogError(err))
		reply = backendUnavailableReply
	}

	response := Response{Reply: reply}

	// The assistant embeds a JSON plan in its reply once it has gathered
	// enough information; pull it out so the client can persist it.
	if !backendDown && strings.Contains(reply, `"type"`) && strings.Contains(reply, `"data"`) {
		payload, extractErr := s.ai.ExtractPlan(ctx, reply)
		if extractErr != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "extract backend plan",
				errors.SlogError(extractErr))
		} else {
			response.BackendPlan = &payload
		}
	}

	switch {
	case intent.Exercise != nil && intent.VideoHelp:
		response.Reply = s.renderExerciseHelp(*intent.Exercise) + reply
	case intent.Exercise != nil && intent.Workout:
		response.Reply = reply + s.renderExerciseSummary(*intent.Exercise)
	case intent.Workout && intent.VideoHelp:
		response.Reply = reply + videoTipHTML
	case intent.Nutrition:
		if topic := s.kb.findNutrition(strings.ToLower(message)); topic != nil {
			response.Reply = reply + s.renderNutrition(*topic)
		}
	}

	return response, nil
}

// generatePlanResponse builds a plan from preferences found in the message.
// Generation failures degrade to a guidance reply instead of an error.
func (s *Service) generatePlanResponse(ctx context.Context, message string) Response {
	prefs := plan.PreferencesFromMessage(message)

	pool, err := s.catalog.List(ctx)
	if err == nil {
		var generated plan.Plan
		if generated, err = plan.Generate(prefs, pool); err == nil {
			return Response{
				Reply: s.renderPlan(generated),
				Plan:  ptr.Ref(generated),
			}
		}
	}

	s.logger.LogAttrs(ctx, slog.LevelError, "generate workout plan", errors.SlogError(err))
	return Response{Reply: planFailureHTML}
}
