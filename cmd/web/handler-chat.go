package main

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/trainew/trainew/internal/ai"
	"github.com/trainew/trainew/internal/chat"
	"github.com/trainew/trainew/internal/contexthelpers"
	"github.com/trainew/trainew/internal/errors"
	"github.com/trainew/trainew/internal/plan"
)

type chatRequest struct {
	Message string       `json:"message"`
	History []ai.Message `json:"history"`
}

type chatResponse struct {
	Reply string     `json:"reply"`
	Plan  *plan.Plan `json:"plan,omitempty"`
}

// chatPOST handles an assistant conversation turn.
func (app *application) chatPOST(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := app.readJSON(r, &req); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		app.clientError(w, r, http.StatusBadRequest, "message is required")
		return
	}

	ctx := r.Context()
	response, err := app.chatService.ProcessMessage(ctx, req.Message, req.History)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	// Plans the backend embedded in its reply are persisted right away, like a
	// generated plan the user accepts.
	if response.BackendPlan != nil {
		userID := contexthelpers.UserID(ctx)
		if err = app.workoutService.SaveBackendPlan(ctx, userID, *response.BackendPlan); err != nil {
			app.logger.LogAttrs(ctx, slog.LevelError, "save backend plan", errors.SlogError(err))
		}
	}

	app.writeJSON(w, r, http.StatusOK, chatResponse{Reply: response.Reply, Plan: response.Plan})
}

// planEditPOST answers the plan editing chat locally with phrasing guidance.
func (app *application) planEditPOST(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := app.readJSON(r, &req); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		app.clientError(w, r, http.StatusBadRequest, "message is required")
		return
	}
	app.writeJSON(w, r, http.StatusOK, chatResponse{Reply: chat.PlanEditReply(req.Message)})
}

// planSavePOST persists a generated plan the user accepted.
func (app *application) planSavePOST(w http.ResponseWriter, r *http.Request) {
	var p plan.Plan
	if err := app.readJSON(r, &p); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(p.Workouts) == 0 {
		app.clientError(w, r, http.StatusBadRequest, "plan has no workouts")
		return
	}

	ctx := r.Context()
	if err := app.workoutService.SavePlan(ctx, contexthelpers.UserID(ctx), p); err != nil {
		app.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// planGET returns the user's current plan.
func (app *application) planGET(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	record, err := app.workoutService.CurrentPlan(ctx, contexthelpers.UserID(ctx))
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, record)
}
