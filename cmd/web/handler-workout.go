package main

import (
	"net/http"
	"strconv"

	"github.com/trainew/trainew/internal/ai"
	"github.com/trainew/trainew/internal/contexthelpers"
	"github.com/trainew/trainew/internal/workout"
)

// engine resolves the workout session engine for the current user.
func (app *application) engine(r *http.Request) *workout.Engine {
	return app.workoutService.Engine(contexthelpers.UserID(r.Context()))
}

// writeState responds with the engine's current state.
func (app *application) writeState(w http.ResponseWriter, r *http.Request, engine *workout.Engine) {
	state, err := engine.Snapshot(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, state)
}

// parseIndexParam parses the "index" path parameter from the request URL.
func (app *application) parseIndexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.NotFound(w, r)
		return 0, false
	}
	return index, true
}

func (app *application) workoutStateGET(w http.ResponseWriter, r *http.Request) {
	app.writeState(w, r, app.engine(r))
}

func (app *application) workoutSelectDayPOST(w http.ResponseWriter, r *http.Request) {
	engine := app.engine(r)
	if err := engine.SelectDay(r.Context(), r.PathValue("day")); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeState(w, r, engine)
}

func (app *application) workoutStartPOST(w http.ResponseWriter, r *http.Request) {
	index, ok := app.parseIndexParam(w, r)
	if !ok {
		return
	}
	engine := app.engine(r)
	engine.StartExecution(index)
	app.writeState(w, r, engine)
}

func (app *application) workoutTogglePOST(w http.ResponseWriter, r *http.Request) {
	index, ok := app.parseIndexParam(w, r)
	if !ok {
		return
	}
	engine := app.engine(r)
	if err := engine.ToggleExerciseComplete(r.Context(), index); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeState(w, r, engine)
}

func (app *application) workoutCompleteSetPOST(w http.ResponseWriter, r *http.Request) {
	engine := app.engine(r)
	if err := engine.CompleteSet(r.Context()); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeState(w, r, engine)
}

func (app *application) workoutGoToSetPOST(w http.ResponseWriter, r *http.Request) {
	set, err := strconv.Atoi(r.PathValue("n"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	engine := app.engine(r)
	if err = engine.GoToSet(r.Context(), set); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeState(w, r, engine)
}

func (app *application) workoutSkipRestPOST(w http.ResponseWriter, r *http.Request) {
	engine := app.engine(r)
	engine.SkipRest()
	app.writeState(w, r, engine)
}

func (app *application) workoutNextPOST(w http.ResponseWriter, r *http.Request) {
	engine := app.engine(r)
	engine.NextExercise()
	app.writeState(w, r, engine)
}

func (app *application) workoutPreviousPOST(w http.ResponseWriter, r *http.Request) {
	engine := app.engine(r)
	engine.PreviousExercise()
	app.writeState(w, r, engine)
}

func (app *application) workoutBackPOST(w http.ResponseWriter, r *http.Request) {
	engine := app.engine(r)
	engine.BackToList()
	app.writeState(w, r, engine)
}

func (app *application) workoutExitPOST(w http.ResponseWriter, r *http.Request) {
	engine := app.engine(r)
	engine.BackToDays()
	app.writeState(w, r, engine)
}

type loadRequest struct {
	Load string `json:"carga"`
}

func (app *application) workoutLoadGET(w http.ResponseWriter, r *http.Request) {
	index, ok := app.parseIndexParam(w, r)
	if !ok {
		return
	}
	state, err := app.engine(r).Snapshot(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if index < 0 || index >= len(state.Exercises) {
		app.clientError(w, r, http.StatusNotFound, "no exercise at index")
		return
	}
	app.writeJSON(w, r, http.StatusOK, loadRequest{Load: state.Exercises[index].Load})
}

func (app *application) workoutLoadPUT(w http.ResponseWriter, r *http.Request) {
	index, ok := app.parseIndexParam(w, r)
	if !ok {
		return
	}
	var req loadRequest
	if err := app.readJSON(r, &req); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	engine := app.engine(r)
	if err := engine.SetLoad(r.Context(), index, req.Load); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeState(w, r, engine)
}

func (app *application) dietGET(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rows, err := app.workoutService.Diet(ctx, contexthelpers.UserID(ctx))
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if rows == nil {
		rows = []ai.PlanRow{}
	}
	app.writeJSON(w, r, http.StatusOK, rows)
}

func (app *application) workoutHistoryGET(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	history, err := app.workoutService.History(ctx, contexthelpers.UserID(ctx))
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if history == nil {
		history = []workout.HistoryEntry{}
	}
	app.writeJSON(w, r, http.StatusOK, history)
}
