package main

import (
	"net/http"

	"github.com/trainew/trainew/internal/catalog"
	"github.com/trainew/trainew/internal/errors"
)

// exercisesGET lists the whole exercise catalog.
func (app *application) exercisesGET(w http.ResponseWriter, r *http.Request) {
	exercises, err := app.catalogService.List(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, exercises)
}

// exerciseGET finds one exercise by a Portuguese or English name.
func (app *application) exerciseGET(w http.ResponseWriter, r *http.Request) {
	exercise, err := app.catalogService.FindByName(r.PathValue("name"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			app.clientError(w, r, http.StatusNotFound, "exercise not found")
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, exercise)
}

// cardioGET lists the cardio exercises for the cardio browser.
func (app *application) cardioGET(w http.ResponseWriter, r *http.Request) {
	exercises, err := app.catalogService.ListByBodyPart(r.Context(), "Cardio")
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, exercises)
}
