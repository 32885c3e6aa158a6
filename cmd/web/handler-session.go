package main

import (
	"net/http"
	"strings"
)

type loginRequest struct {
	Email string `json:"email"`
}

// loginPOST attaches an email identity to the session. There is no password;
// the email only namespaces the user's records.
func (app *application) loginPOST(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := app.readJSON(r, &req); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		app.clientError(w, r, http.StatusBadRequest, "valid email is required")
		return
	}

	ctx := r.Context()
	if err := app.sessionManager.RenewToken(ctx); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.sessionManager.Put(ctx, sessionKeyEmail, email)
	app.writeJSON(w, r, http.StatusOK, map[string]string{"email": email})
}

// logoutPOST drops the session identity, falling back to the guest scope.
func (app *application) logoutPOST(w http.ResponseWriter, r *http.Request) {
	if err := app.sessionManager.Destroy(r.Context()); err != nil {
		app.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
