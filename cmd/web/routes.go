package main

import (
	"fmt"
	"net/http"
)

func (app *application) routes() (*http.ServeMux, error) {
	mux := http.NewServeMux()

	var (
		noAuth = func(next http.Handler) http.Handler {
			return app.recoverPanic(app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
				commonContext(app.timeout(next))))))
		}
		session = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(app.sessionManager.LoadAndSave(
				app.authenticate(app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
					commonContext(app.timeout(next)))))))))
		}
		// The chat route waits on the conversational backend.
		slowSession = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(app.sessionManager.LoadAndSave(
				app.authenticate(app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
					commonContext(app.slowTimeout(next)))))))))
		}
	)

	mux.Handle("POST /api/chat", slowSession(http.HandlerFunc(app.chatPOST)))
	mux.Handle("POST /api/chat/plan/edit", session(http.HandlerFunc(app.planEditPOST)))
	mux.Handle("POST /api/chat/plan/save", session(http.HandlerFunc(app.planSavePOST)))
	mux.Handle("GET /api/plan", session(http.HandlerFunc(app.planGET)))

	mux.Handle("GET /api/workout", session(http.HandlerFunc(app.workoutStateGET)))
	mux.Handle("POST /api/workout/days/{day}", session(http.HandlerFunc(app.workoutSelectDayPOST)))
	mux.Handle("POST /api/workout/exercises/{index}/start", session(http.HandlerFunc(app.workoutStartPOST)))
	mux.Handle("POST /api/workout/exercises/{index}/toggle", session(http.HandlerFunc(app.workoutTogglePOST)))
	mux.Handle("POST /api/workout/set/complete", session(http.HandlerFunc(app.workoutCompleteSetPOST)))
	mux.Handle("POST /api/workout/set/{n}", session(http.HandlerFunc(app.workoutGoToSetPOST)))
	mux.Handle("POST /api/workout/rest/skip", session(http.HandlerFunc(app.workoutSkipRestPOST)))
	mux.Handle("POST /api/workout/next", session(http.HandlerFunc(app.workoutNextPOST)))
	mux.Handle("POST /api/workout/previous", session(http.HandlerFunc(app.workoutPreviousPOST)))
	mux.Handle("POST /api/workout/back", session(http.HandlerFunc(app.workoutBackPOST)))
	mux.Handle("POST /api/workout/exit", session(http.HandlerFunc(app.workoutExitPOST)))
	mux.Handle("GET /api/workout/load/{index}", session(http.HandlerFunc(app.workoutLoadGET)))
	mux.Handle("PUT /api/workout/load/{index}", session(http.HandlerFunc(app.workoutLoadPUT)))
	mux.Handle("GET /api/workout/history", session(http.HandlerFunc(app.workoutHistoryGET)))
	mux.Handle("GET /api/diet", session(http.HandlerFunc(app.dietGET)))

	mux.Handle("GET /api/exercises", session(http.HandlerFunc(app.exercisesGET)))
	mux.Handle("GET /api/exercises/{name}", session(http.HandlerFunc(app.exerciseGET)))
	mux.Handle("GET /api/cardio", session(http.HandlerFunc(app.cardioGET)))

	mux.Handle("POST /api/login", session(http.HandlerFunc(app.loginPOST)))
	mux.Handle("POST /api/logout", session(http.HandlerFunc(app.logoutPOST)))
	mux.Handle("GET /api/healthy", session(http.HandlerFunc(app.healthy)))
	mux.Handle("GET /api/test/timeout", noAuth(http.HandlerFunc(app.testTimeout)))

	// File server for the browser UI.
	fileServerHandler, err := app.fileServerHandler()
	if err != nil {
		return nil, fmt.Errorf("fileServerHandler: %w", err)
	}
	mux.Handle("/", fileServerHandler)

	return mux, nil
}
