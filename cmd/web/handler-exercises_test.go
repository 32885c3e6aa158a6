package main

import (
	"net/http"
	"testing"

	"github.com/trainew/trainew/internal/catalog"
	"github.com/trainew/trainew/internal/e2etest"
	"github.com/trainew/trainew/internal/testhelpers"
)

func Test_application_exercises(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client := server.Client()

	t.Run("catalog listing", func(t *testing.T) {
		resp, err := client.Get(ctx, "/api/exercises")
		if err != nil {
			t.Fatalf("Failed to list exercises: %v", err)
		}
		var exercises []catalog.Exercise
		if err = e2etest.DecodeJSON(resp, &exercises); err != nil {
			t.Fatal(err)
		}
		if len(exercises) == 0 {
			t.Fatal("expected a seeded catalog")
		}
	})

	t.Run("find by Portuguese name", func(t *testing.T) {
		resp, err := client.Get(ctx, "/api/exercises/supino%20reto")
		if err != nil {
			t.Fatalf("Failed to find exercise: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		var exercise catalog.Exercise
		if err = e2etest.DecodeJSON(resp, &exercise); err != nil {
			t.Fatal(err)
		}
		if exercise.Name != "barbell bench press" {
			t.Errorf("name = %s, want barbell bench press", exercise.Name)
		}
	})

	t.Run("unknown name is 404", func(t *testing.T) {
		resp, err := client.Get(ctx, "/api/exercises/xilofone")
		if err != nil {
			t.Fatalf("Failed to request exercise: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
		}
	})

	t.Run("cardio browser", func(t *testing.T) {
		resp, err := client.Get(ctx, "/api/cardio")
		if err != nil {
			t.Fatalf("Failed to list cardio: %v", err)
		}
		var exercises []catalog.Exercise
		if err = e2etest.DecodeJSON(resp, &exercises); err != nil {
			t.Fatal(err)
		}
		if len(exercises) == 0 {
			t.Fatal("expected cardio exercises")
		}
		for _, exercise := range exercises {
			found := false
			for _, bodyPart := range exercise.BodyParts {
				if bodyPart == "Cardio" {
					found = true
				}
			}
			if !found {
				t.Errorf("exercise %s is not cardio", exercise.Name)
			}
		}
	})
}

func Test_application_session(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client := server.Client()

	t.Run("login normalizes the email", func(t *testing.T) {
		resp, err := client.PostJSON(ctx, "/api/login", map[string]string{"email": "  Ana@Example.com "})
		if err != nil {
			t.Fatalf("Failed to login: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		var body map[string]string
		if err = e2etest.DecodeJSON(resp, &body); err != nil {
			t.Fatal(err)
		}
		if body["email"] != "ana@example.com" {
			t.Errorf("email = %s, want ana@example.com", body["email"])
		}
	})

	t.Run("invalid email is rejected", func(t *testing.T) {
		resp, err := client.PostJSON(ctx, "/api/login", map[string]string{"email": "not-an-email"})
		if err != nil {
			t.Fatalf("Failed to post login: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})

	t.Run("logout", func(t *testing.T) {
		if err := client.Logout(ctx); err != nil {
			t.Fatalf("Failed to logout: %v", err)
		}
	})
}
