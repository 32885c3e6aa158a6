// Command stresstest drives many concurrent workout sessions against a
// deployed server and fails when the success rate drops too low.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/trainew/trainew/internal/e2etest"
	"github.com/trainew/trainew/internal/logging"
	"github.com/trainew/trainew/internal/plan"
	"github.com/trainew/trainew/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

const (
	smokeTimeout            = 10 * time.Second
	loginTimeout            = 30 * time.Second
	scenarioTimeout         = 30 * time.Second
	maxConcurrentLogins     = 10
	maxConcurrentOperations = 20
	numUsers                = 10
	successRateThreshold    = 95.0
	expectedArgsCount       = 2
	percentageMultiplier    = 100
)

// sessionUser holds a client with a logged-in session.
type sessionUser struct {
	Client *e2etest.Client
	Email  string
}

// workoutState mirrors the parts of the workout snapshot the scenario needs.
type workoutState struct {
	View        string   `json:"view"`
	Days        []string `json:"days"`
	SelectedDay string   `json:"selectedDay"`
	Exercises   []struct {
		Exercise string `json:"exercicio"`
	} `json:"exercises"`
	CurrentSet int  `json:"currentSet"`
	TargetSets int  `json:"targetSets"`
	Resting    bool `json:"resting"`
}

func testSmoke(client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), smokeTimeout)
	defer cancel()

	if err := client.Login(ctx, "stresstest@example.com"); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := client.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// loginUser creates a client with its own session and attaches an identity.
func loginUser(ctx context.Context, serverURL, hostname string, userIndex int, logger *slog.Logger) (*sessionUser, error) {
	client, err := e2etest.NewClient(serverURL, hostname, serverURL)
	if err != nil {
		return nil, fmt.Errorf("creating client for user %d: %w", userIndex, err)
	}

	email := fmt.Sprintf("stress-%d@example.com", userIndex)
	if err = client.Login(ctx, email); err != nil {
		return nil, fmt.Errorf("logging in user %d: %w", userIndex, err)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "User logged in", slog.Int("user_index", userIndex))

	return &sessionUser{Client: client, Email: email}, nil
}

// setupUsers logs in the given number of users concurrently.
func setupUsers(ctx context.Context, serverURL, hostname string, logger *slog.Logger) ([]*sessionUser, error) {
	logger.LogAttrs(ctx, slog.LevelInfo, "Starting user setup", slog.Int("num_users", numUsers))

	var (
		users   = make([]*sessionUser, 0, numUsers)
		usersMu sync.Mutex
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLogins)

	for i := range numUsers {
		g.Go(func() error {
			userCtx, cancel := context.WithTimeout(ctx, loginTimeout)
			defer cancel()

			user, err := loginUser(userCtx, serverURL, hostname, i, logger)
			if err != nil {
				return fmt.Errorf("user %d: %w", i, err)
			}

			usersMu.Lock()
			users = append(users, user)
			usersMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return users, fmt.Errorf("user setup: %w", err)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "All users logged in", slog.Int("total_users", len(users)))

	return users, nil
}

func getState(ctx context.Context, client *e2etest.Client) (workoutState, error) {
	var state workoutState
	resp, err := client.Get(ctx, "/api/workout")
	if err != nil {
		return state, fmt.Errorf("get workout state: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return state, fmt.Errorf("workout state returned status %d", resp.StatusCode)
	}
	if err = e2etest.DecodeJSON(resp, &state); err != nil {
		return state, err
	}
	return state, nil
}

func post(ctx context.Context, client *e2etest.Client, path string, body any) error {
	resp, err := client.PostJSON(ctx, path, body)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("post %s returned status %d", path, resp.StatusCode)
	}
	return nil
}

// generatePlan asks the chat for a plan and saves it for the session.
func generatePlan(ctx context.Context, client *e2etest.Client) error {
	resp, err := client.PostJSON(ctx, "/api/chat", map[string]any{
		"message": "quero um treino para 3 dias na academia",
	})
	if err != nil {
		return fmt.Errorf("post chat: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return fmt.Errorf("chat returned status %d", resp.StatusCode)
	}

	var body struct {
		Reply string     `json:"reply"`
		Plan  *plan.Plan `json:"plan"`
	}
	if err = e2etest.DecodeJSON(resp, &body); err != nil {
		return err
	}
	if body.Plan == nil {
		return errors.New("chat reply did not include a generated plan")
	}

	if err = post(ctx, client, "/api/chat/plan/save", body.Plan); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

// workoutScenario runs a complete session: generate a plan, pick a day,
// complete the sets of the first exercise and record a load.
func workoutScenario(ctx context.Context, user *sessionUser, logger *slog.Logger) error {
	client := user.Client

	if err := generatePlan(ctx, client); err != nil {
		return err
	}

	state, err := getState(ctx, client)
	if err != nil {
		return err
	}
	if len(state.Days) == 0 {
		return errors.New("saved plan has no training days")
	}

	day := state.Days[0]
	if err = post(ctx, client, "/api/workout/days/"+url.PathEscape(day), nil); err != nil {
		return err
	}
	if err = post(ctx, client, "/api/workout/exercises/0/start", nil); err != nil {
		return err
	}

	if state, err = getState(ctx, client); err != nil {
		return err
	}
	if state.View != "execution" {
		return fmt.Errorf("expected execution view, got %q", state.View)
	}

	// Complete every set of the first exercise, skipping rests.
	for set := 1; set <= state.TargetSets; set++ {
		if err = post(ctx, client, "/api/workout/set/complete", nil); err != nil {
			return err
		}
		if err = post(ctx, client, "/api/workout/rest/skip", nil); err != nil {
			return err
		}
	}

	resp, err := client.PutJSON(ctx, "/api/workout/load/0", map[string]string{"carga": "20kg"})
	if err != nil {
		return fmt.Errorf("record load: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("record load returned status %d", resp.StatusCode)
	}

	logger.LogAttrs(ctx, slog.LevelDebug, "Workout scenario completed",
		slog.String("email", user.Email),
		slog.String("day", day))

	return nil
}

// runLoadTest runs the workout scenario for every user concurrently.
func runLoadTest(ctx context.Context, users []*sessionUser, logger *slog.Logger) error {
	userCount := len(users)
	logger.LogAttrs(ctx, slog.LevelInfo, "Starting load test", slog.Int("num_users", userCount))

	var successCount, failureCount int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentOperations)

	for _, user := range users {
		g.Go(func() error {
			scenarioCtx, cancel := context.WithTimeout(ctx, scenarioTimeout)
			defer cancel()

			if err := workoutScenario(scenarioCtx, user, logger); err != nil {
				atomic.AddInt64(&failureCount, 1)
				// A single failed scenario should not stop the others.
				logger.LogAttrs(scenarioCtx, slog.LevelWarn, "Scenario failed",
					slog.String("email", user.Email),
					slog.Any("error", err))
				return nil
			}

			atomic.AddInt64(&successCount, 1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("load test failed: %w", err)
	}

	successRate := float64(successCount) / float64(userCount) * percentageMultiplier

	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed",
		slog.Int64("successful", successCount),
		slog.Int64("failed", failureCount),
		slog.Float64("success_rate", successRate))

	if successRate < successRateThreshold {
		return fmt.Errorf("load test failed: success rate %.1f%% below threshold", successRate)
	}

	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		start    = time.Now()
	)

	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))

	serverURL := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		serverURL = "http://" + hostname
		hostname = "localhost"
	}
	client, err := e2etest.NewClient(serverURL, hostname, serverURL)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", slog.Any("error", err))
		os.Exit(1)
	}

	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}

	if err = testSmoke(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "smoke test failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test passed ✓")

	setupStart := time.Now()
	users, err := setupUsers(ctx, serverURL, hostname, logger)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failed to setup users", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "User setup completed",
		slog.Duration("setup_duration", time.Since(setupStart)),
		slog.Int("logged_in_users", len(users)))

	loadTestStart := time.Now()
	if err = runLoadTest(ctx, users, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "load test failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed successfully 🙌",
		slog.Duration("total_duration", time.Since(start)),
		slog.Duration("load_test_duration", time.Since(loadTestStart)),
		slog.Int("users_tested", len(users)))
}
