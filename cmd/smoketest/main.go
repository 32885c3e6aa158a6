// Command smoketest exercises a deployed server: health, login, plan
// generation and the workout state endpoint.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/trainew/trainew/internal/e2etest"
	"github.com/trainew/trainew/internal/logging"
	"github.com/trainew/trainew/internal/testhelpers"
)

func testSession(client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	if err := client.Login(ctx, "smoketest@example.com"); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := client.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func testPlanGeneration(client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second) //nolint:mnd // backend call
	defer cancel()

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
		Reply string `json:"reply"`
	}
	if err = e2etest.DecodeJSON(resp, &body); err != nil {
		return err
	}
	if !strings.Contains(body.Reply, "Seu Treino Personalizado") {
		return fmt.Errorf("reply does not contain a generated plan")
	}

	resp, err = client.Get(ctx, "/api/workout")
	if err != nil {
		return fmt.Errorf("get workout state: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("workout state returned status %d", resp.StatusCode)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		client   *e2etest.Client
		err      error
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
		hostname = "localhost"
	}

	if client, err = e2etest.NewClient(url, hostname, url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", slog.Any("error", err))
		os.Exit(1)
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}
	if err = testSession(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing session", slog.Any("error", err))
		os.Exit(1)
	}
	if err = testPlanGeneration(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing plan generation", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}
