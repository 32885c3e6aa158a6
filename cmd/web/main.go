package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/trainew/trainew/internal/ai"
	"github.com/trainew/trainew/internal/catalog"
	"github.com/trainew/trainew/internal/chat"
	"github.com/trainew/trainew/internal/envstruct"
	"github.com/trainew/trainew/internal/errors"
	"github.com/trainew/trainew/internal/kvstore"
	"github.com/trainew/trainew/internal/logging"
	"github.com/trainew/trainew/internal/sqlite"
	"github.com/trainew/trainew/internal/workout"
)

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	catalogService *catalog.Service
	chatService    *chat.Service
	workoutService *workout.Service
	staticRoot     string
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"TRAINEW_ADDR" envDefault:"localhost:8081"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"TRAINEW_SQLITE_URL" envDefault:"./trainew.sqlite3"`
	// OpenAIAPIKey authenticates the conversational backend. Empty disables it;
	// local plan generation keeps working.
	OpenAIAPIKey string `env:"OPENAI_API_KEY" envDefault:""`
	// StaticPath is the path to the directory containing the browser UI assets.
	StaticPath string `env:"TRAINEW_STATIC_PATH" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	sessionManager := initializeSessionManager(db)

	catalogService, err := catalog.NewService(ctx, db, logger)
	if err != nil {
		return errors.Wrap(err, "initialize exercise catalog")
	}

	var aiClient ai.Client
	if cfg.OpenAIAPIKey != "" {
		aiClient = ai.NewOpenAIClient(cfg.OpenAIAPIKey)
	} else {
		logger.LogAttrs(ctx, slog.LevelWarn, "OPENAI_API_KEY not set, conversational backend disabled")
		aiClient = ai.Disabled{}
	}

	chatService, err := chat.NewService(aiClient, catalogService, logger)
	if err != nil {
		return errors.Wrap(err, "initialize chat service")
	}

	staticRoot, err := resolveStaticRoot(cfg.StaticPath)
	if err != nil {
		return errors.Wrap(err, "resolve static path")
	}

	app := application{
		logger:         logger,
		sessionManager: sessionManager,
		catalogService: catalogService,
		chatService:    chatService,
		workoutService: workout.NewService(kvstore.New(db, logger), catalogService, logger),
		staticRoot:     staticRoot,
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func initializeSessionManager(dbs *sqlite.Database) *scs.SessionManager {
	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite, 24*time.Hour) //nolint:mnd // day
	sessionManager.Lifetime = 12 * time.Hour                                                //nolint:mnd // half a day
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.Secure = true
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteStrictMode
	return sessionManager
}

func main() {
	// Missing .env is fine, the environment may be configured directly.
	_ = godotenv.Load()

	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
