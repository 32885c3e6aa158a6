// Package e2etest runs the real server inside a test and talks to it over
// HTTP with a cookie-aware JSON client.
package e2etest

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/trainew/trainew/internal/logging"
)

// Server is a running application instance under test.
type Server struct {
	url        string
	client     *Client
	db         *sql.DB
	cancel     context.CancelCauseFunc
	serverDone chan struct{}
}

// LogAddrKey is the log attribute carrying the listen address. The server
// binds to port 0 in tests, so the harness learns the port from this line.
const LogAddrKey = "addr"

// LogDsnKey is the log attribute carrying the sqlite DSN, which lets tests
// open the same database for direct manipulation.
const LogDsnKey = "sqlDsn"

// StartServer runs the application via run, waits until it answers the health
// check and returns a handle for tests.
//
// logSink receives the server logs; usually a testhelpers.NewWriter. The
// lookupEnv function supplies configuration and has the signature of
// [os.LookupEnv]. The address and DSN are sniffed from the log stream through
// LogAddrKey and LogDsnKey.
func StartServer(
	t *testing.T,
	logSink io.Writer,
	lookupEnv func(string) (string, bool),
	run func(context.Context, *slog.Logger, func(string) (string, bool)) error,
) (*Server, error) {
	var (
		server *Server
		ctx    = t.Context()
	)
	t.Cleanup(func() {
		if server != nil {
			server.Shutdown()
		}
	})
	ctx, cancel := context.WithCancelCause(ctx)
	serverDone := make(chan struct{})

	addrCh := make(chan string, 1)
	dsnCh := make(chan string, 1)
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == LogAddrKey {
				addrCh <- a.Value.String()
			}
			if a.Key == LogDsnKey {
				dsnCh <- a.Value.String()
			}
			return a
		},
	})))

	go func() {
		defer close(serverDone)
		if err := run(ctx, logger, lookupEnv); err != nil {
			cancel(err)
		}
	}()

	var addr, dsn string
	for dsn == "" || addr == "" {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled: %w", context.Cause(ctx))
		case addr = <-addrCh:
		case dsn = <-dsnCh:
		}
	}

	serverURL := fmt.Sprintf("http://%s", addr)
	client, err := NewClient(serverURL, "localhost", "http://localhost:0")
	if err != nil {
		return nil, fmt.Errorf("new client: %w", err)
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		return nil, fmt.Errorf("wait for ready: %w", err)
	}
	var db *sql.DB
	if db, err = sql.Open("sqlite3", dsn); err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	server = &Server{
		url:        serverURL,
		client:     client,
		db:         db,
		cancel:     cancel,
		serverDone: serverDone,
	}

	return server, nil
}

// Client returns a client whose cookie jar is shared across calls.
func (s *Server) Client() *Client {
	return s.client
}

// URL is the base URL of the running server.
func (s *Server) URL() string {
	return s.url
}

// DB is a connection to the server's database.
func (s *Server) DB() *sql.DB {
	return s.db
}

// Shutdown stops the server and waits for it to exit.
func (s *Server) Shutdown() {
	s.cancel(nil)
	<-s.serverDone
}
