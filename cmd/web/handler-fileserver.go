package main

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// resolveStaticRoot locates the browser UI assets. An explicit path must
// exist; otherwise the default location is searched relative to the working
// directory and the module root.
func resolveStaticRoot(configured string) (string, error) {
	if configured != "" {
		stat, err := os.Stat(configured)
		if err != nil || !stat.IsDir() {
			return "", fmt.Errorf("static root %s does not exist or is not a directory", configured)
		}
		return configured, nil
	}

	fileRoot := path.Join(".", "ui", "static")
	if _, err := os.Stat(fileRoot); os.IsNotExist(err) {
		dir, err := findModuleDir()
		if err != nil {
			return "", fmt.Errorf("findModuleDir: %w", err)
		}
		fileRoot = path.Join(dir, "ui", "static")
	}
	stat, err := os.Stat(fileRoot)
	if err != nil || !stat.IsDir() {
		return "", fmt.Errorf("static root %s does not exist or is not a directory", fileRoot)
	}
	return fileRoot, nil
}

// findModuleDir walks up from the working directory to the directory
// containing go.mod.
func findModuleDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err = os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir { // If we reached the root directory
			break
		}
		dir = parentDir
	}

	return "", os.ErrNotExist
}

// fileServerHandler creates a file server handler with custom 404 handling.
func (app *application) fileServerHandler() (http.Handler, error) {
	fileServer := http.FileServer(http.Dir(app.staticRoot))

	noAuth := func(next http.Handler) http.Handler {
		return app.recoverPanic(app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
			commonContext(app.timeout(next))))))
	}

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.clientError(w, r, http.StatusNotFound, "not found")
	})

	return noAuth(cacheForever(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Sanitize the URL path to prevent directory traversal attacks
			cleanPath := filepath.Clean(r.URL.Path)
			if strings.Contains(cleanPath, "..") {
				notFound.ServeHTTP(w, r)
				return
			}
			staticPath := filepath.Join(app.staticRoot, cleanPath)
			stat, err := os.Stat(staticPath)
			if os.IsNotExist(err) {
				notFound.ServeHTTP(w, r)
				return
			}
			if err == nil && stat.IsDir() {
				// Directories fall through to index.html handling.
				if _, err = os.Stat(filepath.Join(staticPath, "index.html")); err != nil {
					notFound.ServeHTTP(w, r)
					return
				}
			}

			fileServer.ServeHTTP(w, r)
		}))), nil
}
