package handler

import (
	"fmt"
	"net/http"
)

// HandleRoot is the liveness endpoint.
//
// HTTP: GET /api/ and GET /api/root
func HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "RepoHub API is running"})
}

// HandleNotFound answers any unrecognised path or method combination with
// the catch-all 404 shape the web client parses. It is installed as both
// the router's NotFound and MethodNotAllowed handler — an unsupported method
// on a known path is indistinguishable from an unknown route.
func HandleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{
		Error: fmt.Sprintf("Route %s not found", routePath(r)),
	})
}

// routePath strips the /api prefix so the message names only the segments
// after /api, which is the path the client asked for.
func routePath(r *http.Request) string {
	path := r.URL.Path
	if len(path) >= 4 && path[:4] == "/api" {
		path = path[4:]
	}
	if path == "" {
		path = "/"
	}
	return path
}
