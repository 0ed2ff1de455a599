package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/sakif/repohub/internal/github"
)

// SearchHandler proxies repository searches to the GitHub search API.
type SearchHandler struct {
	client *github.Client
	logger *slog.Logger
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(client *github.Client, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{client: client, logger: logger}
}

// HandleSearch forwards a repository search to GitHub and streams back the
// raw result body.
//
// HTTP: GET /api/search?q=&language=&minStars=&maxStars=&topics=a,b&page=N
//
// All params are optional; an empty q falls back to the stars:>100 default
// the search view ships with. Unparsable numbers are treated as absent rather
// than rejected — the filters come from UI controls, not hand-written input.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := github.SearchQuery{
		Term:     q.Get("q"),
		Language: q.Get("language"),
		MinStars: atoiOrZero(q.Get("minStars")),
		MaxStars: atoiOrZero(q.Get("maxStars")),
		Page:     atoiOrZero(q.Get("page")),
	}
	if topics := q.Get("topics"); topics != "" {
		query.Topics = strings.Split(topics, ",")
	}

	body, err := h.client.SearchRepositories(r.Context(), query)
	if err != nil {
		h.logger.Error("GitHub search failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
