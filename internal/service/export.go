package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mmynk/splitledger/internal/export"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/session"
	"github.com/mmynk/splitledger/internal/shell"
)

// Export paths.
const (
	PersonalExportPath = "/export/personal.csv"
	GroupExportPath    = "/export/group.csv"
)

// ExportHandler serves CSV downloads of a session's ledgers. Browsers cannot
// set headers on a plain link, so the token may also come from the
// "session" query parameter.
type ExportHandler struct {
	store  session.Store
	tokens *session.Tokens
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(store session.Store, tokens *session.Tokens) *ExportHandler {
	return &ExportHandler{store: store, tokens: tokens}
}

// Register mounts the export routes on mux.
func (h *ExportHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+PersonalExportPath, h.personal)
	mux.HandleFunc("GET "+GroupExportPath, h.group)
}

// personal writes entries in [start, end], defaulting to the same window as
// the expense history page.
func (h *ExportHandler) personal(w http.ResponseWriter, r *http.Request) {
	st, ok := h.state(w, r)
	if !ok {
		return
	}

	start, end := shell.DefaultRangeStart, shell.DefaultRangeEnd
	for param, dst := range map[string]*models.Date{"start": &start, "end": &end} {
		raw := r.URL.Query().Get(param)
		if raw == "" {
			continue
		}
		date, err := models.ParseDate(raw)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid %s: %v", param, err), http.StatusBadRequest)
			return
		}
		*dst = date
	}

	writeCSVHeaders(w, "expenses.csv")
	if err := export.WritePersonal(w, st.Personal.FilterByDateRange(start, end)); err != nil {
		slog.Error("Failed to write personal export", "error", err)
	}
}

func (h *ExportHandler) group(w http.ResponseWriter, r *http.Request) {
	st, ok := h.state(w, r)
	if !ok {
		return
	}

	writeCSVHeaders(w, "group_expenses.csv")
	if err := export.WriteGroup(w, st.Group.Rows()); err != nil {
		slog.Error("Failed to write group export", "error", err)
	}
}

// state resolves the caller's session, writing the error response itself
// when it cannot.
func (h *ExportHandler) state(w http.ResponseWriter, r *http.Request) (session.State, bool) {
	token := middleware.BearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("session")
	}

	id, err := h.tokens.Validate(token)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return session.State{}, false
	}

	st, err := h.store.Get(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, session.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return session.State{}, false
	}
	return st, true
}

func writeCSVHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
