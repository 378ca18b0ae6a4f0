package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/smdiallo/presence-management/internal/view"
	"github.com/smdiallo/presence-management/pkg/logger"
)

// BaseHandler provides HTML rendering, flash and redirect helpers shared
// by all page handlers.
type BaseHandler struct {
	Logger   *slog.Logger
	Sessions *SessionManager
}

func NewBaseHandler(lg *slog.Logger, sessions *SessionManager) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg, Sessions: sessions}
}

// Render draws a page through the shared layout, injecting pending flashes
// and the login state.
func (h *BaseHandler) Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["Flashes"] = h.Sessions.Flashes(w, r)
	_, loggedIn := h.Sessions.UserID(r)
	data["LoggedIn"] = loggedIn

	if err := view.Render(w, name, data); err != nil {
		h.Logger.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// FlashSuccess records a success message shown after the next redirect.
func (h *BaseHandler) FlashSuccess(w http.ResponseWriter, r *http.Request, message string) {
	h.Sessions.AddFlash(w, r, "success", message)
}

// FlashError records an error message shown after the next redirect.
func (h *BaseHandler) FlashError(w http.ResponseWriter, r *http.Request, message string) {
	h.Sessions.AddFlash(w, r, "error", message)
}

func (h *BaseHandler) Redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// NotFound renders the hard 404 page used when a directory operation
// references an unknown matricule.
func (h *BaseHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	if err := view.Render(w, "not_found.html", map[string]any{}); err != nil {
		h.Logger.Error("failed to render 404 page", "error", err)
	}
}

// WriteJSON writes a JSON response, used by the health endpoints.
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}
