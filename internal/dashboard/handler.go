package dashboard

import (
	"net/http"

	"github.com/smdiallo/presence-management/internal/transport"
)

type ServiceAPI interface {
	Stats() (*Stats, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: base,
		Service:     service,
	}
}

// Index handles GET /.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats()
	if err != nil {
		h.Logger.Error("failed to load dashboard stats", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.Render(w, r, "index.html", map[string]any{
		"TotalEmployees": stats.TotalEmployees,
		"PresencesToday": stats.PresencesToday,
	})
}
