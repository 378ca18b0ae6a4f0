package presence

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/smdiallo/presence-management/internal"
	"github.com/smdiallo/presence-management/internal/transport"
)

const timestampLayout = "02-01-2006 15:04:05"

type ServiceAPI interface {
	ClockIn(matricule string) (*Presence, error)
	ClockOut(matricule string) (*Presence, error)
	Today() ([]*Presence, error)
	History() ([]*Presence, float64, error)
	Board() ([]StampRow, error)
}

type Handler struct {
	*transport.BaseHandler
	Service   ServiceAPI
	Directory EmployeeDirectory
}

func NewHandler(base *transport.BaseHandler, service ServiceAPI, directory EmployeeDirectory) *Handler {
	return &Handler{
		BaseHandler: base,
		Service:     service,
		Directory:   directory,
	}
}

// Entry handles POST /entry/{matricule}. Unknown matricules soft-fail
// with a flashed message rather than a 404 page.
func (h *Handler) Entry(w http.ResponseWriter, r *http.Request) {
	matricule := chi.URLParam(r, "matricule")

	p, err := h.Service.ClockIn(matricule)
	if err != nil {
		h.FlashError(w, r, entryErrorMessage(matricule, err, h))
		h.Redirect(w, r, "/presences/enregistrer")
		return
	}

	name := h.employeeName(matricule)
	h.FlashSuccess(w, r, fmt.Sprintf("Entrée enregistrée pour %s à %s", name, p.EntryTime.Format(timestampLayout)))
	h.Redirect(w, r, "/presences/enregistrer")
}

// Exit handles POST /exit/{matricule}.
func (h *Handler) Exit(w http.ResponseWriter, r *http.Request) {
	matricule := chi.URLParam(r, "matricule")

	p, err := h.Service.ClockOut(matricule)
	if err != nil {
		h.FlashError(w, r, flashMessage(err))
		h.Redirect(w, r, "/presences/enregistrer")
		return
	}

	name := h.employeeName(matricule)
	h.FlashSuccess(w, r, fmt.Sprintf("Sortie enregistrée pour %s à %s", name, p.ExitTime.Format(timestampLayout)))
	h.Redirect(w, r, "/presences/enregistrer")
}

// Register handles GET /presences/enregistrer, the stamping view.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	board, err := h.Service.Board()
	if err != nil {
		h.Logger.Error("failed to build stamping board", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.Render(w, r, "list_employes.html", map[string]any{
		"Rows": board,
		"Now":  time.Now(),
	})
}

// Today handles GET /presences/jour.
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	presences, err := h.Service.Today()
	if err != nil {
		h.Logger.Error("failed to list today's presences", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.Render(w, r, "list_presences.html", map[string]any{
		"Presences": presences,
		"TodayDate": time.Now().Format("02 January 2006"),
	})
}

// History handles GET /presences/historique.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	presences, totalHours, err := h.Service.History()
	if err != nil {
		h.Logger.Error("failed to list presence history", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.Render(w, r, "historique.html", map[string]any{
		"Presences":  presences,
		"TotalHours": totalHours,
	})
}

func (h *Handler) employeeName(matricule string) string {
	emp, err := h.Directory.Get(matricule)
	if err != nil || emp == nil {
		return matricule
	}
	return emp.FullName()
}

// entryErrorMessage personalizes the duplicate-entry message with the
// employee's name, matching the wording of the stamping view.
func entryErrorMessage(matricule string, err error, h *Handler) string {
	if appErr, ok := internal.IsAppError(err); ok {
		if appErr.Code == internal.ErrCodeDuplicateEntry {
			return fmt.Sprintf("L'employé %s a déjà enregistré son entrée pour aujourd'hui.", h.employeeName(matricule))
		}
		if appErr.Type != internal.ErrorTypeInternal {
			return appErr.Message
		}
	}
	return "Une erreur interne est survenue."
}

func flashMessage(err error) string {
	if appErr, ok := internal.IsAppError(err); ok && appErr.Type != internal.ErrorTypeInternal {
		return appErr.Message
	}
	return "Une erreur interne est survenue."
}
