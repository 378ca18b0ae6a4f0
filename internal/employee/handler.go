package employee

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/smdiallo/presence-management/internal"
	"github.com/smdiallo/presence-management/internal/transport"
)

type ServiceAPI interface {
	List() ([]*Employee, error)
	Get(matricule string) (*Employee, error)
	Add(dto EmployeeFormDTO) (*Employee, error)
	Edit(currentMatricule string, dto EmployeeFormDTO) (*Employee, error)
	Delete(matricule string) (*Employee, error)
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

// List handles GET /employes.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.List()
	if err != nil {
		h.Logger.Error("failed to list employees", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.Render(w, r, "employees.html", map[string]any{"Employees": employees})
}

// Add handles POST /employes/add.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	dto := EmployeeFormDTO{
		Matricule: r.FormValue("matricule"),
		LastName:  r.FormValue("nom"),
		FirstName: r.FormValue("prenom"),
	}

	emp, err := h.Service.Add(dto)
	if err != nil {
		h.FlashError(w, r, flashMessage(err))
		h.Redirect(w, r, "/employes")
		return
	}

	h.FlashSuccess(w, r, fmt.Sprintf("Employé %s ajouté.", emp.FullName()))
	h.Redirect(w, r, "/employes")
}

// Edit handles GET and POST /edit_employe/{matricule}. An unknown
// matricule is a hard 404, unlike the soft-fail on entry/exit.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	matricule := chi.URLParam(r, "matricule")

	if r.Method == http.MethodGet {
		emp, err := h.Service.Get(matricule)
		if err != nil {
			h.Logger.Error("failed to load employee", "matricule", matricule, "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if emp == nil {
			h.NotFound(w, r)
			return
		}
		h.Render(w, r, "edit_employe.html", map[string]any{"Employee": emp})
		return
	}

	dto := EmployeeFormDTO{
		Matricule: r.FormValue("matricule"),
		LastName:  r.FormValue("nom"),
		FirstName: r.FormValue("prenom"),
	}

	emp, err := h.Service.Edit(matricule, dto)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Code == internal.ErrCodeEmployeeNotFound {
			h.NotFound(w, r)
			return
		}
		h.FlashError(w, r, flashMessage(err))
		h.Redirect(w, r, "/employes")
		return
	}

	h.FlashSuccess(w, r, fmt.Sprintf("Employé %s modifié.", emp.FullName()))
	h.Redirect(w, r, "/employes")
}

// Delete handles POST /delete_employe/{matricule}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	matricule := chi.URLParam(r, "matricule")

	emp, err := h.Service.Delete(matricule)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Code == internal.ErrCodeEmployeeNotFound {
			h.NotFound(w, r)
			return
		}
		h.FlashError(w, r, flashMessage(err))
		h.Redirect(w, r, "/employes")
		return
	}

	h.FlashSuccess(w, r, fmt.Sprintf("Employé %s supprimé.", emp.FullName()))
	h.Redirect(w, r, "/employes")
}

func flashMessage(err error) string {
	if appErr, ok := internal.IsAppError(err); ok && appErr.Type != internal.ErrorTypeInternal {
		return appErr.Message
	}
	return "Une erreur interne est survenue."
}
